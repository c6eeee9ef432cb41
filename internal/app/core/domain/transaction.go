package domain

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType 交易類型
type TransactionType uint8

const (
	// 存款
	TransactionTypeDeposit TransactionType = 1
	// 提款
	TransactionTypeWithdraw TransactionType = 2
	// 轉帳
	TransactionTypeTransfer TransactionType = 3
)

func (t TransactionType) String() string {
	switch t {
	case TransactionTypeDeposit:
		return "Deposit"
	case TransactionTypeWithdraw:
		return "Withdrawal"
	case TransactionTypeTransfer:
		return "Transfer"
	default:
		return "Unknown"
	}
}

// ParseTransactionType 將名稱轉回 TransactionType (不分大小寫，接受 Withdraw / Withdrawal)
func ParseTransactionType(s string) (TransactionType, error) {
	switch strings.ToLower(s) {
	case "deposit":
		return TransactionTypeDeposit, nil
	case "withdrawal", "withdraw":
		return TransactionTypeWithdraw, nil
	case "transfer":
		return TransactionTypeTransfer, nil
	}
	return 0, ErrUnknownTransactionType
}

// Transaction 帳戶歷史中的一筆紀錄，建立後不再修改
type Transaction struct {
	// Amount: 金額 (恆為正數)
	Amount decimal.Decimal
	// Note: 簡短說明，例如 "Sent to Acc 1002"
	Note string
	// CreatedAt: 交易時間 (UnixNano)
	CreatedAt int64
	// ID: 交易追蹤號
	ID   uuid.UUID
	Type TransactionType
}

// AccountRef 以 (客戶 ID, 帳號) 定位一個帳戶
type AccountRef struct {
	CustomerID    int64
	AccountNumber int64
}

// TransactionRequest 交易請求
// 不分 Deposit/Withdraw/Transfer 三個入口，直接看 Type 決定:
//
//	Deposit:  使用 To
//	Withdraw: 使用 From
//	Transfer: From -> To
type TransactionRequest struct {
	// RequestID: 外部冪等鍵，uuid.Nil 表示不做冪等檢查
	RequestID uuid.UUID
	From      AccountRef
	To        AccountRef
	Amount    decimal.Decimal
	Type      TransactionType
}

// Target 回傳交易完成後要回報餘額的帳戶
// 存款回報 To，提款與轉帳回報 From
func (r *TransactionRequest) Target() AccountRef {
	if r.Type == TransactionTypeDeposit {
		return r.To
	}
	return r.From
}
