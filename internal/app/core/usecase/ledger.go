package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/domain"
)

// ErrLedgerClosed Ledger 已停止，不再接受請求
var ErrLedgerClosed = errors.New("ledger closed")

// Ledger 是帳務系統的介面 (Driven Port)
// 實作必須序列化所有讀寫，轉帳的扣款與入帳對其他呼叫者必須是一次完成的
type Ledger interface {
	// CreateCustomer 建立客戶，回傳客戶 ID
	CreateCustomer(ctx context.Context, name string) (int64, error)
	// CreateAccount 為客戶開戶，回傳帳號
	CreateAccount(ctx context.Context, customerID int64) (int64, error)
	// 不分 Deposit/Withdraw/Transfer，直接看 req.Type 決定
	PostTransaction(ctx context.Context, req *domain.TransactionRequest) (decimal.Decimal, error)
	// ListAccounts 列出客戶的所有帳戶
	ListAccounts(ctx context.Context, customerID int64) ([]domain.AccountSummary, error)
	// ListTransactions 取得帳戶最後 lastN 筆交易
	ListTransactions(ctx context.Context, ref domain.AccountRef, lastN int) ([]domain.Transaction, error)
	// Customer 取得客戶快照
	Customer(ctx context.Context, customerID int64) (domain.CustomerSummary, error)
}
