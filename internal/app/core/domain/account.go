package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	noteDeposit  = "Amount deposited"
	noteWithdraw = "Amount withdrawn"
)

const (
	// MaxAmountScale 金額最多小數位數
	MaxAmountScale = 8
	// MaxAmountIntDigits 金額整數部分最多位數
	MaxAmountIntDigits = 15
)

// Account 帳戶
//
// 結構:
//
//	number: 帳號 (由 Registry 分配，建立後不變)
//	balance: 餘額，恆 >= 0
//	history: 交易紀錄，只會 append，順序即時間順序
//
// Account 本身不做同步，由外層 Ledger 負責鎖定
type Account struct {
	number  int64
	balance decimal.Decimal
	history []Transaction
}

// AccountSummary 帳戶快照 (帳號 + 餘額)
type AccountSummary struct {
	Number  int64
	Balance decimal.Decimal
}

// NewAccount 建立餘額為 0、沒有交易紀錄的帳戶
func NewAccount(number int64) *Account {
	return &Account{
		number:  number,
		balance: decimal.Zero,
	}
}

func (a *Account) Number() int64 { return a.number }

func (a *Account) Balance() decimal.Decimal { return a.balance }

func (a *Account) Summary() AccountSummary {
	return AccountSummary{Number: a.number, Balance: a.balance}
}

// Deposit 存款
//
// 參數:
//
//	amount: 存款金額，必須 > 0
//
// 回傳:
//
//	decimal.Decimal: 存款後餘額
//	error: ErrInvalidAmount
func (a *Account) Deposit(amount decimal.Decimal) (decimal.Decimal, error) {
	if err := ValidateAmount(amount); err != nil {
		return a.balance, err
	}
	a.balance = a.balance.Add(amount)
	a.append(TransactionTypeDeposit, amount, noteDeposit)
	return a.balance, nil
}

// Withdraw 提款
//
// 參數:
//
//	amount: 提款金額，必須 > 0 且不可超過餘額
//
// 回傳:
//
//	decimal.Decimal: 提款後餘額
//	error: ErrInvalidAmount, ErrInsufficientBalance
func (a *Account) Withdraw(amount decimal.Decimal) (decimal.Decimal, error) {
	if err := a.checkDebit(amount); err != nil {
		return a.balance, err
	}
	a.balance = a.balance.Sub(amount)
	a.append(TransactionTypeWithdraw, amount, noteWithdraw)
	return a.balance, nil
}

// Transfer 轉帳至 to
// 所有檢查 (金額、同帳戶、來源餘額) 都在任何修改之前完成，
// 之後的扣款與入帳不會失敗，所以不會出現只扣款未入帳的狀態。
//
// 參數:
//
//	to: 轉入帳戶
//	amount: 轉帳金額
//
// 回傳:
//
//	decimal.Decimal: 轉出帳戶的新餘額
//	error: ErrInvalidAmount, ErrSameAccount, ErrInsufficientBalance, ErrAccountNotFound (to 為 nil)
func (a *Account) Transfer(to *Account, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := ValidateAmount(amount); err != nil {
		return a.balance, err
	}
	if to == nil {
		return a.balance, ErrAccountNotFound
	}
	if to == a || to.number == a.number {
		return a.balance, ErrSameAccount
	}
	if err := a.checkDebit(amount); err != nil {
		return a.balance, err
	}

	a.balance = a.balance.Sub(amount)
	to.balance = to.balance.Add(amount)

	a.append(TransactionTypeTransfer, amount, fmt.Sprintf("Sent to Acc %d", to.number))
	to.append(TransactionTypeTransfer, amount, fmt.Sprintf("Received from Acc %d", a.number))
	return a.balance, nil
}

// LastTransactions 依時間順序回傳最後 min(n, len(history)) 筆紀錄的複本
// n <= 0 或沒有紀錄時回傳空 slice
func (a *Account) LastTransactions(n int) []Transaction {
	if n <= 0 || len(a.history) == 0 {
		return []Transaction{}
	}
	start := 0
	if len(a.history) > n {
		start = len(a.history) - n
	}
	out := make([]Transaction, len(a.history)-start)
	copy(out, a.history[start:])
	return out
}

// HistoryLen 交易筆數
func (a *Account) HistoryLen() int { return len(a.history) }

// ValidateAmount 金額必須 > 0，且在 MaxAmountScale / MaxAmountIntDigits 範圍內
// 只看 Exponent 與位數，不做任何運算；像 1e200000000 這種值 rescale 會跑不完
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}
	if amount.Exponent() < -MaxAmountScale {
		return ErrInvalidAmount
	}
	if int64(amount.NumDigits())+int64(amount.Exponent()) > MaxAmountIntDigits {
		return ErrInvalidAmount
	}
	return nil
}

func (a *Account) checkDebit(amount decimal.Decimal) error {
	if err := ValidateAmount(amount); err != nil {
		return err
	}
	if amount.GreaterThan(a.balance) {
		return ErrInsufficientBalance
	}
	return nil
}

func (a *Account) append(t TransactionType, amount decimal.Decimal, note string) {
	a.history = append(a.history, Transaction{
		ID:        uuid.New(),
		Type:      t,
		Amount:    amount,
		Note:      note,
		CreatedAt: time.Now().UnixNano(),
	})
}
