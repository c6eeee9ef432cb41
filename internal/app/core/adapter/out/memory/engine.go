package memory

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/domain"
)

// processedResult 已處理過交易的結果，重送時直接回傳
type processedResult struct {
	balance     decimal.Decimal
	processedAt time.Time
}

// engine 是兩種 Ledger 共用的狀態與核心邏輯
// 本身不做同步，呼叫者必須保證同一時間只有一個 goroutine 在操作
type engine struct {
	registry *domain.Registry
	// 已處理過的交易 (冪等)
	processedTransactions map[uuid.UUID]processedResult
}

func newEngine(registry *domain.Registry) *engine {
	if registry == nil {
		registry = domain.NewRegistry()
	}
	return &engine{
		registry:              registry,
		processedTransactions: make(map[uuid.UUID]processedResult),
	}
}

func (e *engine) createCustomer(name string) (int64, error) {
	c, err := e.registry.CreateCustomer(name)
	if err != nil {
		return 0, err
	}
	return c.ID(), nil
}

func (e *engine) createAccount(customerID int64) (int64, error) {
	acc, err := e.registry.CreateAccountFor(customerID)
	if err != nil {
		return 0, err
	}
	return acc.Number(), nil
}

// postTransaction 執行交易核心邏輯
//
// 參數:
//
//	req: 交易請求
//
// 回傳:
//
//	decimal.Decimal: 目標帳戶的新餘額
//	error: 處理錯誤
func (e *engine) postTransaction(req *domain.TransactionRequest) (decimal.Decimal, error) {
	if req.RequestID != uuid.Nil {
		if done, ok := e.processedTransactions[req.RequestID]; ok {
			return done.balance, nil
		}
	}

	balance, err := e.registry.Apply(req)
	if err != nil {
		return decimal.Zero, err
	}

	if req.RequestID != uuid.Nil {
		e.processedTransactions[req.RequestID] = processedResult{
			balance:     balance,
			processedAt: time.Now(),
		}
	}
	return balance, nil
}

func (e *engine) listAccounts(customerID int64) ([]domain.AccountSummary, error) {
	return e.registry.Accounts(customerID)
}

func (e *engine) listTransactions(ref domain.AccountRef, lastN int) ([]domain.Transaction, error) {
	return e.registry.Transactions(ref, lastN)
}

func (e *engine) customer(customerID int64) (domain.CustomerSummary, error) {
	return e.registry.Customer(customerID)
}
