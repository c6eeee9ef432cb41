package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/usecase"
)

// MutexLedger 是一個使用 RWMutex 實現的帳本
//
// 結構:
//
//	mu: 寫入 (開戶、交易) 取寫鎖，查詢取讀鎖
//	engine: Registry 與已處理交易 Map
//
// 轉帳的扣款與入帳在同一個寫鎖內完成，讀者不會看到只扣款未入帳的狀態
type MutexLedger struct {
	mu     sync.RWMutex
	engine *engine
}

// NewMutexLedger 建立一個新的 MutexLedger 實例
//
// 參數:
//
//	registry: 初始 Registry，nil 時建立空的
//
// 回傳:
//
//	*MutexLedger: MutexLedger 實例
func NewMutexLedger(registry *domain.Registry) *MutexLedger {
	return &MutexLedger{
		engine: newEngine(registry),
	}
}

func (m *MutexLedger) CreateCustomer(ctx context.Context, name string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.createCustomer(name)
}

func (m *MutexLedger) CreateAccount(ctx context.Context, customerID int64) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.createAccount(customerID)
}

// PostTransaction 處理交易請求 (Level 1: Mutex Lock)
//
// 參數:
//
//	ctx: 上下文
//	req: 交易請求物件
//
// 回傳:
//
//	decimal.Decimal: 目標帳戶的新餘額
//	error: 處理錯誤
func (m *MutexLedger) PostTransaction(ctx context.Context, req *domain.TransactionRequest) (decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.engine.postTransaction(req)
}

func (m *MutexLedger) ListAccounts(ctx context.Context, customerID int64) ([]domain.AccountSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.engine.listAccounts(customerID)
}

func (m *MutexLedger) ListTransactions(ctx context.Context, ref domain.AccountRef, lastN int) ([]domain.Transaction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.engine.listTransactions(ref, lastN)
}

func (m *MutexLedger) Customer(ctx context.Context, customerID int64) (domain.CustomerSummary, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.engine.customer(customerID)
}

var _ usecase.Ledger = (*MutexLedger)(nil)
