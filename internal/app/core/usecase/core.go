package usecase

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/domain"
)

// DefaultLastN 查詢交易紀錄時，呼叫端給 <= 0 的預設筆數
const DefaultLastN = 10

// CoreUseCase 是核心業務邏輯層
// CLI 與 gRPC 兩個 Driving Adapter 都透過它操作 Ledger
type CoreUseCase struct {
	ledger       Ledger
	logger       *slog.Logger
	defaultLastN int
}

// NewCoreUseCase 建立 CoreUseCase
//
// 參數:
//
//	ledger: Ledger 實作 (MutexLedger / LMAXLedger)
//	logger: 結構化 logger，nil 時使用 slog.Default()
//	defaultLastN: 交易查詢預設筆數，<= 0 時使用 DefaultLastN
func NewCoreUseCase(ledger Ledger, logger *slog.Logger, defaultLastN int) *CoreUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	if defaultLastN <= 0 {
		defaultLastN = DefaultLastN
	}
	return &CoreUseCase{
		ledger:       ledger,
		logger:       logger,
		defaultLastN: defaultLastN,
	}
}

// CreateCustomer 建立客戶
func (c *CoreUseCase) CreateCustomer(ctx context.Context, name string) (int64, error) {
	id, err := c.ledger.CreateCustomer(ctx, name)
	if err != nil {
		c.logger.WarnContext(ctx, "create customer failed", "name", name, "error", err)
		return 0, err
	}
	c.logger.InfoContext(ctx, "customer created", "customer_id", id, "name", name)
	return id, nil
}

// CreateAccount 開戶
func (c *CoreUseCase) CreateAccount(ctx context.Context, customerID int64) (int64, error) {
	accountNo, err := c.ledger.CreateAccount(ctx, customerID)
	if err != nil {
		c.logger.WarnContext(ctx, "create account failed", "customer_id", customerID, "error", err)
		return 0, err
	}
	c.logger.InfoContext(ctx, "account created", "customer_id", customerID, "account", accountNo)
	return accountNo, nil
}

// Deposit 存款，回傳新餘額
func (c *CoreUseCase) Deposit(ctx context.Context, to domain.AccountRef, amount decimal.Decimal) (decimal.Decimal, error) {
	return c.PostTransaction(ctx, &domain.TransactionRequest{
		Type:   domain.TransactionTypeDeposit,
		To:     to,
		Amount: amount,
	})
}

// Withdraw 提款，回傳新餘額
func (c *CoreUseCase) Withdraw(ctx context.Context, from domain.AccountRef, amount decimal.Decimal) (decimal.Decimal, error) {
	return c.PostTransaction(ctx, &domain.TransactionRequest{
		Type:   domain.TransactionTypeWithdraw,
		From:   from,
		Amount: amount,
	})
}

// Transfer 轉帳，回傳轉出帳戶的新餘額
func (c *CoreUseCase) Transfer(ctx context.Context, from, to domain.AccountRef, amount decimal.Decimal) (decimal.Decimal, error) {
	return c.PostTransaction(ctx, &domain.TransactionRequest{
		Type:   domain.TransactionTypeTransfer,
		From:   from,
		To:     to,
		Amount: amount,
	})
}

// PostTransaction 處理交易
func (c *CoreUseCase) PostTransaction(ctx context.Context, req *domain.TransactionRequest) (decimal.Decimal, error) {
	balance, err := c.ledger.PostTransaction(ctx, req)
	attrs := []any{
		"type", req.Type.String(),
		"amount", req.Amount.String(),
		"from", req.From.AccountNumber,
		"to", req.To.AccountNumber,
	}
	if err != nil {
		c.logger.WarnContext(ctx, "transaction rejected", append(attrs, "error", err)...)
		return decimal.Zero, err
	}
	c.logger.InfoContext(ctx, "transaction posted", append(attrs, "balance", balance.String())...)
	return balance, nil
}

// ShowAccounts 列出客戶帳戶
func (c *CoreUseCase) ShowAccounts(ctx context.Context, customerID int64) ([]domain.AccountSummary, error) {
	return c.ledger.ListAccounts(ctx, customerID)
}

// ShowTransactions 取得帳戶最後 lastN 筆交易，lastN <= 0 時改用預設筆數
func (c *CoreUseCase) ShowTransactions(ctx context.Context, ref domain.AccountRef, lastN int) ([]domain.Transaction, error) {
	if lastN <= 0 {
		lastN = c.defaultLastN
	}
	return c.ledger.ListTransactions(ctx, ref, lastN)
}

// GetCustomer 取得客戶資料
func (c *CoreUseCase) GetCustomer(ctx context.Context, customerID int64) (domain.CustomerSummary, error) {
	return c.ledger.Customer(ctx, customerID)
}
