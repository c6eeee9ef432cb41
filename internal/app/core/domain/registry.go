package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// FirstCustomerID 第一個客戶 ID
	FirstCustomerID int64 = 1
	// FirstAccountNumber 第一個帳號
	FirstAccountNumber int64 = 1001
)

// Registry 是整個銀行的聚合根：持有所有客戶與兩個只會遞增的編號計數器。
// 帳號計數器跨客戶共用，所以帳號在全系統唯一。
//
// Registry 不做同步，由 adapter/out/memory 的 Ledger 序列化存取。
type Registry struct {
	customers      map[int64]*Customer
	nextCustomerID int64
	nextAccountNo  int64
}

func NewRegistry() *Registry {
	return &Registry{
		customers:      make(map[int64]*Customer),
		nextCustomerID: FirstCustomerID,
		nextAccountNo:  FirstAccountNumber,
	}
}

// CreateCustomer 建立客戶並分配新的客戶 ID
func (r *Registry) CreateCustomer(name string) (*Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	c := NewCustomer(r.nextCustomerID, name)
	r.customers[c.id] = c
	r.nextCustomerID++
	return c, nil
}

// FindCustomerByID 找不到時 ok 為 false
func (r *Registry) FindCustomerByID(id int64) (*Customer, bool) {
	c, ok := r.customers[id]
	return c, ok
}

// CreateAccountFor 為客戶開新帳戶
// 客戶不存在時不消耗帳號計數器
func (r *Registry) CreateAccountFor(customerID int64) (*Account, error) {
	c, ok := r.customers[customerID]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	acc := c.CreateAccount(r.nextAccountNo)
	r.nextAccountNo++
	return acc, nil
}

// ResolveAccount 兩段式查詢：客戶 ID -> 客戶 -> 帳號 -> 帳戶
func (r *Registry) ResolveAccount(ref AccountRef) (*Account, error) {
	c, ok := r.customers[ref.CustomerID]
	if !ok {
		return nil, fmt.Errorf("customer %d: %w", ref.CustomerID, ErrCustomerNotFound)
	}
	acc, ok := c.GetAccount(ref.AccountNumber)
	if !ok {
		return nil, fmt.Errorf("account %d of customer %d: %w", ref.AccountNumber, ref.CustomerID, ErrAccountNotFound)
	}
	return acc, nil
}

// Apply 執行一筆交易請求
//
// 參數:
//
//	req: 交易請求，依 Type 使用 From / To
//
// 回傳:
//
//	decimal.Decimal: 存款回傳 To 的新餘額，提款與轉帳回傳 From 的新餘額
//	error: 查詢或驗證錯誤，失敗時不會有任何狀態改變
func (r *Registry) Apply(req *TransactionRequest) (decimal.Decimal, error) {
	switch req.Type {
	case TransactionTypeDeposit:
		to, err := r.ResolveAccount(req.To)
		if err != nil {
			return decimal.Zero, err
		}
		return to.Deposit(req.Amount)
	case TransactionTypeWithdraw:
		from, err := r.ResolveAccount(req.From)
		if err != nil {
			return decimal.Zero, err
		}
		return from.Withdraw(req.Amount)
	case TransactionTypeTransfer:
		from, err := r.ResolveAccount(req.From)
		if err != nil {
			return decimal.Zero, err
		}
		to, err := r.ResolveAccount(req.To)
		if err != nil {
			return decimal.Zero, err
		}
		return from.Transfer(to, req.Amount)
	default:
		return decimal.Zero, ErrUnknownTransactionType
	}
}

// Accounts 列出客戶的所有帳戶
func (r *Registry) Accounts(customerID int64) ([]AccountSummary, error) {
	c, ok := r.customers[customerID]
	if !ok {
		return nil, ErrCustomerNotFound
	}
	return c.Accounts(), nil
}

// Transactions 取得帳戶最後 lastN 筆交易 (時間順序)
func (r *Registry) Transactions(ref AccountRef, lastN int) ([]Transaction, error) {
	acc, err := r.ResolveAccount(ref)
	if err != nil {
		return nil, err
	}
	return acc.LastTransactions(lastN), nil
}

// Customer 取得客戶快照
func (r *Registry) Customer(id int64) (CustomerSummary, error) {
	c, ok := r.customers[id]
	if !ok {
		return CustomerSummary{}, ErrCustomerNotFound
	}
	return c.Summary(), nil
}
