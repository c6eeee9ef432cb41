package domain

// Customer 客戶，擁有多個帳戶 (依建立順序)
type Customer struct {
	id       int64
	name     string
	accounts []*Account
}

// CustomerSummary 客戶快照
type CustomerSummary struct {
	ID           int64
	Name         string
	AccountCount int
}

func NewCustomer(id int64, name string) *Customer {
	return &Customer{id: id, name: name}
}

func (c *Customer) ID() int64 { return c.id }

func (c *Customer) Name() string { return c.name }

func (c *Customer) Summary() CustomerSummary {
	return CustomerSummary{ID: c.id, Name: c.name, AccountCount: len(c.accounts)}
}

// CreateAccount 新增一個餘額為 0 的帳戶
// 帳號唯一性由 Registry 保證，這裡不檢查
func (c *Customer) CreateAccount(accountNumber int64) *Account {
	acc := NewAccount(accountNumber)
	c.accounts = append(c.accounts, acc)
	return acc
}

// GetAccount 依帳號線性搜尋，找不到時 ok 為 false
func (c *Customer) GetAccount(accountNumber int64) (*Account, bool) {
	for _, acc := range c.accounts {
		if acc.number == accountNumber {
			return acc, true
		}
	}
	return nil, false
}

// Accounts 依建立順序回傳各帳戶的帳號與餘額；沒有帳戶時回傳空 slice
func (c *Customer) Accounts() []AccountSummary {
	out := make([]AccountSummary, 0, len(c.accounts))
	for _, acc := range c.accounts {
		out = append(out, acc.Summary())
	}
	return out
}
