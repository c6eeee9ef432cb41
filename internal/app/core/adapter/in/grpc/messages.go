package grpc

// AccountRef 以 (客戶 ID, 帳號) 定位帳戶
type AccountRef struct {
	CustomerID    int64 `json:"customer_id"`
	AccountNumber int64 `json:"account_number"`
}

type CreateCustomerRequest struct {
	Name string `json:"name"`
}

type CreateCustomerResponse struct {
	CustomerID int64 `json:"customer_id"`
}

type CreateAccountRequest struct {
	CustomerID int64 `json:"customer_id"`
}

type CreateAccountResponse struct {
	AccountNumber int64 `json:"account_number"`
}

// PostTransactionRequest 交易請求
// Type: "deposit" / "withdraw" / "transfer"
// Amount 為十進位字串，例如 "200.50"
// RefID 為選填的 UUID，相同 RefID 只會入帳一次
type PostTransactionRequest struct {
	RefID  string      `json:"ref_id,omitempty"`
	Type   string      `json:"type"`
	From   *AccountRef `json:"from,omitempty"`
	To     *AccountRef `json:"to,omitempty"`
	Amount string      `json:"amount"`
}

// PostTransactionResponse 業務錯誤以 Success=false 回傳 (Soft Failure)
// 存款回傳 To 的餘額，提款與轉帳回傳 From 的餘額
type PostTransactionResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message,omitempty"`
	CurrentBalance string `json:"current_balance,omitempty"`
}

type ListAccountsRequest struct {
	CustomerID int64 `json:"customer_id"`
}

type Account struct {
	AccountNumber int64  `json:"account_number"`
	Balance       string `json:"balance"`
}

type ListAccountsResponse struct {
	Accounts []Account `json:"accounts"`
}

// ListTransactionsRequest LastN <= 0 時使用伺服器預設筆數
type ListTransactionsRequest struct {
	CustomerID    int64 `json:"customer_id"`
	AccountNumber int64 `json:"account_number"`
	LastN         int32 `json:"last_n"`
}

type Transaction struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Amount    string `json:"amount"`
	Note      string `json:"note"`
	CreatedAt int64  `json:"created_at"`
}

type ListTransactionsResponse struct {
	Transactions []Transaction `json:"transactions"`
}

type GetCustomerRequest struct {
	CustomerID int64 `json:"customer_id"`
}

type GetCustomerResponse struct {
	CustomerID   int64  `json:"customer_id"`
	Name         string `json:"name"`
	AccountCount int64  `json:"account_count"`
}
