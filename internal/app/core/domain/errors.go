package domain

import "errors"

var (
	// ErrInvalidAmount 金額必須為正數，且不超過允許的位數
	ErrInvalidAmount = errors.New("amount must be positive and within precision limits")

	// ErrInsufficientBalance 餘額不足
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrCustomerNotFound 找不到客戶
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrAccountNotFound 找不到帳戶
	ErrAccountNotFound = errors.New("account not found")

	// ErrSameAccount 轉出與轉入為同一帳戶
	ErrSameAccount = errors.New("cannot transfer to the same account")

	// ErrEmptyName 客戶名稱不可為空
	ErrEmptyName = errors.New("customer name must not be empty")

	// ErrUnknownTransactionType 未知的交易類型
	ErrUnknownTransactionType = errors.New("unknown transaction type")
)
