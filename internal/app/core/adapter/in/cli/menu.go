package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/usecase"
)

const menuText = `
===== Banking System Menu =====
1. Create Customer
2. Create Account
3. Deposit
4. Withdraw
5. Transfer
6. Show Accounts
7. Show Transactions
8. Exit
Enter choice: `

// errInputClosed 輸入結束 (EOF)
var errInputClosed = errors.New("input closed")

// Menu 互動式選單 (Driving Adapter)
// 負責讀取與解析輸入、呈現結果；所有業務規則都在 CoreUseCase 之後
type Menu struct {
	core *usecase.CoreUseCase
	in   *bufio.Scanner
	out  io.Writer
}

// NewMenu 以空白分隔的 token 讀取輸入 (與 cin >> 相同)
func NewMenu(core *usecase.CoreUseCase, in io.Reader, out io.Writer) *Menu {
	scanner := bufio.NewScanner(in)
	scanner.Split(bufio.ScanWords)
	return &Menu{core: core, in: scanner, out: out}
}

// Run 執行選單直到選擇 Exit、輸入結束或 ctx 取消
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.print(menuText)

		token, err := m.next()
		if err != nil {
			return m.closed(err)
		}
		choice, err := strconv.Atoi(token)
		if err != nil {
			m.println("Invalid input. Exiting.")
			return nil
		}

		switch choice {
		case 1:
			err = m.createCustomer(ctx)
		case 2:
			err = m.createAccount(ctx)
		case 3:
			err = m.deposit(ctx)
		case 4:
			err = m.withdraw(ctx)
		case 5:
			err = m.transfer(ctx)
		case 6:
			err = m.showAccounts(ctx)
		case 7:
			err = m.showTransactions(ctx)
		case 8:
			m.println("Goodbye!")
			return nil
		default:
			m.println("Invalid choice. Try again.")
		}
		if err != nil {
			return m.closed(err)
		}
	}
}

func (m *Menu) createCustomer(ctx context.Context) error {
	m.print("Enter Customer Name (single word): ")
	name, err := m.next()
	if err != nil {
		return err
	}
	id, err := m.core.CreateCustomer(ctx, name)
	if err != nil {
		m.report(err)
		return nil
	}
	m.printf("Customer created with ID: %d\n", id)
	return nil
}

func (m *Menu) createAccount(ctx context.Context) error {
	id, err := m.readInt("Enter Customer ID: ")
	if err != nil {
		return err
	}
	accountNo, err := m.core.CreateAccount(ctx, id)
	if err != nil {
		m.report(err)
		return nil
	}
	c, err := m.core.GetCustomer(ctx, id)
	if err != nil {
		m.report(err)
		return nil
	}
	m.printf("Account created for %s with Account No: %d\n", c.Name, accountNo)
	return nil
}

func (m *Menu) deposit(ctx context.Context) error {
	ref, ok, err := m.readAccount(ctx, "")
	if err != nil || !ok {
		return err
	}
	amount, err := m.readAmount("Amount to deposit: ")
	if err != nil {
		return err
	}
	balance, err := m.core.Deposit(ctx, ref, amount)
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		m.println("Invalid deposit amount.")
	case err != nil:
		m.report(err)
	default:
		m.printf("Deposit successful. New balance: %s\n", balance)
	}
	return nil
}

func (m *Menu) withdraw(ctx context.Context) error {
	ref, ok, err := m.readAccount(ctx, "")
	if err != nil || !ok {
		return err
	}
	amount, err := m.readAmount("Amount to withdraw: ")
	if err != nil {
		return err
	}
	balance, err := m.core.Withdraw(ctx, ref, amount)
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		m.println("Invalid withdrawal amount.")
	case errors.Is(err, domain.ErrInsufficientBalance):
		m.println("Insufficient balance.")
	case err != nil:
		m.report(err)
	default:
		m.printf("Withdrawal successful. New balance: %s\n", balance)
	}
	return nil
}

func (m *Menu) transfer(ctx context.Context) error {
	from, ok, err := m.readAccount(ctx, "From ")
	if err != nil || !ok {
		return err
	}
	to, ok, err := m.readAccount(ctx, "To ")
	if err != nil || !ok {
		return err
	}
	amount, err := m.readAmount("Amount to transfer: ")
	if err != nil {
		return err
	}
	balance, err := m.core.Transfer(ctx, from, to, amount)
	switch {
	case errors.Is(err, domain.ErrInvalidAmount):
		m.println("Invalid transfer amount.")
	case errors.Is(err, domain.ErrInsufficientBalance):
		m.println("Insufficient balance for transfer.")
	case errors.Is(err, domain.ErrSameAccount):
		m.println("Cannot transfer to the same account.")
	case err != nil:
		m.report(err)
	default:
		m.printf("Transfer successful. Your new balance: %s\n", balance)
	}
	return nil
}

func (m *Menu) showAccounts(ctx context.Context) error {
	id, err := m.readInt("Enter Customer ID: ")
	if err != nil {
		return err
	}
	c, err := m.core.GetCustomer(ctx, id)
	if err != nil {
		m.report(err)
		return nil
	}
	list, err := m.core.ShowAccounts(ctx, id)
	if err != nil {
		m.report(err)
		return nil
	}
	m.printf("\n--- Accounts of %s (ID %d) ---\n", c.Name, c.ID)
	if len(list) == 0 {
		m.println("No accounts found.")
		return nil
	}
	for _, acc := range list {
		m.printf("Account No: %d | Balance: %s\n", acc.Number, acc.Balance)
	}
	return nil
}

func (m *Menu) showTransactions(ctx context.Context) error {
	ref, ok, err := m.readAccount(ctx, "")
	if err != nil || !ok {
		return err
	}
	lastN, err := m.readInt("Show last how many transactions? (e.g., 10): ")
	if err != nil {
		return err
	}
	list, err := m.core.ShowTransactions(ctx, ref, int(lastN))
	if err != nil {
		m.report(err)
		return nil
	}
	m.printf("\n--- Transactions for Account %d ---\n", ref.AccountNumber)
	if len(list) == 0 {
		m.println("No transactions yet.")
		return nil
	}
	for _, tx := range list {
		m.printf("%s | %s | %s\n", tx.Type, tx.Amount, tx.Note)
	}
	return nil
}

// readAccount 兩段式查詢，任何一段找不到就印出訊息並回傳 ok=false
// label 為 "" / "From " / "To "
func (m *Menu) readAccount(ctx context.Context, label string) (domain.AccountRef, bool, error) {
	prefix := ""
	if label != "" {
		prefix = label[:len(label)-1] + "-"
	}

	id, err := m.readInt(label + "Customer ID: ")
	if err != nil {
		return domain.AccountRef{}, false, err
	}
	if _, err := m.core.GetCustomer(ctx, id); err != nil {
		if errors.Is(err, domain.ErrCustomerNotFound) {
			m.println(capitalize(prefix + "customer not found."))
			return domain.AccountRef{}, false, nil
		}
		m.report(err)
		return domain.AccountRef{}, false, nil
	}

	accountNo, err := m.readInt(label + "Account No: ")
	if err != nil {
		return domain.AccountRef{}, false, err
	}
	list, err := m.core.ShowAccounts(ctx, id)
	if err != nil {
		m.report(err)
		return domain.AccountRef{}, false, nil
	}
	for _, acc := range list {
		if acc.Number == accountNo {
			return domain.AccountRef{CustomerID: id, AccountNumber: accountNo}, true, nil
		}
	}
	m.println(capitalize(prefix + "account not found."))
	return domain.AccountRef{}, false, nil
}

// readInt 解析失敗時重新詢問
func (m *Menu) readInt(prompt string) (int64, error) {
	for {
		m.print(prompt)
		token, err := m.next()
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseInt(token, 10, 64)
		if err == nil {
			return v, nil
		}
		m.println("Invalid number, try again.")
	}
}

// readAmount 解析失敗時重新詢問；正負值檢查交給 domain
func (m *Menu) readAmount(prompt string) (decimal.Decimal, error) {
	for {
		m.print(prompt)
		token, err := m.next()
		if err != nil {
			return decimal.Zero, err
		}
		v, err := decimal.NewFromString(token)
		if err == nil {
			return v, nil
		}
		m.println("Invalid number, try again.")
	}
}

func (m *Menu) next() (string, error) {
	if m.in.Scan() {
		return m.in.Text(), nil
	}
	if err := m.in.Err(); err != nil {
		return "", err
	}
	return "", errInputClosed
}

// closed EOF 視為正常結束
func (m *Menu) closed(err error) error {
	if errors.Is(err, errInputClosed) {
		m.println("")
		return nil
	}
	return err
}

// report 將錯誤轉成使用者訊息
func (m *Menu) report(err error) {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound):
		m.println("Customer not found.")
	case errors.Is(err, domain.ErrAccountNotFound):
		m.println("Account not found.")
	case errors.Is(err, domain.ErrEmptyName):
		m.println("Customer name must not be empty.")
	default:
		m.printf("Error: %v\n", err)
	}
}

func (m *Menu) print(s string) {
	fmt.Fprint(m.out, s)
}

func (m *Menu) println(s string) {
	fmt.Fprintln(m.out, s)
}

func (m *Menu) printf(format string, args ...any) {
	fmt.Fprintf(m.out, format, args...)
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
