package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestAccount_Deposit(t *testing.T) {
	acc := NewAccount(1001)

	bal, err := acc.Deposit(d("500"))
	require.NoError(t, err)
	assert.True(t, bal.Equal(d("500")))

	tx := acc.LastTransactions(10)
	require.Len(t, tx, 1)
	assert.Equal(t, TransactionTypeDeposit, tx[0].Type)
	assert.Equal(t, "Amount deposited", tx[0].Note)
	assert.True(t, tx[0].Amount.Equal(d("500")))
}

func TestAccount_RejectsNonPositiveAmounts(t *testing.T) {
	for _, amount := range []string{"0", "-1", "-0.01"} {
		t.Run(amount, func(t *testing.T) {
			acc := NewAccount(1001)
			other := NewAccount(1002)
			_, err := acc.Deposit(d("10"))
			require.NoError(t, err)

			_, err = acc.Deposit(d(amount))
			assert.ErrorIs(t, err, ErrInvalidAmount)
			_, err = acc.Withdraw(d(amount))
			assert.ErrorIs(t, err, ErrInvalidAmount)
			_, err = acc.Transfer(other, d(amount))
			assert.ErrorIs(t, err, ErrInvalidAmount)

			assert.True(t, acc.Balance().Equal(d("10")))
			assert.Equal(t, 1, acc.HistoryLen())
			assert.Equal(t, 0, other.HistoryLen())
		})
	}
}

func TestAccount_RejectsOutOfRangeAmounts(t *testing.T) {
	tests := []struct {
		name   string
		amount string
	}{
		{name: "huge exponent", amount: "1e200000000"},
		{name: "tiny exponent", amount: "1e-200000000"},
		{name: "too many decimals", amount: "0.000000001"},
		{name: "too many integer digits", amount: "1000000000000000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			acc := NewAccount(1001)
			other := NewAccount(1002)
			_, err := acc.Deposit(d("1.5"))
			require.NoError(t, err)

			_, err = acc.Deposit(d(tt.amount))
			assert.ErrorIs(t, err, ErrInvalidAmount)
			_, err = acc.Withdraw(d(tt.amount))
			assert.ErrorIs(t, err, ErrInvalidAmount)
			_, err = acc.Transfer(other, d(tt.amount))
			assert.ErrorIs(t, err, ErrInvalidAmount)

			assert.True(t, acc.Balance().Equal(d("1.5")))
			assert.Equal(t, 1, acc.HistoryLen())
			assert.True(t, other.Balance().IsZero())
		})
	}
}

func TestValidateAmount_Bounds(t *testing.T) {
	assert.NoError(t, ValidateAmount(d("0.00000001")))
	assert.NoError(t, ValidateAmount(d("999999999999999")))
	assert.NoError(t, ValidateAmount(d("999999999999999.99999999")))
	assert.NoError(t, ValidateAmount(d("10.50")))
	assert.ErrorIs(t, ValidateAmount(d("0.000000001")), ErrInvalidAmount)
	assert.ErrorIs(t, ValidateAmount(d("1e15")), ErrInvalidAmount)
}

func TestAccount_WithdrawInsufficientBalance(t *testing.T) {
	acc := NewAccount(1001)

	bal, err := acc.Withdraw(d("50"))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
	assert.True(t, bal.IsZero())
	assert.Equal(t, 0, acc.HistoryLen())
	assert.Empty(t, acc.LastTransactions(10))
}

func TestAccount_WithdrawExactBalance(t *testing.T) {
	acc := NewAccount(1001)
	_, err := acc.Deposit(d("75.25"))
	require.NoError(t, err)

	bal, err := acc.Withdraw(d("75.25"))
	require.NoError(t, err)
	assert.True(t, bal.IsZero())

	tx := acc.LastTransactions(10)
	require.Len(t, tx, 2)
	assert.Equal(t, TransactionTypeWithdraw, tx[1].Type)
	assert.Equal(t, "Amount withdrawn", tx[1].Note)
}

func TestAccount_Transfer(t *testing.T) {
	x := NewAccount(1001)
	y := NewAccount(1002)
	_, err := x.Deposit(d("500"))
	require.NoError(t, err)
	_, err = y.Deposit(d("20"))
	require.NoError(t, err)

	bal, err := x.Transfer(y, d("200"))
	require.NoError(t, err)
	assert.True(t, bal.Equal(d("300")))
	assert.True(t, x.Balance().Equal(d("300")))
	assert.True(t, y.Balance().Equal(d("220")))

	xs := x.LastTransactions(10)
	require.Len(t, xs, 2)
	assert.Equal(t, TransactionTypeTransfer, xs[1].Type)
	assert.Equal(t, "Sent to Acc 1002", xs[1].Note)

	ys := y.LastTransactions(10)
	require.Len(t, ys, 2)
	assert.Equal(t, TransactionTypeTransfer, ys[1].Type)
	assert.Equal(t, "Received from Acc 1001", ys[1].Note)
	assert.True(t, ys[1].Amount.Equal(d("200")))
}

func TestAccount_TransferFailuresLeaveBothUntouched(t *testing.T) {
	x := NewAccount(1001)
	y := NewAccount(1002)
	_, err := x.Deposit(d("100"))
	require.NoError(t, err)

	_, err = x.Transfer(y, d("100.01"))
	assert.ErrorIs(t, err, ErrInsufficientBalance)

	_, err = x.Transfer(x, d("1"))
	assert.ErrorIs(t, err, ErrSameAccount)

	_, err = x.Transfer(nil, d("1"))
	assert.ErrorIs(t, err, ErrAccountNotFound)

	assert.True(t, x.Balance().Equal(d("100")))
	assert.True(t, y.Balance().IsZero())
	assert.Equal(t, 1, x.HistoryLen())
	assert.Equal(t, 0, y.HistoryLen())
}

func TestAccount_LastTransactions(t *testing.T) {
	acc := NewAccount(1001)
	for i := 1; i <= 5; i++ {
		_, err := acc.Deposit(decimal.NewFromInt(int64(i)))
		require.NoError(t, err)
	}

	tests := []struct {
		name  string
		n     int
		first int64
		want  int
	}{
		{name: "fewer than history", n: 2, first: 4, want: 2},
		{name: "equal to history", n: 5, first: 1, want: 5},
		{name: "more than history", n: 50, first: 1, want: 5},
		{name: "zero", n: 0, want: 0},
		{name: "negative", n: -3, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := acc.LastTransactions(tt.n)
			require.Len(t, got, tt.want)
			for i, tx := range got {
				assert.True(t, tx.Amount.Equal(decimal.NewFromInt(tt.first+int64(i))), "entry %d out of order", i)
			}
		})
	}
}

func TestAccount_LastTransactionsReturnsCopy(t *testing.T) {
	acc := NewAccount(1001)
	_, err := acc.Deposit(d("1"))
	require.NoError(t, err)

	got := acc.LastTransactions(1)
	got[0].Note = "tampered"

	assert.Equal(t, "Amount deposited", acc.LastTransactions(1)[0].Note)
}

func TestParseTransactionType(t *testing.T) {
	for in, want := range map[string]TransactionType{
		"deposit":    TransactionTypeDeposit,
		"Withdrawal": TransactionTypeWithdraw,
		"WITHDRAW":   TransactionTypeWithdraw,
		"transfer":   TransactionTypeTransfer,
	} {
		got, err := ParseTransactionType(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
		if in == "Withdrawal" {
			assert.Equal(t, in, got.String())
		}
	}

	_, err := ParseTransactionType("refund")
	assert.ErrorIs(t, err, ErrUnknownTransactionType)
}
