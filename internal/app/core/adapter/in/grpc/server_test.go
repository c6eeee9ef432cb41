package grpc

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/usecase"
	grpcpool "github.com/JoeShih716/go-mem-bank/pkg/grpc"
)

func newTestClient(t *testing.T) *Client {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	core := usecase.NewCoreUseCase(memory.NewMutexLedger(nil), logger, 3)

	lis := bufconn.Listen(1 << 20)
	srv := NewServer(core, logger)
	go func() {
		_ = srv.Serve(lis)
	}()

	pool := grpcpool.NewPool(
		grpcpool.WithLogger(logger),
		grpcpool.WithDialOptions(grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		})),
	)
	conn, err := pool.GetConnection("passthrough:///bufnet")
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = pool.Close()
		srv.Stop()
	})
	return NewClient(conn)
}

func TestGrpcServer_Scenario(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	alice, err := c.CreateCustomer(ctx, &CreateCustomerRequest{Name: "Alice"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), alice.CustomerID)

	accA, err := c.CreateAccount(ctx, &CreateAccountRequest{CustomerID: alice.CustomerID})
	require.NoError(t, err)
	assert.Equal(t, int64(1001), accA.AccountNumber)

	refA := &AccountRef{CustomerID: alice.CustomerID, AccountNumber: accA.AccountNumber}
	dep, err := c.PostTransaction(ctx, &PostTransactionRequest{Type: "deposit", To: refA, Amount: "500"})
	require.NoError(t, err)
	assert.True(t, dep.Success, dep.Message)
	assert.Equal(t, "500", dep.CurrentBalance)

	bob, err := c.CreateCustomer(ctx, &CreateCustomerRequest{Name: "Bob"})
	require.NoError(t, err)
	accB, err := c.CreateAccount(ctx, &CreateAccountRequest{CustomerID: bob.CustomerID})
	require.NoError(t, err)
	assert.Equal(t, int64(1002), accB.AccountNumber)

	refB := &AccountRef{CustomerID: bob.CustomerID, AccountNumber: accB.AccountNumber}
	tr, err := c.PostTransaction(ctx, &PostTransactionRequest{Type: "transfer", From: refA, To: refB, Amount: "200"})
	require.NoError(t, err)
	assert.True(t, tr.Success, tr.Message)
	assert.Equal(t, "300", tr.CurrentBalance)

	accounts, err := c.ListAccounts(ctx, &ListAccountsRequest{CustomerID: bob.CustomerID})
	require.NoError(t, err)
	require.Len(t, accounts.Accounts, 1)
	assert.Equal(t, Account{AccountNumber: 1002, Balance: "200"}, accounts.Accounts[0])

	txs, err := c.ListTransactions(ctx, &ListTransactionsRequest{CustomerID: alice.CustomerID, AccountNumber: accA.AccountNumber, LastN: 10})
	require.NoError(t, err)
	require.Len(t, txs.Transactions, 2)
	assert.Equal(t, "Deposit", txs.Transactions[0].Type)
	assert.Equal(t, "500", txs.Transactions[0].Amount)
	assert.Equal(t, "Transfer", txs.Transactions[1].Type)
	assert.Equal(t, "Sent to Acc 1002", txs.Transactions[1].Note)

	cust, err := c.GetCustomer(ctx, &GetCustomerRequest{CustomerID: alice.CustomerID})
	require.NoError(t, err)
	assert.Equal(t, &GetCustomerResponse{CustomerID: 1, Name: "Alice", AccountCount: 1}, cust)
}

func TestGrpcServer_SoftFailures(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	cust, err := c.CreateCustomer(ctx, &CreateCustomerRequest{Name: "Carol"})
	require.NoError(t, err)
	acc, err := c.CreateAccount(ctx, &CreateAccountRequest{CustomerID: cust.CustomerID})
	require.NoError(t, err)
	ref := &AccountRef{CustomerID: cust.CustomerID, AccountNumber: acc.AccountNumber}

	tests := []struct {
		name    string
		req     *PostTransactionRequest
		message string
	}{
		{name: "insufficient", req: &PostTransactionRequest{Type: "withdraw", From: ref, Amount: "50"}, message: "insufficient balance"},
		{name: "non-positive", req: &PostTransactionRequest{Type: "deposit", To: ref, Amount: "0"}, message: "amount must be positive"},
		{name: "huge exponent", req: &PostTransactionRequest{Type: "withdraw", From: ref, Amount: "1e200000000"}, message: "amount must be positive"},
		{name: "sub-scale amount", req: &PostTransactionRequest{Type: "deposit", To: ref, Amount: "0.000000001"}, message: "amount must be positive"},
		{name: "bad amount", req: &PostTransactionRequest{Type: "deposit", To: ref, Amount: "ten"}, message: "invalid amount"},
		{name: "bad type", req: &PostTransactionRequest{Type: "refund", To: ref, Amount: "1"}, message: "invalid transaction type"},
		{name: "bad ref id", req: &PostTransactionRequest{RefID: "nope", Type: "deposit", To: ref, Amount: "1"}, message: "invalid ref_id"},
		{name: "self transfer", req: &PostTransactionRequest{Type: "transfer", From: ref, To: ref, Amount: "1"}, message: "same account"},
		{name: "missing account", req: &PostTransactionRequest{Type: "deposit", Amount: "1"}, message: "customer not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := c.PostTransaction(ctx, tt.req)
			require.NoError(t, err)
			assert.False(t, resp.Success)
			assert.Contains(t, resp.Message, tt.message)
		})
	}

	txs, err := c.ListTransactions(ctx, &ListTransactionsRequest{CustomerID: cust.CustomerID, AccountNumber: acc.AccountNumber})
	require.NoError(t, err)
	assert.Empty(t, txs.Transactions)
}

func TestGrpcServer_HugeAmountDoesNotBlockLedger(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	cust, err := c.CreateCustomer(ctx, &CreateCustomerRequest{Name: "Gina"})
	require.NoError(t, err)
	acc, err := c.CreateAccount(ctx, &CreateAccountRequest{CustomerID: cust.CustomerID})
	require.NoError(t, err)
	ref := &AccountRef{CustomerID: cust.CustomerID, AccountNumber: acc.AccountNumber}

	dep, err := c.PostTransaction(ctx, &PostTransactionRequest{Type: "deposit", To: ref, Amount: "1.5"})
	require.NoError(t, err)
	require.True(t, dep.Success)

	deadlineCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	resp, err := c.PostTransaction(deadlineCtx, &PostTransactionRequest{Type: "withdraw", From: ref, Amount: "1e200000000"})
	require.NoError(t, err)
	assert.False(t, resp.Success)

	got, err := c.GetCustomer(deadlineCtx, &GetCustomerRequest{CustomerID: cust.CustomerID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.AccountCount)

	accounts, err := c.ListAccounts(deadlineCtx, &ListAccountsRequest{CustomerID: cust.CustomerID})
	require.NoError(t, err)
	assert.Equal(t, "1.5", accounts.Accounts[0].Balance)
}

func TestGrpcServer_RefIDIsIdempotent(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	cust, _ := c.CreateCustomer(ctx, &CreateCustomerRequest{Name: "Dave"})
	acc, _ := c.CreateAccount(ctx, &CreateAccountRequest{CustomerID: cust.CustomerID})
	ref := &AccountRef{CustomerID: cust.CustomerID, AccountNumber: acc.AccountNumber}

	req := &PostTransactionRequest{RefID: uuid.NewString(), Type: "deposit", To: ref, Amount: "12.5"}
	for i := 0; i < 3; i++ {
		resp, err := c.PostTransaction(ctx, req)
		require.NoError(t, err)
		assert.True(t, resp.Success)
		assert.Equal(t, "12.5", resp.CurrentBalance)
	}

	accounts, err := c.ListAccounts(ctx, &ListAccountsRequest{CustomerID: cust.CustomerID})
	require.NoError(t, err)
	assert.Equal(t, "12.5", accounts.Accounts[0].Balance)
}

func TestGrpcServer_DefaultLastN(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)
	cust, _ := c.CreateCustomer(ctx, &CreateCustomerRequest{Name: "Erin"})
	acc, _ := c.CreateAccount(ctx, &CreateAccountRequest{CustomerID: cust.CustomerID})
	ref := &AccountRef{CustomerID: cust.CustomerID, AccountNumber: acc.AccountNumber}
	for _, amount := range []string{"1", "2", "3", "4", "5"} {
		resp, err := c.PostTransaction(ctx, &PostTransactionRequest{Type: "deposit", To: ref, Amount: amount})
		require.NoError(t, err)
		require.True(t, resp.Success)
	}

	// newTestClient 設定的預設筆數為 3
	txs, err := c.ListTransactions(ctx, &ListTransactionsRequest{CustomerID: cust.CustomerID, AccountNumber: acc.AccountNumber, LastN: 0})
	require.NoError(t, err)
	require.Len(t, txs.Transactions, 3)
	assert.Equal(t, "3", txs.Transactions[0].Amount)
	assert.Equal(t, "5", txs.Transactions[2].Amount)
}

func TestGrpcServer_StatusCodes(t *testing.T) {
	ctx := context.Background()
	c := newTestClient(t)

	_, err := c.CreateCustomer(ctx, &CreateCustomerRequest{Name: "  "})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = c.CreateAccount(ctx, &CreateAccountRequest{CustomerID: 404})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = c.ListAccounts(ctx, &ListAccountsRequest{CustomerID: 404})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = c.ListTransactions(ctx, &ListTransactionsRequest{CustomerID: 404, AccountNumber: 1001})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = c.GetCustomer(ctx, &GetCustomerRequest{CustomerID: 404})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestToStatus(t *testing.T) {
	assert.Equal(t, codes.Unavailable, status.Code(toStatus(usecase.ErrLedgerClosed)))
	assert.Equal(t, codes.DeadlineExceeded, status.Code(toStatus(context.DeadlineExceeded)))
	assert.Equal(t, codes.Internal, status.Code(toStatus(io.ErrUnexpectedEOF)))
}

func TestIsBusinessError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{err: domain.ErrCustomerNotFound, want: true},
		{err: fmt.Errorf("account 7: %w", domain.ErrAccountNotFound), want: true},
		{err: domain.ErrInvalidAmount, want: true},
		{err: domain.ErrInsufficientBalance, want: true},
		{err: domain.ErrSameAccount, want: true},
		{err: domain.ErrUnknownTransactionType, want: false},
		{err: usecase.ErrLedgerClosed, want: false},
		{err: context.Canceled, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, isBusinessError(tt.err))
		})
	}
	assert.Equal(t, codes.InvalidArgument, status.Code(toStatus(domain.ErrUnknownTransactionType)))
}
