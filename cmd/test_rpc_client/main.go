package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	grpc_adapter "github.com/JoeShih716/go-mem-bank/internal/app/core/adapter/in/grpc"
	grpcpool "github.com/JoeShih716/go-mem-bank/pkg/grpc"
	"github.com/JoeShih716/go-mem-bank/pkg/logging"
)

const (
	TotalCount     = 100000
	Concurrency    = 200
	InitialDeposit = "1000000"
)

// 建立兩位客戶各一個帳戶，並發來回轉帳，最後檢查總額不變
func main() {
	addr := flag.String("addr", "localhost:50051", "bank gRPC server address")
	total := flag.Int("n", TotalCount, "number of transfers")
	concurrency := flag.Int("c", Concurrency, "concurrent requests")
	logLevel := flag.String("log", "info", "log level")
	flag.Parse()

	logger := logging.New(*logLevel, "text", os.Stderr)
	pool := grpcpool.NewPool(grpcpool.WithLogger(logger))
	defer pool.Close()

	conn, err := pool.GetConnection(*addr)
	if err != nil {
		logger.Error("did not connect", "error", err)
		os.Exit(1)
	}
	c := grpc_adapter.NewClient(conn)

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	refs, err := setup(ctx, c)
	if err != nil {
		logger.Error("setup failed", "error", err)
		os.Exit(1)
	}

	var wg sync.WaitGroup
	var failed atomic.Int64
	sem := make(chan struct{}, *concurrency)
	startTime := time.Now()

	for i := 0; i < *total; i++ {
		sem <- struct{}{}
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			from, to := refs[idx%2], refs[(idx+1)%2]
			resp, err := c.PostTransaction(ctx, &grpc_adapter.PostTransactionRequest{
				RefID:  uuid.NewString(),
				Type:   "transfer",
				From:   from,
				To:     to,
				Amount: "1",
			})
			if err != nil || !resp.Success {
				failed.Add(1)
				if idx%10000 == 0 {
					logger.Warn("transfer failed", "idx", idx, "error", err)
				}
			}
		}(i)
	}
	wg.Wait()

	elapsed := time.Since(startTime)
	fmt.Printf("Completed %d requests in %v (%d failed)\n", *total, elapsed, failed.Load())
	fmt.Printf("TPS: %.2f\n", float64(*total)/elapsed.Seconds())

	if err := verify(ctx, c, refs); err != nil {
		logger.Error("verification failed", "error", err)
		os.Exit(1)
	}
	fmt.Println("Balances conserved")
}

func setup(ctx context.Context, c *grpc_adapter.Client) ([]*grpc_adapter.AccountRef, error) {
	refs := make([]*grpc_adapter.AccountRef, 0, 2)
	for _, name := range []string{"LoadA", "LoadB"} {
		cust, err := c.CreateCustomer(ctx, &grpc_adapter.CreateCustomerRequest{Name: name})
		if err != nil {
			return nil, err
		}
		acc, err := c.CreateAccount(ctx, &grpc_adapter.CreateAccountRequest{CustomerID: cust.CustomerID})
		if err != nil {
			return nil, err
		}
		ref := &grpc_adapter.AccountRef{CustomerID: cust.CustomerID, AccountNumber: acc.AccountNumber}
		resp, err := c.PostTransaction(ctx, &grpc_adapter.PostTransactionRequest{
			RefID:  uuid.NewString(),
			Type:   "deposit",
			To:     ref,
			Amount: InitialDeposit,
		})
		if err != nil {
			return nil, err
		}
		if !resp.Success {
			return nil, fmt.Errorf("initial deposit: %s", resp.Message)
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func verify(ctx context.Context, c *grpc_adapter.Client, refs []*grpc_adapter.AccountRef) error {
	sum := decimal.Zero
	for _, ref := range refs {
		resp, err := c.ListAccounts(ctx, &grpc_adapter.ListAccountsRequest{CustomerID: ref.CustomerID})
		if err != nil {
			return err
		}
		for _, acc := range resp.Accounts {
			if acc.AccountNumber != ref.AccountNumber {
				continue
			}
			bal, err := decimal.NewFromString(acc.Balance)
			if err != nil {
				return err
			}
			fmt.Printf("Account %d balance: %s\n", acc.AccountNumber, bal)
			sum = sum.Add(bal)
		}
	}
	want := decimal.RequireFromString(InitialDeposit).Mul(decimal.NewFromInt(int64(len(refs))))
	if !sum.Equal(want) {
		return fmt.Errorf("sum %s, want %s", sum, want)
	}
	return nil
}
