package grpc

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/usecase"
)

type GrpcServer struct {
	core *usecase.CoreUseCase
}

func NewGrpcServer(core *usecase.CoreUseCase) *GrpcServer {
	return &GrpcServer{
		core: core,
	}
}

// NewServer 建立已註冊 BankService 並帶有 logging interceptor 的 grpc.Server
func NewServer(core *usecase.CoreUseCase, logger *slog.Logger, opts ...grpc.ServerOption) *grpc.Server {
	opts = append([]grpc.ServerOption{grpc.ChainUnaryInterceptor(LoggingServerInterceptor(logger))}, opts...)
	s := grpc.NewServer(opts...)
	RegisterBankServiceServer(s, NewGrpcServer(core))
	return s
}

func (s *GrpcServer) CreateCustomer(ctx context.Context, req *CreateCustomerRequest) (*CreateCustomerResponse, error) {
	id, err := s.core.CreateCustomer(ctx, req.Name)
	if err != nil {
		return nil, toStatus(err)
	}
	return &CreateCustomerResponse{CustomerID: id}, nil
}

func (s *GrpcServer) CreateAccount(ctx context.Context, req *CreateAccountRequest) (*CreateAccountResponse, error) {
	accountNo, err := s.core.CreateAccount(ctx, req.CustomerID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &CreateAccountResponse{AccountNumber: accountNo}, nil
}

func (s *GrpcServer) PostTransaction(ctx context.Context, req *PostTransactionRequest) (*PostTransactionResponse, error) {
	// 1. UUID 解析 (選填)
	var refID uuid.UUID
	if req.RefID != "" {
		u, err := uuid.Parse(req.RefID)
		if err != nil {
			return &PostTransactionResponse{
				Success: false,
				Message: "invalid ref_id: " + err.Error(),
			}, nil
		}
		refID = u
	}

	// 2. 轉換交易類型
	txType, err := domain.ParseTransactionType(req.Type)
	if err != nil {
		return &PostTransactionResponse{
			Success: false,
			Message: "invalid transaction type",
		}, nil
	}

	// 3. 金額解析
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return &PostTransactionResponse{
			Success: false,
			Message: "invalid amount: " + req.Amount,
		}, nil
	}

	// 4. 組裝 Domain Request
	tx := &domain.TransactionRequest{
		RequestID: refID,
		Type:      txType,
		From:      req.From.toDomain(),
		To:        req.To.toDomain(),
		Amount:    amount,
	}

	// 5. 執行交易
	balance, err := s.core.PostTransaction(ctx, tx)
	if err != nil {
		if isBusinessError(err) {
			// 業務邏輯錯誤，回傳 Success=false (Soft Failure)
			return &PostTransactionResponse{
				Success: false,
				Message: err.Error(),
			}, nil
		}
		return nil, toStatus(err)
	}

	return &PostTransactionResponse{
		Success:        true,
		CurrentBalance: balance.String(),
	}, nil
}

func (s *GrpcServer) ListAccounts(ctx context.Context, req *ListAccountsRequest) (*ListAccountsResponse, error) {
	list, err := s.core.ShowAccounts(ctx, req.CustomerID)
	if err != nil {
		return nil, toStatus(err)
	}
	resp := &ListAccountsResponse{Accounts: make([]Account, 0, len(list))}
	for _, acc := range list {
		resp.Accounts = append(resp.Accounts, Account{
			AccountNumber: acc.Number,
			Balance:       acc.Balance.String(),
		})
	}
	return resp, nil
}

func (s *GrpcServer) ListTransactions(ctx context.Context, req *ListTransactionsRequest) (*ListTransactionsResponse, error) {
	ref := domain.AccountRef{CustomerID: req.CustomerID, AccountNumber: req.AccountNumber}
	list, err := s.core.ShowTransactions(ctx, ref, int(req.LastN))
	if err != nil {
		return nil, toStatus(err)
	}
	resp := &ListTransactionsResponse{Transactions: make([]Transaction, 0, len(list))}
	for _, tx := range list {
		resp.Transactions = append(resp.Transactions, Transaction{
			ID:        tx.ID.String(),
			Type:      tx.Type.String(),
			Amount:    tx.Amount.String(),
			Note:      tx.Note,
			CreatedAt: tx.CreatedAt,
		})
	}
	return resp, nil
}

func (s *GrpcServer) GetCustomer(ctx context.Context, req *GetCustomerRequest) (*GetCustomerResponse, error) {
	c, err := s.core.GetCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &GetCustomerResponse{
		CustomerID:   c.ID,
		Name:         c.Name,
		AccountCount: int64(c.AccountCount),
	}, nil
}

func (r *AccountRef) toDomain() domain.AccountRef {
	if r == nil {
		return domain.AccountRef{}
	}
	return domain.AccountRef{CustomerID: r.CustomerID, AccountNumber: r.AccountNumber}
}

// isBusinessError 可預期的業務錯誤 (非系統錯誤)
// 未知交易類型在組裝 Request 前就已擋下，不會走到這裡
func isBusinessError(err error) bool {
	return errors.Is(err, domain.ErrCustomerNotFound) ||
		errors.Is(err, domain.ErrAccountNotFound) ||
		errors.Is(err, domain.ErrInvalidAmount) ||
		errors.Is(err, domain.ErrInsufficientBalance) ||
		errors.Is(err, domain.ErrSameAccount)
}

// toStatus 將 domain error 轉成 gRPC status
func toStatus(err error) error {
	switch {
	case errors.Is(err, domain.ErrCustomerNotFound), errors.Is(err, domain.ErrAccountNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrSameAccount),
		errors.Is(err, domain.ErrEmptyName),
		errors.Is(err, domain.ErrUnknownTransactionType):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrInsufficientBalance):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, usecase.ErrLedgerClosed):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}

// LoggingServerInterceptor 記錄每次 unary 呼叫的 method、耗時與狀態碼
func LoggingServerInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		code := status.Code(err)
		level := slog.LevelDebug
		if code != codes.OK {
			level = slog.LevelWarn
		}
		logger.Log(ctx, level, "grpc request", "method", info.FullMethod, "code", code.String(), "elapsed", time.Since(start))
		return resp, err
	}
}

var _ BankServiceServer = (*GrpcServer)(nil)
