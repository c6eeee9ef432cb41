package grpc

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName gRPC 服務全名
const ServiceName = "bank.v1.BankService"

// BankServiceServer 伺服器端介面
type BankServiceServer interface {
	CreateCustomer(context.Context, *CreateCustomerRequest) (*CreateCustomerResponse, error)
	CreateAccount(context.Context, *CreateAccountRequest) (*CreateAccountResponse, error)
	PostTransaction(context.Context, *PostTransactionRequest) (*PostTransactionResponse, error)
	ListAccounts(context.Context, *ListAccountsRequest) (*ListAccountsResponse, error)
	ListTransactions(context.Context, *ListTransactionsRequest) (*ListTransactionsResponse, error)
	GetCustomer(context.Context, *GetCustomerRequest) (*GetCustomerResponse, error)
}

// BankService_ServiceDesc 手寫的 ServiceDesc，訊息由 jsonCodec 編碼
var BankService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BankServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryMethod("CreateCustomer", BankServiceServer.CreateCustomer),
		unaryMethod("CreateAccount", BankServiceServer.CreateAccount),
		unaryMethod("PostTransaction", BankServiceServer.PostTransaction),
		unaryMethod("ListAccounts", BankServiceServer.ListAccounts),
		unaryMethod("ListTransactions", BankServiceServer.ListTransactions),
		unaryMethod("GetCustomer", BankServiceServer.GetCustomer),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "bank/v1/bank",
}

// RegisterBankServiceServer 將實作註冊到 gRPC Server
func RegisterBankServiceServer(s grpc.ServiceRegistrar, srv BankServiceServer) {
	s.RegisterService(&BankService_ServiceDesc, srv)
}

func fullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// unaryMethod 產生與 protoc-gen-go-grpc 相同形狀的 handler
func unaryMethod[Req, Resp any](name string, call func(BankServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(BankServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: fullMethod(name),
			}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(BankServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}
