package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/domain"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/usecase"
)

// DefaultQueueSize 輸送帶預設容量
const DefaultQueueSize = 1024

// ledgerRequest 請求包裝，讓呼叫端可以等待結果
type ledgerRequest struct {
	// op 在核心 goroutine 上執行，回傳值透過 closure 帶出
	op     func(e *engine) error
	Result chan error
}

// LMAXLedger 單一寫入者 (Single Writer) 帳本
// 所有讀寫都排入同一條輸送帶，由 run loop 依序執行，所以 engine 不需要 Lock
//
// 呼叫 Start 之前的請求直接回傳 ErrLedgerClosed
type LMAXLedger struct {
	engine *engine
	// 輸送帶 負責接收請求
	requestChan chan *ledgerRequest
	// Pool 減少 GC 壓力
	requestPool sync.Pool

	// mu 保護 started / closed；送出請求時持讀鎖，啟動與關閉時持寫鎖
	mu       sync.RWMutex
	started  bool
	closed   bool
	stopping chan struct{}
	stopped  chan struct{}
	start    sync.Once
}

// NewLMAXLedger 建立一個新的 LMAXLedger 實例
//
// 參數:
//
//	registry: 初始 Registry，nil 時建立空的
//	queueSize: 輸送帶容量，<= 0 時使用 DefaultQueueSize
//
// 回傳:
//
//	*LMAXLedger: LMAXLedger 實例
func NewLMAXLedger(registry *domain.Registry, queueSize int) *LMAXLedger {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	return &LMAXLedger{
		engine:      newEngine(registry),
		requestChan: make(chan *ledgerRequest, queueSize),
		requestPool: sync.Pool{
			New: func() interface{} {
				return &ledgerRequest{
					Result: make(chan error, 1),
				}
			},
		},
		stopping: make(chan struct{}),
		stopped:  make(chan struct{}),
	}
}

// Start 啟動核心引擎 (非同步)，重複呼叫無效
// ctx 取消後會把已排入的請求處理完再停止
func (l *LMAXLedger) Start(ctx context.Context) {
	l.start.Do(func() {
		l.mu.Lock()
		l.started = true
		l.mu.Unlock()
		go l.run(ctx)
	})
}

// Done 核心引擎完全停止後關閉
func (l *LMAXLedger) Done() <-chan struct{} {
	return l.stopped
}

func (l *LMAXLedger) run(ctx context.Context) {
	defer close(l.stopped)
	for {
		select {
		case <-ctx.Done():
			// 收到關閉信號：先擋住新的請求，再把剩下的處理完
			close(l.stopping)
			l.mu.Lock()
			l.closed = true
			l.mu.Unlock()
			l.drain()
			return
		case req := <-l.requestChan:
			l.process(req)
		}
	}
}

func (l *LMAXLedger) drain() {
	for {
		select {
		case req := <-l.requestChan:
			l.process(req)
		default:
			return
		}
	}
}

// process 處理單筆請求並回傳結果
func (l *LMAXLedger) process(req *ledgerRequest) {
	req.Result <- req.op(l.engine)
}

// submit 放入輸送帶並等待結果
//
// PostTransaction(等待) -> Channel -> Run Loop (核心) -> engine -> Result Channel -> PostTransaction(收到結果)
func (l *LMAXLedger) submit(ctx context.Context, op func(e *engine) error) error {
	l.mu.RLock()
	if !l.started || l.closed {
		l.mu.RUnlock()
		return usecase.ErrLedgerClosed
	}

	req := l.requestPool.Get().(*ledgerRequest)
	req.op = op
	// 清空 Channel (理論上應該是空的)
	select {
	case <-req.Result:
	default:
	}

	select {
	case l.requestChan <- req:
	case <-l.stopping:
		l.mu.RUnlock()
		l.release(req)
		return usecase.ErrLedgerClosed
	case <-ctx.Done():
		l.mu.RUnlock()
		l.release(req)
		return ctx.Err()
	}
	l.mu.RUnlock()

	// 已排入的請求一定會被處理 (包含關閉時的 drain)
	err := <-req.Result
	l.release(req)
	return err
}

func (l *LMAXLedger) release(req *ledgerRequest) {
	req.op = nil
	l.requestPool.Put(req)
}

func (l *LMAXLedger) CreateCustomer(ctx context.Context, name string) (int64, error) {
	var id int64
	err := l.submit(ctx, func(e *engine) (err error) {
		id, err = e.createCustomer(name)
		return err
	})
	return id, err
}

func (l *LMAXLedger) CreateAccount(ctx context.Context, customerID int64) (int64, error) {
	var accountNo int64
	err := l.submit(ctx, func(e *engine) (err error) {
		accountNo, err = e.createAccount(customerID)
		return err
	})
	return accountNo, err
}

// PostTransaction 接收交易請求
//
// 參數:
//
//	ctx: 上下文，只在排入輸送帶前有效
//	req: 交易請求物件
//
// 回傳:
//
//	decimal.Decimal: 目標帳戶的新餘額
//	error: 處理錯誤
func (l *LMAXLedger) PostTransaction(ctx context.Context, req *domain.TransactionRequest) (decimal.Decimal, error) {
	balance := decimal.Zero
	err := l.submit(ctx, func(e *engine) (err error) {
		balance, err = e.postTransaction(req)
		return err
	})
	if err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func (l *LMAXLedger) ListAccounts(ctx context.Context, customerID int64) ([]domain.AccountSummary, error) {
	var list []domain.AccountSummary
	err := l.submit(ctx, func(e *engine) (err error) {
		list, err = e.listAccounts(customerID)
		return err
	})
	return list, err
}

func (l *LMAXLedger) ListTransactions(ctx context.Context, ref domain.AccountRef, lastN int) ([]domain.Transaction, error) {
	var list []domain.Transaction
	err := l.submit(ctx, func(e *engine) (err error) {
		list, err = e.listTransactions(ref, lastN)
		return err
	})
	return list, err
}

func (l *LMAXLedger) Customer(ctx context.Context, customerID int64) (domain.CustomerSummary, error) {
	var summary domain.CustomerSummary
	err := l.submit(ctx, func(e *engine) (err error) {
		summary, err = e.customer(customerID)
		return err
	})
	return summary, err
}

var _ usecase.Ledger = (*LMAXLedger)(nil)
