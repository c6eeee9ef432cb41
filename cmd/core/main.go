package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"google.golang.org/grpc"

	"github.com/JoeShih716/go-mem-bank/internal/app/core/adapter/in/cli"
	grpc_adapter "github.com/JoeShih716/go-mem-bank/internal/app/core/adapter/in/grpc"
	memory_adapter "github.com/JoeShih716/go-mem-bank/internal/app/core/adapter/out/memory"
	"github.com/JoeShih716/go-mem-bank/internal/app/core/usecase"
	"github.com/JoeShih716/go-mem-bank/internal/config"
	"github.com/JoeShih716/go-mem-bank/pkg/logging"
)

func main() {
	configPath := flag.String("config", config.DefaultPath, "path to config yaml")
	mode := flag.String("mode", "", "override mode (cli | grpc)")
	flag.Parse()

	// 1. 載入設定
	cfg, found, err := config.LoadOrDefault(*configPath)
	if err != nil {
		slog.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	if *mode != "" {
		cfg.Mode = config.Mode(*mode)
		if err := cfg.Validate(); err != nil {
			slog.Error("invalid flag", "error", err)
			os.Exit(1)
		}
	}

	// 2. Logger (CLI 模式下 stdout 給選單使用，log 一律寫 stderr)
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if !found {
		logger.Debug("config file not found, using defaults", "path", *configPath)
	}

	// 3. 初始化 Ledger (Server 停止後才停止 Ledger)
	ledgerCtx, stopLedger := context.WithCancel(context.Background())
	ledger, done := newLedger(ledgerCtx, cfg)

	// 4. 初始化 UseCase
	coreUseCase := usecase.NewCoreUseCase(ledger, logger, cfg.Ledger.DefaultLastN)
	logger.Info("ledger ready", "engine", cfg.Engine, "mode", cfg.Mode)

	switch cfg.Mode {
	case config.ModeGRPC:
		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		err = serveGRPC(ctx, cfg, coreUseCase, logger)
		stop()
	default:
		// 選單阻塞在 stdin 上，不攔截 SIGINT，讓 Ctrl-C 直接結束程式
		err = cli.NewMenu(coreUseCase, os.Stdin, os.Stdout).Run(context.Background())
	}

	stopLedger()
	<-done
	if err != nil {
		logger.Error("exited with error", "error", err)
		os.Exit(1)
	}
}

// newLedger 依設定建立 Ledger；done 在 Ledger 完全停止後關閉
func newLedger(ctx context.Context, cfg config.Config) (usecase.Ledger, <-chan struct{}) {
	switch cfg.Engine {
	case config.EngineLMAX:
		l := memory_adapter.NewLMAXLedger(nil, cfg.Ledger.QueueSize)
		l.Start(ctx)
		return l, l.Done()
	default:
		done := make(chan struct{})
		close(done)
		return memory_adapter.NewMutexLedger(nil), done
	}
}

func serveGRPC(ctx context.Context, cfg config.Config, core *usecase.CoreUseCase, logger *slog.Logger) error {
	lis, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		return err
	}

	s := grpc_adapter.NewServer(core, logger)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("starting gRPC server", "addr", lis.Addr().String())
		if err := s.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			errCh <- err
		}
		close(errCh)
	}()

	// Graceful Shutdown
	select {
	case <-ctx.Done():
		logger.Info("shutting down server...")
		s.GracefulStop()
		logger.Info("server exited")
		return nil
	case err := <-errCh:
		return err
	}
}
