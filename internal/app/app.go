package app

import (
	"context"
	"errors"
	"net/http"
	"os/signal"

	"github.com/bookmart-next/internal/provider"
	"github.com/bookmart-next/internal/router"
)

// Run 组装依赖并运行 HTTP 服务，处理系统信号与优雅退出。
func Run(opts Options) error {
	opts = normalizeOptions(opts)
	if opts.Config == nil {
		return errors.New("config is nil")
	}

	container := provider.NewContainer(opts.Config)
	engine := router.SetupRouter(opts.Config, container)

	addr := opts.Config.Server.Host + ":" + opts.Config.Server.Port
	server := &http.Server{
		Addr:    addr,
		Handler: engine,
	}

	ctx := context.Background()
	if len(opts.Signals) > 0 {
		var cancel context.CancelFunc
		ctx, cancel = signal.NotifyContext(ctx, opts.Signals...)
		defer cancel()
	}

	errCh := make(chan error, 1)
	go func() {
		opts.Logger.Infow("http_start", "addr", addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	var runErr error
	select {
	case <-ctx.Done():
		opts.Logger.Infow("shutdown_signal_received")
	case err := <-errCh:
		runErr = err
	}

	stopCtx, stopCancel := context.WithTimeout(context.Background(), opts.ShutdownTimeout)
	defer stopCancel()
	if err := server.Shutdown(stopCtx); err != nil {
		opts.Logger.Errorw("http_stop_failed", "error", err)
	} else {
		opts.Logger.Infow("http_stopped")
	}
	return runErr
}
