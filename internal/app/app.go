package app

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	config "github.com/DRSN-tech/inventory-backend/internal/cfg"
	v1Grpc "github.com/DRSN-tech/inventory-backend/internal/delivery/v1/grpc"
	v1Http "github.com/DRSN-tech/inventory-backend/internal/delivery/v1/http"
	"github.com/DRSN-tech/inventory-backend/internal/infrastructure/kafka"
	"github.com/DRSN-tech/inventory-backend/pkg/closer"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"
)

const (
	shutdownTimeout = 10 * time.Second
	forcedTimeout   = 2 * time.Second
)

// App: HTTP и gRPC серверы поверх одного ProductUseCase плюс воркер outbox.
type App struct {
	cfg    *config.Config
	logger logger.Logger
	closer *closer.Closer

	httpSrv *v1Http.Server
	grpcSrv *v1Grpc.GRPCServer
	worker  *kafka.OutboxWorker
}

func NewApp(cfg *config.Config, log logger.Logger) (*App, error) {
	cl := closer.NewCloser(forcedTimeout)

	d, err := buildDeps(context.Background(), cfg, log, cl)
	if err != nil {
		closeResources(cl, log)
		return nil, err
	}

	grpcSrv := v1Grpc.NewGRPCServer(cfg.Grpc, log)
	grpcSrv.RegisterServices(d.productUC)

	r := chi.NewRouter()
	router := v1Http.NewRouter(r, log, cfg.Http.SwaggerURL)
	router.Init(d.productUC)

	return &App{
		cfg:     cfg,
		logger:  log,
		closer:  cl,
		httpSrv: v1Http.NewServer(r, cfg.Http),
		grpcSrv: grpcSrv,
		worker:  d.worker,
	}, nil
}

// Run работает до SIGINT/SIGTERM или падения одного из серверов.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.serve(ctx)
}

func (a *App) serve(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Infof("gRPC server starting on %s:%s", a.cfg.Grpc.NetworkMode, a.cfg.Grpc.Port)
		return a.grpcSrv.Start()
	})

	g.Go(func() error {
		a.logger.Infof("HTTP server started on port %s", a.cfg.Http.Port)
		return a.httpSrv.Run()
	})

	if a.worker != nil {
		g.Go(func() error {
			return a.worker.Run(gctx)
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		a.logger.Infof("Stopping gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := a.httpSrv.Stop(shutdownCtx); err != nil {
			a.logger.Errorf(err, "HTTP server shutdown error")
		} else {
			a.logger.Infof("HTTP server stopped")
		}

		if err := a.grpcSrv.Stop(shutdownCtx); err != nil {
			a.logger.Warnf("gRPC server shutdown: %v", err)
		}

		return nil
	})

	err := g.Wait()
	if err != nil {
		a.logger.Errorf(err, "server fatal error")
	}

	closeResources(a.closer, a.logger)
	a.logger.Infof("Application shutdown complete")
	return err
}

func closeResources(cl *closer.Closer, log logger.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := cl.Close(ctx); err != nil {
		log.Errorf(err, "failed to close resources")
	}
}
