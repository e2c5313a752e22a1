package app

import (
	"context"
	"io"

	config "github.com/DRSN-tech/inventory-backend/internal/cfg"
	"github.com/DRSN-tech/inventory-backend/internal/delivery/v1/console"
	v1Grpc "github.com/DRSN-tech/inventory-backend/internal/delivery/v1/grpc"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/closer"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/jimlawless/whereami"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// RunConsole запускает терминальный фронтенд.
// С INVENTORY_GRPC_ADDR консоль ходит в удалённый сервер, иначе собирает хранилище сама.
func RunConsole(ctx context.Context, cfg *config.Config, log logger.Logger, in io.Reader, out io.Writer) error {
	cl := closer.NewCloser(forcedTimeout)
	defer closeResources(cl, log)

	uc, worker, err := consoleUseCase(ctx, cfg, log, cl)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if worker != nil {
		done := make(chan struct{})
		go func() {
			defer close(done)
			_ = worker.Run(ctx)
		}()
		defer func() {
			cancel()
			<-done
		}()
	}

	return console.NewConsole(uc, in, out, log).Run(ctx)
}

type runner interface {
	Run(ctx context.Context) error
}

func consoleUseCase(ctx context.Context, cfg *config.Config, log logger.Logger, cl *closer.Closer) (usecase.ProductUC, runner, error) {
	if cfg.Grpc.RemoteAddr == "" {
		d, err := buildDeps(ctx, cfg, log, cl)
		if err != nil {
			return nil, nil, err
		}
		if d.worker == nil {
			return d.productUC, nil, nil
		}
		return d.productUC, d.worker, nil
	}

	conn, err := grpc.NewClient(
		cfg.Grpc.RemoteAddr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		log.Errorf(err, "failed to initialize grpc client")
		return nil, nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cl.AddFunc("grpc client", conn.Close)

	remote, err := v1Grpc.NewRemoteProductUC(ctx, conn)
	if err != nil {
		log.Errorf(err, "failed to reach inventory server at %s", cfg.Grpc.RemoteAddr)
		return nil, nil, err
	}

	return remote, nil, nil
}
