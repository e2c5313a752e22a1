package app

import (
	"context"
	"time"

	config "github.com/DRSN-tech/inventory-backend/internal/cfg"
	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/infrastructure/kafka"
	"github.com/DRSN-tech/inventory-backend/internal/repository/memory"
	s3Repo "github.com/DRSN-tech/inventory-backend/internal/repository/minio"
	"github.com/DRSN-tech/inventory-backend/internal/repository/pgdb"
	pgdbConv "github.com/DRSN-tech/inventory-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/inventory-backend/internal/repository/redis"
	redisConv "github.com/DRSN-tech/inventory-backend/internal/repository/redis/converter"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/clients"
	"github.com/DRSN-tech/inventory-backend/pkg/closer"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/DRSN-tech/inventory-backend/pkg/postgres"
	"github.com/DRSN-tech/inventory-backend/pkg/tr"
	"github.com/jimlawless/whereami"
)

const (
	initTimeout      = 10 * time.Second
	topicTimeout     = 10 * time.Second
	memoryExportsDir = "exports"
)

// deps: собранный сценарий работы с товарами и фоновые процессы, которые нужно запустить рядом с ним.
// worker равен nil для in-memory хранилища: событиям некуда уходить.
type deps struct {
	productUC *usecase.ProductUseCase
	worker    *kafka.OutboxWorker
}

// buildDeps собирает зависимости по STORE_BACKEND. Открытые ресурсы регистрируются в cl.
func buildDeps(ctx context.Context, cfg *config.Config, log logger.Logger, cl *closer.Closer) (*deps, error) {
	categories := domain.NewCategoryPolicy(cfg.Store.Categories, cfg.Store.FreeTextCategories)

	if cfg.Store.Backend == config.BackendMemory {
		log.Infof("using in-memory store (seed=%t)", cfg.Store.SeedDemoData)
		return buildMemoryDeps(cfg, log, categories), nil
	}

	return buildPostgresDeps(ctx, cfg, log, cl, categories)
}

func buildMemoryDeps(cfg *config.Config, log logger.Logger, categories *domain.CategoryPolicy) *deps {
	productRepo := memory.NewProductRepo()
	if cfg.Store.SeedDemoData {
		productRepo = memory.NewSeededProductRepo()
	}

	productUC := usecase.NewProductUC(
		productRepo,
		memory.NewOutboxRepo(),
		tr.NopTransactor{},
		memory.NopCache{},
		memory.NewSnapshotStorage(memoryExportsDir),
		categories,
		log,
	)

	return &deps{productUC: productUC}
}

func buildPostgresDeps(
	ctx context.Context,
	cfg *config.Config,
	log logger.Logger,
	cl *closer.Closer,
	categories *domain.CategoryPolicy,
) (*deps, error) {
	initCtx, cancel := context.WithTimeout(ctx, initTimeout)
	defer cancel()

	db, err := initPGDB(initCtx, log, cfg.Db)
	if err != nil {
		return nil, err
	}
	cl.AddFunc("postgres", func() error {
		db.Close()
		return nil
	})

	productRepo := pgdb.NewProductRepo(db.Pool, pgdbConv.ProductConverter{})
	outboxRepo := pgdb.NewOutboxEventRepo(db.Pool, pgdbConv.OutboxEventConverter{})

	redisClient := clients.NewRedisClient(cfg.Redis)
	cl.AddFunc("redis", redisClient.Close)
	if err := redisClient.Ping(initCtx); err != nil {
		log.Errorf(err, "failed to connect to redis")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	cacheRepo := redis.NewCacheRepo(redisClient.Client, redisConv.ProductConverter{}, cfg.Redis, log)

	minioClient, err := clients.NewMinIOClient(cfg.Minio)
	if err != nil {
		log.Errorf(err, "failed to initialize minio client")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	if err := clients.EnsureBucket(initCtx, minioClient, cfg.Minio.BucketName); err != nil {
		log.Errorf(err, "failed to initialize MinIO bucket")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}
	snapshots := s3Repo.NewSnapshotRepo(minioClient, cfg.Minio)

	producer := kafka.NewProducer(log, cfg.Kafka)
	cl.AddFunc("kafka producer", producer.Close)
	if err := producer.EnsureTopic(topicTimeout); err != nil {
		// брокер может создать топик сам при первой записи
		log.Warnf("failed to ensure kafka topic %s: %v", cfg.Kafka.Topic, err)
	}

	productUC := usecase.NewProductUC(
		productRepo,
		outboxRepo,
		tr.NewTransactor(db.Pool),
		cacheRepo,
		snapshots,
		categories,
		log,
	)

	worker := kafka.NewOutboxWorker(outboxRepo, log, producer, cfg.Outbox, cfg.Db.DSN(), pgdb.OutboxChannel)

	return &deps{productUC: productUC, worker: worker}, nil
}

func initPGDB(ctx context.Context, log logger.Logger, cfg *config.PGDBCfg) (*postgres.PgDatabase, error) {
	db, err := postgres.Connect(ctx, cfg)
	if err != nil {
		log.Errorf(err, "failed to connect to database")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	if err := db.RunMigrations(log); err != nil {
		db.Close()
		log.Errorf(err, "failed to run migrations")
		return nil, e.Wrap(whereami.WhereAmI(), err)
	}

	return db, nil
}
