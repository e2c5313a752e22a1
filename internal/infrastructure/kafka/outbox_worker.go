package kafka

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/cfg"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/jitter"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/jackc/pgx/v5"
)

const (
	notificationWait = 30 * time.Second
	reconnectBase    = time.Second
	reconnectMax     = 30 * time.Second
)

// staleReleaser реализуют хранилища, умеющие вернуть в очередь события, застрявшие в processing.
type staleReleaser interface {
	ReleaseStale(ctx context.Context) (int64, error)
}

// OutboxWorker переносит события из outbox в Kafka.
// Будится уведомлениями LISTEN/NOTIFY, а на случай потерянного уведомления периодически опрашивает таблицу.
type OutboxWorker struct {
	repo     usecase.OutboxRepository
	logger   logger.Logger
	producer usecase.MessageProducer
	cfg      *cfg.OutboxCfg
	dsn      string
	channel  string
}

// NewOutboxWorker создаёт воркер. Пустой dsn отключает LISTEN, остаётся только опрос.
func NewOutboxWorker(
	repo usecase.OutboxRepository,
	logger logger.Logger,
	producer usecase.MessageProducer,
	cfg *cfg.OutboxCfg,
	dsn string,
	channel string,
) *OutboxWorker {
	return &OutboxWorker{
		repo:     repo,
		logger:   logger,
		producer: producer,
		cfg:      cfg,
		dsn:      dsn,
		channel:  channel,
	}
}

// Run блокируется до отмены ctx.
func (w *OutboxWorker) Run(ctx context.Context) error {
	if r, ok := w.repo.(staleReleaser); ok {
		released, err := r.ReleaseStale(ctx)
		if err != nil {
			w.logger.Warnf("failed to release stale outbox events: %v", err)
		} else if released > 0 {
			w.logger.Infof("released %d stale outbox events", released)
		}
	}

	w.logger.Infof("Draining pending outbox events on startup...")
	w.Drain(ctx)

	wake := make(chan struct{}, 1)
	if w.dsn != "" {
		go w.listen(ctx, wake)
	}

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Infof("Outbox worker stopped by context cancellation")
			return nil
		case <-wake:
			w.logger.Debugf("Received outbox notification, draining outbox events")
			w.Drain(ctx)
		case <-ticker.C:
			w.Drain(ctx)
		}
	}
}

// Drain обрабатывает пачки, пока в outbox есть ожидающие события.
func (w *OutboxWorker) Drain(ctx context.Context) {
	for ctx.Err() == nil {
		hasMore, err := w.processBatch(ctx)
		if err != nil {
			w.logger.Warnf("Batch processing failed: %v", err)
			return
		}
		if !hasMore {
			return
		}
	}
}

// listen держит отдельное соединение с LISTEN и переподключается с экспоненциальной задержкой.
func (w *OutboxWorker) listen(ctx context.Context, wake chan<- struct{}) {
	for attempt := 0; ctx.Err() == nil; attempt++ {
		err := w.listenOnce(ctx, wake)
		if ctx.Err() != nil {
			return
		}

		delay := jitter.ExponentialBackoff(reconnectBase, reconnectMax, attempt, jitter.DefaultJitter)
		w.logger.Warnf("Connection lost: %v. Reconnecting in %v...", err, delay)

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}
	}
}

func (w *OutboxWorker) listenOnce(ctx context.Context, wake chan<- struct{}) error {
	conn, err := pgx.Connect(ctx, w.dsn)
	if err != nil {
		return e.Wrap("failed to connect for LISTEN", err)
	}
	defer conn.Close(context.Background())

	if _, err := conn.Exec(ctx, "LISTEN "+w.channel); err != nil {
		return e.Wrap("failed to LISTEN", err)
	}
	w.logger.Infof("Subscribed to '%s' channel", w.channel)

	for {
		waitCtx, cancel := context.WithTimeout(ctx, notificationWait)
		notif, err := conn.WaitForNotification(waitCtx)
		cancel()

		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, context.DeadlineExceeded) {
				continue
			}
			return err
		}

		if notif.Channel != w.channel {
			continue
		}

		select {
		case wake <- struct{}{}:
		default:
		}
	}
}

func (w *OutboxWorker) processBatch(ctx context.Context) (bool, error) {
	events, err := w.repo.GetAndMarkAsProcessing(ctx, w.cfg.BatchSize)
	if err != nil {
		return false, err
	}

	if len(events) == 0 {
		return false, nil
	}

	published := 0
	for _, event := range events {
		if err := w.processEvent(ctx, event); err != nil {
			w.logger.Warnf("outbox event %d (%s) not published: %v", event.ID, event.EventType, err)
			if err := w.repo.MarkAsPending(ctx, event.ID); err != nil {
				w.logger.Warnf("return to pending failed: %v", err)
			}
			continue
		}
		if err := w.repo.MarkAsProcessed(ctx, event.ID); err != nil {
			w.logger.Warnf("mark processed failed: %v", err)
			continue
		}
		published++
	}

	// если ни одно событие не ушло, брокер недоступен: неотправленные уже в pending, ждём следующего тика
	return published > 0 && len(events) == w.cfg.BatchSize, nil
}

func (w *OutboxWorker) processEvent(ctx context.Context, event *usecase.OutboxEvent) error {
	if err := w.producer.WriteRawMessage(ctx, usecase.NewWriteRawMessageReq(event.ProductID, event.Payload)); err != nil {
		if isRetryableError(err) {
			return e.Wrap("Temporary Kafka failure, returned to pending", err)
		}
		return e.Wrap("Kafka publish failed, returned to pending", err)
	}
	return nil
}

func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	errStr := strings.ToLower(err.Error())
	retryablePhrases := []string{
		"connection refused",
		"i/o timeout",
		"network is unreachable",
		"broker not available",
		"connection reset",
		"broken pipe",
		"no such host",
	}
	for _, phrase := range retryablePhrases {
		if strings.Contains(errStr, phrase) {
			return true
		}
	}
	return false
}
