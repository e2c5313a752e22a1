package memory

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
)

// OutboxRepo хранит события в памяти. В демо-режиме события никуда не публикуются.
type OutboxRepo struct {
	mu     sync.Mutex
	events []*usecase.OutboxEvent
	nextID int64
}

func NewOutboxRepo() *OutboxRepo {
	return &OutboxRepo{}
}

func (o *OutboxRepo) Create(_ context.Context, event *usecase.OutboxEvent) (*usecase.OutboxEvent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.nextID++
	stored := *event
	stored.ID = o.nextID
	if stored.Status == "" {
		stored.Status = usecase.Pending
	}
	o.events = append(o.events, &stored)

	out := stored
	return &out, nil
}

func (o *OutboxRepo) GetAndMarkAsProcessing(_ context.Context, limit int) ([]*usecase.OutboxEvent, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	var result []*usecase.OutboxEvent
	for _, ev := range o.events {
		if len(result) == limit {
			break
		}
		if ev.Status != usecase.Pending {
			continue
		}
		ev.Status = usecase.Processing
		out := *ev
		result = append(result, &out)
	}

	return result, nil
}

func (o *OutboxRepo) MarkAsProcessed(_ context.Context, id int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, ev := range o.events {
		if ev.ID == id && ev.Status == usecase.Processing {
			now := time.Now().UTC()
			ev.Status = usecase.Processed
			ev.ProcessedAt = &now
		}
	}

	return nil
}

func (o *OutboxRepo) MarkAsPending(_ context.Context, id int64) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	for _, ev := range o.events {
		if ev.ID == id && ev.Status == usecase.Processing {
			ev.Status = usecase.Pending
		}
	}

	return nil
}

// Events возвращает копию всех записанных событий.
func (o *OutboxRepo) Events() []usecase.OutboxEvent {
	o.mu.Lock()
	defer o.mu.Unlock()

	result := make([]usecase.OutboxEvent, 0, len(o.events))
	for _, ev := range o.events {
		result = append(result, *ev)
	}
	return slices.Clip(result)
}
