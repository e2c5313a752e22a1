package closer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestCloser_ClosesInReverseOrder(t *testing.T) {
	c := NewCloser(0)

	var (
		mu    sync.Mutex
		order []string
	)
	for _, name := range []string{"postgres", "redis", "kafka"} {
		c.Add(name, func(context.Context) error {
			mu.Lock()
			order = append(order, name)
			mu.Unlock()
			return nil
		})
	}

	if err := c.Close(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"kafka", "redis", "postgres"}
	if strings.Join(order, ",") != strings.Join(want, ",") {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestCloser_CollectsErrors(t *testing.T) {
	c := NewCloser(0)
	c.AddFunc("redis", func() error { return errors.New("conn reset") })
	c.AddFunc("minio", func() error { return nil })

	err := c.Close(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "redis: conn reset") {
		t.Errorf("error should name the resource: %v", err)
	}

	if err := c.Close(context.Background()); err != nil {
		t.Errorf("second Close must be a no-op, got %v", err)
	}
}

func TestCloser_ForcesRemainingOnTimeout(t *testing.T) {
	c := NewCloser(50 * time.Millisecond)

	forced := make(chan struct{}, 1)
	c.Add("first", func(ctx context.Context) error {
		forced <- struct{}{}
		return nil
	})
	c.Add("slow", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := c.Close(ctx)
	if err == nil || !strings.Contains(err.Error(), "shutdown interrupted") {
		t.Fatalf("expected interrupted shutdown, got %v", err)
	}

	select {
	case <-forced:
	case <-time.After(time.Second):
		t.Fatal("remaining resource was not closed")
	}
}
