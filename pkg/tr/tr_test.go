package tr

import (
	"context"
	"errors"
	"testing"

	"github.com/DRSN-tech/inventory-backend/pkg/e"
)

func TestTxFromCtx_Missing(t *testing.T) {
	_, err := TxFromCtx(context.Background())
	if !errors.Is(err, e.ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestNopTransactor(t *testing.T) {
	called := false
	err := NopTransactor{}.WithinTx(context.Background(), func(ctx context.Context) error {
		called = true
		return nil
	})
	if err != nil || !called {
		t.Fatalf("fn must run once without error, called=%v err=%v", called, err)
	}

	boom := errors.New("boom")
	if err := (NopTransactor{}).WithinTx(context.Background(), func(context.Context) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected fn error to propagate, got %v", err)
	}
}
