package console

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/cfg"
	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/repository/memory"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/DRSN-tech/inventory-backend/pkg/tr"
)

func newUC() *usecase.ProductUseCase {
	return usecase.NewProductUC(
		memory.NewSeededProductRepo(),
		memory.NewOutboxRepo(),
		tr.NopTransactor{},
		memory.NopCache{},
		memory.NewSnapshotStorage("exports"),
		domain.NewCategoryPolicy(cfg.DefaultCategories, false),
		logger.Nop(),
	)
}

func run(t *testing.T, uc usecase.ProductUC, script ...string) string {
	t.Helper()

	var out bytes.Buffer
	in := strings.NewReader(strings.Join(script, "\n") + "\n")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := NewConsole(uc, in, &out, logger.Nop()).Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}
	return out.String()
}

func TestConsole_InitialList(t *testing.T) {
	out := run(t, newUC(), "quit")

	for _, want := range []string{"Active products", "Wireless Headphones", "129.99", "2024-01-15", "edit, archive"} {
		if !strings.Contains(out, want) {
			t.Errorf("output misses %q:\n%s", want, out)
		}
	}
}

func TestConsole_AddProduct(t *testing.T) {
	uc := newUC()
	out := run(t, uc, "add", "Desk", "Furniture", "150", "quit")

	if !strings.Contains(out, "Product 4 created.") {
		t.Fatalf("output:\n%s", out)
	}
	product, err := uc.Get(context.Background(), 4)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if product.Name != "Desk" || product.Price.StringFixed(2) != "150.00" || product.IsArchived {
		t.Errorf("product = %+v", product)
	}
}

func TestConsole_AddKeepsDraftOnError(t *testing.T) {
	uc := newUC()
	out := run(t, uc,
		"add", "Lamp", "Furniture", "abc",
		"", "", "25",
		"quit",
	)

	const errLine = "Error: price must be a non-negative number"
	i := strings.Index(out, errLine)
	if i < 0 {
		t.Fatalf("validation error not shown:\n%s", out)
	}
	// форма остаётся открытой: следующий вопрос идёт сразу после ошибки, без приглашения "> "
	if rest := out[i+len(errLine):]; !strings.HasPrefix(strings.TrimLeft(rest, "\n"), "Name [Lamp]") {
		t.Errorf("form was not re-prompted in place:\n%s", out)
	}

	product, err := uc.Get(context.Background(), 4)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if product.Name != "Lamp" || product.Price.StringFixed(2) != "25.00" {
		t.Errorf("product = %+v", product)
	}
}

func TestConsole_EditRepromptsOnError(t *testing.T) {
	uc := newUC()
	out := run(t, uc, "edit 3", "", "Toys", "", "", "Books", "", "quit")

	if !strings.Contains(out, "Error: unknown category") {
		t.Fatalf("validation error not shown:\n%s", out)
	}
	if !strings.Contains(out, "Category [Toys]") || !strings.Contains(out, "Product 3 updated.") {
		t.Errorf("output:\n%s", out)
	}

	product, _ := uc.Get(context.Background(), 3)
	if product.Category != "Books" || product.Name != "Coffee Maker" {
		t.Errorf("product = %+v", product)
	}
}

func TestConsole_ArchiveDeclined(t *testing.T) {
	uc := newUC()
	out := run(t, uc, "archive 1", "n", "quit")

	if !strings.Contains(out, "Are you sure you want to archive this product? [y/N]") || !strings.Contains(out, "Cancelled.") {
		t.Errorf("output:\n%s", out)
	}
	if product, _ := uc.Get(context.Background(), 1); product.IsArchived {
		t.Error("declined archive changed the product")
	}
}

func TestConsole_ArchiveRestoreDelete(t *testing.T) {
	uc := newUC()
	out := run(t, uc,
		"archive 1", "y",
		"toggle",
		"delete 2",
		"delete 1", "yes",
		"quit",
	)

	if !strings.Contains(out, "Archived products") {
		t.Errorf("toggle did not switch the list:\n%s", out)
	}
	if !strings.Contains(out, "Error: this action is not available") {
		t.Errorf("deleting an active product must fail:\n%s", out)
	}

	products, err := uc.List(context.Background(), domain.StatusAll)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(products) != 2 || products[0].ID != 2 {
		t.Errorf("products = %+v", products)
	}
}

func TestConsole_Edit(t *testing.T) {
	uc := newUC()
	out := run(t, uc, "edit 2", "", "", "179", "edit 99", "edit x", "quit")

	if !strings.Contains(out, "Product 2 updated.") {
		t.Fatalf("output:\n%s", out)
	}
	if !strings.Contains(out, "Error: product not found") || !strings.Contains(out, "Error: id must be a positive integer") {
		t.Errorf("edit errors not shown:\n%s", out)
	}

	product, _ := uc.Get(context.Background(), 2)
	if product.Name != "Office Chair" || product.Price.StringFixed(2) != "179.00" {
		t.Errorf("product = %+v", product)
	}
}

func TestConsole_ExportAndUnknown(t *testing.T) {
	out := run(t, newUC(), "export all", "export gone", "fly", "categories")

	if !strings.Contains(out, "Exported 3 products to exports/products-all-") {
		t.Errorf("export not reported:\n%s", out)
	}
	if !strings.Contains(out, "Error: unknown product status") {
		t.Errorf("bad status not reported:\n%s", out)
	}
	if !strings.Contains(out, `unknown command "fly"`) {
		t.Errorf("unknown command not reported:\n%s", out)
	}
	if !strings.Contains(out, strings.Join(cfg.DefaultCategories, ", ")) {
		t.Errorf("categories not shown:\n%s", out)
	}
}

func TestConsole_StopsOnCancel(t *testing.T) {
	r, w := io.Pipe()
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewConsole(newUC(), r, &bytes.Buffer{}, logger.Nop()).Run(ctx)
	}()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("console did not stop after cancel")
	}
}
