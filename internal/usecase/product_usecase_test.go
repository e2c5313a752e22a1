package usecase_test

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/cfg"
	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/repository/memory"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/internal/usecase/mocks"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/DRSN-tech/inventory-backend/pkg/tr"
	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	uc        *usecase.ProductUseCase
	products  *memory.ProductRepo
	outbox    *memory.OutboxRepo
	snapshots *memory.SnapshotStorage
}

func newFixture(seeded bool) *fixture {
	products := memory.NewProductRepo()
	if seeded {
		products = memory.NewSeededProductRepo()
	}
	outbox := memory.NewOutboxRepo()
	snapshots := memory.NewSnapshotStorage("exports")

	uc := usecase.NewProductUC(
		products,
		outbox,
		tr.NopTransactor{},
		memory.NopCache{},
		snapshots,
		domain.NewCategoryPolicy(cfg.DefaultCategories, false),
		logger.Nop(),
	)

	return &fixture{uc: uc, products: products, outbox: outbox, snapshots: snapshots}
}

var (
	confirm = usecase.StaticConfirmer(true)
	decline = usecase.StaticConfirmer(false)
)

func ptr[T any](v T) *T { return &v }

func TestProductUseCase_DeskScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(false)

	created, err := f.uc.Create(ctx, &usecase.CreateProductReq{
		Name:     "Desk",
		Category: "Furniture",
		Price:    decimal.NewFromInt(150),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID <= 0 || created.IsArchived || created.Date.IsZero() {
		t.Fatalf("unexpected created product: %+v", created)
	}

	res, err := f.uc.Archive(ctx, created.ID, confirm)
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if !res.Applied || !res.Product.IsArchived {
		t.Fatalf("archive not applied: %+v", res)
	}

	active, _ := f.uc.List(ctx, domain.StatusActive)
	archived, _ := f.uc.List(ctx, domain.StatusArchived)
	if len(active) != 0 {
		t.Errorf("active list must be empty, got %v", active)
	}
	if len(archived) != 1 || archived[0].Name != "Desk" || !archived[0].Price.Equal(decimal.NewFromInt(150)) {
		t.Errorf("archived list = %v", archived)
	}
}

func TestProductUseCase_RestoreAndDelete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)

	if _, err := f.uc.Delete(ctx, 1, confirm); !errors.Is(err, e.ErrTransitionNotAllowed) {
		t.Fatalf("active product must not be deleted directly: %v", err)
	}

	original, err := f.uc.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}

	if _, err := f.uc.Archive(ctx, 1, confirm); err != nil {
		t.Fatalf("archive: %v", err)
	}
	if _, err := f.uc.Archive(ctx, 1, confirm); !errors.Is(err, e.ErrTransitionNotAllowed) {
		t.Fatalf("archived product cannot be archived again: %v", err)
	}

	restored, err := f.uc.Restore(ctx, 1, confirm)
	if err != nil || !restored.Applied || restored.Product.IsArchived {
		t.Fatalf("restore: %+v, %v", restored, err)
	}

	active, err := f.uc.List(ctx, domain.StatusActive)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	var back *domain.Product
	for i := range active {
		if active[i].ID == 1 {
			back = &active[i]
		}
	}
	if back == nil {
		t.Fatalf("restored product is not in the active list: %v", active)
	}
	if back.Name != original.Name || back.Category != original.Category ||
		!back.Price.Equal(original.Price) || !back.Date.Equal(original.Date) {
		t.Errorf("restore changed product fields: before %+v, after %+v", original, back)
	}

	if _, err := f.uc.Archive(ctx, 1, confirm); err != nil {
		t.Fatalf("archive again: %v", err)
	}
	deleted, err := f.uc.Delete(ctx, 1, confirm)
	if err != nil || !deleted.Applied {
		t.Fatalf("delete: %+v, %v", deleted, err)
	}

	if _, err := f.uc.Get(ctx, 1); !errors.Is(err, e.ErrNotFound) {
		t.Errorf("deleted product must not be found: %v", err)
	}
	all, _ := f.uc.List(ctx, domain.StatusAll)
	for _, p := range all {
		if p.ID == 1 {
			t.Errorf("deleted product is still listed")
		}
	}

	types := make([]usecase.OutboxEventType, 0)
	for _, ev := range f.outbox.Events() {
		types = append(types, ev.EventType)
	}
	want := []usecase.OutboxEventType{
		usecase.EventProductArchived,
		usecase.EventProductRestored,
		usecase.EventProductArchived,
		usecase.EventProductDeleted,
	}
	if strings.Join(eventNames(types), ",") != strings.Join(eventNames(want), ",") {
		t.Errorf("events = %v, want %v", types, want)
	}
}

func eventNames(types []usecase.OutboxEventType) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = string(t)
	}
	return out
}

func TestProductUseCase_DeclinedConfirmation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)

	res, err := f.uc.Archive(ctx, 2, decline)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Applied || res.Product.IsArchived {
		t.Fatalf("declined archive must not change the product: %+v", res)
	}

	p, _ := f.products.Get(ctx, 2)
	if p.IsArchived {
		t.Error("store was modified after decline")
	}
	if len(f.outbox.Events()) != 0 {
		t.Error("no events expected after decline")
	}

	if _, err := f.uc.Archive(ctx, 2, nil); !errors.Is(err, e.ErrNotConfirmed) {
		t.Errorf("nil confirmer: %v", err)
	}
}

func TestProductUseCase_ConfirmationPrompt(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	f := newFixture(true)

	confirmer := mocks.NewMockConfirmer(ctrl)
	confirmer.EXPECT().
		Confirm(gomock.Any(), "Are you sure you want to archive this product?").
		Return(true, nil)

	if _, err := f.uc.Archive(ctx, 3, confirmer); err != nil {
		t.Fatalf("archive: %v", err)
	}

	confirmer.EXPECT().
		Confirm(gomock.Any(), "Are you sure you want to permanently delete this product?").
		Return(false, nil)

	res, err := f.uc.Delete(ctx, 3, confirmer)
	if err != nil || res.Applied {
		t.Fatalf("delete must be declined: %+v, %v", res, err)
	}
}

func TestProductUseCase_SetArchivedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)

	first, err := f.uc.SetArchived(ctx, 2, true)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	second, err := f.uc.SetArchived(ctx, 2, true)
	if err != nil {
		t.Fatalf("second: %v", err)
	}
	if first.ID != second.ID || first.IsArchived != second.IsArchived || first.Name != second.Name || !first.Price.Equal(second.Price) {
		t.Errorf("repeated archive changed the product: %+v vs %+v", first, second)
	}

	archived, _ := f.uc.List(ctx, domain.StatusArchived)
	if len(archived) != 1 {
		t.Errorf("archived = %v", archived)
	}
}

func TestProductUseCase_Update(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)

	updated, err := f.uc.Update(ctx, &usecase.UpdateProductReq{
		ID:       1,
		Name:     ptr("  Studio Headphones "),
		Category: ptr("electronics"),
		Price:    ptr(decimal.RequireFromString("99.5")),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Name != "Studio Headphones" || updated.Category != "Electronics" || updated.Price.StringFixed(2) != "99.50" {
		t.Errorf("unexpected update result: %+v", updated)
	}
	if updated.ID != 1 || updated.Date.Format(time.DateOnly) != "2024-01-15" {
		t.Errorf("id and date must be immutable: %+v", updated)
	}

	if _, err := f.uc.Update(ctx, &usecase.UpdateProductReq{ID: 1}); !errors.Is(err, e.ErrNoFieldsToUpdate) {
		t.Errorf("empty patch: %v", err)
	}
	if _, err := f.uc.Update(ctx, &usecase.UpdateProductReq{ID: 42, Name: ptr("x")}); !errors.Is(err, e.ErrNotFound) {
		t.Errorf("missing product: %v", err)
	}

	if _, err := f.uc.Archive(ctx, 2, confirm); err != nil {
		t.Fatalf("archive: %v", err)
	}
	before := len(f.outbox.Events())
	_, err = f.uc.Update(ctx, &usecase.UpdateProductReq{ID: 2, Name: ptr("Changed while archived")})
	if !errors.Is(err, e.ErrTransitionNotAllowed) {
		t.Fatalf("archived product must not be editable: %v", err)
	}
	stored, _ := f.uc.Get(ctx, 2)
	if stored.Name != "Office Chair" {
		t.Errorf("archived product changed: %+v", stored)
	}
	if len(f.outbox.Events()) != before {
		t.Error("rejected edit must not write an event")
	}
}

func TestProductUseCase_ValidationDoesNotTouchStore(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	// без EXPECT любой вызов хранилища проваливает тест
	uc := usecase.NewProductUC(
		mocks.NewMockProductRepository(ctrl),
		mocks.NewMockOutboxRepository(ctrl),
		mocks.NewMockTransactor(ctrl),
		mocks.NewMockCacheRepository(ctrl),
		mocks.NewMockSnapshotStorage(ctrl),
		domain.NewCategoryPolicy(cfg.DefaultCategories, false),
		logger.Nop(),
	)

	tests := []struct {
		name string
		req  usecase.CreateProductReq
		want error
	}{
		{"empty name", usecase.CreateProductReq{Name: "  ", Category: "Furniture"}, e.ErrProductNameRequired},
		{"empty category", usecase.CreateProductReq{Name: "Desk"}, e.ErrCategoryRequired},
		{"unknown category", usecase.CreateProductReq{Name: "Desk", Category: "Weapons"}, e.ErrUnknownCategory},
		{"negative price", usecase.CreateProductReq{Name: "Desk", Category: "Furniture", Price: decimal.NewFromInt(-1)}, e.ErrInvalidPrice},
		{"precision", usecase.CreateProductReq{Name: "Desk", Category: "Furniture", Price: decimal.RequireFromString("1.999")}, e.ErrPricePrecision},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Create(ctx, &tt.req)
			if !errors.Is(err, tt.want) {
				t.Fatalf("got %v, want %v", err, tt.want)
			}
			if !errors.Is(err, e.ErrValidation) {
				t.Errorf("expected validation category: %v", err)
			}
		})
	}

	if _, err := uc.Get(ctx, 0); !errors.Is(err, e.ErrInvalidID) {
		t.Errorf("get with zero id: %v", err)
	}
	if _, err := uc.List(ctx, domain.StatusDeleted); !errors.Is(err, e.ErrInvalidStatus) {
		t.Errorf("list deleted: %v", err)
	}
}

func TestProductUseCase_StoreErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()
	boom := errors.New("connection refused")

	products := mocks.NewMockProductRepository(ctrl)
	transactor := mocks.NewMockTransactor(ctrl)
	uc := usecase.NewProductUC(
		products,
		mocks.NewMockOutboxRepository(ctrl),
		transactor,
		mocks.NewMockCacheRepository(ctrl),
		mocks.NewMockSnapshotStorage(ctrl),
		domain.NewCategoryPolicy(cfg.DefaultCategories, false),
		logger.Nop(),
	)

	products.EXPECT().List(gomock.Any(), domain.StatusActive).Return(nil, boom)
	if _, err := uc.List(ctx, domain.StatusActive); !errors.Is(err, e.ErrStore) || !errors.Is(err, boom) {
		t.Errorf("list: %v", err)
	}

	transactor.EXPECT().
		WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) })
	products.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, boom)

	_, err := uc.Create(ctx, &usecase.CreateProductReq{Name: "Desk", Category: "Furniture", Price: decimal.NewFromInt(150)})
	if !errors.Is(err, e.ErrStore) {
		t.Errorf("create: %v", err)
	}
}

func TestProductUseCase_GetUsesCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	ctx := context.Background()

	products := mocks.NewMockProductRepository(ctrl)
	cache := mocks.NewMockCacheRepository(ctrl)
	uc := usecase.NewProductUC(
		products,
		memory.NewOutboxRepo(),
		tr.NopTransactor{},
		cache,
		mocks.NewMockSnapshotStorage(ctrl),
		domain.NewCategoryPolicy(cfg.DefaultCategories, false),
		logger.Nop(),
	)

	stored := &domain.Product{ID: 5, Name: "Lamp", Category: "Furniture", Price: decimal.NewFromInt(20)}

	gomock.InOrder(
		cache.EXPECT().GetProduct(gomock.Any(), int64(5)).Return(nil, nil),
		products.EXPECT().Get(gomock.Any(), int64(5)).Return(stored, nil),
		cache.EXPECT().SetProduct(gomock.Any(), stored).Return(nil),
	)
	if got, err := uc.Get(ctx, 5); err != nil || got != stored {
		t.Fatalf("miss: %v, %v", got, err)
	}

	cache.EXPECT().GetProduct(gomock.Any(), int64(5)).Return(stored, nil)
	if got, err := uc.Get(ctx, 5); err != nil || got != stored {
		t.Fatalf("hit: %v, %v", got, err)
	}

	// ошибка кэша не мешает чтению из хранилища
	cache.EXPECT().GetProduct(gomock.Any(), int64(5)).Return(nil, errors.New("redis down"))
	products.EXPECT().Get(gomock.Any(), int64(5)).Return(stored, nil)
	cache.EXPECT().SetProduct(gomock.Any(), stored).Return(errors.New("redis down"))
	if _, err := uc.Get(ctx, 5); err != nil {
		t.Fatalf("cache failure must not fail get: %v", err)
	}

	archived := *stored
	archived.IsArchived = true
	products.EXPECT().Update(gomock.Any(), int64(5), gomock.Any()).Return(&archived, nil)
	cache.EXPECT().DeleteProducts(gomock.Any(), []int64{5}).Return(nil)
	if _, err := uc.SetArchived(ctx, 5, true); err != nil {
		t.Fatalf("set archived: %v", err)
	}
}

func TestProductUseCase_OutboxPayload(t *testing.T) {
	ctx := context.Background()
	f := newFixture(false)

	created, err := f.uc.Create(ctx, &usecase.CreateProductReq{Name: "Desk", Category: "Furniture", Price: decimal.NewFromInt(150)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	events := f.outbox.Events()
	if len(events) != 1 || events[0].EventType != usecase.EventProductCreated || events[0].ProductID != created.ID {
		t.Fatalf("events = %+v", events)
	}

	var payload usecase.ProductEventPayload
	if err := json.Unmarshal(events[0].Payload, &payload); err != nil {
		t.Fatalf("payload: %v", err)
	}
	if payload.EventID != events[0].EventID || payload.Product.Name != "Desk" {
		t.Errorf("payload = %+v", payload)
	}
}

func TestProductUseCase_ExportCatalog(t *testing.T) {
	ctx := context.Background()
	f := newFixture(true)

	if _, err := f.uc.Archive(ctx, 3, confirm); err != nil {
		t.Fatalf("archive: %v", err)
	}

	res, err := f.uc.ExportCatalog(ctx, &usecase.ExportCatalogReq{Status: domain.StatusActive})
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if res.Count != 2 || !strings.HasPrefix(res.Key, "exports/products-active-") || !strings.HasSuffix(res.Key, ".csv") {
		t.Fatalf("unexpected result: %+v", res)
	}

	data, ok := f.snapshots.Object(res.Key)
	if !ok {
		t.Fatal("snapshot was not stored")
	}
	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %v", records)
	}
	if strings.Join(records[1], ",") != "1,Wireless Headphones,Electronics,129.99,2024-01-15T00:00:00Z,false" {
		t.Errorf("first row = %v", records[1])
	}
}

func TestProductUseCase_Categories(t *testing.T) {
	f := newFixture(false)
	if got := f.uc.Categories(); len(got) != len(cfg.DefaultCategories) {
		t.Errorf("categories = %v", got)
	}
}
