package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DRSN-tech/inventory-backend/internal/cfg"
	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/repository/memory"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/DRSN-tech/inventory-backend/pkg/tr"
	"github.com/go-chi/chi/v5"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	uc := usecase.NewProductUC(
		memory.NewSeededProductRepo(),
		memory.NewOutboxRepo(),
		tr.NopTransactor{},
		memory.NopCache{},
		memory.NewSnapshotStorage("exports"),
		domain.NewCategoryPolicy(cfg.DefaultCategories, false),
		logger.Nop(),
	)

	mux := chi.NewRouter()
	NewRouter(mux, logger.Nop(), "/swagger/doc.json").Init(uc)
	return mux
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestListProducts(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodGet, "/api/v1/products", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	res := decode[ProductsResponse](t, rec)
	if len(res.Products) != 3 {
		t.Fatalf("products = %d", len(res.Products))
	}
	first := res.Products[0]
	if first.ID != 1 || first.Price != "129.99" || first.Date != "2024-01-15T00:00:00Z" || first.IsArchived {
		t.Errorf("first = %+v", first)
	}

	if rec := do(t, h, http.MethodGet, "/api/v1/products?status=archived", ""); len(decode[ProductsResponse](t, rec).Products) != 0 {
		t.Error("archive must be empty")
	}
	if rec := do(t, h, http.MethodGet, "/api/v1/products?status=gone", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad status code = %d", rec.Code)
	}
}

func TestCreateProduct(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/products", `{"name":"  Desk ","category":"Furniture","price":"150"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d body = %s", rec.Code, rec.Body.String())
	}

	product := decode[ProductResponse](t, rec)
	if product.ID != 4 || product.Name != "Desk" || product.Price != "150.00" || product.IsArchived {
		t.Errorf("product = %+v", product)
	}

	tests := []struct {
		name string
		body string
		msg  string
	}{
		{"empty name", `{"name":"  ","category":"Furniture","price":1}`, e.ErrProductNameRequired.Error()},
		{"unknown category", `{"name":"Lamp","category":"Toys","price":1}`, e.ErrUnknownCategory.Error()},
		{"missing price", `{"name":"Lamp","category":"Furniture"}`, e.ErrPriceRequired.Error()},
		{"negative price", `{"name":"Lamp","category":"Furniture","price":-1}`, e.ErrInvalidPrice.Error()},
		{"unknown field", `{"name":"Lamp","category":"Furniture","price":1,"id":7}`, e.ErrStatusBadRequest.Error()},
		{"malformed", `{"name":`, e.ErrStatusBadRequest.Error()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/v1/products", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", rec.Code)
			}
			if res := decode[ErrorResponse](t, rec); res.Message != tt.msg {
				t.Errorf("message = %q, want %q", res.Message, tt.msg)
			}
		})
	}
}

func TestUpdateProduct(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPatch, "/api/v1/products/2", `{"price":179}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("patch status = %d body = %s", rec.Code, rec.Body.String())
	}
	patched := decode[ProductResponse](t, rec)
	if patched.Name != "Office Chair" || patched.Price != "179.00" || patched.Date != "2024-02-20T00:00:00Z" {
		t.Errorf("patched = %+v", patched)
	}

	if rec := do(t, h, http.MethodPatch, "/api/v1/products/2", `{}`); rec.Code != http.StatusBadRequest {
		t.Errorf("empty patch status = %d", rec.Code)
	}

	rec = do(t, h, http.MethodPut, "/api/v1/products/3", `{"name":"Espresso Machine","category":"Appliances","price":"249.90"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("put status = %d", rec.Code)
	}
	if replaced := decode[ProductResponse](t, rec); replaced.Name != "Espresso Machine" || replaced.Price != "249.90" {
		t.Errorf("replaced = %+v", replaced)
	}

	if rec := do(t, h, http.MethodPut, "/api/v1/products/3", `{"name":"Espresso Machine","category":"Appliances"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("put without price status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPatch, "/api/v1/products/99", `{"name":"Ghost"}`); rec.Code != http.StatusNotFound {
		t.Errorf("missing product status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/v1/products/abc", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id status = %d", rec.Code)
	}
}

func TestLifecycle(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/products/1/archive", "")
	if rec.Code != http.StatusPreconditionRequired {
		t.Fatalf("unconfirmed archive status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/v1/products/1", ""); decode[ProductResponse](t, rec).IsArchived {
		t.Fatal("declined archive must not change the product")
	}

	if rec := do(t, h, http.MethodDelete, "/api/v1/products/1?confirm=true", ""); rec.Code != http.StatusConflict {
		t.Errorf("delete active status = %d", rec.Code)
	}

	rec = do(t, h, http.MethodPost, "/api/v1/products/1/archive?confirm=true", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("archive status = %d", rec.Code)
	}
	res := decode[TransitionResponse](t, rec)
	if !res.Applied || res.Product == nil || !res.Product.IsArchived {
		t.Errorf("archive = %+v", res)
	}

	if rec := do(t, h, http.MethodPost, "/api/v1/products/1/archive?confirm=true", ""); rec.Code != http.StatusConflict {
		t.Errorf("second archive status = %d", rec.Code)
	}

	if rec := do(t, h, http.MethodPatch, "/api/v1/products/1", `{"name":"Changed while archived"}`); rec.Code != http.StatusConflict {
		t.Errorf("patch archived status = %d body = %s", rec.Code, rec.Body.String())
	}
	if rec := do(t, h, http.MethodPut, "/api/v1/products/1", `{"name":"Changed while archived","category":"Electronics","price":"1.00"}`); rec.Code != http.StatusConflict {
		t.Errorf("put archived status = %d", rec.Code)
	}
	if got := decode[ProductResponse](t, do(t, h, http.MethodGet, "/api/v1/products/1", "")); got.Name != "Wireless Headphones" || got.Price != "129.99" {
		t.Errorf("archived product changed: %+v", got)
	}
	if rec := do(t, h, http.MethodPost, "/api/v1/products/1/restore?confirm=maybe", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad confirm status = %d", rec.Code)
	}

	if rec := do(t, h, http.MethodDelete, "/api/v1/products/1?confirm=true", ""); rec.Code != http.StatusOK {
		t.Fatalf("delete status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/v1/products/1", ""); rec.Code != http.StatusNotFound {
		t.Errorf("deleted product status = %d", rec.Code)
	}
	if rec := do(t, h, http.MethodGet, "/api/v1/products?status=all", ""); len(decode[ProductsResponse](t, rec).Products) != 2 {
		t.Error("deleted product is still listed")
	}
}

func TestExportAndCategories(t *testing.T) {
	h := newTestRouter(t)

	rec := do(t, h, http.MethodPost, "/api/v1/products/export?status=all", "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("export status = %d", rec.Code)
	}
	res := decode[ExportResponse](t, rec)
	if res.Count != 3 || !strings.HasPrefix(res.Key, "exports/products-all-") {
		t.Errorf("export = %+v", res)
	}

	rec = do(t, h, http.MethodGet, "/api/v1/categories", "")
	if got := decode[CategoriesResponse](t, rec).Categories; len(got) != len(cfg.DefaultCategories) {
		t.Errorf("categories = %v", got)
	}
}

func TestToHTTPResponse(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{e.Wrap("op", e.ErrUnknownCategory), http.StatusBadRequest},
		{e.Wrap("op", e.ErrProductNotFound), http.StatusNotFound},
		{e.ErrTransitionNotAllowed, http.StatusConflict},
		{e.ErrNotConfirmed, http.StatusPreconditionRequired},
		{e.Store("op", errors.New("dial tcp: refused")), http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if code, _ := ToHTTPResponse(tt.err); code != tt.code {
			t.Errorf("%v: code = %d, want %d", tt.err, code, tt.code)
		}
	}
}
