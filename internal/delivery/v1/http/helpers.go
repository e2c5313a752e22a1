package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
)

const maxBodySize = 1 << 20

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func NewErrorResponse(code int, message string) *ErrorResponse {
	return &ErrorResponse{
		Code:    code,
		Message: message,
	}
}

// validationErrors: ошибки, текст которых можно отдать клиенту как есть.
var validationErrors = []error{
	e.ErrProductNameRequired,
	e.ErrCategoryRequired,
	e.ErrUnknownCategory,
	e.ErrPriceRequired,
	e.ErrInvalidPrice,
	e.ErrPricePrecision,
	e.ErrNoFieldsToUpdate,
	e.ErrInvalidID,
	e.ErrInvalidStatus,
	e.ErrStatusBadRequest,
}

func ToHTTPResponse(err error) (int, string) {
	switch {
	case errors.Is(err, e.ErrValidation):
		for _, target := range validationErrors {
			if errors.Is(err, target) {
				return http.StatusBadRequest, target.Error()
			}
		}
		return http.StatusBadRequest, e.ErrValidation.Error()
	case errors.Is(err, e.ErrNotFound):
		return http.StatusNotFound, e.ErrProductNotFound.Error()
	case errors.Is(err, e.ErrTransitionNotAllowed):
		return http.StatusConflict, e.ErrTransitionNotAllowed.Error()
	case errors.Is(err, e.ErrNotConfirmed):
		return http.StatusPreconditionRequired, e.ErrNotConfirmed.Error()
	case errors.Is(err, e.ErrStore):
		return http.StatusServiceUnavailable, e.ErrStore.Error()
	default:
		return http.StatusInternalServerError, e.ErrInternalServerError.Error()
	}
}

func WriteError(w http.ResponseWriter, err error) {
	code, msg := ToHTTPResponse(err)
	WriteSuccess(w, code, NewErrorResponse(code, msg))
}

func WriteSuccess(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// DTO

type ProductResponse struct {
	ID         int64       `json:"id" example:"1"`
	Name       string      `json:"name" example:"Wireless Headphones"`
	Category   string      `json:"category" example:"Electronics"`
	Price      json.Number `json:"price" swaggertype:"number" example:"129.99"`
	Date       string      `json:"date" example:"2024-01-15T00:00:00Z"`
	IsArchived bool        `json:"is_archived" example:"false"`
}

type ProductsResponse struct {
	Products []ProductResponse `json:"products"`
}

// CreateProductRequest: цена принимается числом или строкой.
type CreateProductRequest struct {
	Name     string           `json:"name" example:"Desk"`
	Category string           `json:"category" example:"Furniture"`
	Price    *decimal.Decimal `json:"price" swaggertype:"number" example:"150"`
}

type UpdateProductRequest struct {
	Name     *string          `json:"name,omitempty" example:"Standing Desk"`
	Category *string          `json:"category,omitempty" example:"Furniture"`
	Price    *decimal.Decimal `json:"price,omitempty" swaggertype:"number" example:"179.99"`
}

type TransitionResponse struct {
	Applied bool             `json:"applied"`
	Product *ProductResponse `json:"product,omitempty"`
}

type ExportResponse struct {
	Key   string `json:"key" example:"exports/products-active-20250101T120000Z.csv"`
	Count int    `json:"count" example:"3"`
}

type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:         p.ID,
		Name:       p.Name,
		Category:   p.Category,
		Price:      json.Number(p.Price.StringFixed(2)),
		Date:       p.Date.UTC().Format(time.RFC3339),
		IsArchived: p.IsArchived,
	}
}

func toProductsResponse(products []domain.Product) ProductsResponse {
	res := ProductsResponse{Products: make([]ProductResponse, 0, len(products))}
	for i := range products {
		res.Products = append(res.Products, toProductResponse(&products[i]))
	}
	return res
}

func toTransitionResponse(res *usecase.TransitionRes) TransitionResponse {
	out := TransitionResponse{Applied: res.Applied}
	if res.Product != nil {
		p := toProductResponse(res.Product)
		out.Product = &p
	}
	return out
}

// PARSING

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", e.ErrStatusBadRequest, err)
	}

	return nil
}

func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, e.ErrInvalidID
	}
	return id, nil
}

func parseStatus(r *http.Request) (domain.Status, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return domain.StatusActive, nil
	}
	return domain.ParseStatus(raw)
}

// parseConfirm читает флаг подтверждения из ?confirm=.
func parseConfirm(r *http.Request) (usecase.Confirmer, error) {
	raw := r.URL.Query().Get("confirm")
	if raw == "" {
		return usecase.StaticConfirmer(false), nil
	}

	confirmed, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: confirm must be a boolean", e.ErrStatusBadRequest)
	}
	return usecase.StaticConfirmer(confirmed), nil
}
