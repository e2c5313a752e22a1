package grpc

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/shopspring/decimal"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// GRPCErrorResponse переводит ошибку usecase в статус gRPC.
func GRPCErrorResponse(err error) error {
	switch {
	case errors.Is(err, e.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, e.ErrNotFound):
		return status.Error(codes.NotFound, e.ErrProductNotFound.Error())
	case errors.Is(err, e.ErrTransitionNotAllowed), errors.Is(err, e.ErrNotConfirmed):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, e.ErrStore):
		return status.Error(codes.Unavailable, e.ErrStore.Error())
	default:
		return status.Error(codes.Internal, e.ErrInternalServerError.Error())
	}
}

// errorFromStatus восстанавливает категорию ошибки на стороне клиента.
func errorFromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("%w: %w", e.ErrStore, err)
	}

	switch st.Code() {
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", e.ErrValidation, st.Message())
	case codes.NotFound:
		return e.ErrProductNotFound
	case codes.FailedPrecondition:
		return fmt.Errorf("%w: %s", e.ErrTransitionNotAllowed, st.Message())
	default:
		return fmt.Errorf("%w: %s: %s", e.ErrStore, st.Code(), st.Message())
	}
}

func productFields(p *domain.Product) map[string]any {
	return map[string]any{
		"id":          p.ID,
		"name":        p.Name,
		"category":    p.Category,
		"price":       p.Price.StringFixed(2),
		"date":        p.Date.UTC().Format(time.RFC3339),
		"is_archived": p.IsArchived,
	}
}

func productsFields(products []domain.Product) []any {
	list := make([]any, 0, len(products))
	for i := range products {
		list = append(list, productFields(&products[i]))
	}
	return list
}

func transitionFields(res *usecase.TransitionRes) map[string]any {
	fields := map[string]any{"applied": res.Applied}
	if res.Product != nil {
		fields["product"] = productFields(res.Product)
	}
	return fields
}

func newStruct(fields map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return s, nil
}

func productFromStruct(s *structpb.Struct) (*domain.Product, error) {
	id, err := int64Field(s, "id")
	if err != nil {
		return nil, err
	}

	price, err := priceField(s, "price")
	if err != nil {
		return nil, err
	}
	if price == nil {
		return nil, e.ErrPriceRequired
	}

	date, err := time.Parse(time.RFC3339, s.GetFields()["date"].GetStringValue())
	if err != nil {
		return nil, fmt.Errorf("%w: date: %w", e.ErrStatusBadRequest, err)
	}

	return &domain.Product{
		ID:         id,
		Name:       s.GetFields()["name"].GetStringValue(),
		Category:   s.GetFields()["category"].GetStringValue(),
		Price:      *price,
		Date:       date,
		IsArchived: s.GetFields()["is_archived"].GetBoolValue(),
	}, nil
}

func productsFromList(v *structpb.Value) ([]domain.Product, error) {
	values := v.GetListValue().GetValues()
	products := make([]domain.Product, 0, len(values))
	for _, item := range values {
		p, err := productFromStruct(item.GetStructValue())
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}
	return products, nil
}

// int64Field читает целое число. В Struct все числа float64, дробная часть недопустима.
func int64Field(s *structpb.Struct, name string) (int64, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, e.ErrInvalidID
	}

	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n != math.Trunc(n) || n >= math.MaxInt64 || n < math.MinInt64 {
			return 0, e.ErrInvalidID
		}
		return int64(n), nil
	case *structpb.Value_StringValue:
		n, err := strconv.ParseInt(kind.StringValue, 10, 64)
		if err != nil {
			return 0, e.ErrInvalidID
		}
		return n, nil
	default:
		return 0, e.ErrInvalidID
	}
}

func optionalString(s *structpb.Struct, name string) (*string, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return nil, nil
	}
	if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
		return nil, nil
	}

	str, isString := v.GetKind().(*structpb.Value_StringValue)
	if !isString {
		return nil, fmt.Errorf("%w: %s must be a string", e.ErrStatusBadRequest, name)
	}
	return &str.StringValue, nil
}

// priceField принимает цену строкой ("129.99") или числом; строка не теряет точность.
func priceField(s *structpb.Struct, name string) (*decimal.Decimal, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return nil, nil
	}

	var raw string
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NullValue:
		return nil, nil
	case *structpb.Value_StringValue:
		raw = kind.StringValue
	case *structpb.Value_NumberValue:
		raw = strconv.FormatFloat(kind.NumberValue, 'f', -1, 64)
	default:
		return nil, e.ErrInvalidPrice
	}

	price, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, e.ErrInvalidPrice
	}
	return &price, nil
}

// statusField: пустой статус означает активные товары, как и в HTTP API.
func statusField(s *structpb.Struct) (domain.Status, error) {
	raw := stringField(s, "status")
	if raw == "" {
		return domain.StatusActive, nil
	}
	return domain.ParseStatus(raw)
}

func stringField(s *structpb.Struct, name string) string {
	return s.GetFields()[name].GetStringValue()
}

func boolField(s *structpb.Struct, name string) bool {
	return s.GetFields()[name].GetBoolValue()
}
