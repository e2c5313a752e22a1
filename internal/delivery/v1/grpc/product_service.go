package grpc

import (
	"context"
	"errors"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"google.golang.org/protobuf/types/known/structpb"
)

// ProductService реализует inventory.v1.ProductService поверх usecase.ProductUC.
// Для переходов жизненного цикла подтверждение передаётся полем confirm запроса.
type ProductService struct {
	prUC   usecase.ProductUC
	logger logger.Logger
}

func NewProductService(prUC usecase.ProductUC, logger logger.Logger) *ProductService {
	return &ProductService{prUC: prUC, logger: logger}
}

// ListProducts: {status: "active"|"archived"|"all"} -> {products: [...]}. Без status: активные.
func (g *ProductService) ListProducts(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.ListProducts"

	st, err := statusField(req)
	if err != nil {
		return nil, g.fail(op, err)
	}

	products, err := g.prUC.List(ctx, st)
	if err != nil {
		return nil, g.fail(op, err)
	}

	return newStruct(map[string]any{"products": productsFields(products)})
}

// GetProduct: {id} -> product
func (g *ProductService) GetProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.GetProduct"

	id, err := int64Field(req, "id")
	if err != nil {
		return nil, g.fail(op, err)
	}

	product, err := g.prUC.Get(ctx, id)
	if err != nil {
		return nil, g.fail(op, err)
	}

	return newStruct(productFields(product))
}

// CreateProduct: {name, category, price} -> product
func (g *ProductService) CreateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.CreateProduct"

	price, err := priceField(req, "price")
	if err != nil {
		return nil, g.fail(op, err)
	}
	if price == nil {
		return nil, g.fail(op, e.ErrPriceRequired)
	}

	product, err := g.prUC.Create(ctx, &usecase.CreateProductReq{
		Name:     stringField(req, "name"),
		Category: stringField(req, "category"),
		Price:    *price,
	})
	if err != nil {
		return nil, g.fail(op, err)
	}

	return newStruct(productFields(product))
}

// UpdateProduct: {id, name?, category?, price?} -> product
func (g *ProductService) UpdateProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.UpdateProduct"

	updateReq, err := updateReqFromStruct(req)
	if err != nil {
		return nil, g.fail(op, err)
	}

	product, err := g.prUC.Update(ctx, updateReq)
	if err != nil {
		return nil, g.fail(op, err)
	}

	return newStruct(productFields(product))
}

// ArchiveProduct: {id, confirm} -> {applied, product}
func (g *ProductService) ArchiveProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return g.transition(ctx, "grpc.ArchiveProduct", req, g.prUC.Archive)
}

// RestoreProduct: {id, confirm} -> {applied, product}
func (g *ProductService) RestoreProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return g.transition(ctx, "grpc.RestoreProduct", req, g.prUC.Restore)
}

// DeleteProduct: {id, confirm} -> {applied, product}
func (g *ProductService) DeleteProduct(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	return g.transition(ctx, "grpc.DeleteProduct", req, g.prUC.Delete)
}

// ExportCatalog: {status} -> {key, count}
func (g *ProductService) ExportCatalog(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	const op = "grpc.ExportCatalog"

	st, err := statusField(req)
	if err != nil {
		return nil, g.fail(op, err)
	}

	res, err := g.prUC.ExportCatalog(ctx, &usecase.ExportCatalogReq{Status: st})
	if err != nil {
		return nil, g.fail(op, err)
	}

	return newStruct(map[string]any{"key": res.Key, "count": res.Count})
}

// ListCategories: {} -> {categories: [...]}
func (g *ProductService) ListCategories(_ context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	categories := g.prUC.Categories()
	list := make([]any, 0, len(categories))
	for _, c := range categories {
		list = append(list, c)
	}

	return newStruct(map[string]any{"categories": list})
}

type transitionFunc func(ctx context.Context, id int64, confirmer usecase.Confirmer) (*usecase.TransitionRes, error)

func (g *ProductService) transition(ctx context.Context, op string, req *structpb.Struct, fn transitionFunc) (*structpb.Struct, error) {
	id, err := int64Field(req, "id")
	if err != nil {
		return nil, g.fail(op, err)
	}

	res, err := fn(ctx, id, usecase.StaticConfirmer(boolField(req, "confirm")))
	if err != nil {
		return nil, g.fail(op, err)
	}

	return newStruct(transitionFields(res))
}

func (g *ProductService) fail(op string, err error) error {
	err = e.Wrap(op, err)
	if errors.Is(err, e.ErrStore) || !e.IsCategorized(err) {
		g.logger.Errorf(err, "%s", op)
	} else {
		g.logger.Debugf("%s: %v", op, err)
	}
	return GRPCErrorResponse(err)
}

func updateReqFromStruct(req *structpb.Struct) (*usecase.UpdateProductReq, error) {
	id, err := int64Field(req, "id")
	if err != nil {
		return nil, err
	}

	name, err := optionalString(req, "name")
	if err != nil {
		return nil, err
	}

	category, err := optionalString(req, "category")
	if err != nil {
		return nil, err
	}

	price, err := priceField(req, "price")
	if err != nil {
		return nil, err
	}

	return &usecase.UpdateProductReq{
		ID:       id,
		Name:     name,
		Category: category,
		Price:    price,
	}, nil
}
