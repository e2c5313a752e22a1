package grpc

import (
	"context"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// RemoteProductUC реализует usecase.ProductUC через inventory.v1.ProductService.
// Переход проверяется и подтверждается на стороне клиента, сервер получает уже confirm=true.
type RemoteProductUC struct {
	cc         grpc.ClientConnInterface
	categories []string
}

// NewRemoteProductUC загружает список категорий с сервера.
func NewRemoteProductUC(ctx context.Context, cc grpc.ClientConnInterface) (*RemoteProductUC, error) {
	r := &RemoteProductUC{cc: cc}

	res, err := r.call(ctx, MethodListCategories, map[string]any{})
	if err != nil {
		return nil, e.Wrap("RemoteProductUC.ListCategories", err)
	}

	for _, v := range res.GetFields()["categories"].GetListValue().GetValues() {
		r.categories = append(r.categories, v.GetStringValue())
	}

	return r, nil
}

func (r *RemoteProductUC) List(ctx context.Context, status domain.Status) ([]domain.Product, error) {
	label := string(status)
	if status == domain.StatusAll {
		label = "all"
	}

	res, err := r.call(ctx, MethodListProducts, map[string]any{"status": label})
	if err != nil {
		return nil, e.Wrap("RemoteProductUC.List", err)
	}

	return productsFromList(res.GetFields()["products"])
}

func (r *RemoteProductUC) Get(ctx context.Context, id int64) (*domain.Product, error) {
	return r.product(ctx, "RemoteProductUC.Get", MethodGetProduct, map[string]any{"id": id})
}

func (r *RemoteProductUC) Create(ctx context.Context, req *usecase.CreateProductReq) (*domain.Product, error) {
	return r.product(ctx, "RemoteProductUC.Create", MethodCreateProduct, map[string]any{
		"name":     req.Name,
		"category": req.Category,
		"price":    req.Price.String(),
	})
}

func (r *RemoteProductUC) Update(ctx context.Context, req *usecase.UpdateProductReq) (*domain.Product, error) {
	fields := map[string]any{"id": req.ID}
	if req.Name != nil {
		fields["name"] = *req.Name
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Price != nil {
		fields["price"] = req.Price.String()
	}

	return r.product(ctx, "RemoteProductUC.Update", MethodUpdateProduct, fields)
}

// SetArchived по сети не доступен: переходы идут только через Archive/Restore с подтверждением.
func (r *RemoteProductUC) SetArchived(_ context.Context, _ int64, _ bool) (*domain.Product, error) {
	return nil, e.Wrap("RemoteProductUC.SetArchived", e.ErrTransitionNotAllowed)
}

func (r *RemoteProductUC) Archive(ctx context.Context, id int64, confirmer usecase.Confirmer) (*usecase.TransitionRes, error) {
	return r.transition(ctx, "RemoteProductUC.Archive", MethodArchiveProduct, id, domain.ActionArchive, confirmer)
}

func (r *RemoteProductUC) Restore(ctx context.Context, id int64, confirmer usecase.Confirmer) (*usecase.TransitionRes, error) {
	return r.transition(ctx, "RemoteProductUC.Restore", MethodRestoreProduct, id, domain.ActionRestore, confirmer)
}

func (r *RemoteProductUC) Delete(ctx context.Context, id int64, confirmer usecase.Confirmer) (*usecase.TransitionRes, error) {
	return r.transition(ctx, "RemoteProductUC.Delete", MethodDeleteProduct, id, domain.ActionDelete, confirmer)
}

func (r *RemoteProductUC) ExportCatalog(ctx context.Context, req *usecase.ExportCatalogReq) (*usecase.ExportCatalogRes, error) {
	label := string(req.Status)
	if req.Status == domain.StatusAll {
		label = "all"
	}

	res, err := r.call(ctx, MethodExportCatalog, map[string]any{"status": label})
	if err != nil {
		return nil, e.Wrap("RemoteProductUC.ExportCatalog", err)
	}

	fields := res.GetFields()
	return usecase.NewExportCatalogRes(fields["key"].GetStringValue(), int(fields["count"].GetNumberValue())), nil
}

func (r *RemoteProductUC) Categories() []string {
	return append([]string(nil), r.categories...)
}

func (r *RemoteProductUC) transition(
	ctx context.Context,
	op string,
	method string,
	id int64,
	action domain.Action,
	confirmer usecase.Confirmer,
) (*usecase.TransitionRes, error) {
	if confirmer == nil {
		return nil, e.Wrap(op, e.ErrNotConfirmed)
	}

	product, err := r.Get(ctx, id)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if _, err := domain.Transition(product.Status(), action); err != nil {
		return nil, e.Wrap(op, err)
	}

	confirmed, err := confirmer.Confirm(ctx, domain.ConfirmationPrompt(action))
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if !confirmed {
		return usecase.NewTransitionRes(false, product), nil
	}

	res, err := r.call(ctx, method, map[string]any{"id": id, "confirm": true})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	fields := res.GetFields()
	if p, ok := fields["product"]; ok {
		product, err = productFromStruct(p.GetStructValue())
		if err != nil {
			return nil, e.Wrap(op, err)
		}
	}

	return usecase.NewTransitionRes(fields["applied"].GetBoolValue(), product), nil
}

func (r *RemoteProductUC) product(ctx context.Context, op string, method string, fields map[string]any) (*domain.Product, error) {
	res, err := r.call(ctx, method, fields)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	product, err := productFromStruct(res)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return product, nil
}

func (r *RemoteProductUC) call(ctx context.Context, method string, fields map[string]any) (*structpb.Struct, error) {
	req, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}

	out := new(structpb.Struct)
	if err := r.cc.Invoke(ctx, fullMethod(method), req, out); err != nil {
		return nil, errorFromStatus(err)
	}

	return out, nil
}
