package usecase

import (
	"context"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
)

// ProductUC: операции над товарами, доступные транспортам и контроллерам.
type ProductUC interface {
	List(ctx context.Context, status domain.Status) ([]domain.Product, error)
	Get(ctx context.Context, id int64) (*domain.Product, error)
	Create(ctx context.Context, req *CreateProductReq) (*domain.Product, error)
	Update(ctx context.Context, req *UpdateProductReq) (*domain.Product, error)
	SetArchived(ctx context.Context, id int64, archived bool) (*domain.Product, error)
	Archive(ctx context.Context, id int64, confirmer Confirmer) (*TransitionRes, error)
	Restore(ctx context.Context, id int64, confirmer Confirmer) (*TransitionRes, error)
	Delete(ctx context.Context, id int64, confirmer Confirmer) (*TransitionRes, error)
	ExportCatalog(ctx context.Context, req *ExportCatalogReq) (*ExportCatalogRes, error)
	Categories() []string
}
