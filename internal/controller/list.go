package controller

import (
	"context"
	"slices"
	"sync"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
)

// ListState: снимок состояния экрана списка.
// Err хранит ошибку последней загрузки; пустой список без ошибки означает, что товаров нет.
type ListState struct {
	Filter   domain.Status
	Products []domain.Product
	Err      error
}

// ListController держит фильтр и загруженные товары экрана списка.
// После каждого применённого действия список перечитывается из хранилища целиком.
type ListController struct {
	mu        sync.Mutex
	uc        usecase.ProductUC
	confirmer usecase.Confirmer
	logger    logger.Logger

	filter   domain.Status
	products []domain.Product
	err      error
}

func NewListController(uc usecase.ProductUC, confirmer usecase.Confirmer, logger logger.Logger) *ListController {
	return &ListController{
		uc:        uc,
		confirmer: confirmer,
		logger:    logger,
		filter:    domain.StatusActive,
		products:  []domain.Product{},
	}
}

// Mount загружает список при открытии экрана.
func (l *ListController) Mount(ctx context.Context) error {
	return l.Refresh(ctx)
}

// Refresh перечитывает товары по текущему фильтру.
// При ошибке предыдущий список сохраняется, а ошибка попадает в состояние.
func (l *ListController) Refresh(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.refresh(ctx)
}

// ToggleFilter переключает активные/архивные товары и перечитывает список.
func (l *ListController) ToggleFilter(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.filter = l.filter.Toggle()
	return l.refresh(ctx)
}

func (l *ListController) Archive(ctx context.Context, id int64) (*usecase.TransitionRes, error) {
	return l.apply(ctx, id, l.uc.Archive)
}

func (l *ListController) Restore(ctx context.Context, id int64) (*usecase.TransitionRes, error) {
	return l.apply(ctx, id, l.uc.Restore)
}

func (l *ListController) Delete(ctx context.Context, id int64) (*usecase.TransitionRes, error) {
	return l.apply(ctx, id, l.uc.Delete)
}

// State возвращает копию текущего состояния.
func (l *ListController) State() ListState {
	l.mu.Lock()
	defer l.mu.Unlock()

	return ListState{
		Filter:   l.filter,
		Products: slices.Clone(l.products),
		Err:      l.err,
	}
}

// Actions возвращает действия, доступные для строки списка.
func (l *ListController) Actions(product domain.Product) []domain.Action {
	return domain.AllowedActions(product.Status())
}

type transitionFunc func(ctx context.Context, id int64, confirmer usecase.Confirmer) (*usecase.TransitionRes, error)

func (l *ListController) apply(ctx context.Context, id int64, fn transitionFunc) (*usecase.TransitionRes, error) {
	const op = "ListController.apply"

	l.mu.Lock()
	defer l.mu.Unlock()

	res, err := fn(ctx, id, l.confirmer)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	if !res.Applied {
		return res, nil
	}

	if err := l.refresh(ctx); err != nil {
		l.logger.Warnf("list refresh after action failed: %v", err)
	}

	return res, nil
}

func (l *ListController) refresh(ctx context.Context) error {
	const op = "ListController.refresh"

	products, err := l.uc.List(ctx, l.filter)
	if err != nil {
		l.err = e.Wrap(op, err)
		return l.err
	}

	l.products = products
	l.err = nil
	return nil
}
