package controller

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/shopspring/decimal"
)

// ProductDraft: значения полей формы в том виде, в котором их ввёл пользователь.
type ProductDraft struct {
	Name     string
	Category string
	Price    string
}

// Valid сообщает, можно ли отправить форму: все поля заполнены, цена разбирается.
func (d ProductDraft) Valid() bool {
	_, err := d.parse()
	return err == nil
}

func (d ProductDraft) parse() (decimal.Decimal, error) {
	if err := domain.ValidateName(d.Name); err != nil {
		return decimal.Zero, err
	}
	if strings.TrimSpace(d.Category) == "" {
		return decimal.Zero, e.ErrCategoryRequired
	}

	return domain.ParsePrice(d.Price)
}

func draftFromProduct(p *domain.Product) ProductDraft {
	return ProductDraft{
		Name:     p.Name,
		Category: p.Category,
		Price:    p.Price.StringFixed(2),
	}
}

// AddForm: форма создания товара.
type AddForm struct {
	mu     sync.Mutex
	uc     usecase.ProductUC
	nav    Navigator
	logger logger.Logger
	draft  ProductDraft
}

func NewAddForm(uc usecase.ProductUC, nav Navigator, logger logger.Logger) *AddForm {
	return &AddForm{uc: uc, nav: nav, logger: logger}
}

func (f *AddForm) Draft() ProductDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *AddForm) SetDraft(d ProductDraft) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = d
}

func (f *AddForm) Valid() bool {
	return f.Draft().Valid()
}

// Submit создаёт товар и возвращает на список.
// При ошибке черновик остаётся нетронутым, навигации нет.
func (f *AddForm) Submit(ctx context.Context) (*domain.Product, error) {
	const op = "AddForm.Submit"

	f.mu.Lock()
	defer f.mu.Unlock()

	price, err := f.draft.parse()
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	created, err := f.uc.Create(ctx, &usecase.CreateProductReq{
		Name:     f.draft.Name,
		Category: f.draft.Category,
		Price:    price,
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	f.draft = ProductDraft{}
	f.nav.Navigate(RouteList)
	return created, nil
}

// Cancel возвращает на список без сохранения.
func (f *AddForm) Cancel() {
	f.nav.Navigate(RouteList)
}

// EditForm: форма редактирования существующего активного товара.
type EditForm struct {
	mu     sync.Mutex
	uc     usecase.ProductUC
	nav    Navigator
	logger logger.Logger

	id    int64
	draft ProductDraft
}

func NewEditForm(uc usecase.ProductUC, nav Navigator, logger logger.Logger) *EditForm {
	return &EditForm{uc: uc, nav: nav, logger: logger}
}

// Mount разбирает id из маршрута и загружает товар в черновик.
// Некорректный id, отсутствующий или архивный товар возвращают на список.
func (f *EditForm) Mount(ctx context.Context, rawID string) error {
	const op = "EditForm.Mount"

	f.mu.Lock()
	defer f.mu.Unlock()

	f.id = 0
	f.draft = ProductDraft{}

	id, err := strconv.ParseInt(strings.TrimSpace(rawID), 10, 64)
	if err != nil || id <= 0 {
		f.nav.Navigate(RouteList)
		return e.Wrap(op, e.ErrInvalidID)
	}

	product, err := f.uc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, e.ErrNotFound) || errors.Is(err, e.ErrValidation) {
			f.nav.Navigate(RouteList)
		}
		return e.Wrap(op, err)
	}

	if _, err := domain.Transition(product.Status(), domain.ActionEdit); err != nil {
		f.logger.Debugf("product %d is archived and cannot be edited", id)
		f.nav.Navigate(RouteList)
		return e.Wrap(op, err)
	}

	f.id = product.ID
	f.draft = draftFromProduct(product)
	return nil
}

// ID возвращает идентификатор редактируемого товара, 0 если форма не загружена.
func (f *EditForm) ID() int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.id
}

func (f *EditForm) Draft() ProductDraft {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.draft
}

func (f *EditForm) SetDraft(d ProductDraft) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.draft = d
}

func (f *EditForm) Valid() bool {
	return f.ID() > 0 && f.Draft().Valid()
}

// Submit сохраняет название, категорию и цену и возвращает на список.
func (f *EditForm) Submit(ctx context.Context) (*domain.Product, error) {
	const op = "EditForm.Submit"

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.id <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidID)
	}

	price, err := f.draft.parse()
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	name, category := f.draft.Name, f.draft.Category
	updated, err := f.uc.Update(ctx, &usecase.UpdateProductReq{
		ID:       f.id,
		Name:     &name,
		Category: &category,
		Price:    &price,
	})
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	f.nav.Navigate(RouteList)
	return updated, nil
}

func (f *EditForm) Cancel() {
	f.nav.Navigate(RouteList)
}
