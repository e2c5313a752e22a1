package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/DRSN-tech/inventory-backend/internal/usecase"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
)

type ProductHandler struct {
	productUsecase usecase.ProductUC
	logger         logger.Logger
}

func NewProductHandler(productUsecase usecase.ProductUC, logger logger.Logger) *ProductHandler {
	return &ProductHandler{productUsecase: productUsecase, logger: logger}
}

// listProducts
//
//	@Summary		Список товаров
//	@Description	Возвращает товары с указанным статусом, упорядоченные по id
//	@Tags			products
//	@Produce		json
//	@Param			status	query		string	false	"active (по умолчанию), archived или all"
//	@Success		200		{object}	ProductsResponse
//	@Failure		400		{object}	ErrorResponse	"Неизвестный статус"
//	@Failure		503		{object}	ErrorResponse	"Хранилище недоступно"
//	@Router			/products [get]
func (p *ProductHandler) listProducts(w http.ResponseWriter, r *http.Request) {
	status, err := parseStatus(r)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	products, err := p.productUsecase.List(r.Context(), status)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductsResponse(products))
}

// getProduct
//
//	@Summary	Товар по id
//	@Tags		products
//	@Produce	json
//	@Param		id	path		int	true	"ID товара"
//	@Success	200	{object}	ProductResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/products/{id} [get]
func (p *ProductHandler) getProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	product, err := p.productUsecase.Get(r.Context(), id)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

// createProduct
//
//	@Summary		Создание товара
//	@Description	Создаёт активный товар. id и дату назначает хранилище
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			product	body		CreateProductRequest	true	"Новый товар"
//	@Success		201		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse	"Ошибка валидации"
//	@Router			/products [post]
func (p *ProductHandler) createProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		p.fail(w, r, err)
		return
	}
	if req.Price == nil {
		p.fail(w, r, e.ErrPriceRequired)
		return
	}

	product, err := p.productUsecase.Create(r.Context(), &usecase.CreateProductReq{
		Name:     req.Name,
		Category: req.Category,
		Price:    *req.Price,
	})
	if err != nil {
		p.fail(w, r, err)
		return
	}

	p.logger.Infof("product %d created via http", product.ID)
	WriteSuccess(w, http.StatusCreated, toProductResponse(product))
}

// replaceProduct
//
//	@Summary		Редактирование товара
//	@Description	Заменяет название, категорию и цену. Все три поля обязательны
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"ID товара"
//	@Param			product	body		CreateProductRequest	true	"Новые значения"
//	@Success		200		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/products/{id} [put]
func (p *ProductHandler) replaceProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	var req CreateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		p.fail(w, r, err)
		return
	}
	if req.Price == nil {
		p.fail(w, r, e.ErrPriceRequired)
		return
	}

	p.update(w, r, &usecase.UpdateProductReq{
		ID:       id,
		Name:     &req.Name,
		Category: &req.Category,
		Price:    req.Price,
	})
}

// patchProduct
//
//	@Summary		Частичное изменение товара
//	@Description	Изменяет только переданные поля. Пустой запрос отклоняется
//	@Tags			products
//	@Accept			json
//	@Produce		json
//	@Param			id		path		int						true	"ID товара"
//	@Param			patch	body		UpdateProductRequest	true	"Изменяемые поля"
//	@Success		200		{object}	ProductResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Router			/products/{id} [patch]
func (p *ProductHandler) patchProduct(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	var req UpdateProductRequest
	if err := decodeJSON(w, r, &req); err != nil {
		p.fail(w, r, err)
		return
	}

	p.update(w, r, &usecase.UpdateProductReq{
		ID:       id,
		Name:     req.Name,
		Category: req.Category,
		Price:    req.Price,
	})
}

// archiveProduct
//
//	@Summary		Архивация товара
//	@Description	Без confirm=true действие не выполняется и возвращается 428
//	@Tags			lifecycle
//	@Produce		json
//	@Param			id		path		int		true	"ID товара"
//	@Param			confirm	query		bool	false	"Подтверждение"
//	@Success		200		{object}	TransitionResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse	"Товар уже в архиве"
//	@Failure		428		{object}	ErrorResponse	"Нет подтверждения"
//	@Router			/products/{id}/archive [post]
func (p *ProductHandler) archiveProduct(w http.ResponseWriter, r *http.Request) {
	p.transition(w, r, p.productUsecase.Archive)
}

// restoreProduct
//
//	@Summary	Восстановление товара из архива
//	@Tags		lifecycle
//	@Produce	json
//	@Param		id		path		int		true	"ID товара"
//	@Param		confirm	query		bool	false	"Подтверждение"
//	@Success	200		{object}	TransitionResponse
//	@Failure	404		{object}	ErrorResponse
//	@Failure	409		{object}	ErrorResponse	"Товар не в архиве"
//	@Failure	428		{object}	ErrorResponse	"Нет подтверждения"
//	@Router		/products/{id}/restore [post]
func (p *ProductHandler) restoreProduct(w http.ResponseWriter, r *http.Request) {
	p.transition(w, r, p.productUsecase.Restore)
}

// deleteProduct
//
//	@Summary		Удаление товара
//	@Description	Удалить можно только архивный товар
//	@Tags			lifecycle
//	@Produce		json
//	@Param			id		path		int		true	"ID товара"
//	@Param			confirm	query		bool	false	"Подтверждение"
//	@Success		200		{object}	TransitionResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse	"Товар не в архиве"
//	@Failure		428		{object}	ErrorResponse	"Нет подтверждения"
//	@Router			/products/{id} [delete]
func (p *ProductHandler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	p.transition(w, r, p.productUsecase.Delete)
}

// exportCatalog
//
//	@Summary		Выгрузка каталога в CSV
//	@Tags			products
//	@Produce		json
//	@Param			status	query		string	false	"active (по умолчанию), archived или all"
//	@Success		201		{object}	ExportResponse
//	@Failure		503		{object}	ErrorResponse
//	@Router			/products/export [post]
func (p *ProductHandler) exportCatalog(w http.ResponseWriter, r *http.Request) {
	status, err := parseStatus(r)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	res, err := p.productUsecase.ExportCatalog(r.Context(), &usecase.ExportCatalogReq{Status: status})
	if err != nil {
		p.fail(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusCreated, ExportResponse{Key: res.Key, Count: res.Count})
}

// listCategories
//
//	@Summary	Список категорий
//	@Tags		products
//	@Produce	json
//	@Success	200	{object}	CategoriesResponse
//	@Router		/categories [get]
func (p *ProductHandler) listCategories(w http.ResponseWriter, _ *http.Request) {
	WriteSuccess(w, http.StatusOK, CategoriesResponse{Categories: p.productUsecase.Categories()})
}

func (p *ProductHandler) update(w http.ResponseWriter, r *http.Request, req *usecase.UpdateProductReq) {
	product, err := p.productUsecase.Update(r.Context(), req)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	WriteSuccess(w, http.StatusOK, toProductResponse(product))
}

type transitionFunc func(ctx context.Context, id int64, confirmer usecase.Confirmer) (*usecase.TransitionRes, error)

func (p *ProductHandler) transition(w http.ResponseWriter, r *http.Request, fn transitionFunc) {
	id, err := parseID(r)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	confirmer, err := parseConfirm(r)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	res, err := fn(r.Context(), id, confirmer)
	if err != nil {
		p.fail(w, r, err)
		return
	}

	if !res.Applied {
		p.fail(w, r, e.ErrNotConfirmed)
		return
	}

	WriteSuccess(w, http.StatusOK, toTransitionResponse(res))
}

func (p *ProductHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	code, _ := ToHTTPResponse(err)
	if code >= http.StatusInternalServerError {
		p.logger.Errorf(err, "%s %s", r.Method, r.URL.Path)
	} else if !errors.Is(err, e.ErrNotConfirmed) {
		p.logger.Warnf("%d %s %s: %v", code, r.Method, r.URL.Path, err)
	}

	WriteError(w, err)
}
