package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/logger"
	"github.com/google/uuid"
)

// ProductUseCase реализует работу с товарами: CRUD поверх хранилища и переходы жизненного цикла.
// Список всегда читается из хранилища заново; кэшируются только точечные чтения,
// и любое изменение сбрасывает запись кэша.
type ProductUseCase struct {
	productRepo ProductRepository
	outboxRepo  OutboxRepository
	transactor  Transactor
	cacheRepo   CacheRepository
	snapshots   SnapshotStorage
	categories  *domain.CategoryPolicy
	logger      logger.Logger
	now         func() time.Time
}

func NewProductUC(
	productRepo ProductRepository,
	outboxRepo OutboxRepository,
	transactor Transactor,
	cacheRepo CacheRepository,
	snapshots SnapshotStorage,
	categories *domain.CategoryPolicy,
	logger logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		productRepo: productRepo,
		outboxRepo:  outboxRepo,
		transactor:  transactor,
		cacheRepo:   cacheRepo,
		snapshots:   snapshots,
		categories:  categories,
		logger:      logger,
		now:         time.Now,
	}
}

// List возвращает товары с указанным статусом (StatusAll означает все), упорядоченные по ID.
func (p *ProductUseCase) List(ctx context.Context, status domain.Status) ([]domain.Product, error) {
	const op = "ProductUseCase.List"

	if _, err := domain.ParseStatus(string(status)); err != nil {
		return nil, e.Wrap(op, err)
	}

	products, err := p.productRepo.List(ctx, status)
	if err != nil {
		return nil, e.Store(op, err)
	}

	if products == nil {
		products = []domain.Product{}
	}

	return products, nil
}

// Get возвращает товар по идентификатору, сначала заглядывая в кэш.
func (p *ProductUseCase) Get(ctx context.Context, id int64) (*domain.Product, error) {
	const op = "ProductUseCase.Get"

	if id <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidID)
	}

	cached, err := p.cacheRepo.GetProduct(ctx, id)
	if err != nil {
		p.logger.Warnf("Failed to read product from cache: %v", e.Wrap(op, err))
	}
	if cached != nil {
		return cached, nil
	}

	product, err := p.productRepo.Get(ctx, id)
	if err != nil {
		return nil, e.Store(op, err)
	}

	if err := p.cacheRepo.SetProduct(ctx, product); err != nil {
		p.logger.Warnf("Failed to cache product: %v", e.Wrap(op, err))
	}

	return product, nil
}

// Create проверяет черновик и сохраняет новый активный товар. ID и дату назначает хранилище.
func (p *ProductUseCase) Create(ctx context.Context, req *CreateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.Create"

	draft, err := p.validateCreate(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	var created *domain.Product
	err = p.transactor.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		created, err = p.productRepo.Create(ctx, draft)
		if err != nil {
			return err
		}

		return p.recordEvent(ctx, EventProductCreated, created)
	})
	if err != nil {
		return nil, e.Store(op, err)
	}

	p.logger.Infof("product created: id=%d name=%q", created.ID, created.Name)
	return created, nil
}

// Update применяет частичное изменение названия, категории и цены.
// Архивный товар не редактируется: сначала его нужно восстановить.
func (p *ProductUseCase) Update(ctx context.Context, req *UpdateProductReq) (*domain.Product, error) {
	const op = "ProductUseCase.Update"

	if req.ID <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidID)
	}

	patch, err := p.validatePatch(req)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	current, err := p.productRepo.Get(ctx, req.ID)
	if err != nil {
		return nil, e.Store(op, err)
	}
	if _, err := domain.Transition(current.Status(), domain.ActionEdit); err != nil {
		return nil, e.Wrap(op, err)
	}

	updated, err := p.applyPatch(ctx, req.ID, patch, EventProductUpdated)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return updated, nil
}

// SetArchived меняет только флаг is_archived. Повторный вызов с тем же значением ничего не меняет по существу.
func (p *ProductUseCase) SetArchived(ctx context.Context, id int64, archived bool) (*domain.Product, error) {
	const op = "ProductUseCase.SetArchived"

	if id <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidID)
	}

	eventType := EventProductRestored
	if archived {
		eventType = EventProductArchived
	}

	updated, err := p.applyPatch(ctx, id, &domain.ProductPatch{IsArchived: &archived}, eventType)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	return updated, nil
}

// Archive переводит активный товар в архив после подтверждения.
func (p *ProductUseCase) Archive(ctx context.Context, id int64, confirmer Confirmer) (*TransitionRes, error) {
	return p.transition(ctx, "ProductUseCase.Archive", id, domain.ActionArchive, confirmer)
}

// Restore возвращает архивный товар в активные после подтверждения.
func (p *ProductUseCase) Restore(ctx context.Context, id int64, confirmer Confirmer) (*TransitionRes, error) {
	return p.transition(ctx, "ProductUseCase.Restore", id, domain.ActionRestore, confirmer)
}

// Delete безвозвратно удаляет архивный товар после подтверждения.
func (p *ProductUseCase) Delete(ctx context.Context, id int64, confirmer Confirmer) (*TransitionRes, error) {
	return p.transition(ctx, "ProductUseCase.Delete", id, domain.ActionDelete, confirmer)
}

// ExportCatalog выгружает список товаров с указанным статусом в CSV и сохраняет его в хранилище выгрузок.
func (p *ProductUseCase) ExportCatalog(ctx context.Context, req *ExportCatalogReq) (*ExportCatalogRes, error) {
	const op = "ProductUseCase.ExportCatalog"

	products, err := p.List(ctx, req.Status)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	data, err := encodeCatalogCSV(products)
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	label := string(req.Status)
	if req.Status == domain.StatusAll {
		label = "all"
	}
	name := fmt.Sprintf("products-%s-%s.csv", label, p.now().UTC().Format("20060102T150405Z"))

	key, err := p.snapshots.Upload(ctx, NewUploadSnapshotReq(name, "text/csv", data))
	if err != nil {
		return nil, e.Store(op, err)
	}

	p.logger.Infof("catalog exported: key=%s products=%d", key, len(products))
	return NewExportCatalogRes(key, len(products)), nil
}

// Categories возвращает список категорий для форм.
func (p *ProductUseCase) Categories() []string {
	return p.categories.Categories()
}

// transition проверяет переход, спрашивает подтверждение и только затем обращается к хранилищу.
func (p *ProductUseCase) transition(ctx context.Context, op string, id int64, action domain.Action, confirmer Confirmer) (*TransitionRes, error) {
	if id <= 0 {
		return nil, e.Wrap(op, e.ErrInvalidID)
	}
	if confirmer == nil {
		return nil, e.Wrap(op, e.ErrNotConfirmed)
	}

	product, err := p.productRepo.Get(ctx, id)
	if err != nil {
		return nil, e.Store(op, err)
	}

	if _, err := domain.Transition(product.Status(), action); err != nil {
		return nil, e.Wrap(op, err)
	}

	confirmed, err := confirmer.Confirm(ctx, domain.ConfirmationPrompt(action))
	if err != nil {
		return nil, e.Wrap(op, err)
	}
	if !confirmed {
		p.logger.Debugf("%s declined for product %d", action, id)
		return NewTransitionRes(false, product), nil
	}

	var result *domain.Product
	switch action {
	case domain.ActionArchive:
		result, err = p.SetArchived(ctx, id, true)
	case domain.ActionRestore:
		result, err = p.SetArchived(ctx, id, false)
	case domain.ActionDelete:
		err = p.remove(ctx, product)
		result = product
	default:
		err = fmt.Errorf("%w: %s", e.ErrTransitionNotAllowed, action)
	}
	if err != nil {
		return nil, e.Wrap(op, err)
	}

	p.logger.Infof("product %d: %s applied", id, action)
	return NewTransitionRes(true, result), nil
}

// applyPatch изменяет запись и пишет событие в одной транзакции, затем сбрасывает кэш.
func (p *ProductUseCase) applyPatch(ctx context.Context, id int64, patch *domain.ProductPatch, eventType OutboxEventType) (*domain.Product, error) {
	const op = "ProductUseCase.applyPatch"

	var updated *domain.Product
	err := p.transactor.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		updated, err = p.productRepo.Update(ctx, id, patch)
		if err != nil {
			return err
		}

		return p.recordEvent(ctx, eventType, updated)
	})
	if err != nil {
		return nil, e.Store(op, err)
	}

	p.invalidate(ctx, id)
	return updated, nil
}

func (p *ProductUseCase) remove(ctx context.Context, product *domain.Product) error {
	const op = "ProductUseCase.remove"

	err := p.transactor.WithinTx(ctx, func(ctx context.Context) error {
		if err := p.productRepo.Delete(ctx, product.ID); err != nil {
			return err
		}

		return p.recordEvent(ctx, EventProductDeleted, product)
	})
	if err != nil {
		return e.Store(op, err)
	}

	p.invalidate(ctx, product.ID)
	return nil
}

// recordEvent сериализует снимок товара и кладёт событие в outbox текущей транзакции.
func (p *ProductUseCase) recordEvent(ctx context.Context, eventType OutboxEventType, product *domain.Product) error {
	eventID := uuid.NewString()
	occurredAt := p.now().UTC()

	payload, err := json.Marshal(ProductEventPayload{
		EventID:    eventID,
		EventType:  eventType,
		OccurredAt: occurredAt,
		Product:    NewProductSnapshot(product),
	})
	if err != nil {
		return e.Wrap("ProductUseCase.recordEvent", err)
	}

	_, err = p.outboxRepo.Create(ctx, &OutboxEvent{
		EventID:   eventID,
		EventType: eventType,
		ProductID: product.ID,
		Payload:   payload,
		Status:    Pending,
		CreatedAt: occurredAt,
	})
	return err
}

// invalidate удаляет товар из кэша. Ошибка кэша не отменяет уже закоммиченное изменение.
func (p *ProductUseCase) invalidate(ctx context.Context, id int64) {
	if err := p.cacheRepo.DeleteProducts(ctx, []int64{id}); err != nil {
		p.logger.Warnf("Failed to delete product %d from cache: %v", id, err)
	}
}

// validateCreate проверяет обязательные поля черновика до обращения к хранилищу.
func (p *ProductUseCase) validateCreate(req *CreateProductReq) (*domain.Product, error) {
	if err := domain.ValidateName(req.Name); err != nil {
		return nil, err
	}

	category, err := p.categories.Normalize(req.Category)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidatePrice(req.Price); err != nil {
		return nil, err
	}

	return domain.NewProduct(req.Name, category, req.Price), nil
}

// validatePatch проверяет только переданные поля.
func (p *ProductUseCase) validatePatch(req *UpdateProductReq) (*domain.ProductPatch, error) {
	patch := &domain.ProductPatch{Name: req.Name, Price: req.Price}

	if req.Name != nil {
		if err := domain.ValidateName(*req.Name); err != nil {
			return nil, err
		}
	}

	if req.Category != nil {
		category, err := p.categories.Normalize(*req.Category)
		if err != nil {
			return nil, err
		}
		patch.Category = &category
	}

	if req.Price != nil {
		if err := domain.ValidatePrice(*req.Price); err != nil {
			return nil, err
		}
	}

	if patch.IsEmpty() {
		return nil, e.ErrNoFieldsToUpdate
	}

	return patch, nil
}

func encodeCatalogCSV(products []domain.Product) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"id", "name", "category", "price", "date", "is_archived"}); err != nil {
		return nil, err
	}

	for _, pr := range products {
		record := []string{
			strconv.FormatInt(pr.ID, 10),
			pr.Name,
			pr.Category,
			pr.Price.StringFixed(2),
			pr.Date.UTC().Format(time.RFC3339),
			strconv.FormatBool(pr.IsArchived),
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}
