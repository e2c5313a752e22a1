package pgdb

import (
	"context"
	"errors"

	"github.com/DRSN-tech/inventory-backend/internal/domain"
	"github.com/DRSN-tech/inventory-backend/internal/repository/pgdb/converter"
	"github.com/DRSN-tech/inventory-backend/pkg/e"
	"github.com/DRSN-tech/inventory-backend/pkg/tr"
	"github.com/jackc/pgx/v5"
	"github.com/jimlawless/whereami"
)

const productColumns = `id, name, category, price::text, created_at, updated_at, is_archived`

// ProductRepo реализует хранилище товаров поверх PostgreSQL.
// Если в контексте есть транзакция, запросы выполняются в ней.
type ProductRepo struct {
	pool tr.Querier
	conv converter.ProductConverter
}

func NewProductRepo(pool tr.Querier, conv converter.ProductConverter) *ProductRepo {
	return &ProductRepo{
		pool: pool,
		conv: conv,
	}
}

// List возвращает товары по статусу, упорядоченные по id.
func (p *ProductRepo) List(ctx context.Context, status domain.Status) ([]domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products`
	args := make([]any, 0, 1)
	if archived, ok := status.Archived(); ok {
		query += ` WHERE is_archived = $1`
		args = append(args, archived)
	}
	query += ` ORDER BY id`

	rows, err := tr.Executor(ctx, p.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, e.Store(whereami.WhereAmI(), err)
	}
	defer rows.Close()

	models := make([]*converter.ProductModel, 0)
	for rows.Next() {
		var model converter.ProductModel
		if err := scanProduct(rows, &model); err != nil {
			return nil, e.Store(whereami.WhereAmI(), err)
		}
		models = append(models, &model)
	}

	if err := rows.Err(); err != nil {
		return nil, e.Store(whereami.WhereAmI(), err)
	}

	products, err := p.conv.ToArrEntity(models)
	if err != nil {
		return nil, e.Store(whereami.WhereAmI(), err)
	}

	return products, nil
}

func (p *ProductRepo) Get(ctx context.Context, id int64) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	row := tr.Executor(ctx, p.pool).QueryRow(ctx, query, id)
	return p.scanOne(row)
}

// Create вставляет товар; id и created_at назначает база.
func (p *ProductRepo) Create(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO products (name, category, price)
		VALUES ($1, $2, $3::numeric)
		RETURNING ` + productColumns

	row := tr.Executor(ctx, p.pool).QueryRow(ctx, query,
		product.Name,
		product.Category,
		product.Price.String(),
	)
	return p.scanOne(row)
}

// Update применяет патч одним запросом. NULL в параметре оставляет поле без изменений.
func (p *ProductRepo) Update(ctx context.Context, id int64, patch *domain.ProductPatch) (*domain.Product, error) {
	query := `
		UPDATE products
		SET
			name        = COALESCE($2, name),
			category    = COALESCE($3, category),
			price       = COALESCE($4::numeric, price),
			is_archived = COALESCE($5, is_archived),
			updated_at  = NOW()
		WHERE id = $1
		RETURNING ` + productColumns

	var price *string
	if patch.Price != nil {
		s := patch.Price.String()
		price = &s
	}

	row := tr.Executor(ctx, p.pool).QueryRow(ctx, query,
		id,
		patch.Name,
		patch.Category,
		price,
		patch.IsArchived,
	)
	return p.scanOne(row)
}

func (p *ProductRepo) Delete(ctx context.Context, id int64) error {
	tag, err := tr.Executor(ctx, p.pool).Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return e.Store(whereami.WhereAmI(), err)
	}

	if tag.RowsAffected() == 0 {
		return e.ErrProductNotFound
	}

	return nil
}

func (p *ProductRepo) scanOne(row pgx.Row) (*domain.Product, error) {
	var model converter.ProductModel
	if err := scanProduct(row, &model); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, e.ErrProductNotFound
		}
		return nil, e.Store(whereami.WhereAmI(), err)
	}

	product, err := p.conv.ToEntity(&model)
	if err != nil {
		return nil, e.Store(whereami.WhereAmI(), err)
	}

	return product, nil
}

func scanProduct(row pgx.Row, model *converter.ProductModel) error {
	return row.Scan(
		&model.ID, &model.Name, &model.Category, &model.Price,
		&model.CreatedAt, &model.UpdatedAt, &model.IsArchived,
	)
}
