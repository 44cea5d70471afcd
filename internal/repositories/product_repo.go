package repositories

import (
	"context"
	"fmt"

	"backoffice/internal/models"

	"github.com/google/uuid"
)

type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, int, error)
}

type productRepo struct {
	db DB
}

func NewProductRepo(db DB) ProductRepository {
	return &productRepo{db: db}
}

func (r *productRepo) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, product.ID, product.Name, product.Description, product.Price)
	return err
}

func (r *productRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product := &models.Product{}
	query := `
		SELECT id, name, description, price, created_at, updated_at
		FROM products
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.CreatedAt, &product.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return product, nil
}

func (r *productRepo) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, description = $2, price = $3, updated_at = NOW()
		WHERE id = $4
	`
	_, err := r.db.Exec(ctx, query, product.Name, product.Description, product.Price, product.ID)
	return err
}

func (r *productRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM products WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// List returns one page of products plus the total count matching the filter.
func (r *productRepo) List(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	where := ` WHERE 1=1`
	args := []any{}
	conditionCount := 0

	if filter.Query != "" {
		conditionCount++
		where += fmt.Sprintf(` AND (name ILIKE $%d OR COALESCE(description, '') ILIKE $%d)`, conditionCount, conditionCount)
		args = append(args, "%"+filter.Query+"%")
	}
	if filter.CreatedAfter != nil {
		conditionCount++
		where += fmt.Sprintf(` AND created_at >= $%d`, conditionCount)
		args = append(args, *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		conditionCount++
		where += fmt.Sprintf(` AND created_at <= $%d`, conditionCount)
		args = append(args, *filter.CreatedBefore)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM products` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, name, description, price, created_at, updated_at
		FROM products` + where
	conditionCount++
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d`, conditionCount)
	args = append(args, filter.Limit)
	conditionCount++
	query += fmt.Sprintf(` OFFSET $%d`, conditionCount)
	args = append(args, filter.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var products []*models.Product
	for rows.Next() {
		product := &models.Product{}
		if err := rows.Scan(&product.ID, &product.Name, &product.Description, &product.Price, &product.CreatedAt, &product.UpdatedAt); err != nil {
			return nil, 0, err
		}
		products = append(products, product)
	}
	return products, total, nil
}
