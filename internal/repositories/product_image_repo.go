package repositories

import (
	"context"
	"fmt"

	"backoffice/internal/models"

	"github.com/google/uuid"
)

type ProductImageRepository interface {
	Create(ctx context.Context, image *models.ProductImage) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.ProductImage, error)
	GetByProductID(ctx context.Context, productID uuid.UUID) ([]*models.ProductImage, error)
	UpdatePosition(ctx context.Context, productID, imageID uuid.UUID, position int) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllByProductID(ctx context.Context, productID uuid.UUID) error
	ListURLs(ctx context.Context) ([]string, error)
}

type productImageRepo struct {
	db DB
}

func NewProductImageRepo(db DB) ProductImageRepository {
	return &productImageRepo{db: db}
}

func (r *productImageRepo) Create(ctx context.Context, image *models.ProductImage) error {
	query := `
		INSERT INTO product_images (id, uuid, url, product_id, order_index, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	_, err := r.db.Exec(ctx, query, image.ID, image.UUID, image.URL, image.ProductID, image.Position)
	return err
}

func (r *productImageRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ProductImage, error) {
	image := &models.ProductImage{}
	query := `
		SELECT id, uuid, url, product_id, order_index, created_at
		FROM product_images
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&image.ID, &image.UUID, &image.URL, &image.ProductID, &image.Position, &image.CreatedAt)
	if err != nil {
		return nil, err
	}
	return image, nil
}

// GetByProductID returns the product's images in display order.
func (r *productImageRepo) GetByProductID(ctx context.Context, productID uuid.UUID) ([]*models.ProductImage, error) {
	query := `
		SELECT id, uuid, url, product_id, order_index, created_at
		FROM product_images
		WHERE product_id = $1
		ORDER BY order_index ASC
	`
	rows, err := r.db.Query(ctx, query, productID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var images []*models.ProductImage
	for rows.Next() {
		image := &models.ProductImage{}
		if err := rows.Scan(&image.ID, &image.UUID, &image.URL, &image.ProductID, &image.Position, &image.CreatedAt); err != nil {
			return nil, err
		}
		images = append(images, image)
	}
	return images, nil
}

// UpdatePosition writes one image's order_index. The WHERE clause is scoped
// to the product so a stale image id from another product cannot be touched.
func (r *productImageRepo) UpdatePosition(ctx context.Context, productID, imageID uuid.UUID, position int) error {
	query := `
		UPDATE product_images
		SET order_index = $1
		WHERE id = $2 AND product_id = $3
	`
	tag, err := r.db.Exec(ctx, query, position, imageID, productID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("image %s not found for product %s", imageID, productID)
	}
	return nil
}

func (r *productImageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM product_images WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

func (r *productImageRepo) DeleteAllByProductID(ctx context.Context, productID uuid.UUID) error {
	query := `DELETE FROM product_images WHERE product_id = $1`
	_, err := r.db.Exec(ctx, query, productID)
	return err
}

// ListURLs returns every stored image URL; the orphan sweep uses it to tell
// referenced blobs from abandoned ones.
func (r *productImageRepo) ListURLs(ctx context.Context) ([]string, error) {
	query := `SELECT url FROM product_images`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}
	return urls, nil
}
