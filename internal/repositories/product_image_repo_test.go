package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"backoffice/internal/models"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductImageRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductImageRepo(mock)
	image := &models.ProductImage{
		ID:        uuid.New(),
		UUID:      uuid.NewString(),
		URL:       "http://minio:9000/backoffice/products/p1/a.jpg",
		ProductID: uuid.New(),
		Position:  1,
	}

	mock.ExpectExec(regexp.QuoteMeta(`
		INSERT INTO product_images (id, uuid, url, product_id, order_index, created_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`)).
		WithArgs(image.ID, image.UUID, image.URL, image.ProductID, image.Position).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), image)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductImageRepo_GetByProductID_OrderedByIndex(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductImageRepo(mock)
	productID := uuid.New()
	first, second := uuid.New(), uuid.New()
	now := time.Now()

	rows := pgxmock.NewRows([]string{"id", "uuid", "url", "product_id", "order_index", "created_at"}).
		AddRow(first, "u1", "http://minio:9000/backoffice/products/p/1.jpg", productID, 1, now).
		AddRow(second, "u2", "http://minio:9000/backoffice/products/p/2.jpg", productID, 2, now)

	mock.ExpectQuery(regexp.QuoteMeta(`
		SELECT id, uuid, url, product_id, order_index, created_at
		FROM product_images
		WHERE product_id = $1
		ORDER BY order_index ASC
	`)).
		WithArgs(productID).
		WillReturnRows(rows)

	images, err := repo.GetByProductID(context.Background(), productID)
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, first, images[0].ID)
	assert.Equal(t, 1, images[0].Position)
	assert.Equal(t, second, images[1].ID)
	assert.Equal(t, 2, images[1].Position)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductImageRepo_UpdatePosition(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductImageRepo(mock)
	productID, imageID := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`
		UPDATE product_images
		SET order_index = $1
		WHERE id = $2 AND product_id = $3
	`)).
		WithArgs(3, imageID, productID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err = repo.UpdatePosition(context.Background(), productID, imageID, 3)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductImageRepo_UpdatePosition_WrongProductIsError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductImageRepo(mock)
	productID, imageID := uuid.New(), uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`
		UPDATE product_images
		SET order_index = $1
		WHERE id = $2 AND product_id = $3
	`)).
		WithArgs(1, imageID, productID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err = repo.UpdatePosition(context.Background(), productID, imageID, 1)
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProductImageRepo_DeleteAllByProductID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewProductImageRepo(mock)
	productID := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM product_images WHERE product_id = $1`)).
		WithArgs(productID).
		WillReturnResult(pgxmock.NewResult("DELETE", 2))

	err = repo.DeleteAllByProductID(context.Background(), productID)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
