package services

import (
	"context"
	"io"
	"time"

	"backoffice/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type MockProductRepo struct {
	mock.Mock
}

func (m *MockProductRepo) Create(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, id)
	if p, ok := args.Get(0).(*models.Product); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductRepo) Update(ctx context.Context, product *models.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepo) List(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, int, error) {
	args := m.Called(ctx, filter)
	if products, ok := args.Get(0).([]*models.Product); ok {
		return products, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}

type MockProductImageRepo struct {
	mock.Mock
}

func (m *MockProductImageRepo) Create(ctx context.Context, image *models.ProductImage) error {
	args := m.Called(ctx, image)
	return args.Error(0)
}

func (m *MockProductImageRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.ProductImage, error) {
	args := m.Called(ctx, id)
	if image, ok := args.Get(0).(*models.ProductImage); ok {
		return image, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductImageRepo) GetByProductID(ctx context.Context, productID uuid.UUID) ([]*models.ProductImage, error) {
	args := m.Called(ctx, productID)
	if images, ok := args.Get(0).([]*models.ProductImage); ok {
		return images, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockProductImageRepo) UpdatePosition(ctx context.Context, productID, imageID uuid.UUID, position int) error {
	args := m.Called(ctx, productID, imageID, position)
	return args.Error(0)
}

func (m *MockProductImageRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductImageRepo) DeleteAllByProductID(ctx context.Context, productID uuid.UUID) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *MockProductImageRepo) ListURLs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if urls, ok := args.Get(0).([]string); ok {
		return urls, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockStorageService struct {
	mock.Mock
}

func (m *MockStorageService) Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, reader, size, contentType)
	return args.Error(0)
}

func (m *MockStorageService) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStorageService) PublicURL(key string) string {
	args := m.Called(key)
	return args.String(0)
}

func (m *MockStorageService) KeyFromURL(rawURL string) string {
	args := m.Called(rawURL)
	return args.String(0)
}

func (m *MockStorageService) ListObjects(ctx context.Context, prefix string) ([]StorageObject, error) {
	args := m.Called(ctx, prefix)
	if objects, ok := args.Get(0).([]StorageObject); ok {
		return objects, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockStorageService) EnsureBucket(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockStorageService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetProduct(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	args := m.Called(ctx, productID)
	if p, ok := args.Get(0).(*models.Product); ok {
		return p, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	args := m.Called(ctx, product, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func (m *MockCacheService) GetClient(ctx context.Context, clientID uuid.UUID) (*models.Client, error) {
	args := m.Called(ctx, clientID)
	if c, ok := args.Get(0).(*models.Client); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockCacheService) SetClient(ctx context.Context, client *models.Client, ttl time.Duration) error {
	args := m.Called(ctx, client, ttl)
	return args.Error(0)
}

func (m *MockCacheService) DeleteClient(ctx context.Context, clientID uuid.UUID) error {
	args := m.Called(ctx, clientID)
	return args.Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockClientRepo struct {
	mock.Mock
}

func (m *MockClientRepo) Create(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	args := m.Called(ctx, id)
	if c, ok := args.Get(0).(*models.Client); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClientRepo) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	args := m.Called(ctx, email)
	if c, ok := args.Get(0).(*models.Client); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockClientRepo) Update(ctx context.Context, client *models.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockClientRepo) List(ctx context.Context, filter *models.ClientSearchFilter) ([]*models.Client, int, error) {
	args := m.Called(ctx, filter)
	if clients, ok := args.Get(0).([]*models.Client); ok {
		return clients, args.Int(1), args.Error(2)
	}
	return nil, args.Int(1), args.Error(2)
}
