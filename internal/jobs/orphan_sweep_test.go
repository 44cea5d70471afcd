package jobs

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"backoffice/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockImageSource struct {
	mock.Mock
}

func (m *mockImageSource) ListURLs(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if urls, ok := args.Get(0).([]string); ok {
		return urls, args.Error(1)
	}
	return nil, args.Error(1)
}

type mockBlobStore struct {
	mock.Mock
}

func (m *mockBlobStore) KeyFromURL(rawURL string) string {
	args := m.Called(rawURL)
	return args.String(0)
}

func (m *mockBlobStore) ListObjects(ctx context.Context, prefix string) ([]services.StorageObject, error) {
	args := m.Called(ctx, prefix)
	if objects, ok := args.Get(0).([]services.StorageObject); ok {
		return objects, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBlobStore) Remove(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func newSweeper(t *testing.T, images *mockImageSource, storage *mockBlobStore) *OrphanSweeper {
	t.Helper()
	sweeper, err := NewOrphanSweeper(images, storage, time.Hour, time.Hour)
	require.NoError(t, err)
	return sweeper
}

func TestSweepRemovesAbandonedUnreferencedBlobs(t *testing.T) {
	images := new(mockImageSource)
	storage := new(mockBlobStore)
	ctx := context.Background()
	old := time.Now().Add(-2 * time.Hour)

	images.On("ListURLs", ctx).Return([]string{"http://minio:9000/backoffice/products/p/kept.jpg"}, nil)
	storage.On("KeyFromURL", "http://minio:9000/backoffice/products/p/kept.jpg").Return("products/p/kept.jpg")
	storage.On("ListObjects", ctx, "products/").Return([]services.StorageObject{
		{Key: "products/p/kept.jpg", LastModified: old},
		{Key: "products/p/orphan.jpg", LastModified: old},
	}, nil)
	storage.On("Remove", ctx, "products/p/orphan.jpg").Return(nil)

	removed, err := newSweeper(t, images, storage).Sweep(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, removed)
	storage.AssertNotCalled(t, "Remove", ctx, "products/p/kept.jpg")
	images.AssertExpectations(t)
	storage.AssertExpectations(t)
}

func TestSweepSparesBlobsWithinGracePeriod(t *testing.T) {
	images := new(mockImageSource)
	storage := new(mockBlobStore)
	ctx := context.Background()

	images.On("ListURLs", ctx).Return([]string{}, nil)
	storage.On("ListObjects", ctx, "products/").Return([]services.StorageObject{
		{Key: "products/p/fresh.jpg", LastModified: time.Now().Add(-time.Minute)},
	}, nil)

	removed, err := newSweeper(t, images, storage).Sweep(ctx)

	require.NoError(t, err)
	assert.Equal(t, 0, removed)
	storage.AssertNotCalled(t, "Remove", mock.Anything, mock.Anything)
}

func TestSweepRemovalFailureIsNonFatal(t *testing.T) {
	images := new(mockImageSource)
	storage := new(mockBlobStore)
	ctx := context.Background()
	old := time.Now().Add(-2 * time.Hour)

	images.On("ListURLs", ctx).Return([]string{}, nil)
	storage.On("ListObjects", ctx, "products/").Return([]services.StorageObject{
		{Key: "products/p/a.jpg", LastModified: old},
		{Key: "products/p/b.jpg", LastModified: old},
	}, nil)
	storage.On("Remove", ctx, "products/p/a.jpg").Return(errors.New("minio unreachable"))
	storage.On("Remove", ctx, "products/p/b.jpg").Return(nil)

	removed, err := newSweeper(t, images, storage).Sweep(ctx)

	require.NoError(t, err)
	assert.Equal(t, 1, removed)
}

func TestSweepListFailureAborts(t *testing.T) {
	images := new(mockImageSource)
	storage := new(mockBlobStore)
	ctx := context.Background()

	images.On("ListURLs", ctx).Return(nil, errors.New("db down"))

	_, err := newSweeper(t, images, storage).Sweep(ctx)

	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "db down"))
	storage.AssertNotCalled(t, "ListObjects", mock.Anything, mock.Anything)
}
