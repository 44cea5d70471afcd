package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"

	"backoffice/internal/caching"
	"backoffice/internal/models"
	"backoffice/internal/repositories"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
)

type ProductService interface {
	Save(ctx context.Context, sub *models.ProductSubmission) (*models.ProductSaveResult, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	List(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, int, error)
	Images(ctx context.Context, productID uuid.UUID) ([]*models.ProductImage, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type productService struct {
	productRepo  repositories.ProductRepository
	imageRepo    repositories.ProductImageRepository
	storage      StorageService
	cache        caching.CacheService
	maxFileBytes int64
	maxImages    int
}

func NewProductService(
	productRepo repositories.ProductRepository,
	imageRepo repositories.ProductImageRepository,
	storage StorageService,
	cache caching.CacheService,
	maxFileBytes int64,
	maxImages int,
) ProductService {
	return &productService{
		productRepo:  productRepo,
		imageRepo:    imageRepo,
		storage:      storage,
		cache:        cache,
		maxFileBytes: maxFileBytes,
		maxImages:    maxImages,
	}
}

// Save runs the full submission pipeline: validate, upsert the product row,
// upload staged files, delete marked images, then reconcile positions. Only
// validation and the product upsert are fatal; image steps degrade the result
// instead of failing it. When every staged upload fails the result carries an
// images field error, but the product itself stays saved.
func (s *productService) Save(ctx context.Context, sub *models.ProductSubmission) (*models.ProductSaveResult, error) {
	fieldErrs, price := s.validate(sub)
	if !fieldErrs.Empty() {
		return &models.ProductSaveResult{Errors: fieldErrs}, nil
	}

	product, err := s.upsertProduct(ctx, sub, price)
	if err != nil {
		log.Error().Err(err).Msg("product upsert failed")
		return &models.ProductSaveResult{Errors: &models.FieldErrors{Form: "failed to save product"}}, nil
	}

	uploaded := s.uploadImages(ctx, product.ID, sub.Uploads)
	s.deleteImages(ctx, product.ID, sub.DeletedIDs)
	s.reconcilePositions(ctx, product.ID, sub.Positions)

	if err := s.cache.DeleteProduct(ctx, product.ID); err != nil {
		log.Warn().Err(err).Str("product_id", product.ID.String()).Msg("cache invalidation failed")
	}

	result := &models.ProductSaveResult{Success: true, ProductID: product.ID.String()}
	if len(sub.Uploads) > 0 && uploaded == 0 {
		result.Errors = &models.FieldErrors{Images: "failed to upload images; the product was saved without them"}
	}
	return result, nil
}

func (s *productService) validate(sub *models.ProductSubmission) (*models.FieldErrors, decimal.Decimal) {
	fieldErrs := &models.FieldErrors{}

	if strings.TrimSpace(sub.Name) == "" {
		fieldErrs.Name = "name is required"
	} else if len(sub.Name) > 200 {
		fieldErrs.Name = "name must be 200 characters or fewer"
	}

	if sub.Description != nil && len(*sub.Description) > 2000 {
		fieldErrs.Description = "description must be 2000 characters or fewer"
	}

	price, err := decimal.NewFromString(strings.TrimSpace(sub.Price))
	switch {
	case strings.TrimSpace(sub.Price) == "":
		fieldErrs.Price = "price is required"
	case err != nil:
		fieldErrs.Price = "price must be a valid number"
	case !price.IsPositive():
		fieldErrs.Price = "price must be greater than zero"
	}

	if s.maxImages > 0 && len(sub.Uploads) > s.maxImages {
		fieldErrs.Images = fmt.Sprintf("cannot attach more than %d images", s.maxImages)
	} else if totalCap := s.maxFileBytes * int64(s.maxImages); totalCap > 0 {
		var total int64
		for _, u := range sub.Uploads {
			total += u.Size
		}
		if total > totalCap {
			fieldErrs.Images = fmt.Sprintf("combined upload size exceeds %d bytes", totalCap)
		}
	}

	return fieldErrs, price
}

func (s *productService) upsertProduct(ctx context.Context, sub *models.ProductSubmission, price decimal.Decimal) (*models.Product, error) {
	product := &models.Product{
		Name:        strings.TrimSpace(sub.Name),
		Description: sub.Description,
		Price:       price,
	}
	if sub.ProductID == nil {
		product.ID = uuid.New()
		return product, s.productRepo.Create(ctx, product)
	}
	product.ID = *sub.ProductID
	if _, err := s.productRepo.GetByID(ctx, product.ID); err != nil {
		return product, s.productRepo.Create(ctx, product)
	}
	return product, s.productRepo.Update(ctx, product)
}

// uploadImages fans the staged files out concurrently. Each file succeeds or
// fails on its own; failures are logged and counted, never propagated.
// Returns how many files made it through upload and row insert.
func (s *productService) uploadImages(ctx context.Context, productID uuid.UUID, uploads []*models.ImageUpload) int {
	if len(uploads) == 0 {
		return 0
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		uploaded int
		errs     error
	)
	for _, upload := range uploads {
		wg.Add(1)
		go func(u *models.ImageUpload) {
			defer wg.Done()
			if err := s.uploadOne(ctx, productID, u); err != nil {
				mu.Lock()
				errs = multierr.Append(errs, fmt.Errorf("%s: %w", u.Filename, err))
				mu.Unlock()
				return
			}
			mu.Lock()
			uploaded++
			mu.Unlock()
		}(upload)
	}
	wg.Wait()

	if errs != nil {
		log.Warn().Err(errs).
			Str("product_id", productID.String()).
			Int("failed", len(multierr.Errors(errs))).
			Int("uploaded", uploaded).
			Msg("some image uploads failed")
	}
	return uploaded
}

func (s *productService) uploadOne(ctx context.Context, productID uuid.UUID, upload *models.ImageUpload) error {
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return fmt.Errorf("unsupported content type %q", upload.ContentType)
	}
	if s.maxFileBytes > 0 && upload.Size > s.maxFileBytes {
		return fmt.Errorf("file exceeds %d byte limit", s.maxFileBytes)
	}

	imageUUID := uuid.New()
	key := fmt.Sprintf("products/%s/%s%s", productID, imageUUID, strings.ToLower(path.Ext(upload.Filename)))
	if err := s.storage.Upload(ctx, key, upload.Reader, upload.Size, upload.ContentType); err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	image := &models.ProductImage{
		ID:        uuid.New(),
		UUID:      imageUUID.String(),
		URL:       s.storage.PublicURL(key),
		ProductID: productID,
		Position:  upload.Position,
	}
	if err := s.imageRepo.Create(ctx, image); err != nil {
		// The blob is now unreferenced; the orphan sweep reclaims it later.
		return fmt.Errorf("record image: %w", err)
	}
	return nil
}

// deleteImages removes marked images. The database row is the source of
// truth: blob removal is best-effort and never blocks the row delete.
func (s *productService) deleteImages(ctx context.Context, productID uuid.UUID, ids []uuid.UUID) {
	for _, id := range ids {
		image, err := s.imageRepo.GetByID(ctx, id)
		if err != nil {
			log.Warn().Err(err).Str("image_id", id.String()).Msg("marked image not found")
			continue
		}
		if image.ProductID != productID {
			log.Warn().Str("image_id", id.String()).Str("product_id", productID.String()).Msg("marked image belongs to another product")
			continue
		}
		if key := s.storage.KeyFromURL(image.URL); key != "" {
			if err := s.storage.Remove(ctx, key); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("blob removal failed")
			}
		}
		if err := s.imageRepo.Delete(ctx, id); err != nil {
			log.Warn().Err(err).Str("image_id", id.String()).Msg("image row delete failed")
		}
	}
}

// reconcilePositions applies the submitted order to the surviving rows. Each
// write is independent and best-effort; the scoped update ignores ids that no
// longer belong to the product.
func (s *productService) reconcilePositions(ctx context.Context, productID uuid.UUID, positions []models.ImagePosition) {
	for _, p := range positions {
		if err := s.imageRepo.UpdatePosition(ctx, productID, p.ImageID, p.Position); err != nil {
			log.Warn().Err(err).
				Str("image_id", p.ImageID.String()).
				Int("position", p.Position).
				Msg("position update failed")
		}
	}
}

// GetByID reads through the cache and attaches the image list in display order.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if cached, err := s.cache.GetProduct(ctx, id); err == nil && cached != nil {
		return cached, nil
	}

	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	images, err := s.imageRepo.GetByProductID(ctx, id)
	if err != nil {
		return nil, err
	}
	product.Images = images

	if err := s.cache.SetProduct(ctx, product, caching.DefaultTTL); err != nil {
		log.Warn().Err(err).Str("product_id", id.String()).Msg("cache write failed")
	}
	return product, nil
}

func (s *productService) List(ctx context.Context, filter *models.ProductSearchFilter) ([]*models.Product, int, error) {
	return s.productRepo.List(ctx, filter)
}

func (s *productService) Images(ctx context.Context, productID uuid.UUID) ([]*models.ProductImage, error) {
	return s.imageRepo.GetByProductID(ctx, productID)
}

// Delete removes the product, its image rows, and best-effort its blobs.
func (s *productService) Delete(ctx context.Context, id uuid.UUID) error {
	images, err := s.imageRepo.GetByProductID(ctx, id)
	if err != nil {
		return err
	}
	for _, image := range images {
		if key := s.storage.KeyFromURL(image.URL); key != "" {
			if err := s.storage.Remove(ctx, key); err != nil {
				log.Warn().Err(err).Str("key", key).Msg("blob removal failed")
			}
		}
	}
	if err := s.imageRepo.DeleteAllByProductID(ctx, id); err != nil {
		return err
	}
	if err := s.productRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.DeleteProduct(ctx, id); err != nil {
		log.Warn().Err(err).Str("product_id", id.String()).Msg("cache invalidation failed")
	}
	return nil
}
