package handlers

import (
	"fmt"
	"io"
	"net/http"
	"regexp"
	"sort"
	"strconv"

	"backoffice/internal/common"
	"backoffice/internal/models"
	"backoffice/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

// imageFieldRe matches the per-entry form fields images[i].id and
// images[i].order_index. Entries with an id reposition persisted images;
// entries without one claim the file parts in ascending index order.
var imageFieldRe = regexp.MustCompile(`^images\[(\d+)\]\.(id|order_index)$`)

type ProductHandlers struct {
	productService services.ProductService
}

func NewProductHandlers(productService services.ProductService) *ProductHandlers {
	return &ProductHandlers{productService: productService}
}

// SaveProduct accepts the multipart product form and runs the full save
// pipeline. Validation failures come back as 400 with per-field errors;
// degraded saves (product stored, images lost) still return 200.
func (h *ProductHandlers) SaveProduct(c echo.Context) error {
	sub, closers, err := parseProductSubmission(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, &models.ProductSaveResult{
			Errors: &models.FieldErrors{Form: err.Error()},
		})
	}
	defer func() {
		for _, cl := range closers {
			cl.Close()
		}
	}()

	result, err := h.productService.Save(c.Request().Context(), sub)
	if err != nil {
		log.Error().Err(err).Msg("product save failed")
		return common.SendServerError(c, "failed to save product")
	}
	if !result.Success {
		return c.JSON(http.StatusBadRequest, result)
	}
	return c.JSON(http.StatusOK, result)
}

type imageFormEntry struct {
	index      int
	imageID    string
	orderIndex string
}

func parseProductSubmission(c echo.Context) (*models.ProductSubmission, []io.Closer, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, fmt.Errorf("expected a multipart form")
	}

	sub := &models.ProductSubmission{
		Name:  c.FormValue("name"),
		Price: c.FormValue("price"),
	}
	if v := c.FormValue("description"); v != "" {
		sub.Description = &v
	}
	if v := c.FormValue("productId"); v != "" {
		id, err := common.ValidateUUID(v, "productId")
		if err != nil {
			return nil, nil, err
		}
		sub.ProductID = &id
	}

	entries := map[int]*imageFormEntry{}
	for key, values := range form.Value {
		m := imageFieldRe.FindStringSubmatch(key)
		if m == nil || len(values) == 0 {
			continue
		}
		idx, _ := strconv.Atoi(m[1])
		entry := entries[idx]
		if entry == nil {
			entry = &imageFormEntry{index: idx}
			entries[idx] = entry
		}
		if m[2] == "id" {
			entry.imageID = values[0]
		} else {
			entry.orderIndex = values[0]
		}
	}

	ordered := make([]*imageFormEntry, 0, len(entries))
	for _, entry := range entries {
		ordered = append(ordered, entry)
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].index < ordered[j].index })

	var stagedPositions []int
	for _, entry := range ordered {
		position, err := strconv.Atoi(entry.orderIndex)
		if err != nil || position < 1 {
			return nil, nil, fmt.Errorf("images[%d].order_index must be a positive integer", entry.index)
		}
		if entry.imageID == "" {
			stagedPositions = append(stagedPositions, position)
			continue
		}
		imageID, err := common.ValidateUUID(entry.imageID, fmt.Sprintf("images[%d].id", entry.index))
		if err != nil {
			return nil, nil, err
		}
		sub.Positions = append(sub.Positions, models.ImagePosition{ImageID: imageID, Position: position})
	}

	var closers []io.Closer
	for i, fh := range form.File["images"] {
		f, err := fh.Open()
		if err != nil {
			log.Warn().Err(err).Str("filename", fh.Filename).Msg("skipping unreadable file part")
			continue
		}
		closers = append(closers, f)
		position := 0
		if i < len(stagedPositions) {
			position = stagedPositions[i]
		}
		sub.Uploads = append(sub.Uploads, &models.ImageUpload{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Position:    position,
			Reader:      f,
		})
	}

	for _, v := range form.Value["deletedImages"] {
		id, err := common.ValidateUUID(v, "deletedImages")
		if err != nil {
			return nil, closers, err
		}
		sub.DeletedIDs = append(sub.DeletedIDs, id)
	}

	return sub, closers, nil
}

func (h *ProductHandlers) GetProduct(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	product, err := h.productService.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.SendNotFoundError(c, "product")
	}
	return c.JSON(http.StatusOK, product)
}

func (h *ProductHandlers) ListProducts(c echo.Context) error {
	limit, offset, err := common.ParsePagination(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	from, to, err := common.ParseDateRange(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	filter := &models.ProductSearchFilter{
		Query:         c.QueryParam("q"),
		CreatedAfter:  from,
		CreatedBefore: to,
		Limit:         limit,
		Offset:        offset,
	}
	products, total, err := h.productService.List(c.Request().Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("product list failed")
		return common.SendServerError(c, "failed to list products")
	}
	if products == nil {
		products = []*models.Product{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"products": products,
		"total":    total,
		"limit":    limit,
		"offset":   offset,
	})
}

func (h *ProductHandlers) ListProductImages(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	images, err := h.productService.Images(c.Request().Context(), id)
	if err != nil {
		log.Error().Err(err).Msg("image list failed")
		return common.SendServerError(c, "failed to list images")
	}
	if images == nil {
		images = []*models.ProductImage{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"images": images})
}

func (h *ProductHandlers) DeleteProduct(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := h.productService.Delete(c.Request().Context(), id); err != nil {
		log.Error().Err(err).Str("product_id", id.String()).Msg("product delete failed")
		return common.SendServerError(c, "failed to delete product")
	}
	return c.NoContent(http.StatusNoContent)
}
