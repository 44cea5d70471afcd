package handlers

import (
	"errors"
	"net/http"

	"backoffice/internal/common"
	"backoffice/internal/models"
	"backoffice/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

type ClientHandlers struct {
	clientService services.ClientService
	validate      *validator.Validate
}

func NewClientHandlers(clientService services.ClientService) *ClientHandlers {
	return &ClientHandlers{
		clientService: clientService,
		validate:      validator.New(),
	}
}

type clientRequest struct {
	Name    string  `json:"name" validate:"required,max=200"`
	Email   string  `json:"email" validate:"required,email"`
	Phone   *string `json:"phone" validate:"omitempty,max=50"`
	Company *string `json:"company" validate:"omitempty,max=200"`
	Notes   *string `json:"notes" validate:"omitempty,max=2000"`
}

func (r *clientRequest) toModel() *models.Client {
	client := &models.Client{
		Name:  common.SafeString(r.Name),
		Email: r.Email,
	}
	if r.Phone != nil {
		v := common.SafeString(*r.Phone)
		client.Phone = &v
	}
	if r.Company != nil {
		v := common.SafeString(*r.Company)
		client.Company = &v
	}
	if r.Notes != nil {
		v := common.SafeString(*r.Notes)
		client.Notes = &v
	}
	return client
}

func (h *ClientHandlers) CreateClient(c echo.Context) error {
	req := &clientRequest{}
	if err := c.Bind(req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	client := req.toModel()
	if err := h.clientService.Create(c.Request().Context(), client); err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			return c.JSON(http.StatusConflict, common.CreateErrorResponse("DUPLICATE_EMAIL", err.Error(), nil))
		}
		log.Error().Err(err).Msg("client create failed")
		return common.SendServerError(c, "failed to create client")
	}
	return c.JSON(http.StatusCreated, client)
}

func (h *ClientHandlers) GetClient(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	client, err := h.clientService.GetByID(c.Request().Context(), id)
	if err != nil {
		return common.SendNotFoundError(c, "client")
	}
	return c.JSON(http.StatusOK, client)
}

func (h *ClientHandlers) UpdateClient(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	req := &clientRequest{}
	if err := c.Bind(req); err != nil {
		return common.SendClientError(c, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return common.SendClientError(c, err.Error())
	}

	client := req.toModel()
	client.ID = id
	if err := h.clientService.Update(c.Request().Context(), client); err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			return c.JSON(http.StatusConflict, common.CreateErrorResponse("DUPLICATE_EMAIL", err.Error(), nil))
		}
		log.Error().Err(err).Str("client_id", id.String()).Msg("client update failed")
		return common.SendServerError(c, "failed to update client")
	}
	return c.JSON(http.StatusOK, client)
}

func (h *ClientHandlers) DeleteClient(c echo.Context) error {
	id, err := common.ValidateUUID(c.Param("id"), "id")
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	if err := h.clientService.Delete(c.Request().Context(), id); err != nil {
		log.Error().Err(err).Str("client_id", id.String()).Msg("client delete failed")
		return common.SendServerError(c, "failed to delete client")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ClientHandlers) ListClients(c echo.Context) error {
	limit, offset, err := common.ParsePagination(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	from, to, err := common.ParseDateRange(c)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}

	filter := &models.ClientSearchFilter{
		Query:         c.QueryParam("q"),
		CreatedAfter:  from,
		CreatedBefore: to,
		Limit:         limit,
		Offset:        offset,
	}
	clients, total, err := h.clientService.List(c.Request().Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("client list failed")
		return common.SendServerError(c, "failed to list clients")
	}
	if clients == nil {
		clients = []*models.Client{}
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"clients": clients,
		"total":   total,
		"limit":   limit,
		"offset":  offset,
	})
}

// ImportClients ingests a CSV file uploaded under the "file" form field and
// reports per-row outcomes.
func (h *ClientHandlers) ImportClients(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return common.SendClientError(c, "a CSV file is required under the 'file' field")
	}
	f, err := fh.Open()
	if err != nil {
		return common.SendClientError(c, "could not read uploaded file")
	}
	defer f.Close()

	result, err := h.clientService.ImportCSV(c.Request().Context(), f)
	if err != nil {
		return common.SendClientError(c, err.Error())
	}
	return c.JSON(http.StatusOK, result)
}
