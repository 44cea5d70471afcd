package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"backoffice/internal/caching"
	"backoffice/internal/models"
	"backoffice/internal/repositories"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrClientNotFound   = errors.New("client not found")
	ErrDuplicateEmail   = errors.New("a client with this email already exists")
	ErrClientNameNeeded = errors.New("client name is required")
)

type ClientService interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *models.ClientSearchFilter) ([]*models.Client, int, error)
	ImportCSV(ctx context.Context, r io.Reader) (*models.ClientImportResult, error)
}

type clientService struct {
	clientRepo repositories.ClientRepository
	cache      caching.CacheService
	validate   *validator.Validate
}

func NewClientService(clientRepo repositories.ClientRepository, cache caching.CacheService) ClientService {
	return &clientService{
		clientRepo: clientRepo,
		cache:      cache,
		validate:   validator.New(),
	}
}

func (s *clientService) Create(ctx context.Context, client *models.Client) error {
	if strings.TrimSpace(client.Name) == "" {
		return ErrClientNameNeeded
	}
	if err := s.validate.Var(client.Email, "required,email"); err != nil {
		return fmt.Errorf("invalid email %q", client.Email)
	}
	if existing, err := s.clientRepo.GetByEmail(ctx, client.Email); err == nil && existing != nil {
		return ErrDuplicateEmail
	}
	if client.ID == uuid.Nil {
		client.ID = uuid.New()
	}
	return s.clientRepo.Create(ctx, client)
}

func (s *clientService) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	if cached, err := s.cache.GetClient(ctx, id); err == nil && cached != nil {
		return cached, nil
	}
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrClientNotFound
	}
	if err := s.cache.SetClient(ctx, client, caching.DefaultTTL); err != nil {
		log.Warn().Err(err).Str("client_id", id.String()).Msg("cache write failed")
	}
	return client, nil
}

func (s *clientService) Update(ctx context.Context, client *models.Client) error {
	if strings.TrimSpace(client.Name) == "" {
		return ErrClientNameNeeded
	}
	if err := s.validate.Var(client.Email, "required,email"); err != nil {
		return fmt.Errorf("invalid email %q", client.Email)
	}
	if existing, err := s.clientRepo.GetByEmail(ctx, client.Email); err == nil && existing != nil && existing.ID != client.ID {
		return ErrDuplicateEmail
	}
	if err := s.clientRepo.Update(ctx, client); err != nil {
		return err
	}
	if err := s.cache.DeleteClient(ctx, client.ID); err != nil {
		log.Warn().Err(err).Str("client_id", client.ID.String()).Msg("cache invalidation failed")
	}
	return nil
}

func (s *clientService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.DeleteClient(ctx, id); err != nil {
		log.Warn().Err(err).Str("client_id", id.String()).Msg("cache invalidation failed")
	}
	return nil
}

func (s *clientService) List(ctx context.Context, filter *models.ClientSearchFilter) ([]*models.Client, int, error) {
	return s.clientRepo.List(ctx, filter)
}

// ImportCSV ingests a name,email,phone,company file. The import is
// best-effort: each row stands alone, bad rows are reported with their line
// number and the rest are committed anyway.
func (s *clientService) ImportCSV(ctx context.Context, r io.Reader) (*models.ClientImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	columns := map[string]int{}
	for i, name := range header {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	nameCol, ok := columns["name"]
	if !ok {
		return nil, errors.New("missing required column: name")
	}
	emailCol, ok := columns["email"]
	if !ok {
		return nil, errors.New("missing required column: email")
	}
	phoneCol, hasPhone := columns["phone"]
	companyCol, hasCompany := columns["company"]

	result := &models.ClientImportResult{StartTime: time.Now()}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			result.TotalRows++
			result.Failed++
			result.Errors = append(result.Errors, models.ClientImportError{Line: line, Error: err.Error()})
			continue
		}
		result.TotalRows++

		client := &models.Client{ID: uuid.New()}
		if nameCol < len(record) {
			client.Name = strings.TrimSpace(record[nameCol])
		}
		if emailCol < len(record) {
			client.Email = strings.TrimSpace(record[emailCol])
		}
		if hasPhone && phoneCol < len(record) {
			if v := strings.TrimSpace(record[phoneCol]); v != "" {
				client.Phone = &v
			}
		}
		if hasCompany && companyCol < len(record) {
			if v := strings.TrimSpace(record[companyCol]); v != "" {
				client.Company = &v
			}
		}

		if err := s.Create(ctx, client); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, models.ClientImportError{Line: line, Error: err.Error()})
			continue
		}
		result.Imported++
	}

	done := time.Now()
	result.CompletionTime = &done
	log.Info().
		Int("total", result.TotalRows).
		Int("imported", result.Imported).
		Int("failed", result.Failed).
		Msg("client csv import finished")
	return result, nil
}
