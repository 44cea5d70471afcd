package repositories

import (
	"context"
	"fmt"

	"backoffice/internal/models"

	"github.com/google/uuid"
)

type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error)
	GetByEmail(ctx context.Context, email string) (*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter *models.ClientSearchFilter) ([]*models.Client, int, error)
}

type clientRepo struct {
	db DB
}

func NewClientRepo(db DB) ClientRepository {
	return &clientRepo{db: db}
}

func (r *clientRepo) Create(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (id, name, email, phone, company, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
	`
	_, err := r.db.Exec(ctx, query, client.ID, client.Name, client.Email, client.Phone, client.Company, client.Notes)
	return err
}

func (r *clientRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Client, error) {
	client := &models.Client{}
	query := `
		SELECT id, name, email, phone, company, notes, created_at, updated_at
		FROM clients
		WHERE id = $1
	`
	err := r.db.QueryRow(ctx, query, id).Scan(&client.ID, &client.Name, &client.Email, &client.Phone, &client.Company, &client.Notes, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (r *clientRepo) GetByEmail(ctx context.Context, email string) (*models.Client, error) {
	client := &models.Client{}
	query := `
		SELECT id, name, email, phone, company, notes, created_at, updated_at
		FROM clients
		WHERE email = $1
	`
	err := r.db.QueryRow(ctx, query, email).Scan(&client.ID, &client.Name, &client.Email, &client.Phone, &client.Company, &client.Notes, &client.CreatedAt, &client.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (r *clientRepo) Update(ctx context.Context, client *models.Client) error {
	query := `
		UPDATE clients
		SET name = $1, email = $2, phone = $3, company = $4, notes = $5, updated_at = NOW()
		WHERE id = $6
	`
	_, err := r.db.Exec(ctx, query, client.Name, client.Email, client.Phone, client.Company, client.Notes, client.ID)
	return err
}

func (r *clientRepo) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM clients WHERE id = $1`
	_, err := r.db.Exec(ctx, query, id)
	return err
}

// List returns one page of clients plus the total count matching the filter.
func (r *clientRepo) List(ctx context.Context, filter *models.ClientSearchFilter) ([]*models.Client, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	where := ` WHERE 1=1`
	args := []any{}
	conditionCount := 0

	if filter.Query != "" {
		conditionCount++
		where += fmt.Sprintf(` AND (name ILIKE $%d OR email ILIKE $%d OR COALESCE(company, '') ILIKE $%d)`, conditionCount, conditionCount, conditionCount)
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
	countQuery := `SELECT COUNT(*) FROM clients` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT id, name, email, phone, company, notes, created_at, updated_at
		FROM clients` + where
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

	var clients []*models.Client
	for rows.Next() {
		client := &models.Client{}
		if err := rows.Scan(&client.ID, &client.Name, &client.Email, &client.Phone, &client.Company, &client.Notes, &client.CreatedAt, &client.UpdatedAt); err != nil {
			return nil, 0, err
		}
		clients = append(clients, client)
	}
	return clients, total, nil
}
