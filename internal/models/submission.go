package models

import (
	"io"

	"github.com/google/uuid"
)

// ImageUpload is one staged file carried by a product submission.
type ImageUpload struct {
	Filename    string
	ContentType string
	Size        int64
	Position    int
	Reader      io.Reader
}

// ImagePosition pairs an existing image row with its submitted order index.
type ImagePosition struct {
	ImageID  uuid.UUID
	Position int
}

// ProductSubmission is the decoded form payload for a product save. A nil
// ProductID means create; a set one means update.
type ProductSubmission struct {
	ProductID   *uuid.UUID
	Name        string
	Description *string
	Price       string // raw form value, parsed during validation
	Uploads     []*ImageUpload
	Positions   []ImagePosition
	DeletedIDs  []uuid.UUID
}

// FieldErrors carries per-field validation messages plus a form-level error
// for fatal persistence failures.
type FieldErrors struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
	Price       string `json:"price,omitempty"`
	Images      string `json:"images,omitempty"`
	Form        string `json:"form,omitempty"`
}

func (e *FieldErrors) Empty() bool {
	return e.Name == "" && e.Description == "" && e.Price == "" && e.Images == "" && e.Form == ""
}

// ProductSaveResult is the response body for a product submission. A degraded
// save carries both Success and a non-fatal Errors.Images message.
type ProductSaveResult struct {
	Success   bool         `json:"success"`
	ProductID string       `json:"productId,omitempty"`
	Errors    *FieldErrors `json:"errors,omitempty"`
}
