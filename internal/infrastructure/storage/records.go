package storage

import (
	"errors"
	"strings"
	"time"

	"github.com/jhoicas/stock-scanner/internal/domain/entity"
)

// Formato en disco: arrays JSON en camelCase, compatibles con los datos que ya
// guardaba la app móvil. Las fechas van como ISO-8601 (RFC 3339).

type categoryRecord struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type subcategoryRecord struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	CategoryID string    `json:"categoryId"`
	CreatedAt  time.Time `json:"createdAt"`
}

type productRecord struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	Barcode       string    `json:"barcode"`
	Quantity      int       `json:"quantity"`
	SubcategoryID string    `json:"subcategoryId"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type stockMovementRecord struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"productId"`
	Type             string    `json:"type"`
	Quantity         int       `json:"quantity"`
	PreviousQuantity int       `json:"previousQuantity"`
	NewQuantity      int       `json:"newQuantity"`
	Timestamp        time.Time `json:"timestamp"`
}

var (
	errMissingID        = errors.New("id vacío")
	errMissingName      = errors.New("nombre vacío")
	errMissingDate      = errors.New("fecha ausente")
	errNegativeQuantity = errors.New("cantidad negativa")
	errMissingParent    = errors.New("referencia al padre vacía")
)

func categoryFromRecord(r categoryRecord) (entity.Category, error) {
	switch {
	case r.ID == "":
		return entity.Category{}, errMissingID
	case strings.TrimSpace(r.Name) == "":
		return entity.Category{}, errMissingName
	case r.CreatedAt.IsZero():
		return entity.Category{}, errMissingDate
	}
	return entity.Category{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt}, nil
}

func categoryToRecord(c entity.Category) categoryRecord {
	return categoryRecord{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt}
}

func subcategoryFromRecord(r subcategoryRecord) (entity.Subcategory, error) {
	switch {
	case r.ID == "":
		return entity.Subcategory{}, errMissingID
	case strings.TrimSpace(r.Name) == "":
		return entity.Subcategory{}, errMissingName
	case r.CategoryID == "":
		return entity.Subcategory{}, errMissingParent
	case r.CreatedAt.IsZero():
		return entity.Subcategory{}, errMissingDate
	}
	return entity.Subcategory{ID: r.ID, Name: r.Name, CategoryID: r.CategoryID, CreatedAt: r.CreatedAt}, nil
}

func subcategoryToRecord(s entity.Subcategory) subcategoryRecord {
	return subcategoryRecord{ID: s.ID, Name: s.Name, CategoryID: s.CategoryID, CreatedAt: s.CreatedAt}
}

func productFromRecord(r productRecord) (entity.Product, error) {
	switch {
	case r.ID == "":
		return entity.Product{}, errMissingID
	case strings.TrimSpace(r.Name) == "":
		return entity.Product{}, errMissingName
	case r.SubcategoryID == "":
		return entity.Product{}, errMissingParent
	case r.Quantity < 0:
		return entity.Product{}, errNegativeQuantity
	case r.CreatedAt.IsZero():
		return entity.Product{}, errMissingDate
	}
	updated := r.UpdatedAt
	if updated.IsZero() {
		updated = r.CreatedAt
	}
	return entity.Product{
		ID:            r.ID,
		Name:          r.Name,
		Description:   r.Description,
		Barcode:       r.Barcode,
		Quantity:      r.Quantity,
		SubcategoryID: r.SubcategoryID,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     updated,
	}, nil
}

func productToRecord(p entity.Product) productRecord {
	return productRecord{
		ID:            p.ID,
		Name:          p.Name,
		Description:   p.Description,
		Barcode:       p.Barcode,
		Quantity:      p.Quantity,
		SubcategoryID: p.SubcategoryID,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func stockMovementFromRecord(r stockMovementRecord) (entity.StockMovement, error) {
	t, err := entity.ParseMovementType(r.Type)
	if err != nil {
		return entity.StockMovement{}, err
	}
	switch {
	case r.ID == "":
		return entity.StockMovement{}, errMissingID
	case r.ProductID == "":
		return entity.StockMovement{}, errMissingParent
	case r.Quantity < 0 || r.PreviousQuantity < 0 || r.NewQuantity < 0:
		return entity.StockMovement{}, errNegativeQuantity
	case r.Timestamp.IsZero():
		return entity.StockMovement{}, errMissingDate
	}
	return entity.StockMovement{
		ID:               r.ID,
		ProductID:        r.ProductID,
		Type:             t,
		Quantity:         r.Quantity,
		PreviousQuantity: r.PreviousQuantity,
		NewQuantity:      r.NewQuantity,
		Timestamp:        r.Timestamp,
	}, nil
}

func stockMovementToRecord(m entity.StockMovement) stockMovementRecord {
	return stockMovementRecord{
		ID:               m.ID,
		ProductID:        m.ProductID,
		Type:             string(m.Type),
		Quantity:         m.Quantity,
		PreviousQuantity: m.PreviousQuantity,
		NewQuantity:      m.NewQuantity,
		Timestamp:        m.Timestamp,
	}
}
