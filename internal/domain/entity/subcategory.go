package entity

import "time"

// Subcategory segundo nivel de la taxonomía; pertenece a una única Category.
type Subcategory struct {
	ID         string
	Name       string
	CategoryID string
	CreatedAt  time.Time
}
