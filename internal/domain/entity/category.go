package entity

import "time"

// Category representa el primer nivel de la taxonomía de productos.
type Category struct {
	ID        string
	Name      string
	CreatedAt time.Time
}
