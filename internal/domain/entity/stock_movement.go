package entity

import (
	"fmt"
	"time"
)

// MovementType tipo de movimiento de stock.
type MovementType string

// Tipos de movimiento de stock (value object conceptual).
const (
	MovementTypeAdd    MovementType = "add"    // entrada
	MovementTypeRemove MovementType = "remove" // salida
	MovementTypeModify MovementType = "modify" // ajuste a un valor absoluto
)

// Valid indica si el tipo es uno de los tres conocidos.
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeAdd, MovementTypeRemove, MovementTypeModify:
		return true
	}
	return false
}

// ParseMovementType convierte un string en MovementType.
func ParseMovementType(s string) (MovementType, error) {
	t := MovementType(s)
	if !t.Valid() {
		return "", fmt.Errorf("tipo de movimiento desconocido %q", s)
	}
	return t, nil
}

// StockMovement registro de auditoría inmutable de un cambio de cantidad.
// Quantity es el delta absoluto entre PreviousQuantity y NewQuantity.
type StockMovement struct {
	ID               string
	ProductID        string
	Type             MovementType
	Quantity         int
	PreviousQuantity int
	NewQuantity      int
	Timestamp        time.Time
}
