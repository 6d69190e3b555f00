package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Almacenamiento: las colecciones nunca propagan estos errores al usuario,
	// el gestor de stock los registra y sigue con el estado en memoria.
	ErrStorageRead  = errors.New("error de lectura del almacenamiento")
	ErrStorageWrite = errors.New("error de escritura del almacenamiento")
	ErrCorruptData  = errors.New("datos almacenados corruptos")
)

// Variantes concretas; errors.Is sigue funcionando contra ErrNotFound / ErrInvalidInput.
var (
	ErrCategoryNotFound    = fmt.Errorf("categoría: %w", ErrNotFound)
	ErrSubcategoryNotFound = fmt.Errorf("subcategoría: %w", ErrNotFound)
	ErrProductNotFound     = fmt.Errorf("producto: %w", ErrNotFound)

	ErrNameRequired        = fmt.Errorf("el nombre es requerido: %w", ErrInvalidInput)
	ErrInvalidQuantity     = fmt.Errorf("cantidad inválida: %w", ErrInvalidInput)
	ErrInvalidMovementType = fmt.Errorf("tipo de movimiento inválido: %w", ErrInvalidInput)
)
