package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")

	// Farmacia: libro mayor de stock y solicitudes de reposición.
	ErrInvalidQuantity          = errors.New("la cantidad debe ser mayor a cero")
	ErrInsufficientStock        = errors.New("stock insuficiente")
	ErrMissingRequiredReference = errors.New("falta la referencia requerida para este tipo de transacción")
	ErrInvalidTransition        = errors.New("transición de estado no permitida")
	ErrMissingExpiryDate        = errors.New("la fecha de vencimiento es obligatoria para aprobar")
	ErrExpiryInPast             = errors.New("la fecha de vencimiento no puede estar en el pasado")

	// Ocupación: camas y asignaciones.
	ErrBedOccupied          = errors.New("la cama ya está ocupada")
	ErrInvalidDateOrder     = errors.New("la fecha esperada de alta no puede ser anterior al ingreso")
	ErrInvalidAttendingRole = errors.New("el médico tratante debe tener rol doctor")
	ErrAlreadyDischarged    = errors.New("el paciente ya fue dado de alta")

	// Atribución: toda mutación debe tener un actor identificado.
	ErrMissingActor = errors.New("la operación debe atribuirse a un usuario")
)

// BedOccupiedError indica que la cama ya tiene una asignación activa.
// Incluye el ocupante actual para que el caller pueda mostrar el conflicto.
type BedOccupiedError struct {
	BedNumber   string
	PatientName string
}

func (e *BedOccupiedError) Error() string {
	return fmt.Sprintf("la cama %s ya está ocupada por %s; dé de alta al paciente actual antes de asignarla", e.BedNumber, e.PatientName)
}

// Unwrap permite errors.Is(err, ErrBedOccupied).
func (e *BedOccupiedError) Unwrap() error { return ErrBedOccupied }
