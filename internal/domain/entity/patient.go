package entity

import "time"

// Patient registro del directorio de pacientes. Se usa como lookup opcional
// para auto-poblar nombre e identificación en transacciones y asignaciones.
type Patient struct {
	ID                string
	Name              string
	EmployeeStudentID string
	IsActive          bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
