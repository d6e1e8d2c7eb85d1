package entity

import "time"

// Roles válidos para User.
const (
	RoleAdmin      = "admin"
	RoleDoctor     = "doctor"
	RoleNurse      = "nurse"
	RolePharmacist = "pharmacist"
	RolePatient    = "patient"
)

// User representa un usuario del sistema (personal médico o paciente).
type User struct {
	ID           string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Role         string // admin, doctor, nurse, pharmacist, patient
	Status       string // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsDoctor indica si el usuario puede actuar como médico tratante.
func (u *User) IsDoctor() bool {
	return u.Role == RoleDoctor
}
