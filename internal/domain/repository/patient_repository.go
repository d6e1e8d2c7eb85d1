package repository

import "github.com/jhoicas/medroom-api/internal/domain/entity"

// PatientRepository define el puerto del directorio de pacientes (lookup
// opcional para auto-poblar nombre e identificación).
type PatientRepository interface {
	GetByID(id string) (*entity.Patient, error)
}
