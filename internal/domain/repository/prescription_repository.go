package repository

import "github.com/jhoicas/medroom-api/internal/domain/entity"

// PrescriptionRepository define el puerto de persistencia de prescripciones.
// La eliminación es lógica (Removed=true): el historial se conserva.
type PrescriptionRepository interface {
	Create(p *entity.Prescription) error
	GetByID(id string) (*entity.Prescription, error)
	// GetForUpdate bloquea la fila para la secuencia de eliminación con
	// ventana de gracia.
	GetForUpdate(id string) (*entity.Prescription, error)
	MarkRemoved(p *entity.Prescription) error
	ListByPatient(patientRecordID string) ([]*entity.Prescription, error)
}
