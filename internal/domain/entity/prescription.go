package entity

import "time"

// Prescription línea de medicamento prescrito a un paciente.
// Al crearla se descuenta stock vía el libro mayor (issued); eliminarla
// dentro de la ventana de gracia lo restaura (adjustment), fuera de ella
// solo deja registro.
type Prescription struct {
	ID           string
	TreatmentRef string // diagnóstico/contexto del tratamiento
	MedicineID   string

	PatientRecordID *string
	PatientName     string

	Quantity     int // > 0
	Dosage       string // ej. "1 tableta cada 8 horas"
	DurationDays int

	PrescribedByID   string
	PrescribedByName string

	StockDeducted bool
	Removed       bool
	RemovedAt     *time.Time
	CreatedAt     time.Time
}

// WithinGraceWindow indica si la prescripción aún puede revertirse
// restaurando stock.
func (p *Prescription) WithinGraceWindow(now time.Time, window time.Duration) bool {
	return now.Sub(p.CreatedAt) <= window
}
