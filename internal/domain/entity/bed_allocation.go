package entity

import "time"

// BedAllocation asignación de una cama a un paciente, desde el ingreso hasta
// el alta. A lo sumo una asignación activa por cama; el historial se conserva
// para reportes de utilización (nunca se borra).
type BedAllocation struct {
	ID    string
	BedID string

	PatientRecordID *string // referencia opcional al directorio de pacientes
	PatientName     string  // auto-poblado desde el directorio cuando hay referencia
	PatientID       string  // cédula/carné para mostrar

	AdmissionDate         time.Time
	ExpectedDischargeDate *time.Time // fecha (sin hora); >= fecha de ingreso
	ActualDischargeDate   *time.Time

	Condition           string
	SpecialRequirements string

	AttendingDoctorID   string // debe resolver a un usuario con rol doctor
	AttendingDoctorName string

	IsActive       bool
	DischargeNotes string

	// Snapshot de atribución del actor que asignó la cama.
	AllocatedByID   string
	AllocatedByName string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// DurationDays devuelve la estancia en días completos: fecha de alta real
// (o now si sigue activa) menos fecha de ingreso. Nunca negativo.
func (a *BedAllocation) DurationDays(now time.Time) int {
	end := now
	if a.ActualDischargeDate != nil {
		end = *a.ActualDischargeDate
	}
	days := int(truncateToDate(end).Sub(truncateToDate(a.AdmissionDate)).Hours() / 24)
	if days < 0 {
		return 0
	}
	return days
}

// IsOverdue indica si pasó la fecha esperada de alta sin alta real.
func (a *BedAllocation) IsOverdue(today time.Time) bool {
	return a.IsActive &&
		a.ActualDischargeDate == nil &&
		a.ExpectedDischargeDate != nil &&
		a.ExpectedDischargeDate.Before(truncateToDate(today))
}
