package occupancy

import (
	"context"
	"time"

	"github.com/jhoicas/medroom-api/internal/domain"
	"github.com/jhoicas/medroom-api/internal/domain/entity"
	"github.com/jhoicas/medroom-api/internal/domain/repository"
)

// AllocationUseCase motor de asignación de camas: ingreso, alta y
// reactivación como comandos transaccionales explícitos. Cada transición
// bloquea la fila de la cama y mantiene su status en lockstep con las
// asignaciones activas (a lo sumo una por cama).
type AllocationUseCase struct {
	txRunner    TxRunner
	userRepo    repository.UserRepository
	patientRepo repository.PatientRepository
}

// NewAllocationUseCase construye el caso de uso.
func NewAllocationUseCase(
	txRunner TxRunner,
	userRepo repository.UserRepository,
	patientRepo repository.PatientRepository,
) *AllocationUseCase {
	return &AllocationUseCase{
		txRunner:    txRunner,
		userRepo:    userRepo,
		patientRepo: patientRepo,
	}
}

// AdmitInput entrada para ingresar un paciente a una cama.
type AdmitInput struct {
	BedID                 string
	PatientRecordID       *string
	PatientName           string // obligatorio si no hay record
	PatientID             string
	AdmissionDate         time.Time // cero = ahora
	ExpectedDischargeDate *time.Time
	Condition             string
	SpecialRequirements   string
	AttendingDoctorID     string
	Actor                 Actor
}

// Admit crea una asignación activa y marca la cama como occupied, en una sola
// transacción. Falla con BedOccupiedError (nombrando al ocupante actual) si la
// cama ya tiene asignación activa, ErrInvalidDateOrder si la fecha esperada de
// alta precede al ingreso y ErrInvalidAttendingRole si el médico tratante no
// tiene rol doctor.
func (uc *AllocationUseCase) Admit(ctx context.Context, input AdmitInput) (*entity.BedAllocation, error) {
	if !input.Actor.Valid() {
		return nil, domain.ErrMissingActor
	}

	patientName := input.PatientName
	patientID := input.PatientID
	if input.PatientRecordID != nil {
		p, err := uc.patientRepo.GetByID(*input.PatientRecordID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			return nil, domain.ErrNotFound
		}
		if patientName == "" {
			patientName = p.Name
		}
		if patientID == "" {
			patientID = p.EmployeeStudentID
		}
	}
	if patientName == "" {
		return nil, domain.ErrInvalidInput
	}

	doctor, err := uc.userRepo.GetByID(input.AttendingDoctorID)
	if err != nil {
		return nil, err
	}
	if doctor == nil || !doctor.IsDoctor() {
		return nil, domain.ErrInvalidAttendingRole
	}

	admission := input.AdmissionDate
	if admission.IsZero() {
		admission = time.Now()
	}
	if input.ExpectedDischargeDate != nil &&
		dayBefore(*input.ExpectedDischargeDate, admission) {
		return nil, domain.ErrInvalidDateOrder
	}

	var created *entity.BedAllocation
	err = uc.txRunner.Run(ctx, func(
		bedRepo repository.BedRepository,
		allocRepo repository.BedAllocationRepository,
	) error {
		bed, err := bedRepo.GetForUpdate(input.BedID)
		if err != nil {
			return err
		}
		if bed == nil || !bed.IsActive {
			return domain.ErrNotFound
		}

		current, err := allocRepo.GetActiveByBed(bed.ID)
		if err != nil {
			return err
		}
		if current != nil {
			return &domain.BedOccupiedError{BedNumber: bed.BedNumber, PatientName: current.PatientName}
		}

		now := time.Now()
		a := &entity.BedAllocation{
			BedID:                 bed.ID,
			PatientRecordID:       input.PatientRecordID,
			PatientName:           patientName,
			PatientID:             patientID,
			AdmissionDate:         admission,
			ExpectedDischargeDate: input.ExpectedDischargeDate,
			Condition:             input.Condition,
			SpecialRequirements:   input.SpecialRequirements,
			AttendingDoctorID:     doctor.ID,
			AttendingDoctorName:   doctor.Name,
			IsActive:              true,
			AllocatedByID:         input.Actor.ID,
			AllocatedByName:       input.Actor.Name,
			CreatedAt:             now,
			UpdatedAt:             now,
		}
		if err := allocRepo.Create(a); err != nil {
			return err
		}
		if err := bedRepo.UpdateStatus(bed.ID, entity.BedOccupied); err != nil {
			return err
		}
		created = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Discharge da de alta una asignación activa: estampa la fecha real de alta
// (ahora si no se indica), agrega notas y libera la cama cuando no queda otra
// asignación activa. Falla con ErrAlreadyDischarged si ya estaba inactiva.
func (uc *AllocationUseCase) Discharge(ctx context.Context, allocationID, notes string, actualDischarge *time.Time) (*entity.BedAllocation, error) {
	var discharged *entity.BedAllocation
	err := uc.txRunner.Run(ctx, func(
		bedRepo repository.BedRepository,
		allocRepo repository.BedAllocationRepository,
	) error {
		a, err := allocRepo.GetForUpdate(allocationID)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}
		if !a.IsActive {
			return domain.ErrAlreadyDischarged
		}

		// Bloquear también la cama: serializa con ingresos concurrentes.
		if _, err := bedRepo.GetForUpdate(a.BedID); err != nil {
			return err
		}

		now := time.Now()
		a.IsActive = false
		if actualDischarge != nil {
			a.ActualDischargeDate = actualDischarge
		} else {
			a.ActualDischargeDate = &now
		}
		if notes != "" {
			a.DischargeNotes = notes
		}
		a.UpdatedAt = now
		if err := allocRepo.Update(a); err != nil {
			return err
		}

		remaining, err := allocRepo.CountActiveByBed(a.BedID, a.ID)
		if err != nil {
			return err
		}
		if remaining == 0 {
			if err := bedRepo.UpdateStatus(a.BedID, entity.BedAvailable); err != nil {
				return err
			}
		}
		discharged = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return discharged, nil
}

// Reactivate vuelve a activar una asignación dada de alta (corrección
// administrativa). Re-verifica la exclusividad contra otras asignaciones de la
// misma cama y vuelve a marcarla occupied.
func (uc *AllocationUseCase) Reactivate(ctx context.Context, allocationID string) (*entity.BedAllocation, error) {
	var reactivated *entity.BedAllocation
	err := uc.txRunner.Run(ctx, func(
		bedRepo repository.BedRepository,
		allocRepo repository.BedAllocationRepository,
	) error {
		a, err := allocRepo.GetForUpdate(allocationID)
		if err != nil {
			return err
		}
		if a == nil {
			return domain.ErrNotFound
		}
		if a.IsActive {
			return domain.ErrConflict
		}

		bed, err := bedRepo.GetForUpdate(a.BedID)
		if err != nil {
			return err
		}
		if bed == nil {
			return domain.ErrNotFound
		}

		current, err := allocRepo.GetActiveByBed(a.BedID)
		if err != nil {
			return err
		}
		if current != nil && current.ID != a.ID {
			return &domain.BedOccupiedError{BedNumber: bed.BedNumber, PatientName: current.PatientName}
		}

		a.IsActive = true
		a.ActualDischargeDate = nil
		a.UpdatedAt = time.Now()
		if err := allocRepo.Update(a); err != nil {
			return err
		}
		if err := bedRepo.UpdateStatus(bed.ID, entity.BedOccupied); err != nil {
			return err
		}
		reactivated = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return reactivated, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// dayBefore indica si la fecha calendario de a es anterior a la de b.
// Compara componentes de fecha en la zona de cada instante: una fecha
// parseada como medianoche UTC no debe contar como "antes" en zonas al oeste.
func dayBefore(a, b time.Time) bool {
	return a.Format("2006-01-02") < b.Format("2006-01-02")
}
