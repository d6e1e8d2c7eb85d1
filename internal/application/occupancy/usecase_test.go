package occupancy_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/medroom-api/internal/application/occupancy"
	"github.com/jhoicas/medroom-api/internal/domain"
	"github.com/jhoicas/medroom-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del motor de asignación de camas: exclusividad (a lo sumo una
// asignación activa por cama), status de la cama en lockstep con las
// asignaciones y comandos de ingreso/alta/reactivación.
// ──────────────────────────────────────────────────────────────────────────────

func newAllocationUseCase(store *memStore) *occupancy.AllocationUseCase {
	return occupancy.NewAllocationUseCase(
		&fakeTxRunner{store},
		&fakeUserRepo{store},
		&fakePatientRepo{store},
	)
}

func TestAdmit_AsignaYOcupaLaCama(t *testing.T) {
	store := newMemStore()
	seedBed(store, "bed-1", "A-101")
	seedDoctor(store, "doc-1", "Dr. Andrés Gómez")
	seedPatient(store, "pat-1", "Juan Pérez")
	uc := newAllocationUseCase(store)

	recordID := "pat-1"
	a, err := uc.Admit(context.Background(), occupancy.AdmitInput{
		BedID:             "bed-1",
		PatientRecordID:   &recordID,
		Condition:         "Observación postoperatoria",
		AttendingDoctorID: "doc-1",
		Actor:             testActor,
	})

	require.NoError(t, err)
	assert.True(t, a.IsActive)
	assert.Equal(t, "Juan Pérez", a.PatientName, "el nombre se auto-puebla desde el directorio")
	assert.Equal(t, "EMP-pat-1", a.PatientID)
	assert.Equal(t, "Dr. Andrés Gómez", a.AttendingDoctorName, "snapshot del médico tratante")
	assert.Equal(t, testActor.Name, a.AllocatedByName)
	assert.Equal(t, entity.BedOccupied, store.beds["bed-1"].Status)
}

func TestAdmit_CamaOcupadaRechazaConOcupante(t *testing.T) {
	store := newMemStore()
	seedBed(store, "bed-1", "A-101")
	seedDoctor(store, "doc-1", "Dr. Andrés Gómez")
	uc := newAllocationUseCase(store)
	ctx := context.Background()

	_, err := uc.Admit(ctx, occupancy.AdmitInput{
		BedID:             "bed-1",
		PatientName:       "Juan Pérez",
		AttendingDoctorID: "doc-1",
		Actor:             testActor,
	})
	require.NoError(t, err)

	_, err = uc.Admit(ctx, occupancy.AdmitInput{
		BedID:             "bed-1",
		PatientName:       "María López",
		AttendingDoctorID: "doc-1",
		Actor:             testActor,
	})

	require.ErrorIs(t, err, domain.ErrBedOccupied)
	var occupied *domain.BedOccupiedError
	require.ErrorAs(t, err, &occupied)
	assert.Equal(t, "A-101", occupied.BedNumber)
	assert.Equal(t, "Juan Pérez", occupied.PatientName, "el error nombra al ocupante actual")

	// Solo la primera asignación quedó activa.
	active := 0
	for _, a := range store.allocations {
		if a.IsActive {
			active++
		}
	}
	assert.Equal(t, 1, active)
}

func TestAdmit_Validaciones(t *testing.T) {
	store := newMemStore()
	seedBed(store, "bed-1", "A-101")
	seedDoctor(store, "doc-1", "Dr. Andrés Gómez")
	nurse := &entity.User{ID: "nurse-1", Name: "Enf. Pedro Ruiz", Role: entity.RoleNurse, Status: "active"}
	store.users[nurse.ID] = nurse
	uc := newAllocationUseCase(store)
	ctx := context.Background()

	// Sin actor.
	_, err := uc.Admit(ctx, occupancy.AdmitInput{BedID: "bed-1", PatientName: "X", AttendingDoctorID: "doc-1"})
	assert.ErrorIs(t, err, domain.ErrMissingActor)

	// Sin paciente (ni nombre ni referencia).
	_, err = uc.Admit(ctx, occupancy.AdmitInput{BedID: "bed-1", AttendingDoctorID: "doc-1", Actor: testActor})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// El tratante debe tener rol doctor.
	_, err = uc.Admit(ctx, occupancy.AdmitInput{BedID: "bed-1", PatientName: "X", AttendingDoctorID: "nurse-1", Actor: testActor})
	assert.ErrorIs(t, err, domain.ErrInvalidAttendingRole)

	// Alta esperada anterior al ingreso.
	yesterday := time.Now().AddDate(0, 0, -1)
	_, err = uc.Admit(ctx, occupancy.AdmitInput{
		BedID:                 "bed-1",
		PatientName:           "X",
		AttendingDoctorID:     "doc-1",
		ExpectedDischargeDate: &yesterday,
		Actor:                 testActor,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDateOrder)

	// Cama inexistente.
	_, err = uc.Admit(ctx, occupancy.AdmitInput{BedID: "bed-ghost", PatientName: "X", AttendingDoctorID: "doc-1", Actor: testActor})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, entity.BedAvailable, store.beds["bed-1"].Status, "ningún intento fallido ocupa la cama")
	assert.Empty(t, store.allocations)
}

// TestAdmit_AltaEsperadaElMismoDiaEsValida usa la fecha tal como la parsean
// los handlers (medianoche UTC): un alta esperada el mismo día del ingreso no
// la precede, tampoco cuando el servidor corre al oeste de UTC.
func TestAdmit_AltaEsperadaElMismoDiaEsValida(t *testing.T) {
	store := newMemStore()
	seedBed(store, "bed-1", "A-101")
	seedDoctor(store, "doc-1", "Dr. Andrés Gómez")
	uc := newAllocationUseCase(store)

	sameDay, err := time.Parse("2006-01-02", time.Now().Format("2006-01-02"))
	require.NoError(t, err)

	a, err := uc.Admit(context.Background(), occupancy.AdmitInput{
		BedID:                 "bed-1",
		PatientName:           "Juan Pérez",
		AttendingDoctorID:     "doc-1",
		ExpectedDischargeDate: &sameDay,
		Actor:                 testActor,
	})
	require.NoError(t, err)
	assert.True(t, a.IsActive)
	assert.Equal(t, entity.BedOccupied, store.beds["bed-1"].Status)
}

// TestAdmit_FalloNoDejaCamaOcupada fuerza el fallo del insert de la
// asignación: el rollback debe dejar la cama available y sin asignaciones.
func TestAdmit_FalloNoDejaCamaOcupada(t *testing.T) {
	store := newMemStore()
	seedBed(store, "bed-1", "A-101")
	seedDoctor(store, "doc-1", "Dr. Andrés Gómez")
	store.failAllocCreate = true
	uc := newAllocationUseCase(store)

	_, err := uc.Admit(context.Background(), occupancy.AdmitInput{
		BedID:             "bed-1",
		PatientName:       "Juan Pérez",
		AttendingDoctorID: "doc-1",
		Actor:             testActor,
	})

	require.ErrorIs(t, err, errAllocDown)
	assert.Equal(t, entity.BedAvailable, store.beds["bed-1"].Status)
	assert.Empty(t, store.allocations)
}

func TestDischarge_LiberaLaCama(t *testing.T) {
	store := newMemStore()
	seedBed(store, "bed-1", "A-101")
	seedDoctor(store, "doc-1", "Dr. Andrés Gómez")
	uc := newAllocationUseCase(store)
	ctx := context.Background()

	a, err := uc.Admit(ctx, occupancy.AdmitInput{
		BedID:             "bed-1",
		PatientName:       "Juan Pérez",
		AttendingDoctorID: "doc-1",
		Actor:             testActor,
	})
	require.NoError(t, err)
	require.Equal(t, entity.BedOccupied, store.beds["bed-1"].Status)

	discharged, err := uc.Discharge(ctx, a.ID, "Alta médica sin complicaciones", nil)
	require.NoError(t, err)
	assert.False(t, discharged.IsActive)
	require.NotNil(t, discharged.ActualDischargeDate)
	assert.Equal(t, "Alta médica sin complicaciones", discharged.DischargeNotes)
	assert.Equal(t, entity.BedAvailable, store.beds["bed-1"].Status, "sin asignación activa la cama vuelve a available")
}

func TestDischarge_YaDadaDeAlta(t *testing.T) {
	store := newMemStore()
	seedBed(store, "bed-1", "A-101")
	seedDoctor(store, "doc-1", "Dr. Andrés Gómez")
	uc := newAllocationUseCase(store)
	ctx := context.Background()

	a, err := uc.Admit(ctx, occupancy.AdmitInput{
		BedID:             "bed-1",
		PatientName:       "Juan Pérez",
		AttendingDoctorID: "doc-1",
		Actor:             testActor,
	})
	require.NoError(t, err)

	_, err = uc.Discharge(ctx, a.ID, "", nil)
	require.NoError(t, err)

	_, err = uc.Discharge(ctx, a.ID, "", nil)
	assert.ErrorIs(t, err, domain.ErrAlreadyDischarged)
}

func TestDischarge_Inexistente(t *testing.T) {
	store := newMemStore()
	uc := newAllocationUseCase(store)

	_, err := uc.Discharge(context.Background(), "alloc-ghost", "", nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReactivate_RetomaLaAsignacion(t *testing.T) {
	store := newMemStore()
	seedBed(store, "bed-1", "A-101")
	seedDoctor(store, "doc-1", "Dr. Andrés Gómez")
	uc := newAllocationUseCase(store)
	ctx := context.Background()

	a, err := uc.Admit(ctx, occupancy.AdmitInput{
		BedID:             "bed-1",
		PatientName:       "Juan Pérez",
		AttendingDoctorID: "doc-1",
		Actor:             testActor,
	})
	require.NoError(t, err)
	_, err = uc.Discharge(ctx, a.ID, "", nil)
	require.NoError(t, err)

	reactivated, err := uc.Reactivate(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, reactivated.IsActive)
	assert.Nil(t, reactivated.ActualDischargeDate)
	assert.Equal(t, entity.BedOccupied, store.beds["bed-1"].Status)
}

func TestReactivate_CamaTomadaPorOtro(t *testing.T) {
	store := newMemStore()
	seedBed(store, "bed-1", "A-101")
	seedDoctor(store, "doc-1", "Dr. Andrés Gómez")
	uc := newAllocationUseCase(store)
	ctx := context.Background()

	first, err := uc.Admit(ctx, occupancy.AdmitInput{
		BedID:             "bed-1",
		PatientName:       "Juan Pérez",
		AttendingDoctorID: "doc-1",
		Actor:             testActor,
	})
	require.NoError(t, err)
	_, err = uc.Discharge(ctx, first.ID, "", nil)
	require.NoError(t, err)

	// Otro paciente tomó la cama mientras tanto.
	_, err = uc.Admit(ctx, occupancy.AdmitInput{
		BedID:             "bed-1",
		PatientName:       "María López",
		AttendingDoctorID: "doc-1",
		Actor:             testActor,
	})
	require.NoError(t, err)

	_, err = uc.Reactivate(ctx, first.ID)
	require.ErrorIs(t, err, domain.ErrBedOccupied)
	var occupied *domain.BedOccupiedError
	require.ErrorAs(t, err, &occupied)
	assert.Equal(t, "María López", occupied.PatientName)
	assert.False(t, store.allocations[first.ID].IsActive, "la asignación original sigue inactiva")
}

func TestReactivate_ActivaEsConflicto(t *testing.T) {
	store := newMemStore()
	seedBed(store, "bed-1", "A-101")
	seedDoctor(store, "doc-1", "Dr. Andrés Gómez")
	uc := newAllocationUseCase(store)
	ctx := context.Background()

	a, err := uc.Admit(ctx, occupancy.AdmitInput{
		BedID:             "bed-1",
		PatientName:       "Juan Pérez",
		AttendingDoctorID: "doc-1",
		Actor:             testActor,
	})
	require.NoError(t, err)

	_, err = uc.Reactivate(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrConflict)
}
