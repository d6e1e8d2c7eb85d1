package pharmacy_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/medroom-api/internal/application/pharmacy"
	"github.com/jhoicas/medroom-api/internal/domain"
	"github.com/jhoicas/medroom-api/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests del registrador transaccional del libro mayor: el contador del
// medicamento solo debe cambiar junto con una entrada nueva, las salidas que
// exceden el stock se rechazan antes de escribir y un fallo a mitad de camino
// no deja efecto parcial.
// ──────────────────────────────────────────────────────────────────────────────

func newRecordUseCase(store *memStore) *pharmacy.RecordTransactionUseCase {
	return pharmacy.NewRecordTransactionUseCase(
		&fakeTxRunner{store},
		&fakeMedicineRepo{store},
		&fakePatientRepo{store},
	)
}

func TestRecordTransaction_ReceivedSumaStock(t *testing.T) {
	store := newMemStore()
	seedMedicine(store, "med-1", 10, 5)
	uc := newRecordUseCase(store)

	entry, err := uc.RecordTransaction(context.Background(), pharmacy.TransactionInput{
		MedicineID:      "med-1",
		Type:            entity.TransactionReceived,
		Quantity:        40,
		ReferenceNumber: "FAC-001",
		Supplier:        "Droguería Central",
		Actor:           testActor,
	})

	require.NoError(t, err)
	assert.Equal(t, 50, store.medicines["med-1"].CurrentStock, "received debe sumar al contador")
	assert.Equal(t, testActor.Name, entry.PerformedByName, "la entrada lleva snapshot del actor")
	require.Len(t, store.ledger, 1)
	assert.Equal(t, 40, store.ledger[0].SignedDelta())
}

func TestRecordTransaction_IssuedRestaStock(t *testing.T) {
	store := newMemStore()
	seedMedicine(store, "med-1", 50, 5)
	seedPatient(store, "pat-1", "Juan Pérez")
	uc := newRecordUseCase(store)

	recordID := "pat-1"
	entry, err := uc.RecordTransaction(context.Background(), pharmacy.TransactionInput{
		MedicineID:      "med-1",
		Type:            entity.TransactionIssued,
		Quantity:        8,
		PatientRecordID: &recordID,
		Actor:           testActor,
	})

	require.NoError(t, err)
	assert.Equal(t, 42, store.medicines["med-1"].CurrentStock)
	assert.Equal(t, "Juan Pérez", entry.PatientName,
		"el nombre del paciente se auto-puebla desde el directorio")
}

func TestRecordTransaction_IssuedSinStockSuficiente(t *testing.T) {
	store := newMemStore()
	seedMedicine(store, "med-1", 5, 2)
	uc := newRecordUseCase(store)

	_, err := uc.RecordTransaction(context.Background(), pharmacy.TransactionInput{
		MedicineID:  "med-1",
		Type:        entity.TransactionIssued,
		Quantity:    8,
		PatientName: "Juan Pérez",
		Actor:       testActor,
	})

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 5, store.medicines["med-1"].CurrentStock, "el stock no debe cambiar")
	assert.Empty(t, store.ledger, "no debe quedar entrada en el libro mayor")
}

func TestRecordTransaction_Validaciones(t *testing.T) {
	store := newMemStore()
	seedMedicine(store, "med-1", 10, 2)
	uc := newRecordUseCase(store)
	ctx := context.Background()

	cases := []struct {
		name    string
		input   pharmacy.TransactionInput
		wantErr error
	}{
		{
			name:    "tipo desconocido",
			input:   pharmacy.TransactionInput{MedicineID: "med-1", Type: "donated", Quantity: 1, Actor: testActor},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name:    "cantidad cero",
			input:   pharmacy.TransactionInput{MedicineID: "med-1", Type: entity.TransactionReceived, Quantity: 0, Supplier: "X", Actor: testActor},
			wantErr: domain.ErrInvalidQuantity,
		},
		{
			name:    "cantidad negativa",
			input:   pharmacy.TransactionInput{MedicineID: "med-1", Type: entity.TransactionReceived, Quantity: -3, Supplier: "X", Actor: testActor},
			wantErr: domain.ErrInvalidQuantity,
		},
		{
			name:    "sin actor",
			input:   pharmacy.TransactionInput{MedicineID: "med-1", Type: entity.TransactionReceived, Quantity: 1, Supplier: "X"},
			wantErr: domain.ErrMissingActor,
		},
		{
			name:    "received sin proveedor",
			input:   pharmacy.TransactionInput{MedicineID: "med-1", Type: entity.TransactionReceived, Quantity: 1, Actor: testActor},
			wantErr: domain.ErrMissingRequiredReference,
		},
		{
			name:    "issued sin paciente",
			input:   pharmacy.TransactionInput{MedicineID: "med-1", Type: entity.TransactionIssued, Quantity: 1, Actor: testActor},
			wantErr: domain.ErrMissingRequiredReference,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := uc.RecordTransaction(ctx, tc.input)
			assert.ErrorIs(t, err, tc.wantErr)
			assert.Empty(t, store.ledger)
		})
	}
}

func TestRecordTransaction_MedicamentoInexistente(t *testing.T) {
	store := newMemStore()
	uc := newRecordUseCase(store)

	_, err := uc.RecordTransaction(context.Background(), pharmacy.TransactionInput{
		MedicineID: "med-ghost",
		Type:       entity.TransactionReceived,
		Quantity:   5,
		Supplier:   "Droguería Central",
		Actor:      testActor,
	})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// TestRecordTransaction_FalloNoDejaEfectoParcial simula un insert fallido del
// libro mayor: el rollback debe deshacer también la escritura del contador.
func TestRecordTransaction_FalloNoDejaEfectoParcial(t *testing.T) {
	store := newMemStore()
	seedMedicine(store, "med-1", 10, 2)
	store.failLedgerCreate = true
	uc := newRecordUseCase(store)

	_, err := uc.RecordTransaction(context.Background(), pharmacy.TransactionInput{
		MedicineID: "med-1",
		Type:       entity.TransactionReceived,
		Quantity:   40,
		Supplier:   "Droguería Central",
		Actor:      testActor,
	})

	require.ErrorIs(t, err, errLedgerDown)
	assert.Equal(t, 10, store.medicines["med-1"].CurrentStock,
		"el rollback debe restaurar el contador previo")
	assert.Empty(t, store.ledger)
}

// TestRecordTransaction_LibroMayorConsistente reproduce un día de movimientos
// y verifica que el contador final es igual al stock inicial más la suma de
// los deltas firmados del libro mayor.
func TestRecordTransaction_LibroMayorConsistente(t *testing.T) {
	store := newMemStore()
	seedMedicine(store, "med-1", 20, 5)
	uc := newRecordUseCase(store)
	ctx := context.Background()

	steps := []pharmacy.TransactionInput{
		{MedicineID: "med-1", Type: entity.TransactionReceived, Quantity: 100, Supplier: "Droguería Central", Actor: testActor},
		{MedicineID: "med-1", Type: entity.TransactionIssued, Quantity: 12, PatientName: "Juan Pérez", Actor: testActor},
		{MedicineID: "med-1", Type: entity.TransactionExpired, Quantity: 6, Actor: testActor},
		{MedicineID: "med-1", Type: entity.TransactionAdjustment, Quantity: 2, Remarks: "Conteo físico", Actor: testActor},
	}
	for _, in := range steps {
		_, err := uc.RecordTransaction(ctx, in)
		require.NoError(t, err)
	}

	sum := 0
	for _, e := range store.ledger {
		sum += e.SignedDelta()
	}
	assert.Equal(t, 20+sum, store.medicines["med-1"].CurrentStock,
		"stock = inicial + suma de deltas del libro mayor")
	assert.Equal(t, 100, store.medicines["med-1"].CurrentStock)
}
