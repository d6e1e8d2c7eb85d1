package pharmacy_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/medroom-api/internal/application/pharmacy"
	"github.com/jhoicas/medroom-api/internal/domain/entity"
	"github.com/jhoicas/medroom-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba en memoria para el motor de farmacia.
//
// memStore simula la base de datos: los repos fake leen y escriben clones
// (como haría una fila de Postgres) y el fakeTxRunner toma un snapshot antes
// de cada callback y lo restaura si el callback falla, reproduciendo el
// Commit/Rollback real. Eso permite verificar atomicidad sin levantar una BD.
// ──────────────────────────────────────────────────────────────────────────────

var errLedgerDown = errors.New("ledger insert failed")

type memStore struct {
	medicines     map[string]*entity.Medicine
	ledger        []*entity.MedicineTransaction
	requests      map[string]*entity.StockRequest
	prescriptions map[string]*entity.Prescription
	patients      map[string]*entity.Patient
	seq           int

	failLedgerCreate bool // fuerza error en el insert del libro mayor
}

func newMemStore() *memStore {
	return &memStore{
		medicines:     make(map[string]*entity.Medicine),
		requests:      make(map[string]*entity.StockRequest),
		prescriptions: make(map[string]*entity.Prescription),
		patients:      make(map[string]*entity.Patient),
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func cloneMedicine(m *entity.Medicine) *entity.Medicine {
	c := *m
	return &c
}

func cloneRequest(r *entity.StockRequest) *entity.StockRequest {
	c := *r
	return &c
}

func clonePrescription(p *entity.Prescription) *entity.Prescription {
	c := *p
	return &c
}

func cloneEntry(t *entity.MedicineTransaction) *entity.MedicineTransaction {
	c := *t
	return &c
}

type storeSnapshot struct {
	medicines     map[string]*entity.Medicine
	ledger        []*entity.MedicineTransaction
	requests      map[string]*entity.StockRequest
	prescriptions map[string]*entity.Prescription
	seq           int
}

func (s *memStore) snapshot() storeSnapshot {
	snap := storeSnapshot{
		medicines:     make(map[string]*entity.Medicine, len(s.medicines)),
		ledger:        make([]*entity.MedicineTransaction, len(s.ledger)),
		requests:      make(map[string]*entity.StockRequest, len(s.requests)),
		prescriptions: make(map[string]*entity.Prescription, len(s.prescriptions)),
		seq:           s.seq,
	}
	for id, m := range s.medicines {
		snap.medicines[id] = cloneMedicine(m)
	}
	copy(snap.ledger, s.ledger)
	for id, r := range s.requests {
		snap.requests[id] = cloneRequest(r)
	}
	for id, p := range s.prescriptions {
		snap.prescriptions[id] = clonePrescription(p)
	}
	return snap
}

func (s *memStore) restore(snap storeSnapshot) {
	s.medicines = snap.medicines
	s.ledger = snap.ledger
	s.requests = snap.requests
	s.prescriptions = snap.prescriptions
	s.seq = snap.seq
}

// ─── Repositorios fake ────────────────────────────────────────────────────────

type fakeMedicineRepo struct{ store *memStore }

func (r *fakeMedicineRepo) GetByID(id string) (*entity.Medicine, error) {
	m, ok := r.store.medicines[id]
	if !ok {
		return nil, nil
	}
	return cloneMedicine(m), nil
}

func (r *fakeMedicineRepo) List(category string, activeOnly bool, limit, offset int) ([]*entity.Medicine, error) {
	var out []*entity.Medicine
	for _, m := range r.store.medicines {
		if category != "" && m.Category != category {
			continue
		}
		if activeOnly && !m.IsActive {
			continue
		}
		out = append(out, cloneMedicine(m))
	}
	return out, nil
}

func (r *fakeMedicineRepo) Create(m *entity.Medicine) error {
	if m.ID == "" {
		m.ID = r.store.nextID("med")
	}
	r.store.medicines[m.ID] = cloneMedicine(m)
	return nil
}

func (r *fakeMedicineRepo) UpdateDetails(m *entity.Medicine) error {
	cur, ok := r.store.medicines[m.ID]
	if !ok {
		return nil
	}
	c := cloneMedicine(m)
	c.CurrentStock = cur.CurrentStock // los detalles nunca tocan el contador
	r.store.medicines[m.ID] = c
	return nil
}

func (r *fakeMedicineRepo) Deactivate(id string) error {
	if m, ok := r.store.medicines[id]; ok {
		m.IsActive = false
	}
	return nil
}

func (r *fakeMedicineRepo) ListLowStock() ([]*entity.Medicine, error) {
	var out []*entity.Medicine
	for _, m := range r.store.medicines {
		if m.IsActive && m.IsLowStock() {
			out = append(out, cloneMedicine(m))
		}
	}
	return out, nil
}

func (r *fakeMedicineRepo) ListOutOfStock() ([]*entity.Medicine, error) {
	var out []*entity.Medicine
	for _, m := range r.store.medicines {
		if m.IsActive && m.CurrentStock == 0 {
			out = append(out, cloneMedicine(m))
		}
	}
	return out, nil
}

func (r *fakeMedicineRepo) ListExpiringBefore(date time.Time) ([]*entity.Medicine, error) {
	var out []*entity.Medicine
	for _, m := range r.store.medicines {
		if m.IsActive && m.ExpiryDate != nil && m.ExpiryDate.Before(date) {
			out = append(out, cloneMedicine(m))
		}
	}
	return out, nil
}

type fakeStockRepo struct{ store *memStore }

func (r *fakeStockRepo) GetForUpdate(medicineID string) (*entity.Medicine, error) {
	m, ok := r.store.medicines[medicineID]
	if !ok {
		return nil, nil
	}
	return cloneMedicine(m), nil
}

func (r *fakeStockRepo) UpdateStock(medicineID string, newStock int) error {
	m, ok := r.store.medicines[medicineID]
	if !ok {
		return errors.New("medicine not found")
	}
	m.CurrentStock = newStock
	return nil
}

func (r *fakeStockRepo) UpdateExpiryBatch(medicineID string, expiry time.Time, batchNumber string) error {
	m, ok := r.store.medicines[medicineID]
	if !ok {
		return errors.New("medicine not found")
	}
	e := expiry
	m.ExpiryDate = &e
	if batchNumber != "" {
		m.BatchNumber = batchNumber
	}
	return nil
}

type fakeLedgerRepo struct{ store *memStore }

func (r *fakeLedgerRepo) Create(tx *entity.MedicineTransaction) error {
	if r.store.failLedgerCreate {
		return errLedgerDown
	}
	if tx.ID == "" {
		tx.ID = r.store.nextID("txn")
	}
	r.store.ledger = append(r.store.ledger, cloneEntry(tx))
	return nil
}

func (r *fakeLedgerRepo) GetByID(id string) (*entity.MedicineTransaction, error) {
	for _, t := range r.store.ledger {
		if t.ID == id {
			return cloneEntry(t), nil
		}
	}
	return nil, nil
}

func (r *fakeLedgerRepo) ListByMedicine(medicineID string, from, to *time.Time, limit, offset int) ([]*entity.MedicineTransaction, error) {
	var out []*entity.MedicineTransaction
	for _, t := range r.store.ledger {
		if t.MedicineID != medicineID {
			continue
		}
		if from != nil && t.Date.Before(*from) {
			continue
		}
		if to != nil && t.Date.After(*to) {
			continue
		}
		out = append(out, cloneEntry(t))
	}
	return out, nil
}

func (r *fakeLedgerRepo) ListByDate(day time.Time) ([]*entity.MedicineTransaction, error) {
	var out []*entity.MedicineTransaction
	y, m, d := day.Date()
	for _, t := range r.store.ledger {
		ty, tm, td := t.Date.Date()
		if ty == y && tm == m && td == d {
			out = append(out, cloneEntry(t))
		}
	}
	return out, nil
}

type fakeRequestRepo struct{ store *memStore }

func (r *fakeRequestRepo) Create(req *entity.StockRequest) error {
	if req.ID == "" {
		req.ID = r.store.nextID("req")
	}
	r.store.requests[req.ID] = cloneRequest(req)
	return nil
}

func (r *fakeRequestRepo) GetByID(id string) (*entity.StockRequest, error) {
	req, ok := r.store.requests[id]
	if !ok {
		return nil, nil
	}
	return cloneRequest(req), nil
}

func (r *fakeRequestRepo) GetForUpdate(id string) (*entity.StockRequest, error) {
	return r.GetByID(id)
}

func (r *fakeRequestRepo) Update(req *entity.StockRequest) error {
	r.store.requests[req.ID] = cloneRequest(req)
	return nil
}

func (r *fakeRequestRepo) ListByStatus(status entity.RequestStatus, limit, offset int) ([]*entity.StockRequest, error) {
	var out []*entity.StockRequest
	for _, req := range r.store.requests {
		if req.Status == status {
			out = append(out, cloneRequest(req))
		}
	}
	return out, nil
}

func (r *fakeRequestRepo) ListByMedicine(medicineID string, limit, offset int) ([]*entity.StockRequest, error) {
	var out []*entity.StockRequest
	for _, req := range r.store.requests {
		if req.MedicineID == medicineID {
			out = append(out, cloneRequest(req))
		}
	}
	return out, nil
}

type fakePrescriptionRepo struct{ store *memStore }

func (r *fakePrescriptionRepo) Create(p *entity.Prescription) error {
	if p.ID == "" {
		p.ID = r.store.nextID("rx")
	}
	r.store.prescriptions[p.ID] = clonePrescription(p)
	return nil
}

func (r *fakePrescriptionRepo) GetByID(id string) (*entity.Prescription, error) {
	p, ok := r.store.prescriptions[id]
	if !ok {
		return nil, nil
	}
	return clonePrescription(p), nil
}

func (r *fakePrescriptionRepo) GetForUpdate(id string) (*entity.Prescription, error) {
	return r.GetByID(id)
}

func (r *fakePrescriptionRepo) MarkRemoved(p *entity.Prescription) error {
	r.store.prescriptions[p.ID] = clonePrescription(p)
	return nil
}

func (r *fakePrescriptionRepo) ListByPatient(patientRecordID string) ([]*entity.Prescription, error) {
	var out []*entity.Prescription
	for _, p := range r.store.prescriptions {
		if p.PatientRecordID != nil && *p.PatientRecordID == patientRecordID {
			out = append(out, clonePrescription(p))
		}
	}
	return out, nil
}

type fakePatientRepo struct{ store *memStore }

func (r *fakePatientRepo) GetByID(id string) (*entity.Patient, error) {
	p, ok := r.store.patients[id]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

// ─── TxRunner fake con snapshot/rollback ──────────────────────────────────────

type fakeTxRunner struct{ store *memStore }

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	ledgerRepo repository.MedicineTransactionRepository,
	stockRepo repository.MedicineStockRepository,
) error) error {
	snap := r.store.snapshot()
	if err := fn(&fakeLedgerRepo{r.store}, &fakeStockRepo{r.store}); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

func (r *fakeTxRunner) RunReplenishment(_ context.Context, fn func(
	ledgerRepo repository.MedicineTransactionRepository,
	stockRepo repository.MedicineStockRepository,
	requestRepo repository.StockRequestRepository,
) error) error {
	snap := r.store.snapshot()
	if err := fn(&fakeLedgerRepo{r.store}, &fakeStockRepo{r.store}, &fakeRequestRepo{r.store}); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

func (r *fakeTxRunner) RunPrescription(_ context.Context, fn func(
	ledgerRepo repository.MedicineTransactionRepository,
	stockRepo repository.MedicineStockRepository,
	prescriptionRepo repository.PrescriptionRepository,
) error) error {
	snap := r.store.snapshot()
	if err := fn(&fakeLedgerRepo{r.store}, &fakeStockRepo{r.store}, &fakePrescriptionRepo{r.store}); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

var _ pharmacy.TxRunner = (*fakeTxRunner)(nil)

// ─── Helpers de seed ──────────────────────────────────────────────────────────

func seedMedicine(store *memStore, id string, stock, minimum int) *entity.Medicine {
	now := time.Now()
	m := &entity.Medicine{
		ID:                id,
		Name:              "Paracetamol 500mg",
		GenericName:       "Acetaminofén",
		Category:          entity.CategoryTablet,
		CurrentStock:      stock,
		MinimumStockLevel: minimum,
		Unit:              "pieces",
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	store.medicines[id] = m
	return m
}

func seedPatient(store *memStore, id, name string) *entity.Patient {
	p := &entity.Patient{ID: id, Name: name, EmployeeStudentID: strings.ToUpper(id), IsActive: true}
	store.patients[id] = p
	return p
}

var testActor = pharmacy.Actor{ID: "user-1", Name: "Enf. Carolina Restrepo"}
