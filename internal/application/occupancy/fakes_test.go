package occupancy_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/medroom-api/internal/application/occupancy"
	"github.com/jhoicas/medroom-api/internal/domain/entity"
	"github.com/jhoicas/medroom-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Dobles de prueba en memoria para el motor de ocupación. Mismo patrón que
// los del paquete pharmacy: repos fake sobre un store compartido y un
// TxRunner con snapshot/rollback.
// ──────────────────────────────────────────────────────────────────────────────

var errAllocDown = errors.New("allocation insert failed")

type memStore struct {
	beds        map[string]*entity.Bed
	allocations map[string]*entity.BedAllocation
	users       map[string]*entity.User
	patients    map[string]*entity.Patient
	seq         int

	failAllocCreate bool
}

func newMemStore() *memStore {
	return &memStore{
		beds:        make(map[string]*entity.Bed),
		allocations: make(map[string]*entity.BedAllocation),
		users:       make(map[string]*entity.User),
		patients:    make(map[string]*entity.Patient),
	}
}

func (s *memStore) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

func cloneBed(b *entity.Bed) *entity.Bed {
	c := *b
	return &c
}

func cloneAllocation(a *entity.BedAllocation) *entity.BedAllocation {
	c := *a
	return &c
}

type storeSnapshot struct {
	beds        map[string]*entity.Bed
	allocations map[string]*entity.BedAllocation
	seq         int
}

func (s *memStore) snapshot() storeSnapshot {
	snap := storeSnapshot{
		beds:        make(map[string]*entity.Bed, len(s.beds)),
		allocations: make(map[string]*entity.BedAllocation, len(s.allocations)),
		seq:         s.seq,
	}
	for id, b := range s.beds {
		snap.beds[id] = cloneBed(b)
	}
	for id, a := range s.allocations {
		snap.allocations[id] = cloneAllocation(a)
	}
	return snap
}

func (s *memStore) restore(snap storeSnapshot) {
	s.beds = snap.beds
	s.allocations = snap.allocations
	s.seq = snap.seq
}

// ─── Repositorios fake ────────────────────────────────────────────────────────

type fakeBedRepo struct{ store *memStore }

func (r *fakeBedRepo) GetByID(id string) (*entity.Bed, error) {
	b, ok := r.store.beds[id]
	if !ok {
		return nil, nil
	}
	return cloneBed(b), nil
}

func (r *fakeBedRepo) GetForUpdate(id string) (*entity.Bed, error) {
	return r.GetByID(id)
}

func (r *fakeBedRepo) Create(bed *entity.Bed) error {
	if bed.ID == "" {
		bed.ID = r.store.nextID("bed")
	}
	r.store.beds[bed.ID] = cloneBed(bed)
	return nil
}

func (r *fakeBedRepo) UpdateStatus(id, status string) error {
	b, ok := r.store.beds[id]
	if !ok {
		return errors.New("bed not found")
	}
	b.Status = status
	return nil
}

func (r *fakeBedRepo) List(filter repository.BedFilter) ([]*entity.Bed, error) {
	var out []*entity.Bed
	for _, b := range r.store.beds {
		if !b.IsActive {
			continue
		}
		if filter.Status != "" && b.Status != filter.Status {
			continue
		}
		if filter.NeedsOxygen && !b.HasOxygen {
			continue
		}
		if filter.NeedsMonitor && !b.HasMonitor {
			continue
		}
		if filter.NeedsVentilator && !b.HasVentilator {
			continue
		}
		out = append(out, cloneBed(b))
	}
	return out, nil
}

func (r *fakeBedRepo) CountByStatus() (available, occupied int, err error) {
	for _, b := range r.store.beds {
		if !b.IsActive {
			continue
		}
		switch b.Status {
		case entity.BedAvailable:
			available++
		case entity.BedOccupied:
			occupied++
		}
	}
	return available, occupied, nil
}

type fakeAllocationRepo struct{ store *memStore }

func (r *fakeAllocationRepo) Create(a *entity.BedAllocation) error {
	if r.store.failAllocCreate {
		return errAllocDown
	}
	if a.ID == "" {
		a.ID = r.store.nextID("alloc")
	}
	r.store.allocations[a.ID] = cloneAllocation(a)
	return nil
}

func (r *fakeAllocationRepo) GetByID(id string) (*entity.BedAllocation, error) {
	a, ok := r.store.allocations[id]
	if !ok {
		return nil, nil
	}
	return cloneAllocation(a), nil
}

func (r *fakeAllocationRepo) GetForUpdate(id string) (*entity.BedAllocation, error) {
	return r.GetByID(id)
}

func (r *fakeAllocationRepo) Update(a *entity.BedAllocation) error {
	r.store.allocations[a.ID] = cloneAllocation(a)
	return nil
}

func (r *fakeAllocationRepo) GetActiveByBed(bedID string) (*entity.BedAllocation, error) {
	for _, a := range r.store.allocations {
		if a.BedID == bedID && a.IsActive {
			return cloneAllocation(a), nil
		}
	}
	return nil, nil
}

func (r *fakeAllocationRepo) CountActiveByBed(bedID, excludeID string) (int, error) {
	count := 0
	for _, a := range r.store.allocations {
		if a.BedID == bedID && a.IsActive && a.ID != excludeID {
			count++
		}
	}
	return count, nil
}

func (r *fakeAllocationRepo) ListActive() ([]*entity.BedAllocation, error) {
	var out []*entity.BedAllocation
	for _, a := range r.store.allocations {
		if a.IsActive {
			out = append(out, cloneAllocation(a))
		}
	}
	return out, nil
}

func (r *fakeAllocationRepo) ListOverdue(today time.Time) ([]*entity.BedAllocation, error) {
	var out []*entity.BedAllocation
	for _, a := range r.store.allocations {
		if a.IsOverdue(today) {
			out = append(out, cloneAllocation(a))
		}
	}
	return out, nil
}

func (r *fakeAllocationRepo) ListAdmittedOn(day time.Time) ([]*entity.BedAllocation, error) {
	var out []*entity.BedAllocation
	y, m, d := day.Date()
	for _, a := range r.store.allocations {
		ay, am, ad := a.AdmissionDate.Date()
		if ay == y && am == m && ad == d {
			out = append(out, cloneAllocation(a))
		}
	}
	return out, nil
}

func (r *fakeAllocationRepo) ListExpectedDischargesOn(day time.Time) ([]*entity.BedAllocation, error) {
	var out []*entity.BedAllocation
	y, m, d := day.Date()
	for _, a := range r.store.allocations {
		if !a.IsActive || a.ExpectedDischargeDate == nil {
			continue
		}
		ey, em, ed := a.ExpectedDischargeDate.Date()
		if ey == y && em == m && ed == d {
			out = append(out, cloneAllocation(a))
		}
	}
	return out, nil
}

func (r *fakeAllocationRepo) ListDischarged() ([]*entity.BedAllocation, error) {
	var out []*entity.BedAllocation
	for _, a := range r.store.allocations {
		if !a.IsActive && a.ActualDischargeDate != nil {
			out = append(out, cloneAllocation(a))
		}
	}
	return out, nil
}

type fakeUserRepo struct{ store *memStore }

func (r *fakeUserRepo) Create(u *entity.User) error {
	r.store.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.store.users[id]
	if !ok {
		return nil, nil
	}
	c := *u
	return &c, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*entity.User, error) {
	for _, u := range r.store.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, nil
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

// ─── TxRunner fake ────────────────────────────────────────────────────────────

type fakeTxRunner struct{ store *memStore }

func (r *fakeTxRunner) Run(_ context.Context, fn func(
	bedRepo repository.BedRepository,
	allocRepo repository.BedAllocationRepository,
) error) error {
	snap := r.store.snapshot()
	if err := fn(&fakeBedRepo{r.store}, &fakeAllocationRepo{r.store}); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

var _ occupancy.TxRunner = (*fakeTxRunner)(nil)

// ─── Helpers de seed ──────────────────────────────────────────────────────────

func seedBed(store *memStore, id, number string) *entity.Bed {
	now := time.Now()
	b := &entity.Bed{
		ID:        id,
		BedNumber: number,
		Status:    entity.BedAvailable,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	store.beds[id] = b
	return b
}

func seedDoctor(store *memStore, id, name string) *entity.User {
	u := &entity.User{ID: id, Name: name, Role: entity.RoleDoctor, Status: "active"}
	store.users[id] = u
	return u
}

func seedPatient(store *memStore, id, name string) *entity.Patient {
	p := &entity.Patient{ID: id, Name: name, EmployeeStudentID: "EMP-" + id, IsActive: true}
	store.patients[id] = p
	return p
}

var testActor = occupancy.Actor{ID: "user-1", Name: "Enf. Carolina Restrepo"}
