package occupancy

import (
	"context"
	"math"
	"time"

	"github.com/jhoicas/medroom-api/internal/application/dto"
	"github.com/jhoicas/medroom-api/internal/domain/entity"
	"github.com/jhoicas/medroom-api/internal/domain/repository"
)

// QueryUseCase lecturas de camas, asignaciones y analítica de ocupación.
// No abre transacciones: opera sobre los repositorios del pool.
type QueryUseCase struct {
	bedRepo   repository.BedRepository
	allocRepo repository.BedAllocationRepository
}

// NewQueryUseCase construye el caso de uso de consulta.
func NewQueryUseCase(bedRepo repository.BedRepository, allocRepo repository.BedAllocationRepository) *QueryUseCase {
	return &QueryUseCase{bedRepo: bedRepo, allocRepo: allocRepo}
}

// GetBed recupera una cama por ID.
func (uc *QueryUseCase) GetBed(ctx context.Context, id string) (*entity.Bed, error) {
	return uc.bedRepo.GetByID(id)
}

// ListBeds devuelve las camas que cumplen el filtro (status y equipamiento).
func (uc *QueryUseCase) ListBeds(ctx context.Context, filter repository.BedFilter) ([]*entity.Bed, error) {
	return uc.bedRepo.List(filter)
}

// ListAvailableBeds devuelve las camas libres, opcionalmente filtradas por
// equipamiento requerido.
func (uc *QueryUseCase) ListAvailableBeds(ctx context.Context, needsOxygen, needsMonitor, needsVentilator bool) ([]*entity.Bed, error) {
	return uc.bedRepo.List(repository.BedFilter{
		Status:          entity.BedAvailable,
		NeedsOxygen:     needsOxygen,
		NeedsMonitor:    needsMonitor,
		NeedsVentilator: needsVentilator,
	})
}

// GetAllocation recupera una asignación por ID.
func (uc *QueryUseCase) GetAllocation(ctx context.Context, id string) (*entity.BedAllocation, error) {
	return uc.allocRepo.GetByID(id)
}

// ListActiveAllocations devuelve las asignaciones activas.
func (uc *QueryUseCase) ListActiveAllocations(ctx context.Context) ([]*entity.BedAllocation, error) {
	return uc.allocRepo.ListActive()
}

// ListOverdue devuelve las asignaciones activas cuya fecha esperada de alta ya
// pasó.
func (uc *QueryUseCase) ListOverdue(ctx context.Context) ([]*entity.BedAllocation, error) {
	return uc.allocRepo.ListOverdue(today())
}

// ListAdmissionsOn devuelve los ingresos registrados en el día dado.
func (uc *QueryUseCase) ListAdmissionsOn(ctx context.Context, day time.Time) ([]*entity.BedAllocation, error) {
	return uc.allocRepo.ListAdmittedOn(day)
}

// ListExpectedDischargesOn devuelve las asignaciones activas con alta esperada
// en el día dado.
func (uc *QueryUseCase) ListExpectedDischargesOn(ctx context.Context, day time.Time) ([]*entity.BedAllocation, error) {
	return uc.allocRepo.ListExpectedDischargesOn(day)
}

// Analytics calcula las métricas de ocupación del momento: tasa de ocupación
// sobre camas activas, estadía promedio de las altas y los conteos del día.
func (uc *QueryUseCase) Analytics(ctx context.Context) (*dto.OccupancyAnalyticsResponse, error) {
	available, occupied, err := uc.bedRepo.CountByStatus()
	if err != nil {
		return nil, err
	}
	total := available + occupied

	active, err := uc.allocRepo.ListActive()
	if err != nil {
		return nil, err
	}

	day := today()
	overdue, err := uc.allocRepo.ListOverdue(day)
	if err != nil {
		return nil, err
	}
	admitted, err := uc.allocRepo.ListAdmittedOn(day)
	if err != nil {
		return nil, err
	}
	expected, err := uc.allocRepo.ListExpectedDischargesOn(day)
	if err != nil {
		return nil, err
	}

	discharged, err := uc.allocRepo.ListDischarged()
	if err != nil {
		return nil, err
	}

	rate := 0.0
	if total > 0 {
		rate = round(float64(occupied)/float64(total)*100, 2)
	}

	avgStay := 0.0
	if len(discharged) > 0 {
		now := time.Now()
		sum := 0
		for _, a := range discharged {
			sum += a.DurationDays(now)
		}
		avgStay = round(float64(sum)/float64(len(discharged)), 1)
	}

	return &dto.OccupancyAnalyticsResponse{
		TotalBeds:          total,
		AvailableBeds:      available,
		OccupiedBeds:       occupied,
		OccupancyRate:      rate,
		ActiveAllocations:  len(active),
		AverageStayDays:    avgStay,
		OverduePatients:    len(overdue),
		AdmissionsToday:    len(admitted),
		ExpectedDischarges: len(expected),
	}, nil
}

func today() time.Time {
	return truncateDay(time.Now())
}

func round(v float64, places int) float64 {
	shift := math.Pow(10, float64(places))
	return math.Round(v*shift) / shift
}
