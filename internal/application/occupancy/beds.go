package occupancy

import (
	"context"
	"time"

	"github.com/jhoicas/medroom-api/internal/domain"
	"github.com/jhoicas/medroom-api/internal/domain/entity"
	"github.com/jhoicas/medroom-api/internal/domain/repository"
)

// BedUseCase mantenimiento del inventario de camas.
type BedUseCase struct {
	bedRepo repository.BedRepository
}

// NewBedUseCase construye el caso de uso.
func NewBedUseCase(bedRepo repository.BedRepository) *BedUseCase {
	return &BedUseCase{bedRepo: bedRepo}
}

// BedInput campos para registrar una cama.
type BedInput struct {
	BedNumber     string
	Description   string
	HasOxygen     bool
	HasMonitor    bool
	HasVentilator bool
}

// Register da de alta una cama available. El número de cama debe ser
// alfanumérico (más guion y guion bajo) y único.
func (uc *BedUseCase) Register(ctx context.Context, input BedInput) (*entity.Bed, error) {
	if !entity.ValidBedNumber(input.BedNumber) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	b := &entity.Bed{
		BedNumber:     input.BedNumber,
		Description:   input.Description,
		Status:        entity.BedAvailable,
		HasOxygen:     input.HasOxygen,
		HasMonitor:    input.HasMonitor,
		HasVentilator: input.HasVentilator,
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.bedRepo.Create(b); err != nil {
		return nil, err
	}
	return b, nil
}
