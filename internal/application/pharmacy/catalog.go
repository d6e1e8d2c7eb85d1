package pharmacy

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/medroom-api/internal/domain"
	"github.com/jhoicas/medroom-api/internal/domain/entity"
	"github.com/jhoicas/medroom-api/internal/domain/repository"
)

// CatalogUseCase mantenimiento del catálogo de medicamentos: alta, edición de
// campos descriptivos y baja lógica. El contador de stock queda fuera: un
// medicamento nuevo nace con stock 0 y solo lo mueve el libro mayor.
type CatalogUseCase struct {
	medicineRepo repository.MedicineRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(medicineRepo repository.MedicineRepository) *CatalogUseCase {
	return &CatalogUseCase{medicineRepo: medicineRepo}
}

// CatalogInput campos descriptivos de un medicamento.
type CatalogInput struct {
	Name              string
	GenericName       string
	Category          string
	Manufacturer      string
	Description       string
	MinimumStockLevel int
	Unit              string
	UnitPrice         decimal.Decimal
}

func validCategory(category string) bool {
	switch category {
	case entity.CategoryTablet, entity.CategoryCapsule, entity.CategorySyrup,
		entity.CategoryInjection, entity.CategoryOintment, entity.CategoryDrops,
		entity.CategoryOther:
		return true
	}
	return false
}

// Create da de alta un medicamento con stock 0.
func (uc *CatalogUseCase) Create(input CatalogInput) (*entity.Medicine, error) {
	if input.Name == "" || !validCategory(input.Category) {
		return nil, domain.ErrInvalidInput
	}
	if input.MinimumStockLevel < 1 {
		return nil, domain.ErrInvalidInput
	}
	if input.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	unit := input.Unit
	if unit == "" {
		unit = "pieces"
	}
	now := time.Now()
	m := &entity.Medicine{
		Name:              input.Name,
		GenericName:       input.GenericName,
		Category:          input.Category,
		Manufacturer:      input.Manufacturer,
		Description:       input.Description,
		CurrentStock:      0,
		MinimumStockLevel: input.MinimumStockLevel,
		Unit:              unit,
		UnitPrice:         input.UnitPrice,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.medicineRepo.Create(m); err != nil {
		return nil, err
	}
	return m, nil
}

// UpdateDetails edita los campos descriptivos de un medicamento existente.
func (uc *CatalogUseCase) UpdateDetails(id string, input CatalogInput) (*entity.Medicine, error) {
	if input.Name == "" || !validCategory(input.Category) {
		return nil, domain.ErrInvalidInput
	}
	if input.MinimumStockLevel < 1 {
		return nil, domain.ErrInvalidInput
	}
	if input.UnitPrice.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	m, err := uc.medicineRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	m.Name = input.Name
	m.GenericName = input.GenericName
	m.Category = input.Category
	m.Manufacturer = input.Manufacturer
	m.Description = input.Description
	m.MinimumStockLevel = input.MinimumStockLevel
	if input.Unit != "" {
		m.Unit = input.Unit
	}
	m.UnitPrice = input.UnitPrice
	if err := uc.medicineRepo.UpdateDetails(m); err != nil {
		return nil, err
	}
	return m, nil
}

// Deactivate baja lógica del medicamento; el historial se conserva.
func (uc *CatalogUseCase) Deactivate(id string) error {
	return uc.medicineRepo.Deactivate(id)
}
