package entity

import "time"

// Estados de una cama. status es un caché de "¿tiene asignación activa?":
// solo lo mutan las operaciones de asignación, nunca un caller directo.
const (
	BedAvailable = "available"
	BedOccupied  = "occupied"
)

// Bed representa una cama de la enfermería con su equipamiento.
type Bed struct {
	ID          string
	BedNumber   string // único; alfanumérico más guion/guion bajo
	Description string

	Status string

	HasOxygen     bool
	HasMonitor    bool
	HasVentilator bool

	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAvailable indica si la cama puede recibir un paciente.
func (b *Bed) IsAvailable() bool {
	return b.Status == BedAvailable && b.IsActive
}

// EquipmentList devuelve el equipamiento disponible de la cama.
func (b *Bed) EquipmentList() []string {
	var equipment []string
	if b.HasOxygen {
		equipment = append(equipment, "Oxygen")
	}
	if b.HasMonitor {
		equipment = append(equipment, "Monitor")
	}
	if b.HasVentilator {
		equipment = append(equipment, "Ventilator")
	}
	return equipment
}

// ValidBedNumber valida el formato del número de cama: no vacío y solo
// letras, números, guiones y guiones bajos.
func ValidBedNumber(number string) bool {
	if number == "" {
		return false
	}
	for _, r := range number {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
		default:
			return false
		}
	}
	return true
}
