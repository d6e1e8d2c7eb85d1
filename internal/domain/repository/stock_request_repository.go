package repository

import "github.com/jhoicas/medroom-api/internal/domain/entity"

// StockRequestRepository define el puerto de persistencia de solicitudes de
// reposición. No hay Delete: las solicitudes nunca se borran.
type StockRequestRepository interface {
	Create(req *entity.StockRequest) error
	GetByID(id string) (*entity.StockRequest, error)
	// GetForUpdate bloquea la fila de la solicitud para la secuencia
	// validar-transicionar dentro de una transacción.
	GetForUpdate(id string) (*entity.StockRequest, error)
	Update(req *entity.StockRequest) error
	ListByStatus(status entity.RequestStatus, limit, offset int) ([]*entity.StockRequest, error)
	ListByMedicine(medicineID string, limit, offset int) ([]*entity.StockRequest, error)
}
