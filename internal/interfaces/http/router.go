package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/medroom-api/internal/application/auth"
	"github.com/jhoicas/medroom-api/internal/application/occupancy"
	"github.com/jhoicas/medroom-api/internal/application/pharmacy"
	"github.com/jhoicas/medroom-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC          *auth.AuthUseCase
	CatalogUC       *pharmacy.CatalogUseCase
	MedicineQueries *pharmacy.MedicineQueryUseCase
	RecordUC        *pharmacy.RecordTransactionUseCase
	StockRequestUC  *pharmacy.StockRequestUseCase
	PrescriptionUC  *pharmacy.PrescriptionUseCase
	BedUC           *occupancy.BedUseCase
	AllocationUC    *occupancy.AllocationUseCase
	OccupancyQuery  *occupancy.QueryUseCase
	JWTSecret       string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	clinicalStaff := RequireRole(entity.RoleDoctor, entity.RoleNurse, entity.RolePharmacist, entity.RoleAdmin)
	pharmacyStaff := RequireRole(entity.RolePharmacist, entity.RoleAdmin)
	bedStaff := RequireRole(entity.RoleDoctor, entity.RoleNurse, entity.RoleAdmin)
	admins := RequireRole(entity.RoleAdmin)

	// Medicines (catálogo, alertas y libro mayor)
	medicines := protected.Group("/medicines")
	medicineHandler := NewMedicineHandler(deps.CatalogUC, deps.MedicineQueries, deps.RecordUC)
	medicines.Get("/", medicineHandler.List)
	medicines.Get("/low-stock", medicineHandler.ListLowStock)
	medicines.Get("/out-of-stock", medicineHandler.ListOutOfStock)
	medicines.Get("/expiring", medicineHandler.ListExpiringSoon)
	medicines.Get("/transactions/daily", medicineHandler.DailyLog)
	medicines.Get("/:id", medicineHandler.GetByID)
	medicines.Get("/:id/transactions", medicineHandler.ListTransactions)
	medicines.Post("/", pharmacyStaff, medicineHandler.Create)
	medicines.Put("/:id", pharmacyStaff, medicineHandler.Update)
	medicines.Delete("/:id", admins, medicineHandler.Deactivate)
	medicines.Post("/transactions", clinicalStaff, medicineHandler.RecordTransaction)

	// Stock requests (flujo de reposición)
	requests := protected.Group("/stock-requests")
	requestHandler := NewStockRequestHandler(deps.StockRequestUC)
	requests.Get("/pending", requestHandler.ListPending)
	requests.Get("/", requestHandler.ListByMedicine)
	requests.Post("/", clinicalStaff, requestHandler.Submit)
	requests.Post("/:id/approve", pharmacyStaff, requestHandler.Approve)
	requests.Post("/:id/reject", pharmacyStaff, requestHandler.Reject)
	requests.Post("/:id/advance", pharmacyStaff, requestHandler.Advance)

	// Prescriptions (dispensación con ventana de gracia)
	prescriptions := protected.Group("/prescriptions")
	prescriptionHandler := NewPrescriptionHandler(deps.PrescriptionUC)
	prescriptions.Get("/", prescriptionHandler.ListByPatient)
	prescriptions.Post("/", clinicalStaff, prescriptionHandler.Create)
	prescriptions.Delete("/:id", clinicalStaff, prescriptionHandler.Remove)

	// Beds y allocations (ocupación)
	allocationHandler := NewAllocationHandler(deps.BedUC, deps.AllocationUC, deps.OccupancyQuery)

	beds := protected.Group("/beds")
	beds.Get("/", allocationHandler.ListBeds)
	beds.Get("/:id", allocationHandler.GetBed)
	beds.Post("/", admins, allocationHandler.RegisterBed)

	allocations := protected.Group("/allocations")
	allocations.Get("/active", allocationHandler.ListActive)
	allocations.Get("/overdue", allocationHandler.ListOverdue)
	allocations.Get("/admissions", allocationHandler.ListAdmissions)
	allocations.Get("/expected-discharges", allocationHandler.ListExpectedDischarges)
	allocations.Get("/analytics", allocationHandler.Analytics)
	allocations.Get("/:id", allocationHandler.GetAllocation)
	allocations.Post("/", bedStaff, allocationHandler.Admit)
	allocations.Post("/:id/discharge", bedStaff, allocationHandler.Discharge)
	allocations.Post("/:id/reactivate", bedStaff, allocationHandler.Reactivate)
}
