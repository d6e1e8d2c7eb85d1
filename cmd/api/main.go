package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/medroom-api/internal/application/auth"
	"github.com/jhoicas/medroom-api/internal/application/occupancy"
	"github.com/jhoicas/medroom-api/internal/application/pharmacy"
	"github.com/jhoicas/medroom-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/medroom-api/internal/interfaces/http"
	"github.com/jhoicas/medroom-api/pkg/config"
	"github.com/jhoicas/medroom-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios atados al pool (lecturas y escrituras sin transacción).
	// Las escrituras de stock y ocupación corren dentro de los TxRunner.
	medicineRepo := postgres.NewMedicineRepository(pool)
	ledgerRepo := postgres.NewMedicineTransactionRepository(pool)
	requestRepo := postgres.NewStockRequestRepository(pool)
	prescriptionRepo := postgres.NewPrescriptionRepository(pool)
	bedRepo := postgres.NewBedRepository(pool)
	allocRepo := postgres.NewBedAllocationRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	patientRepo := postgres.NewPatientRepository(pool)

	pharmacyTx := postgres.NewPharmacyTxRunner(pool)
	occupancyTx := postgres.NewOccupancyTxRunner(pool)

	catalogUC := pharmacy.NewCatalogUseCase(medicineRepo)
	medicineQueries := pharmacy.NewMedicineQueryUseCase(medicineRepo, ledgerRepo)
	recordUC := pharmacy.NewRecordTransactionUseCase(pharmacyTx, medicineRepo, patientRepo)
	stockRequestUC := pharmacy.NewStockRequestUseCase(pharmacyTx, medicineRepo, requestRepo)
	prescriptionUC := pharmacy.NewPrescriptionUseCase(pharmacyTx, patientRepo, prescriptionRepo, cfg.Pharmacy.GraceWindow)

	bedUC := occupancy.NewBedUseCase(bedRepo)
	allocationUC := occupancy.NewAllocationUseCase(occupancyTx, userRepo, patientRepo)
	occupancyQueries := occupancy.NewQueryUseCase(bedRepo, allocRepo)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "MedRoom API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:          authUC,
		CatalogUC:       catalogUC,
		MedicineQueries: medicineQueries,
		RecordUC:        recordUC,
		StockRequestUC:  stockRequestUC,
		PrescriptionUC:  prescriptionUC,
		BedUC:           bedUC,
		AllocationUC:    allocationUC,
		OccupancyQuery:  occupancyQueries,
		JWTSecret:       cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
