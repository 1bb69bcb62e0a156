package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-ingresos/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	NotaIngresoUC    *usecase.NotaIngresoUseCase
	DetalleIngresoUC *usecase.DetalleIngresoUseCase
	ReportUC         *usecase.ReportUseCase
}

// Router registra las rutas de la API.
func Router(app fiber.Router, deps RouterDeps) {
	notaHandler := NewNotaIngresoHandler(deps.NotaIngresoUC, deps.ReportUC)
	notas := app.Group("/nota-ingreso")
	notas.Post("/", notaHandler.Create)
	notas.Get("/", notaHandler.List)
	// Antes de /:id para que "export.xlsx" no se tome como ID.
	notas.Get("/export.xlsx", notaHandler.ExportXLSX)
	notas.Get("/:id", notaHandler.GetByID)
	notas.Patch("/:id", notaHandler.Update)
	notas.Get("/:id/pdf", notaHandler.PDF)

	detalleHandler := NewDetalleIngresoHandler(deps.DetalleIngresoUC)
	detalles := app.Group("/detalle-ingreso")
	detalles.Post("/", detalleHandler.Create)
	detalles.Get("/", detalleHandler.List)
	detalles.Get("/:id", detalleHandler.GetByID)
	detalles.Patch("/:id", detalleHandler.Update)
	detalles.Delete("/:id", detalleHandler.Delete)
}
