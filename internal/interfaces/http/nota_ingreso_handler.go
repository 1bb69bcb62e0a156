package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-ingresos/internal/application/dto"
	"github.com/jhoicas/wms-ingresos/internal/application/usecase"
)

// NotaIngresoHandler maneja las peticiones HTTP de notas de ingreso.
type NotaIngresoHandler struct {
	uc      *usecase.NotaIngresoUseCase
	reports *usecase.ReportUseCase
}

// NewNotaIngresoHandler construye el handler.
func NewNotaIngresoHandler(uc *usecase.NotaIngresoUseCase, reports *usecase.ReportUseCase) *NotaIngresoHandler {
	return &NotaIngresoHandler{uc: uc, reports: reports}
}

// Create godoc
// @Summary      Crear nota de ingreso con sus líneas
// @Tags         nota-ingreso
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateNotaIngresoRequest  true  "Cabecera y líneas"
// @Success      201   {object}  dto.NotaIngresoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /nota-ingreso [post]
func (h *NotaIngresoHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateNotaIngresoRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar notas de ingreso
// @Tags         nota-ingreso
// @Produce      json
// @Param        almacenId  query  string  false  "Filtrar por almacén"
// @Success      200  {array}  dto.NotaIngresoResponse
// @Router       /nota-ingreso [get]
func (h *NotaIngresoHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("almacenId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener nota de ingreso
// @Tags         nota-ingreso
// @Produce      json
// @Param        id   path  string  true  "ID de la nota"
// @Success      200  {object}  dto.NotaIngresoResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /nota-ingreso/{id} [get]
func (h *NotaIngresoHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Cambiar estado u origen de la nota
// @Tags         nota-ingreso
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la nota"
// @Param        body  body  dto.UpdateNotaIngresoRequest  true  "estado (0..3), usuario, origen"
// @Success      200   {object}  dto.NotaIngresoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /nota-ingreso/{id} [patch]
func (h *NotaIngresoHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateNotaIngresoRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// PDF devuelve la nota imprimible.
// GET /nota-ingreso/:id/pdf
func (h *NotaIngresoHandler) PDF(c *fiber.Ctx) error {
	b, filename, err := h.reports.NotaPDF(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, "inline; filename="+strconv.Quote(filename))
	return c.Send(b)
}

// ExportXLSX exporta las notas a Excel.
// GET /nota-ingreso/export.xlsx
func (h *NotaIngresoHandler) ExportXLSX(c *fiber.Ctx) error {
	b, err := h.reports.ExportXLSX(c.UserContext(), c.Query("almacenId"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Attachment("notas-ingreso.xlsx")
	return c.Send(b)
}
