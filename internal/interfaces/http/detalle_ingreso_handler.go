package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wms-ingresos/internal/application/dto"
	"github.com/jhoicas/wms-ingresos/internal/application/usecase"
)

// DetalleIngresoHandler CRUD de líneas de nota de ingreso.
type DetalleIngresoHandler struct {
	uc *usecase.DetalleIngresoUseCase
}

// NewDetalleIngresoHandler construye el handler.
func NewDetalleIngresoHandler(uc *usecase.DetalleIngresoUseCase) *DetalleIngresoHandler {
	return &DetalleIngresoHandler{uc: uc}
}

// Create godoc
// @Summary      Agregar línea a una nota paletizada
// @Tags         detalle-ingreso
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDetalleIngresoRequest  true  "Línea"
// @Success      201   {object}  dto.DetalleIngresoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /detalle-ingreso [post]
func (h *DetalleIngresoHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateDetalleIngresoRequest
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
// @Summary      Listar líneas
// @Tags         detalle-ingreso
// @Produce      json
// @Param        notaIngresoId  query  string  false  "Filtrar por nota"
// @Success      200  {array}  dto.DetalleIngresoResponse
// @Router       /detalle-ingreso [get]
func (h *DetalleIngresoHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext(), c.Query("notaIngresoId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID GET /detalle-ingreso/:id
func (h *DetalleIngresoHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Modificar línea (solo notas paletizadas)
// @Tags         detalle-ingreso
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la línea"
// @Param        body  body  dto.UpdateDetalleIngresoRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.DetalleIngresoResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /detalle-ingreso/{id} [patch]
func (h *DetalleIngresoHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateDetalleIngresoRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete DELETE /detalle-ingreso/:id
func (h *DetalleIngresoHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
