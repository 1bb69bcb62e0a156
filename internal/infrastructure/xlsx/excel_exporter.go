// Package xlsx exporta las notas de ingreso a una planilla Excel para conciliación offline.
package xlsx

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/wms-ingresos/internal/application/usecase"
	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
	"github.com/jhoicas/wms-ingresos/internal/domain/intake"
)

// Nombres de hoja del libro exportado.
const (
	SheetNotas    = "Notas"
	SheetDetalles = "Detalles"
)

var _ usecase.NotaExporter = (*ExcelExporter)(nil)

// ExcelExporter implementa usecase.NotaExporter con excelize.
type ExcelExporter struct{}

func NewExcelExporter() *ExcelExporter { return &ExcelExporter{} }

// Export escribe una hoja con las cabeceras y otra con una fila por línea.
func (e *ExcelExporter) Export(notas []*entity.NotaIngreso) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), SheetNotas); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}
	if _, err := f.NewSheet(SheetDetalles); err != nil {
		return nil, fmt.Errorf("xlsx: crear hoja: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	notaHeader := []interface{}{
		"id", "nro_documento", "almacen_id", "origen", "tipo", "estado",
		"usuario_creacion", "usuario_validacion", "usuario_almacenamiento",
		"lineas", "created_at", "updated_at",
	}
	detHeader := []interface{}{
		"nro_documento", "linea", "producto_id", "cantidad", "cantidad_esperada",
		"discrepancia", "lote", "fecha_vencimiento", "serie", "ubicacion_sugerida",
	}
	if err := writeHeader(f, SheetNotas, notaHeader, bold); err != nil {
		return nil, err
	}
	if err := writeHeader(f, SheetDetalles, detHeader, bold); err != nil {
		return nil, err
	}

	notaRow, detRow := 2, 2
	for _, n := range notas {
		values := []interface{}{
			n.ID, n.NroDocumento, n.AlmacenID, n.Origen, string(n.Tipo), string(n.Estado),
			n.UsuarioCreacion, n.UsuarioValidacion, n.UsuarioAlmacenamiento,
			len(n.Detalles), n.CreatedAt, n.UpdatedAt,
		}
		if err := writeRow(f, SheetNotas, notaRow, values); err != nil {
			return nil, err
		}
		notaRow++

		for _, d := range n.Detalles {
			var esperada, disc, vence interface{} = "", "", ""
			if d.CantidadEsperada != nil {
				esperada = d.CantidadEsperada.InexactFloat64()
			}
			if v, ok := d.Discrepancia(); ok {
				disc = v.InexactFloat64()
			}
			if d.FechaVencimiento != nil {
				vence = d.FechaVencimiento.Format(intake.DateLayout)
			}
			values := []interface{}{
				n.NroDocumento, d.Linea, d.ProductoID, d.Cantidad.InexactFloat64(), esperada,
				disc, d.Lote, vence, d.Serie, d.UbicacionSugerida,
			}
			if err := writeRow(f, SheetDetalles, detRow, values); err != nil {
				return nil, err
			}
			detRow++
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, header []interface{}, style int) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: cabecera %s: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return fmt.Errorf("xlsx: cabecera %s: %w", sheet, err)
	}
	if err := f.SetCellStyle(sheet, "A1", last, style); err != nil {
		return fmt.Errorf("xlsx: cabecera %s: %w", sheet, err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("xlsx: %s fila %d: %w", sheet, row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("xlsx: %s fila %d: %w", sheet, row, err)
	}
	return nil
}
