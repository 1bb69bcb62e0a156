// Package pdf genera la nota de ingreso imprimible que acompaña a la mercadería paletizada.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: NOTA DE INGRESO + N° documento │ Estado + Fecha    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DATOS: Almacén / Origen / Tipo                             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Lín | Producto | Cant | Esp | Lote | Vence | Ubic.  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: líneas / cantidad total / líneas con diferencia   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el ID + responsables por estado            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/wms-ingresos/internal/application/usecase"
	"github.com/jhoicas/wms-ingresos/internal/domain/entity"
	"github.com/jhoicas/wms-ingresos/internal/domain/intake"
)

var _ usecase.NotaPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 40, Blue: 40}
)

var estadoLabel = map[entity.Estado]string{
	entity.EstadoPaletizado: "PALETIZADO",
	entity.EstadoValidado:   "VALIDADO",
	entity.EstadoAlmacenado: "ALMACENADO",
	entity.EstadoAnulado:    "ANULADO",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa usecase.NotaPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// Generate genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) Generate(nota *entity.NotaIngreso) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Nota de Ingreso "+nota.NroDocumento, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(nota))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(datosRow(nota))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableDetailRows(nota.Detalles)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(nota.Detalles))

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(nota))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(nota *entity.NotaIngreso) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New("NOTA DE INGRESO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("N° "+nota.NroDocumento, props.Text{
				Style: fontstyle.Bold, Size: 11, Top: 9,
			}),
		),
		col.New(5).Add(
			text.New(nonEmpty(estadoLabel[nota.Estado], string(nota.Estado)), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Fecha: "+nota.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func datosRow(nota *entity.NotaIngreso) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL INGRESO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Almacén: %s   |   Origen: %s   |   Tipo: %s",
				nota.AlmacenID,
				nonEmpty(nota.Origen, "—"),
				nonEmpty(string(nota.Tipo), "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Lín.", 1, align.Center),
		h("Producto", 3, align.Left),
		h("Cantidad", 2, align.Right),
		h("Esperada", 1, align.Right),
		h("Lote", 2, align.Left),
		h("Vence", 1, align.Center),
		h("Ubicación", 2, align.Left),
	)
}

// tableDetailRows una fila por línea; la cantidad se marca en rojo si difiere de la esperada.
func tableDetailRows(detalles []entity.DetalleIngreso) []core.Row {
	result := make([]core.Row, 0, len(detalles))
	for _, d := range detalles {
		cantStyle := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
		esperada := "—"
		if disc, ok := d.Discrepancia(); ok {
			esperada = d.CantidadEsperada.String()
			if !disc.IsZero() {
				cantStyle.Color = colorAlert
				cantStyle.Style = fontstyle.Bold
			}
		}
		vence := "—"
		if d.FechaVencimiento != nil {
			vence = d.FechaVencimiento.Format(intake.DateLayout)
		}
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(fmt.Sprintf("%d", d.Linea), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(3).Add(text.New(d.ProductoID, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(d.Cantidad.String(), cantStyle)),
			col.New(1).Add(text.New(esperada, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1, Color: colorGray})),
			col.New(2).Add(text.New(nonEmpty(d.Lote, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(1).Add(text.New(vence, props.Text{Size: 7, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(nonEmpty(d.UbicacionSugerida, "—"), props.Text{Size: 8, Top: 1, Left: 1})),
		))
	}
	return result
}

func totalsRow(detalles []entity.DetalleIngreso) core.Row {
	total := decimal.Zero
	conDiferencia := 0
	for _, d := range detalles {
		total = total.Add(d.Cantidad)
		if disc, ok := d.Discrepancia(); ok && !disc.IsZero() {
			conDiferencia++
		}
	}
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	return row.New(20).Add(
		col.New(6),
		col.New(3).Add(
			label("Líneas:"),
			label("Cantidad total:"),
			label("Con diferencia:"),
		),
		col.New(3).Add(
			value(fmt.Sprintf("%d", len(detalles))),
			value(total.String()),
			value(fmt.Sprintf("%d", conDiferencia)),
		),
	)
}

// footerRow QR con el ID de la nota (escaneo en el muelle) y responsables por estado.
func footerRow(nota *entity.NotaIngreso) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(nota.ID, props.Rect{Percent: 95, Center: true})),
		col.New(9).Add(
			text.New("Creado por: "+nonEmpty(nota.UsuarioCreacion, "—"), props.Text{Size: 8, Top: 4, Left: 3}),
			text.New("Validado por: "+nonEmpty(nota.UsuarioValidacion, "—"), props.Text{Size: 8, Top: 11, Left: 3}),
			text.New("Almacenado por: "+nonEmpty(nota.UsuarioAlmacenamiento, "—"), props.Text{Size: 8, Top: 18, Left: 3}),
			text.New("ID: "+nota.ID, props.Text{Size: 6.5, Top: 28, Left: 3, Color: colorGray}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
