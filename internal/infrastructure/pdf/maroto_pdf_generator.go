// Package pdf implementa la generación del documento de Orden de Compra que
// se envía al proveedor.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre tienda + NIT  │  N° Orden + Fecha           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  COMPRADOR: Dirección / Tel                                 │
//	│  PROVEEDOR: Nombre + NIT + contacto                         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | SKU | Producto | Costo Unit | Subtotal       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Mercancía / Flete / TOTAL ORDEN                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  NOTAS + leyenda                                            │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
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

	apprestock "github.com/tiendafacil/tienda-api/internal/application/restock"
	"github.com/tiendafacil/tienda-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa restock.OrderPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateOrderPDF genera el PDF de la orden de compra y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateOrderPDF(
	_ context.Context,
	order *entity.RestockOrder,
	store *entity.Store,
	supplier *entity.Supplier,
	lines []apprestock.OrderPDFLine,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Orden de Compra "+order.OrderNumber, true).
		WithAuthor(store.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(order, store))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(compradorRow(store))
	m.AddRows(proveedorRow(supplier))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(order))

	if order.Notes != "" {
		m.AddRows(notesRows(order.Notes)...)
	}
	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New(
			"Orden de compra generada por el sistema de inventario. "+
				"Las cantidades recibidas se registran contra esta orden.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2},
		),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la tienda + NIT (izq) y N° Orden + Fecha (der).
func headerRow(order *entity.RestockOrder, store *entity.Store) core.Row {
	fecha := order.CreatedAt.Format("02/01/2006")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(store.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+nonEmpty(store.NIT, "—"), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("ORDEN DE COMPRA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(order.OrderNumber, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// compradorRow: datos de la tienda que compra.
func compradorRow(store *entity.Store) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("DATOS DEL COMPRADOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Dirección: %s   |   Tel: %s",
				nonEmpty(store.Address, "—"),
				nonEmpty(store.Phone, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// proveedorRow: datos del proveedor destinatario.
func proveedorRow(supplier *entity.Supplier) core.Row {
	name, nit, email, phone := "—", "—", "—", "—"
	if supplier != nil {
		name = supplier.Name
		nit = nonEmpty(supplier.NIT, "—")
		email = nonEmpty(supplier.Email, "—")
		phone = nonEmpty(supplier.Phone, "—")
	}
	return row.New(14).Add(
		col.New(12).Add(
			text.New("PROVEEDOR", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(name, props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
			text.New(fmt.Sprintf("NIT: %s   |   Email: %s   |   Tel: %s",
				nit, email, phone,
			), props.Text{Size: 8, Top: 12, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de líneas.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Cant.", 1, align.Center),
		h("SKU", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Costo Unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	)
}

// tableLineRows: una fila por línea de la orden.
func tableLineRows(lines []apprestock.OrderPDFLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", l.Quantity),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(2).Add(text.New(
				l.SKU,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(4).Add(text.New(
				l.ProductName,
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				l.Cost,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				l.Subtotal,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: mercancía + flete + total, alineado a la derecha.
func totalsRow(order *entity.RestockOrder) core.Row {
	merchandise := decimal.Zero
	for _, it := range order.Items {
		merchandise = merchandise.Add(it.Cost.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	total := merchandise.Add(order.ShippingCost)

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(3),
		col.New(3).Add(
			label("Mercancía:"),
			label("Flete:"),
			grandLabel("TOTAL ORDEN:"),
		),
		col.New(3).Add(
			value("$"+merchandise.StringFixed(2)),
			value("$"+order.ShippingCost.StringFixed(2)),
			grandValue("$"+total.StringFixed(2)),
		),
		col.New(3),
	)
}

// notesRows: notas de la orden para el proveedor.
func notesRows(notes string) []core.Row {
	return []core.Row{
		row.New(6).Add(col.New(12).Add(
			text.New("NOTAS", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
		)),
		row.New(8).Add(col.New(12).Add(
			text.New(notes, props.Text{Size: 8, Color: colorGray, Top: 1, Left: 2}),
		)),
	}
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
