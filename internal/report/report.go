package report

import (
	"fmt"
	"io"
	"time"

	"api_ventas/internal/sales"

	"github.com/jung-kurt/gofpdf"
)

// Params carries the report metadata outside the record set itself.
type Params struct {
	SellerName    string
	SellerCode    string
	PeriodLabel   string // empty when no date filter was applied
	GeneratedAt   time.Time
	DisplayOffset time.Duration // footer timestamp adjustment, e.g. -5h
}

// Generate renders the full report document into w. The summary must come
// from the same aggregation used by the listing endpoint so both surfaces
// agree on the totals.
func Generate(w io.Writer, records []sales.SaleRecord, summary sales.Summary, p Params) error {
	b := newBuilder(p)
	b.header()

	if len(records) == 0 {
		b.emptyNotice()
		return b.output(w)
	}

	b.tableHeader()
	for _, row := range BuildRows(records) {
		b.addRow(row)
	}
	b.summaryBlock(summary)
	b.footer()
	return b.output(w)
}

// builder holds the document under construction together with its explicit
// layout state.
type builder struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	geo    Geometry
	cols   []column
	state  layoutState
	params Params
}

func newBuilder(p Params) *builder {
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	b := &builder{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		geo:    defaultGeometry(),
		cols:   tableColumns(),
		params: p,
	}
	b.state = layoutState{y: b.geo.Top, pages: 1}
	return b
}

// header writes the report title and the seller metadata block.
func (b *builder) header() {
	b.pdf.SetTextColor(0, 0, 0)
	b.pdf.SetFont("Helvetica", "B", 20)
	b.pdf.SetXY(b.geo.Left, b.state.y)
	b.pdf.CellFormat(b.geo.TableWidth, 24, b.tr("REPORTE DE VENTAS"), "", 0, "C", false, 0, "")
	b.state.y += 34

	b.pdf.SetFont("Helvetica", "", 12)
	for _, line := range []string{
		fmt.Sprintf("Vendedor: %s", b.params.SellerName),
		fmt.Sprintf("Código: %s", b.params.SellerCode),
	} {
		b.pdf.SetXY(b.geo.Left, b.state.y)
		b.pdf.CellFormat(b.geo.TableWidth, 14, b.tr(line), "", 0, "L", false, 0, "")
		b.state.y += 16
	}

	if b.params.PeriodLabel != "" {
		b.pdf.SetXY(b.geo.Left, b.state.y)
		b.pdf.CellFormat(b.geo.TableWidth, 14, b.tr(fmt.Sprintf("Período: %s", b.params.PeriodLabel)), "", 0, "L", false, 0, "")
		b.state.y += 16
	}
	b.state.y += 14
}

// emptyNotice replaces the table when the filtered set has no records. No
// summary block follows it.
func (b *builder) emptyNotice() {
	b.pdf.SetFont("Helvetica", "", 14)
	b.pdf.SetTextColor(127, 140, 141)
	b.pdf.SetXY(b.geo.Left, b.state.y)
	b.pdf.CellFormat(b.geo.TableWidth, 18, b.tr("No se encontraron ventas para el período seleccionado"), "", 0, "C", false, 0, "")
	b.pdf.SetTextColor(0, 0, 0)
}

// tableHeader emits the column header band and the rule under it. It runs
// once per page that carries table rows.
func (b *builder) tableHeader() {
	b.pdf.SetFont("Helvetica", "B", 10)
	b.pdf.SetTextColor(0, 0, 0)
	x := b.geo.Left
	for _, col := range b.cols {
		b.pdf.SetXY(x, b.state.y)
		b.pdf.CellFormat(col.width, b.geo.HeaderRowHeight, b.tr(col.label), "", 0, col.align, false, 0, "")
		x += col.width
	}
	b.state.y += b.geo.HeaderRowHeight
	b.pdf.SetDrawColor(0, 0, 0)
	b.pdf.Line(b.geo.Left, b.state.y-5, b.geo.Left+b.geo.TableWidth, b.state.y-5)
}

// addRow lays out one table row, breaking the page first when it would not
// fit. Shading parity follows the monotone row counter, not the page.
func (b *builder) addRow(row Row) {
	if b.state.y+b.geo.RowHeight > b.geo.BreakY {
		b.pdf.AddPage()
		b.state.pages++
		b.state.y = b.geo.Top
		b.tableHeader()
	}

	if shaded(b.state.row) {
		b.pdf.SetFillColor(242, 242, 242)
		b.pdf.Rect(b.geo.Left, b.state.y-2, b.geo.TableWidth, b.geo.RowHeight, "F")
	}

	b.pdf.SetFont("Helvetica", "", 9)
	b.pdf.SetTextColor(0, 0, 0)
	x := b.geo.Left
	for _, col := range b.cols {
		b.pdf.SetXY(x, b.state.y)
		b.pdf.CellFormat(col.width, b.geo.RowHeight, b.tr(col.value(row)), "", 0, col.align, false, 0, "")
		x += col.width
	}

	b.state.y += b.geo.RowHeight
	b.state.row++
}

// summaryBlock prints the trailing aggregate. It never re-emits the table
// header band: a break here starts a plain page.
func (b *builder) summaryBlock(summary sales.Summary) {
	const blockHeight = 65
	b.state.y += 20
	if b.state.y+blockHeight > b.geo.BreakY {
		b.pdf.AddPage()
		b.state.pages++
		b.state.y = b.geo.Top
	}

	x := b.geo.Left + 360
	b.pdf.SetFont("Helvetica", "B", 11)
	b.pdf.SetXY(x, b.state.y)
	b.pdf.CellFormat(155, 14, b.tr("RESUMEN FINAL"), "", 0, "L", false, 0, "")
	b.state.y += 15

	b.pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{
		fmt.Sprintf("Total ventas: %s", formatCurrency(summary.TotalVentas)),
		fmt.Sprintf("Ventas realizadas: %d", summary.CantidadVentas),
		fmt.Sprintf("Productos vendidos: %d", summary.TotalProductos),
	} {
		b.pdf.SetXY(x, b.state.y)
		b.pdf.CellFormat(155, 12, b.tr(line), "", 0, "L", false, 0, "")
		b.state.y += 15
	}
}

// footer stamps the generation timestamp, shifted by the configured display
// offset so the wall-clock time matches the seller's timezone.
func (b *builder) footer() {
	ts := b.params.GeneratedAt.UTC().Add(b.params.DisplayOffset)
	line := fmt.Sprintf("Reporte generado el %s a las %s", formatDate(ts), formatClock(ts))

	b.state.y += 24
	if b.state.y+14 > b.geo.BreakY {
		b.pdf.AddPage()
		b.state.pages++
		b.state.y = b.geo.Top
	}
	b.pdf.SetFont("Helvetica", "", 10)
	b.pdf.SetTextColor(149, 165, 166)
	b.pdf.SetXY(b.geo.Left, b.state.y)
	b.pdf.CellFormat(b.geo.TableWidth, 14, b.tr(line), "", 0, "C", false, 0, "")
	b.pdf.SetTextColor(0, 0, 0)
}

func (b *builder) output(w io.Writer) error {
	if b.pdf.Err() {
		return fmt.Errorf("report build failed: %w", b.pdf.Error())
	}
	return b.pdf.Output(w)
}
