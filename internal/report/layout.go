// Package report renders the paginated sales PDF: a fixed-column table over
// the filtered records, a trailing aggregate block and a generation footer.
package report

import (
	"fmt"
	"strconv"
	"time"

	"api_ventas/internal/sales"

	"github.com/shopspring/decimal"
)

// Geometry fixes the page layout in points (A4 portrait, 595x842).
type Geometry struct {
	Left            float64 // left margin, also table origin
	Top             float64 // top margin, cursor origin on a fresh page
	TableWidth      float64
	RowHeight       float64
	HeaderRowHeight float64
	BreakY          float64 // a row starting past this line forces a page break
}

func defaultGeometry() Geometry {
	return Geometry{
		Left:            40,
		Top:             40,
		TableWidth:      515,
		RowHeight:       20,
		HeaderRowHeight: 20,
		BreakY:          750,
	}
}

// Row is one table line. The report is itemized: every line item of a sale
// gets its own row, repeating the sale-level fields.
type Row struct {
	Date      time.Time
	Customer  string
	Payment   string
	ItemName  string
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// BuildRows flattens the sorted records into table rows. Records with a
// missing or empty item collection contribute no rows; they still count in
// the summary block.
func BuildRows(records []sales.SaleRecord) []Row {
	var rows []Row
	for i := range records {
		sale := &records[i]
		for _, item := range sale.Items {
			rows = append(rows, Row{
				Date:      sale.EffectiveDate(),
				Customer:  orNA(sale.CustomerName),
				Payment:   orNA(sale.PaymentMethod),
				ItemName:  item.Name,
				Quantity:  item.Quantity,
				UnitPrice: item.UnitPrice,
				Subtotal:  item.Subtotal(),
			})
		}
	}
	return rows
}

// column describes one table column: fixed width, alignment and the value it
// extracts from a row. The whole table is driven by this list.
type column struct {
	label string
	width float64
	align string // gofpdf alignment: "L", "R", "C"
	value func(Row) string
}

func tableColumns() []column {
	return []column{
		{"Fecha", 60, "L", func(r Row) string { return formatDate(r.Date) }},
		{"Cliente", 90, "L", func(r Row) string { return r.Customer }},
		{"Producto", 125, "L", func(r Row) string { return r.ItemName }},
		{"Cant.", 35, "R", func(r Row) string { return strconv.Itoa(r.Quantity) }},
		{"Precio", 70, "R", func(r Row) string { return formatCurrency(r.UnitPrice) }},
		{"Subtotal", 70, "R", func(r Row) string { return formatCurrency(r.Subtotal) }},
		{"Pago", 65, "L", func(r Row) string { return r.Payment }},
	}
}

// layoutState is the running render position, threaded explicitly so the
// builder stays reentrant. The row counter is monotone across page breaks,
// which keeps the alternating shading parity seamless.
type layoutState struct {
	y     float64
	row   int
	pages int
}

// shaded reports whether the row at the given monotone index gets the
// alternating background band.
func shaded(rowIndex int) bool {
	return rowIndex%2 == 0
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// formatDate renders a day the way the es-CO locale does: d/m/yyyy.
func formatDate(t time.Time) string {
	return t.Format("2/1/2006")
}

// formatCurrency renders a COP amount with dot thousands grouping and no
// fraction digits, e.g. $ 1.234.567.
func formatCurrency(d decimal.Decimal) string {
	n := d.Round(0).IntPart()
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	digits := strconv.FormatInt(n, 10)
	var grouped []byte
	for i, c := range []byte(digits) {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, '.')
		}
		grouped = append(grouped, c)
	}
	return fmt.Sprintf("$ %s%s", sign, grouped)
}

// formatClock renders a 12-hour clock the way the es-CO locale does,
// e.g. 3:04 p. m.
func formatClock(t time.Time) string {
	h := t.Hour() % 12
	if h == 0 {
		h = 12
	}
	suffix := "a. m."
	if t.Hour() >= 12 {
		suffix = "p. m."
	}
	return fmt.Sprintf("%d:%02d %s", h, t.Minute(), suffix)
}
