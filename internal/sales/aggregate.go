package sales

import "github.com/shopspring/decimal"

// Summary holds the aggregate block returned alongside listings and printed
// at the end of the PDF report. JSON keys match the listing contract.
type Summary struct {
	TotalVentas    decimal.Decimal `json:"totalVentas"`
	CantidadVentas int             `json:"cantidadVentas"`
	TotalProductos int             `json:"totalProductos"`
}

// Summarize computes totals over an already-filtered result set. It is
// order-independent and tolerant of malformed records: a zero total counts
// as 0 and a missing or empty item collection contributes no units.
func Summarize(records []SaleRecord) Summary {
	s := Summary{TotalVentas: decimal.Zero}
	for _, sale := range records {
		s.TotalVentas = s.TotalVentas.Add(sale.Total)
		s.CantidadVentas++
		for _, item := range sale.Items {
			if item.Quantity > 0 {
				s.TotalProductos += item.Quantity
			}
		}
	}
	return s
}
