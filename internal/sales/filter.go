package sales

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dateLayout = "2006-01-02"

// ListFilter restricts a sales query. SellerID always comes from the
// authenticated caller; clients cannot widen the scope.
type ListFilter struct {
	SellerID      uuid.UUID
	Start         *time.Time
	End           *time.Time
	CustomerName  string
	PaymentMethod string
}

// ParseListFilter validates the raw query parameters and builds a ListFilter.
// A start bound is inclusive from 00:00:00 of that day and an end bound runs
// through 23:59:59.999, so a single-day range captures the whole day.
func ParseListFilter(sellerID uuid.UUID, startDate, endDate, customerName, paymentMethod string) (ListFilter, error) {
	f := ListFilter{
		SellerID:      sellerID,
		CustomerName:  strings.TrimSpace(customerName),
		PaymentMethod: strings.TrimSpace(paymentMethod),
	}

	if startDate != "" {
		t, err := time.ParseInLocation(dateLayout, startDate, time.UTC)
		if err != nil {
			return ListFilter{}, NewValidationError("startDate", "Formato de fecha de inicio inválido (Use AAAA-MM-DD)")
		}
		f.Start = &t
	}
	if endDate != "" {
		t, err := time.ParseInLocation(dateLayout, endDate, time.UTC)
		if err != nil {
			return ListFilter{}, NewValidationError("endDate", "Formato de fecha de fin inválido (Use AAAA-MM-DD)")
		}
		end := t.Add(24*time.Hour - time.Millisecond)
		f.End = &end
	}
	return f, nil
}

// Scope translates the filter into a gorm predicate. It is the only place
// query conditions for the listing and report endpoints are built.
func (f ListFilter) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("seller_id = ?", f.SellerID)
		if f.Start != nil {
			db = db.Where("sale_date >= ?", *f.Start)
		}
		if f.End != nil {
			db = db.Where("sale_date <= ?", *f.End)
		}
		if f.CustomerName != "" {
			db = db.Where("LOWER(customer_name) LIKE ?", "%"+strings.ToLower(f.CustomerName)+"%")
		}
		if f.PaymentMethod != "" {
			db = db.Where("payment_method = ?", f.PaymentMethod)
		}
		return db
	}
}

// PeriodLabel renders the filtered range for the report header, using the
// same open-ended wording as the listing UI.
func (f ListFilter) PeriodLabel() string {
	if f.Start == nil && f.End == nil {
		return ""
	}
	start, end := "Inicio", "Actual"
	if f.Start != nil {
		start = f.Start.Format(dateLayout)
	}
	if f.End != nil {
		end = f.End.Format(dateLayout)
	}
	return start + " - " + end
}
