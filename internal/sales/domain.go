package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Known payment methods. The field is an open string: the store accepts
// whatever the client sends, these are just the values the UI offers.
const (
	PaymentCash     = "efectivo"
	PaymentTransfer = "transferencia"
	PaymentOther    = "otro"
)

// SaleRecord represents one completed sales transaction. Records are created
// once and never updated or deleted; listings and reports only read them.
type SaleRecord struct {
	ID            uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	SellerID      uuid.UUID       `gorm:"type:uuid;index;not null" json:"sellerId"`
	CustomerName  string          `gorm:"not null" json:"customerName"`
	CustomerPhone string          `json:"customerPhone,omitempty"`
	Address       string          `json:"address"`
	Items         []LineItem      `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE" json:"items"`
	Total         decimal.Decimal `gorm:"type:decimal(20,2)" json:"total"`
	PaymentMethod string          `json:"paymentMethod"`
	Notes         string          `json:"notes,omitempty"`
	SaleDate      *time.Time      `json:"saleDate"`
	RefSellerCode *string         `json:"sellerCode,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// EffectiveDate returns the sale date, falling back to the creation timestamp
// when the sale date was never supplied.
func (s *SaleRecord) EffectiveDate() time.Time {
	if s.SaleDate != nil {
		return *s.SaleDate
	}
	if !s.CreatedAt.IsZero() {
		return s.CreatedAt
	}
	return time.Now()
}

// LineItem is one product line within a sale. Name and unit price are
// snapshotted at sale time; later catalog changes do not touch them.
type LineItem struct {
	ID        uint            `gorm:"primaryKey" json:"-"`
	SaleID    uuid.UUID       `gorm:"type:uuid;index" json:"-"`
	ProductID *uuid.UUID      `gorm:"type:uuid" json:"productId,omitempty"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(20,2)" json:"price"`
}

// Subtotal returns quantity times unit price.
func (i LineItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Seller is a sales person. BossID forms a one-level hierarchy: a seller may
// record sales on behalf of their direct subordinates.
type Seller struct {
	ID     uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Name   string     `gorm:"not null" json:"name"`
	Code   string     `gorm:"uniqueIndex;not null" json:"code"`
	BossID *uuid.UUID `gorm:"type:uuid;index" json:"bossId,omitempty"`
}

// Product is a catalog entry. Lookup by name is case-insensitive.
type Product struct {
	ID    uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Name  string          `gorm:"uniqueIndex;not null" json:"name"`
	Price decimal.Decimal `gorm:"type:decimal(20,2)" json:"price"`
}
