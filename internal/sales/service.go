package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service provides high-level sales operations on a Storage backend.
type Service struct {
	storage Storage
	logger  *zap.Logger
}

// NewService creates a new Service.
func NewService(storage Storage, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		storage: storage,
		logger:  logger,
	}
}

// CreateSaleInput is the request-level payload of the record-sale operation.
// Products holds a comma-separated catalog-name list, or a single free-text
// description when HasSeller marks a proxy sale.
type CreateSaleInput struct {
	SaleDate      string
	CustomerName  string
	CustomerPhone string
	Products      string
	Quantity      int
	TotalPrice    decimal.Decimal
	HasSeller     string
	SellerCode    string
	PaymentMethod string
	Notes         string
	Address       string
}

// IsProxySale reports whether the proxy-sale variant was requested. The
// legacy client sends the literal "Sí".
func (in CreateSaleInput) IsProxySale() bool {
	v := strings.TrimSpace(in.HasSeller)
	return strings.EqualFold(v, "sí") || strings.EqualFold(v, "si") || strings.EqualFold(v, "true")
}

// ListSales runs the filtered query and aggregates the result set.
func (s *Service) ListSales(ctx context.Context, filter ListFilter) ([]SaleRecord, Summary, error) {
	records, err := s.storage.ListSales(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list sales", zap.String("seller_id", filter.SellerID.String()), zap.Error(err))
		return nil, Summary{}, fmt.Errorf("failed to retrieve sales: %w", err)
	}
	summary := Summarize(records)
	s.logger.Info("sales search completed",
		zap.String("seller_id", filter.SellerID.String()),
		zap.Int("results_count", len(records)),
		zap.Int("total_units", summary.TotalProductos),
	)
	return records, summary, nil
}

// SellerInfo returns the seller display metadata used by report headers.
func (s *Service) SellerInfo(ctx context.Context, id uuid.UUID) (*Seller, error) {
	return s.storage.SellerByID(ctx, id)
}

// CreateSale validates the input, resolves its references and persists one
// SaleRecord owned by the authenticated seller. Nothing is written when any
// step fails. The stored total is the client-supplied one; line-item
// subtotals are not reconciled against it.
func (s *Service) CreateSale(ctx context.Context, sellerID uuid.UUID, in CreateSaleInput) (*SaleRecord, error) {
	if in.CustomerName == "" || in.Products == "" || in.Quantity <= 0 || !in.TotalPrice.IsPositive() {
		return nil, NewValidationError("body", "Faltan campos requeridos")
	}

	saleDate, err := normalizeSaleDate(in.SaleDate)
	if err != nil {
		return nil, err
	}

	var items []LineItem
	var refCode *string

	if in.IsProxySale() {
		items, refCode, err = s.buildProxySale(ctx, sellerID, in)
		if err != nil {
			return nil, err
		}
		// El modo proxy siempre registra con fecha; por defecto, ahora.
		if saleDate == nil {
			now := time.Now().UTC()
			saleDate = &now
		}
	} else {
		items, err = s.resolveCatalogItems(ctx, in)
		if err != nil {
			return nil, err
		}
	}

	address := in.Address
	if address == "" {
		address = "No especificada"
	}

	sale := &SaleRecord{
		ID:            uuid.New(),
		SellerID:      sellerID,
		CustomerName:  in.CustomerName,
		CustomerPhone: in.CustomerPhone,
		Address:       address,
		Items:         items,
		Total:         in.TotalPrice,
		PaymentMethod: in.PaymentMethod,
		Notes:         in.Notes,
		SaleDate:      saleDate,
		RefSellerCode: refCode,
	}

	if err := s.storage.CreateSale(ctx, sale); err != nil {
		s.logger.Error("failed to save sale", zap.String("sale_id", sale.ID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}

	s.logger.Info("sale created",
		zap.String("sale_id", sale.ID.String()),
		zap.String("seller_id", sellerID.String()),
		zap.Int("items", len(sale.Items)),
		zap.Bool("proxy", refCode != nil),
	)
	return sale, nil
}

// resolveCatalogItems maps each comma-separated product name to a catalog
// entry, snapshotting name and price. The first unresolved name aborts.
func (s *Service) resolveCatalogItems(ctx context.Context, in CreateSaleInput) ([]LineItem, error) {
	names := strings.Split(in.Products, ",")
	items := make([]LineItem, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}
		product, err := s.storage.ProductByName(ctx, name)
		if errors.Is(err, ErrNotFound) {
			return nil, &NotFoundError{
				Resource: "producto",
				Message:  fmt.Sprintf("Producto no encontrado: %s", name),
			}
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve product %q: %w", name, err)
		}
		productID := product.ID
		items = append(items, LineItem{
			ProductID: &productID,
			Name:      product.Name,
			Quantity:  in.Quantity,
			UnitPrice: product.Price,
		})
	}
	if len(items) == 0 {
		return nil, NewValidationError("products", "Faltan campos requeridos")
	}
	return items, nil
}

// buildProxySale validates the proxy-sale variant: the submitted name must be
// the caller's own or a direct subordinate's, and the secondary seller code
// must exist in the catalog. The single item keeps the free-text description.
func (s *Service) buildProxySale(ctx context.Context, sellerID uuid.UUID, in CreateSaleInput) ([]LineItem, *string, error) {
	code := strings.TrimSpace(in.SellerCode)
	if code == "" {
		return nil, nil, NewValidationError("sellerCode", "Faltan campos requeridos")
	}

	caller, err := s.storage.SellerByID(ctx, sellerID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load caller seller: %w", err)
	}

	if !s.nameAuthorized(ctx, caller, in.CustomerName) {
		s.logger.Warn("proxy sale under unauthorized name",
			zap.String("seller_id", sellerID.String()),
			zap.String("submitted_name", in.CustomerName),
		)
		return nil, nil, &AuthorizationError{
			Message: fmt.Sprintf("Nombre no autorizado para venta con vendedor: %s", in.CustomerName),
		}
	}

	if _, err := s.storage.SellerByCode(ctx, code); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil, &NotFoundError{
				Resource: "vendedor",
				Message:  fmt.Sprintf("Código de vendedor no válido: %s", code),
			}
		}
		return nil, nil, fmt.Errorf("failed to resolve seller code %q: %w", code, err)
	}

	unitPrice := in.TotalPrice.DivRound(decimal.NewFromInt(int64(in.Quantity)), 2)
	items := []LineItem{{
		Name:      strings.TrimSpace(in.Products),
		Quantity:  in.Quantity,
		UnitPrice: unitPrice,
	}}
	return items, &code, nil
}

// nameAuthorized checks the submitted name against the caller's own name and
// those of the caller's direct subordinates, trimmed and case-insensitive.
func (s *Service) nameAuthorized(ctx context.Context, caller *Seller, submitted string) bool {
	if equalNames(caller.Name, submitted) {
		return true
	}
	subordinates, err := s.storage.SubordinatesOf(ctx, caller.ID)
	if err != nil {
		s.logger.Error("failed to load subordinates", zap.String("seller_id", caller.ID.String()), zap.Error(err))
		return false
	}
	for _, sub := range subordinates {
		if equalNames(sub.Name, submitted) {
			return true
		}
	}
	return false
}

func equalNames(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// normalizeSaleDate anchors date-only input to midday UTC so the stored day
// survives redisplay in western-hemisphere timezones. Full timestamps are
// stored as given; absent input yields nil.
func normalizeSaleDate(raw string) (*time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if !strings.Contains(raw, "T") {
		day, err := time.ParseInLocation(dateLayout, raw, time.UTC)
		if err != nil {
			return nil, NewValidationError("saleDate", "Formato de fecha de venta inválido (Use AAAA-MM-DD)")
		}
		noon := time.Date(day.Year(), day.Month(), day.Day(), 12, 0, 0, 0, time.UTC)
		return &noon, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		if t, err = time.ParseInLocation("2006-01-02T15:04:05", raw, time.UTC); err != nil {
			return nil, NewValidationError("saleDate", "Formato de fecha de venta inválido")
		}
	}
	return &t, nil
}
