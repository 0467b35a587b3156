package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Storage is the main interface for the sales persistence layer. Sellers and
// products are managed elsewhere and only read here.
type Storage interface {
	CreateSale(ctx context.Context, sale *SaleRecord) error
	ListSales(ctx context.Context, filter ListFilter) ([]SaleRecord, error)
	SellerByID(ctx context.Context, id uuid.UUID) (*Seller, error)
	SellerByCode(ctx context.Context, code string) (*Seller, error)
	SubordinatesOf(ctx context.Context, bossID uuid.UUID) ([]Seller, error)
	ProductByName(ctx context.Context, name string) (*Product, error)
}

// OpenDatabase opens the sqlite database and migrates the schema.
func OpenDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.AutoMigrate(&Seller{}, &Product{}, &SaleRecord{}, &LineItem{}); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}
	return db, nil
}

// GormStorage implements Storage on top of gorm.
type GormStorage struct {
	db *gorm.DB
}

// NewGormStorage instantiates a GormStorage.
func NewGormStorage(db *gorm.DB) *GormStorage {
	return &GormStorage{db: db}
}

// CreateSale persists a sale record together with its line items.
func (g *GormStorage) CreateSale(ctx context.Context, sale *SaleRecord) error {
	if sale.ID == uuid.Nil {
		return errors.New("venta sin identificador")
	}
	return g.db.WithContext(ctx).Create(sale).Error
}

// ListSales returns the caller's records matching the filter, newest sale
// first. Records without a sale date sort as if dated now.
func (g *GormStorage) ListSales(ctx context.Context, filter ListFilter) ([]SaleRecord, error) {
	var records []SaleRecord
	err := g.db.WithContext(ctx).
		Scopes(filter.Scope()).
		Order("COALESCE(sale_date, CURRENT_TIMESTAMP) DESC").
		Preload("Items").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (g *GormStorage) SellerByID(ctx context.Context, id uuid.UUID) (*Seller, error) {
	var seller Seller
	err := g.db.WithContext(ctx).First(&seller, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &seller, nil
}

func (g *GormStorage) SellerByCode(ctx context.Context, code string) (*Seller, error) {
	var seller Seller
	err := g.db.WithContext(ctx).First(&seller, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &seller, nil
}

// SubordinatesOf returns the sellers reporting directly to the given seller.
// The hierarchy is one level deep.
func (g *GormStorage) SubordinatesOf(ctx context.Context, bossID uuid.UUID) ([]Seller, error) {
	var sellers []Seller
	if err := g.db.WithContext(ctx).Where("boss_id = ?", bossID).Find(&sellers).Error; err != nil {
		return nil, err
	}
	return sellers, nil
}

// ProductByName resolves a catalog entry by exact, case-insensitive name.
func (g *GormStorage) ProductByName(ctx context.Context, name string) (*Product, error) {
	var product Product
	err := g.db.WithContext(ctx).
		Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name))).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}
