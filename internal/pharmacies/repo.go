package pharmacies

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/naeemAbdul-Aziz/discreetkit-backend/pkg/db/models"
)

// Repository reads pharmacy coverage and stock. Both readers feed the
// assignment selector; neither mutates anything.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Pharmacy, error)
	// FindServiceAreas returns active rows whose area name loosely matches the
	// order's delivery area: case-insensitive containment in either direction.
	// Loose on purpose, to tolerate free-text delivery addresses; operators
	// must avoid declaring ambiguous overlapping area names.
	FindServiceAreas(ctx context.Context, deliveryArea string) ([]models.PharmacyServiceArea, error)
	FindProducts(ctx context.Context, pharmacyIDs []uuid.UUID, productIDs []uuid.UUID) ([]models.PharmacyProduct, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a pharmacies repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Pharmacy, error) {
	var pharmacy models.Pharmacy
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&pharmacy).Error
	if err != nil {
		return nil, err
	}
	return &pharmacy, nil
}

func (r *repository) FindServiceAreas(ctx context.Context, deliveryArea string) ([]models.PharmacyServiceArea, error) {
	area := strings.TrimSpace(deliveryArea)
	var rows []models.PharmacyServiceArea
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("position(lower(area_name) in lower(?)) > 0 OR position(lower(?) in lower(area_name)) > 0", area, area).
		Order("pharmacy_id ASC, delivery_fee ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *repository) FindProducts(ctx context.Context, pharmacyIDs []uuid.UUID, productIDs []uuid.UUID) ([]models.PharmacyProduct, error) {
	if len(pharmacyIDs) == 0 || len(productIDs) == 0 {
		return nil, nil
	}
	var rows []models.PharmacyProduct
	err := r.db.WithContext(ctx).
		Where("pharmacy_id IN ?", pharmacyIDs).
		Where("product_id IN ?", productIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}
