package suppliers

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
)

// Repository wires together supplier and link persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateSupplier inserts a new supplier row.
func (r *Repository) CreateSupplier(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error) {
	if err := r.db.WithContext(ctx).Create(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

// FindSupplierByID loads a supplier by ID.
func (r *Repository) FindSupplierByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error) {
	var supplier models.Supplier
	if err := r.db.WithContext(ctx).First(&supplier, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &supplier, nil
}

// ListSuppliersByOwner returns the owner's suppliers ordered by name.
func (r *Repository) ListSuppliersByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Supplier, error) {
	var rows []models.Supplier
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name ASC").
		Find(&rows).Error
	return rows, err
}

// UpdateSupplier persists the mutated supplier row.
func (r *Repository) UpdateSupplier(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error) {
	if err := r.db.WithContext(ctx).Save(supplier).Error; err != nil {
		return nil, err
	}
	return supplier, nil
}

// DeleteSupplier removes a supplier; its links cascade.
func (r *Repository) DeleteSupplier(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Supplier{}).Error
}

// CreateLink inserts a new item-supplier link.
func (r *Repository) CreateLink(ctx context.Context, link *models.ItemSupplier) (*models.ItemSupplier, error) {
	if err := r.db.WithContext(ctx).Create(link).Error; err != nil {
		return nil, err
	}
	return link, nil
}

// FindLinkByID loads a link by ID.
func (r *Repository) FindLinkByID(ctx context.Context, id uuid.UUID) (*models.ItemSupplier, error) {
	var link models.ItemSupplier
	if err := r.db.WithContext(ctx).First(&link, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// ListLinksByItem returns all links for the item.
func (r *Repository) ListLinksByItem(ctx context.Context, itemID uuid.UUID) ([]models.ItemSupplier, error) {
	var rows []models.ItemSupplier
	err := r.db.WithContext(ctx).
		Where("item_id = ?", itemID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// UpdateLink persists the mutated link row.
func (r *Repository) UpdateLink(ctx context.Context, link *models.ItemSupplier) (*models.ItemSupplier, error) {
	if err := r.db.WithContext(ctx).Save(link).Error; err != nil {
		return nil, err
	}
	return link, nil
}

// DeleteLink removes a link row by ID.
func (r *Repository) DeleteLink(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.ItemSupplier{}).Error
}
