package suppliers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	pkgAuth "github.com/stockroomhq/stockroom-backend/pkg/auth"
	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
)

// Service exposes supplier and sourcing-link operations. Suppliers are
// strictly private to their owner: staff has no visibility override here.
type Service interface {
	CreateSupplier(ctx context.Context, principal pkgAuth.Principal, input SupplierInput) (*SupplierDTO, error)
	GetSupplier(ctx context.Context, principal pkgAuth.Principal, id uuid.UUID) (*SupplierDTO, error)
	ListSuppliers(ctx context.Context, principal pkgAuth.Principal) ([]SupplierDTO, error)
	UpdateSupplier(ctx context.Context, principal pkgAuth.Principal, id uuid.UUID, input UpdateSupplierInput) (*SupplierDTO, error)
	DeleteSupplier(ctx context.Context, principal pkgAuth.Principal, id uuid.UUID) error

	CreateLink(ctx context.Context, principal pkgAuth.Principal, input LinkInput) (*LinkDTO, error)
	ListLinksForItem(ctx context.Context, principal pkgAuth.Principal, itemID uuid.UUID) ([]LinkDTO, error)
	UpdateLink(ctx context.Context, principal pkgAuth.Principal, id uuid.UUID, input UpdateLinkInput) (*LinkDTO, error)
	DeleteLink(ctx context.Context, principal pkgAuth.Principal, id uuid.UUID) error
}

// SupplierInput holds the validated payload to create a supplier.
type SupplierInput struct {
	Name        string
	ContactName *string
	Email       *string
	Phone       *string
	Address     *string
}

// UpdateSupplierInput holds optional mutation values for a supplier.
type UpdateSupplierInput struct {
	Name        *string
	ContactName *string
	Email       *string
	Phone       *string
	Address     *string
}

// LinkInput holds the validated payload to create an item-supplier link.
type LinkInput struct {
	ItemID        uuid.UUID
	SupplierID    uuid.UUID
	SupplierSKU   *string
	SupplierPrice decimal.Decimal
	LeadTimeDays  *int
	Notes         *string
}

// UpdateLinkInput holds optional mutation values for a link.
type UpdateLinkInput struct {
	SupplierSKU   *string
	SupplierPrice *decimal.Decimal
	LeadTimeDays  *int
	Notes         *string
}

type supplierStore interface {
	CreateSupplier(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error)
	FindSupplierByID(ctx context.Context, id uuid.UUID) (*models.Supplier, error)
	ListSuppliersByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Supplier, error)
	UpdateSupplier(ctx context.Context, supplier *models.Supplier) (*models.Supplier, error)
	DeleteSupplier(ctx context.Context, id uuid.UUID) error
	CreateLink(ctx context.Context, link *models.ItemSupplier) (*models.ItemSupplier, error)
	FindLinkByID(ctx context.Context, id uuid.UUID) (*models.ItemSupplier, error)
	ListLinksByItem(ctx context.Context, itemID uuid.UUID) ([]models.ItemSupplier, error)
	UpdateLink(ctx context.Context, link *models.ItemSupplier) (*models.ItemSupplier, error)
	DeleteLink(ctx context.Context, id uuid.UUID) error
}

type itemLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.InventoryItem, error)
}

type service struct {
	store supplierStore
	items itemLoader
}

// NewService constructs a supplier service instance.
func NewService(store supplierStore, items itemLoader) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("supplier repository required")
	}
	if items == nil {
		return nil, fmt.Errorf("item repository required")
	}
	return &service{store: store, items: items}, nil
}

func (s *service) CreateSupplier(ctx context.Context, principal pkgAuth.Principal, input SupplierInput) (*SupplierDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}

	supplier, err := s.store.CreateSupplier(ctx, &models.Supplier{
		Name:        name,
		ContactName: input.ContactName,
		Email:       input.Email,
		Phone:       input.Phone,
		Address:     input.Address,
		OwnerID:     principal.UserID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert supplier")
	}
	return NewSupplierDTO(supplier), nil
}

func (s *service) GetSupplier(ctx context.Context, principal pkgAuth.Principal, id uuid.UUID) (*SupplierDTO, error) {
	supplier, err := s.ownedSupplier(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	return NewSupplierDTO(supplier), nil
}

func (s *service) ListSuppliers(ctx context.Context, principal pkgAuth.Principal) ([]SupplierDTO, error) {
	rows, err := s.store.ListSuppliersByOwner(ctx, principal.UserID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list suppliers")
	}
	dtos := make([]SupplierDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewSupplierDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) UpdateSupplier(ctx context.Context, principal pkgAuth.Principal, id uuid.UUID, input UpdateSupplierInput) (*SupplierDTO, error) {
	supplier, err := s.ownedSupplier(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		supplier.Name = name
	}
	if input.ContactName != nil {
		supplier.ContactName = input.ContactName
	}
	if input.Email != nil {
		supplier.Email = input.Email
	}
	if input.Phone != nil {
		supplier.Phone = input.Phone
	}
	if input.Address != nil {
		supplier.Address = input.Address
	}

	updated, err := s.store.UpdateSupplier(ctx, supplier)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update supplier")
	}
	return NewSupplierDTO(updated), nil
}

func (s *service) DeleteSupplier(ctx context.Context, principal pkgAuth.Principal, id uuid.UUID) error {
	if _, err := s.ownedSupplier(ctx, principal, id); err != nil {
		return err
	}
	if err := s.store.DeleteSupplier(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete supplier")
	}
	return nil
}

func (s *service) CreateLink(ctx context.Context, principal pkgAuth.Principal, input LinkInput) (*LinkDTO, error) {
	if input.SupplierPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier_price must be non-negative")
	}
	if input.LeadTimeDays != nil && *input.LeadTimeDays < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lead_time_days must be non-negative")
	}

	if err := s.ensureOwnedItem(ctx, principal, input.ItemID); err != nil {
		return nil, err
	}
	if _, err := s.ownedSupplier(ctx, principal, input.SupplierID); err != nil {
		return nil, err
	}

	link, err := s.store.CreateLink(ctx, &models.ItemSupplier{
		ItemID:        input.ItemID,
		SupplierID:    input.SupplierID,
		SupplierSKU:   input.SupplierSKU,
		SupplierPrice: input.SupplierPrice,
		LeadTimeDays:  input.LeadTimeDays,
		Notes:         input.Notes,
	})
	if err != nil {
		if pkgerrors.IsUniqueViolation(err) {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "item is already linked to this supplier")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert link")
	}
	return NewLinkDTO(link), nil
}

func (s *service) ListLinksForItem(ctx context.Context, principal pkgAuth.Principal, itemID uuid.UUID) ([]LinkDTO, error) {
	if err := s.ensureOwnedItem(ctx, principal, itemID); err != nil {
		return nil, err
	}

	rows, err := s.store.ListLinksByItem(ctx, itemID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list links")
	}
	dtos := make([]LinkDTO, 0, len(rows))
	for i := range rows {
		dtos = append(dtos, *NewLinkDTO(&rows[i]))
	}
	return dtos, nil
}

func (s *service) UpdateLink(ctx context.Context, principal pkgAuth.Principal, id uuid.UUID, input UpdateLinkInput) (*LinkDTO, error) {
	if input.SupplierPrice != nil && input.SupplierPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "supplier_price must be non-negative")
	}
	if input.LeadTimeDays != nil && *input.LeadTimeDays < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lead_time_days must be non-negative")
	}

	link, err := s.ownedLink(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	if input.SupplierSKU != nil {
		link.SupplierSKU = input.SupplierSKU
	}
	if input.SupplierPrice != nil {
		link.SupplierPrice = *input.SupplierPrice
	}
	if input.LeadTimeDays != nil {
		link.LeadTimeDays = input.LeadTimeDays
	}
	if input.Notes != nil {
		link.Notes = input.Notes
	}

	updated, err := s.store.UpdateLink(ctx, link)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update link")
	}
	return NewLinkDTO(updated), nil
}

func (s *service) DeleteLink(ctx context.Context, principal pkgAuth.Principal, id uuid.UUID) error {
	if _, err := s.ownedLink(ctx, principal, id); err != nil {
		return err
	}
	if err := s.store.DeleteLink(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete link")
	}
	return nil
}

func (s *service) ownedSupplier(ctx context.Context, principal pkgAuth.Principal, id uuid.UUID) (*models.Supplier, error) {
	supplier, err := s.store.FindSupplierByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load supplier")
	}
	if supplier.OwnerID != principal.UserID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "supplier not found")
	}
	return supplier, nil
}

func (s *service) ensureOwnedItem(ctx context.Context, principal pkgAuth.Principal, itemID uuid.UUID) error {
	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load item")
	}
	if item.OwnerID != principal.UserID {
		return pkgerrors.New(pkgerrors.CodeNotFound, "item not found")
	}
	return nil
}

// ownedLink resolves a link through the item side of the pair.
func (s *service) ownedLink(ctx context.Context, principal pkgAuth.Principal, id uuid.UUID) (*models.ItemSupplier, error) {
	link, err := s.store.FindLinkByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "link not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load link")
	}
	if err := s.ensureOwnedItem(ctx, principal, link.ItemID); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "link not found")
	}
	return link, nil
}
