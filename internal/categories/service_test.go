package categories

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stockroomhq/stockroom-backend/pkg/db/models"
	pkgerrors "github.com/stockroomhq/stockroom-backend/pkg/errors"
)

func TestCreateCategoryRequiresName(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.CreateCategory(context.Background(), CreateCategoryInput{Name: "   "})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestCreateCategoryTrimsName(t *testing.T) {
	svc := newTestService(t)

	dto, err := svc.CreateCategory(context.Background(), CreateCategoryInput{Name: "  Electronics  "})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	if dto.Name != "Electronics" {
		t.Fatalf("expected trimmed name, got %q", dto.Name)
	}
}

func TestUpdateCategoryAppliesFields(t *testing.T) {
	svc, repo := newTestServiceWithRepo(t)
	existing := repo.add("Tools")

	name := "Hardware"
	dto, err := svc.UpdateCategory(context.Background(), existing.ID, UpdateCategoryInput{Name: &name})
	if err != nil {
		t.Fatalf("update category: %v", err)
	}
	if dto.Name != "Hardware" {
		t.Fatalf("expected updated name, got %q", dto.Name)
	}

	empty := "  "
	_, err = svc.UpdateCategory(context.Background(), existing.ID, UpdateCategoryInput{Name: &empty})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for blank name, got %v", err)
	}
}

func TestDeleteCategoryRemovesRow(t *testing.T) {
	svc, repo := newTestServiceWithRepo(t)
	existing := repo.add("Tools")

	if err := svc.DeleteCategory(context.Background(), existing.ID); err != nil {
		t.Fatalf("delete category: %v", err)
	}
	if _, ok := repo.rows[existing.ID]; ok {
		t.Fatal("expected category to be deleted")
	}

	err := svc.DeleteCategory(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetCategoryNotFound(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.GetCategory(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

type fakeCategoryRepo struct {
	rows map[uuid.UUID]*models.Category
}

func (r *fakeCategoryRepo) add(name string) *models.Category {
	category := &models.Category{ID: uuid.New(), Name: name}
	r.rows[category.ID] = category
	return category
}

func (r *fakeCategoryRepo) Create(_ context.Context, category *models.Category) (*models.Category, error) {
	category.ID = uuid.New()
	r.rows[category.ID] = category
	return category, nil
}

func (r *fakeCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	category, ok := r.rows[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return category, nil
}

func (r *fakeCategoryRepo) List(_ context.Context) ([]models.Category, error) {
	out := make([]models.Category, 0, len(r.rows))
	for _, category := range r.rows {
		out = append(out, *category)
	}
	return out, nil
}

func (r *fakeCategoryRepo) Update(_ context.Context, category *models.Category) (*models.Category, error) {
	r.rows[category.ID] = category
	return category, nil
}

func (r *fakeCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.rows, id)
	return nil
}

func newTestService(t *testing.T) Service {
	svc, _ := newTestServiceWithRepo(t)
	return svc
}

func newTestServiceWithRepo(t *testing.T) (Service, *fakeCategoryRepo) {
	t.Helper()
	repo := &fakeCategoryRepo{rows: map[uuid.UUID]*models.Category{}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("build service: %v", err)
	}
	return svc, repo
}
