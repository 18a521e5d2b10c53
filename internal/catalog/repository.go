package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/wanderdesk/booking-api/internal/models"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("package not found")

// Finder resolves a package by id.
type Finder interface {
	FindPackage(ctx context.Context, id uint) (*models.Package, error)
}

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) FindPackage(ctx context.Context, id uint) (*models.Package, error) {
	var pkg models.Package
	if err := r.db.WithContext(ctx).First(&pkg, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find package %d: %w", id, err)
	}
	return &pkg, nil
}

func (r *Repository) ListPackages(ctx context.Context) ([]models.Package, error) {
	var pkgs []models.Package
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&pkgs).Error; err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	return pkgs, nil
}

func (r *Repository) CreatePackage(ctx context.Context, pkg *models.Package) error {
	if err := r.db.WithContext(ctx).Create(pkg).Error; err != nil {
		return fmt.Errorf("create package: %w", err)
	}
	return nil
}

// UpdatePackage saves every field of an existing package.
func (r *Repository) UpdatePackage(ctx context.Context, pkg *models.Package) error {
	pkg.UpdatedAt = time.Now()
	res := r.db.WithContext(ctx).Model(&models.Package{}).Where("id = ?", pkg.ID).Select("*").Omit("id", "created_at").Updates(pkg)
	if res.Error != nil {
		return fmt.Errorf("update package %d: %w", pkg.ID, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
