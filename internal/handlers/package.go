package handlers

import (
	"context"
	"errors"
	"log"

	"github.com/danielgtaylor/huma/v2"
	"github.com/wanderdesk/booking-api/internal/auth"
	"github.com/wanderdesk/booking-api/internal/catalog"
	"github.com/wanderdesk/booking-api/internal/models"
)

// PackageLookup is the cached read path for packages.
type PackageLookup interface {
	catalog.Finder
	Invalidate(ctx context.Context, id uint)
}

type PackageHandler struct {
	repo        *catalog.Repository
	lookup      PackageLookup
	authHandler *auth.AuthHandler
}

func NewPackageHandler(repo *catalog.Repository, lookup PackageLookup, authHandler *auth.AuthHandler) *PackageHandler {
	return &PackageHandler{repo: repo, lookup: lookup, authHandler: authHandler}
}

type ListPackagesResponse struct {
	Body []models.Package
}

func (h *PackageHandler) HandleList(ctx context.Context, input *struct{}) (*ListPackagesResponse, error) {
	pkgs, err := h.repo.ListPackages(ctx)
	if err != nil {
		log.Printf("Failed to list packages: %v", err)
		return nil, huma.Error500InternalServerError("Failed to list packages")
	}
	if pkgs == nil {
		pkgs = []models.Package{}
	}
	return &ListPackagesResponse{Body: pkgs}, nil
}

type GetPackageRequest struct {
	ID uint `path:"id"`
}

type PackageResponse struct {
	Body *models.Package
}

func (h *PackageHandler) HandleGet(ctx context.Context, input *GetPackageRequest) (*PackageResponse, error) {
	pkg, err := h.lookup.FindPackage(ctx, input.ID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, huma.Error404NotFound("Package not found")
		}
		log.Printf("Failed to load package %d: %v", input.ID, err)
		return nil, huma.Error500InternalServerError("Failed to load package")
	}
	return &PackageResponse{Body: pkg}, nil
}

type PackageBody struct {
	Title        string `json:"title" doc:"Package title" minLength:"1"`
	Description  string `json:"description,omitempty"`
	Destinations string `json:"destinations,omitempty" doc:"Comma separated destinations"`
	Duration     string `json:"duration,omitempty" doc:"e.g. 7 Days / 6 Nights"`
	Price        int64  `json:"price" doc:"Price per traveler in whole currency units" minimum:"0"`
	ImageURL     string `json:"image_url,omitempty"`
}

func (b PackageBody) apply(pkg *models.Package) {
	pkg.Title = b.Title
	pkg.Description = b.Description
	pkg.Destinations = b.Destinations
	pkg.Duration = b.Duration
	pkg.Price = b.Price
	pkg.ImageURL = b.ImageURL
}

type CreatePackageRequest struct {
	auth.AuthInput
	Body PackageBody
}

func (h *PackageHandler) HandleCreate(ctx context.Context, input *CreatePackageRequest) (*PackageResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	pkg := &models.Package{}
	input.Body.apply(pkg)
	if err := h.repo.CreatePackage(ctx, pkg); err != nil {
		log.Printf("Failed to create package: %v", err)
		return nil, huma.Error500InternalServerError("Failed to create package")
	}

	return &PackageResponse{Body: pkg}, nil
}

type UpdatePackageRequest struct {
	auth.AuthInput
	ID   uint `path:"id"`
	Body PackageBody
}

// HandleUpdate replaces a package's fields and drops its cached copy.
func (h *PackageHandler) HandleUpdate(ctx context.Context, input *UpdatePackageRequest) (*PackageResponse, error) {
	if _, err := h.authHandler.Authorize(ctx, input.AuthInput); err != nil {
		return nil, err
	}

	pkg, err := h.repo.FindPackage(ctx, input.ID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, huma.Error404NotFound("Package not found")
		}
		log.Printf("Failed to load package %d: %v", input.ID, err)
		return nil, huma.Error500InternalServerError("Failed to update package")
	}

	input.Body.apply(pkg)
	if err := h.repo.UpdatePackage(ctx, pkg); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			return nil, huma.Error404NotFound("Package not found")
		}
		log.Printf("Failed to update package %d: %v", input.ID, err)
		return nil, huma.Error500InternalServerError("Failed to update package")
	}
	h.lookup.Invalidate(ctx, pkg.ID)

	return &PackageResponse{Body: pkg}, nil
}
