package handlers

import (
	"context"
	"testing"

	"github.com/wanderdesk/booking-api/internal/catalog"
	"github.com/wanderdesk/booking-api/internal/models"
)

// recordingLookup serves packages from a map and records invalidations.
type recordingLookup struct {
	cached      map[uint]models.Package
	invalidated []uint
}

func (r *recordingLookup) FindPackage(ctx context.Context, id uint) (*models.Package, error) {
	pkg, ok := r.cached[id]
	if !ok {
		return nil, catalog.ErrNotFound
	}
	return &pkg, nil
}

func (r *recordingLookup) Invalidate(ctx context.Context, id uint) {
	delete(r.cached, id)
	r.invalidated = append(r.invalidated, id)
}

func TestPackageHandler(t *testing.T) {
	env := newTestEnv(t)
	repo := catalog.NewRepository(env.db)
	h := NewPackageHandler(repo, catalog.NewCachedLookup(repo, nil, 0), env.auth)

	t.Run("Get", func(t *testing.T) {
		resp, err := h.HandleGet(context.Background(), &GetPackageRequest{ID: env.pkg.ID})
		if err != nil {
			t.Fatalf("HandleGet returned error: %v", err)
		}
		if resp.Body.Title != "Kerala Backwaters" {
			t.Errorf("unexpected title %q", resp.Body.Title)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		_, err := h.HandleGet(context.Background(), &GetPackageRequest{ID: 9999})
		if statusOf(err) != 404 {
			t.Errorf("expected 404, got %v", err)
		}
	})

	t.Run("CreateRequiresOperator", func(t *testing.T) {
		req := &CreatePackageRequest{}
		req.Body.Title = "Ladakh Loop"
		_, err := h.HandleCreate(context.Background(), req)
		if statusOf(err) != 401 {
			t.Errorf("expected 401, got %v", err)
		}
	})

	t.Run("CreateAndList", func(t *testing.T) {
		req := &CreatePackageRequest{}
		req.Body.Title = "Ladakh Loop"
		req.Body.Price = 65000
		created, err := h.HandleCreate(env.ctx, req)
		if err != nil {
			t.Fatalf("HandleCreate returned error: %v", err)
		}
		if created.Body.ID == 0 {
			t.Error("expected package to be assigned an id")
		}

		list, err := h.HandleList(context.Background(), &struct{}{})
		if err != nil {
			t.Fatalf("HandleList returned error: %v", err)
		}
		if len(list.Body) != 2 {
			t.Errorf("expected 2 packages, got %d", len(list.Body))
		}
	})
}

func TestPackageHandler_UpdateInvalidatesCache(t *testing.T) {
	env := newTestEnv(t)
	repo := catalog.NewRepository(env.db)
	lookup := &recordingLookup{cached: map[uint]models.Package{env.pkg.ID: env.pkg}}
	h := NewPackageHandler(repo, lookup, env.auth)

	req := &UpdatePackageRequest{ID: env.pkg.ID}
	req.Body.Title = "Kerala Backwaters Deluxe"
	req.Body.Price = 48000

	t.Run("RequiresOperator", func(t *testing.T) {
		_, err := h.HandleUpdate(context.Background(), req)
		if statusOf(err) != 401 {
			t.Errorf("expected 401, got %v", err)
		}
		if len(lookup.invalidated) != 0 {
			t.Error("cache must not be touched without an operator")
		}
	})

	t.Run("Update", func(t *testing.T) {
		resp, err := h.HandleUpdate(env.ctx, req)
		if err != nil {
			t.Fatalf("HandleUpdate returned error: %v", err)
		}
		if resp.Body.Price != 48000 {
			t.Errorf("expected price 48000, got %d", resp.Body.Price)
		}
		if len(lookup.invalidated) != 1 || lookup.invalidated[0] != env.pkg.ID {
			t.Errorf("expected package %d invalidated, got %v", env.pkg.ID, lookup.invalidated)
		}

		var stored models.Package
		env.db.First(&stored, env.pkg.ID)
		if stored.Title != "Kerala Backwaters Deluxe" {
			t.Errorf("expected stored title updated, got %q", stored.Title)
		}
	})

	t.Run("Missing", func(t *testing.T) {
		missing := &UpdatePackageRequest{ID: 9999}
		missing.Body.Title = "Nowhere"
		_, err := h.HandleUpdate(env.ctx, missing)
		if statusOf(err) != 404 {
			t.Errorf("expected 404, got %v", err)
		}
	})
}
