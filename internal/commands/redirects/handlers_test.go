package redirectscmd

import (
	"context"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-pagetree/internal/redirects"
	"github.com/goliatone/go-pagetree/internal/tenancy"
	"github.com/google/uuid"
)

type stubService struct {
	saved   []*redirects.Redirect
	tenant  string
	deleted []uuid.UUID
}

func (s *stubService) SaveRedirect(ctx context.Context, record *redirects.Redirect) (*redirects.Redirect, error) {
	s.tenant, _ = tenancy.FromContext(ctx)
	s.saved = append(s.saved, record)
	out := *record
	out.ID = uuid.New()
	return &out, nil
}

func (s *stubService) DeleteRedirect(_ context.Context, id uuid.UUID) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func TestSaveRedirectHandler(t *testing.T) {
	service := &stubService{}
	handler := NewSaveRedirectHandler(service, nil)

	var saved *redirects.Redirect
	err := handler.Execute(context.Background(), SaveRedirectCommand{
		Tenant:          "acme",
		SourcePath:      "/old",
		DestinationPath: "/new",
		RedirectType:    redirects.TypeTemporary,
		Saved:           func(r *redirects.Redirect) { saved = r },
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if service.tenant != "acme" {
		t.Fatalf("expected tenant in context, got %q", service.tenant)
	}
	got := service.saved[0]
	if got.SourcePath != "/old" || got.DestinationPath != "/new" || got.Type != redirects.TypeTemporary {
		t.Fatalf("unexpected redirect %+v", got)
	}
	if saved == nil || saved.ID == uuid.Nil {
		t.Fatalf("expected saved callback, got %+v", saved)
	}
}

func TestSaveRedirectCommandRequiresPaths(t *testing.T) {
	service := &stubService{}
	handler := NewSaveRedirectHandler(service, nil)

	err := handler.Execute(context.Background(), SaveRedirectCommand{SourcePath: "/old"})
	if !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
	if len(service.saved) != 0 {
		t.Fatalf("expected service not to run")
	}
}

func TestDeleteRedirectHandler(t *testing.T) {
	service := &stubService{}
	handler := NewDeleteRedirectHandler(service, nil)

	id := uuid.New()
	if err := handler.Execute(context.Background(), DeleteRedirectCommand{ID: id}); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if len(service.deleted) != 1 || service.deleted[0] != id {
		t.Fatalf("expected delete of %s, got %v", id, service.deleted)
	}
	if err := handler.Execute(context.Background(), DeleteRedirectCommand{}); !goerrors.IsCategory(err, goerrors.CategoryValidation) {
		t.Fatalf("expected validation category, got %v", err)
	}
}
