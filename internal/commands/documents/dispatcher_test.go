package documentscmd

import (
	"context"
	"errors"
	"testing"

	"github.com/goliatone/go-command/dispatcher"
	"github.com/goliatone/go-command/runner"
	"github.com/google/uuid"
)

// flakyService fails the first deletes it sees.
type flakyService struct {
	stubService
	failures int
	attempts int
}

func (s *flakyService) DeleteDocument(ctx context.Context, collection string, id uuid.UUID) error {
	s.attempts++
	if s.attempts <= s.failures {
		return errors.New("store unavailable")
	}
	return s.stubService.DeleteDocument(ctx, collection, id)
}

func TestDispatcherRetriesDeleteUntilStoreRecovers(t *testing.T) {
	service := &flakyService{failures: 1}
	sub := dispatcher.SubscribeCommand(NewDeleteDocumentHandler(service, nil), runner.WithMaxRetries(1))
	t.Cleanup(sub.Unsubscribe)

	id := uuid.New()
	if err := dispatcher.Dispatch(context.Background(), DeleteDocumentCommand{Collection: "pages", ID: id, Tenant: "acme"}); err != nil {
		t.Fatalf("dispatch: expected success after retry, got %v", err)
	}
	if service.attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", service.attempts)
	}
	if len(service.deleted) != 1 || service.deleted[0] != id {
		t.Fatalf("expected document deleted once, got %v", service.deleted)
	}
	if service.tenants[0] != "acme" {
		t.Fatalf("expected tenant scope on retry, got %v", service.tenants)
	}
}

func TestDispatcherReturnsErrorWhenRetriesExhausted(t *testing.T) {
	service := &flakyService{failures: 5}
	sub := dispatcher.SubscribeCommand(NewDeleteDocumentHandler(service, nil), runner.WithMaxRetries(2))
	t.Cleanup(sub.Unsubscribe)

	err := dispatcher.Dispatch(context.Background(), DeleteDocumentCommand{Collection: "pages", ID: uuid.New()})
	if err == nil {
		t.Fatal("expected dispatcher to return error after exhausting retries")
	}
	if service.attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", service.attempts)
	}
	if len(service.deleted) != 0 {
		t.Fatalf("expected nothing deleted, got %v", service.deleted)
	}
}
