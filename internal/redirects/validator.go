package redirects

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-pagetree/internal/logging"
	"github.com/goliatone/go-pagetree/pkg/interfaces"
	"github.com/google/uuid"
)

// Validator rejects redirects that duplicate a source or would loop.
//
// The loop check counts redirects leaving the new destination or entering the
// new source. Two or more are treated as a loop, so a plain chain through both
// ends is rejected as well.
type Validator struct {
	store  Store
	filter ValidationFilter
	logger interfaces.Logger
}

// ValidatorOption configures a Validator.
type ValidatorOption func(*Validator)

// WithValidationFilter scopes the checks.
func WithValidationFilter(filter ValidationFilter) ValidatorOption {
	return func(v *Validator) {
		v.filter = filter
	}
}

// WithLogger sets the validator logger.
func WithLogger(logger interfaces.Logger) ValidatorOption {
	return func(v *Validator) {
		if logger != nil {
			v.logger = logger
		}
	}
}

// NewValidator builds a Validator reading from store.
func NewValidator(store Store, opts ...ValidatorOption) *Validator {
	v := &Validator{store: store, logger: logging.NoOp()}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// BeforeValidate checks draft against the stored redirects. existing is the
// stored record on update and nil on create; it is excluded from every check.
// The returned draft has trimmed paths and a default type.
func (v *Validator) BeforeValidate(ctx context.Context, draft, existing *Redirect) (*Redirect, error) {
	if v == nil || v.store == nil {
		return nil, ErrStoreUnconfigured
	}
	if draft == nil {
		return nil, invalidRedirect(errors.New("redirect is required"))
	}

	out := *draft
	out.SourcePath = strings.TrimSpace(out.SourcePath)
	out.DestinationPath = strings.TrimSpace(out.DestinationPath)
	if out.Type == "" {
		out.Type = TypePermanent
	}
	if existing != nil {
		out.ID = existing.ID
		if out.Tenant == "" {
			out.Tenant = existing.Tenant
		}
	}
	if err := Validate(&out); err != nil {
		return nil, invalidRedirect(err)
	}

	scope := v.scope(ctx, &out)
	logger := logging.WithFields(v.logger, map[string]any{
		"source_path":      out.SourcePath,
		"destination_path": out.DestinationPath,
	})

	sameSource := scope
	sameSource.SourcePath = &out.SourcePath
	if n, err := v.store.Count(ctx, sameSource); err != nil {
		return nil, fmt.Errorf("count redirects from %s: %w", out.SourcePath, err)
	} else if n > 0 {
		logger.Info("redirect.rejected", "reason", "source_exists")
		return nil, conflict(&ConflictError{
			Err:             ErrSourceExists,
			SourcePath:      out.SourcePath,
			DestinationPath: out.DestinationPath,
			Message:         fmt.Sprintf("a redirect from %s already exists", out.SourcePath),
		}, CodeSourceExists)
	}

	opposite := scope
	opposite.SourcePath = &out.DestinationPath
	opposite.DestinationPath = &out.SourcePath
	if n, err := v.store.Count(ctx, opposite); err != nil {
		return nil, fmt.Errorf("count redirects from %s to %s: %w", out.DestinationPath, out.SourcePath, err)
	} else if n > 0 {
		logger.Info("redirect.rejected", "reason", "direct_loop")
		return nil, conflict(&ConflictError{
			Err:             ErrDirectLoop,
			SourcePath:      out.SourcePath,
			DestinationPath: out.DestinationPath,
			Message:         fmt.Sprintf("a redirect from %s to %s already exists, this one would create a loop", out.DestinationPath, out.SourcePath),
		}, CodeDirectLoop)
	}

	touching := opposite
	touching.MatchAny = true
	if n, err := v.store.Count(ctx, touching); err != nil {
		return nil, fmt.Errorf("count redirects touching %s and %s: %w", out.SourcePath, out.DestinationPath, err)
	} else if n >= 2 {
		logger.Info("redirect.rejected", "reason", "transitive_loop", "matches", n)
		return nil, conflict(&ConflictError{
			Err:             ErrTransitiveLoop,
			SourcePath:      out.SourcePath,
			DestinationPath: out.DestinationPath,
			Message:         fmt.Sprintf("redirects from %s and to %s already exist, this one would close a loop", out.DestinationPath, out.SourcePath),
		}, CodeTransitiveLoop)
	}

	logger.Debug("redirect.accepted")
	return &out, nil
}

func (v *Validator) scope(ctx context.Context, draft *Redirect) Filter {
	scope := Filter{}
	if v.filter != nil {
		scope = v.filter(ctx)
	}
	if scope.Tenant == nil && draft.Tenant != "" {
		tenant := draft.Tenant
		scope.Tenant = &tenant
	}
	if draft.ID != uuid.Nil {
		scope.ExcludeID = draft.ID
	}
	scope.SourcePath = nil
	scope.DestinationPath = nil
	scope.MatchAny = false
	return scope
}

// Validate checks the fields of r on their own.
func Validate(r *Redirect) error {
	return validation.ValidateStruct(r,
		validation.Field(&r.SourcePath, validation.Required, validation.By(absolutePath)),
		validation.Field(&r.DestinationPath,
			validation.Required,
			validation.By(absolutePath),
			validation.NotIn(r.SourcePath).Error("must differ from the source path"),
		),
		validation.Field(&r.Type, validation.In(TypePermanent, TypeTemporary)),
	)
}

func absolutePath(value any) error {
	path, _ := value.(string)
	if path != "" && !strings.HasPrefix(path, "/") {
		return validation.NewError("validation_path_absolute", "must start with /")
	}
	return nil
}
