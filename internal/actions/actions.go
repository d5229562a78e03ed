// Package actions is the server action layer: the only mutation surface the
// CLI and HTTP handlers talk to. Every operation authenticates first,
// returns a types.ActionResult envelope instead of an error, and notifies
// the revalidator after a successful mutation. Raw store errors never reach
// the caller; they are logged here and mapped to generic envelope messages.
package actions

import (
	"context"
	"errors"
	"log"

	"github.com/venturelab/workbench/internal/relate"
	"github.com/venturelab/workbench/pkg/types"
)

// User identifies the authenticated operator.
type User struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Authenticator resolves the operator behind a request. Implementations
// check a bearer token for the HTTP server or trust the local OS user for
// CLI use.
type Authenticator interface {
	Authenticate(ctx context.Context) (User, error)
}

// Revalidator is told which views went stale after a successful mutation.
// Calls are fire-and-forget; a slow or failing revalidator must never block
// or fail an action.
type Revalidator interface {
	Revalidate(paths ...string)
}

// LocalAuthenticator trusts the local operator unconditionally. Used by the
// CLI, where the OS login is the access boundary.
type LocalAuthenticator struct{}

// Authenticate returns the fixed local operator.
func (LocalAuthenticator) Authenticate(context.Context) (User, error) {
	return User{ID: "local", Name: "local operator"}, nil
}

// NopRevalidator discards revalidation notices.
type NopRevalidator struct{}

// Revalidate does nothing.
func (NopRevalidator) Revalidate(...string) {}

// Actions exposes every workspace operation behind authentication and the
// result envelope.
type Actions struct {
	store    relate.Store
	manager  *relate.Manager
	journeys *relate.Journeys
	auth     Authenticator
	reval    Revalidator
	log      *log.Logger
}

// New wires an action layer over store. Nil collaborators fall back to the
// local authenticator, a no-op revalidator, and the default logger.
func New(store relate.Store, auth Authenticator, reval Revalidator, logger *log.Logger) *Actions {
	if auth == nil {
		auth = LocalAuthenticator{}
	}
	if reval == nil {
		reval = NopRevalidator{}
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Actions{
		store:    store,
		manager:  relate.NewManager(store),
		journeys: relate.NewJourneys(store),
		auth:     auth,
		reval:    reval,
		log:      logger,
	}
}

// authenticate resolves the operator or produces the UNAUTHORIZED result.
func (a *Actions) authenticate(ctx context.Context) (User, *types.ActionResult) {
	user, err := a.auth.Authenticate(ctx)
	if err != nil {
		res := types.Fail(types.CodeUnauthorized, "authentication required")
		return User{}, &res
	}
	return user, nil
}

// validationErrs are sentinels that signal bad input rather than a broken
// store; their messages are safe to surface verbatim.
var validationErrs = []error{
	types.ErrInvalidEntityType,
	types.ErrInvalidLinkType,
	types.ErrInvalidStatus,
	types.ErrInvalidTitle,
	types.ErrInvalidName,
	types.ErrInvalidEvidenceType,
	types.ErrInvalidHatType,
	types.ErrInvalidFeedbackType,
	types.ErrInvalidChannel,
	types.ErrConfidenceRange,
	types.ErrMissingIdentifier,
	types.ErrDuplicateLink,
	types.ErrSequenceSetMismatch,
	types.ErrMoveOutOfRange,
	types.ErrSlotNotFound,
	types.ErrInvalidData,
	types.ErrInvalidID,
}

// failFrom maps an internal error to the envelope. Anything that is not a
// recognized validation or not-found sentinel is logged with its operation
// and reported as a generic storage failure.
func (a *Actions) failFrom(op string, err error) types.ActionResult {
	switch {
	case errors.Is(err, types.ErrNotFound):
		return types.Fail(types.CodeNotFound, "record not found")
	case errors.Is(err, types.ErrDuplicateSlug):
		return types.Fail(types.CodeValidationError, "slug already in use")
	}
	for _, sentinel := range validationErrs {
		if errors.Is(err, sentinel) {
			return types.Fail(types.CodeValidationError, sentinel.Error())
		}
	}
	a.log.Printf("%s: %v", op, err)
	return types.Fail(types.CodeDatabaseError, "storage operation failed")
}
