// Package authorization decides whether an actor may perform an action on an
// object inside an organization. Policies live in casbin backed by the
// gorm adapter; role membership comes from organization_members.
package authorization

import (
	"context"
	"errors"
)

var (
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidActor        = errors.New("invalid_actor")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidObject       = errors.New("invalid_object")
	ErrInvalidAction       = errors.New("invalid_action")
)

type Service interface {
	// Authorize returns nil when the actor may perform action on object
	// within orgID. Denials are logged and counted but never written to the
	// audit trail.
	Authorize(ctx context.Context, actor string, orgID string, object string, action string) error
}
