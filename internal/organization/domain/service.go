package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// ResolveTenant maps a principal to its single authoritative
	// organization. Returns 0 with no error when the user has no active
	// membership; callers decide whether that is neutral (reads) or a
	// failure (writes).
	ResolveTenant(ctx context.Context, userID snowflake.ID) (snowflake.ID, error)

	Create(ctx context.Context, req CreateOrganizationRequest) (*Organization, error)
	GetByID(ctx context.Context, id string) (*Organization, error)
	ListMembers(ctx context.Context) ([]Member, error)
	ApproveMember(ctx context.Context, memberID string) (*Member, error)
	SuspendMember(ctx context.Context, memberID string) (*Member, error)
}

type CreateOrganizationRequest struct {
	Name        string
	OrgType     string
	AdminUserID snowflake.ID
}

var (
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidOrgType      = errors.New("invalid_org_type")
	ErrInvalidUser         = errors.New("invalid_user")
	ErrInvalidMemberID     = errors.New("invalid_member_id")
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrDuplicateSlug       = errors.New("duplicate_slug")
	ErrNotFound            = errors.New("organization_not_found")
	ErrMemberNotFound      = errors.New("member_not_found")
)
