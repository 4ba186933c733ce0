package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateOrganization(ctx context.Context, org Organization) error
	FindOrganizationByID(ctx context.Context, id snowflake.ID) (*Organization, error)
	AddMember(ctx context.Context, member Member) error
	// FirstActiveMembership returns the earliest active membership for the
	// user, or nil when none exists. This lookup is the single source of
	// tenant scope.
	FirstActiveMembership(ctx context.Context, userID snowflake.ID) (*Member, error)
	ListMembers(ctx context.Context, orgID snowflake.ID) ([]Member, error)
	FindMember(ctx context.Context, orgID, memberID snowflake.ID) (*Member, error)
	UpdateMemberStatus(ctx context.Context, orgID, memberID snowflake.ID, status string) error
}
