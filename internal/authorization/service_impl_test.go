package authorization

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (Service, *gorm.DB, *snowflake.Node) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	db.Exec(`CREATE TABLE IF NOT EXISTS organization_members (
		id BIGINT PRIMARY KEY,
		org_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		role TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)

	enforcer, err := NewEnforcer(db)
	require.NoError(t, err)

	node, err := snowflake.NewNode(4)
	require.NoError(t, err)

	svc := NewService(Params{DB: db, Log: zap.NewNop(), Enforcer: enforcer})
	return svc, db, node
}

func seedMember(t *testing.T, db *gorm.DB, node *snowflake.Node, orgID, userID snowflake.ID, role, status string) {
	t.Helper()
	require.NoError(t, db.Exec(
		`INSERT INTO organization_members (id, org_id, user_id, role, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)`,
		node.Generate(), orgID, userID, role, status,
	).Error)
}

func TestAuthorizeByRole(t *testing.T) {
	svc, db, node := newTestService(t)
	ctx := context.Background()
	orgID := node.Generate()

	member := node.Generate()
	operator := node.Generate()
	admin := node.Generate()
	seedMember(t, db, node, orgID, member, "member", "active")
	seedMember(t, db, node, orgID, operator, "operator", "active")
	seedMember(t, db, node, orgID, admin, "admin", "active")

	// members read, never write
	assert.NoError(t, svc.Authorize(ctx, "user:"+member.String(), orgID.String(), ObjectBranchNews, ActionView))
	assert.ErrorIs(t, svc.Authorize(ctx, "user:"+member.String(), orgID.String(), ObjectBranchNews, ActionCreate), ErrForbidden)
	assert.ErrorIs(t, svc.Authorize(ctx, "user:"+member.String(), orgID.String(), ObjectSettlement, ActionTransition), ErrForbidden)

	// operators manage content and run transitions
	assert.NoError(t, svc.Authorize(ctx, "user:"+operator.String(), orgID.String(), ObjectBranchNews, ActionCreate))
	assert.NoError(t, svc.Authorize(ctx, "user:"+operator.String(), orgID.String(), ObjectSettlement, ActionTransition))
	assert.NoError(t, svc.Authorize(ctx, "user:"+operator.String(), orgID.String(), ObjectOrderRelay, ActionTransition))
	assert.ErrorIs(t, svc.Authorize(ctx, "user:"+operator.String(), orgID.String(), ObjectBranchSettings, ActionUpdate), ErrForbidden)
	assert.ErrorIs(t, svc.Authorize(ctx, "user:"+operator.String(), orgID.String(), ObjectAuditLog, ActionView), ErrForbidden)

	// admins additionally manage settings and read the audit trail
	assert.NoError(t, svc.Authorize(ctx, "user:"+admin.String(), orgID.String(), ObjectBranchSettings, ActionUpdate))
	assert.NoError(t, svc.Authorize(ctx, "user:"+admin.String(), orgID.String(), ObjectAuditLog, ActionView))
}

func TestAuthorizeNonMemberForbidden(t *testing.T) {
	svc, _, node := newTestService(t)

	err := svc.Authorize(context.Background(), "user:"+node.Generate().String(), node.Generate().String(), ObjectBranchNews, ActionView)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAuthorizeSuspendedMemberForbidden(t *testing.T) {
	svc, db, node := newTestService(t)
	orgID := node.Generate()
	userID := node.Generate()
	seedMember(t, db, node, orgID, userID, "admin", "suspended")

	err := svc.Authorize(context.Background(), "user:"+userID.String(), orgID.String(), ObjectBranchNews, ActionView)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAuthorizeRoleScopedToOrganization(t *testing.T) {
	svc, db, node := newTestService(t)
	ctx := context.Background()
	orgA := node.Generate()
	orgB := node.Generate()
	userID := node.Generate()
	seedMember(t, db, node, orgA, userID, "admin", "active")

	assert.NoError(t, svc.Authorize(ctx, "user:"+userID.String(), orgA.String(), ObjectBranchSettings, ActionUpdate))
	assert.ErrorIs(t, svc.Authorize(ctx, "user:"+userID.String(), orgB.String(), ObjectBranchSettings, ActionUpdate), ErrForbidden)
}

func TestAuthorizeSystemActor(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx := context.Background()
	orgID := node.Generate()

	assert.NoError(t, svc.Authorize(ctx, "system", orgID.String(), ObjectSettlement, ActionTransition))
	assert.ErrorIs(t, svc.Authorize(ctx, "system", orgID.String(), ObjectBranchNews, ActionDelete), ErrForbidden)
}

func TestAuthorizeInvalidInput(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx := context.Background()
	orgID := node.Generate().String()

	assert.ErrorIs(t, svc.Authorize(ctx, "", orgID, ObjectBranchNews, ActionView), ErrInvalidActor)
	assert.ErrorIs(t, svc.Authorize(ctx, "wizard:42", orgID, ObjectBranchNews, ActionView), ErrInvalidActor)
	assert.ErrorIs(t, svc.Authorize(ctx, "user:abc", orgID, ObjectBranchNews, ActionView), ErrInvalidActor)
	assert.ErrorIs(t, svc.Authorize(ctx, "system", "", ObjectBranchNews, ActionView), ErrInvalidOrganization)
	assert.ErrorIs(t, svc.Authorize(ctx, "system", orgID, "", ActionView), ErrInvalidObject)
	assert.ErrorIs(t, svc.Authorize(ctx, "system", orgID, ObjectBranchNews, ""), ErrInvalidAction)
}
