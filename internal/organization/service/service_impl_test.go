package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	auditdomain "github.com/kpharma/pharmgate/internal/audit/domain"
	"github.com/kpharma/pharmgate/internal/clock"
	"github.com/kpharma/pharmgate/internal/organization/domain"
	"github.com/kpharma/pharmgate/internal/organization/repository"
	"github.com/kpharma/pharmgate/internal/orgcontext"
)

type recordingAudit struct {
	entries []auditdomain.Entry
}

func (r *recordingAudit) Record(_ context.Context, entry auditdomain.Entry) error {
	r.entries = append(r.entries, entry)
	return nil
}

func (r *recordingAudit) List(context.Context, auditdomain.ListAuditLogRequest) (auditdomain.ListAuditLogResponse, error) {
	return auditdomain.ListAuditLogResponse{}, nil
}

type fixture struct {
	svc   domain.Service
	db    *gorm.DB
	node  *snowflake.Node
	clock *clock.FakeClock
	audit *recordingAudit
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	db.Exec(`CREATE TABLE IF NOT EXISTS organizations (
		id BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		org_type TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	db.Exec(`CREATE TABLE IF NOT EXISTS organization_members (
		id BIGINT PRIMARY KEY,
		org_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		role TEXT NOT NULL,
		status TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE (org_id, user_id)
	)`)

	node, err := snowflake.NewNode(6)
	require.NoError(t, err)

	fake := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	audit := &recordingAudit{}

	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		Clock:    fake,
		GenID:    node,
		Repo:     repository.Provide(db),
		AuditSvc: audit,
	})

	return &fixture{svc: svc, db: db, node: node, clock: fake, audit: audit}
}

func (f *fixture) seedMember(t *testing.T, orgID, userID snowflake.ID, role, status string, createdAt time.Time) snowflake.ID {
	t.Helper()
	id := f.node.Generate()
	err := f.db.Exec(
		`INSERT INTO organization_members (id, org_id, user_id, role, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id, orgID, userID, role, status, createdAt, createdAt,
	).Error
	require.NoError(t, err)
	return id
}

func TestCreateOrganizationSeedsAdminMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	adminID := f.node.Generate()

	org, err := f.svc.Create(ctx, domain.CreateOrganizationRequest{
		Name:        "Gangnam Branch Pharmacy",
		AdminUserID: adminID,
	})
	require.NoError(t, err)
	assert.Equal(t, "gangnam-branch-pharmacy", org.Slug)
	assert.Equal(t, domain.OrgTypeBranch, org.OrgType)

	resolved, err := f.svc.ResolveTenant(ctx, adminID)
	require.NoError(t, err)
	assert.Equal(t, org.ID, resolved)

	require.Len(t, f.audit.entries, 1)
	entry := f.audit.entries[0]
	assert.Equal(t, "organization.created", entry.Action)
	require.NotNil(t, entry.OrgID)
	assert.Equal(t, org.ID, *entry.OrgID)
}

func TestCreateOrganizationValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateOrganizationRequest{Name: "   ", AdminUserID: f.node.Generate()})
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = f.svc.Create(ctx, domain.CreateOrganizationRequest{Name: "x", OrgType: "franchise", AdminUserID: f.node.Generate()})
	assert.ErrorIs(t, err, domain.ErrInvalidOrgType)

	_, err = f.svc.Create(ctx, domain.CreateOrganizationRequest{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidUser)
}

func TestCreateOrganizationDuplicateSlug(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateOrganizationRequest{Name: "Mapo Branch", AdminUserID: f.node.Generate()})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, domain.CreateOrganizationRequest{Name: "Mapo  Branch", AdminUserID: f.node.Generate()})
	assert.ErrorIs(t, err, domain.ErrDuplicateSlug)
}

func TestResolveTenantEarliestActiveMembershipWins(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.node.Generate()
	orgA := f.node.Generate()
	orgB := f.node.Generate()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f.seedMember(t, orgB, userID, domain.RoleMember, domain.MemberStatusActive, base.Add(48*time.Hour))
	f.seedMember(t, orgA, userID, domain.RoleMember, domain.MemberStatusActive, base)

	resolved, err := f.svc.ResolveTenant(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, orgA, resolved)
}

func TestResolveTenantIgnoresInactiveMemberships(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.node.Generate()
	orgA := f.node.Generate()
	orgB := f.node.Generate()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	f.seedMember(t, orgA, userID, domain.RoleMember, domain.MemberStatusPending, base)
	f.seedMember(t, orgB, userID, domain.RoleMember, domain.MemberStatusActive, base.Add(time.Hour))

	resolved, err := f.svc.ResolveTenant(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, orgB, resolved)
}

func TestResolveTenantNoMembershipIsNeutral(t *testing.T) {
	f := newFixture(t)

	resolved, err := f.svc.ResolveTenant(context.Background(), f.node.Generate())
	require.NoError(t, err)
	assert.Equal(t, snowflake.ID(0), resolved)
}

func TestSuspendMemberInvalidatesResolverCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.node.Generate()
	orgID := f.node.Generate()

	memberID := f.seedMember(t, orgID, userID, domain.RoleMember, domain.MemberStatusActive,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	// warm the cache
	resolved, err := f.svc.ResolveTenant(ctx, userID)
	require.NoError(t, err)
	require.Equal(t, orgID, resolved)

	orgCtx := orgcontext.WithOrgID(ctx, orgID)
	member, err := f.svc.SuspendMember(orgCtx, memberID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.MemberStatusSuspended, member.Status)

	resolved, err = f.svc.ResolveTenant(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, snowflake.ID(0), resolved, "suspension must take effect immediately")

	require.Len(t, f.audit.entries, 1)
	entry := f.audit.entries[0]
	assert.Equal(t, "member.suspended", entry.Action)
	assert.Equal(t, domain.MemberStatusActive, entry.PreviousStatus)
	assert.Equal(t, domain.MemberStatusSuspended, entry.NewStatus)
}

func TestApproveMemberActivates(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.node.Generate()
	orgID := f.node.Generate()

	memberID := f.seedMember(t, orgID, userID, domain.RoleMember, domain.MemberStatusPending,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	orgCtx := orgcontext.WithOrgID(ctx, orgID)
	member, err := f.svc.ApproveMember(orgCtx, memberID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.MemberStatusActive, member.Status)

	resolved, err := f.svc.ResolveTenant(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, orgID, resolved)
}

func TestSetMemberStatusScopedToOrganization(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	userID := f.node.Generate()
	orgID := f.node.Generate()
	otherOrg := f.node.Generate()

	memberID := f.seedMember(t, orgID, userID, domain.RoleMember, domain.MemberStatusActive,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	otherCtx := orgcontext.WithOrgID(ctx, otherOrg)
	_, err := f.svc.SuspendMember(otherCtx, memberID.String())
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
	assert.Empty(t, f.audit.entries)
}

func TestListMembersRequiresOrganization(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.ListMembers(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)

	orgID := f.node.Generate()
	f.seedMember(t, orgID, f.node.Generate(), domain.RoleMember, domain.MemberStatusActive,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	f.seedMember(t, f.node.Generate(), f.node.Generate(), domain.RoleMember, domain.MemberStatusActive,
		time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))

	members, err := f.svc.ListMembers(orgcontext.WithOrgID(context.Background(), orgID))
	require.NoError(t, err)
	assert.Len(t, members, 1)
}

func TestGetByIDUnknownIsNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetByID(context.Background(), "not-a-snowflake")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = f.svc.GetByID(context.Background(), f.node.Generate().String())
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
