package rolegate

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

func newTestGate(t *testing.T) (*Gate, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	db.Exec(`CREATE TABLE IF NOT EXISTS legacy_role_events (
		id BIGINT PRIMARY KEY,
		actor_id TEXT NOT NULL,
		role TEXT NOT NULL,
		call_site TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	gate := New(Params{
		DB:     db,
		Log:    zap.NewNop(),
		GenID:  node,
		Holder: NewStaticConfigHolder(DefaultGateConfig()),
	})
	return gate, db
}

func TestParseClaim(t *testing.T) {
	assert.Equal(t, Role{Namespace: "kpa", Name: "operator"}, ParseClaim("kpa:operator"))
	assert.Equal(t, Role{Namespace: "platform", Name: "admin"}, ParseClaim("platform:admin"))
	assert.Equal(t, Role{Name: "admin"}, ParseClaim("admin"))
	assert.Equal(t, Role{Namespace: "kpa", Name: "branch_admin"}, ParseClaim("  KPA : Branch_Admin "))
	assert.True(t, ParseClaim("operator").IsLegacy())
	assert.False(t, ParseClaim("kpa:operator").IsLegacy())
}

func TestClassifyAllowListedRole(t *testing.T) {
	gate, _ := newTestGate(t)
	ctx := context.Background()

	assert.Equal(t, Allowed, gate.Classify(ctx, []string{"kpa:operator"}, "user-1", "test"))
	assert.Equal(t, Allowed, gate.Classify(ctx, []string{"kpa:branch_admin"}, "user-1", "test"))
	assert.Equal(t, Allowed, gate.Classify(ctx, []string{"kpa:admin"}, "user-1", "test"))
}

func TestClassifyOrderIndependent(t *testing.T) {
	gate, _ := newTestGate(t)
	ctx := context.Background()

	claims := []string{"platform:admin", "operator", "kpa:operator"}
	assert.Equal(t, Allowed, gate.Classify(ctx, claims, "user-1", "test"))

	reversed := []string{"kpa:operator", "operator", "platform:admin"}
	assert.Equal(t, Allowed, gate.Classify(ctx, reversed, "user-1", "test"))
}

func TestClassifyLegacyRoleDeniedWithSignal(t *testing.T) {
	gate, db := newTestGate(t)
	ctx := context.Background()

	decision := gate.Classify(ctx, []string{"admin"}, "user-7", "branch-admin.news")
	assert.Equal(t, Denied, decision)

	var count int64
	db.Model(&LegacyRoleEvent{}).Where("actor_id = ? AND role = ?", "user-7", "admin").Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestClassifyCrossServiceRoleDenied(t *testing.T) {
	gate, db := newTestGate(t)
	ctx := context.Background()

	assert.Equal(t, Denied, gate.Classify(ctx, []string{"platform:admin"}, "user-2", "test"))
	assert.Equal(t, Denied, gate.Classify(ctx, []string{"otherproduct:operator"}, "user-2", "test"))

	// cross-service denials do not produce legacy events
	var count int64
	db.Model(&LegacyRoleEvent{}).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestClassifyNonAllowListedNamespacedRoleDenied(t *testing.T) {
	gate, _ := newTestGate(t)
	ctx := context.Background()

	assert.Equal(t, Denied, gate.Classify(ctx, []string{"kpa:pharmacist"}, "user-3", "test"))
}

func TestClassifyEmptyClaimsDenied(t *testing.T) {
	gate, _ := newTestGate(t)
	ctx := context.Background()

	assert.Equal(t, Denied, gate.Classify(ctx, nil, "user-4", "test"))
	assert.Equal(t, Denied, gate.Classify(ctx, []string{"", "  "}, "user-4", "test"))
}
