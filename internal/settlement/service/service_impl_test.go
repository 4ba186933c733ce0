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
	"github.com/kpharma/pharmgate/internal/orgcontext"
	"github.com/kpharma/pharmgate/internal/settlement/domain"
	"github.com/kpharma/pharmgate/internal/settlement/repository"
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

	db.Exec(`CREATE TABLE IF NOT EXISTS settlement_batches (
		id BIGINT PRIMARY KEY,
		org_id BIGINT NOT NULL,
		settlement_type TEXT NOT NULL,
		period_start TIMESTAMP NOT NULL,
		period_end TIMESTAMP NOT NULL,
		status TEXT NOT NULL,
		total_amount BIGINT NOT NULL,
		commission_amount BIGINT NOT NULL,
		deduction_amount BIGINT NOT NULL,
		net_amount BIGINT NOT NULL,
		party_type TEXT NOT NULL,
		party_id BIGINT NOT NULL,
		closed_at TIMESTAMP,
		paid_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`)
	db.Exec(`CREATE TABLE IF NOT EXISTS settlement_items (
		id BIGINT PRIMARY KEY,
		org_id BIGINT NOT NULL,
		batch_id BIGINT NOT NULL,
		order_no TEXT NOT NULL,
		item_name TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		unit_price BIGINT NOT NULL,
		line_total BIGINT NOT NULL,
		commission_rate REAL NOT NULL,
		commission_amount BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL
	)`)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	fakeClock := clock.NewFakeClock(time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))
	audit := &recordingAudit{}

	svc := New(Params{
		DB:       db,
		Log:      zap.NewNop(),
		Clock:    fakeClock,
		GenID:    node,
		Repo:     repository.Provide(),
		AuditSvc: audit,
	})

	return &fixture{svc: svc, db: db, node: node, clock: fakeClock, audit: audit}
}

func (f *fixture) seedBatch(t *testing.T, orgID snowflake.ID, status domain.Status) *domain.SettlementBatch {
	t.Helper()

	batch := &domain.SettlementBatch{
		ID:               f.node.Generate(),
		OrgID:            orgID,
		SettlementType:   domain.SettlementTypeSeller,
		PeriodStart:      time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:        time.Date(2025, 5, 31, 23, 59, 59, 0, time.UTC),
		Status:           status,
		TotalAmount:      150_000,
		CommissionAmount: 15_000,
		DeductionAmount:  5_000,
		NetAmount:        130_000,
		PartyType:        "seller",
		PartyID:          f.node.Generate(),
		CreatedAt:        f.clock.Now(),
		UpdatedAt:        f.clock.Now(),
	}
	require.NoError(t, f.db.Create(batch).Error)
	return batch
}

func orgCtx(orgID snowflake.ID) context.Context {
	return orgcontext.WithOrgID(context.Background(), orgID)
}

func TestTransitionConfirm(t *testing.T) {
	f := newFixture(t)
	orgID := f.node.Generate()
	batch := f.seedBatch(t, orgID, domain.StatusOpen)

	got, err := f.svc.Transition(orgCtx(orgID), domain.TransitionRequest{
		BatchID: batch.ID.String(),
		Action:  domain.ActionConfirm,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusClosed, got.Status)
	require.NotNil(t, got.ClosedAt)
	assert.Equal(t, f.clock.Now(), got.ClosedAt.UTC())
	assert.Nil(t, got.PaidAt)

	var stored domain.SettlementBatch
	require.NoError(t, f.db.First(&stored, "id = ?", batch.ID).Error)
	assert.Equal(t, domain.StatusClosed, stored.Status)

	require.Len(t, f.audit.entries, 1)
	entry := f.audit.entries[0]
	assert.Equal(t, "SETTLEMENT_CONFIRMED", entry.Action)
	assert.Equal(t, "settlement_batch", entry.TargetType)
	assert.Equal(t, batch.ID.String(), entry.TargetID)
	assert.Equal(t, "open", entry.PreviousStatus)
	assert.Equal(t, "closed", entry.NewStatus)
	assert.Equal(t, int64(130_000), entry.Details["net_amount"])
}

func TestTransitionFullLifecycle(t *testing.T) {
	f := newFixture(t)
	orgID := f.node.Generate()
	batch := f.seedBatch(t, orgID, domain.StatusOpen)
	ctx := orgCtx(orgID)

	steps := []struct {
		action domain.Action
		reason string
		want   domain.Status
	}{
		{domain.ActionConfirm, "", domain.StatusClosed},
		{domain.ActionStartProcessing, "", domain.StatusProcessing},
		{domain.ActionMarkFailed, "bank transfer bounced", domain.StatusFailed},
		{domain.ActionRetry, "", domain.StatusProcessing},
		{domain.ActionMarkPaid, "", domain.StatusPaid},
	}
	for _, step := range steps {
		got, err := f.svc.Transition(ctx, domain.TransitionRequest{
			BatchID: batch.ID.String(),
			Action:  step.action,
			Reason:  step.reason,
		})
		require.NoError(t, err, string(step.action))
		assert.Equal(t, step.want, got.Status)
	}

	final, err := f.svc.GetByID(ctx, batch.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, final.Status)
	require.NotNil(t, final.PaidAt)
	assert.Len(t, f.audit.entries, 5)
}

func TestTransitionIllegalMutatesNothing(t *testing.T) {
	f := newFixture(t)
	orgID := f.node.Generate()
	batch := f.seedBatch(t, orgID, domain.StatusOpen)

	_, err := f.svc.Transition(orgCtx(orgID), domain.TransitionRequest{
		BatchID: batch.ID.String(),
		Action:  domain.ActionMarkPaid,
	})
	require.ErrorIs(t, err, domain.ErrIllegalTransition)

	var stored domain.SettlementBatch
	require.NoError(t, f.db.First(&stored, "id = ?", batch.ID).Error)
	assert.Equal(t, domain.StatusOpen, stored.Status)
	assert.Nil(t, stored.PaidAt)
	assert.Empty(t, f.audit.entries)
}

func TestTransitionTerminalStatesRejectEverything(t *testing.T) {
	f := newFixture(t)
	orgID := f.node.Generate()
	paid := f.seedBatch(t, orgID, domain.StatusPaid)
	cancelled := f.seedBatch(t, orgID, domain.StatusCancelled)

	actions := []domain.Action{
		domain.ActionConfirm,
		domain.ActionStartProcessing,
		domain.ActionMarkPaid,
		domain.ActionMarkFailed,
		domain.ActionRetry,
	}
	for _, batch := range []*domain.SettlementBatch{paid, cancelled} {
		for _, action := range actions {
			_, err := f.svc.Transition(orgCtx(orgID), domain.TransitionRequest{
				BatchID: batch.ID.String(),
				Action:  action,
				Reason:  "why not",
			})
			require.ErrorIs(t, err, domain.ErrIllegalTransition)
		}
	}
	assert.Empty(t, f.audit.entries)
}

func TestTransitionMarkFailedRequiresReason(t *testing.T) {
	f := newFixture(t)
	orgID := f.node.Generate()
	batch := f.seedBatch(t, orgID, domain.StatusProcessing)

	_, err := f.svc.Transition(orgCtx(orgID), domain.TransitionRequest{
		BatchID: batch.ID.String(),
		Action:  domain.ActionMarkFailed,
		Reason:  "   ",
	})
	require.ErrorIs(t, err, domain.ErrReasonRequired)

	var stored domain.SettlementBatch
	require.NoError(t, f.db.First(&stored, "id = ?", batch.ID).Error)
	assert.Equal(t, domain.StatusProcessing, stored.Status)
	assert.Empty(t, f.audit.entries)
}

func TestTransitionCrossTenantLooksNonexistent(t *testing.T) {
	f := newFixture(t)
	ownerOrg := f.node.Generate()
	otherOrg := f.node.Generate()
	batch := f.seedBatch(t, ownerOrg, domain.StatusOpen)

	_, err := f.svc.Transition(orgCtx(otherOrg), domain.TransitionRequest{
		BatchID: batch.ID.String(),
		Action:  domain.ActionConfirm,
	})
	require.ErrorIs(t, err, domain.ErrNotFound)

	var stored domain.SettlementBatch
	require.NoError(t, f.db.First(&stored, "id = ?", batch.ID).Error)
	assert.Equal(t, domain.StatusOpen, stored.Status)
}

func TestTransitionUnknownAction(t *testing.T) {
	f := newFixture(t)
	orgID := f.node.Generate()
	batch := f.seedBatch(t, orgID, domain.StatusOpen)

	_, err := f.svc.Transition(orgCtx(orgID), domain.TransitionRequest{
		BatchID: batch.ID.String(),
		Action:  domain.Action("obliterate"),
	})
	require.ErrorIs(t, err, domain.ErrUnknownAction)
}

func TestTransitionMissingOrganization(t *testing.T) {
	f := newFixture(t)
	batch := f.seedBatch(t, f.node.Generate(), domain.StatusOpen)

	_, err := f.svc.Transition(context.Background(), domain.TransitionRequest{
		BatchID: batch.ID.String(),
		Action:  domain.ActionConfirm,
	})
	require.ErrorIs(t, err, domain.ErrInvalidOrganization)
}

func TestListScopedToOrganization(t *testing.T) {
	f := newFixture(t)
	orgA := f.node.Generate()
	orgB := f.node.Generate()
	f.seedBatch(t, orgA, domain.StatusOpen)
	f.seedBatch(t, orgA, domain.StatusPaid)
	f.seedBatch(t, orgB, domain.StatusOpen)

	resp, err := f.svc.List(orgCtx(orgA), domain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Batches, 2)
	for _, batch := range resp.Batches {
		assert.Equal(t, orgA, batch.OrgID)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	f := newFixture(t)
	orgID := f.node.Generate()
	f.seedBatch(t, orgID, domain.StatusOpen)
	paid := f.seedBatch(t, orgID, domain.StatusPaid)

	resp, err := f.svc.List(orgCtx(orgID), domain.ListRequest{Status: "paid"})
	require.NoError(t, err)
	require.Len(t, resp.Batches, 1)
	assert.Equal(t, paid.ID, resp.Batches[0].ID)
}

func TestListRejectsMalformedPageToken(t *testing.T) {
	f := newFixture(t)
	orgID := f.node.Generate()

	req := domain.ListRequest{}
	req.PageToken = "not-a-cursor"
	_, err := f.svc.List(orgCtx(orgID), req)
	require.ErrorIs(t, err, domain.ErrInvalidPageToken)
}

func TestListItemsScoped(t *testing.T) {
	f := newFixture(t)
	orgID := f.node.Generate()
	batch := f.seedBatch(t, orgID, domain.StatusOpen)

	item := domain.SettlementItem{
		ID:               f.node.Generate(),
		OrgID:            orgID,
		BatchID:          batch.ID,
		OrderNo:          "ORD-2025-0001",
		ItemName:         "Loratadine 10mg",
		Quantity:         3,
		UnitPrice:        4_500,
		LineTotal:        13_500,
		CommissionRate:   0.1,
		CommissionAmount: 1_350,
		CreatedAt:        f.clock.Now(),
	}
	require.NoError(t, f.db.Create(&item).Error)

	items, err := f.svc.ListItems(orgCtx(orgID), batch.ID.String())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ORD-2025-0001", items[0].OrderNo)

	items, err = f.svc.ListItems(orgCtx(f.node.Generate()), batch.ID.String())
	require.NoError(t, err)
	assert.Empty(t, items)
}
