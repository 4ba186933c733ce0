package authorization

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:embed model.conf
var modelText string

const (
	ObjectBranchNews     = "branch_news"
	ObjectBranchOfficer  = "branch_officer"
	ObjectBranchDoc      = "branch_doc"
	ObjectBranchSettings = "branch_settings"
	ObjectSettlement     = "settlement"
	ObjectOrderRelay     = "order_relay"
	ObjectAuditLog       = "audit_log"
)

const (
	ActionView       = "view"
	ActionCreate     = "create"
	ActionUpdate     = "update"
	ActionDelete     = "delete"
	ActionTransition = "transition"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Enforcer *casbin.SyncedEnforcer
}

type ServiceImpl struct {
	db       *gorm.DB
	log      *zap.Logger
	enforcer *casbin.SyncedEnforcer
}

func NewEnforcer(db *gorm.DB) (*casbin.SyncedEnforcer, error) {
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, err
	}
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}
	enforcer, err := casbin.NewSyncedEnforcer(m, adapter)
	if err != nil {
		return nil, err
	}
	enforcer.EnableAutoSave(true)
	enforcer.EnableAutoBuildRoleLinks(true)
	if err := enforcer.LoadPolicy(); err != nil {
		return nil, err
	}
	if err := seedPolicies(enforcer); err != nil {
		return nil, err
	}
	enforcer.BuildRoleLinks()
	return enforcer, nil
}

func NewService(p Params) Service {
	return &ServiceImpl{
		db:       p.DB,
		log:      p.Log.Named("authorization.service"),
		enforcer: p.Enforcer,
	}
}

func (s *ServiceImpl) Authorize(ctx context.Context, actor string, orgID string, object string, action string) error {
	actor = strings.TrimSpace(actor)
	if actor == "" {
		return ErrInvalidActor
	}
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return ErrInvalidOrganization
	}
	object = strings.TrimSpace(object)
	if object == "" {
		return ErrInvalidObject
	}
	action = strings.TrimSpace(action)
	if action == "" {
		return ErrInvalidAction
	}

	subject, roleName, err := s.resolveActor(ctx, actor, orgID)
	if err != nil {
		s.signalDenied(actor, orgID, object, action)
		return err
	}

	dom := fmt.Sprintf("org:%s", orgID)
	if err := s.ensureGrouping(subject, roleName, dom); err != nil {
		return err
	}

	allowed, err := s.enforcer.Enforce(subject, dom, object, action)
	if err != nil {
		return err
	}
	if !allowed {
		s.signalDenied(actor, orgID, object, action)
		return ErrForbidden
	}
	return nil
}

func (s *ServiceImpl) resolveActor(ctx context.Context, actor string, orgID string) (string, string, error) {
	if actor == "system" {
		return actor, "role:system", nil
	}
	if strings.HasPrefix(actor, "user:") {
		userIDRaw := strings.TrimPrefix(actor, "user:")
		userID, err := snowflake.ParseString(userIDRaw)
		if err != nil || userID == 0 {
			return "", "", ErrInvalidActor
		}
		parsedOrgID, err := snowflake.ParseString(orgID)
		if err != nil || parsedOrgID == 0 {
			return "", "", ErrInvalidOrganization
		}
		role, err := s.roleForUser(ctx, parsedOrgID, userID)
		if err != nil {
			return "", "", err
		}
		return actor, fmt.Sprintf("role:%s", strings.ToLower(role)), nil
	}
	return "", "", ErrInvalidActor
}

func (s *ServiceImpl) roleForUser(ctx context.Context, orgID snowflake.ID, userID snowflake.ID) (string, error) {
	var row struct {
		Role string `gorm:"column:role"`
	}
	if err := s.db.WithContext(ctx).Raw(
		`SELECT role
		 FROM organization_members
		 WHERE org_id = ? AND user_id = ? AND status = 'active'
		 LIMIT 1`,
		orgID,
		userID,
	).Scan(&row).Error; err != nil {
		return "", err
	}

	role := strings.TrimSpace(row.Role)
	if role == "" {
		return "", ErrForbidden
	}
	return role, nil
}

func (s *ServiceImpl) ensureGrouping(subject string, roleName string, dom string) error {
	existing, err := s.enforcer.GetFilteredGroupingPolicy(0, subject, "", dom)
	if err != nil {
		return err
	}
	for _, rule := range existing {
		if len(rule) < 2 {
			continue
		}
		if rule[1] != roleName {
			params := make([]interface{}, 0, len(rule))
			for _, value := range rule {
				params = append(params, value)
			}
			_, _ = s.enforcer.RemoveGroupingPolicy(params...)
		}
	}

	has, err := s.enforcer.HasGroupingPolicy(subject, roleName, dom)
	if err != nil {
		return err
	}
	if has {
		return nil
	}
	_, err = s.enforcer.AddGroupingPolicy(subject, roleName, dom)
	return err
}

// signalDenied goes to the log and the denial counter only. Denied requests
// never reach the audit trail.
func (s *ServiceImpl) signalDenied(actor string, orgID string, object string, action string) {
	authorizationDenials.WithLabelValues(object, action).Inc()
	s.log.Warn("authorization denied",
		zap.String("actor", actor),
		zap.String("org_id", orgID),
		zap.String("object", object),
		zap.String("action", action),
	)
}

func seedPolicies(enforcer *casbin.SyncedEnforcer) error {
	policies := [][]string{
		// Member permissions (read-only)
		{"role:member", ObjectBranchNews, ActionView},
		{"role:member", ObjectBranchOfficer, ActionView},
		{"role:member", ObjectBranchDoc, ActionView},
		{"role:member", ObjectBranchSettings, ActionView},

		// Operator permissions: content management plus lifecycle work
		{"role:operator", ObjectBranchNews, ActionView},
		{"role:operator", ObjectBranchNews, ActionCreate},
		{"role:operator", ObjectBranchNews, ActionUpdate},
		{"role:operator", ObjectBranchNews, ActionDelete},
		{"role:operator", ObjectBranchOfficer, ActionView},
		{"role:operator", ObjectBranchOfficer, ActionCreate},
		{"role:operator", ObjectBranchOfficer, ActionUpdate},
		{"role:operator", ObjectBranchOfficer, ActionDelete},
		{"role:operator", ObjectBranchDoc, ActionView},
		{"role:operator", ObjectBranchDoc, ActionCreate},
		{"role:operator", ObjectBranchDoc, ActionUpdate},
		{"role:operator", ObjectBranchDoc, ActionDelete},
		{"role:operator", ObjectBranchSettings, ActionView},
		{"role:operator", ObjectSettlement, ActionView},
		{"role:operator", ObjectSettlement, ActionTransition},
		{"role:operator", ObjectOrderRelay, ActionView},
		{"role:operator", ObjectOrderRelay, ActionTransition},

		// Admin permissions: everything operators have plus settings and audit
		{"role:admin", ObjectBranchNews, ActionView},
		{"role:admin", ObjectBranchNews, ActionCreate},
		{"role:admin", ObjectBranchNews, ActionUpdate},
		{"role:admin", ObjectBranchNews, ActionDelete},
		{"role:admin", ObjectBranchOfficer, ActionView},
		{"role:admin", ObjectBranchOfficer, ActionCreate},
		{"role:admin", ObjectBranchOfficer, ActionUpdate},
		{"role:admin", ObjectBranchOfficer, ActionDelete},
		{"role:admin", ObjectBranchDoc, ActionView},
		{"role:admin", ObjectBranchDoc, ActionCreate},
		{"role:admin", ObjectBranchDoc, ActionUpdate},
		{"role:admin", ObjectBranchDoc, ActionDelete},
		{"role:admin", ObjectBranchSettings, ActionView},
		{"role:admin", ObjectBranchSettings, ActionUpdate},
		{"role:admin", ObjectSettlement, ActionView},
		{"role:admin", ObjectSettlement, ActionTransition},
		{"role:admin", ObjectOrderRelay, ActionView},
		{"role:admin", ObjectOrderRelay, ActionTransition},
		{"role:admin", ObjectAuditLog, ActionView},

		// System permissions for automated pipelines
		{"role:system", ObjectSettlement, ActionView},
		{"role:system", ObjectSettlement, ActionTransition},
		{"role:system", ObjectOrderRelay, ActionView},
		{"role:system", ObjectOrderRelay, ActionTransition},
	}

	for _, policy := range policies {
		if len(policy) < 3 {
			continue
		}
		if _, err := enforcer.AddPolicy(policy); err != nil {
			return err
		}
	}
	return nil
}
