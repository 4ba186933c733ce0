// Package rolegate decides Allowed/Denied from a principal's role claims.
// Only roles in this service's own namespace can grant access; legacy
// unprefixed roles fail closed with an observability signal, and roles from
// other product namespaces carry no trust here.
package rolegate

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Decision is the outcome of classifying a claim set.
type Decision int

const (
	Denied Decision = iota
	Allowed
)

// LegacyRoleEvent records one denied use of a deprecated unprefixed role.
type LegacyRoleEvent struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	ActorID   string       `gorm:"type:text;not null;index" json:"actor_id"`
	Role      string       `gorm:"type:text;not null" json:"role"`
	CallSite  string       `gorm:"type:text;not null" json:"call_site"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (LegacyRoleEvent) TableName() string { return "legacy_role_events" }

var legacyRoleUsage = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pharmgate_legacy_role_usage_total",
	Help: "Denied requests that presented a deprecated unprefixed role.",
}, []string{"role"})

type Params struct {
	fx.In

	DB     *gorm.DB
	Log    *zap.Logger
	GenID  *snowflake.Node
	Holder *ConfigHolder
}

// Gate classifies role claims against the configured namespace allow-list.
type Gate struct {
	db     *gorm.DB
	log    *zap.Logger
	genID  *snowflake.Node
	holder *ConfigHolder
}

func New(p Params) *Gate {
	return &Gate{
		db:     p.DB,
		log:    p.Log.Named("rolegate"),
		genID:  p.GenID,
		holder: p.Holder,
	}
}

// Classify walks the parsed claims in a fixed precedence so the result never
// depends on claim ordering: any allow-listed role in our namespace wins;
// otherwise a legacy claim triggers the observability signal and everything
// is denied.
func (g *Gate) Classify(ctx context.Context, claims []string, actorID string, callSite string) Decision {
	cfg := g.holder.Get()
	roles := ParseClaims(claims)

	for _, role := range roles {
		if role.Namespace == cfg.Namespace && containsRole(cfg.AllowRoles, role.Name) {
			return Allowed
		}
	}

	for _, role := range roles {
		if role.IsLegacy() && containsRole(cfg.LegacyRoles, role.Name) {
			g.signalLegacyUsage(ctx, actorID, role.Name, callSite)
			return Denied
		}
	}

	for _, role := range roles {
		if !role.IsLegacy() && role.Namespace != cfg.Namespace {
			g.log.Debug("cross-service role denied",
				zap.String("actor_id", actorID),
				zap.String("namespace", role.Namespace),
				zap.String("role", role.Name),
			)
			return Denied
		}
	}

	return Denied
}

func (g *Gate) signalLegacyUsage(ctx context.Context, actorID, role, callSite string) {
	g.log.Warn("legacy role usage denied",
		zap.String("actor_id", actorID),
		zap.String("role", role),
		zap.String("call_site", callSite),
	)
	legacyRoleUsage.WithLabelValues(role).Inc()

	event := LegacyRoleEvent{
		ID:        g.genID.Generate(),
		ActorID:   actorID,
		Role:      role,
		CallSite:  callSite,
		CreatedAt: time.Now().UTC(),
	}
	if err := g.db.WithContext(ctx).Exec(
		`INSERT INTO legacy_role_events (id, actor_id, role, call_site, created_at)
		 VALUES (?, ?, ?, ?, ?)`,
		event.ID, event.ActorID, event.Role, event.CallSite, event.CreatedAt,
	).Error; err != nil {
		g.log.Warn("failed to persist legacy role event", zap.Error(err))
	}
}

func containsRole(list []string, name string) bool {
	for _, candidate := range list {
		if candidate == name {
			return true
		}
	}
	return false
}
