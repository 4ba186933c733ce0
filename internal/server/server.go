package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	auditdomain "github.com/kpharma/pharmgate/internal/audit/domain"
	"github.com/kpharma/pharmgate/internal/authorization"
	branchdomain "github.com/kpharma/pharmgate/internal/branch/domain"
	"github.com/kpharma/pharmgate/internal/config"
	orderrelaydomain "github.com/kpharma/pharmgate/internal/orderrelay/domain"
	organizationdomain "github.com/kpharma/pharmgate/internal/organization/domain"
	"github.com/kpharma/pharmgate/internal/rolegate"
	settlementdomain "github.com/kpharma/pharmgate/internal/settlement/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID())
	r.Use(MetricsMiddleware())
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin() *gin.Engine {
	return NewEngine()
}

type Server struct {
	engine          *gin.Engine
	cfg             config.Config
	log             *zap.Logger
	db              *gorm.DB
	genID           *snowflake.Node
	roleGate        *rolegate.Gate
	authzSvc        authorization.Service
	auditSvc        auditdomain.Service
	organizationSvc organizationdomain.Service
	settlementSvc   settlementdomain.Service
	orderRelaySvc   orderrelaydomain.Service
	branchSvc       branchdomain.Service
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Log             *zap.Logger
	DB              *gorm.DB
	GenID           *snowflake.Node
	RoleGate        *rolegate.Gate
	AuthzSvc        authorization.Service
	AuditSvc        auditdomain.Service
	OrganizationSvc organizationdomain.Service
	SettlementSvc   settlementdomain.Service
	OrderRelaySvc   orderrelaydomain.Service
	BranchSvc       branchdomain.Service
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		log:             p.Log.Named("server"),
		db:              p.DB,
		genID:           p.GenID,
		roleGate:        p.RoleGate,
		authzSvc:        p.AuthzSvc,
		auditSvc:        p.AuditSvc,
		organizationSvc: p.OrganizationSvc,
		settlementSvc:   p.SettlementSvc,
		orderRelaySvc:   p.OrderRelaySvc,
		branchSvc:       p.BranchSvc,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	api := s.engine.Group("/api/v1")
	api.Use(s.requestLogger())
	api.Use(s.AuthRequired())
	api.Use(s.OrgContext())

	news := api.Group("/branch-admin/news")
	{
		news.GET("", s.authorizeOrgAction(authorization.ObjectBranchNews, authorization.ActionView), s.ListNews)
		news.POST("", s.authorizeOrgAction(authorization.ObjectBranchNews, authorization.ActionCreate), s.CreateNews)
		news.GET("/:id", s.authorizeOrgAction(authorization.ObjectBranchNews, authorization.ActionView), s.GetNews)
		news.PATCH("/:id", s.authorizeOrgAction(authorization.ObjectBranchNews, authorization.ActionUpdate), s.UpdateNews)
		news.DELETE("/:id", s.authorizeOrgAction(authorization.ObjectBranchNews, authorization.ActionDelete), s.DeleteNews)
	}

	officers := api.Group("/branch-admin/officers")
	{
		officers.GET("", s.authorizeOrgAction(authorization.ObjectBranchOfficer, authorization.ActionView), s.ListOfficers)
		officers.POST("", s.authorizeOrgAction(authorization.ObjectBranchOfficer, authorization.ActionCreate), s.CreateOfficer)
		officers.GET("/:id", s.authorizeOrgAction(authorization.ObjectBranchOfficer, authorization.ActionView), s.GetOfficer)
		officers.PATCH("/:id", s.authorizeOrgAction(authorization.ObjectBranchOfficer, authorization.ActionUpdate), s.UpdateOfficer)
		officers.DELETE("/:id", s.authorizeOrgAction(authorization.ObjectBranchOfficer, authorization.ActionDelete), s.DeleteOfficer)
	}

	docs := api.Group("/branch-admin/docs")
	{
		docs.GET("", s.authorizeOrgAction(authorization.ObjectBranchDoc, authorization.ActionView), s.ListDocs)
		docs.POST("", s.authorizeOrgAction(authorization.ObjectBranchDoc, authorization.ActionCreate), s.CreateDoc)
		docs.GET("/:id", s.authorizeOrgAction(authorization.ObjectBranchDoc, authorization.ActionView), s.GetDoc)
		docs.PATCH("/:id", s.authorizeOrgAction(authorization.ObjectBranchDoc, authorization.ActionUpdate), s.UpdateDoc)
		docs.DELETE("/:id", s.authorizeOrgAction(authorization.ObjectBranchDoc, authorization.ActionDelete), s.DeleteDoc)
	}

	settings := api.Group("/branch-admin/settings")
	{
		settings.GET("", s.authorizeOrgAction(authorization.ObjectBranchSettings, authorization.ActionView), s.GetSettings)
		settings.PATCH("", s.authorizeOrgAction(authorization.ObjectBranchSettings, authorization.ActionUpdate), s.UpsertSettings)
		settings.PATCH("/status", s.authorizeOrgAction(authorization.ObjectBranchSettings, authorization.ActionUpdate), s.SetSettingsStatus)
	}

	settlements := api.Group("/settlements")
	{
		settlements.GET("", s.authorizeOrgAction(authorization.ObjectSettlement, authorization.ActionView), s.ListSettlements)
		settlements.GET("/:id", s.authorizeOrgAction(authorization.ObjectSettlement, authorization.ActionView), s.GetSettlement)
		settlements.GET("/:id/items", s.authorizeOrgAction(authorization.ObjectSettlement, authorization.ActionView), s.ListSettlementItems)
		settlements.POST("/:id/:action", s.authorizeOrgAction(authorization.ObjectSettlement, authorization.ActionTransition), s.TransitionSettlement)
	}

	relays := api.Group("/order-relays")
	{
		relays.GET("", s.authorizeOrgAction(authorization.ObjectOrderRelay, authorization.ActionView), s.ListOrderRelays)
		relays.GET("/:id", s.authorizeOrgAction(authorization.ObjectOrderRelay, authorization.ActionView), s.GetOrderRelay)
		relays.GET("/:id/logs", s.authorizeOrgAction(authorization.ObjectOrderRelay, authorization.ActionView), s.ListOrderRelayLogs)
		relays.GET("/:id/status-options", s.authorizeOrgAction(authorization.ObjectOrderRelay, authorization.ActionView), s.OrderRelayStatusOptions)
		relays.PATCH("/:id/status", s.authorizeOrgAction(authorization.ObjectOrderRelay, authorization.ActionTransition), s.ChangeOrderRelayStatus)
	}

	api.GET("/audit-logs", s.authorizeOrgAction(authorization.ObjectAuditLog, authorization.ActionView), s.ListAuditLogs)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
