package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/mkadic/cashbook/internal/cash"
	cashdomain "github.com/mkadic/cashbook/internal/cash/domain"
	"github.com/mkadic/cashbook/internal/config"
	"github.com/mkadic/cashbook/internal/observability"
	obsmiddleware "github.com/mkadic/cashbook/internal/observability/logger"
	obsmetrics "github.com/mkadic/cashbook/internal/observability/metrics"
	"github.com/mkadic/cashbook/internal/tenant"
	tenantdomain "github.com/mkadic/cashbook/internal/tenant/domain"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	tenant.Module,
	cash.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, genID *snowflake.Node) *gin.Engine {
	if !obsCfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestID(genID))
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug: obsCfg.Debug(),
	}))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, genID *snowflake.Node) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics, genID)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

type Server struct {
	engine    *gin.Engine
	cfg       config.Config
	db        *gorm.DB
	tenantSvc tenantdomain.Service
	cashSvc   cashdomain.Service
}

type ServerParams struct {
	fx.In

	Gin       *gin.Engine
	Cfg       config.Config
	DB        *gorm.DB
	TenantSvc tenantdomain.Service
	CashSvc   cashdomain.Service
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:    p.Gin,
		cfg:       p.Cfg,
		db:        p.DB,
		tenantSvc: p.TenantSvc,
		cashSvc:   p.CashSvc,
	}

	svc.registerHealthRoutes()
	svc.registerTenantRoutes()
	svc.registerCashRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerHealthRoutes() {
	s.engine.GET("/health", s.Health)
	s.engine.GET("/db/health", s.DBHealth)
}

func (s *Server) registerTenantRoutes() {
	tenants := s.engine.Group("/tenants")

	tenants.POST("", s.CreateTenant)
	tenants.GET("", s.ListTenants)
	tenants.GET("/:id", s.GetTenantByID)
	tenants.PATCH("/:id", s.UpdateTenant)
	tenants.DELETE("/:id", s.DeleteTenant)
}

func (s *Server) registerCashRoutes() {
	entries := s.engine.Group("/cash", TenantScope())

	entries.POST("", s.CreateCashEntry)
	entries.GET("", s.ListCashEntries)
	entries.GET("/summary", s.CashSummary)
	entries.GET("/:id", s.GetCashEntryByID)
	entries.PATCH("/:id", s.UpdateCashEntry)
	entries.DELETE("/:id", s.DeleteCashEntry)
}
