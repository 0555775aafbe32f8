// Package server exposes the draft engine over HTTP: read state,
// dispatch actions, manage saved customers, and fetch the rendered
// preview.
package server

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/invoiceforge/invoiceforge/internal/config"
	draftservice "github.com/invoiceforge/invoiceforge/internal/draft/service"
	"github.com/invoiceforge/invoiceforge/internal/preview/render"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log      *zap.Logger
	Drafts   *draftservice.Service
	Renderer *render.HTMLRenderer
}

type Server struct {
	log      *zap.Logger
	drafts   *draftservice.Service
	renderer *render.HTMLRenderer
}

func New(p Params) *Server {
	return &Server{
		log:      p.Log.Named("http.server"),
		drafts:   p.Drafts,
		renderer: p.Renderer,
	}
}

// NewEngine builds the gin engine with recovery and request logging.
func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), RequestLogger(log))
	return engine
}

// Register mounts all routes.
func (s *Server) Register(r *gin.Engine) {
	r.GET("/healthz", s.Healthz)

	v1 := r.Group("/v1")
	{
		v1.GET("/draft", s.GetDraft)
		v1.POST("/draft/actions", s.DispatchAction)
		v1.POST("/draft/reset", s.ResetDraft)
		v1.POST("/draft/save", s.SaveDraft)
		v1.GET("/draft/preview", s.Preview)

		v1.GET("/preferences", s.GetPreferences)
		v1.POST("/preferences/customers", s.SaveCustomer)
		v1.DELETE("/preferences/customers/:id", s.DeleteCustomer)
		v1.POST("/preferences/customers/:id/apply", s.ApplyCustomer)
	}
}

func (s *Server) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func registerRoutes(engine *gin.Engine, s *Server) {
	s.Register(engine)
}

func runHTTP(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: engine,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}

// Module wires the HTTP surface.
var Module = fx.Module("http.server",
	fx.Provide(
		NewEngine,
		New,
		render.NewRenderer,
	),
	fx.Invoke(registerRoutes),
	fx.Invoke(runHTTP),
)
