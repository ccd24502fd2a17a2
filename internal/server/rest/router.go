package rest

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/bloodbay/internal/logging"
	"github.com/dmitrijs2005/bloodbay/internal/server/auth"
	"github.com/dmitrijs2005/bloodbay/internal/server/config"
	"github.com/dmitrijs2005/bloodbay/internal/server/models"
	"github.com/dmitrijs2005/bloodbay/internal/server/ratelimit"
	"github.com/dmitrijs2005/bloodbay/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type AuthService interface {
	Register(ctx context.Context, email, password, username string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	Info(ctx context.Context, token string) (*auth.Claims, error)
	ResetPassword(ctx context.Context, email, oldPassword, newPassword string) (string, error)
}

type VerificationService interface {
	Verify(ctx context.Context, token string) error
}

type CaseService interface {
	Create(ctx context.Context, reporterID string, in models.CaseInput) (*models.Case, error)
	List(ctx context.Context) ([]*models.Case, error)
	ListByReporter(ctx context.Context, userID string) ([]*models.Case, error)
	SearchByTag(ctx context.Context, tag string) ([]*models.Case, error)
	Get(ctx context.Context, id string) (*models.Case, error)
	Delete(ctx context.Context, id, requesterID string) (int64, error)
}

type FileService interface {
	Upload(ctx context.Context, requesterID, linkedToID string, files []services.Upload) ([]*models.File, error)
	ListForCase(ctx context.Context, caseID string) ([]*models.FileMetadata, error)
}

type MaintenanceService interface {
	Reset(ctx context.Context) error
}

// Services bundles the business logic served by the router. Maintenance
// is optional and only routed when set.
type Services struct {
	Auth         AuthService
	Verification VerificationService
	Cases        CaseService
	Files        FileService
	Maintenance  MaintenanceService
}

// Handler holds the HTTP handlers.
type Handler struct {
	svc    Services
	logger logging.Logger
}

// RouterOptions carries the optional collaborators of NewRouter.
type RouterOptions struct {
	Limiter  ratelimit.Limiter
	Registry *prometheus.Registry
}

// NewRouter builds the gin engine with middleware and all API routes.
func NewRouter(cfg *config.Config, svc Services, l logging.Logger, opts RouterOptions) *gin.Engine {
	h := &Handler{svc: svc, logger: l.With("module", "rest")}

	router := gin.New()
	router.MaxMultipartMemory = 32 << 20

	router.Use(gin.CustomRecovery(h.recover))
	router.Use(requestLogger(h.logger))
	if opts.Registry != nil {
		router.Use(newMetrics(opts.Registry).middleware())
	}
	router.Use(corsMiddleware(cfg.AllowedOrigins))
	if opts.Limiter != nil {
		router.Use(rateLimit(opts.Limiter, h.logger))
	}

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if opts.Registry != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{})))
	}

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
		authGroup.POST("/info", h.Info)
		authGroup.POST("/reset", h.ResetPassword)
	}

	router.POST("/verify", h.Verify)

	cases := router.Group("/cases")
	{
		cases.POST("/", h.requireIdentity, h.CreateCase)
		cases.GET("/", h.ListCases)
		cases.GET("/search", h.SearchCases)
		cases.GET("/:caseId", h.GetCase)
		cases.DELETE("/:caseId", h.requireIdentity, h.DeleteCase)
	}

	files := router.Group("/files")
	{
		files.POST("/", h.requireIdentity, h.UploadFiles)
		files.GET("/", h.ListFiles)
	}

	if svc.Maintenance != nil {
		router.POST("/testing/reset", h.Reset)
	}

	return router
}
