package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"portfoliostudio/internal/auth"
	"portfoliostudio/internal/config"
	"portfoliostudio/internal/errors"
	"portfoliostudio/internal/handler"
	"portfoliostudio/internal/logger"
	"portfoliostudio/internal/metrics"
)

// Handlers groups the transport handlers wired by Register.
type Handlers struct {
	Public   *handler.PublicHandler
	Auth     *handler.AuthHandler
	Sites    *handler.SiteHandler
	Content  *handler.ContentHandler
	Messages *handler.MessageHandler
	Billing  *handler.BillingHandler
	Admin    *handler.AdminHandler
}

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	log *zap.Logger,
	m *metrics.Metrics,
	jwtService *auth.JWTService,
	tokens auth.TokenStoreInterface,
	h Handlers,
) {
	e.HideBanner = true
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(middleware.RequestID())
	e.Use(m.Middleware())
	e.Use(logger.Middleware(log))
	e.Use(middleware.Recover())
	e.Use(middleware.Secure())
	e.Use(middleware.BodyLimit("2M"))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     allowedOrigins(cfg.CORSOrigin),
		AllowCredentials: true,
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", m.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")
	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"ok": true})
	})

	// Public routes
	api.GET("/public/content", h.Public.Content)
	api.POST("/public/messages", h.Public.SubmitMessage)

	limiter := loginLimiter()
	requireUser := requireScope(jwtService, tokens, auth.ScopeUser)
	requireAdmin := requireScope(jwtService, tokens, auth.ScopeAdmin)

	// Studio account routes
	account := api.Group("/account")
	account.POST("/auth/signup", h.Auth.Signup, limiter)
	account.POST("/auth/login", h.Auth.Login, limiter)
	account.POST("/auth/resend-verification", h.Auth.ResendVerification, limiter)
	account.GET("/auth/verify-email", h.Auth.VerifyEmail)

	user := account.Group("", requireUser)
	user.POST("/auth/logout", h.Auth.Logout)
	user.GET("/auth/me", h.Auth.Me)

	user.GET("/billing", h.Billing.Summary)
	user.POST("/billing/plan", h.Billing.SetPlan)
	user.POST("/billing/upgrade", h.Billing.Upgrade)
	user.POST("/billing/checkout", h.Billing.Checkout)
	user.GET("/billing/verify", h.Billing.Verify)
	user.GET("/billing/orders", h.Billing.Orders)

	user.GET("/sites", h.Sites.List)
	user.POST("/sites", h.Sites.Create)
	user.DELETE("/sites/:siteId", h.Sites.Delete)
	user.PATCH("/sites/:siteId/status", h.Sites.UpdateStatus)

	site := user.Group("/sites/:siteId", h.Sites.RequireMember)
	registerContent(site, h)
	site.GET("/content", h.Content.Editor)

	// Control panel routes
	admin := api.Group("/admin", noIndex)
	admin.POST("/auth/login", h.Admin.Login, limiter)

	panel := admin.Group("", requireAdmin)
	panel.POST("/auth/logout", h.Admin.Logout)
	panel.GET("/auth/me", h.Admin.Me)
	panel.GET("/dashboard", h.Admin.Dashboard)
	registerContent(panel, h)
}

// registerContent mounts the routes shared by the studio and the control
// panel. The group decides the content scope.
func registerContent(g *echo.Group, h Handlers) {
	g.GET("/settings", h.Content.Settings)
	g.PUT("/settings", h.Content.SaveSettings)

	g.GET("/projects", h.Content.Projects)
	g.POST("/projects", h.Content.CreateProject)
	g.PATCH("/projects/reorder", h.Content.ReorderProjects)
	g.PUT("/projects/:id", h.Content.UpdateProject)
	g.DELETE("/projects/:id", h.Content.DeleteProject)

	g.GET("/messages", h.Messages.List)
	g.PATCH("/messages/:id/status", h.Messages.UpdateStatus)
	g.DELETE("/messages/:id", h.Messages.Delete)
}

// requireScope accepts bearer tokens of one scope that have not been revoked
// and stores their claims under handler.ClaimsKey.
func requireScope(jwtService *auth.JWTService, tokens auth.TokenStoreInterface, scope auth.Scope) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		ContextKey:  handler.ClaimsKey,
		TokenLookup: "header:" + echo.HeaderAuthorization + ":Bearer ",
		ParseTokenFunc: func(c echo.Context, token string) (interface{}, error) {
			claims, err := jwtService.ValidateToken(token)
			if err != nil {
				return nil, err
			}
			if claims.Scope != scope {
				return nil, auth.ErrInvalidToken
			}
			if tokens.IsRevoked(c.Request().Context(), claims.ID) {
				return nil, auth.ErrInvalidToken
			}
			return claims, nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
				Error: "unauthorized",
				Code:  "UNAUTHORIZED",
			}).SetInternal(err)
		},
	})
}

// loginLimiter allows 20 attempts per client IP in a 15 minute window.
func loginLimiter() echo.MiddlewareFunc {
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      20.0 / (15 * 60),
		Burst:     20,
		ExpiresIn: 15 * time.Minute,
	})
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests, errors.ErrorResponse{
				Error: "too many login attempts, try again later",
				Code:  "RATE_LIMITED",
			})
		},
	})
}

func noIndex(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		c.Response().Header().Set("X-Robots-Tag", "noindex, nofollow")
		return next(c)
	}
}

func allowedOrigins(raw string) []string {
	var origins []string
	for _, o := range strings.Split(raw, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
