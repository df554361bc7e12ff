package api

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	iauth "github.com/monambengouta/we-settle/internal/auth"
	"github.com/monambengouta/we-settle/internal/handlers"
	"github.com/monambengouta/we-settle/internal/middleware"
	"github.com/monambengouta/we-settle/internal/services"
	"github.com/monambengouta/we-settle/pkg/mail"
)

// RouterOption tweaks router construction.
type RouterOption func(*routerOptions)

type routerOptions struct {
	mailer mail.Mailer
	sender string
}

// WithMailer injects the outbound mailer used for inscription notifications.
func WithMailer(mailer mail.Mailer, sender string) RouterOption {
	return func(o *routerOptions) {
		o.mailer = mailer
		o.sender = sender
	}
}

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(db *gorm.DB, tokens *iauth.TokenService, opts ...RouterOption) (*gin.Engine, error) {
	if db == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if tokens == nil {
		return nil, fmt.Errorf("token service must be provided")
	}

	var options routerOptions
	for _, opt := range opts {
		opt(&options)
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())

	// Health endpoint (public)
	r.GET("/health", handlers.Health())

	inscriptionSvc, err := services.NewInscriptionService(db, tokens, options.mailer,
		services.WithSender(options.sender))
	if err != nil {
		return nil, err
	}
	userSvc, err := services.NewUserService(db, tokens)
	if err != nil {
		return nil, err
	}

	inscriptionHandler := handlers.NewInscriptionHandler(inscriptionSvc)
	userHandler := handlers.NewUserHandler(userSvc)

	requireAuth := middleware.Auth(tokens)

	v1 := r.Group("/api/v1")
	{
		inscriptions := v1.Group("/inscriptions")
		{
			inscriptions.POST("/validate/:id", inscriptionHandler.Validate)
			inscriptions.POST("/token/:id", inscriptionHandler.IssueToken)
			inscriptions.GET("/all", requireAuth, inscriptionHandler.List)
			inscriptions.GET("/:id", requireAuth, inscriptionHandler.Get)
		}

		users := v1.Group("/users")
		{
			users.POST("/login", userHandler.Login)
			users.GET("/:id", userHandler.Get)
		}
	}

	// Metrics endpoint
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// NotFound fallback
	r.NoRoute(middleware.NotFoundHandler)

	return r, nil
}
