// Package app wires the storefront core: config, durable store, API client,
// broadcast bus, module services, and the HTTP router in front of them.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/vitalmart/storefront/internal/config"
	"github.com/vitalmart/storefront/internal/middleware"
	"github.com/vitalmart/storefront/internal/modules/blog"
	"github.com/vitalmart/storefront/internal/modules/cart"
	"github.com/vitalmart/storefront/internal/modules/catalog"
	"github.com/vitalmart/storefront/internal/modules/order"
	"github.com/vitalmart/storefront/internal/modules/session"
	"github.com/vitalmart/storefront/internal/pkg/apiclient"
	"github.com/vitalmart/storefront/internal/pkg/bus"
	"github.com/vitalmart/storefront/internal/pkg/kvstore"
	"go.uber.org/zap"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	logger *zap.Logger

	store   kvstore.Store
	bus     *bus.Bus
	session *session.Service
	cart    *cart.Service

	cartSub *bus.Subscription
}

// New initializes the application: store → API client → services → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}

	store, err := openStore(cfg)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}

	b := bus.New()

	api, err := apiclient.New(cfg.APIBase, func() string {
		return session.StoredToken(context.Background(), store)
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("api client: %w", err)
	}

	sessionSvc := session.NewService(store, api, b, logger)
	catalogSvc := catalog.NewService(api, logger)
	cartSvc := cart.NewService(store, api, catalogSvc, sessionSvc, b, logger)
	orderSvc := order.NewService(api, logger)
	blogSvc := blog.NewService(api, logger)

	// session transitions drive the guest cart and the live count
	cartSub := cartSvc.WatchSession()

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(cors.New(corsConfig(cfg)))

	app := &App{
		cfg:     cfg,
		router:  router,
		logger:  logger,
		store:   store,
		bus:     b,
		session: sessionSvc,
		cart:    cartSvc,
		cartSub: cartSub,
	}
	app.registerRoutes(sessionSvc, cartSvc, catalogSvc, orderSvc, blogSvc)

	return app, nil
}

func openStore(cfg *config.AppConfig) (kvstore.Store, error) {
	switch cfg.Store.Backend {
	case config.StoreMemory:
		return kvstore.NewMemStore(), nil
	case config.StoreFile:
		return kvstore.NewFileStore(cfg.Store.Path)
	case config.StoreRedis:
		return kvstore.NewRedisStore(cfg.Store.RedisURL)
	case config.StoreMySQL:
		return kvstore.NewGormStore(cfg.Store.MySQLDSN)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// Addr returns the listen address.
func (a *App) Addr() string { return a.cfg.Addr() }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

// Shutdown releases timers, subscriptions, and store connections.
func (a *App) Shutdown() {
	a.cartSub.Close()
	a.session.Close()
	if closer, ok := a.store.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			a.logger.Warn("store close failed", zap.Error(err))
		}
	}
}
