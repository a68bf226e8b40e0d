package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/rc-foods/courier-client/internal/api"
	"github.com/rc-foods/courier-client/internal/auth"
	"github.com/rc-foods/courier-client/internal/config"
	"github.com/rc-foods/courier-client/internal/domain"
	"github.com/rc-foods/courier-client/internal/events"
	"github.com/rc-foods/courier-client/internal/observability"
	"github.com/rc-foods/courier-client/internal/service"
	"github.com/rc-foods/courier-client/internal/storage"
)

// App wires the full client layer for the CLI commands.
type App struct {
	Config   *config.Config
	Logger   *zap.Logger
	Store    storage.Store
	Tokens   *auth.TokenStore
	Auth     *service.AuthService
	Location *service.LocationService
	Delivery *service.DeliveryService
	Summary  *service.SummaryService
}

func newApp() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	store, err := storage.Open(cfg.Storage, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	allowedRole := domain.Role(cfg.Auth.AllowedRole)
	tokens := auth.NewTokenStore(store, allowedRole)

	userPipeline := api.NewClient("user", cfg.Services.UserBaseURL, cfg.HTTP, tokens, logger)
	deliveryPipeline := api.NewClient("delivery", cfg.Services.DeliveryBaseURL, cfg.HTTP, tokens, logger)
	locationPipeline := api.NewClient("location", cfg.Services.LocationBaseURL, cfg.HTTP, tokens, logger)

	dispatcher := events.NewInMemoryDispatcher(logger)

	summarySvc := service.NewSummaryService(store, logger)
	summarySvc.RegisterHandlers(dispatcher)

	authSvc := service.NewAuthService(allowedRole, service.AuthDependencies{
		UserClient: api.NewUserClient(userPipeline, allowedRole),
		Tokens:     tokens,
		Store:      store,
		Dispatcher: dispatcher,
	}, logger)

	locationSvc := service.NewLocationService(cfg.Cache, service.LocationDependencies{
		Client: api.NewLocationClient(locationPipeline),
		Store:  store,
	}, logger)

	deliverySvc := service.NewDeliveryService(cfg.Cache, service.DeliveryDependencies{
		Client:     api.NewDeliveryClient(deliveryPipeline),
		Dispatcher: dispatcher,
	}, logger)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		Tokens:   tokens,
		Auth:     authSvc,
		Location: locationSvc,
		Delivery: deliverySvc,
		Summary:  summarySvc,
	}, nil
}

// Close flushes background work before the process exits.
func (a *App) Close() {
	a.Summary.Wait()
	if closer, ok := a.Store.(interface{ Close() }); ok {
		closer.Close()
	}
	_ = a.Logger.Sync()
}
