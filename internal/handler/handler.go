package handlers

import (
	"context"

	"github.com/go-playground/validator/v10"

	"lostfound/internal/config"
	"lostfound/internal/service"
	"lostfound/internal/sweeper"
)

// SweepRunner runs one expiration sweep on demand.
type SweepRunner interface {
	Run(ctx context.Context) (sweeper.Result, error)
}

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Handlers struct {
	UserService   service.UserService
	AuthService   service.AuthService
	PostService   service.PostService
	UploadService service.UploadService
	StatsService  service.StatsService
	Sweeper       SweepRunner
	DB            HealthChecker
	Cfg           *config.Config
	Validate      *validator.Validate
}

func NewHandlers(services *service.Service, sweep SweepRunner, db HealthChecker, cfg *config.Config) *Handlers {
	return &Handlers{
		UserService:   services.User,
		AuthService:   services.Auth,
		PostService:   services.Post,
		UploadService: services.Upload,
		StatsService:  services.Stats,
		Sweeper:       sweep,
		DB:            db,
		Cfg:           cfg,
		Validate:      validator.New(),
	}
}

type contextKey string

const userIDKey contextKey = "userID"

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}
