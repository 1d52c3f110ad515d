package service

import (
	"lostfound/internal/clock"
	"lostfound/internal/config"
	"lostfound/internal/repository"
	"lostfound/internal/storage"
)

type Service struct {
	User   UserService
	Post   PostService
	Auth   AuthService
	Upload UploadService
	Stats  StatsService
}

func NewService(rep *repository.Repository, cfg *config.Config, store storage.Storage, clk clock.Clock) *Service {
	return &Service{
		User:   NewUserService(rep.User, store, clk),
		Post:   NewPostService(rep.Post, rep.Image, rep.User, clk),
		Auth:   NewAuthService(rep.User, cfg, clk),
		Upload: NewUploadService(store),
		Stats:  NewStatsService(rep.Stats, clk),
	}
}
