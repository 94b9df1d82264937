package main

import (
	"context"
	"log/slog"

	"github.com/Yulian302/lfusys-services-connections/auth"
	"github.com/Yulian302/lfusys-services-connections/auth/oauth"
	"github.com/Yulian302/lfusys-services-connections/services"
	"github.com/Yulian302/lfusys-services-connections/store"
)

type Stores struct {
	profiles store.ProfileStore
	nonces   store.NonceStore
}

type Services struct {
	Connections services.ConnectionService

	Stores *Stores
}

type Shutdowner interface {
	Shutdown(context.Context) error
}

func BuildServices(app *App) *Services {
	nonceStore := store.NewRedisNonceStore(app.Redis)

	linkedInProvider := oauth.NewLinkedInProvider(app.Config.LinkedInConfig)
	stateCodec := auth.NewStateCodec(app.Config.StateConfig.Secret, app.Config.StateConfig.TTL)

	connectionsSvc := services.NewConnectionService(linkedInProvider, app.Profiles, nonceStore, stateCodec)

	return &Services{
		Connections: connectionsSvc,

		Stores: &Stores{
			profiles: app.Profiles,
			nonces:   nonceStore,
		},
	}
}

func (s *Services) Shutdown(ctx context.Context) error {
	slog.Info("shutting down services")

	if s.Stores != nil {
		if err := s.Stores.Shutdown(ctx); err != nil {
			slog.Error("stores shutdown error", "error", err)
		}
	}

	slog.Info("services shutdown complete")
	return nil
}

func (s *Stores) Shutdown(ctx context.Context) error {
	slog.Info("shutting down stores")

	shutdownIfPossible := func(name string, v any) {
		if sh, ok := v.(Shutdowner); ok {
			if err := sh.Shutdown(ctx); err != nil {
				slog.Error("store shutdown error", "store", name, "error", err)
			}
		}
	}

	shutdownIfPossible("profiles", s.profiles)
	shutdownIfPossible("nonces", s.nonces)

	slog.Info("stores shutdown complete")
	return nil
}
