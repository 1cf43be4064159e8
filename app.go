package main

import (
	"context"

	"cropsight/earthengine"

	"github.com/rs/zerolog"
)

// Renderer is the slice of the imagery platform the handlers need. Satisfied by
// *earthengine.Client; faked in tests.
type Renderer interface {
	RenderThumbnail(ctx context.Context, req earthengine.RenderRequest) (string, error)
	Reauthenticate(ctx context.Context) error
}

type App struct {
	cfg    Config
	log    zerolog.Logger
	engine Renderer
}

// newApp wires the app and performs the initial credential exchange so a bad key
// file fails at startup.
func newApp(ctx context.Context, cfg Config, log zerolog.Logger) (*App, error) {
	auth := earthengine.NewAuthenticator(cfg.CredentialsFile)
	client := earthengine.NewClient(cfg.Project, auth)
	if err := client.Initialize(ctx); err != nil {
		return nil, err
	}
	log.Info().Msg("earth engine session initialized")

	return &App{cfg: cfg, log: log, engine: client}, nil
}
