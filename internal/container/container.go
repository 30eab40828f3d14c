// Package container wires the application dependency graph: repositories,
// the session store, the loader, and the renderer, built from one config.
package container

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"vizboard/adapters/loader"
	"vizboard/adapters/memory"
	"vizboard/adapters/postgres"
	"vizboard/adapters/render"
	"vizboard/internal"
	"vizboard/internal/config"
	apperrors "vizboard/internal/errors"
	"vizboard/internal/store"
	"vizboard/ports"
	"vizboard/ui"
)

// Container holds all application dependencies and manages their lifecycle
type Container struct {
	Config *config.Config
	Logger *internal.Logger

	// DB is nil when running on the in-memory repositories
	DB *sqlx.DB

	Datasets ports.DatasetRepository
	Views    ports.ViewRepository

	Store    *store.Store
	Loader   *loader.Loader
	Renderer ports.Renderer
}

// New builds the dependency graph. DATABASE_URL selects Postgres-backed
// repositories; without it everything runs in memory.
func New(cfg *config.Config, logger *internal.Logger) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	if logger == nil {
		logger = internal.NewDefaultLogger()
	}

	c := &Container{Config: cfg, Logger: logger}
	if err := c.initRepositories(); err != nil {
		return nil, err
	}
	c.initEngine()
	return c, nil
}

func (c *Container) initRepositories() error {
	if !c.Config.Database.Enabled() {
		c.Logger.Info("[Container] DATABASE_URL not set, using in-memory repositories")
		c.Datasets = memory.NewDatasetRepository()
		c.Views = memory.NewViewRepository()
		return nil
	}

	db, err := postgres.Connect(c.Config.Database)
	if err != nil {
		return err
	}
	if err := db.Ping(); err != nil {
		return apperrors.Wrap(err, "database connection test failed")
	}
	if err := postgres.Migrate(context.Background(), db); err != nil {
		return err
	}

	c.DB = db
	c.Datasets = postgres.NewDatasetRepository(db)
	c.Views = postgres.NewViewRepository(db)
	c.Logger.Info("[Container] Connected to Postgres")
	return nil
}

func (c *Container) initEngine() {
	c.Store = store.New(c.Logger)
	c.Loader = loader.New(
		loader.WithMaxBytes(c.Config.Data.MaxUploadBytes),
		loader.WithFetchTimeout(c.Config.Data.FetchTimeout),
		loader.WithLogger(c.Logger),
	)
	c.Renderer = render.NewPNGRenderer()
}

// App assembles the HTTP application over the container's dependencies
func (c *Container) App() *ui.App {
	return ui.NewApp(ui.Deps{
		Config:   c.Config,
		Logger:   c.Logger,
		Store:    c.Store,
		Loader:   c.Loader,
		Datasets: c.Datasets,
		Views:    c.Views,
		Renderer: c.Renderer,
	})
}

// Shutdown releases held resources
func (c *Container) Shutdown(ctx context.Context) error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
