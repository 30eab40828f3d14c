// Package ui serves the dashboard and the JSON API over chi. Handlers
// stay thin: they decode requests, call the store and repositories, and
// encode results.
package ui

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/semaphore"

	"vizboard/adapters/loader"
	"vizboard/internal"
	"vizboard/internal/config"
	"vizboard/internal/store"
	"vizboard/ports"
)

// App wires the HTTP surface to the session store, the ingest loader,
// the repositories, and the PNG renderer
type App struct {
	router   *chi.Mux
	config   *config.Config
	logger   *internal.Logger
	store    *store.Store
	loader   *loader.Loader
	datasets ports.DatasetRepository
	views    ports.ViewRepository
	renderer ports.Renderer
	// chartSem bounds concurrent chart aggregation on the dashboard page
	chartSem *semaphore.Weighted
}

// Deps carries the collaborators an App needs
type Deps struct {
	Config   *config.Config
	Logger   *internal.Logger
	Store    *store.Store
	Loader   *loader.Loader
	Datasets ports.DatasetRepository
	Views    ports.ViewRepository
	Renderer ports.Renderer
}

// NewApp creates the application with all middleware and routes configured
func NewApp(deps Deps) *App {
	if deps.Logger == nil {
		deps.Logger = internal.NewDefaultLogger()
	}

	app := &App{
		router:   chi.NewRouter(),
		config:   deps.Config,
		logger:   deps.Logger,
		store:    deps.Store,
		loader:   deps.Loader,
		datasets: deps.Datasets,
		views:    deps.Views,
		renderer: deps.Renderer,
		chartSem: semaphore.NewWeighted(int64(deps.Config.Server.MaxConcurrentCharts)),
	}

	app.setupMiddleware()
	app.setupRoutes()
	return app
}

func (a *App) setupMiddleware() {
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

func (a *App) setupRoutes() {
	a.router.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
	})
	a.router.Get("/dashboard", a.handleDashboard)
	a.router.Get("/help", a.handleHelp)

	a.router.Route("/api", func(r chi.Router) {
		r.Get("/health", a.handleHealth)
		r.Get("/status", a.handleStatus)

		r.Route("/datasets", func(r chi.Router) {
			r.Get("/", a.handleListDatasets)
			r.Post("/upload", a.handleUploadDataset)
			r.Post("/fetch", a.handleFetchDataset)
			r.Post("/sample", a.handleSampleDataset)
			r.Post("/{id}/activate", a.handleActivateDataset)
			r.Delete("/{id}", a.handleDeleteDataset)
		})

		r.Get("/schema", a.handleSchema)
		r.Get("/suggest", a.handleSuggest)
		r.Post("/validate", a.handleValidate)

		r.Post("/filters", a.handleSetFilters)
		r.Delete("/filters", a.handleClearFilters)

		r.Post("/chart-data", a.handleChartData)
		r.Post("/render", a.handleRender)

		r.Route("/views", func(r chi.Router) {
			r.Get("/", a.handleListViews)
			r.Post("/", a.handleSaveView)
			r.Get("/{id}", a.handleGetView)
			r.Delete("/{id}", a.handleDeleteView)
			r.Get("/{id}/png", a.handleViewPNG)
		})
	})
}

// Router exposes the configured handler, used by tests and by callers
// that embed the app in their own server
func (a *App) Router() http.Handler {
	return a.router
}

// Start runs the HTTP server; it blocks until the server exits
func (a *App) Start() error {
	server := &http.Server{
		Addr:         ":" + a.config.Server.Port,
		Handler:      a.router,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	a.logger.Info("[App] Listening on :%s", a.config.Server.Port)
	return server.ListenAndServe()
}
