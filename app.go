package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type AppProvider interface {
	Run() error
	Serve() func() error
	Stop(context.Context, context.Context) func() error
}

// App wires the full application: configuration, logging, storage, the
// catalogue services and the web server. The cli commands reuse the
// same wiring without starting the server.
type App struct {
	logger        *zap.Logger
	config        *Config
	server        *http.Server
	books         BookServiceProvider
	impressions   ImpressionServiceProvider
	statuses      StatusServiceProvider
	markdown      *MarkdownImpressionService
	siteGenerator *StaticSiteGenerator
	cleanups      []func()
}

// NewApp provides an instance of App.
func NewApp() (*App, error) {
	config, err := LoadAndInitConfigs(GitCommit, GitTag, BuildTime)
	if err != nil {
		return nil, fmt.Errorf("failed to setup app configuration: %s", err)
	}

	// ensure the logs folder exists and Setup the logging module.
	err = os.MkdirAll(filepath.Dir(config.LogFile), 0o700)
	if err != nil {
		return nil, fmt.Errorf("failed to create logging folder: %s", err)
	}
	logFile, err := os.OpenFile(config.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("failed to create logging file: %s", err)
	}
	closer := func() {
		if cerr := logFile.Close(); cerr != nil {
			fmt.Println("error during closing of log file: ", cerr)
		}
	}
	logger, flusher := SetupLogging(config, logFile)

	// Setup the storage and the catalogue services.
	storage, err := NewFileStorage(logger, config.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to setup data storage: %s", err)
	}

	// Cover probing must see redirect statuses itself, so the shared
	// http client never follows them.
	httpClient := &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	coverResolver := NewCoverResolver(logger, &config.Covers, httpClient)
	lookupClient := NewOpenBDClient(logger, &config.OpenBD, httpClient, coverResolver)

	markdownService, err := NewMarkdownImpressionService(logger, config.Data.ImpressionsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to setup impressions directory: %s", err)
	}

	clock := NewClock()
	idsHandler := NewIDsHandler()

	impressionService, err := NewImpressionService(logger, clock, idsHandler, storage)
	if err != nil {
		return nil, fmt.Errorf("failed to load impressions: %s", err)
	}
	bookService, err := NewBookService(logger, clock, idsHandler, storage, lookupClient, markdownService, impressionService)
	if err != nil {
		return nil, fmt.Errorf("failed to load books: %s", err)
	}
	statusService, err := NewStatusService(logger, clock, idsHandler, storage, bookService)
	if err != nil {
		return nil, fmt.Errorf("failed to load status history: %s", err)
	}
	siteGenerator := NewStaticSiteGenerator(logger, bookService, impressionService, markdownService, config.Data.OutputDir)

	apiService := NewAPIHandler(
		logger,
		config,
		&Statistics{
			version:   config.GitTag,
			container: IsAppRunningInDocker(),
			started:   time.Now(),
			runtime:   runtime.Version(),
			platform:  runtime.GOOS + "/" + runtime.GOARCH,
		},
		clock,
		idsHandler,
		bookService,
		impressionService,
		statusService,
		markdownService,
		siteGenerator,
	)

	// Use git commit in case the tag is not set.
	if config.GitTag == "" {
		apiService.stats.version = config.GitCommit
	}

	// Build the map of middlewares stacks. Page responses are html so
	// they skip the cors headers meant for the json endpoints.
	pages := Middlewares{
		apiService.PanicRecoveryMiddleware,
		apiService.RequestsCounterMiddleware,
		apiService.RequestIDMiddleware,
		apiService.CoreMiddleware,
	}
	api := Middlewares{
		apiService.PanicRecoveryMiddleware,
		apiService.RequestsCounterMiddleware,
		apiService.RequestIDMiddleware,
		CORSMiddleware,
		apiService.CoreMiddleware,
	}

	// Configure the endpoints with their handlers and middlewares.
	router := apiService.SetupRoutes(httprouter.New(), &MiddlewareMap{pages: &pages, api: &api})

	// Build the api server definition.
	srv := &http.Server{
		Addr:           fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port),
		Handler:        router,
		ReadTimeout:    config.Server.ReadTimeout,
		WriteTimeout:   config.Server.WriteTimeout,
		MaxHeaderBytes: 1 << 20, // Max headers size : 1MB
	}

	return &App{
		logger:        logger,
		config:        config,
		server:        srv,
		books:         bookService,
		impressions:   impressionService,
		statuses:      statusService,
		markdown:      markdownService,
		siteGenerator: siteGenerator,
		cleanups: []func(){
			flusher,
			closer,
		},
	}, nil
}

// Run starts the web server and a goroutine which is responsible to stop it.
func (app *App) Run() error {
	defer app.Clean()
	nCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(nCtx)

	g.Go(app.Serve())
	g.Go(app.Stop(nCtx, gCtx))

	err := g.Wait()
	app.logger.Info("web server stopped",
		zap.String("app.host", app.config.Server.Host),
		zap.String("app.port", app.config.Server.Port),
		zap.Error(err),
	)
	return err
}

// Clean calls all registered cleanups functions.
func (app *App) Clean() {
	for _, f := range app.cleanups {
		f()
	}
}

// Serve starts the web server. It returned error
// will be caught by the errorgroup.
func (app *App) Serve() func() error {
	return func() error {
		app.logger.Info("web server starting",
			zap.String("app.host", app.config.Server.Host),
			zap.String("app.port", app.config.Server.Port),
		)
		err := app.server.ListenAndServe()
		if err == http.ErrServerClosed {
			err = nil
		}
		return err
	}
}

// Stop listens for the group context and triggers the server graceful shutdown.
// It states the reason of its call. We proceed with a brutal shutdown if the
// the graceful did not complete successfully. We explicitly return `nil` to
// allow the errorgroup catches only the `Serve` method result.
func (app *App) Stop(nCtx, gCtx context.Context) func() error {
	return func() error {
		<-gCtx.Done()

		if nCtx.Err() != nil {
			app.logger.Info("web server stopping. reason: requested to stop")
		} else {
			app.logger.Info("web server stopping. reason: errored at running")
		}

		sCtx, cancel := context.WithTimeout(context.Background(), app.config.Server.ShutdownTimeout)
		defer cancel()
		err := app.server.Shutdown(sCtx)
		switch err {
		case nil, http.ErrServerClosed:
			app.logger.Info("web server graceful shutdown succeeded")
		case context.DeadlineExceeded:
			app.logger.Info("web server graceful shutdown timed out")
		default:
			app.logger.Info("web server graceful shutdown failed", zap.Error(err))
		}

		if err != nil && err != http.ErrServerClosed {
			app.logger.Info("web server going to force shutdown", zap.Error(app.server.Close()))
		}
		return nil
	}
}
