package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"
)

var EmptyData = struct{}{}

// Statistics holds app stats.
type Statistics struct {
	version   string
	container bool
	runtime   string
	platform  string
	called    uint64
	started   time.Time
}

// APIHandler defines the web handler with all its collaborators.
type APIHandler struct {
	logger            *zap.Logger
	config            *Config
	stats             *Statistics
	clock             Clocker
	idsHandler        UIDHandler
	bookService       BookServiceProvider
	impressionService ImpressionServiceProvider
	statusService     StatusServiceProvider
	markdownService   *MarkdownImpressionService
	siteGenerator     *StaticSiteGenerator
}

// NewAPIHandler provides a new instance of APIHandler.
func NewAPIHandler(
	logger *zap.Logger,
	config *Config,
	stats *Statistics,
	clock Clocker,
	idsHandler UIDHandler,
	bookService BookServiceProvider,
	impressionService ImpressionServiceProvider,
	statusService StatusServiceProvider,
	markdownService *MarkdownImpressionService,
	siteGenerator *StaticSiteGenerator,
) *APIHandler {
	return &APIHandler{
		logger:            logger,
		config:            config,
		stats:             stats,
		clock:             clock,
		idsHandler:        idsHandler,
		bookService:       bookService,
		impressionService: impressionService,
		statusService:     statusService,
		markdownService:   markdownService,
		siteGenerator:     siteGenerator,
	}
}

// Status provides basics details about the application to the public users.
func (api *APIHandler) Status(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	requestID := GetValueFromContext(r.Context(), ContextRequestID)
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
	if err := json.NewEncoder(w).Encode(
		map[string]interface{}{
			"requestid": requestID,
			"status":    fmt.Sprintf("up & running since %.0f mins", api.clock.Now().Sub(api.stats.started).Minutes()),
			"message":   "Hello. Bookshelf catalogue is available. Enjoy :)",
		},
	); err != nil {
		api.logger.Error("failed to send status response", zap.String("request.id", requestID), zap.Error(err))
	}
}

// NotFound builds the handler used for unknown routes.
func (api *APIHandler) NotFound() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "404 page not found", http.StatusNotFound)
	})
}
