package main

import (
	"github.com/julienschmidt/httprouter"
)

// MiddlewareMap contains middlwares chain to
// use for page and api requests.
type MiddlewareMap struct {
	pages *Middlewares
	api   *Middlewares
}

// SetupRoutes enforces the web and api routes.
func (api *APIHandler) SetupRoutes(router *httprouter.Router, m *MiddlewareMap) *httprouter.Router {
	router.RedirectTrailingSlash = true
	router.GET("/", m.pages.Chain(api.Index))
	router.GET("/status", m.api.Chain(api.Status))

	router.GET("/books", m.pages.Chain(api.BooksList))
	router.GET("/books/:id", m.pages.Chain(api.BookDetail))
	router.POST("/books/:id/status", m.pages.Chain(api.UpdateBookStatus))
	router.POST("/books/:id/delete", m.pages.Chain(api.DeleteBookWeb))

	router.GET("/scan", m.pages.Chain(api.ScanPage))
	router.POST("/add-book-from-isbn", m.pages.Chain(api.AddBookFromISBN))
	router.POST("/api/add-book-from-isbn", m.api.Chain(api.APIAddBookFromISBN))

	router.GET("/generate-site", m.pages.Chain(api.GenerateSitePage))
	router.POST("/generate-site", m.pages.Chain(api.GenerateSite))

	router.NotFound = api.NotFound()
	return router
}
