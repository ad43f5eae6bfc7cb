package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/reportrelay/internal/handler"
	"github.com/reportrelay/internal/middleware"
)

func (app *App) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(app.logger))
	r.Use(chimw.Recoverer)
	r.Use(middleware.SecurityHeaders)

	r.Get("/api/health", handler.Health(app.forwarder))

	// Every method is routed here; the handler answers non-POST with 405.
	forwardHandler := handler.NewForwardHandler(app.logger, app.forwarder, app.config.MaxBodyBytes())
	r.HandleFunc("/api/forward", forwardHandler.Handle)

	return r
}
