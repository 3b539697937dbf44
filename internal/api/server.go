// Package api serves the triage core over HTTP for the browser front end.
//
// The API is stateless. A client walks the flowchart locally using
// /v1/protocol and posts the chosen option values to /v1/assessments,
// where they are replayed through a fresh session.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/abhisek/imci/internal/config"
	"github.com/abhisek/imci/internal/counsel"
	"github.com/abhisek/imci/internal/decision"
	"github.com/abhisek/imci/internal/growth"
)

// Deps are the collaborators the handlers read from. Graph and Curves are
// immutable and shared across requests.
type Deps struct {
	Graph   *decision.Graph
	Curves  growth.CurveSet
	Counsel *counsel.Service
	Server  config.ServerConfig
}

type server struct {
	graph   *decision.Graph
	curves  growth.CurveSet
	counsel *counsel.Service
}

// New builds the HTTP handler.
func New(d Deps) http.Handler {
	if d.Counsel == nil {
		d.Counsel = counsel.NewService(nil, counsel.Config{})
	}
	s := &server{graph: d.Graph, curves: d.Curves, counsel: d.Counsel}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: d.Server.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", s.health)

	r.Route("/v1", func(r chi.Router) {
		if rl := d.Server.RateLimit; rl.RequestsPerSecond > 0 {
			r.Use(newClientLimiter(rl.RequestsPerSecond, rl.Burst).middleware)
		}
		r.Use(middleware.AllowContentType("application/json"))

		r.Get("/protocol", s.protocol)
		r.Get("/nodes/{id}", s.node)
		r.Post("/assessments", s.assess)
		r.Get("/growth/{kind}", s.growth)

		r.Route("/reference", func(r chi.Router) {
			r.Get("/vitals", s.vitals)
			r.Get("/codes", s.codes)
			r.Get("/formulary", s.formularyIndex)
			r.Get("/formulary/{condition}", s.formulary)
		})
	})

	return r
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		zap.L().Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Int("bytes", ww.BytesWritten()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}
