package server

import (
	"log"
	"net/http"

	"github.com/whoAngeel/proshooter-backend-sub000/pkg/reconcile"
	"github.com/whoAngeel/proshooter-backend-sub000/pkg/storage"
)

type Server struct {
	DB           *storage.DB
	Consolidator *reconcile.Consolidator
	Username     string
	Password     string
}

func New(db *storage.DB, consolidator *reconcile.Consolidator, user, pass string) *Server {
	return &Server{
		DB:           db,
		Consolidator: consolidator,
		Username:     user,
		Password:     pass,
	}
}

func (s *Server) Start(addr string) error {
	mux := http.NewServeMux()

	// API Group
	mux.HandleFunc("GET /api/stats", s.basicAuth(s.handleStats))
	mux.HandleFunc("GET /api/sessions/{id}/totals", s.basicAuth(s.handleSessionTotals))
	mux.HandleFunc("GET /api/exercises/{id}", s.basicAuth(s.handleExercise))
	mux.HandleFunc("POST /api/exercises/{id}/consolidate", s.basicAuth(s.handleConsolidateExercise))
	mux.HandleFunc("POST /api/sessions/{id}/consolidate", s.basicAuth(s.handleConsolidateSession))

	log.Printf("Starting server on %s", addr)
	return http.ListenAndServe(addr, mux)
}

func (s *Server) basicAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.Username == "" && s.Password == "" {
			next(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || user != s.Username || pass != s.Password {
			w.Header().Set("WWW-Authenticate", `Basic realm="Restricted"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}
