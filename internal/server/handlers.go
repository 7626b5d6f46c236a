package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/whoAngeel/proshooter-backend-sub000/pkg/reconcile"
	"github.com/whoAngeel/proshooter-backend-sub000/pkg/storage"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.DB.GetStats(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	json.NewEncoder(w).Encode(stats)
}

func (s *Server) handleSessionTotals(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	totals, err := s.DB.GetSessionTotals(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	json.NewEncoder(w).Encode(totals)
}

func (s *Server) handleExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	ex, err := s.DB.GetExercise(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	json.NewEncoder(w).Encode(ex)
}

func (s *Server) handleConsolidateExercise(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	res, err := s.Consolidator.UpdateExerciseFromAnalysis(r.Context(), id)
	if err != nil {
		// Missing prerequisites mean "not ready yet", not a server fault.
		if errors.Is(err, reconcile.ErrNoImage) || errors.Is(err, reconcile.ErrNoAnalysis) {
			http.Error(w, err.Error(), http.StatusConflict)
			return
		}
		writeStoreError(w, err)
		return
	}
	json.NewEncoder(w).Encode(res)
}

func (s *Server) handleConsolidateSession(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	batch, err := s.Consolidator.ConsolidateSessionExercises(r.Context(), id)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	json.NewEncoder(w).Encode(batch)
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, storage.ErrNotFound) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, err.Error(), http.StatusInternalServerError)
}
