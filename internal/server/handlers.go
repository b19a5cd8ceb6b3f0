package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/muurk/premiere/internal/card"
	"github.com/muurk/premiere/internal/logging"
	"github.com/muurk/premiere/internal/protocol"
	"github.com/muurk/premiere/internal/urls"
	"github.com/muurk/premiere/internal/version"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET "+urls.Health, s.handleHealth)
	mux.HandleFunc("GET "+urls.Scripts, s.handleScripts)
	mux.HandleFunc("GET "+urls.ScriptPattern, s.handleScript)
	mux.HandleFunc("GET "+urls.Catalog, s.handleCatalog)
	mux.HandleFunc("GET "+urls.Feed, s.handleFeed)
	if s.config.ImageDir != "" {
		mux.Handle("GET "+urls.Images, http.StripPrefix(urls.Images, http.FileServer(http.Dir(s.config.ImageDir))))
	}
	mux.HandleFunc("/", s.handleNotFound)

	return requestLogger(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, protocol.Health{
		Status:  "ok",
		Version: version.Version,
		Scripts: s.source.Current().Len(),
	})
}

func (s *Server) handleScripts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, protocol.ScriptList{
		Scripts: card.FromCatalog(s.source.Current()),
	})
}

func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	rec, ok := s.source.Current().Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "script "+id+" not found")
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleCatalog(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.source.Current().Document())
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "no route for "+r.Method+" "+r.URL.Path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Debug("Failed to write response body", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, protocol.ErrorResponse{Error: message, Status: status})
}
