package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/immodash/immodash/internal/utils"
	"github.com/immodash/immodash/pkg/ai"
	"github.com/immodash/immodash/pkg/app"
)

type Server struct {
	App   *app.Controller
	Proxy ai.ProxyBackend

	Username string
	Password string
}

func New(ctrl *app.Controller, proxy ai.ProxyBackend, user, pass string) *Server {
	return &Server{
		App:      ctrl,
		Proxy:    proxy,
		Username: user,
		Password: pass,
	}
}

// Handler returns the routed API and dashboard.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Model access
	mux.HandleFunc("POST /api/proxy/generate", s.basicAuth(s.handleProxyGenerate))
	mux.HandleFunc("POST /api/reports/{kind}", s.basicAuth(s.handleReport))

	// Prospecting log and archives
	mux.HandleFunc("GET /api/prospection", s.basicAuth(s.handleProspection))
	mux.HandleFunc("POST /api/prospection/intent", s.basicAuth(s.handleIntent))
	mux.HandleFunc("POST /api/prospection/months", s.basicAuth(s.handleStartMonth))
	mux.HandleFunc("DELETE /api/prospection/items/{id}", s.basicAuth(s.handleDeleteItem))
	mux.HandleFunc("DELETE /api/prospection/months/{label}", s.basicAuth(s.handleDeleteMonth))
	mux.HandleFunc("POST /api/prospection/reset", s.basicAuth(s.handleReset))
	mux.HandleFunc("POST /api/prospection/archive", s.basicAuth(s.handleArchive))
	mux.HandleFunc("GET /api/archives", s.basicAuth(s.handleArchives))
	mux.HandleFunc("DELETE /api/archives/{index}", s.basicAuth(s.handleDeleteArchive))

	// Workspace
	mux.HandleFunc("GET /api/ideas", s.basicAuth(s.handleIdeas))
	mux.HandleFunc("POST /api/ideas", s.basicAuth(s.handleAddIdea))
	mux.HandleFunc("DELETE /api/ideas", s.basicAuth(s.handleDeleteIdea))
	mux.HandleFunc("GET /api/goals", s.basicAuth(s.handleGoals))
	mux.HandleFunc("PUT /api/goals", s.basicAuth(s.handleUpdateGoals))
	mux.HandleFunc("GET /api/estimation", s.basicAuth(s.handleEstimation))
	mux.HandleFunc("PUT /api/estimation", s.basicAuth(s.handleSaveEstimation))

	// Settings
	mux.HandleFunc("PUT /api/theme", s.basicAuth(s.handleTheme))
	mux.HandleFunc("POST /api/pin", s.basicAuth(s.handlePIN))
	mux.HandleFunc("POST /api/unlock", s.basicAuth(s.handleUnlock))

	mux.HandleFunc("GET /{$}", s.basicAuth(s.handleDashboard))

	return mux
}

// Start serves until ctx is cancelled.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		utils.Log.Infof("Starting server on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		utils.Log.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
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
