package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	muwanx "github.com/muwanx/muwanx-go"
)

// previewHandler serves the emitted bundle under its base path. The natural
// entry URL without the trailing slash redirects onto the base path instead
// of falling through to the root file server.
func previewHandler(basePath string, files http.Handler, logger *slog.Logger) http.Handler {
	trimmed := strings.TrimSuffix(basePath, "/")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.Debug("Preview request.", "remote_addr", r.RemoteAddr, "path", r.URL.Path)
		if basePath == "/" {
			files.ServeHTTP(w, r)
			return
		}
		if r.URL.Path == trimmed {
			http.Redirect(w, r, basePath, http.StatusMovedPermanently)
			return
		}
		if strings.HasPrefix(r.URL.Path, basePath) {
			http.StripPrefix(trimmed, files).ServeHTTP(w, r)
			return
		}
		files.ServeHTTP(w, r)
	})
}

// serve runs a thin local preview server over the emitted bundle. It is a
// development convenience only; production hosting is any static file
// server.
func (a *App) serve(ctx context.Context, result *muwanx.BuildResult) error {
	basePath := result.Manifest.BasePath
	fileServer := http.FileServer(http.Dir(result.OutputDir))

	addr := fmt.Sprintf(":%d", a.config.ServePort)
	server := &http.Server{Addr: addr, Handler: previewHandler(basePath, fileServer, a.logger)}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	a.logger.Info("Preview server starting.",
		"address", fmt.Sprintf("http://localhost%s%s", addr, basePath))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("preview server: %w", err)
	}
	return nil
}
