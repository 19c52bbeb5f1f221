package server

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sngm3741/teacher-registration/api/internal/infrastructure/ratelimit"
	adminhttp "github.com/sngm3741/teacher-registration/api/internal/interfaces/http/admin"
	commonhttp "github.com/sngm3741/teacher-registration/api/internal/interfaces/http/common"
	publichttp "github.com/sngm3741/teacher-registration/api/internal/interfaces/http/public"
)

// routerDeps はルータ組み立てに必要な依存。Mongo に依存しないためテストから直接組み立てられる。
type routerDeps struct {
	Logger          *log.Logger
	AllowedOrigins  []string
	Limiter         ratelimit.Limiter
	Gate            *adminGate
	Public          publichttp.Config
	Admin           adminhttp.Config
	Health          func(ctx context.Context) error
	UploadDir       string
	UploadURLPrefix string
	PublicDir       string
}

func newRouter(deps routerDeps) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(securityHeaders)
	router.Use(newCompressor())
	router.Use(withCORS(deps.AllowedOrigins))

	router.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		commonhttp.WriteMessage(deps.Logger, w, http.StatusNotFound, "Not Found")
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		commonhttp.WriteMessage(deps.Logger, w, http.StatusMethodNotAllowed, "Method Not Allowed")
	})

	router.Get("/healthz", healthHandler(deps.Logger, deps.Health))

	publicHandler := publichttp.NewHandler(deps.Public)
	adminHandler := adminhttp.NewHandler(deps.Admin)

	router.Group(func(r chi.Router) {
		r.Use(rateLimit(deps.Limiter, deps.Logger))

		r.Route("/api", func(api chi.Router) {
			publicHandler.Register(api)
			api.Group(func(protected chi.Router) {
				protected.Use(deps.Gate.Middleware)
				adminHandler.Register(protected)
			})
		})

		if deps.UploadDir != "" {
			prefix := strings.TrimRight(deps.UploadURLPrefix, "/")
			r.Handle(prefix+"/*", http.StripPrefix(prefix+"/", fileServer(deps.UploadDir)))
		}
		if dirExists(deps.Logger, deps.PublicDir) {
			r.Handle("/*", fileServer(deps.PublicDir))
		}
	})

	return router
}

// healthHandler はストレージへの疎通確認だけを返す。
func healthHandler(logger *log.Logger, ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if ping != nil {
			if err := ping(ctx); err != nil {
				logger.Printf("ヘルスチェックに失敗: %v", err)
				commonhttp.WriteJSON(logger, w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
				return
			}
		}
		commonhttp.WriteJSON(logger, w, http.StatusOK, map[string]string{
			"status": "ok",
			"time":   time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// fileServer serves files from dir without directory listings.
func fileServer(dir string) http.Handler {
	return http.FileServer(noListingFS{http.Dir(dir)})
}

type noListingFS struct {
	fs http.FileSystem
}

func (n noListingFS) Open(name string) (http.File, error) {
	f, err := n.fs.Open(name)
	if err != nil {
		return nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, err
	}
	if info.IsDir() {
		index, err := n.fs.Open(strings.TrimSuffix(name, "/") + "/index.html")
		if err != nil {
			_ = f.Close()
			return nil, fs.ErrNotExist
		}
		_ = index.Close()
	}
	return f, nil
}

func dirExists(logger *log.Logger, dir string) bool {
	if strings.TrimSpace(dir) == "" {
		return false
	}
	info, err := os.Stat(dir)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logger.Printf("静的ディレクトリ %s の確認に失敗: %v", dir, err)
		}
		return false
	}
	return info.IsDir()
}
