package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	adminapp "github.com/sngm3741/teacher-registration/api/internal/admin/application"
	"github.com/sngm3741/teacher-registration/api/internal/config"
	mongodoc "github.com/sngm3741/teacher-registration/api/internal/infrastructure/mongo"
	"github.com/sngm3741/teacher-registration/api/internal/infrastructure/ratelimit"
	"github.com/sngm3741/teacher-registration/api/internal/infrastructure/referencedata"
	"github.com/sngm3741/teacher-registration/api/internal/infrastructure/uploads"
	adminhttp "github.com/sngm3741/teacher-registration/api/internal/interfaces/http/admin"
	publichttp "github.com/sngm3741/teacher-registration/api/internal/interfaces/http/public"
	publicapp "github.com/sngm3741/teacher-registration/api/internal/public/application"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Server は HTTP サーバーのライフサイクルを管理し、Public/Admin の各ハンドラへ依存注入するコンポジションルート。
type Server struct {
	logger           *log.Logger
	client           *mongo.Client
	registrationRepo *mongodoc.RegistrationRepository
	handler          http.Handler
	addr             string
}

// New は Config と Mongo クライアント、レートリミッタを受け取り、アプリケーションサービスとハンドラを組み立てる。
func New(cfg config.Config, client *mongo.Client, limiter ratelimit.Limiter) (*Server, error) {
	database := client.Database(cfg.MongoDatabase)

	registrationRepo := mongodoc.NewRegistrationRepository(database, cfg.SubmissionCollection)
	adminRepo := mongodoc.NewAdminRegistrationRepository(database, cfg.SubmissionCollection)
	referenceRepo, err := referencedata.NewFileRepository(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("reference data: %w", err)
	}
	photos := uploads.NewLocalStore(cfg.UploadDir, cfg.MaxUploadBytes)

	srv := &Server{
		logger:           cfg.ServerLog,
		client:           client,
		registrationRepo: registrationRepo,
		addr:             cfg.Addr,
	}
	srv.handler = newRouter(routerDeps{
		Logger:         cfg.ServerLog,
		AllowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
		Limiter:        limiter,
		Gate:           newAdminGate(cfg.ServerLog, cfg.AdminToken, cfg.AdminJWT),
		Public: publichttp.Config{
			Logger:         cfg.ServerLog,
			References:     publicapp.NewReferenceQueryService(referenceRepo),
			Registrations:  publicapp.NewRegistrationCommandService(registrationRepo, photos),
			MaxBodyBytes:   cfg.MaxBodyBytes,
			MaxUploadBytes: cfg.MaxUploadBytes,
		},
		Admin: adminhttp.Config{
			Logger:        cfg.ServerLog,
			Registrations: adminapp.NewRegistrationService(adminRepo),
		},
		Health: func(ctx context.Context) error {
			return client.Ping(ctx, readpref.Primary())
		},
		UploadDir:       cfg.UploadDir,
		UploadURLPrefix: cfg.UploadURLPrefix,
		PublicDir:       cfg.PublicDir,
	})
	return srv, nil
}

// Run はインデックスを用意したうえで HTTP サーバーを起動し、シグナルを受けるまでブロックする。
func (s *Server) Run() error {
	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := s.registrationRepo.EnsureIndexes(indexCtx); err != nil {
		s.logger.Printf("createdAt インデックスの作成に失敗しました: %v", err)
	}
	cancel()

	httpServer := &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Printf("HTTP サーバー起動: http://%s", s.addr)
		errChan <- httpServer.ListenAndServe()
	}()

	return waitForShutdown(httpServer, errChan, s)
}

// shutdown は MongoDB クライアントをタイムアウト付きで切断する。
func (s *Server) shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.Disconnect(shutdownCtx); err != nil {
		s.logger.Printf("MongoDB 切断時にエラー: %v", err)
	}
}

// waitForShutdown は ListenAndServe の終了と OS シグナルを監視し、graceful shutdown を実現する。
func waitForShutdown(httpServer *http.Server, errChan <-chan error, srv *Server) error {
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("サーバーが異常終了: %w", err)
		}
	case sig := <-sigChan:
		srv.logger.Printf("シグナル %s を受信。サーバー停止処理を開始します。", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			srv.logger.Printf("サーバー停止時にエラー: %v", err)
		}
	}

	srv.shutdown(context.Background())
	return runErr
}
