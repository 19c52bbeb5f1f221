package main

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sngm3741/teacher-registration/api/internal/config"
	"github.com/sngm3741/teacher-registration/api/internal/infrastructure/ratelimit"
	"github.com/sngm3741/teacher-registration/api/internal/server"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		cfg.ServerLog.Fatalf("MongoDB 接続に失敗しました: %v", err)
	}

	var limiter ratelimit.Limiter = ratelimit.NewMemoryLimiter(cfg.RateLimitMax, cfg.RateLimitWindow)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err := redisClient.Ping(ctx).Err(); err != nil {
			cfg.ServerLog.Fatalf("Redis 接続に失敗しました: %v", err)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				cfg.ServerLog.Printf("Redis 切断時にエラー: %v", err)
			}
		}()
		limiter = ratelimit.NewRedisLimiter(redisClient, cfg.RateLimitMax, cfg.RateLimitWindow)
		cfg.ServerLog.Printf("レート制限カウンタに Redis を使用します addr=%s", cfg.RedisAddr)
	}

	app, err := server.New(cfg, client, limiter)
	if err != nil {
		cfg.ServerLog.Fatalf("サーバーの初期化に失敗: %v", err)
	}
	if err := app.Run(); err != nil {
		cfg.ServerLog.Printf("サーバー起動に失敗: %v", err)
	}
}
