// Command admintoken mints an HS256 token accepted by the admin endpoints
// when ADMIN_JWT_SECRET is configured.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sngm3741/teacher-registration/api/internal/config"
)

func main() {
	subject := flag.String("subject", "", "トークンの subject (管理者の識別子)")
	ttl := flag.Duration("ttl", 24*time.Hour, "有効期間")
	flag.Parse()

	cfg := config.Load()
	token, err := mint(cfg.AdminJWT, *subject, *ttl, time.Now())
	if err != nil {
		log.Fatalf("トークンの発行に失敗しました: %v", err)
	}
	fmt.Fprintln(os.Stdout, token)
}

func mint(cfg config.JWTConfig, subject string, ttl time.Duration, now time.Time) (string, error) {
	if !cfg.Enabled() {
		return "", fmt.Errorf("ADMIN_JWT_SECRET is not set")
	}
	if subject == "" {
		return "", fmt.Errorf("-subject is required")
	}
	if ttl <= 0 {
		return "", fmt.Errorf("-ttl must be positive")
	}

	claims := jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Issuer:    cfg.Issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
}
