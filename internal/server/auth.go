package server

import (
	"crypto/subtle"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sngm3741/teacher-registration/api/internal/config"
	commonhttp "github.com/sngm3741/teacher-registration/api/internal/interfaces/http/common"
)

const (
	msgNoToken      = "Access Denied: No Token Provided"
	msgInvalidToken = "Access Denied: Invalid Token"

	staticTokenSubject = "static-token"
)

// adminGate は管理 API の入口で共有トークン (または任意の管理者 JWT) を検証する。
type adminGate struct {
	logger *log.Logger
	token  []byte
	jwt    config.JWTConfig
}

func newAdminGate(logger *log.Logger, token string, jwtConfig config.JWTConfig) *adminGate {
	return &adminGate{logger: logger, token: []byte(token), jwt: jwtConfig}
}

// Middleware rejects requests without a token (401) or with a token that is not accepted (403).
func (g *adminGate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r.Header.Get("Authorization"))
		if token == "" {
			commonhttp.WriteMessage(g.logger, w, http.StatusUnauthorized, msgNoToken)
			return
		}

		principal, err := g.authenticate(token)
		if err != nil {
			g.logger.Printf("管理 API の認証に失敗 remote=%s: %v", r.RemoteAddr, err)
			commonhttp.WriteMessage(g.logger, w, http.StatusForbidden, msgInvalidToken)
			return
		}

		ctx := commonhttp.ContextWithAdmin(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (g *adminGate) authenticate(token string) (commonhttp.AdminPrincipal, error) {
	if len(g.token) > 0 && subtle.ConstantTimeCompare([]byte(token), g.token) == 1 {
		return commonhttp.AdminPrincipal{Subject: staticTokenSubject, Method: "static-token"}, nil
	}
	if !g.jwt.Enabled() {
		return commonhttp.AdminPrincipal{}, fmt.Errorf("token mismatch")
	}

	claims, err := parseAdminToken(token, g.jwt)
	if err != nil {
		return commonhttp.AdminPrincipal{}, err
	}
	return commonhttp.AdminPrincipal{Subject: claims.Subject, Method: "jwt"}, nil
}

// bearerToken returns the credential after the scheme, e.g. "Bearer <token>".
func bearerToken(header string) string {
	fields := strings.Fields(header)
	if len(fields) < 2 {
		return ""
	}
	return fields[1]
}

// parseAdminToken は HS256 署名と Issuer/Subject の整合性を確認する。
func parseAdminToken(tokenString string, cfg config.JWTConfig) (*jwt.RegisteredClaims, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
		}
		return cfg.Secret, nil
	}, jwt.WithLeeway(30*time.Second), jwt.WithIssuedAt())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("invalid admin token")
	}
	if cfg.Issuer != "" && claims.Issuer != cfg.Issuer {
		return nil, fmt.Errorf("unexpected issuer %q", claims.Issuer)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("admin token has no subject")
	}
	return claims, nil
}
