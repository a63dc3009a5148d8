package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-kratos/kratos/v2/log"
	"github.com/golang-jwt/jwt/v5"
)

// JWTManager validates bearer tokens and attaches the resulting Identity to
// the request context.
type JWTManager struct {
	secretKey     string
	tokenDuration time.Duration
	skipPaths     []string
	logger        *log.Helper
}

// Claims are the JWT claims this service issues and accepts.
type Claims struct {
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTConfig configures the JWT manager.
type JWTConfig struct {
	SecretKey     string
	TokenDuration time.Duration
	SkipPaths     []string
}

// NewJWTManager creates a JWT manager.
func NewJWTManager(config *JWTConfig, logger log.Logger) *JWTManager {
	if config.TokenDuration == 0 {
		config.TokenDuration = 24 * time.Hour
	}
	if config.SkipPaths == nil {
		config.SkipPaths = []string{"/health", "/metrics"}
	}

	return &JWTManager{
		secretKey:     config.SecretKey,
		tokenDuration: config.TokenDuration,
		skipPaths:     config.SkipPaths,
		logger:        log.NewHelper(log.With(logger, "module", "jwt")),
	}
}

// GenerateToken issues a signed token for the identity.
func (m *JWTManager) GenerateToken(id Identity) (string, error) {
	claims := Claims{
		UserID:   id.UserID,
		TenantID: id.TenantID,
		Role:     id.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(m.tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.secretKey))
}

// VerifyToken parses and validates a token string.
func (m *JWTManager) VerifyToken(tokenStr string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(m.secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// Middleware authenticates requests. Requests without a valid bearer token
// are rejected with 401 before any handler runs; handlers past this point
// can rely on IdentityFromContext succeeding.
func (m *JWTManager) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.shouldSkip(c.Request.URL.Path) {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			m.logger.Warn("missing authorization header")
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			m.logger.Warn("invalid authorization format")
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "invalid authorization format"})
			c.Abort()
			return
		}

		claims, err := m.VerifyToken(parts[1])
		if err != nil {
			m.logger.Warnf("token verification failed: %v", err)
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "invalid or expired token"})
			c.Abort()
			return
		}

		if claims.UserID == "" || claims.TenantID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"code": 401, "message": "token missing identity claims"})
			c.Abort()
			return
		}

		id := Identity{
			UserID:   claims.UserID,
			TenantID: claims.TenantID,
			Role:     claims.Role,
		}
		c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), id))
		c.Next()
	}
}

func (m *JWTManager) shouldSkip(path string) bool {
	for _, p := range m.skipPaths {
		if path == p || strings.HasPrefix(path, p+"/") {
			return true
		}
	}
	return false
}
