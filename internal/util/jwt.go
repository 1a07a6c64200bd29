package util

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// IdentityClaims 身份提供方签发的令牌声明
type IdentityClaims struct {
	Name              string `json:"name,omitempty"`
	PreferredUsername string `json:"preferred_username,omitempty"`
	Email             string `json:"email,omitempty"`
	Picture           string `json:"picture,omitempty"`
	jwt.RegisteredClaims
}

// GenerateIdentityToken 签发身份令牌，用于本地联调和测试
func GenerateIdentityToken(claims IdentityClaims, secret string, expiration time.Duration) (string, error) {
	now := time.Now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(expiration))

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseIdentityToken 校验签名、过期时间和签发方
func ParseIdentityToken(tokenString, secret, issuer string) (*IdentityClaims, error) {
	opts := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &IdentityClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidIdentity, err)
	}

	claims, ok := token.Claims.(*IdentityClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidIdentity
	}
	return claims, nil
}

// GetLearnerIDFromContext 读取身份中间件写入的学员 ID
func GetLearnerIDFromContext(c *gin.Context) string {
	id, exists := c.Get("learnerID")
	if !exists {
		return ""
	}
	learnerID, _ := id.(string)
	return learnerID
}
