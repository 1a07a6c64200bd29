package middleware

import (
	"context"
	"skillup_backend/internal/config"
	"skillup_backend/internal/model"
	"skillup_backend/internal/util"
	"skillup_backend/pkg/logger"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LearnerResolver 将身份令牌映射为学员
type LearnerResolver interface {
	Resolve(ctx context.Context, claims *util.IdentityClaims) (*model.Learner, error)
}

// IdentityMiddleware 校验身份令牌，并把学员 ID 写入上下文 "learnerID"
func IdentityMiddleware(cfg *config.IdentityConfig, learners LearnerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseIdentityToken(tokenString, cfg.Secret, cfg.Issuer)
		if err != nil {
			logger.Log.Debug("identity token rejected", zap.Error(err))
			util.Unauthorized(c)
			c.Abort()
			return
		}

		learner, err := learners.Resolve(c.Request.Context(), claims)
		if err != nil {
			util.LogInternalError(c, err)
			c.Abort()
			return
		}

		c.Set("learnerID", learner.ID)
		c.Set("identity", claims)
		c.Next()
	}
}
