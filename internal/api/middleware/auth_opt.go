package middleware

import (
	"Agora/internal/pkg/security"
	"Agora/internal/pkg/util"
	"context"
	"strings"

	"github.com/gin-gonic/gin"
)

// OptionalAuthMiddleware 公共读接口用：有 Token 则解析身份，
// 没有或解析失败按匿名处理，组织标识回落到请求头
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if strings.HasPrefix(authHeader, "Bearer ") {
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if claims, err := security.ValidateToken(tokenString); err == nil {
				c.Set("user_id", claims.UserID)
				c.Set("org_id", claims.OrgID)
				c.Set("roles", claims.Roles)

				newCtx := context.WithValue(c.Request.Context(), "user_id", claims.UserID)
				c.Request = c.Request.WithContext(newCtx)
				c.Next()
				return
			}
		}

		c.Set("user_id", uint64(0))
		c.Set("org_id", util.StrToUint64(c.GetHeader("X-Org-ID")))
		c.Set("roles", []string{})
		c.Next()
	}
}
