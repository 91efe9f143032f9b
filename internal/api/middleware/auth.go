package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"infofix/backend/internal/model"
	"infofix/backend/pkg/jwt"
	"infofix/backend/pkg/response"
)

// JWTAuth 访问令牌认证中间件
//
// 令牌由外部身份系统签发，本服务只校验签名、类型与声明：
// 员工 id 不能为空，角色必须是已定义的员工角色。
// 校验通过后向上下文注入 user_id 与 role。
func JWTAuth(jwtMgr *jwt.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			response.Unauthorized(c, 10002, "缺少或无效的认证头")
			c.Abort()
			return
		}

		claims, err := jwtMgr.ParseToken(token)
		if err != nil {
			response.Unauthorized(c, 10002, "Token 无效或已过期")
			c.Abort()
			return
		}

		switch {
		case claims.TokenType != "access":
			response.Unauthorized(c, 10002, "Token 类型无效")
		case strings.TrimSpace(claims.UserID) == "":
			response.Unauthorized(c, 10002, "Token 缺少员工 id")
		case !model.IsKnownRole(claims.Role):
			response.Unauthorized(c, 10002, "Token 角色无效")
		default:
			c.Set("user_id", claims.UserID)
			c.Set("role", claims.Role)
			c.Next()
			return
		}
		c.Abort()
	}
}

// RequireAdmin 仅放行可维护值班登记册的管理角色
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Unauthorized(c, 10002, "未认证")
			c.Abort()
			return
		}
		if !model.IsAdminRole(role) {
			response.Forbidden(c, 10003, "仅管理员可操作值班登记册")
			c.Abort()
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != "Bearer" {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
