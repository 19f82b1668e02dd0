package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ir-gateway/cmd/api/auth"
)

// AdminAuthMiddleware 는 그룹 레지스트리 변경 엔드포인트를 보호한다.
// Bearer JWT 를 검증하고 role=admin 이 아니면 403 으로 중단한다.
// 통과 시 user_code / user_role 을 gin 컨텍스트에 저장한다.
func AdminAuthMiddleware(jwtManager *auth.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := auth.ExtractBearerToken(c)
		if err != nil {
			auth.AbortWithUnauthorized(c, err)
			return
		}

		userCode, role, err := jwtManager.Parse(token)
		if err != nil {
			auth.AbortWithUnauthorized(c, err)
			return
		}

		if role != auth.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin_role_required"})
			return
		}

		c.Set("user_code", userCode)
		c.Set("user_role", role)
		c.Next()
	}
}
