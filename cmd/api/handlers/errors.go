package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ir-gateway/cmd/api/clients/repoclient"
	"ir-gateway/remotedata"
)

// respondError는 서비스/클라이언트 계층의 에러를 HTTP 상태 코드로 사상한다.
//
// - ErrNotFound        → 404
// - ErrNameTaken       → 422 (백엔드 원문 포함)
// - ValidationError    → 400
// - TransportError     → 502 (업스트림 장애)
// - 그 외              → 500
//
// 에러 문자열은 가공 없이 그대로 내려간다. 특히 삭제 실패 원인은
// 백엔드가 준 문자열 원문이어야 한다.
func respondError(c *gin.Context, err error) {
	var validationErr *remotedata.ValidationError
	var transportErr *remotedata.TransportError

	switch {
	case errors.Is(err, repoclient.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repoclient.ErrNameTaken):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.As(err, &transportErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
