package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ir-gateway/cmd/api/services"
	"ir-gateway/opensearch"
)

// FeedHandlers는 OpenSearch 피드 링크/미리보기 API의 gin 핸들러 모음이다.
type FeedHandlers struct {
	feedService *services.FeedService
}

func NewFeedHandlers(feedService *services.FeedService) *FeedHandlers {
	return &FeedHandlers{feedService: feedService}
}

func sortFromQuery(c *gin.Context) *opensearch.Sort {
	field := c.Query("sort")
	if field == "" {
		return nil
	}
	return &opensearch.Sort{
		Field:     field,
		Direction: c.DefaultQuery("sort_direction", "desc"),
	}
}

// Links godoc
// @Summary      피드 head 링크 조회
// @Description  현재 검색 조건에 대한 Atom/RSS 대체 링크 쌍을 반환한다.
// @Description  OpenSearch가 꺼져 있으면 enabled=false에 빈 목록이 나간다.
// @Tags         feeds
// @Produce      json
// @Param        scope           query  string  false  "검색 범위"
// @Param        query           query  string  false  "검색어"
// @Param        sort            query  string  false  "정렬 필드"
// @Param        sort_direction  query  string  false  "asc 또는 desc"  default(desc)
// @Success      200  {object}  dto.FeedLinksDTO
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/feeds/links [get]
func (h *FeedHandlers) Links(c *gin.Context) {
	result, err := h.feedService.Links(c.Request.Context(), c.Query("scope"), c.Query("query"), sortFromQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Preview godoc
// @Summary      피드 미리보기
// @Description  피드를 실제로 가져와 HTML이 제거된 정규화 항목을 반환한다.
// @Tags         feeds
// @Produce      json
// @Param        format          query  string  false  "atom 또는 rss"  default(atom)
// @Param        scope           query  string  false  "검색 범위"
// @Param        query           query  string  false  "검색어"
// @Param        sort            query  string  false  "정렬 필드"
// @Param        sort_direction  query  string  false  "asc 또는 desc"  default(desc)
// @Param        limit           query  int     false  "최대 항목 수"
// @Success      200  {object}  dto.FeedPreviewDTO
// @Failure      400  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/feeds/preview [get]
func (h *FeedHandlers) Preview(c *gin.Context) {
	format := c.DefaultQuery("format", opensearch.FormatAtom)
	if format != opensearch.FormatAtom && format != opensearch.FormatRSS {
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be atom or rss"})
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))

	result, err := h.feedService.Preview(c.Request.Context(), c.Query("scope"), c.Query("query"), format, sortFromQuery(c), limit)
	if err != nil {
		if errors.Is(err, services.ErrFeedsDisabled) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
