package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ir-gateway/cmd/api/services"
)

// ObjectHandlers는 리포지터리 객체 검색 API의 gin 핸들러 모음이다.
type ObjectHandlers struct {
	objectService *services.ObjectService
}

func NewObjectHandlers(objectService *services.ObjectService) *ObjectHandlers {
	return &ObjectHandlers{objectService: objectService}
}

// Search godoc
// @Summary      리포지터리 객체 검색
// @Description  query가 비어 있으면 전체 일치로 동작한다.
// @Tags         objects
// @Produce      json
// @Param        query           query  string  false  "검색어"
// @Param        scope           query  string  false  "검색 범위(커뮤니티/컬렉션 ID)"
// @Param        page            query  int     false  "페이지(1부터)"  default(1)
// @Param        page_size       query  int     false  "페이지 크기"     default(20)
// @Param        sort            query  string  false  "정렬 필드"
// @Param        sort_direction  query  string  false  "asc 또는 desc"  default(desc)
// @Param        force           query  bool    false  "캐시 무시 여부"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /api/v1/objects/search [get]
func (h *ObjectHandlers) Search(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	in := services.SearchObjectsInput{
		Query:         c.Query("query"),
		Scope:         c.Query("scope"),
		Page:          page,
		PageSize:      pageSize,
		SortField:     c.Query("sort"),
		SortDirection: c.DefaultQuery("sort_direction", "desc"),
		Force:         c.Query("force") == "true",
	}

	result, err := h.objectService.Search(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}
