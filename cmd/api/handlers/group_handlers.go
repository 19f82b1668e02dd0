package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ir-gateway/cmd/api/dto"
	"ir-gateway/cmd/api/services"
)

// GroupHandlers는 그룹 레지스트리 API의 gin 핸들러 모음이다.
type GroupHandlers struct {
	groupService *services.GroupService
}

func NewGroupHandlers(groupService *services.GroupService) *GroupHandlers {
	return &GroupHandlers{groupService: groupService}
}

// List godoc
// @Summary      그룹 레지스트리 목록 조회
// @Description  그룹 목록에 행별 삭제 가능 여부(able_to_delete)를 합성해 반환한다.
// @Description  query가 previous_query와 다르면 페이지는 1로 강제된다.
// @Tags         groups
// @Produce      json
// @Param        query           query  string  false  "이름 검색어"
// @Param        previous_query  query  string  false  "직전 요청의 검색어"
// @Param        page            query  int     false  "페이지(1부터)"       default(1)
// @Param        page_size       query  int     false  "페이지 크기"          default(20)
// @Param        force           query  bool    false  "캐시 무시 여부"
// @Success      200  {object}  map[string]interface{}
// @Failure      400  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/v1/groups [get]
func (h *GroupHandlers) List(c *gin.Context) {
	query := c.Query("query")
	previousQuery := c.Query("previous_query")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	force := c.Query("force") == "true"

	// 검색어가 바뀌면 이전 페이지 번호는 의미가 없으므로 1페이지로 돌린다.
	if query != previousQuery {
		page = 1
	}

	result, err := h.groupService.List(c.Request.Context(), services.ListGroupsInput{
		Query:    query,
		Page:     page,
		PageSize: pageSize,
		Force:    force,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Create godoc
// @Summary      그룹 생성
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateGroupRequest  true  "그룹 이름"
// @Success      201  {object}  dto.GroupDTO
// @Failure      400  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/v1/groups [post]
func (h *GroupHandlers) Create(c *gin.Context) {
	var req dto.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	created, err := h.groupService.Create(c.Request.Context(), actorFromContext(c), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, created)
}

// Rename godoc
// @Summary      그룹 이름 변경
// @Tags         groups
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "그룹 ID"
// @Param        body  body  dto.RenameGroupRequest  true  "새 이름"
// @Success      200  {object}  dto.GroupDTO
// @Failure      404  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/v1/groups/{id} [patch]
func (h *GroupHandlers) Rename(c *gin.Context) {
	var req dto.RenameGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	renamed, err := h.groupService.Rename(c.Request.Context(), actorFromContext(c), c.Param("id"), req.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, renamed)
}

// Delete godoc
// @Summary      그룹 삭제
// @Description  실패 시 백엔드가 준 원인 문자열이 가공 없이 error 필드에 담긴다.
// @Tags         groups
// @Produce      json
// @Param        id  path  string  true  "그룹 ID"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Security     BearerAuth
// @Router       /api/v1/groups/{id} [delete]
func (h *GroupHandlers) Delete(c *gin.Context) {
	if err := h.groupService.Delete(c.Request.Context(), actorFromContext(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// AuditTrail godoc
// @Summary      그룹 변경 이력 조회
// @Tags         groups
// @Produce      json
// @Param        id     path   string  true   "그룹 ID"
// @Param        limit  query  int     false  "최대 건수"  default(50)
// @Success      200  {array}  models.AuditLog
// @Security     BearerAuth
// @Router       /api/v1/groups/{id}/audit [get]
func (h *GroupHandlers) AuditTrail(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	logs, err := h.groupService.AuditTrail(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, logs)
}

// RecentAudit godoc
// @Summary      최근 관리자 변경 기록 조회
// @Description  그룹 구분 없이 최근 변경 기록을 recorded_at 내림차순으로 반환한다.
// @Tags         groups
// @Produce      json
// @Param        limit  query  int  false  "최대 건수"  default(50)
// @Success      200  {array}  models.AuditLog
// @Security     BearerAuth
// @Router       /api/v1/groups/audit/recent [get]
func (h *GroupHandlers) RecentAudit(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

	logs, err := h.groupService.RecentAudit(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, logs)
}

// actorFromContext는 어드민 인증 미들웨어가 저장한 사용자 코드를 꺼낸다.
func actorFromContext(c *gin.Context) string {
	return c.GetString("user_code")
}
