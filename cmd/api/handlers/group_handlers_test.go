package handlers

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"ir-gateway/cmd/api/clients/authzclient"
	"ir-gateway/cmd/api/clients/repoclient"
	"ir-gateway/cmd/api/services"
)

func newListTestRouter(t *testing.T, lastPage *atomic.Value) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/eperson/groups":
			lastPage.Store(r.URL.Query().Get("page"))
			w.Write([]byte(`{"page": {"number": 1, "size": 20, "total_elements": 0},
				"_embedded": {"groups": []}}`))
		default:
			w.Write([]byte(`{"page": {"total_elements": 0}}`))
		}
	}))
	t.Cleanup(backend.Close)

	svc := services.NewGroupService(
		repoclient.New(backend.URL, backend.Client()),
		authzclient.New(backend.URL, backend.Client()),
		nil, nil, nil,
	)

	r := gin.New()
	r.GET("/api/v1/groups", NewGroupHandlers(svc).List)
	return r
}

// 검색어가 직전 요청과 다르면 요청된 페이지와 무관하게 1페이지로 돌아간다.
func TestGroupListResetsPageOnQueryChange(t *testing.T) {
	var lastPage atomic.Value
	r := newListTestRouter(t, &lastPage)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/groups?query=staff&previous_query=admin&page=5", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", lastPage.Load())
}

func TestGroupListKeepsPageOnSameQuery(t *testing.T) {
	var lastPage atomic.Value
	r := newListTestRouter(t, &lastPage)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/groups?query=staff&previous_query=staff&page=5", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "5", lastPage.Load())
}

// 검색어 지우기는 빈 질의의 새 검색이다. 전체 일치 1페이지로 간다.
func TestGroupListClearedQuery(t *testing.T) {
	var lastPage atomic.Value
	r := newListTestRouter(t, &lastPage)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/groups?previous_query=staff&page=3", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "1", lastPage.Load())
}

// 감사 저장소 없이 기동한 게이트웨이에서도 최근 기록 조회는 200을 돌려준다.
func TestRecentAuditWithoutAuditStore(t *testing.T) {
	gin.SetMode(gin.TestMode)

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"page": {"total_elements": 0}}`))
	}))
	t.Cleanup(backend.Close)

	svc := services.NewGroupService(
		repoclient.New(backend.URL, backend.Client()),
		authzclient.New(backend.URL, backend.Client()),
		nil, nil, nil,
	)

	r := gin.New()
	r.GET("/api/v1/groups/audit/recent", NewGroupHandlers(svc).RecentAudit)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/groups/audit/recent?limit=10", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "null", w.Body.String())
}

func TestGroupListRejectsInvalidPageSize(t *testing.T) {
	var lastPage atomic.Value
	r := newListTestRouter(t, &lastPage)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/groups?page_size=-1", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
