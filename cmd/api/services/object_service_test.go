package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"ir-gateway/cache"
	"ir-gateway/cmd/api/clients/repoclient"
)

func newObjectBackend(t *testing.T, calls *atomic.Int64, lastSort *atomic.Value) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if lastSort != nil {
			lastSort.Store(r.URL.Query().Get("sort"))
		}
		w.Write([]byte(`{
			"page": {"number": 1, "size": 10, "total_elements": 1},
			"_embedded": {"objects": [
				{"uuid": "it1", "name": "Thesis A", "handle": "123/456", "type": "item",
				 "metadata": {"dc.title": ["Thesis A"]},
				 "_links": {"self": {"href": "http://repo/items/it1"}}}
			]}
		}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestObjectSearch(t *testing.T) {
	var calls atomic.Int64
	var lastSort atomic.Value
	srv := newObjectBackend(t, &calls, &lastSort)
	svc := NewObjectService(repoclient.New(srv.URL, srv.Client()), nil)

	page, err := svc.Search(context.Background(), SearchObjectsInput{
		Query:         "thesis",
		Page:          1,
		PageSize:      10,
		SortField:     "dc.date.issued",
		SortDirection: "desc",
	})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}

	assert.Equal(t, "dc.date.issued,desc", lastSort.Load(), "sort must be sent as field,direction")
	assert.Equal(t, int64(1), page.Total)
	if assert.Len(t, page.Data, 1) {
		obj := page.Data[0]
		assert.Equal(t, "it1", obj.ID)
		assert.Equal(t, "123/456", obj.Handle)
		assert.Equal(t, "item", obj.Type)
		assert.Equal(t, "http://repo/items/it1", obj.SelfLink)
		assert.Equal(t, []string{"Thesis A"}, obj.Metadata["dc.title"])
	}
}

func TestObjectSearchCacheKeyIncludesSort(t *testing.T) {
	var calls atomic.Int64
	srv := newObjectBackend(t, &calls, nil)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := NewObjectService(repoclient.New(srv.URL, srv.Client()), cache.New(rdb, "objects", time.Minute))
	ctx := context.Background()

	in := SearchObjectsInput{Query: "thesis", Page: 1, PageSize: 10, SortField: "dc.date.issued", SortDirection: "desc"}
	if _, err := svc.Search(ctx, in); err != nil {
		t.Fatalf("first Search: %v", err)
	}
	if _, err := svc.Search(ctx, in); err != nil {
		t.Fatalf("second Search: %v", err)
	}
	assert.Equal(t, int64(1), calls.Load(), "identical query should hit the cache")

	// 정렬 방향이 다르면 다른 키이므로 백엔드로 간다.
	in.SortDirection = "asc"
	if _, err := svc.Search(ctx, in); err != nil {
		t.Fatalf("Search with different sort: %v", err)
	}
	assert.Equal(t, int64(2), calls.Load())
}
