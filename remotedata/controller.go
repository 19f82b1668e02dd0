package remotedata

import (
	"context"
	"sync"
)

// Query는 한 번의 목록 fetch를 결정하는 검색 조건이다.
// Text가 비어 있으면 전체 일치를 의미한다.
type Query struct {
	Text     string
	Page     int
	PageSize int
}

// FetchFunc performs one remote list fetch for the given query.
// It must never panic across this boundary; failures are returned as errors.
type FetchFunc[T any] func(ctx context.Context, q Query) (PaginatedList[T], error)

// InvalidateFunc drops any cached result for the controller's scope so that
// the next fetch is guaranteed to reach the backend.
type InvalidateFunc func(ctx context.Context) error

// Controller는 검색/필터 상태 기계다.
//
//	Idle → Searching → (Success | Error) → Idle
//
// 모든 전이는 태그된 Event로만 일어나고, 각 이벤트는 새 fetch 사이클을
// 시작한다. 페이지 이동도 클라이언트 측 슬라이스가 아니라 항상 백엔드
// 재조회다. 겹치는 사이클은 Store의 세대 카운터가 정리한다: 뒤처진
// 사이클의 결과는 도착 시점에 버려진다(요청 자체를 끊지는 않는다).
type Controller[T any] struct {
	mu         sync.Mutex
	query      Query
	fetch      FetchFunc[T]
	invalidate InvalidateFunc
	store      *Store[T]
}

// ControllerOption configures optional controller behavior.
type ControllerOption[T any] func(*Controller[T])

// WithInvalidator sets the cache invalidation hook used by RefreshForced.
func WithInvalidator[T any](fn InvalidateFunc) ControllerOption[T] {
	return func(c *Controller[T]) { c.invalidate = fn }
}

// NewController binds a fetch function to a fresh store.
// pageSize must be positive; it is the initial page size for all fetches.
func NewController[T any](fetch FetchFunc[T], pageSize int, opts ...ControllerOption[T]) (*Controller[T], error) {
	if fetch == nil {
		return nil, &ValidationError{Field: "fetch", Reason: "must not be nil"}
	}
	if pageSize < 1 {
		return nil, &ValidationError{Field: "page_size", Reason: "must be >= 1"}
	}
	c := &Controller[T]{
		query: Query{Page: 1, PageSize: pageSize},
		fetch: fetch,
		store: NewStore[T](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Store exposes the backing store for subscription and inspection.
func (c *Controller[T]) Store() *Store[T] { return c.store }

// Query returns the current search condition.
func (c *Controller[T]) Query() Query {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.query
}

// Apply는 이벤트 하나를 적용하고 그에 따른 fetch 사이클을 수행한다.
// fetch 자체는 호출자 고루틴에서 블로킹으로 실행되며, 결과 반영 여부는
// 세대 카운터가 결정한다. 스토어가 닫힌 뒤에는 아무 일도 하지 않는다.
func (c *Controller[T]) Apply(ctx context.Context, ev Event) error {
	c.mu.Lock()
	switch e := ev.(type) {
	case QuerySubmitted:
		// 검색어가 바뀌면 페이지는 반드시 1로 돌아간다.
		c.query.Text = e.Query
		c.query.Page = 1
	case PageChanged:
		if e.Page < 1 {
			c.mu.Unlock()
			return &ValidationError{Field: "page", Reason: "must be >= 1"}
		}
		c.query.Page = e.Page
	case PageSizeChanged:
		if e.PageSize < 1 {
			c.mu.Unlock()
			return &ValidationError{Field: "page_size", Reason: "must be >= 1"}
		}
		c.query.PageSize = e.PageSize
		c.query.Page = 1
	case RefreshForced:
		// 캐시를 먼저 무효화해야 다음 fetch가 반드시 백엔드에 닿는다.
	case Cleared:
		c.query.Text = ""
		c.query.Page = 1
	default:
		c.mu.Unlock()
		return &ValidationError{Field: "event", Reason: "unknown event type"}
	}
	q := c.query
	// 세대 토큰은 이벤트 적용과 같은 잠금 구간 안에서 할당한다.
	// 잠금 밖에서 할당하면 뒤처진 사이클이 더 새로운 토큰을 받아
	// 최신 질의의 결과를 덮어쓸 수 있다.
	gen, ok := c.store.Begin()
	c.mu.Unlock()
	if !ok {
		return nil
	}

	if _, forced := ev.(RefreshForced); forced && c.invalidate != nil {
		if err := c.invalidate(ctx); err != nil {
			c.store.Complete(gen, PaginatedList[T]{}, err)
			return err
		}
	}

	list, err := c.fetch(ctx, q)
	c.store.Complete(gen, list, err)
	return err
}

// Close releases all subscriptions; late fetch results become no-ops.
func (c *Controller[T]) Close() {
	c.store.Close()
}
