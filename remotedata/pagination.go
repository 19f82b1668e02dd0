package remotedata

// PageInfo는 페이지네이션 위치 메타데이터다.
// CurrentPage는 1부터 시작한다.
type PageInfo struct {
	CurrentPage   int   `json:"current_page"`
	PageSize      int   `json:"page_size"`
	TotalElements int64 `json:"total_elements"`
}

// TotalPages는 ceil(TotalElements/PageSize)를 반환한다.
// PageSize가 0 이하이면 0을 반환한다.
func (p PageInfo) TotalPages() int64 {
	if p.PageSize <= 0 {
		return 0
	}
	size := int64(p.PageSize)
	return (p.TotalElements + size - 1) / size
}

// Validate enforces the input constraints for a page request.
func (p PageInfo) Validate() error {
	if p.CurrentPage < 1 {
		return &ValidationError{Field: "current_page", Reason: "must be >= 1"}
	}
	if p.PageSize < 1 {
		return &ValidationError{Field: "page_size", Reason: "must be >= 1"}
	}
	if p.TotalElements < 0 {
		return &ValidationError{Field: "total_elements", Reason: "must be >= 0"}
	}
	return nil
}

// PaginatedList는 한 페이지 분량의 엔티티와 페이지 메타데이터를 묶는다.
// len(Items) <= PageInfo.PageSize 불변식을 유지해야 한다.
// 병합/보간 없이 매 성공 응답마다 통째로 교체된다.
type PaginatedList[T any] struct {
	PageInfo PageInfo `json:"page_info"`
	Items    []T      `json:"items"`
}

// NewPaginatedList validates the length invariant and builds a list.
func NewPaginatedList[T any](info PageInfo, items []T) (PaginatedList[T], error) {
	if err := info.Validate(); err != nil {
		return PaginatedList[T]{}, err
	}
	if len(items) > info.PageSize {
		return PaginatedList[T]{}, &ValidationError{
			Field:  "items",
			Reason: "length exceeds page size",
		}
	}
	return PaginatedList[T]{PageInfo: info, Items: items}, nil
}
