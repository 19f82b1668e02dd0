package dto

// Pagination is a generic pagination envelope for list results
// T is the element type of the Data slice
// Total represents the total number of items matching the filters (without pagination)
// Page is 1-based; PageSize is the requested page size
//
// Example: Pagination[GroupRegistryRowDTO]
//
// swagger:model Pagination
// (Swagger generators may not fully support generics; handlers may need custom annotations.)
type Pagination[T any] struct {
	Data     []T   `json:"data"`
	Page     int   `json:"page"`
	PageSize int   `json:"page_size"`
	Total    int64 `json:"total"`
}

// TotalPages는 ceil(Total/PageSize)를 반환한다.
func (p Pagination[T]) TotalPages() int64 {
	if p.PageSize <= 0 {
		return 0
	}
	size := int64(p.PageSize)
	return (p.Total + size - 1) / size
}
