package remotedata

// Event는 검색/필터 상태 기계를 움직이는 태그된 이벤트 변형이다.
// 비정형 페이로드 대신 이벤트별 구체 타입을 사용한다.
type Event interface {
	isEvent()
}

// QuerySubmitted는 사용자가 새 검색어를 제출했음을 나타낸다.
// 적용 시 현재 페이지는 1로 초기화된다.
type QuerySubmitted struct {
	Query string
}

// PageChanged는 사용자가 다른 페이지로 이동했음을 나타낸다.
type PageChanged struct {
	Page int
}

// PageSizeChanged는 페이지 크기 변경을 나타낸다. 페이지는 1로 돌아간다.
type PageSizeChanged struct {
	PageSize int
}

// RefreshForced는 캐시를 무효화한 뒤 동일 질의를 다시 수행하라는 지시다.
type RefreshForced struct{}

// Cleared는 검색어를 비우고(전체 일치) 같은 fetch 경로를 다시 타라는 지시다.
type Cleared struct{}

func (QuerySubmitted) isEvent()  {}
func (PageChanged) isEvent()     {}
func (PageSizeChanged) isEvent() {}
func (RefreshForced) isEvent()   {}
func (Cleared) isEvent()         {}
