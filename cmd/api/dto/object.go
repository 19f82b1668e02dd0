package dto

// ObjectDTO는 검색 결과에 나타나는 리포지터리 객체(아이템/컬렉션/커뮤니티)다.
type ObjectDTO struct {
	ID       string              `json:"id"`
	Name     string              `json:"name"`
	Handle   string              `json:"handle,omitempty"`
	Type     string              `json:"type"`
	Metadata map[string][]string `json:"metadata,omitempty"`
	SelfLink string              `json:"self_link"`
}
