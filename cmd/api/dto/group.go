package dto

// GroupDTO는 그룹 레지스트리의 공개용 표현이다.
type GroupDTO struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Permanent bool   `json:"permanent"`
	SelfLink  string `json:"self_link"`
	// 하위 리소스 링크: 프런트엔드는 이 링크로만 하위 목록에 접근한다.
	SubgroupsLink string `json:"subgroups_link,omitempty"`
	MembersLink   string `json:"members_link,omitempty"`
}

// GroupRegistryRowDTO는 레지스트리 화면의 한 행이다.
// 그룹 표현에 비동기로 계산된 인가 플래그를 붙인 파생 DTO로,
// 한 fetch 사이클 안에서 새로 만들어지고 이후 변경되지 않는다.
type GroupRegistryRowDTO struct {
	Group        GroupDTO `json:"group"`
	AbleToDelete bool     `json:"able_to_delete"`
}

// CreateGroupRequest는 그룹 생성 요청 바디다.
type CreateGroupRequest struct {
	Name string `json:"name" binding:"required"`
}

// RenameGroupRequest는 그룹 이름 변경 요청 바디다.
type RenameGroupRequest struct {
	Name string `json:"name" binding:"required"`
}
