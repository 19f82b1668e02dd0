package events

import (
	"time"

	"github.com/google/uuid"
)

// EventType 이벤트 타입 정의
type EventType string

const (
	GroupCreated    EventType = "group.created"
	GroupRenamed    EventType = "group.renamed"
	GroupDeleted    EventType = "group.deleted"
	RegistryChanged EventType = "group.registry_changed"
)

// BaseEvent 모든 이벤트의 기본 구조
type BaseEvent struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
}

func newBase(eventType EventType) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		Source:    "ir-gateway",
		Version:   "1",
	}
}

// GroupCreatedEvent 그룹 생성 완료 이벤트
type GroupCreatedEvent struct {
	BaseEvent
	GroupID string `json:"group_id"`
	Name    string `json:"name"`
	Actor   string `json:"actor"`
}

// GroupRenamedEvent 그룹 이름 변경 이벤트
type GroupRenamedEvent struct {
	BaseEvent
	GroupID string `json:"group_id"`
	OldName string `json:"old_name,omitempty"`
	NewName string `json:"new_name"`
	Actor   string `json:"actor"`
}

// GroupDeletedEvent 그룹 삭제 완료 이벤트
type GroupDeletedEvent struct {
	BaseEvent
	GroupID string `json:"group_id"`
	Actor   string `json:"actor"`
}

// RegistryChangedEvent 감시자가 레지스트리 페이지 내용 변화를 감지했을 때 발행
type RegistryChangedEvent struct {
	BaseEvent
	Query       string `json:"query"`
	Page        int    `json:"page"`
	ContentHash string `json:"content_hash"`
}

func NewGroupCreatedEvent(groupID, name, actor string) GroupCreatedEvent {
	return GroupCreatedEvent{BaseEvent: newBase(GroupCreated), GroupID: groupID, Name: name, Actor: actor}
}

func NewGroupRenamedEvent(groupID, oldName, newName, actor string) GroupRenamedEvent {
	return GroupRenamedEvent{BaseEvent: newBase(GroupRenamed), GroupID: groupID, OldName: oldName, NewName: newName, Actor: actor}
}

func NewGroupDeletedEvent(groupID, actor string) GroupDeletedEvent {
	return GroupDeletedEvent{BaseEvent: newBase(GroupDeleted), GroupID: groupID, Actor: actor}
}

func NewRegistryChangedEvent(query string, page int, contentHash string) RegistryChangedEvent {
	return RegistryChangedEvent{BaseEvent: newBase(RegistryChanged), Query: query, Page: page, ContentHash: contentHash}
}
