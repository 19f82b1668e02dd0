package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// 감사 로그의 action 값.
const (
	AuditActionGroupCreate = "group.create"
	AuditActionGroupRename = "group.rename"
	AuditActionGroupDelete = "group.delete"
)

// AuditLog stores admin mutation records (group registry CRUD)
// Collection: audit_logs
type AuditLog struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Actor    string             `bson:"actor" json:"actor"`
	Action   string             `bson:"action" json:"action"`
	TargetID string             `bson:"target_id" json:"target_id"`
	// TargetName은 기록 시점의 대상 이름이다(삭제 후 추적용).
	TargetName string `bson:"target_name,omitempty" json:"target_name,omitempty"`
	Succeeded  bool   `bson:"succeeded" json:"succeeded"`
	// Cause는 실패 시 백엔드가 돌려준 원인 문자열 원문이다.
	Cause      *string   `bson:"cause,omitempty" json:"cause,omitempty"`
	RequestID  string    `bson:"request_id,omitempty" json:"request_id,omitempty"`
	RecordedAt time.Time `bson:"recorded_at" json:"recorded_at"`
}
