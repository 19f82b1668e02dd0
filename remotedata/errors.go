package remotedata

import "fmt"

// TransportError는 네트워크/HTTP 계층 실패를 나타낸다.
// 백엔드가 돌려준 본문은 Cause에 원문 그대로 보존한다.
type TransportError struct {
	Op     string // 실패한 작업 이름 (예: "repo-service ListGroups")
	Status int    // HTTP 상태 코드, 전송 자체가 실패했으면 0
	Cause  error
}

func (e *TransportError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: status=%d: %v", e.Op, e.Status, e.Cause)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *TransportError) Unwrap() error { return e.Cause }

// ValidationError는 요청 파라미터가 입력 제약을 위반했음을 나타낸다.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// DerivationError는 행 단위 파생 질의 실패를 나타낸다.
// Index는 입력 목록에서 실패한 엔티티의 위치다.
type DerivationError struct {
	Index int
	Cause error
}

func (e *DerivationError) Error() string {
	return fmt.Sprintf("derivation failed for row %d: %v", e.Index, e.Cause)
}

func (e *DerivationError) Unwrap() error { return e.Cause }
