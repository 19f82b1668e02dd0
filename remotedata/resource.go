package remotedata

// State는 원격 리소스 요청의 진행 상태를 나타낸다.
type State int

const (
	Idle State = iota
	RequestPending
	Success
	Error
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case RequestPending:
		return "request_pending"
	case Success:
		return "success"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// RemoteResource는 원격 엔드포인트에서 가져온 페이로드를 요청 상태와 함께 감싼다.
//
// 불변식:
//   - Payload는 Success 상태에서만 non-nil이다.
//   - ErrorMessage는 Error 상태에서만 비어 있지 않다.
//
// 값은 생성자(Pending/Succeeded/Failed)로만 만들고, 이후 수정하지 않는다.
// 다음 요청이 시작되면 이전 값은 통째로 교체된다.
type RemoteResource[T any] struct {
	State        State
	Payload      *T
	ErrorMessage string
}

// IdleResource returns the zero-value resource before any request is issued.
func IdleResource[T any]() RemoteResource[T] {
	return RemoteResource[T]{State: Idle}
}

// Pending returns a resource representing an in-flight request.
func Pending[T any]() RemoteResource[T] {
	return RemoteResource[T]{State: RequestPending}
}

// Succeeded wraps a successfully fetched payload.
func Succeeded[T any](payload T) RemoteResource[T] {
	return RemoteResource[T]{State: Success, Payload: &payload}
}

// Failed wraps a transport or derivation failure message.
func Failed[T any](msg string) RemoteResource[T] {
	if msg == "" {
		msg = "unknown error"
	}
	return RemoteResource[T]{State: Error, ErrorMessage: msg}
}

// IsLoading reports whether a request is currently in flight.
func (r RemoteResource[T]) IsLoading() bool { return r.State == RequestPending }

// HasSucceeded reports whether the resource holds a usable payload.
func (r RemoteResource[T]) HasSucceeded() bool { return r.State == Success && r.Payload != nil }

// HasFailed reports whether the last request ended in an error.
func (r RemoteResource[T]) HasFailed() bool { return r.State == Error }
