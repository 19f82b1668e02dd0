package remotedata

import "sync"

// Store는 현재 페이지의 RemoteResource를 세대 카운터로 보호하며 보관한다.
//
// 하나의 fetch 사이클은 Begin()으로 세대 토큰을 받고, 완료 시
// Complete(gen, ...)로 결과를 보고한다. 토큰이 최신이 아니면 결과는
// 버려진다(last-write-wins). 두 완료 핸들러가 경쟁해도 오래된 쪽이
// 항상 탈락하므로 캐시는 가장 최근 요청의 결과만 반영한다.
type Store[T any] struct {
	mu      sync.Mutex
	current RemoteResource[PaginatedList[T]]
	gen     uint64
	closed  bool
	subs    []chan RemoteResource[PaginatedList[T]]
}

// NewStore returns a store in the Idle state.
func NewStore[T any]() *Store[T] {
	return &Store[T]{current: IdleResource[PaginatedList[T]]()}
}

// Begin은 새 fetch 사이클을 시작한다. 상태를 RequestPending으로 바꾸고
// 이 사이클의 세대 토큰을 반환한다. 닫힌 스토어에서는 0과 false를 반환한다.
func (s *Store[T]) Begin() (uint64, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return 0, false
	}
	s.gen++
	s.current = Pending[PaginatedList[T]]()
	s.notifyLocked()
	return s.gen, true
}

// Complete는 사이클 gen의 결과를 보고한다. gen이 더 이상 최신이 아니거나
// 스토어가 닫혔으면 아무것도 바꾸지 않고 false를 반환한다.
func (s *Store[T]) Complete(gen uint64, list PaginatedList[T], err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.gen {
		return false
	}
	if err != nil {
		s.current = Failed[PaginatedList[T]](err.Error())
	} else {
		s.current = Succeeded(list)
	}
	s.notifyLocked()
	return true
}

// Current returns the most recently accepted resource.
func (s *Store[T]) Current() RemoteResource[PaginatedList[T]] {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Subscribe는 상태 변화를 수신할 채널을 반환한다.
// 채널은 버퍼링되며, 구독자가 따라오지 못해 버퍼가 가득 차면 해당
// 알림은 건너뛴다(최신 상태는 Current()로 항상 조회 가능).
func (s *Store[T]) Subscribe() <-chan RemoteResource[PaginatedList[T]] {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan RemoteResource[PaginatedList[T]], 16)
	if s.closed {
		close(ch)
		return ch
	}
	s.subs = append(s.subs, ch)
	return ch
}

// Close는 모든 구독 채널을 닫고 이후의 모든 변경을 거부한다.
// 뷰가 파괴된 뒤 늦게 도착한 fetch 결과는 상태를 바꿀 수 없다.
func (s *Store[T]) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for _, ch := range s.subs {
		close(ch)
	}
	s.subs = nil
}

func (s *Store[T]) notifyLocked() {
	for _, ch := range s.subs {
		select {
		case ch <- s.current:
		default:
		}
	}
}
