package remotedata

import (
	"context"
	"sync"
)

// Derived는 엔티티에 비동기로 계산된 파생 플래그를 붙인 뷰 객체다.
// 한 fetch 사이클 안에서 새로 만들어지며, 생성 후 수정하지 않는다.
type Derived[E any, F any] struct {
	Entity E `json:"entity"`
	Flags  F `json:"flags"`
}

// DeriveFunc computes per-entity flags (e.g. permission checks) asynchronously.
type DeriveFunc[E any, F any] func(ctx context.Context, entity E) (F, error)

// Compose는 입력 목록의 각 엔티티에 대해 derive를 동시에 실행하고,
// 모든 파생이 끝난 뒤에야 합성된 목록을 반환한다(join, 스트리밍 아님).
//
//   - 출력 순서는 파생 완료 순서와 무관하게 입력 순서와 같다.
//   - 실패 정책은 fail-fast: 첫 실패가 나머지 파생을 컨텍스트로 취소하고
//     해당 행 인덱스를 담은 DerivationError로 전체 합성을 중단한다.
func Compose[E any, F any](ctx context.Context, list PaginatedList[E], derive DeriveFunc[E, F]) (PaginatedList[Derived[E, F]], error) {
	out := PaginatedList[Derived[E, F]]{
		PageInfo: list.PageInfo,
		Items:    make([]Derived[E, F], len(list.Items)),
	}
	if len(list.Items) == 0 {
		return out, nil
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	for i, entity := range list.Items {
		wg.Add(1)
		go func(idx int, e E) {
			defer wg.Done()
			flags, err := derive(ctx, e)
			if err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = &DerivationError{Index: idx, Cause: err}
					cancel()
				}
				mu.Unlock()
				return
			}
			// 각 고루틴은 자신의 인덱스 슬롯에만 쓰므로 추가 동기화가 필요 없다.
			out.Items[idx] = Derived[E, F]{Entity: e, Flags: flags}
		}(i, entity)
	}
	wg.Wait()

	if firstErr != nil {
		return PaginatedList[Derived[E, F]]{}, firstErr
	}
	return out, nil
}
