package trace

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"strconv"
	"sync/atomic"
	"time"
)

// 컨텍스트 키는 unexported 타입으로 가둬서 외부 패키지의 충돌을 막는다.
type ctxKey string

const ctxKeyTrace ctxKey = "trace_info"

// Info는 게이트웨이로 들어온 요청 한 건의 트레이싱 상태다.
// RequestID는 요청 전체에서 고유하고, spanSeq는 그 요청이 저장소 백엔드로
// 내보내는 업스트림 호출마다 1,2,3,... 으로 증가한다. 두 값은
// X-Request-Id / X-Span-Id 헤더로 업스트림에 전파된다.
type Info struct {
	RequestID string
	spanSeq   int64
}

// GenerateID는 요청 식별용 랜덤 16바이트 hex ID를 만든다.
func GenerateID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		// 엔트로피 고갈 시에도 요청 상관관계는 유지해야 하므로 타임스탬프로 대체한다.
		return time.Now().UTC().Format("20060102T150405.000000000")
	}
	return hex.EncodeToString(b[:])
}

// WithRequestAndSpan은 Request ID와 초기 span 값(보통 0)을 담은 새 컨텍스트를 반환한다.
func WithRequestAndSpan(ctx context.Context, requestID string, initialSpan int64) context.Context {
	info := &Info{RequestID: requestID, spanSeq: initialSpan}
	return context.WithValue(ctx, ctxKeyTrace, info)
}

func infoFromContext(ctx context.Context) *Info {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(ctxKeyTrace).(*Info)
	return v
}

// RequestIDFromContext는 컨텍스트의 Request ID를 돌려준다. 없으면 빈 문자열.
// 감사 로그가 변경 기록을 요청과 연결할 때도 이 값을 쓴다.
func RequestIDFromContext(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return ""
	}
	return info.RequestID
}

// CurrentSpanID는 증가 없이 현재 span 시퀀스 값을 문자열로 반환한다.
func CurrentSpanID(ctx context.Context) string {
	info := infoFromContext(ctx)
	if info == nil {
		return "0"
	}
	val := atomic.LoadInt64(&info.spanSeq)
	if val <= 0 {
		return "0"
	}
	return strconv.FormatInt(val, 10)
}

// NextSpanID는 spanSeq를 1 올리고 (requestID, spanID)를 반환한다.
// 한 요청이 저장소 검색과 권한 조회를 연달아 호출하면 각 호출이
// 1,2,3,... 순서의 span을 받는다.
func NextSpanID(ctx context.Context) (string, string) {
	info := infoFromContext(ctx)
	if info == nil {
		// 트레이스 미들웨어를 거치지 않은 호출(워처 등)을 위한 fallback
		reqID := GenerateID()
		return reqID, "1"
	}
	val := atomic.AddInt64(&info.spanSeq, 1)
	if val <= 0 {
		val = 1
	}
	return info.RequestID, strconv.FormatInt(val, 10)
}
