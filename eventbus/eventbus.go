package eventbus

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
)

// Topic은 기본 토픽과 DLQ 토픽 이름을 관리합니다.
type Topic struct {
	base string
}

func NewTopic(base string) Topic {
	return Topic{base: base}
}

func (t Topic) Base() string {
	return t.base
}

// DLQ는 DLQ 토픽 이름을 반환합니다 (예: my_topic.dlq).
func (t Topic) DLQ() string {
	return t.base + ".dlq"
}

// Event는 Kafka 메시지의 페이로드로 사용되는 구조체입니다.
// Payload에는 events 패키지의 레지스트리 이벤트가 JSON으로 담깁니다.
type Event struct {
	ID      string          `json:"id"`
	Payload json.RawMessage `json:"payload"`
}

// NewJSONEvent는 payload를 JSON으로 인코딩하여 Event를 구성합니다.
// id가 빈 문자열이면 uuid를 생성합니다.
func NewJSONEvent(id string, payload any) (Event, error) {
	if id == "" {
		id = uuid.NewString()
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return Event{}, err
	}
	return Event{ID: id, Payload: b}, nil
}

// DecodeJSON은 Event.Payload를 제네릭 타입으로 언마샬합니다.
func DecodeJSON[T any](evt Event) (T, error) {
	var out T
	if err := json.Unmarshal(evt.Payload, &out); err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}

// EventBus 인터페이스는 이벤트 발행의 추상화를 정의합니다.
// 게이트웨이는 생산자 역할만 하므로 소비 API는 두지 않습니다.
type EventBus interface {
	Publish(ctx context.Context, topic string, event Event) error
	Close()
}

// ErrPublishFailed는 브로커 발행에 실패했을 때 반환되는 오류입니다.
var ErrPublishFailed = errors.New("event publish failed")
