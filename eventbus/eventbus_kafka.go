package eventbus

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"

	"ir-gateway/config"
)

// KafkaEventBus는 confluent-kafka-go 라이브러리를 사용한 EventBus 구현체입니다.
type KafkaEventBus struct {
	Producer *kafka.Producer
	Brokers  string
}

// NewKafkaEventBus는 Kafka Producer를 초기화합니다.
func NewKafkaEventBus(brokers string) (*KafkaEventBus, error) {
	p, err := kafka.NewProducer(&kafka.ConfigMap{
		"bootstrap.servers": brokers,
		"acks":              "all",
		"retries":           5, // Producer는 일시적인 오류 발생 시 최대 5회 재시도합니다.
	})
	if err != nil {
		return nil, fmt.Errorf("kafka Producer 생성 실패: %w", err)
	}

	// Producer 이벤트를 처리하는 고루틴 (전달 보고서 등)
	go func() {
		for e := range p.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					config.Logger().Error("레지스트리 이벤트 전달 실패", "partition", ev.TopicPartition.String(), "error", ev.TopicPartition.Error)
				}
			case kafka.Error:
				config.Logger().Error("Kafka 오류", "error", ev.Error())
			}
		}
	}()

	return &KafkaEventBus{
		Producer: p,
		Brokers:  brokers,
	}, nil
}

// Close는 Producer를 안전하게 종료합니다.
func (k *KafkaEventBus) Close() {
	if k.Producer != nil {
		// 5초 동안 남은 메시지를 모두 플러시합니다.
		if remaining := k.Producer.Flush(5000); remaining > 0 {
			config.Logger().Warn("플러시 후에도 메시지가 남아 있습니다", "remaining", remaining)
		}
		k.Producer.Close()
		config.Logger().Info("Kafka Producer 종료")
	}
}

// Publish는 지정된 토픽에 이벤트를 발행합니다.
func (k *KafkaEventBus) Publish(ctx context.Context, topic string, event Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("이벤트 마샬링 실패: %w", err)
	}

	// 전달 보고 채널은 닫지 않는다. 컨텍스트 취소로 먼저 반환한 뒤에
	// 늦게 도착하는 보고가 닫힌 채널에 쓰는 일을 막기 위함이다.
	deliveryChan := make(chan kafka.Event, 1)

	err = k.Producer.Produce(&kafka.Message{
		TopicPartition: kafka.TopicPartition{Topic: &topic, Partition: kafka.PartitionAny},
		Value:          data,
		Key:            []byte(event.ID),
	}, deliveryChan)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPublishFailed, err)
	}

	// 전달 보고를 동기적으로 확인한다. 컨텍스트 취소 시에는 대기를 중단한다.
	select {
	case e := <-deliveryChan:
		m, ok := e.(*kafka.Message)
		if !ok {
			return fmt.Errorf("%w: unexpected delivery event %T", ErrPublishFailed, e)
		}
		if m.TopicPartition.Error != nil {
			return fmt.Errorf("%w: %v", ErrPublishFailed, m.TopicPartition.Error)
		}
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
