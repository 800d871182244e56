package event

import (
	"context"
	"encoding/json"
	"strconv"

	"app/internal/domain/model"

	"github.com/segmentio/kafka-go"
)

// 注文確定イベントをKafkaへ発行する
type KafkaOrderPublisher struct {
	Writer *kafka.Writer
}

func NewKafkaOrderPublisher(writer *kafka.Writer) *KafkaOrderPublisher {
	return &KafkaOrderPublisher{Writer: writer}
}

func (p *KafkaOrderPublisher) PublishOrderPlaced(ctx context.Context, e model.OrderPlacedEvent) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	//同じ店舗のイベントは同じパーティションへ
	return p.Writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(e.StoreID, 10)),
		Value: payload,
	})
}
