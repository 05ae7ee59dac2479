package producer

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dhoini/Client-microservice/internal/domain"
	"github.com/Dhoini/Client-microservice/pkg/logger"
	"github.com/IBM/sarama"
)

const (
	TopicClientCreated = "client.created"
	TopicClientUpdated = "client.updated"
	TopicClientDeleted = "client.deleted"
)

// ClientEvent представляет событие жизненного цикла клиента для Kafka
type ClientEvent struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name,omitempty"`
	LastName  string    `json:"last_name,omitempty"`
	CUIT      string    `json:"cuit,omitempty"`
	Email     string    `json:"email,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ClientProducer интерфейс для отправки событий клиентов
type ClientProducer interface {
	PublishClientCreated(ctx context.Context, client domain.Client) error
	PublishClientUpdated(ctx context.Context, client domain.Client) error
	PublishClientDeleted(ctx context.Context, id int64) error
	Close() error
}

type kafkaClientProducer struct {
	producer sarama.SyncProducer
	log      *logger.Logger
}

// NewKafkaClientProducer создает новый продюсер событий клиентов
func NewKafkaClientProducer(producer sarama.SyncProducer, log *logger.Logger) ClientProducer {
	return &kafkaClientProducer{
		producer: producer,
		log:      log,
	}
}

// PublishClientCreated публикует событие о создании клиента
func (p *kafkaClientProducer) PublishClientCreated(ctx context.Context, client domain.Client) error {
	return p.publishEvent(TopicClientCreated, eventFromClient(client))
}

// PublishClientUpdated публикует событие об обновлении клиента
func (p *kafkaClientProducer) PublishClientUpdated(ctx context.Context, client domain.Client) error {
	return p.publishEvent(TopicClientUpdated, eventFromClient(client))
}

// PublishClientDeleted публикует событие об удалении клиента
func (p *kafkaClientProducer) PublishClientDeleted(ctx context.Context, id int64) error {
	return p.publishEvent(TopicClientDeleted, ClientEvent{ID: id, Timestamp: time.Now().UTC()})
}

// Close закрывает продюсер
func (p *kafkaClientProducer) Close() error {
	return p.producer.Close()
}

func (p *kafkaClientProducer) publishEvent(topic string, event ClientEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal client event: %w", err)
	}

	msg := &sarama.ProducerMessage{
		Topic: topic,
		Key:   sarama.StringEncoder(fmt.Sprintf("%d", event.ID)),
		Value: sarama.ByteEncoder(payload),
	}

	partition, offset, err := p.producer.SendMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to send message to %s: %w", topic, err)
	}

	p.log.Debug("Published %s (partition %d, offset %d)", topic, partition, offset)
	return nil
}

func eventFromClient(client domain.Client) ClientEvent {
	return ClientEvent{
		ID:        client.ID,
		FirstName: client.FirstName,
		LastName:  client.LastName,
		CUIT:      client.CUIT,
		Email:     client.Email,
		Timestamp: time.Now().UTC(),
	}
}
