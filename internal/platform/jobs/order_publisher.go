package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"cloud.google.com/go/pubsub"

	"github.com/premiun-cakes/api/internal/services"
)

// PubSubOrderPublisher emits order lifecycle events to a Pub/Sub topic.
type PubSubOrderPublisher struct {
	topic *pubsub.Topic
}

// NewPubSubOrderPublisher wraps an existing topic handle.
func NewPubSubOrderPublisher(topic *pubsub.Topic) (*PubSubOrderPublisher, error) {
	if topic == nil {
		return nil, fmt.Errorf("order publisher: topic is required")
	}
	return &PubSubOrderPublisher{topic: topic}, nil
}

// PublishOrderCreated sends one event and waits for the server ack so the
// caller can decide whether to log the failure.
func (p *PubSubOrderPublisher) PublishOrderCreated(ctx context.Context, event services.OrderCreatedEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("order publisher: marshal event: %w", err)
	}

	attributes := map[string]string{}
	setAttr(attributes, "eventId", event.EventID)
	setAttr(attributes, "code", event.Code)
	setAttr(attributes, "deliveryMethod", event.DeliveryMethod)
	setAttr(attributes, "totalCents", strconv.FormatInt(event.TotalCents, 10))

	result := p.topic.Publish(ctx, &pubsub.Message{
		Data:       payload,
		Attributes: attributes,
	})
	if _, err := result.Get(ctx); err != nil {
		return fmt.Errorf("order publisher: publish: %w", err)
	}
	return nil
}

func setAttr(attributes map[string]string, key, value string) {
	if value == "" {
		return
	}
	attributes[key] = value
}
