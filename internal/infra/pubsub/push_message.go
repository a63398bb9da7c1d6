package pubsub

import (
	"encoding/base64"
	"encoding/json"
	"time"

	"starmobiles/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// PushMessage is the body a Pub/Sub push subscription POSTs to the
// notifier. The local publisher emits the same shape so development runs
// the production handler.
type PushMessage struct {
	Message struct {
		Data        string            `json:"data"`
		Attributes  map[string]string `json:"attributes,omitempty"`
		MessageID   string            `json:"messageId"`
		OrderingKey string            `json:"orderingKey,omitempty"`
		PublishTime string            `json:"publishTime"`
	} `json:"message"`
	Subscription string `json:"subscription"`
}

// NewPushMessage wraps a store event the way Pub/Sub would deliver it.
func NewPushMessage(event *service.StoreEvent, subscription string) (*PushMessage, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	msg := &PushMessage{Subscription: subscription}
	msg.Message.Data = base64.StdEncoding.EncodeToString(data)
	msg.Message.Attributes = eventAttributes(event)
	msg.Message.MessageID = uuid.NewString()
	msg.Message.OrderingKey = event.ResourceID
	msg.Message.PublishTime = time.Now().UTC().Format(time.RFC3339)

	return msg, nil
}

// StoreEvent decodes the base64 payload.
func (m *PushMessage) StoreEvent() (*service.StoreEvent, error) {
	data, err := base64.StdEncoding.DecodeString(m.Message.Data)
	if err != nil {
		return nil, errors.Wrap(err, "message data is not base64")
	}

	var event service.StoreEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return nil, errors.Wrap(err, "message data is not a store event")
	}

	return &event, nil
}
