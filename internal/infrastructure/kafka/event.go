package publisher

import (
	"encoding/json"
	"time"
)

// PartnerEvent is the wire format of events forwarded to Kafka.
type PartnerEvent struct {
	Topic      string          `json:"topic"`
	Key        string          `json:"key"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}
