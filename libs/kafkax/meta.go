package kafkax

import (
	"strconv"
	"strings"

	"github.com/segmentio/kafka-go"
)

// EventMeta identifies a consumed message for deduplication and logging.
type EventMeta struct {
	EventID   string
	EventType string
}

// ExtractEventMeta prefers the event_id and event_type headers. Without an
// event_id the message key is used, and without a key the message position,
// so redelivery of the same record still dedupes.
func ExtractEventMeta(msg kafka.Message) EventMeta {
	eventID := HeaderValue(msg.Headers, "event_id")
	if eventID == "" {
		eventID = string(msg.Key)
	}
	if eventID == "" {
		eventID = msg.Topic + "/" + strconv.Itoa(msg.Partition) + "/" + strconv.FormatInt(msg.Offset, 10)
	}
	eventType := HeaderValue(msg.Headers, "event_type")
	if eventType == "" {
		eventType = msg.Topic
	}
	return EventMeta{EventID: eventID, EventType: eventType}
}

func HeaderValue(headers []kafka.Header, key string) string {
	for _, h := range headers {
		if h.Key == key {
			return string(h.Value)
		}
	}
	return ""
}

func SplitBrokers(raw string) []string {
	var brokers []string
	for _, b := range strings.Split(raw, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
