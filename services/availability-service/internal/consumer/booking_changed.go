package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/speakoai/availability/services/availability-service/internal/availability"
	"github.com/speakoai/availability/services/availability-service/internal/horizon"
)

// BookingChanged is published whenever a booking is created, moved or
// cancelled. PreviousDate is set when a booking moved between days.
type BookingChanged struct {
	TenantID     int64  `json:"tenant_id"`
	LocationID   int64  `json:"location_id"`
	LocationTZ   string `json:"location_tz"`
	Kind         string `json:"kind"`
	AffectedDate string `json:"affected_date"`
	PreviousDate string `json:"previous_date,omitempty"`
}

// RegenRequests turns an event into one regen request per distinct day it
// touches.
func RegenRequests(raw []byte) ([]horizon.Request, error) {
	var ev BookingChanged
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("decode booking event: %w", err)
	}
	if ev.TenantID == 0 || ev.LocationID == 0 || strings.TrimSpace(ev.LocationTZ) == "" || strings.TrimSpace(ev.AffectedDate) == "" {
		return nil, errors.New("booking event is missing tenant_id, location_id, location_tz or affected_date")
	}
	kind := ev.Kind
	if kind == "" {
		kind = horizon.KindStaff
	}

	var out []horizon.Request
	seen := map[string]bool{}
	for _, raw := range []string{ev.AffectedDate, ev.PreviousDate} {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		d, err := availability.ParseAffectedDate(raw, time.UTC)
		if err != nil {
			return nil, err
		}
		date := availability.DateString(d)
		if seen[date] {
			continue
		}
		seen[date] = true
		out = append(out, horizon.Request{
			Kind:         kind,
			TenantID:     ev.TenantID,
			LocationID:   ev.LocationID,
			Timezone:     ev.LocationTZ,
			AffectedDate: date,
		})
	}
	return out, nil
}

type submitter interface {
	Submit(ctx context.Context, req horizon.Request) (string, error)
}

// BookingChangedHandler queues regen runs for booking events. Malformed events
// are logged and dropped; a full queue is returned as an error.
func BookingChangedHandler(sub submitter, logger *slog.Logger) Handler {
	return func(ctx context.Context, msg kafka.Message) error {
		reqs, err := RegenRequests(msg.Value)
		if err != nil {
			logger.Error("invalid booking event", "err", err, "topic", msg.Topic, "offset", msg.Offset)
			return nil
		}
		for _, req := range reqs {
			runID, err := sub.Submit(ctx, req)
			if err != nil {
				return fmt.Errorf("queue regen for %s: %w", req.AffectedDate, err)
			}
			logger.Info("regen queued", "run_id", runID, "tenant_id", req.TenantID, "location_id", req.LocationID, "affected_date", req.AffectedDate, "kind", req.Kind)
		}
		return nil
	}
}
