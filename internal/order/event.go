package order

import (
	"encoding/json"
	"time"
)

// CourierUpdate carries the courier fields present in a status-update event.
// Nil fields mean "no news", not "cleared": they are merged key-by-key so a
// later event without a phone does not erase a phone learned earlier.
type CourierUpdate struct {
	ID       *string   `json:"id,omitempty"`
	Name     *string   `json:"name,omitempty"`
	Phone    *string   `json:"phone,omitempty"`
	Location *GeoPoint `json:"location,omitempty"`
}

// StatusUpdate is one inbound event from an order's realtime topic. It is
// consumed once, folded into the matching order, and discarded.
type StatusUpdate struct {
	OrderID       string         `json:"order_id"`
	Status        Status         `json:"status"`
	CustomerID    string         `json:"customer_id"`
	NewPromisedAt *time.Time     `json:"new_promised_at,omitempty"`
	Message       string         `json:"message,omitempty"`
	Courier       *CourierUpdate `json:"courier,omitempty"`
}

// DecodeStatusUpdate parses an event payload and rejects frames missing the
// fields every update must carry.
func DecodeStatusUpdate(payload []byte) (*StatusUpdate, error) {
	var ev StatusUpdate
	if err := json.Unmarshal(payload, &ev); err != nil {
		return nil, err
	}
	if ev.OrderID == "" || ev.Status == "" {
		return nil, ErrMalformedEvent
	}
	return &ev, nil
}

// Apply merges a non-terminal update into the order: status, revised
// delivery time when present, courier fields key-by-key, and a fresh elapsed
// value.
func (o *Order) Apply(ev *StatusUpdate, now time.Time) {
	o.Status = ev.Status
	if ev.NewPromisedAt != nil {
		o.PromisedAt = *ev.NewPromisedAt
	}
	if ev.Courier != nil {
		o.mergeCourier(ev.Courier)
	}
	o.RecomputeElapsed(now)
}

func (o *Order) mergeCourier(upd *CourierUpdate) {
	if o.Courier == nil {
		o.Courier = &Courier{}
	}
	if upd.ID != nil {
		o.Courier.ID = *upd.ID
	}
	if upd.Name != nil {
		o.Courier.Name = *upd.Name
	}
	if upd.Phone != nil {
		o.Courier.Phone = *upd.Phone
	}
	if upd.Location != nil {
		loc := *upd.Location
		o.Courier.Location = &loc
	}
}
