package order

import (
	"time"

	"sabores-app/internal/notify"
)

// Status values match the order API wire format.
type Status string

const (
	StatusPending   Status = "PENDIENTE"
	StatusConfirmed Status = "CONFIRMADO"
	StatusPreparing Status = "EN_PREPARACION"
	StatusOnTheWay  Status = "EN_CAMINO"
	StatusDelivered Status = "ENTREGADO"
	StatusCanceled  Status = "CANCELADO"
	StatusRejected  Status = "RECHAZADO"
)

// Terminal reports whether no further transitions are expected for an order
// in this status. Terminal orders leave the active set.
func (s Status) Terminal() bool {
	switch s {
	case StatusDelivered, StatusCanceled, StatusRejected:
		return true
	}
	return false
}

// Tone maps a status to the notification tone shown to the customer.
func (s Status) Tone() notify.Tone {
	switch s {
	case StatusConfirmed, StatusDelivered:
		return notify.ToneSuccess
	case StatusPreparing, StatusOnTheWay:
		return notify.ToneInfo
	case StatusPending:
		return notify.ToneWarning
	case StatusCanceled, StatusRejected:
		return notify.ToneError
	}
	return notify.ToneInfo
}

type DeliveryMode string

const (
	ModeDelivery DeliveryMode = "DOMICILIO"
	ModePickup   DeliveryMode = "RECOGER"
)

type LineItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

type Address struct {
	Street string `json:"street"`
	City   string `json:"city"`
	Notes  string `json:"notes,omitempty"`
}

type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type Courier struct {
	ID       string    `json:"id"`
	Name     string    `json:"name,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	Location *GeoPoint `json:"location,omitempty"`
}

// Order is one in-progress order as tracked on the client.
type Order struct {
	ID            string       `json:"id"`
	CustomerID    string       `json:"customer_id"`
	Status        Status       `json:"status"`
	Mode          DeliveryMode `json:"mode"`
	PaymentMethod string       `json:"payment_method"`
	Items         []LineItem   `json:"items"`
	Address       *Address     `json:"address,omitempty"`
	Courier       *Courier     `json:"courier,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	PromisedAt    time.Time    `json:"promised_at"`

	// ElapsedMinutes is wall-clock minutes since creation, recomputed on a
	// timer for display.
	ElapsedMinutes int `json:"elapsed_minutes"`
}

// RecomputeElapsed refreshes ElapsedMinutes against now.
func (o *Order) RecomputeElapsed(now time.Time) {
	mins := int(now.Sub(o.CreatedAt) / time.Minute)
	if mins < 0 {
		mins = 0
	}
	o.ElapsedMinutes = mins
}
