package order

import "time"

// Wire shapes for the order API. Kept separate from the domain model so the
// tracker never sees transport concerns.

type ordersPageDTO struct {
	Items      []orderDTO `json:"items"`
	Page       int        `json:"page"`
	Size       int        `json:"size"`
	TotalItems int        `json:"total_items"`
	TotalPages int        `json:"total_pages"`
}

type orderDTO struct {
	ID            string        `json:"id"`
	CustomerID    string        `json:"customer_id"`
	Status        string        `json:"status"`
	Mode          string        `json:"mode"`
	PaymentMethod string        `json:"payment_method"`
	Items         []lineItemDTO `json:"items"`
	Address       *addressDTO   `json:"address,omitempty"`
	Courier       *courierDTO   `json:"courier,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	PromisedAt    time.Time     `json:"promised_at"`
}

type lineItemDTO struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Subtotal float64 `json:"subtotal"`
}

type addressDTO struct {
	Street string `json:"street"`
	City   string `json:"city"`
	Notes  string `json:"notes,omitempty"`
}

type courierDTO struct {
	ID       string    `json:"id"`
	Name     string    `json:"name,omitempty"`
	Phone    string    `json:"phone,omitempty"`
	Location *GeoPoint `json:"location,omitempty"`
}

func mapOrdersFromWire(dtos []orderDTO) []*Order {
	orders := make([]*Order, 0, len(dtos))

	for _, d := range dtos {
		items := make([]LineItem, 0, len(d.Items))
		for _, it := range d.Items {
			items = append(items, LineItem{
				Name:     it.Name,
				Quantity: it.Quantity,
				Subtotal: it.Subtotal,
			})
		}

		o := &Order{
			ID:            d.ID,
			CustomerID:    d.CustomerID,
			Status:        Status(d.Status),
			Mode:          DeliveryMode(d.Mode),
			PaymentMethod: d.PaymentMethod,
			Items:         items,
			CreatedAt:     d.CreatedAt,
			PromisedAt:    d.PromisedAt,
		}

		if d.Address != nil {
			o.Address = &Address{
				Street: d.Address.Street,
				City:   d.Address.City,
				Notes:  d.Address.Notes,
			}
		}

		if d.Courier != nil {
			o.Courier = &Courier{
				ID:    d.Courier.ID,
				Name:  d.Courier.Name,
				Phone: d.Courier.Phone,
			}
			if d.Courier.Location != nil {
				loc := *d.Courier.Location
				o.Courier.Location = &loc
			}
		}

		orders = append(orders, o)
	}

	return orders
}
