package order

import "time"

type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusDelivered Status = "delivered"
	StatusExpired   Status = "expired"
)

func (s Status) String() string {
	return string(s)
}

// Valid reports whether s is one of the known order statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusWaiting, StatusDelivered, StatusExpired:
		return true
	}
	return false
}

// Order is a customer pickup order. Dates and times are kept in their wire
// form ("2006-01-02", "15:04:05") so they round-trip through the DATE and
// TIME columns without timezone surprises.
type Order struct {
	ID              int64     `json:"id"`
	OrderCode       string    `json:"order_code"`
	PickupDate      string    `json:"pickup_date"`
	PickupTimeStart string    `json:"pickup_time_start"`
	PickupTimeEnd   string    `json:"pickup_time_end"`
	TotalAmount     int       `json:"total_amount"`
	ConvenienceFee  int       `json:"convenience_fee"`
	Status          Status    `json:"status"`
	Items           []Item    `json:"items,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Item is a single order line. The item set is fixed at creation time; items
// are never updated or deleted on their own.
type Item struct {
	ID          int64  `json:"id"`
	OrderID     int64  `json:"order_id,omitempty"`
	ProductID   int64  `json:"product_id"`
	ProductName string `json:"product_name,omitempty"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int    `json:"unit_price"`
	TotalPrice  int    `json:"total_price"`
}

// Summary is the staff-view projection of an order used by the today and
// by-date listings. Its item list carries fewer fields than the full document.
type Summary struct {
	ID              int64         `json:"id"`
	OrderCode       string        `json:"order_code"`
	PickupDate      string        `json:"pickup_date"`
	PickupTimeStart string        `json:"pickup_time_start"`
	PickupTimeEnd   string        `json:"pickup_time_end"`
	TotalAmount     int           `json:"total_amount"`
	ConvenienceFee  int           `json:"convenience_fee"`
	Status          Status        `json:"status"`
	Items           []ItemSummary `json:"items"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type ItemSummary struct {
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	UnitPrice   int    `json:"unit_price,omitempty"`
	TotalPrice  int    `json:"total_price"`
}
