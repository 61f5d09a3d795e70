package grocery

import "time"

// DraftOrder is the server-side pending order created at checkout before
// payment is confirmed.
type DraftOrder struct {
	DraftOrderID     string           `json:"draftOrderId" firestore:"draftOrderId"`
	BasketToken      string           `json:"basketToken" firestore:"basketToken"`
	StoreID          int              `json:"storeId" firestore:"storeId"`
	FulfilmentMethod FulfilmentMethod `json:"fulfilmentMethod" firestore:"fulfilmentMethod"`
	TotalPrice       float64          `json:"totalPrice" firestore:"totalPrice"`
	PaymentMethods   []string         `json:"paymentMethods" firestore:"paymentMethods"`
}

// OrderStatus is the lifecycle state of a placed order.
type OrderStatus string

const (
	OrderStatusAccepted  OrderStatus = "accepted"
	OrderStatusPicking   OrderStatus = "picking"
	OrderStatusEnRoute   OrderStatus = "enRoute"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCollected OrderStatus = "collected"
	OrderStatusRefused   OrderStatus = "refused"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Terminal reports whether the status is final: no further driver-location
// polling is useful once an order reaches a terminal state.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCollected, OrderStatusRefused, OrderStatusCancelled:
		return true
	}
	return false
}

// PlacedOrder is the confirmed order returned once payment succeeds.
type PlacedOrder struct {
	OrderID          string           `json:"orderId" firestore:"orderId"`
	BusinessOrderID  int              `json:"businessOrderId" firestore:"businessOrderId"`
	StoreID          int              `json:"storeId" firestore:"storeId"`
	FulfilmentMethod FulfilmentMethod `json:"fulfilmentMethod" firestore:"fulfilmentMethod"`
	Status           OrderStatus      `json:"status" firestore:"status"`
	PlacedAt         time.Time        `json:"placedAt" firestore:"placedAt"`
	TotalPrice       float64          `json:"totalPrice" firestore:"totalPrice"`
	Items            []BasketItem     `json:"items" firestore:"items"`
	DeliveryAddress  *Address         `json:"deliveryAddress,omitempty" firestore:"deliveryAddress"`
}

// PaymentConfirmation is the gateway-shaped outcome of processing a hosted
// payment page response. The gateway request shapes themselves live in the
// transport layer.
type PaymentConfirmation struct {
	DraftOrderID string `json:"draftOrderId"`
	Approved     bool   `json:"approved"`
	Reference    string `json:"reference,omitempty"`
	Message      string `json:"message,omitempty"`
}

// DriverLocation is a point on the driver's route for an en-route delivery.
type DriverLocation struct {
	OrderID     string      `json:"orderId"`
	Latitude    float64     `json:"latitude"`
	Longitude   float64     `json:"longitude"`
	OrderStatus OrderStatus `json:"orderStatus"`
	ReportedAt  time.Time   `json:"reportedAt"`
	MinutesAway int         `json:"minutesAway,omitempty"`
}
