package grocery

import "time"

// FulfilmentMethod is how an order reaches the customer.
type FulfilmentMethod string

const (
	FulfilmentDelivery   FulfilmentMethod = "delivery"
	FulfilmentCollection FulfilmentMethod = "collection"
)

// FulfilmentLocation is the resolved place an order is fulfilled against. For
// delivery it is the customer's location, for collection the store's.
type FulfilmentLocation struct {
	CountryCode string  `json:"countryCode" firestore:"countryCode"`
	Postcode    string  `json:"postcode" firestore:"postcode"`
	Latitude    float64 `json:"latitude" firestore:"latitude"`
	Longitude   float64 `json:"longitude" firestore:"longitude"`
}

// RetailStore is the summary representation returned by a store search.
type RetailStore struct {
	ID                int                `json:"id" firestore:"id"`
	Name              string             `json:"name" firestore:"name"`
	Distance          float64            `json:"distance" firestore:"distance"`
	FulfilmentMethods []FulfilmentMethod `json:"fulfilmentMethods" firestore:"fulfilmentMethods"`
	CurrentlyOpen     bool               `json:"currentlyOpen" firestore:"currentlyOpen"`
}

// StoreSearchResult is the full payload of a store search: the stores found
// plus the location the search resolved to.
type StoreSearchResult struct {
	Postcode          string             `json:"postcode" firestore:"postcode"`
	Latitude          float64            `json:"latitude" firestore:"latitude"`
	Longitude         float64            `json:"longitude" firestore:"longitude"`
	Stores            []RetailStore      `json:"stores" firestore:"stores"`
	FulfilmentMethods []FulfilmentMethod `json:"fulfilmentMethods" firestore:"fulfilmentMethods"`
}

// TimeSlot is a bookable fulfilment window offered by a store.
type TimeSlot struct {
	SlotID    string    `json:"slotId" firestore:"slotId"`
	Start     time.Time `json:"start" firestore:"start"`
	End       time.Time `json:"end" firestore:"end"`
	DayOffset int       `json:"dayOffset" firestore:"dayOffset"`
	Price     float64   `json:"price" firestore:"price"`
}

// RetailStoreDetails is the full store record fetched once a store is chosen.
type RetailStoreDetails struct {
	ID                   int                `json:"id" firestore:"id"`
	Name                 string             `json:"name" firestore:"name"`
	Postcode             string             `json:"postcode" firestore:"postcode"`
	CountryCode          string             `json:"countryCode" firestore:"countryCode"`
	Latitude             float64            `json:"latitude" firestore:"latitude"`
	Longitude            float64            `json:"longitude" firestore:"longitude"`
	FulfilmentMethods    []FulfilmentMethod `json:"fulfilmentMethods" firestore:"fulfilmentMethods"`
	DeliveryTiers        []DeliveryTier     `json:"deliveryTiers" firestore:"deliveryTiers"`
	MinOrderValue        float64            `json:"minOrderValue" firestore:"minOrderValue"`
	TimeZone             string             `json:"timeZone" firestore:"timeZone"`
	PaymentMethods       []string           `json:"paymentMethods" firestore:"paymentMethods"`
	CollectionSlotsAvail bool               `json:"collectionSlotsAvail" firestore:"collectionSlotsAvail"`
}

// DeliveryTier maps a basket value threshold to a delivery charge.
type DeliveryTier struct {
	MinBasketValue float64 `json:"minBasketValue" firestore:"minBasketValue"`
	DeliveryFee    float64 `json:"deliveryFee" firestore:"deliveryFee"`
}

// Supports reports whether the store offers the given fulfilment method.
func (d RetailStoreDetails) Supports(method FulfilmentMethod) bool {
	for _, m := range d.FulfilmentMethods {
		if m == method {
			return true
		}
	}
	return false
}
