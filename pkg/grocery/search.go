package grocery

import "time"

// StoredSearch is one entry in the device's recent-search history.
type StoredSearch struct {
	Postcode string    `json:"postcode" firestore:"postcode"`
	StoreID  int       `json:"storeId,omitempty" firestore:"storeId"`
	At       time.Time `json:"at" firestore:"at"`
}
