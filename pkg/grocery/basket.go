package grocery

// Basket is the server-owned shopping basket, identified by a server-issued
// token. A basket is only valid while its StoreID and FulfilmentMethod match
// the currently selected store and method.
type Basket struct {
	BasketToken      string           `json:"basketToken" firestore:"basketToken"`
	StoreID          int              `json:"storeId" firestore:"storeId"`
	FulfilmentMethod FulfilmentMethod `json:"fulfilmentMethod" firestore:"fulfilmentMethod"`
	Items            []BasketItem     `json:"items" firestore:"items"`
	Coupon           *Coupon          `json:"coupon,omitempty" firestore:"coupon"`
	Tip              float64          `json:"tip,omitempty" firestore:"tip"`
	ContactDetails   *ContactDetails  `json:"contactDetails,omitempty" firestore:"contactDetails"`
	DeliveryAddress  *Address         `json:"deliveryAddress,omitempty" firestore:"deliveryAddress"`
	ReservedSlotID   string           `json:"reservedSlotId,omitempty" firestore:"reservedSlotId"`
	SubtotalPrice    float64          `json:"subtotalPrice" firestore:"subtotalPrice"`
	TotalPrice       float64          `json:"totalPrice" firestore:"totalPrice"`
	DeliveryFee      float64          `json:"deliveryFee" firestore:"deliveryFee"`
}

// Matches reports whether the basket was opened against the given store and
// fulfilment method.
func (b *Basket) Matches(storeID int, method FulfilmentMethod) bool {
	return b != nil && b.StoreID == storeID && b.FulfilmentMethod == method
}

// BasketItem is one ordered line within a basket.
type BasketItem struct {
	BasketLineID string  `json:"basketLineId" firestore:"basketLineId"`
	MenuItemID   int     `json:"menuItemId" firestore:"menuItemId"`
	Name         string  `json:"name" firestore:"name"`
	Quantity     int     `json:"quantity" firestore:"quantity"`
	UnitPrice    float64 `json:"unitPrice" firestore:"unitPrice"`
	LinePrice    float64 `json:"linePrice" firestore:"linePrice"`
	Instructions string  `json:"instructions,omitempty" firestore:"instructions"`
	SizeID       int     `json:"sizeId,omitempty" firestore:"sizeId"`
}

// BasketItemRequest carries what the caller wants added to a basket.
type BasketItemRequest struct {
	MenuItemID   int    `json:"menuItemId"`
	Quantity     int    `json:"quantity"`
	SizeID       int    `json:"sizeId,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// Coupon is a voucher applied to a basket.
type Coupon struct {
	Code           string  `json:"code" firestore:"code"`
	Name           string  `json:"name" firestore:"name"`
	DeductAmount   float64 `json:"deductAmount" firestore:"deductAmount"`
	RegisteredOnly bool    `json:"registeredOnly" firestore:"registeredOnly"`
}

// ContactDetails identifies who the order is for.
type ContactDetails struct {
	FirstName   string `json:"firstName" firestore:"firstName"`
	LastName    string `json:"lastName" firestore:"lastName"`
	Email       string `json:"email" firestore:"email"`
	PhoneNumber string `json:"phoneNumber" firestore:"phoneNumber"`
}

// TimeSlotRequest reserves a fulfilment window against a basket.
type TimeSlotRequest struct {
	SlotID string `json:"slotId"`
	Start  string `json:"start"`
	End    string `json:"end"`
}
