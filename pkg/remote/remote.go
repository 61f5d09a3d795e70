// Package remote defines the ports the core expects from the network layer.
// Implementations own the transport stack: base URLs, auth-token plumbing,
// retries and timeouts all live behind these interfaces. Fetch-style calls
// must be idempotent-safe; repeating one with the same parameters has no side
// effects.
package remote

import (
	"context"
	"time"

	"github.com/illmade-knight/go-grocery/pkg/cachestore"
	"github.com/illmade-knight/go-grocery/pkg/grocery"
)

// StoreSearcher finds stores serving a location.
type StoreSearcher interface {
	SearchByPostcode(ctx context.Context, postcode string) (grocery.StoreSearchResult, error)
	SearchByLocation(ctx context.Context, latitude, longitude float64) (grocery.StoreSearchResult, error)
}

// StoreDetailsFetcher fetches the full record for a chosen store.
type StoreDetailsFetcher interface {
	StoreDetails(ctx context.Context, storeID int, postcode string) (grocery.RetailStoreDetails, error)
}

// MenuFetcher fetches menu pages, items and search results for a store. The
// day argument is day-granular.
type MenuFetcher interface {
	Categories(ctx context.Context, storeID, categoryID int, method grocery.FulfilmentMethod, day time.Time) (grocery.MenuFetch, error)
	Items(ctx context.Context, storeID int, itemIDs []int, method grocery.FulfilmentMethod, day time.Time) (grocery.MenuFetch, error)
	Search(ctx context.Context, storeID int, term string, method grocery.FulfilmentMethod, day time.Time) (grocery.MenuItemSearchResult, error)
}

// BusinessProfileFetcher fetches the per-locale business configuration.
type BusinessProfileFetcher interface {
	BusinessProfile(ctx context.Context, localeCode string) (grocery.BusinessProfile, error)
}

// AddressSearcher resolves postcodes to addresses and lists selectable countries.
type AddressSearcher interface {
	SearchAddresses(ctx context.Context, postcode, countryCode string) ([]grocery.Address, error)
	SelectionCountries(ctx context.Context, localeCode string) ([]grocery.AddressSelectionCountry, error)
}

// MemberAPI is the account surface: authentication, profile and marketing
// preferences.
type MemberAPI interface {
	Login(ctx context.Context, email, password string) (grocery.LoginResult, error)
	// Register returns grocery.ErrMemberAlreadyRegistered (possibly wrapped)
	// when the email already has an account.
	Register(ctx context.Context, request grocery.RegistrationRequest) (grocery.LoginResult, error)
	Logout(ctx context.Context) error
	Profile(ctx context.Context) (grocery.MemberProfile, error)
	MarketingOptions(ctx context.Context, isCheckout, notificationsEnabled bool, basketToken cachestore.NullString) (grocery.MarketingOptions, error)
	UpdateMarketingOptions(ctx context.Context, preferences []grocery.MarketingPreference, basketToken cachestore.NullString) error
}

// BasketAPI is the basket surface. An empty basketToken on GetBasket opens a
// fresh basket against the given store; the server issues the token.
type BasketAPI interface {
	GetBasket(ctx context.Context, basketToken string, storeID int, method grocery.FulfilmentMethod) (grocery.Basket, error)
	AddItem(ctx context.Context, basketToken string, item grocery.BasketItemRequest) (grocery.Basket, error)
	UpdateItem(ctx context.Context, basketToken, basketLineID string, quantity int) (grocery.Basket, error)
	RemoveItem(ctx context.Context, basketToken, basketLineID string) (grocery.Basket, error)
	ApplyCoupon(ctx context.Context, basketToken, code string) (grocery.Basket, error)
	RemoveCoupon(ctx context.Context, basketToken string) (grocery.Basket, error)
	SetContactDetails(ctx context.Context, basketToken string, details grocery.ContactDetails) (grocery.Basket, error)
	SetDeliveryAddress(ctx context.Context, basketToken string, address grocery.Address) (grocery.Basket, error)
	UpdateTip(ctx context.Context, basketToken string, tip float64) (grocery.Basket, error)
	ReserveTimeSlot(ctx context.Context, basketToken string, slot grocery.TimeSlotRequest) (grocery.Basket, error)
}

// CheckoutAPI is the payment orchestration surface. Gateway-specific request
// shapes stay behind the implementation.
type CheckoutAPI interface {
	CreateDraftOrder(ctx context.Context, basketToken string, method grocery.FulfilmentMethod, instructions string) (grocery.DraftOrder, error)
	RealexHPPProducerData(ctx context.Context, draftOrderID string) (map[string]any, error)
	ProcessRealexHPPConsumerData(ctx context.Context, draftOrderID string, hppResponse map[string]any) (grocery.PaymentConfirmation, error)
	ConfirmPayment(ctx context.Context, draftOrderID string) (grocery.PlacedOrder, error)
	PlacedOrderStatus(ctx context.Context, orderID string) (grocery.OrderStatus, error)
	DriverLocation(ctx context.Context, orderID string) (grocery.DriverLocation, error)
}

// UtilityAPI exposes server time for clock-offset correction.
type UtilityAPI interface {
	ServerTime(ctx context.Context) (time.Time, error)
}

// NotificationAPI registers the device push token with the backend.
type NotificationAPI interface {
	RegisterDeviceToken(ctx context.Context, deviceToken string, notificationsEnabled bool) error
}
