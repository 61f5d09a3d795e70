package cachestore

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ====================================================================================
// One key type per cached entity kind. Each is a comparable struct so cached
// records can be looked up and cleared by exact key equality, with a canonical
// string form for the string-keyed backends (Redis, Firestore).
// ====================================================================================

// NullString is a string that can be absent. Absence must be distinguishable
// from every present value, including the empty string.
type NullString struct {
	String string
	Valid  bool
}

// SomeString returns a present NullString.
func SomeString(s string) NullString { return NullString{String: s, Valid: true} }

func (n NullString) canonical() string {
	if !n.Valid {
		return "nil"
	}
	return "v:" + n.String
}

// CanonicalPostcode normalizes a postcode for key equality: upper-cased with
// spaces removed. Keys carry postcodes only in this form, so the backends
// that compare by struct equality and the ones that compare by string agree
// on which spellings are the same search.
func CanonicalPostcode(postcode string) string {
	return strings.ToUpper(strings.ReplaceAll(postcode, " ", ""))
}

// StoreSearchKey identifies a store search by postcode or by coordinates.
// Exactly one of the two forms is populated. Build via NewStoreSearchKey or
// NewLocationSearchKey so the postcode is canonical.
type StoreSearchKey struct {
	Postcode  string
	Latitude  float64
	Longitude float64
}

// NewStoreSearchKey builds a postcode search key.
func NewStoreSearchKey(postcode string) StoreSearchKey {
	return StoreSearchKey{Postcode: CanonicalPostcode(postcode)}
}

// NewLocationSearchKey builds a coordinate search key.
func NewLocationSearchKey(latitude, longitude float64) StoreSearchKey {
	return StoreSearchKey{Latitude: latitude, Longitude: longitude}
}

func (k StoreSearchKey) CacheKey() string {
	if k.Postcode != "" {
		return "store-search:postcode:" + CanonicalPostcode(k.Postcode)
	}
	return fmt.Sprintf("store-search:location:%.6f,%.6f", k.Latitude, k.Longitude)
}

// StoreDetailsKey identifies a store details fetch. Build via
// NewStoreDetailsKey so the postcode is canonical.
type StoreDetailsKey struct {
	StoreID  int
	Postcode string
}

// NewStoreDetailsKey builds a store details key.
func NewStoreDetailsKey(storeID int, postcode string) StoreDetailsKey {
	return StoreDetailsKey{StoreID: storeID, Postcode: CanonicalPostcode(postcode)}
}

func (k StoreDetailsKey) CacheKey() string {
	return "store-details:" + strconv.Itoa(k.StoreID) + ":" + CanonicalPostcode(k.Postcode)
}

// MenuFetchKind discriminates the menu fetch variants sharing one store.
type MenuFetchKind string

const (
	MenuFetchCategories MenuFetchKind = "categories"
	MenuFetchItems      MenuFetchKind = "items"
	MenuFetchSearch     MenuFetchKind = "search"
)

// MenuKey identifies a menu fetch. Day is day-granular: callers must pass a
// midnight-truncated date. ItemIDs and Term are only set for the items and
// search variants respectively.
type MenuKey struct {
	Kind             MenuFetchKind
	StoreID          int
	CategoryID       int
	ItemIDs          string // canonical comma-joined list, see JoinIDs
	Term             string
	FulfilmentMethod string
	Day              time.Time
}

func (k MenuKey) CacheKey() string {
	return fmt.Sprintf("menu:%s:%d:%d:%s:%s:%s:%s",
		k.Kind, k.StoreID, k.CategoryID, k.ItemIDs, k.Term, k.FulfilmentMethod, k.Day.Format("2006-01-02"))
}

// JoinIDs canonicalizes a list of item IDs for use in a MenuKey.
func JoinIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

// BusinessProfileKey identifies a business profile fetch by locale.
type BusinessProfileKey struct {
	LocaleCode string
}

func (k BusinessProfileKey) CacheKey() string { return "business-profile:" + k.LocaleCode }

// AddressSearchKey identifies an address search. Build via
// NewAddressSearchKey so the postcode is canonical.
type AddressSearchKey struct {
	Postcode    string
	CountryCode string
}

// NewAddressSearchKey builds an address search key.
func NewAddressSearchKey(postcode, countryCode string) AddressSearchKey {
	return AddressSearchKey{Postcode: CanonicalPostcode(postcode), CountryCode: countryCode}
}

func (k AddressSearchKey) CacheKey() string {
	return "address-search:" + CanonicalPostcode(k.Postcode) + ":" + k.CountryCode
}

// CountriesKey identifies an address-selection countries fetch by locale.
type CountriesKey struct {
	LocaleCode string
}

func (k CountriesKey) CacheKey() string { return "address-countries:" + k.LocaleCode }

// MarketingOptionsKey identifies a marketing options fetch. BasketToken is
// only populated when the caller is not signed in and is at checkout; an
// absent token is distinct from every present one.
type MarketingOptionsKey struct {
	IsCheckout           bool
	NotificationsEnabled bool
	BasketToken          NullString
}

func (k MarketingOptionsKey) CacheKey() string {
	return fmt.Sprintf("marketing-options:%t:%t:%s", k.IsCheckout, k.NotificationsEnabled, k.BasketToken.canonical())
}

// MemberProfileKey is the singleton key for the signed-in member's profile.
type MemberProfileKey struct{}

func (MemberProfileKey) CacheKey() string { return "member-profile" }

// BasketKey is the singleton key for the device's current basket.
type BasketKey struct{}

func (BasketKey) CacheKey() string { return "basket" }

// LastOrderKey is the singleton key for the last delivery order placed on
// this device, kept so driver location can be polled after checkout.
type LastOrderKey struct{}

func (LastOrderKey) CacheKey() string { return "last-delivery-order" }

// SearchHistoryKey is the singleton key for the device's recent searches.
type SearchHistoryKey struct{}

func (SearchHistoryKey) CacheKey() string { return "search-history" }
