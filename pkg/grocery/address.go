package grocery

// Address is a postal address, used for both address search results and saved
// member addresses.
type Address struct {
	ID           int    `json:"id,omitempty" firestore:"id"`
	AddressLine1 string `json:"addressLine1" firestore:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty" firestore:"addressLine2"`
	Town         string `json:"town" firestore:"town"`
	County       string `json:"county,omitempty" firestore:"county"`
	Postcode     string `json:"postcode" firestore:"postcode"`
	CountryCode  string `json:"countryCode" firestore:"countryCode"`
	IsDefault    bool   `json:"isDefault,omitempty" firestore:"isDefault"`
}

// AddressSelectionCountry is a country offered in the address-entry picker.
type AddressSelectionCountry struct {
	CountryCode       string `json:"countryCode" firestore:"countryCode"`
	CountryName       string `json:"countryName" firestore:"countryName"`
	BillingEnabled    bool   `json:"billingEnabled" firestore:"billingEnabled"`
	FulfilmentEnabled bool   `json:"fulfilmentEnabled" firestore:"fulfilmentEnabled"`
}

// BusinessProfile is the per-locale business configuration: support contact
// details, ordering rules and feature switches.
type BusinessProfile struct {
	ID                     int       `json:"id" firestore:"id"`
	LocaleCode             string    `json:"localeCode" firestore:"localeCode"`
	SupportEmail           string    `json:"supportEmail" firestore:"supportEmail"`
	SupportPhone           string    `json:"supportPhone,omitempty" firestore:"supportPhone"`
	MinOrdersForAppReview  int       `json:"minOrdersForAppReview" firestore:"minOrdersForAppReview"`
	PrivacyPolicyURL       string    `json:"privacyPolicyUrl" firestore:"privacyPolicyUrl"`
	TipLimitLevels         []float64 `json:"tipLimitLevels,omitempty" firestore:"tipLimitLevels"`
	CheckoutTimeoutSeconds int       `json:"checkoutTimeoutSeconds" firestore:"checkoutTimeoutSeconds"`
	MarketingBrandName     string    `json:"marketingBrandName" firestore:"marketingBrandName"`
	DriverTipIncrement     float64   `json:"driverTipIncrement,omitempty" firestore:"driverTipIncrement"`
}
