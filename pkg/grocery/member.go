package grocery

// MemberProfile is the signed-in member's account record.
type MemberProfile struct {
	UUID                  string    `json:"uuid" firestore:"uuid"`
	FirstName             string    `json:"firstName" firestore:"firstName"`
	LastName              string    `json:"lastName" firestore:"lastName"`
	Email                 string    `json:"email" firestore:"email"`
	MobileContactNumber   string    `json:"mobileContactNumber,omitempty" firestore:"mobileContactNumber"`
	Type                  string    `json:"type" firestore:"type"`
	ReferFriendBalance    float64   `json:"referFriendBalance" firestore:"referFriendBalance"`
	NumberOfReferrals     int       `json:"numberOfReferrals" firestore:"numberOfReferrals"`
	MobileValidated       bool      `json:"mobileValidated" firestore:"mobileValidated"`
	DefaultBillingAddress *Address  `json:"defaultBillingAddress,omitempty" firestore:"defaultBillingAddress"`
	SavedAddresses        []Address `json:"savedAddresses,omitempty" firestore:"savedAddresses"`
}

// RegistrationRequest is the payload for creating a member account.
type RegistrationRequest struct {
	Email            string `json:"email"`
	Password         string `json:"password"`
	FirstName        string `json:"firstName"`
	LastName         string `json:"lastName"`
	ReferralCode     string `json:"referralCode,omitempty"`
	MarketingOptedIn bool   `json:"marketingOptedIn"`
}

// LoginResult reports the outcome of a login or registration call. Token
// plumbing lives in the transport layer; the core only needs to know the
// session is established.
type LoginResult struct {
	MemberUUID string `json:"memberUuid"`
	NewMember  bool   `json:"newMember"`
}

// MarketingPreferenceState is a member's answer for one marketing channel.
type MarketingPreferenceState string

const (
	MarketingIn       MarketingPreferenceState = "in"
	MarketingOut      MarketingPreferenceState = "out"
	MarketingUnlisted MarketingPreferenceState = "unlisted"
)

// MarketingPreference is one channel's opt-in state.
type MarketingPreference struct {
	Type string                   `json:"type" firestore:"type"`
	Opt  MarketingPreferenceState `json:"opt" firestore:"opt"`
}

// MarketingOptions is the set of marketing preferences offered to a member,
// fetched in either account or checkout context.
type MarketingOptions struct {
	MarketingPreferencesIntro string                `json:"marketingPreferencesIntro,omitempty" firestore:"marketingPreferencesIntro"`
	MarketingOptions          []MarketingPreference `json:"marketingOptions" firestore:"marketingOptions"`
	IsCheckout                bool                  `json:"isCheckout" firestore:"isCheckout"`
}

// PushPermission is the resolved state of push-marketing consent.
type PushPermission string

const (
	PushPermissionUnknown PushPermission = "unknown"
	PushPermissionGranted PushPermission = "granted"
	PushPermissionDenied  PushPermission = "denied"
)
