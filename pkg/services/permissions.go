package services

import (
	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-grocery/pkg/grocery"
)

// PushMarketingType is the marketing channel name for push notifications.
const PushMarketingType = "push"

// UserPermissionsService resolves marketing consent from fetched preference
// sets. Pure domain logic: no network, no cache.
type UserPermissionsService struct {
	logger zerolog.Logger
}

// NewUserPermissionsService creates the permissions service.
func NewUserPermissionsService(logger zerolog.Logger) *UserPermissionsService {
	return &UserPermissionsService{
		logger: logger.With().Str("component", "UserPermissionsService").Logger(),
	}
}

// PushMarketingPermission resolves the push channel's consent from a fetched
// marketing options set. A channel the member has not answered, or a set
// without the push channel at all, is unknown.
func (s *UserPermissionsService) PushMarketingPermission(options grocery.MarketingOptions) grocery.PushPermission {
	for _, preference := range options.MarketingOptions {
		if preference.Type != PushMarketingType {
			continue
		}
		switch preference.Opt {
		case grocery.MarketingIn:
			return grocery.PushPermissionGranted
		case grocery.MarketingOut:
			return grocery.PushPermissionDenied
		}
	}
	return grocery.PushPermissionUnknown
}

// MarketingAllowed reports whether a given channel is opted in.
func (s *UserPermissionsService) MarketingAllowed(options grocery.MarketingOptions, channelType string) bool {
	for _, preference := range options.MarketingOptions {
		if preference.Type == channelType {
			return preference.Opt == grocery.MarketingIn
		}
	}
	return false
}
