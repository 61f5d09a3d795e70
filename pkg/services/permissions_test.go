package services_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/illmade-knight/go-grocery/pkg/grocery"
	"github.com/illmade-knight/go-grocery/pkg/services"
)

func TestUserPermissions_PushMarketingPermission(t *testing.T) {
	service := services.NewUserPermissionsService(zerolog.Nop())

	testCases := []struct {
		name     string
		options  grocery.MarketingOptions
		expected grocery.PushPermission
	}{
		{
			name: "opted in",
			options: grocery.MarketingOptions{MarketingOptions: []grocery.MarketingPreference{
				{Type: services.PushMarketingType, Opt: grocery.MarketingIn},
			}},
			expected: grocery.PushPermissionGranted,
		},
		{
			name: "opted out",
			options: grocery.MarketingOptions{MarketingOptions: []grocery.MarketingPreference{
				{Type: services.PushMarketingType, Opt: grocery.MarketingOut},
			}},
			expected: grocery.PushPermissionDenied,
		},
		{
			name: "unanswered",
			options: grocery.MarketingOptions{MarketingOptions: []grocery.MarketingPreference{
				{Type: services.PushMarketingType, Opt: grocery.MarketingUnlisted},
			}},
			expected: grocery.PushPermissionUnknown,
		},
		{
			name: "channel absent",
			options: grocery.MarketingOptions{MarketingOptions: []grocery.MarketingPreference{
				{Type: "email", Opt: grocery.MarketingIn},
			}},
			expected: grocery.PushPermissionUnknown,
		},
		{
			name:     "empty set",
			options:  grocery.MarketingOptions{},
			expected: grocery.PushPermissionUnknown,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, service.PushMarketingPermission(tc.options))
		})
	}
}

func TestUserPermissions_MarketingAllowed(t *testing.T) {
	service := services.NewUserPermissionsService(zerolog.Nop())
	options := grocery.MarketingOptions{MarketingOptions: []grocery.MarketingPreference{
		{Type: "email", Opt: grocery.MarketingIn},
		{Type: "sms", Opt: grocery.MarketingOut},
	}}

	assert.True(t, service.MarketingAllowed(options, "email"))
	assert.False(t, service.MarketingAllowed(options, "sms"))
	assert.False(t, service.MarketingAllowed(options, "post"))
}
