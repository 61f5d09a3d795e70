package services

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-grocery/pkg/appstate"
	"github.com/illmade-knight/go-grocery/pkg/cachestore"
	"github.com/illmade-knight/go-grocery/pkg/events"
	"github.com/illmade-knight/go-grocery/pkg/fetch"
	"github.com/illmade-knight/go-grocery/pkg/grocery"
	"github.com/illmade-knight/go-grocery/pkg/remote"
)

// UserConfig holds the cache windows for the member profile and marketing
// options.
type UserConfig struct {
	ProfileTTL   time.Duration
	MarketingTTL time.Duration
	Now          func() time.Time
}

// UserService owns authentication, the member profile and marketing
// preferences.
type UserService struct {
	api            remote.MemberAPI
	profileCoord   *fetch.Coordinator[cachestore.MemberProfileKey, grocery.MemberProfile]
	marketingCoord *fetch.Coordinator[cachestore.MarketingOptionsKey, grocery.MarketingOptions]
	state          *appstate.AppState
	events         events.Logger
	logger         zerolog.Logger

	signedIn atomic.Bool

	// Marketing keys fetched this session, so they can all be cleared on
	// login and logout and never serve another member's preferences.
	mu            sync.Mutex
	marketingKeys map[cachestore.MarketingOptionsKey]struct{}
}

// NewUserService wires the profile and marketing coordinators.
func NewUserService(
	cfg *UserConfig,
	api remote.MemberAPI,
	profileStore cachestore.RecordStore[cachestore.MemberProfileKey, grocery.MemberProfile],
	marketingStore cachestore.RecordStore[cachestore.MarketingOptionsKey, grocery.MarketingOptions],
	state *appstate.AppState,
	eventLogger events.Logger,
	logger zerolog.Logger,
) (*UserService, error) {
	if api == nil {
		return nil, errors.New("member API cannot be nil")
	}
	if state == nil {
		return nil, errors.New("app state cannot be nil")
	}

	profileCoord, err := fetch.NewCoordinator(
		&fetch.Config{Name: "member-profile", TTL: cfg.ProfileTTL, Now: cfg.Now},
		func(ctx context.Context, _ cachestore.MemberProfileKey) (grocery.MemberProfile, error) {
			return api.Profile(ctx)
		},
		profileStore, logger,
	)
	if err != nil {
		return nil, err
	}

	marketingCoord, err := fetch.NewCoordinator(
		&fetch.Config{Name: "marketing-options", TTL: cfg.MarketingTTL, Now: cfg.Now},
		func(ctx context.Context, key cachestore.MarketingOptionsKey) (grocery.MarketingOptions, error) {
			return api.MarketingOptions(ctx, key.IsCheckout, key.NotificationsEnabled, key.BasketToken)
		},
		marketingStore, logger,
	)
	if err != nil {
		return nil, err
	}

	return &UserService{
		api:            api,
		profileCoord:   profileCoord,
		marketingCoord: marketingCoord,
		state:          state,
		events:         eventLogger,
		logger:         logger.With().Str("component", "UserService").Logger(),
		marketingKeys:  make(map[cachestore.MarketingOptionsKey]struct{}),
	}, nil
}

// SignedIn reports whether a member session is established.
func (s *UserService) SignedIn() bool { return s.signedIn.Load() }

// Login establishes a member session. Success always triggers a profile
// fetch-and-cache cycle and clears any marketing options cached for a
// previous member.
func (s *UserService) Login(ctx context.Context, email, password string) error {
	result, err := s.api.Login(ctx, email, password)
	if err != nil {
		return err
	}
	s.signedIn.Store(true)

	s.clearMarketingCaches(ctx)

	if _, err := s.Profile(ctx); err != nil {
		return err
	}

	s.events.Log(events.New(events.KindLogin, map[string]any{
		"member_uuid": result.MemberUUID,
	}))
	return nil
}

// Register creates a member account and signs in. If the email is already
// registered the attempt is retried as a login with the same credentials.
func (s *UserService) Register(ctx context.Context, request grocery.RegistrationRequest) error {
	result, err := s.api.Register(ctx, request)
	if err != nil {
		if errors.Is(err, grocery.ErrMemberAlreadyRegistered) {
			s.logger.Debug().Msg("Member already registered. Retrying as login.")
			return s.Login(ctx, request.Email, request.Password)
		}
		return err
	}
	s.signedIn.Store(true)

	s.clearMarketingCaches(ctx)

	if _, err := s.Profile(ctx); err != nil {
		return err
	}

	s.events.Log(events.New(events.KindRegistration, map[string]any{
		"member_uuid": result.MemberUUID,
		"new_member":  result.NewMember,
	}))
	return nil
}

// Logout ends the session and clears everything member-scoped: the cached
// profile, all cached marketing options and the published profile.
func (s *UserService) Logout(ctx context.Context) error {
	if err := s.api.Logout(ctx); err != nil {
		return err
	}
	s.signedIn.Store(false)

	if err := s.profileCoord.Clear(ctx, cachestore.MemberProfileKey{}); err != nil {
		s.logger.Error().Err(err).Msg("Failed to clear cached profile on logout.")
	}
	s.clearMarketingCaches(ctx)

	s.state.Update(func(data *appstate.UserData) {
		data.MemberProfile = nil
	})
	return nil
}

// Profile fetches the member profile and publishes it. On failure the
// published profile is cleared; a failure with no member session is reported
// as the missing-session precondition.
func (s *UserService) Profile(ctx context.Context) (grocery.MemberProfile, error) {
	record, err := s.profileCoord.Fetch(ctx, cachestore.MemberProfileKey{})
	if err != nil {
		s.state.Update(func(data *appstate.UserData) {
			data.MemberProfile = nil
		})
		if !s.signedIn.Load() {
			return grocery.MemberProfile{}, grocery.ErrMemberSignInRequired
		}
		return grocery.MemberProfile{}, err
	}

	profile := record.Value
	s.state.Update(func(data *appstate.UserData) {
		data.MemberProfile = &profile
	})
	return profile, nil
}

// MarketingOptions fetches the marketing preference set. The basket token is
// part of the key only when no member is signed in and the caller is at
// checkout, so guest checkout preferences attach to the basket.
func (s *UserService) MarketingOptions(ctx context.Context, isCheckout, notificationsEnabled bool) (grocery.MarketingOptions, error) {
	key := cachestore.MarketingOptionsKey{
		IsCheckout:           isCheckout,
		NotificationsEnabled: notificationsEnabled,
		BasketToken:          s.basketTokenForMarketing(isCheckout),
	}

	s.mu.Lock()
	s.marketingKeys[key] = struct{}{}
	s.mu.Unlock()

	record, err := s.marketingCoord.Fetch(ctx, key)
	if err != nil {
		return grocery.MarketingOptions{}, err
	}
	return record.Value, nil
}

// UpdateMarketingOptions submits changed preferences and invalidates every
// cached marketing fetch, since the server-side answer has changed.
func (s *UserService) UpdateMarketingOptions(ctx context.Context, preferences []grocery.MarketingPreference) error {
	token := s.basketTokenForMarketing(true)
	if err := s.api.UpdateMarketingOptions(ctx, preferences, token); err != nil {
		return err
	}
	s.clearMarketingCaches(ctx)
	return nil
}

func (s *UserService) basketTokenForMarketing(isCheckout bool) cachestore.NullString {
	if s.signedIn.Load() || !isCheckout {
		return cachestore.NullString{}
	}
	data := s.state.Snapshot()
	if data.Basket == nil {
		return cachestore.NullString{}
	}
	return cachestore.SomeString(data.Basket.BasketToken)
}

func (s *UserService) clearMarketingCaches(ctx context.Context) {
	s.mu.Lock()
	keys := make([]cachestore.MarketingOptionsKey, 0, len(s.marketingKeys))
	for key := range s.marketingKeys {
		keys = append(keys, key)
	}
	s.marketingKeys = make(map[cachestore.MarketingOptionsKey]struct{})
	s.mu.Unlock()

	for _, key := range keys {
		if err := s.marketingCoord.Clear(ctx, key); err != nil {
			s.logger.Error().Err(err).Str("key", key.CacheKey()).Msg("Failed to clear cached marketing options.")
		}
	}
}
