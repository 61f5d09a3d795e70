package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-grocery/pkg/appstate"
	"github.com/illmade-knight/go-grocery/pkg/cachestore"
	"github.com/illmade-knight/go-grocery/pkg/events"
	"github.com/illmade-knight/go-grocery/pkg/grocery"
	"github.com/illmade-knight/go-grocery/pkg/remote"
)

// BasketConfig holds the cache window for the device's basket.
type BasketConfig struct {
	TTL time.Duration
	Now func() time.Time
}

// BasketService owns the server-side basket. Every mutation requires a
// selected store and a resolved fulfilment location, and runs against a
// basket that matches the current selection: a basket opened against a
// different store or method is transparently re-fetched first.
type BasketService struct {
	api    remote.BasketAPI
	store  cachestore.RecordStore[cachestore.BasketKey, grocery.Basket]
	ttl    time.Duration
	now    func() time.Time
	state  *appstate.AppState
	events events.Logger
	logger zerolog.Logger
}

// NewBasketService creates the basket service.
func NewBasketService(
	cfg *BasketConfig,
	api remote.BasketAPI,
	store cachestore.RecordStore[cachestore.BasketKey, grocery.Basket],
	state *appstate.AppState,
	eventLogger events.Logger,
	logger zerolog.Logger,
) (*BasketService, error) {
	if api == nil {
		return nil, errors.New("basket API cannot be nil")
	}
	if store == nil {
		return nil, errors.New("basket store cannot be nil")
	}
	if state == nil {
		return nil, errors.New("app state cannot be nil")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("basket TTL must be positive")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	return &BasketService{
		api:    api,
		store:  store,
		ttl:    cfg.TTL,
		now:    now,
		state:  state,
		events: eventLogger,
		logger: logger.With().Str("component", "BasketService").Logger(),
	}, nil
}

// RestoreBasket publishes a previously persisted basket, if one exists and is
// still within its cache window. Called on app start before any selection is
// made.
func (s *BasketService) RestoreBasket(ctx context.Context) (*grocery.Basket, error) {
	record, ok, err := s.store.Query(ctx, cachestore.BasketKey{})
	if err != nil {
		return nil, &grocery.StoreError{Op: "query", Err: err}
	}
	if !ok || !cachestore.IsValid(s.ttl, record.FetchedAt, s.now()) {
		return nil, nil
	}

	basket := record.Value
	s.state.Update(func(data *appstate.UserData) {
		data.Basket = &basket
	})
	return &basket, nil
}

// GetBasket returns the basket for the current selection, re-fetching it from
// the server when the in-memory basket disagrees with the selected store or
// fulfilment method.
func (s *BasketService) GetBasket(ctx context.Context) (grocery.Basket, error) {
	data, err := s.requireContext()
	if err != nil {
		return grocery.Basket{}, err
	}
	basket, err := s.reconcile(ctx, data)
	if err != nil {
		return grocery.Basket{}, err
	}
	return *basket, nil
}

// AddItem adds a menu item to the basket.
func (s *BasketService) AddItem(ctx context.Context, item grocery.BasketItemRequest) (grocery.Basket, error) {
	return s.mutate(ctx, events.KindItemAdded, map[string]any{
		"menu_item_id": item.MenuItemID,
		"quantity":     item.Quantity,
	}, func(ctx context.Context, token string) (grocery.Basket, error) {
		return s.api.AddItem(ctx, token, item)
	})
}

// UpdateItem changes the quantity of a basket line.
func (s *BasketService) UpdateItem(ctx context.Context, basketLineID string, quantity int) (grocery.Basket, error) {
	return s.mutate(ctx, events.KindItemUpdated, map[string]any{
		"basket_line_id": basketLineID,
		"quantity":       quantity,
	}, func(ctx context.Context, token string) (grocery.Basket, error) {
		return s.api.UpdateItem(ctx, token, basketLineID, quantity)
	})
}

// RemoveItem removes a basket line.
func (s *BasketService) RemoveItem(ctx context.Context, basketLineID string) (grocery.Basket, error) {
	return s.mutate(ctx, events.KindItemRemoved, map[string]any{
		"basket_line_id": basketLineID,
	}, func(ctx context.Context, token string) (grocery.Basket, error) {
		return s.api.RemoveItem(ctx, token, basketLineID)
	})
}

// ApplyCoupon applies a voucher code to the basket.
func (s *BasketService) ApplyCoupon(ctx context.Context, code string) (grocery.Basket, error) {
	return s.mutate(ctx, events.KindCouponApplied, map[string]any{
		"code": code,
	}, func(ctx context.Context, token string) (grocery.Basket, error) {
		return s.api.ApplyCoupon(ctx, token, code)
	})
}

// RemoveCoupon removes the applied voucher from the basket.
func (s *BasketService) RemoveCoupon(ctx context.Context) (grocery.Basket, error) {
	return s.mutate(ctx, events.KindCouponRemoved, nil, func(ctx context.Context, token string) (grocery.Basket, error) {
		return s.api.RemoveCoupon(ctx, token)
	})
}

// SetContactDetails records who the order is for.
func (s *BasketService) SetContactDetails(ctx context.Context, details grocery.ContactDetails) (grocery.Basket, error) {
	return s.mutate(ctx, "", nil, func(ctx context.Context, token string) (grocery.Basket, error) {
		return s.api.SetContactDetails(ctx, token, details)
	})
}

// SetDeliveryAddress records where a delivery order goes.
func (s *BasketService) SetDeliveryAddress(ctx context.Context, address grocery.Address) (grocery.Basket, error) {
	return s.mutate(ctx, "", nil, func(ctx context.Context, token string) (grocery.Basket, error) {
		return s.api.SetDeliveryAddress(ctx, token, address)
	})
}

// UpdateTip sets the driver tip.
func (s *BasketService) UpdateTip(ctx context.Context, tip float64) (grocery.Basket, error) {
	return s.mutate(ctx, "", nil, func(ctx context.Context, token string) (grocery.Basket, error) {
		return s.api.UpdateTip(ctx, token, tip)
	})
}

// ReserveTimeSlot books a fulfilment window against the basket.
func (s *BasketService) ReserveTimeSlot(ctx context.Context, slot grocery.TimeSlotRequest) (grocery.Basket, error) {
	return s.mutate(ctx, "", nil, func(ctx context.Context, token string) (grocery.Basket, error) {
		return s.api.ReserveTimeSlot(ctx, token, slot)
	})
}

// ClearBasket removes the persisted basket and the published one, e.g. after
// payment confirmation.
func (s *BasketService) ClearBasket(ctx context.Context) error {
	if err := s.store.Clear(ctx, cachestore.BasketKey{}); err != nil {
		return &grocery.StoreError{Op: "clear", Err: err}
	}
	s.state.Update(func(data *appstate.UserData) {
		data.Basket = nil
	})
	return nil
}

// mutate runs one basket mutation: precondition checks, context
// reconciliation, the remote call, then persist and publish. No remote or
// cache I/O happens when a precondition fails.
func (s *BasketService) mutate(
	ctx context.Context,
	eventKind events.Kind,
	eventParams map[string]any,
	call func(ctx context.Context, basketToken string) (grocery.Basket, error),
) (grocery.Basket, error) {
	data, err := s.requireContext()
	if err != nil {
		return grocery.Basket{}, err
	}

	basket, err := s.reconcile(ctx, data)
	if err != nil {
		return grocery.Basket{}, err
	}

	mutated, err := call(ctx, basket.BasketToken)
	if err != nil {
		return grocery.Basket{}, err
	}

	if err := s.persist(ctx, mutated); err != nil {
		return grocery.Basket{}, err
	}
	s.publish(mutated)

	if eventKind != "" {
		s.events.Log(events.New(eventKind, eventParams))
	}
	return mutated, nil
}

// requireContext enforces the mutation preconditions from the current
// selection.
func (s *BasketService) requireContext() (appstate.UserData, error) {
	data := s.state.Snapshot()
	if data.SelectedStore == nil {
		return data, grocery.ErrStoreSelectionRequired
	}
	if data.SelectedFulfilmentMethod == "" || data.FulfilmentLocation == nil {
		return data, grocery.ErrFulfilmentLocationRequired
	}
	return data, nil
}

// reconcile returns a basket matching the current selection, fetching one
// from the server when the in-memory basket is absent or was opened against a
// different store or fulfilment method. A reconciling fetch is persisted with
// the same clear-then-store discipline as any other.
func (s *BasketService) reconcile(ctx context.Context, data appstate.UserData) (*grocery.Basket, error) {
	storeID := data.SelectedStore.ID
	method := data.SelectedFulfilmentMethod

	if data.Basket.Matches(storeID, method) {
		return data.Basket, nil
	}

	token := ""
	if data.Basket != nil {
		token = data.Basket.BasketToken
	}
	s.logger.Debug().Int("store_id", storeID).Str("method", string(method)).Msg("Basket context mismatch. Re-fetching basket.")

	fresh, err := s.api.GetBasket(ctx, token, storeID, method)
	if err != nil {
		return nil, err
	}
	if err := s.persist(ctx, fresh); err != nil {
		return nil, err
	}
	s.publish(fresh)
	return &fresh, nil
}

// persist writes the basket through to the cache, clear before insert.
func (s *BasketService) persist(ctx context.Context, basket grocery.Basket) error {
	key := cachestore.BasketKey{}
	if err := s.store.Clear(ctx, key); err != nil {
		return &grocery.StoreError{Op: "clear", Err: err}
	}
	record := cachestore.Record[grocery.Basket]{Value: basket, FetchedAt: s.now()}
	if err := s.store.Insert(ctx, key, record); err != nil {
		return &grocery.StoreError{Op: "insert", Err: err}
	}
	return nil
}

func (s *BasketService) publish(basket grocery.Basket) {
	s.state.Update(func(data *appstate.UserData) {
		data.Basket = &basket
	})
}
