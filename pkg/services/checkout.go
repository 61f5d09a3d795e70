package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-grocery/pkg/appstate"
	"github.com/illmade-knight/go-grocery/pkg/cachestore"
	"github.com/illmade-knight/go-grocery/pkg/events"
	"github.com/illmade-knight/go-grocery/pkg/grocery"
	"github.com/illmade-knight/go-grocery/pkg/orderarchive"
	"github.com/illmade-knight/go-grocery/pkg/remote"
)

// CheckoutService orchestrates payment: one in-flight draft order at a time,
// hosted-payment-page data exchange, confirmation, and the post-payment
// bookkeeping (basket clearing, last-delivery-order pointer, receipt
// archival).
type CheckoutService struct {
	api            remote.CheckoutAPI
	basket         *BasketService
	lastOrderStore cachestore.RecordStore[cachestore.LastOrderKey, string]
	archiver       *orderarchive.Archiver // optional
	now            func() time.Time
	state          *appstate.AppState
	events         events.Logger
	logger         zerolog.Logger

	mu           sync.Mutex
	draftOrderID string
}

// NewCheckoutService creates the checkout service. The archiver may be nil
// when receipt archival is not configured.
func NewCheckoutService(
	api remote.CheckoutAPI,
	basket *BasketService,
	lastOrderStore cachestore.RecordStore[cachestore.LastOrderKey, string],
	archiver *orderarchive.Archiver,
	state *appstate.AppState,
	eventLogger events.Logger,
	logger zerolog.Logger,
) (*CheckoutService, error) {
	if api == nil {
		return nil, errors.New("checkout API cannot be nil")
	}
	if basket == nil {
		return nil, errors.New("basket service cannot be nil")
	}
	if lastOrderStore == nil {
		return nil, errors.New("last order store cannot be nil")
	}
	if state == nil {
		return nil, errors.New("app state cannot be nil")
	}

	return &CheckoutService{
		api:            api,
		basket:         basket,
		lastOrderStore: lastOrderStore,
		archiver:       archiver,
		now:            time.Now,
		state:          state,
		events:         eventLogger,
		logger:         logger.With().Str("component", "CheckoutService").Logger(),
	}, nil
}

// CreateDraftOrder opens the server-side pending order for the current
// basket. It becomes the single in-flight draft order.
func (s *CheckoutService) CreateDraftOrder(ctx context.Context, instructions string) (grocery.DraftOrder, error) {
	data := s.state.Snapshot()
	if data.Basket == nil {
		return grocery.DraftOrder{}, grocery.ErrBasketRequired
	}

	draft, err := s.api.CreateDraftOrder(ctx, data.Basket.BasketToken, data.Basket.FulfilmentMethod, instructions)
	if err != nil {
		return grocery.DraftOrder{}, err
	}

	s.mu.Lock()
	s.draftOrderID = draft.DraftOrderID
	s.mu.Unlock()

	s.events.Log(events.New(events.KindCheckoutStarted, map[string]any{
		"draft_order_id": draft.DraftOrderID,
		"total_price":    draft.TotalPrice,
	}))
	return draft, nil
}

// RealexHPPProducerData fetches the hosted payment page setup data for the
// in-flight draft order.
func (s *CheckoutService) RealexHPPProducerData(ctx context.Context) (map[string]any, error) {
	draftID, err := s.requireDraftOrder()
	if err != nil {
		return nil, err
	}
	return s.api.RealexHPPProducerData(ctx, draftID)
}

// ProcessRealexHPPConsumerData submits the hosted payment page response for
// the in-flight draft order.
func (s *CheckoutService) ProcessRealexHPPConsumerData(ctx context.Context, hppResponse map[string]any) (grocery.PaymentConfirmation, error) {
	draftID, err := s.requireDraftOrder()
	if err != nil {
		return grocery.PaymentConfirmation{}, err
	}
	return s.api.ProcessRealexHPPConsumerData(ctx, draftID, hppResponse)
}

// ConfirmPayment finalizes the in-flight draft order. On success the basket
// is cleared, a delivery order is recorded as the device's last delivery
// order for driver tracking, and the receipt is archived.
func (s *CheckoutService) ConfirmPayment(ctx context.Context) (grocery.PlacedOrder, error) {
	draftID, err := s.requireDraftOrder()
	if err != nil {
		return grocery.PlacedOrder{}, err
	}

	order, err := s.api.ConfirmPayment(ctx, draftID)
	if err != nil {
		return grocery.PlacedOrder{}, err
	}

	s.mu.Lock()
	s.draftOrderID = ""
	s.mu.Unlock()

	if err := s.basket.ClearBasket(ctx); err != nil {
		return grocery.PlacedOrder{}, err
	}

	if order.FulfilmentMethod == grocery.FulfilmentDelivery {
		if err := s.recordLastOrder(ctx, order.OrderID); err != nil {
			return grocery.PlacedOrder{}, err
		}
	}

	if s.archiver != nil {
		s.archiver.ArchiveOrder(order)
	}

	s.events.Log(events.New(events.KindPaymentCompleted, map[string]any{
		"order_id":    order.OrderID,
		"store_id":    order.StoreID,
		"total_price": order.TotalPrice,
	}))
	return order, nil
}

// LastOrderStatus polls the status of the device's last delivery order. Once
// the order reaches a terminal status the pointer is deleted and polling can
// stop. The second return is false when no order is being tracked.
func (s *CheckoutService) LastOrderStatus(ctx context.Context) (grocery.OrderStatus, bool, error) {
	record, ok, err := s.lastOrderStore.Query(ctx, cachestore.LastOrderKey{})
	if err != nil {
		return "", false, &grocery.StoreError{Op: "query", Err: err}
	}
	if !ok {
		return "", false, nil
	}

	status, err := s.api.PlacedOrderStatus(ctx, record.Value)
	if err != nil {
		return "", false, err
	}

	if status.Terminal() {
		if err := s.clearLastOrder(ctx); err != nil {
			return status, true, err
		}
	}
	return status, true, nil
}

// DriverLocation fetches the driver's position for the tracked delivery
// order.
func (s *CheckoutService) DriverLocation(ctx context.Context) (grocery.DriverLocation, error) {
	record, ok, err := s.lastOrderStore.Query(ctx, cachestore.LastOrderKey{})
	if err != nil {
		return grocery.DriverLocation{}, &grocery.StoreError{Op: "query", Err: err}
	}
	if !ok {
		return grocery.DriverLocation{}, errors.New("no delivery order is being tracked")
	}
	return s.api.DriverLocation(ctx, record.Value)
}

func (s *CheckoutService) requireDraftOrder() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draftOrderID == "" {
		return "", grocery.ErrDraftOrderRequired
	}
	return s.draftOrderID, nil
}

func (s *CheckoutService) recordLastOrder(ctx context.Context, orderID string) error {
	key := cachestore.LastOrderKey{}
	if err := s.lastOrderStore.Clear(ctx, key); err != nil {
		return &grocery.StoreError{Op: "clear", Err: err}
	}
	record := cachestore.Record[string]{Value: orderID, FetchedAt: s.now()}
	if err := s.lastOrderStore.Insert(ctx, key, record); err != nil {
		return &grocery.StoreError{Op: "insert", Err: err}
	}

	s.state.Update(func(data *appstate.UserData) {
		data.LatestDeliveryOrderID = orderID
	})
	return nil
}

func (s *CheckoutService) clearLastOrder(ctx context.Context) error {
	if err := s.lastOrderStore.Clear(ctx, cachestore.LastOrderKey{}); err != nil {
		return &grocery.StoreError{Op: "clear", Err: err}
	}
	s.state.Update(func(data *appstate.UserData) {
		data.LatestDeliveryOrderID = ""
	})
	return nil
}
