// Package appstate holds the single shared mutable state of the application.
// Services are the only writers; view models observe snapshots. All mutation
// is serialized through one queue so observers never see torn updates.
package appstate

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/illmade-knight/go-grocery/pkg/grocery"
)

// UserData is the per-session state published to observers. Each field is
// independently lifecycled: set on first successful fetch, replaced on later
// fetches, cleared on logout or store change where domain rules require it.
type UserData struct {
	SelectedStore            *grocery.RetailStoreDetails
	SelectedFulfilmentMethod grocery.FulfilmentMethod
	FulfilmentLocation       *grocery.FulfilmentLocation
	SearchResult             *grocery.StoreSearchResult
	Basket                   *grocery.Basket
	MemberProfile            *grocery.MemberProfile
	IsFirstOrder             bool

	// Menu state dependent on the selected store; cleared when the selected
	// store changes.
	MenuCategories []grocery.MenuCategory
	MenuSearch     *grocery.MenuItemSearchResult

	// LatestDeliveryOrderID points at the last delivery order placed on this
	// device, kept until that order reaches a terminal status.
	LatestDeliveryOrderID string
}

// AppState is the injectable observable state container.
type AppState struct {
	logger zerolog.Logger

	mu      sync.RWMutex
	data    UserData
	subs    map[uint64]chan UserData
	nextSub uint64
}

// New creates an empty AppState.
func New(logger zerolog.Logger) *AppState {
	return &AppState{
		logger: logger.With().Str("component", "AppState").Logger(),
		subs:   make(map[uint64]chan UserData),
	}
}

// Snapshot returns a copy of the current user data.
func (s *AppState) Snapshot() UserData {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.data
}

// Update applies mutate to the user data under the write lock and publishes
// the resulting snapshot to all subscribers. Mutations are serialized; mutate
// must not call back into AppState.
//
// Delivery happens under the same lock that guards subscription removal, so a
// send can never race a cancelled subscription's channel close. The sends are
// non-blocking, so holding the lock across them is cheap.
func (s *AppState) Update(mutate func(*UserData)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	mutate(&s.data)
	snapshot := s.data

	for _, ch := range s.subs {
		select {
		case ch <- snapshot:
		default:
			// A slow subscriber misses intermediate snapshots, never blocks a writer.
			s.logger.Debug().Msg("Subscriber channel full; snapshot dropped.")
		}
	}
}

// Subscribe returns a channel of snapshots published on every update. The
// subscription ends when ctx is cancelled.
func (s *AppState) Subscribe(ctx context.Context) <-chan UserData {
	ch := make(chan UserData, 16)

	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch
	s.mu.Unlock()

	go func() {
		<-ctx.Done()
		// Remove and close under the lock so no Update can be mid-send.
		s.mu.Lock()
		delete(s.subs, id)
		close(ch)
		s.mu.Unlock()
	}()

	return ch
}
