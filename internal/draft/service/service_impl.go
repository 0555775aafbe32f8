// Package service is the draft state manager: the single writer of
// InvoiceState. Every dispatch is one indivisible merge-and-recompute
// step followed by a best-effort persistence flush and synchronous
// subscriber notification.
package service

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/invoiceforge/invoiceforge/internal/clock"
	"github.com/invoiceforge/invoiceforge/internal/draft/domain"
	"github.com/invoiceforge/invoiceforge/internal/draft/reducer"
	"github.com/invoiceforge/invoiceforge/internal/draft/store"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Listener receives every committed state.
type Listener func(domain.InvoiceState)

type Params struct {
	fx.In

	Log   *zap.Logger
	Store *store.Store
	GenID *snowflake.Node
	Clock clock.Clock
}

// Service owns the invoice state. All mutations go through Dispatch.
type Service struct {
	log     *zap.Logger
	store   *store.Store
	reducer *reducer.Reducer
	gen     domain.IDGenerator
	clock   clock.Clock

	mu           sync.Mutex
	state        domain.InvoiceState
	listeners    map[int]Listener
	nextListener int
}

// PrefixedGenerator derives prefixed string ids ("item_...", "cust_...")
// from a snowflake node.
func PrefixedGenerator(node *snowflake.Node) domain.IDGenerator {
	return func(prefix string) string {
		return prefix + "_" + node.Generate().String()
	}
}

func New(p Params) *Service {
	gen := PrefixedGenerator(p.GenID)
	return &Service{
		log:     p.Log.Named("draft.service"),
		store:   p.Store,
		reducer: reducer.New(gen),
		gen:     gen,
		clock:   p.Clock,
		state: domain.InvoiceState{
			Draft:       domain.DefaultInvoice(p.Clock.Now().UTC(), gen),
			Preferences: domain.DefaultPreferences(),
			IsLoading:   true,
		},
		listeners: make(map[int]Listener),
	}
}

// State returns a snapshot of the current state.
func (s *Service) State() domain.InvoiceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Service) snapshotLocked() domain.InvoiceState {
	snap := s.state
	snap.Draft = snap.Draft.Clone()
	snap.Preferences = snap.Preferences.Clone()
	return snap
}

// Dispatch applies the action, persists the committed state, notifies
// subscribers, and returns the committed state. Nil actions (unknown
// transport kinds) are no-ops.
func (s *Service) Dispatch(action domain.Action) domain.InvoiceState {
	if action == nil {
		return s.State()
	}

	s.mu.Lock()
	next := s.reducer.Apply(s.state, action)
	s.state = next
	committed := s.snapshotLocked()
	listeners := make([]Listener, 0, len(s.listeners))
	for _, fn := range s.listeners {
		listeners = append(listeners, fn)
	}
	s.mu.Unlock()

	s.persist(committed)
	for _, fn := range listeners {
		fn(committed)
	}
	return committed
}

// Subscribe registers a listener for committed states. The returned
// function cancels the registration.
func (s *Service) Subscribe(fn Listener) func() {
	s.mu.Lock()
	id := s.nextListener
	s.nextListener++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Load reads the persisted draft and preferences, merges them over
// fresh defaults, and commits the result. Missing or corrupt records
// fall back to defaults; this is the only transition that clears
// IsLoading.
func (s *Service) Load(ctx context.Context) {
	draft := domain.DefaultInvoice(s.clock.Now().UTC(), s.gen)
	if raw, ok, err := s.store.Get(ctx, store.DraftKey); err != nil {
		s.log.Warn("read stored draft", zap.Error(err))
	} else if ok {
		// Unmarshal over the prefilled default so fields missing from
		// older stored layouts keep their defaults.
		if err := json.Unmarshal(raw, &draft); err != nil {
			s.log.Warn("stored draft unparsable, using defaults", zap.Error(err))
			draft = domain.DefaultInvoice(s.clock.Now().UTC(), s.gen)
		}
	}
	if draft.Items == nil {
		draft.Items = []domain.LineItem{}
	}

	prefs := domain.DefaultPreferences()
	if raw, ok, err := s.store.Get(ctx, store.PreferencesKey); err != nil {
		s.log.Warn("read stored preferences", zap.Error(err))
	} else if ok {
		if err := json.Unmarshal(raw, &prefs); err != nil {
			s.log.Warn("stored preferences unparsable, using defaults", zap.Error(err))
			prefs = domain.DefaultPreferences()
		}
	}
	if prefs.SavedCustomers == nil {
		prefs.SavedCustomers = []domain.CustomerInfo{}
	}
	if prefs.LastCurrency == "" {
		prefs.LastCurrency = domain.CurrencyUSD
	}

	s.Dispatch(domain.Load{State: domain.InvoiceState{
		Draft:       draft,
		Preferences: prefs,
	}})
}

// SaveDraft flushes the current draft explicitly, outside the regular
// after-dispatch flush.
func (s *Service) SaveDraft() {
	st := s.State()
	s.persistDraft(st.Draft)
}

// ResetDraft replaces the draft with a fresh default document while
// keeping preferences.
func (s *Service) ResetDraft() domain.InvoiceState {
	st := s.State()
	return s.Dispatch(domain.Load{State: domain.InvoiceState{
		Draft:       domain.DefaultInvoice(s.clock.Now().UTC(), s.gen),
		Preferences: st.Preferences,
	}})
}

// ApplyCustomer copies a saved customer into the draft. Unknown ids
// are no-ops.
func (s *Service) ApplyCustomer(id string) domain.InvoiceState {
	st := s.State()
	for _, c := range st.Preferences.SavedCustomers {
		if c.ID == id {
			return s.Dispatch(domain.SetCustomer{Patch: domain.CustomerPatchOf(c)})
		}
	}
	return st
}

// persist flushes draft and preferences. Failures are logged and
// swallowed: the in-memory state stays authoritative.
func (s *Service) persist(st domain.InvoiceState) {
	s.persistDraft(st.Draft)

	raw, err := json.Marshal(st.Preferences)
	if err != nil {
		s.log.Warn("encode preferences", zap.Error(err))
		return
	}
	if err := s.store.Put(context.Background(), store.PreferencesKey, raw); err != nil {
		s.log.Warn("persist preferences", zap.Error(err))
	}
}

func (s *Service) persistDraft(draft domain.Invoice) {
	raw, err := json.Marshal(draft)
	if err != nil {
		s.log.Warn("encode draft", zap.Error(err))
		return
	}
	if err := s.store.Put(context.Background(), store.DraftKey, raw); err != nil {
		s.log.Warn("persist draft", zap.Error(err))
	}
}
