// Package state holds the single source of truth for all mutable
// dashboard state. Writes go through per-key validation and deep
// equality checks; genuine changes notify key-specific and wildcard
// subscribers synchronously and forward filter-relevant changes to the
// event bus.
package state

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/event"
	"github.com/DigitalHumanitiesCraft/vetmed-wissensbilanz/model"
)

// Handler observes changes of one key.
type Handler func(newValue, oldValue interface{})

// Change is delivered to wildcard subscribers.
type Change struct {
	Key      Key
	NewValue interface{}
	OldValue interface{}
}

// WildcardHandler observes every key change.
type WildcardHandler func(change Change)

// Update is one key/value pair of a batch write. Batches preserve the
// order given, so notifications fire in a predictable sequence.
type Update struct {
	Key   Key
	Value interface{}
}

type keySub struct {
	id      uint64
	handler Handler
}

type anySub struct {
	id      uint64
	handler WildcardHandler
}

// Store is the application state container. Construct with NewStore;
// one Store instance serves the whole process.
type Store struct {
	mu         sync.Mutex
	values     map[Key]interface{}
	validators map[Key]Validator
	subs       map[Key][]keySub
	anySubs    []anySub
	nextID     uint64

	bus       *event.Bus
	persister Persister
}

// NewStore creates a store holding the default state. persister may be
// nil, in which case tutorial progress is not persisted. When a
// persister is given, previously viewed learnings are restored;
// tutorial mode itself is not auto-restored, activating it stays a
// deliberate user act.
func NewStore(bus *event.Bus, persister Persister) *Store {
	s := &Store{
		values:     defaultState(),
		validators: defaultValidators(),
		subs:       make(map[Key][]keySub),
		bus:        bus,
		persister:  persister,
	}

	if persister != nil {
		progress, err := persister.Load()
		if err != nil {
			log.Warn().Err(err).Msg("Could not load tutorial progress")
		} else if progress.ViewedLearnings != nil {
			s.values[KeyViewedLearnings] = progress.ViewedLearnings
		}
	}

	return s
}

// Get returns the current value of key, or nil for unknown keys.
func (s *Store) Get(key Key) interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.values[key]
}

// GetString returns the value of key as a string, or "" when the key
// holds no string.
func (s *Store) GetString(key Key) string {
	v, _ := s.Get(key).(string)
	return v
}

// GetBool returns the value of key as a bool, or false when the key
// holds no bool.
func (s *Store) GetBool(key Key) bool {
	v, _ := s.Get(key).(bool)
	return v
}

// GetStrings returns the value of key as a string list, or nil.
func (s *Store) GetStrings(key Key) []string {
	v, _ := s.Get(key).([]string)
	return v
}

// Set writes value to key. A registered validator must accept the
// value or the write is rejected: the prior value stays, no
// notification fires, and Set returns false. On a genuine change
// (deep equality, not identity) subscribers are notified with the new
// and old value, and filter-relevant changes publish a filter-changed
// event carrying the FilterState snapshot.
func (s *Store) Set(key Key, value interface{}) bool {
	changed, old := s.apply(key, value)
	if old == rejected {
		return false
	}
	if changed {
		s.notify(key, value, old)
		s.afterChange([]Key{key})
	}
	return true
}

// rejected marks a validation failure in apply's old-value return.
var rejected = &struct{ name string }{"rejected"}

// apply validates and writes without notifying. It returns whether the
// value actually changed and the previous value (or the rejected
// sentinel on validation failure).
func (s *Store) apply(key Key, value interface{}) (bool, interface{}) {
	if v, ok := s.validators[key]; ok {
		if err := v(value); err != nil {
			log.Warn().
				Str("key", string(key)).
				Err(err).
				Msg("State write rejected")
			return false, rejected
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.values[key]
	if reflect.DeepEqual(old, value) {
		return false, old
	}
	s.values[key] = value
	return true, old
}

// Batch applies several writes, then fires one notification per
// changed key in the order given and, if any changed key was
// filter-relevant, exactly one filter-changed event. Invalid entries
// are rejected individually without affecting the rest of the batch.
func (s *Store) Batch(updates []Update) {
	type pending struct {
		key      Key
		newValue interface{}
		oldValue interface{}
	}
	var changed []pending

	for _, u := range updates {
		did, old := s.apply(u.Key, u.Value)
		if did {
			changed = append(changed, pending{u.Key, u.Value, old})
		}
	}

	keys := make([]Key, 0, len(changed))
	for _, c := range changed {
		s.notify(c.key, c.newValue, c.oldValue)
		keys = append(keys, c.key)
	}
	s.afterChange(keys)
}

// afterChange publishes the derived bus events for a set of changed
// keys: at most one filter-changed, plus UI topic forwards so the
// router and renderers need no store subscription of their own.
func (s *Store) afterChange(keys []Key) {
	if s.bus == nil {
		return
	}

	filterChanged := false
	for _, key := range keys {
		if isFilterRelevant(key) {
			filterChanged = true
		}
		switch key {
		case KeyActivePage:
			s.bus.Publish(event.TopicPageChange, s.Get(key))
		case KeyActiveTab:
			s.bus.Publish(event.TopicTabChange, s.Get(key))
		case KeyVizType, KeySecondaryKennzahl, KeyDualMode, KeyCombinationType:
			s.bus.Publish(event.TopicVizChange, s.Get(KeyVizType))
		case KeyTutorialMode:
			s.bus.Publish(event.TopicTutorialToggle, s.Get(key))
		case KeySidebarOpen:
			s.bus.Publish(event.TopicSidebarToggle, s.Get(key))
		}
		if key == KeyViewedLearnings || key == KeyTutorialMode {
			s.saveTutorialProgress()
		}
	}
	if filterChanged {
		s.bus.Publish(event.TopicFilterChange, s.FilterState())
	}
}

// isFilterRelevant reports whether a change to key alters the filtered
// data scope.
func isFilterRelevant(key Key) bool {
	return strings.HasPrefix(string(key), "selected") || key == KeyYearRange
}

func (s *Store) notify(key Key, newValue, oldValue interface{}) {
	s.mu.Lock()
	subs := make([]keySub, len(s.subs[key]))
	copy(subs, s.subs[key])
	wild := make([]anySub, len(s.anySubs))
	copy(wild, s.anySubs)
	s.mu.Unlock()

	for _, sub := range subs {
		invokeHandler(key, func() { sub.handler(newValue, oldValue) })
	}
	for _, sub := range wild {
		invokeHandler(key, func() { sub.handler(Change{Key: key, NewValue: newValue, OldValue: oldValue}) })
	}
}

func invokeHandler(key Key, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Str("key", string(key)).
				Str("panic", fmt.Sprint(r)).
				Msg("State subscriber failed")
		}
	}()
	fn()
}

// Subscribe registers a handler for changes of one key and returns the
// unsubscribe function.
func (s *Store) Subscribe(key Key, handler Handler) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.subs[key] = append(s.subs[key], keySub{id: id, handler: handler})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		subs := s.subs[key]
		for i, sub := range subs {
			if sub.id == id {
				s.subs[key] = append(subs[:i:i], subs[i+1:]...)
				break
			}
		}
	}
}

// SubscribeAll registers a wildcard handler observing every change.
func (s *Store) SubscribeAll(handler WildcardHandler) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.anySubs = append(s.anySubs, anySub{id: id, handler: handler})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.anySubs {
			if sub.id == id {
				s.anySubs = append(s.anySubs[:i:i], s.anySubs[i+1:]...)
				break
			}
		}
	}
}

// FilterState projects the filter-relevant keys into a FilterState
// snapshot. Slices are copied so callers cannot mutate store state.
func (s *Store) FilterState() model.FilterState {
	s.mu.Lock()
	defer s.mu.Unlock()

	unis, _ := s.values[KeySelectedUniversities].([]string)
	types, _ := s.values[KeySelectedUniTypes].([]string)
	yr, _ := s.values[KeyYearRange].(model.YearRange)
	kennzahl, _ := s.values[KeySelectedKennzahl].(string)

	return model.FilterState{
		Universities: append([]string(nil), unis...),
		UniTypes:     append([]string(nil), types...),
		YearRange:    yr,
		Kennzahl:     kennzahl,
	}
}

// ResetFilters restores the default filter subset atomically and emits
// a dedicated filter-reset event so listeners can tell an explicit
// reset apart from a normal change.
func (s *Store) ResetFilters() {
	s.Batch([]Update{
		{KeySelectedUniversities, append([]string(nil), DefaultUniversities...)},
		{KeySelectedUniTypes, []string{}},
		{KeyYearRange, DefaultYearRange},
		{KeySelectedKennzahl, DefaultKennzahl},
	})
	if s.bus != nil {
		s.bus.Publish(event.TopicFilterReset, nil)
	}
}

// MarkLearningViewed records a tutorial learning as seen and persists
// the progress.
func (s *Store) MarkLearningViewed(learningID string) {
	viewed := s.GetStrings(KeyViewedLearnings)
	for _, id := range viewed {
		if id == learningID {
			return
		}
	}
	s.Set(KeyViewedLearnings, append(append([]string(nil), viewed...), learningID))
}

func (s *Store) saveTutorialProgress() {
	if s.persister == nil {
		return
	}
	progress := TutorialProgress{
		ViewedLearnings: s.GetStrings(KeyViewedLearnings),
		TutorialMode:    s.GetBool(KeyTutorialMode),
	}
	if err := s.persister.Save(progress); err != nil {
		log.Warn().Err(err).Msg("Could not save tutorial progress")
	}
}
