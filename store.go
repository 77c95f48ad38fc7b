package slidecast

import (
	"reflect"
	"sync"
)

// State is one immutable snapshot of the working deck. Mutation happens
// only by replacing the whole snapshot through Store.Update; observers
// therefore never see a half-applied edit.
type State struct {
	Deck        []Slide
	Orientation Orientation
	Theme       Theme
	Layout      string
	SourceName  string
}

// clone deep-copies the snapshot so callers can hold it safely.
func (s State) clone() State {
	s.Deck = CloneDeck(s.Deck)
	return s
}

// Observer receives the new snapshot plus the names of the top-level
// fields that changed ("deck", "orientation", "theme", "layout",
// "sourceName").
type Observer func(s State, changed []string)

// Store holds the current State and fans out changes to subscribers.
type Store struct {
	mu     sync.Mutex
	state  State
	subs   map[int]Observer
	nextID int
}

// NewStore seeds a store with a normalized copy of the initial state.
func NewStore(initial State) *Store {
	initial.Orientation = NormalizeOrientation(initial.Orientation)
	initial.Theme = NormalizeTheme(initial.Theme)
	return &Store{state: initial.clone(), subs: make(map[int]Observer)}
}

// State returns a deep copy of the current snapshot.
func (st *Store) State() State {
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.state.clone()
}

// Update applies mutate to a copy of the current snapshot and installs
// the result. Observers are notified outside the lock with the list of
// changed fields; a mutate that changes nothing notifies nobody.
func (st *Store) Update(mutate func(State) State) {
	st.mu.Lock()
	old := st.state
	next := mutate(old.clone())
	next.Orientation = NormalizeOrientation(next.Orientation)
	next.Theme = NormalizeTheme(next.Theme)
	next = next.clone()

	changed := diffState(old, next)
	if len(changed) == 0 {
		st.mu.Unlock()
		return
	}
	st.state = next

	observers := make([]Observer, 0, len(st.subs))
	for _, fn := range st.subs {
		observers = append(observers, fn)
	}
	snapshot := next.clone()
	st.mu.Unlock()

	for _, fn := range observers {
		fn(snapshot, changed)
	}
}

// Subscribe registers an observer and returns its unsubscribe func.
func (st *Store) Subscribe(fn Observer) func() {
	st.mu.Lock()
	id := st.nextID
	st.nextID++
	st.subs[id] = fn
	st.mu.Unlock()
	return func() {
		st.mu.Lock()
		delete(st.subs, id)
		st.mu.Unlock()
	}
}

func diffState(old, next State) []string {
	var changed []string
	if !reflect.DeepEqual(old.Deck, next.Deck) {
		changed = append(changed, "deck")
	}
	if old.Orientation != next.Orientation {
		changed = append(changed, "orientation")
	}
	if old.Theme != next.Theme {
		changed = append(changed, "theme")
	}
	if old.Layout != next.Layout {
		changed = append(changed, "layout")
	}
	if old.SourceName != next.SourceName {
		changed = append(changed, "sourceName")
	}
	return changed
}

// ReplaceDeck swaps the whole deck in one update, normalizing as it
// goes. Convenience wrapper over Update.
func (st *Store) ReplaceDeck(deck []Slide) {
	st.Update(func(s State) State {
		s.Deck = NormalizeDeck(deck)
		return s
	})
}

// UpdateSlide replaces the slide with the given ID, leaving the deck
// untouched when the ID is unknown.
func (st *Store) UpdateSlide(id string, mutate func(Slide) Slide) {
	st.Update(func(s State) State {
		for i, slide := range s.Deck {
			if slide.ID == id {
				updated := Normalize(mutate(CloneSlide(slide)))
				updated.ID = id
				s.Deck[i] = updated
				break
			}
		}
		return s
	})
}
