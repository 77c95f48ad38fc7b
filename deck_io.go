package slidecast

import (
	"encoding/json"
	"os"
	"time"
)

// deckFile is the on-disk deck format: the slide schema plus enough
// session context to reopen a project where it was left.
type deckFile struct {
	Version     string      `json:"version"`
	SavedAt     time.Time   `json:"savedAt"`
	SourceName  string      `json:"sourceName,omitempty"`
	Orientation Orientation `json:"orientation"`
	Theme       Theme       `json:"theme"`
	Slides      []Slide     `json:"slides"`
}

// SaveDeck writes the state's deck as indented JSON.
func SaveDeck(path string, state State) error {
	payload := deckFile{
		Version:     Version,
		SavedAt:     time.Now().UTC(),
		SourceName:  state.SourceName,
		Orientation: state.Orientation,
		Theme:       state.Theme,
		Slides:      NormalizeDeck(state.Deck),
	}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return IOError("marshal deck", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return IOError("write deck", err)
	}
	return nil
}

// LoadDeck reads a saved deck, normalizing every slide so files edited
// by hand still come back canonical.
func LoadDeck(path string) (State, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return State{}, IOError("read deck", err)
	}
	var payload deckFile
	if err := json.Unmarshal(data, &payload); err != nil {
		return State{}, IOError("parse deck", err)
	}
	return State{
		Deck:        NormalizeDeck(payload.Slides),
		Orientation: NormalizeOrientation(payload.Orientation),
		Theme:       NormalizeTheme(payload.Theme),
		SourceName:  payload.SourceName,
	}, nil
}
