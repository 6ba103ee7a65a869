package domain

import "fmt"

const (
	// DefaultWindowDays is the display window used when none is chosen.
	DefaultWindowDays = 30

	// MaxWindowDays is the largest selectable display window.
	MaxWindowDays = 365
)

// Selection is the user's view choice: which entities, how many trailing
// days to display, and whether to use the light chart theme.
type Selection struct {
	Entities   []string `json:"entities"`
	WindowDays int      `json:"window_days"`
	LightTheme bool     `json:"light_theme"`
}

// Resolve validates s and returns a normalized copy. Duplicate entities are
// dropped, and an empty selection resolves to the All Berlin aggregate.
func (s Selection) Resolve() (Selection, error) {
	if s.WindowDays < 0 || s.WindowDays > MaxWindowDays {
		return Selection{}, fmt.Errorf("%w: %d days (want 0-%d)", ErrInvalidWindow, s.WindowDays, MaxWindowDays)
	}

	seen := make(map[string]bool, len(s.Entities))
	entities := make([]string, 0, len(s.Entities))
	for _, name := range s.Entities {
		if seen[name] {
			continue
		}
		if _, ok := Population(name); !ok {
			return Selection{}, &UnknownEntityError{Name: name}
		}
		seen[name] = true
		entities = append(entities, name)
	}
	if len(entities) == 0 {
		entities = append(entities, AllBerlin)
	}

	return Selection{
		Entities:   entities,
		WindowDays: s.WindowDays,
		LightTheme: s.LightTheme,
	}, nil
}
