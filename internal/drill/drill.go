package drill

// ID identifies a drill type.
type ID string

const (
	Reflex         ID = "reflex"
	KeyboardReflex ID = "keyboard-reflex"
	Awareness      ID = "awareness"
	Impulse        ID = "impulse"
	Focus          ID = "focus"
)

// Config describes how a drill is presented. The core never reads these
// fields; they exist for the presentation layer.
type Config struct {
	ID               ID
	Name             string
	Description      string
	DailyRecommended int
	Color            string // theme color token
}

var registry = []Config{
	{ID: Reflex, Name: "Reflex", Description: "Hit the target the moment it appears", DailyRecommended: 3, Color: "primary"},
	{ID: KeyboardReflex, Name: "Keyboard Reflex", Description: "Press SPACE as fast as you can", DailyRecommended: 3, Color: "chart-2"},
	{ID: Awareness, Name: "Awareness", Description: "Peripheral vision training", DailyRecommended: 3, Color: "chart-3"},
	{ID: Impulse, Name: "Impulse Control", Description: "Discipline and resistance", DailyRecommended: 3, Color: "destructive"},
	{ID: Focus, Name: "Focus", Description: "Sustained attention", DailyRecommended: 2, Color: "chart-1"},
}

// All returns every registered drill in display order.
func All() []Config {
	out := make([]Config, len(registry))
	copy(out, registry)
	return out
}

// IDs returns the identifiers of all registered drills in display order.
func IDs() []ID {
	ids := make([]ID, len(registry))
	for i, c := range registry {
		ids[i] = c.ID
	}
	return ids
}

// Lookup returns the configuration for id.
func Lookup(id ID) (Config, bool) {
	for _, c := range registry {
		if c.ID == id {
			return c, true
		}
	}
	return Config{}, false
}

// Valid reports whether id names a registered drill.
func (id ID) Valid() bool {
	_, ok := Lookup(id)
	return ok
}

// Name returns the human label, falling back to the raw identifier.
func (id ID) Name() string {
	if c, ok := Lookup(id); ok {
		return c.Name
	}
	return string(id)
}
