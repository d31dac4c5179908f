package domain

// Built-in display state names. Every node is seeded with "normal", "faded"
// and the six semantic color states; individual nodes may register more via
// Update.DefineStates.
const (
	StateNormal = "normal"
	StateFaded  = "faded"
	StateRed    = "red"
	StateGreen  = "green"
	StateBlue   = "blue"
	StateYellow = "yellow"
	StateOrange = "orange"
	StatePurple = "purple"
)

var stateColors = map[string]string{
	StateRed:    "#e74c3c",
	StateGreen:  "#2ecc71",
	StateBlue:   "#3498db",
	StateYellow: "#f1c40f",
	StateOrange: "#e67e22",
	StatePurple: "#9b59b6",
}

// builtinStates seeds the per-node state table. Lines color their stroke,
// everything else colors its fill.
func builtinStates(kind Kind) map[string]Props {
	colorKey := "fill"
	if kind == KindLine {
		colorKey = "stroke"
	}

	states := map[string]Props{
		StateNormal: {"opacity": 1.0},
		StateFaded:  {"opacity": 0.2},
	}
	for name, color := range stateColors {
		states[name] = Props{colorKey: color, "opacity": 1.0}
	}
	return states
}
