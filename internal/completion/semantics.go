package completion

import "fmt"

// Semantics selects how inductive definitions are completed.
type Semantics int

const (
	WellFounded Semantics = iota
	KripkeKleene
	Coinduction
	// Completion treats every definition as non-inductive.
	Completion
)

var semanticsNames = map[Semantics]string{
	WellFounded:  "wellfounded",
	KripkeKleene: "kripkekleene",
	Coinduction:  "coinduction",
	Completion:   "completion",
}

func (s Semantics) String() string {
	if name, ok := semanticsNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Semantics(%d)", int(s))
}

// ParseSemantics maps a configuration name to a Semantics.
func ParseSemantics(name string) (Semantics, error) {
	for s, n := range semanticsNames {
		if n == name {
			return s, nil
		}
	}
	return WellFounded, fmt.Errorf("unknown semantics %q (expected wellfounded, kripkekleene, coinduction or completion)", name)
}

// LevelOperator returns the comparison between the level of the head and
// the level of a recursive atom. posJustification is set on the side
// deriving the body from the head; polarity is false under an odd number
// of negations.
func (s Semantics) LevelOperator(posJustification, polarity bool) string {
	switch s {
	case WellFounded:
		switch {
		case polarity && posJustification:
			return ">"
		case polarity:
			return "≥"
		case posJustification:
			return "≤"
		default:
			return "<"
		}
	case KripkeKleene:
		if polarity {
			return ">"
		}
		return "≤"
	case Coinduction:
		switch {
		case polarity && posJustification:
			return "≥"
		case polarity:
			return ">"
		case posJustification:
			return "<"
		default:
			return "≤"
		}
	}
	return ""
}
