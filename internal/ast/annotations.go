package ast

import (
	"fmt"
	"regexp"
	"strings"
)

// Slider describes an interactive range control: a lower and an upper
// bound, each given as a symbol name and a literal bound.
type Slider struct {
	LowerSymbol string `json:"lower_symbol"`
	LowerBound  string `json:"lower_bound"`
	UpperSymbol string `json:"upper_symbol"`
	UpperBound  string `json:"upper_bound"`
}

// Annotations holds the metadata attached to a node.
type Annotations struct {
	// Reading is the human-readable rendering of the node.
	Reading string            `json:"reading,omitempty"`
	Values  map[string]string `json:"values,omitempty"`
	Sliders map[string]Slider `json:"sliders,omitempty"`
	// Explicit is set when the annotations came from source text.
	Explicit bool `json:"-"`
}

// Clone returns a deep copy of a.
func (a Annotations) Clone() Annotations {
	out := a
	if a.Values != nil {
		out.Values = make(map[string]string, len(a.Values))
		for k, v := range a.Values {
			out.Values[k] = v
		}
	}
	if a.Sliders != nil {
		out.Sliders = make(map[string]Slider, len(a.Sliders))
		for k, v := range a.Sliders {
			out.Sliders[k] = v
		}
	}
	return out
}

var sliderPattern = regexp.MustCompile(`\(((.*?), (.*?))\)`)

// ParseAnnotations interprets raw "key: value" entries. An entry without a
// colon is the reading of the node. Values matching the slider syntax
// "(sym, bound), (sym, bound)" are recorded as sliders.
func ParseAnnotations(n Node, raw []string) (Annotations, error) {
	ann := Annotations{Explicit: len(raw) > 0}
	for _, entry := range raw {
		key, value, ok := strings.Cut(entry, ":")
		if !ok {
			ann.Reading = strings.TrimSpace(entry)
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		if _, dup := ann.Values[key]; dup {
			return ann, Errorf(n, "Duplicate annotation: [%s: %s]", key, value)
		}
		if _, dup := ann.Sliders[key]; dup {
			return ann, Errorf(n, "Duplicate annotation: [%s: %s]", key, value)
		}
		if s, ok := parseSlider(value); ok {
			if ann.Sliders == nil {
				ann.Sliders = map[string]Slider{}
			}
			ann.Sliders[key] = s
			continue
		}
		if ann.Values == nil {
			ann.Values = map[string]string{}
		}
		ann.Values[key] = value
	}
	return ann, nil
}

func parseSlider(value string) (Slider, bool) {
	m := sliderPattern.FindAllStringSubmatch(value, -1)
	if len(m) < 2 {
		return Slider{}, false
	}
	return Slider{
		LowerSymbol: m[0][2],
		LowerBound:  m[0][3],
		UpperSymbol: m[1][2],
		UpperBound:  m[1][3],
	}, true
}

func (a Annotations) String() string {
	var parts []string
	if a.Reading != "" {
		parts = append(parts, a.Reading)
	}
	for _, k := range sortedKeys(a.Values) {
		parts = append(parts, fmt.Sprintf("%s: %s", k, a.Values[k]))
	}
	for _, k := range sortedKeys(a.Sliders) {
		s := a.Sliders[k]
		parts = append(parts, fmt.Sprintf("%s: (%s, %s), (%s, %s)", k, s.LowerSymbol, s.LowerBound, s.UpperSymbol, s.UpperBound))
	}
	return strings.Join(parts, "; ")
}
