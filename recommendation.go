package pusula

import (
	"fmt"
	"strconv"
	"strings"
)

// Recommendation is a typed view over a result object. The object may be
// an intermediate one, so every field is optional: keys that are missing
// or carry an unexpected type are left empty.
type Recommendation struct {
	PrimaryCrop   string
	Alternatives  []string
	Confidence    *float64 // 0-100; nil when absent or unparseable
	Reasons       []string
	Risks         []string
	QuickActions  []string
	MissingInputs []string
	Assumptions   []string
}

// RecommendationFrom extracts a Recommendation from a result object.
func RecommendationFrom(o Object) Recommendation {
	return Recommendation{
		PrimaryCrop:   o.str("primary_crop"),
		Alternatives:  stringList(o["alternatives"]),
		Confidence:    number(o["confidence"]),
		Reasons:       stringList(o["reasons"]),
		Risks:         stringList(o["risks"]),
		QuickActions:  stringList(o["quick_actions"]),
		MissingInputs: stringList(o["missing_inputs"]),
		Assumptions:   stringList(o["assumptions"]),
	}
}

// Empty reports whether no field has been filled in yet.
func (r Recommendation) Empty() bool {
	return r.PrimaryCrop == "" && r.Confidence == nil &&
		len(r.Alternatives) == 0 && len(r.Reasons) == 0 && len(r.Risks) == 0 &&
		len(r.QuickActions) == 0 && len(r.MissingInputs) == 0 && len(r.Assumptions) == 0
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		switch x := it.(type) {
		case nil:
		case string:
			if x != "" {
				out = append(out, x)
			}
		default:
			out = append(out, fmt.Sprint(x))
		}
	}
	return out
}

func number(v any) *float64 {
	switch x := v.(type) {
	case float64:
		return &x
	case string:
		f, err := strconv.ParseFloat(strings.TrimSuffix(strings.TrimSpace(x), "%"), 64)
		if err != nil {
			return nil
		}
		return &f
	default:
		return nil
	}
}
