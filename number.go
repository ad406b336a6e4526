package pusula

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Number is an optional numeric form value. Web forms send numbers either
// as JSON numbers or as the text the user typed, so Number also accepts a
// string holding a decimal with a dot or a comma separator. null and a
// blank string leave it unset.
type Number struct {
	Value float64
	Valid bool // Valid is true when Value was given
}

// NumberOf returns a set Number holding v.
func NumberOf(v float64) Number {
	return Number{Value: v, Valid: true}
}

// MarshalJSON implements json.Marshaler. An unset Number marshals as null.
func (n Number) MarshalJSON() ([]byte, error) {
	if !n.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(n.Value)
}

// UnmarshalJSON implements json.Unmarshaler.
func (n *Number) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*n = Number{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		return n.parse(s)
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("not a number: %s", data)
	}
	*n = NumberOf(v)
	return nil
}

func (n *Number) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		*n = Number{}
		return nil
	}
	v, err := strconv.ParseFloat(strings.Replace(s, ",", ".", 1), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("not a number: %q", s)
	}
	*n = NumberOf(v)
	return nil
}

// String returns the value in its shortest form, or "" when unset.
func (n Number) String() string {
	if !n.Valid {
		return ""
	}
	return strconv.FormatFloat(n.Value, 'f', -1, 64)
}
