package model

import (
	"bytes"
	"strconv"
)

// Macro is a nutrient quantity as reported by the LLM collaborator. The
// collaborator is untrusted for shape: a value may arrive as a JSON number,
// a numeric string, null, or garbage. Anything that cannot be read as a
// number decodes to 0 instead of failing the whole document.
type Macro float64

// Float64 returns the value as a plain float64
func (m Macro) Float64() float64 { return float64(m) }

// UnmarshalJSON implements lenient decoding, see type doc
func (m *Macro) UnmarshalJSON(data []byte) error {
	s := string(bytes.TrimSpace(data))
	if s == "" || s == "null" {
		*m = 0
		return nil
	}

	// Quoted numeric strings like "250" or "12.5"
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			*m = 0
			return nil
		}
		s = unquoted
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*m = 0
		return nil
	}

	*m = Macro(v)
	return nil
}
