package safety

import (
	"bytes"
	"encoding/json"
	"sort"
)

// SeverityLevel maps one food-name term to a severity class tag.
type SeverityLevel struct {
	Term  string
	Class string
}

// SeverityLevels is an ordered term->class mapping. It encodes as a JSON
// object and keeps the object's key order on decode, so the first matching
// term in declaration order is well defined.
type SeverityLevels []SeverityLevel

// SeverityLevelsFromMap builds SeverityLevels from an unordered map, sorting
// terms so the result is deterministic.
func SeverityLevelsFromMap(m map[string]string) SeverityLevels {
	if m == nil {
		return nil
	}
	terms := make([]string, 0, len(m))
	for term := range m {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	levels := make(SeverityLevels, 0, len(terms))
	for _, term := range terms {
		levels = append(levels, SeverityLevel{Term: term, Class: m[term]})
	}
	return levels
}

// Lookup returns the class for term, if present.
func (l SeverityLevels) Lookup(term string) (string, bool) {
	for _, lvl := range l {
		if lvl.Term == term {
			return lvl.Class, true
		}
	}
	return "", false
}

// Map flattens the levels. Later duplicates win.
func (l SeverityLevels) Map() map[string]string {
	m := make(map[string]string, len(l))
	for _, lvl := range l {
		m[lvl.Term] = lvl.Class
	}
	return m
}

func (l SeverityLevels) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("{}"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, lvl := range l {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(lvl.Term)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(lvl.Class)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts an object of string values. null or any non-object
// decodes to nil and non-string values are skipped rather than rejected.
func (l *SeverityLevels) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*l = nil
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		*l = nil
		return nil
	}

	levels := SeverityLevels{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)

		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		var class string
		if err := json.Unmarshal(raw, &class); err != nil {
			continue
		}
		levels = append(levels, SeverityLevel{Term: key, Class: class})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*l = levels
	return nil
}
