package sections

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// General is the section that collects text seen before any recognised header.
const General = "general"

// Map is an insertion-ordered mapping of section name to accumulated text.
// It always holds General. Reading an absent section yields "".
type Map struct {
	names []string
	texts map[string]string
}

// NewMap returns a map holding only an empty General section.
func NewMap() *Map {
	return &Map{
		names: []string{General},
		texts: map[string]string{General: ""},
	}
}

// FromPairs builds a map from alternating name/text arguments, mostly for tests
// and callers holding already segmented documents.
func FromPairs(pairs ...string) *Map {
	if len(pairs)%2 != 0 {
		panic("sections: FromPairs needs an even number of arguments")
	}
	m := NewMap()
	for i := 0; i < len(pairs); i += 2 {
		m.Set(pairs[i], pairs[i+1])
	}
	return m
}

func (m *Map) Get(name string) string {
	if m == nil {
		return ""
	}
	return m.texts[name]
}

func (m *Map) Has(name string) bool {
	if m == nil {
		return false
	}
	_, ok := m.texts[name]
	return ok
}

// Ensure inserts name with empty text unless it is already present.
func (m *Map) Ensure(name string) {
	if _, ok := m.texts[name]; ok {
		return
	}
	m.names = append(m.names, name)
	m.texts[name] = ""
}

// Set replaces the text of name, inserting it at the end when new.
func (m *Map) Set(name, text string) {
	m.Ensure(name)
	m.texts[name] = text
}

// Append adds text to the end of name's accumulated text.
func (m *Map) Append(name, text string) {
	m.Ensure(name)
	m.texts[name] += text
}

// Names returns section names in order of first appearance.
func (m *Map) Names() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.names))
	copy(out, m.names)
	return out
}

func (m *Map) Len() int {
	if m == nil {
		return 0
	}
	return len(m.names)
}

// String renders the map as "name: text" blocks, one per section.
func (m *Map) String() string {
	var b strings.Builder
	for _, name := range m.Names() {
		fmt.Fprintf(&b, "[%s]\n%s\n", name, m.texts[name])
	}
	return b.String()
}

func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.Names() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(m.texts[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object of string values keeping key order.
// General is added in front when the object does not carry it.
func (m *Map) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("sections: expected JSON object, got %v", tok)
	}

	decoded := &Map{texts: map[string]string{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, _ := tok.(string)

		var text string
		if err := dec.Decode(&text); err != nil {
			return fmt.Errorf("sections: section %q: %w", name, err)
		}
		decoded.Set(name, text)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	if !decoded.Has(General) {
		decoded.names = append([]string{General}, decoded.names...)
		decoded.texts[General] = ""
	}

	*m = *decoded
	return nil
}
