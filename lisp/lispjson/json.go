// Package lispjson converts between lisp values and JSON.  Map entries keep
// their insertion order in both directions.
package lispjson

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/bmatsuo/rlisp/lisp"
)

// DefaultSerializer is the Serializer used by exported functions Load and
// Dump.
var DefaultSerializer = &Serializer{}

// Dump serializes the structure of v as a JSON formatted byte slice.
func Dump(v *lisp.LVal) ([]byte, error) {
	return DefaultSerializer.Dump(v)
}

// Load parses b as JSON and returns an equivalent LVal.
func Load(b []byte) *lisp.LVal {
	return DefaultSerializer.Load(b)
}

// Serializer defines JSON serialization rules for lisp values.
type Serializer struct {
	// Null is the value JSON null loads as.  When Null is nil it loads as
	// the empty list.
	Null *lisp.LVal
	// Indent, when non-empty, causes Dump to produce indented output.
	Indent string
}

// Load parses b and returns an LVal representing its structure.  JSON
// numbers without a fraction or exponent load as ints.
func (s *Serializer) Load(b []byte) *lisp.LVal {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	v, err := s.decode(dec)
	if err != nil {
		return lisp.Error(err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return lisp.Errorf("invalid json: data after top-level value")
	}
	return v
}

func (s *Serializer) decode(dec *json.Decoder) (*lisp.LVal, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	switch tok := tok.(type) {
	case nil:
		if s.Null != nil {
			return s.Null, nil
		}
		return lisp.Nil(), nil
	case bool:
		return lisp.Bool(tok), nil
	case string:
		return lisp.String(tok), nil
	case json.Number:
		if x, err := tok.Int64(); err == nil && !strings.ContainsAny(tok.String(), ".eE") {
			return lisp.Int(int(x)), nil
		}
		x, err := tok.Float64()
		if err != nil {
			return nil, fmt.Errorf("invalid json number: %v", tok)
		}
		return lisp.Float(x), nil
	case json.Delim:
		switch tok {
		case '[':
			var b lisp.ListBuilder
			for dec.More() {
				v, err := s.decode(dec)
				if err != nil {
					return nil, err
				}
				b.Append(v)
			}
			_, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("invalid json: %w", err)
			}
			return b.List(), nil
		case '{':
			m := lisp.NewMap(0)
			for dec.More() {
				k, err := dec.Token()
				if err != nil {
					return nil, fmt.Errorf("invalid json: %w", err)
				}
				v, err := s.decode(dec)
				if err != nil {
					return nil, err
				}
				err = m.MapData().Set(lisp.String(k.(string)), v)
				if err != nil {
					return nil, err
				}
			}
			_, err := dec.Token()
			if err != nil {
				return nil, fmt.Errorf("invalid json: %w", err)
			}
			return m, nil
		}
	}
	return nil, fmt.Errorf("unexpected json token: %v", tok)
}

// Dump serializes v as JSON and returns any error.
func (s *Serializer) Dump(v *lisp.LVal) ([]byte, error) {
	x, err := s.GoValue(v)
	if err != nil {
		return nil, err
	}
	if s.Indent != "" {
		return json.MarshalIndent(x, "", s.Indent)
	}
	return json.Marshal(x)
}

// GoValue converts v to a value which encoding/json serializes with the
// structure of v.  The symbols true and false become booleans, other
// symbols become strings and keywords lose their prefix.  Lists and vectors
// become slices.  Host values are passed through to encoding/json.
func (s *Serializer) GoValue(v *lisp.LVal) (interface{}, error) {
	switch v.Type {
	case lisp.LNil:
		return []interface{}{}, nil
	case lisp.LSymbol:
		switch v.Str {
		case lisp.TrueSymbol:
			return true, nil
		case lisp.FalseSymbol:
			return false, nil
		}
		return strings.TrimPrefix(v.Str, lisp.KeywordPrefix), nil
	case lisp.LString:
		return v.Str, nil
	case lisp.LInt:
		return v.Int, nil
	case lisp.LFloat:
		return v.Float, nil
	case lisp.LCons, lisp.LVector:
		cells, ok := lisp.SeqValues(v)
		if !ok {
			return nil, fmt.Errorf("improper list cannot be converted to json")
		}
		xs := make([]interface{}, len(cells))
		for i := range cells {
			x, err := s.GoValue(cells[i])
			if err != nil {
				return nil, err
			}
			xs[i] = x
		}
		return xs, nil
	case lisp.LMap:
		return s.goMap(v.MapData())
	case lisp.LNative:
		return v.Native, nil
	}
	return nil, fmt.Errorf("type cannot be converted to json: %v", v.Type)
}

func (s *Serializer) goMap(m *lisp.MapData) (orderedMap, error) {
	om := make(orderedMap, 0, m.Len())
	var err error
	m.Each(func(k, v *lisp.LVal) bool {
		var key interface{}
		key, err = s.GoValue(k)
		if err != nil {
			return false
		}
		var val interface{}
		val, err = s.GoValue(v)
		if err != nil {
			return false
		}
		om = append(om, orderedEntry{fmt.Sprint(key), val})
		return true
	})
	return om, err
}

type orderedEntry struct {
	key string
	val interface{}
}

// orderedMap is a JSON object which marshals its entries in order.
type orderedMap []orderedEntry

func (m orderedMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(e.key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		v, err := json.Marshal(e.val)
		if err != nil {
			return nil, err
		}
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
