/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package storagemodels

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// Section is an ordered key/value node of a persisted document.
// Values are scalars (string, bool, integers, floats), lists ([]any) or nested sections.
// The zero value is not usable; create sections with NewSection.
type Section struct {
	keys   []string
	values map[string]any
}

// NewSection creates an empty section.
func NewSection() *Section {
	return &Section{values: make(map[string]any)}
}

// FromMap builds a section tree from plain nested maps, as produced by JSON or
// DynamoDB decoders. Keys are ordered with SortKeys since maps carry no order.
func FromMap(m map[string]any) *Section {
	s := NewSection()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	SortKeys(keys)
	for _, k := range keys {
		s.Set(k, m[k])
	}
	return s
}

// SortKeys orders keys in place. Keys that are non-negative integers sort
// numerically ahead of all other keys, which sort lexically, so ordinal
// sections ("0", "1", ..., "10") keep their positional order.
func SortKeys(keys []string) {
	slices.SortFunc(keys, func(a, b string) int {
		ai, aErr := strconv.Atoi(a)
		bi, bErr := strconv.Atoi(b)
		aOrd := aErr == nil && ai >= 0
		bOrd := bErr == nil && bi >= 0
		switch {
		case aOrd && bOrd:
			if ai != bi {
				return ai - bi
			}
			return strings.Compare(a, b)
		case aOrd:
			return -1
		case bOrd:
			return 1
		default:
			return strings.Compare(a, b)
		}
	})
}

// Keys returns the section's keys in insertion order.
func (s *Section) Keys() []string {
	return slices.Clone(s.keys)
}

// Len returns the number of keys.
func (s *Section) Len() int {
	return len(s.keys)
}

// Contains reports whether key holds a value.
func (s *Section) Contains(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Get returns the raw value stored under key.
func (s *Section) Get(key string) (any, bool) {
	v, ok := s.values[key]
	return v, ok
}

// Set stores v under key, keeping the key's original position when it already exists.
// A nil value removes the key. Plain maps are converted to nested sections.
func (s *Section) Set(key string, v any) {
	if v == nil {
		s.Remove(key)
		return
	}
	if m, ok := v.(map[string]any); ok {
		v = FromMap(m)
	}
	if _, exists := s.values[key]; !exists {
		s.keys = append(s.keys, key)
	}
	s.values[key] = v
}

// Remove deletes key if present.
func (s *Section) Remove(key string) {
	if _, exists := s.values[key]; !exists {
		return
	}
	delete(s.values, key)
	s.keys = slices.DeleteFunc(s.keys, func(k string) bool { return k == key })
}

// Section returns the nested section under key, or nil when the key is absent
// or holds a scalar.
func (s *Section) Section(key string) *Section {
	child, _ := s.values[key].(*Section)
	return child
}

// CreateSection replaces whatever is stored under key with a new empty section.
func (s *Section) CreateSection(key string) *Section {
	child := NewSection()
	s.Set(key, child)
	return child
}

// String returns the string stored under key.
func (s *Section) String(key string) (string, bool) {
	v, ok := s.values[key].(string)
	return v, ok
}

// Int returns the integer stored under key. Floating point values are accepted
// when they hold a whole number, since JSON and DynamoDB decode numbers as float64.
func (s *Section) Int(key string) (int, bool) {
	switch v := s.values[key].(type) {
	case int:
		return v, true
	case int8:
		return int(v), true
	case int16:
		return int(v), true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case uint:
		return fitsInt(uint64(v))
	case uint8:
		return int(v), true
	case uint16:
		return int(v), true
	case uint32:
		return int(v), true
	case uint64:
		return fitsInt(v)
	case float32:
		return wholeNumber(float64(v))
	case float64:
		return wholeNumber(v)
	default:
		return 0, false
	}
}

// Float returns the number stored under key.
func (s *Section) Float(key string) (float64, bool) {
	switch v := s.values[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	default:
		if i, ok := s.Int(key); ok {
			return float64(i), true
		}
		return 0, false
	}
}

// Bool returns the boolean stored under key.
func (s *Section) Bool(key string) (bool, bool) {
	v, ok := s.values[key].(bool)
	return v, ok
}

// Clone returns a deep copy of the section.
func (s *Section) Clone() *Section {
	c := NewSection()
	for _, k := range s.keys {
		switch v := s.values[k].(type) {
		case *Section:
			c.Set(k, v.Clone())
		case []any:
			c.Set(k, slices.Clone(v))
		default:
			c.Set(k, v)
		}
	}
	return c
}

// ToMap converts the section tree to plain nested maps for encoders that do
// not understand sections.
func (s *Section) ToMap() map[string]any {
	m := make(map[string]any, len(s.keys))
	for _, k := range s.keys {
		if child, ok := s.values[k].(*Section); ok {
			m[k] = child.ToMap()
			continue
		}
		m[k] = s.values[k]
	}
	return m
}

// wholeNumber converts f when it is integral and within the range of int.
func wholeNumber(f float64) (int, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	// -MinInt is a power of two and exact as a float64, unlike MaxInt
	if f < float64(math.MinInt) || f >= -float64(math.MinInt) {
		return 0, false
	}
	return int(f), true
}

func fitsInt(v uint64) (int, bool) {
	if v > math.MaxInt {
		return 0, false
	}
	return int(v), true
}
