// Package fields encodes field selections into the comma-separated "fields"
// query parameter understood by the TikTok Open API.
package fields

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/samber/lo"
)

// Field is an enumerated response attribute with a stable wire name
type Field interface {
	comparable
	String() string
}

// Set is an unordered set of fields. The zero value is an empty set.
type Set[F Field] map[F]struct{}

// New creates a set holding fs
func New[F Field](fs ...F) Set[F] {
	s := make(Set[F], len(fs))
	for _, f := range fs {
		s[f] = struct{}{}
	}
	return s
}

// Add inserts fs into the set
func (s Set[F]) Add(fs ...F) {
	for _, f := range fs {
		s[f] = struct{}{}
	}
}

// Has reports whether f is in the set
func (s Set[F]) Has(f F) bool {
	_, ok := s[f]
	return ok
}

// Len returns the number of fields
func (s Set[F]) Len() int {
	return len(s)
}

// Union returns a new set containing the fields of s and others
func (s Set[F]) Union(others ...Set[F]) Set[F] {
	out := New(lo.Keys(s)...)
	for _, o := range others {
		out.Add(lo.Keys(o)...)
	}
	return out
}

// Values returns the fields sorted by wire name
func (s Set[F]) Values() []F {
	values := lo.Keys(s)
	slices.SortFunc(values, func(a, b F) int {
		return cmp.Compare(a.String(), b.String())
	})
	return values
}

// Encode joins the wire names with ",". Order is by wire name so the output is
// deterministic; callers must not depend on any other ordering. An empty set
// encodes to "".
func Encode[F Field](s Set[F]) string {
	names := lo.Map(s.Values(), func(f F, _ int) string {
		return f.String()
	})
	return strings.Join(names, ",")
}

// Decode parses an encoded field list with parse, the inverse of Encode
func Decode[F Field](encoded string, parse func(string) (F, error)) (Set[F], error) {
	s := Set[F]{}
	if encoded == "" {
		return s, nil
	}
	for _, name := range strings.Split(encoded, ",") {
		f, err := parse(name)
		if err != nil {
			return nil, fmt.Errorf("decoding field %q: %w", name, err)
		}
		s.Add(f)
	}
	return s, nil
}
