package types

import (
	"iter"

	"github.com/benbjohnson/immutable"
)

// PolyTypeMap is a persistent map from names to polytypes, iterated in
// sorted key order. Insert returns a new map and leaves the receiver
// unchanged. The zero value is an empty map.
type PolyTypeMap struct {
	m *immutable.SortedMap[string, PolyType]
}

func NewPolyTypeMap() PolyTypeMap {
	return PolyTypeMap{m: immutable.NewSortedMap[string, PolyType](nil)}
}

// PolyTypeMapOf builds a map from plain Go map entries.
func PolyTypeMapOf(values map[string]PolyType) PolyTypeMap {
	b := immutable.NewSortedMapBuilder[string, PolyType](nil)
	for k, v := range values {
		b.Set(k, v)
	}
	return PolyTypeMap{m: b.Map()}
}

func (p PolyTypeMap) Insert(name string, t PolyType) PolyTypeMap {
	if p.m == nil {
		p = NewPolyTypeMap()
	}
	return PolyTypeMap{m: p.m.Set(name, t)}
}

func (p PolyTypeMap) Lookup(name string) (PolyType, bool) {
	if p.m == nil {
		return PolyType{}, false
	}
	return p.m.Get(name)
}

// Import resolves a package path to its type, so that a map of package
// types can serve as an importer.
func (p PolyTypeMap) Import(path string) (PolyType, bool) {
	return p.Lookup(path)
}

func (p PolyTypeMap) Len() int {
	if p.m == nil {
		return 0
	}
	return p.m.Len()
}

// All iterates over the entries in sorted key order.
func (p PolyTypeMap) All() iter.Seq2[string, PolyType] {
	return func(yield func(string, PolyType) bool) {
		if p.m == nil {
			return
		}
		itr := p.m.Iterator()
		for !itr.Done() {
			k, v, _ := itr.Next()
			if !yield(k, v) {
				return
			}
		}
	}
}

// Keys returns the names in sorted order.
func (p PolyTypeMap) Keys() []string {
	keys := make([]string, 0, p.Len())
	for k := range p.All() {
		keys = append(keys, k)
	}
	return keys
}

// Merge inserts every entry of other, replacing entries of p with the same name.
func (p PolyTypeMap) Merge(other PolyTypeMap) PolyTypeMap {
	for k, v := range other.All() {
		p = p.Insert(k, v)
	}
	return p
}
