package object

import (
	"bytes"
	"math"
	"sort"
	"strconv"
)

type KeyKind int

const (
	IndexKey KeyKind = iota
	StringKey
	NumberKey
)

// Key addresses a collection entry. Number keys hold the display text of
// the float so equal numbers always hash alike; they never collide with
// positional Index keys.
type Key struct {
	Kind  KeyKind
	Index int
	Text  string
}

func IndexKeyOf(i int) Key      { return Key{Kind: IndexKey, Index: i} }
func StringKeyOf(s string) Key  { return Key{Kind: StringKey, Text: s} }
func NumberKeyOf(f float64) Key { return Key{Kind: NumberKey, Text: FormatNumber(f)} }
func (k Key) IsIndex() bool     { return k.Kind == IndexKey }
func (k Key) String() string {
	if k.Kind == IndexKey {
		return strconv.Itoa(k.Index)
	}
	return k.Text
}

// ToIndex truncates a number to a positional index. Negative and NaN values
// saturate to 0.
func ToIndex(f float64) int {
	switch {
	case math.IsNaN(f) || f <= 0:
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	}
	return int(f)
}

// Collection is the one container type, serving as both array and map.
// Size is the positional extent: one past the highest Index key written by
// indexed insertion or push. It is not the entry count once string or
// number keys are present.
type Collection struct {
	Entries map[Key]Object
	Size    int
}

func NewCollection() *Collection {
	return &Collection{Entries: make(map[Key]Object)}
}

// NewArray builds an array-like collection from values in order.
func NewArray(values ...Object) *Collection {
	c := &Collection{Entries: make(map[Key]Object, len(values)), Size: len(values)}
	for i, v := range values {
		c.Entries[IndexKeyOf(i)] = v
	}
	return c
}

func (c *Collection) Type() ObjectType { return COLLECTION_OBJ }

func (c *Collection) Get(key Key) (Object, bool) {
	v, ok := c.Entries[key]
	return v, ok
}

func (c *Collection) GetIndex(i int) (Object, bool) {
	return c.Get(IndexKeyOf(i))
}

func (c *Collection) GetString(s string) (Object, bool) {
	return c.Get(StringKeyOf(s))
}

// Insert sets key to value. An Index key at or past Size grows Size; gaps
// are allowed and read back as absent.
func (c *Collection) Insert(key Key, value Object) {
	if key.Kind == IndexKey && key.Index >= c.Size {
		c.Size = key.Index + 1
	}
	c.Entries[key] = value
}

func (c *Collection) Push(value Object) {
	c.Entries[IndexKeyOf(c.Size)] = value
	c.Size++
}

// Pop removes the last positional entry. ok is false on an empty extent.
func (c *Collection) Pop() (Object, bool) {
	if c.Size == 0 {
		return nil, false
	}
	c.Size--
	key := IndexKeyOf(c.Size)
	v, ok := c.Entries[key]
	delete(c.Entries, key)
	return v, ok
}

// IsArrayLike is true when the positional extent is non-zero or every key
// is an Index key (so the empty collection is array-like).
func (c *Collection) IsArrayLike() bool {
	if c.Size > 0 {
		return true
	}
	for k := range c.Entries {
		if !k.IsIndex() {
			return false
		}
	}
	return true
}

// Len is Size for array-like collections and the entry count otherwise.
func (c *Collection) Len() int {
	if c.IsArrayLike() {
		return c.Size
	}
	return len(c.Entries)
}

func (c *Collection) Copy() *Collection {
	out := &Collection{Entries: make(map[Key]Object, len(c.Entries)), Size: c.Size}
	for k, v := range c.Entries {
		out.Entries[k] = Copy(v)
	}
	return out
}

// Keys returns every key, index keys first in numeric order, then number
// keys, then string keys, each group sorted.
func (c *Collection) Keys() []Key {
	keys := make([]Key, 0, len(c.Entries))
	for k := range c.Entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.Kind != b.Kind {
			return keyRank(a.Kind) < keyRank(b.Kind)
		}
		if a.Kind == IndexKey {
			return a.Index < b.Index
		}
		if a.Kind == NumberKey {
			x, _ := strconv.ParseFloat(a.Text, 64)
			y, _ := strconv.ParseFloat(b.Text, 64)
			if x != y {
				return x < y
			}
		}
		return a.Text < b.Text
	})
	return keys
}

func keyRank(k KeyKind) int {
	switch k {
	case IndexKey:
		return 0
	case NumberKey:
		return 1
	}
	return 2
}

func (c *Collection) Inspect() string {
	var out bytes.Buffer

	out.WriteString("[")
	if c.IsArrayLike() {
		for i := 0; i < c.Size; i++ {
			if i > 0 {
				out.WriteString(", ")
			}
			if v, ok := c.GetIndex(i); ok {
				out.WriteString(v.Inspect())
			} else {
				out.WriteString("nil")
			}
		}
	} else {
		for i, k := range c.Keys() {
			if i > 0 {
				out.WriteString(", ")
			}
			out.WriteString(k.String())
			out.WriteString(" = ")
			out.WriteString(c.Entries[k].Inspect())
		}
	}
	out.WriteString("]")

	return out.String()
}
