package object

import (
	"math"
	"testing"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{5, "5"},
		{-5, "-5"},
		{0.1, "0.1"},
		{3.14159, "3.14159"},
		{1024, "1024"},
		{1e21, "1000000000000000000000"},
		{0.0000001, "0.0000001"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
		{math.NaN(), "NaN"},
	}

	for i, tt := range tests {
		if got := FormatNumber(tt.input); got != tt.expected {
			t.Fatalf("tests[%d] - expected=%q, got=%q", i, tt.expected, got)
		}
	}
}

func TestNumberKeysHashAlike(t *testing.T) {
	if NumberKeyOf(1.5) != NumberKeyOf(1.5) {
		t.Errorf("equal numbers have different keys")
	}
	if NumberKeyOf(1) == IndexKeyOf(1) {
		t.Errorf("number key collides with index key")
	}
	if StringKeyOf("1") == NumberKeyOf(1) {
		t.Errorf("string key collides with number key")
	}
}

func TestIsTruthy(t *testing.T) {
	tests := []struct {
		input    Object
		expected bool
	}{
		{TRUE, true},
		{FALSE, false},
		{NIL, false},
		{&Number{Value: 0}, true},
		{&String{Value: ""}, true},
		{NewCollection(), false},
		{NewArray(NIL), true},
	}

	for i, tt := range tests {
		if got := IsTruthy(tt.input); got != tt.expected {
			t.Fatalf("tests[%d] - expected=%t, got=%t", i, tt.expected, got)
		}
	}
}

func TestEqualAndCompare(t *testing.T) {
	one := &Number{Value: 1}
	two := &Number{Value: 2}
	a := &String{Value: "a"}

	if !Equal(one, &Number{Value: 1}) || Equal(one, two) {
		t.Errorf("number equality broken")
	}
	if Equal(one, &String{Value: "1"}) {
		t.Errorf("cross-type values compare equal")
	}
	if !Equal(NIL, &Nil{}) {
		t.Errorf("nil is not equal to nil")
	}
	if !Equal(NewArray(one, a), NewArray(&Number{Value: 1}, &String{Value: "a"})) {
		t.Errorf("equal collections compare unequal")
	}
	if Equal(NewArray(one), NewArray(two)) {
		t.Errorf("different collections compare equal")
	}

	if cmp, ok := Compare(one, two); !ok || cmp != -1 {
		t.Errorf("expected 1 < 2, got cmp=%d ok=%t", cmp, ok)
	}
	if cmp, ok := Compare(&String{Value: "b"}, a); !ok || cmp != 1 {
		t.Errorf("expected b > a, got cmp=%d ok=%t", cmp, ok)
	}
	if cmp, ok := Compare(FALSE, TRUE); !ok || cmp != -1 {
		t.Errorf("expected false < true, got cmp=%d ok=%t", cmp, ok)
	}
	if _, ok := Compare(one, a); ok {
		t.Errorf("number and string should be unordered")
	}
	if _, ok := Compare(&Number{Value: math.NaN()}, one); ok {
		t.Errorf("NaN should be unordered")
	}
	if _, ok := Compare(NIL, NIL); ok {
		t.Errorf("nil should be unordered")
	}
}

func TestCollectionSize(t *testing.T) {
	c := NewCollection()
	c.Insert(StringKeyOf("name"), &String{Value: "x"})
	if c.IsArrayLike() {
		t.Fatalf("collection with only a string key should not be array-like")
	}
	if c.Len() != 1 {
		t.Fatalf("expected len 1, got %d", c.Len())
	}

	c.Push(&Number{Value: 1})
	if !c.IsArrayLike() || c.Size != 1 || c.Len() != 1 {
		t.Fatalf("push did not make the collection array-like: size=%d len=%d", c.Size, c.Len())
	}

	c.Insert(IndexKeyOf(4), &Number{Value: 5})
	if c.Size != 5 {
		t.Fatalf("sparse insert should grow size to 5, got %d", c.Size)
	}
	if _, ok := c.GetIndex(2); ok {
		t.Fatalf("gap should be absent")
	}
	if c.Inspect() != "[1, nil, nil, nil, 5]" {
		t.Fatalf("unexpected display %q", c.Inspect())
	}

	v, ok := c.Pop()
	if !ok || v.Inspect() != "5" || c.Size != 4 {
		t.Fatalf("pop returned %v %t size=%d", v, ok, c.Size)
	}
	if _, ok := c.Pop(); ok {
		t.Fatalf("popping a gap should report absent")
	}
	if c.Size != 3 {
		t.Fatalf("expected size 3 after popping a gap, got %d", c.Size)
	}
}

func TestCollectionInspect(t *testing.T) {
	tests := []struct {
		collection *Collection
		expected   string
	}{
		{NewCollection(), "[]"},
		{NewArray(&Number{Value: 1}, &String{Value: "two"}, TRUE, NIL), "[1, two, true, nil]"},
		{NewArray(NewArray(&Number{Value: 1}), NewCollection()), "[[1], []]"},
	}

	keyed := NewCollection()
	keyed.Insert(StringKeyOf("b"), &Number{Value: 2})
	keyed.Insert(StringKeyOf("a"), &Number{Value: 1})
	keyed.Insert(NumberKeyOf(1.5), &String{Value: "n"})
	tests = append(tests, struct {
		collection *Collection
		expected   string
	}{keyed, "[1.5 = n, a = 1, b = 2]"})

	for i, tt := range tests {
		if got := tt.collection.Inspect(); got != tt.expected {
			t.Fatalf("tests[%d] - expected=%q, got=%q", i, tt.expected, got)
		}
	}
}

func TestCollectionCopyIsDeep(t *testing.T) {
	inner := NewArray(&Number{Value: 1})
	outer := NewArray(inner)

	cp := outer.Copy()
	cpInner, _ := cp.GetIndex(0)
	cpInner.(*Collection).Push(&Number{Value: 2})

	if inner.Size != 1 {
		t.Fatalf("copy shares nested collection with original")
	}
}

func TestToIndex(t *testing.T) {
	tests := []struct {
		input    float64
		expected int
	}{
		{0, 0},
		{2.9, 2},
		{-3, 0},
		{math.NaN(), 0},
	}

	for i, tt := range tests {
		if got := ToIndex(tt.input); got != tt.expected {
			t.Fatalf("tests[%d] - expected=%d, got=%d", i, tt.expected, got)
		}
	}
}

func TestEnvironment(t *testing.T) {
	env := NewEnvironment()

	if err := env.Assign("x", TRUE); err == nil {
		t.Fatalf("assigning an undeclared name should fail")
	}
	env.Set("x", &Number{Value: 5})
	if !env.Has("x") {
		t.Fatalf("expected x to be bound")
	}
	if err := env.Assign("x", &Number{Value: 6}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	v, ok := env.Get("x")
	if !ok || v.Inspect() != "6" {
		t.Fatalf("expected x = 6, got %v", v)
	}
	env.Set("a", NIL)
	names := env.Names()
	if len(names) != 2 || names[0] != "a" || names[1] != "x" {
		t.Fatalf("unexpected names %v", names)
	}
}
