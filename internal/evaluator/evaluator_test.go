package evaluator

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"hexi/internal/lexer"
	"hexi/internal/object"
	"hexi/internal/parser"
)

func testEval(t *testing.T, e *Evaluator, input string) (object.Object, error) {
	t.Helper()
	p := parser.New(lexer.New(input), input)
	program, err := p.ParseProgram()
	if err != nil {
		t.Fatalf("parser error for %q: %v", input, err)
	}
	return e.Eval(program)
}

func mustEval(t *testing.T, input string) object.Object {
	t.Helper()
	val, err := testEval(t, New(), input)
	if err != nil {
		t.Fatalf("runtime error for %q: %v", input, err)
	}
	return val
}

func expectError(t *testing.T, input, expected string) {
	t.Helper()
	_, err := testEval(t, New(), input)
	if err == nil {
		t.Fatalf("expected error %q for %q, got none", expected, input)
	}
	if !strings.Contains(err.Error(), expected) {
		t.Fatalf("wrong error for %q. expected=%q, got=%q", input, expected, err.Error())
	}
}

func TestEvalExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"5", "5"},
		{"-5", "-5"},
		{"--5", "5"},
		{"1 + 2 * 3", "7"},
		{"(1 + 2) * 3", "9"},
		{"10 / 4", "2.5"},
		{"7 % 3", "1"},
		{"-7 % 3", "-1"},
		{"0.1 + 0.2", "0.30000000000000004"},
		{"1 - 2 - 3", "-4"},
		{"'hello'", "hello"},
		{"1 < 2", "true"},
		{"2 <= 2", "true"},
		{"1 > 2", "false"},
		{"3 >= 4", "false"},
		{"1 == 1", "true"},
		{"1 != 1", "false"},
		{"'a' < 'b'", "true"},
		{"'a' == 'a'", "true"},
		{"1 == '1'", "false"},
		{"1 != '1'", "true"},
		{"1 < 'a'", "false"},
		{"1 >= 'a'", "false"},
		{"[1, 2] == [1, 2]", "true"},
		{"[1, 2] < [1, 3]", "false"},
		{"1 + 2 == 3", "true"},
	}

	for i, tt := range tests {
		got := mustEval(t, tt.input)
		if got.Inspect() != tt.expected {
			t.Fatalf("tests[%d] - %q expected=%q, got=%q", i, tt.input, tt.expected, got.Inspect())
		}
	}
}

func TestArithmeticMatchesFloat64(t *testing.T) {
	pairs := [][2]float64{{3, 4}, {1.5, 0.25}, {1e10, 3}, {0.1, 0.7}, {5, 2}}
	for _, pair := range pairs {
		a, b := pair[0], pair[1]
		tests := []struct {
			op       string
			expected float64
		}{
			{"+", a + b},
			{"-", a - b},
			{"*", a * b},
			{"/", a / b},
		}
		for _, tt := range tests {
			input := object.FormatNumber(a) + " " + tt.op + " " + object.FormatNumber(b)
			got, ok := mustEval(t, input).(*object.Number)
			if !ok || got.Value != tt.expected {
				t.Fatalf("%s expected=%v, got=%v", input, tt.expected, got)
			}
		}
	}
}

func TestNumberDisplayRoundTrip(t *testing.T) {
	values := []float64{5, 0.1, 1024, 123456.789, 1e-7, 3.141592653589793, 1e21, math.MaxFloat64}
	for _, v := range values {
		shown := (&object.Number{Value: v}).Inspect()
		got, ok := mustEval(t, shown).(*object.Number)
		if !ok || got.Value != v {
			t.Fatalf("round trip of %v through %q gave %v", v, shown, got)
		}
	}
	if shown := (&object.Number{Value: 5}).Inspect(); shown != "5" {
		t.Fatalf("expected 5, got %q", shown)
	}
}

func TestErrors(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 / 0", "division by zero"},
		{"1 % 0", "modulo by zero"},
		{"1 + 'a'", "arithmetic operations can only be performed on numbers"},
		{"'a' * 2", "arithmetic operations can only be performed on numbers"},
		{"-'a'", "negate unary operator only supported on numbers"},
		{"x", "undefined variable or reference 'x'"},
		{"foo()", "undefined function 'foo'"},
		{"val x = 5; val x = 1", "variable 'x' already defined!"},
		{"y = 1", "variable 'y' not defined!"},
		{"include nope", "module 'nope' not found"},
		{"include io", "module 'io' not found"},
		{"5[0]", "cannot index into number"},
		{"[1][[1]]", "collection index must be a number or string"},
		{"[name = 'ok'].missing", "undefined field 'missing'"},
		{"'text'.field", "cannot access field 'field' on non object"},
		{"5.size()", "cannot call method 'size' on \"number\""},
		{"[1].explode()", "unknown method 'explode' for array."},
		{"'s'.upper()", "unknown method 'upper' for string."},
		{"[].push()", "push method on array expects 1 argument, got 0"},
		{"[].pop(1)", "pop method on array expects no argument, got 1"},
		{"[].size(1)", "size method on array expects no argument, got 1"},
		{"[].get()", "get method expects 1 argument, got 0"},
		{"[].get(nil_value)", "undefined variable or reference 'nil_value'"},
		{"[].insert(1)", "insert method expects 2 arguments, got 1"},
		{"[1, 2].insert(5, 0)", "index 5 is out of bounds"},
		{"[].insert([], 0)", "insert key must be a number or string"},
		{"'abc'.len(1)", "len method on string expects no arguments, got 1"},
		{"missing.push(1)", "undefined variable 'missing'"},
		{"math::pow(2)", "too many arguments or too little for function math::pow, got 1"},
		{"math::abs('x')", "not a number in math::abs, got x"},
	}

	for _, tt := range tests {
		expectError(t, tt.input, tt.expected)
	}
}

func TestRedeclarationKeepsOriginalValue(t *testing.T) {
	e := New()
	if _, err := testEval(t, e, "val x = 5"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := testEval(t, e, "val x = 1"); err == nil || err.Error() != "variable 'x' already defined!" {
		t.Fatalf("expected redeclaration error, got %v", err)
	}
	val, err := testEval(t, e, "x")
	if err != nil || val.Inspect() != "5" {
		t.Fatalf("expected 5, got %v (%v)", val, err)
	}
}

func TestNulInSourceDoesNotEndProgram(t *testing.T) {
	if val := mustEval(t, "val x = 1 \x00 x"); val.Inspect() != "1" {
		t.Fatalf("expected 1, got %q", val.Inspect())
	}
}

func TestDeclarationInsideValueIsOverwritten(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"val x = { val x = 1; 2 }; x", "2"},
		{"val y = if 1 { val y = 'inner'; 'outer' }; y", "outer"},
	}

	for i, tt := range tests {
		val := mustEval(t, tt.input)
		if val.Inspect() != tt.expected {
			t.Fatalf("tests[%d] - expected=%q, got=%q", i, tt.expected, val.Inspect())
		}
	}
}

func TestDeclarationAndAssignment(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"val x = 5; x", "5"},
		{"val x = 5; x = x + 1; x", "6"},
		{"val x = 5", "nil"},
		{"val x = 1; x = 2", "nil"},
		{"val s = 'a'; s = 'b'; s", "b"},
	}

	for i, tt := range tests {
		if got := mustEval(t, tt.input).Inspect(); got != tt.expected {
			t.Fatalf("tests[%d] - %q expected=%q, got=%q", i, tt.input, tt.expected, got)
		}
	}
}

func TestIfExpressions(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"if 0 { 'a' } else { 'b' }", "a"},
		{"if '' { 'a' } else { 'b' }", "a"},
		{"if [] { 'a' } else { 'b' }", "b"},
		{"if [1] { 'a' } else { 'b' }", "a"},
		{"if 1 > 2 { 'a' }", "nil"},
		{"if 1 > 2 { 'a' } else if 2 > 1 { 'c' } else { 'b' }", "c"},
		{"if 1 == 1 { }", "nil"},
		{"if 1 { 1; 2; 3 }", "3"},
		{"val n = 5; if n > 3 { n = 1 }; n", "1"},
	}

	for i, tt := range tests {
		if got := mustEval(t, tt.input).Inspect(); got != tt.expected {
			t.Fatalf("tests[%d] - %q expected=%q, got=%q", i, tt.input, tt.expected, got)
		}
	}
}

func TestBlocksShareEnvironment(t *testing.T) {
	got := mustEval(t, "{ val inner = 3 }; inner")
	if got.Inspect() != "3" {
		t.Fatalf("expected block declaration to stay visible, got %s", got.Inspect())
	}
	if got := mustEval(t, "{ }"); got != object.NIL {
		t.Fatalf("empty block should be nil, got %s", got.Inspect())
	}
}

func TestCollections(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"[]", "[]"},
		{"[1, 2, 3]", "[1, 2, 3]"},
		{"[1, 2, 3,]", "[1, 2, 3]"},
		{"[name = 'ok']", "[name = ok]"},
		{"[1.5 = 'x']", "[1.5 = x]"},
		{"['key' = 1]", "[key = 1]"},
		{"[1, name = 'a', 2][1]", "2"},
		{"[1, name = 'a', 2].size()", "2"},
		{"[a = 1, b = 2].size()", "2"},
		{"[[1, 2], [3]][0][1]", "2"},
		{"[1, 2, 3][1]", "2"},
		{"[1, 2, 3][10]", "nil"},
		{"[1, 2, 3][-1]", "1"},
		{"[name = 'ok'].get('name')", "ok"},
		{"[name = 'ok']['missing']", "nil"},
		{"[name = 'ok']['name']", "ok"},
		{"[name = 'ok'].name", "ok"},
		{"[inner = [deep = 1]].inner.deep", "1"},
		{"[1, 2].pop()", "2"},
		{"[].pop()", "nil"},
		{"'hello'.len()", "5"},
		{"'héllo'.len()", "6"},
		{"[1, 2][0.9]", "1"},
	}

	for i, tt := range tests {
		if got := mustEval(t, tt.input).Inspect(); got != tt.expected {
			t.Fatalf("tests[%d] - %q expected=%q, got=%q", i, tt.input, tt.expected, got)
		}
	}
}

func TestMutatingMethodsOnVariables(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"val a = [1, 2, 3]; a.push(4); a.size()", "4"},
		{"val a = [1, 2, 3]; a.push(4); a.get(3)", "4"},
		{"val a = [1, 2, 3]; a.push(4); a.get(10)", "nil"},
		{"val a = [1, 2, 3]; a.pop(); a", "[1, 2]"},
		{"val a = [1, 2, 3]; a.pop()", "3"},
		{"val a = [1, 2]; a.insert(2, 3); a", "[1, 2, 3]"},
		{"val a = [1, 2]; a.insert(0, 9); a", "[9, 2]"},
		{"val m = [a = 1]; m.insert(5, 'x'); m.get(5)", "x"},
		{"val m = [a = 1]; m.insert('b', 2); m.b", "2"},
		{"val a = []; a.push(1); a.push(2); a", "[1, 2]"},
		{"val a = [1, 2, 3]; a.size() + 1", "4"},
	}

	for i, tt := range tests {
		if got := mustEval(t, tt.input).Inspect(); got != tt.expected {
			t.Fatalf("tests[%d] - %q expected=%q, got=%q", i, tt.input, tt.expected, got)
		}
	}
}

func TestValueSemantics(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"val a = [1]; val b = a; b.push(2); a", "[1]"},
		{"val a = [1]; val b = a; b.push(2); b", "[1, 2]"},
		{"val a = [[1]]; val inner = a[0]; inner.push(2); a", "[[1]]"},
		{"val a = [1, 2]; [a][0].push(3); a", "[1, 2]"},
		{"val m = [k = [1]]; val v = m.k; v.push(2); m.k", "[1]"},
	}

	for i, tt := range tests {
		if got := mustEval(t, tt.input).Inspect(); got != tt.expected {
			t.Fatalf("tests[%d] - %q expected=%q, got=%q", i, tt.input, tt.expected, got)
		}
	}
}

func TestFailedMethodDoesNotMutate(t *testing.T) {
	e := New()
	if _, err := testEval(t, e, "val a = [1, 2]"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := testEval(t, e, "a.insert(7, 0)"); err == nil {
		t.Fatalf("expected out of bounds error")
	}
	got, _ := testEval(t, e, "a")
	if got.Inspect() != "[1, 2]" {
		t.Fatalf("failed insert changed the variable: %s", got.Inspect())
	}
}

func TestStandardModules(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"math::pow(2, 10)", "1024"},
		{"pow(2, 10)", "1024"},
		{"math::abs(-3)", "3"},
		{"math::sqrt(16)", "4"},
		{"math::floor(2.7)", "2"},
		{"math::ceil(2.1)", "3"},
		{"math::max(2, 9)", "9"},
		{"math::min(2, 9)", "2"},
		{"math::sin(0)", "0"},
		{"math::cos(0)", "1"},
		{"math::pi", "3.141592653589793"},
		{"math::e > 2", "true"},
		{"string::len('abc')", "3"},
		{"len('abcd')", "4"},
		{"string::upper('abc')", "ABC"},
		{"string::lower('ABC')", "abc"},
		{"string::trim('  x ')", "x"},
		{"string::contains('hexi', 'ex')", "true"},
		{"string::split('a,b,c', ',')", "[a, b, c]"},
		{"string::split('a,b,c', ',').size()", "3"},
		{"string::replace('aaa', 'a', 'b')", "bbb"},
		{"io::print('x')", "nil"},
	}

	for i, tt := range tests {
		e := New(WithOutput(&bytes.Buffer{}))
		got, err := testEval(t, e, tt.input)
		if err != nil {
			t.Fatalf("tests[%d] - %q unexpected error: %v", i, tt.input, err)
		}
		if got.Inspect() != tt.expected {
			t.Fatalf("tests[%d] - %q expected=%q, got=%q", i, tt.input, tt.expected, got.Inspect())
		}
	}
}

func TestIncludeMakesFunctionsAvailable(t *testing.T) {
	e := New()
	if _, err := testEval(t, e, "json::parse('[1]')"); err == nil || err.Error() != "undefined function 'parse'" {
		t.Fatalf("expected undefined function before include, got %v", err)
	}
	if _, err := testEval(t, e, "fs::read()"); err == nil || err.Error() != "undefined function 'read'" {
		t.Fatalf("expected undefined function before include, got %v", err)
	}

	got, err := testEval(t, e, "include json; include json; json::parse('[1, 2]').size()")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Inspect() != "2" {
		t.Fatalf("expected 2, got %s", got.Inspect())
	}
	if _, err := testEval(t, e, "parse('[1]')"); err == nil {
		t.Fatalf("optional functions should not have bare names")
	}
}

func TestIoUsesConfiguredStreams(t *testing.T) {
	var out bytes.Buffer
	e := New(WithOutput(&out), WithInput(strings.NewReader("alice\r\nbob\n")))

	got, err := testEval(t, e, "val name = io::input('name? '); io::println('hi', name, 1, [2]); name")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Inspect() != "alice" {
		t.Fatalf("expected alice, got %q", got.Inspect())
	}
	if out.String() != "name? hi alice 1 [2]\n" {
		t.Fatalf("unexpected output %q", out.String())
	}

	got, _ = testEval(t, e, "input()")
	if got.Inspect() != "bob" {
		t.Fatalf("expected bob, got %q", got.Inspect())
	}
	got, _ = testEval(t, e, "input()")
	if got.Inspect() != "" {
		t.Fatalf("expected empty string at end of input, got %q", got.Inspect())
	}
	if _, err := testEval(t, e, "input(1, 2)"); err == nil {
		t.Fatalf("expected too many arguments error")
	}
}

func TestVariables(t *testing.T) {
	e := New()
	if _, err := testEval(t, e, "val b = [1]; val a = 'x'"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	vars := e.Variables()
	if len(vars) != 2 || vars[0] != "a = x" || vars[1] != "b = [1]" {
		t.Fatalf("unexpected variables %v", vars)
	}
}

type closer struct{ closed bool }

func (c *closer) Close() error {
	c.closed = true
	return nil
}

func TestHandles(t *testing.T) {
	e := New()
	first, second := &closer{}, &closer{}

	id := e.StoreHandle(first)
	e.StoreHandle(second)
	if res, ok := e.Handle(id); !ok || res != first {
		t.Fatalf("handle %d not found", id)
	}
	if err := e.ReleaseHandle(id); err != nil || !first.closed {
		t.Fatalf("release did not close resource: %v", err)
	}
	if err := e.ReleaseHandle(id); err == nil {
		t.Fatalf("double release should fail")
	}
	if err := e.Close(); err != nil || !second.closed {
		t.Fatalf("close did not release remaining handles: %v", err)
	}
}
