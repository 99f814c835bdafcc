package foreign

import (
	"math"

	"hexi/internal/object"
)

// Module is a named set of native functions and constants. A function is
// reachable as `module::name`, registered under the signature module_name.
type Module struct {
	Name      string
	Functions []*object.Foreign
	Constants map[string]object.Object
}

// Standard modules are loaded into every evaluator at construction.
var Standard = []*Module{
	{
		Name: "io",
		Functions: []*object.Foreign{
			fnIoPrint("print"),
			fnIoPrint("println"),
			fnIoInput(),
		},
	},
	{
		Name: "math",
		Functions: []*object.Foreign{
			fnMathUnary("abs", math.Abs),
			fnMathUnary("sqrt", math.Sqrt),
			fnMathBinary("pow", math.Pow),
			fnMathUnary("floor", math.Floor),
			fnMathUnary("ceil", math.Ceil),
			fnMathUnary("sin", math.Sin),
			fnMathUnary("cos", math.Cos),
			fnMathBinary("max", maxNumber),
			fnMathBinary("min", minNumber),
		},
		Constants: map[string]object.Object{
			"pi": &object.Number{Value: math.Pi},
			"e":  &object.Number{Value: math.E},
		},
	},
	{
		Name: "string",
		Functions: []*object.Foreign{
			fnStringLen(),
			fnStringUpper(),
			fnStringLower(),
			fnStringTrim(),
			fnStringContains(),
			fnStringSplit(),
			fnStringReplace(),
		},
	},
}

// Optional modules are loaded on `include`.
var Optional = []*Module{
	{
		Name: "fs",
		Functions: []*object.Foreign{
			fnFsRead(),
			fnFsWrite(),
			fnFsAppend(),
			fnFsExists(),
		},
	},
	{
		Name: "json",
		Functions: []*object.Foreign{
			fnJsonParse(),
			fnJsonStringify(),
		},
	},
	{
		Name: "yaml",
		Functions: []*object.Foreign{
			fnYamlParse(),
			fnYamlStringify(),
		},
	},
	{
		Name: "db",
		Functions: []*object.Foreign{
			fnDbConnect(),
			fnDbQuery(),
			fnDbExec(),
			fnDbBegin(),
			fnDbCommit(),
			fnDbRollback(),
			fnDbClose(),
		},
	},
	{
		Name: "kv",
		Functions: []*object.Foreign{
			fnKvOpen(),
			fnKvPut(),
			fnKvGet(),
			fnKvDelete(),
			fnKvKeys(),
			fnKvClose(),
		},
	},
}

// FindOptional returns the optional module registered under name.
func FindOptional(name string) (*Module, bool) {
	for _, m := range Optional {
		if m.Name == name {
			return m, true
		}
	}
	return nil, false
}

// Signature is the registry key of a qualified function.
func Signature(module, name string) string {
	return module + "_" + name
}
