package parser

import (
	"bytes"
	"fmt"
	"hexi/internal/ast"
	"os"

	"github.com/goccy/go-json"
)

// WalkAST recursively traverses an AST and serializes it into a map structure for JSON output.
// Keys carry a numeric prefix so the encoder's sorted output keeps a readable field order.
func WalkAST(node ast.Node) interface{} {
	switch n := node.(type) {
	case *ast.Program:
		expressions := make([]interface{}, len(n.Expressions))
		for i, e := range n.Expressions {
			expressions[i] = WalkAST(e)
		}
		return map[string]interface{}{
			"0.type":        "Program",
			"1.expressions": expressions,
		}

	case *ast.Identifier:
		return map[string]interface{}{
			"0.type":     "Identifier",
			"1.position": n.Token.Position,
			"2.value":    n.Value,
		}

	case *ast.NumberLiteral:
		return map[string]interface{}{
			"0.type":     "NumberLiteral",
			"1.position": n.Token.Position,
			"2.value":    n.Value,
		}

	case *ast.StringLiteral:
		return map[string]interface{}{
			"0.type":     "StringLiteral",
			"1.position": n.Token.Position,
			"2.value":    n.Value,
		}

	case *ast.CallExpression:
		return map[string]interface{}{
			"0.type":      "CallExpression",
			"1.position":  n.Token.Position,
			"2.module":    n.Module,
			"3.name":      n.Name,
			"4.arguments": walkExpressions(n.Arguments),
		}

	case *ast.VarExpression:
		return map[string]interface{}{
			"0.type":     "VarExpression",
			"1.position": n.Token.Position,
			"2.name":     n.Name,
			"3.value":    WalkAST(n.Value),
		}

	case *ast.AssignmentExpression:
		return map[string]interface{}{
			"0.type":     "AssignmentExpression",
			"1.position": n.Token.Position,
			"2.name":     n.Name,
			"3.value":    WalkAST(n.Value),
		}

	case *ast.InfixExpression:
		return map[string]interface{}{
			"0.type":     "InfixExpression",
			"1.position": n.Token.Position,
			"2.operator": n.Operator,
			"3.left":     WalkAST(n.Left),
			"4.right":    WalkAST(n.Right),
		}

	case *ast.PrefixExpression:
		return map[string]interface{}{
			"0.type":     "PrefixExpression",
			"1.position": n.Token.Position,
			"2.operator": n.Operator,
			"3.right":    WalkAST(n.Right),
		}

	case *ast.BlockExpression:
		return map[string]interface{}{
			"0.type":        "BlockExpression",
			"1.position":    n.Token.Position,
			"2.expressions": walkExpressions(n.Expressions),
		}

	case *ast.IfExpression:
		result := map[string]interface{}{
			"0.type":       "IfExpression",
			"1.position":   n.Token.Position,
			"2.condition":  WalkAST(n.Condition),
			"3.thenBranch": WalkAST(n.ThenBranch),
		}
		if n.ElseBranch != nil {
			result["4.elseBranch"] = WalkAST(n.ElseBranch)
		}
		return result

	case *ast.CollectionLiteral:
		entries := make([]interface{}, len(n.Entries))
		for i, e := range n.Entries {
			entry := map[string]interface{}{"2.value": WalkAST(e.Value)}
			switch e.Kind {
			case ast.StringKeyEntry:
				entry["0.kind"] = "string"
				entry["1.key"] = e.StringKey
			case ast.NumberKeyEntry:
				entry["0.kind"] = "number"
				entry["1.key"] = e.NumberKey
			default:
				entry["0.kind"] = "positional"
			}
			entries[i] = entry
		}
		return map[string]interface{}{
			"0.type":     "CollectionLiteral",
			"1.position": n.Token.Position,
			"2.entries":  entries,
		}

	case *ast.IndexExpression:
		return map[string]interface{}{
			"0.type":     "IndexExpression",
			"1.position": n.Token.Position,
			"2.left":     WalkAST(n.Left),
			"3.index":    WalkAST(n.Index),
		}

	case *ast.MethodCallExpression:
		return map[string]interface{}{
			"0.type":      "MethodCallExpression",
			"1.position":  n.Token.Position,
			"2.object":    WalkAST(n.Object),
			"3.method":    n.Method,
			"4.arguments": walkExpressions(n.Arguments),
		}

	case *ast.FieldAccessExpression:
		return map[string]interface{}{
			"0.type":     "FieldAccessExpression",
			"1.position": n.Token.Position,
			"2.object":   WalkAST(n.Object),
			"3.field":    n.Field,
		}

	case *ast.IncludeExpression:
		return map[string]interface{}{
			"0.type":     "IncludeExpression",
			"1.position": n.Token.Position,
			"2.module":   n.Module,
		}

	default:
		return map[string]interface{}{
			"0.type": "Unknown: " + n.String(),
		}
	}
}

func walkExpressions(exps []ast.Expression) []interface{} {
	out := make([]interface{}, len(exps))
	for i, e := range exps {
		out[i] = WalkAST(e)
	}
	return out
}

// RenderASTAsJSON returns the indented JSON form of the tree rooted at node.
func RenderASTAsJSON(node ast.Node) ([]byte, error) {
	var buf bytes.Buffer

	encoder := json.NewEncoder(&buf)
	encoder.SetIndent("", "  ")  // Pretty-print the JSON
	encoder.SetEscapeHTML(false) // Disable escaping of characters like <, >, &

	if err := encoder.Encode(WalkAST(node)); err != nil {
		return nil, fmt.Errorf("failed to write JSON: %v", err)
	}
	return buf.Bytes(), nil
}

// WriteASTToJSON takes a root AST node and writes it to a JSON file.
func WriteASTToJSON(node ast.Node, filename string) error {
	data, err := RenderASTAsJSON(node)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to create JSON file: %v", err)
	}
	return nil
}
