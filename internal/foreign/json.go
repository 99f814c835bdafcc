package foreign

import (
	"github.com/goccy/go-json"

	"hexi/internal/object"
)

func fnJsonParse() *object.Foreign {
	return &object.Foreign{
		Name: "parse",
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			if len(args) != 1 {
				return nil, object.NewError("too many arguments for json::parse, got %d", len(args))
			}
			content, ok := args[0].(*object.String)
			if !ok {
				return nil, object.NewError("expected a JSON string")
			}

			var parsed interface{}
			if err := json.Unmarshal([]byte(content.Value), &parsed); err != nil {
				return nil, object.NewError("error while parsing json: %s", err)
			}
			return fromNative(parsed), nil
		},
	}
}

func fnJsonStringify() *object.Foreign {
	return &object.Foreign{
		Name: "stringify",
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			if err := checkArgs("json::stringify", args, 1); err != nil {
				return nil, err
			}

			data, err := json.Marshal(toNative(args[0]))
			if err != nil {
				return nil, object.NewError("error while encoding json: %s", err)
			}
			return &object.String{Value: string(data)}, nil
		},
	}
}
