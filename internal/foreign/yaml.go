package foreign

import (
	"strings"

	"gopkg.in/yaml.v3"

	"hexi/internal/object"
)

func fnYamlParse() *object.Foreign {
	return &object.Foreign{
		Name: "parse",
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			if err := checkArgs("yaml::parse", args, 1); err != nil {
				return nil, err
			}
			content, err := unpackString(args[0], "text")
			if err != nil {
				return nil, err
			}

			var parsed interface{}
			if err := yaml.Unmarshal([]byte(content), &parsed); err != nil {
				return nil, object.NewError("error while parsing yaml: %s", err)
			}
			return fromNative(parsed), nil
		},
	}
}

func fnYamlStringify() *object.Foreign {
	return &object.Foreign{
		Name: "stringify",
		Fn: func(ctx object.EvaluatorContext, args ...object.Object) (object.Object, error) {
			if err := checkArgs("yaml::stringify", args, 1); err != nil {
				return nil, err
			}

			data, err := yaml.Marshal(toNative(args[0]))
			if err != nil {
				return nil, object.NewError("error while encoding yaml: %s", err)
			}
			return &object.String{Value: strings.TrimSuffix(string(data), "\n")}, nil
		},
	}
}
