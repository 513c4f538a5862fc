package host

import (
	"context"
	"math"
	"reflect"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/ardnew/treewalk/lang"
)

// Namespaces that scripts import with "using".
const (
	NamespaceScene       = "Scene"
	NamespaceCollections = "Collections"
)

// recorderMethods are the [Recorder] methods callable from scripts.
var recorderMethods = []string{"AddBox", "AddCamera", "Clear"}

var (
	intType    = lang.Type{Kind: lang.KindInt}
	floatType  = lang.Type{Kind: lang.KindFloat}
	stringType = lang.Type{Kind: lang.KindString}
)

// Types returns the descriptors of every host type:
//
//   - App, Env (global namespace): the host object and its environment view
//   - Scene.Recorder, Scene.Vector: the scene and its coordinates
//   - Collections.List: a growable list
//   - Math (global namespace): static numeric helpers
//   - String (global namespace): members of String values
func Types() []*lang.TypeDesc {
	recorder := lang.MustReflect(NamespaceScene, "Recorder",
		reflect.TypeFor[*Recorder](), NewRecorder)

	// Scripts build the scene. Reading it back is left to the host.
	recorder.Methods = slices.DeleteFunc(recorder.Methods, func(m lang.Method) bool {
		return !slices.Contains(recorderMethods, m.Name)
	})

	recorder.Properties = append(recorder.Properties, lang.Property{
		Name: "Count",
		Type: intType,
		Get: func(_ context.Context, self lang.Value) (lang.Value, error) {
			r, _ := self.Any().(*Recorder)
			if r == nil {
				return lang.Null(), nil
			}

			return lang.IntValue(int32(r.Len())), nil //nolint:gosec
		},
	})

	return []*lang.TypeDesc{
		lang.MustReflect("", "App", reflect.TypeFor[*App]()),
		lang.MustReflect("", "Env", reflect.TypeFor[*Env]()),
		recorder,
		lang.MustReflect(NamespaceScene, "Vector",
			reflect.TypeFor[*Vector](), NewVector),
		lang.MustReflect(NamespaceCollections, "List",
			reflect.TypeFor[*List](), NewList),
		mathType(),
		stringMembers(),
	}
}

// Registry returns a registry of [Types].
func Registry() (*lang.Registry, error) {
	return lang.NewRegistry(Types()...)
}

// number returns the numeric value of an Int, Char, or Float as a float64.
func number(v lang.Value) float64 {
	switch x := v.Any().(type) {
	case int32:
		return float64(x)
	case float32:
		return float64(x)
	default:
		return math.NaN()
	}
}

// integer returns the value of an Int or Char.
func integer(v lang.Value) int32 {
	n, _ := v.Any().(int32)

	return n
}

func static(
	name string,
	params []lang.Param,
	fn func(args []lang.Value) lang.Value,
) lang.Method {
	return lang.Method{
		Name:   name,
		Params: params,
		Static: true,
		Func: func(_ context.Context, _ lang.Value, args []lang.Value) (lang.Value, error) {
			return fn(args), nil
		},
	}
}

func floats(names ...string) []lang.Param {
	params := make([]lang.Param, len(names))
	for i, n := range names {
		params[i] = lang.Param{Name: n, Type: floatType}
	}

	return params
}

func mathType() *lang.TypeDesc {
	unary := func(name string, f func(float64) float64) lang.Method {
		return static(name, floats("x"), func(args []lang.Value) lang.Value {
			return lang.FloatValue(float32(f(number(args[0]))))
		})
	}

	return &lang.TypeDesc{
		Name: "Math",
		Methods: []lang.Method{
			unary("Sqrt", math.Sqrt),
			unary("Abs", math.Abs),
			unary("Floor", math.Floor),
			unary("Sin", math.Sin),
			unary("Cos", math.Cos),
			// Ints first so two Ints select the Int overload.
			static("Min", []lang.Param{{Name: "a", Type: intType}, {Name: "b", Type: intType}},
				func(args []lang.Value) lang.Value {
					return lang.IntValue(min(integer(args[0]), integer(args[1])))
				}),
			static("Min", floats("a", "b"), func(args []lang.Value) lang.Value {
				return lang.FloatValue(float32(min(number(args[0]), number(args[1]))))
			}),
			static("Max", []lang.Param{{Name: "a", Type: intType}, {Name: "b", Type: intType}},
				func(args []lang.Value) lang.Value {
					return lang.IntValue(max(integer(args[0]), integer(args[1])))
				}),
			static("Max", floats("a", "b"), func(args []lang.Value) lang.Value {
				return lang.FloatValue(float32(max(number(args[0]), number(args[1]))))
			}),
			static("Clamp", floats("x", "lo", "hi"), func(args []lang.Value) lang.Value {
				return lang.FloatValue(float32(
					max(number(args[1]), min(number(args[0]), number(args[2])))))
			}),
		},
		Properties: []lang.Property{
			{
				Name:   "Pi",
				Type:   floatType,
				Static: true,
				Get: func(context.Context, lang.Value) (lang.Value, error) {
					return lang.FloatValue(math.Pi), nil
				},
			},
		},
	}
}

func stringMembers() *lang.TypeDesc {
	method := func(
		name string,
		params []lang.Param,
		fn func(s string, args []lang.Value) lang.Value,
	) lang.Method {
		return lang.Method{
			Name:   name,
			Params: params,
			Func: func(_ context.Context, self lang.Value, args []lang.Value) (lang.Value, error) {
				return fn(self.String(), args), nil
			},
		}
	}

	return &lang.TypeDesc{
		Name:      "String",
		Primitive: lang.KindString,
		Methods: []lang.Method{
			method("Upper", nil, func(s string, _ []lang.Value) lang.Value {
				return lang.StringValue(strings.ToUpper(s))
			}),
			method("Lower", nil, func(s string, _ []lang.Value) lang.Value {
				return lang.StringValue(strings.ToLower(s))
			}),
			method("Trim", nil, func(s string, _ []lang.Value) lang.Value {
				return lang.StringValue(strings.TrimSpace(s))
			}),
			method("Contains", []lang.Param{{Name: "sub", Type: stringType}},
				func(s string, args []lang.Value) lang.Value {
					return lang.BoolValue(strings.Contains(s, args[0].String()))
				}),
			method("Split", []lang.Param{{Name: "sep", Type: stringType}},
				func(s string, args []lang.Value) lang.Value {
					l := NewList()
					for _, part := range strings.Split(s, args[0].String()) {
						l.Add(lang.StringValue(part))
					}

					return lang.ObjectValue(l)
				}),
		},
		Properties: []lang.Property{
			{
				Name: "Length",
				Type: intType,
				Get: func(_ context.Context, self lang.Value) (lang.Value, error) {
					return lang.IntValue(int32(utf8.RuneCountInString(self.String()))), nil //nolint:gosec
				},
			},
		},
	}
}
