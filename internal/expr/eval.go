package expr

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/ext/customdecode"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"
)

// Env supplies the numeric values an expression is evaluated against. Names
// are passed exactly as written in the expression.
type Env interface {
	Value(name string) (float64, bool)
	Derivative(name string) (float64, bool)
}

// MapEnv is an Env backed by two maps.
type MapEnv struct {
	Values      map[string]float64
	Derivatives map[string]float64
}

// Value implements Env.
func (m MapEnv) Value(name string) (float64, bool) {
	v, ok := m.Values[name]
	return v, ok
}

// Derivative implements Env.
func (m MapEnv) Derivative(name string) (float64, bool) {
	v, ok := m.Derivatives[name]
	return v, ok
}

// ErrEval is wrapped by every evaluation failure.
var ErrEval = errors.New("evaluation failed")

// Eval evaluates the expression to a float64. Every referenced name must be
// present in env.
func (e *Expression) Eval(env Env) (float64, error) {
	vars, err := buildVariables(e.refs, env)
	if err != nil {
		return 0, err
	}

	ctx := &hcl.EvalContext{
		Variables: vars,
		Functions: Functions(env),
	}

	val, diags := e.syntax.Value(ctx)
	if diags.HasErrors() {
		return 0, fmt.Errorf("%w: %s", ErrEval, diags.Error())
	}

	num, err := convert.Convert(val, cty.Number)
	if err != nil {
		return 0, fmt.Errorf("%w: result of %q is not a number: %v", ErrEval, e.String(), err)
	}
	if num.IsNull() || !num.IsKnown() {
		return 0, fmt.Errorf("%w: result of %q is not known", ErrEval, e.String())
	}
	f, _ := num.AsBigFloat().Float64()
	return f, nil
}

// buildVariables assembles nested cty objects for every plain reference, so
// that `membrane.V` evaluates as attribute V of object membrane.
func buildVariables(refs []Ref, env Env) (map[string]cty.Value, error) {
	type tree struct {
		leaf     *float64
		children map[string]*tree
	}
	root := &tree{children: map[string]*tree{}}

	for _, ref := range refs {
		if ref.Derivative {
			continue
		}
		v, ok := env.Value(ref.Name)
		if !ok {
			return nil, fmt.Errorf("%w: no value for %q", ErrEval, ref.Name)
		}
		if math.IsNaN(v) {
			return nil, fmt.Errorf("%w: value for %q is NaN", ErrEval, ref.Name)
		}

		node := root
		for _, seg := range strings.Split(ref.Name, ".") {
			if node.leaf != nil {
				return nil, fmt.Errorf("%w: %q is used both as a value and as a scope", ErrEval, ref.Name)
			}
			child, ok := node.children[seg]
			if !ok {
				child = &tree{children: map[string]*tree{}}
				node.children[seg] = child
			}
			node = child
		}
		if len(node.children) > 0 {
			return nil, fmt.Errorf("%w: %q is used both as a value and as a scope", ErrEval, ref.Name)
		}
		val := v
		node.leaf = &val
	}

	var toValue func(t *tree) cty.Value
	toValue = func(t *tree) cty.Value {
		if t.leaf != nil {
			return cty.NumberFloatVal(*t.leaf)
		}
		attrs := make(map[string]cty.Value, len(t.children))
		for name, child := range t.children {
			attrs[name] = toValue(child)
		}
		return cty.ObjectVal(attrs)
	}

	vars := make(map[string]cty.Value, len(root.children))
	for name, child := range root.children {
		vars[name] = toValue(child)
	}
	return vars, nil
}

// Functions returns the function table available to model expressions. The
// derivative function looks its argument up in env without evaluating it.
func Functions(env Env) map[string]function.Function {
	return map[string]function.Function{
		DerivativeFunc: derivativeFunc(env),
		"abs":          stdlib.AbsoluteFunc,
		"ceil":         stdlib.CeilFunc,
		"floor":        stdlib.FloorFunc,
		"max":          stdlib.MaxFunc,
		"min":          stdlib.MinFunc,
		"pow":          stdlib.PowFunc,
		"exp":          unaryMathFunc(math.Exp),
		"ln":           unaryMathFunc(math.Log),
		"log10":        unaryMathFunc(math.Log10),
		"sqrt":         unaryMathFunc(math.Sqrt),
		"sin":          unaryMathFunc(math.Sin),
		"cos":          unaryMathFunc(math.Cos),
		"tan":          unaryMathFunc(math.Tan),
		"tanh":         unaryMathFunc(math.Tanh),
	}
}

func derivativeFunc(env Env) function.Function {
	return function.New(&function.Spec{
		Description: "Returns the time derivative of a state variable.",
		Params: []function.Parameter{
			{Name: "state", Type: customdecode.ExpressionType},
		},
		Type: function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			arg := customdecode.ExpressionFromVal(args[0])
			trav, diags := hcl.AbsTraversalForExpr(arg)
			if diags.HasErrors() {
				return cty.UnknownVal(cty.Number), fmt.Errorf("dot() argument must be a variable name")
			}
			name, ok := traversalName(trav)
			if !ok {
				return cty.UnknownVal(cty.Number), fmt.Errorf("dot() argument must be a dotted variable name")
			}
			if env == nil {
				return cty.UnknownVal(cty.Number), fmt.Errorf("no derivative available for %q", name)
			}
			v, found := env.Derivative(name)
			if !found {
				return cty.UnknownVal(cty.Number), fmt.Errorf("no derivative available for %q", name)
			}
			if math.IsNaN(v) {
				return cty.UnknownVal(cty.Number), fmt.Errorf("derivative of %q is NaN", name)
			}
			return cty.NumberFloatVal(v), nil
		},
	})
}

func unaryMathFunc(fn func(float64) float64) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "x", Type: cty.Number},
		},
		Type: function.StaticReturnType(cty.Number),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			x, _ := args[0].AsBigFloat().Float64()
			r := fn(x)
			if math.IsNaN(r) {
				return cty.UnknownVal(cty.Number), fmt.Errorf("result is not a number")
			}
			return cty.NumberFloatVal(r), nil
		},
	})
}
