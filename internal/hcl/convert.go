package hcl

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// ctyToGo converts a literal cty value into the plain Go shapes the config
// validator understands: bool, float64, string, []any and map[string]any.
func ctyToGo(val cty.Value) (any, error) {
	if val.IsNull() {
		return nil, nil
	}
	ty := val.Type()

	switch {
	case ty == cty.Bool:
		return val.True(), nil
	case ty == cty.Number:
		f, _ := val.AsBigFloat().Float64()
		return f, nil
	case ty == cty.String:
		return val.AsString(), nil
	case ty.IsTupleType() || ty.IsListType() || ty.IsSetType():
		out := make([]any, 0, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			_, elem := it.Element()
			goElem, err := ctyToGo(elem)
			if err != nil {
				return nil, err
			}
			out = append(out, goElem)
		}
		return out, nil
	case ty.IsObjectType() || ty.IsMapType():
		out := make(map[string]any, val.LengthInt())
		for it := val.ElementIterator(); it.Next(); {
			key, elem := it.Element()
			goElem, err := ctyToGo(elem)
			if err != nil {
				return nil, err
			}
			out[key.AsString()] = goElem
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported value type %s", ty.FriendlyName())
	}
}
