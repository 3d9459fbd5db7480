package capability

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/bayleafwalker/capture-core/internal/semver"
)

// Document keys.
const (
	docPlatform    = "platform"
	docParameters  = "parameters"
	docValues      = "values"
	docRange       = "range"
	docFlag        = "flag"
	docUnavailable = "unavailable"
	docVector      = "vector"
)

// LoadFile reads a YAML catalog document from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return ParseYAML(data)
}

// ParseYAML decodes a YAML catalog document:
//
//	platform: "28"
//	parameters:
//	  awb-mode: {values: [OFF, AUTO]}
//	  sensor-sensitivity: {range: [100, 1600]}
//	  flash-mode: {flag: true}
//	  ae-target-fps-range: {values: [[15, 30], [30, 30]]}
func ParseYAML(data []byte) (*Catalog, error) {
	doc := map[string]any{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	return FromMap(doc)
}

// FromMap decodes a generic document, as produced by YAML decoding or
// structpb.Struct.AsMap.
func FromMap(doc map[string]any) (*Catalog, error) {
	b := NewBuilder()

	if raw, ok := doc[docPlatform]; ok && raw != nil {
		level, err := semver.ParseLevel(scalarString(raw))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		b.Platform(level)
	}

	params, err := asMap(doc[docParameters])
	if err != nil {
		return nil, fmt.Errorf("%w: parameters: %v", ErrInvalidDocument, err)
	}
	for name, raw := range params {
		entry, err := asMap(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %q: %v", ErrInvalidDocument, name, err)
		}
		d, err := decodeDescriptor(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: parameter %q: %v", ErrInvalidDocument, name, err)
		}
		b.Set(ParameterID(name), d)
	}
	return b.Build(), nil
}

func decodeDescriptor(entry map[string]any) (Descriptor, error) {
	if v, ok := entry[docUnavailable]; ok {
		if b, isBool := v.(bool); isBool && b {
			return NotAvailable(), nil
		}
	}
	if v, ok := entry[docFlag]; ok {
		b, isBool := v.(bool)
		if !isBool {
			return Descriptor{}, fmt.Errorf("flag must be a bool, got %T", v)
		}
		return Present(b), nil
	}
	if v, ok := entry[docRange]; ok {
		lo, hi, err := pair(v)
		if err != nil {
			return Descriptor{}, fmt.Errorf("range: %v", err)
		}
		return Between(lo, hi), nil
	}
	if v, ok := entry[docValues]; ok {
		list, isList := v.([]any)
		if !isList {
			return Descriptor{}, fmt.Errorf("values must be a list, got %T", v)
		}
		vals := make([]Value, 0, len(list))
		for i, item := range list {
			val, err := decodeValue(item)
			if err != nil {
				return Descriptor{}, fmt.Errorf("values[%d]: %v", i, err)
			}
			vals = append(vals, val)
		}
		return Discrete(vals...), nil
	}
	return Descriptor{}, fmt.Errorf("expected one of %q, %q, %q or %q", docValues, docRange, docFlag, docUnavailable)
}

// decodeValue reads one set member. A two-element numeric list is an interval; vectors of
// any length can be written as {vector: [...]} to keep their kind.
func decodeValue(raw any) (Value, error) {
	switch x := raw.(type) {
	case map[string]any:
		list, ok := x[docVector].([]any)
		if !ok || len(x) != 1 {
			return Value{}, fmt.Errorf("expected {%s: [...]}, got %v", docVector, x)
		}
		return decodeVector(list)
	case string:
		return ParseValue(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint64:
		return Int(int64(x)), nil
	case float64:
		if x == float64(int64(x)) {
			return Int(int64(x)), nil
		}
		return Float(x), nil
	case []any:
		if len(x) == 2 {
			lo, hi, err := pair(x)
			if err == nil {
				return Span(lo, hi), nil
			}
		}
		return decodeVector(x)
	default:
		return Value{}, fmt.Errorf("unsupported value type %T", raw)
	}
}

func decodeVector(list []any) (Value, error) {
	nums := make([]float64, 0, len(list))
	for _, item := range list {
		n, ok := number(item)
		if !ok {
			return Value{}, fmt.Errorf("vector element %v is not a number", item)
		}
		nums = append(nums, n)
	}
	return Vector(nums...), nil
}

func pair(raw any) (float64, float64, error) {
	list, ok := raw.([]any)
	if !ok || len(list) != 2 {
		return 0, 0, fmt.Errorf("expected [lower, upper]")
	}
	lo, okLo := number(list[0])
	hi, okHi := number(list[1])
	if !okLo || !okHi {
		return 0, 0, fmt.Errorf("bounds must be numbers")
	}
	return lo, hi, nil
}

func number(raw any) (float64, bool) {
	switch x := raw.(type) {
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float64:
		return x, true
	default:
		return 0, false
	}
}

func asMap(raw any) (map[string]any, error) {
	switch x := raw.(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return x, nil
	default:
		return nil, fmt.Errorf("expected a mapping, got %T", raw)
	}
}

func scalarString(raw any) string {
	switch x := raw.(type) {
	case string:
		return x
	case float64:
		return formatNumber(x)
	default:
		return fmt.Sprint(x)
	}
}

// ToMap encodes c in the document shape accepted by FromMap.
func ToMap(c *Catalog) map[string]any {
	params := map[string]any{}
	for _, id := range c.IDs() {
		params[string(id)] = encodeDescriptor(c.Lookup(id))
	}
	doc := map[string]any{docParameters: params}
	if l := c.Platform(); l.Known() {
		doc[docPlatform] = l.String()
	}
	return doc
}

func encodeDescriptor(d Descriptor) map[string]any {
	switch d.Kind {
	case DiscreteSet:
		vals := make([]any, 0, len(d.Values))
		for _, v := range d.Values {
			vals = append(vals, encodeValue(v))
		}
		return map[string]any{docValues: vals}
	case Range:
		return map[string]any{docRange: []any{d.Bounds.Lower, d.Bounds.Upper}}
	case Flag:
		return map[string]any{docFlag: d.Present}
	default:
		return map[string]any{docUnavailable: true}
	}
}

func encodeValue(v Value) any {
	switch v.Kind() {
	case KindBool:
		return v.Bool()
	case KindInt, KindFloat:
		n, _ := v.Number()
		return n
	case KindInterval:
		iv, _ := v.Interval()
		return []any{iv.Lower, iv.Upper}
	case KindVector:
		out := []any{}
		for _, x := range v.Vector() {
			out = append(out, x)
		}
		return map[string]any{docVector: out}
	default:
		return v.String()
	}
}
