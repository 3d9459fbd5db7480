package capability

import (
	"strconv"
	"strings"
)

// ValueKind tags the payload carried by a Value.
type ValueKind int

const (
	KindNone ValueKind = iota
	KindEnum
	KindBool
	KindInt
	KindFloat
	KindInterval
	KindVector
)

// Interval is a closed numeric interval, also used for rate ranges such as (15, 30) fps.
type Interval struct {
	Lower float64
	Upper float64
}

func (i Interval) Contains(x float64) bool { return x >= i.Lower && x <= i.Upper }

func (i Interval) String() string {
	return "[" + formatNumber(i.Lower) + ", " + formatNumber(i.Upper) + "]"
}

// Value is one concrete setting value. Values are comparable with Equal and render
// deterministically with String.
type Value struct {
	kind     ValueKind
	text     string
	num      float64
	interval Interval
	vector   []float64
}

func Enum(name string) Value { return Value{kind: KindEnum, text: name} }
func Bool(b bool) Value      { return Value{kind: KindBool, num: boolNum(b)} }
func Int(n int64) Value      { return Value{kind: KindInt, num: float64(n)} }
func Float(f float64) Value  { return Value{kind: KindFloat, num: f} }
func Span(lo, hi float64) Value {
	return Value{kind: KindInterval, interval: Interval{Lower: lo, Upper: hi}}
}
func Vector(xs ...float64) Value {
	return Value{kind: KindVector, vector: append([]float64(nil), xs...)}
}

func boolNum(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func (v Value) Kind() ValueKind { return v.kind }
func (v Value) IsZero() bool    { return v.kind == KindNone }

// Name returns the enum name, or "" for other kinds.
func (v Value) Name() string {
	if v.kind != KindEnum {
		return ""
	}
	return v.text
}

func (v Value) Bool() bool { return v.kind == KindBool && v.num != 0 }

// Number returns the numeric payload of Int, Float and Bool values.
func (v Value) Number() (float64, bool) {
	switch v.kind {
	case KindInt, KindFloat, KindBool:
		return v.num, true
	default:
		return 0, false
	}
}

func (v Value) Interval() (Interval, bool) {
	if v.kind != KindInterval {
		return Interval{}, false
	}
	return v.interval, true
}

func (v Value) Vector() []float64 {
	if v.kind != KindVector {
		return nil
	}
	return append([]float64(nil), v.vector...)
}

// Equal compares kind and payload. Int and Float values with the same number are equal.
func (v Value) Equal(o Value) bool {
	if v.numeric() && o.numeric() {
		return v.num == o.num
	}
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindEnum:
		return v.text == o.text
	case KindBool:
		return v.num == o.num
	case KindInterval:
		return v.interval == o.interval
	case KindVector:
		if len(v.vector) != len(o.vector) {
			return false
		}
		for i := range v.vector {
			if v.vector[i] != o.vector[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

func (v Value) numeric() bool { return v.kind == KindInt || v.kind == KindFloat }

func (v Value) String() string {
	switch v.kind {
	case KindEnum:
		return v.text
	case KindBool:
		return strconv.FormatBool(v.num != 0)
	case KindInt, KindFloat:
		return formatNumber(v.num)
	case KindInterval:
		return v.interval.String()
	case KindVector:
		parts := make([]string, 0, len(v.vector))
		for _, x := range v.vector {
			parts = append(parts, formatNumber(x))
		}
		return "(" + strings.Join(parts, ", ") + ")"
	default:
		return ""
	}
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// ParseValue interprets a literal. "true" and "false" become Bool, integers become Int,
// other numbers Float, "[lo, hi]" an Interval, and anything else an upper-cased Enum.
func ParseValue(raw string) Value {
	s := strings.TrimSpace(raw)
	switch strings.ToLower(s) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	}
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return Int(n)
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return Float(f)
	}
	if strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") {
		parts := strings.Split(strings.Trim(s, "[]"), ",")
		if len(parts) == 2 {
			lo, errLo := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
			hi, errHi := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
			if errLo == nil && errHi == nil {
				return Span(lo, hi)
			}
		}
	}
	return Enum(strings.ToUpper(s))
}
