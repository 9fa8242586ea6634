package lox

import (
	"fmt"
	"strconv"
)

func (k ValueKind) String() string {
	switch k {
	case KindNil:
		return "nil"
	case KindBool:
		return "bool"
	case KindNumber:
		return "number"
	case KindString:
		return "string"
	case KindFunction:
		return "function"
	case KindNative:
		return "native function"
	case KindClass:
		return "class"
	case KindInstance:
		return "instance"
	case kindUnassigned:
		return "unassigned"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// String renders the value the way `print` shows it.
func (v Value) String() string {
	switch v.kind {
	case KindNil:
		return "nil"
	case KindBool:
		if v.Bool() {
			return "true"
		}
		return "false"
	case KindNumber:
		return formatNumber(v.data.(float64))
	case KindString:
		return v.data.(string)
	case KindFunction:
		return v.data.(*Function).String()
	case KindNative:
		return "<native fn>"
	case KindClass:
		return v.data.(*Class).Name
	case KindInstance:
		return v.data.(*Instance).Class.Name + " instance"
	default:
		return fmt.Sprintf("<%v>", v.kind)
	}
}

// formatNumber prints integral numbers without a trailing ".0".
func formatNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Truthy reports false only for nil and false.
func (v Value) Truthy() bool {
	switch v.kind {
	case KindNil:
		return false
	case KindBool:
		return v.Bool()
	default:
		return true
	}
}

// Equal compares primitives by value and objects by identity. nil equals
// only nil.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNil:
		return true
	case KindBool:
		return v.Bool() == other.Bool()
	case KindNumber:
		return v.Number() == other.Number()
	case KindString:
		return v.data.(string) == other.data.(string)
	default:
		return v.data == other.data
	}
}
