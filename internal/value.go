package internal

import (
	"strconv"
)

// R generic type
type R interface{}

type loxString string

type loxNumber float64

type loxBool bool

// returnValue is the outcome of executing a return statement. It travels back
// through statement results, never through the error channel.
type returnValue struct {
	value interface{}
}

func (n loxNumber) String() string {
	return strconv.FormatFloat(float64(n), 'f', -1, 64)
}

func (s loxString) String() string {
	return string(s)
}

func (b loxBool) String() string {
	return strconv.FormatBool(bool(b))
}

func truthy(value interface{}) bool {
	switch v := value.(type) {
	case nil:
		return false
	case loxBool:
		return bool(v)
	}
	return true
}

func isEqual(a, b interface{}) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case loxNumber:
		y, ok := b.(loxNumber)
		return ok && float64(x) == float64(y)
	case loxString:
		y, ok := b.(loxString)
		return ok && x == y
	case loxBool:
		y, ok := b.(loxBool)
		return ok && x == y
	case *loxClass:
		y, ok := b.(*loxClass)
		return ok && x.name == y.name
	case *loxFunction:
		y, ok := b.(*loxFunction)
		return ok && x == y
	case *nativeFn:
		y, ok := b.(*nativeFn)
		return ok && x == y
	case *loxObject:
		y, ok := b.(*loxObject)
		return ok && x == y
	}
	return false
}

func stringify(value interface{}, nilMarker string) string {
	switch v := value.(type) {
	case nil:
		return nilMarker
	case loxNumber:
		return v.String()
	case loxString:
		return v.String()
	case loxBool:
		return v.String()
	case *loxFunction:
		return v.String()
	case *nativeFn:
		return v.String()
	case *loxClass:
		return v.String()
	case *loxObject:
		return v.String()
	}
	return "<unknown>"
}
