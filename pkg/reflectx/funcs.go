// Package reflectx holds the runtime reflection helpers used to derive
// tool metadata from plain Go functions.
package reflectx

import (
	"reflect"
	"runtime"
	"strings"
)

// IsFunction reports whether fn is a function value.
func IsFunction(fn any) bool {
	if fn == nil {
		return false
	}
	return reflect.TypeOf(fn).Kind() == reflect.Func
}

// FunctionName best-effort resolves the name of a function value.
//
// Named function types report their type name. Methods and package-level
// functions are resolved through the runtime symbol table, trimmed to the
// last path segment with any method-value suffix removed. Anonymous
// functions fall back to their type signature.
func FunctionName(fn any) string {
	if !IsFunction(fn) {
		return ""
	}

	val := reflect.ValueOf(fn)
	typ := val.Type()

	if typ.Name() != "" {
		return typ.String()
	}

	if rf := runtime.FuncForPC(val.Pointer()); rf != nil {
		name := rf.Name()
		if lastDot := strings.LastIndex(name, "."); lastDot >= 0 {
			name = name[lastDot+1:]
		}
		return strings.TrimSuffix(name, "-fm")
	}
	return typ.String()
}

// IsRefinedType reports whether value is exactly the reflect.Type of R.
func IsRefinedType[R any](value reflect.Type) bool {
	var toMatch R
	return reflect.TypeOf(toMatch) == value
}
