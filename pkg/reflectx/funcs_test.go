package reflectx

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func namedFunction(s string) string { return s }

type handlerFunc func(string) string

func TestIsFunction(t *testing.T) {
	assert.True(t, IsFunction(namedFunction))
	assert.True(t, IsFunction(func() {}))
	assert.False(t, IsFunction(nil))
	assert.False(t, IsFunction("not a function"))
	assert.False(t, IsFunction(42))
}

func TestFunctionName(t *testing.T) {
	assert.Equal(t, "namedFunction", FunctionName(namedFunction))
	assert.Equal(t, "", FunctionName(nil))
	assert.Equal(t, "", FunctionName(12))

	var hf handlerFunc = namedFunction
	assert.Equal(t, "reflectx.handlerFunc", FunctionName(hf))
}

func TestIsRefinedType(t *testing.T) {
	type vars map[string]any

	assert.True(t, IsRefinedType[vars](reflect.TypeOf(vars{})))
	assert.False(t, IsRefinedType[vars](reflect.TypeOf(map[string]any{})))
	assert.False(t, IsRefinedType[vars](reflect.TypeOf("")))
}
