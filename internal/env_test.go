package internal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ident(lexeme string) *token {
	return &token{token: tkIdentifier, lexeme: lexeme, line: 1}
}

func TestEnvDefineGet(t *testing.T) {
	global := newEnv(nil)
	global.define("a", loxNumber(1))

	v, err := global.get(ident("a"))
	require.NoError(t, err)
	assert.Equal(t, loxNumber(1), v)

	// Redefinition replaces the value
	global.define("a", loxString("x"))
	v, err = global.get(ident("a"))
	require.NoError(t, err)
	assert.Equal(t, loxString("x"), v)

	inner := newEnv(global)
	v, err = inner.get(ident("a"))
	require.NoError(t, err)
	assert.Equal(t, loxString("x"), v)

	_, err = inner.get(ident("missing"))
	assert.ErrorIs(t, err, errUndefinedVar)
	assert.EqualError(t, err, "Undefined variable 'missing'.")
}

func TestEnvAssign(t *testing.T) {
	global := newEnv(nil)
	global.define("a", loxNumber(1))
	inner := newEnv(global)

	require.NoError(t, inner.assign(ident("a"), loxNumber(2)))
	assert.Equal(t, loxNumber(2), global.values["a"])
	_, definedInner := inner.values["a"]
	assert.False(t, definedInner)

	err := inner.assign(ident("b"), loxNumber(3))
	assert.ErrorIs(t, err, errUndefinedVar)
	_, definedGlobal := global.values["b"]
	assert.False(t, definedGlobal)
}

func TestEnvAt(t *testing.T) {
	outer := newEnv(nil)
	middle := newEnv(outer)
	inner := newEnv(middle)

	outer.define("a", loxString("outer"))
	inner.define("a", loxString("inner"))

	assert.Equal(t, inner, inner.ancestor(0))
	assert.Equal(t, outer, inner.ancestor(2))
	assert.Equal(t, loxString("inner"), inner.getAt(0, "a"))
	assert.Equal(t, loxString("outer"), inner.getAt(2, "a"))
	assert.Nil(t, inner.getAt(1, "a"))

	inner.assignAt(2, ident("a"), loxNumber(9))
	assert.Equal(t, loxNumber(9), outer.values["a"])
	assert.Equal(t, loxString("inner"), inner.values["a"])
}

func TestValues(t *testing.T) {
	assert.False(t, truthy(nil))
	assert.False(t, truthy(loxBool(false)))
	assert.True(t, truthy(loxNumber(0)))
	assert.True(t, truthy(loxString("")))

	class := &loxClass{name: "A", methods: map[string]*loxFunction{}}
	other := &loxClass{name: "A", methods: map[string]*loxFunction{}}
	obj := &loxObject{class: class, fields: map[string]interface{}{}}

	assert.True(t, isEqual(nil, nil))
	assert.False(t, isEqual(nil, loxBool(false)))
	assert.False(t, isEqual(loxNumber(1), loxString("1")))
	assert.True(t, isEqual(class, other))
	assert.True(t, isEqual(obj, obj))
	assert.False(t, isEqual(obj, &loxObject{class: class, fields: map[string]interface{}{}}))

	assert.Equal(t, "3", stringify(loxNumber(3), "nil"))
	assert.Equal(t, "-0.25", stringify(loxNumber(-0.25), "nil"))
	assert.Equal(t, "none", stringify(nil, "none"))
	assert.Equal(t, "A instance", stringify(obj, "nil"))
}
