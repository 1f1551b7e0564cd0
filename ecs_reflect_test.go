package wgpustein

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComponentTypeOf(t *testing.T) {
	type myComponent struct{ A int }

	assert.Equal(t, reflect.TypeOf(myComponent{}), componentTypeOf(myComponent{}))
	assert.Equal(t, reflect.TypeOf(myComponent{}), componentTypeOf(&myComponent{}))

	assert.Panics(t, func() { componentTypeOf(123) })
	assert.Panics(t, func() { componentTypeOf(nil) })
	assert.Panics(t, func() { componentTypeOf([]int{1}) })
}

func TestReflectSlice_MakeAppendGet(t *testing.T) {
	type myComponent struct{ A int }

	slice := reflectSliceMake(reflect.TypeOf(myComponent{}))
	assert.Equal(t, reflect.TypeOf([]myComponent{}), reflect.TypeOf(slice))
	assert.Equal(t, 0, reflectSliceLen(slice))

	for i := 0; i < 5; i++ {
		slice = reflectSliceAppend(slice, reflect.ValueOf(myComponent{A: i}))
	}
	assert.Equal(t, 5, reflectSliceLen(slice))
	assert.Equal(t, myComponent{A: 3}, reflectSliceGet(slice, 3).Interface())

	reflectSliceSet(slice, 3, reflect.ValueOf(myComponent{A: 99}))
	assert.Equal(t, 99, slice.([]myComponent)[3].A)
}

func TestReflectSlice_Panics(t *testing.T) {
	assert.Panics(t, func() { reflectSliceGet([]int{1, 2}, 10) }, "out of bounds")
	assert.Panics(t, func() { reflectSliceSet([]int{1, 2}, 0, reflect.ValueOf("wrong type")) })
	assert.Panics(t, func() { reflectSliceAppend([]int{}, reflect.ValueOf("string")) })
	assert.Panics(t, func() { reflectSliceLen(123) })
}
