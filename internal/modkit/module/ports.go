package module

import (
	"fmt"
	"reflect"
)

// PortsOf pulls an interface T out of a module's Ports bundle
// the bundle may implement T itself or carry it in an exported struct field
func PortsOf[T any](m Module) (T, bool) {
	var zero T
	if m == nil {
		return zero, false
	}
	return portIn[T](m.Ports())
}

// MustPortsOf is PortsOf that panics naming the module and the wanted type
func MustPortsOf[T any](m Module) T {
	if v, ok := PortsOf[T](m); ok {
		return v
	}
	name := "<nil>"
	if m != nil {
		name = m.Name()
	}
	panic(fmt.Sprintf("module: %s exposes no %s port", name, reflect.TypeFor[T]()))
}

func portIn[T any](p any) (T, bool) {
	var zero T
	if p == nil {
		return zero, false
	}
	if v, ok := p.(T); ok {
		return v, true
	}
	rv := reflect.ValueOf(p)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return zero, false
		}
		rv = rv.Elem()
	}
	if rv.Kind() != reflect.Struct {
		return zero, false
	}
	for i := 0; i < rv.NumField(); i++ {
		f := rv.Field(i)
		if !f.CanInterface() {
			continue
		}
		if v, ok := f.Interface().(T); ok {
			return v, true
		}
	}
	return zero, false
}
