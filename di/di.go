package di

import (
	"fmt"
	"reflect"
)

// Resolve 从容器中解析类型 T 的实例。
func Resolve[T any](c *Container) (T, error) {
	var zero T
	typ := TypeOf[T]()

	val, err := c.Get(typ)
	if err != nil {
		return zero, err
	}

	if v, ok := val.(T); ok {
		return v, nil
	}
	return zero, fmt.Errorf("di: resolved value is %T, expected %v", val, typ)
}

// MustResolve 与 Resolve 相同，失败时 panic。
func MustResolve[T any](c *Container) T {
	v, err := Resolve[T](c)
	if err != nil {
		panic(err)
	}
	return v
}

// GetProvider 返回绑定到 T 的延迟句柄，调用本身从不失败；
// 解析错误在 Provider.Get 时才出现。
func GetProvider[T any](c *Container) Provider[T] {
	return Provider[T]{c: c}
}

// TypeOf 获取类型 T 的 reflect.Type，对接口类型同样有效。
//
//	rendererType := di.TypeOf[Renderer]()
func TypeOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}
