package di

import (
	"fmt"
	"reflect"
)

// Provider 是对服务 T 的延迟句柄。
//
// 将构造函数参数声明为 Provider[T] 而不是 T，可以合法地打破循环依赖：
// 该边不参与注册期的循环检测，T 只在调用 Get 时才被解析。
//
//	func NewWorld(assets *AssetCache, renderer di.Provider[Renderer]) *World
type Provider[T any] struct {
	c *Container
}

// deferred 由所有 Provider[T] 实现，用于在反射中识别延迟依赖。
type deferred interface {
	deferredTarget() reflect.Type
}

// binder 由 *Provider[T] 实现，用于在只知道 reflect.Type 时绑定容器。
type binder interface {
	bind(c *Container)
}

var deferredType = TypeOf[deferred]()

func (Provider[T]) deferredTarget() reflect.Type {
	return TypeOf[T]()
}

func (p *Provider[T]) bind(c *Container) {
	p.c = c
}

// deferredTarget 判断参数类型是否为 Provider[U]，并返回 U。
func deferredTarget(param reflect.Type) (reflect.Type, bool) {
	if param.Kind() != reflect.Struct || !param.Implements(deferredType) {
		return nil, false
	}
	return reflect.Zero(param).Interface().(deferred).deferredTarget(), true
}

// newProviderValue 创建绑定到 c 的 Provider 值，param 为 Provider[U] 的具体类型。
func newProviderValue(c *Container, param reflect.Type) reflect.Value {
	ptr := reflect.New(param)
	ptr.Interface().(binder).bind(c)
	return ptr.Elem()
}

// Get 解析 T。对单例目标每次返回同一实例，对瞬态目标每次返回新实例。
func (p Provider[T]) Get() (T, error) {
	return p.Resolve(TypeOf[T]())
}

// MustGet 与 Get 相同，失败时 panic。
func (p Provider[T]) MustGet() T {
	v, err := p.Get()
	if err != nil {
		panic(err)
	}
	return v
}

// Resolve 解析调用方指定的类型 typ，typ 必须可赋值给 T。
// 用于 Provider 声明在抽象（接口）类型上、调用方需要某个具体实现的场景。
func (p Provider[T]) Resolve(typ reflect.Type) (T, error) {
	var zero T
	base := TypeOf[T]()

	if p.c == nil {
		return zero, fmt.Errorf("%w: Provider[%s] is not bound to a container", ErrNotInitialized, base)
	}
	if typ == nil || !typ.AssignableTo(base) {
		return zero, fmt.Errorf("di: %v is not assignable to %s", typ, base)
	}

	val, err := p.c.resolve(typ)
	if err != nil {
		return zero, err
	}
	if v, ok := val.(T); ok {
		return v, nil
	}
	return zero, fmt.Errorf("di: resolved value is %T, expected %v", val, base)
}

// Narrow 通过 Provider[T] 解析其子类型 S。
//
//	circle, err := di.Narrow[*Circle](shapes)
func Narrow[S, T any](p Provider[T]) (S, error) {
	var zero S
	typ := TypeOf[S]()

	val, err := p.Resolve(typ)
	if err != nil {
		return zero, err
	}
	if v, ok := any(val).(S); ok {
		return v, nil
	}
	return zero, fmt.Errorf("di: resolved value is %T, expected %v", val, typ)
}
