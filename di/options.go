package di

import (
	"reflect"

	"github.com/gocrud/bootstrap/logging"
)

// DefaultHookName 是默认的 post-init 钩子方法名。
const DefaultHookName = "PostInit"

// Option 配置服务注册。
type Option func(*ServiceDefinition)

// WithSingleton 为服务追加 Singleton 标记。
// 用于无法嵌入 di.Singleton 的类型（例如第三方类型）。
func WithSingleton() Option {
	return func(s *ServiceDefinition) {
		s.marks |= markSingleton
	}
}

// WithTransient 为服务追加 Transient 标记。
func WithTransient() Option {
	return func(s *ServiceDefinition) {
		s.marks |= markTransient
	}
}

// WithHook 指定该服务的 post-init 钩子方法名。
func WithHook(name string) Option {
	return func(s *ServiceDefinition) {
		s.Hook = name
	}
}

// As 将服务注册为接口 T，构造函数的返回类型必须可赋值给 T。
func As[T any]() Option {
	return func(s *ServiceDefinition) {
		s.Type = TypeOf[T]()
	}
}

// Provide 使用构造函数定义服务。
// 构造函数签名为 func(deps...) T 或 func(deps...) (T, error)，服务类型为 T。
// 参数类型为 Provider[U] 时视为延迟依赖，其余参数均为直接依赖。
func Provide(constructor any, opts ...Option) *ServiceDefinition {
	def := &ServiceDefinition{Impl: constructor}
	if fnType := reflect.TypeOf(constructor); fnType != nil {
		def.Type = fnType
		if fnType.Kind() == reflect.Func && fnType.NumOut() > 0 {
			def.Type = fnType.Out(0)
		}
	}
	return apply(def, opts)
}

// ProvideType 定义一个没有显式构造函数的服务。
// 只有结构体指针类型可用，此时以零值 &T{} 作为无参构造函数。
func ProvideType(typ reflect.Type, opts ...Option) *ServiceDefinition {
	def := &ServiceDefinition{Type: typ, ImplType: typ}
	return apply(def, opts)
}

// Value 将预构建实例注册为单例。值不会被构造，也不会执行 post-init 钩子。
func Value(v any, opts ...Option) *ServiceDefinition {
	def := &ServiceDefinition{
		Type:    reflect.TypeOf(v),
		Impl:    v,
		IsValue: true,
	}
	return apply(def, opts)
}

func apply(def *ServiceDefinition, opts []Option) *ServiceDefinition {
	for _, opt := range opts {
		opt(def)
	}
	return def
}

// ContainerOption 配置容器本身。
type ContainerOption func(*Container)

// WithLogger 设置容器日志记录器，默认丢弃所有日志。
func WithLogger(logger logging.Logger) ContainerOption {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger.WithCategory("di")
		}
	}
}

// WithHookName 修改容器默认的 post-init 钩子方法名。
func WithHookName(name string) ContainerOption {
	return func(c *Container) {
		if name != "" {
			c.hookName = name
		}
	}
}
