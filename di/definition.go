package di

import (
	"reflect"
	"strings"
)

// ScopeType 定义了服务的生命周期。
type ScopeType int

const (
	scopeUnknown ScopeType = iota
	// ScopeSingleton 每个容器只创建一个实例，在 Init 期间急切构建。
	ScopeSingleton
	// ScopeTransient 每次解析都创建一个新实例，不缓存。
	ScopeTransient
)

// String 返回生命周期的可读名称。
func (s ScopeType) String() string {
	switch s {
	case ScopeSingleton:
		return "singleton"
	case ScopeTransient:
		return "transient"
	default:
		return "unknown"
	}
}

// Singleton 是单例生命周期标记，嵌入到服务结构体中使用：
//
//	type AssetCache struct {
//		di.Singleton
//		entries map[string][]byte
//	}
type Singleton struct{}

func (Singleton) singletonLifetime() {}

// Transient 是瞬态生命周期标记，用法同 Singleton。
type Transient struct{}

func (Transient) transientLifetime() {}

// SingletonService 可嵌入到接口服务类型中，要求其实现携带 Singleton 标记。
type SingletonService interface {
	singletonLifetime()
}

// TransientService 可嵌入到接口服务类型中，要求其实现携带 Transient 标记。
type TransientService interface {
	transientLifetime()
}

var (
	singletonMarkerType = TypeOf[SingletonService]()
	transientMarkerType = TypeOf[TransientService]()
	errorType           = TypeOf[error]()
)

// lifetimeMarks 记录一个服务声明过的生命周期标记（可能同时存在多个，用于冲突检测）。
type lifetimeMarks uint8

const (
	markSingleton lifetimeMarks = 1 << iota
	markTransient
)

// marksOf 收集类型本身携带的生命周期标记。
func marksOf(t reflect.Type) lifetimeMarks {
	var m lifetimeMarks
	if t == nil {
		return m
	}
	if t.Implements(singletonMarkerType) {
		m |= markSingleton
	}
	if t.Implements(transientMarkerType) {
		m |= markTransient
	}
	return m
}

// ServiceDefinition 描述一个待注册的服务：它的类型、构造方式以及声明的选项。
// 使用 Provide、ProvideType 或 Value 创建，交给 Container.Init。
type ServiceDefinition struct {
	// Type 服务类型，即解析时使用的键
	Type reflect.Type
	// Impl 构造函数或预构建实例
	Impl any
	// ImplType 没有构造函数时的裸类型（ProvideType）
	ImplType reflect.Type
	// IsValue 表示 Impl 是预构建实例
	IsValue bool
	// Hook 覆盖容器默认的 post-init 钩子方法名
	Hook string

	marks lifetimeMarks
}

// DependencyRef 是服务描述符中的一条依赖，顺序与构造函数参数一致。
type DependencyRef struct {
	// Target 依赖的服务类型；Deferred 时为 Provider 的目标类型
	Target reflect.Type
	// Deferred 为 true 表示参数是 Provider[Target]，不参与急切循环检测
	Deferred bool

	param reflect.Type
}

// String 返回依赖的可读形式，例如 "*engine.World" 或 "Provider[*engine.World]"。
func (d DependencyRef) String() string {
	if d.Deferred {
		return "Provider[" + d.Target.String() + "]"
	}
	return d.Target.String()
}

// ServiceDescriptor 是注册完成后的不可变服务描述。
type ServiceDescriptor struct {
	Type         reflect.Type
	Lifetime     ScopeType
	Dependencies []DependencyRef

	invoke invoker
	value  reflect.Value
	hook   string
}

// ServiceInfo 是 Container.Services 返回的诊断信息。
type ServiceInfo struct {
	Type         reflect.Type
	Lifetime     ScopeType
	Dependencies []DependencyRef
}

// String 返回形如 "*engine.World (singleton) <- *engine.AssetCache, Provider[engine.Renderer]" 的描述。
func (s ServiceInfo) String() string {
	var b strings.Builder
	b.WriteString(s.Type.String())
	b.WriteString(" (")
	b.WriteString(s.Lifetime.String())
	b.WriteString(")")
	for i, dep := range s.Dependencies {
		if i == 0 {
			b.WriteString(" <- ")
		} else {
			b.WriteString(", ")
		}
		b.WriteString(dep.String())
	}
	return b.String()
}
