package di

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

var (
	// ErrDuplicateService 同一类型被注册了两次。
	ErrDuplicateService = errors.New("di: duplicate service")

	// ErrMissingLifetime 服务既没有 Singleton 也没有 Transient 标记。
	ErrMissingLifetime = errors.New("di: missing lifetime marker")

	// ErrConflictingLifetime 服务同时携带 Singleton 和 Transient 标记。
	ErrConflictingLifetime = errors.New("di: conflicting lifetime markers")

	// ErrNoConstructor 服务没有可用的构造函数。
	ErrNoConstructor = errors.New("di: no usable constructor")

	// ErrCircularDependency 直接依赖构成了环。具体链路见 CircularDependencyError。
	ErrCircularDependency = errors.New("di: circular dependency")

	// ErrServiceCreation 构造函数失败。具体原因见 ServiceCreationError。
	ErrServiceCreation = errors.New("di: service creation failed")

	// ErrServiceNotFound 请求解析一个未注册的类型。
	ErrServiceNotFound = errors.New("di: service not found")

	// ErrInvalidHookSignature post-init 钩子声明了参数或非 error 的返回值。
	ErrInvalidHookSignature = errors.New("di: invalid post-init hook signature")

	// ErrNotInitialized 容器尚未完成 Init，或 Init 已失败。
	ErrNotInitialized = errors.New("di: container not initialized")

	// ErrAlreadyInitialized Init 被调用了不止一次。
	ErrAlreadyInitialized = errors.New("di: container already initialized")
)

// CircularDependencyError 携带检测到循环时的完整类型链。
type CircularDependencyError struct {
	Chain []reflect.Type
}

func newCircularError(chain []reflect.Type, typ reflect.Type) *CircularDependencyError {
	full := make([]reflect.Type, 0, len(chain)+1)
	full = append(full, chain...)
	full = append(full, typ)
	return &CircularDependencyError{Chain: full}
}

// Path 返回 "A -> B -> C -> A" 形式的链路。
func (e *CircularDependencyError) Path() string {
	names := make([]string, len(e.Chain))
	for i, t := range e.Chain {
		names[i] = t.String()
	}
	return strings.Join(names, " -> ")
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("%s: %s", ErrCircularDependency, e.Path())
}

func (e *CircularDependencyError) Unwrap() error {
	return ErrCircularDependency
}

// ServiceCreationError 包装构造失败的类型和原始原因。
type ServiceCreationError struct {
	Type  reflect.Type
	Cause error
}

func (e *ServiceCreationError) Error() string {
	return fmt.Sprintf("di: failed to create %s: %v", e.Type, e.Cause)
}

// Unwrap 同时暴露 ErrServiceCreation 和原始原因，二者都可用 errors.Is 匹配。
func (e *ServiceCreationError) Unwrap() []error {
	return []error{ErrServiceCreation, e.Cause}
}
