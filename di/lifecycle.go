package di

import (
	"fmt"
	"reflect"

	"github.com/gocrud/bootstrap/logging"
)

// instanceState 是实例的生命周期状态：CREATED -> POST_INIT -> DONE。
type instanceState int

const (
	stateCreated instanceState = iota
	statePostInit
	stateDone
)

// instance 是构造出的值及其生命周期状态。
// deps 保存构造时解析出的直接依赖实例，钩子按它们的顺序先行执行。
type instance struct {
	descriptor *ServiceDescriptor
	value      reflect.Value
	deps       []*instance
	state      instanceState
}

// runPostInit 对实例执行一次性的 post-init 钩子。
// 所有直接依赖的钩子都在本实例钩子之前完成；已在进行中或已完成的实例直接返回，
// 因此菱形依赖只执行一次，经由 Provider 回到进行中的实例也不会无限递归。
func (c *Container) runPostInit(inst *instance) error {
	if inst.state != stateCreated {
		return nil
	}
	inst.state = statePostInit

	for _, dep := range inst.deps {
		if err := c.runPostInit(dep); err != nil {
			return err
		}
	}

	if err := c.invokeHook(inst); err != nil {
		return err
	}

	inst.state = stateDone
	return nil
}

func (c *Container) invokeHook(inst *instance) error {
	name := inst.descriptor.hook
	if name == "" {
		return nil
	}

	method := inst.value.MethodByName(name)
	if !method.IsValid() {
		return checkPointerHook(inst.value.Type(), name)
	}
	if err := validateHook(inst.value.Type(), name, method.Type(), 0); err != nil {
		return err
	}

	c.logger.Trace("running post-init hook",
		logging.Field{Key: "service", Value: inst.descriptor.Type.String()},
		logging.Field{Key: "hook", Value: name})

	out := method.Call(nil)
	if len(out) == 1 && !out[0].IsNil() {
		return fmt.Errorf("di: post-init hook %s.%s: %w", inst.descriptor.Type, name, out[0].Interface().(error))
	}
	return nil
}

// checkHook 在注册期按静态类型校验钩子签名。类型及其指针上都没有该方法时不报错。
func checkHook(t reflect.Type, name string) error {
	if name == "" {
		return nil
	}
	m, ok := t.MethodByName(name)
	if !ok {
		return checkPointerHook(t, name)
	}
	// 非接口类型的方法签名包含接收者
	skip := 1
	if t.Kind() == reflect.Interface {
		skip = 0
	}
	return validateHook(t, name, m.Type, skip)
}

// checkPointerHook 值类型的服务无法调用指针接收者上的钩子。
func checkPointerHook(t reflect.Type, name string) error {
	if t.Kind() == reflect.Pointer || t.Kind() == reflect.Interface {
		return nil
	}
	if _, ok := reflect.PointerTo(t).MethodByName(name); ok {
		return fmt.Errorf("%w: %s.%s has a pointer receiver, register %s instead", ErrInvalidHookSignature, t, name, reflect.PointerTo(t))
	}
	return nil
}

// validateHook 钩子必须是 func() 或 func() error。
func validateHook(owner reflect.Type, name string, fn reflect.Type, skip int) error {
	valid := fn.NumIn() == skip &&
		(fn.NumOut() == 0 || (fn.NumOut() == 1 && fn.Out(0) == errorType))
	if !valid {
		return fmt.Errorf("%w: %s.%s must be func() or func() error, got %s", ErrInvalidHookSignature, owner, name, fn)
	}
	return nil
}
