package di

import (
	"errors"
	"fmt"
	"reflect"
)

// invoker 封装了反射调用的细节，返回值已解包为动态类型。
type invoker func(args []reflect.Value) (reflect.Value, error)

// constructorInfo 是对构造函数签名的预计算结果。
type constructorInfo struct {
	params []reflect.Type
	out    reflect.Type
	invoke invoker
}

// inspectConstructor 检查定义的主构造函数。
func inspectConstructor(def *ServiceDefinition) (*constructorInfo, error) {
	if def.ImplType != nil {
		info, err := inspectZeroValue(def.ImplType)
		if err != nil {
			return nil, err
		}
		if !info.out.AssignableTo(def.Type) {
			return nil, fmt.Errorf("%w: %s is not assignable to %s", ErrNoConstructor, info.out, def.Type)
		}
		return info, nil
	}

	fnType := reflect.TypeOf(def.Impl)
	if fnType == nil || fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %s is not a constructor function", ErrNoConstructor, def.Type)
	}
	if fnType.IsVariadic() {
		return nil, fmt.Errorf("%w: variadic constructor %s", ErrNoConstructor, fnType)
	}

	switch fnType.NumOut() {
	case 1:
	case 2:
		if fnType.Out(1) != errorType {
			return nil, fmt.Errorf("%w: second return value of %s must be error", ErrNoConstructor, fnType)
		}
	default:
		return nil, fmt.Errorf("%w: %s must return (T) or (T, error)", ErrNoConstructor, fnType)
	}

	out := fnType.Out(0)
	if !out.AssignableTo(def.Type) {
		return nil, fmt.Errorf("%w: %s returns %s, not assignable to %s", ErrNoConstructor, fnType, out, def.Type)
	}

	params := make([]reflect.Type, fnType.NumIn())
	for i := range params {
		params[i] = fnType.In(i)
	}

	return &constructorInfo{
		params: params,
		out:    out,
		invoke: createConstructorInvoker(reflect.ValueOf(def.Impl), fnType.NumOut() == 2),
	}, nil
}

// inspectZeroValue 为结构体指针类型生成零值构造函数。
func inspectZeroValue(typ reflect.Type) (*constructorInfo, error) {
	if typ.Kind() != reflect.Pointer || typ.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: %s has no constructor and is not a struct pointer", ErrNoConstructor, typ)
	}
	elem := typ.Elem()
	return &constructorInfo{
		out: typ,
		invoke: func([]reflect.Value) (reflect.Value, error) {
			return reflect.New(elem), nil
		},
	}, nil
}

// createConstructorInvoker 创建构造函数调用器。
// 构造函数中的 panic 会被转换为错误。
func createConstructorInvoker(fn reflect.Value, returnsError bool) invoker {
	return func(args []reflect.Value) (result reflect.Value, err error) {
		defer func() {
			if r := recover(); r != nil {
				if e, ok := r.(error); ok {
					err = fmt.Errorf("constructor panicked: %w", e)
				} else {
					err = fmt.Errorf("constructor panicked: %v", r)
				}
			}
		}()

		results := fn.Call(args)

		if returnsError {
			if last := results[1]; !last.IsNil() {
				return reflect.Value{}, last.Interface().(error)
			}
		}

		first := results[0]
		switch first.Kind() {
		case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
			if first.IsNil() {
				return reflect.Value{}, errors.New("constructor returned nil instance")
			}
		}

		// 解包接口，确保后续按动态类型查找钩子方法
		return reflect.ValueOf(first.Interface()), nil
	}
}
