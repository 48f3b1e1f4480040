package core

import (
	"errors"
	"reflect"

	"github.com/gocrud/bootstrap/config"
	"github.com/gocrud/bootstrap/di"
)

// Module 是一组相关服务的注册单元（例如资源系统、渲染器）
type Module interface {
	// Name 返回模块名称，用于日志记录和去重
	Name() string
	// Services 返回模块的服务定义，可以根据配置决定注册哪些服务
	Services(cfg config.Configuration) []*di.ServiceDefinition
}

// ModuleFunc 把函数适配为 Module
type ModuleFunc struct {
	ModuleName string
	Register   func(cfg config.Configuration) []*di.ServiceDefinition
}

func (m ModuleFunc) Name() string {
	return m.ModuleName
}

func (m ModuleFunc) Services(cfg config.Configuration) []*di.ServiceDefinition {
	if m.Register == nil {
		return nil
	}
	return m.Register(cfg)
}

// validateModule 验证模块是否可用
func validateModule(m Module) error {
	if m == nil {
		return errors.New("core: module is nil")
	}
	if v := reflect.ValueOf(m); v.Kind() == reflect.Pointer && v.IsNil() {
		return errors.New("core: module is a nil pointer")
	}
	if m.Name() == "" {
		return errors.New("core: module name is empty")
	}
	return nil
}
