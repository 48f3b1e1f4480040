package core

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gocrud/bootstrap/config"
	"github.com/gocrud/bootstrap/di"
	"github.com/gocrud/bootstrap/logging"
)

// Option 定义了修改 Runtime 状态的函数签名
// 这是框架唯一的扩展点
type Option func(rt *Runtime) error

// WithConfigFile 添加配置文件，按扩展名选择 YAML 或 JSON
func WithConfigFile(path string, optional ...bool) Option {
	return func(rt *Runtime) error {
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			rt.Config.AddYamlFile(path, optional...)
		case ".json":
			rt.Config.AddJsonFile(path, optional...)
		default:
			return fmt.Errorf("core: unsupported config file %s", path)
		}
		return nil
	}
}

// WithEnvironment 添加带前缀的环境变量配置源
func WithEnvironment(prefix string) Option {
	return func(rt *Runtime) error {
		rt.Config.AddEnvironmentVariables(prefix)
		return nil
	}
}

// WithEtcd 添加 etcd 配置源
func WithEtcd(opts config.EtcdOptions) Option {
	return func(rt *Runtime) error {
		if len(opts.Endpoints) == 0 {
			return fmt.Errorf("core: etcd endpoints are required")
		}
		rt.Config.AddEtcd(opts)
		return nil
	}
}

// WithSettings 添加内存配置
func WithSettings(data map[string]any) Option {
	return func(rt *Runtime) error {
		rt.Config.AddInMemory(data)
		return nil
	}
}

// WithServices 直接注册服务定义
func WithServices(defs ...*di.ServiceDefinition) Option {
	return func(rt *Runtime) error {
		rt.AddServices(defs...)
		return nil
	}
}

// WithModules 添加模块
func WithModules(mods ...Module) Option {
	return func(rt *Runtime) error {
		for _, m := range mods {
			if err := rt.AddModule(m); err != nil {
				return err
			}
		}
		return nil
	}
}

// WithLogging 配置日志系统
func WithLogging(configure func(*logging.LoggingBuilder)) Option {
	return func(rt *Runtime) error {
		if configure != nil {
			rt.loggingConfigures = append(rt.loggingConfigures, configure)
		}
		return nil
	}
}

// WithContainer 追加容器选项，在配置文件中的设置之后生效
func WithContainer(opts ...di.ContainerOption) Option {
	return func(rt *Runtime) error {
		rt.containerOptions = append(rt.containerOptions, opts...)
		return nil
	}
}
