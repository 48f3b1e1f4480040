package core

import (
	"fmt"

	"github.com/gocrud/bootstrap/config"
	"github.com/gocrud/bootstrap/di"
	"github.com/gocrud/bootstrap/logging"
)

// Runtime 是引导过程的状态容器
// Option 修改它，Boot 按顺序消费它
type Runtime struct {
	// Config 配置构建器，Option 向其中追加配置源
	Config *config.Builder

	// Configuration 构建完成的配置，BuildConfiguration 之后可用
	Configuration config.Configuration

	// LoggerFactory 日志工厂，BuildLogging 之后可用
	LoggerFactory logging.LoggerFactory

	// Logger 引导日志记录器
	Logger logging.Logger

	// Container 引导成功后的服务容器
	Container *di.Container

	definitions       []*di.ServiceDefinition
	modules           []Module
	moduleNames       map[string]struct{}
	loggingConfigures []func(*logging.LoggingBuilder)
	containerOptions  []di.ContainerOption
}

// NewRuntime 创建一个新的运行时实例
func NewRuntime() *Runtime {
	return &Runtime{
		Config:      config.NewBuilder(),
		Logger:      logging.Discard(),
		moduleNames: make(map[string]struct{}),
	}
}

// Apply 应用多个 Option
func (rt *Runtime) Apply(opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(rt); err != nil {
			return err
		}
	}
	return nil
}

// AddServices 追加服务定义
func (rt *Runtime) AddServices(defs ...*di.ServiceDefinition) {
	rt.definitions = append(rt.definitions, defs...)
}

// AddModule 追加模块，模块名必须唯一
func (rt *Runtime) AddModule(m Module) error {
	if err := validateModule(m); err != nil {
		return err
	}
	if _, exists := rt.moduleNames[m.Name()]; exists {
		return fmt.Errorf("core: duplicate module %q", m.Name())
	}
	rt.moduleNames[m.Name()] = struct{}{}
	rt.modules = append(rt.modules, m)
	return nil
}

// Modules 返回已添加的模块
func (rt *Runtime) Modules() []Module {
	return rt.modules
}

// BuildConfiguration 构建配置
func (rt *Runtime) BuildConfiguration() (config.Configuration, error) {
	cfg, err := rt.Config.Build()
	if err != nil {
		return nil, fmt.Errorf("core: build configuration: %w", err)
	}
	rt.Configuration = cfg
	return cfg, nil
}

// BuildLogging 按设置构建日志工厂
// 设置中的级别先生效，WithLogging 注册的配置函数随后执行，可以覆盖它；
// 没有任何提供者时按设置添加控制台输出
func (rt *Runtime) BuildLogging(settings Settings) (logging.LoggerFactory, error) {
	level, err := logging.ParseLevel(settings.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}

	builder := logging.NewLoggingBuilder().SetMinimumLevel(level)
	for _, configure := range rt.loggingConfigures {
		configure(builder)
	}

	if builder.ProviderCount() == 0 {
		opts, err := settings.Logging.consoleOptions()
		if err != nil {
			return nil, err
		}
		builder.AddConsole(opts)
	}

	rt.LoggerFactory = builder.Build()
	rt.Logger = rt.LoggerFactory.CreateLogger("bootstrap")
	return rt.LoggerFactory, nil
}

// ContainerOptions 返回通过 Option 追加的容器选项
func (rt *Runtime) ContainerOptions() []di.ContainerOption {
	return rt.containerOptions
}

// Definitions 汇总内置服务、直接注册的服务和模块服务
// 调用前必须已经构建配置与日志
func (rt *Runtime) Definitions() ([]*di.ServiceDefinition, error) {
	if rt.Configuration == nil || rt.LoggerFactory == nil {
		return nil, fmt.Errorf("core: configuration and logging must be built before collecting services")
	}

	defs := []*di.ServiceDefinition{
		di.Value(rt),
		di.Value(rt.Configuration, di.As[config.Configuration]()),
		di.Value(rt.LoggerFactory, di.As[logging.LoggerFactory]()),
		di.Value(rt.Logger, di.As[logging.Logger]()),
	}
	defs = append(defs, rt.definitions...)

	for _, m := range rt.modules {
		services := m.Services(rt.Configuration)
		rt.Logger.Debug("module loaded",
			logging.Field{Key: "module", Value: m.Name()},
			logging.Field{Key: "services", Value: len(services)})
		defs = append(defs, services...)
	}
	return defs, nil
}
