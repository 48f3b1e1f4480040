package bootstrap

import (
	"fmt"
	"time"

	"github.com/gocrud/bootstrap/core"
	"github.com/gocrud/bootstrap/di"
	"github.com/gocrud/bootstrap/logging"
)

// Boot 引导应用程序
// 这是基于微内核架构的唯一入口，任何一步失败都会中止引导，不返回半成品容器
//
//	rt, err := bootstrap.Boot(
//		core.WithConfigFile("engine.yaml", true),
//		core.WithEnvironment("ENGINE_"),
//		core.WithModules(assets.Module{}, render.Module{}),
//	)
func Boot(opts ...core.Option) (*core.Runtime, error) {
	start := time.Now()
	rt := core.NewRuntime()

	// 1. 应用所有选项
	if err := rt.Apply(opts...); err != nil {
		return nil, err
	}

	// 2. 构建配置并读取引导设置
	cfg, err := rt.BuildConfiguration()
	if err != nil {
		return nil, err
	}
	settings, err := core.LoadSettings(cfg)
	if err != nil {
		return nil, err
	}

	// 3. 构建日志
	if _, err := rt.BuildLogging(settings); err != nil {
		return nil, err
	}
	logger := rt.Logger

	// 4. 汇总服务定义（内置服务、直接注册的服务、模块服务）
	defs, err := rt.Definitions()
	if err != nil {
		return nil, err
	}

	// 5. 初始化容器
	containerOpts := []di.ContainerOption{
		di.WithLogger(logger),
		di.WithHookName(settings.Container.Hook),
	}
	containerOpts = append(containerOpts, rt.ContainerOptions()...)

	container := di.New(containerOpts...)
	if err := container.Init(defs...); err != nil {
		logger.Error("bootstrap failed", logging.Field{Key: "error", Value: err.Error()})
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	rt.Container = container

	logger.Info("bootstrap completed",
		logging.Field{Key: "container", Value: container.ID()},
		logging.Field{Key: "modules", Value: len(rt.Modules())},
		logging.Field{Key: "elapsed", Value: time.Since(start).String()})
	return rt, nil
}

// MustBoot 与 Boot 相同，失败时 panic
func MustBoot(opts ...core.Option) *core.Runtime {
	rt, err := Boot(opts...)
	if err != nil {
		panic(err)
	}
	return rt
}
