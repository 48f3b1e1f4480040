package etcd

import (
	"github.com/gocrud/bootstrap/config"
	"github.com/gocrud/bootstrap/di"
	"github.com/gocrud/bootstrap/logging"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// Section 是 etcd 客户端所在的配置节
//
//	etcd:
//	  clients:
//	    - name: default
//	      endpoints: ["localhost:2379"]
const Section = "etcd"

// DefaultClient 是以 *clientv3.Client 类型直接注册的客户端名称
const DefaultClient = "default"

// Settings etcd 模块设置
type Settings struct {
	Clients []ClientOptions `yaml:"clients"`
}

// Module 根据配置注册 etcd 客户端工厂，以及名为 default 的客户端
type Module struct{}

func (Module) Name() string { return "etcd" }

func (Module) Services(cfg config.Configuration) []*di.ServiceDefinition {
	settings, err := config.LoadOrDefault(cfg, Section, Settings{})
	if err == nil && len(settings.Clients) == 0 {
		return nil
	}

	// 配置错误在工厂构造时报告
	defs := []*di.ServiceDefinition{
		di.Provide(func(logger logging.Logger) (*ClientFactory, error) {
			if err != nil {
				return nil, err
			}
			return newFactory(settings, logger)
		}, di.WithSingleton()),
	}

	for _, c := range settings.Clients {
		if c.Name == DefaultClient {
			defs = append(defs, di.Provide(func(f *ClientFactory) (*clientv3.Client, error) {
				return f.Get(DefaultClient)
			}, di.WithSingleton()))
			break
		}
	}
	return defs
}

func newFactory(settings Settings, logger logging.Logger) (*ClientFactory, error) {
	factory := NewClientFactory()
	for _, opts := range settings.Clients {
		if err := factory.Register(opts); err != nil {
			_ = factory.Close()
			return nil, err
		}
		logger.Info("etcd client registered",
			logging.Field{Key: "client", Value: opts.Name},
			logging.Field{Key: "endpoints", Value: opts.Endpoints})
	}
	return factory, nil
}
