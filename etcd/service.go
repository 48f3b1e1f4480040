package etcd

import (
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
)

// ClientOptions etcd 客户端配置选项
type ClientOptions struct {
	Name               string        `yaml:"name"`               // 客户端名称
	Endpoints          []string      `yaml:"endpoints"`          // etcd 服务器地址列表
	DialTimeout        time.Duration `yaml:"dialTimeout"`        // 连接超时时间
	Username           string        `yaml:"username"`           // 用户名（可选）
	Password           string        `yaml:"password"`           // 密码（可选）
	AutoSyncInterval   time.Duration `yaml:"autoSyncInterval"`   // 自动同步间隔（可选）
	MaxCallSendMsgSize int           `yaml:"maxCallSendMsgSize"` // 最大发送消息大小（可选）
	MaxCallRecvMsgSize int           `yaml:"maxCallRecvMsgSize"` // 最大接收消息大小（可选）
}

// Validate 验证配置
func (o *ClientOptions) Validate() error {
	if o.Name == "" {
		return errors.New("etcd: client name is required")
	}
	if len(o.Endpoints) == 0 {
		return fmt.Errorf("etcd: endpoints are required for client %q", o.Name)
	}
	if o.DialTimeout < 0 {
		return fmt.Errorf("etcd: dial timeout of client %q must not be negative", o.Name)
	}
	return nil
}

func (o *ClientOptions) clientConfig() clientv3.Config {
	cfg := clientv3.Config{
		Endpoints:          o.Endpoints,
		DialTimeout:        o.DialTimeout,
		AutoSyncInterval:   o.AutoSyncInterval,
		MaxCallSendMsgSize: o.MaxCallSendMsgSize,
		MaxCallRecvMsgSize: o.MaxCallRecvMsgSize,
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = 5 * time.Second
	}
	if o.Username != "" {
		cfg.Username = o.Username
		cfg.Password = o.Password
	}
	return cfg
}

// ClientFactory etcd 客户端工厂，持有按名称注册的客户端
type ClientFactory struct {
	clients map[string]*clientv3.Client
	mu      sync.RWMutex
}

// NewClientFactory 创建客户端工厂
func NewClientFactory() *ClientFactory {
	return &ClientFactory{
		clients: make(map[string]*clientv3.Client),
	}
}

// Register 创建并注册 etcd 客户端
func (f *ClientFactory) Register(opts ClientOptions) error {
	if err := opts.Validate(); err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if _, exists := f.clients[opts.Name]; exists {
		return fmt.Errorf("etcd: client %q already registered", opts.Name)
	}

	client, err := clientv3.New(opts.clientConfig())
	if err != nil {
		return fmt.Errorf("etcd: failed to create client %q: %w", opts.Name, err)
	}
	f.clients[opts.Name] = client
	return nil
}

// Get 按名称获取客户端
func (f *ClientFactory) Get(name string) (*clientv3.Client, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	client, ok := f.clients[name]
	if !ok {
		return nil, fmt.Errorf("etcd: client %q not registered", name)
	}
	return client, nil
}

// Names 返回已注册的客户端名称（已排序）
func (f *ClientFactory) Names() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.clients))
	for name := range f.clients {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Close 关闭所有 etcd 客户端
func (f *ClientFactory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	var errs []error
	for name, client := range f.clients {
		if err := client.Close(); err != nil {
			errs = append(errs, fmt.Errorf("etcd: failed to close client %q: %w", name, err))
		}
	}
	f.clients = make(map[string]*clientv3.Client)
	return errors.Join(errs...)
}
