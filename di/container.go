package di

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/gocrud/bootstrap/logging"
)

// phase 是容器所处的引导阶段。
type phase int

const (
	phaseNew phase = iota
	phaseRegistering
	phaseConstructing
	phaseHooks
	phaseReady
	phaseFailed
)

// Container 是服务容器。
//
// 生命周期为 Init(defs...) -> [Get/Resolve/GetProvider]*。Init 只能调用一次，
// 它注册全部定义、急切构建所有单例并按依赖顺序执行 post-init 钩子。
// Init 之后单例缓存只读；容器不做并发保护，只应在单个 goroutine 中引导。
type Container struct {
	id       string
	logger   logging.Logger
	hookName string

	store      *descriptorStore
	singletons map[reflect.Type]*instance
	order      []*instance
	creating   []reflect.Type

	phase   phase
	initErr error
}

// New 创建一个新的空容器。
func New(opts ...ContainerOption) *Container {
	c := &Container{
		id:         uuid.NewString(),
		logger:     logging.Discard(),
		hookName:   DefaultHookName,
		store:      newDescriptorStore(),
		singletons: make(map[reflect.Type]*instance),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ID 返回容器的随机标识，出现在引导日志中。
func (c *Container) ID() string {
	return c.id
}

// Init 注册 defs 描述的服务，构建全部单例并执行其 post-init 钩子。
// 任何错误都会使整个引导失败，容器此后不可用。
func (c *Container) Init(defs ...*ServiceDefinition) error {
	if c.phase != phaseNew {
		return ErrAlreadyInitialized
	}

	// 钩子的 panic 照常向上传播，但容器先标记为失败
	defer func() {
		if r := recover(); r != nil {
			c.fail(fmt.Errorf("di: init panicked: %v", r))
			panic(r)
		}
	}()

	start := time.Now()
	if err := c.init(defs); err != nil {
		c.fail(err)
		return err
	}
	c.phase = phaseReady

	c.logger.Info("container initialized",
		logging.Field{Key: "container", Value: c.id},
		logging.Field{Key: "services", Value: len(c.store.all())},
		logging.Field{Key: "singletons", Value: len(c.order)},
		logging.Field{Key: "elapsed", Value: time.Since(start).String()})
	return nil
}

// fail 丢弃引导过程中的全部状态，此后 Get 与 Provider 都返回 ErrNotInitialized。
func (c *Container) fail(err error) {
	c.phase = phaseFailed
	c.initErr = err
	c.store.reset()
	c.singletons = make(map[reflect.Type]*instance)
	c.order = nil
	c.creating = nil

	c.logger.Error("container init failed",
		logging.Field{Key: "container", Value: c.id},
		logging.Field{Key: "error", Value: err.Error()})
}

func (c *Container) init(defs []*ServiceDefinition) error {
	c.phase = phaseRegistering

	// 容器自身作为值服务注册，构造函数可以直接声明 *di.Container 参数
	all := make([]*ServiceDefinition, 0, len(defs)+1)
	all = append(all, Value(c))
	all = append(all, defs...)

	catalog, err := indexDefinitions(all)
	if err != nil {
		return err
	}

	graph := newGraphBuilder(catalog, c.store, c.hookName)
	for _, def := range all {
		if err := graph.registerRecursive(def.Type, nil); err != nil {
			return err
		}
	}
	if err := graph.verifyAcyclic(); err != nil {
		return err
	}

	for _, d := range c.store.all() {
		c.logger.Debug("registered service",
			logging.Field{Key: "service", Value: d.Type.String()},
			logging.Field{Key: "lifetime", Value: d.Lifetime.String()},
			logging.Field{Key: "deps", Value: joinDeps(d.Dependencies)})
	}
	c.logger.Debug("dependency graph built",
		logging.Field{Key: "roots", Value: len(graph.roots())})

	// 存储顺序即依赖顺序，单例按此顺序构建
	c.phase = phaseConstructing
	for _, d := range c.store.all() {
		if d.Lifetime != ScopeSingleton {
			continue
		}
		if _, err := c.singleton(d); err != nil {
			return err
		}
	}

	c.phase = phaseHooks
	for _, inst := range c.order {
		if err := c.runPostInit(inst); err != nil {
			return err
		}
	}
	return nil
}

// Get 返回类型 typ 的实例：单例返回缓存值，瞬态返回新构建的值。
func (c *Container) Get(typ reflect.Type) (any, error) {
	switch c.phase {
	case phaseReady:
		return c.resolve(typ)
	case phaseFailed:
		return nil, fmt.Errorf("%w: %w", ErrNotInitialized, c.initErr)
	default:
		return nil, ErrNotInitialized
	}
}

// Has 报告 typ 是否已注册。
func (c *Container) Has(typ reflect.Type) bool {
	return c.store.has(typ)
}

// Services 按依赖顺序返回所有已注册服务的描述。
func (c *Container) Services() []ServiceInfo {
	descriptors := c.store.all()
	infos := make([]ServiceInfo, len(descriptors))
	for i, d := range descriptors {
		infos[i] = ServiceInfo{
			Type:         d.Type,
			Lifetime:     d.Lifetime,
			Dependencies: d.Dependencies,
		}
	}
	return infos
}

// resolve 是 Get 与 Provider 共用的解析路径。
// 在构建阶段也可用，使构造函数和钩子中的 Provider 能够工作。
func (c *Container) resolve(typ reflect.Type) (any, error) {
	switch c.phase {
	case phaseConstructing, phaseHooks, phaseReady:
	case phaseFailed:
		return nil, fmt.Errorf("%w: %w", ErrNotInitialized, c.initErr)
	default:
		return nil, ErrNotInitialized
	}

	d, err := c.store.get(typ)
	if err != nil {
		return nil, err
	}

	inst, err := c.instanceOf(d)
	if err != nil {
		return nil, err
	}

	// 构建阶段的单例钩子统一在钩子阶段执行
	if d.Lifetime == ScopeTransient || c.phase != phaseConstructing {
		if err := c.runPostInit(inst); err != nil {
			return nil, err
		}
	}
	return inst.value.Interface(), nil
}

func joinDeps(deps []DependencyRef) string {
	names := make([]string, len(deps))
	for i, dep := range deps {
		names[i] = dep.String()
	}
	return strings.Join(names, ", ")
}
