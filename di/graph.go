package di

import (
	"fmt"
	"reflect"
	"slices"
)

// graphNode 是注册期间的依赖图节点。links 只包含直接依赖，延迟依赖不计入。
type graphNode struct {
	typ     reflect.Type
	parents map[reflect.Type]struct{}
	links   []*graphNode
	linked  map[reflect.Type]struct{}
}

func (n *graphNode) link(dep *graphNode) {
	if _, ok := n.linked[dep.typ]; ok {
		return
	}
	n.linked[dep.typ] = struct{}{}
	n.links = append(n.links, dep)
	dep.parents[n.typ] = struct{}{}
}

// graphBuilder 沿构造函数签名递归注册服务，并在注册期间检测循环依赖。
// 仅在 Init 期间存在，注册成功后即被丢弃。
type graphBuilder struct {
	catalog    map[reflect.Type]*ServiceDefinition
	store      *descriptorStore
	hookName   string
	nodes      map[reflect.Type]*graphNode
	nodeOrder  []*graphNode
	inProgress map[reflect.Type]bool
}

func newGraphBuilder(catalog map[reflect.Type]*ServiceDefinition, store *descriptorStore, hookName string) *graphBuilder {
	return &graphBuilder{
		catalog:    catalog,
		store:      store,
		hookName:   hookName,
		nodes:      make(map[reflect.Type]*graphNode),
		inProgress: make(map[reflect.Type]bool),
	}
}

// indexDefinitions 按服务类型索引定义，同一类型出现两次即报错。
func indexDefinitions(defs []*ServiceDefinition) (map[reflect.Type]*ServiceDefinition, error) {
	catalog := make(map[reflect.Type]*ServiceDefinition, len(defs))
	for i, def := range defs {
		if def == nil || def.Type == nil {
			return nil, fmt.Errorf("%w: definition #%d has no type", ErrNoConstructor, i)
		}
		if _, exists := catalog[def.Type]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateService, def.Type)
		}
		catalog[def.Type] = def
	}
	return catalog, nil
}

func (g *graphBuilder) node(typ reflect.Type) *graphNode {
	if n, ok := g.nodes[typ]; ok {
		return n
	}
	n := &graphNode{
		typ:     typ,
		parents: make(map[reflect.Type]struct{}),
		linked:  make(map[reflect.Type]struct{}),
	}
	g.nodes[typ] = n
	g.nodeOrder = append(g.nodeOrder, n)
	return n
}

// registerRecursive 注册 typ 及其所有依赖。
// chain 是当前注册路径上正在处理的类型，按顺序排列。
func (g *graphBuilder) registerRecursive(typ reflect.Type, chain []reflect.Type) error {
	if slices.Contains(chain, typ) {
		return newCircularError(chain, typ)
	}
	// 已注册，或正在外层帧中注册（经由延迟依赖重新进入）
	if g.store.has(typ) || g.inProgress[typ] {
		return nil
	}

	def, ok := g.catalog[typ]
	if !ok {
		if len(chain) > 0 {
			return fmt.Errorf("%w: %s (required by %s)", ErrNoConstructor, typ, chain[len(chain)-1])
		}
		return fmt.Errorf("%w: %s", ErrNoConstructor, typ)
	}

	g.node(typ)
	if def.IsValue {
		if impl := reflect.TypeOf(def.Impl); impl == nil || !impl.AssignableTo(typ) {
			return fmt.Errorf("%w: value of type %v is not assignable to %s", ErrNoConstructor, impl, typ)
		}
		return g.store.register(&ServiceDescriptor{
			Type:     typ,
			Lifetime: ScopeSingleton,
			value:    reflect.ValueOf(def.Impl),
		})
	}

	g.inProgress[typ] = true
	defer delete(g.inProgress, typ)

	ctor, err := inspectConstructor(def)
	if err != nil {
		return err
	}

	next := make([]reflect.Type, len(chain), len(chain)+1)
	copy(next, chain)
	next = append(next, typ)

	// 先遍历全部直接依赖，再处理延迟依赖；依赖按参数声明顺序记录
	deps := make([]DependencyRef, len(ctor.params))
	for i, param := range ctor.params {
		if target, ok := deferredTarget(param); ok {
			deps[i] = DependencyRef{Target: target, Deferred: true, param: param}
			continue
		}
		if err := g.registerRecursive(param, next); err != nil {
			return err
		}
		g.node(typ).link(g.node(param))
		deps[i] = DependencyRef{Target: param, param: param}
	}
	for _, dep := range deps {
		if !dep.Deferred {
			continue
		}
		if err := g.registerDeferred(typ, dep.Target); err != nil {
			return err
		}
	}

	lifetime, err := lifetimeOf(def, ctor.out)
	if err != nil {
		return err
	}

	hook := def.Hook
	if hook == "" {
		hook = g.hookName
	}
	if err := checkHook(ctor.out, hook); err != nil {
		return err
	}

	return g.store.register(&ServiceDescriptor{
		Type:         typ,
		Lifetime:     lifetime,
		Dependencies: deps,
		invoke:       ctor.invoke,
		hook:         hook,
	})
}

// registerDeferred 以全新的链注册 owner 的延迟依赖目标。
// 没有定义的接口目标被视为抽象基类型，由调用方在 Provider.Resolve 时指定实现。
func (g *graphBuilder) registerDeferred(owner, target reflect.Type) error {
	if _, ok := g.catalog[target]; !ok {
		if target.Kind() == reflect.Interface {
			return nil
		}
		return fmt.Errorf("%w: %s (required by %s via Provider)", ErrNoConstructor, target, owner)
	}
	return g.registerRecursive(target, nil)
}

// lifetimeOf 合并服务类型、实现类型与注册选项上的生命周期标记。
func lifetimeOf(def *ServiceDefinition, impl reflect.Type) (ScopeType, error) {
	marks := def.marks | marksOf(def.Type) | marksOf(impl)
	switch marks {
	case markSingleton:
		return ScopeSingleton, nil
	case markTransient:
		return ScopeTransient, nil
	case 0:
		return scopeUnknown, fmt.Errorf("%w: %s", ErrMissingLifetime, def.Type)
	default:
		return scopeUnknown, fmt.Errorf("%w: %s", ErrConflictingLifetime, def.Type)
	}
}

// verifyAcyclic 对直接依赖图做一次完整的 DFS 检查。
// 递归注册中的链检查已覆盖常见情况，这里兜底经由延迟依赖重入后形成的环。
func (g *graphBuilder) verifyAcyclic() error {
	const (
		white = iota
		gray
		black
	)
	color := make(map[reflect.Type]int, len(g.nodes))
	var stack []reflect.Type

	var visit func(n *graphNode) error
	visit = func(n *graphNode) error {
		color[n.typ] = gray
		stack = append(stack, n.typ)
		for _, dep := range n.links {
			switch color[dep.typ] {
			case gray:
				start := slices.Index(stack, dep.typ)
				return newCircularError(stack[start:], dep.typ)
			case white:
				if err := visit(dep); err != nil {
					return err
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[n.typ] = black
		return nil
	}

	for _, n := range g.nodeOrder {
		if color[n.typ] == white {
			if err := visit(n); err != nil {
				return err
			}
		}
	}
	return nil
}

// roots 返回没有任何直接依赖方的节点，即依赖图的入口服务。
func (g *graphBuilder) roots() []reflect.Type {
	var roots []reflect.Type
	for _, n := range g.nodeOrder {
		if len(n.parents) == 0 {
			roots = append(roots, n.typ)
		}
	}
	return roots
}
