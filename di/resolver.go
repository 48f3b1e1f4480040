package di

import (
	"reflect"
	"slices"

	"github.com/gocrud/bootstrap/logging"
)

// instanceOf 按生命周期获取实例：单例走缓存，瞬态每次新建。
func (c *Container) instanceOf(d *ServiceDescriptor) (*instance, error) {
	if d.Lifetime == ScopeSingleton {
		return c.singleton(d)
	}
	return c.createInstance(d)
}

// singleton 返回缓存的单例实例，首次访问时构建。缓存条目写入一次后不再替换。
func (c *Container) singleton(d *ServiceDescriptor) (*instance, error) {
	if inst, ok := c.singletons[d.Type]; ok {
		return inst, nil
	}

	inst, err := c.createInstance(d)
	if err != nil {
		return nil, err
	}

	c.singletons[d.Type] = inst
	c.order = append(c.order, inst)

	c.logger.Debug("constructed singleton",
		logging.Field{Key: "service", Value: d.Type.String()})
	return inst, nil
}

// createInstance 创建 d 描述的服务的新实例。
// 直接依赖先被解析；延迟依赖只生成绑定到本容器的 Provider，不立即解析。
func (c *Container) createInstance(d *ServiceDescriptor) (*instance, error) {
	if d.value.IsValid() {
		return &instance{descriptor: d, value: d.value, state: stateDone}, nil
	}

	// 只有构造函数经由 Provider 回到自身才会走到这里
	if slices.Contains(c.creating, d.Type) {
		return nil, &ServiceCreationError{Type: d.Type, Cause: newCircularError(c.creating, d.Type)}
	}
	c.creating = append(c.creating, d.Type)
	defer func() {
		c.creating = c.creating[:len(c.creating)-1]
	}()

	args := make([]reflect.Value, len(d.Dependencies))
	deps := make([]*instance, 0, len(d.Dependencies))
	for i, dep := range d.Dependencies {
		if dep.Deferred {
			args[i] = newProviderValue(c, dep.param)
			continue
		}

		depDesc, err := c.store.get(dep.Target)
		if err != nil {
			return nil, &ServiceCreationError{Type: d.Type, Cause: err}
		}
		depInst, err := c.instanceOf(depDesc)
		if err != nil {
			return nil, &ServiceCreationError{Type: d.Type, Cause: err}
		}
		args[i] = depInst.value
		deps = append(deps, depInst)
	}

	value, err := d.invoke(args)
	if err != nil {
		return nil, &ServiceCreationError{Type: d.Type, Cause: err}
	}

	return &instance{
		descriptor: d,
		value:      value,
		deps:       deps,
		state:      stateCreated,
	}, nil
}
