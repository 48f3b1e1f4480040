package di

import (
	"fmt"
	"reflect"
)

// descriptorStore 按类型保存已注册的服务描述符，并保留提交顺序。
// 提交顺序即依赖顺序：一个描述符总是在其直接依赖之后提交。
type descriptorStore struct {
	descriptors map[reflect.Type]*ServiceDescriptor
	order       []*ServiceDescriptor
}

func newDescriptorStore() *descriptorStore {
	return &descriptorStore{
		descriptors: make(map[reflect.Type]*ServiceDescriptor),
	}
}

func (s *descriptorStore) register(d *ServiceDescriptor) error {
	if _, exists := s.descriptors[d.Type]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateService, d.Type)
	}
	s.descriptors[d.Type] = d
	s.order = append(s.order, d)
	return nil
}

func (s *descriptorStore) get(typ reflect.Type) (*ServiceDescriptor, error) {
	d, ok := s.descriptors[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrServiceNotFound, typ)
	}
	return d, nil
}

func (s *descriptorStore) has(typ reflect.Type) bool {
	_, ok := s.descriptors[typ]
	return ok
}

func (s *descriptorStore) all() []*ServiceDescriptor {
	return s.order
}

func (s *descriptorStore) reset() {
	s.descriptors = make(map[reflect.Type]*ServiceDescriptor)
	s.order = nil
}
