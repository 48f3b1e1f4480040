package di_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gocrud/bootstrap/di"
)

// 菱形依赖：D -> B, C；B, C -> A
type diamondA struct {
	di.Singleton
	hooks *int
}

func (a *diamondA) PostInit() { *a.hooks++ }

type diamondB struct {
	di.Singleton
	A *diamondA
}
type diamondC struct {
	di.Singleton
	A *diamondA
}
type diamondD struct {
	di.Singleton
	B *diamondB
	C *diamondC
}

func TestPostInit_DiamondRunsOnce(t *testing.T) {
	hooks := 0
	c := di.New()
	require.NoError(t, c.Init(
		di.Provide(func(b *diamondB, cc *diamondC) *diamondD { return &diamondD{B: b, C: cc} }),
		di.Provide(func(a *diamondA) *diamondB { return &diamondB{A: a} }),
		di.Provide(func(a *diamondA) *diamondC { return &diamondC{A: a} }),
		di.Provide(func() *diamondA { return &diamondA{hooks: &hooks} }),
	))
	assert.Equal(t, 1, hooks)

	// 之后的解析不会再次执行钩子
	di.MustResolve[*diamondD](c)
	di.MustResolve[*diamondA](c)
	assert.Equal(t, 1, hooks)
}

type orderedA struct {
	di.Singleton
	Ready bool
}

func (a *orderedA) PostInit() { a.Ready = true }

type orderedB struct {
	di.Singleton
	A        *orderedA
	SawReady bool
}

func (b *orderedB) PostInit() error {
	b.SawReady = b.A.Ready
	return nil
}

func TestPostInit_FollowsDependencyOrder(t *testing.T) {
	// B 先注册，A 的钩子仍先执行
	c := di.New()
	require.NoError(t, c.Init(
		di.Provide(func(a *orderedA) *orderedB { return &orderedB{A: a} }),
		di.Provide(func() *orderedA { return &orderedA{} }),
	))

	b := di.MustResolve[*orderedB](c)
	assert.True(t, b.SawReady)
}

type transientHooked struct {
	di.Transient
	Dep   *orderedA
	Ready bool
}

func (t *transientHooked) PostInit() { t.Ready = t.Dep.Ready }

func TestPostInit_TransientBeforeHandOff(t *testing.T) {
	c := di.New()
	require.NoError(t, c.Init(
		di.Provide(func() *orderedA { return &orderedA{} }),
		di.Provide(func(a *orderedA) *transientHooked { return &transientHooked{Dep: a} }),
	))

	for i := 0; i < 3; i++ {
		v := di.MustResolve[*transientHooked](c)
		assert.True(t, v.Ready)
	}
}

type badHook struct {
	di.Singleton
	Name string
}

func (b *badHook) PostInit(name string) { b.Name = name }

type badHookResult struct {
	di.Singleton
	Name string
}

func (b *badHookResult) PostInit() int { return 0 }

func TestPostInit_InvalidSignature(t *testing.T) {
	err := di.New().Init(di.Provide(func() *badHook { return &badHook{} }))
	assert.ErrorIs(t, err, di.ErrInvalidHookSignature)

	err = di.New().Init(di.Provide(func() *badHookResult { return &badHookResult{} }))
	assert.ErrorIs(t, err, di.ErrInvalidHookSignature)
}

var errNotReady = errors.New("not ready")

type failingHook struct {
	di.Singleton
	Name string
}

func (f *failingHook) PostInit() error { return errNotReady }

type panickingHook struct {
	di.Singleton
	Name string
}

func (p *panickingHook) PostInit() { panic("hook panic") }

func TestPostInit_ErrorsPropagate(t *testing.T) {
	c := di.New()
	err := c.Init(di.Provide(func() *failingHook { return &failingHook{} }))
	require.ErrorIs(t, err, errNotReady)
	assert.Contains(t, err.Error(), "post-init hook *di_test.failingHook.PostInit")

	_, err = di.Resolve[*failingHook](c)
	assert.ErrorIs(t, err, di.ErrNotInitialized)

	assert.Panics(t, func() {
		_ = di.New().Init(di.Provide(func() *panickingHook { return &panickingHook{} }))
	})
}

func TestPostInit_PanicFailsContainer(t *testing.T) {
	c := di.New()
	assert.PanicsWithValue(t, "hook panic", func() {
		_ = c.Init(
			di.Provide(newRepoA),
			di.Provide(func() *panickingHook { return &panickingHook{} }),
		)
	})

	// 已构建的单例不能再经由 Provider 取得
	_, err := di.GetProvider[*repoA](c).Get()
	assert.ErrorIs(t, err, di.ErrNotInitialized)
	assert.ErrorContains(t, err, "init panicked: hook panic")

	_, err = di.Resolve[*repoA](c)
	assert.ErrorIs(t, err, di.ErrNotInitialized)
	assert.False(t, c.Has(di.TypeOf[*repoA]()))
	assert.ErrorIs(t, c.Init(), di.ErrAlreadyInitialized)
}

type startable struct {
	di.Singleton
	Started bool
	Inited  bool
}

func (s *startable) Start()    { s.Started = true }
func (s *startable) PostInit() { s.Inited = true }

func TestPostInit_CustomHookName(t *testing.T) {
	c := di.New()
	require.NoError(t, c.Init(di.Provide(func() *startable { return &startable{} }, di.WithHook("Start"))))
	s := di.MustResolve[*startable](c)
	assert.True(t, s.Started)
	assert.False(t, s.Inited)

	c = di.New(di.WithHookName("Start"))
	require.NoError(t, c.Init(di.Provide(func() *startable { return &startable{} })))
	s = di.MustResolve[*startable](c)
	assert.True(t, s.Started)
	assert.False(t, s.Inited)
}

type valueWithHook struct {
	Called bool
}

func (v *valueWithHook) PostInit() { v.Called = true }

func TestPostInit_SkipsValues(t *testing.T) {
	v := &valueWithHook{}
	c := di.New()
	require.NoError(t, c.Init(di.Value(v)))
	assert.False(t, v.Called)
	assert.Same(t, v, di.MustResolve[*valueWithHook](c))
}

type hookedShape interface {
	di.SingletonService
	Area() int
}

type hookedCircle struct {
	di.Singleton
	R      int
	Inited bool
}

func (h *hookedCircle) Area() int { return 3 * h.R * h.R }
func (h *hookedCircle) PostInit() { h.Inited = true }

type valueHooked struct {
	di.Singleton
	N int
}

func (v *valueHooked) PostInit() { v.N++ }

func TestPostInit_PointerReceiverOnValue(t *testing.T) {
	err := di.New().Init(di.Provide(func() valueHooked { return valueHooked{} }))
	require.ErrorIs(t, err, di.ErrInvalidHookSignature)
	assert.Contains(t, err.Error(), "pointer receiver, register *di_test.valueHooked instead")

	c := di.New()
	require.NoError(t, c.Init(di.Provide(func() *valueHooked { return &valueHooked{} })))
	assert.Equal(t, 1, di.MustResolve[*valueHooked](c).N)
}

type hookedSquare struct {
	di.Singleton
	S int
}

func (h hookedSquare) Area() int  { return h.S * h.S }
func (h *hookedSquare) PostInit() { h.S = 0 }

func TestPostInit_DynamicPointerReceiverOnValue(t *testing.T) {
	err := di.New().Init(di.Provide(func() hookedShape { return hookedSquare{S: 2} }))
	require.ErrorIs(t, err, di.ErrInvalidHookSignature)
	assert.Contains(t, err.Error(), "register *di_test.hookedSquare instead")
}

func TestPostInit_DynamicType(t *testing.T) {
	// 服务以接口注册时，钩子按实际类型查找
	c := di.New()
	require.NoError(t, c.Init(di.Provide(func() hookedShape { return &hookedCircle{R: 1} })))

	s := di.MustResolve[hookedShape](c)
	assert.True(t, s.(*hookedCircle).Inited)
}
