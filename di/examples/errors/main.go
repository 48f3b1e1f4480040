package main

import (
	"errors"
	"fmt"

	"github.com/gocrud/bootstrap/di"
)

type Physics struct {
	di.Singleton
	audio *Audio
}

type Audio struct {
	di.Singleton
	physics *Physics
}

type Input struct {
	Device string
}

type Scene struct {
	di.Singleton
	name string
}

func (s *Scene) PostInit(name string) { s.name = name }

type Level struct {
	di.Singleton
	file string
}

func main() {
	fmt.Println("=== 示例1: 直接依赖环 ===")
	err := di.New().Init(
		di.Provide(func(a *Audio) *Physics { return &Physics{audio: a} }),
		di.Provide(func(p *Physics) *Audio { return &Audio{physics: p} }),
	)
	var cycle *di.CircularDependencyError
	if errors.As(err, &cycle) {
		fmt.Println("cycle:", cycle.Path())
	}

	fmt.Println("\n=== 示例2: 缺少生命周期标记 ===")
	err = di.New().Init(di.Provide(func() *Input { return &Input{Device: "keyboard"} }))
	fmt.Println(err, errors.Is(err, di.ErrMissingLifetime))

	fmt.Println("\n=== 示例3: 使用选项声明生命周期 ===")
	c := di.New()
	err = c.Init(di.Provide(func() *Input { return &Input{Device: "keyboard"} }, di.WithSingleton()))
	fmt.Println(err == nil, di.MustResolve[*Input](c).Device)

	fmt.Println("\n=== 示例4: 钩子签名错误 ===")
	err = di.New().Init(di.Provide(func() *Scene { return &Scene{} }))
	fmt.Println(err, errors.Is(err, di.ErrInvalidHookSignature))

	fmt.Println("\n=== 示例5: 构造失败 ===")
	err = di.New().Init(di.Provide(func() (*Level, error) { return nil, errors.New("level file missing") }))
	var creation *di.ServiceCreationError
	if errors.As(err, &creation) {
		fmt.Println("failed type:", creation.Type, "cause:", creation.Cause)
	}
}
