package di_test

import (
	"errors"
	"fmt"

	"github.com/gocrud/bootstrap/di"
)

type engineCore struct {
	di.Singleton
	Mixer *audioMixer
}

type audioMixer struct {
	di.Singleton
	Engine di.Provider[*engineCore]
}

func ExampleProvider() {
	c := di.New()
	err := c.Init(
		di.Provide(func(m *audioMixer) *engineCore { return &engineCore{Mixer: m} }),
		di.Provide(func(e di.Provider[*engineCore]) *audioMixer { return &audioMixer{Engine: e} }),
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	mixer := di.MustResolve[*audioMixer](c)
	fmt.Println(mixer.Engine.MustGet().Mixer == mixer)
	// Output: true
}

func ExampleCircularDependencyError() {
	err := di.New().Init(
		di.Provide(newCycleA),
		di.Provide(newCycleB),
		di.Provide(newCycleC),
	)

	var cycle *di.CircularDependencyError
	if errors.As(err, &cycle) {
		fmt.Println(cycle.Path())
	}
	// Output: *di_test.cycleA -> *di_test.cycleB -> *di_test.cycleC -> *di_test.cycleA
}

func ExampleContainer_Services() {
	c := di.New()
	err := c.Init(di.Provide(newServiceB), di.Provide(newRepoA))
	if err != nil {
		fmt.Println(err)
		return
	}

	for _, s := range c.Services() {
		fmt.Println(s.Type, s.Lifetime)
	}
	// Output:
	// *di.Container singleton
	// *di_test.repoA singleton
	// *di_test.serviceB singleton
}
