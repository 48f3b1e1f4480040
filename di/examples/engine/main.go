package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gocrud/bootstrap/di"
	"github.com/gocrud/bootstrap/logging"
)

// AssetCache 资源缓存（单例）
type AssetCache struct {
	di.Singleton
	entries map[string][]byte
}

func NewAssetCache() *AssetCache {
	return &AssetCache{entries: map[string][]byte{
		"shaders/basic": []byte("void main() {}"),
	}}
}

func (a *AssetCache) PostInit() {
	fmt.Println("[assets] preloaded", len(a.entries), "asset(s)")
}

func (a *AssetCache) Load(name string) ([]byte, error) {
	data, ok := a.entries[name]
	if !ok {
		return nil, fmt.Errorf("asset %s not found", name)
	}
	return data, nil
}

// Renderer 渲染器接口，注册为单例
type Renderer interface {
	di.SingletonService
	Draw(entity string)
}

// glRenderer 依赖 World，而 World 通过 Provider 延迟依赖 Renderer
type glRenderer struct {
	di.Singleton
	world  *World
	shader []byte
}

func NewRenderer(world *World, assets *AssetCache) (Renderer, error) {
	shader, err := assets.Load("shaders/basic")
	if err != nil {
		return nil, err
	}
	return &glRenderer{world: world, shader: shader}, nil
}

func (r *glRenderer) PostInit() error {
	if len(r.shader) == 0 {
		return errors.New("empty shader")
	}
	fmt.Println("[render] shader compiled for world with", len(r.world.entities), "entity(ies)")
	return nil
}

func (r *glRenderer) Draw(entity string) {
	fmt.Println("[render] draw", entity)
}

// World 游戏世界（单例），通过 Provider 打破与 Renderer 的循环依赖
type World struct {
	di.Singleton
	assets   *AssetCache
	renderer di.Provider[Renderer]
	spawner  di.Provider[*Spawner]
	entities []string
}

func NewWorld(assets *AssetCache, renderer di.Provider[Renderer], spawner di.Provider[*Spawner]) *World {
	return &World{assets: assets, renderer: renderer, spawner: spawner}
}

func (w *World) PostInit() {
	w.entities = append(w.entities, "camera")
}

// Frame 渲染一帧
func (w *World) Frame() error {
	r, err := w.renderer.Get()
	if err != nil {
		return err
	}
	for _, e := range w.entities {
		r.Draw(e)
	}
	return nil
}

// Spawn 每次生成一个新的 Spawner（瞬态）
func (w *World) Spawn(name string) error {
	s, err := w.spawner.Get()
	if err != nil {
		return err
	}
	w.entities = append(w.entities, s.Create(name))
	return nil
}

// Spawner 实体生成器（瞬态）
type Spawner struct {
	di.Transient
	serial int
	logger logging.Logger
}

var spawned int

func NewSpawner(logger logging.Logger) *Spawner {
	spawned++
	return &Spawner{serial: spawned, logger: logger}
}

func (s *Spawner) Create(name string) string {
	id := fmt.Sprintf("%s#%d", name, s.serial)
	s.logger.Info("spawned", logging.Field{Key: "entity", Value: id})
	return id
}

func main() {
	logger := logging.NewLogger()

	c := di.New(di.WithLogger(logger))
	err := c.Init(
		di.Provide(NewWorld),
		di.Provide(NewRenderer),
		di.Provide(NewSpawner),
		di.Provide(NewAssetCache),
		di.Value(logger, di.As[logging.Logger]()),
	)
	if err != nil {
		fmt.Println("init failed:", err)
		os.Exit(1)
	}

	fmt.Println("=== 已注册服务 ===")
	for _, svc := range c.Services() {
		fmt.Println(" ", svc)
	}

	world := di.MustResolve[*World](c)
	for _, name := range []string{"player", "enemy"} {
		if err := world.Spawn(name); err != nil {
			fmt.Println("spawn failed:", err)
			os.Exit(1)
		}
	}

	fmt.Println("=== 渲染一帧 ===")
	if err := world.Frame(); err != nil {
		fmt.Println("frame failed:", err)
		os.Exit(1)
	}
}
