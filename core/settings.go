package core

import (
	"fmt"
	"os"
	"strings"

	"github.com/gocrud/bootstrap/config"
	"github.com/gocrud/bootstrap/di"
	"github.com/gocrud/bootstrap/logging"
)

// SettingsSection 是引导设置所在的配置节
const SettingsSection = "bootstrap"

// Settings 引导设置
//
//	bootstrap:
//	  logging:
//	    level: info
//	    format: text
//	    color: true
//	  container:
//	    hook: PostInit
type Settings struct {
	Logging   LoggingSettings   `yaml:"logging"`
	Container ContainerSettings `yaml:"container"`
}

// LoggingSettings 日志设置
type LoggingSettings struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"` // text 或 json
	Color     bool   `yaml:"color"`
	Timestamp bool   `yaml:"timestamp"`
}

// ContainerSettings 容器设置
type ContainerSettings struct {
	Hook string `yaml:"hook"`
}

// DefaultSettings 返回默认设置
func DefaultSettings() Settings {
	return Settings{
		Logging: LoggingSettings{
			Level:     "info",
			Format:    "text",
			Color:     true,
			Timestamp: true,
		},
		Container: ContainerSettings{
			Hook: di.DefaultHookName,
		},
	}
}

// LoadSettings 从配置中读取引导设置，缺省项使用默认值
func LoadSettings(cfg config.Configuration) (Settings, error) {
	settings, err := config.LoadOrDefault(cfg, SettingsSection, DefaultSettings())
	if err != nil {
		return Settings{}, fmt.Errorf("core: load settings: %w", err)
	}
	return settings, nil
}

func (s LoggingSettings) consoleOptions() (logging.ConsoleLoggerOptions, error) {
	opts := logging.ConsoleLoggerOptions{
		IncludeTimestamp: s.Timestamp,
		ColorOutput:      s.Color,
		Output:           os.Stdout,
	}

	switch strings.ToLower(s.Format) {
	case "", "text":
	case "json":
		opts.Formatter = logging.NewJsonFormatter()
	default:
		return opts, fmt.Errorf("core: unknown log format %q", s.Format)
	}
	return opts, nil
}
