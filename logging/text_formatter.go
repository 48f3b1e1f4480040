package logging

import (
	"bytes"
	"fmt"

	"github.com/fatih/color"
)

// TextFormatter 文本格式化器
type TextFormatter struct {
	IncludeTimestamp bool
	TimestampFormat  string
	ColorOutput      bool
}

// NewTextFormatter 创建文本格式化器
func NewTextFormatter() *TextFormatter {
	return &TextFormatter{
		IncludeTimestamp: true,
		TimestampFormat:  "2006-01-02 15:04:05",
		ColorOutput:      false,
	}
}

// levelColors 各级别的着色方式
var levelColors = map[LogLevel]*color.Color{
	LogLevelTrace: color.New(color.FgHiBlack),
	LogLevelDebug: color.New(color.FgCyan),
	LogLevelInfo:  color.New(color.FgGreen),
	LogLevelWarn:  color.New(color.FgYellow),
	LogLevelError: color.New(color.FgRed),
	LogLevelFatal: color.New(color.FgMagenta, color.Bold),
}

func init() {
	// 是否着色由 ColorOutput 决定，不依赖终端检测
	for _, c := range levelColors {
		c.EnableColor()
	}
}

// Format 格式化为 "时间 级别 [类别] 消息 {k=v, ...}"
func (f *TextFormatter) Format(entry *LogEntry) ([]byte, error) {
	var buf bytes.Buffer

	if f.IncludeTimestamp {
		buf.WriteString(entry.Time.Format(f.TimestampFormat))
		buf.WriteByte(' ')
	}

	level := entry.Level.String()
	if c, ok := levelColors[entry.Level]; ok && f.ColorOutput {
		level = c.Sprint(level)
	}
	buf.WriteString(level)

	if entry.Category != "" {
		fmt.Fprintf(&buf, " [%s]", entry.Category)
	}

	buf.WriteByte(' ')
	buf.WriteString(entry.Message)

	if len(entry.Fields) > 0 {
		buf.WriteString(" {")
		for i, field := range entry.Fields {
			if i > 0 {
				buf.WriteString(", ")
			}
			fmt.Fprintf(&buf, "%s=%v", field.Key, field.Value)
		}
		buf.WriteByte('}')
	}

	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
