package game

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"
)

// 输入日志格式
const (
	InputLogCSV  = "csv"
	InputLogJSON = "json"
	InputLogTXT  = "txt"
)

// InputEvent 一次按键状态变化
type InputEvent struct {
	Time     float64 `json:"time"`     // 会话开始后的真实时间（秒）
	GameTime float64 `json:"gameTime"` // 游戏时间（秒）
	Key      string  `json:"key"`
	Pressed  bool    `json:"pressed"`
	PlayerX  float64 `json:"playerX"`
	PlayerY  float64 `json:"playerY"`
}

// InputLogger 输入日志记录器
// 每个事件写为一行：CSV（带表头）、JSON Lines 或纯文本
type InputLogger struct {
	mu     sync.Mutex
	format string
	w      io.Writer
	closer io.Closer
	csv    *csv.Writer
	count  int
}

// NewInputLogger 创建写入 w 的输入日志记录器
func NewInputLogger(w io.Writer, format string) (*InputLogger, error) {
	l := &InputLogger{format: format, w: w}
	switch format {
	case InputLogCSV:
		l.csv = csv.NewWriter(w)
		if err := l.csv.Write([]string{"time", "game_time", "key", "action", "player_x", "player_y"}); err != nil {
			return nil, fmt.Errorf("failed to write csv header: %w", err)
		}
	case InputLogJSON, InputLogTXT:
	default:
		return nil, fmt.Errorf("unsupported input log format %q", format)
	}
	if c, ok := w.(io.Closer); ok {
		l.closer = c
	}
	return l, nil
}

// OpenInputLog 在 dir 下创建带时间戳的日志文件
func OpenInputLog(dir, format string) (*InputLogger, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create input log dir: %w", err)
	}

	name := fmt.Sprintf("input_%s.%s", time.Now().Format("20060102_150405"), format)
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create input log: %w", err)
	}

	l, err := NewInputLogger(f, format)
	if err != nil {
		f.Close()
		return nil, err
	}
	log.Printf("[InputLogger] Logging input to %s", path)
	return l, nil
}

// Log 记录一个事件
func (l *InputLogger) Log(ev InputEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var err error
	switch l.format {
	case InputLogCSV:
		err = l.csv.Write([]string{
			strconv.FormatFloat(ev.Time, 'f', 3, 64),
			strconv.FormatFloat(ev.GameTime, 'f', 3, 64),
			ev.Key,
			action(ev.Pressed),
			strconv.FormatFloat(ev.PlayerX, 'f', 3, 64),
			strconv.FormatFloat(ev.PlayerY, 'f', 3, 64),
		})
		if err == nil {
			l.csv.Flush()
			err = l.csv.Error()
		}
	case InputLogJSON:
		err = json.NewEncoder(l.w).Encode(ev)
	case InputLogTXT:
		_, err = fmt.Fprintf(l.w, "[%8.3f] game=%.3f %-5s %-7s player=(%.2f, %.2f)\n",
			ev.Time, ev.GameTime, ev.Key, action(ev.Pressed), ev.PlayerX, ev.PlayerY)
	}
	if err != nil {
		return fmt.Errorf("failed to write input event: %w", err)
	}
	l.count++
	return nil
}

// Count 已记录的事件数
func (l *InputLogger) Count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.count
}

// Close 刷新并关闭底层文件
func (l *InputLogger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.csv != nil {
		l.csv.Flush()
	}
	if l.closer != nil {
		return l.closer.Close()
	}
	return nil
}

func action(pressed bool) string {
	if pressed {
		return "press"
	}
	return "release"
}
