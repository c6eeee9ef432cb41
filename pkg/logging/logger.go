package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New 根據配置建立 slog.Logger
//
// 參數:
//
//	level: Log 等級: "debug", "info", "warn", "error"，其他值視為 "info"
//	format: "json" 或 "text"，其他值視為 "text"
//	w: 輸出目標，nil 時使用 os.Stderr
//
// 回傳值:
//
//	*slog.Logger: 設定好的 logger
func New(level, format string, w io.Writer) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// ParseLevel 將字串轉成 slog.Level
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo // 預設 info
	}
}
