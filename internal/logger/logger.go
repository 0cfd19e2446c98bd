package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"
)

// ANSI color codes
const (
	Reset   = "\033[0m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	Gray    = "\033[90m"

	BoldRed  = "\033[1;31m"
	BoldBlue = "\033[1;34m"
	BoldCyan = "\033[1;36m"
)

// ColoredWriter wraps an io.Writer and adds a classified prefix and color
// based on message content.
type ColoredWriter struct {
	out io.Writer
	mu  sync.Mutex
}

var (
	initialized bool
	initMu      sync.Mutex
)

// Init routes the stdlib log package through a ColoredWriter.
func Init() {
	initMu.Lock()
	defer initMu.Unlock()

	if initialized {
		return
	}

	log.SetOutput(&ColoredWriter{out: os.Stdout})
	log.SetFlags(0) // timestamp is rendered by the writer

	initialized = true
}

// Write implements io.Writer with color support
func (w *ColoredWriter) Write(p []byte) (n int, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	msg := strings.TrimSuffix(string(p), "\n")
	timestamp := time.Now().Format("2006/01/02 15:04:05")

	var prefix, color string
	switch {
	case contains(msg, "panic", "Panic", "PANIC"):
		prefix = "[PANIC]"
		color = BoldRed
	case contains(msg, "fatal", "Fatal", "FATAL"):
		prefix = "[FATAL]"
		color = BoldRed
	case contains(msg, "error", "Error", "ERROR", "failed", "Failed", "cannot", "Cannot"):
		prefix = "[ERROR]"
		color = Red
	case contains(msg, "warn", "Warn", "Warning", "warning", "skipping", "Skipping", "desync", "rescan"):
		prefix = "[WARN]"
		color = Yellow
	case contains(msg, "database", "Database", "sqlite", "SQLite", "cursor", "Cursor", "migrat"):
		prefix = "[DB]"
		color = BoldCyan
	case contains(msg, "Discord", "discord", "notification", "Notification", "embed"):
		prefix = "[DC]"
		color = BoldBlue
	case contains(msg, "FTP", "ftp", "SFTP", "sftp", "download", "Download", "remote", "Remote", "connection", "Connection"):
		prefix = "[NET]"
		color = Cyan
	case contains(msg, "kill", "Kill", "suicide", "Suicide", "bounty", "Bounty", "ban", "Ban", "zone", "Zone", "build", "Build"):
		prefix = "[FEED]"
		color = Green
	case contains(msg, "Starting", "starting", "started", "Started", "Initializing", "initialized", "loaded", "Loaded", "ready", "Ready", "stopped", "Stopped"):
		prefix = "[SYS]"
		color = Magenta
	default:
		prefix = "[INFO]"
		color = Cyan
	}

	formatted := fmt.Sprintf("%s%s %s%-7s%s %s%s\n", Gray, timestamp, color, prefix, Reset, msg, Reset)
	return w.out.Write([]byte(formatted))
}

func contains(msg string, substrs ...string) bool {
	for _, s := range substrs {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
