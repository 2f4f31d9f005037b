package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

const filePrefix = "knowyourdrug-"

var numberedFileRegex = regexp.MustCompile(`^knowyourdrug-\d{4}-W\d{2}_(\d{2})\.log$`)

// RotatingLogger is an io.Writer over one log file per ISO week.
// When a file reaches maxFileSize a numbered sibling is started
// (knowyourdrug-2026-W42_01.log, _02, ...). Files older than the
// retention period are removed once a day.
type RotatingLogger struct {
	dir         string
	retention   time.Duration
	maxFileSize int64

	mu          sync.Mutex
	file        *os.File
	week        string
	size        int64
	now         func() time.Time
	stop        chan struct{}
	cleanupDone chan struct{}
	cleaning    bool
	closed      bool
}

// OpenRotatingLogger opens the file for the current week and starts the cleanup loop.
// maxFileSize <= 0 disables size based rotation.
func OpenRotatingLogger(dir string, retentionWeeks int, maxFileSize int64) (*RotatingLogger, error) {
	rl := newRotatingLogger(dir, retentionWeeks, maxFileSize, time.Now)

	rl.mu.Lock()
	err := rl.rotate(false)
	rl.mu.Unlock()
	if err != nil {
		return nil, err
	}

	rl.cleaning = true
	go rl.cleanupLoop(24 * time.Hour)
	return rl, nil
}

func newRotatingLogger(dir string, retentionWeeks int, maxFileSize int64, now func() time.Time) *RotatingLogger {
	return &RotatingLogger{
		dir:         dir,
		retention:   time.Duration(retentionWeeks) * 7 * 24 * time.Hour,
		maxFileSize: maxFileSize,
		now:         now,
		stop:        make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

func weekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// Write implements io.Writer
func (rl *RotatingLogger) Write(p []byte) (int, error) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.closed {
		return 0, os.ErrClosed
	}

	weekChanged := rl.week != weekKey(rl.now())
	full := rl.maxFileSize > 0 && rl.size > 0 && rl.size+int64(len(p)) > rl.maxFileSize
	if rl.file == nil || weekChanged || full {
		if err := rl.rotate(full && !weekChanged); err != nil {
			return 0, err
		}
	}

	n, err := rl.file.Write(p)
	rl.size += int64(n)
	return n, err
}

// rotate switches to the right file for the current week. Caller holds mu.
func (rl *RotatingLogger) rotate(forceNew bool) error {
	if rl.file != nil {
		_ = rl.file.Close()
		rl.file = nil
	}

	week := weekKey(rl.now())
	name := rl.pickFile(week, forceNew)
	path := filepath.Join(rl.dir, name)

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}

	rl.file = file
	rl.week = week
	rl.size = 0
	if info, err := file.Stat(); err == nil {
		rl.size = info.Size()
	}
	return nil
}

// pickFile returns the newest file of the week that still has room,
// or the next numbered file when there is none or forceNew is set
func (rl *RotatingLogger) pickFile(week string, forceNew bool) string {
	latest, num := rl.latestNumbered(week)
	if num == 0 {
		latest = filepath.Join(rl.dir, filePrefix+week+".log")
	}
	if !forceNew && rl.hasRoom(latest) {
		return filepath.Base(latest)
	}
	return fmt.Sprintf("%s%s_%02d.log", filePrefix, week, num+1)
}

func (rl *RotatingLogger) hasRoom(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return true
	}
	return rl.maxFileSize <= 0 || info.Size() < rl.maxFileSize
}

func (rl *RotatingLogger) latestNumbered(week string) (string, int) {
	matches, _ := filepath.Glob(filepath.Join(rl.dir, filePrefix+week+"_??.log"))

	var latest string
	highest := 0
	for _, match := range matches {
		m := numberedFileRegex.FindStringSubmatch(filepath.Base(match))
		if len(m) < 2 {
			continue
		}
		if num, _ := strconv.Atoi(m[1]); num > highest {
			highest = num
			latest = match
		}
	}
	return latest, highest
}

func (rl *RotatingLogger) cleanupLoop(every time.Duration) {
	defer close(rl.cleanupDone)

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
			if _, err := rl.cleanupOldLogs(); err != nil {
				fmt.Fprintf(os.Stderr, "log cleanup failed: %v\n", err)
			}
		}
	}
}

// cleanupOldLogs removes our log files last modified before the retention cutoff
func (rl *RotatingLogger) cleanupOldLogs() (int, error) {
	entries, err := os.ReadDir(rl.dir)
	if err != nil {
		return 0, fmt.Errorf("failed to read log directory: %w", err)
	}

	cutoff := rl.now().Add(-rl.retention)
	removed := 0
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, ".log") {
			continue
		}
		info, err := entry.Info()
		if err != nil || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(rl.dir, name)); err == nil {
			removed++
		}
	}
	return removed, nil
}

// Close stops the cleanup loop and closes the current file
func (rl *RotatingLogger) Close() error {
	select {
	case <-rl.stop:
	default:
		close(rl.stop)
	}

	if rl.cleaning {
		select {
		case <-rl.cleanupDone:
		case <-time.After(time.Second):
		}
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.closed = true
	if rl.file == nil {
		return nil
	}
	err := rl.file.Close()
	rl.file = nil
	return err
}
