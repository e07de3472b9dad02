package logger

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"sync"

	"github.com/sirupsen/logrus"
)

// AsyncHook đưa log entry qua một channel có buffer và ghi ra writers trong
// goroutine riêng, để file I/O chậm không chặn request handling.
type AsyncHook struct {
	writers []io.Writer
	entries chan *logrus.Entry
	wg      sync.WaitGroup
	mu      sync.Mutex
	closed  bool
}

func NewAsyncHookWithWriters(writers []io.Writer, bufferSize int) *AsyncHook {
	if bufferSize <= 0 {
		bufferSize = 1000
	}
	hook := &AsyncHook{
		writers: writers,
		entries: make(chan *logrus.Entry, bufferSize),
	}
	hook.wg.Add(1)
	go hook.run()
	return hook
}

func (h *AsyncHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

// Fire không bao giờ block: channel đầy thì entry bị bỏ. Sau khi Close thì
// ghi thẳng ra writers.
func (h *AsyncHook) Fire(entry *logrus.Entry) error {
	h.mu.Lock()
	closed := h.closed
	h.mu.Unlock()

	if closed {
		data, err := formatEntry(entry)
		if err != nil {
			return err
		}
		for _, writer := range h.writers {
			_, _ = writer.Write(data)
		}
		return nil
	}

	select {
	case h.entries <- entry:
	default:
		// Channel đầy, bỏ entry. Không log warning ở đây để tránh vòng lặp
	}
	return nil
}

// run tiêu thụ channel cho tới khi Close. Panic trong lúc ghi được recover
// để goroutine logger không kéo sập server.
func (h *AsyncHook) run() {
	defer h.wg.Done()
	for entry := range h.entries {
		h.writeEntry(entry)
	}
}

func (h *AsyncHook) writeEntry(entry *logrus.Entry) {
	defer func() {
		if r := recover(); r != nil {
			// Không dùng logger ở đây (vòng lặp), báo thẳng ra stderr
			fmt.Fprintf(os.Stderr, "[LOGGER PANIC] Logger goroutine panic recovered: %v\n", r)
			debug.PrintStack()
		}
	}()

	// Entry bị FilterHook đánh dấu thì không ghi
	if filtered, ok := entry.Data["_filtered"].(bool); ok && filtered {
		return
	}
	if _, ok := entry.Data["_filtered"]; ok {
		entry = entry.Dup()
		delete(entry.Data, "_filtered")
	}

	data, err := formatEntry(entry)
	if err != nil {
		return
	}
	for _, writer := range h.writers {
		// Một writer lỗi không chặn các writer còn lại
		_, _ = writer.Write(data)
	}
}

func formatEntry(entry *logrus.Entry) ([]byte, error) {
	if entry.Logger != nil && entry.Logger.Formatter != nil {
		return entry.Logger.Formatter.Format(entry)
	}
	line, err := entry.String()
	if err != nil {
		return nil, err
	}
	return []byte(line), nil
}

// Close đóng channel và đợi các entry còn lại được ghi xong.
func (h *AsyncHook) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	h.mu.Unlock()

	close(h.entries)
	h.wg.Wait()
	return nil
}
