package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	loggers   = make(map[string]*logrus.Logger)
	loggersMu sync.Mutex

	config  *LogConfig
	rootDir string
)

// Init khởi tạo hệ thống logging. cfg=nil dùng cấu hình mặc định.
func Init(cfg *LogConfig) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	config = cfg

	if err := initRootDir(); err != nil {
		return fmt.Errorf("không xác định được thư mục gốc: %w", err)
	}
	if err := os.MkdirAll(logPath(), 0755); err != nil {
		return fmt.Errorf("không tạo được thư mục logs: %w", err)
	}
	return nil
}

// initRootDir xác định thư mục gốc của project để đặt thư mục logs.
// Thứ tự: env LOG_ROOT_DIR, rồi vị trí executable (resolve symlink cho
// trường hợp chạy qua systemd), cuối cùng đi ngược từ working directory
// tới khi gặp thư mục có logs/ hoặc config/.
func initRootDir() error {
	if rootDir != "" {
		return nil
	}

	if env := os.Getenv("LOG_ROOT_DIR"); env != "" {
		if resolved, err := filepath.EvalSymlinks(env); err == nil {
			rootDir = resolved
		} else {
			rootDir = env
		}
		return nil
	}

	if executable, err := os.Executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(executable); err == nil {
			executable = resolved
		}
		// Binary nằm ở <root>/cmd/server/, đi lên 3 cấp
		candidate := filepath.Dir(filepath.Dir(filepath.Dir(executable)))
		if looksLikeRoot(candidate) {
			rootDir = candidate
			return nil
		}
	}

	wd, err := os.Getwd()
	if err != nil {
		return err
	}
	dir := wd
	for i := 0; i < 5; i++ {
		if looksLikeRoot(dir) {
			rootDir = dir
			return nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	rootDir = filepath.Dir(filepath.Dir(wd))
	return nil
}

func looksLikeRoot(dir string) bool {
	for _, marker := range []string{"logs", "config"} {
		if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
			return true
		}
	}
	return false
}

func logPath() string {
	if filepath.IsAbs(config.LogPath) {
		return config.LogPath
	}
	return filepath.Join(rootDir, config.LogPath)
}

func logFilePath(name string) string {
	var filename string
	switch name {
	case "app":
		filename = config.AppFile
	case "audit":
		filename = config.AuditFile
	case "error":
		filename = config.ErrorFile
	default:
		filename = name + ".log"
	}
	return filepath.Join(logPath(), filename)
}

// GetLogger trả về logger theo tên (app, audit, error), tạo mới nếu chưa có.
func GetLogger(name string) *logrus.Logger {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if config == nil {
		if err := Init(nil); err != nil {
			panic(fmt.Sprintf("khởi tạo logger thất bại: %v", err))
		}
	}
	if logger, ok := loggers[name]; ok {
		return logger
	}
	logger := newLogger(name)
	loggers[name] = logger
	return logger
}

func newLogger(name string) *logrus.Logger {
	logger := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	if config.Format == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05.000",
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
				logrus.FieldKeyFunc:  "function",
				logrus.FieldKeyFile:  "file",
			},
		})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05.000",
			CallerPrettyfier: func(f *runtime.Frame) (string, string) {
				parts := strings.Split(f.Function, ".")
				return parts[len(parts)-1], fmt.Sprintf("%s:%d", filepath.Base(f.File), f.Line)
			},
		})
	}

	var writers []io.Writer
	if config.Output == "file" || config.Output == "both" {
		writers = append(writers, &lumberjack.Logger{
			Filename:   logFilePath(name),
			MaxSize:    config.MaxSize,
			MaxBackups: config.MaxBackups,
			MaxAge:     config.MaxAge,
			Compress:   config.Compress,
		})
	}
	if config.Output == "stdout" || config.Output == "both" {
		writers = append(writers, os.Stdout)
	}

	// FilterHook phải đứng trước AsyncHook: entry bị filter được đánh dấu
	// trước khi vào queue ghi
	logger.AddHook(NewFilterHook(config))

	// Ghi qua async hook để file I/O chậm không chặn request handling;
	// output gốc discard để tránh ghi trùng
	if len(writers) > 0 {
		logger.AddHook(NewAsyncHookWithWriters(writers, 1000))
		logger.SetOutput(io.Discard)
	}

	logger.SetReportCaller(true)
	logger = logger.WithField("service", name).Logger

	logger.WithFields(logrus.Fields{
		"log_file": logFilePath(name),
		"level":    logger.GetLevel().String(),
		"format":   config.Format,
		"output":   config.Output,
	}).Info("Logger initialized successfully")

	return logger
}

// GetAppLogger trả về logger chính của ứng dụng.
func GetAppLogger() *logrus.Logger {
	return GetLogger("app")
}

// GetAuditLogger trả về logger ghi dấu vết thao tác (đăng nhập, lock).
func GetAuditLogger() *logrus.Logger {
	return GetLogger("audit")
}

// GetErrorLogger trả về logger cho lỗi.
func GetErrorLogger() *logrus.Logger {
	return GetLogger("error")
}
