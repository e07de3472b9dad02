package logger

// LogConfig chứa cấu hình cho hệ thống logging
type LogConfig struct {
	Level           string   // Log level: debug, info, warn, error
	Format          string   // Định dạng log: text hoặc json
	Output          string   // Đích ghi log: file, stdout, both
	LogPath         string   // Thư mục chứa các file log (tương đối so với root project)
	AppFile         string   // Tên file log chính của ứng dụng
	AuditFile       string   // Tên file log audit
	ErrorFile       string   // Tên file log lỗi
	MaxSize         int      // Kích thước tối đa của một file log (MB) trước khi rotate
	MaxBackups      int      // Số file log cũ giữ lại
	MaxAge          int      // Số ngày giữ file log cũ
	Compress        bool     // Nén file log cũ
	ExcludeMessages []string // Các message bị filter không ghi log
}

// DefaultConfig trả về cấu hình logging mặc định
func DefaultConfig() *LogConfig {
	return &LogConfig{
		Level:           "info",
		Format:          "text",
		Output:          "both",
		LogPath:         "logs",
		AppFile:         "app.log",
		AuditFile:       "audit.log",
		ErrorFile:       "error.log",
		MaxSize:         100,
		MaxBackups:      5,
		MaxAge:          30,
		Compress:        true,
	}
}
