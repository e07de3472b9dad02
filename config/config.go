package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng
// Nó chứa thông tin cơ sở dữ liệu và các tham số nghiệp vụ của hệ thống planning
type Configuration struct {
	InitMode              bool   `env:"INITMODE" envDefault:"false"`               // Chế độ khởi tạo
	Address               string `env:"ADDRESS" envDefault:":8080"`                // Địa chỉ server
	JwtSecret             string `env:"JWT_SECRET,required"`                       // Bí mật JWT
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`           // URL kết nối cơ sở dữ liệu
	MongoDB_DBName        string `env:"MONGODB_DBNAME,required"`                   // Tên cơ sở dữ liệu planning
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window (0 = disable rate limit)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting

	// Recurrence Configuration
	MaxRecurrentEvents int `env:"MAX_RECURRENT_EVENTS" envDefault:"200"` // Trần số occurrence của một chuỗi sự kiện lặp

	// Item Lock Configuration
	LockLeaseSeconds   int `env:"LOCK_LEASE_SECONDS" envDefault:"5"`     // TTL của mutex phân tán bảo vệ thao tác lock (giây)
	LockMaxEditMinutes int `env:"LOCK_MAX_EDIT_MINUTES" envDefault:"90"` // Thời gian giữ lock tối đa trước khi worker dọn dẹp (phút)

	// Spike Configuration
	SpikeExpiryDays int `env:"SPIKE_EXPIRY_DAYS" envDefault:"30"` // Số ngày giữ item đã spike trước khi xoá

	// Delivery Configuration
	DeliveryIntervalSeconds int    `env:"DELIVERY_INTERVAL_SECONDS" envDefault:"10"` // Chu kỳ worker xử lý delivery queue (giây)
	DeliveryMaxAttempts     int    `env:"DELIVERY_MAX_ATTEMPTS" envDefault:"3"`      // Số lần retry tối đa cho một message
	SMTPHost                string `env:"SMTP_HOST"`                                 // SMTP host cho kênh email (optional)
	SMTPPort                int    `env:"SMTP_PORT" envDefault:"587"`                // SMTP port
	SMTPUsername            string `env:"SMTP_USERNAME"`                             // SMTP username
	SMTPPassword            string `env:"SMTP_PASSWORD"`                             // SMTP password
	SMTPFromName            string `env:"SMTP_FROM_NAME" envDefault:"Planning"`      // Tên người gửi
	SMTPFromEmail           string `env:"SMTP_FROM_EMAIL"`                           // Email người gửi

	// TLS/HTTPS Configuration
	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"` // Bật HTTPS
	TLSCertFile string `env:"TLS_CERT_FILE"`                 // Đường dẫn đến file certificate (.crt hoặc .pem)
	TLSKeyFile  string `env:"TLS_KEY_FILE"`                  // Đường dẫn đến file private key (.key)
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Tìm thư mục config
	currentDir, err := os.Getwd()
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Tìm thư mục config/env
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			// Tìm thấy thư mục config/env
			envPath := filepath.Join(envDir, fmt.Sprintf("%s.env", env))
			return envPath
		}

		// Đi lên thư mục cha
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig sẽ đọc dữ liệu cấu hình từ file env được cung cấp
func NewConfig(files ...string) *Configuration {
	envPath := getEnvPath()
	if envPath == "" {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không tìm thấy thư mục config/env\n")
		return nil
	}

	err := godotenv.Load(envPath)
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể load file env tại %s: %v\n", envPath, err)
		return nil
	}

	cfg := Configuration{}
	err = env.Parse(&cfg)
	if err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
