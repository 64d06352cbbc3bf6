package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng.
// Toàn bộ cấu hình được inject tường minh vào các thành phần cần dùng,
// không đọc qua biến global.
type Configuration struct {
	Address string `env:"ADDRESS" envDefault:":8080"` // Địa chỉ server

	// Firebase / Firestore Configuration
	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID,required"` // Firebase Project ID
	FirebaseCredentialsPath string `env:"FIREBASE_CREDENTIALS_PATH"`    // Đường dẫn đến service account JSON (bỏ trống khi dùng ADC hoặc emulator)

	// CORS Configuration
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials

	// Rate Limiting Configuration
	RateLimit_Max     int  `env:"RATE_LIMIT_MAX" envDefault:"100"`      // Số request tối đa trong window (0 = disable rate limit)
	RateLimit_Window  int  `env:"RATE_LIMIT_WINDOW" envDefault:"60"`    // Thời gian window (giây)
	RateLimit_Enabled bool `env:"RATE_LIMIT_ENABLED" envDefault:"true"` // Bật/tắt rate limiting

	// Embedder Service Configuration (optional - bỏ trống để tắt tính embedding khi ingest)
	EmbedderBaseURL string `env:"EMBEDDER_BASE_URL"` // Base URL của embedder service
	EmbedderAPIKey  string `env:"EMBEDDER_API_KEY"`  // API key của embedder service

	// HTTP Client Configuration (outbound)
	HTTPClient_Retries      int `env:"HTTP_CLIENT_RETRIES" envDefault:"3"`           // Số lần retry tối đa
	HTTPClient_RetryDelayMs int `env:"HTTP_CLIENT_RETRY_DELAY_MS" envDefault:"1000"` // Delay cơ sở giữa các lần retry (ms)
	HTTPClient_TimeoutMs    int `env:"HTTP_CLIENT_TIMEOUT_MS" envDefault:"10000"`    // Timeout cho mỗi attempt (ms)
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

// NewConfig sẽ đọc dữ liệu cấu hình từ file env (nếu có) và environment variables
func NewConfig() *Configuration {
	envPath := getEnvPath()
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			// Không coi là lỗi chết người: cho phép chạy thuần bằng environment variables
			// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
			fmt.Printf("Không thể load file env tại %s: %v\n", envPath, err)
		}
	}

	cfg := Configuration{}
	if err := env.Parse(&cfg); err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
