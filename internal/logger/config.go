package logger

import (
	"os"
	"strconv"
)

// LogConfig chứa cấu hình cho hệ thống logging
type LogConfig struct {
	Level  string // Log level: debug, info, warn, error
	Format string // Format: json hoặc text
	Output string // Output: file, stdout, both

	LogPath string // Thư mục chứa file logs (tương đối với root project)

	// Cấu hình rotation (lumberjack)
	MaxSize    int  // Kích thước tối đa của một file log (MB)
	MaxBackups int  // Số file cũ giữ lại
	MaxAge     int  // Số ngày giữ file log
	Compress   bool // Nén file cũ

	// Tên file cho từng logger
	AppFile  string // Logger chính của ứng dụng
	DataFile string // Logger cho tầng data access (repository, transaction, batch)
	HTTPFile string // Logger cho outbound HTTP client
}

// DefaultConfig trả về cấu hình mặc định, đọc environment variables nếu có
func DefaultConfig() *LogConfig {
	return &LogConfig{
		Level:      getEnvString("LOG_LEVEL", "info"),
		Format:     getEnvString("LOG_FORMAT", "json"),
		Output:     getEnvString("LOG_OUTPUT", "both"),
		LogPath:    getEnvString("LOG_PATH", "logs"),
		MaxSize:    getEnvInt("LOG_MAX_SIZE", 100),
		MaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		MaxAge:     getEnvInt("LOG_MAX_AGE", 30),
		Compress:   getEnvBool("LOG_COMPRESS", true),
		AppFile:    "app.log",
		DataFile:   "data.log",
		HTTPFile:   "http.log",
	}
}

func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
