package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultAllowedOrigins are the web front-ends allowed to call /analyze.
var DefaultAllowedOrigins = []string{
	"https://team-pikachu-5f4c8.firebaseapp.com",
	"https://team-pikachu-5f4c8.web.app",
}

// Config holds the settings shared by the server and the batch driver.
type Config struct {
	GeminiAPIKey   string
	GeminiModel    string
	Port           string
	AllowedOrigins []string
	UploadDir      string
	HeaderRow      int
	LogLevel       string

	// Batch driver
	ExcelFile  string
	SheetName  string
	OutputDir  string
	GCPProject string
}

// Load reads .env (if present) and resolves every setting from v, which
// sees the process environment and any bound flags. A nil v uses a fresh viper.
func Load(v *viper.Viper) (*Config, error) {
	// A missing .env is fine; the environment may already be set.
	_ = godotenv.Load()

	if v == nil {
		v = viper.New()
	}
	setDefaults(v)
	v.AutomaticEnv()

	headerRow := v.GetInt("header_row")
	if headerRow < 0 {
		return nil, fmt.Errorf("HEADER_ROW must not be negative, got %d", headerRow)
	}

	cfg := &Config{
		GeminiAPIKey:   strings.TrimSpace(v.GetString("gemini_api_key")),
		GeminiModel:    v.GetString("gemini_model"),
		Port:           v.GetString("port"),
		AllowedOrigins: splitList(v.GetString("allowed_origins")),
		UploadDir:      v.GetString("upload_dir"),
		HeaderRow:      headerRow,
		LogLevel:       v.GetString("log_level"),
		ExcelFile:      v.GetString("excel_file"),
		SheetName:      v.GetString("sheet_name"),
		OutputDir:      v.GetString("output_dir"),
		GCPProject:     v.GetString("gcp_project"),
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("port", "8080")
	v.SetDefault("allowed_origins", strings.Join(DefaultAllowedOrigins, ","))
	v.SetDefault("upload_dir", "")
	v.SetDefault("header_row", 2)
	v.SetDefault("log_level", "info")
	v.SetDefault("excel_file", "Test Results and Suites Schema.xlsx")
	v.SetDefault("sheet_name", "Test results data")
	v.SetDefault("output_dir", "")
	v.SetDefault("gcp_project", "")
}

// Validate checks the settings needed to talk to Gemini.
func (c *Config) Validate() error {
	if c.GeminiAPIKey == "" {
		return fmt.Errorf("GEMINI_API_KEY is not set in the environment")
	}
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}
	return nil
}

// EnsureUploadDir creates the upload directory. Without UPLOAD_DIR a new
// temporary directory is created; it lives as long as the process.
func (c *Config) EnsureUploadDir() error {
	if c.UploadDir == "" {
		dir, err := os.MkdirTemp("", "remediation-uploads-")
		if err != nil {
			return fmt.Errorf("failed to create upload directory: %w", err)
		}
		c.UploadDir = dir
		return nil
	}
	if err := os.MkdirAll(c.UploadDir, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
