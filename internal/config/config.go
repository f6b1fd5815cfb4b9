package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig 应用配置
type AppConfig struct {
	Telegram TelegramConfig `toml:"telegram"`
	Server   ServerConfig   `toml:"server"`
	Sheet    SheetConfig    `toml:"sheet"`
	Identity IdentityConfig `toml:"identity"`
	App      AppSection     `toml:"app"`
}

// TelegramConfig Telegram 接入配置
type TelegramConfig struct {
	Token   string `toml:"token"`
	Webhook bool   `toml:"webhook"`
}

// ServerConfig webhook 服务配置
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// SheetConfig 表格存储配置
// Backend 取值 memory / excel / google
type SheetConfig struct {
	Backend         string `toml:"backend"`
	SpreadsheetID   string `toml:"spreadsheet_id"`
	CredentialsFile string `toml:"credentials_file"`
	ExcelPath       string `toml:"excel_path"`
}

// IdentityConfig 提交人身份配置
// Policy 取值 auto / strict
type IdentityConfig struct {
	Policy string `toml:"policy"`
}

// AppSection 通用配置
type AppSection struct {
	Timezone string `toml:"timezone"`
	DataDir  string `toml:"data_dir"`
}

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Telegram: TelegramConfig{
			Token:   "",
			Webhook: false,
		},
		Server: ServerConfig{
			Port:    8799,
			DevMode: false,
		},
		Sheet: SheetConfig{
			Backend:   "excel",
			ExcelPath: "",
		},
		Identity: IdentityConfig{
			Policy: "auto",
		},
		App: AppSection{
			Timezone: "Asia/Jakarta",
			DataDir:  "data",
		},
	}
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig 从 config.toml 加载配置
// 配置文件位于可执行文件同目录下；不存在时使用默认配置
// 环境变量 BOT_TOKEN / SHEET_ID / GOOGLE_CREDENTIALS_JSON 覆盖对应项
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(config)
			return config, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	applyEnvOverrides(config)
	return config, nil
}

// applyEnvOverrides 环境变量覆盖（用于容器/本地运行）
func applyEnvOverrides(config *AppConfig) {
	if v := os.Getenv("BOT_TOKEN"); v != "" {
		config.Telegram.Token = v
	}
	if v := os.Getenv("SHEET_ID"); v != "" {
		config.Sheet.SpreadsheetID = v
		if config.Sheet.Backend == "" || config.Sheet.Backend == "excel" {
			config.Sheet.Backend = "google"
		}
	}
	if v := os.Getenv("GOOGLE_CREDENTIALS_JSON"); v != "" {
		config.Sheet.CredentialsFile = v
	}
}

// SaveConfig 保存配置到 config.toml
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir 确保数据目录存在
// 数据目录位于可执行文件同目录下
func EnsureDataDir(config *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	dataDir := filepath.Join(exeDir, config.App.DataDir)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	return dataDir, nil
}
