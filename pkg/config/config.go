package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// ExchangeConfig 交易所接入配置
type ExchangeConfig struct {
	BaseURL        string // 交易所地址，空值使用官方公网地址
	Key            string // API Key（只用公共接口可留空）
	Secret         string // API Secret（留空则交易请求不签名、会被拒绝提交）
	TimeoutSeconds int    // 单次请求超时（秒）
	Verbose        bool   // 回显原始响应
}

// TraderConfig 命令行交易配置
type TraderConfig struct {
	DefaultSymbol string // 缺省交易对，例如 VX_BTC-000
	TestMode      bool   // true 时所有下单走测试接口，不产生真实成交
	StateDir      string // 本地状态目录（最近下单记录等）
}

// MarketHubConfig 行情快照服务配置
type MarketHubConfig struct {
	Listen                  string   // HTTP 监听地址
	DebugListen             string   // expvar/pprof 调试监听地址，为空则不启用
	DatabasePath            string   // SQLite 数据库文件路径
	Symbols                 []string // 采集的交易对列表
	SnapshotIntervalSeconds int      // 采集间隔（秒）
}

// SecretStoreConfig 本地凭据库配置
type SecretStoreConfig struct {
	Path string // badger 数据目录
}

// Config 应用配置
type Config struct {
	Exchange    ExchangeConfig
	Trader      TraderConfig
	MarketHub   MarketHubConfig
	SecretStore SecretStoreConfig
	LogLevel    string // 日志级别
	LogFile     string // 日志文件路径（可选，为空则只输出到控制台）
}

var globalConfig *Config
var configFilePath string

// SetConfigPath 设置配置文件路径
func SetConfigPath(path string) {
	configFilePath = path
}

// GetConfigPath 获取配置文件路径
func GetConfigPath() string {
	return configFilePath
}

// ConfigFile 配置文件结构（用于 YAML/JSON 解析）
type ConfigFile struct {
	Exchange struct {
		BaseURL        string `yaml:"base_url" json:"base_url"`
		Key            string `yaml:"key" json:"key"`
		Secret         string `yaml:"secret" json:"secret"`
		TimeoutSeconds int    `yaml:"timeout_seconds" json:"timeout_seconds"`
		Verbose        bool   `yaml:"verbose" json:"verbose"`
	} `yaml:"exchange" json:"exchange"`
	Trader struct {
		DefaultSymbol string `yaml:"default_symbol" json:"default_symbol"`
		TestMode      bool   `yaml:"test_mode" json:"test_mode"`
		StateDir      string `yaml:"state_dir" json:"state_dir"`
	} `yaml:"trader" json:"trader"`
	MarketHub struct {
		Listen                  string   `yaml:"listen" json:"listen"`
		DebugListen             string   `yaml:"debug_listen" json:"debug_listen"`
		DatabasePath            string   `yaml:"database_path" json:"database_path"`
		Symbols                 []string `yaml:"symbols" json:"symbols"`
		SnapshotIntervalSeconds int      `yaml:"snapshot_interval_seconds" json:"snapshot_interval_seconds"`
	} `yaml:"markethub" json:"markethub"`
	SecretStore struct {
		Path string `yaml:"path" json:"path"`
	} `yaml:"secretstore" json:"secretstore"`
	LogLevel string `yaml:"log_level" json:"log_level"`
	LogFile  string `yaml:"log_file" json:"log_file"`
}

// Load 加载配置
func Load() (*Config, error) {
	return LoadFromFile(configFilePath)
}

// LoadFromFile 从指定文件加载配置。
// 优先级：配置文件 > 环境变量 > 默认值。文件路径为空时只用环境变量与默认值。
func LoadFromFile(filePath string) (*Config, error) {
	if globalConfig != nil && configFilePath == filePath {
		return globalConfig, nil
	}

	var configFile *ConfigFile
	if filePath != "" {
		var err error
		configFile, err = loadConfigFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("加载配置文件失败 %s: %w", filePath, err)
		}
	}

	config := &Config{
		Exchange: ExchangeConfig{
			BaseURL:        fileOrEnv(configFile, func(cf *ConfigFile) string { return cf.Exchange.BaseURL }, "VITEX_BASE_URL", ""),
			Key:            fileOrEnv(configFile, func(cf *ConfigFile) string { return cf.Exchange.Key }, "VITEX_API_KEY", ""),
			Secret:         fileOrEnv(configFile, func(cf *ConfigFile) string { return cf.Exchange.Secret }, "VITEX_API_SECRET", ""),
			TimeoutSeconds: fileOrEnvInt(configFile, func(cf *ConfigFile) int { return cf.Exchange.TimeoutSeconds }, "VITEX_TIMEOUT_SECONDS", 30),
			Verbose:        fileOrEnvBool(configFile, func(cf *ConfigFile) bool { return cf.Exchange.Verbose }, "VITEX_HTTP_VERBOSE", false),
		},
		Trader: TraderConfig{
			DefaultSymbol: fileOrEnv(configFile, func(cf *ConfigFile) string { return cf.Trader.DefaultSymbol }, "VITEX_SYMBOL", ""),
			TestMode:      fileOrEnvBool(configFile, func(cf *ConfigFile) bool { return cf.Trader.TestMode }, "VITEX_TEST_MODE", false),
			StateDir:      fileOrEnv(configFile, func(cf *ConfigFile) string { return cf.Trader.StateDir }, "VITEX_STATE_DIR", "data/trader-state"),
		},
		MarketHub: MarketHubConfig{
			Listen:                  fileOrEnv(configFile, func(cf *ConfigFile) string { return cf.MarketHub.Listen }, "MARKETHUB_LISTEN", ":8090"),
			DebugListen:             fileOrEnv(configFile, func(cf *ConfigFile) string { return cf.MarketHub.DebugListen }, "MARKETHUB_DEBUG_LISTEN", ""),
			DatabasePath:            fileOrEnv(configFile, func(cf *ConfigFile) string { return cf.MarketHub.DatabasePath }, "MARKETHUB_DB", "data/markethub.db"),
			Symbols:                 fileOrEnvList(configFile, func(cf *ConfigFile) []string { return cf.MarketHub.Symbols }, "MARKETHUB_SYMBOLS"),
			SnapshotIntervalSeconds: fileOrEnvInt(configFile, func(cf *ConfigFile) int { return cf.MarketHub.SnapshotIntervalSeconds }, "MARKETHUB_SNAPSHOT_INTERVAL", 30),
		},
		SecretStore: SecretStoreConfig{
			Path: fileOrEnv(configFile, func(cf *ConfigFile) string { return cf.SecretStore.Path }, "SECRETSTORE_PATH", "data/secretstore"),
		},
		LogLevel: fileOrEnv(configFile, func(cf *ConfigFile) string { return cf.LogLevel }, "LOG_LEVEL", "info"),
		LogFile:  fileOrEnv(configFile, func(cf *ConfigFile) string { return cf.LogFile }, "LOG_FILE", ""),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("配置验证失败: %w", err)
	}

	globalConfig = config
	configFilePath = filePath
	return config, nil
}

// Get 获取全局配置（如果已加载）
func Get() *Config {
	return globalConfig
}

// Reset 清空缓存的全局配置（测试用）
func Reset() {
	globalConfig = nil
	configFilePath = ""
}

// Validate 验证配置
func (c *Config) Validate() error {
	if c.Exchange.TimeoutSeconds <= 0 {
		return fmt.Errorf("VITEX_TIMEOUT_SECONDS 必须大于 0")
	}
	if c.Trader.DefaultSymbol != "" {
		if err := validateSymbol(c.Trader.DefaultSymbol); err != nil {
			return err
		}
	}
	if c.MarketHub.SnapshotIntervalSeconds <= 0 {
		return fmt.Errorf("MARKETHUB_SNAPSHOT_INTERVAL 必须大于 0")
	}
	for _, symbol := range c.MarketHub.Symbols {
		if err := validateSymbol(symbol); err != nil {
			return err
		}
	}
	return nil
}

// validateSymbol 交易对符号必须恰好由一个下划线分隔两个非空段
func validateSymbol(symbol string) error {
	parts := strings.Split(symbol, "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fmt.Errorf("交易对符号 %q 非法，应形如 BASE-XXX_QUOTE-XXX", symbol)
	}
	return nil
}

// loadConfigFile 加载配置文件（支持 YAML 和 JSON）
func loadConfigFile(filePath string) (*ConfigFile, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var configFile ConfigFile
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &configFile); err != nil {
			return nil, fmt.Errorf("解析 YAML 配置文件失败: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &configFile); err != nil {
			return nil, fmt.Errorf("解析 JSON 配置文件失败: %w", err)
		}
	default:
		return nil, fmt.Errorf("不支持的配置文件格式: %s (支持 .yaml, .yml, .json)", ext)
	}

	return &configFile, nil
}

// fileOrEnv 从配置文件取字符串值，未配置时回落到环境变量与默认值
func fileOrEnv(cf *ConfigFile, getter func(*ConfigFile) string, envKey, defaultValue string) string {
	if cf != nil {
		if v := getter(cf); v != "" {
			return v
		}
	}
	return getEnv(envKey, defaultValue)
}

// fileOrEnvInt 从配置文件取整数值（必须为正），未配置时回落到环境变量与默认值
func fileOrEnvInt(cf *ConfigFile, getter func(*ConfigFile) int, envKey string, defaultValue int) int {
	if cf != nil {
		if v := getter(cf); v > 0 {
			return v
		}
	}
	return parseIntEnv(envKey, defaultValue)
}

// fileOrEnvBool 从配置文件取布尔值。文件里显式 true 优先；
// 文件为 false/缺失时由环境变量决定。
func fileOrEnvBool(cf *ConfigFile, getter func(*ConfigFile) bool, envKey string, defaultValue bool) bool {
	if cf != nil && getter(cf) {
		return true
	}
	return parseBoolEnv(envKey, defaultValue)
}

// fileOrEnvList 从配置文件取字符串列表，未配置时解析逗号分隔的环境变量
func fileOrEnvList(cf *ConfigFile, getter func(*ConfigFile) []string, envKey string) []string {
	if cf != nil {
		if v := getter(cf); len(v) > 0 {
			return v
		}
	}
	return parseList(getEnv(envKey, ""))
}

// parseList 解析逗号分隔的列表，忽略空段
func parseList(str string) []string {
	if str == "" {
		return nil
	}
	parts := strings.Split(str, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// parseIntEnv 解析整数环境变量
func parseIntEnv(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}

// parseBoolEnv 解析布尔环境变量
func parseBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
