// Package configs provides configuration structures and utilities for PrepMate.
// It offers mechanisms for loading, validating, and saving configuration from various sources
// including JSON and YAML files. The package defines the configuration tree of the
// study server: the cache manager, its store, the preset overrides and the ambient services.
//
// Package configs 提供PrepMate的配置结构和工具。
// 它提供从各种来源（包括JSON和YAML文件）加载、验证和保存配置的机制。
// 该包定义了学习服务器的配置树：缓存管理器、其存储、预设覆盖以及周边服务。
package configs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"encoding/json"

	"gopkg.in/yaml.v3"

	"github.com/AjayAntoIsDev/PrepMate/pkg/cache"
)

// Config represents the complete configuration for PrepMate.
//
// Config 表示PrepMate的完整配置。
type Config struct {
	// Cache contains cache manager settings
	// Cache 包含缓存管理器设置
	Cache CacheConfig `json:"cache" yaml:"cache" mapstructure:"cache"`

	// Storage selects the key-value store behind the cache
	// Storage 选择缓存背后的键值存储
	Storage StorageConfig `json:"storage" yaml:"storage" mapstructure:"storage"`

	// Presets overrides fields of the named cache policies
	// Presets 覆盖命名缓存策略的字段
	Presets map[string]PresetConfig `json:"presets" yaml:"presets" mapstructure:"presets"`

	// Metrics configures the Prometheus endpoint
	// Metrics 配置Prometheus端点
	Metrics MetricsConfig `json:"metrics" yaml:"metrics" mapstructure:"metrics"`

	// Log configures the logging behavior
	// Log 配置日志行为
	Log LogConfig `json:"log" yaml:"log" mapstructure:"log"`

	// Server configures the HTTP server
	// Server 配置HTTP服务器
	Server ServerConfig `json:"server" yaml:"server" mapstructure:"server"`

	// AI configures the chat-completion client
	// AI 配置聊天补全客户端
	AI AIConfig `json:"ai" yaml:"ai" mapstructure:"ai"`

	// Tracing configures OpenTelemetry export
	// Tracing 配置OpenTelemetry导出
	Tracing TracingConfig `json:"tracing" yaml:"tracing" mapstructure:"tracing"`

	// Sentry configures error reporting
	// Sentry 配置错误上报
	Sentry SentryConfig `json:"sentry" yaml:"sentry" mapstructure:"sentry"`

	// Extensions configures optional features like hot reloading
	// Extensions 配置可选功能，如热重载
	Extensions ExtensionsConfig `json:"extensions" yaml:"extensions" mapstructure:"extensions"`
}

// CacheConfig contains settings for the cache manager.
//
// CacheConfig 包含缓存管理器的设置。
type CacheConfig struct {
	// Prefix is prepended to every store key
	// Prefix 是每个存储键的前缀
	Prefix string `json:"prefix" yaml:"prefix" mapstructure:"prefix"`

	// CleanupInterval is how often expired entries are removed
	// CleanupInterval 是清除过期条目的频率
	CleanupInterval time.Duration `json:"cleanup_interval" yaml:"cleanup_interval" mapstructure:"cleanup_interval"`

	// EnforceLimits enables per-namespace max_entries/max_size eviction
	// EnforceLimits 启用按命名空间的max_entries/max_size淘汰
	EnforceLimits bool `json:"enforce_limits" yaml:"enforce_limits" mapstructure:"enforce_limits"`
}

// StorageConfig contains settings for the storage backend.
//
// StorageConfig 包含存储后端的设置。
type StorageConfig struct {
	// Engine is "memory" or "file"
	// Engine 为"memory"或"file"
	Engine string `json:"engine" yaml:"engine" mapstructure:"engine"`

	// Path is the snapshot file used by the file engine
	// Path 是file引擎使用的快照文件
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// PresetConfig overrides a named cache policy. Zero values keep the built-in setting.
//
// PresetConfig 覆盖一个命名缓存策略。零值保留内置设置。
type PresetConfig struct {
	TTL        time.Duration `json:"ttl" yaml:"ttl" mapstructure:"ttl"`
	MaxAge     time.Duration `json:"max_age" yaml:"max_age" mapstructure:"max_age"`
	MaxEntries int           `json:"max_entries" yaml:"max_entries" mapstructure:"max_entries"`
	MaxSize    int64         `json:"max_size" yaml:"max_size" mapstructure:"max_size"`
	Compress   *bool         `json:"compress,omitempty" yaml:"compress,omitempty" mapstructure:"compress"`
}

// Override converts the preset settings to a cache.Override.
//
// Override 将预设设置转换为cache.Override。
func (p PresetConfig) Override() cache.Override {
	return cache.Override{
		TTL:        p.TTL,
		MaxAge:     p.MaxAge,
		MaxEntries: p.MaxEntries,
		MaxSize:    p.MaxSize,
		Compress:   p.Compress,
	}
}

// MetricsConfig contains settings for metrics collection.
//
// MetricsConfig 包含指标收集的设置。
type MetricsConfig struct {
	// Enable determines whether metrics collection is active
	// Enable 确定是否启用指标收集
	Enable bool `json:"enable" yaml:"enable" mapstructure:"enable"`

	// Path is the HTTP path serving the metrics
	// Path 是提供指标的HTTP路径
	Path string `json:"path" yaml:"path" mapstructure:"path"`

	// Namespace prefixes every metric name
	// Namespace 是每个指标名称的前缀
	Namespace string `json:"namespace" yaml:"namespace" mapstructure:"namespace"`
}

// LogConfig contains settings for logging.
//
// LogConfig 包含日志记录的设置。
type LogConfig struct {
	// Level sets the minimum log level ("debug", "info", "warn", "error")
	// Level 设置最低日志级别（"debug"、"info"、"warn"、"error"）
	Level string `json:"level" yaml:"level" mapstructure:"level"`

	// Format specifies the log format ("text", "json")
	// Format 指定日志格式（"text"、"json"）
	Format string `json:"format" yaml:"format" mapstructure:"format"`

	// Output determines where logs are written ("stdout", "stderr", "file")
	// Output 确定日志写入的位置（"stdout"、"stderr"、"file"）
	Output string `json:"output" yaml:"output" mapstructure:"output"`

	// FilePath is the path to the log file when Output is "file"
	// FilePath 是当Output为"file"时的日志文件路径
	FilePath string `json:"file_path" yaml:"file_path" mapstructure:"file_path"`
}

// Destination returns the value passed to the logger: a stream name or the file path.
//
// Destination 返回传给日志器的值：流名称或文件路径。
func (l LogConfig) Destination() string {
	if l.Output == "file" {
		return l.FilePath
	}
	return l.Output
}

// ServerConfig contains settings for the HTTP server.
//
// ServerConfig 包含HTTP服务器的设置。
type ServerConfig struct {
	// Addr is the listen address
	// Addr 是监听地址
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// Mode is the gin mode ("debug", "release", "test")
	// Mode 是gin模式（"debug"、"release"、"test"）
	Mode string `json:"mode" yaml:"mode" mapstructure:"mode"`

	// ReadTimeout bounds reading a request
	// ReadTimeout 限制读取请求的时间
	ReadTimeout time.Duration `json:"read_timeout" yaml:"read_timeout" mapstructure:"read_timeout"`

	// WriteTimeout bounds a response, including content generation on a cache miss
	// WriteTimeout 限制响应时间，包括缓存未命中时的内容生成
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout" mapstructure:"write_timeout"`

	// ShutdownTimeout bounds graceful shutdown
	// ShutdownTimeout 限制优雅关闭的时间
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// AIConfig contains settings for the chat-completion client.
//
// AIConfig 包含聊天补全客户端的设置。
type AIConfig struct {
	BaseURL string `json:"base_url" yaml:"base_url" mapstructure:"base_url"`

	// APIKeyEnv names the environment variable holding the API key
	// APIKeyEnv 指定保存API密钥的环境变量名
	APIKeyEnv string `json:"api_key_env" yaml:"api_key_env" mapstructure:"api_key_env"`

	// Model is the default model; the per-content models fall back to it
	// Model 是默认模型；各内容模型为空时使用它
	Model      string `json:"model" yaml:"model" mapstructure:"model"`
	NotesModel string `json:"notes_model" yaml:"notes_model" mapstructure:"notes_model"`
	QuizModel  string `json:"quiz_model" yaml:"quiz_model" mapstructure:"quiz_model"`
	PlanModel  string `json:"plan_model" yaml:"plan_model" mapstructure:"plan_model"`

	RequestsPerSecond float64       `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `json:"burst" yaml:"burst" mapstructure:"burst"`
	Timeout           time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// Retries is the number of attempts per generation
	// Retries 是每次生成的尝试次数
	Retries int `json:"retries" yaml:"retries" mapstructure:"retries"`
}

// APIKey reads the API key from the configured environment variable.
//
// APIKey 从配置的环境变量读取API密钥。
func (a AIConfig) APIKey() string {
	if a.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(a.APIKeyEnv)
}

// TracingConfig contains settings for OpenTelemetry tracing.
//
// TracingConfig 包含OpenTelemetry追踪的设置。
type TracingConfig struct {
	Enable      bool    `json:"enable" yaml:"enable" mapstructure:"enable"`
	Endpoint    string  `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`
	ServiceName string  `json:"service_name" yaml:"service_name" mapstructure:"service_name"`
	SampleRate  float64 `json:"sample_rate" yaml:"sample_rate" mapstructure:"sample_rate"`
}

// SentryConfig contains settings for Sentry error reporting.
//
// SentryConfig 包含Sentry错误上报的设置。
type SentryConfig struct {
	// DSNEnv names the environment variable holding the DSN
	// DSNEnv 指定保存DSN的环境变量名
	DSNEnv      string `json:"dsn_env" yaml:"dsn_env" mapstructure:"dsn_env"`
	Environment string `json:"environment" yaml:"environment" mapstructure:"environment"`
}

// DSN reads the DSN from the configured environment variable.
//
// DSN 从配置的环境变量读取DSN。
func (s SentryConfig) DSN() string {
	if s.DSNEnv == "" {
		return ""
	}
	return os.Getenv(s.DSNEnv)
}

// ExtensionsConfig contains settings for extensions.
//
// ExtensionsConfig 包含扩展的设置。
type ExtensionsConfig struct {
	// HotReload contains settings for dynamic configuration reloading
	// HotReload 包含动态配置重新加载的设置
	HotReload HotReloadConfig `json:"hot_reload" yaml:"hot_reload" mapstructure:"hot_reload"`
}

// HotReloadConfig contains settings for hot reloading.
// Only presets, log level and the cleanup interval are re-applied at runtime.
//
// HotReloadConfig 包含热重载的设置。
// 运行时仅重新应用预设、日志级别和清理间隔。
type HotReloadConfig struct {
	// Enable determines whether hot reloading is active
	// Enable 确定是否启用热重载
	Enable bool `json:"enable" yaml:"enable" mapstructure:"enable"`

	// WatchInterval enables polling instead of fsnotify when positive
	// WatchInterval 为正数时使用轮询代替fsnotify
	WatchInterval time.Duration `json:"watch_interval" yaml:"watch_interval" mapstructure:"watch_interval"`
}

// DefaultConfig returns a new Config with default values.
//
// DefaultConfig 返回具有默认值的新Config。
//
// Returns:
//   - *Config: A new configuration instance with default values
//
// 返回：
//   - *Config: 具有默认值的新配置实例
func DefaultConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Prefix:          cache.DefaultPrefix,
			CleanupInterval: 5 * time.Minute,
			EnforceLimits:   true,
		},
		Storage: StorageConfig{
			Engine: "memory",
			Path:   "data/prepmate-cache.json",
		},
		Presets: make(map[string]PresetConfig),
		Metrics: MetricsConfig{
			Enable:    true,
			Path:      "/metrics",
			Namespace: "prepmate",
		},
		Log: LogConfig{
			Level:    "info",
			Format:   "json",
			Output:   "stdout",
			FilePath: "/var/log/prepmate.log",
		},
		Server: ServerConfig{
			Addr:            ":8080",
			Mode:            "release",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    2 * time.Minute,
			ShutdownTimeout: 10 * time.Second,
		},
		AI: AIConfig{
			BaseURL:           "https://api.cerebras.ai/v1",
			APIKeyEnv:         "PREPMATE_AI_API_KEY",
			Model:             "llama3.1-8b",
			RequestsPerSecond: 1,
			Burst:             3,
			Timeout:           90 * time.Second,
			Retries:           2,
		},
		Tracing: TracingConfig{
			Enable:      false,
			Endpoint:    "localhost:4318",
			ServiceName: "prepmate",
			SampleRate:  0.1,
		},
		Sentry: SentryConfig{
			DSNEnv:      "SENTRY_DSN",
			Environment: "development",
		},
		Extensions: ExtensionsConfig{
			HotReload: HotReloadConfig{
				Enable: false,
			},
		},
	}
}

// LoadFromFile loads configuration from a file.
// It supports both YAML and JSON formats, automatically
// detecting the format based on the file extension.
//
// LoadFromFile 从文件加载配置。
// 它支持YAML和JSON格式，根据文件扩展名自动检测格式。
//
// Parameters:
//   - filename: Path to the configuration file
//
// Returns:
//   - *Config: The loaded configuration
//   - error: An error if loading fails
func LoadFromFile(filename string) (*Config, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open configuration file: %w", err)
	}
	defer file.Close()

	return LoadFromReader(file, strings.TrimPrefix(filepath.Ext(filename), "."))
}

// LoadFromReader loads configuration from an io.Reader.
// Values absent from the input keep their defaults.
//
// LoadFromReader 从io.Reader加载配置。
// 输入中缺少的值保留默认值。
//
// Parameters:
//   - r: The reader providing the configuration data
//   - format: The format of the data ("json", "yaml", or "yml")
//
// Returns:
//   - *Config: The loaded configuration
//   - error: An error if loading fails
func LoadFromReader(r io.Reader, format string) (*Config, error) {
	config := DefaultConfig()
	var err error

	switch strings.ToLower(format) {
	case "yaml", "yml":
		err = yaml.NewDecoder(r).Decode(config)
	case "json":
		err = json.NewDecoder(r).Decode(config)
	default:
		return nil, fmt.Errorf("unsupported configuration format: %s", format)
	}

	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a file.
// It supports both YAML and JSON formats, automatically
// selecting the format based on the file extension.
//
// SaveToFile 将配置保存到文件。
// 它支持YAML和JSON格式，根据文件扩展名自动选择格式。
//
// Parameters:
//   - filename: Path where the configuration will be saved
//
// Returns:
//   - error: An error if saving fails
func (c *Config) SaveToFile(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext != ".yaml" && ext != ".yml" && ext != ".json" {
		return fmt.Errorf("unsupported configuration file format: %s", ext)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create configuration file: %w", err)
	}
	defer file.Close()

	if ext == ".json" {
		encoder := json.NewEncoder(file)
		encoder.SetIndent("", "  ")
		err = encoder.Encode(c)
	} else {
		encoder := yaml.NewEncoder(file)
		defer encoder.Close()
		err = encoder.Encode(c)
	}

	if err != nil {
		return fmt.Errorf("failed to encode configuration: %w", err)
	}

	return nil
}

// ApplyPresets applies the preset overrides to a catalog.
// The catalog is reset first so that removed overrides fall back to the built-in values.
//
// ApplyPresets 将预设覆盖应用到目录。
// 先重置目录，使被移除的覆盖恢复为内置值。
func (c *Config) ApplyPresets(catalog *cache.Catalog) {
	catalog.Reset()
	for name, preset := range c.Presets {
		catalog.Apply(name, preset.Override())
	}
}

// Validate validates the configuration.
//
// Validate 验证配置。
//
// Returns:
//   - error: An error describing the validation failure, or nil if valid
func (c *Config) Validate() error {
	// Validate cache settings
	// 验证缓存设置
	if c.Cache.CleanupInterval < time.Second {
		return fmt.Errorf("cache.cleanup_interval must be at least 1 second")
	}

	// Validate storage settings
	// 验证存储设置
	switch c.Storage.Engine {
	case "memory":
	case "file":
		if c.Storage.Path == "" {
			return fmt.Errorf("storage.path must be specified when storage.engine is 'file'")
		}
	default:
		return fmt.Errorf("storage.engine must be one of: memory, file")
	}

	// Validate presets
	// 验证预设
	for name, p := range c.Presets {
		if p.TTL < 0 || p.MaxAge < 0 || p.MaxEntries < 0 || p.MaxSize < 0 {
			return fmt.Errorf("presets.%s must not contain negative values", name)
		}
	}

	if c.Metrics.Enable && !strings.HasPrefix(c.Metrics.Path, "/") {
		return fmt.Errorf("metrics.path must start with '/'")
	}

	// Validate log settings
	// 验证日志设置
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of: debug, info, warn, error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be one of: text, json")
	}
	switch c.Log.Output {
	case "stdout", "stderr", "file":
	default:
		return fmt.Errorf("log.output must be one of: stdout, stderr, file")
	}
	if c.Log.Output == "file" && c.Log.FilePath == "" {
		return fmt.Errorf("log.file_path must be specified when log.output is 'file'")
	}

	// Validate server settings
	// 验证服务器设置
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must be specified")
	}
	switch c.Server.Mode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("server.mode must be one of: debug, release, test")
	}

	// Validate AI settings
	// 验证AI设置
	if c.AI.BaseURL == "" {
		return fmt.Errorf("ai.base_url must be specified")
	}
	if c.AI.RequestsPerSecond < 0 {
		return fmt.Errorf("ai.requests_per_second must be non-negative")
	}
	if c.AI.RequestsPerSecond > 0 && c.AI.Burst < 1 {
		return fmt.Errorf("ai.burst must be at least 1 when rate limiting is enabled")
	}
	if c.AI.Retries < 1 {
		return fmt.Errorf("ai.retries must be at least 1")
	}

	if c.Tracing.SampleRate < 0 || c.Tracing.SampleRate > 1 {
		return fmt.Errorf("tracing.sample_rate must be between 0 and 1")
	}

	// Validate extensions settings
	// 验证扩展设置
	if c.Extensions.HotReload.WatchInterval != 0 && c.Extensions.HotReload.WatchInterval < time.Second {
		return fmt.Errorf("extensions.hot_reload.watch_interval must be at least 1 second")
	}

	return nil
}
