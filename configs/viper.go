// Package configs provides configuration structures and utilities for PrepMate.
// This file implements Viper-based configuration management with hot reloading support.
//
// Package configs 提供PrepMate的配置结构和工具。
// 本文件实现基于Viper的配置管理，支持热重载。
package configs

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables that override file values,
// e.g. PREPMATE_SERVER_ADDR overrides server.addr.
//
// EnvPrefix 是覆盖文件值的环境变量前缀，例如PREPMATE_SERVER_ADDR覆盖server.addr。
const EnvPrefix = "PREPMATE"

// ViperConfig wraps a Config with Viper functionality for hot reloading.
// It provides thread-safe access to configuration and supports dynamic
// updates when the underlying configuration file changes.
//
// ViperConfig 使用Viper功能包装Config以支持热重载。
// 它提供对配置的线程安全访问，并支持在底层配置文件更改时进行动态更新。
type ViperConfig struct {
	config      *Config         // Current configuration / 当前配置
	viper       *viper.Viper    // Viper instance for configuration management / 用于配置管理的Viper实例
	configFile  string          // Path to the configuration file / 配置文件路径
	logger      *slog.Logger    // Logger for reload events / 重载事件日志
	mu          sync.RWMutex    // Mutex for thread-safe access / 用于线程安全访问的互斥锁
	subscribers []func(*Config) // List of subscribers to notify on config changes / 配置更改时要通知的订阅者列表
	stop        chan struct{}   // Stops the polling watcher / 停止轮询监视器
	stopOnce    sync.Once
}

// NewViperConfig creates a new ViperConfig.
// It loads configuration from the specified file and validates it.
//
// NewViperConfig 创建一个新的ViperConfig。
// 它从指定的文件加载配置并验证它。
//
// Parameters:
//   - configFile: Path to the configuration file
//   - logger: Logger for reload events, nil for slog.Default()
//
// Returns:
//   - *ViperConfig: A new ViperConfig instance
//   - error: An error if loading or validation fails
func NewViperConfig(configFile string, logger *slog.Logger) (*ViperConfig, error) {
	if logger == nil {
		logger = slog.Default()
	}

	v := viper.New()
	v.SetConfigFile(configFile)
	v.SetConfigType(strings.TrimPrefix(filepath.Ext(configFile), "."))
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read the config file
	// 读取配置文件
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config, err := decode(v)
	if err != nil {
		return nil, err
	}

	return &ViperConfig{
		config:     config,
		viper:      v,
		configFile: configFile,
		logger:     logger.With("component", "config"),
		stop:       make(chan struct{}),
	}, nil
}

// decode unmarshals the viper state over the defaults and validates it.
//
// decode 将viper状态解析到默认配置上并验证。
func decode(v *viper.Viper) (*Config, error) {
	config := DefaultConfig()
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return config, nil
}

// EnableHotReload enables fsnotify-based hot reloading of the configuration file.
// When the file changes, the configuration is reloaded and all subscribers are notified.
// An invalid file is logged and ignored; the previous configuration stays active.
//
// EnableHotReload 启用基于fsnotify的配置文件热重载。
// 当文件更改时，重新加载配置并通知所有订阅者。
// 无效文件会被记录并忽略；之前的配置保持生效。
func (vc *ViperConfig) EnableHotReload() {
	vc.viper.OnConfigChange(func(e fsnotify.Event) {
		vc.logger.Info("Config file changed", "file", e.Name, "op", e.Op.String())
		vc.reload()
	})
	vc.viper.WatchConfig()
}

// reload decodes the current viper state and publishes it.
//
// reload 解析当前viper状态并发布。
func (vc *ViperConfig) reload() bool {
	newConfig, err := decode(vc.viper)
	if err != nil {
		vc.logger.Warn("Ignoring configuration change", "error", err)
		return false
	}

	vc.mu.Lock()
	if configsEqual(vc.config, newConfig) {
		vc.mu.Unlock()
		return false
	}
	vc.config = newConfig
	subscribers := make([]func(*Config), len(vc.subscribers))
	copy(subscribers, vc.subscribers)
	vc.mu.Unlock()

	// Notify subscribers
	// 通知订阅者
	for _, subscriber := range subscribers {
		subscriber(newConfig)
	}
	return true
}

// Subscribe adds a subscriber that will be notified when the configuration changes.
//
// Subscribe 添加一个在配置更改时将被通知的订阅者。
func (vc *ViperConfig) Subscribe(subscriber func(*Config)) {
	vc.mu.Lock()
	defer vc.mu.Unlock()
	vc.subscribers = append(vc.subscribers, subscriber)
}

// Get returns the current configuration.
// This method is thread-safe and can be called concurrently.
//
// Get 返回当前配置。
// 此方法是线程安全的，可以并发调用。
func (vc *ViperConfig) Get() *Config {
	vc.mu.RLock()
	defer vc.mu.RUnlock()
	return vc.config
}

// Close stops the polling watcher, if any.
//
// Close 停止轮询监视器（如果有）。
func (vc *ViperConfig) Close() {
	vc.stopOnce.Do(func() { close(vc.stop) })
}

// LoadViperConfig loads a configuration from a file using Viper.
// It enables hot reloading when the file asks for it: fsnotify by default,
// polling when extensions.hot_reload.watch_interval is set.
//
// LoadViperConfig 使用Viper从文件加载配置。
// 当文件要求时启用热重载：默认使用fsnotify，设置了
// extensions.hot_reload.watch_interval时使用轮询。
//
// Parameters:
//   - configFile: Path to the configuration file
//   - logger: Logger for reload events
//
// Returns:
//   - *ViperConfig: A new ViperConfig instance
//   - error: An error if loading fails
func LoadViperConfig(configFile string, logger *slog.Logger) (*ViperConfig, error) {
	vc, err := NewViperConfig(configFile, logger)
	if err != nil {
		return nil, err
	}

	hr := vc.Get().Extensions.HotReload
	switch {
	case !hr.Enable:
	case hr.WatchInterval > 0:
		vc.watch(hr.WatchInterval)
	default:
		vc.EnableHotReload()
	}

	return vc, nil
}

// LoadViperConfigWithWatcher loads a configuration from a file using Viper and sets up a watcher
// that periodically checks for changes in the configuration file.
// This is an alternative to fsnotify-based hot reloading for file systems
// where notifications are unreliable, such as some container volume mounts.
//
// LoadViperConfigWithWatcher 使用Viper从文件加载配置，并设置一个定期检查
// 配置文件变化的监视器。这是基于fsnotify的热重载的替代方案，适用于
// 通知不可靠的文件系统，例如某些容器卷挂载。
func LoadViperConfigWithWatcher(configFile string, watchInterval time.Duration, logger *slog.Logger) (*ViperConfig, error) {
	vc, err := NewViperConfig(configFile, logger)
	if err != nil {
		return nil, err
	}
	vc.watch(watchInterval)
	return vc, nil
}

// watch polls the configuration file until Close is called.
//
// watch 轮询配置文件直到调用Close。
func (vc *ViperConfig) watch(interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if err := vc.viper.ReadInConfig(); err != nil {
					vc.logger.Warn("Failed to read config file", "file", vc.configFile, "error", err)
					continue
				}
				if vc.reload() {
					vc.logger.Info("Config file changed", "file", vc.configFile)
				}
			case <-vc.stop:
				return
			}
		}
	}()
}

// configsEqual checks if two configs are equal.
//
// configsEqual 检查两个配置是否相等。
func configsEqual(c1, c2 *Config) bool {
	return reflect.DeepEqual(c1, c2)
}
