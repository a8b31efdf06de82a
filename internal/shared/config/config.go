package config

import (
	"errors"
	"fmt"
	"os"
	"proxycheck/internal/shared/types"
	"strconv"

	"gopkg.in/ini.v1"
)

const (
	DefaultOutputFile     = "working_proxies.txt"
	DefaultTimeout        = 10
	DefaultMaxConnections = 100
	DefaultTestURL        = "http://httpbin.org/ip"
	DefaultLogLevel       = "info"
)

// Default 返回填充了内置默认值的配置。
func Default() *types.Config {
	return &types.Config{
		CheckerConf: types.CheckerConf{
			OutputFile:     DefaultOutputFile,
			Timeout:        DefaultTimeout,
			MaxConnections: DefaultMaxConnections,
			TestURL:        DefaultTestURL,
		},
		LogConf: types.LogConf{Level: DefaultLogLevel},
	}
}

// LoadIni 将 ini 文件叠加到 cfg 上，文件中未出现的键保持原值。
// 之后应用环境变量覆盖。
func LoadIni(cfg *types.Config, fileName string) error {
	iniFile, err := ini.Load(fileName)
	if err != nil {
		return err
	}
	if err := iniFile.MapTo(cfg); err != nil {
		return err
	}
	ApplyEnv(cfg)
	return nil
}

// ApplyEnv overrides numeric checker settings from the environment.
func ApplyEnv(cfg *types.Config) {
	overrideFromEnvInt(&cfg.Timeout, "PROXY_CHECK_TIMEOUT")
	overrideFromEnvInt(&cfg.MaxConnections, "PROXY_CHECK_MAX_CONNECTIONS")
}

// Validate reports configuration errors that must abort a run.
func Validate(cfg *types.Config) error {
	if cfg.InputFile == "" {
		return errors.New("input file is required")
	}
	if cfg.OutputFile == "" {
		return errors.New("output file must not be empty")
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %d", cfg.Timeout)
	}
	if cfg.MaxConnections <= 0 {
		return fmt.Errorf("max connections must be positive, got %d", cfg.MaxConnections)
	}
	return nil
}

func overrideFromEnvInt(target *int, envName string) {
	envValue := os.Getenv(envName)
	if envValue != "" {
		if intValue, err := strconv.Atoi(envValue); err == nil {
			*target = intValue
		}
	}
}
