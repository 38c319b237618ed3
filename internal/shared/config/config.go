package config

import (
	"os"
	"strconv"

	"gopkg.in/ini.v1"

	"claimscan/internal/shared/types"
)

// Load 返回默认配置，并在配置文件存在时用其覆盖默认值。
// 配置文件缺失不是错误：内置默认值即可完整运行一次扫描。
func Load(fileName string) (*types.Config, error) {
	cfg := types.Default()

	if _, err := os.Stat(fileName); os.IsNotExist(err) {
		applyEnvOverrides(cfg)
		return cfg, nil
	}

	iniFile, err := ini.Load(fileName)
	if err != nil {
		return nil, err
	}
	if err := iniFile.MapTo(cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	return cfg, nil
}

func applyEnvOverrides(cfg *types.Config) {
	overrideFromEnvInt(&cfg.ScannerConf.TimeoutMs, "CLAIMSCAN_TIMEOUT_MS")
	overrideFromEnvInt(&cfg.ScannerConf.DefaultPort, "CLAIMSCAN_DEFAULT_PORT")
}

func overrideFromEnvInt(target *int, envName string) {
	envValue := os.Getenv(envName)
	if envValue != "" {
		if intValue, err := strconv.Atoi(envValue); err == nil {
			*target = intValue
		}
	}
}
