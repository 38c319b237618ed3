package types

// ScannerConf 包含扫描行为的配置。
type ScannerConf struct {
	ServersFile string `ini:"servers_file"`
	WalletsFile string `ini:"wallets_file"`
	ValidFile   string `ini:"valid_file"`
	NovalidFile string `ini:"novalid_file"`
	TimeoutFile string `ini:"timeout_file"`

	DefaultPort int `ini:"default_port"`
	TimeoutMs   int `ini:"timeout_ms"`

	// Socks5Proxy, when non-empty ("host:port"), routes all probe requests
	// through the given SOCKS5 proxy.
	Socks5Proxy string `ini:"socks5_proxy"`
}

// HarvestConf 配置候选服务器采集源。
type HarvestConf struct {
	// TableURLs are pages carrying an HTML table whose first two columns
	// are host and port.
	TableURLs []string `ini:"table_urls"`
	// GrepURLs are arbitrary pages scanned for host:port patterns.
	GrepURLs []string `ini:"grep_urls"`
}

// WebConf 包含实时状态页的配置。Port 为 0 时禁用。
type WebConf struct {
	Port     int    `ini:"port"`
	User     string `ini:"user"`
	Password string `ini:"password"`
}

// LogConf contains logging specific configuration
type LogConf struct {
	Level string `ini:"level"`
}

// Config 是 claimscan 的统一配置结构体。
type Config struct {
	ScannerConf `ini:"scanner"`
	HarvestConf `ini:"harvest"`
	WebConf     `ini:"web"`
	LogConf     `ini:"log"`
}

// Default returns the compiled-in configuration: all input and output files
// in the current working directory, port 31401, 7000 ms probe timeout.
func Default() *Config {
	return &Config{
		ScannerConf: ScannerConf{
			ServersFile: "servers.txt",
			WalletsFile: "wallets.txt",
			ValidFile:   "valid.txt",
			NovalidFile: "novalid.txt",
			TimeoutFile: "timeout.txt",
			DefaultPort: 31401,
			TimeoutMs:   7000,
		},
		LogConf: LogConf{Level: "info"},
	}
}
