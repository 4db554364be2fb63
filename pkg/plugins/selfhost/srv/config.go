package srv

// CustomConfig 配置文件 [custom_config] 段
type CustomConfig struct {
	Host       string `toml:"host"`
	EncryptKey string `toml:"encrypt_key"`
	// 每分钟默认允许的请求数
	DefaultRateLimit int `toml:"default_rate_limit"`
}
