package core

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cast"

	"github.com/exb-museum/exb-admin/pkg/config"
)

func MustLoadBaseConfig(path string) CoreConfig {
	if path == "" {
		return LoadBaseConfigFromENV()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	conf := &CoreConfig{}
	conf.SetConfigBytes(raw)

	if err = toml.Unmarshal(raw, conf); err != nil {
		panic(err)
	}

	return *conf
}

func (c CoreConfig) LoadCustomConfig(cfg any) error {
	if len(c.bytes) == 0 {
		return nil
	}
	if err := toml.Unmarshal(c.bytes, cfg); err != nil {
		return err
	}
	return nil
}

type CustomConfig[T any] struct {
	CustomConfig T `toml:"custom_config"`
}

func NewCustomConfigPayload[T any]() CustomConfig[T] {
	return CustomConfig[T]{}
}

func LoadBaseConfigFromENV() CoreConfig {
	var c CoreConfig
	c.FromENV()
	return c
}

type CoreConfig struct {
	Addr          string              `toml:"addr"`
	Log           Log                 `toml:"log"`
	Postgres      PGConfig            `toml:"postgres"`
	Redis         RedisConfig         `toml:"redis"`
	Token         TokenConfig         `toml:"token"`
	ObjectStorage ObjectStorageDriver `toml:"object_storage"`
	Upload        UploadConfig        `toml:"upload"`
	Wechat        WechatConfig        `toml:"wechat"`
	AICrawl       AICrawlConfig       `toml:"aicrawl"`

	Security Security `toml:"security"`

	bytes []byte `toml:"-"`
}

type ObjectStorageDriver struct {
	StaticDomain string       `toml:"static_domain"`
	Driver       string       `toml:"driver"`
	Local        *LocalConfig `toml:"local"`
	S3           *S3Config    `toml:"s3"`
}

type LocalConfig struct {
	// 本地存储根目录, 同时作为 /profile 静态资源目录
	Root string `toml:"root"`
}

type S3Config struct {
	Bucket       string `toml:"bucket"`
	Region       string `toml:"region"`
	Endpoint     string `toml:"endpoint"`
	AccessKey    string `toml:"access_key"`
	SecretKey    string `toml:"secret_key"`
	UsePathStyle bool   `toml:"use_path_style"`
}

func (c *CoreConfig) SetConfigBytes(raw []byte) {
	c.bytes = raw
}

const (
	DEFAULT_TOKEN_EXPIRE_MINUTES = 30
	DEFAULT_TOKEN_HEADER         = "Authorization"
	DEFAULT_WX_SIGN_WINDOW       = 300
	DEFAULT_UPLOAD_MAX_SIZE_MB   = 50
	DEFAULT_CRAWL_CONCURRENCY    = 3
)

// TokenConfig 后台登录令牌与小程序令牌共用同一个密钥
type TokenConfig struct {
	Secret        string `toml:"secret"`
	ExpireMinutes int    `toml:"expire_minutes"`
	Header        string `toml:"header"`
}

func (t TokenConfig) Expire() time.Duration {
	if t.ExpireMinutes <= 0 {
		return DEFAULT_TOKEN_EXPIRE_MINUTES * time.Minute
	}
	return time.Duration(t.ExpireMinutes) * time.Minute
}

func (t TokenConfig) HeaderKey() string {
	if t.Header == "" {
		return DEFAULT_TOKEN_HEADER
	}
	return t.Header
}

type UploadConfig struct {
	MaxSizeMB         int      `toml:"max_size_mb"`
	AllowedExtensions []string `toml:"allowed_extensions"`
	// 通用下载目录, /common/download 只允许读取该目录下的文件
	DownloadPath string `toml:"download_path"`
}

var defaultAllowedExtensions = []string{
	// 图片
	"bmp", "gif", "jpg", "jpeg", "png",
	// word excel powerpoint
	"doc", "docx", "xls", "xlsx", "ppt", "pptx", "html", "htm", "txt",
	// 压缩文件
	"rar", "zip", "gz", "bz2",
	// 视频格式
	"mp4", "avi", "rmvb",
	// 音频
	"mp3", "wav", "m4a",
	// pdf
	"pdf",
}

func (u UploadConfig) MaxSize() int64 {
	if u.MaxSizeMB <= 0 {
		return DEFAULT_UPLOAD_MAX_SIZE_MB << 20
	}
	return int64(u.MaxSizeMB) << 20
}

func (u UploadConfig) Extensions() []string {
	if len(u.AllowedExtensions) == 0 {
		return defaultAllowedExtensions
	}
	return u.AllowedExtensions
}

func (u UploadConfig) DownloadDir() string {
	if u.DownloadPath == "" {
		return os.TempDir()
	}
	return u.DownloadPath
}

type WechatConfig struct {
	APIBase           string `toml:"api_base"`
	SignWindowSeconds int    `toml:"sign_window_seconds"`
	// 小程序令牌有效期(小时)
	TokenExpireHours int `toml:"token_expire_hours"`
}

func (w WechatConfig) SignWindow() time.Duration {
	if w.SignWindowSeconds <= 0 {
		return DEFAULT_WX_SIGN_WINDOW * time.Second
	}
	return time.Duration(w.SignWindowSeconds) * time.Second
}

func (w WechatConfig) TokenExpire() time.Duration {
	if w.TokenExpireHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(w.TokenExpireHours) * time.Hour
}

type AICrawlConfig struct {
	Qwen           QwenConfig     `toml:"qwen"`
	Chromium       ChromiumConfig `toml:"chromium"`
	MaxConcurrency int            `toml:"max_concurrency"`
}

type QwenConfig struct {
	APIKey    string `toml:"api_key"`
	ModelName string `toml:"model_name"`
	BaseURL   string `toml:"base_url"`
}

type ChromiumConfig struct {
	WSEndpoint string `toml:"ws_endpoint"`
	// 单次页面访问超时(秒)
	Timeout int `toml:"timeout"`
}

type Security struct {
	EncryptKey string `toml:"encrypt_key"`
}

func (c *CoreConfig) FromENV() {
	c.Addr = os.Getenv("EXB_API_SERVICE_ADDRESS")
	c.Log.FromENV()
	c.Postgres.FromENV()
	c.Redis.FromENV()
	c.Token.Secret = os.Getenv("EXB_TOKEN_SECRET")
	c.Token.ExpireMinutes = cast.ToInt(os.Getenv("EXB_TOKEN_EXPIRE_MINUTES"))
	c.ObjectStorage.Driver = os.Getenv("EXB_OBJECT_STORAGE_DRIVER")
	c.ObjectStorage.StaticDomain = os.Getenv("EXB_OBJECT_STORAGE_STATIC_DOMAIN")
	if root := os.Getenv("EXB_OBJECT_STORAGE_LOCAL_ROOT"); root != "" {
		c.ObjectStorage.Local = &LocalConfig{Root: root}
	}
	c.AICrawl.Qwen.APIKey = os.Getenv("EXB_QWEN_API_KEY")
	c.AICrawl.Qwen.ModelName = os.Getenv("EXB_QWEN_MODEL_NAME")
	c.AICrawl.Chromium.WSEndpoint = os.Getenv("EXB_CHROMIUM_WS_ENDPOINT")
	c.Security.EncryptKey = os.Getenv("EXB_ENCRYPT_KEY")

	c.fillFromCompose(config.LoadEnvConfig())
}

// fillFromCompose 未显式配置时使用 docker-compose 的环境变量
func (c *CoreConfig) fillFromCompose(env *config.EnvConfig) {
	if c.Postgres.DSN == "" {
		c.Postgres.DSN = env.PostgresDSN()
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = env.RedisAddr
		c.Redis.Password = env.RedisPassword
	}
	if c.AICrawl.Chromium.WSEndpoint == "" {
		c.AICrawl.Chromium.WSEndpoint = env.ChromiumWSEndpoint
	}
	if c.ObjectStorage.Driver == "s3" && c.ObjectStorage.S3 == nil {
		c.ObjectStorage.S3 = &S3Config{
			Bucket:       env.MinioBucket,
			Region:       "us-east-1",
			Endpoint:     env.MinioEndpoint,
			AccessKey:    env.MinioRootUser,
			SecretKey:    env.MinioRootPassword,
			UsePathStyle: true,
		}
	}
}

type PGConfig struct {
	DSN string `toml:"dsn"`
}

func (m *PGConfig) FromENV() {
	m.DSN = os.Getenv("EXB_API_POSTGRESQL_DSN")
}

func (c PGConfig) FormatDSN() string {
	return c.DSN
}

type RedisConfig struct {
	// 单机模式配置
	Addr     string `toml:"addr"`     // Redis地址，格式: host:port
	Password string `toml:"password"` // Redis密码
	DB       int    `toml:"db"`       // Redis数据库索引 (0-15)

	// 集群模式配置
	Cluster       bool     `toml:"cluster"`        // 是否启用集群模式
	ClusterAddrs  []string `toml:"cluster_addrs"`  // 集群节点地址列表
	ClusterPasswd string   `toml:"cluster_passwd"` // 集群密码

	// 连接池配置
	PoolSize     int `toml:"pool_size"`      // 连接池大小，默认10
	MinIdleConns int `toml:"min_idle_conns"` // 最小空闲连接数，默认0
	MaxRetries   int `toml:"max_retries"`    // 最大重试次数，默认3
	DialTimeout  int `toml:"dial_timeout"`   // 连接超时(秒)，默认5
	ReadTimeout  int `toml:"read_timeout"`   // 读超时(秒)，默认3
	WriteTimeout int `toml:"write_timeout"`  // 写超时(秒)，默认3

	// 队列配置
	KeyPrefix string `toml:"key_prefix"` // Redis键前缀，用于隔离不同环境/应用
}

func (r *RedisConfig) FromENV() {
	r.Addr = os.Getenv("EXB_REDIS_ADDR")
	r.Password = os.Getenv("EXB_REDIS_PASSWORD")
	if dbStr := os.Getenv("EXB_REDIS_DB"); dbStr != "" {
		if db, err := strconv.Atoi(dbStr); err == nil {
			r.DB = db
		}
	}
}

type Log struct {
	Level string `toml:"level"`
	Path  string `toml:"path"`
}

func (l *Log) FromENV() {
	l.Level = os.Getenv("EXB_API_LOG_LEVEL")
	l.Path = os.Getenv("EXB_API_LOG_PATH")
}

func (l *Log) SlogLevel() slog.Level {
	switch strings.ToLower(l.Level) {
	case "info":
		return slog.LevelInfo
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelDebug
	}
}
