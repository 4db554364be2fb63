package srv

import (
	"errors"
	"time"

	"github.com/exb-museum/exb-admin/pkg/ai/qwen"
	"github.com/exb-museum/exb-admin/pkg/reader/webpage"
)

var ErrQwenNotConfigured = errors.New("请配置有效的千问API密钥")

type CrawlConfig struct {
	QwenAPIKey  string
	QwenBaseURL string
	QwenModel   string
	WSEndpoint  string
	Timeout     time.Duration
}

// Crawl 网页截屏、抓取与大模型栏目提取
type Crawl struct {
	browser *webpage.Browser
	qwen    *qwen.Driver
}

func SetupCrawl(cfg CrawlConfig) *Crawl {
	c := &Crawl{
		browser: webpage.New(webpage.Options{
			WSEndpoint: cfg.WSEndpoint,
			Timeout:    cfg.Timeout,
		}),
	}
	if cfg.QwenAPIKey != "" {
		c.qwen = qwen.New(cfg.QwenAPIKey, cfg.QwenBaseURL, cfg.QwenModel, 0)
	}
	return c
}

func ApplyCrawl(cfg CrawlConfig) ApplyFunc {
	return func(s *Srv) {
		s.crawl = SetupCrawl(cfg)
	}
}

func (c *Crawl) Browser() *webpage.Browser {
	return c.browser
}

// Qwen 未配置 api key 时返回 ErrQwenNotConfigured
func (c *Crawl) Qwen() (*qwen.Driver, error) {
	if c.qwen == nil {
		return nil, ErrQwenNotConfigured
	}
	return c.qwen, nil
}

func (c *Crawl) Close() error {
	return c.browser.Close()
}
