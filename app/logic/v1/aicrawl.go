package v1

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/ai/qwen"
	"github.com/exb-museum/exb-admin/pkg/errors"
	"github.com/exb-museum/exb-admin/pkg/reader/webpage"
)

const (
	CRAWL_STAGE_SCREENSHOT = "screenshot"
	CRAWL_STAGE_SCRAPE     = "scrape"
	CRAWL_STAGE_EXTRACT    = "extract"

	DEFAULT_SECTION_TITLE = "新闻动态"
)

type AICrawlLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewAICrawlLogic(ctx context.Context, core *core.Core) *AICrawlLogic {
	return &AICrawlLogic{
		ctx:  ctx,
		core: core,
	}
}

// crawlError 参数错误直接提示, 其余错误带上处理过程前缀
func crawlError(trace string, err error) error {
	if errors.Is(err, webpage.ErrEmptyURL) || errors.Is(err, webpage.ErrInvalidURL) {
		return errors.Service(trace, err.Error())
	}
	return errors.New(trace, fmt.Sprintf("处理过程中发生错误: %s", err.Error()), err)
}

// withPermit 浏览器会话数量受分布式信号量限制
func (l *AICrawlLogic) withPermit(trace, stage string, next func() error) error {
	sem := l.core.Semaphores().AICrawl()
	if !sem.TryAcquire(l.ctx) {
		return errors.Service(trace, "当前抓取任务较多，请稍后重试")
	}
	defer sem.Release(context.Background())

	timer := l.core.Metrics().CrawlTimer(stage)
	defer timer.ObserveDuration()

	if err := next(); err != nil {
		l.core.Metrics().CrawlErrorInc(stage)
		return err
	}
	return nil
}

func (l *AICrawlLogic) Screenshot(rawURL string, fullPage bool) (*webpage.Screenshot, error) {
	trace := "AICrawlLogic.Screenshot"
	rawURL = strings.TrimSpace(rawURL)
	if err := webpage.ValidateURL(rawURL); err != nil {
		return nil, crawlError(trace, err)
	}

	var res *webpage.Screenshot
	err := l.withPermit(trace, CRAWL_STAGE_SCREENSHOT, func() error {
		var err error
		if res, err = l.core.Srv().Crawl().Browser().Screenshot(l.ctx, rawURL, fullPage); err != nil {
			return crawlError(trace, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (l *AICrawlLogic) Scrape(rawURL string) (*webpage.Page, error) {
	trace := "AICrawlLogic.Scrape"
	rawURL = strings.TrimSpace(rawURL)
	if err := webpage.ValidateURL(rawURL); err != nil {
		return nil, crawlError(trace, err)
	}

	var res *webpage.Page
	err := l.withPermit(trace, CRAWL_STAGE_SCRAPE, func() error {
		var err error
		if res, err = l.core.Srv().Crawl().Browser().Scrape(l.ctx, rawURL); err != nil {
			return crawlError(trace, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return res, nil
}

type ExtractRequest struct {
	URL          string   `json:"url"`
	SectionTitle string   `json:"sectionTitle"`
	Keywords     []string `json:"keywords"`
}

// Extract 抓取页面后由模型提取栏目条目, 有关键词时再抓取命中条目的详情
func (l *AICrawlLogic) Extract(req ExtractRequest) (*qwen.SectionResult, error) {
	trace := "AICrawlLogic.Extract"
	req.URL = strings.TrimSpace(req.URL)
	if err := webpage.ValidateURL(req.URL); err != nil {
		return nil, crawlError(trace, err)
	}
	if strings.TrimSpace(req.SectionTitle) == "" {
		req.SectionTitle = DEFAULT_SECTION_TITLE
	}
	driver, err := l.core.Srv().Crawl().Qwen()
	if err != nil {
		return nil, errors.Service(trace, err.Error())
	}

	page, err := l.Scrape(req.URL)
	if err != nil {
		return nil, err
	}

	var res *qwen.SectionResult
	err = l.withPermit(trace, CRAWL_STAGE_EXTRACT, func() error {
		var err error
		if res, err = driver.ExtractSection(l.ctx, page.Markdown, req.SectionTitle); err != nil {
			return crawlError(trace, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if len(req.Keywords) == 0 {
		return res, nil
	}
	res.Data = qwen.FilterByKeywords(res.Data, req.Keywords)
	for i := range res.Data {
		res.Data[i].DetailContent = l.detailContent(req.URL, res.Data[i])
	}
	return res, nil
}

// detailContent 单条详情抓取失败不影响整体结果
func (l *AICrawlLogic) detailContent(base string, item qwen.SectionItem) string {
	if !item.HasLink() {
		return "无链接可访问"
	}
	link := ResolveLink(base, item.Link)
	page, err := l.Scrape(link)
	if err != nil {
		slog.Warn("failed to scrape detail page", slog.String("url", link), slog.Any("error", err))
		msg := err.Error()
		if ce, ok := errors.As(err); ok {
			msg = ce.Message()
		}
		return "无法获取详细内容: " + msg
	}
	return page.Markdown
}

// ResolveLink 相对链接按页面地址补全
func ResolveLink(base, link string) string {
	ref, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return link
	}
	if ref.IsAbs() {
		return ref.String()
	}
	u, err := url.Parse(base)
	if err != nil {
		return link
	}
	return u.ResolveReference(ref).String()
}
