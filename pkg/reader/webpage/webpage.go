package webpage

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/playwright-community/playwright-go"
)

const (
	DefaultTimeout = 120 * time.Second

	scrollStep  = 1000
	scrollDelay = 1500 * time.Millisecond
	scrollMax   = 10

	userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"
)

var (
	ErrEmptyURL   = errors.New("请提供有效的URL")
	ErrInvalidURL = errors.New("无效的URL格式，请确保以http://或https://开头")
)

func ValidateURL(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return ErrEmptyURL
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return ErrInvalidURL
	}
	return nil
}

type Options struct {
	// 远程 chromium 地址, 为空时本地启动
	WSEndpoint string
	Timeout    time.Duration
}

type Browser struct {
	opts Options

	lock    sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
}

func New(opts Options) *Browser {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	return &Browser{opts: opts}
}

// ensure 首次使用时才启动 playwright
func (b *Browser) ensure() (playwright.Browser, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	if b.browser != nil && b.browser.IsConnected() {
		return b.browser, nil
	}

	if b.pw == nil {
		if b.opts.WSEndpoint == "" {
			if err := playwright.Install(&playwright.RunOptions{Browsers: []string{"chromium"}}); err != nil {
				return nil, fmt.Errorf("failed to install playwright, %w", err)
			}
		}
		pw, err := playwright.Run()
		if err != nil {
			return nil, fmt.Errorf("could not start playwright: %w", err)
		}
		b.pw = pw
	}

	var (
		browser playwright.Browser
		err     error
	)
	if b.opts.WSEndpoint != "" {
		browser, err = b.pw.Chromium.Connect(b.opts.WSEndpoint)
	} else {
		browser, err = b.pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
			Headless: playwright.Bool(true),
			Args: []string{
				"--disable-blink-features=AutomationControlled",
				"--disable-features=IsolateOrigins,site-per-process",
				"--no-sandbox",
				"--disable-dev-shm-usage",
				"--disable-infobars",
			},
		})
	}
	if err != nil {
		return nil, fmt.Errorf("could not launch browser: %w", err)
	}
	b.browser = browser
	return browser, nil
}

func (b *Browser) newPage() (playwright.BrowserContext, playwright.Page, error) {
	browser, err := b.ensure()
	if err != nil {
		return nil, nil, err
	}

	bctx, err := browser.NewContext(playwright.BrowserNewContextOptions{
		UserAgent:         playwright.String(userAgent),
		Viewport:          &playwright.Size{Width: 1366, Height: 768},
		Locale:            playwright.String("zh-CN"),
		TimezoneId:        playwright.String("Asia/Shanghai"),
		JavaScriptEnabled: playwright.Bool(true),
		AcceptDownloads:   playwright.Bool(true),
		ExtraHttpHeaders: map[string]string{
			"accept-language":    "zh-CN,zh;q=0.9,en-US;q=0.8,en;q=0.7",
			"sec-ch-ua":          `"Chromium";v="121", "Google Chrome";v="121", "Not;A Brand";v="99"`,
			"sec-ch-ua-mobile":   "?0",
			"sec-ch-ua-platform": `"Windows"`,
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create new browser context, %w", err)
	}

	page, err := bctx.NewPage()
	if err != nil {
		bctx.Close()
		return nil, nil, fmt.Errorf("failed to create new page, %w", err)
	}
	page.SetDefaultTimeout(float64(b.opts.Timeout.Milliseconds()))
	return bctx, page, nil
}

func (b *Browser) open(ctx context.Context, url string) (playwright.BrowserContext, playwright.Page, error) {
	if err := ValidateURL(url); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	bctx, page, err := b.newPage()
	if err != nil {
		return nil, nil, err
	}

	slog.Debug("open webpage", slog.String("url", url))
	if _, err = page.Goto(url, playwright.PageGotoOptions{
		WaitUntil: playwright.WaitUntilStateNetworkidle,
		Timeout:   playwright.Float(float64(b.opts.Timeout.Milliseconds())),
	}); err != nil {
		bctx.Close()
		if errors.Is(err, playwright.ErrTimeout) {
			return nil, nil, fmt.Errorf("页面加载超时，请检查网络连接或稍后重试")
		}
		return nil, nil, fmt.Errorf("could not goto: %w", err)
	}
	return bctx, page, nil
}

type Screenshot struct {
	Title      string `json:"title"`
	URL        string `json:"url"`
	Screenshot string `json:"screenshot"`
}

// Screenshot fullPage 时先自动滚动以触发懒加载
func (b *Browser) Screenshot(ctx context.Context, url string, fullPage bool) (*Screenshot, error) {
	bctx, page, err := b.open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer bctx.Close()

	title, err := page.Title()
	if err != nil {
		return nil, fmt.Errorf("failed to get title, %w", err)
	}

	if fullPage {
		autoScroll(ctx, page)
	}

	raw, err := page.Screenshot(playwright.PageScreenshotOptions{
		FullPage: playwright.Bool(fullPage),
		Type:     playwright.ScreenshotTypePng,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to take screenshot, %w", err)
	}

	return &Screenshot{
		Title:      title,
		URL:        url,
		Screenshot: base64.StdEncoding.EncodeToString(raw),
	}, nil
}

func autoScroll(ctx context.Context, page playwright.Page) {
	previous, _ := page.Evaluate("() => document.body.scrollHeight")
	for i := 0; i < scrollMax; i++ {
		if _, err := page.Evaluate(fmt.Sprintf("window.scrollBy(0, %d)", scrollStep)); err != nil {
			return
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(scrollDelay):
		}
		_ = page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{State: playwright.LoadStateNetworkidle})

		current, err := page.Evaluate("() => document.body.scrollHeight")
		if err != nil || fmt.Sprint(current) == fmt.Sprint(previous) {
			return
		}
		previous = current
	}
}

type Page struct {
	Status   string `json:"status"`
	Title    string `json:"title"`
	Markdown string `json:"markdown"`
	URL      string `json:"url"`
}

func (b *Browser) Scrape(ctx context.Context, url string) (*Page, error) {
	bctx, page, err := b.open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer bctx.Close()

	title, err := page.Title()
	if err != nil {
		return nil, fmt.Errorf("failed to get title, %w", err)
	}
	html, err := page.Content()
	if err != nil {
		return nil, fmt.Errorf("failed to get content, %w", err)
	}

	markdown, err := HTMLToMarkdown(html, url)
	if err != nil {
		return nil, err
	}
	return &Page{
		Status:   "success",
		Title:    title,
		Markdown: markdown,
		URL:      url,
	}, nil
}

// HTMLToMarkdown domain 用于补全相对链接
func HTMLToMarkdown(html, domain string) (string, error) {
	converter := md.NewConverter(md.DomainFromURL(domain), true, nil)
	markdown, err := converter.ConvertString(html)
	if err != nil {
		return "", fmt.Errorf("failed to convert html to markdown, %w", err)
	}
	return markdown, nil
}

func (b *Browser) Close() error {
	b.lock.Lock()
	defer b.lock.Unlock()

	var err error
	if b.browser != nil {
		err = b.browser.Close()
		b.browser = nil
	}
	if b.pw != nil {
		if e := b.pw.Stop(); e != nil && err == nil {
			err = e
		}
		b.pw = nil
	}
	return err
}
