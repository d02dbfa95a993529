package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/iabetor/docpost/internal/logger"
	"github.com/mmcdole/gofeed"
	"golang.org/x/net/html/charset"
)

const (
	defaultFetchTimeout    = 30 * time.Second
	defaultUserAgent       = "docpost/1.0 (+https://www.getzola.org)"
	defaultTitleSelector   = "h1"
	defaultContentSelector = "div.documentation__content"
	maxBodyBytes           = 10 << 20

	// DefaultTitle 和 DefaultContent 在页面缺少对应元素时使用。
	DefaultTitle   = "Content Overview"
	DefaultContent = "Default content"
)

// Page 是从文档页面中提取出的字段。
type Page struct {
	URL     string
	Title   string
	Content string
}

// Options 页面抓取配置。
type Options struct {
	TitleSelector   string
	ContentSelector string
	UserAgent       string
	Timeout         time.Duration
	Client          *http.Client // 为空时按 Timeout 新建
}

// StatusError 表示服务器返回了非 2xx 状态码。
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s 返回 HTTP %d", e.URL, e.Code)
}

// Fetcher 负责抓取文档页面和订阅源。
type Fetcher struct {
	titleSel   string
	contentSel string
	userAgent  string
	client     *http.Client
	parser     *gofeed.Parser
}

// NewFetcher 创建页面抓取器。
func NewFetcher(opts Options) *Fetcher {
	f := &Fetcher{
		titleSel:   opts.TitleSelector,
		contentSel: opts.ContentSelector,
		userAgent:  opts.UserAgent,
		client:     opts.Client,
		parser:     gofeed.NewParser(),
	}
	if f.titleSel == "" {
		f.titleSel = defaultTitleSelector
	}
	if f.contentSel == "" {
		f.contentSel = defaultContentSelector
	}
	if f.userAgent == "" {
		f.userAgent = defaultUserAgent
	}
	if f.client == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultFetchTimeout
		}
		f.client = &http.Client{Timeout: timeout}
	}
	return f
}

// Fetch 抓取页面并提取标题和正文。
// 网络错误或非 2xx 状态码会返回错误；页面中缺少标题或正文时使用默认值。
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Page, error) {
	logger.Infof("[web] 正在抓取: %s", url)

	body, contentType, err := f.get(ctx, url)
	if err != nil {
		return nil, err
	}
	defer body.Close()

	// 按声明或嗅探到的编码转为 UTF-8
	reader, err := charset.NewReader(io.LimitReader(body, maxBodyBytes), contentType)
	if err != nil {
		return nil, fmt.Errorf("识别页面编码失败: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("解析页面失败: %w", err)
	}

	page := &Page{
		URL:     url,
		Title:   firstText(doc, f.titleSel),
		Content: firstText(doc, f.contentSel),
	}
	if page.Title == "" {
		logger.Warnf("[web] 未找到标题 (%s)，使用默认值", f.titleSel)
		page.Title = DefaultTitle
	}
	if page.Content == "" {
		logger.Warnf("[web] 未找到正文 (%s)，使用默认值", f.contentSel)
		page.Content = DefaultContent
	}

	logger.Infof("[web] 标题: %s，正文 %d 字节", page.Title, len(page.Content))
	return page, nil
}

func (f *Fetcher) get(ctx context.Context, url string) (io.ReadCloser, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("请求 %s 失败: %w", url, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, "", &StatusError{URL: url, Code: resp.StatusCode}
	}
	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// firstText 返回第一个匹配元素的文本，空白已合并。
func firstText(doc *goquery.Document, selector string) string {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return ""
	}
	return collapseSpace(sel.Text())
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
