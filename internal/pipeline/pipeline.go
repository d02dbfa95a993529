package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/iabetor/docpost/internal/audio"
	"github.com/iabetor/docpost/internal/config"
	"github.com/iabetor/docpost/internal/content"
	"github.com/iabetor/docpost/internal/database"
	"github.com/iabetor/docpost/internal/logger"
	"github.com/iabetor/docpost/internal/post"
	"github.com/iabetor/docpost/internal/tts"
	"github.com/iabetor/docpost/internal/web"
)

// Result 是一次运行的产出。
type Result struct {
	ID       string
	URL      string
	Title    string
	Slug     string
	PostPath string
	Audio    *tts.Artifact // nil 表示没有音频
	Duration time.Duration
}

// Option 用于定制 Pipeline，主要供测试注入依赖。
type Option func(*Pipeline)

// WithBackends 用给定后端替代默认的级联。
func WithBackends(backends ...tts.Backend) Option {
	return func(p *Pipeline) {
		p.cascade = tts.NewCascade(p.cfg.ToTTS(), backends...)
	}
}

// WithNow 替换时钟，决定文章日期。
func WithNow(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// WithHTTPClient 替换抓取页面使用的 HTTP 客户端。
func WithHTTPClient(c *http.Client) Option {
	return func(p *Pipeline) {
		p.httpClient = c
	}
}

// WithHistory 使用已打开的数据库记录运行历史，调用方负责关闭。
func WithHistory(db *database.DB) Option {
	return func(p *Pipeline) {
		p.history = db
	}
}

// Pipeline 把页面抓取、文本生成、语音合成和文章输出串成一次运行。
type Pipeline struct {
	cfg        *config.Config
	fetcher    *web.Fetcher
	cascade    *tts.Cascade
	state      *StateMachine
	httpClient *http.Client
	now        func() time.Time

	history     *database.DB
	ownsHistory bool
}

// New 创建 Pipeline。运行历史打开失败只记录警告，不影响生成。
func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:   cfg,
		state: NewStateMachine(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}

	webOpts := cfg.ToWeb()
	webOpts.Client = p.httpClient
	p.fetcher = web.NewFetcher(webOpts)

	if p.cascade == nil {
		p.cascade = tts.NewFromConfig(cfg.ToTTS())
	}

	if p.history == nil && cfg.HistoryEnabled() {
		db, err := openHistory(cfg.History.DBPath)
		if err != nil {
			logger.Warnf("[pipeline] 运行历史不可用: %v", err)
		} else {
			p.history = db
			p.ownsHistory = true
		}
	}

	p.state.SetOnChange(func(from, to State) {
		logger.Infof("[pipeline] 阶段 %s → %s", from, to)
	})
	return p
}

func openHistory(path string) (*database.DB, error) {
	db, err := database.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// State 返回当前阶段。
func (p *Pipeline) State() State {
	return p.state.Current()
}

// Close 释放 Pipeline 自己打开的资源。
func (p *Pipeline) Close() error {
	if p.ownsHistory && p.history != nil {
		return p.history.Close()
	}
	return nil
}

// Run 执行一次完整的生成：抓取 → 生成 → 合成 → 输出。
// 只有页面抓取失败和文章写入失败会返回错误；语音合成失败由级联自行降级。
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	defer p.state.ForceIdle()

	// 抓取
	p.state.Transition(StateFetching)
	url, err := p.resolveURL(ctx)
	if err != nil {
		return nil, err
	}
	page, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("抓取页面失败: %w", err)
	}
	logger.Infof("[pipeline] 标题: %s", page.Title)

	// 生成
	p.state.Transition(StateGenerating)
	explanation := content.BeginnerExplanation(page.Content)
	guide := content.StepByStepGuide(page.Content)
	text := content.Assemble(page.Title, explanation, guide)

	// 合成
	p.state.Transition(StateSynthesizing)
	art := p.cascade.Synthesize(ctx, text)
	var duration time.Duration
	if art != nil && !art.Placeholder {
		if info, err := audio.Probe(art.File); err != nil {
			logger.Debugf("[pipeline] 无法读取音频时长: %v", err)
		} else {
			duration = info.Duration
		}
	}

	// 输出
	p.state.Transition(StatePublishing)
	res := &Result{
		ID:       uuid.NewString(),
		URL:      url,
		Title:    page.Title,
		Slug:     content.Slugify(page.Title),
		Audio:    art,
		Duration: duration,
	}
	res.PostPath, err = post.Write(p.cfg.ContentDir(), post.Post{
		Title:         page.Title,
		Slug:          res.Slug,
		Date:          p.now(),
		SourceURL:     url,
		Explanation:   explanation,
		Guide:         guide,
		Audio:         art,
		AudioDuration: duration,
	})
	if err != nil {
		return nil, err
	}
	p.record(res)

	p.state.Transition(StateIdle)
	return res, nil
}

// resolveURL 配置了订阅源时取其最新条目，否则使用固定页面。
func (p *Pipeline) resolveURL(ctx context.Context) (string, error) {
	if p.cfg.Source.FeedURL == "" {
		return p.cfg.Source.URL, nil
	}
	url, err := p.fetcher.LatestFromFeed(ctx, p.cfg.Source.FeedURL)
	if err != nil {
		return "", fmt.Errorf("读取订阅源失败: %w", err)
	}
	return url, nil
}

// record 保存运行历史，失败只记录警告。
func (p *Pipeline) record(res *Result) {
	if p.history == nil {
		return
	}
	run := database.Run{
		ID:        res.ID,
		URL:       res.URL,
		Slug:      res.Slug,
		Title:     res.Title,
		PostPath:  res.PostPath,
		CreatedAt: p.now(),
	}
	if res.Audio != nil {
		run.AudioPath = res.Audio.Path
		run.AudioBackend = res.Audio.Backend
		run.Placeholder = res.Audio.Placeholder
	}
	if err := p.history.RecordRun(run); err != nil {
		logger.Warnf("[pipeline] %v", err)
	}
}
