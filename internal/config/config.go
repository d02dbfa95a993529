package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/iabetor/docpost/internal/logger"
	"github.com/iabetor/docpost/internal/tts"
	"github.com/iabetor/docpost/internal/web"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultSourceURL 是未配置时抓取的文档页面。
const DefaultSourceURL = "https://www.getzola.org/documentation/content/overview/"

// Config 是 docpost 的顶层配置结构。
type Config struct {
	Source  SourceConfig  `yaml:"source"`
	Site    SiteConfig    `yaml:"site"`
	TTS     TTSConfig     `yaml:"tts"`
	History HistoryConfig `yaml:"history"`
	Log     LogConfig     `yaml:"log"`
}

// SourceConfig 文档来源配置。
type SourceConfig struct {
	URL string `yaml:"url"`
	// FeedURL 非空时先从订阅源取最新一篇的链接，优先于 URL。
	FeedURL         string `yaml:"feed_url"`
	TitleSelector   string `yaml:"title_selector"`
	ContentSelector string `yaml:"content_selector"`
	TimeoutSec      int    `yaml:"timeout_sec"`
	UserAgent       string `yaml:"user_agent"`
}

// SiteConfig Zola 站点目录配置。
type SiteConfig struct {
	Root       string `yaml:"root"`
	ContentDir string `yaml:"content_dir"` // 相对 Root
	AudioDir   string `yaml:"audio_dir"`   // 相对 Root
}

// TTSConfig 语音合成配置。
type TTSConfig struct {
	// Hosted 在线合成服务: edge, tencent, none
	Hosted            string `yaml:"hosted"`
	AttemptTimeoutSec int    `yaml:"attempt_timeout_sec"`
	MinAudioBytes     int64  `yaml:"min_audio_bytes"`
	// PlaceholderOnFailure 全部失败时是否写入空 MP3 占位，默认 true。
	PlaceholderOnFailure *bool `yaml:"placeholder_on_failure"`

	MP3File     string `yaml:"mp3_file"`
	WAVFile     string `yaml:"wav_file"`
	AIFFFile    string `yaml:"aiff_file"`
	ScratchFile string `yaml:"scratch_file"`

	Edge    EdgeConfig    `yaml:"edge"`
	Tencent TencentConfig `yaml:"tencent"`
	Espeak  EspeakConfig  `yaml:"espeak"`
	Say     SayConfig     `yaml:"say"`
}

// EdgeConfig Edge TTS 配置。
type EdgeConfig struct {
	Voice         string `yaml:"voice"`
	MaxChunkChars int    `yaml:"max_chunk_chars"`
}

// TencentConfig 腾讯云 TTS 配置。
type TencentConfig struct {
	SecretID      string  `yaml:"secret_id"`
	SecretKey     string  `yaml:"secret_key"`
	VoiceType     int64   `yaml:"voice_type"`
	Region        string  `yaml:"region"`
	Speed         float64 `yaml:"speed"`
	MaxChunkChars int     `yaml:"max_chunk_chars"`
}

// EspeakConfig espeak-ng 配置。
type EspeakConfig struct {
	Binary string `yaml:"binary"`
	Voice  string `yaml:"voice"`
	Speed  int    `yaml:"speed"`
}

// SayConfig macOS say 配置。
type SayConfig struct {
	Binary string `yaml:"binary"`
	Voice  string `yaml:"voice"`
}

// HistoryConfig 运行记录配置。
type HistoryConfig struct {
	Enabled *bool  `yaml:"enabled"`
	DBPath  string `yaml:"db_path"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
}

// Load 读取 YAML 配置文件并返回 Config。
// 支持 ${VAR_NAME} 形式的环境变量展开，展开前会加载 .env（不覆盖已有环境变量）。
// path 为空时返回全部默认值。
func Load(path string) (*Config, error) {
	loadDotEnv(path)

	cfg := &Config{}
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
		}

		// 展开环境变量，如 ${TENCENT_SECRET_ID}
		expanded := os.Expand(string(data), func(key string) string {
			return os.Getenv(key)
		})

		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
		}
	}

	setDefaults(cfg)
	return cfg, nil
}

// loadDotEnv 依次加载配置文件所在目录和当前目录下的 .env。
func loadDotEnv(path string) {
	files := []string{".env"}
	if path != "" {
		if p := filepath.Join(filepath.Dir(path), ".env"); p != ".env" {
			files = append([]string{p}, files...)
		}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.Warnf("[config] 加载 %s 失败: %v", f, err)
		}
	}
}

// setDefaults 为未设置的配置项填充默认值。
func setDefaults(cfg *Config) {
	if cfg.Source.URL == "" {
		cfg.Source.URL = DefaultSourceURL
	}
	if cfg.Source.TitleSelector == "" {
		cfg.Source.TitleSelector = "h1"
	}
	if cfg.Source.ContentSelector == "" {
		cfg.Source.ContentSelector = "div.documentation__content"
	}
	if cfg.Source.TimeoutSec == 0 {
		cfg.Source.TimeoutSec = 30
	}

	if cfg.Site.Root == "" {
		cfg.Site.Root = ".."
	}
	if cfg.Site.ContentDir == "" {
		cfg.Site.ContentDir = "content/blog"
	}
	if cfg.Site.AudioDir == "" {
		cfg.Site.AudioDir = "static/audio"
	}

	if cfg.TTS.Hosted == "" {
		cfg.TTS.Hosted = "edge"
	}
	if cfg.TTS.AttemptTimeoutSec == 0 {
		cfg.TTS.AttemptTimeoutSec = 120
	}
	if cfg.TTS.MinAudioBytes == 0 {
		cfg.TTS.MinAudioBytes = 1000
	}
	if cfg.TTS.PlaceholderOnFailure == nil {
		on := true
		cfg.TTS.PlaceholderOnFailure = &on
	}
	if cfg.TTS.MP3File == "" {
		cfg.TTS.MP3File = "overview.mp3"
	}
	if cfg.TTS.WAVFile == "" {
		cfg.TTS.WAVFile = "overview.wav"
	}
	if cfg.TTS.AIFFFile == "" {
		cfg.TTS.AIFFFile = "overview.aiff"
	}
	if cfg.TTS.ScratchFile == "" {
		cfg.TTS.ScratchFile = "text_input.txt"
	}
	if cfg.TTS.Edge.Voice == "" {
		cfg.TTS.Edge.Voice = "en-US-AriaNeural"
	}
	if cfg.TTS.Espeak.Voice == "" {
		cfg.TTS.Espeak.Voice = "en-us"
	}
	if cfg.TTS.Espeak.Speed == 0 {
		cfg.TTS.Espeak.Speed = 150
	}
	if cfg.TTS.Say.Voice == "" {
		cfg.TTS.Say.Voice = "Alex"
	}

	if cfg.History.Enabled == nil {
		on := true
		cfg.History.Enabled = &on
	}
	cfg.History.DBPath = expandHome(cfg.History.DBPath)

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	cfg.Log.File = expandHome(cfg.Log.File)

	// 去除密钥两端可能的空白（环境变量展开后常见）
	cfg.TTS.Tencent.SecretID = strings.TrimSpace(cfg.TTS.Tencent.SecretID)
	cfg.TTS.Tencent.SecretKey = strings.TrimSpace(cfg.TTS.Tencent.SecretKey)
}

// expandHome 把开头的 ~/ 替换为用户主目录，Go 不会自动展开。
func expandHome(p string) string {
	if !strings.HasPrefix(p, "~/") {
		return p
	}
	home, _ := os.UserHomeDir()
	if home == "" {
		return p
	}
	return filepath.Join(home, p[2:])
}

// HistoryEnabled 报告是否记录运行历史。
func (c *Config) HistoryEnabled() bool {
	return c.History.Enabled == nil || *c.History.Enabled
}

// ContentDir 返回文章输出目录。
func (c *Config) ContentDir() string {
	return filepath.Join(c.Site.Root, c.Site.ContentDir)
}

// ToTTS 转换为级联使用的配置。
func (c *Config) ToTTS() tts.Config {
	t := c.TTS
	return tts.Config{
		SiteRoot:             c.Site.Root,
		AudioDir:             c.Site.AudioDir,
		MP3File:              t.MP3File,
		WAVFile:              t.WAVFile,
		AIFFFile:             t.AIFFFile,
		ScratchFile:          t.ScratchFile,
		MinAudioBytes:        t.MinAudioBytes,
		AttemptTimeout:       time.Duration(t.AttemptTimeoutSec) * time.Second,
		PlaceholderOnFailure: t.PlaceholderOnFailure == nil || *t.PlaceholderOnFailure,
		Hosted:               t.Hosted,
		Edge:                 tts.EdgeConfig{Voice: t.Edge.Voice, MaxChunkChars: t.Edge.MaxChunkChars},
		Tencent: tts.TencentConfig{
			SecretID:      t.Tencent.SecretID,
			SecretKey:     t.Tencent.SecretKey,
			VoiceType:     t.Tencent.VoiceType,
			Region:        t.Tencent.Region,
			Speed:         t.Tencent.Speed,
			MaxChunkChars: t.Tencent.MaxChunkChars,
		},
		Espeak: tts.EspeakConfig{Binary: t.Espeak.Binary, Voice: t.Espeak.Voice, Speed: t.Espeak.Speed},
		Say:    tts.SayConfig{Binary: t.Say.Binary, Voice: t.Say.Voice},
	}
}

// ToWeb 转换为页面抓取配置。
func (c *Config) ToWeb() web.Options {
	return web.Options{
		TitleSelector:   c.Source.TitleSelector,
		ContentSelector: c.Source.ContentSelector,
		UserAgent:       c.Source.UserAgent,
		Timeout:         time.Duration(c.Source.TimeoutSec) * time.Second,
	}
}

// ToLogger 转换为日志配置。
func (c *Config) ToLogger() logger.Config {
	return logger.Config{
		Level:      c.Log.Level,
		File:       c.Log.File,
		MaxSize:    c.Log.MaxSize,
		MaxBackups: c.Log.MaxBackups,
		MaxAge:     c.Log.MaxAge,
	}
}
