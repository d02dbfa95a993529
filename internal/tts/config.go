package tts

import "time"

const (
	defaultMinAudioBytes  = 1000
	defaultAttemptTimeout = 2 * time.Minute
)

// Config 是级联及各后端的配置。
type Config struct {
	SiteRoot string // 站点根目录
	AudioDir string // 相对 SiteRoot 的音频目录

	MP3File     string // 在线合成输出（以及全部失败时的占位文件）
	WAVFile     string // espeak-ng 输出
	AIFFFile    string // say 输出
	ScratchFile string // 共享的临时文本文件

	MinAudioBytes        int64
	AttemptTimeout       time.Duration
	PlaceholderOnFailure bool

	Hosted  string // edge | tencent | none
	Edge    EdgeConfig
	Tencent TencentConfig
	Espeak  EspeakConfig
	Say     SayConfig
}

// EdgeConfig Edge TTS 配置。
type EdgeConfig struct {
	Voice         string
	MaxChunkChars int
}

// TencentConfig 腾讯云 TTS 配置。
type TencentConfig struct {
	SecretID      string
	SecretKey     string
	VoiceType     int64
	Region        string
	Speed         float64
	MaxChunkChars int
}

// EspeakConfig espeak-ng 配置。
type EspeakConfig struct {
	Binary string
	Voice  string
	Speed  int
}

// SayConfig macOS say 配置。
type SayConfig struct {
	Binary string
	Voice  string
}

// withDefaults 为未设置的字段填充默认值。
func (c Config) withDefaults() Config {
	if c.SiteRoot == "" {
		c.SiteRoot = "."
	}
	if c.AudioDir == "" {
		c.AudioDir = "static/audio"
	}
	if c.MP3File == "" {
		c.MP3File = "overview.mp3"
	}
	if c.WAVFile == "" {
		c.WAVFile = "overview.wav"
	}
	if c.AIFFFile == "" {
		c.AIFFFile = "overview.aiff"
	}
	if c.ScratchFile == "" {
		c.ScratchFile = "text_input.txt"
	}
	if c.MinAudioBytes <= 0 {
		c.MinAudioBytes = defaultMinAudioBytes
	}
	if c.AttemptTimeout <= 0 {
		c.AttemptTimeout = defaultAttemptTimeout
	}
	if c.Hosted == "" {
		c.Hosted = "edge"
	}
	if c.Edge.Voice == "" {
		c.Edge.Voice = "en-US-AriaNeural"
	}
	if c.Edge.MaxChunkChars <= 0 {
		c.Edge.MaxChunkChars = 4000
	}
	if c.Tencent.MaxChunkChars <= 0 {
		// 基础语音合成接口单次最多 150 个汉字
		c.Tencent.MaxChunkChars = 150
	}
	if c.Espeak.Binary == "" {
		c.Espeak.Binary = "espeak-ng"
	}
	if c.Espeak.Voice == "" {
		c.Espeak.Voice = "en-us"
	}
	if c.Espeak.Speed <= 0 {
		c.Espeak.Speed = 150
	}
	if c.Say.Binary == "" {
		c.Say.Binary = "say"
	}
	if c.Say.Voice == "" {
		c.Say.Voice = "Alex"
	}
	return c
}
