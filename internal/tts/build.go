package tts

import (
	"strings"

	"github.com/iabetor/docpost/internal/logger"
)

// NewFromConfig 按默认优先级组装级联：在线服务 → espeak-ng → say。
func NewFromConfig(cfg Config) *Cascade {
	cfg = cfg.withDefaults()

	var backends []Backend
	switch strings.ToLower(cfg.Hosted) {
	case "edge":
		backends = append(backends, NewHostedBackend(NewEdgeSynthesizer(cfg.Edge.Voice), cfg, cfg.Edge.MaxChunkChars))
	case "tencent":
		synth, err := NewTencentSynthesizer(cfg.Tencent)
		if err != nil {
			logger.Warnf("[tts] 腾讯云 TTS 不可用，跳过在线合成: %v", err)
			break
		}
		backends = append(backends, NewHostedBackend(synth, cfg, cfg.Tencent.MaxChunkChars))
	case "none":
	default:
		logger.Warnf("[tts] 未知的在线合成服务 %q，跳过在线合成", cfg.Hosted)
	}
	backends = append(backends, NewEspeakBackend(cfg), NewSayBackend(cfg))

	c := NewCascade(cfg, backends...)
	logger.Infof("[tts] 合成顺序: %s", strings.Join(c.Names(), " → "))
	return c
}
