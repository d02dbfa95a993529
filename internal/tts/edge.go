package tts

import (
	"context"
	"fmt"
	"unicode/utf8"

	"github.com/iabetor/docpost/internal/logger"
	"github.com/pp-group/edge-tts-go/biz/service/tts/edge"
)

// EdgeSynthesizer 使用微软 Edge TTS 在线合成，直接返回 MP3 数据。
type EdgeSynthesizer struct {
	voice string
}

// NewEdgeSynthesizer 创建指定语音的 Edge TTS 合成器。
func NewEdgeSynthesizer(voice string) *EdgeSynthesizer {
	return &EdgeSynthesizer{voice: voice}
}

// Name 实现 Synthesizer 接口。
func (e *EdgeSynthesizer) Name() string {
	return "edge-tts"
}

type edgeStream struct {
	ch  <-chan map[string]interface{}
	err error
}

// Synthesize 实现 Synthesizer 接口。
func (e *EdgeSynthesizer) Synthesize(ctx context.Context, text string) ([]byte, error) {
	logger.Debugf("[tts] edge-tts: 正在合成 %d 个字符，语音=%s", utf8.RuneCountInString(text), e.voice)

	comm, err := edge.NewCommunicate(text, edge.WithVoice(e.voice))
	if err != nil {
		return nil, fmt.Errorf("edge-tts 创建实例失败: %w", err)
	}

	// Stream 同步建立 websocket 连接且没有超时，放到 goroutine 中以响应 ctx
	started := make(chan edgeStream, 1)
	go func() {
		ch, err := comm.Stream()
		started <- edgeStream{ch: ch, err: err}
	}()

	var ch <-chan map[string]interface{}
	select {
	case <-ctx.Done():
		go func() {
			if s := <-started; s.err == nil {
				comm.CloseOutput()
			}
		}()
		return nil, ctx.Err()
	case s := <-started:
		if s.err != nil {
			return nil, fmt.Errorf("edge-tts 开始流式合成失败: %w", s.err)
		}
		ch = s.ch
	}
	// 输出通道不会被库关闭，读完后由这里关闭，结束仍在发送的 worker
	defer comm.CloseOutput()

	data, err := collectAudio(ctx, ch, comm.AudioDataIndex)
	if err != nil {
		return nil, err
	}
	logger.Debugf("[tts] edge-tts: 收到 %d 字节 MP3 数据", len(data))
	return data, nil
}

// collectAudio 读取 Stream 的输出，直到收到 parts 个 "end"。
// 音频按分段序号拼接；遇到 "error" 立即返回。
func collectAudio(ctx context.Context, ch <-chan map[string]interface{}, parts int) ([]byte, error) {
	if parts <= 0 {
		return nil, fmt.Errorf("edge-tts: %w", ErrNoAudio)
	}

	buckets := make([][]byte, parts)
	ended := 0
loop:
	for ended < parts {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				break loop
			}
			if e, ok := msg["error"]; ok {
				return nil, fmt.Errorf("edge-tts 返回错误: %+v", e)
			}
			if _, ok := msg["end"]; ok {
				ended++
				continue
			}
			if t, _ := msg["type"].(string); t != "audio" {
				continue
			}
			ad, ok := msg["data"].(edge.AudioData)
			if !ok || ad.Index < 0 || ad.Index >= parts {
				logger.Debugf("[tts] edge-tts: 忽略无法识别的音频消息")
				continue
			}
			buckets[ad.Index] = append(buckets[ad.Index], ad.Data...)
		}
	}

	var out []byte
	for _, b := range buckets {
		out = append(out, b...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("edge-tts: %w", ErrNoAudio)
	}
	return out, nil
}
