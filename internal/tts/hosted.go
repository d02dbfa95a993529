package tts

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/iabetor/docpost/internal/logger"
)

// Synthesizer 是在线语音合成服务，返回 MP3 音频。
type Synthesizer interface {
	Name() string
	Synthesize(ctx context.Context, text string) ([]byte, error)
}

// HostedBackend 把在线服务包装为级联后端。
// 超出单次请求上限的文本会被切段，各段 MP3 按顺序拼接后写入固定路径。
// 只有文件存在且大于 MinAudioBytes 时才算成功。
type HostedBackend struct {
	synth    Synthesizer
	out      output
	minBytes int64
	maxChunk int
}

// NewHostedBackend 创建在线合成后端。maxChunk <= 0 表示不切段。
func NewHostedBackend(synth Synthesizer, cfg Config, maxChunk int) *HostedBackend {
	cfg = cfg.withDefaults()
	return &HostedBackend{
		synth:    synth,
		out:      cfg.output(cfg.MP3File),
		minBytes: cfg.MinAudioBytes,
		maxChunk: maxChunk,
	}
}

// Name 实现 Backend 接口。
func (h *HostedBackend) Name() string {
	return h.synth.Name()
}

// Attempt 实现 Backend 接口。
func (h *HostedBackend) Attempt(ctx context.Context, textPath string) (*Artifact, error) {
	data, err := os.ReadFile(textPath)
	if err != nil {
		return nil, fmt.Errorf("读取临时文本失败: %w", err)
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, fmt.Errorf("文本为空")
	}

	chunks := splitText(text, h.maxChunk)
	var buf bytes.Buffer
	for i, chunk := range chunks {
		if len(chunks) > 1 {
			logger.Debugf("[tts] %s: 合成第 %d/%d 段", h.Name(), i+1, len(chunks))
		}
		audio, err := h.synth.Synthesize(ctx, chunk)
		if err != nil {
			return nil, fmt.Errorf("第 %d/%d 段合成失败: %w", i+1, len(chunks), err)
		}
		buf.Write(audio)
	}

	if err := os.MkdirAll(filepath.Dir(h.out.file), 0755); err != nil {
		return nil, fmt.Errorf("创建音频目录失败: %w", err)
	}
	if err := os.WriteFile(h.out.file, buf.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("写入音频失败: %w", err)
	}

	info, err := os.Stat(h.out.file)
	if err != nil {
		return nil, fmt.Errorf("检查音频文件失败: %w", err)
	}
	if info.Size() <= h.minBytes {
		return nil, fmt.Errorf("%w: %d 字节（需大于 %d）", ErrUndersized, info.Size(), h.minBytes)
	}
	return h.out.artifact(h.Name()), nil
}

// splitText 把文本切成不超过 maxRunes 个字符的段。
// 优先在换行处切分并保留段内换行；单行超长时再按空白切，
// 没有空白的超长片段（如中文）按字符数硬切。
func splitText(text string, maxRunes int) []string {
	if maxRunes <= 0 || utf8.RuneCountInString(text) <= maxRunes {
		return []string{text}
	}

	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			chunks = append(chunks, s)
		}
		cur.Reset()
		curLen = 0
	}
	add := func(piece string, sep byte) {
		n := utf8.RuneCountInString(piece)
		if curLen > 0 && curLen+1+n > maxRunes {
			flush()
		}
		if curLen > 0 {
			cur.WriteByte(sep)
			curLen++
		}
		cur.WriteString(piece)
		curLen += n
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		if utf8.RuneCountInString(line) <= maxRunes {
			add(line, '\n')
			continue
		}
		for i, piece := range packWords(line, maxRunes) {
			if i == 0 {
				add(piece, '\n')
			} else {
				add(piece, ' ')
			}
		}
	}
	flush()
	return chunks
}

// packWords 按空白把一行拼成不超过 maxRunes 个字符的片段。
func packWords(line string, maxRunes int) []string {
	var (
		pieces []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if cur.Len() > 0 {
			pieces = append(pieces, cur.String())
		}
		cur.Reset()
		curLen = 0
	}

	for _, word := range strings.Fields(line) {
		wl := utf8.RuneCountInString(word)
		for wl > maxRunes {
			flush()
			r := []rune(word)
			pieces = append(pieces, string(r[:maxRunes]))
			word = string(r[maxRunes:])
			wl -= maxRunes
		}
		if wl == 0 {
			continue
		}
		if curLen > 0 && curLen+1+wl > maxRunes {
			flush()
		}
		if curLen > 0 {
			cur.WriteByte(' ')
			curLen++
		}
		cur.WriteString(word)
		curLen += wl
	}
	flush()
	return pieces
}
