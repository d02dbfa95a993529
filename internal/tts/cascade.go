package tts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/iabetor/docpost/internal/logger"
)

// logPreviewRunes 是日志中展示的文本前缀长度。
const logPreviewRunes = 50

// Cascade 按优先级依次尝试多个语音合成后端，第一个成功的结果即为最终产物。
// 单个后端的任何错误都只会让级联转向下一个后端，Synthesize 本身从不返回错误。
type Cascade struct {
	backends []Backend

	scratchPath          string
	placeholder          output
	attemptTimeout       time.Duration
	placeholderOnFailure bool
}

// NewCascade 创建级联。backends 按优先级排列。
func NewCascade(cfg Config, backends ...Backend) *Cascade {
	cfg = cfg.withDefaults()
	return &Cascade{
		backends:             backends,
		scratchPath:          cfg.output(cfg.ScratchFile).file,
		placeholder:          cfg.output(cfg.MP3File),
		attemptTimeout:       cfg.AttemptTimeout,
		placeholderOnFailure: cfg.PlaceholderOnFailure,
	}
}

// Names 返回按优先级排列的后端名称。
func (c *Cascade) Names() []string {
	names := make([]string, 0, len(c.backends))
	for _, b := range c.backends {
		names = append(names, b.Name())
	}
	return names
}

// ScratchPath 返回共享临时文本文件的位置。
func (c *Cascade) ScratchPath() string {
	return c.scratchPath
}

// Synthesize 将文本合成为音频。
// 返回 nil 表示没有可引用的音频（仅在占位策略关闭或占位文件无法创建时出现）。
func (c *Cascade) Synthesize(ctx context.Context, text string) *Artifact {
	logger.Infof("[tts] 开始合成 %d 个字符: %s...", utf8.RuneCountInString(text), preview(text))

	scratch := newScratchFile(c.scratchPath, text)
	defer scratch.release()

	for i, b := range c.backends {
		if err := ctx.Err(); err != nil {
			logger.Warnf("[tts] 合成已取消，跳过剩余后端: %v", err)
			break
		}

		if err := scratch.acquire(); err != nil {
			logger.Warnf("[tts] %s: %v，跳过", b.Name(), err)
			continue
		}

		art, err := c.attempt(ctx, b, scratch.path)
		scratch.release()

		if err == nil {
			logger.Infof("[tts] %s 合成成功: %s (%s)", b.Name(), art.Path, art.MIME)
			return art
		}

		if i+1 < len(c.backends) {
			logger.Warnf("[tts] %s 失败: %v，尝试 %s", b.Name(), err, c.backends[i+1].Name())
		} else {
			logger.Warnf("[tts] %s 失败: %v", b.Name(), err)
		}
	}

	logger.Errorf("[tts] 所有语音合成方式均失败")
	if !c.placeholderOnFailure {
		return nil
	}
	return c.writePlaceholder()
}

// attempt 在超时限制内运行单个后端，并把 panic 转换为普通失败。
func (c *Cascade) attempt(ctx context.Context, b Backend, textPath string) (art *Artifact, err error) {
	defer func() {
		if r := recover(); r != nil {
			art, err = nil, fmt.Errorf("后端 panic: %v", r)
		}
	}()

	if c.attemptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.attemptTimeout)
		defer cancel()
	}

	art, err = b.Attempt(ctx, textPath)
	if err == nil && art == nil {
		err = ErrNoAudio
	}
	return art, err
}

// writePlaceholder 在 MP3 固定路径创建空文件，使文章中的音频引用仍然有效。
func (c *Cascade) writePlaceholder() *Artifact {
	if err := os.MkdirAll(filepath.Dir(c.placeholder.file), 0755); err != nil {
		logger.Errorf("[tts] 创建音频目录失败: %v", err)
		return nil
	}
	f, err := os.Create(c.placeholder.file)
	if err != nil {
		logger.Errorf("[tts] 创建占位文件失败: %v", err)
		return nil
	}
	f.Close()

	logger.Warnf("[tts] 已创建占位文件: %s", c.placeholder.path)
	art := c.placeholder.artifact("placeholder")
	art.Placeholder = true
	return art
}

func preview(text string) string {
	if utf8.RuneCountInString(text) <= logPreviewRunes {
		return text
	}
	return string([]rune(text)[:logPreviewRunes])
}
