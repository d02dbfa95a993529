package tts

import (
	"context"
	"errors"
	"path"
	"path/filepath"
	"strings"
)

var (
	// ErrUndersized 表示合成结果小于最小有效音频大小，多半是错误页或空文件。
	ErrUndersized = errors.New("音频文件过小")
	// ErrNoAudio 表示后端没有返回任何音频数据。
	ErrNoAudio = errors.New("未收到音频数据")
)

// Backend 定义级联中的一个语音合成后端。
// Attempt 从 textPath 读取待合成文本，成功时返回写入固定路径的音频；
// 返回错误即表示该后端放弃，级联会继续尝试下一个。
type Backend interface {
	Name() string
	Attempt(ctx context.Context, textPath string) (*Artifact, error)
}

// Artifact 是一次合成的最终产物。nil 表示没有可用音频。
type Artifact struct {
	Path        string // 相对站点根目录的路径（正斜杠），如 static/audio/overview.mp3
	File        string // 文件系统中的实际位置
	MIME        string
	Backend     string
	Placeholder bool // 所有后端均失败时生成的空占位文件
}

// MIMEFor 按扩展名推断音频 MIME 类型。
func MIMEFor(p string) string {
	switch strings.ToLower(filepath.Ext(p)) {
	case ".mp3":
		return "audio/mpeg"
	case ".wav":
		return "audio/wav"
	default:
		return "audio/aiff"
	}
}

// output 是某个后端的固定输出位置。
type output struct {
	path string
	file string
}

func (c Config) output(name string) output {
	p := path.Join(filepath.ToSlash(c.AudioDir), name)
	return output{
		path: p,
		file: filepath.Join(c.SiteRoot, filepath.FromSlash(p)),
	}
}

func (o output) artifact(backend string) *Artifact {
	return &Artifact{
		Path:    o.path,
		File:    o.file,
		MIME:    MIMEFor(o.file),
		Backend: backend,
	}
}
