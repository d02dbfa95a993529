package post

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/iabetor/docpost/internal/logger"
	"github.com/iabetor/docpost/internal/tts"
)

const (
	frontMatterDelim = "+++"
	audioUnavailable = "*Audio not available - Text-to-speech failed*"
)

// Post 是要写入 Zola 的一篇文章。
type Post struct {
	Title       string
	Slug        string
	Date        time.Time
	SourceURL   string
	Explanation string
	Guide       string

	Audio         *tts.Artifact // nil 表示没有音频
	AudioDuration time.Duration // 0 表示未知
}

type frontMatter struct {
	Title string    `toml:"title"`
	Date  localDate `toml:"date"`
	Extra extra     `toml:"extra"`
}

type extra struct {
	Source        string `toml:"source,omitempty"`
	Audio         string `toml:"audio,omitempty"`
	AudioBackend  string `toml:"audio_backend,omitempty"`
	AudioDuration string `toml:"audio_duration,omitempty"`
}

// localDate 以 TOML 本地日期（不加引号）输出，如 date = 2024-05-01。
type localDate string

func (d localDate) MarshalTOML() ([]byte, error) {
	return []byte(d), nil
}

// Render 生成文章内容：TOML front matter 加 markdown 正文。
func Render(p Post) ([]byte, error) {
	fm := frontMatter{
		Title: p.Title,
		Date:  localDate(p.Date.Format("2006-01-02")),
		Extra: extra{Source: p.SourceURL},
	}
	if p.Audio != nil {
		fm.Extra.Audio = p.Audio.Path
		fm.Extra.AudioBackend = p.Audio.Backend
		if p.AudioDuration > 0 {
			fm.Extra.AudioDuration = p.AudioDuration.Round(time.Second).String()
		}
	}

	var buf bytes.Buffer
	buf.WriteString(frontMatterDelim + "\n")
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(fm); err != nil {
		return nil, fmt.Errorf("编码 front matter 失败: %w", err)
	}
	buf.WriteString(frontMatterDelim + "\n")

	fmt.Fprintf(&buf, "\n[Generated from %s]\n", p.SourceURL)
	fmt.Fprintf(&buf, "\n## Beginner's Explanation\n%s\n", p.Explanation)
	fmt.Fprintf(&buf, "\n## Step-by-Step Guide\n%s\n", p.Guide)
	buf.WriteString("\n## Audio Version\n")
	if p.Audio != nil {
		fmt.Fprintf(&buf, "<audio controls><source src=\"/%s\" type=\"%s\"></audio>\n", p.Audio.Path, tts.MIMEFor(p.Audio.Path))
	} else {
		buf.WriteString(audioUnavailable + "\n")
	}
	return buf.Bytes(), nil
}

// Write 把文章写入 dir/<slug>.md，返回文件路径。已存在的同名文章会被覆盖。
func Write(dir string, p Post) (string, error) {
	if p.Slug == "" {
		return "", fmt.Errorf("文章缺少 slug")
	}
	data, err := Render(p)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("创建文章目录失败: %w", err)
	}

	path := filepath.Join(dir, p.Slug+".md")
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("写入文章失败: %w", err)
	}
	logger.Infof("[post] 文章已保存: %s", path)
	return path, nil
}
