package tts

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/iabetor/docpost/internal/logger"
)

// scratchFile 是喂给各后端的临时文本文件。
// 外部命令从文件读取文本，避免命令行转义和长度问题。
// 每次尝试前重新写入，尝试结束后删除，任意时刻最多存在一个。
type scratchFile struct {
	path string
	text string
}

func newScratchFile(path, text string) *scratchFile {
	return &scratchFile{path: path, text: text}
}

// acquire 写入一份新的临时文本（覆盖旧内容）。
func (s *scratchFile) acquire() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("创建临时文本目录失败: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(s.text), 0644); err != nil {
		return fmt.Errorf("写入临时文本失败: %w", err)
	}
	return nil
}

// release 删除临时文本，失败时只记录日志。
func (s *scratchFile) release() {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		logger.Debugf("[tts] 删除临时文本 %s 失败: %v", s.path, err)
	}
}
