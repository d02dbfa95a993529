package tts

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// runCommand 执行外部命令，失败时附带 stderr。测试中可替换。
var runCommand = func(ctx context.Context, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if s := strings.TrimSpace(stderr.String()); s != "" {
			return fmt.Errorf("%w, stderr: %s", err, s)
		}
		return err
	}
	return nil
}

// CommandBackend 通过本地命令行工具合成语音，只以退出码判断成败。
type CommandBackend struct {
	name   string
	binary string
	out    output
	args   func(textPath, outFile string) []string
}

// Name 实现 Backend 接口。
func (b *CommandBackend) Name() string {
	return b.name
}

// Attempt 实现 Backend 接口。
func (b *CommandBackend) Attempt(ctx context.Context, textPath string) (*Artifact, error) {
	if err := os.MkdirAll(filepath.Dir(b.out.file), 0755); err != nil {
		return nil, fmt.Errorf("创建音频目录失败: %w", err)
	}
	if err := runCommand(ctx, b.binary, b.args(textPath, b.out.file)...); err != nil {
		return nil, fmt.Errorf("%s 执行失败: %w", b.binary, err)
	}
	return b.out.artifact(b.name), nil
}
