package tts

import "strconv"

// NewEspeakBackend 创建 espeak-ng 后端，输出 WAV。
// 音质一般，但在 Linux 上通常可直接安装使用。
func NewEspeakBackend(cfg Config) *CommandBackend {
	cfg = cfg.withDefaults()
	voice, speed := cfg.Espeak.Voice, strconv.Itoa(cfg.Espeak.Speed)
	return &CommandBackend{
		name:   "espeak-ng",
		binary: cfg.Espeak.Binary,
		out:    cfg.output(cfg.WAVFile),
		args: func(textPath, outFile string) []string {
			return []string{"-v", voice, "-s", speed, "-w", outFile, "-f", textPath}
		},
	}
}
