package tts

// NewSayBackend 创建 macOS say 后端，输出 AIFF，作为最后的兜底方案。
func NewSayBackend(cfg Config) *CommandBackend {
	cfg = cfg.withDefaults()
	voice := cfg.Say.Voice
	return &CommandBackend{
		name:   "say",
		binary: cfg.Say.Binary,
		out:    cfg.output(cfg.AIFFFile),
		args: func(textPath, outFile string) []string {
			return []string{"-v", voice, "-o", outFile, "-f", textPath}
		},
	}
}
