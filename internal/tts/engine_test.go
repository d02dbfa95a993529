package tts

import (
	"path/filepath"
	"testing"
)

func TestMIMEFor(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"static/audio/overview.mp3", "audio/mpeg"},
		{"OVERVIEW.MP3", "audio/mpeg"},
		{"static/audio/overview.wav", "audio/wav"},
		{"static/audio/overview.aiff", "audio/aiff"},
		{"static/audio/overview.ogg", "audio/aiff"},
		{"overview", "audio/aiff"},
	}
	for _, tt := range tests {
		if got := MIMEFor(tt.path); got != tt.want {
			t.Errorf("MIMEFor(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestConfigOutput(t *testing.T) {
	cfg := Config{SiteRoot: "/site", AudioDir: "static/audio"}.withDefaults()
	out := cfg.output(cfg.MP3File)

	if out.path != "static/audio/overview.mp3" {
		t.Errorf("path = %q", out.path)
	}
	if want := filepath.Join("/site", "static", "audio", "overview.mp3"); out.file != want {
		t.Errorf("file = %q, want %q", out.file, want)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}.withDefaults()
	if cfg.MinAudioBytes != 1000 {
		t.Errorf("MinAudioBytes = %d", cfg.MinAudioBytes)
	}
	if cfg.Hosted != "edge" {
		t.Errorf("Hosted = %q", cfg.Hosted)
	}
	if cfg.Espeak.Voice != "en-us" || cfg.Espeak.Speed != 150 {
		t.Errorf("Espeak = %+v", cfg.Espeak)
	}
	if cfg.Say.Voice != "Alex" {
		t.Errorf("Say.Voice = %q", cfg.Say.Voice)
	}
	if cfg.ScratchFile != "text_input.txt" {
		t.Errorf("ScratchFile = %q", cfg.ScratchFile)
	}
}
