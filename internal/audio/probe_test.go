package audio

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// makeWAV 生成 16-bit 单声道 PCM WAV，dataSize 为写入头部的长度。
func makeWAV(sampleRate uint32, samples int, dataSize uint32) []byte {
	var buf bytes.Buffer
	pcm := samples * 2
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+pcm))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // 单声道
	binary.Write(&buf, binary.LittleEndian, sampleRate)
	binary.Write(&buf, binary.LittleEndian, sampleRate*2)
	binary.Write(&buf, binary.LittleEndian, uint16(2))
	binary.Write(&buf, binary.LittleEndian, uint16(16))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, dataSize)
	buf.Write(make([]byte, pcm))
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestProbe_WAV(t *testing.T) {
	p := writeFile(t, "overview.wav", makeWAV(22050, 44100, 88200))

	info, err := Probe(p)
	if err != nil {
		t.Fatalf("Probe 失败: %v", err)
	}
	if info.Duration != 2*time.Second {
		t.Errorf("Duration = %v, want 2s", info.Duration)
	}
	if info.Size != 44+88200 {
		t.Errorf("Size = %d", info.Size)
	}
}

func TestProbe_WAVStreamingHeader(t *testing.T) {
	// espeak 输出到管道时 data 长度为 0x7FFFFFFF
	p := writeFile(t, "overview.wav", makeWAV(22050, 22050, 0x7FFFFFFF))

	info, err := Probe(p)
	if err != nil {
		t.Fatalf("Probe 失败: %v", err)
	}
	if info.Duration != time.Second {
		t.Errorf("Duration = %v, want 1s", info.Duration)
	}
}

func TestProbe_WAVWithExtraChunk(t *testing.T) {
	wav := makeWAV(16000, 16000, 32000)
	// 在 fmt 块之后插入一个奇数长度的 LIST 块
	var buf bytes.Buffer
	buf.Write(wav[:36])
	buf.WriteString("LIST")
	binary.Write(&buf, binary.LittleEndian, uint32(3))
	buf.Write([]byte{'a', 'b', 'c', 0})
	buf.Write(wav[36:])
	p := writeFile(t, "x.wav", buf.Bytes())

	info, err := Probe(p)
	if err != nil {
		t.Fatalf("Probe 失败: %v", err)
	}
	if info.Duration != time.Second {
		t.Errorf("Duration = %v, want 1s", info.Duration)
	}
}

func TestProbe_NotWAV(t *testing.T) {
	p := writeFile(t, "bad.wav", []byte("definitely not a riff file"))
	if _, err := Probe(p); err == nil {
		t.Fatal("非 WAV 数据应返回错误")
	}
}

func TestProbe_EmptyPlaceholder(t *testing.T) {
	p := writeFile(t, "overview.mp3", nil)

	info, err := Probe(p)
	if err != nil {
		t.Fatalf("空文件不应返回错误: %v", err)
	}
	if info.Size != 0 || info.Duration != 0 {
		t.Errorf("空文件应为零值，得到 %+v", info)
	}
}

func TestProbe_InvalidMP3(t *testing.T) {
	p := writeFile(t, "overview.mp3", bytes.Repeat([]byte{0}, 2048))

	info, err := Probe(p)
	if err == nil {
		t.Fatal("无效 MP3 应返回错误")
	}
	if info.Size != 2048 {
		t.Errorf("出错时仍应返回大小，得到 %d", info.Size)
	}
}

func TestProbe_OtherFormatsSizeOnly(t *testing.T) {
	p := writeFile(t, "overview.aiff", []byte("FORM0000AIFF"))

	info, err := Probe(p)
	if err != nil {
		t.Fatalf("Probe 失败: %v", err)
	}
	if info.Size != 12 || info.Duration != 0 {
		t.Errorf("AIFF 只应返回大小，得到 %+v", info)
	}
}

func TestProbe_Missing(t *testing.T) {
	if _, err := Probe(filepath.Join(t.TempDir(), "missing.mp3")); err == nil {
		t.Fatal("文件不存在应返回错误")
	}
}

// wavWithFmtSize 把 fmt 块声明的大小改为 fmtSize，并在 fmt 块后补齐 extra 字节。
func wavWithFmtSize(fmtSize uint32, extra int) []byte {
	wav := makeWAV(16000, 16000, 32000)
	var buf bytes.Buffer
	buf.Write(wav[:16])
	binary.Write(&buf, binary.LittleEndian, fmtSize)
	buf.Write(wav[20:36])
	buf.Write(make([]byte, extra))
	buf.Write(wav[36:])
	return buf.Bytes()
}

func TestProbe_WAVExtendedFmtChunk(t *testing.T) {
	// WAVEFORMATEX 带 2 字节 cbSize
	p := writeFile(t, "ext.wav", wavWithFmtSize(18, 2))

	info, err := Probe(p)
	if err != nil {
		t.Fatalf("Probe 失败: %v", err)
	}
	if info.Duration != time.Second {
		t.Errorf("Duration = %v, want 1s", info.Duration)
	}
}

func TestProbe_WAVHugeFmtChunk(t *testing.T) {
	// 头部声明接近 4 GiB 的 fmt 块，文件本身很小
	p := writeFile(t, "huge.wav", wavWithFmtSize(0xFFFFFFF0, 0))

	if _, err := Probe(p); err == nil {
		t.Fatal("fmt 块超出文件长度应返回错误")
	}
}
