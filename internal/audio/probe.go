package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hajimehoshi/go-mp3"
)

// go-mp3 始终输出 16-bit 立体声，每帧 4 字节。
const mp3BytesPerFrame = 4

// Info 是音频文件的基本信息。Duration 为 0 表示未知或空文件。
type Info struct {
	Size     int64
	Duration time.Duration
}

// Probe 读取音频文件的大小和时长。MP3 用 go-mp3 解码计算，WAV 读取 RIFF 头。
// 其它格式（如 AIFF）只返回大小。
func Probe(file string) (Info, error) {
	f, err := os.Open(file)
	if err != nil {
		return Info{}, err
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return Info{}, err
	}
	info := Info{Size: st.Size()}
	if info.Size == 0 {
		return info, nil
	}

	switch strings.ToLower(filepath.Ext(file)) {
	case ".mp3":
		info.Duration, err = mp3Duration(f)
	case ".wav":
		info.Duration, err = wavDuration(f, info.Size)
	}
	if err != nil {
		return info, fmt.Errorf("读取 %s 时长失败: %w", filepath.Base(file), err)
	}
	return info, nil
}

func mp3Duration(r io.ReadSeeker) (time.Duration, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return 0, err
	}
	length := d.Length()
	if length <= 0 || d.SampleRate() <= 0 {
		return 0, errors.New("无法确定 MP3 长度")
	}
	samples := length / mp3BytesPerFrame
	return time.Duration(samples) * time.Second / time.Duration(d.SampleRate()), nil
}

// wavDuration 遍历 RIFF 块，用 data 块大小除以 fmt 块中的字节率。
func wavDuration(r io.Reader, size int64) (time.Duration, error) {
	var riff [12]byte
	if _, err := io.ReadFull(r, riff[:]); err != nil {
		return 0, err
	}
	if string(riff[0:4]) != "RIFF" || string(riff[8:12]) != "WAVE" {
		return 0, errors.New("不是 RIFF/WAVE 文件")
	}

	offset := int64(12)
	var byteRate uint32
	for {
		var hdr [8]byte
		if _, err := io.ReadFull(r, hdr[:]); err != nil {
			return 0, errors.New("缺少 data 块")
		}
		offset += 8
		id := string(hdr[0:4])
		chunkSize := int64(binary.LittleEndian.Uint32(hdr[4:8]))

		switch id {
		case "fmt ":
			if chunkSize < 16 {
				return 0, errors.New("fmt 块过短")
			}
			// 只需要前 16 字节，其余跳过，避免按头部声明的大小分配内存
			var fmtChunk [16]byte
			if _, err := io.ReadFull(r, fmtChunk[:]); err != nil {
				return 0, err
			}
			byteRate = binary.LittleEndian.Uint32(fmtChunk[8:12])
			if _, err := io.CopyN(io.Discard, r, chunkSize-16); err != nil {
				return 0, err
			}
		case "data":
			if byteRate == 0 {
				return 0, errors.New("data 块之前缺少 fmt 块")
			}
			// 流式写出的 WAV 可能带占位长度，按实际文件大小截断
			if remain := size - offset; chunkSize > remain {
				chunkSize = remain
			}
			return time.Duration(chunkSize) * time.Second / time.Duration(byteRate), nil
		default:
			if _, err := io.CopyN(io.Discard, r, chunkSize); err != nil {
				return 0, err
			}
		}
		offset += chunkSize
		// RIFF 块按偶数字节对齐
		if chunkSize%2 == 1 {
			if _, err := io.CopyN(io.Discard, r, 1); err != nil {
				return 0, err
			}
			offset++
		}
	}
}
