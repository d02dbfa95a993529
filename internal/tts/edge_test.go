package tts

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pp-group/edge-tts-go/biz/service/tts/edge"
)

func audioMsg(index int, data string) map[string]interface{} {
	return map[string]interface{}{
		"type": "audio",
		"data": edge.AudioData{Data: []byte(data), Index: index},
	}
}

func endMsg() map[string]interface{} {
	return map[string]interface{}{"end": ""}
}

// feed 把消息依次发送到不会关闭的通道中，模拟 Stream 的输出。
func feed(msgs ...map[string]interface{}) <-chan map[string]interface{} {
	ch := make(chan map[string]interface{}, len(msgs))
	for _, m := range msgs {
		ch <- m
	}
	return ch
}

func TestCollectAudio(t *testing.T) {
	tests := []struct {
		name    string
		msgs    []map[string]interface{}
		parts   int
		want    string
		wantErr error
	}{
		{
			name:  "单段",
			msgs:  []map[string]interface{}{audioMsg(0, "ab"), audioMsg(0, "cd"), endMsg()},
			parts: 1,
			want:  "abcd",
		},
		{
			name: "多段乱序到达按序号拼接",
			msgs: []map[string]interface{}{
				audioMsg(1, "B1"), audioMsg(0, "A1"), audioMsg(1, "B2"), endMsg(), audioMsg(0, "A2"), endMsg(),
			},
			parts: 2,
			want:  "A1A2B1B2",
		},
		{
			name: "忽略非音频消息",
			msgs: []map[string]interface{}{
				{"type": "WordBoundary", "offset": 100},
				audioMsg(0, "x"),
				{"type": "audio", "data": []byte("raw")},
				endMsg(),
			},
			parts: 1,
			want:  "x",
		},
		{
			name:    "只有结束标记",
			msgs:    []map[string]interface{}{endMsg()},
			parts:   1,
			wantErr: ErrNoAudio,
		},
		{
			name:    "没有分段",
			parts:   0,
			wantErr: ErrNoAudio,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			got, err := collectAudio(ctx, feed(tt.msgs...), tt.parts)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("err = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("collectAudio 失败: %v", err)
			}
			if string(got) != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCollectAudio_StopsAfterLastEnd(t *testing.T) {
	// 最后一个 end 之后的消息不应被读取，通道也不会关闭
	ch := feed(audioMsg(0, "ok"), endMsg(), map[string]interface{}{"error": "late"})

	got, err := collectAudio(context.Background(), ch, 1)
	if err != nil {
		t.Fatalf("collectAudio 失败: %v", err)
	}
	if string(got) != "ok" {
		t.Errorf("got %q", got)
	}
	if len(ch) != 1 {
		t.Errorf("结束后不应继续读取，剩余 %d 条", len(ch))
	}
}

func TestCollectAudio_ErrorEntry(t *testing.T) {
	ch := feed(audioMsg(0, "partial"), map[string]interface{}{
		"error": edge.WebSocketError{Message: "connection reset"},
	})

	if _, err := collectAudio(context.Background(), ch, 1); err == nil {
		t.Fatal("error 消息应导致失败")
	}
}

func TestCollectAudio_SilentChannelHonorsDeadline(t *testing.T) {
	// 通道既不关闭也不再发送消息
	ch := make(chan map[string]interface{})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := collectAudio(ctx, ch, 1)
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("err = %v, want DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("未按截止时间返回，耗时 %v", elapsed)
	}
}

func TestCollectAudio_ClosedChannel(t *testing.T) {
	ch := make(chan map[string]interface{}, 1)
	ch <- audioMsg(0, "abc")
	close(ch)

	got, err := collectAudio(context.Background(), ch, 2)
	if err != nil {
		t.Fatalf("collectAudio 失败: %v", err)
	}
	if string(got) != "abc" {
		t.Errorf("got %q", got)
	}
}
