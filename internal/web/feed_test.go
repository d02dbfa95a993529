package web

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

const testRSSFeed = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Zola News</title>
    <link>https://example.com</link>
    <description>docs</description>
    <item>
      <title>Older</title>
      <link>https://example.com/docs/older/</link>
      <pubDate>Wed, 18 Feb 2026 08:00:00 +0800</pubDate>
    </item>
    <item>
      <title>Newest</title>
      <link>https://example.com/docs/newest/</link>
      <pubDate>Thu, 19 Feb 2026 08:00:00 +0800</pubDate>
    </item>
  </channel>
</rss>`

const testEmptyFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom"><title>Empty</title></feed>`

func setupFeedServer(content string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		fmt.Fprint(w, content)
	}))
}

func TestLatestFromFeed(t *testing.T) {
	srv := setupFeedServer(testRSSFeed)
	defer srv.Close()

	link, err := NewFetcher(Options{}).LatestFromFeed(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("LatestFromFeed 失败: %v", err)
	}
	if link != "https://example.com/docs/newest/" {
		t.Errorf("应返回最新条目，得到 %s", link)
	}
}

func TestLatestFromFeed_Empty(t *testing.T) {
	srv := setupFeedServer(testEmptyFeed)
	defer srv.Close()

	if _, err := NewFetcher(Options{}).LatestFromFeed(context.Background(), srv.URL); err == nil {
		t.Fatal("空订阅源应返回错误")
	}
}

func TestLatestFromFeed_Invalid(t *testing.T) {
	srv := setupFeedServer("not xml")
	defer srv.Close()

	if _, err := NewFetcher(Options{}).LatestFromFeed(context.Background(), srv.URL); err == nil {
		t.Fatal("无效订阅源应返回错误")
	}
}
