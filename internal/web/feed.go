package web

import (
	"context"
	"fmt"
	"time"

	"github.com/iabetor/docpost/internal/logger"
	"github.com/mmcdole/gofeed"
)

// LatestFromFeed 解析 RSS/Atom 订阅源，返回最新条目的链接。
func (f *Fetcher) LatestFromFeed(ctx context.Context, feedURL string) (string, error) {
	body, _, err := f.get(ctx, feedURL)
	if err != nil {
		return "", err
	}
	defer body.Close()

	feed, err := f.parser.Parse(body)
	if err != nil {
		return "", fmt.Errorf("无法解析订阅源 %s: %w", feedURL, err)
	}

	item := newestItem(feed.Items)
	if item == nil || item.Link == "" {
		return "", fmt.Errorf("订阅源 %s 没有可用条目", feedURL)
	}
	logger.Infof("[web] 订阅源最新条目: %s (%s)", item.Title, item.Link)
	return item.Link, nil
}

// newestItem 按发布时间（缺失时用更新时间）选出最新条目；都没有时间时取第一条。
func newestItem(items []*gofeed.Item) *gofeed.Item {
	var (
		newest *gofeed.Item
		best   time.Time
	)
	for _, it := range items {
		if it == nil {
			continue
		}
		ts := itemTime(it)
		if newest == nil || ts.After(best) {
			newest, best = it, ts
		}
	}
	return newest
}

func itemTime(it *gofeed.Item) time.Time {
	if it.PublishedParsed != nil {
		return *it.PublishedParsed
	}
	if it.UpdatedParsed != nil {
		return *it.UpdatedParsed
	}
	return time.Time{}
}
