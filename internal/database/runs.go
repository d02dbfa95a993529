package database

import (
	"fmt"
	"time"
)

// Run 是一次生成的记录。
type Run struct {
	ID           string
	URL          string
	Slug         string
	Title        string
	PostPath     string
	AudioPath    string // 为空表示没有音频
	AudioBackend string
	Placeholder  bool
	CreatedAt    time.Time
}

// RecordRun 保存一次运行记录。
func (db *DB) RecordRun(r Run) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := db.Exec(
		`INSERT INTO runs (id, url, slug, title, post_path, audio_path, audio_backend, placeholder, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.URL, r.Slug, r.Title, r.PostPath, r.AudioPath, r.AudioBackend, r.Placeholder,
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("保存运行记录失败: %w", err)
	}
	return nil
}

// RecentRuns 按时间倒序返回最近的运行记录。
func (db *DB) RecentRuns(limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := db.Query(
		`SELECT id, url, slug, title, post_path, audio_path, audio_backend, placeholder, created_at
		 FROM runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("查询运行记录失败: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r       Run
			created string
		)
		if err := rows.Scan(&r.ID, &r.URL, &r.Slug, &r.Title, &r.PostPath,
			&r.AudioPath, &r.AudioBackend, &r.Placeholder, &created); err != nil {
			return nil, fmt.Errorf("读取运行记录失败: %w", err)
		}
		if t, err := time.Parse(time.RFC3339Nano, created); err == nil {
			r.CreatedAt = t.Local()
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
