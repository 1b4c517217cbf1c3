package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"news-scraper/internal/model"
)

// Snapshot 按天归档文章快照,只保留最近keep个文件
type Snapshot struct {
	dir  string
	keep int
}

func NewSnapshot(dir string, keep int) (*Snapshot, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("创建快照目录失败: %w", err)
	}

	if keep <= 0 {
		keep = 7
	}

	return &Snapshot{dir: dir, keep: keep}, nil
}

// Write 写入当天快照(同一天覆盖),然后轮转历史文件
func (s *Snapshot) Write(articles []model.Article) error {
	if articles == nil {
		articles = []model.Article{}
	}

	data, err := json.MarshalIndent(articles, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化快照失败: %w", err)
	}

	name := time.Now().Format("2006-01-02") + ".json"
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0644); err != nil {
		return fmt.Errorf("写入快照失败: %w", err)
	}

	return s.rotate()
}

// rotate 文件名即日期,字典序排序后删除最旧的
func (s *Snapshot) rotate() error {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return err
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".json") {
			names = append(names, entry.Name())
		}
	}

	sort.Strings(names)

	for len(names) > s.keep {
		if err := os.Remove(filepath.Join(s.dir, names[0])); err != nil {
			return err
		}
		names = names[1:]
	}

	return nil
}

// Dir 快照目录路径
func (s *Snapshot) Dir() string {
	return s.dir
}

// Stat 检查目录是否存在、是否可写
func (s *Snapshot) Stat() (exists, writable bool) {
	info, err := os.Stat(s.dir)
	if err != nil || !info.IsDir() {
		return false, false
	}

	// 写探针文件验证可写
	probe := filepath.Join(s.dir, ".probe")
	if err := os.WriteFile(probe, nil, 0644); err != nil {
		return true, false
	}
	os.Remove(probe)

	return true, true
}
