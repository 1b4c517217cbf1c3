package service

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"news-scraper/config"
	"news-scraper/internal/model"
)

// ScraperService 抓取站点首页并提取文章
type ScraperService struct {
	client    *http.Client
	extractor *ExtractorService
	feed      *FeedService
	cfg       config.ScraperConfig
}

func NewScraperService(cfg config.ScraperConfig) (*ScraperService, error) {
	extractor, err := NewExtractorService(cfg)
	if err != nil {
		return nil, err
	}

	return &ScraperService{
		client:    &http.Client{Timeout: cfg.Timeout()},
		extractor: extractor,
		feed:      NewFeedService(cfg),
		cfg:       cfg,
	}, nil
}

// Scrape 抓取站点并返回去重后的文章列表
func (s *ScraperService) Scrape(ctx context.Context) ([]model.Article, error) {
	// 配置了RSS地址时优先走RSS
	if s.cfg.RSSURL != "" {
		return s.feed.Fetch(ctx)
	}

	markup, err := s.fetchPage(ctx)
	if err != nil {
		return nil, err
	}

	return s.extractor.Extract(markup)
}

// fetchPage 获取站点首页HTML
func (s *ScraperService) fetchPage(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", s.cfg.SiteURL, nil)
	if err != nil {
		return "", fmt.Errorf("创建请求失败: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("站点返回错误: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取响应失败: %w", err)
	}

	return string(body), nil
}
