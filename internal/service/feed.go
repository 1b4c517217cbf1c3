package service

import (
	"context"
	"strings"

	"github.com/mmcdole/gofeed"
	"news-scraper/config"
	"news-scraper/internal/model"
)

// FeedService 站点RSS源抓取,与HTML提取产出同样的文章结构
type FeedService struct {
	parser *gofeed.Parser
	cfg    config.ScraperConfig
}

func NewFeedService(cfg config.ScraperConfig) *FeedService {
	return &FeedService{
		parser: gofeed.NewParser(),
		cfg:    cfg,
	}
}

// Fetch 抓取RSS源
func (s *FeedService) Fetch(ctx context.Context) ([]model.Article, error) {
	parsed, err := s.parser.ParseURLWithContext(s.cfg.RSSURL, ctx)
	if err != nil {
		return nil, err
	}

	articles := make([]model.Article, 0, len(parsed.Items))
	seen := make(map[string]bool)

	for _, item := range parsed.Items {
		title := strings.TrimSpace(item.Title)
		link := strings.TrimSpace(item.Link)
		if title == "" || link == "" || seen[link] {
			continue
		}
		seen[link] = true

		summary := strings.TrimSpace(item.Description)
		if summary == "" {
			summary = model.DefaultSummary
		}

		articles = append(articles, model.Article{
			Title:   title,
			Summary: summary,
			Link:    link,
			Source:  s.cfg.Source,
		})
	}

	return articles, nil
}
