package service

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"news-scraper/config"
	"news-scraper/internal/model"
)

// ExtractorService 从页面HTML中提取文章列表
type ExtractorService struct {
	selectors config.SelectorConfig
	base      *url.URL
	source    string
}

func NewExtractorService(cfg config.ScraperConfig) (*ExtractorService, error) {
	base, err := url.Parse(cfg.SiteURL)
	if err != nil {
		return nil, fmt.Errorf("站点地址无效: %w", err)
	}

	return &ExtractorService{
		selectors: cfg.Selectors,
		base:      base,
		source:    cfg.Source,
	}, nil
}

// Extract 解析HTML,按Link去重后返回文章列表
func (s *ExtractorService) Extract(markup string) ([]model.Article, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("解析页面失败: %w", err)
	}

	articles := make([]model.Article, 0)
	seen := make(map[string]bool)

	doc.Find(s.selectors.Post).Each(func(i int, post *goquery.Selection) {
		article, ok := s.extractPost(post)
		if !ok {
			// 单个节点提取失败,跳过不中断
			return
		}

		if seen[article.Link] {
			return
		}
		seen[article.Link] = true

		articles = append(articles, article)
	})

	return articles, nil
}

// extractPost 提取单个post节点,标题或链接缺失时丢弃
func (s *ExtractorService) extractPost(post *goquery.Selection) (model.Article, bool) {
	title := strings.TrimSpace(post.Find(s.selectors.Title).First().Text())
	if title == "" {
		return model.Article{}, false
	}

	link := s.extractLink(post)
	if link == "" {
		return model.Article{}, false
	}

	summary := strings.TrimSpace(post.Find(s.selectors.Summary).First().Text())
	if summary == "" {
		summary = model.DefaultSummary
	}

	return model.Article{
		Title:   title,
		Summary: summary,
		Link:    link,
		Source:  s.source,
	}, true
}

func (s *ExtractorService) extractLink(post *goquery.Selection) string {
	href, exists := post.Find(s.selectors.Link).First().Attr("href")
	if !exists || strings.TrimSpace(href) == "" {
		// 兜底: 取节点内第一个链接
		href, exists = post.Find("a").First().Attr("href")
		if !exists {
			return ""
		}
	}

	return s.resolveLink(strings.TrimSpace(href))
}

// resolveLink 相对链接解析为站点下的绝对地址
func (s *ExtractorService) resolveLink(href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}

	if u.IsAbs() {
		return u.String()
	}

	return s.base.ResolveReference(u).String()
}
