package service

import (
	"time"

	"news-scraper/config"
	"news-scraper/internal/model"
	"gorm.io/gorm"
)

// CacheService 基于库内最近数据判断是否需要重新抓取
type CacheService struct {
	db  *gorm.DB
	cfg config.CacheConfig
}

func NewCacheService(db *gorm.DB, cfg config.CacheConfig) *CacheService {
	return &CacheService{db: db, cfg: cfg}
}

// RecentArticles 查询缓存时间窗口内的文章,按时间倒序
func (s *CacheService) RecentArticles() ([]model.Article, error) {
	articles := make([]model.Article, 0)
	since := time.Now().Add(-s.cfg.Window())

	err := s.db.Where("created_at >= ?", since).
		Order("created_at DESC").
		Limit(s.cfg.MaxArticles).
		Find(&articles).Error

	return articles, err
}

// Valid 窗口内文章数达到阈值则认为缓存有效
func (s *CacheService) Valid(articles []model.Article) bool {
	return len(articles) >= s.cfg.MinArticles
}

// LatestArticles 降级查询: 不限时间窗口的最新文章
func (s *CacheService) LatestArticles() ([]model.Article, error) {
	articles := make([]model.Article, 0)

	err := s.db.Order("created_at DESC").
		Limit(s.cfg.MaxArticles).
		Find(&articles).Error

	return articles, err
}
