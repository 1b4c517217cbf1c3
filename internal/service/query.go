package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"news-scraper/internal/model"
	"gorm.io/gorm"
)

type QueryParams struct {
	Search   string
	FromDate string // YYYY-MM-DD, 含当天
	ToDate   string // YYYY-MM-DD, 含当天
	Limit    int
	Offset   int
}

type QueryResult struct {
	Articles []model.Article
	Total    int64
}

// QueryService 历史文章的过滤分页查询
type QueryService struct {
	db *gorm.DB
}

func NewQueryService(db *gorm.DB) *QueryService {
	return &QueryService{db: db}
}

// Search 分页查询与总数查询并行执行,过滤条件一致
func (s *QueryService) Search(ctx context.Context, p QueryParams) (*QueryResult, error) {
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	articles := make([]model.Article, 0)
	var total int64
	var pageErr, countErr error
	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()
		pageErr = s.filtered(ctx, p).
			Order("created_at DESC").
			Limit(p.Limit).
			Offset(p.Offset).
			Find(&articles).Error
	}()

	go func() {
		defer wg.Done()
		countErr = s.filtered(ctx, p).Count(&total).Error
	}()

	wg.Wait()

	if pageErr != nil {
		return nil, pageErr
	}
	if countErr != nil {
		return nil, countErr
	}

	return &QueryResult{Articles: articles, Total: total}, nil
}

// filtered 构造过滤条件,分页查询与总数查询共用
func (s *QueryService) filtered(ctx context.Context, p QueryParams) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&model.Article{})

	if p.Search != "" {
		pattern := "%" + strings.ToLower(p.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(summary) LIKE ?", pattern, pattern)
	}

	if p.FromDate != "" {
		if from, err := time.Parse("2006-01-02", p.FromDate); err == nil {
			query = query.Where("created_at >= ?", from)
		}
	}

	if p.ToDate != "" {
		if to, err := time.Parse("2006-01-02", p.ToDate); err == nil {
			// 含结束日期当天
			query = query.Where("created_at < ?", to.AddDate(0, 0, 1))
		}
	}

	return query
}
