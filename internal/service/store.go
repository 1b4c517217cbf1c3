package service

import (
	"context"
	"log"
	"sync"

	"news-scraper/internal/model"
	"news-scraper/internal/storage"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// StorageResult 记录两路写入各自的成败
type StorageResult struct {
	Database bool `json:"database"`
	File     bool `json:"file"`
}

// StoreService 把一批文章并行写入数据库与快照文件
type StoreService struct {
	db       *gorm.DB
	snapshot *storage.Snapshot
}

func NewStoreService(db *gorm.DB, snapshot *storage.Snapshot) *StoreService {
	return &StoreService{db: db, snapshot: snapshot}
}

// Save 两路写入互不影响,全部完成后返回结果
func (s *StoreService) Save(ctx context.Context, articles []model.Article) StorageResult {
	var result StorageResult
	var wg sync.WaitGroup

	wg.Add(2)

	go func() {
		defer wg.Done()
		if err := s.upsert(ctx, articles); err != nil {
			log.Printf("[Store] database write failed: %v", err)
			return
		}
		result.Database = true
	}()

	go func() {
		defer wg.Done()
		if err := s.snapshot.Write(articles); err != nil {
			log.Printf("[Store] snapshot write failed: %v", err)
			return
		}
		result.File = true
	}()

	wg.Wait()
	return result
}

// upsert 事务内单条语句批量插入,link冲突时更新标题和摘要,created_at保持首次插入值
func (s *StoreService) upsert(ctx context.Context, articles []model.Article) error {
	if len(articles) == 0 {
		return nil
	}

	batch := make([]model.Article, len(articles))
	copy(batch, articles)

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "link"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "summary", "updated_at"}),
		}).Create(&batch).Error
	})
}
