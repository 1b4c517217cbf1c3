package service

import (
	"time"

	"news-scraper/internal/storage"
	"gorm.io/gorm"
)

type StatusService struct {
	db       *gorm.DB
	snapshot *storage.Snapshot
}

type StorageStatus struct {
	Directory string `json:"directory"`
	Exists    bool   `json:"exists"`
	Writable  bool   `json:"writable"`
}

type HealthStatus struct {
	Status      string        `json:"status"`
	Timestamp   time.Time     `json:"timestamp"`
	DBConnected bool          `json:"db_connected"`
	Storage     StorageStatus `json:"storage"`
}

func NewStatusService(db *gorm.DB, snapshot *storage.Snapshot) *StatusService {
	return &StatusService{db: db, snapshot: snapshot}
}

// GetHealth 获取系统健康状态
func (s *StatusService) GetHealth() *HealthStatus {
	health := &HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
	}

	// 数据库连通性
	if sqlDB, err := s.db.DB(); err == nil && sqlDB.Ping() == nil {
		health.DBConnected = true
	}

	// 快照目录
	exists, writable := s.snapshot.Stat()
	health.Storage = StorageStatus{
		Directory: s.snapshot.Dir(),
		Exists:    exists,
		Writable:  writable,
	}

	if !health.DBConnected {
		health.Status = "degraded"
	}

	return health
}
