package model

import "time"

// DefaultSummary 摘要缺失时的占位文本
const DefaultSummary = "no summary available"

type Article struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Title     string    `gorm:"size:500;not null" json:"title"`
	Summary   string    `gorm:"type:text" json:"summary"`
	Link      string    `gorm:"size:500;uniqueIndex;not null" json:"link"`
	Source    string    `gorm:"size:100" json:"source"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
