package model

import (
	"time"
)

// ShortLink 短链接模型
type ShortLink struct {
	ID          uint       `gorm:"primarykey" json:"id"`
	ShortCode   string     `gorm:"size:32;uniqueIndex;not null" json:"short_code"`
	OriginalURL string     `gorm:"type:text;not null" json:"original_url"`
	ClickCount  int64      `gorm:"not null;default:0" json:"click_count"`
	ExpiresAt   *time.Time `gorm:"index" json:"expires_at,omitempty"`
	IsActive    bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName 指定表名
func (ShortLink) TableName() string {
	return "short_links"
}

// IsExpired 过期时间存在且已过
func (l *ShortLink) IsExpired(now time.Time) bool {
	return l.ExpiresAt != nil && now.After(*l.ExpiresAt)
}

// Available 只有启用且未过期的链接才会跳转
func (l *ShortLink) Available(now time.Time) bool {
	return l.IsActive && !l.IsExpired(now)
}

// Summary 管理后台的汇总数据
type Summary struct {
	TotalLinks  int64 `json:"total_links"`
	TotalClicks int64 `json:"total_clicks"`
	ActiveLinks int64 `json:"active_links"`
}
