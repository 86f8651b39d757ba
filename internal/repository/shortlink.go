package repository

import (
	"context"
	"errors"
	"fmt"
	"shortlink-service/internal/model"

	"gorm.io/gorm"
)

var (
	// ErrNotFound 短码不存在
	ErrNotFound = errors.New("short link not found")
	// ErrDuplicateCode 短码已被占用
	ErrDuplicateCode = errors.New("short code already exists")
)

// ShortLinkRepository short_links 表的读写
type ShortLinkRepository struct {
	db *gorm.DB
}

// NewShortLinkRepository db 需要开启 TranslateError，否则无法识别唯一键冲突
func NewShortLinkRepository(db *gorm.DB) *ShortLinkRepository {
	return &ShortLinkRepository{db: db}
}

// Create 插入一条记录，短码冲突时返回 ErrDuplicateCode
func (r *ShortLinkRepository) Create(ctx context.Context, link *model.ShortLink) error {
	err := r.db.WithContext(ctx).Create(link).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicateCode
	}
	if err != nil {
		return fmt.Errorf("创建短链接失败: %w", err)
	}
	return nil
}

// FindByCode 按短码查询，不关心启用状态和过期时间
func (r *ShortLinkRepository) FindByCode(ctx context.Context, code string) (*model.ShortLink, error) {
	var link model.ShortLink
	err := r.db.WithContext(ctx).Where("short_code = ?", code).First(&link).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("查询短链接失败: %w", err)
	}
	return &link, nil
}

// IncrementClicks 点击数加一，由数据库保证单条语句的原子性
func (r *ShortLinkRepository) IncrementClicks(ctx context.Context, code string) error {
	result := r.db.WithContext(ctx).Model(&model.ShortLink{}).
		Where("short_code = ?", code).
		UpdateColumn("click_count", gorm.Expr("click_count + ?", 1))
	if result.Error != nil {
		return fmt.Errorf("更新点击数失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// List 返回全部记录，新创建的在前
func (r *ShortLinkRepository) List(ctx context.Context) ([]model.ShortLink, error) {
	var links []model.ShortLink
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&links).Error; err != nil {
		return nil, fmt.Errorf("获取链接失败: %w", err)
	}
	return links, nil
}

// ToggleActive 翻转启用状态并返回翻转后的记录
func (r *ShortLinkRepository) ToggleActive(ctx context.Context, code string) (*model.ShortLink, error) {
	var link model.ShortLink
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&model.ShortLink{}).
			Where("short_code = ?", code).
			Update("is_active", gorm.Expr("NOT is_active"))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return tx.Where("short_code = ?", code).First(&link).Error
	})
	if errors.Is(err, ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("切换链接状态失败: %w", err)
	}
	return &link, nil
}

// Summary 统计链接总数、总点击数和启用数
func (r *ShortLinkRepository) Summary(ctx context.Context) (model.Summary, error) {
	var s model.Summary
	db := r.db.WithContext(ctx).Model(&model.ShortLink{})
	if err := db.Count(&s.TotalLinks).Error; err != nil {
		return s, fmt.Errorf("统计链接数失败: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&model.ShortLink{}).
		Select("COALESCE(SUM(click_count), 0)").Scan(&s.TotalClicks).Error; err != nil {
		return s, fmt.Errorf("统计点击数失败: %w", err)
	}
	if err := r.db.WithContext(ctx).Model(&model.ShortLink{}).
		Where("is_active = ?", true).Count(&s.ActiveLinks).Error; err != nil {
		return s, fmt.Errorf("统计启用数失败: %w", err)
	}
	return s, nil
}
