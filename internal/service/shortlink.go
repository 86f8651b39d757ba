package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"shortlink-service/internal/model"
	"shortlink-service/internal/repository"
	"shortlink-service/internal/shortcode"
)

// 业务错误，由 handler 映射为页面提示
var (
	ErrEmptyURL        = errors.New("url is required")
	ErrReservedCode    = errors.New("short code is reserved")
	ErrInvalidCode     = errors.New("short code contains invalid characters")
	ErrInvalidExpiry   = errors.New("expiry time is not valid")
	ErrCodeExists      = errors.New("short code already exists")
	ErrLinkNotFound    = errors.New("short link not found")
	ErrLinkUnavailable = errors.New("short link is inactive or expired")
)

// Store 短链接的持久化
type Store interface {
	Create(ctx context.Context, link *model.ShortLink) error
	FindByCode(ctx context.Context, code string) (*model.ShortLink, error)
	IncrementClicks(ctx context.Context, code string) error
	List(ctx context.Context) ([]model.ShortLink, error)
	ToggleActive(ctx context.Context, code string) (*model.ShortLink, error)
	Summary(ctx context.Context) (model.Summary, error)
}

// CodeGenerator 生成随机短码
type CodeGenerator interface {
	Generate() (string, error)
}

// CreateInput 表单提交的内容
type CreateInput struct {
	URL        string
	CustomCode string
	ExpiresAt  string
}

// LinkService 短链接的创建、跳转、统计和管理
type LinkService struct {
	store     Store
	generator CodeGenerator
	now       func() time.Time
}

// NewLinkService 创建服务实例
func NewLinkService(store Store, generator CodeGenerator) *LinkService {
	return &LinkService{store: store, generator: generator, now: time.Now}
}

// WithClock 替换时钟，用于测试过期逻辑
func (s *LinkService) WithClock(now func() time.Time) *LinkService {
	s.now = now
	return s
}

// Create 创建短链接。未指定短码时随机生成一个；短码冲突直接返回 ErrCodeExists，不重试。
func (s *LinkService) Create(ctx context.Context, in CreateInput) (*model.ShortLink, error) {
	target := strings.TrimSpace(in.URL)
	if target == "" {
		return nil, ErrEmptyURL
	}

	code := strings.TrimSpace(in.CustomCode)
	if code != "" {
		if shortcode.IsReserved(code) {
			return nil, ErrReservedCode
		}
		if !shortcode.ValidCustom(code) {
			return nil, ErrInvalidCode
		}
	}

	expiresAt, err := ParseExpiry(in.ExpiresAt)
	if err != nil {
		return nil, err
	}

	if code == "" {
		if code, err = s.generator.Generate(); err != nil {
			return nil, err
		}
	}

	link := &model.ShortLink{
		ShortCode:   code,
		OriginalURL: target,
		ExpiresAt:   expiresAt,
		IsActive:    true,
	}
	if err := s.store.Create(ctx, link); err != nil {
		if errors.Is(err, repository.ErrDuplicateCode) {
			return nil, ErrCodeExists
		}
		return nil, err
	}
	return link, nil
}

// Resolve 查找可跳转的链接并记一次点击。禁用或过期的链接不计数。
func (s *LinkService) Resolve(ctx context.Context, code string) (*model.ShortLink, error) {
	link, err := s.find(ctx, code)
	if err != nil {
		return nil, err
	}
	if !link.Available(s.now()) {
		return link, ErrLinkUnavailable
	}

	if err := s.store.IncrementClicks(ctx, code); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	link.ClickCount++
	return link, nil
}

// Stats 返回完整记录，不论是否启用或过期
func (s *LinkService) Stats(ctx context.Context, code string) (*model.ShortLink, error) {
	return s.find(ctx, code)
}

// List 返回全部链接
func (s *LinkService) List(ctx context.Context) ([]model.ShortLink, error) {
	return s.store.List(ctx)
}

// Summary 返回汇总数据
func (s *LinkService) Summary(ctx context.Context) (model.Summary, error) {
	return s.store.Summary(ctx)
}

// Toggle 切换启用状态
func (s *LinkService) Toggle(ctx context.Context, code string) (*model.ShortLink, error) {
	link, err := s.store.ToggleActive(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrLinkNotFound
	}
	return link, err
}

// Now 当前时间，页面用它判断是否过期
func (s *LinkService) Now() time.Time {
	return s.now()
}

func (s *LinkService) find(ctx context.Context, code string) (*model.ShortLink, error) {
	link, err := s.store.FindByCode(ctx, code)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrLinkNotFound
	}
	return link, err
}
