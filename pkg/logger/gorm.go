package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// GormLogger 把 gorm 的日志转到 zap
type GormLogger struct {
	log           *zap.SugaredLogger
	logLevel      gormlogger.LogLevel
	slowThreshold time.Duration
}

// NewGormLogger level 取值 silent / error / warn / info
func NewGormLogger(log *zap.SugaredLogger, level string) *GormLogger {
	var lvl gormlogger.LogLevel
	switch level {
	case "silent":
		lvl = gormlogger.Silent
	case "error":
		lvl = gormlogger.Error
	case "info":
		lvl = gormlogger.Info
	default:
		lvl = gormlogger.Warn
	}
	return &GormLogger{log: log.Named("gorm"), logLevel: lvl, slowThreshold: 200 * time.Millisecond}
}

func (g *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	return &GormLogger{log: g.log, logLevel: level, slowThreshold: g.slowThreshold}
}

func (g *GormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	if g.logLevel >= gormlogger.Info {
		g.log.Infof(msg, data...)
	}
}

func (g *GormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	if g.logLevel >= gormlogger.Warn {
		g.log.Warnf(msg, data...)
	}
}

func (g *GormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	if g.logLevel >= gormlogger.Error {
		g.log.Errorf(msg, data...)
	}
}

// Trace 记录 SQL、影响行数和耗时。记录不存在和唯一键冲突属于业务分支，不按错误记录。
func (g *GormLogger) Trace(_ context.Context, begin time.Time, fc func() (string, int64), err error) {
	if g.logLevel <= gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)
	sql, rows := fc()
	fields := []interface{}{"sql", sql, "rows", rows, "elapsed", elapsed}

	switch {
	case err != nil && g.logLevel >= gormlogger.Error &&
		!errors.Is(err, gormlogger.ErrRecordNotFound) && !errors.Is(err, gorm.ErrDuplicatedKey) &&
		!errors.Is(err, context.Canceled):
		g.log.Errorw("SQL 执行失败", append(fields, "error", err)...)
	case elapsed > g.slowThreshold && g.logLevel >= gormlogger.Warn:
		g.log.Warnw("慢查询", fields...)
	case g.logLevel >= gormlogger.Info:
		g.log.Debugw("SQL", fields...)
	}
}
