package log

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/kochabx/apiclient/log/writer"
)

// FileConfig 日志文件配置
type FileConfig struct {
	Filepath   string            `json:"filepath" mapstructure:"filepath"`
	Filename   string            `json:"filename" mapstructure:"filename"`
	FileExt    string            `json:"file_ext" mapstructure:"file_ext"`
	RotateMode writer.RotateMode `json:"rotate_mode" mapstructure:"rotate_mode"`
	// 按时间轮转（小时）
	MaxAgeHours  int `json:"max_age_hours" mapstructure:"max_age_hours"`
	RotationTime int `json:"rotation_time" mapstructure:"rotation_time"`
	// 按大小轮转
	MaxSize    int  `json:"max_size" mapstructure:"max_size"`
	MaxBackups int  `json:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int  `json:"max_age_days" mapstructure:"max_age_days"`
	Compress   bool `json:"compress" mapstructure:"compress"`
}

// withDefaults 填充未设置的字段
func (c FileConfig) withDefaults() FileConfig {
	if c.Filepath == "" {
		c.Filepath = "log"
	}
	if c.Filename == "" {
		c.Filename = "apiclient"
	}
	if c.FileExt == "" {
		c.FileExt = "log"
	}
	if c.MaxAgeHours <= 0 {
		c.MaxAgeHours = 24
	}
	if c.RotationTime <= 0 {
		c.RotationTime = 1
	}
	if c.MaxSize <= 0 {
		c.MaxSize = 100
	}
	if c.MaxBackups <= 0 {
		c.MaxBackups = 5
	}
	if c.MaxAgeDays <= 0 {
		c.MaxAgeDays = 30
	}
	return c
}

// toWriterConfig 转换为 writer.RotateConfig
func (c FileConfig) toWriterConfig() writer.RotateConfig {
	return writer.RotateConfig{
		Filepath: c.Filepath,
		Filename: c.Filename,
		FileExt:  c.FileExt,
		Mode:     c.RotateMode,
		TimeRotateConfig: writer.TimeRotateConfig{
			MaxAge:       c.MaxAgeHours,
			RotationTime: c.RotationTime,
		},
		SizeRotateConfig: writer.SizeRotateConfig{
			MaxSize:    c.MaxSize,
			MaxBackups: c.MaxBackups,
			MaxAge:     c.MaxAgeDays,
			Compress:   c.Compress,
		},
	}
}

// ParseLevel 解析日志级别，空字符串视为 info
func ParseLevel(s string) (zerolog.Level, error) {
	if strings.TrimSpace(s) == "" {
		return zerolog.InfoLevel, nil
	}
	return zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
}
