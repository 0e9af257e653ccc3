package config

// LogConfig 日志配置
type LogConfig struct {
	// Level 级别字符串，格式同 LANLINK_LOG_LEVEL
	// 示例: "core.orchestrator=debug,info"
	Level string `json:"level,omitempty"`

	// Format text 或 json
	Format string `json:"format,omitempty"`
}

// DefaultLogConfig 返回默认日志配置（空值表示沿用环境变量）
func DefaultLogConfig() LogConfig {
	return LogConfig{}
}

// Validate 验证日志配置
func (c LogConfig) Validate() error {
	switch c.Format {
	case "", "text", "json":
		return nil
	default:
		return invalid("log.format", "unknown format %q", c.Format)
	}
}
