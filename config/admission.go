package config

import "time"

// DefaultOverflowMessage 满员提示
const DefaultOverflowMessage = "Session full — please try again later"

// AdmissionConfig 准入控制配置
type AdmissionConfig struct {
	// GraceDelay 提示与强制断开之间的宽限期
	GraceDelay Duration `json:"grace_delay"`

	// Countdown 客户端显示的倒计时
	Countdown Duration `json:"countdown"`

	// Message 满员提示文本
	Message string `json:"message"`
}

// DefaultAdmissionConfig 返回默认准入配置
func DefaultAdmissionConfig() AdmissionConfig {
	return AdmissionConfig{
		GraceDelay: Duration(800 * time.Millisecond),
		Countdown:  Duration(5 * time.Second),
		Message:    DefaultOverflowMessage,
	}
}

// Validate 验证准入配置
func (c AdmissionConfig) Validate() error {
	if c.GraceDelay < 0 {
		return invalid("admission.grace_delay", "must not be negative")
	}
	if c.Countdown < 0 {
		return invalid("admission.countdown", "must not be negative")
	}
	return nil
}
