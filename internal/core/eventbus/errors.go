package eventbus

import "errors"

var (
	// ErrClosed 事件总线或发射器已关闭
	ErrClosed = errors.New("eventbus: closed")

	// ErrInvalidEventType 无效的事件类型
	ErrInvalidEventType = errors.New("eventbus: invalid event type")

	// ErrNonPointerType 订阅或发射器必须使用指针类型登记
	ErrNonPointerType = errors.New("eventbus: event type must be a pointer")

	// ErrWrongEventType 发射的事件与发射器类型不符
	ErrWrongEventType = errors.New("eventbus: emitted event does not match emitter type")
)
