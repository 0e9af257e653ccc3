// Package admission 实现主机侧的人数控制
//
// 控制器订阅传输层的对端连接/断开事件。每当有对端连接且人数超过上限：
//   - 主机自己的回环连接：立即在本地显示倒计时，GraceDelay 后断开；
//   - 远端连接：交给驱逐钩子通知并延迟断开；钩子缺失或失败时立即断开。
//
// 同一连接最多驱逐一次；连接已离开时延迟断开为空操作。
// 人数超限在本包内部处理，不会以错误的形式向外传播。
//
// 快速开始：
//
//	ctrl := admission.New(cfg.Admission, cfg.Session.MaxPeers, bus, transport,
//	    admission.WithEvictor(relay),
//	    admission.WithPresenter(presenter),
//	)
//	if err := ctrl.Start(); err != nil {
//	    return err
//	}
//	defer ctrl.Stop()
package admission
