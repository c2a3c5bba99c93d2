// Package devlink 提供面向嵌入式设备的串行链路通信库
//
// go-devlink 位于应用与设备物理串行链路之间，负责：
//
//   - 出站命令序列化为线路帧
//   - 入站帧解码为带类型的消息
//   - 异步请求与最终响应（或超时）的关联
//   - 主动上报的消息流与诊断文本流的分离
//
// # 核心概念
//
//   - Communicator: 双向通信器，用户交互的主入口
//   - 标准消息: 与协议版本无关的控制消息（NodeInfo 等）
//   - 应用消息: 编码格式由当前绑定协议版本决定的消息
//   - 协议版本: 运行时可切换的编解码器绑定
//
// # 快速开始
//
//	import "github.com/devlink/go-devlink"
//
//	// 1. 打开链路（"loop://" 为内置回环端口）
//	com, err := devlink.Open("/dev/ttyACM0")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer com.Close()
//
//	// 2. 查询设备信息（标准消息，随时可用）
//	resp, err := com.Request(ctx, devlink.StandardNodeInfo, time.Second, nil)
//
//	// 3. 绑定协议版本后收发应用消息
//	_ = com.SetProtocolVersion(devlink.ProtocolVersion{Major: 1, Minor: 0})
//	msg := devlink.NewMessage(devlink.MTSetpoint, devlink.Fields{"value": int64(100)})
//	resp, err = com.Request(ctx, msg, time.Second, nil)
//
//	// 4. 消费主动上报与诊断文本
//	m, err := com.Receive(ctx)
//	line, err := com.ReceiveLog(ctx)
//
// # 并发模型
//
// 一个专用 IO 工作协程做阻塞接收，一个调度协程独占请求匹配状态，
// 两者之间只通过线程安全的交接通道通信。公共 API 可被任意协程调用。
package devlink
