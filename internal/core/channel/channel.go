// Package channel 提供传输通道实现（串口与回环）
//
// 通道负责物理链路上的帧收发：
//   - 串口通道: tarm/serial 端口 + 定界符/转义/CRC16 帧格式
//   - 回环通道: 端口名 "loop://"，发送内容原样回到接收侧
//
// 帧外的任意字节作为诊断文本向上交付，标准消息帧（类型码 0）
// 在通道层直接解码，应用帧原样向上交付。
package channel

import (
	"fmt"
	"strings"

	"github.com/devlink/go-devlink/config"
	channelif "github.com/devlink/go-devlink/pkg/interfaces/channel"

	"github.com/devlink/go-devlink/internal/util/logger"
)

// 包级别日志实例
var log = logger.Logger("channel")

// LoopbackPortName 回环通道的端口名
const LoopbackPortName = "loop://"

// Open 按端口名打开传输通道
//
// 端口名为 LoopbackPortName 时返回回环通道，否则按串口打开。
func Open(portName string, cfg config.Config) (channelif.Channel, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if portName == "" {
		return nil, fmt.Errorf("%w: empty port name", ErrUnknownPort)
	}

	if strings.HasPrefix(portName, LoopbackPortName) {
		return NewLoopback(cfg), nil
	}
	return newSerial(portName, cfg)
}
