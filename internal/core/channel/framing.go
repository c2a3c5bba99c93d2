// Package channel 提供传输通道实现（串口与回环）
package channel

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/sigurn/crc16"

	"github.com/devlink/go-devlink/pkg/types"
)

// 线路格式常量
//
// 帧格式: [定界符][转义后的 类型码+载荷+CRC16][定界符]
// 定界符与转义字节在帧内容中以 [转义字节][原字节^0x20] 表示。
// 帧外的任意字节按诊断文本处理。
const (
	// FrameDelimiter 帧定界符
	FrameDelimiter byte = 0x8E

	// EscapeByte 转义前缀
	EscapeByte byte = 0x9E

	// escapeXOR 转义异或掩码
	escapeXOR byte = 0x20

	// frameOverhead 帧内容最小长度: 1 字节类型码 + 2 字节 CRC
	frameOverhead = 3

	// logFlushThreshold 诊断字节缓冲冲刷阈值
	logFlushThreshold = 256
)

// crcTable CRC-16/MODBUS 查找表
var crcTable = crc16.MakeTable(crc16.CRC16_MODBUS)

// ============================================================================
//                              帧编码
// ============================================================================

// encodeFrame 将 (类型码, 载荷) 编码为线路帧
func encodeFrame(typeCode types.FrameTypeCode, payload []byte, maxPayload int) ([]byte, error) {
	if len(payload) > maxPayload {
		return nil, fmt.Errorf("%w: %d > %d", ErrPayloadTooLarge, len(payload), maxPayload)
	}

	content := make([]byte, 0, len(payload)+frameOverhead)
	content = append(content, byte(typeCode))
	content = append(content, payload...)
	content = binary.BigEndian.AppendUint16(content, crc16.Checksum(content, crcTable))

	out := make([]byte, 0, len(content)+2)
	out = append(out, FrameDelimiter)
	for _, b := range content {
		if b == FrameDelimiter || b == EscapeByte {
			out = append(out, EscapeByte, b^escapeXOR)
		} else {
			out = append(out, b)
		}
	}
	out = append(out, FrameDelimiter)
	return out, nil
}

// ============================================================================
//                              帧解码状态机
// ============================================================================

// framer 字节流解帧状态机
//
// 非线程安全，由单个读协程独占使用。
type framer struct {
	maxPayload   int
	frameTimeout time.Duration

	inFrame    bool
	escaped    bool
	frameBuf   []byte
	frameStart time.Time

	logBuf []byte
}

// newFramer 创建解帧状态机
func newFramer(maxPayload int, frameTimeout time.Duration) *framer {
	return &framer{
		maxPayload:   maxPayload,
		frameTimeout: frameTimeout,
	}
}

// Feed 处理一批原始字节，按到达顺序返回产生的接收结果
func (f *framer) Feed(data []byte, now time.Time) []types.Received {
	var out []types.Received
	out = f.checkFrameTimeout(out, now)

	for _, b := range data {
		if !f.inFrame {
			if b == FrameDelimiter {
				out = f.flushLog(out)
				f.beginFrame(now)
				continue
			}
			f.logBuf = append(f.logBuf, b)
			if len(f.logBuf) >= logFlushThreshold {
				out = f.flushLog(out)
			}
			continue
		}

		if f.escaped {
			f.escaped = false
			f.frameBuf = append(f.frameBuf, b^escapeXOR)
			out = f.checkFrameSize(out)
			continue
		}

		switch b {
		case EscapeByte:
			f.escaped = true
		case FrameDelimiter:
			out = f.endFrame(out)
		default:
			f.frameBuf = append(f.frameBuf, b)
			out = f.checkFrameSize(out)
		}
	}
	return out
}

// Tick 空闲时推进状态机：检查帧超时并冲刷诊断字节
func (f *framer) Tick(now time.Time) []types.Received {
	var out []types.Received
	out = f.checkFrameTimeout(out, now)
	return f.flushLog(out)
}

// beginFrame 进入帧接收状态
func (f *framer) beginFrame(now time.Time) {
	f.inFrame = true
	f.escaped = false
	f.frameBuf = f.frameBuf[:0]
	f.frameStart = now
}

// endFrame 处理帧结束定界符
func (f *framer) endFrame(out []types.Received) []types.Received {
	defer func() {
		f.inFrame = false
		f.escaped = false
		f.frameBuf = f.frameBuf[:0]
	}()

	if len(f.frameBuf) == 0 {
		// 相邻定界符之间无内容，视为空闲线路噪声
		return out
	}
	if len(f.frameBuf) < frameOverhead {
		log.Warn("丢弃过短的帧", "len", len(f.frameBuf))
		return out
	}

	content := f.frameBuf[:len(f.frameBuf)-2]
	wantCRC := binary.BigEndian.Uint16(f.frameBuf[len(f.frameBuf)-2:])
	if gotCRC := crc16.Checksum(content, crcTable); gotCRC != wantCRC {
		log.Warn("丢弃 CRC 校验失败的帧", "want", wantCRC, "got", gotCRC, "len", len(content))
		return out
	}

	typeCode := types.FrameTypeCode(content[0])
	payload := make([]byte, len(content)-1)
	copy(payload, content[1:])

	if typeCode == types.StandardFrameCode {
		msg, err := decodeStandard(payload)
		if err != nil {
			log.Warn("丢弃无法解码的标准消息帧", "err", err)
			return out
		}
		return append(out, msg)
	}
	return append(out, &types.ReceivedFrame{TypeCode: typeCode, Payload: payload})
}

// checkFrameSize 帧内容超限时丢弃当前帧
func (f *framer) checkFrameSize(out []types.Received) []types.Received {
	if len(f.frameBuf) > f.maxPayload+frameOverhead {
		log.Warn("丢弃超长帧", "len", len(f.frameBuf), "max", f.maxPayload+frameOverhead)
		f.inFrame = false
		f.escaped = false
		f.frameBuf = f.frameBuf[:0]
	}
	return out
}

// checkFrameTimeout 帧超时后把缓冲字节降级为诊断文本
func (f *framer) checkFrameTimeout(out []types.Received, now time.Time) []types.Received {
	if !f.inFrame || now.Sub(f.frameStart) < f.frameTimeout {
		return out
	}
	log.Debug("帧接收超时，缓冲字节按诊断文本处理", "len", len(f.frameBuf))
	f.logBuf = append(f.logBuf, f.frameBuf...)
	f.inFrame = false
	f.escaped = false
	f.frameBuf = f.frameBuf[:0]
	return out
}

// flushLog 冲刷帧外诊断字节
func (f *framer) flushLog(out []types.Received) []types.Received {
	if len(f.logBuf) == 0 {
		return out
	}
	chunk := make(types.LogBytes, len(f.logBuf))
	copy(chunk, f.logBuf)
	f.logBuf = f.logBuf[:0]
	return append(out, chunk)
}
