// Package codec 提供按协议版本的应用消息编解码实现
package codec

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"

	"github.com/devlink/go-devlink/pkg/types"
)

// 编码限制
const (
	// MaxFieldCount 单条消息最大字段数
	MaxFieldCount = 256

	// MaxFieldNameLength 字段名最大长度
	MaxFieldNameLength = 255

	// MaxFieldValueLength 变长字段值最大长度
	MaxFieldValueLength = 4096
)

// 字段值类型标签
const (
	kindBool byte = iota + 1
	kindInt
	kindFloat
	kindString
	kindBytes
)

// ============================================================================
//                              字段编码
// ============================================================================

// encodeFields 将字段集合编码为字节流
//
// 字段按名称排序写入，保证同一消息的编码结果确定。
func encodeFields(fields types.Fields) ([]byte, error) {
	if len(fields) > MaxFieldCount {
		return nil, fmt.Errorf("%w: %d fields", ErrFieldTooLarge, len(fields))
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.BigEndian, uint16(len(fields))); err != nil {
		return nil, err
	}

	for _, name := range names {
		if err := writeFieldName(&buf, name); err != nil {
			return nil, err
		}
		if err := writeFieldValue(&buf, name, fields[name]); err != nil {
			return nil, err
		}
	}
	return buf.Bytes(), nil
}

// writeFieldName 写入字段名
func writeFieldName(w io.Writer, name string) error {
	if len(name) == 0 || len(name) > MaxFieldNameLength {
		return fmt.Errorf("%w: field name %q", ErrFieldTooLarge, name)
	}
	if _, err := w.Write([]byte{byte(len(name))}); err != nil {
		return err
	}
	_, err := w.Write([]byte(name))
	return err
}

// writeFieldValue 写入带类型标签的字段值
func writeFieldValue(w io.Writer, name string, value any) error {
	switch v := value.(type) {
	case bool:
		b := byte(0)
		if v {
			b = 1
		}
		_, err := w.Write([]byte{kindBool, b})
		return err

	case int64:
		if _, err := w.Write([]byte{kindInt}); err != nil {
			return err
		}
		return binary.Write(w, binary.BigEndian, v)

	case float64:
		if _, err := w.Write([]byte{kindFloat}); err != nil {
			return err
		}
		return binary.Write(w, binary.BigEndian, math.Float64bits(v))

	case string:
		if _, err := w.Write([]byte{kindString}); err != nil {
			return err
		}
		return writeVarBytes(w, []byte(v))

	case []byte:
		if _, err := w.Write([]byte{kindBytes}); err != nil {
			return err
		}
		return writeVarBytes(w, v)

	default:
		return fmt.Errorf("%w: field %q has type %T", ErrUnsupportedFieldType, name, value)
	}
}

// writeVarBytes 写入长度前缀的字节串
func writeVarBytes(w io.Writer, data []byte) error {
	if len(data) > MaxFieldValueLength {
		return fmt.Errorf("%w: %d bytes", ErrFieldTooLarge, len(data))
	}
	if err := binary.Write(w, binary.BigEndian, uint16(len(data))); err != nil {
		return err
	}
	if len(data) > 0 {
		if _, err := w.Write(data); err != nil {
			return err
		}
	}
	return nil
}

// ============================================================================
//                              字段解码
// ============================================================================

// decodeFields 从字节流解码字段集合
func decodeFields(data []byte) (types.Fields, error) {
	r := bytes.NewReader(data)

	var count uint16
	if err := binary.Read(r, binary.BigEndian, &count); err != nil {
		return nil, fmt.Errorf("%w: missing field count", ErrMalformedPayload)
	}
	if int(count) > MaxFieldCount {
		return nil, fmt.Errorf("%w: %d fields", ErrMalformedPayload, count)
	}

	fields := make(types.Fields, count)
	for i := 0; i < int(count); i++ {
		name, err := readFieldName(r)
		if err != nil {
			return nil, err
		}
		if _, dup := fields[name]; dup {
			return nil, fmt.Errorf("%w: duplicate field %q", ErrMalformedPayload, name)
		}
		value, err := readFieldValue(r)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		fields[name] = value
	}

	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrMalformedPayload, r.Len())
	}
	return fields, nil
}

// readFieldName 读取字段名
func readFieldName(r *bytes.Reader) (string, error) {
	n, err := r.ReadByte()
	if err != nil {
		return "", fmt.Errorf("%w: truncated field name", ErrMalformedPayload)
	}
	if n == 0 {
		return "", fmt.Errorf("%w: empty field name", ErrMalformedPayload)
	}
	name := make([]byte, n)
	if _, err := io.ReadFull(r, name); err != nil {
		return "", fmt.Errorf("%w: truncated field name", ErrMalformedPayload)
	}
	return string(name), nil
}

// readFieldValue 读取带类型标签的字段值
func readFieldValue(r *bytes.Reader) (any, error) {
	kind, err := r.ReadByte()
	if err != nil {
		return nil, fmt.Errorf("%w: missing value tag", ErrMalformedPayload)
	}

	switch kind {
	case kindBool:
		b, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: truncated bool", ErrMalformedPayload)
		}
		return b != 0, nil

	case kindInt:
		var v int64
		if err := binary.Read(r, binary.BigEndian, &v); err != nil {
			return nil, fmt.Errorf("%w: truncated int", ErrMalformedPayload)
		}
		return v, nil

	case kindFloat:
		var bits uint64
		if err := binary.Read(r, binary.BigEndian, &bits); err != nil {
			return nil, fmt.Errorf("%w: truncated float", ErrMalformedPayload)
		}
		return math.Float64frombits(bits), nil

	case kindString:
		data, err := readVarBytes(r)
		if err != nil {
			return nil, err
		}
		return string(data), nil

	case kindBytes:
		return readVarBytes(r)

	default:
		return nil, fmt.Errorf("%w: unknown value tag %d", ErrMalformedPayload, kind)
	}
}

// readVarBytes 读取长度前缀的字节串
func readVarBytes(r *bytes.Reader) ([]byte, error) {
	var length uint16
	if err := binary.Read(r, binary.BigEndian, &length); err != nil {
		return nil, fmt.Errorf("%w: truncated length", ErrMalformedPayload)
	}
	if int(length) > MaxFieldValueLength {
		return nil, fmt.Errorf("%w: value length %d", ErrMalformedPayload, length)
	}
	data := make([]byte, length)
	if _, err := io.ReadFull(r, data); err != nil {
		return nil, fmt.Errorf("%w: truncated value", ErrMalformedPayload)
	}
	return data, nil
}
