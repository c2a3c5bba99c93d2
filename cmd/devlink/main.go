// Package main 提供 devlink 命令行监视器
//
// 打开到设备的链路，持续打印入站消息与设备诊断文本。
//
// 使用方法:
//
//	# 监视串口设备
//	go run ./cmd/devlink -port /dev/ttyACM0 -baud 115200
//
//	# 无硬件时使用回环链路
//	go run ./cmd/devlink -port loop://
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/devlink/go-devlink"
)

var (
	port     = flag.String("port", "", "串口设备路径，或 loop:// 回环")
	baud     = flag.Int("baud", 115200, "串口波特率")
	version  = flag.String("version", "1.0", "协议版本 (如 1.0、1.1)，空字符串表示只收标准消息")
	showLogs = flag.Bool("logs", true, "打印设备诊断文本")
	probe    = flag.Bool("probe", true, "启动时请求一次节点信息")
)

func main() {
	flag.Parse()
	if *port == "" {
		fmt.Fprintln(os.Stderr, "用法: devlink -port <设备路径|loop://> [-baud N] [-version M.m]")
		os.Exit(2)
	}

	if err := run(); err != nil && err != context.Canceled {
		fmt.Fprintln(os.Stderr, "devlink:", err)
		os.Exit(1)
	}
}

func run() error {
	com, err := devlink.Open(*port, devlink.WithBaudRate(*baud))
	if err != nil {
		return err
	}
	defer com.Close()

	if *version != "" {
		v, err := parseVersion(*version)
		if err != nil {
			return err
		}
		if err := com.SetProtocolVersion(v); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Printf("已连接 %s，Ctrl-C 退出\n", com.PortName())

	if *probe {
		probeNodeInfo(ctx, com)
	}

	// 消息与诊断文本各自独立消费
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return printMessages(ctx, com) })
	if *showLogs {
		g.Go(func() error { return printLogs(ctx, com) })
	}
	return g.Wait()
}

// probeNodeInfo 请求一次节点信息并打印
func probeNodeInfo(ctx context.Context, com *devlink.Communicator) {
	resp, err := com.Request(ctx, devlink.StandardNodeInfo, 2*time.Second, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "节点信息请求失败:", err)
		return
	}
	if resp == nil {
		fmt.Println("设备未应答节点信息请求")
		return
	}
	fmt.Printf("节点信息: %v\n", resp)
}

// printMessages 持续打印未被请求匹配的入站消息
func printMessages(ctx context.Context, com *devlink.Communicator) error {
	for {
		msg, err := com.Receive(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("[msg] %v\n", msg)
	}
}

// printLogs 持续打印设备诊断文本
func printLogs(ctx context.Context, com *devlink.Communicator) error {
	for {
		line, err := com.ReceiveLog(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("[dev] %s\n", strings.TrimRight(line, "\r\n"))
	}
}

// parseVersion 解析 "M.m" 形式的协议版本
func parseVersion(s string) (devlink.ProtocolVersion, error) {
	var major, minor uint8
	if _, err := fmt.Sscanf(s, "%d.%d", &major, &minor); err != nil {
		return devlink.ProtocolVersion{}, fmt.Errorf("无法解析协议版本 %q: %w", s, err)
	}
	return devlink.ProtocolVersion{Major: major, Minor: minor}, nil
}
