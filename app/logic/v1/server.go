package v1

import (
	"context"
	"fmt"
	"math"
	"net"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"

	"github.com/exb-museum/exb-admin/app/core"
	"github.com/exb-museum/exb-admin/pkg/utils"
)

// cpu 使用率采样间隔
const cpuSampleInterval = time.Second

type ServerCPU struct {
	CPUNum int     `json:"cpuNum"`
	Total  float64 `json:"total"`
	Sys    float64 `json:"sys"`
	Used   float64 `json:"used"`
	Wait   float64 `json:"wait"`
	Free   float64 `json:"free"`
}

type ServerMem struct {
	Total float64 `json:"total"`
	Used  float64 `json:"used"`
	Free  float64 `json:"free"`
	Usage float64 `json:"usage"`
}

type ServerSys struct {
	ComputerName string `json:"computerName"`
	ComputerIP   string `json:"computerIp"`
	UserDir      string `json:"userDir"`
	OSName       string `json:"osName"`
	OSArch       string `json:"osArch"`
}

type ServerFile struct {
	DirName     string  `json:"dirName"`
	SysTypeName string  `json:"sysTypeName"`
	TypeName    string  `json:"typeName"`
	Total       string  `json:"total"`
	Free        string  `json:"free"`
	Used        string  `json:"used"`
	Usage       float64 `json:"usage"`
}

// ServerRuntime 对应 java 版本中的 jvm 信息
type ServerRuntime struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	Home      string   `json:"home"`
	StartTime string   `json:"startTime"`
	RunTime   string   `json:"runTime"`
	Total     float64  `json:"total"`
	Max       float64  `json:"max"`
	Free      float64  `json:"free"`
	Used      float64  `json:"used"`
	Usage     float64  `json:"usage"`
	Goroutine int      `json:"goroutine"`
	InputArgs []string `json:"inputArgs"`
}

type ServerInfo struct {
	CPU      ServerCPU     `json:"cpu"`
	Mem      ServerMem     `json:"mem"`
	Sys      ServerSys     `json:"sys"`
	SysFiles []ServerFile  `json:"sysFiles"`
	Runtime  ServerRuntime `json:"jvm"`
}

type ServerLogic struct {
	ctx  context.Context
	core *core.Core
}

func NewServerLogic(ctx context.Context, core *core.Core) *ServerLogic {
	return &ServerLogic{
		ctx:  ctx,
		core: core,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func percent(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return round2(part / total * 100)
}

func toGB(v uint64) float64 {
	return round2(float64(v) / (1 << 30))
}

func toMB(v uint64) float64 {
	return round2(float64(v) / (1 << 20))
}

// ConvertFileSize 1024 进制, 保留一位小数
func ConvertFileSize(size uint64) string {
	const (
		kb = 1 << 10
		mb = 1 << 20
		gb = 1 << 30
	)
	switch {
	case size >= gb:
		return fmt.Sprintf("%.1f GB", float64(size)/gb)
	case size >= mb:
		return fmt.Sprintf("%.1f MB", float64(size)/mb)
	case size >= kb:
		return fmt.Sprintf("%.1f KB", float64(size)/kb)
	default:
		return fmt.Sprintf("%d B", size)
	}
}

func (l *ServerLogic) Info() (*ServerInfo, error) {
	res := &ServerInfo{}
	if err := l.fillCPU(&res.CPU); err != nil {
		return nil, internal("ServerLogic.Info.fillCPU", err)
	}

	vm, err := mem.VirtualMemoryWithContext(l.ctx)
	if err != nil {
		return nil, internal("ServerLogic.Info.VirtualMemory", err)
	}
	res.Mem = ServerMem{
		Total: toGB(vm.Total),
		Used:  toGB(vm.Used),
		Free:  toGB(vm.Available),
		Usage: round2(vm.UsedPercent),
	}

	res.Sys = ServerSys{
		ComputerIP: localIP(),
		OSArch:     runtime.GOARCH,
	}
	res.Sys.UserDir, _ = os.Getwd()
	if h, err := host.InfoWithContext(l.ctx); err == nil {
		res.Sys.ComputerName = h.Hostname
		res.Sys.OSName = strings.TrimSpace(h.Platform + " " + h.PlatformVersion)
		if res.Sys.OSName == "" {
			res.Sys.OSName = h.OS
		}
	}

	parts, err := disk.PartitionsWithContext(l.ctx, false)
	if err != nil {
		return nil, internal("ServerLogic.Info.Partitions", err)
	}
	for _, p := range parts {
		usage, err := disk.UsageWithContext(l.ctx, p.Mountpoint)
		if err != nil || usage.Total == 0 {
			continue
		}
		res.SysFiles = append(res.SysFiles, ServerFile{
			DirName:     p.Mountpoint,
			SysTypeName: p.Fstype,
			TypeName:    p.Device,
			Total:       ConvertFileSize(usage.Total),
			Free:        ConvertFileSize(usage.Free),
			Used:        ConvertFileSize(usage.Used),
			Usage:       round2(usage.UsedPercent),
		})
	}

	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	start := l.core.StartTime()
	res.Runtime = ServerRuntime{
		Name:      "Go",
		Version:   runtime.Version(),
		Home:      runtime.GOROOT(),
		StartTime: start.Format("2006-01-02 15:04:05"),
		RunTime:   utils.FormatDuration(time.Since(start)),
		Total:     toMB(ms.Sys),
		Max:       toMB(ms.Sys),
		Free:      toMB(ms.HeapIdle - ms.HeapReleased),
		Used:      toMB(ms.HeapAlloc),
		Usage:     percent(float64(ms.HeapAlloc), float64(ms.Sys)),
		Goroutine: runtime.NumGoroutine(),
		InputArgs: os.Args[1:],
	}
	return res, nil
}

// fillCPU 两次采样之间各状态耗时的占比
func (l *ServerLogic) fillCPU(c *ServerCPU) error {
	before, err := cpu.TimesWithContext(l.ctx, false)
	if err != nil {
		return err
	}
	select {
	case <-l.ctx.Done():
		return l.ctx.Err()
	case <-time.After(cpuSampleInterval):
	}
	after, err := cpu.TimesWithContext(l.ctx, false)
	if err != nil {
		return err
	}
	if len(before) == 0 || len(after) == 0 {
		return fmt.Errorf("no cpu stat")
	}
	b, a := before[0], after[0]
	user := a.User - b.User
	sys := a.System - b.System
	wait := a.Iowait - b.Iowait
	idle := a.Idle - b.Idle
	total := a.Total() - b.Total()

	c.CPUNum, _ = cpu.CountsWithContext(l.ctx, true)
	c.Total = round2(total)
	c.Sys = percent(sys, total)
	c.Used = percent(user, total)
	c.Wait = percent(wait, total)
	c.Free = percent(idle, total)
	return nil
}

func localIP() string {
	addrs, err := net.InterfaceAddrs()
	if err != nil {
		return "127.0.0.1"
	}
	for _, addr := range addrs {
		if ipnet, ok := addr.(*net.IPNet); ok && !ipnet.IP.IsLoopback() && ipnet.IP.To4() != nil {
			return ipnet.IP.String()
		}
	}
	return "127.0.0.1"
}
