// Package systeminfo captures a small host snapshot for the report header.
package systeminfo

import (
	"runtime"

	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"
)

type SystemInfo struct {
	Hostname         string `json:"hostname,omitempty"`
	OS               string `json:"os,omitempty"`
	Platform         string `json:"platform,omitempty"`
	PlatformVersion  string `json:"platform_version,omitempty"`
	KernelVersion    string `json:"kernel_version,omitempty"`
	Architecture     string `json:"architecture"`
	CPUCount         int    `json:"cpu_count"`
	TotalMemoryBytes uint64 `json:"total_memory_bytes,omitempty"`
	GoVersion        string `json:"go_version"`
}

// Collect never fails hard: whatever cannot be read is left zero and the
// error reports the first failure for logging.
func Collect() (*SystemInfo, error) {
	info := &SystemInfo{
		Architecture: runtime.GOARCH,
		CPUCount:     runtime.NumCPU(),
		GoVersion:    runtime.Version(),
	}

	var firstErr error
	if hi, err := host.Info(); err == nil {
		info.Hostname = hi.Hostname
		info.OS = hi.OS
		info.Platform = hi.Platform
		info.PlatformVersion = hi.PlatformVersion
		info.KernelVersion = hi.KernelVersion
	} else {
		firstErr = err
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		info.TotalMemoryBytes = vm.Total
	} else if firstErr == nil {
		firstErr = err
	}
	return info, firstErr
}
