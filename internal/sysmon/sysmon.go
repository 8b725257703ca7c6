// Package sysmon samples host-wide CPU and memory usage so that a run's
// metrics can be read against the load of the machine it ran on.
package sysmon

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// HostStats holds a single snapshot of host resource usage.
type HostStats struct {
	CPUPercent   float64 // 0.0 .. 100.0, averaged over all cores
	MemPercent   float64 // 0.0 .. 100.0
	MemUsedBytes uint64
	LogicalCPUs  int
}

// Sample collects a host snapshot. CPU usage is the delta since the previous
// call (interval 0), so the first call of a process may report 0. Fields
// whose probe fails are left at zero.
func Sample() HostStats {
	var s HostStats
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		s.CPUPercent = pcts[0]
	}
	if n, err := cpu.Counts(true); err == nil {
		s.LogicalCPUs = n
	}
	if vmem, err := mem.VirtualMemory(); err == nil && vmem != nil {
		s.MemPercent = vmem.UsedPercent
		s.MemUsedBytes = vmem.Used
	}
	return s
}
