package api

import (
	"fmt"
	"runtime"
	"time"
)

// Performance is the body of GET /performance
type Performance struct {
	Time    string `json:"time"`
	Memory  string `json:"memory"`
	Threads int    `json:"threads"`
}

// FormatUptime renders d on the epoch date, e.g. "1970-01-01 01:02:03.004".
// Hours are not wrapped at 24.
func FormatUptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	hours := int64(d / time.Hour)
	minutes := int64(d % time.Hour / time.Minute)
	seconds := int64(d % time.Minute / time.Second)
	millis := int64(d % time.Second / time.Millisecond)
	return fmt.Sprintf("1970-01-01 %02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}

// FormatMemory renders a byte count in mebibytes, e.g. "25.11 MB"
func FormatMemory(bytes uint64) string {
	return fmt.Sprintf("%.2f MB", float64(bytes)/(1024*1024))
}

func collectPerformance(started time.Time) Performance {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	return Performance{
		Time:    FormatUptime(time.Since(started)),
		Memory:  FormatMemory(mem.Sys),
		Threads: runtime.NumGoroutine(),
	}
}
