package agent

import (
	"os"
	"runtime"
	"strconv"
	"strings"
	"syscall"
)

// ResourceStats is one sample of the host's capacity, reported with
// every heartbeat. Values are best effort: a host where a probe fails
// reports the zero value for that field, which the controller accepts
// as a legitimate reading.
type ResourceStats struct {
	CPUCores int
	CPULoad  float64
	RAMTotal int64
	RAMUsed  int64
	DiskFree int64
}

// SampleStats probes the local host.
func SampleStats() ResourceStats {
	stats := ResourceStats{
		CPUCores: runtime.NumCPU(),
		CPULoad:  loadAverage(),
	}
	stats.RAMTotal, stats.RAMUsed = memoryUsage()
	stats.DiskFree = diskFree("/")
	return stats
}

// loadAverage reads the 1-minute load average from /proc/loadavg.
func loadAverage() float64 {
	data, err := os.ReadFile("/proc/loadavg")
	if err != nil {
		return 0
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0
	}
	load, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	return load
}

// memoryUsage reads total and used memory in MiB from /proc/meminfo.
func memoryUsage() (total, used int64) {
	data, err := os.ReadFile("/proc/meminfo")
	if err != nil {
		return 0, 0
	}

	var totalKB, availableKB int64
	for _, line := range strings.Split(string(data), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		value, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			totalKB = value
		case "MemAvailable:":
			availableKB = value
		}
	}

	total = totalKB / 1024
	used = (totalKB - availableKB) / 1024
	return total, used
}

// diskFree reports free space in MiB on the filesystem holding path.
func diskFree(path string) int64 {
	var fs syscall.Statfs_t
	if err := syscall.Statfs(path, &fs); err != nil {
		return 0
	}
	return int64(fs.Bavail) * fs.Bsize / (1024 * 1024)
}
