//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

package runner

import (
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessCPUTime returns the user plus system CPU time consumed by this
// process, in milliseconds.
func ProcessCPUTime() float64 {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0
	}
	times, err := proc.Times()
	if err != nil {
		return 0
	}
	return (times.User + times.System) * 1000
}
