//go:build linux

package realtime

import "golang.org/x/sys/unix"

// workerNice is the nice value requested for the worker thread. Values below
// zero need CAP_SYS_NICE or a matching RLIMIT_NICE.
const workerNice = -11

func elevatePriority() error {
	return unix.Setpriority(unix.PRIO_PROCESS, unix.Gettid(), workerNice)
}
