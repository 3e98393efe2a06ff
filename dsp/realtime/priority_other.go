//go:build !linux

package realtime

func elevatePriority() error { return nil }
