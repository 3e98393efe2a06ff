// Package buffer provides the lock-free sample queue shared between a host
// audio callback and the processing worker.
package buffer
