// Package realtime turns block-based host callbacks into continuous buffered
// I/O serviced by one dedicated worker goroutine.
//
// The host side (ProcessAudio) writes its block into an input ring, wakes the
// worker and reads whatever output is ready, all in bounded time; it never
// waits for the worker. The worker drains the input ring block by block,
// runs the attached BlockProcessor and pushes results into the output ring.
// The two rings are the only state the sides share.
//
// Initialize, Shutdown, SetBufferSize and SetOptimizationLevel stop the world
// and must not run concurrently with each other or with ProcessAudio.
package realtime
