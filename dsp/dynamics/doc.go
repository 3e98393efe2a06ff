// Package dynamics implements the compressor engine: a peak envelope
// follower with separate attack and release time constants, a dB-domain gain
// computer with optional soft knee, makeup gain and an optional look-ahead
// delay on the program path.
//
// Build with the fastmath tag to replace the exp/log calls on the per-sample
// path with approximations.
package dynamics
