// Package biquad implements the second-order IIR section used throughout the
// effect chain, in Direct Form I.
package biquad
