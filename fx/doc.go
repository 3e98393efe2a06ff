// Package fx implements the audio effects that make up a genre chain.
//
// Every effect satisfies Effect: it processes interleaved float64 blocks,
// exposes named parameters clamped to fixed ranges and can be bypassed.
// Unknown parameter names are ignored on set and read as 0 so that presets
// written for other versions still load.
//
// A Registry builds effects by name. DefaultRegistry knows the four chain
// effects (Distortion, Reverb, Compressor, 3-Band EQ) plus Amp and Tremolo.
package fx
