// Package resource bounds what quantization work may consume: concurrent
// clustering runs, memory held by run buffers, and blob IO throughput.
//
// A nil *Controller is valid and imposes no limits.
package resource
