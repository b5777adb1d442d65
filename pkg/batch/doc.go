// Package batch parses many meta files concurrently and hands each result to a single sink.
//
// A producer feeds paths to a bounded group of parse workers; their results flow through one
// channel to a sink goroutine, so sinks never need to be safe for concurrent use. The first
// error from any stage cancels the others.
package batch
