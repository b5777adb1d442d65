// Package results reads WBNM meta files.
//
// A meta file is a long log in which peak summary blocks and hydrograph blocks are
// interleaved with free text. Parse scans it once, line by line, running two independent
// state machines over the same pass: one turns peak summary rows into Peak records and one
// accumulates hydrograph rows into per-channel series. Only the hydrograph being read is
// held in a builder; the input is never materialised as a list of lines.
package results
