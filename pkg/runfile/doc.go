// Package runfile reads WBNM runfiles.
//
// A runfile is a line-oriented text file split into sections by fixed-width banner lines
// such as
//
//	#####START_TOPOLOGY_BLOCK##########|###########|###########|###########|
//	...
//	#####END_TOPOLOGY_BLOCK############|###########|###########|###########|
//
// ScanBlock extracts the lines of one section and each Section knows how to decode its
// own block into typed records. Parse runs every decoder once over an in-memory line
// sequence and stops on the first malformed section.
//
// Records are returned as decoded. Cross-references between sections (a surface naming an
// unknown catchment, a cycle in the downstream links) are checked by package catchment.
package runfile
