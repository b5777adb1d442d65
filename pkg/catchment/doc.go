// Package catchment assembles a decoded runfile into a validated catchment network.
//
// The network is a directed graph whose vertices are subareas and whose edges run from a
// subarea to the subarea it drains into. Build checks that the downstream links form a
// forest rooted at the network outlets and that surfaces, flowpaths and local structures
// only name known subareas. Upstream neighbours are derived from the graph on request and
// never stored on the nodes.
package catchment
