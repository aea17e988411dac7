// Package scenario loads grid scenarios from TOML and replays them against a
// lazygrid.Grid backed by a simulated host tree.
//
// A scenario describes the grid (axis, template, gaps, viewport), where item
// sizes come from (a fixed size, a cycle, a script or wrapped labels) and a
// list of scroll steps. Each step runs one synchronous pass followed by idle
// predictions within the step's budget.
package scenario
