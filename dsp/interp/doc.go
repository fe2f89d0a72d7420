// Package interp provides the linear interpolation primitives used to
// restore window-rate score streams.
//
//   - [Linspace]:     evenly spaced points between two values, endpoints exact
//   - [LinspaceInto]: allocation-free variant of Linspace
package interp
