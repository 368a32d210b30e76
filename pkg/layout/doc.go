// Package layout assigns 2-D coordinates to schematic nodes.
//
// # Algorithm
//
// Every component contributes one linear constraint between its terminals:
// the difference of their coordinates along the component's hint direction
// equals twice its size. Stacking these rows, plus one anchor row pinning
// the first node, gives an over- or under-determined system A·x = bx,
// A·y = by over the K nodes. [Solve] computes the Moore-Penrose
// pseudo-inverse of A with an SVD (gonum/mat) and takes the least-squares
// solution for both axes, so redundant or mildly inconsistent hints are
// reconciled instead of rejected.
//
// The result is shifted so that the minimum coordinate on each axis is
// zero, and the mean of each axis is recorded as the drawing centroid.
//
// # Directions
//
// For a component with positive node p and negative node n:
//
//	right: x(p) - x(n) = 2·size
//	left:  x(n) - x(p) = 2·size
//	up:    y(p) - y(n) = 2·size
//	down:  y(n) - y(p) = 2·size
//
// Any other direction is an INVALID_CONFIG error; the solver never falls
// back to a default.
package layout
