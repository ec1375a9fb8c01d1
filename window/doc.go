// Package window computes local neighborhood statistics over the category
// layers of a raster stack.
//
// For every cell with a realized category it aggregates each category's
// density values within a square window centered on the cell, yielding
// both the cell's own-category local density and the locally dominant
// category. Edge cells use a truncated window over the available cells;
// there is no wrap-around.
package window
