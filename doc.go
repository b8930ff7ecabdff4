// Package adjust computes truncation-safe adjustment factors.
//
// Legacy position keeping systems often apply a corporate action or an index
// rebalancing as a relative adjustment p and then truncate the result:
//
//	Quantity_Final = TRUNC( Base * (1 + p) )
//
// Given the base quantity B currently held and the target quantity T that must
// be obtained, the package finds the smallest factor p, quantized to N decimal
// places, such that the truncated product is exactly T. The search is done with
// exact decimal arithmetic so that no binary floating point artifact can move
// the result by one unit.
//
// The core functionalities include:
//   - Quantities: exact integer quantities and a lossless conversion from the
//     loosely typed values found in spreadsheets and CSV files.
//   - Solver: a stateless, concurrency safe engine whose precision is an
//     explicit parameter rather than a process wide setting.
//   - Adjustment: the classified outcome of a resolution, carrying the factor
//     and the proof quantity that justifies it.
//
// The table, reconcile and renderer packages build the reconciliation tool
// `adj` on top of this package.
package adjust
