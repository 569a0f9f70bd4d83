// Package time computes time-domain statistics for biosignals: single-pass
// summary statistics, population moments via Welford's algorithm, and a
// streaming accumulator for block-wise processing of long recordings.
package time
