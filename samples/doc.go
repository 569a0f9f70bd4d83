// Package samples catalogues sample biosignal recordings stored as EDF
// files: header metadata, per-channel summary statistics and JSON info
// sidecars published alongside the recordings.
package samples
