// Package smi queries per-card memory and utilization readings from
// nvidia-smi over an arbitrary command runner and turns the CSV output into
// integer samples.
//
// Three single-field queries are issued, one round trip each:
//
//	nvidia-smi --query-gpu=memory.free --format=csv
//	nvidia-smi --query-gpu=memory.total --format=csv
//	nvidia-smi --query-gpu=utilization.gpu --format=csv
//
// Typical output looks like:
//
//	memory.free [MiB]
//	81020 MiB
//	1203 MiB
//
// The columns are zipped by position; a card count mismatch between the
// columns is reported as a parse error rather than silently mis-paired.
package smi
