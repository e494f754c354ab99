// Package ingest turns heterogeneous storefront order exports (CSV or XLSX)
// into the canonical line-item dataset. It drives the tokenizer row by row,
// detects the source platform once from the header row, and normalizes every
// following row through the detected adapter's column mapping, expanding
// composite product cells into per-product line items along the way.
//
// Fatal-versus-recoverable is decided exactly once, at detection time: a
// header row no adapter claims aborts the run with zero rows and platform
// "Unknown". Everything after that point is best-effort and additive:
// structural row problems are collected next to the data they rode in on,
// and bad field values degrade to neutral defaults instead of discarding
// the row.
package ingest
