// Package cache is a small file-backed key/value store with per-entry TTLs.
//
// Each entry is one JSON file named after its key under the cache directory
// (default ~/.regenesis/cache/narrative). The narrative layer uses it to avoid
// regenerating text for an assessment it has already described.
package cache
