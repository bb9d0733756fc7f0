// Package domain models the trend events emitted after a chart is rendered.
//
// A [TrendEvent] carries the plotted series of one analysis (city, country,
// comparison or global) so downstream consumers can rebuild or index the
// chart without rereading the source CSV files. Event IDs are derived from
// the analysis, the entity names and the extent of each series, so the
// same chart rendered from the same data always gets the same ID.
//
// GeneratedAt is stamped from a package clock; tests freeze it with
// [SetClock].
package domain
