// Package pipeline runs one scrape end to end: it resolves the legislative
// year, enumerates new bills, merges and persists the snapshot, mirrors it
// and reports a summary.
package pipeline
