// Package legislation holds the domain model shared by the parsers, the crawl
// enumerator, the snapshot store, and the run orchestrator: bill records,
// their reading-stage sub-records, the persisted snapshot envelope, and the
// commission/ministry filter catalogues used to enumerate the listing.
package legislation
