// Package store persists legislation snapshots as one JSON file per
// legislative year and answers the existence checks used to skip bills that
// were already scraped.
package store
