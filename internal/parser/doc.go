// Package parser turns listing and detail pages of the parliament site into
// legislation records. Parsing never aborts a record: fields that cannot be
// recovered are left empty and reported at debug level.
package parser
