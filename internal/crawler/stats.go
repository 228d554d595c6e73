package crawler

import "go.uber.org/zap/zapcore"

// Stats counts what one enumeration did.
type Stats struct {
	ListingPages    int
	ItemsSeen       int
	Collected       int
	SkippedExisting int
	DetailFailures  int
	Reassigned      int
	MinistryPages   int
	MinistryMatches int
}

// MarshalLogObject lets Stats be logged with zap.Object.
func (s Stats) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddInt("listing_pages", s.ListingPages)
	enc.AddInt("items_seen", s.ItemsSeen)
	enc.AddInt("collected", s.Collected)
	enc.AddInt("skipped_existing", s.SkippedExisting)
	enc.AddInt("detail_failures", s.DetailFailures)
	enc.AddInt("reassigned", s.Reassigned)
	enc.AddInt("ministry_pages", s.MinistryPages)
	enc.AddInt("ministry_matches", s.MinistryMatches)
	return nil
}
