// Package tool assembles the operation catalog: every exposed operation's
// descriptor, schema and handler, bound to the candidate directory.
package tool

// FilterFieldIDs identifies the candidate custom fields the search
// operations filter on.
type FilterFieldIDs struct {
	Subscriber       string
	ActivityStatus   string
	Coach            string
	DrivingLicense   string
	NationalMobility string
	Experience       string
	Zone             string
	Province         string
}

// Lookups carries the name-to-ID tables and filter field identifiers the
// handlers translate user-facing values with.
type Lookups struct {
	Departments map[string]string
	Locations   map[string]string
	Filters     FilterFieldIDs
}
