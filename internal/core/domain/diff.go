package domain

// DiffSummary aggregates uncommitted version-control changes. It is
// produced by a diff provider adapter and consumed by the composer; the
// core never shells out to git itself.
type DiffSummary struct {
	// Added, Modified and Deleted list changed paths by status.
	Added    []string
	Modified []string
	Deleted  []string

	// Stats is the aggregate insertion/deletion line, e.g.
	// "3 files changed, 40 insertions(+), 5 deletions(-)".
	Stats string

	// PrimaryDirectory is the directory with the most touched files,
	// or "" when there are no changes.
	PrimaryDirectory string
}

// TotalFiles returns the number of changed paths across all statuses.
func (d DiffSummary) TotalFiles() int {
	return len(d.Added) + len(d.Modified) + len(d.Deleted)
}
