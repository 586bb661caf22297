package domain

import "time"

// StatusHistoryEntry is an immutable ledger record of a status-affecting
// action on an issue. Entries are only ever appended: there is no update
// timestamp and no delete path. Deleting an issue leaves its entries behind.
type StatusHistoryEntry struct {
	ID        string
	IssueID   string
	Status    IssueStatus
	ChangedBy string
	CreatedAt time.Time

	// Actor is the resolved display identity of ChangedBy, populated on reads.
	Actor *UserRef
}
