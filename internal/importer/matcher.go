package importer

import (
	"fmt"
)

// Snapshot is a point-in-time read of the record store, indexed two ways for
// O(1) matching: by id, and grouped by check_number (check numbers are not
// unique, so those buckets can hold several records). Built once per request;
// concurrent writers can drift from it — see the lost-update note on Apply.
type Snapshot struct {
	byID          map[string]Record
	byCheckNumber map[string][]Record
}

// NewSnapshot builds the two lookup indexes from a fetched record set.
func NewSnapshot(records []Record) *Snapshot {
	s := &Snapshot{
		byID:          make(map[string]Record, len(records)),
		byCheckNumber: make(map[string][]Record),
	}
	for _, r := range records {
		s.byID[r.ID] = r
		if r.CheckNumber != "" {
			s.byCheckNumber[r.CheckNumber] = append(s.byCheckNumber[r.CheckNumber], r)
		}
	}
	return s
}

// OutcomeKind discriminates the per-row match result.
type OutcomeKind int

const (
	OutcomeMatched OutcomeKind = iota
	OutcomeWarned
	OutcomeSkipped
	// OutcomeNone marks a row that contributes nothing to any output list.
	// Only reachable defensively: blank rows are already dropped at parse.
	OutcomeNone
)

// Outcome is the tagged per-row result of matching. These are expected,
// frequent results, not exceptional control flow, so they travel as data.
type Outcome struct {
	Kind   OutcomeKind
	Record Record // valid only when Kind == OutcomeMatched
	Reason string // set for Warned and Skipped
}

// Match resolves one raw row against the snapshot.
//
// An id, when supplied, is authoritative and exclusive: the caller asked for
// exact-record targeting, so a missing id warns instead of silently falling
// back to check-number matching and masking a stale id. Check-number
// matching warns on zero hits and on ambiguity — it never picks one of
// several records arbitrarily.
func (s *Snapshot) Match(row RawRow) Outcome {
	if row.ID != "" {
		rec, ok := s.byID[row.ID]
		if !ok {
			return Outcome{Kind: OutcomeWarned, Reason: fmt.Sprintf("No record found for ID %q", row.ID)}
		}
		return Outcome{Kind: OutcomeMatched, Record: rec}
	}

	if row.CheckNumber != "" {
		bucket := s.byCheckNumber[row.CheckNumber]
		switch len(bucket) {
		case 0:
			return Outcome{Kind: OutcomeWarned, Reason: fmt.Sprintf("No record found for Check #%s", row.CheckNumber)}
		case 1:
			return Outcome{Kind: OutcomeMatched, Record: bucket[0]}
		default:
			return Outcome{Kind: OutcomeWarned, Reason: fmt.Sprintf("Multiple records for Check #%s — skipped (ambiguous)", row.CheckNumber)}
		}
	}

	return Outcome{Kind: OutcomeNone}
}
