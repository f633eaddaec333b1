package domain

// Status enumerates the lifecycle states of a listing record.
type Status string

const (
	// StatusScraping is set when the record is created and the scrape job
	// has been launched.
	StatusScraping Status = "scraping"
	// StatusScraped means the scrape result has been mapped and persisted.
	StatusScraped Status = "scraped"
	// StatusAnalyzed means the freemium analysis is stored.
	StatusAnalyzed Status = "analyzed"
	// StatusPaidTriggered is set by the payment webhook on checkout completion.
	StatusPaidTriggered Status = "paid_webhook2_triggered"
	// StatusPaidAnalyzing means the paid brief (step 1) is stored and the
	// writer step is still pending.
	StatusPaidAnalyzing Status = "paid_description_analyzing"
	// StatusPaidCompleted means the paid description is stored.
	StatusPaidCompleted Status = "premium_description_completed"
	// StatusError is terminal; the user is told to retry from scratch.
	StatusError Status = "error"
)

// transitions is the total forward-only transition table.
var transitions = map[Status][]Status{
	StatusScraping:      {StatusScraped, StatusError},
	StatusScraped:       {StatusAnalyzed, StatusError},
	StatusAnalyzed:      {StatusPaidTriggered},
	StatusPaidTriggered: {StatusPaidAnalyzing},
	StatusPaidAnalyzing: {StatusPaidCompleted},
	StatusPaidCompleted: {},
	StatusError:         {},
}

// CanTransition reports whether moving from -> to is allowed. Re-writing the
// current state is always allowed: at-least-once webhook deliveries re-apply
// the same transition and must not fail.
func CanTransition(from, to Status) bool {
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal returns true if no further transitions exist from s.
func (s Status) IsTerminal() bool {
	return len(transitions[s]) == 0
}

// Valid reports whether s is a member of the registered status set.
func (s Status) Valid() bool {
	_, ok := transitions[s]
	return ok
}
