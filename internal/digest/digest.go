// Package digest turns raw per-person status reports into the compact
// structure the narrative generator works from.
package digest

// Sentiment is a reporter's self-assessed status, ordered by severity.
type Sentiment string

const (
	SentimentGreen  Sentiment = "green"
	SentimentYellow Sentiment = "yellow"
	SentimentRed    Sentiment = "red"
)

// Severity ranks sentiments: green < yellow < red. Unknown values rank 0.
func (s Sentiment) Severity() int {
	switch s {
	case SentimentGreen:
		return 1
	case SentimentYellow:
		return 2
	case SentimentRed:
		return 3
	default:
		return 0
	}
}

// ItemType tells whether a plan item looks back or ahead.
type ItemType string

const (
	ItemCompletedPrevious ItemType = "completed_previous"
	ItemPlannedNext       ItemType = "planned_next"
)

// ItemStatus is the completion state of a plan item.
type ItemStatus string

const (
	ItemTodo        ItemStatus = "todo"
	ItemDone        ItemStatus = "done"
	ItemCarriedOver ItemStatus = "carried_over"
)

// PlanItem is one line of a report.
type PlanItem struct {
	Content string
	Type    ItemType
	Status  ItemStatus
}

// Record is one person's report for one day, as fetched from the store.
type Record struct {
	ID         uint
	TeamID     uint
	UserID     uint
	AuthorName string
	Date       string
	Sentiment  Sentiment
	Blockers   string
	Items      []PlanItem
}

// Entry is the digest line for one record.
type Entry struct {
	Name      string    `json:"name"`
	Date      string    `json:"date"`
	Sentiment Sentiment `json:"sentiment"`
	Blockers  string    `json:"blockers,omitempty"`
	Completed []string  `json:"completed"`
	Planned   []string  `json:"planned"`
}

// Digest is the per-window summary for one team. It is rebuilt on every run.
type Digest struct {
	Entries []Entry `json:"entries"`

	records int
}

// Build creates one entry per record, preserving record order. Completed items
// are reported regardless of their status; records from several days are not
// merged per person.
func Build(records []Record) Digest {
	d := Digest{Entries: make([]Entry, 0, len(records))}
	seen := make(map[uint]struct{}, len(records))

	for _, r := range records {
		entry := Entry{
			Name:      r.AuthorName,
			Date:      r.Date,
			Sentiment: r.Sentiment,
			Blockers:  r.Blockers,
			Completed: []string{},
			Planned:   []string{},
		}
		for _, item := range r.Items {
			switch item.Type {
			case ItemCompletedPrevious:
				entry.Completed = append(entry.Completed, item.Content)
			case ItemPlannedNext:
				entry.Planned = append(entry.Planned, item.Content)
			}
		}
		d.Entries = append(d.Entries, entry)

		if r.ID == 0 {
			d.records++
			continue
		}
		if _, ok := seen[r.ID]; !ok {
			seen[r.ID] = struct{}{}
			d.records++
		}
	}

	return d
}

// Empty reports whether no records fell in the window.
func (d Digest) Empty() bool {
	return len(d.Entries) == 0
}

// RecordCount is the number of distinct records the digest was built from.
func (d Digest) RecordCount() int {
	return d.records
}

// SentimentCounts tallies entries per sentiment.
func (d Digest) SentimentCounts() map[Sentiment]int {
	counts := make(map[Sentiment]int)
	for _, e := range d.Entries {
		counts[e.Sentiment]++
	}
	return counts
}

// WorstSentiment returns the most severe sentiment reported, or "" when empty.
func (d Digest) WorstSentiment() Sentiment {
	var worst Sentiment
	for _, e := range d.Entries {
		if e.Sentiment.Severity() > worst.Severity() {
			worst = e.Sentiment
		}
	}
	return worst
}
