package digest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPartitionsItems(t *testing.T) {
	records := []Record{
		{
			ID: 1, AuthorName: "Ada", Date: "2026-10-15", Sentiment: SentimentGreen,
			Items: []PlanItem{
				{Content: "Ship login fix", Type: ItemCompletedPrevious, Status: ItemDone},
				{Content: "Write migration", Type: ItemCompletedPrevious, Status: ItemTodo},
				{Content: "Review PR 42", Type: ItemPlannedNext, Status: ItemTodo},
			},
		},
		{
			ID: 2, AuthorName: "Grace", Date: "2026-10-15", Sentiment: SentimentRed,
			Blockers: "Waiting on staging access",
			Items: []PlanItem{
				{Content: "Load test", Type: ItemPlannedNext, Status: ItemCarriedOver},
			},
		},
		{ID: 3, AuthorName: "Linus", Date: "2026-10-15", Sentiment: SentimentYellow},
	}

	d := Build(records)

	require.Len(t, d.Entries, 3)
	assert.Equal(t, 3, d.RecordCount())

	assert.Equal(t, "Ada", d.Entries[0].Name)
	assert.Equal(t, []string{"Ship login fix", "Write migration"}, d.Entries[0].Completed)
	assert.Equal(t, []string{"Review PR 42"}, d.Entries[0].Planned)

	assert.Equal(t, "Waiting on staging access", d.Entries[1].Blockers)
	assert.Empty(t, d.Entries[1].Completed)
	assert.Equal(t, []string{"Load test"}, d.Entries[1].Planned)

	assert.Equal(t, "Linus", d.Entries[2].Name)
	assert.NotNil(t, d.Entries[2].Completed)
	assert.NotNil(t, d.Entries[2].Planned)
	assert.Equal(t, []string{}, d.Entries[2].Completed)
	assert.Equal(t, []string{}, d.Entries[2].Planned)
}

func TestBuildKeepsOneEntryPerDay(t *testing.T) {
	records := []Record{
		{ID: 10, UserID: 1, AuthorName: "Ada", Date: "2026-10-12", Sentiment: SentimentGreen},
		{ID: 11, UserID: 2, AuthorName: "Grace", Date: "2026-10-12", Sentiment: SentimentGreen},
		{ID: 12, UserID: 1, AuthorName: "Ada", Date: "2026-10-13", Sentiment: SentimentYellow},
	}

	d := Build(records)

	require.Len(t, d.Entries, 3)
	assert.Equal(t, []string{"Ada", "Grace", "Ada"}, []string{d.Entries[0].Name, d.Entries[1].Name, d.Entries[2].Name})
	assert.Equal(t, "2026-10-13", d.Entries[2].Date)
}

func TestBuildEmpty(t *testing.T) {
	d := Build(nil)

	assert.True(t, d.Empty())
	assert.Equal(t, 0, d.RecordCount())
	assert.NotNil(t, d.Entries)
}

func TestRecordCountIgnoresDuplicateRows(t *testing.T) {
	d := Build([]Record{{ID: 5, AuthorName: "Ada"}, {ID: 5, AuthorName: "Ada"}})

	assert.Len(t, d.Entries, 2)
	assert.Equal(t, 1, d.RecordCount())
}

func TestSentimentHelpers(t *testing.T) {
	d := Build([]Record{
		{ID: 1, Sentiment: SentimentGreen},
		{ID: 2, Sentiment: SentimentYellow},
		{ID: 3, Sentiment: SentimentGreen},
	})

	assert.Equal(t, map[Sentiment]int{SentimentGreen: 2, SentimentYellow: 1}, d.SentimentCounts())
	assert.Equal(t, SentimentYellow, d.WorstSentiment())
	assert.Greater(t, SentimentRed.Severity(), SentimentYellow.Severity())
	assert.Equal(t, Sentiment(""), Build(nil).WorstSentiment())
}
