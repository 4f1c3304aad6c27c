package progress

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricStartingNowFloorsAtZero(t *testing.T) {
	e := Entry{Baseline: 10, Last: 15}
	assert.Equal(t, 5.0, e.Metric(TrackStartingNow))

	// correção de dados derrubou o valor abaixo do baseline
	e.Last = 7
	assert.Equal(t, 0.0, e.Metric(TrackStartingNow))
}

func TestMetricCumulativePassthrough(t *testing.T) {
	e := Entry{Baseline: 10, Last: 7}
	assert.Equal(t, 7.0, e.Metric(TrackCumulative))

	e.Last = 31
	assert.Equal(t, 31.0, e.Metric(TrackCumulative))
}

func TestRecordEntryLookup(t *testing.T) {
	rec := Record{Entries: []Entry{
		{Ref: Ref{ID: "p1", Name: "Player One"}},
		{Ref: Ref{ID: "p2", Name: "Player Two"}},
	}}

	e, ok := rec.Entry("p2")
	require.True(t, ok)
	assert.Equal(t, "Player Two", e.Ref.Name)

	// ponteiro para o slice: mutação deve refletir no Record
	e.Last = 12
	assert.Equal(t, 12.0, rec.Entries[1].Last)

	_, ok = rec.Entry("p3")
	assert.False(t, ok)
}
