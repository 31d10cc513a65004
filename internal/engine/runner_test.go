package engine

import (
	"context"
	"fmt"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/tvrecon/pkg/match"
)

func TestRunner_IsolatesFailures(t *testing.T) {
	fs := afero.NewMemMapFs()
	var series []Series
	for i := range 6 {
		name := fmt.Sprintf("Show %d", i)
		writeMedia(t, fs, "/rec/"+name+"/A.ts", 10)
		writeXML(t, fs, "/rec/"+name+"/A.xml", "One More Time")
		series = append(series, Series{
			Name:       name,
			Dir:        "/rec/" + name,
			Thresholds: match.DefaultThresholds(),
			Candidates: axMenCandidates(),
		})
	}
	bad := match.DefaultThresholds()
	bad.Weighted = -1
	series[2].Thresholds = bad
	series[4].Dir = "/rec/missing"

	res := NewRunner(New(fs), 2, discard()).Run(context.Background(), series)

	require.Len(t, res.Failed, 2)
	assert.Equal(t, "Show 2", res.Failed[0].Series)
	assert.ErrorIs(t, res.Failed[0].Err, ErrConfiguration)
	assert.Equal(t, "Show 4", res.Failed[1].Series)

	require.Len(t, res.Reports, 4)
	for i, want := range []string{"Show 0", "Show 1", "Show 3", "Show 5"} {
		assert.Equal(t, want, res.Reports[i].Series)
		assert.True(t, res.Reports[i].Document.Records()[0].Matched)
	}
}
