package provider_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/tvrecon/internal/provider"
	"github.com/vmunix/tvrecon/internal/provider/mocks"
	"github.com/vmunix/tvrecon/pkg/match"
)

func TestCollect(t *testing.T) {
	ctrl := gomock.NewController(t)

	tvmaze := mocks.NewMockProvider(ctrl)
	tvmaze.EXPECT().Name().Return("tvmaze").AnyTimes()
	tvmaze.EXPECT().Episodes(gomock.Any(), "Ax Men").Return([]provider.Episode{
		{Season: 2, Number: 5, Title: "One More Time", AirDate: "2009-03-01"},
		{Season: 2, Number: 5, Title: "One more time!"},
		{Season: 2, Number: 6, Title: "Episode 6"},
		{Season: 2, Number: 7, Title: ""},
	}, nil)

	tmdb := mocks.NewMockProvider(ctrl)
	tmdb.EXPECT().Name().Return("tmdb").AnyTimes()
	tmdb.EXPECT().Episodes(gomock.Any(), "Ax Men").Return(nil, errors.New("boom"))

	file := mocks.NewMockProvider(ctrl)
	file.EXPECT().Name().Return("file").AnyTimes()
	file.EXPECT().Episodes(gomock.Any(), "Ax Men").Return([]provider.Episode{
		{Season: 2, Number: 5, Title: "One More Time!", Overview: "Logging resumes."},
	}, nil)

	cands, errs := provider.Collect(context.Background(), []provider.Ranked{
		{Provider: tvmaze, Priority: 1},
		{Provider: tmdb, Priority: 2},
		{Provider: file, Priority: 3},
	}, "Ax Men", nil)

	require.Len(t, errs, 1)
	assert.ErrorContains(t, errs[0], "tmdb: boom")

	require.Len(t, cands, 2)
	assert.Equal(t, match.Candidate{
		Provider:        "tvmaze",
		Priority:        1,
		Season:          2,
		Episode:         5,
		Title:           "One More Time",
		NormalizedTitle: "one more time",
		AirDate:         "2009-03-01",
	}, cands[0])
	assert.Equal(t, "file", cands[1].Provider)
	assert.Equal(t, 3, cands[1].Priority)
	assert.Equal(t, "Logging resumes.", cands[1].Description)
}

func TestCollect_NoProviders(t *testing.T) {
	cands, errs := provider.Collect(context.Background(), nil, "Ax Men", nil)
	assert.Empty(t, cands)
	assert.Empty(t, errs)
}
