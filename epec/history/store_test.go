package history_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/ssriram1992/epecsolve/algorithms"
	"github.com/ssriram1992/epecsolve/epec/history"
)

func TestStore_RecordAndRecent(t *testing.T) {
	s, err := history.Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	run := history.Run{
		RunID:        uuid.New(),
		StartedAt:    time.Now(),
		CountryCount: 2,
		Algorithm:    algorithms.FullEnumeration,
		Status:       algorithms.NashEqFound,
		Iterations:   3,
		MIPCalls:     7,
		Duration:     250 * time.Millisecond,
	}
	require.NoError(t, s.Record(ctx, run))

	recent, err := s.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	require.Equal(t, run.RunID, recent[0].RunID)
	require.Equal(t, run.CountryCount, recent[0].CountryCount)
	require.Equal(t, run.Status, recent[0].Status)
	require.Equal(t, run.Duration, recent[0].Duration)
}

func TestStore_RecentRespectsLimit(t *testing.T) {
	s, err := history.Open(":memory:", zerolog.Nop())
	require.NoError(t, err)
	defer s.Close()

	ctx := context.Background()
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Record(ctx, history.Run{
			RunID:        uuid.New(),
			StartedAt:    time.Now().Add(time.Duration(i) * time.Second),
			CountryCount: 1,
			Algorithm:    algorithms.CombinatorialPNE,
			Status:       algorithms.NashEqNotFound,
		}))
	}

	recent, err := s.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
}
