package service

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/sharp-props/internal/models"
	"github.com/yourusername/sharp-props/internal/repository"
)

type fakeDatedInjuryRepo struct {
	repository.InjuryRepository
	calls int
}

func (f *fakeDatedInjuryRepo) GetByDate(ctx context.Context, date time.Time) ([]*models.Injury, error) {
	f.calls++
	return nil, nil
}

func TestExportBuildsPointInTimeRows(t *testing.T) {
	now := time.Now().UTC()
	logs := playerLogs(100, 1, "LeBron James", "LAL", 12, 27, now)

	injuryRepo := &fakeDatedInjuryRepo{}
	repos := &repository.Repositories{
		GameLog: &fakeGameLogRepo{logsByPlayer: map[int64][]*models.PlayerGameLog{100: logs}},
		Game:    &fakeGameRepo{},
		Injury:  injuryRepo,
	}

	svc := NewTrainingExportService(repos, testPredictionConfig(), logrus.New())

	var buf bytes.Buffer
	rows, err := svc.Export(context.Background(), &buf, 30)
	require.NoError(t, err)

	// 12 logs with a 5-game history floor leave 7 target games, each
	// emitting one row per modeled statistic
	wantRows := 7 * len(models.TargetStatKeys)
	assert.Equal(t, wantRows, rows)

	scanner := bufio.NewScanner(&buf)
	decoded := 0
	for scanner.Scan() {
		var row TrainingRow
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &row))
		decoded++

		assert.Equal(t, int64(100), row.PlayerID)
		assert.NotEmpty(t, row.Features)

		// Labels come from the target game itself, never the history
		switch models.StatKey(row.Stat) {
		case models.StatPoints:
			assert.Equal(t, 27.0, row.Label)
		case models.StatRebounds:
			assert.Equal(t, 8.0, row.Label)
		case models.StatAssists:
			assert.Equal(t, 7.0, row.Label)
		case models.StatThreesMade:
			assert.Equal(t, 3.0, row.Label)
		default:
			t.Fatalf("unexpected stat %q in export", row.Stat)
		}
	}
	assert.Equal(t, wantRows, decoded)

	// Injury counts are memoized per date, one lookup per target game
	assert.LessOrEqual(t, injuryRepo.calls, 7)
}

func TestExportSkipsShortHistories(t *testing.T) {
	now := time.Now().UTC()
	logs := playerLogs(100, 1, "Rookie Player", "LAL", 4, 12, now)

	repos := &repository.Repositories{
		GameLog: &fakeGameLogRepo{logsByPlayer: map[int64][]*models.PlayerGameLog{100: logs}},
		Game:    &fakeGameRepo{},
		Injury:  &fakeDatedInjuryRepo{},
	}

	svc := NewTrainingExportService(repos, testPredictionConfig(), logrus.New())

	var buf bytes.Buffer
	rows, err := svc.Export(context.Background(), &buf, 30)
	require.NoError(t, err)

	assert.Zero(t, rows, "players with fewer games than the history floor export nothing")
	assert.Zero(t, buf.Len())
}
