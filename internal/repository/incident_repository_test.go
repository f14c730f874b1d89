package repository

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/jengzang/riskzones-backend-go/internal/database"
	"github.com/jengzang/riskzones-backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sentinel = "Режим движения не изменялся"

func newTestRepo(t *testing.T) (*IncidentRepository, *sql.DB) {
	t.Helper()
	db, err := database.Open(context.Background(), database.Config{Path: filepath.Join(t.TempDir(), "dtp.db")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewIncidentRepository(db, sentinel), db
}

func at(day, hour int) time.Time {
	return time.Date(2024, 1, day, hour, 15, 0, 0, time.UTC)
}

func seed(t *testing.T, repo *IncidentRepository) {
	t.Helper()
	incidents := []models.Incident{
		{ID: 1, OccurredAt: at(1, 8), Category: "Наезд на пешехода", Severity: "Легкий", InjuredCount: 1, Region: "Арбат", Lat: 55.75, Lon: 37.59,
			Weather: models.TagSet{"Снегопад"}, RoadConditions: models.TagSet{"Гололедица"}},
		{ID: 2, OccurredAt: at(1, 22), Category: "Столкновение", Severity: "Тяжёлый", InjuredCount: 2, DeadCount: 1, Region: "Арбат, Москва", Lat: 55.76, Lon: 37.60,
			Weather: models.TagSet{"Ясно"}, RoadConditions: models.TagSet{"Сухое"}},
		{ID: 3, OccurredAt: at(2, 13), Category: "Столкновение", Severity: "Легкий", InjuredCount: 1, Region: "Пресненский", Lat: 55.77, Lon: 37.55,
			Weather: models.TagSet{"Снегопад"}},
		{ID: 4, OccurredAt: at(3, 2), Category: "Опрокидывание", Region: "Хамовники", Lat: 55.73, Lon: 37.57},
	}
	n, err := repo.InsertIncidents(context.Background(), incidents)
	require.NoError(t, err)
	require.Equal(t, len(incidents), n)
}

func TestInsertAndListEvents(t *testing.T) {
	repo, _ := newTestRepo(t)
	seed(t, repo)
	ctx := context.Background()

	items, total, err := repo.ListEvents(ctx, models.EventFilter{Limit: 2, Offset: 0})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, items, 2)
	assert.Equal(t, int64(4), items[0].ID, "newest first")
	assert.Equal(t, int64(3), items[1].ID)

	items, total, err = repo.ListEvents(ctx, models.EventFilter{Limit: 10, Offset: 1, Category: "Столкновение"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 1)
	assert.Equal(t, int64(2), items[0].ID)
	assert.Equal(t, 22, items[0].Hour())
	assert.Equal(t, models.TagSet{"Ясно"}, items[0].Weather)
	assert.Equal(t, "Тяжёлый", items[0].Severity)
}

func TestFetchWorkingSet(t *testing.T) {
	repo, db := newTestRepo(t)
	seed(t, repo)
	ctx := context.Background()

	_, err := db.Exec(`INSERT INTO dtp_events (id, occurred_at, region, lat, lon, weather, road_conditions)
		VALUES (5, '2024-01-05 10:00:00', 'Арбат', NULL, NULL, NULL, NULL),
		       (6, '2024-01-04 10:00:00', 'Арбат', 55.7, 37.6, 'not json', ?)`, `["`+sentinel+`", "Мокрое", 7]`)
	require.NoError(t, err)

	items, err := repo.FetchWorkingSet(ctx, models.ClusterQuery{Limit: 10, Region: "Арбат"})
	require.NoError(t, err)
	require.Len(t, items, 2, "rows without coordinates are skipped")
	assert.Equal(t, int64(6), items[0].ID)
	assert.Empty(t, items[0].Weather)
	assert.Equal(t, models.TagSet{"Мокрое"}, items[0].RoadConditions)
	assert.Equal(t, int64(1), items[1].ID)

	items, err = repo.FetchWorkingSet(ctx, models.ClusterQuery{Limit: 2})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, int64(6), items[0].ID)
	assert.Equal(t, int64(4), items[1].ID)
}

func TestSuggest(t *testing.T) {
	repo, _ := newTestRepo(t)
	seed(t, repo)
	ctx := context.Background()

	items, err := repo.Suggest(ctx, "region", "Ар", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Арбат", "Арбат, Москва"}, items)

	items, err = repo.Suggest(ctx, "category", "Ст", 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Столкновение"}, items)

	items, err = repo.Suggest(ctx, "region", "%", 10)
	require.NoError(t, err)
	assert.Empty(t, items, "wildcards in the prefix are literal")

	_, err = repo.Suggest(ctx, "address; DROP TABLE dtp_events", "x", 10)
	assert.ErrorIs(t, err, ErrUnknownField)
}

func TestSummary(t *testing.T) {
	repo, _ := newTestRepo(t)
	seed(t, repo)

	s, err := repo.Summary(context.Background(), "2024-01-01 00:00:00", "2024-01-03 00:00:00")
	require.NoError(t, err)

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 4, s.Injured)
	assert.Equal(t, 1, s.Dead)
	assert.Equal(t, 5, s.Victims)
	assert.Equal(t, []models.DayCount{{Date: "2024-01-01", Count: 2}, {Date: "2024-01-02", Count: 1}}, s.PerDay)
	assert.Equal(t, []models.LabelCount{{Label: "Столкновение", Count: 2}, {Label: "Наезд на пешехода", Count: 1}}, s.Categories)
	assert.Equal(t, []models.LabelCount{{Label: "Легкий", Count: 2}, {Label: "Тяжёлый", Count: 1}}, s.Severity)
	assert.Equal(t, []models.LabelCount{{Label: "Арбат", Count: 2}, {Label: "Пресненский", Count: 1}}, s.Districts)
	assert.Equal(t, models.LabelCount{Label: "Снегопад", Count: 2}, s.Conditions[0])
	assert.Len(t, s.Conditions, 4)
}

func TestSummaryEmptyRange(t *testing.T) {
	repo, _ := newTestRepo(t)
	seed(t, repo)

	s, err := repo.Summary(context.Background(), "2030-01-01 00:00:00", "2030-01-02 00:00:00")
	require.NoError(t, err)
	assert.Equal(t, 0, s.Total)
	assert.Empty(t, s.PerDay)
	assert.Empty(t, s.Conditions)
}

func TestParseTime(t *testing.T) {
	ts, err := ParseTime("2024-01-02 03:04:05")
	require.NoError(t, err)
	assert.Equal(t, 3, ts.Hour())

	ts, err = ParseTime("2024-01-02T23:00:00+03:00")
	require.NoError(t, err)
	assert.Equal(t, 23, ts.Hour())

	_, err = ParseTime("yesterday")
	assert.Error(t, err)
}
