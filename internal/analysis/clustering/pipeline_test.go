package clustering

import (
	"math/rand"
	"strconv"
	"testing"

	"github.com/jengzang/riskzones-backend-go/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPipelineMinimumWorkingSet(t *testing.T) {
	p := NewPipeline(englishConfig())

	_, err := p.Run(randomIncidents(49, 1), rand.New(rand.NewSource(1)))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsufficientData)

	report, err := p.Run(randomIncidents(50, 1), rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Len(t, report.Result.LabelsByID, 50)
}

func TestPipelineExcludesInvalidCoordinates(t *testing.T) {
	records := randomIncidents(50, 2)
	records[0].Lat = 123

	_, err := NewPipeline(englishConfig()).Run(records, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrInsufficientData)

	records = append(records, randomIncidents(60, 3)[55:]...)
	for i := range records {
		records[i].ID = int64(i + 1)
	}
	report, err := NewPipeline(englishConfig()).Run(records, rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 1, report.Excluded)
	assert.Len(t, report.Result.LabelsByID, len(records)-1)
	assert.NotContains(t, report.Result.LabelsByID, "1")
}

func TestPipelineResultInvariants(t *testing.T) {
	records := randomIncidents(500, 8)
	report, err := NewPipeline(englishConfig()).Run(records, rand.New(rand.NewSource(99)))
	require.NoError(t, err)
	res := report.Result

	assert.GreaterOrEqual(t, res.K, 5)
	assert.LessOrEqual(t, res.K, 9)
	assert.Len(t, report.Candidates, 5)
	// five weather and four road values, all well above minimum support
	assert.Equal(t, 4+5+4, report.Dim)
	assert.Equal(t, 0, report.Excluded)
	assert.ElementsMatch(t, []string{"clear", "overcast", "rain", "snow", "fog"}, report.WeatherTerms)
	assert.ElementsMatch(t, []string{"dry", "wet", "ice", "snowy"}, report.RoadTerms)

	clusters := make(map[int]models.ClusterProfile)
	total, injured, dead := 0, 0, 0
	for _, prof := range res.Profiles {
		assert.Greater(t, prof.Count, 0)
		assert.NotEmpty(t, prof.Title)
		assert.NotEmpty(t, prof.Subtitle)
		clusters[prof.Cluster] = prof
		total += prof.Count
		injured += prof.InjuredSum
		dead += prof.DeadSum
	}
	assert.Equal(t, len(records), total)

	wantInjured, wantDead := 0, 0
	for _, r := range records {
		wantInjured += r.InjuredCount
		wantDead += r.DeadCount
	}
	assert.Equal(t, wantInjured, injured)
	assert.Equal(t, wantDead, dead)

	require.Len(t, res.LabelsByID, len(records))
	perCluster := make(map[int]int)
	for id, c := range res.LabelsByID {
		_, ok := clusters[c]
		assert.True(t, ok, "incident %s points at unreported cluster %d", id, c)
		assert.GreaterOrEqual(t, c, 0)
		assert.Less(t, c, res.K)
		perCluster[c]++
	}
	for c, prof := range clusters {
		assert.Equal(t, prof.Count, perCluster[c])
	}

	p := NewPipeline(englishConfig())
	for i := 1; i < len(res.Profiles); i++ {
		prev, cur := res.Profiles[i-1], res.Profiles[i]
		if p.interesting(prev) == p.interesting(cur) {
			assert.GreaterOrEqual(t, prev.Count, cur.Count)
		} else {
			assert.True(t, p.interesting(prev))
		}
	}
}

func TestPipelineIsDeterministicUnderSeed(t *testing.T) {
	records := randomIncidents(300, 5)
	p := NewPipeline(englishConfig())

	first, err := p.Run(records, rand.New(rand.NewSource(2024)))
	require.NoError(t, err)
	second, err := p.Run(records, rand.New(rand.NewSource(2024)))
	require.NoError(t, err)

	assert.Equal(t, first.Result, second.Result)
}

// 50 incidents at one spot at night in snow, 10 scattered daytime ones in
// clear weather
func snowScenario() []models.Incident {
	var records []models.Incident
	for i := 0; i < 50; i++ {
		records = append(records, incident(int64(i+1), 55.80, 37.60, 2, []string{"snow"}, nil))
	}
	for i := 0; i < 10; i++ {
		r := incident(int64(51+i),
			55.55+0.05*float64(i),
			37.30+0.07*float64(i),
			9+i,
			[]string{"clear"},
			[]string{"dry"},
		)
		records = append(records, r)
	}
	return records
}

func TestPipelineSnowScenario(t *testing.T) {
	for seed := int64(1); seed <= 10; seed++ {
		report, err := NewPipeline(englishConfig()).Run(snowScenario(), rand.New(rand.NewSource(seed)))
		require.NoError(t, err)
		res := report.Result

		assert.Greater(t, res.K, 1)
		assert.Greater(t, len(res.Profiles), 1)

		snowCluster := res.LabelsByID["1"]
		for i := 2; i <= 50; i++ {
			assert.Equal(t, snowCluster, res.LabelsByID[strconv.Itoa(i)])
		}

		var snow *models.ClusterProfile
		for i := range res.Profiles {
			if res.Profiles[i].Cluster == snowCluster {
				snow = &res.Profiles[i]
			}
		}
		require.NotNil(t, snow)
		assert.Equal(t, "snow", snow.Subtitle)
		assert.NotEqual(t, "ordinary conditions", snow.Subtitle)
		assert.GreaterOrEqual(t, snow.Count, 50)
		assert.Equal(t, snowCluster, res.Profiles[0].Cluster, "salient clusters sort first")
	}
}

func TestPipelineDropsEmptyClusters(t *testing.T) {
	// only three distinct positions: at most three clusters can be populated
	var records []models.Incident
	for i := 0; i < 60; i++ {
		pos := float64(i % 3)
		records = append(records, incident(int64(i+1), 55.7+pos*0.1, 37.6, 12, nil, nil))
	}

	report, err := NewPipeline(englishConfig()).Run(records, rand.New(rand.NewSource(4)))
	require.NoError(t, err)

	assert.LessOrEqual(t, len(report.Result.Profiles), 3)
	total := 0
	for _, prof := range report.Result.Profiles {
		assert.Greater(t, prof.Count, 0)
		total += prof.Count
	}
	assert.Equal(t, 60, total)
}

func TestSortProfilesOrdersTellingSubtitlesFirst(t *testing.T) {
	p := NewPipeline(englishConfig())
	profiles := []models.ClusterProfile{
		{Cluster: 0, Subtitle: "ordinary conditions", Count: 100},
		{Cluster: 1, Subtitle: "clear", Count: 80},
		{Cluster: 2, Subtitle: "overcast", Count: 10},
		{Cluster: 3, Subtitle: "ice", Count: 10},
		{Cluster: 4, Subtitle: "fog", Count: 30},
	}

	p.sortProfiles(profiles)

	order := make([]int, len(profiles))
	for i, prof := range profiles {
		order[i] = prof.Cluster
	}
	// a notable overcast cluster is as telling as any other condition
	assert.Equal(t, []int{4, 2, 3, 0, 1}, order)
}
