package synth

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synthlab/synth360/pkg/catalog"
	"github.com/synthlab/synth360/pkg/core"
)

var fixedNow = time.Date(2026, 8, 24, 12, 0, 0, 0, time.UTC)

func generateFixed(t *testing.T, seed int64, n int) *core.Dataset {
	t.Helper()
	gen := NewGenerator(seed, WithNow(fixedNow))
	ds, err := gen.Generate(n)
	require.NoError(t, err)
	require.Equal(t, n, ds.Len())
	return ds
}

func TestGenerate_Deterministic(t *testing.T) {
	a := generateFixed(t, 42, 200)
	b := generateFixed(t, 42, 200)
	assert.Equal(t, a.Records, b.Records, "same seed and instant must reproduce the dataset")

	c := generateFixed(t, 43, 200)
	assert.NotEqual(t, a.Records, c.Records, "a different seed must change the dataset")
}

func TestGenerate_SubStreamsIndependentOfN(t *testing.T) {
	small := generateFixed(t, 42, 5)
	large := generateFixed(t, 42, 50)
	assert.Equal(t, small.Records, large.Records[:5],
		"record i must not depend on the dataset size")
}

func TestGenerate_OrdinalsAndUniqueIDs(t *testing.T) {
	ds := generateFixed(t, 7, 100)

	seenIDs := map[string]bool{}
	seenSessions := map[string]bool{}
	for i, rec := range ds.Records {
		assert.Equal(t, int64(i), rec.Ordinal)
		assert.Equal(t, fmt.Sprintf("CUST_%08d", i), rec.CustomerID)
		assert.False(t, seenIDs[rec.CustomerID], "duplicate customer id %s", rec.CustomerID)
		seenIDs[rec.CustomerID] = true

		require.True(t, strings.HasPrefix(rec.SessionID, "SESS_"), "session id %q", rec.SessionID)
		assert.Len(t, rec.SessionID, len("SESS_")+16)
		assert.False(t, seenSessions[rec.SessionID], "duplicate session id %s", rec.SessionID)
		seenSessions[rec.SessionID] = true
	}
}

func TestGenerate_RecordInvariants(t *testing.T) {
	ds := generateFixed(t, 42, 1000)

	for _, rec := range ds.Records {
		assert.True(t, catalog.ValidPair(rec.Country, rec.City),
			"city %q does not belong to country %q", rec.City, rec.Country)

		region, ok := catalog.RegionByCountry(rec.Country)
		require.True(t, ok)
		assert.Equal(t, region.Timezone, rec.Timezone)
		assert.Contains(t, region.States, rec.State)

		assert.GreaterOrEqual(t, rec.Age, int64(18))
		assert.LessOrEqual(t, rec.Age, int64(90))
		assert.GreaterOrEqual(t, rec.EngagementScore, 0.0)
		assert.LessOrEqual(t, rec.EngagementScore, 1.0)
		assert.GreaterOrEqual(t, rec.ChurnRisk, 0.0)
		assert.LessOrEqual(t, rec.ChurnRisk, 1.0)

		assert.Contains(t, rec.Email, "@")
		assert.True(t, strings.HasPrefix(rec.Phone, "+"), "phone %q", rec.Phone)

		assert.Contains(t, catalog.Browsers[rec.DeviceType], rec.Browser,
			"browser %q not valid for device %q", rec.Browser, rec.DeviceType)
		assert.Contains(t, catalog.OperatingSystems[rec.DeviceType], rec.OperatingSystem)
	}
}

func TestGenerate_SpendOrderConsistency(t *testing.T) {
	ds := generateFixed(t, 42, 1000)

	var withOrders int
	for _, rec := range ds.Records {
		if rec.OrderCount == 0 {
			assert.Zero(t, rec.TotalSpend, "spend must be zero with no orders")
			assert.Zero(t, rec.LifetimeValue)
			continue
		}
		withOrders++
		require.Positive(t, rec.TotalSpend, "orders without spend for %s", rec.CustomerID)
		perOrder := rec.TotalSpend / float64(rec.OrderCount)
		assert.GreaterOrEqual(t, perOrder, minPerOrderSpend-0.01)
		assert.LessOrEqual(t, perOrder, maxPerOrderSpend+0.01)
		assert.GreaterOrEqual(t, rec.LifetimeValue, rec.TotalSpend,
			"lifetime value must not fall below realized spend")
	}
	assert.Greater(t, withOrders, 500, "most customers should have purchase history")
}

func TestGenerate_TimestampOrdering(t *testing.T) {
	ds := generateFixed(t, 42, 500)

	for _, rec := range ds.Records {
		assert.False(t, rec.AccountCreatedAt.After(rec.LastActivityAt),
			"account created %v after last activity %v", rec.AccountCreatedAt, rec.LastActivityAt)
		assert.False(t, rec.LastActivityAt.After(fixedNow))
		assert.True(t, rec.AccountCreatedAt.After(fixedNow.Add(-historyWindow)),
			"account creation outside the historical window")
	}
}

func TestGenerate_AttributionConsistency(t *testing.T) {
	ds := generateFixed(t, 42, 1000)

	for _, rec := range ds.Records {
		if rec.UTMSource == "direct" || rec.UTMSource == "organic" {
			assert.Empty(t, rec.UTMCampaign, "direct/organic traffic carries no campaign")
		} else {
			assert.NotEmpty(t, rec.UTMCampaign)
			assert.Contains(t, catalog.UTMCampaigns, rec.UTMCampaign)
		}
	}
}

func TestGenerate_SegmentRules(t *testing.T) {
	ds := generateFixed(t, 42, 1000)

	for _, rec := range ds.Records {
		require.Contains(t, catalog.Segments, rec.Segment)
		switch rec.Segment {
		case "vip":
			assert.Greater(t, rec.EngagementScore, 0.85)
			assert.Less(t, rec.ChurnRisk, 0.2)
		case "at-risk":
			assert.Greater(t, rec.ChurnRisk, 0.7)
		}
	}
}

func TestGenerate_NonPositiveCount(t *testing.T) {
	gen := NewGenerator(42)
	for _, n := range []int{0, -1} {
		_, err := gen.Generate(n)
		require.Error(t, err)

		var cfgErr *core.ConfigError
		assert.True(t, errors.As(err, &cfgErr), "expected ConfigError for n=%d, got %T", n, err)
	}
}

func TestGenerate_CountryMixTracksWeights(t *testing.T) {
	ds := generateFixed(t, 42, 5000)

	counts := map[string]int{}
	for _, rec := range ds.Records {
		counts[rec.Country]++
	}

	table := catalog.RegionTable()
	total := float64(table.TotalWeight())
	for _, entry := range table.Entries {
		expected := float64(entry.Weight) / total
		observed := float64(counts[entry.Value]) / float64(ds.Len())
		assert.InDelta(t, expected, observed, 0.03,
			"share for %s drifted from its weight", entry.Value)
	}
}
