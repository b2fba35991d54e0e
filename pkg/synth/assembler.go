package synth

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/synthlab/synth360/pkg/catalog"
	"github.com/synthlab/synth360/pkg/core"
)

// Distribution specs for the numeric fields. Bounds are the contractual
// domains; shapes and moments follow the observed market mix.
var (
	ageSpec = NumericSpec{Shape: NormalClamped, Min: 18, Max: 90, Mean: 34, StdDev: 11}

	// Engagement is the base of the behavioral pair; churn risk is drawn as
	// an inverse linear relation with bounded gaussian noise, so the two stay
	// inside a statistical band without being a hard function of each other.
	engagementChurnSpec = CorrelatedSpec{
		Base:      NumericSpec{Shape: NormalClamped, Min: 0, Max: 1, Mean: 0.62, StdDev: 0.18},
		Intercept: 1.0,
		Slope:     -1.0,
		Noise:     0.18,
		DepMin:    0,
		DepMax:    1,
	}

	perOrderSpec = NumericSpec{Shape: NormalClamped, Min: 5, Max: 500, Mean: 85, StdDev: 40}
)

// Historical window for account creation, and the plausible per-order band
// used by the spend invariant.
const (
	historyWindow    = 730 * 24 * time.Hour
	minAccountAge    = 24 * time.Hour
	maxOrders        = 60
	minPerOrderSpend = 5.0
	maxPerOrderSpend = 500.0
)

// Assembler composes full customer records from synthesizer draws. It holds
// the generation instant so timestamp windows are stable across a run.
type Assembler struct {
	now time.Time
}

// NewAssembler returns an assembler anchored at the given generation time.
func NewAssembler(now time.Time) *Assembler {
	return &Assembler{now: now.UTC().Truncate(time.Second)}
}

// Assemble produces one internally consistent record for the given index.
// Field draws advance only the supplied stream, so the same (index, stream)
// always yields the same record. An error here means a malformed catalog,
// never a bad draw: draw-level violations are repaired locally.
func (a *Assembler) Assemble(index int64, rng *rand.Rand) (core.CustomerRecord, error) {
	var rec core.CustomerRecord
	rec.Ordinal = index
	rec.CustomerID = fmt.Sprintf("CUST_%08d", index)

	// Demographics: country first, then the city/state/timezone that belong
	// to it, so the pair can never contradict.
	country, err := SampleCategorical(catalog.RegionTable(), rng)
	if err != nil {
		return rec, err
	}
	region, _ := catalog.RegionByCountry(country)
	rec.Country = country
	rec.City = region.Cities[rng.Intn(len(region.Cities))]
	rec.State = region.States[rng.Intn(len(region.States))]
	rec.Timezone = region.Timezone

	rec.Age = int64(SampleNumeric(ageSpec, rng))
	gender, err := SampleCategorical(catalog.Genders, rng)
	if err != nil {
		return rec, err
	}
	rec.Gender = gender

	rec.Email = sampleEmail(country, rng)
	rec.Phone = samplePhone(country, rng)

	// Digital footprint: browser and OS are drawn from the device's own
	// lists.
	device, err := SampleCategorical(catalog.DeviceTypes, rng)
	if err != nil {
		return rec, err
	}
	rec.DeviceType = device
	browsers := catalog.Browsers[device]
	rec.Browser = browsers[rng.Intn(len(browsers))]
	systems := catalog.OperatingSystems[device]
	rec.OperatingSystem = systems[rng.Intn(len(systems))]

	if err := sampleAttribution(&rec, rng); err != nil {
		return rec, err
	}

	// Behavioral pair.
	engagement, churn := SampleCorrelatedPair(engagementChurnSpec, rng)
	rec.EngagementScore = round3(engagement)
	rec.ChurnRisk = round3(churn)

	// Transactional fields, constrained by engagement.
	rec.OrderCount = sampleOrderCount(engagement, rng)
	rec.TotalSpend = sampleSpend(rec.OrderCount, rng)
	rec.LifetimeValue = projectLifetimeValue(rec.TotalSpend, rng)

	a.sampleTimestamps(&rec, rng)

	rec.Segment = assignSegment(rec.EngagementScore, rec.ChurnRisk, rec.OrderCount)
	rec.SessionID = sampleSessionID(index, rng)

	return rec, nil
}

// sampleEmail builds a mailbox-safe synthetic address with a country-local
// provider domain.
func sampleEmail(country string, rng *rand.Rand) string {
	domains, ok := catalog.EmailDomains[country]
	if !ok {
		domains = catalog.DefaultEmailDomains
	}
	domain := domains[rng.Intn(len(domains))]
	first := catalog.FirstNames[rng.Intn(len(catalog.FirstNames))]
	last := catalog.LastNames[rng.Intn(len(catalog.LastNames))]

	var local string
	switch rng.Intn(6) {
	case 0:
		local = first + "." + last
	case 1:
		local = first + last
	case 2:
		local = fmt.Sprintf("%s.%s%d", first, last, 1+rng.Intn(99))
	case 3:
		local = first[:1] + "." + last
	case 4:
		local = first + "." + last[:1]
	default:
		local = fmt.Sprintf("%s%d", first, 1980+rng.Intn(26))
	}
	return local + "@" + domain
}

// samplePhone formats a synthetic mobile number with the country prefix.
func samplePhone(country string, rng *rand.Rand) string {
	prefix, ok := catalog.PhonePrefixes[country]
	if !ok {
		prefix = "+65 9"
	}
	return fmt.Sprintf("%s %04d %04d", prefix, rng.Intn(10000), rng.Intn(10000))
}

// sampleAttribution fills the utm fields. Known customers lean towards
// direct/organic traffic, which carries no campaign.
func sampleAttribution(rec *core.CustomerRecord, rng *rand.Rand) error {
	if rng.Float64() < 0.3 {
		if rng.Float64() < 0.5 {
			rec.UTMSource = "organic"
			rec.UTMMedium = "organic"
		} else {
			rec.UTMSource = "direct"
			rec.UTMMedium = "direct"
		}
		rec.UTMCampaign = ""
		return nil
	}
	source, err := SampleCategorical(catalog.UTMSources, rng)
	if err != nil {
		return err
	}
	rec.UTMSource = source
	rec.UTMMedium = catalog.UTMMediums[rng.Intn(len(catalog.UTMMediums))]
	rec.UTMCampaign = catalog.UTMCampaigns[rng.Intn(len(catalog.UTMCampaigns))]
	return nil
}

// sampleOrderCount scales the order distribution by engagement. Disengaged
// customers are likely to have no purchase history at all.
func sampleOrderCount(engagement float64, rng *rand.Rand) int64 {
	if rng.Float64() < 0.35*(1-engagement) {
		return 0
	}
	mean := 0.5 + engagement*8
	spec := NumericSpec{Shape: ExponentialClamped, Min: 0, Max: maxOrders, Rate: 1 / mean}
	return int64(SampleNumeric(spec, rng))
}

// sampleSpend derives total spend from the order count and a per-order value
// draw. Spend is zero exactly when the order count is zero, and the average
// per order stays inside the plausible band; violating draws are resampled a
// bounded number of times, then clamped.
func sampleSpend(orders int64, rng *rand.Rand) float64 {
	if orders == 0 {
		return 0
	}
	perOrder := SampleNumeric(perOrderSpec, rng)
	for attempt := 0; attempt <= maxResamples; attempt++ {
		if perOrder >= minPerOrderSpend && perOrder <= maxPerOrderSpend {
			break
		}
		perOrder = SampleNumeric(perOrderSpec, rng)
	}
	perOrder = Clamp(perOrder, minPerOrderSpend, maxPerOrderSpend)
	return round2(float64(orders) * perOrder)
}

// projectLifetimeValue keeps lifetime value consistent with realized spend:
// zero with no purchase history, otherwise a modest projection above it.
func projectLifetimeValue(totalSpend float64, rng *rand.Rand) float64 {
	if totalSpend == 0 {
		return 0
	}
	return round2(totalSpend * (1.05 + rng.Float64()*0.75))
}

// sampleTimestamps draws account creation within the historical window, then
// last activity within [created, now].
func (a *Assembler) sampleTimestamps(rec *core.CustomerRecord, rng *rand.Rand) {
	window := int64((historyWindow - minAccountAge) / time.Second)
	offset := int64(minAccountAge/time.Second) + rng.Int63n(window)
	created := a.now.Add(-time.Duration(offset) * time.Second)

	idle := rng.Int63n(offset + 1)
	activity := created.Add(time.Duration(idle) * time.Second)
	if activity.After(a.now) {
		activity = a.now
	}

	rec.AccountCreatedAt = created
	rec.LastActivityAt = activity
}

// assignSegment maps behavioral outputs to a marketing segment. Rules are
// ordered by precedence.
func assignSegment(engagement, churn float64, orders int64) string {
	switch {
	case engagement > 0.85 && churn < 0.2:
		return "vip"
	case churn > 0.7:
		return "at-risk"
	case orders > 10:
		return "loyal"
	case engagement > 0.7:
		return "high-engagement"
	case engagement > 0.5:
		return "medium-engagement"
	case churn < 0.3 && engagement > 0.4:
		return "re-engaged"
	case orders < 2:
		return "new-customer"
	default:
		return "returning"
	}
}

// sampleSessionID derives a session identifier from the record's own stream,
// keeping it reproducible for a fixed run seed.
func sampleSessionID(index int64, rng *rand.Rand) string {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return fmt.Sprintf("SESS_%016X", index)
	}
	hex := strings.ToUpper(strings.ReplaceAll(id.String(), "-", ""))
	return "SESS_" + hex[:16]
}

func round2(v float64) float64 {
	return float64(int64(v*100+0.5)) / 100
}

func round3(v float64) float64 {
	return float64(int64(v*1000+0.5)) / 1000
}
