// Package catalog holds the static weighted catalogs the generator draws
// from. All tables are loaded once as package-level values and never mutated.
package catalog

// Entry is one categorical value with its sampling weight.
type Entry struct {
	Value  string
	Weight float64
}

// Table is an immutable weighted catalog of categorical values.
type Table struct {
	Name    string
	Entries []Entry
}

// TotalWeight returns the sum of all entry weights.
func (t Table) TotalWeight() float64 {
	var sum float64
	for _, e := range t.Entries {
		sum += e.Weight
	}
	return sum
}

// Values returns the catalog values without weights.
func (t Table) Values() []string {
	vals := make([]string, len(t.Entries))
	for i, e := range t.Entries {
		vals[i] = e.Value
	}
	return vals
}

// Region pairs a country with its cities, states and timezone so geographic
// fields are always drawn jointly and never contradict each other.
type Region struct {
	Country  string
	Weight   float64
	Cities   []string
	States   []string
	Timezone string
}

// Regions is the APJ market catalog. Weights reflect relative market size.
var Regions = []Region{
	{Country: "Australia", Weight: 15, Cities: []string{"Sydney", "Melbourne", "Brisbane", "Perth"}, States: []string{"NSW", "VIC", "QLD", "WA"}, Timezone: "AEDT"},
	{Country: "Japan", Weight: 20, Cities: []string{"Tokyo", "Osaka", "Yokohama", "Nagoya"}, States: []string{"Tokyo", "Osaka", "Kanagawa", "Aichi"}, Timezone: "JST"},
	{Country: "South Korea", Weight: 12, Cities: []string{"Seoul", "Busan", "Incheon", "Daegu"}, States: []string{"Seoul", "Busan", "Incheon", "Daegu"}, Timezone: "KST"},
	{Country: "China", Weight: 25, Cities: []string{"Shanghai", "Beijing", "Guangzhou", "Shenzhen"}, States: []string{"Shanghai", "Beijing", "Guangdong", "Guangdong"}, Timezone: "CST"},
	{Country: "India", Weight: 18, Cities: []string{"Mumbai", "Delhi", "Bangalore", "Chennai"}, States: []string{"Maharashtra", "Delhi", "Karnataka", "Tamil Nadu"}, Timezone: "IST"},
	{Country: "Singapore", Weight: 5, Cities: []string{"Singapore"}, States: []string{"Singapore"}, Timezone: "SGT"},
	{Country: "Thailand", Weight: 3, Cities: []string{"Bangkok", "Chiang Mai"}, States: []string{"Bangkok", "Chiang Mai"}, Timezone: "ICT"},
	{Country: "Malaysia", Weight: 2, Cities: []string{"Kuala Lumpur", "Penang"}, States: []string{"Selangor", "Penang"}, Timezone: "MYT"},
}

// RegionTable exposes the region catalog as a weighted table over countries.
func RegionTable() Table {
	entries := make([]Entry, len(Regions))
	for i, r := range Regions {
		entries[i] = Entry{Value: r.Country, Weight: r.Weight}
	}
	return Table{Name: "geo_country", Entries: entries}
}

// RegionByCountry returns the region for a country, or false if unknown.
func RegionByCountry(country string) (Region, bool) {
	for _, r := range Regions {
		if r.Country == country {
			return r, true
		}
	}
	return Region{}, false
}

// ValidPair reports whether the (country, city) pair is a member of the
// region catalog.
func ValidPair(country, city string) bool {
	region, ok := RegionByCountry(country)
	if !ok {
		return false
	}
	for _, c := range region.Cities {
		if c == city {
			return true
		}
	}
	return false
}

// DeviceTypes is the device mix for web traffic, mobile-heavy for APJ.
var DeviceTypes = Table{
	Name: "device_type",
	Entries: []Entry{
		{Value: "mobile", Weight: 65},
		{Value: "desktop", Weight: 25},
		{Value: "tablet", Weight: 10},
	},
}

// Browsers lists the plausible browsers per device type.
var Browsers = map[string][]string{
	"mobile":  {"Chrome Mobile", "Safari Mobile", "Samsung Internet", "Firefox Mobile"},
	"desktop": {"Chrome", "Safari", "Firefox", "Edge"},
	"tablet":  {"Chrome Mobile", "Safari Mobile"},
}

// OperatingSystems lists the plausible operating systems per device type.
var OperatingSystems = map[string][]string{
	"mobile":  {"Android", "iOS"},
	"desktop": {"Windows", "macOS", "Linux"},
	"tablet":  {"Android", "iOS"},
}

// Genders is the gender catalog.
var Genders = Table{
	Name: "gender",
	Entries: []Entry{
		{Value: "female", Weight: 48},
		{Value: "male", Weight: 48},
		{Value: "non-binary", Weight: 2},
		{Value: "undisclosed", Weight: 2},
	},
}

// UTMSources is the paid/earned traffic source catalog.
var UTMSources = Table{
	Name: "utm_source",
	Entries: []Entry{
		{Value: "google", Weight: 22},
		{Value: "facebook", Weight: 14},
		{Value: "instagram", Weight: 12},
		{Value: "linkedin", Weight: 8},
		{Value: "twitter", Weight: 7},
		{Value: "tiktok", Weight: 10},
		{Value: "youtube", Weight: 11},
		{Value: "bing", Weight: 6},
		{Value: "direct", Weight: 5},
		{Value: "organic", Weight: 5},
	},
}

// UTMMediums lists attribution mediums for campaign traffic.
var UTMMediums = []string{"cpc", "organic", "social", "email", "referral", "direct", "display", "video"}

// UTMCampaigns lists retention-oriented campaign names.
var UTMCampaigns = []string{"customer_retention", "loyalty_program", "new_product_launch", "personalized_offer", "winback_campaign"}

// EmailDomains maps countries to common consumer mail providers.
var EmailDomains = map[string][]string{
	"Australia":   {"gmail.com", "yahoo.com.au", "outlook.com.au", "bigpond.com", "optusnet.com.au"},
	"Japan":       {"gmail.com", "yahoo.co.jp", "outlook.jp", "nifty.com", "biglobe.ne.jp"},
	"South Korea": {"gmail.com", "naver.com", "daum.net", "hanmail.net", "korea.com"},
	"China":       {"gmail.com", "qq.com", "163.com", "126.com", "sina.com"},
	"India":       {"gmail.com", "yahoo.in", "rediffmail.com", "outlook.in", "hotmail.com"},
	"Singapore":   {"gmail.com", "yahoo.com.sg", "outlook.sg", "singnet.com.sg"},
	"Thailand":    {"gmail.com", "yahoo.co.th", "hotmail.com", "outlook.co.th"},
	"Malaysia":    {"gmail.com", "yahoo.com.my", "hotmail.my", "outlook.my"},
}

// DefaultEmailDomains is the fallback when a country has no entry.
var DefaultEmailDomains = []string{"gmail.com", "yahoo.com", "outlook.com"}

// PhonePrefixes maps countries to mobile dialing prefixes.
var PhonePrefixes = map[string]string{
	"Australia":   "+61 4",
	"Japan":       "+81 90",
	"South Korea": "+82 10",
	"China":       "+86 138",
	"India":       "+91 98",
	"Singapore":   "+65 9",
	"Thailand":    "+66 8",
	"Malaysia":    "+60 12",
}

// FirstNames and LastNames seed the synthetic email local parts. ASCII only
// so addresses stay mailbox-safe across locales.
var FirstNames = []string{
	"liam", "emma", "noah", "mia", "kenji", "yui", "haruto", "sakura",
	"minjun", "seoyeon", "jihoon", "wei", "li", "chen", "mei",
	"arjun", "priya", "rahul", "ananya", "ethan", "chloe", "aisha", "farid",
	"somchai", "mali", "daniel", "grace", "ryan", "hana", "lucas", "zara",
}

var LastNames = []string{
	"smith", "jones", "taylor", "tanaka", "sato", "suzuki", "takahashi",
	"kim", "lee", "park", "choi", "wang", "zhang", "liu", "chen",
	"sharma", "patel", "singh", "kumar", "tan", "lim", "ng", "wong",
	"abdullah", "ismail", "chaiyasit", "nguyen", "brown", "wilson", "white",
}

// Segments is the full set of behavioral segments the assembler can assign.
var Segments = []string{
	"vip", "high-engagement", "at-risk", "loyal", "medium-engagement",
	"re-engaged", "new-customer", "returning",
}
