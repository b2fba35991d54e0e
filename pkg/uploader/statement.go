package uploader

import (
	"strconv"
	"strings"
	"time"

	"github.com/synthlab/synth360/pkg/core"
)

const sqlTimeLayout = "2006-01-02 15:04:05"

// createTableSQL builds the create-or-replace statement defining the
// destination schema in export column order.
func createTableSQL(table string) string {
	var b strings.Builder
	b.WriteString("CREATE OR REPLACE TABLE ")
	b.WriteString(table)
	b.WriteString(" (\n")
	cols := []string{
		"ordinal BIGINT",
		"customer_id VARCHAR",
		"session_id VARCHAR",
		"age BIGINT",
		"gender VARCHAR",
		"geo_country VARCHAR",
		"geo_state VARCHAR",
		"geo_city VARCHAR",
		"timezone VARCHAR",
		"email VARCHAR",
		"phone_number VARCHAR",
		"device_type VARCHAR",
		"browser_name VARCHAR",
		"operating_system VARCHAR",
		"utm_source VARCHAR",
		"utm_medium VARCHAR",
		"utm_campaign VARCHAR",
		"engagement_score DOUBLE",
		"churn_risk_score DOUBLE",
		"lifetime_value DOUBLE",
		"segment VARCHAR",
		"order_count BIGINT",
		"total_spend DOUBLE",
		"account_created_at TIMESTAMP",
		"last_activity_at TIMESTAMP",
	}
	b.WriteString("    " + strings.Join(cols, ",\n    "))
	b.WriteString("\n)")
	return b.String()
}

// insertSQL builds a multi-row INSERT statement for one chunk.
func insertSQL(table string, records []core.CustomerRecord) string {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(core.Columns(), ", "))
	b.WriteString(") VALUES ")

	for i, rec := range records {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(rowValues(rec))
	}
	return b.String()
}

// rowValues renders one record as a SQL tuple in export column order.
func rowValues(rec core.CustomerRecord) string {
	vals := []string{
		strconv.FormatInt(rec.Ordinal, 10),
		quote(rec.CustomerID),
		quote(rec.SessionID),
		strconv.FormatInt(rec.Age, 10),
		quote(rec.Gender),
		quote(rec.Country),
		quote(rec.State),
		quote(rec.City),
		quote(rec.Timezone),
		quote(rec.Email),
		quote(rec.Phone),
		quote(rec.DeviceType),
		quote(rec.Browser),
		quote(rec.OperatingSystem),
		quote(rec.UTMSource),
		quote(rec.UTMMedium),
		quoteNullable(rec.UTMCampaign),
		formatFloat(rec.EngagementScore),
		formatFloat(rec.ChurnRisk),
		formatFloat(rec.LifetimeValue),
		quote(rec.Segment),
		strconv.FormatInt(rec.OrderCount, 10),
		formatFloat(rec.TotalSpend),
		quoteTime(rec.AccountCreatedAt),
		quoteTime(rec.LastActivityAt),
	}
	return "(" + strings.Join(vals, ", ") + ")"
}

func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// quoteNullable maps an empty string to SQL NULL. Direct/organic traffic has
// no campaign.
func quoteNullable(s string) string {
	if s == "" {
		return "NULL"
	}
	return quote(s)
}

func quoteTime(t time.Time) string {
	return "'" + t.UTC().Format(sqlTimeLayout) + "'"
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
