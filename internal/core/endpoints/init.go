// Package endpoints registers every filterable query endpoint with the core
// registry. Import it for side effects wherever the registry is read.
package endpoints

import "github.com/JonMunkholm/schoolreport/internal/core"

// achievementMetrics are the proficiency columns shared by district and building achievement tables.
var achievementMetrics = []string{
	"perfindexscore",
	"studentsproficient",
	"studentsadvanced",
	"studentsadvancedplus",
	"studentslimited",
	"studentsbasic",
	"studentsaccomplished",
}

// metricRanges expands each metric into its _min/_max pair on alias.metric.
func metricRanges(alias string, metrics ...string) []core.FilterSpec {
	var specs []core.FilterSpec
	for _, m := range metrics {
		specs = append(specs, core.NumericRange(m, alias+"."+m)...)
	}
	return specs
}
