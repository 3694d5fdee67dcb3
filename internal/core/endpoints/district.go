package endpoints

import "github.com/JonMunkholm/schoolreport/internal/core"

// District filters the district list joined with achievement data and the
// number of schools that belong to each district.
var District = core.EndpointDefinition{
	Key:   "district",
	Label: "Districts with achievement and school count",
	Filters: core.MustFilterCatalog(concat(
		[]core.FilterSpec{core.TextContains("name", "d.name")},
		metricRanges("da", achievementMetrics...),
		core.AggregateRange("schoolcount", "COUNT(bt.districtirn)"),
	)...),
	Select: `SELECT d.irn AS irn, d.name AS name, ` +
		`da.perfindexscore AS perfindexscore, da.studentslimited AS studentslimited, ` +
		`da.studentsbasic AS studentsbasic, da.studentsproficient AS studentsproficient, ` +
		`da.studentsaccomplished AS studentsaccomplished, da.studentsadvanced AS studentsadvanced, ` +
		`da.studentsadvancedplus AS studentsadvancedplus, COUNT(bt.districtirn) AS schoolcount ` +
		`FROM District d ` +
		`LEFT JOIN BelongsTo bt ON d.irn = bt.districtirn ` +
		`LEFT JOIN DistrictAchievement da ON d.irn = da.irn`,
	GroupBy: `d.irn, d.name, da.perfindexscore, da.studentslimited, da.studentsbasic, ` +
		`da.studentsproficient, da.studentsaccomplished, da.studentsadvanced, da.studentsadvancedplus`,
	OrderBy: "d.name",
}

func init() {
	core.Register(District)
}

func concat(groups ...[]core.FilterSpec) []core.FilterSpec {
	var out []core.FilterSpec
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
