package endpoints

import "github.com/JonMunkholm/schoolreport/internal/core"

// Schools filters buildings by demographics and achievement.
var Schools = core.EndpointDefinition{
	Key:   "schools",
	Label: "Schools with attendance and achievement",
	Filters: core.MustFilterCatalog(concat(
		[]core.FilterSpec{core.TextContains("name", "b.name")},
		metricRanges("b", "enrollment", "attendancerate", "mobilityrate", "chronicabsenteeismrate"),
		metricRanges("ba", achievementMetrics...),
	)...),
	Select: `SELECT b.irn AS irn, b.name AS name, b.enrollment AS enrollment, ` +
		`b.attendancerate AS attendancerate, b.mobilityrate AS mobilityrate, ` +
		`b.chronicabsenteeismrate AS chronicabsenteeismrate, ` +
		`ba.perfindexscore AS perfindexscore, ba.studentslimited AS studentslimited, ` +
		`ba.studentsbasic AS studentsbasic, ba.studentsproficient AS studentsproficient, ` +
		`ba.studentsaccomplished AS studentsaccomplished, ba.studentsadvanced AS studentsadvanced, ` +
		`ba.studentsadvancedplus AS studentsadvancedplus ` +
		`FROM Building b ` +
		`LEFT JOIN BuildingAchievement ba ON b.irn = ba.irn`,
	OrderBy: "b.name",
}

// HighSchools lists every high school building. It accepts no filters.
var HighSchools = core.EndpointDefinition{
	Key:     "highschools",
	Label:   "High school buildings",
	Filters: core.MustFilterCatalog(),
	Select:  `SELECT irn, name FROM Building`,
	Where:   `level = 'High'`,
	OrderBy: "name",
}

func init() {
	core.Register(Schools)
	core.Register(HighSchools)
}
