package endpoints

import "github.com/JonMunkholm/schoolreport/internal/core"

// highSchoolMetrics map filter prefixes to HighSchoolAchievement columns.
var highSchoolMetrics = []struct {
	prefix string
	column string
}{
	{"pathcompleted", "h.pathcompletedpc"},
	{"satsatisfactory", "h.satsatisfactorypc"},
	{"honordiploma", "h.honordiplomapc"},
	{"apiboutstanding", "h.apiboutstandingpc"},
	{"careerready", "h.careerreadypc"},
	{"dualready", "h.dualreadypc"},
	{"militaryenlisted", "h.militaryenlistedpc"},
	{"techproficiency", "h.techproficiencypc"},
	{"wblcompletion", "h.wblcompletionpc"},
	{"fouryeargradrate", "h.fouryeargradrate"},
}

// HighSchoolAchievement filters graduation and readiness outcomes.
var HighSchoolAchievement = core.EndpointDefinition{
	Key:     "highschoolachievement",
	Label:   "High school graduation and readiness outcomes",
	Filters: core.MustFilterCatalog(highSchoolFilters()...),
	Select: `SELECT h.irn AS irn, b.name AS name, ` +
		`h.pathcompletedpc AS pathcompletedpc, h.satsatisfactorypc AS satsatisfactorypc, ` +
		`h.honordiplomapc AS honordiplomapc, h.apiboutstandingpc AS apiboutstandingpc, ` +
		`h.careerreadypc AS careerreadypc, h.dualreadypc AS dualreadypc, ` +
		`h.militaryenlistedpc AS militaryenlistedpc, h.techproficiencypc AS techproficiencypc, ` +
		`h.wblcompletionpc AS wblcompletionpc, h.fouryeargradrate AS fouryeargradrate ` +
		`FROM HighSchoolAchievement h ` +
		`LEFT JOIN Building b ON h.irn = b.irn`,
	OrderBy: "b.name",
}

func highSchoolFilters() []core.FilterSpec {
	specs := []core.FilterSpec{core.TextContains("name", "b.name")}
	for _, m := range highSchoolMetrics {
		specs = append(specs, core.NumericRange(m.prefix, m.column)...)
	}
	return specs
}

func init() {
	core.Register(HighSchoolAchievement)
}
