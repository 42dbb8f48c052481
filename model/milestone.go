package model

// Metric selects the evaluation strategy of an objective.
type Metric string

const (
	MetricGraphCore        Metric = "graph-core"
	MetricViewEngagement   Metric = "view-engagement"
	MetricCsvFlows         Metric = "csv-flows"
	MetricGithubImport     Metric = "github-import"
	MetricRichEditors      Metric = "rich-editors"
	MetricProgressionLoops Metric = "progression-loops"
	MetricPublishing       Metric = "publishing"
	MetricReleaseNotes     Metric = "release-notes"
	MetricSearchFilters    Metric = "search-filters"
	MetricMagicSystems     Metric = "magic-systems"
	MetricWorldAge         Metric = "world-age"
	MetricFactionConflicts Metric = "faction-conflicts"
	MetricNpcMemory        Metric = "npc-memory"
	MetricPluginAPI        Metric = "plugin-api"
	MetricThemingOffline   Metric = "theming-offline"
)

// Objective is a single measurable checkpoint of a milestone.
type Objective struct {
	ID          string `json:"id" yaml:"id"`
	Description string `json:"description" yaml:"description"`
	Metric      Metric `json:"metric" yaml:"metric"`
}

// Milestone is a static roadmap entry.
type Milestone struct {
	ID         string      `json:"id" yaml:"id"`
	Title      string      `json:"title" yaml:"title"`
	Timeline   string      `json:"timeline" yaml:"timeline"`
	Focus      string      `json:"focus" yaml:"focus"`
	Objectives []Objective `json:"objectives" yaml:"objectives"`
}

// ObjectiveStatus is the evaluated state of an objective.
type ObjectiveStatus string

const (
	ObjectiveNotStarted ObjectiveStatus = "not-started"
	ObjectiveInProgress ObjectiveStatus = "in-progress"
	ObjectiveComplete   ObjectiveStatus = "complete"
)

// ObjectiveProgress is the evaluation of one objective.
type ObjectiveProgress struct {
	Objective Objective       `json:"objective"`
	Status    ObjectiveStatus `json:"status"`
	Detail    string          `json:"detail"`
}

// MilestoneProgressOverview is the evaluation of one milestone.
type MilestoneProgressOverview struct {
	Milestone      Milestone           `json:"milestone"`
	Objectives     []ObjectiveProgress `json:"objectives"`
	CompletedCount int                 `json:"completed_count"`
	Completion     float64             `json:"completion"` // 0..1
}
