package model

import "strings"

// ActivityFlag names a single user action recorded in ProjectActivity.
type ActivityFlag string

const (
	ActivityViewedGraph           ActivityFlag = "viewed_graph"
	ActivityViewedKanban          ActivityFlag = "viewed_kanban"
	ActivityImportedCsv           ActivityFlag = "imported_csv"
	ActivityExportedData          ActivityFlag = "exported_data"
	ActivityPublishedSite         ActivityFlag = "published_site"
	ActivityGeneratedReleaseNotes ActivityFlag = "generated_release_notes"
	ActivityGithubImported        ActivityFlag = "github_imported"
	ActivityUsedSearch            ActivityFlag = "used_search"
	ActivityUsedFilters           ActivityFlag = "used_filters"
)

// ActivityFlags lists every flag in declaration order.
var ActivityFlags = []ActivityFlag{
	ActivityViewedGraph,
	ActivityViewedKanban,
	ActivityImportedCsv,
	ActivityExportedData,
	ActivityPublishedSite,
	ActivityGeneratedReleaseNotes,
	ActivityGithubImported,
	ActivityUsedSearch,
	ActivityUsedFilters,
}

// ParseActivityFlag accepts snake_case, kebab-case or camelCase flag names.
func ParseActivityFlag(s string) (ActivityFlag, bool) {
	key := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.TrimSpace(s)))
	for _, f := range ActivityFlags {
		if strings.ReplaceAll(string(f), "_", "") == key {
			return f, true
		}
	}
	return "", false
}

// ProjectActivity records which features the user has exercised in a project.
// Flags only ever flip from false to true.
type ProjectActivity struct {
	ViewedGraph           bool `json:"viewed_graph" yaml:"viewed_graph"`
	ViewedKanban          bool `json:"viewed_kanban" yaml:"viewed_kanban"`
	ImportedCsv           bool `json:"imported_csv" yaml:"imported_csv"`
	ExportedData          bool `json:"exported_data" yaml:"exported_data"`
	PublishedSite         bool `json:"published_site" yaml:"published_site"`
	GeneratedReleaseNotes bool `json:"generated_release_notes" yaml:"generated_release_notes"`
	GithubImported        bool `json:"github_imported" yaml:"github_imported"`
	UsedSearch            bool `json:"used_search" yaml:"used_search"`
	UsedFilters           bool `json:"used_filters" yaml:"used_filters"`
}

func (a *ProjectActivity) field(flag ActivityFlag) *bool {
	switch flag {
	case ActivityViewedGraph:
		return &a.ViewedGraph
	case ActivityViewedKanban:
		return &a.ViewedKanban
	case ActivityImportedCsv:
		return &a.ImportedCsv
	case ActivityExportedData:
		return &a.ExportedData
	case ActivityPublishedSite:
		return &a.PublishedSite
	case ActivityGeneratedReleaseNotes:
		return &a.GeneratedReleaseNotes
	case ActivityGithubImported:
		return &a.GithubImported
	case ActivityUsedSearch:
		return &a.UsedSearch
	case ActivityUsedFilters:
		return &a.UsedFilters
	}
	return nil
}

// Has reports whether flag is set. Unknown flags are never set.
func (a ProjectActivity) Has(flag ActivityFlag) bool {
	f := a.field(flag)
	return f != nil && *f
}

// With returns a copy with flag set. The bool is false for unknown flags.
func (a ProjectActivity) With(flag ActivityFlag) (ProjectActivity, bool) {
	f := a.field(flag)
	if f == nil {
		return a, false
	}
	*f = true
	return a, true
}
