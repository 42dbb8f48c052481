package milestone

import (
	"fmt"

	"github.com/siherrmann/worldgraph/model"
)

func graphCore(e *evaluation) result {
	artifacts := len(e.artifacts)
	if artifacts == 0 {
		return result{model.ObjectiveNotStarted, "Create your first artifact to start the graph."}
	}

	relations := 0
	for _, a := range e.artifacts {
		relations += len(a.Relations)
	}
	if relations > 0 {
		return result{model.ObjectiveComplete, fmt.Sprintf("%s across %s.", plural(relations, "relation"), plural(artifacts, "artifact"))}
	}
	return result{model.ObjectiveInProgress, fmt.Sprintf("%s, link two of them to complete.", plural(artifacts, "artifact"))}
}

func viewEngagement(e *evaluation) result {
	artifacts := len(e.artifacts)
	if artifacts == 0 {
		return result{model.ObjectiveNotStarted, "Add artifacts before exploring the graph view."}
	}
	viewed := e.ctx.Activity.ViewedGraph
	if artifacts >= 3 && viewed {
		return result{model.ObjectiveComplete, fmt.Sprintf("Graph explored with %s.", plural(artifacts, "artifact"))}
	}
	return result{model.ObjectiveInProgress, fmt.Sprintf("%d/3 artifacts · Graph viewed %s", artifacts, check(viewed))}
}

func csvFlows(e *evaluation) result {
	imported := e.ctx.Activity.ImportedCsv
	exported := e.ctx.Activity.ExportedData
	status, _ := tiered(imported, exported)
	return result{status, fmt.Sprintf("Import %s · Export %s", check(imported), check(exported))}
}

func githubImport(e *evaluation) result {
	if e.ctx.Activity.GithubImported {
		return result{model.ObjectiveComplete, "GitHub repository imported."}
	}
	if n := e.countType(model.ArtifactTypeRepository, model.ArtifactTypeIssue, model.ArtifactTypeRelease); n > 0 {
		return result{model.ObjectiveInProgress, fmt.Sprintf("%s tracked, run a GitHub import to complete.", plural(n, "repository artifact"))}
	}
	return result{model.ObjectiveNotStarted, "Import a repository from GitHub."}
}

func richEditors(e *evaluation) result {
	conlang := e.countType(model.ArtifactTypeConlang) > 0
	narrative := false
	for _, a := range e.artifacts {
		if a.Type.IsNarrative() {
			narrative = true
			break
		}
	}
	kanban := e.ctx.Activity.ViewedKanban

	status, _ := tiered(conlang, narrative, kanban)
	return result{status, fmt.Sprintf("Conlang %s · Narrative %s · Kanban %s", check(conlang), check(narrative), check(kanban))}
}

func progressionLoops(e *evaluation) result {
	done := 0
	for _, a := range e.artifacts {
		if a.Type == model.ArtifactTypeTask && model.DecodeTaskData(a.Data).State == model.TaskStateDone {
			done++
		}
	}
	xp := e.ctx.Profile.XP
	achievements := len(e.ctx.Profile.AchievementsUnlocked)
	detail := fmt.Sprintf("%s done · %d XP · %s", plural(done, "task"), xp, plural(achievements, "achievement"))

	earned := done > 0 || xp >= xpThreshold
	switch {
	case earned && achievements > 0:
		return result{model.ObjectiveComplete, detail}
	case !earned && achievements == 0:
		return result{model.ObjectiveNotStarted, detail}
	}
	return result{model.ObjectiveInProgress, detail}
}

func publishing(e *evaluation) result {
	if e.ctx.Activity.PublishedSite {
		return result{model.ObjectiveComplete, "Site published."}
	}
	wikis := e.countType(model.ArtifactTypeWiki)
	if e.ctx.Activity.ExportedData || wikis > 0 {
		return result{model.ObjectiveInProgress, fmt.Sprintf("%s ready · Export %s", plural(wikis, "wiki page"), check(e.ctx.Activity.ExportedData))}
	}
	return result{model.ObjectiveNotStarted, "Write a wiki page to publish."}
}

func releaseNotes(e *evaluation) result {
	if e.ctx.Activity.GeneratedReleaseNotes {
		return result{model.ObjectiveComplete, "Release notes generated."}
	}
	if n := e.countType(model.ArtifactTypeRelease); n > 0 {
		return result{model.ObjectiveInProgress, fmt.Sprintf("%s without notes.", plural(n, "release"))}
	}
	return result{model.ObjectiveNotStarted, "Create a release to draft notes."}
}

func searchFilters(e *evaluation) result {
	search := e.ctx.Activity.UsedSearch
	filters := e.ctx.Activity.UsedFilters
	status, _ := tiered(search, filters)
	return result{status, fmt.Sprintf("Search %s · Filters %s", check(search), check(filters))}
}

func magicSystems(e *evaluation) result {
	codex := e.summary().Codex
	if codex.Codices == 0 {
		return result{model.ObjectiveNotStarted, "Create a magic system codex."}
	}
	detail := fmt.Sprintf("%d/%d codices annotated · %s", codex.Annotated, codex.Codices, plural(codex.Constraints, "constraint"))
	if codex.Annotated >= 1 && codex.Constraints >= 1 {
		return result{model.ObjectiveComplete, detail}
	}
	return result{model.ObjectiveInProgress, detail}
}

func worldAge(e *evaluation) result {
	age := e.summary().WorldAge
	if age.Timelines == 0 {
		return result{model.ObjectiveNotStarted, "Create a timeline."}
	}
	span := age.SpanYears
	if span < 0 {
		span = -span
	}
	detail := fmt.Sprintf("%s · %s spanned", plural(age.DatedEvents, "dated event"), plural(span, "year"))
	if span >= 100 && age.DatedEvents >= 5 {
		return result{model.ObjectiveComplete, detail}
	}
	return result{model.ObjectiveInProgress, detail}
}

func factionConflicts(e *evaluation) result {
	factions := e.summary().Factions
	if factions.Factions == 0 {
		return result{model.ObjectiveNotStarted, "Create a faction."}
	}
	detail := fmt.Sprintf("%s linked · %s", plural(factions.Linked, "faction"), plural(factions.CrossRelations, "cross-faction relation"))
	if factions.Linked >= 2 && factions.CrossRelations >= 1 {
		return result{model.ObjectiveComplete, detail}
	}
	return result{model.ObjectiveInProgress, detail}
}

func npcMemory(e *evaluation) result {
	memory := e.summary().NPCMemory
	if memory.Actors == 0 && memory.Bridges == 0 {
		return result{model.ObjectiveNotStarted, "Create a character."}
	}
	detail := fmt.Sprintf("%s anchored · %s", plural(memory.Anchored, "actor"), plural(memory.Bridges, "bridge"))
	if memory.Anchored >= 2 || memory.Bridges > 0 {
		return result{model.ObjectiveComplete, detail}
	}
	return result{model.ObjectiveInProgress, detail}
}

func futurePhase(*evaluation) result {
	return result{model.ObjectiveNotStarted, detailFuturePhase}
}
