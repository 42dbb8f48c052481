package milestone

import (
	_ "embed"
	"fmt"
	"io"

	"github.com/siherrmann/worldgraph/helper"
	"github.com/siherrmann/worldgraph/model"
	"gopkg.in/yaml.v3"
)

//go:embed roadmap.yaml
var roadmapYaml []byte

// DefaultRoadmap returns the built-in milestone roadmap.
func DefaultRoadmap() []model.Milestone {
	var milestones []model.Milestone
	if err := yaml.Unmarshal(roadmapYaml, &milestones); err != nil {
		panic(fmt.Sprintf("invalid embedded roadmap: %v", err))
	}
	return milestones
}

// LoadRoadmap reads a YAML list of milestones. Unknown metrics are kept and
// evaluate as not instrumented.
func LoadRoadmap(r io.Reader) ([]model.Milestone, error) {
	var milestones []model.Milestone
	if err := yaml.NewDecoder(r).Decode(&milestones); err != nil {
		if err == io.EOF {
			return []model.Milestone{}, nil
		}
		return nil, helper.NewError("decode roadmap", err)
	}

	seen := map[string]bool{}
	for i, m := range milestones {
		if m.ID == "" {
			return nil, helper.NewError("validate roadmap", fmt.Errorf("milestone %d has no id", i))
		}
		if seen[m.ID] {
			return nil, helper.NewError("validate roadmap", fmt.Errorf("duplicate milestone id %q", m.ID))
		}
		seen[m.ID] = true
	}
	return milestones, nil
}
