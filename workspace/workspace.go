// Package workspace stores a single project in a YAML file, for use without a
// database.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/siherrmann/worldgraph/helper"
	"github.com/siherrmann/worldgraph/model"
	"gopkg.in/yaml.v3"
)

// DefaultFileName is used when a workspace directory is given instead of a file.
const DefaultFileName = "worldgraph.yaml"

// File is the on-disk layout of a workspace.
type File struct {
	Project   model.Project         `yaml:"project"`
	Profile   model.Profile         `yaml:"profile"`
	Activity  model.ProjectActivity `yaml:"activity"`
	Artifacts []*model.Artifact     `yaml:"artifacts"`
}

// FileStore keeps a workspace file in memory and writes it back on every change.
// It implements graph.Store and activity.Recorder.
type FileStore struct {
	mu   sync.Mutex
	path string
	file File
}

// ResolvePath turns a directory into the workspace file inside it.
func ResolvePath(path string) string {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return filepath.Join(path, DefaultFileName)
	}
	return path
}

// Open loads the workspace at path.
func Open(path string) (*FileStore, error) {
	path = ResolvePath(path)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, helper.NewError("read workspace", err)
	}

	store := &FileStore{path: path}
	if err := yaml.Unmarshal(raw, &store.file); err != nil {
		return nil, helper.NewError("decode workspace", err)
	}
	for _, a := range store.file.Artifacts {
		if a != nil && a.ProjectID == "" {
			a.ProjectID = store.file.Project.ID
		}
	}

	return store, nil
}

// Create writes a new, empty workspace. Existing files are not overwritten.
func Create(path string, title string) (*FileStore, error) {
	path = ResolvePath(path)
	if _, err := os.Stat(path); err == nil {
		return nil, helper.NewError("create workspace", fmt.Errorf("%s already exists", path))
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, helper.NewError("stat workspace", err)
	}

	store := &FileStore{
		path: path,
		file: File{
			Project: model.Project{
				ID:        uuid.NewString(),
				Title:     title,
				CreatedAt: time.Now().UTC(),
			},
			Artifacts: []*model.Artifact{},
		},
	}
	if err := store.save(); err != nil {
		return nil, err
	}
	return store, nil
}

// Path returns the workspace file path.
func (s *FileStore) Path() string {
	return s.path
}

// Project returns the workspace project.
func (s *FileStore) Project() model.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Project
}

// Profile returns the stored profile.
func (s *FileStore) Profile() model.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.file.Profile
	p.AchievementsUnlocked = append([]string(nil), p.AchievementsUnlocked...)
	return p
}

// Activity returns the stored activity record.
func (s *FileStore) Activity() model.ProjectActivity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Activity
}

// Artifacts returns copies of all artifacts in file order.
func (s *FileStore) Artifacts() []*model.Artifact {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*model.Artifact, 0, len(s.file.Artifacts))
	for _, a := range s.file.Artifacts {
		if a != nil {
			out = append(out, a.Clone())
		}
	}
	return out
}

// InsertArtifact appends an artifact to the workspace project.
func (s *FileStore) InsertArtifact(ctx context.Context, artifact *model.Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if artifact.ID == "" {
		artifact.ID = uuid.NewString()
	}
	if s.index(artifact.ID) >= 0 {
		return helper.NewError("insert artifact", fmt.Errorf("artifact %s already exists", artifact.ID))
	}

	now := time.Now().UTC()
	artifact.ProjectID = s.file.Project.ID
	artifact.Tags = model.NormalizeTags(artifact.Tags)
	if artifact.Relations == nil {
		artifact.Relations = model.Relations{}
	}
	artifact.CreatedAt = now
	artifact.UpdatedAt = now

	s.file.Artifacts = append(s.file.Artifacts, artifact.Clone())
	return s.save()
}

// UpdateArtifact applies a partial update and saves. Unknown ids return (nil, nil).
func (s *FileStore) UpdateArtifact(ctx context.Context, id string, patch model.ArtifactPatch) (*model.Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil, nil
	}

	updated := s.file.Artifacts[i].Apply(patch)
	updated.UpdatedAt = time.Now().UTC()
	previous := s.file.Artifacts[i]
	s.file.Artifacts[i] = updated

	if err := s.save(); err != nil {
		s.file.Artifacts[i] = previous
		return nil, err
	}
	return updated.Clone(), nil
}

// DeleteArtifact removes an artifact. Unknown ids are ignored.
func (s *FileStore) DeleteArtifact(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.index(id)
	if i < 0 {
		return nil
	}
	previous := s.file.Artifacts
	artifacts := make([]*model.Artifact, 0, len(previous)-1)
	artifacts = append(artifacts, previous[:i]...)
	s.file.Artifacts = append(artifacts, previous[i+1:]...)

	if err := s.save(); err != nil {
		s.file.Artifacts = previous
		return err
	}
	return nil
}

// MarkActivity sets an activity flag of the workspace project.
func (s *FileStore) MarkActivity(ctx context.Context, projectID string, flag model.ActivityFlag) (*model.ProjectActivity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if projectID != s.file.Project.ID {
		return nil, helper.NewError("mark activity", fmt.Errorf("project %s is not stored in this workspace", projectID))
	}
	updated, ok := s.file.Activity.With(flag)
	if !ok {
		return nil, helper.NewError("mark activity", fmt.Errorf("unknown activity flag %s", flag))
	}
	if updated == s.file.Activity {
		return &updated, nil
	}

	previous := s.file.Activity
	s.file.Activity = updated
	if err := s.save(); err != nil {
		s.file.Activity = previous
		return nil, err
	}
	return &updated, nil
}

// UpdateProfile replaces the stored profile.
func (s *FileStore) UpdateProfile(ctx context.Context, profile model.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	previous := s.file.Profile
	s.file.Profile = profile
	if err := s.save(); err != nil {
		s.file.Profile = previous
		return err
	}
	return nil
}

func (s *FileStore) index(id string) int {
	for i, a := range s.file.Artifacts {
		if a != nil && a.ID == id {
			return i
		}
	}
	return -1
}

// save writes a temporary file and renames it over the workspace.
func (s *FileStore) save() error {
	raw, err := yaml.Marshal(&s.file)
	if err != nil {
		return helper.NewError("encode workspace", err)
	}

	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return helper.NewError("create workspace dir", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return helper.NewError("write workspace", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return helper.NewError("replace workspace", err)
	}
	return nil
}
