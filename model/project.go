package model

import "time"

// Project groups the artifacts of one world.
type Project struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Summary   string    `json:"summary,omitempty" yaml:"summary,omitempty"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Profile is the read-only progression state of the current user.
type Profile struct {
	XP                   int      `json:"xp" yaml:"xp"`
	AchievementsUnlocked []string `json:"achievements_unlocked" yaml:"achievements_unlocked"`
}
