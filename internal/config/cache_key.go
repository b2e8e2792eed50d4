package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AttemptSnapshotKey returns the cache key for an attempt's engine snapshot.
func (r *CacheKeyStruct) AttemptSnapshotKey(attemptID string) string {
	return fmt.Sprintf("attempt:%s:snapshot", attemptID)
}

// AttemptStartKey returns the cache key for an attempt's start timestamp.
func (r *CacheKeyStruct) AttemptStartKey(attemptID string) string {
	return fmt.Sprintf("attempt:%s:started_at", attemptID)
}

// TryoutPaperKey returns the cache key for a tryout's student-facing paper.
func (r *CacheKeyStruct) TryoutPaperKey(tryoutID string) string {
	return fmt.Sprintf("tryout:%s:paper", tryoutID)
}

// StudentActiveAttemptKey returns the cache key for a student's currently
// active attempt.
func (r *CacheKeyStruct) StudentActiveAttemptKey(studentID int) string {
	return fmt.Sprintf("student:%d:active_attempt", studentID)
}

var CacheKey = NewCacheKeyStruct()
