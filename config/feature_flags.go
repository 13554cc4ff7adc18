package config

import (
	"hash/fnv"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"
)

// FeatureFlags manages feature toggles for the dashboard.
// Supports gradual rollout and per-student overrides so new panels
// can be trialled with a subset of the campus before going wide.
type FeatureFlags struct {
	mu sync.RWMutex

	// Core features
	features map[string]*Feature

	// Override rules (for testing/debugging)
	studentOverrides map[string]map[string]bool // studentID -> feature -> enabled
}

// Feature represents a single feature flag.
type Feature struct {
	Name        string
	Description string
	Enabled     bool

	// Rollout percentage (0-100)
	// Students are assigned based on hash of their ID
	RolloutPercent int

	// Time-based activation
	EnabledFrom  *time.Time
	EnabledUntil *time.Time
}

// FeatureContext provides context for feature flag evaluation.
type FeatureContext struct {
	StudentID string // campus identifier (e.g. "S001")
	IsAdmin   bool   // admins see everything
}

// Predefined feature flag names.
const (
	// === Dashboard panels ===
	FeatureDashboardDuesSummary = "dashboard.dues_summary" // outstanding dues total
	FeatureDashboardRiskMatrix  = "dashboard.risk_matrix"  // risk level breakdown
	FeatureDashboardCrowdLevels = "dashboard.crowd_levels" // bus occupancy breakdown

	// === Transit ===
	FeatureTransitLiveStatus = "transit.live_status" // delayed / on-time badges

	// === Auth ===
	FeatureAuthRememberMe = "auth.remember_me" // persisted session restore

	// === Assistant ===
	FeatureAssistantRiskAnalysis = "assistant.risk_analysis" // AI at-risk summary
	FeatureAssistantChat         = "assistant.chat"          // ScholarBot chat
	FeatureAssistantLocations    = "assistant.locations"     // campus location lookup
)

// LoadFeatureFlags loads feature flags from environment variables.
func LoadFeatureFlags() *FeatureFlags {
	ff := &FeatureFlags{
		features:         make(map[string]*Feature),
		studentOverrides: make(map[string]map[string]bool),
	}

	ff.initializeDefaults()
	ff.loadFromEnvironment()

	return ff
}

// initializeDefaults sets up all features with default values.
func (ff *FeatureFlags) initializeDefaults() {
	// Dashboard panels ship enabled
	ff.features[FeatureDashboardDuesSummary] = &Feature{
		Name:           FeatureDashboardDuesSummary,
		Description:    "Show outstanding dues total on the dashboard",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureDashboardRiskMatrix] = &Feature{
		Name:           FeatureDashboardRiskMatrix,
		Description:    "Show risk level breakdown",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureDashboardCrowdLevels] = &Feature{
		Name:           FeatureDashboardCrowdLevels,
		Description:    "Show bus crowd level breakdown",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureTransitLiveStatus] = &Feature{
		Name:           FeatureTransitLiveStatus,
		Description:    "Show delayed and on-time badges for routes",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureAuthRememberMe] = &Feature{
		Name:           FeatureAuthRememberMe,
		Description:    "Persist sessions across restarts",
		Enabled:        true,
		RolloutPercent: 100,
	}

	// Assistant features depend on an API key, keep them togglable
	ff.features[FeatureAssistantRiskAnalysis] = &Feature{
		Name:           FeatureAssistantRiskAnalysis,
		Description:    "AI summary of at-risk students",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureAssistantChat] = &Feature{
		Name:           FeatureAssistantChat,
		Description:    "ScholarBot chat endpoint",
		Enabled:        true,
		RolloutPercent: 100,
	}

	ff.features[FeatureAssistantLocations] = &Feature{
		Name:           FeatureAssistantLocations,
		Description:    "Campus location lookup",
		Enabled:        true,
		RolloutPercent: 50, // Gradual rollout
	}
}

// loadFromEnvironment loads feature flag overrides from env vars.
// Format: FEATURE_<NAME>=true|false|<percent>
// Example: FEATURE_ASSISTANT_CHAT=false
// Example: FEATURE_ASSISTANT_LOCATIONS=50 (50% rollout)
func (ff *FeatureFlags) loadFromEnvironment() {
	for name, feature := range ff.features {
		envKey := featureNameToEnvKey(name)
		if val := os.Getenv(envKey); val != "" {
			// Try parsing as boolean
			if b, err := strconv.ParseBool(val); err == nil {
				feature.Enabled = b
				if b {
					feature.RolloutPercent = 100
				} else {
					feature.RolloutPercent = 0
				}
				continue
			}

			// Try parsing as percentage
			if p, err := strconv.Atoi(val); err == nil && p >= 0 && p <= 100 {
				feature.Enabled = p > 0
				feature.RolloutPercent = p
			}
		}
	}
}

// featureNameToEnvKey converts feature name to environment variable key.
// "assistant.chat" -> "FEATURE_ASSISTANT_CHAT"
func featureNameToEnvKey(name string) string {
	key := strings.ToUpper(name)
	key = strings.ReplaceAll(key, ".", "_")
	return "FEATURE_" + key
}

// IsEnabled checks if a feature is enabled for the given context.
func (ff *FeatureFlags) IsEnabled(featureName string, ctx *FeatureContext) bool {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	// Check per-student overrides first
	if ctx != nil && ctx.StudentID != "" {
		if overrides, ok := ff.studentOverrides[ctx.StudentID]; ok {
			if enabled, ok := overrides[featureName]; ok {
				return enabled
			}
		}
	}

	feature, ok := ff.features[featureName]
	if !ok {
		return false
	}

	// Admins get all features
	if ctx != nil && ctx.IsAdmin {
		return true
	}

	if !feature.Enabled {
		return false
	}

	// Check time-based activation
	now := time.Now()
	if feature.EnabledFrom != nil && now.Before(*feature.EnabledFrom) {
		return false
	}
	if feature.EnabledUntil != nil && now.After(*feature.EnabledUntil) {
		return false
	}

	// Check rollout percentage
	if feature.RolloutPercent < 100 && ctx != nil && ctx.StudentID != "" {
		return ff.isInRollout(ctx.StudentID, featureName, feature.RolloutPercent)
	}

	return feature.RolloutPercent > 0
}

// isInRollout determines if a student is in the rollout percentage.
// Uses consistent hashing so students stay in their bucket.
func (ff *FeatureFlags) isInRollout(studentID, featureName string, percent int) bool {
	h := fnv.New32a()
	h.Write([]byte(featureName))
	h.Write([]byte(studentID))
	hash := h.Sum32()

	// Map to 0-99 range
	bucket := int(hash % 100)

	return bucket < percent
}

// SetStudentOverride sets a feature override for a specific student.
// Useful for testing and debugging.
func (ff *FeatureFlags) SetStudentOverride(studentID, featureName string, enabled bool) {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	if _, ok := ff.studentOverrides[studentID]; !ok {
		ff.studentOverrides[studentID] = make(map[string]bool)
	}
	ff.studentOverrides[studentID][featureName] = enabled
}

// ClearStudentOverrides removes all overrides for a student.
func (ff *FeatureFlags) ClearStudentOverrides(studentID string) {
	ff.mu.Lock()
	defer ff.mu.Unlock()
	delete(ff.studentOverrides, studentID)
}

// SetRolloutPercent updates the rollout percentage for a feature.
// Thread-safe for live updates.
func (ff *FeatureFlags) SetRolloutPercent(featureName string, percent int) error {
	ff.mu.Lock()
	defer ff.mu.Unlock()

	feature, ok := ff.features[featureName]
	if !ok {
		return ErrFeatureNotFound
	}

	if percent < 0 || percent > 100 {
		return ErrInvalidRolloutPercent
	}

	feature.RolloutPercent = percent
	feature.Enabled = percent > 0

	return nil
}

// EnableFeature enables a feature at 100% rollout.
func (ff *FeatureFlags) EnableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 100)
}

// DisableFeature disables a feature completely.
func (ff *FeatureFlags) DisableFeature(featureName string) error {
	return ff.SetRolloutPercent(featureName, 0)
}

// GetAllFeatures returns a copy of all feature configurations.
func (ff *FeatureFlags) GetAllFeatures() map[string]*Feature {
	ff.mu.RLock()
	defer ff.mu.RUnlock()

	result := make(map[string]*Feature, len(ff.features))
	for k, v := range ff.features {
		featureCopy := *v
		result[k] = &featureCopy
	}
	return result
}

// --- Convenience methods for common checks ---

// AssistantEnabled checks if any assistant feature is enabled.
func (ff *FeatureFlags) AssistantEnabled(ctx *FeatureContext) bool {
	return ff.IsEnabled(FeatureAssistantRiskAnalysis, ctx) ||
		ff.IsEnabled(FeatureAssistantChat, ctx) ||
		ff.IsEnabled(FeatureAssistantLocations, ctx)
}

// --- Errors ---

var (
	ErrFeatureNotFound       = &FeatureFlagError{Message: "feature not found"}
	ErrInvalidRolloutPercent = &FeatureFlagError{Message: "rollout percent must be 0-100"}
)

// FeatureFlagError represents a feature flag error.
type FeatureFlagError struct {
	Message string
}

func (e *FeatureFlagError) Error() string {
	return e.Message
}
