// Package port defines the boundary interfaces between the domain and the
// infrastructure adapters.
package port

import "context"

// FieldFilter is one equality condition applied when searching the
// candidate directory. Field is either a custom-field identifier or a
// structural attribute in the provider's "prefix__name" form (for example
// "address__city" or "current_stage__name").
type FieldFilter struct {
	Field string
	Value any
}

// StageTransition records one candidature entering a pipeline stage.
type StageTransition struct {
	CandidatureID   string         `json:"candidature_id"`
	CandidateID     string         `json:"candidate_id"`
	JobID           string         `json:"job_id"`
	StageChangeDate string         `json:"stage_change_date"`
	StageName       string         `json:"stage_name"`
	Candidature     map[string]any `json:"candidature"`
}

// DisqualificationReport summarizes a bulk disqualification run across all
// active candidatures of one candidate.
type DisqualificationReport struct {
	Email         string   `json:"email"`
	Found         int      `json:"candidatures_found"`
	Disqualified  int      `json:"candidatures_disqualified"`
	FailureDetail []string `json:"errors"`
}

// CandidateDirectory is the data-access boundary to the recruitment
// platform. Implementations must surface domain-level misses (no such
// candidate, no such candidature) as non-nil errors, never as silent empty
// results, so callers can report failures faithfully.
type CandidateDirectory interface {
	// SearchCandidate finds the best match for a free-text term (name,
	// email address or phone number) and returns its core fields.
	SearchCandidate(ctx context.Context, term string) (map[string]any, error)

	// CandidateDetails fetches the full candidate record including address
	// and custom fields.
	CandidateDetails(ctx context.Context, candidateID string) (map[string]any, error)

	// CandidateIDByEmail resolves an email address to a candidate ID.
	CandidateIDByEmail(ctx context.Context, email string) (string, error)

	// CandidateWithDirectoryFields fetches a candidate by email and
	// flattens the custom fields this integration cares about.
	CandidateWithDirectoryFields(ctx context.Context, email string) (map[string]any, error)

	// UpdateCandidateDiscordID writes the Discord identity custom field.
	UpdateCandidateDiscordID(ctx context.Context, candidateID, discordID string) error

	// UpdateCandidateSubscription writes the subscriber flag custom field.
	UpdateCandidateSubscription(ctx context.Context, candidateID string, isSubscriber bool) error

	// UpdateCandidateStage writes the stage name and stage date custom
	// fields for the candidate registered under email.
	UpdateCandidateStage(ctx context.Context, email, stageName string) error

	// JobDetails fetches a job record including custom fields.
	JobDetails(ctx context.Context, jobID string) (map[string]any, error)

	// FindActiveCandidatures lists the active candidatures of the
	// candidate registered under email.
	FindActiveCandidatures(ctx context.Context, email string) ([]map[string]any, error)

	// DisqualifyCandidature moves one candidature to the disqualified
	// state with the given reason.
	DisqualifyCandidature(ctx context.Context, candidatureID, reason string) error

	// DisqualifyAllCandidatures disqualifies every active candidature of
	// the candidate registered under email and reports per-item failures.
	DisqualifyAllCandidatures(ctx context.Context, email string) (*DisqualificationReport, error)

	// CustomFieldDefinitions lists the custom-field metadata defined for
	// candidates.
	CustomFieldDefinitions(ctx context.Context) (map[string]any, error)

	// SearchCandidates runs a filtered, paginated candidate search.
	SearchCandidates(ctx context.Context, filters []FieldFilter, page, pageSize int) (map[string]any, error)

	// CandidatureStageHistory fetches one candidature with its stage
	// history included.
	CandidatureStageHistory(ctx context.Context, candidatureID string) (map[string]any, error)

	// CandidaturesChangedToStage scans every candidature currently in
	// stageName and keeps those whose history shows they entered it during
	// the given month.
	CandidaturesChangedToStage(ctx context.Context, stageName string, year, month int) ([]StageTransition, error)

	// CandidaturesInCurrentStage runs a paginated search for candidatures
	// currently in stageName.
	CandidaturesInCurrentStage(ctx context.Context, stageName string, page, pageSize int) (map[string]any, error)

	// CountCandidaturesInCurrentStage counts candidatures currently in
	// stageName without fetching them.
	CountCandidaturesInCurrentStage(ctx context.Context, stageName string) (int, error)
}
