// Package viterbit implements the CandidateDirectory port against the
// Viterbit recruitment platform's REST API.
package viterbit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"viterbit-gateway/internal/domain/port"
)

const (
	defaultBaseURL = "https://api.viterbit.com/v1"
	defaultTimeout = 10 * time.Second

	// maxPageSize is the largest page the platform serves.
	maxPageSize = 100

	// scanPageSize is used when walking every candidature in a stage.
	scanPageSize = 100

	// historyBatchSize caps concurrent stage-history fetches.
	historyBatchSize = 10
)

// ErrAPIKeyRequired is returned when a client is built without credentials.
var ErrAPIKeyRequired = errors.New("viterbit API key is required")

// APIError describes a non-2xx response from the platform.
type APIError struct {
	Method   string
	Endpoint string
	Status   int
	Body     string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("viterbit API error on %s %s: %d - %s", e.Method, e.Endpoint, e.Status, e.Body)
}

// NotFoundError reports a domain-level miss: the platform answered but no
// record matched.
type NotFoundError struct {
	Resource string
	Key      string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no %s found matching %q", e.Resource, e.Key)
}

// FieldIDs identifies the candidate custom-field slots this integration
// reads and writes.
type FieldIDs struct {
	DiscordID       string
	Subscriber      string
	StageName       string
	StageDate       string
	Warranty100Days string
	ActivityStatus  string
}

// Config carries the client settings.
type Config struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration

	// Fields maps the custom-field slots used by write and enrichment
	// operations.
	Fields FieldIDs

	// DisqualifiedByID is the platform user recorded as the author of
	// disqualifications.
	DisqualifiedByID string
}

// Client is the REST adapter for the Viterbit platform.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

var _ port.CandidateDirectory = (*Client)(nil)

// NewClient validates the configuration and returns a ready client.
func NewClient(cfg Config) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrAPIKeyRequired
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}, nil
}

// request performs one API call and decodes the JSON object response.
// Empty 2xx bodies decode to an empty map.
func (c *Client) request(ctx context.Context, method, endpoint string, query url.Values, body any) (map[string]any, error) {
	target := c.cfg.BaseURL + "/" + endpoint
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body for %s %s: %w", method, endpoint, err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s %s: %w", method, endpoint, err)
	}
	req.Header.Set("X-API-Key", c.cfg.APIKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("viterbit request failed on %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response for %s %s: %w", method, endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Method: method, Endpoint: endpoint, Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
		slog.Warn("viterbit API error", "method", method, "endpoint", endpoint, "status", resp.StatusCode)
		return nil, apiErr
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}
	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("viterbit returned malformed JSON on %s %s: %w", method, endpoint, err)
	}
	return parsed, nil
}

// SearchCandidate finds the best match for a free-text term and reduces it
// to the core candidate fields.
func (c *Client) SearchCandidate(ctx context.Context, term string) (map[string]any, error) {
	resp, err := c.request(ctx, http.MethodPost, "candidates/search", nil, map[string]any{"search": term})
	if err != nil {
		return nil, err
	}

	data, _ := resp["data"].([]any)
	if len(data) == 0 {
		return nil, &NotFoundError{Resource: "candidate", Key: term}
	}
	first, ok := data[0].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("viterbit returned an unexpected candidate shape for %q", term)
	}

	return map[string]any{
		"id":           first["id"],
		"full_name":    first["full_name"],
		"email":        first["email"],
		"phone_number": first["phone"],
	}, nil
}

// CandidateDetails fetches a full candidate record with address and custom
// fields included.
func (c *Client) CandidateDetails(ctx context.Context, candidateID string) (map[string]any, error) {
	query := url.Values{"includes[]": []string{"address", "custom_fields"}}
	resp, err := c.request(ctx, http.MethodGet, "candidates/"+candidateID, query, nil)
	if err != nil {
		return nil, err
	}
	data, ok := resp["data"].(map[string]any)
	if !ok {
		return nil, &NotFoundError{Resource: "candidate", Key: candidateID}
	}
	return data, nil
}

// CandidateIDByEmail resolves an email address to a candidate ID.
func (c *Client) CandidateIDByEmail(ctx context.Context, email string) (string, error) {
	candidate, err := c.SearchCandidate(ctx, email)
	if err != nil {
		return "", err
	}
	id, _ := candidate["id"].(string)
	if id == "" {
		return "", &NotFoundError{Resource: "candidate", Key: email}
	}
	return id, nil
}

// CandidateWithDirectoryFields fetches a candidate by email and flattens
// the custom fields this integration filters on.
func (c *Client) CandidateWithDirectoryFields(ctx context.Context, email string) (map[string]any, error) {
	candidateID, err := c.CandidateIDByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	details, err := c.CandidateDetails(ctx, candidateID)
	if err != nil {
		return nil, err
	}

	fields := customFieldsByReference(details)
	address, _ := details["address"].(map[string]any)
	var city any
	if address != nil {
		city = address["city"]
	}

	return map[string]any{
		"id":                details["id"],
		"full_name":         details["full_name"],
		"email":             details["email"],
		"phone":             details["phone"],
		"city":              city,
		"suscriptor":        fieldValue(fields, c.cfg.Fields.Subscriber),
		"garantia_100_dias": fieldValue(fields, c.cfg.Fields.Warranty100Days),
		"activo_inactivo":   fieldValue(fields, c.cfg.Fields.ActivityStatus),
		"raw_custom_fields": details["custom_fields"],
	}, nil
}

// customFieldUpdate is one custom-field write in the platform's PATCH shape.
type customFieldUpdate struct {
	Type       string `json:"type"`
	QuestionID string `json:"question_id"`
	Value      any    `json:"value"`
}

// updateCustomFields merges updates into the candidate's existing custom
// fields and PATCHes the full set back, which is what the platform expects.
func (c *Client) updateCustomFields(ctx context.Context, candidateID string, updates []customFieldUpdate) error {
	details, err := c.CandidateDetails(ctx, candidateID)
	if err != nil {
		return err
	}

	merged := make(map[string]customFieldUpdate)
	if existing, ok := details["custom_fields"].([]any); ok {
		for _, raw := range existing {
			field, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			ref, _ := field["reference_id"].(string)
			if ref == "" {
				continue
			}
			fieldType, _ := field["type"].(string)
			merged[ref] = customFieldUpdate{Type: fieldType, QuestionID: ref, Value: field["value"]}
		}
	}
	for _, update := range updates {
		merged[update.QuestionID] = update
	}

	payload := make([]customFieldUpdate, 0, len(merged))
	for _, field := range merged {
		payload = append(payload, field)
	}

	_, err = c.request(ctx, http.MethodPatch, "candidates/"+candidateID, nil, map[string]any{"custom_fields": payload})
	return err
}

// UpdateCandidateDiscordID writes the Discord identity custom field.
func (c *Client) UpdateCandidateDiscordID(ctx context.Context, candidateID, discordID string) error {
	return c.updateCustomFields(ctx, candidateID, []customFieldUpdate{
		{Type: "text", QuestionID: c.cfg.Fields.DiscordID, Value: discordID},
	})
}

// UpdateCandidateSubscription writes the subscriber flag custom field.
func (c *Client) UpdateCandidateSubscription(ctx context.Context, candidateID string, isSubscriber bool) error {
	return c.updateCustomFields(ctx, candidateID, []customFieldUpdate{
		{Type: "boolean", QuestionID: c.cfg.Fields.Subscriber, Value: isSubscriber},
	})
}

// UpdateCandidateStage writes the stage name and stage date custom fields.
// The date is the current UTC day, which is how stage changes are audited.
func (c *Client) UpdateCandidateStage(ctx context.Context, email, stageName string) error {
	candidateID, err := c.CandidateIDByEmail(ctx, email)
	if err != nil {
		return err
	}
	today := time.Now().UTC().Format("2006-01-02")
	return c.updateCustomFields(ctx, candidateID, []customFieldUpdate{
		{Type: "text", QuestionID: c.cfg.Fields.StageName, Value: stageName},
		{Type: "date", QuestionID: c.cfg.Fields.StageDate, Value: today},
	})
}

// JobDetails fetches a job record with custom fields included.
func (c *Client) JobDetails(ctx context.Context, jobID string) (map[string]any, error) {
	query := url.Values{"includes[]": []string{"custom_fields"}}
	resp, err := c.request(ctx, http.MethodGet, "jobs/"+jobID, query, nil)
	if err != nil {
		return nil, err
	}
	data, ok := resp["data"].(map[string]any)
	if !ok {
		return nil, &NotFoundError{Resource: "job", Key: jobID}
	}
	return data, nil
}

// FindActiveCandidatures lists the active candidatures of the candidate
// registered under email. An empty list is a valid answer: the candidate
// exists but has no active applications.
func (c *Client) FindActiveCandidatures(ctx context.Context, email string) ([]map[string]any, error) {
	resp, err := c.request(ctx, http.MethodPost, "candidatures/search", nil, map[string]any{"search": email})
	if err != nil {
		return nil, err
	}

	data, _ := resp["data"].([]any)
	active := make([]map[string]any, 0, len(data))
	for _, raw := range data {
		candidature, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if status, _ := candidature["status"].(string); status == "active" {
			active = append(active, candidature)
		}
	}
	return active, nil
}

// DisqualifyCandidature moves one candidature to the disqualified state.
func (c *Client) DisqualifyCandidature(ctx context.Context, candidatureID, reason string) error {
	disqualifiedAt := time.Now().UTC().Format("2006-01-02T15:04:05") + "+00:00"
	payload := map[string]any{
		"disqualified_info": map[string]any{
			"disqualified_at":    disqualifiedAt,
			"disqualified_by_id": c.cfg.DisqualifiedByID,
			"reason":             reason,
		},
	}
	_, err := c.request(ctx, http.MethodPost, "candidatures/"+candidatureID+"/stage", nil, payload)
	return err
}

// disqualifyAllReason is recorded when bulk-disqualifying a candidate.
const disqualifyAllReason = "Baja Servicio"

// DisqualifyAllCandidatures disqualifies every active candidature of the
// candidate registered under email. Individual failures are collected in
// the report instead of aborting the run.
func (c *Client) DisqualifyAllCandidatures(ctx context.Context, email string) (*port.DisqualificationReport, error) {
	active, err := c.FindActiveCandidatures(ctx, email)
	if err != nil {
		return nil, err
	}

	report := &port.DisqualificationReport{
		Email:         email,
		Found:         len(active),
		FailureDetail: []string{},
	}
	for _, candidature := range active {
		id, _ := candidature["id"].(string)
		if id == "" {
			report.FailureDetail = append(report.FailureDetail, "candidature without ID skipped")
			continue
		}
		if err := c.DisqualifyCandidature(ctx, id, disqualifyAllReason); err != nil {
			report.FailureDetail = append(report.FailureDetail, fmt.Sprintf("failed to disqualify candidature %s: %v", id, err))
			continue
		}
		report.Disqualified++
	}
	return report, nil
}

// CustomFieldDefinitions lists the custom-field metadata defined for
// candidates.
func (c *Client) CustomFieldDefinitions(ctx context.Context) (map[string]any, error) {
	return c.request(ctx, http.MethodGet, "custom-fields/candidate", nil, nil)
}

// SearchCandidates runs a filtered, paginated candidate search.
func (c *Client) SearchCandidates(ctx context.Context, filters []port.FieldFilter, page, pageSize int) (map[string]any, error) {
	payload := buildSearchPayload(filters, normalizePage(page), normalizePageSize(pageSize))
	return c.request(ctx, http.MethodPost, "candidates/search", nil, payload)
}

// CandidatureStageHistory fetches one candidature with its stage history.
func (c *Client) CandidatureStageHistory(ctx context.Context, candidatureID string) (map[string]any, error) {
	query := url.Values{"includes[]": []string{"stages_history"}}
	resp, err := c.request(ctx, http.MethodGet, "candidatures/"+candidatureID, query, nil)
	if err != nil {
		return nil, err
	}
	data, ok := resp["data"].(map[string]any)
	if !ok {
		return nil, &NotFoundError{Resource: "candidature", Key: candidatureID}
	}
	return data, nil
}

// CandidaturesChangedToStage scans every candidature currently in stageName
// and keeps those whose history shows they entered it during the given
// month. Histories are fetched in small concurrent batches; individual
// fetch failures skip that candidature rather than aborting the scan.
func (c *Client) CandidaturesChangedToStage(ctx context.Context, stageName string, year, month int) ([]port.StageTransition, error) {
	ids, err := c.collectStageIDs(ctx, stageName)
	if err != nil {
		return nil, err
	}

	matches := make([]port.StageTransition, 0)
	for start := 0; start < len(ids); start += historyBatchSize {
		end := min(start+historyBatchSize, len(ids))
		batch := ids[start:end]
		results := make([]*port.StageTransition, len(batch))

		var wg sync.WaitGroup
		for i, candidatureID := range batch {
			wg.Add(1)
			go func(slot int, id string) {
				defer wg.Done()
				detail, err := c.CandidatureStageHistory(ctx, id)
				if err != nil {
					slog.Debug("skipping candidature history", "candidature", id, "error", err)
					return
				}
				if transition, ok := stageTransitionIn(detail, stageName, year, month); ok {
					results[slot] = &transition
				}
			}(i, candidatureID)
		}
		wg.Wait()

		for _, transition := range results {
			if transition != nil {
				matches = append(matches, *transition)
			}
		}
	}
	return matches, nil
}

// collectStageIDs pages through the candidatures currently in stageName and
// returns their IDs.
func (c *Client) collectStageIDs(ctx context.Context, stageName string) ([]string, error) {
	var ids []string
	for page := 1; ; page++ {
		payload := buildSearchPayload([]port.FieldFilter{{Field: currentStageField, Value: stageName}}, page, scanPageSize)
		resp, err := c.request(ctx, http.MethodPost, "candidatures/search", nil, payload)
		if err != nil {
			return nil, err
		}

		data, _ := resp["data"].([]any)
		if len(data) == 0 {
			break
		}
		for _, raw := range data {
			candidature, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if id, _ := candidature["id"].(string); id != "" {
				ids = append(ids, id)
			}
		}

		meta, _ := resp["meta"].(map[string]any)
		if hasMore, _ := meta["has_more"].(bool); !hasMore {
			break
		}
	}
	return ids, nil
}

// stageTransitionIn finds the first history entry of a candidature that
// entered stageName during the given month.
func stageTransitionIn(candidature map[string]any, stageName string, year, month int) (port.StageTransition, bool) {
	history, _ := candidature["stages_history"].([]any)
	for _, raw := range history {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if name, _ := entry["stage_name"].(string); name != stageName {
			continue
		}
		startAt, _ := entry["start_at"].(string)
		at, err := time.Parse(time.RFC3339, startAt)
		if err != nil {
			continue
		}
		if at.Year() != year || int(at.Month()) != month {
			continue
		}

		candidateID, _ := candidature["candidate_id"].(string)
		jobID, _ := candidature["job_id"].(string)
		id, _ := candidature["id"].(string)
		return port.StageTransition{
			CandidatureID:   id,
			CandidateID:     candidateID,
			JobID:           jobID,
			StageChangeDate: startAt,
			StageName:       stageName,
			Candidature:     candidature,
		}, true
	}
	return port.StageTransition{}, false
}

// CandidaturesInCurrentStage runs a paginated search for candidatures
// currently in stageName.
func (c *Client) CandidaturesInCurrentStage(ctx context.Context, stageName string, page, pageSize int) (map[string]any, error) {
	payload := buildSearchPayload([]port.FieldFilter{{Field: currentStageField, Value: stageName}}, normalizePage(page), normalizePageSize(pageSize))
	return c.request(ctx, http.MethodPost, "candidatures/search", nil, payload)
}

// CountCandidaturesInCurrentStage counts candidatures currently in
// stageName by requesting a single-item page and reading the total.
func (c *Client) CountCandidaturesInCurrentStage(ctx context.Context, stageName string) (int, error) {
	payload := buildSearchPayload([]port.FieldFilter{{Field: currentStageField, Value: stageName}}, 1, 1)
	resp, err := c.request(ctx, http.MethodPost, "candidatures/search", nil, payload)
	if err != nil {
		return 0, err
	}
	meta, _ := resp["meta"].(map[string]any)
	return intFromAny(meta["total"]), nil
}

// customFieldsByReference indexes a record's custom fields by reference ID.
func customFieldsByReference(record map[string]any) map[string]map[string]any {
	indexed := make(map[string]map[string]any)
	fields, _ := record["custom_fields"].([]any)
	for _, raw := range fields {
		field, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if ref, _ := field["reference_id"].(string); ref != "" {
			indexed[ref] = field
		}
	}
	return indexed
}

func fieldValue(fields map[string]map[string]any, referenceID string) any {
	field, ok := fields[referenceID]
	if !ok {
		return nil
	}
	return field["value"]
}

func normalizePage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

func normalizePageSize(pageSize int) int {
	if pageSize < 1 {
		return 1
	}
	return min(pageSize, maxPageSize)
}

func intFromAny(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}
