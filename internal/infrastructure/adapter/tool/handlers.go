package tool

import (
	"context"
	"fmt"

	"viterbit-gateway/internal/domain/port"
)

// Structural address attributes usable as filter fields directly.
const (
	addressCityField       = "address__city"
	addressStateField      = "address__state"
	addressPostalCodeField = "address__postal_code"
)

// defaultDisqualifyReason is recorded when no reason is given.
const defaultDisqualifyReason = "Baja Servicio"

// discordFieldTitle is the custom-field title carrying the Discord
// username.
const discordFieldTitle = "Usuario en Discord"

// handlerSet binds every operation handler to the candidate directory and
// the lookup tables.
type handlerSet struct {
	directory port.CandidateDirectory
	lookups   Lookups
}

type searchCandidateArgs struct {
	SearchTerm string `json:"search_term" jsonschema_description:"Candidate name, email address, or phone number to search for"`
}

type getCandidateDetailsArgs struct {
	CandidateID string `json:"candidate_id" jsonschema_description:"The Viterbit candidate ID"`
}

type getCandidateWithFiltersArgs struct {
	Email string `json:"email" jsonschema_description:"Email address of the candidate"`
}

type updateCandidateDiscordIDArgs struct {
	CandidateID string `json:"candidate_id" jsonschema_description:"The Viterbit candidate ID"`
	DiscordID   string `json:"discord_id" jsonschema_description:"Discord username or ID to set for the candidate"`
}

type updateCandidateSubscriptionArgs struct {
	CandidateID  string `json:"candidate_id" jsonschema_description:"The Viterbit candidate ID"`
	IsSubscriber bool   `json:"is_subscriber,omitempty" jsonschema:"default=true" jsonschema_description:"Whether the candidate should be marked as a subscriber"`
}

type updateCandidateStageArgs struct {
	Email     string `json:"email" jsonschema_description:"Email address of the candidate"`
	StageName string `json:"stage_name" jsonschema_description:"Stage name to set (e.g., 'Match', 'Contratado', 'Preseleccionado')"`
}

type getJobDetailsArgs struct {
	JobID string `json:"job_id" jsonschema_description:"The Viterbit job ID"`
}

type findActiveCandidaturesArgs struct {
	Email string `json:"email" jsonschema_description:"Email address of the candidate"`
}

type disqualifyCandidatureArgs struct {
	CandidatureID string `json:"candidature_id" jsonschema_description:"The candidature ID to disqualify"`
	Reason        string `json:"reason,omitempty" jsonschema:"default=Baja Servicio" jsonschema_description:"Reason for disqualification"`
}

type disqualifyAllCandidaturesArgs struct {
	Email string `json:"email" jsonschema_description:"Email address of the candidate whose applications should be disqualified"`
}

type checkCandidateEligibilityArgs struct {
	ViterbitData map[string]any `json:"viterbit_data" jsonschema_description:"Candidate data object with Viterbit fields (typically from get_candidate_with_filters)"`
}

type extractDiscordUsernameArgs struct {
	CustomFields []map[string]any `json:"custom_fields" jsonschema_description:"Array of custom field objects from candidate details"`
}

type searchSubscribersArgs struct {
	IsSubscriber   bool    `json:"is_subscriber,omitempty" jsonschema:"default=true" jsonschema_description:"Filter by subscription status (true for subscribers, false for non-subscribers)"`
	ActivityStatus string  `json:"activity_status,omitempty" jsonschema:"enum=Activo,enum=Inactivo" jsonschema_description:"Filter by activity status (Activo/Inactivo)"`
	Page           float64 `json:"page,omitempty" jsonschema:"default=1" jsonschema_description:"Page number for pagination"`
	PageSize       float64 `json:"page_size,omitempty" jsonschema:"default=50" jsonschema_description:"Number of results per page"`
}

type getCandidateCountArgs struct {
	IsSubscriber      bool   `json:"is_subscriber,omitempty" jsonschema_description:"Filter by subscription status (true for subscribers, false for non-subscribers)"`
	ActivityStatus    string `json:"activity_status,omitempty" jsonschema:"enum=Activo,enum=Inactivo" jsonschema_description:"Filter by activity status (Activo/Inactivo)"`
	Coach             string `json:"coach,omitempty" jsonschema:"enum=Alexia,enum=Irene,enum=Irina" jsonschema_description:"Filter by coach (Alexia, Irene, Irina)"`
	HasDrivingLicense string `json:"has_driving_license,omitempty" jsonschema:"enum=Sí,enum=No,enum=Me lo estoy sacando" jsonschema_description:"Filter by driving license (Sí, No, Me lo estoy sacando)"`
	NationalMobility  string `json:"national_mobility,omitempty" jsonschema:"enum=Sí,enum=No,enum=Puedo desplazarme pero no dormir fuera de casa" jsonschema_description:"Filter by national mobility (Sí, No, Puedo desplazarme pero no dormir fuera de casa)"`
	HasExperience     string `json:"has_experience,omitempty" jsonschema:"enum=Sí,enum=No" jsonschema_description:"Filter by related experience (Sí, No)"`
	Zona              string `json:"zona,omitempty" jsonschema_description:"Filter by zone/area (custom field Zona)"`
	Provincia         string `json:"provincia,omitempty" jsonschema_description:"Filter by province (custom field Provincia)"`
	City              string `json:"city,omitempty" jsonschema_description:"Filter by city from address"`
	State             string `json:"state,omitempty" jsonschema_description:"Filter by state/region from address"`
	PostalCode        string `json:"postal_code,omitempty" jsonschema_description:"Filter by postal code from address"`
}

type searchCandidatesByLocationArgs struct {
	Zona           string  `json:"zona,omitempty" jsonschema_description:"Search by zone/area (custom field)"`
	Provincia      string  `json:"provincia,omitempty" jsonschema_description:"Search by province (custom field)"`
	City           string  `json:"city,omitempty" jsonschema_description:"Search by city from address"`
	State          string  `json:"state,omitempty" jsonschema_description:"Search by state/region from address"`
	PostalCode     string  `json:"postal_code,omitempty" jsonschema_description:"Search by postal code from address"`
	IsSubscriber   bool    `json:"is_subscriber,omitempty" jsonschema_description:"Also filter by subscription status"`
	ActivityStatus string  `json:"activity_status,omitempty" jsonschema:"enum=Activo,enum=Inactivo" jsonschema_description:"Also filter by activity status (Activo/Inactivo)"`
	Page           float64 `json:"page,omitempty" jsonschema:"default=1" jsonschema_description:"Page number for pagination"`
	PageSize       float64 `json:"page_size,omitempty" jsonschema:"default=50" jsonschema_description:"Number of results per page"`
}

type getCandidatureStageHistoryArgs struct {
	CandidatureID string `json:"candidature_id" jsonschema_description:"The candidature ID to get stage history for"`
}

type stagePeriodArgs struct {
	StageName string `json:"stage_name" jsonschema_description:"Name of the stage to filter by (e.g., 'Match', 'Preseleccionado', 'Contratado')"`
	Year      int    `json:"year" jsonschema:"minimum=2020,maximum=2030" jsonschema_description:"Year to filter by (e.g., 2025)"`
	Month     int    `json:"month" jsonschema:"minimum=1,maximum=12" jsonschema_description:"Month to filter by (1-12)"`
}

type getCandidaturesInCurrentStageArgs struct {
	StageName string  `json:"stage_name" jsonschema_description:"Name of the stage to filter by (e.g., 'Match', 'Preseleccionado', 'Contratado')"`
	Page      float64 `json:"page,omitempty" jsonschema:"default=1" jsonschema_description:"Page number for pagination"`
	PageSize  float64 `json:"page_size,omitempty" jsonschema:"default=50" jsonschema_description:"Number of results per page (max 100)"`
}

type countCandidaturesInCurrentStageArgs struct {
	StageName string `json:"stage_name" jsonschema_description:"Name of the stage to filter by (e.g., 'Match', 'Preseleccionado', 'Contratado')"`
}

// definitions lists the directory-backed operations in catalog order.
func (h *handlerSet) definitions() []definition {
	return []definition{
		{
			name:        "search_candidate",
			description: "Search for a candidate by name, email address, or phone number. Returns basic candidate information including ID, name, email, and phone.",
			args:        searchCandidateArgs{},
			handler:     h.searchCandidate,
		},
		{
			name:        "get_candidate_details",
			description: "Get full candidate details including custom fields and address information. Requires candidate ID.",
			args:        getCandidateDetailsArgs{},
			handler:     h.getCandidateDetails,
		},
		{
			name:        "get_candidate_with_filters",
			description: "Get candidate details with enriched filtering data including subscription status, activity status, and location info. Useful for subscriber reports and filtering.",
			args:        getCandidateWithFiltersArgs{},
			handler:     h.getCandidateWithFilters,
		},
		{
			name:        "update_candidate_discord_id",
			description: "Update a candidate's Discord username/ID in their custom fields.",
			args:        updateCandidateDiscordIDArgs{},
			handler:     h.updateCandidateDiscordID,
		},
		{
			name:        "update_candidate_subscription",
			description: "Update a candidate's subscription status (subscriber or non-subscriber).",
			args:        updateCandidateSubscriptionArgs{},
			handler:     h.updateCandidateSubscription,
		},
		{
			name:        "update_candidate_stage",
			description: "Update a candidate's stage name and date. Sets the stage and current date in their custom fields.",
			args:        updateCandidateStageArgs{},
			handler:     h.updateCandidateStage,
		},
		{
			name:        "get_job_details",
			description: "Get comprehensive job information including custom fields, requirements, location, and salary details.",
			args:        getJobDetailsArgs{},
			handler:     h.getJobDetails,
		},
		{
			name:        "find_active_candidatures",
			description: "Find all active job applications (candidatures) for a candidate by their email address.",
			args:        findActiveCandidaturesArgs{},
			handler:     h.findActiveCandidatures,
		},
		{
			name:        "disqualify_candidature",
			description: "Disqualify a specific job application (candidature) with a reason.",
			args:        disqualifyCandidatureArgs{},
			handler:     h.disqualifyCandidature,
		},
		{
			name:        "disqualify_all_candidatures",
			description: "Disqualify ALL active job applications for a candidate by their email address. Use with caution as this affects all active applications.",
			args:        disqualifyAllCandidaturesArgs{},
			handler:     h.disqualifyAllCandidatures,
		},
		{
			name:        "get_custom_fields_definitions",
			description: "Get all available custom field definitions and their schemas from Viterbit. Useful for understanding field structure and IDs.",
			handler:     h.getCustomFieldsDefinitions,
		},
		{
			name:        "check_candidate_eligibility",
			description: "Check if a candidate should be included in reports based on their activity status and other filtering criteria.",
			args:        checkCandidateEligibilityArgs{},
			handler:     h.checkCandidateEligibility,
		},
		{
			name:        "get_department_location_mappings",
			description: "Get the department and location ID mappings used by Viterbit. Returns both department names to IDs and location names to IDs.",
			handler:     h.getDepartmentLocationMappings,
		},
		{
			name:        "extract_discord_username",
			description: "Extract Discord username from a candidate's custom fields data.",
			args:        extractDiscordUsernameArgs{},
			handler:     h.extractDiscordUsername,
		},
		{
			name:        "search_subscribers",
			description: "Search for candidates who are subscribers. Optionally filter by activity status, location, or other criteria. Returns candidates data plus metadata with total counts.",
			args:        searchSubscribersArgs{},
			handler:     h.searchSubscribers,
		},
		{
			name:        "get_candidate_count",
			description: "Get the total count of candidates matching specific criteria without returning all the data. Perfect for answering 'how many candidates are...' questions.",
			args:        getCandidateCountArgs{},
			handler:     h.getCandidateCount,
		},
		{
			name:        "search_candidates_by_location",
			description: "Search candidates by geographic location using zones, provinces, cities, or address information.",
			args:        searchCandidatesByLocationArgs{},
			handler:     h.searchCandidatesByLocation,
		},
		{
			name:        "get_candidature_stage_history",
			description: "Get candidature details including complete stages history. Shows all stage transitions with timestamps.",
			args:        getCandidatureStageHistoryArgs{},
			handler:     h.getCandidatureStageHistory,
		},
		{
			name:        "get_candidatures_changed_to_stage",
			description: "Find all candidatures that changed to a specific stage (like 'Match') during a given month. Perfect for monthly reporting on stage transitions.",
			args:        stagePeriodArgs{},
			handler:     h.getCandidaturesChangedToStage,
		},
		{
			name:        "count_candidatures_changed_to_stage",
			description: "Count how many candidatures changed to a specific stage during a given month. Returns just the count number for quick reporting.",
			args:        stagePeriodArgs{},
			handler:     h.countCandidaturesChangedToStage,
		},
		{
			name:        "get_candidatures_in_current_stage",
			description: "Get all candidatures currently in a specific stage right now. Returns detailed candidature information for candidates in the specified stage at this moment.",
			args:        getCandidaturesInCurrentStageArgs{},
			handler:     h.getCandidaturesInCurrentStage,
		},
		{
			name:        "count_candidatures_in_current_stage",
			description: "Count how many candidatures are currently in a specific stage right now. Returns just the count number for quick reporting about current stage status.",
			args:        countCandidaturesInCurrentStageArgs{},
			handler:     h.countCandidaturesInCurrentStage,
		},
	}
}

func (h *handlerSet) searchCandidate(ctx context.Context, args map[string]any) (any, error) {
	term, err := stringArg(args, "search_term")
	if err != nil {
		return nil, err
	}
	return h.directory.SearchCandidate(ctx, term)
}

func (h *handlerSet) getCandidateDetails(ctx context.Context, args map[string]any) (any, error) {
	candidateID, err := stringArg(args, "candidate_id")
	if err != nil {
		return nil, err
	}
	return h.directory.CandidateDetails(ctx, candidateID)
}

func (h *handlerSet) getCandidateWithFilters(ctx context.Context, args map[string]any) (any, error) {
	email, err := stringArg(args, "email")
	if err != nil {
		return nil, err
	}
	return h.directory.CandidateWithDirectoryFields(ctx, email)
}

func (h *handlerSet) updateCandidateDiscordID(ctx context.Context, args map[string]any) (any, error) {
	candidateID, err := stringArg(args, "candidate_id")
	if err != nil {
		return nil, err
	}
	discordID, err := stringArg(args, "discord_id")
	if err != nil {
		return nil, err
	}
	if err := h.directory.UpdateCandidateDiscordID(ctx, candidateID, discordID); err != nil {
		return nil, err
	}
	return "Discord ID updated successfully", nil
}

func (h *handlerSet) updateCandidateSubscription(ctx context.Context, args map[string]any) (any, error) {
	candidateID, err := stringArg(args, "candidate_id")
	if err != nil {
		return nil, err
	}
	isSubscriber := boolArgDefault(args, "is_subscriber", true)
	if err := h.directory.UpdateCandidateSubscription(ctx, candidateID, isSubscriber); err != nil {
		return nil, err
	}
	status := "subscriber"
	if !isSubscriber {
		status = "non-subscriber"
	}
	return "Candidate subscription status updated to: " + status, nil
}

func (h *handlerSet) updateCandidateStage(ctx context.Context, args map[string]any) (any, error) {
	email, err := stringArg(args, "email")
	if err != nil {
		return nil, err
	}
	stageName, err := stringArg(args, "stage_name")
	if err != nil {
		return nil, err
	}
	if err := h.directory.UpdateCandidateStage(ctx, email, stageName); err != nil {
		return nil, err
	}
	return "Candidate stage updated to: " + stageName, nil
}

func (h *handlerSet) getJobDetails(ctx context.Context, args map[string]any) (any, error) {
	jobID, err := stringArg(args, "job_id")
	if err != nil {
		return nil, err
	}
	return h.directory.JobDetails(ctx, jobID)
}

func (h *handlerSet) findActiveCandidatures(ctx context.Context, args map[string]any) (any, error) {
	email, err := stringArg(args, "email")
	if err != nil {
		return nil, err
	}
	return h.directory.FindActiveCandidatures(ctx, email)
}

func (h *handlerSet) disqualifyCandidature(ctx context.Context, args map[string]any) (any, error) {
	candidatureID, err := stringArg(args, "candidature_id")
	if err != nil {
		return nil, err
	}
	reason := stringArgDefault(args, "reason", defaultDisqualifyReason)
	if err := h.directory.DisqualifyCandidature(ctx, candidatureID, reason); err != nil {
		return nil, err
	}
	return "Candidature successfully disqualified with reason: " + reason, nil
}

func (h *handlerSet) disqualifyAllCandidatures(ctx context.Context, args map[string]any) (any, error) {
	email, err := stringArg(args, "email")
	if err != nil {
		return nil, err
	}
	return h.directory.DisqualifyAllCandidatures(ctx, email)
}

func (h *handlerSet) getCustomFieldsDefinitions(ctx context.Context, _ map[string]any) (any, error) {
	return h.directory.CustomFieldDefinitions(ctx)
}

func (h *handlerSet) checkCandidateEligibility(_ context.Context, args map[string]any) (any, error) {
	data, err := objectArg(args, "viterbit_data")
	if err != nil {
		return nil, err
	}
	eligible := candidateEligible(data)
	reason := "Candidate is eligible"
	if !eligible {
		reason = "Candidate is inactive"
	}
	return map[string]any{"eligible": eligible, "reason": reason}, nil
}

func (h *handlerSet) getDepartmentLocationMappings(_ context.Context, _ map[string]any) (any, error) {
	return map[string]any{
		"departments": h.lookups.Departments,
		"locations":   h.lookups.Locations,
	}, nil
}

func (h *handlerSet) extractDiscordUsername(_ context.Context, args map[string]any) (any, error) {
	fields, err := arrayArg(args, "custom_fields")
	if err != nil {
		return nil, err
	}
	return map[string]any{"discord_username": extractDiscordUser(fields)}, nil
}

func (h *handlerSet) searchSubscribers(ctx context.Context, args map[string]any) (any, error) {
	filters := []port.FieldFilter{
		{Field: h.lookups.Filters.Subscriber, Value: boolArgDefault(args, "is_subscriber", true)},
	}
	filters = appendFieldFilter(filters, args, "activity_status", h.lookups.Filters.ActivityStatus)

	page, pageSize := pageArgs(args)
	result, err := h.directory.SearchCandidates(ctx, filters, page, pageSize)
	if err != nil {
		return nil, err
	}

	summary, data, meta := searchSummary(result)
	return map[string]any{
		"summary":         summary,
		"filters_applied": appliedArguments(args),
		"candidates":      data,
		"meta":            meta,
	}, nil
}

func (h *handlerSet) getCandidateCount(ctx context.Context, args map[string]any) (any, error) {
	result, err := h.directory.SearchCandidates(ctx, h.candidateFilters(args), 1, 1)
	if err != nil {
		return nil, err
	}

	meta, _ := result["meta"].(map[string]any)
	if meta == nil {
		meta = map[string]any{}
	}
	return map[string]any{
		"total_candidates": metaValue(meta, "total", 0),
		"filters_applied":  appliedArguments(args),
		"meta":             meta,
	}, nil
}

func (h *handlerSet) searchCandidatesByLocation(ctx context.Context, args map[string]any) (any, error) {
	filters := make([]port.FieldFilter, 0, 7)
	filters = appendFieldFilter(filters, args, "zona", h.lookups.Filters.Zone)
	filters = appendFieldFilter(filters, args, "provincia", h.lookups.Filters.Province)
	filters = appendFieldFilter(filters, args, "city", addressCityField)
	filters = appendFieldFilter(filters, args, "state", addressStateField)
	filters = appendFieldFilter(filters, args, "postal_code", addressPostalCodeField)
	if isSubscriber, ok := optBool(args, "is_subscriber"); ok {
		filters = append(filters, port.FieldFilter{Field: h.lookups.Filters.Subscriber, Value: isSubscriber})
	}
	filters = appendFieldFilter(filters, args, "activity_status", h.lookups.Filters.ActivityStatus)

	page, pageSize := pageArgs(args)
	result, err := h.directory.SearchCandidates(ctx, filters, page, pageSize)
	if err != nil {
		return nil, err
	}

	summary, data, meta := searchSummary(result)
	return map[string]any{
		"summary":            summary,
		"location_filters":   pickArguments(args, "zona", "provincia", "city", "state", "postal_code"),
		"additional_filters": pickArguments(args, "is_subscriber", "activity_status"),
		"candidates":         data,
		"meta":               meta,
	}, nil
}

func (h *handlerSet) getCandidatureStageHistory(ctx context.Context, args map[string]any) (any, error) {
	candidatureID, err := stringArg(args, "candidature_id")
	if err != nil {
		return nil, err
	}
	return h.directory.CandidatureStageHistory(ctx, candidatureID)
}

func (h *handlerSet) getCandidaturesChangedToStage(ctx context.Context, args map[string]any) (any, error) {
	stageName, year, month, err := stagePeriod(args)
	if err != nil {
		return nil, err
	}
	transitions, err := h.directory.CandidaturesChangedToStage(ctx, stageName, year, month)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"summary": map[string]any{
			"total_found": len(transitions),
			"stage_name":  stageName,
			"period":      fmt.Sprintf("%d-%02d", year, month),
			"search_criteria": map[string]any{
				"stage_name": stageName,
				"year":       year,
				"month":      month,
			},
		},
		"candidatures": transitions,
	}, nil
}

func (h *handlerSet) countCandidaturesChangedToStage(ctx context.Context, args map[string]any) (any, error) {
	stageName, year, month, err := stagePeriod(args)
	if err != nil {
		return nil, err
	}
	transitions, err := h.directory.CandidaturesChangedToStage(ctx, stageName, year, month)
	if err != nil {
		return nil, err
	}

	period := fmt.Sprintf("%d-%02d", year, month)
	return map[string]any{
		"count":      len(transitions),
		"stage_name": stageName,
		"period":     period,
		"query":      fmt.Sprintf("Candidatures changed to '%s' in %s", stageName, period),
	}, nil
}

func (h *handlerSet) getCandidaturesInCurrentStage(ctx context.Context, args map[string]any) (any, error) {
	stageName, err := stringArg(args, "stage_name")
	if err != nil {
		return nil, err
	}
	page, pageSize := pageArgs(args)
	result, err := h.directory.CandidaturesInCurrentStage(ctx, stageName, page, pageSize)
	if err != nil {
		return nil, err
	}

	meta, _ := result["meta"].(map[string]any)
	if meta == nil {
		meta = map[string]any{}
	}
	data, _ := result["data"].([]any)
	if data == nil {
		data = []any{}
	}
	return map[string]any{
		"summary": map[string]any{
			"total_in_stage": metaValue(meta, "total", 0),
			"showing":        len(data),
			"page":           metaValue(meta, "page", 1),
			"total_pages":    metaValue(meta, "total_pages", 0),
			"has_more":       metaValue(meta, "has_more", false),
		},
		"stage_name":   stageName,
		"query":        fmt.Sprintf("Candidatures currently in '%s' stage", stageName),
		"candidatures": data,
		"meta":         meta,
	}, nil
}

func (h *handlerSet) countCandidaturesInCurrentStage(ctx context.Context, args map[string]any) (any, error) {
	stageName, err := stringArg(args, "stage_name")
	if err != nil {
		return nil, err
	}
	count, err := h.directory.CountCandidaturesInCurrentStage(ctx, stageName)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"count":      count,
		"stage_name": stageName,
		"query":      fmt.Sprintf("Candidatures currently in '%s' stage", stageName),
	}, nil
}

// candidateFilters maps the get_candidate_count criteria onto directory
// filters, skipping absent arguments.
func (h *handlerSet) candidateFilters(args map[string]any) []port.FieldFilter {
	filters := make([]port.FieldFilter, 0, 11)
	if isSubscriber, ok := optBool(args, "is_subscriber"); ok {
		filters = append(filters, port.FieldFilter{Field: h.lookups.Filters.Subscriber, Value: isSubscriber})
	}
	filters = appendFieldFilter(filters, args, "activity_status", h.lookups.Filters.ActivityStatus)
	filters = appendFieldFilter(filters, args, "coach", h.lookups.Filters.Coach)
	filters = appendFieldFilter(filters, args, "has_driving_license", h.lookups.Filters.DrivingLicense)
	filters = appendFieldFilter(filters, args, "national_mobility", h.lookups.Filters.NationalMobility)
	filters = appendFieldFilter(filters, args, "has_experience", h.lookups.Filters.Experience)
	filters = appendFieldFilter(filters, args, "zona", h.lookups.Filters.Zone)
	filters = appendFieldFilter(filters, args, "provincia", h.lookups.Filters.Province)
	filters = appendFieldFilter(filters, args, "city", addressCityField)
	filters = appendFieldFilter(filters, args, "state", addressStateField)
	filters = appendFieldFilter(filters, args, "postal_code", addressPostalCodeField)
	return filters
}

// candidateEligible reports whether a candidate belongs in reports. Only an
// explicit "Inactivo" marker excludes.
func candidateEligible(data map[string]any) bool {
	if len(data) == 0 {
		return true
	}
	return data["activo_inactivo"] != "Inactivo"
}

// extractDiscordUser scans custom fields for the Discord username entry.
func extractDiscordUser(fields []any) any {
	for _, raw := range fields {
		field, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if field["title"] == discordFieldTitle {
			if value, ok := field["value"]; ok {
				return value
			}
			return "Not found"
		}
	}
	return "Not found"
}

// stringArg returns a required string argument.
func stringArg(args map[string]any, name string) (string, error) {
	value, ok := args[name].(string)
	if !ok {
		return "", fmt.Errorf("parameter %q must be a string", name)
	}
	return value, nil
}

// stringArgDefault returns an optional string argument, falling back when
// absent or empty.
func stringArgDefault(args map[string]any, name, fallback string) string {
	if value, ok := args[name].(string); ok && value != "" {
		return value
	}
	return fallback
}

// boolArgDefault returns an optional boolean argument.
func boolArgDefault(args map[string]any, name string, fallback bool) bool {
	if value, ok := args[name].(bool); ok {
		return value
	}
	return fallback
}

// optBool distinguishes an absent boolean argument from a provided one.
func optBool(args map[string]any, name string) (bool, bool) {
	value, ok := args[name].(bool)
	return value, ok
}

// intArg returns a required integer argument. Normalized arguments carry
// numbers as float64.
func intArg(args map[string]any, name string) (int, error) {
	switch value := args[name].(type) {
	case float64:
		return int(value), nil
	case int:
		return value, nil
	default:
		return 0, fmt.Errorf("parameter %q must be an integer", name)
	}
}

// intArgDefault returns an optional integer argument.
func intArgDefault(args map[string]any, name string, fallback int) int {
	switch value := args[name].(type) {
	case float64:
		return int(value)
	case int:
		return value
	default:
		return fallback
	}
}

// objectArg returns a required object argument.
func objectArg(args map[string]any, name string) (map[string]any, error) {
	value, ok := args[name].(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parameter %q must be an object", name)
	}
	return value, nil
}

// arrayArg returns a required array argument.
func arrayArg(args map[string]any, name string) ([]any, error) {
	value, ok := args[name].([]any)
	if !ok {
		return nil, fmt.Errorf("parameter %q must be an array", name)
	}
	return value, nil
}

// pageArgs reads the shared pagination arguments.
func pageArgs(args map[string]any) (page, pageSize int) {
	return intArgDefault(args, "page", 1), intArgDefault(args, "page_size", 50)
}

// stagePeriod reads the shared stage/year/month arguments.
func stagePeriod(args map[string]any) (string, int, int, error) {
	stageName, err := stringArg(args, "stage_name")
	if err != nil {
		return "", 0, 0, err
	}
	year, err := intArg(args, "year")
	if err != nil {
		return "", 0, 0, err
	}
	month, err := intArg(args, "month")
	if err != nil {
		return "", 0, 0, err
	}
	return stageName, year, month, nil
}

// appendFieldFilter adds one equality filter when the argument carries a
// value.
func appendFieldFilter(filters []port.FieldFilter, args map[string]any, arg, field string) []port.FieldFilter {
	if value := stringArgDefault(args, arg, ""); value != "" {
		filters = append(filters, port.FieldFilter{Field: field, Value: value})
	}
	return filters
}

// appliedArguments echoes back the arguments a search ran with.
func appliedArguments(args map[string]any) map[string]any {
	applied := make(map[string]any, len(args))
	for name, value := range args {
		if value != nil {
			applied[name] = value
		}
	}
	return applied
}

// pickArguments echoes back a subset of the arguments.
func pickArguments(args map[string]any, names ...string) map[string]any {
	picked := make(map[string]any, len(names))
	for _, name := range names {
		if value, ok := args[name]; ok && value != nil {
			picked[name] = value
		}
	}
	return picked
}

// searchSummary reshapes a paginated search response around its metadata.
func searchSummary(result map[string]any) (summary map[string]any, data []any, meta map[string]any) {
	meta, _ = result["meta"].(map[string]any)
	if meta == nil {
		meta = map[string]any{}
	}
	data, _ = result["data"].([]any)
	if data == nil {
		data = []any{}
	}
	summary = map[string]any{
		"total_found": metaValue(meta, "total", 0),
		"showing":     len(data),
		"page":        metaValue(meta, "page", 1),
		"total_pages": metaValue(meta, "total_pages", 0),
		"has_more":    metaValue(meta, "has_more", false),
	}
	return summary, data, meta
}

// metaValue reads one metadata entry with a fallback.
func metaValue(meta map[string]any, key string, fallback any) any {
	if value, ok := meta[key]; ok && value != nil {
		return value
	}
	return fallback
}
