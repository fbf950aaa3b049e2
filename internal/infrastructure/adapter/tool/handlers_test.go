package tool

import (
	"context"
	"errors"
	"testing"

	"viterbit-gateway/internal/domain/entity"
	"viterbit-gateway/internal/domain/port"
)

var errUnexpectedCall = errors.New("unexpected directory call")

// fakeDirectory implements port.CandidateDirectory with per-method hooks.
type fakeDirectory struct {
	searchCandidate     func(term string) (map[string]any, error)
	candidateDetails    func(candidateID string) (map[string]any, error)
	candidateIDByEmail  func(email string) (string, error)
	withDirectoryFields func(email string) (map[string]any, error)
	updateDiscordID     func(candidateID, discordID string) error
	updateSubscription  func(candidateID string, isSubscriber bool) error
	updateStage         func(email, stageName string) error
	jobDetails          func(jobID string) (map[string]any, error)
	activeCandidatures  func(email string) ([]map[string]any, error)
	disqualify          func(candidatureID, reason string) error
	disqualifyAll       func(email string) (*port.DisqualificationReport, error)
	fieldDefinitions    func() (map[string]any, error)
	searchCandidates    func(filters []port.FieldFilter, page, pageSize int) (map[string]any, error)
	stageHistory        func(candidatureID string) (map[string]any, error)
	changedToStage      func(stageName string, year, month int) ([]port.StageTransition, error)
	inCurrentStage      func(stageName string, page, pageSize int) (map[string]any, error)
	countInCurrentStage func(stageName string) (int, error)
}

func (f *fakeDirectory) SearchCandidate(_ context.Context, term string) (map[string]any, error) {
	if f.searchCandidate == nil {
		return nil, errUnexpectedCall
	}
	return f.searchCandidate(term)
}

func (f *fakeDirectory) CandidateDetails(_ context.Context, candidateID string) (map[string]any, error) {
	if f.candidateDetails == nil {
		return nil, errUnexpectedCall
	}
	return f.candidateDetails(candidateID)
}

func (f *fakeDirectory) CandidateIDByEmail(_ context.Context, email string) (string, error) {
	if f.candidateIDByEmail == nil {
		return "", errUnexpectedCall
	}
	return f.candidateIDByEmail(email)
}

func (f *fakeDirectory) CandidateWithDirectoryFields(_ context.Context, email string) (map[string]any, error) {
	if f.withDirectoryFields == nil {
		return nil, errUnexpectedCall
	}
	return f.withDirectoryFields(email)
}

func (f *fakeDirectory) UpdateCandidateDiscordID(_ context.Context, candidateID, discordID string) error {
	if f.updateDiscordID == nil {
		return errUnexpectedCall
	}
	return f.updateDiscordID(candidateID, discordID)
}

func (f *fakeDirectory) UpdateCandidateSubscription(_ context.Context, candidateID string, isSubscriber bool) error {
	if f.updateSubscription == nil {
		return errUnexpectedCall
	}
	return f.updateSubscription(candidateID, isSubscriber)
}

func (f *fakeDirectory) UpdateCandidateStage(_ context.Context, email, stageName string) error {
	if f.updateStage == nil {
		return errUnexpectedCall
	}
	return f.updateStage(email, stageName)
}

func (f *fakeDirectory) JobDetails(_ context.Context, jobID string) (map[string]any, error) {
	if f.jobDetails == nil {
		return nil, errUnexpectedCall
	}
	return f.jobDetails(jobID)
}

func (f *fakeDirectory) FindActiveCandidatures(_ context.Context, email string) ([]map[string]any, error) {
	if f.activeCandidatures == nil {
		return nil, errUnexpectedCall
	}
	return f.activeCandidatures(email)
}

func (f *fakeDirectory) DisqualifyCandidature(_ context.Context, candidatureID, reason string) error {
	if f.disqualify == nil {
		return errUnexpectedCall
	}
	return f.disqualify(candidatureID, reason)
}

func (f *fakeDirectory) DisqualifyAllCandidatures(_ context.Context, email string) (*port.DisqualificationReport, error) {
	if f.disqualifyAll == nil {
		return nil, errUnexpectedCall
	}
	return f.disqualifyAll(email)
}

func (f *fakeDirectory) CustomFieldDefinitions(_ context.Context) (map[string]any, error) {
	if f.fieldDefinitions == nil {
		return nil, errUnexpectedCall
	}
	return f.fieldDefinitions()
}

func (f *fakeDirectory) SearchCandidates(_ context.Context, filters []port.FieldFilter, page, pageSize int) (map[string]any, error) {
	if f.searchCandidates == nil {
		return nil, errUnexpectedCall
	}
	return f.searchCandidates(filters, page, pageSize)
}

func (f *fakeDirectory) CandidatureStageHistory(_ context.Context, candidatureID string) (map[string]any, error) {
	if f.stageHistory == nil {
		return nil, errUnexpectedCall
	}
	return f.stageHistory(candidatureID)
}

func (f *fakeDirectory) CandidaturesChangedToStage(_ context.Context, stageName string, year, month int) ([]port.StageTransition, error) {
	if f.changedToStage == nil {
		return nil, errUnexpectedCall
	}
	return f.changedToStage(stageName, year, month)
}

func (f *fakeDirectory) CandidaturesInCurrentStage(_ context.Context, stageName string, page, pageSize int) (map[string]any, error) {
	if f.inCurrentStage == nil {
		return nil, errUnexpectedCall
	}
	return f.inCurrentStage(stageName, page, pageSize)
}

func (f *fakeDirectory) CountCandidaturesInCurrentStage(_ context.Context, stageName string) (int, error) {
	if f.countInCurrentStage == nil {
		return 0, errUnexpectedCall
	}
	return f.countInCurrentStage(stageName)
}

func testLookups() Lookups {
	return Lookups{
		Departments: map[string]string{"Electricidad": "dept-elec"},
		Locations:   map[string]string{"Madrid": "loc-madrid"},
		Filters: FilterFieldIDs{
			Subscriber:       "field-subscriber",
			ActivityStatus:   "field-activity",
			Coach:            "field-coach",
			DrivingLicense:   "field-license",
			NationalMobility: "field-mobility",
			Experience:       "field-experience",
			Zone:             "field-zona",
			Province:         "field-provincia",
		},
	}
}

func buildHandlers(t *testing.T, directory *fakeDirectory) (*entity.Catalog, map[string]port.ToolHandler) {
	t.Helper()
	catalog, handlers, err := Build(directory, testLookups())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return catalog, handlers
}

func callHandler(t *testing.T, handlers map[string]port.ToolHandler, name string, args map[string]any) any {
	t.Helper()
	handler, ok := handlers[name]
	if !ok {
		t.Fatalf("no handler registered for %s", name)
	}
	result, err := handler(context.Background(), args)
	if err != nil {
		t.Fatalf("%s handler error = %v", name, err)
	}
	return result
}

func TestHandlers_UpdateConfirmations(t *testing.T) {
	t.Run("discord ID update", func(t *testing.T) {
		var gotCandidate, gotDiscord string
		directory := &fakeDirectory{updateDiscordID: func(candidateID, discordID string) error {
			gotCandidate, gotDiscord = candidateID, discordID
			return nil
		}}
		_, handlers := buildHandlers(t, directory)

		result := callHandler(t, handlers, "update_candidate_discord_id", map[string]any{
			"candidate_id": "cand-1", "discord_id": "ana#1234",
		})
		if result != "Discord ID updated successfully" {
			t.Errorf("result = %v, want confirmation string", result)
		}
		if gotCandidate != "cand-1" || gotDiscord != "ana#1234" {
			t.Errorf("directory called with (%s, %s)", gotCandidate, gotDiscord)
		}
	})

	t.Run("subscription defaults to subscriber", func(t *testing.T) {
		var gotSubscriber bool
		directory := &fakeDirectory{updateSubscription: func(_ string, isSubscriber bool) error {
			gotSubscriber = isSubscriber
			return nil
		}}
		_, handlers := buildHandlers(t, directory)

		result := callHandler(t, handlers, "update_candidate_subscription", map[string]any{"candidate_id": "cand-1"})
		if result != "Candidate subscription status updated to: subscriber" {
			t.Errorf("result = %v", result)
		}
		if !gotSubscriber {
			t.Error("is_subscriber should default to true")
		}
	})

	t.Run("explicit non-subscriber", func(t *testing.T) {
		directory := &fakeDirectory{updateSubscription: func(string, bool) error { return nil }}
		_, handlers := buildHandlers(t, directory)

		result := callHandler(t, handlers, "update_candidate_subscription", map[string]any{
			"candidate_id": "cand-1", "is_subscriber": false,
		})
		if result != "Candidate subscription status updated to: non-subscriber" {
			t.Errorf("result = %v", result)
		}
	})

	t.Run("stage update", func(t *testing.T) {
		directory := &fakeDirectory{updateStage: func(string, string) error { return nil }}
		_, handlers := buildHandlers(t, directory)

		result := callHandler(t, handlers, "update_candidate_stage", map[string]any{
			"email": "ana@example.com", "stage_name": "Match",
		})
		if result != "Candidate stage updated to: Match" {
			t.Errorf("result = %v", result)
		}
	})

	t.Run("disqualify with default reason", func(t *testing.T) {
		var gotReason string
		directory := &fakeDirectory{disqualify: func(_, reason string) error {
			gotReason = reason
			return nil
		}}
		_, handlers := buildHandlers(t, directory)

		result := callHandler(t, handlers, "disqualify_candidature", map[string]any{"candidature_id": "candt-1"})
		if result != "Candidature successfully disqualified with reason: Baja Servicio" {
			t.Errorf("result = %v", result)
		}
		if gotReason != "Baja Servicio" {
			t.Errorf("reason = %q, want default", gotReason)
		}
	})

	t.Run("directory failure propagates", func(t *testing.T) {
		wantErr := errors.New("candidate locked")
		directory := &fakeDirectory{updateStage: func(string, string) error { return wantErr }}
		_, handlers := buildHandlers(t, directory)

		_, err := handlers["update_candidate_stage"](context.Background(), map[string]any{
			"email": "ana@example.com", "stage_name": "Match",
		})
		if !errors.Is(err, wantErr) {
			t.Errorf("error = %v, want directory error", err)
		}
	})
}

func TestHandlers_Eligibility(t *testing.T) {
	_, handlers := buildHandlers(t, &fakeDirectory{})

	tests := []struct {
		name         string
		data         map[string]any
		wantEligible bool
		wantReason   string
	}{
		{
			name:         "inactive candidate is excluded",
			data:         map[string]any{"activo_inactivo": "Inactivo"},
			wantEligible: false,
			wantReason:   "Candidate is inactive",
		},
		{
			name:         "active candidate is eligible",
			data:         map[string]any{"activo_inactivo": "Activo"},
			wantEligible: true,
			wantReason:   "Candidate is eligible",
		},
		{
			name:         "missing marker is eligible",
			data:         map[string]any{"email": "ana@example.com"},
			wantEligible: true,
			wantReason:   "Candidate is eligible",
		},
		{
			name:         "empty data is eligible",
			data:         map[string]any{},
			wantEligible: true,
			wantReason:   "Candidate is eligible",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := callHandler(t, handlers, "check_candidate_eligibility", map[string]any{"viterbit_data": tt.data})
			verdict := result.(map[string]any)
			if verdict["eligible"] != tt.wantEligible {
				t.Errorf("eligible = %v, want %v", verdict["eligible"], tt.wantEligible)
			}
			if verdict["reason"] != tt.wantReason {
				t.Errorf("reason = %v, want %q", verdict["reason"], tt.wantReason)
			}
		})
	}
}

func TestHandlers_ExtractDiscordUsername(t *testing.T) {
	_, handlers := buildHandlers(t, &fakeDirectory{})

	t.Run("finds the discord field by title", func(t *testing.T) {
		result := callHandler(t, handlers, "extract_discord_username", map[string]any{
			"custom_fields": []any{
				map[string]any{"title": "Provincia", "value": "Madrid"},
				map[string]any{"title": "Usuario en Discord", "value": "ana#1234"},
			},
		})
		if result.(map[string]any)["discord_username"] != "ana#1234" {
			t.Errorf("result = %v", result)
		}
	})

	t.Run("reports Not found when absent", func(t *testing.T) {
		result := callHandler(t, handlers, "extract_discord_username", map[string]any{
			"custom_fields": []any{map[string]any{"title": "Provincia", "value": "Madrid"}},
		})
		if result.(map[string]any)["discord_username"] != "Not found" {
			t.Errorf("result = %v", result)
		}
	})
}

func TestHandlers_SearchSubscribers(t *testing.T) {
	var gotFilters []port.FieldFilter
	var gotPage, gotPageSize int
	directory := &fakeDirectory{searchCandidates: func(filters []port.FieldFilter, page, pageSize int) (map[string]any, error) {
		gotFilters, gotPage, gotPageSize = filters, page, pageSize
		return map[string]any{
			"data": []any{map[string]any{"id": "cand-1"}},
			"meta": map[string]any{"total": float64(12), "page": float64(2), "total_pages": float64(6), "has_more": true},
		}, nil
	}}
	_, handlers := buildHandlers(t, directory)

	result := callHandler(t, handlers, "search_subscribers", map[string]any{
		"activity_status": "Activo",
		"page":            float64(2),
		"page_size":       float64(2),
	})

	if len(gotFilters) != 2 {
		t.Fatalf("filters = %v, want subscriber default plus activity status", gotFilters)
	}
	if gotFilters[0].Field != "field-subscriber" || gotFilters[0].Value != true {
		t.Errorf("first filter = %+v, want subscriber=true default", gotFilters[0])
	}
	if gotFilters[1].Field != "field-activity" || gotFilters[1].Value != "Activo" {
		t.Errorf("second filter = %+v", gotFilters[1])
	}
	if gotPage != 2 || gotPageSize != 2 {
		t.Errorf("pagination = (%d, %d), want (2, 2)", gotPage, gotPageSize)
	}

	payload := result.(map[string]any)
	summary := payload["summary"].(map[string]any)
	if summary["total_found"] != float64(12) {
		t.Errorf("total_found = %v, want 12", summary["total_found"])
	}
	if summary["showing"] != 1 {
		t.Errorf("showing = %v, want 1", summary["showing"])
	}
	if summary["has_more"] != true {
		t.Errorf("has_more = %v, want true", summary["has_more"])
	}
	applied := payload["filters_applied"].(map[string]any)
	if applied["activity_status"] != "Activo" {
		t.Errorf("filters_applied = %v, want the provided arguments", applied)
	}
	if _, ok := payload["candidates"]; !ok {
		t.Error("payload missing candidates")
	}
	if _, ok := payload["meta"]; !ok {
		t.Error("payload missing meta")
	}
}

func TestHandlers_GetCandidateCount(t *testing.T) {
	var gotFilters []port.FieldFilter
	var gotPage, gotPageSize int
	directory := &fakeDirectory{searchCandidates: func(filters []port.FieldFilter, page, pageSize int) (map[string]any, error) {
		gotFilters, gotPage, gotPageSize = filters, page, pageSize
		return map[string]any{"data": []any{}, "meta": map[string]any{"total": float64(42)}}, nil
	}}
	_, handlers := buildHandlers(t, directory)

	result := callHandler(t, handlers, "get_candidate_count", map[string]any{
		"is_subscriber": false,
		"coach":         "Irene",
		"city":          "Madrid",
	})

	if gotPage != 1 || gotPageSize != 1 {
		t.Errorf("pagination = (%d, %d), want the single-item count probe", gotPage, gotPageSize)
	}
	if len(gotFilters) != 3 {
		t.Fatalf("filters = %v, want exactly the provided criteria", gotFilters)
	}
	if gotFilters[0].Field != "field-subscriber" || gotFilters[0].Value != false {
		t.Errorf("subscriber filter = %+v", gotFilters[0])
	}
	if gotFilters[1].Field != "field-coach" || gotFilters[1].Value != "Irene" {
		t.Errorf("coach filter = %+v", gotFilters[1])
	}
	if gotFilters[2].Field != "address__city" || gotFilters[2].Value != "Madrid" {
		t.Errorf("city filter = %+v", gotFilters[2])
	}

	payload := result.(map[string]any)
	if payload["total_candidates"] != float64(42) {
		t.Errorf("total_candidates = %v, want 42", payload["total_candidates"])
	}
}

func TestHandlers_SearchCandidatesByLocation(t *testing.T) {
	directory := &fakeDirectory{searchCandidates: func(filters []port.FieldFilter, page, pageSize int) (map[string]any, error) {
		return map[string]any{"data": []any{}, "meta": map[string]any{"total": float64(0)}}, nil
	}}
	_, handlers := buildHandlers(t, directory)

	result := callHandler(t, handlers, "search_candidates_by_location", map[string]any{
		"provincia":     "Valencia",
		"is_subscriber": true,
	})

	payload := result.(map[string]any)
	location := payload["location_filters"].(map[string]any)
	if location["provincia"] != "Valencia" || len(location) != 1 {
		t.Errorf("location_filters = %v, want only provincia", location)
	}
	additional := payload["additional_filters"].(map[string]any)
	if additional["is_subscriber"] != true || len(additional) != 1 {
		t.Errorf("additional_filters = %v, want only is_subscriber", additional)
	}
}

func TestHandlers_StageReporting(t *testing.T) {
	transitions := []port.StageTransition{
		{CandidatureID: "candt-1", StageName: "Match", StageChangeDate: "2025-03-02T09:30:00+00:00"},
		{CandidatureID: "candt-2", StageName: "Match", StageChangeDate: "2025-03-20T15:00:00+00:00"},
	}

	t.Run("changed-to-stage summary", func(t *testing.T) {
		var gotStage string
		var gotYear, gotMonth int
		directory := &fakeDirectory{changedToStage: func(stageName string, year, month int) ([]port.StageTransition, error) {
			gotStage, gotYear, gotMonth = stageName, year, month
			return transitions, nil
		}}
		_, handlers := buildHandlers(t, directory)

		result := callHandler(t, handlers, "get_candidatures_changed_to_stage", map[string]any{
			"stage_name": "Match", "year": float64(2025), "month": float64(3),
		})

		if gotStage != "Match" || gotYear != 2025 || gotMonth != 3 {
			t.Errorf("directory called with (%s, %d, %d)", gotStage, gotYear, gotMonth)
		}
		payload := result.(map[string]any)
		summary := payload["summary"].(map[string]any)
		if summary["total_found"] != 2 {
			t.Errorf("total_found = %v, want 2", summary["total_found"])
		}
		if summary["period"] != "2025-03" {
			t.Errorf("period = %v, want zero-padded month", summary["period"])
		}
		criteria := summary["search_criteria"].(map[string]any)
		if criteria["year"] != 2025 || criteria["month"] != 3 {
			t.Errorf("search_criteria = %v", criteria)
		}
	})

	t.Run("changed-to-stage count", func(t *testing.T) {
		directory := &fakeDirectory{changedToStage: func(string, int, int) ([]port.StageTransition, error) {
			return transitions, nil
		}}
		_, handlers := buildHandlers(t, directory)

		result := callHandler(t, handlers, "count_candidatures_changed_to_stage", map[string]any{
			"stage_name": "Match", "year": float64(2025), "month": float64(3),
		})
		payload := result.(map[string]any)
		if payload["count"] != 2 {
			t.Errorf("count = %v, want 2", payload["count"])
		}
		if payload["query"] != "Candidatures changed to 'Match' in 2025-03" {
			t.Errorf("query = %v", payload["query"])
		}
	})

	t.Run("current-stage listing", func(t *testing.T) {
		directory := &fakeDirectory{inCurrentStage: func(stageName string, page, pageSize int) (map[string]any, error) {
			return map[string]any{
				"data": []any{map[string]any{"id": "candt-1"}},
				"meta": map[string]any{"total": float64(7)},
			}, nil
		}}
		_, handlers := buildHandlers(t, directory)

		result := callHandler(t, handlers, "get_candidatures_in_current_stage", map[string]any{"stage_name": "Match"})
		payload := result.(map[string]any)
		summary := payload["summary"].(map[string]any)
		if summary["total_in_stage"] != float64(7) {
			t.Errorf("total_in_stage = %v, want 7", summary["total_in_stage"])
		}
		if payload["query"] != "Candidatures currently in 'Match' stage" {
			t.Errorf("query = %v", payload["query"])
		}
	})

	t.Run("current-stage count", func(t *testing.T) {
		directory := &fakeDirectory{countInCurrentStage: func(string) (int, error) { return 9, nil }}
		_, handlers := buildHandlers(t, directory)

		result := callHandler(t, handlers, "count_candidatures_in_current_stage", map[string]any{"stage_name": "Match"})
		payload := result.(map[string]any)
		if payload["count"] != 9 {
			t.Errorf("count = %v, want 9", payload["count"])
		}
	})
}

func TestHandlers_Mappings(t *testing.T) {
	_, handlers := buildHandlers(t, &fakeDirectory{})

	result := callHandler(t, handlers, "get_department_location_mappings", nil)
	payload := result.(map[string]any)
	departments := payload["departments"].(map[string]string)
	if departments["Electricidad"] != "dept-elec" {
		t.Errorf("departments = %v", departments)
	}
	locations := payload["locations"].(map[string]string)
	if locations["Madrid"] != "loc-madrid" {
		t.Errorf("locations = %v", locations)
	}
}

func TestHandlers_Extended(t *testing.T) {
	t.Run("ping", func(t *testing.T) {
		_, handlers := buildHandlers(t, &fakeDirectory{})
		result := callHandler(t, handlers, "ping", nil)
		payload := result.(map[string]any)
		if payload["status"] != "pong" || payload["message"] != "Server is alive" {
			t.Errorf("ping = %v", payload)
		}
	})

	t.Run("echo", func(t *testing.T) {
		_, handlers := buildHandlers(t, &fakeDirectory{})
		result := callHandler(t, handlers, "echo", map[string]any{"message": "hola"})
		payload := result.(map[string]any)
		if payload["echo"] != "hola" || payload["length"] != 4 {
			t.Errorf("echo = %v", payload)
		}
	})

	t.Run("candidate summary", func(t *testing.T) {
		directory := &fakeDirectory{
			searchCandidate: func(term string) (map[string]any, error) {
				return map[string]any{"id": "cand-1", "full_name": "Ana Ruiz", "email": term, "phone_number": "+34600000000"}, nil
			},
			candidateDetails: func(candidateID string) (map[string]any, error) {
				return map[string]any{
					"id":      candidateID,
					"phone":   "+34600000000",
					"address": map[string]any{"city": "Madrid"},
				}, nil
			},
			activeCandidatures: func(string) ([]map[string]any, error) {
				return []map[string]any{{"id": "candt-1"}, {"id": "candt-2"}}, nil
			},
		}
		_, handlers := buildHandlers(t, directory)

		result := callHandler(t, handlers, "get_candidate_summary", map[string]any{"email": "ana@example.com"})
		payload := result.(map[string]any)
		if payload["name"] != "Ana Ruiz" {
			t.Errorf("name = %v", payload["name"])
		}
		if payload["active_applications"] != 2 {
			t.Errorf("active_applications = %v, want 2", payload["active_applications"])
		}
		if payload["location"] != "Madrid" {
			t.Errorf("location = %v", payload["location"])
		}
		if payload["profile_complete"] != true {
			t.Errorf("profile_complete = %v, want true", payload["profile_complete"])
		}
	})

	t.Run("candidate summary with bare profile", func(t *testing.T) {
		directory := &fakeDirectory{
			searchCandidate: func(string) (map[string]any, error) {
				return map[string]any{"id": "cand-2", "full_name": "Leo Gil"}, nil
			},
			candidateDetails: func(string) (map[string]any, error) {
				return map[string]any{"id": "cand-2"}, nil
			},
			activeCandidatures: func(string) ([]map[string]any, error) { return nil, nil },
		}
		_, handlers := buildHandlers(t, directory)

		result := callHandler(t, handlers, "get_candidate_summary", map[string]any{"email": "leo@example.com"})
		payload := result.(map[string]any)
		if payload["profile_complete"] != false {
			t.Errorf("profile_complete = %v, want false", payload["profile_complete"])
		}
		if payload["active_applications"] != 0 {
			t.Errorf("active_applications = %v, want 0", payload["active_applications"])
		}
	})
}
