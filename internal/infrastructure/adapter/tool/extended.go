package tool

import "context"

type echoArgs struct {
	Message string `json:"message" jsonschema_description:"Message to echo back"`
}

type getCandidateSummaryArgs struct {
	Email string `json:"email" jsonschema_description:"Candidate email address"`
}

// extendedDefinitions lists the utility operations registered on top of the
// core catalog.
func (h *handlerSet) extendedDefinitions() []definition {
	return []definition{
		{
			name:        "ping",
			description: "Simple health check tool that returns pong",
			handler:     h.ping,
		},
		{
			name:        "echo",
			description: "Echo back the provided message",
			args:        echoArgs{},
			handler:     h.echo,
		},
		{
			name:        "get_candidate_summary",
			description: "Get a summary of candidate information with key metrics",
			args:        getCandidateSummaryArgs{},
			handler:     h.getCandidateSummary,
		},
	}
}

func (h *handlerSet) ping(_ context.Context, _ map[string]any) (any, error) {
	return map[string]any{"status": "pong", "message": "Server is alive"}, nil
}

func (h *handlerSet) echo(_ context.Context, args map[string]any) (any, error) {
	message, err := stringArg(args, "message")
	if err != nil {
		return nil, err
	}
	return map[string]any{"echo": message, "length": len(message)}, nil
}

func (h *handlerSet) getCandidateSummary(ctx context.Context, args map[string]any) (any, error) {
	email, err := stringArg(args, "email")
	if err != nil {
		return nil, err
	}

	candidate, err := h.directory.SearchCandidate(ctx, email)
	if err != nil {
		return nil, err
	}
	candidateID, _ := candidate["id"].(string)
	details, err := h.directory.CandidateDetails(ctx, candidateID)
	if err != nil {
		return nil, err
	}
	candidatures, err := h.directory.FindActiveCandidatures(ctx, email)
	if err != nil {
		return nil, err
	}

	address, _ := details["address"].(map[string]any)
	var location any
	if address != nil {
		location = address["city"]
	}
	phone, _ := details["phone"].(string)

	return map[string]any{
		"name":                candidate["full_name"],
		"email":               email,
		"phone":               candidate["phone_number"],
		"active_applications": len(candidatures),
		"location":            location,
		"profile_complete":    phone != "" && len(address) > 0,
	}, nil
}
