package endpoints

import (
	"encoding/json"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/sheetindex/internal/api"
	"github.com/jackzampolin/sheetindex/internal/sheetid"
)

// ValidateRequest holds the candidates to validate, in precedence order.
type ValidateRequest struct {
	Candidates []string `json:"candidates"`
}

// NumberValidationResponse reports every candidate and the chosen one.
type NumberValidationResponse struct {
	Results    []sheetid.NumberResult `json:"results"`
	Chosen     *sheetid.NumberResult  `json:"chosen,omitempty"`
	Discipline sheetid.Discipline     `json:"discipline,omitempty"`
}

// TitleValidationResponse reports every candidate and the chosen one.
type TitleValidationResponse struct {
	Results []sheetid.TitleResult `json:"results"`
	Chosen  *sheetid.TitleResult  `json:"chosen,omitempty"`
}

// ReasonsResponse lists every rejection reason.
type ReasonsResponse struct {
	Reasons []sheetid.RejectionReason `json:"reasons"`
}

func decodeCandidates(w http.ResponseWriter, r *http.Request) ([]string, bool) {
	var req ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return nil, false
	}
	if len(req.Candidates) == 0 {
		writeError(w, http.StatusBadRequest, "candidates is required")
		return nil, false
	}
	return req.Candidates, true
}

// ValidateNumberEndpoint handles POST /api/validate/number.
type ValidateNumberEndpoint struct{}

func (e *ValidateNumberEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/validate/number", e.handler
}

func (e *ValidateNumberEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Validate sheet numbers
//	@Description	Normalizes and validates sheet-number candidates and picks the best
//	@Tags			validate
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ValidateRequest	true	"Candidates"
//	@Success		200		{object}	NumberValidationResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/api/validate/number [post]
func (e *ValidateNumberEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	candidates, ok := decodeCandidates(w, r)
	if !ok {
		return
	}

	results := sheetid.ValidateNumbers(candidates)
	resp := NumberValidationResponse{Results: results}
	if best, _, found := sheetid.ChooseBest(results); found {
		resp.Chosen = &best
		resp.Discipline = sheetid.InferDiscipline(best.Value)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *ValidateNumberEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "number <candidate>...",
		Short: "Validate sheet-number candidates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := NewClient(getServerURL()).ValidateNumbers(cmd.Context(), args)
			if err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// ValidateTitleEndpoint handles POST /api/validate/title.
type ValidateTitleEndpoint struct{}

func (e *ValidateTitleEndpoint) Route() (string, string, http.HandlerFunc) {
	return "POST", "/api/validate/title", e.handler
}

func (e *ValidateTitleEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		Validate sheet titles
//	@Description	Normalizes, rejects, and scores sheet-title candidates and picks the best
//	@Tags			validate
//	@Accept			json
//	@Produce		json
//	@Param			body	body		ValidateRequest	true	"Candidates"
//	@Success		200		{object}	TitleValidationResponse
//	@Failure		400		{object}	ErrorResponse
//	@Router			/api/validate/title [post]
func (e *ValidateTitleEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	candidates, ok := decodeCandidates(w, r)
	if !ok {
		return
	}

	results := sheetid.ValidateTitles(candidates)
	resp := TitleValidationResponse{Results: results}
	if best, _, found := sheetid.ChooseBest(results); found {
		resp.Chosen = &best
	}
	writeJSON(w, http.StatusOK, resp)
}

func (e *ValidateTitleEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "title <candidate>...",
		Short: "Validate sheet-title candidates",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := NewClient(getServerURL()).ValidateTitles(cmd.Context(), args)
			if err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}

// ReasonsEndpoint handles GET /api/reasons.
type ReasonsEndpoint struct{}

func (e *ReasonsEndpoint) Route() (string, string, http.HandlerFunc) {
	return "GET", "/api/reasons", e.handler
}

func (e *ReasonsEndpoint) RequiresInit() bool { return false }

// handler godoc
//
//	@Summary		List rejection reasons
//	@Description	Every reason a candidate or page can be rejected with
//	@Tags			validate
//	@Produce		json
//	@Success		200	{object}	ReasonsResponse
//	@Router			/api/reasons [get]
func (e *ReasonsEndpoint) handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ReasonsResponse{Reasons: sheetid.AllRejectionReasons()})
}

func (e *ReasonsEndpoint) Command(getServerURL func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "reasons",
		Short: "List rejection reasons",
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := NewClient(getServerURL()).Reasons(cmd.Context())
			if err != nil {
				return err
			}
			return api.Output(resp)
		},
	}
}
