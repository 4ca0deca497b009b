package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spboyer/modelpick/internal/models"
	"github.com/spboyer/modelpick/internal/notes"
	"github.com/spboyer/modelpick/internal/profile"
	"github.com/spboyer/modelpick/internal/recommend"
	"github.com/spboyer/modelpick/internal/validation"
)

// HandlerContext provides shared state for method handlers.
type HandlerContext struct {
	engine *recommend.Engine
}

// NewHandlerContext creates a handler context that evaluates with engine.
func NewHandlerContext(engine *recommend.Engine) *HandlerContext {
	return &HandlerContext{engine: engine}
}

// RegisterHandlers registers the profile, rules and notes methods.
func RegisterHandlers(registry *MethodRegistry, hctx *HandlerContext) {
	registry.Register("profile.evaluate", hctx.handleProfileEvaluate)
	registry.Register("profile.validate", hctx.handleProfileValidate)
	registry.Register("rules.list", hctx.handleRulesList)
	registry.Register("rules.get", hctx.handleRulesGet)
	registry.Register("notes.get", hctx.handleNotesGet)
}

// decodeParams unmarshals params into v. Absent params leave v untouched.
func decodeParams(params json.RawMessage, v any) *Error {
	if len(params) == 0 || string(params) == "null" {
		return nil
	}
	if err := json.Unmarshal(params, v); err != nil {
		return ErrInvalidParams(err.Error())
	}
	return nil
}

// decodeProfile turns a raw profile object into a validated profile.
func decodeProfile(raw json.RawMessage) (profile.Profile, *Error) {
	if len(raw) == 0 || string(raw) == "null" {
		return profile.Profile{}, ErrInvalidParams("profile is required")
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return profile.Profile{}, ErrInvalidParams("profile must be an object")
	}
	p, err := profile.Decode(m)
	if err != nil {
		return profile.Profile{}, ErrInvalidProfile(err.Error())
	}
	return p, nil
}

// --- profile.evaluate ---

type EvaluateParams struct {
	Profile json.RawMessage `json:"profile"`
	Explain bool            `json:"explain"`
	Notes   bool            `json:"notes"`
	HTML    bool            `json:"html"`
}

func (h *HandlerContext) handleProfileEvaluate(_ context.Context, params json.RawMessage) (any, *Error) {
	var p EvaluateParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	prof, rpcErr := decodeProfile(p.Profile)
	if rpcErr != nil {
		return nil, rpcErr
	}

	report, err := h.engine.Report(prof, recommend.ReportOptions{
		Explain: p.Explain,
		Notes:   p.Notes,
		HTML:    p.HTML,
	})
	if err != nil {
		if errors.Is(err, profile.ErrInvalidProfile) {
			return nil, ErrInvalidProfile(err.Error())
		}
		return nil, ErrInternalError(err.Error())
	}
	return report, nil
}

// --- profile.validate ---

type ValidateParams struct {
	Profile json.RawMessage `json:"profile"`
}

type ValidateResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

func (h *HandlerContext) handleProfileValidate(_ context.Context, params json.RawMessage) (any, *Error) {
	var p ValidateParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	if len(p.Profile) == 0 {
		return nil, ErrInvalidParams("profile is required")
	}

	if errs := validation.ValidateProfileBytes(p.Profile); len(errs) > 0 {
		return ValidateResult{Valid: false, Errors: errs}, nil
	}
	if _, rpcErr := decodeProfile(p.Profile); rpcErr != nil {
		return ValidateResult{Valid: false, Errors: []string{fmt.Sprint(rpcErr.Data)}}, nil
	}
	return ValidateResult{Valid: true}, nil
}

// --- rules.list ---

type RulesListResult struct {
	Rules []models.RuleSummary `json:"rules"`
}

func (h *HandlerContext) handleRulesList(_ context.Context, _ json.RawMessage) (any, *Error) {
	return RulesListResult{Rules: models.SummarizeRules(h.engine.Rules())}, nil
}

// --- rules.get ---

type RulesGetParams struct {
	ID string `json:"id"`
}

func (h *HandlerContext) handleRulesGet(_ context.Context, params json.RawMessage) (any, *Error) {
	var p RulesGetParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	if p.ID == "" {
		return nil, ErrInvalidParams("id is required")
	}
	r, ok := h.engine.Rule(p.ID)
	if !ok {
		return nil, ErrRuleNotFound(p.ID)
	}
	return models.SummarizeRule(r), nil
}

// --- notes.get ---

type NotesGetParams struct {
	Profile json.RawMessage `json:"profile"`
}

type NotesGetResult struct {
	Notes     []notes.Note          `json:"notes"`
	Tips      []string              `json:"tips"`
	Checklist []notes.ChecklistItem `json:"checklist"`
}

// handleNotesGet returns the general tips and checklist, plus the notes for
// a profile when one is given.
func (h *HandlerContext) handleNotesGet(_ context.Context, params json.RawMessage) (any, *Error) {
	var p NotesGetParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}

	result := NotesGetResult{
		Notes:     []notes.Note{},
		Tips:      notes.Tips(),
		Checklist: notes.Checklist(),
	}
	if len(p.Profile) > 0 && string(p.Profile) != "null" {
		prof, rpcErr := decodeProfile(p.Profile)
		if rpcErr != nil {
			return nil, rpcErr
		}
		result.Notes = notes.For(prof)
	}
	return result, nil
}
