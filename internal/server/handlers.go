package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/bdtax/income-tax-calculator/internal/calculation"
	"github.com/bdtax/income-tax-calculator/internal/domain"
	"github.com/bdtax/income-tax-calculator/internal/observability"
)

const maxRequestBody = 64 << 10

// TaxHandlers serves the tax calculation endpoints.
type TaxHandlers struct {
	engine      *calculation.TaxEngine
	defaultYear string
	startedAt   time.Time
	clock       func() time.Time
}

// NewTaxHandlers wires handlers to an engine. An empty defaultYear means the
// income year containing today.
func NewTaxHandlers(engine *calculation.TaxEngine, defaultYear string) *TaxHandlers {
	if engine == nil {
		engine = calculation.NewTaxEngine()
	}
	return &TaxHandlers{engine: engine, defaultYear: defaultYear, startedAt: time.Now(), clock: time.Now}
}

func (h *TaxHandlers) year(requested string) string {
	if y := strings.TrimSpace(requested); y != "" {
		return y
	}
	if h.defaultYear != "" {
		return h.defaultYear
	}
	return h.engine.CurrentIncomeYear()
}

// Healthz responds with a simple status payload for monitoring.
func (h *TaxHandlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	now := h.clock()
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"uptime":    now.Sub(h.startedAt).String(),
		"timestamp": now.UTC().Format(time.RFC3339),
	})
}

type yearsResponse struct {
	Years       []string `json:"years"`
	DefaultYear string   `json:"default_year"`
	Categories  []string `json:"categories"`
}

// Years lists the selectable income years and categories.
func (h *TaxHandlers) Years(w http.ResponseWriter, _ *http.Request) {
	categories := make([]string, 0, len(domain.AllCategories))
	for _, c := range domain.AllCategories {
		categories = append(categories, string(c))
	}
	writeJSON(w, http.StatusOK, yearsResponse{
		Years:       h.engine.Rules.Years(),
		DefaultYear: h.year(""),
		Categories:  categories,
	})
}

type calculateRequest struct {
	MonthlyGrossSalary    *decimal.Decimal `json:"monthly_gross_salary"`
	AnnualGrossIncome     *decimal.Decimal `json:"annual_gross_income"`
	AnnualBonuses         decimal.Decimal  `json:"annual_bonuses"`
	IncludeInvestments    bool             `json:"include_investments"`
	TotalAnnualInvestment decimal.Decimal  `json:"total_annual_investment"`
	IncomeYear            string           `json:"income_year"`
	Category              string           `json:"category"`
}

func (req calculateRequest) toInput(year string) (domain.TaxInput, error) {
	category, err := domain.ParseCategory(req.Category)
	if err != nil {
		return domain.TaxInput{}, err
	}

	var input domain.TaxInput
	switch {
	case req.MonthlyGrossSalary != nil && req.AnnualGrossIncome != nil:
		return domain.TaxInput{}, errors.New("provide monthly_gross_salary or annual_gross_income, not both")
	case req.AnnualGrossIncome != nil:
		if req.AnnualBonuses.IsPositive() {
			return domain.TaxInput{}, errors.New("annual_bonuses cannot be combined with annual_gross_income")
		}
		input = domain.NewAnnualTaxInput(*req.AnnualGrossIncome, year, category)
	case req.MonthlyGrossSalary != nil:
		input = domain.TaxInput{
			MonthlyGrossSalary: *req.MonthlyGrossSalary,
			AnnualBonuses:      req.AnnualBonuses,
			IncomeYear:         year,
			Category:           category,
		}
	default:
		return domain.TaxInput{}, errors.New("monthly_gross_salary or annual_gross_income is required")
	}

	if req.IncludeInvestments {
		input = input.WithInvestment(req.TotalAnnualInvestment)
	}
	return input, nil
}

func (h *TaxHandlers) decodeInput(r *http.Request) (domain.TaxInput, error) {
	limited := io.LimitReader(r.Body, maxRequestBody)
	defer r.Body.Close()
	decoder := json.NewDecoder(limited)
	decoder.DisallowUnknownFields()

	var req calculateRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.TaxInput{}, errors.New("request body required")
		}
		return domain.TaxInput{}, fmt.Errorf("invalid request body: %w", err)
	}
	return req.toInput(h.year(req.IncomeYear))
}

// Calculate runs the engine for a JSON TaxInput body.
func (h *TaxHandlers) Calculate(w http.ResponseWriter, r *http.Request) {
	input, err := h.decodeInput(r)
	if err != nil {
		WriteError(r.Context(), w, NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	res, err := h.engineFor(r).Calculate(input)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Analyze compares no, stated and maximum investment for the body's input.
func (h *TaxHandlers) Analyze(w http.ResponseWriter, r *http.Request) {
	input, err := h.decodeInput(r)
	if err != nil {
		WriteError(r.Context(), w, NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	impact, err := h.engineFor(r).AnalyzeInvestment(input)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, impact)
}

// Compare calculates the body's input for each year in ?years=a,b (all rule years by default).
func (h *TaxHandlers) Compare(w http.ResponseWriter, r *http.Request) {
	input, err := h.decodeInput(r)
	if err != nil {
		WriteError(r.Context(), w, NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	var years []string
	for _, y := range strings.Split(r.URL.Query().Get("years"), ",") {
		if y = strings.TrimSpace(y); y != "" {
			years = append(years, y)
		}
	}
	results, err := h.engineFor(r).CompareYears(input, years...)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

// Curve samples the effective tax rate across incomes.
func (h *TaxHandlers) Curve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category, err := domain.ParseCategory(q.Get("category"))
	if err != nil {
		WriteError(r.Context(), w, NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	req := calculation.CurveRequest{Year: h.year(q.Get("year")), Category: category}

	for name, target := range map[string]**decimal.Decimal{
		"from": &req.From,
		"to":   &req.To,
		"step": &req.Step,
	} {
		if raw := q.Get(name); raw != "" {
			v, err := decimal.NewFromString(raw)
			if err != nil {
				WriteError(r.Context(), w, NewError("invalid_request", fmt.Sprintf("%s must be a number", name), http.StatusBadRequest))
				return
			}
			*target = &v
		}
	}
	if raw := q.Get("user_income"); raw != "" {
		v, err := decimal.NewFromString(raw)
		if err != nil {
			WriteError(r.Context(), w, NewError("invalid_request", "user_income must be a number", http.StatusBadRequest))
			return
		}
		req.UserAnnualIncome = v
	}
	if raw := q.Get("max_investment"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			WriteError(r.Context(), w, NewError("invalid_request", "max_investment must be true or false", http.StatusBadRequest))
			return
		}
		req.MaxInvestment = b
	}

	points, err := h.engineFor(r).EffectiveRateCurve(req)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"income_year": req.Year,
		"category":    category,
		"points":      points,
	})
}

// SuggestedInvestment reports the allowable investment limit for an annual income.
func (h *TaxHandlers) SuggestedInvestment(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	income, err := decimal.NewFromString(q.Get("annual_income"))
	if err != nil {
		WriteError(r.Context(), w, NewError("invalid_request", "annual_income must be a number", http.StatusBadRequest))
		return
	}
	category, err := domain.ParseCategory(q.Get("category"))
	if err != nil {
		WriteError(r.Context(), w, NewError("invalid_request", err.Error(), http.StatusBadRequest))
		return
	}
	year := h.year(q.Get("year"))

	limit, err := h.engineFor(r).SuggestedInvestment(income, year, category)
	if err != nil {
		writeEngineError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"annual_income":              income,
		"income_year":                year,
		"category":                   category,
		"allowable_investment_limit": limit,
	})
}

// engineFor returns a per-request engine copy that logs with request fields.
func (h *TaxHandlers) engineFor(r *http.Request) *calculation.TaxEngine {
	engine := *h.engine
	engine.SetLogger(observability.NewEngineLogger(observability.FromContext(r.Context())))
	return &engine
}

func writeEngineError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, calculation.ErrInvalidInput) {
		WriteError(r.Context(), w, NewError("invalid_input", err.Error(), http.StatusBadRequest))
		return
	}
	observability.FromContext(r.Context()).Error("calculation failed", zap.Error(err))
	WriteError(r.Context(), w, NewError("internal_server_error", "internal server error", http.StatusInternalServerError))
}
