package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wczubal1/GreenAgentWitty/internal/domain/models"
	domsvc "github.com/wczubal1/GreenAgentWitty/internal/domain/service"
	"github.com/wczubal1/GreenAgentWitty/internal/service/classify"
	"github.com/wczubal1/GreenAgentWitty/internal/service/dates"
	applogger "github.com/wczubal1/GreenAgentWitty/pkg/logger"
	"github.com/wczubal1/GreenAgentWitty/pkg/util"
)

// EngineConfig tunes the validation engine.
type EngineConfig struct {
	MinAttempts       int
	QuantityTolerance float64
	DeltaTolerance    float64
}

// RejectError marks a request that fails precondition checks. No purple
// call is made and no verdict is produced.
type RejectError struct {
	Message string
}

func (e *RejectError) Error() string { return e.Message }

// TransportError marks a failed purple agent call. No verdict is produced.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("Purple agent call failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Assessor runs one assessment end to end: validate the request, pick the
// target date, query the purple agent, and judge the reply.
type Assessor struct {
	cfg        EngineConfig
	classifier *classify.Classifier
	resolver   *dates.Resolver
	messenger  domsvc.Messenger
	metrics    domsvc.Metrics
	l          *applogger.Logger

	finraClientID     string
	finraClientSecret string
}

// NewAssessor wires the engine with its collaborators. FINRA credentials
// act as a server-side fallback when the request config omits them.
func NewAssessor(cfg EngineConfig, classifier *classify.Classifier, resolver *dates.Resolver, messenger domsvc.Messenger, metrics domsvc.Metrics, l *applogger.Logger, finraClientID, finraClientSecret string) *Assessor {
	return &Assessor{
		cfg:               cfg,
		classifier:        classifier,
		resolver:          resolver,
		messenger:         messenger,
		metrics:           metrics,
		l:                 l,
		finraClientID:     finraClientID,
		finraClientSecret: finraClientSecret,
	}
}

// validate enforces the request invariants before any network call.
func (a *Assessor) validate(req models.AssessmentRequest, cls models.Classification) error {
	if req.PurpleURL() == "" {
		return &RejectError{Message: "Missing purple agent endpoint."}
	}

	settlementDate := req.ConfigString("settlement_date")
	targetMonth, hasMonth := req.ConfigValue("target_month")
	if !hasMonth {
		targetMonth, hasMonth = req.ConfigValue("month")
	}
	if settlementDate == "" && !hasMonth {
		return &RejectError{Message: "Provide settlement_date or target_month in config."}
	}
	if settlementDate != "" {
		if _, ok := util.ParseISODate(settlementDate); !ok {
			return &RejectError{Message: "settlement_date must be in YYYY-MM-DD format"}
		}
	}
	if hasMonth {
		if err := dates.ValidateMonth(targetMonth); err != nil {
			return &RejectError{Message: err.Error()}
		}
	}

	symbols := util.NormalizeSymbols(configRaw(req, "symbols"))
	symbol := req.ConfigString("symbol")
	if cls.Kind == models.DatasetTreasuryAggregate {
		if symbol != "" || len(symbols) > 0 {
			return &RejectError{Message: "Treasury aggregate questions take no symbol or symbols."}
		}
		return nil
	}
	if len(symbols) > 0 && symbol != "" {
		return &RejectError{Message: "Provide either symbol or symbols, not both."}
	}
	if len(symbols) == 0 && symbol == "" {
		return &RejectError{Message: "Provide symbol or symbols in config."}
	}
	return nil
}

// Assess runs the full assessment. Status updates flow through the
// reporter as the engine progresses; the returned error is a RejectError
// or TransportError when no verdict could be produced.
func (a *Assessor) Assess(ctx context.Context, req models.AssessmentRequest, reporter domsvc.StatusReporter) (models.Verdict, error) {
	cls := a.classifier.Classify(req)

	if err := a.validate(req, cls); err != nil {
		a.metrics.RecordRejected()
		return models.Verdict{}, err
	}

	reporter.Update("Selecting target date...")
	target, err := a.resolver.Resolve(req)
	if err != nil {
		a.metrics.RecordRejected()
		return models.Verdict{}, &RejectError{Message: err.Error()}
	}

	symbols := util.NormalizeSymbols(configRaw(req, "symbols"))
	payload, err := a.buildTaskPayload(req, cls, symbols, target)
	if err != nil {
		return models.Verdict{}, fmt.Errorf("build task payload: %w", err)
	}

	reporter.Update(fmt.Sprintf("Contacting purple agent (requested date: %s)...", target.Date))
	started := time.Now()
	reply, err := a.messenger.Send(ctx, payload, req.PurpleURL())
	a.metrics.RecordPurpleLatency(taskFor(cls), time.Since(started).Seconds())
	if err != nil {
		return models.Verdict{}, &TransportError{Err: err}
	}

	reporter.Update("Evaluating purple response...")
	verdict := a.evaluate(req, cls, symbols, target, reply)

	a.metrics.RecordAssessment(verdict.Status, cls.Kind.String())
	for _, diagnostic := range verdict.Errors {
		a.metrics.RecordDiagnostic(diagnosticCheck(diagnostic))
	}
	a.l.Info("assessment complete",
		applogger.String("status", verdict.Status),
		applogger.String("dataset", cls.Kind.String()),
		applogger.String("shape", cls.Shape.String()),
		applogger.Int("diagnostics", len(verdict.Errors)),
	)
	return verdict, nil
}

// evaluate judges the raw purple reply. Diagnostics accumulate; no check
// short-circuits another. Pure given fixed inputs.
func (a *Assessor) evaluate(req models.AssessmentRequest, cls models.Classification, symbols []string, target models.TargetDate, reply string) models.Verdict {
	var errors []string

	parsed, parseErr := ParseResponse(reply)
	if parseErr != nil {
		errors = append(errors, fmt.Sprintf("Failed to parse JSON response: %v", parseErr))
	}
	if cls.Kind == models.DatasetTreasuryAggregate {
		parsed = PromoteTreasuryWrapper(parsed)
	}

	kind, datasetErrors := a.datasetCheck(req, cls, parsed)
	errors = append(errors, datasetErrors...)

	switch {
	case cls.Kind == models.DatasetTreasuryAggregate:
		spec := treasurySpecFrom(req)
		switch cls.Shape {
		case models.ShapeTreasuryDelta:
			out := a.evaluateTreasuryDelta(parsed, spec, target)
			out.Errors = append(errors, out.Errors...)
			return treasuryDeltaVerdict(out, target, parsed)
		case models.ShapeTreasuryMax:
			out := a.evaluateTreasuryMax(parsed, spec, target)
			out.Errors = append(errors, out.Errors...)
			return treasuryMaxVerdict(out, target, parsed)
		default:
			out := a.evaluateTreasurySingle(parsed, spec, target)
			out.Errors = append(errors, out.Errors...)
			return treasurySingleVerdict(out, spec, target, parsed)
		}
	case cls.Shape == models.ShapeMultiSymbolMax:
		out := a.evaluateMaxAcrossSymbols(parsed, symbols, target, kind)
		out.Errors = append(errors, out.Errors...)
		return multiVerdict(kind, out, symbols, target, parsed)
	default:
		symbol := strings.ToUpper(req.ConfigString("symbol"))
		quantity, record, singleErrors := a.evaluateSingleSymbol(parsed, symbol, target, kind)
		errors = append(errors, singleErrors...)
		return singleVerdict(kind, errors, symbol, target, quantity, record, parsed)
	}
}

// evaluateSingleSymbol checks a direct quantity lookup: the record must
// match the symbol and date, and the quantity must be numeric.
func (a *Assessor) evaluateSingleSymbol(parsed interface{}, symbol string, target models.TargetDate, kind models.DatasetKind) (interface{}, map[string]interface{}, []string) {
	var errors []string
	weekly := kind == models.DatasetWeeklySummary
	fs := FieldsFor(kind)

	quantity, record := ExtractQuantity(parsed, symbol, target.Date, fs)
	if quantity == nil {
		if weekly {
			errors = append(errors, "Missing totalWeeklyShareQuantity for the requested symbol/date.")
		} else {
			errors = append(errors, "Missing currentShortPositionQuantity for the requested symbol/date.")
		}
	}

	if record != nil {
		if recordSymbol, ok := FieldString(record, fs.Symbol); ok && strings.ToUpper(recordSymbol) != symbol {
			errors = append(errors, fmt.Sprintf("Symbol mismatch: expected %s, got %s.", symbol, recordSymbol))
		}
		if recordDate, ok := FieldString(record, fs.Date); ok && !strings.HasPrefix(recordDate, target.Date) {
			errors = append(errors, fmt.Sprintf("Date mismatch: expected %s, got %s.", target.Date, recordDate))
		}
	}

	if quantity != nil {
		if _, numeric := CoerceNumber(quantity); !numeric {
			if weekly {
				errors = append(errors, "totalWeeklyShareQuantity is not numeric.")
			} else {
				errors = append(errors, "currentShortPositionQuantity is not numeric.")
			}
		}
	}
	return quantity, record, errors
}

// datasetCheck verifies the response identifies the dataset the request
// asked about. When the request named a dataset (or asked a question the
// classifier could read), that requested kind is authoritative; otherwise
// the response's own dataset_name decides how to evaluate.
func (a *Assessor) datasetCheck(req models.AssessmentRequest, cls models.Classification, parsed interface{}) (models.DatasetKind, []string) {
	question := req.ConfigString("question")
	requestedName := req.ConfigString("dataset_name_eval", "datasetNameEval", "dataset_name", "datasetName")
	requestedKind := cls.Kind

	var responseName string
	var responseKind models.DatasetKind
	haveResponseName := false
	if obj, ok := parsed.(map[string]interface{}); ok {
		if name, ok := FieldString(obj, []string{"dataset_name", "datasetName"}); ok {
			responseName = name
			responseKind = kindFromName(name)
			haveResponseName = true
		}
	}

	if question == "" && requestedName == "" {
		if haveResponseName {
			return responseKind, nil
		}
		return requestedKind, nil
	}

	var errors []string
	if !haveResponseName {
		errors = append(errors, "Purple response missing dataset_name.")
	} else if responseKind != requestedKind {
		errors = append(errors, fmt.Sprintf("Dataset mismatch: expected %s, got %s.", requestedKind.String(), responseName))
	}
	return requestedKind, errors
}

func kindFromName(name string) models.DatasetKind {
	lowered := strings.ToLower(name)
	switch {
	case classify.IsWeeklyName(lowered):
		return models.DatasetWeeklySummary
	case classify.IsTreasuryName(lowered):
		return models.DatasetTreasuryAggregate
	default:
		return models.DatasetShortInterest
	}
}

// treasurySpecFrom reads the benchmark and maturity-bucket constraints the
// request stated, if any.
func treasurySpecFrom(req models.AssessmentRequest) treasurySpec {
	return treasurySpec{
		Benchmark: req.ConfigString("benchmark", "benchmark_classification", "benchmarkClassification"),
		Bucket:    req.ConfigString("years_to_maturity", "yearsToMaturity", "maturity_bucket", "maturityBucket"),
	}
}

func taskFor(cls models.Classification) string {
	switch {
	case cls.Kind == models.DatasetTreasuryAggregate:
		return taskTreasuryAggregate
	case cls.Shape == models.ShapeMultiSymbolMax:
		return taskMaxShortInterest
	default:
		return taskFetchShortInterest
	}
}

func configRaw(req models.AssessmentRequest, key string) interface{} {
	v, _ := req.ConfigValue(key)
	return v
}

// diagnosticCheck buckets a diagnostic message for metric labeling.
func diagnosticCheck(message string) string {
	switch {
	case strings.Contains(message, "parse JSON"):
		return "parse"
	case strings.Contains(message, "Dataset mismatch") || strings.Contains(message, "dataset_name"):
		return "dataset"
	case strings.Contains(message, "attempts"):
		return "attempts"
	case strings.Contains(message, "chosen_date"):
		return "chosen_date"
	case strings.Contains(message, "Missing results"):
		return "coverage"
	case strings.HasPrefix(message, "Best "):
		return "best_answer"
	case strings.Contains(message, "Symbol mismatch"):
		return "symbol"
	case strings.Contains(message, "mismatch"):
		return "field_match"
	case strings.Contains(message, "numeric"):
		return "quantity"
	default:
		return "other"
	}
}
