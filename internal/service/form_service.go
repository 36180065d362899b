package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/mladjabiznis1-source/sales-tracker/internal/domain"
	"github.com/mladjabiznis1-source/sales-tracker/internal/repository"
)

// Candidate payload keys per target column. Google Forms sends the full
// question text as the key and that text drifts between form revisions, so
// each column lists every known spelling, human-readable first. Some keys
// carry the question description on a second line; the resolver falls back to
// matching on the first line alone.
var (
	timestampKeys      = []string{"Timestamp", "timestamp"}
	roleKeys           = []string{"What is your role?", "role"}
	dialsKeys          = []string{"Dials made?", "dials"}
	pickUpsKeys        = []string{"Pick ups?", "pickUps"}
	dqsKeys            = []string{"DQ's?", "dqs"}
	apptsPitchedKeys   = []string{"Appt's Pitched?", "apptsPitched"}
	apptsSetKeys       = []string{"Appt's Set?", "apptsSet"}
	hybridCloserKeys   = []string{"Hybrid Closer?", "hybridCloser"}
	callsScheduledKeys = []string{"Calls Scheduled?", "callsScheduled"}
	liveCallsKeys      = []string{"LIVE Calls?", "liveCalls"}
	prospectEmailKeys  = []string{"Prospect Email", "prospectEmail"}
	callDateKeys       = []string{"Date Call Was Taken", "Date", "callDate", "date"}
	offerMadeKeys      = []string{"Offer Made", "offerMade"}
	callOutcomeKeys    = []string{"Call Outcome", "callOutcome"}
	cashCollectedKeys  = []string{
		"Cash Collected\nThe amount of cash collected today (ex 4000, 2000, 1500)",
		"Cash Collected",
		"cashCollected",
	}
	revenueGeneratedKeys = []string{
		"Revenue Generated\nThe total value of the contract (ex: 4000, 4500)",
		"Revenue Generated",
		"revenueGenerated",
	}
	callNotesKeys  = []string{"Call Notes", "callNotes"}
	closerNameKeys = []string{"Closer Name", "closerName"}
	setterNameKeys = []string{"Setter Name", "Setter", "setterName"}
	fathomLinkKeys = []string{"Fathom Link", "fathomLink"}
)

// FormService ingests raw webhook payloads into form submissions.
type FormService struct {
	submissions repository.SubmissionRepository
	node        *snowflake.Node
	logger      *zap.Logger
	tracer      trace.Tracer
}

// NewFormService wires dependencies.
func NewFormService(submissions repository.SubmissionRepository, node *snowflake.Node, logger *zap.Logger) *FormService {
	return &FormService{
		submissions: submissions,
		node:        node,
		logger:      logger,
		tracer:      otel.Tracer("github.com/mladjabiznis1-source/sales-tracker/internal/service"),
	}
}

// Ingest maps an arbitrary form payload onto the submission schema and
// persists one row. Replays are not deduplicated. Returns the new row ID.
func (s *FormService) Ingest(ctx context.Context, payload map[string]any) (int64, error) {
	ctx, span := s.startSpan(ctx, "FormService.Ingest")
	defer span.End()

	timestamp := resolveField(payload, timestampKeys)
	if timestamp == "" {
		timestamp = time.Now().UTC().Format(time.RFC3339)
	}

	sub := domain.FormSubmission{
		ID:               s.node.Generate().Int64(),
		Timestamp:        timestamp,
		Role:             resolveField(payload, roleKeys),
		Dials:            intField(payload, dialsKeys),
		PickUps:          intField(payload, pickUpsKeys),
		DQs:              intField(payload, dqsKeys),
		ApptsPitched:     intField(payload, apptsPitchedKeys),
		ApptsSet:         intField(payload, apptsSetKeys),
		HybridCloser:     resolveField(payload, hybridCloserKeys),
		CallsScheduled:   intField(payload, callsScheduledKeys),
		LiveCalls:        intField(payload, liveCallsKeys),
		ProspectEmail:    resolveField(payload, prospectEmailKeys),
		CallDate:         resolveField(payload, callDateKeys),
		OfferMade:        resolveField(payload, offerMadeKeys),
		CallOutcome:      resolveField(payload, callOutcomeKeys),
		CashCollected:    floatField(payload, cashCollectedKeys),
		RevenueGenerated: floatField(payload, revenueGeneratedKeys),
		CallNotes:        resolveField(payload, callNotesKeys),
		CloserName:       resolveField(payload, closerNameKeys),
		SetterName:       resolveField(payload, setterNameKeys),
		FathomLink:       resolveField(payload, fathomLinkKeys),
		CreatedAt:        time.Now().UTC(),
	}

	created, err := s.submissions.Create(ctx, sub)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("persist submission: %w", err)
	}

	s.log().Info("form submission saved",
		zap.Int64("submission_id", created.ID),
		zap.String("role", created.Role),
		zap.String("closer", created.CloserName),
	)
	return created.ID, nil
}

// resolveField tries each candidate key in order: first an exact lookup, then
// any payload key that starts with the candidate's first line. The first
// non-empty value wins.
func resolveField(payload map[string]any, candidates []string) string {
	for _, name := range candidates {
		if v := stringify(payload[name]); v != "" {
			return v
		}
		firstLine, _, _ := strings.Cut(name, "\n")
		for key, raw := range payload {
			if strings.HasPrefix(key, firstLine) {
				if v := stringify(raw); v != "" {
					return v
				}
			}
		}
	}
	return ""
}

func intField(payload map[string]any, candidates []string) int {
	raw := strings.TrimSpace(resolveField(payload, candidates))
	if raw == "" {
		return 0
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f)
	}
	return 0
}

func floatField(payload map[string]any, candidates []string) float64 {
	raw := strings.TrimSpace(resolveField(payload, candidates))
	if raw == "" {
		return 0
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return f
}

// stringify flattens the JSON scalar types a form tool may send.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

func (s *FormService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if s == nil || s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name)
}

func (s *FormService) log() *zap.Logger {
	if s != nil && s.logger != nil {
		return s.logger
	}
	return zap.L()
}
