package service_test

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/mladjabiznis1-source/sales-tracker/internal/service"
)

func newTestFormService(t *testing.T) (*service.FormService, *memorySubmissionRepo) {
	t.Helper()
	subs := &memorySubmissionRepo{}
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return service.NewFormService(subs, node, zap.NewNop()), subs
}

func TestIngestHumanReadableKeys(t *testing.T) {
	ctx := context.Background()
	svc, subs := newTestFormService(t)

	id, err := svc.Ingest(ctx, map[string]any{
		"Timestamp":           "2026-08-30T10:00:00Z",
		"What is your role?":  "Closer",
		"Dials made?":         "40",
		"Pick ups?":           "12",
		"DQ's?":               "2",
		"Appt's Pitched?":     "5",
		"Appt's Set?":         "4",
		"Hybrid Closer?":      "Yes",
		"Calls Scheduled?":    "3",
		"LIVE Calls?":         "2",
		"Prospect Email":      "lead@example.com",
		"Date Call Was Taken": "2026-08-30",
		"Offer Made":          "Yes",
		"Call Outcome":        "Closed Won",
		"Cash Collected\nThe amount of cash collected today (ex 4000, 2000, 1500)": "4000",
		"Revenue Generated\nThe total value of the contract (ex: 4000, 4500)":      "4500",
		"Call Notes":  "strong fit",
		"Closer Name": "Rep One",
		"Setter Name": "Rep Two",
		"Fathom Link": "https://fathom.video/calls/1",
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	require.Len(t, subs.subs, 1)
	got := subs.subs[0]
	require.Equal(t, "2026-08-30T10:00:00Z", got.Timestamp)
	require.Equal(t, "Closer", got.Role)
	require.Equal(t, 40, got.Dials)
	require.Equal(t, 12, got.PickUps)
	require.Equal(t, 2, got.DQs)
	require.Equal(t, 5, got.ApptsPitched)
	require.Equal(t, 4, got.ApptsSet)
	require.Equal(t, "Yes", got.HybridCloser)
	require.Equal(t, 3, got.CallsScheduled)
	require.Equal(t, 2, got.LiveCalls)
	require.Equal(t, "lead@example.com", got.ProspectEmail)
	require.Equal(t, "2026-08-30", got.CallDate)
	require.Equal(t, "Closed Won", got.CallOutcome)
	require.Equal(t, 4000.0, got.CashCollected)
	require.Equal(t, 4500.0, got.RevenueGenerated)
	require.Equal(t, "Rep One", got.CloserName)
	require.Equal(t, "Rep Two", got.SetterName)
	require.Equal(t, "https://fathom.video/calls/1", got.FathomLink)
	require.False(t, got.CreatedAt.IsZero())
}

func TestIngestCamelCaseKeysMatchHumanKeys(t *testing.T) {
	ctx := context.Background()
	svc, subs := newTestFormService(t)

	_, err := svc.Ingest(ctx, map[string]any{
		"Timestamp":          "2026-08-30T10:00:00Z",
		"What is your role?": "Closer",
		"Dials made?":        "40",
		"Cash Collected\nThe amount of cash collected today (ex 4000, 2000, 1500)": "4000",
		"Closer Name": "Rep One",
	})
	require.NoError(t, err)

	_, err = svc.Ingest(ctx, map[string]any{
		"timestamp":     "2026-08-30T10:00:00Z",
		"role":          "Closer",
		"dials":         "40",
		"cashCollected": "4000",
		"closerName":    "Rep One",
	})
	require.NoError(t, err)

	require.Len(t, subs.subs, 2)
	human, camel := subs.subs[0], subs.subs[1]
	require.Equal(t, human.Timestamp, camel.Timestamp)
	require.Equal(t, human.Role, camel.Role)
	require.Equal(t, human.Dials, camel.Dials)
	require.Equal(t, human.CashCollected, camel.CashCollected)
	require.Equal(t, human.CloserName, camel.CloserName)
}

func TestIngestPrefixFallback(t *testing.T) {
	ctx := context.Background()
	svc, subs := newTestFormService(t)

	// The description line under the question drifts between form revisions;
	// matching falls back to the question's first line as a prefix.
	_, err := svc.Ingest(ctx, map[string]any{
		"Cash Collected\nSome reworded helper text": "2500",
		"Revenue Generated (updated wording)":       "3000",
	})
	require.NoError(t, err)

	require.Len(t, subs.subs, 1)
	require.Equal(t, 2500.0, subs.subs[0].CashCollected)
	require.Equal(t, 3000.0, subs.subs[0].RevenueGenerated)
}

func TestIngestNumericCoercion(t *testing.T) {
	ctx := context.Background()
	svc, subs := newTestFormService(t)

	_, err := svc.Ingest(ctx, map[string]any{
		"Dials made?":    "forty",    // non-numeric -> 0
		"Pick ups?":      "12.7",     // float string truncates
		"Cash Collected": "lots",     // non-numeric -> 0
		"LIVE Calls?":    float64(3), // JSON numbers arrive as float64
	})
	require.NoError(t, err)

	require.Len(t, subs.subs, 1)
	got := subs.subs[0]
	require.Zero(t, got.Dials)
	require.Equal(t, 12, got.PickUps)
	require.Zero(t, got.CashCollected)
	require.Equal(t, 3, got.LiveCalls)
}

func TestIngestMissingTimestampDefaults(t *testing.T) {
	ctx := context.Background()
	svc, subs := newTestFormService(t)

	_, err := svc.Ingest(ctx, map[string]any{"Closer Name": "Rep One"})
	require.NoError(t, err)

	require.Len(t, subs.subs, 1)
	require.NotEmpty(t, subs.subs[0].Timestamp)
}

func TestIngestReplaysAreNotDeduplicated(t *testing.T) {
	ctx := context.Background()
	svc, subs := newTestFormService(t)

	payload := map[string]any{"Closer Name": "Rep One", "Dials made?": "10"}

	first, err := svc.Ingest(ctx, payload)
	require.NoError(t, err)
	second, err := svc.Ingest(ctx, payload)
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.Len(t, subs.subs, 2)
}
