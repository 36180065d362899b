package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/mladjabiznis1-source/sales-tracker/internal/domain"
	"github.com/mladjabiznis1-source/sales-tracker/internal/repository"
)

// EntryInput carries the mutable entry columns. Omitted numeric fields bind
// to zero; date and role are not validated server-side.
type EntryInput struct {
	Date          string  `json:"date"`
	Role          string  `json:"role"`
	BookedCalls   int     `json:"bookedCalls"`
	NoShows       int     `json:"noShows"`
	ClosedWon     int     `json:"closedWon"`
	ClosedLost    int     `json:"closedLost"`
	PIF           int     `json:"pif"`
	Splits        int     `json:"splits"`
	CashCollected float64 `json:"cashCollected"`
	RenewalsCash  float64 `json:"renewalsCash"`
	Reschedules   int     `json:"reschedules"`
}

// EntryService handles owner-scoped CRUD over activity entries plus the
// public dashboard listings.
type EntryService struct {
	entries     repository.EntryRepository
	submissions repository.SubmissionRepository
	node        *snowflake.Node
	logger      *zap.Logger
	tracer      trace.Tracer
}

// NewEntryService wires dependencies.
func NewEntryService(entries repository.EntryRepository, submissions repository.SubmissionRepository, node *snowflake.Node, logger *zap.Logger) *EntryService {
	return &EntryService{
		entries:     entries,
		submissions: submissions,
		node:        node,
		logger:      logger,
		tracer:      otel.Tracer("github.com/mladjabiznis1-source/sales-tracker/internal/service"),
	}
}

// List returns the owner's entries, newest date first.
func (s *EntryService) List(ctx context.Context, ownerID int64) ([]domain.Entry, error) {
	ctx, span := s.startSpan(ctx, "EntryService.List")
	defer span.End()

	entries, err := s.entries.ListByUser(ctx, ownerID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list entries: %w", err)
	}
	return entries, nil
}

// Create persists a new entry for the owner and returns its ID.
func (s *EntryService) Create(ctx context.Context, ownerID int64, input EntryInput) (int64, error) {
	ctx, span := s.startSpan(ctx, "EntryService.Create")
	defer span.End()

	entry := s.applyInput(domain.Entry{
		ID:        s.node.Generate().Int64(),
		UserID:    ownerID,
		CreatedAt: time.Now().UTC(),
	}, input)

	created, err := s.entries.Create(ctx, entry)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("create entry: %w", err)
	}
	return created.ID, nil
}

// Update overwrites all mutable columns of the entry. A missing row and a row
// owned by someone else both surface as not-found.
func (s *EntryService) Update(ctx context.Context, id, ownerID int64, input EntryInput) error {
	ctx, span := s.startSpan(ctx, "EntryService.Update")
	defer span.End()

	entry := s.applyInput(domain.Entry{ID: id, UserID: ownerID}, input)
	if err := s.entries.Update(ctx, entry); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newNotFoundError("entry not found")
		}
		span.RecordError(err)
		return fmt.Errorf("update entry: %w", err)
	}
	return nil
}

// Delete removes the entry with the same ownership opacity as Update.
func (s *EntryService) Delete(ctx context.Context, id, ownerID int64) error {
	ctx, span := s.startSpan(ctx, "EntryService.Delete")
	defer span.End()

	if err := s.entries.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return newNotFoundError("entry not found")
		}
		span.RecordError(err)
		return fmt.Errorf("delete entry: %w", err)
	}
	return nil
}

// ListPublic returns every entry across all owners for the dashboard.
func (s *EntryService) ListPublic(ctx context.Context) ([]domain.Entry, error) {
	ctx, span := s.startSpan(ctx, "EntryService.ListPublic")
	defer span.End()

	entries, err := s.entries.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list public entries: %w", err)
	}
	return entries, nil
}

// ListSubmissions returns every webhook form submission, newest first.
func (s *EntryService) ListSubmissions(ctx context.Context) ([]domain.FormSubmission, error) {
	ctx, span := s.startSpan(ctx, "EntryService.ListSubmissions")
	defer span.End()

	subs, err := s.submissions.ListAll(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	return subs, nil
}

func (s *EntryService) applyInput(entry domain.Entry, input EntryInput) domain.Entry {
	entry.Date = input.Date
	entry.Role = input.Role
	entry.BookedCalls = input.BookedCalls
	entry.NoShows = input.NoShows
	entry.ClosedWon = input.ClosedWon
	entry.ClosedLost = input.ClosedLost
	entry.PIF = input.PIF
	entry.Splits = input.Splits
	entry.CashCollected = input.CashCollected
	entry.RenewalsCash = input.RenewalsCash
	entry.Reschedules = input.Reschedules
	return entry
}

func (s *EntryService) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	if s == nil || s.tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return s.tracer.Start(ctx, name)
}
