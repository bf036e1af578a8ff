package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"composite/internal/keystore/metrics"
	"composite/internal/keystore/models"
	"composite/pkg/composite"
	dErrors "composite/pkg/domain-errors"
	"composite/pkg/platform/sentinel"
	"composite/pkg/requestcontext"
)

const tracerName = "composite/internal/keystore"

type EntryStore interface {
	Put(ctx context.Context, key, value any, now time.Time) (*models.Entry, bool, error)
	FindByKey(ctx context.Context, key any) (*models.Entry, error)
	Delete(ctx context.Context, key any) error
	List(ctx context.Context) ([]*models.Entry, error)
	Count(ctx context.Context) (int, error)
	Clear(ctx context.Context) (int, error)
}

type SetStore interface {
	Add(ctx context.Context, name string, member any) (bool, error)
	Contains(ctx context.Context, name string, member any) (bool, error)
	Remove(ctx context.Context, name string, member any) error
	Members(ctx context.Context, name string) ([]any, error)
	Names(ctx context.Context) ([]string, error)
	Drop(ctx context.Context, name string) error
}

// Service orchestrates entry and set operations over structural keys.
type Service struct {
	entries EntryStore
	sets    SetStore
	logger  *slog.Logger
	metrics *metrics.Metrics
	tracer  trace.Tracer
}

type Option func(s *Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

func WithTracer(t trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = t
	}
}

// New constructs a Service.
func New(entries EntryStore, sets SetStore, opts ...Option) *Service {
	s := &Service{
		entries: entries,
		sets:    sets,
		logger:  slog.New(slog.DiscardHandler),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// PutEntry stores value under key. created is false when an entry with an
// equal key already existed and was overwritten.
func (s *Service) PutEntry(ctx context.Context, key, value any) (*models.Entry, bool, error) {
	ctx, span := s.startSpan(ctx, "put_entry", keyAttr(key))
	defer span.End()
	defer s.observe("put_entry", time.Now())

	e, created, err := s.entries.Put(ctx, key, value, requestcontext.Now(ctx))
	if err != nil {
		return nil, false, s.fail(ctx, span, err, "failed to store entry")
	}
	span.SetAttributes(attribute.Bool("entry.created", created))
	if s.metrics != nil {
		s.metrics.ObserveWrite(created)
	}
	s.refreshEntryGauge(ctx)

	s.logger.DebugContext(ctx, "entry stored",
		"request_id", requestcontext.RequestID(ctx),
		"entry_id", e.ID,
		"created", created,
	)
	return e, created, nil
}

// GetEntry returns the entry whose key equals key.
func (s *Service) GetEntry(ctx context.Context, key any) (*models.Entry, error) {
	ctx, span := s.startSpan(ctx, "get_entry", keyAttr(key))
	defer span.End()
	defer s.observe("get_entry", time.Now())

	e, err := s.entries.FindByKey(ctx, key)
	if s.metrics != nil {
		s.metrics.ObserveLookup(err == nil)
	}
	if err != nil {
		return nil, s.fail(ctx, span, err, "entry not found")
	}
	return e, nil
}

// DeleteEntry removes the entry whose key equals key.
func (s *Service) DeleteEntry(ctx context.Context, key any) error {
	ctx, span := s.startSpan(ctx, "delete_entry", keyAttr(key))
	defer span.End()
	defer s.observe("delete_entry", time.Now())

	if err := s.entries.Delete(ctx, key); err != nil {
		return s.fail(ctx, span, err, "entry not found")
	}
	s.refreshEntryGauge(ctx)
	return nil
}

// ListEntries returns every entry in insertion order.
func (s *Service) ListEntries(ctx context.Context) ([]*models.Entry, error) {
	ctx, span := s.startSpan(ctx, "list_entries")
	defer span.End()
	defer s.observe("list_entries", time.Now())

	entries, err := s.entries.List(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to list entries")
	}
	span.SetAttributes(attribute.Int("entry.count", len(entries)))
	return entries, nil
}

// ClearEntries removes every entry and returns how many were removed.
func (s *Service) ClearEntries(ctx context.Context) (int, error) {
	ctx, span := s.startSpan(ctx, "clear_entries")
	defer span.End()
	defer s.observe("clear_entries", time.Now())

	n, err := s.entries.Clear(ctx)
	if err != nil {
		return 0, s.fail(ctx, span, err, "failed to clear entries")
	}
	s.refreshEntryGauge(ctx)
	s.logger.InfoContext(ctx, "entries cleared",
		"request_id", requestcontext.RequestID(ctx),
		"removed", n,
	)
	return n, nil
}

// AddMember inserts member into the named set and reports whether it was new.
func (s *Service) AddMember(ctx context.Context, name string, member any) (bool, error) {
	if err := models.ValidateSetName(name); err != nil {
		return false, err
	}
	ctx, span := s.startSpan(ctx, "add_member", setAttr(name), keyAttr(member))
	defer span.End()
	defer s.observe("add_member", time.Now())

	added, err := s.sets.Add(ctx, name, member)
	if err != nil {
		return false, s.fail(ctx, span, err, "failed to add member")
	}
	if s.metrics != nil {
		s.metrics.ObserveMemberAdd(added)
	}
	return added, nil
}

// HasMember reports whether the named set holds member.
func (s *Service) HasMember(ctx context.Context, name string, member any) (bool, error) {
	if err := models.ValidateSetName(name); err != nil {
		return false, err
	}
	ctx, span := s.startSpan(ctx, "has_member", setAttr(name), keyAttr(member))
	defer span.End()
	defer s.observe("has_member", time.Now())

	present, err := s.sets.Contains(ctx, name, member)
	if err != nil {
		return false, s.fail(ctx, span, err, "failed to check member")
	}
	return present, nil
}

// RemoveMember deletes member from the named set.
func (s *Service) RemoveMember(ctx context.Context, name string, member any) error {
	if err := models.ValidateSetName(name); err != nil {
		return err
	}
	ctx, span := s.startSpan(ctx, "remove_member", setAttr(name), keyAttr(member))
	defer span.End()
	defer s.observe("remove_member", time.Now())

	if err := s.sets.Remove(ctx, name, member); err != nil {
		return s.fail(ctx, span, err, "member not found")
	}
	return nil
}

// Members returns the members of the named set in insertion order.
func (s *Service) Members(ctx context.Context, name string) ([]any, error) {
	if err := models.ValidateSetName(name); err != nil {
		return nil, err
	}
	ctx, span := s.startSpan(ctx, "members", setAttr(name))
	defer span.End()
	defer s.observe("members", time.Now())

	members, err := s.sets.Members(ctx, name)
	if err != nil {
		return nil, s.fail(ctx, span, err, "set not found")
	}
	return members, nil
}

// SetNames returns the names of all non-empty sets.
func (s *Service) SetNames(ctx context.Context) ([]string, error) {
	ctx, span := s.startSpan(ctx, "set_names")
	defer span.End()
	defer s.observe("set_names", time.Now())

	names, err := s.sets.Names(ctx)
	if err != nil {
		return nil, s.fail(ctx, span, err, "failed to list sets")
	}
	return names, nil
}

// DropSet deletes the named set.
func (s *Service) DropSet(ctx context.Context, name string) error {
	if err := models.ValidateSetName(name); err != nil {
		return err
	}
	ctx, span := s.startSpan(ctx, "drop_set", setAttr(name))
	defer span.End()
	defer s.observe("drop_set", time.Now())

	if err := s.sets.Drop(ctx, name); err != nil {
		return s.fail(ctx, span, err, "set not found")
	}
	s.logger.InfoContext(ctx, "set dropped",
		"request_id", requestcontext.RequestID(ctx),
		"set", name,
	)
	return nil
}

func (s *Service) startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, "keystore."+op, trace.WithAttributes(attrs...))
}

// fail translates a store error into a domain error and records it on span.
// notFoundMsg is the client message used for sentinel.ErrNotFound.
func (s *Service) fail(ctx context.Context, span trace.Span, err error, notFoundMsg string) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		span.SetAttributes(attribute.Bool("not_found", true))
		return dErrors.New(dErrors.CodeNotFound, notFoundMsg)
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	s.logger.ErrorContext(ctx, "keystore store failure",
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	)
	return dErrors.Wrap(err, dErrors.CodeInternal, "keystore operation failed")
}

func (s *Service) observe(op string, start time.Time) {
	if s.metrics != nil {
		s.metrics.ObserveOperation(op, start)
	}
}

func (s *Service) refreshEntryGauge(ctx context.Context) {
	if s.metrics == nil {
		return
	}
	n, err := s.entries.Count(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to count entries", "error", err)
		return
	}
	s.metrics.SetEntries(n)
}

func keyAttr(key any) attribute.KeyValue {
	return attribute.Bool("key.composite", composite.IsComposite(key))
}

func setAttr(name string) attribute.KeyValue {
	return attribute.String("set.name", name)
}
