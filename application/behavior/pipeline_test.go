package behavior

import (
	"context"
	"errors"
	"testing"
	"time"

	"servicedesk/application/mediator"
	"servicedesk/application/validation"
	"servicedesk/domain/shared"
	"servicedesk/infrastructure/persistence/retry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type createWidgetCommand struct {
	Name string `json:"name" validate:"required"`
}

type getWidgetQuery struct {
	ID string
}

type renameWidgetCommand struct {
	ID string
}

type harness struct {
	mediator *mediator.Mediator
	factory  *fakeFactory
	logs     *observer.ObservedLogs
	recorder *fakeRecorder
	calls    int
}

func newHarness(t *testing.T, opts ...func(*Options)) *harness {
	t.Helper()

	core, logs := observer.New(zapcore.DebugLevel)
	h := &harness{factory: &fakeFactory{}, logs: logs, recorder: &fakeRecorder{}}

	validators := validation.NewRegistry()
	validation.MustRegister[createWidgetCommand](validators, validation.For[createWidgetCommand]())

	options := Options{
		Logger:     zap.New(core),
		Actors:     shared.ActorProviderFunc(func(context.Context) shared.Actor { return shared.Actor{ID: "u-1", Name: "alice"} }),
		Recorder:   h.recorder,
		Validators: validators,
		UnitOfWork: h.factory,
	}
	for _, opt := range opts {
		opt(&options)
	}
	h.mediator = mediator.New(Pipeline(options)...)
	return h
}

func (h *harness) handleCreate(fn func(ctx context.Context, cmd createWidgetCommand) (string, error)) {
	mediator.MustRegister[createWidgetCommand, string](h.mediator, mediator.HandlerFunc[createWidgetCommand, string](
		func(ctx context.Context, cmd createWidgetCommand) (string, error) {
			h.calls++
			return fn(ctx, cmd)
		}))
}

func TestPipeline_FixedOrder(t *testing.T) {
	behaviors := Pipeline(Options{UnitOfWork: &fakeFactory{}})

	names := make([]string, len(behaviors))
	for i, b := range behaviors {
		names[i] = b.Name()
	}
	assert.Equal(t, []string{"logging", "validation", "unit_of_work"}, names)
}

func TestPipeline_CommandCommitsOnceAndDrainsEvents(t *testing.T) {
	h := newHarness(t)
	h.handleCreate(func(ctx context.Context, cmd createWidgetCommand) (string, error) {
		shared.Track(ctx, newWidget("w-1"))
		return "w-1", nil
	})

	id, err := mediator.Send[createWidgetCommand, string](context.Background(), h.mediator, createWidgetCommand{Name: "gear"})

	require.NoError(t, err)
	assert.Equal(t, "w-1", id)
	require.Len(t, h.factory.created, 1)
	uow := h.factory.created[0]
	assert.Equal(t, 1, uow.begins)
	assert.Equal(t, 1, uow.saves)
	assert.Zero(t, uow.rollbacks)
	require.Len(t, uow.dispatched, 1)
	assert.Equal(t, "widget.created", uow.dispatched[0].EventName())
	assert.Empty(t, uow.tracked[0].PullEvents(), "events are drained exactly once")
}

func TestPipeline_QueryIsNotTransactional(t *testing.T) {
	h := newHarness(t)
	mediator.MustRegister[getWidgetQuery, string](h.mediator, mediator.HandlerFunc[getWidgetQuery, string](
		func(ctx context.Context, q getWidgetQuery) (string, error) {
			_, inTx := shared.UnitOfWorkFromContext(ctx)
			assert.False(t, inTx)
			return q.ID, nil
		}))

	id, err := mediator.Send[getWidgetQuery, string](context.Background(), h.mediator, getWidgetQuery{ID: "w-9"})

	require.NoError(t, err)
	assert.Equal(t, "w-9", id)
	assert.Empty(t, h.factory.created, "no unit of work is begun for a query")
}

func TestPipeline_HandlerFailureRollsBackAndDiscardsEvents(t *testing.T) {
	h := newHarness(t)
	boom := shared.NewConflictError("widget", "name", "duplicate")
	h.handleCreate(func(ctx context.Context, _ createWidgetCommand) (string, error) {
		shared.Track(ctx, newWidget("w-1"))
		return "", boom
	})

	_, err := mediator.Send[createWidgetCommand, string](context.Background(), h.mediator, createWidgetCommand{Name: "gear"})

	assert.Same(t, boom, err, "the identical error is propagated")
	uow := h.factory.created[0]
	assert.Zero(t, uow.saves)
	assert.Equal(t, 1, uow.rollbacks)
	assert.Empty(t, uow.dispatched)
	assert.Len(t, uow.discarded, 1)
}

func TestPipeline_ValidationFailureShortCircuits(t *testing.T) {
	h := newHarness(t)
	h.handleCreate(func(context.Context, createWidgetCommand) (string, error) { return "x", nil })

	_, err := mediator.Send[createWidgetCommand, string](context.Background(), h.mediator, createWidgetCommand{})

	require.Error(t, err)
	assert.Equal(t, shared.KindValidationFailed, shared.KindOf(err))
	var verr *shared.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []string{"is required"}, verr.Fields["name"])

	assert.Zero(t, h.calls, "handler never runs")
	assert.Empty(t, h.factory.created, "no unit of work for an invalid request")

	// logging sits outside validation, so the rejected attempt is still logged
	failed := h.logs.FilterMessage("Request failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, string(shared.KindValidationFailed), failed[0].ContextMap()["error_kind"])
	assert.Equal(t, []recordedObservation{{request: "createWidgetCommand", kind: shared.KindValidationFailed}}, h.recorder.observations)
}

func TestPipeline_CancelledBeforeBegin(t *testing.T) {
	h := newHarness(t)
	h.handleCreate(func(context.Context, createWidgetCommand) (string, error) { return "x", nil })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := mediator.Send[createWidgetCommand, string](ctx, h.mediator, createWidgetCommand{Name: "gear"})

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, h.factory.created)
	assert.Zero(t, h.calls)
	assert.Len(t, h.logs.FilterMessage("Request cancelled").All(), 1)
}

func TestPipeline_CancelledDuringHandlerRollsBack(t *testing.T) {
	h := newHarness(t)
	ctx, cancel := context.WithCancel(context.Background())
	h.handleCreate(func(ctx context.Context, _ createWidgetCommand) (string, error) {
		shared.Track(ctx, newWidget("w-1"))
		cancel()
		return "w-1", nil
	})

	_, err := mediator.Send[createWidgetCommand, string](ctx, h.mediator, createWidgetCommand{Name: "gear"})

	assert.ErrorIs(t, err, context.Canceled)
	uow := h.factory.created[0]
	assert.Zero(t, uow.saves)
	assert.Equal(t, 1, uow.rollbacks)
	assert.Empty(t, uow.dispatched)
}

func TestPipeline_SaveChangesFailureRollsBack(t *testing.T) {
	dbDown := errors.New("connection refused")
	h := newHarness(t)
	h.factory.saveErrs = []error{dbDown}
	h.handleCreate(func(ctx context.Context, _ createWidgetCommand) (string, error) {
		shared.Track(ctx, newWidget("w-1"))
		return "w-1", nil
	})

	_, err := mediator.Send[createWidgetCommand, string](context.Background(), h.mediator, createWidgetCommand{Name: "gear"})

	assert.Same(t, dbDown, err)
	uow := h.factory.created[0]
	assert.Equal(t, 1, uow.saves)
	assert.Equal(t, 1, uow.rollbacks)
	assert.Empty(t, uow.dispatched)

	failed := h.logs.FilterMessage("Request failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, zapcore.ErrorLevel, failed[0].Level)
	assert.Equal(t, string(shared.KindUnexpected), failed[0].ContextMap()["error_kind"])
}

func TestPipeline_RetriesConcurrentModificationWithFreshUnitOfWork(t *testing.T) {
	h := newHarness(t, func(o *Options) {
		o.Retry = retry.Config{
			Enabled:                       true,
			MaxAttempts:                   3,
			InitialDelay:                  time.Millisecond,
			MaxDelay:                      time.Millisecond,
			BackoffFactor:                 1,
			RetryOnConcurrentModification: true,
		}
	})
	h.factory.saveErrs = []error{shared.NewConcurrentModificationError("widget", "w-1")}
	h.handleCreate(func(ctx context.Context, _ createWidgetCommand) (string, error) {
		shared.Track(ctx, newWidget("w-1"))
		return "w-1", nil
	})

	id, err := mediator.Send[createWidgetCommand, string](context.Background(), h.mediator, createWidgetCommand{Name: "gear"})

	require.NoError(t, err)
	assert.Equal(t, "w-1", id)
	assert.Equal(t, 2, h.calls, "handler re-runs against a fresh unit of work")
	require.Len(t, h.factory.created, 2)
	assert.Equal(t, 1, h.factory.created[0].rollbacks)
	assert.Equal(t, 1, h.factory.created[1].saves)
	assert.Len(t, h.factory.created[1].dispatched, 1)
	assert.Len(t, h.logs.FilterMessage("Retrying unit of work").All(), 1)
}

func TestPipeline_CustomTransactionPolicy(t *testing.T) {
	h := newHarness(t, func(o *Options) {
		o.Policy = func(req any) bool {
			_, ok := req.(getWidgetQuery)
			return ok
		}
	})
	mediator.MustRegister[getWidgetQuery, string](h.mediator, mediator.HandlerFunc[getWidgetQuery, string](
		func(context.Context, getWidgetQuery) (string, error) { return "ok", nil }))
	mediator.MustRegister[renameWidgetCommand, string](h.mediator, mediator.HandlerFunc[renameWidgetCommand, string](
		func(context.Context, renameWidgetCommand) (string, error) { return "ok", nil }))

	_, err := mediator.Send[renameWidgetCommand, string](context.Background(), h.mediator, renameWidgetCommand{})
	require.NoError(t, err)
	assert.Empty(t, h.factory.created)

	_, err = mediator.Send[getWidgetQuery, string](context.Background(), h.mediator, getWidgetQuery{})
	require.NoError(t, err)
	assert.Len(t, h.factory.created, 1)
}

func TestPipeline_BusinessRuleRejectionStillCommits(t *testing.T) {
	h := newHarness(t)
	mediator.MustRegister[renameWidgetCommand, shared.Result[string]](h.mediator, mediator.HandlerFunc[renameWidgetCommand, shared.Result[string]](
		func(context.Context, renameWidgetCommand) (shared.Result[string], error) {
			return shared.Failure[string]("widget is locked"), nil
		}))

	res, err := mediator.Send[renameWidgetCommand, shared.Result[string]](context.Background(), h.mediator, renameWidgetCommand{ID: "w-1"})

	require.NoError(t, err)
	assert.True(t, res.IsFailure())
	assert.Equal(t, "widget is locked", res.Message())
	assert.Equal(t, 1, h.factory.created[0].saves)

	rejected := h.logs.FilterMessage("Request rejected by business rule").All()
	require.Len(t, rejected, 1)
	assert.Equal(t, "widget is locked", rejected[0].ContextMap()["reason"])
	assert.Equal(t, shared.KindBusinessRuleRejected, h.recorder.observations[0].kind)
}

func TestLogging_EntryAndSuccess(t *testing.T) {
	h := newHarness(t)
	h.handleCreate(func(context.Context, createWidgetCommand) (string, error) { return "w-1", nil })

	_, err := mediator.Send[createWidgetCommand, string](context.Background(), h.mediator, createWidgetCommand{Name: "gear"})
	require.NoError(t, err)

	entry := h.logs.FilterMessage("Handling request").All()
	require.Len(t, entry, 1)
	fields := entry[0].ContextMap()
	assert.Equal(t, "createWidgetCommand", fields["request"])
	assert.Equal(t, "u-1", fields["actor_id"])
	assert.Equal(t, "alice", fields["actor_name"])

	done := h.logs.FilterMessage("Request handled").All()
	require.Len(t, done, 1)
	assert.Contains(t, done[0].ContextMap(), "elapsed")
	assert.Equal(t, []recordedObservation{{request: "createWidgetCommand"}}, h.recorder.observations)
}

func TestLogging_StackOnlyForUnexpected(t *testing.T) {
	h := newHarness(t)
	var next error
	h.handleCreate(func(context.Context, createWidgetCommand) (string, error) { return "", next })

	next = shared.NewNotFoundError("widget", "w-404")
	_, err := mediator.Send[createWidgetCommand, string](context.Background(), h.mediator, createWidgetCommand{Name: "gear"})
	require.Error(t, err)

	next = shared.NewUnexpectedError("widget", "disk on fire", errors.New("io error"))
	_, err = mediator.Send[createWidgetCommand, string](context.Background(), h.mediator, createWidgetCommand{Name: "gear"})
	require.Error(t, err)

	failed := h.logs.FilterMessage("Request failed").All()
	require.Len(t, failed, 2)
	assert.Equal(t, zapcore.WarnLevel, failed[0].Level)
	assert.NotContains(t, failed[0].ContextMap(), "stack")
	assert.Equal(t, zapcore.ErrorLevel, failed[1].Level)
	assert.Contains(t, failed[1].ContextMap(), "stack")
}

func TestPipeline_HandlerPanicRollsBackAndRepanics(t *testing.T) {
	h := newHarness(t)
	h.handleCreate(func(ctx context.Context, _ createWidgetCommand) (string, error) {
		shared.Track(ctx, newWidget("w-1"))
		panic("boom")
	})

	assert.PanicsWithValue(t, "boom", func() {
		_, _ = mediator.Send[createWidgetCommand, string](context.Background(), h.mediator, createWidgetCommand{Name: "gear"})
	})

	require.Len(t, h.factory.created, 1)
	uow := h.factory.created[0]
	assert.Equal(t, 1, uow.begins)
	assert.Zero(t, uow.saves)
	assert.Equal(t, 1, uow.rollbacks)
	assert.Empty(t, uow.dispatched)
	assert.Len(t, uow.discarded, 1)

	panicked := h.logs.FilterMessage("Request panicked").All()
	require.Len(t, panicked, 1)
	assert.Equal(t, zapcore.ErrorLevel, panicked[0].Level)
	assert.Equal(t, []recordedObservation{{request: "createWidgetCommand", kind: shared.KindUnexpected}}, h.recorder.observations)
}
