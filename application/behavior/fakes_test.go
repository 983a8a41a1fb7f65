package behavior

import (
	"context"
	"time"

	"servicedesk/domain/shared"
)

type widget struct {
	id     string
	events []shared.DomainEvent
}

func newWidget(id string) *widget {
	w := &widget{id: id}
	w.events = append(w.events, widgetCreated{id: id, at: time.Now()})
	return w
}

func (w *widget) ID() string          { return w.id }
func (w *widget) Version() int        { return 0 }
func (w *widget) Audit() shared.Audit { return shared.Audit{} }

func (w *widget) PullEvents() []shared.DomainEvent {
	events := w.events
	w.events = nil
	return events
}

type widgetCreated struct {
	id string
	at time.Time
}

func (e widgetCreated) EventName() string      { return "widget.created" }
func (e widgetCreated) OccurredOn() time.Time  { return e.at }
func (e widgetCreated) GetAggregateID() string { return e.id }

type fakeUnitOfWork struct {
	begins     int
	saves      int
	rollbacks  int
	tracked    []shared.AggregateRoot
	dispatched []shared.DomainEvent
	discarded  []shared.DomainEvent
	saveErr    error
}

func (u *fakeUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if u.begins > 0 {
		return ctx, shared.ErrUnitOfWorkClosed
	}
	u.begins++
	return ctx, nil
}

func (u *fakeUnitOfWork) Track(aggregate shared.AggregateRoot) {
	u.tracked = append(u.tracked, aggregate)
}

func (u *fakeUnitOfWork) SaveChanges(context.Context) (int, error) {
	u.saves++
	if u.saveErr != nil {
		return 0, u.saveErr
	}
	for _, a := range u.tracked {
		u.dispatched = append(u.dispatched, a.PullEvents()...)
	}
	return len(u.tracked), nil
}

func (u *fakeUnitOfWork) Rollback(context.Context) error {
	u.rollbacks++
	for _, a := range u.tracked {
		u.discarded = append(u.discarded, a.PullEvents()...)
	}
	return nil
}

type fakeFactory struct {
	created  []*fakeUnitOfWork
	saveErrs []error
}

func (f *fakeFactory) New() shared.UnitOfWork {
	u := &fakeUnitOfWork{}
	if n := len(f.created); n < len(f.saveErrs) {
		u.saveErr = f.saveErrs[n]
	}
	f.created = append(f.created, u)
	return u
}

type recordedObservation struct {
	request string
	kind    shared.ErrorKind
}

type fakeRecorder struct {
	observations []recordedObservation
}

func (r *fakeRecorder) Observe(request string, kind shared.ErrorKind, _ time.Duration) {
	r.observations = append(r.observations, recordedObservation{request: request, kind: kind})
}
