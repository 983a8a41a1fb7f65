package gormstore

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"servicedesk/config"
	"servicedesk/domain/machine"
	"servicedesk/domain/organization"
	"servicedesk/domain/shared"
	"servicedesk/domain/ticket"
	"servicedesk/domain/user"
	"servicedesk/infrastructure/persistence/gormstore/po"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := Open(&config.DatabaseConfig{
		Type:        config.DatabaseSQLite,
		FilePath:    "file:" + uuid.NewString() + "?mode=memory&cache=shared",
		AutoMigrate: true,
	}, "silent")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (p *recordingPublisher) Publish(event shared.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event.EventName())
	return nil
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.events...)
}

func activeOrganization(t *testing.T, db *gorm.DB) *organization.Organization {
	t.Helper()
	org, err := organization.Register("Acme", shared.MustEmail("ops@acme.example.com"), "tester")
	require.NoError(t, err)
	require.NoError(t, org.Activate("tester"))
	require.NoError(t, NewOrganizationRepository(db).Add(context.Background(), org))
	org.PullEvents()
	return org
}

func countRows(t *testing.T, db *gorm.DB, model any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestUnitOfWork_CommitWritesOutboxAndPublishes(t *testing.T) {
	db := newTestDB(t)
	publisher := &recordingPublisher{}
	org := activeOrganization(t, db)

	uow := NewUnitOfWork(db, publisher)
	ctx, err := uow.Begin(context.Background())
	require.NoError(t, err)

	m, err := machine.Register(org.ID(), "sn-100", "X1", "tester")
	require.NoError(t, err)
	require.NoError(t, NewMachineRepository(db).Add(ctx, m))
	assert.Empty(t, publisher.names())

	affected, err := uow.SaveChanges(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, affected)
	assert.Equal(t, []string{"machine.registered"}, publisher.names())

	assert.Equal(t, int64(1), countRows(t, db, &po.MachinePO{}))

	var events []po.OutboxEventPO
	require.NoError(t, db.Find(&events).Error)
	require.Len(t, events, 1)
	assert.Equal(t, "machine.registered", events[0].EventType)
	assert.Equal(t, string(po.EventStatusPending), events[0].Status)

	data, err := events[0].ToEventData()
	require.NoError(t, err)
	assert.Equal(t, "SN-100", data["serial_number"])
	assert.Equal(t, org.ID(), data["organization_id"])
}

func TestUnitOfWork_RollbackDiscardsEverything(t *testing.T) {
	db := newTestDB(t)
	publisher := &recordingPublisher{}
	org := activeOrganization(t, db)

	uow := NewUnitOfWork(db, publisher)
	ctx, err := uow.Begin(context.Background())
	require.NoError(t, err)

	m, err := machine.Register(org.ID(), "SN-200", "X1", "tester")
	require.NoError(t, err)
	require.NoError(t, NewMachineRepository(db).Add(ctx, m))

	require.NoError(t, uow.Rollback(ctx))
	require.NoError(t, uow.Rollback(ctx))

	assert.Empty(t, publisher.names())
	assert.Empty(t, m.PullEvents())
	assert.Equal(t, int64(0), countRows(t, db, &po.MachinePO{}))
	assert.Equal(t, int64(0), countRows(t, db, &po.OutboxEventPO{}))
}

func TestUnitOfWork_SingleUse(t *testing.T) {
	db := newTestDB(t)
	uow := NewUnitOfWork(db, nil)

	_, err := uow.SaveChanges(context.Background())
	assert.ErrorIs(t, err, shared.ErrUnitOfWorkNotStarted)

	ctx, err := uow.Begin(context.Background())
	require.NoError(t, err)
	_, err = uow.Begin(ctx)
	assert.ErrorIs(t, err, shared.ErrUnitOfWorkClosed)

	_, err = uow.SaveChanges(ctx)
	require.NoError(t, err)
	_, err = uow.SaveChanges(ctx)
	assert.ErrorIs(t, err, shared.ErrUnitOfWorkClosed)
	assert.NoError(t, uow.Rollback(ctx))
}

func TestMachineRepository_DuplicateSerialIsConflict(t *testing.T) {
	db := newTestDB(t)
	org := activeOrganization(t, db)
	repo := NewMachineRepository(db)

	first, err := machine.Register(org.ID(), "SN-300", "X1", "tester")
	require.NoError(t, err)
	require.NoError(t, repo.Add(context.Background(), first))

	uow := NewUnitOfWork(db, nil)
	ctx, err := uow.Begin(context.Background())
	require.NoError(t, err)

	duplicate, err := machine.Register(org.ID(), "sn-300", "X2", "tester")
	require.NoError(t, err)
	err = repo.Add(ctx, duplicate)
	require.Error(t, err)
	assert.Equal(t, shared.KindConflict, shared.KindOf(err))
	require.NoError(t, uow.Rollback(ctx))

	assert.Equal(t, int64(1), countRows(t, db, &po.MachinePO{}))
}

func TestOrganizationRepository_FindByNameIgnoresCase(t *testing.T) {
	db := newTestDB(t)
	org := activeOrganization(t, db)
	repo := NewOrganizationRepository(db)

	found, err := repo.FindByName(context.Background(), "  ACME ")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, org.ID(), found.ID())
	assert.Equal(t, "ops@acme.example.com", found.ContactEmail().Value())

	missing, err := repo.FindByName(context.Background(), "Globex")
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = repo.FindByID(context.Background(), "nope")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestRepository_OptimisticLocking(t *testing.T) {
	db := newTestDB(t)
	org := activeOrganization(t, db)
	repo := NewOrganizationRepository(db)
	ctx := context.Background()

	a, err := repo.FindByID(ctx, org.ID())
	require.NoError(t, err)
	b, err := repo.FindByID(ctx, org.ID())
	require.NoError(t, err)

	require.NoError(t, a.Suspend("unpaid invoices", "tester"))
	require.NoError(t, repo.Update(ctx, a))
	assert.Equal(t, 1, a.Version())

	require.NoError(t, b.Suspend("audit", "tester"))
	err = repo.Update(ctx, b)
	assert.ErrorIs(t, err, shared.ErrConcurrentModification)

	stored, err := repo.FindByID(ctx, org.ID())
	require.NoError(t, err)
	assert.Equal(t, "unpaid invoices", stored.SuspensionReason())
	assert.Equal(t, 1, stored.Version())
}

func TestTicketRepository_NextNumberAndFind(t *testing.T) {
	db := newTestDB(t)
	repo := NewTicketRepository(db)
	ctx := context.Background()

	var numbers []string
	for i := 0; i < 3; i++ {
		number, err := repo.NextNumber(ctx, 2026)
		require.NoError(t, err)
		numbers = append(numbers, number.String())

		tk, err := ticket.Open(ticket.OpenOptions{Number: number, OrganizationID: "org-1", Title: "no power", ActorID: "tester"})
		require.NoError(t, err)
		require.NoError(t, repo.Add(ctx, tk))
	}
	assert.Equal(t, []string{"TICK-2026-00001", "TICK-2026-00002", "TICK-2026-00003"}, numbers)

	next, err := repo.NextNumber(ctx, 2027)
	require.NoError(t, err)
	assert.Equal(t, "TICK-2027-00001", next.String())

	found, err := repo.FindByNumber(ctx, ticket.MustParseNumber("TICK-2026-00002"))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, ticket.StatusOpen, found.Status())
	assert.Equal(t, ticket.PriorityMedium, found.Priority())

	require.NoError(t, found.ChangeStatus(ticket.StatusInProgress, "tech"))
	require.NoError(t, repo.Update(ctx, found))

	open, err := repo.FindBySpecification(ctx, ticket.ByStatusSpecification{Status: ticket.StatusOpen})
	require.NoError(t, err)
	assert.Len(t, open, 2)

	notOpen, err := repo.FindBySpecification(ctx, shared.Not[*ticket.Ticket](ticket.ByStatusSpecification{Status: ticket.StatusOpen}))
	require.NoError(t, err)
	require.Len(t, notOpen, 1)
	assert.Equal(t, "TICK-2026-00002", notOpen[0].Number().String())
}

func TestMachineRepository_CompositeSpecifications(t *testing.T) {
	db := newTestDB(t)
	repo := NewMachineRepository(db)
	ctx := context.Background()

	register := func(orgID, serial string, retire bool) {
		m, err := machine.Register(orgID, serial, "X1", "tester")
		require.NoError(t, err)
		if retire {
			require.NoError(t, m.Retire("tester"))
		}
		require.NoError(t, repo.Add(ctx, m))
	}
	register("org-1", "A-1", false)
	register("org-1", "A-2", true)
	register("org-2", "B-1", false)
	register("org-3", "C-1", true)

	spec := shared.And[*machine.Machine](
		shared.Or[*machine.Machine](
			machine.ByOrganizationSpecification{OrganizationID: "org-1"},
			machine.ByOrganizationSpecification{OrganizationID: "org-2"},
		),
		shared.Not[*machine.Machine](machine.ByStatusSpecification{Status: machine.StatusRetired}),
	)
	list, err := repo.FindBySpecification(ctx, spec)
	require.NoError(t, err)

	serials := make([]string, 0, len(list))
	for _, m := range list {
		serials = append(serials, m.SerialNumber())
	}
	assert.ElementsMatch(t, []string{"A-1", "B-1"}, serials)

	// 不认识的规约必须报错而不是返回全部数据
	_, err = repo.FindBySpecification(ctx, unknownMachineSpec{})
	assert.Equal(t, shared.KindUnexpected, shared.KindOf(err))
}

type unknownMachineSpec struct{}

func (unknownMachineSpec) IsSatisfiedBy(context.Context, *machine.Machine) bool { return true }

func TestUserRepository_EmailUniqueAndSpecifications(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	tech, err := user.Register("Tess", shared.MustEmail("tess@example.com"), shared.RoleTechnician, "", "admin")
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, tech))

	dup, err := user.Register("Other", shared.MustEmail("TESS@example.com"), shared.RoleAdmin, "", "admin")
	require.NoError(t, err)
	err = repo.Add(ctx, dup)
	assert.Equal(t, shared.KindConflict, shared.KindOf(err))

	found, err := repo.FindByEmail(ctx, shared.MustEmail("Tess@Example.com"))
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, tech.ID(), found.ID())

	technicians, err := repo.FindBySpecification(ctx, shared.And[*user.User](
		user.ActiveUserSpecification{},
		user.ByRoleSpecification{Role: shared.RoleTechnician},
	))
	require.NoError(t, err)
	assert.Len(t, technicians, 1)
}

type flakyPublisher struct {
	fail      bool
	published []string
}

func (p *flakyPublisher) Publish(_ context.Context, eventType, _ string) error {
	if p.fail {
		return errors.New("broker unavailable")
	}
	p.published = append(p.published, eventType)
	return nil
}

type outboxCounter map[string]int

func (c outboxCounter) ObserveOutbox(_ string, status string) { c[status]++ }

func TestOutboxWorker_ProcessBatch(t *testing.T) {
	db := newTestDB(t)
	outbox := NewOutboxRepository(db)
	ctx := context.Background()

	org, err := organization.Register("Initech", shared.MustEmail("it@initech.example.com"), "tester")
	require.NoError(t, err)
	for _, event := range org.PullEvents() {
		require.NoError(t, outbox.SaveEvent(ctx, event))
	}

	publisher := &flakyPublisher{fail: true}
	counter := outboxCounter{}
	worker, err := NewOutboxWorker(outbox, publisher, WorkerOptions{
		PollInterval: 1,
		BatchSize:    10,
		MaxRetries:   2,
		Observer:     counter,
	})
	require.NoError(t, err)

	published, err := worker.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, published)
	assert.Equal(t, 1, counter[string(po.EventStatusPending)], "first failure goes back to pending")

	publisher.fail = false
	published, err = worker.ProcessBatch(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, published)
	assert.Equal(t, []string{"organization.registered"}, publisher.published)

	counts, err := outbox.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[po.EventStatusPublished])
}

func TestOutboxWorker_GivesUpAfterMaxRetries(t *testing.T) {
	db := newTestDB(t)
	outbox := NewOutboxRepository(db)
	ctx := context.Background()

	m, err := machine.Register("org-1", "SN-1", "X", "tester")
	require.NoError(t, err)
	for _, event := range m.PullEvents() {
		require.NoError(t, outbox.SaveEvent(ctx, event))
	}

	worker, err := NewOutboxWorker(outbox, &flakyPublisher{fail: true}, WorkerOptions{PollInterval: 1, BatchSize: 10, MaxRetries: 1})
	require.NoError(t, err)
	_, err = worker.ProcessBatch(ctx)
	require.NoError(t, err)

	counts, err := outbox.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[po.EventStatusFailed])
}

func TestNewOutboxWorker_ValidatesOptions(t *testing.T) {
	_, err := NewOutboxWorker(nil, &LoggingOutboxPublisher{}, WorkerOptions{PollInterval: 1, BatchSize: 1, MaxRetries: 1})
	assert.Error(t, err)

	_, err = NewOutboxWorker(&OutboxRepository{}, &LoggingOutboxPublisher{}, WorkerOptions{BatchSize: 1, MaxRetries: 1})
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	dsn, err := DSN(&config.DatabaseConfig{Type: config.DatabasePostgres, Username: "u", Password: "p", Host: "db", Port: "5432", Database: "sd"})
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/sd?sslmode=disable", dsn)

	dsn, err = DSN(&config.DatabaseConfig{Type: config.DatabaseMySQL, Username: "u", Password: "p", Host: "db", Port: "3306", Database: "sd"})
	require.NoError(t, err)
	assert.Contains(t, dsn, "u:p@tcp(db:3306)/sd?parseTime=true")

	_, err = DSN(&config.DatabaseConfig{Type: config.DatabaseMemory})
	assert.Error(t, err)
}
