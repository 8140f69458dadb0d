package recurrence

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/budget-tracker/backend/internal/application/adapter"
	"github.com/budget-tracker/backend/internal/domain/entity"
	domainerror "github.com/budget-tracker/backend/internal/domain/error"
	"github.com/budget-tracker/backend/internal/domain/valueobject"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func dayPtr(year int, month time.Month, d int) *time.Time {
	v := day(year, month, d)
	return &v
}

func intPtr(v int) *int { return &v }

// fakeRecurrenceRepo keeps rules in memory and records applications.
type fakeRecurrenceRepo struct {
	mu           sync.Mutex
	rules        map[uuid.UUID]*entity.RecurrenceRule
	applications []*adapter.RecurrenceApplication
	applyErr     map[uuid.UUID]error
	findDueErr   error
	updateErr    error
	deleted      []uuid.UUID
}

func newFakeRecurrenceRepo(rules ...*entity.RecurrenceRule) *fakeRecurrenceRepo {
	repo := &fakeRecurrenceRepo{
		rules:    make(map[uuid.UUID]*entity.RecurrenceRule),
		applyErr: make(map[uuid.UUID]error),
	}
	for _, r := range rules {
		repo.rules[r.ID] = r
	}
	return repo
}

func (f *fakeRecurrenceRepo) Create(_ context.Context, rule *entity.RecurrenceRule) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rules[rule.ID] = rule
	return nil
}

func (f *fakeRecurrenceRepo) FindByID(_ context.Context, id uuid.UUID) (*entity.RecurrenceRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rule, ok := f.rules[id]
	if !ok {
		return nil, domainerror.ErrRecurrenceNotFound
	}
	clone := *rule
	return &clone, nil
}

func (f *fakeRecurrenceRepo) FindByWallet(_ context.Context, walletID uuid.UUID, p adapter.Pagination) (*entity.RecurrenceRuleListResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var rules []*entity.RecurrenceRule
	for _, r := range f.rules {
		if r.WalletID == walletID {
			rules = append(rules, r)
		}
	}
	return &entity.RecurrenceRuleListResult{Rules: rules, Total: int64(len(rules)), Page: p.Page, Limit: p.Limit, TotalPages: 1}, nil
}

func (f *fakeRecurrenceRepo) Update(_ context.Context, rule *entity.RecurrenceRule, _ *time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	f.rules[rule.ID] = rule
	return nil
}

func (f *fakeRecurrenceRepo) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.rules, id)
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeRecurrenceRepo) FindDue(_ context.Context, asOf time.Time) ([]*entity.RecurrenceRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findDueErr != nil {
		return nil, f.findDueErr
	}
	var due []*entity.RecurrenceRule
	for _, r := range f.rules {
		if r.IsDue(asOf) {
			clone := *r
			due = append(due, &clone)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].ID.String() < due[j].ID.String() })
	return due, nil
}

func (f *fakeRecurrenceRepo) ApplyAtomically(_ context.Context, app *adapter.RecurrenceApplication) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.applyErr[app.RuleID]; err != nil {
		return err
	}
	rule := f.rules[app.RuleID]
	last := app.Advance.LastRunAt
	rule.LastRunAt = &last
	rule.NextRunAt = app.Advance.NextRunAt
	rule.IsActive = app.Advance.IsActive
	f.applications = append(f.applications, app)
	return nil
}

func (f *fakeRecurrenceRepo) applied() []*adapter.RecurrenceApplication {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*adapter.RecurrenceApplication(nil), f.applications...)
}

type walletRepoStub struct {
	wallets map[uuid.UUID]*entity.Wallet
}

func newWalletRepoStub(wallets ...*entity.Wallet) *walletRepoStub {
	s := &walletRepoStub{wallets: make(map[uuid.UUID]*entity.Wallet)}
	for _, w := range wallets {
		s.wallets[w.ID] = w
	}
	return s
}

func (s *walletRepoStub) CreateWithCategories(context.Context, *entity.Wallet, []*entity.Category) error {
	return nil
}

func (s *walletRepoStub) FindByID(_ context.Context, id uuid.UUID) (*entity.Wallet, error) {
	if w, ok := s.wallets[id]; ok {
		return w, nil
	}
	return nil, domainerror.ErrWalletNotFound
}

func (s *walletRepoStub) FindByUser(context.Context, uuid.UUID) ([]*entity.Wallet, error) {
	return nil, nil
}

func (s *walletRepoStub) FindShared(context.Context, uuid.UUID) ([]*entity.Wallet, error) {
	return nil, nil
}

func (s *walletRepoStub) FindSharePermission(context.Context, uuid.UUID, uuid.UUID) (entity.SharePermission, error) {
	return "", nil
}

func (s *walletRepoStub) CountByUser(context.Context, uuid.UUID) (int64, error) {
	return int64(len(s.wallets)), nil
}

func (s *walletRepoStub) Update(context.Context, *entity.Wallet) error { return nil }

func (s *walletRepoStub) Delete(context.Context, uuid.UUID) error { return nil }

type categoryRepoStub struct {
	categories map[uuid.UUID]*entity.Category
}

func newCategoryRepoStub(categories ...*entity.Category) *categoryRepoStub {
	s := &categoryRepoStub{categories: make(map[uuid.UUID]*entity.Category)}
	for _, c := range categories {
		s.categories[c.ID] = c
	}
	return s
}

func (s *categoryRepoStub) Create(context.Context, *entity.Category) error { return nil }

func (s *categoryRepoStub) FindByID(_ context.Context, id uuid.UUID) (*entity.Category, error) {
	if c, ok := s.categories[id]; ok {
		return c, nil
	}
	return nil, domainerror.ErrCategoryNotFound
}

func (s *categoryRepoStub) FindByWallet(context.Context, uuid.UUID, *entity.CategoryType) ([]*entity.Category, error) {
	return nil, nil
}

func (s *categoryRepoStub) ExistsByNameAndType(context.Context, uuid.UUID, string, entity.CategoryType) (bool, error) {
	return false, nil
}

func (s *categoryRepoStub) IsReferenced(context.Context, uuid.UUID) (bool, error) {
	return false, nil
}

func (s *categoryRepoStub) Update(context.Context, *entity.Category) error { return nil }

func (s *categoryRepoStub) Delete(context.Context, uuid.UUID) error {
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []adapter.RecurrenceAppliedEvent
	err    error
}

func (p *recordingPublisher) PublishRecurrenceApplied(_ context.Context, event adapter.RecurrenceAppliedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return p.err
}

type fakeLock struct{ released *int }

func (l fakeLock) Release(context.Context) error {
	*l.released++
	return nil
}

type fakeLocker struct {
	busy     bool
	err      error
	released int
	key      string
}

func (l *fakeLocker) TryAcquire(_ context.Context, key string, _ time.Duration) (adapter.Lock, bool, error) {
	l.key = key
	if l.err != nil {
		return nil, false, l.err
	}
	if l.busy {
		return nil, false, nil
	}
	return fakeLock{released: &l.released}, true, nil
}

func newTestRule(walletID, categoryID uuid.UUID, frequency valueobject.Frequency, next time.Time) *entity.RecurrenceRule {
	return &entity.RecurrenceRule{
		ID:              uuid.New(),
		WalletID:        walletID,
		UserID:          uuid.New(),
		Name:            "Gym",
		Amount:          decimal.RequireFromString("10.00"),
		TransactionType: entity.TransactionTypeExpense,
		Frequency:       frequency,
		CategoryID:      categoryID,
		StartDate:       day(2024, time.January, 1),
		IsActive:        true,
		NextRunAt:       &next,
	}
}
