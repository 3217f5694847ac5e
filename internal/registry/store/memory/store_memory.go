// Package memory is the in-process registry store used for development and
// service tests.
//
// RunInTx serializes transactions on one mutex and restores a snapshot of
// every table when fn fails. Reads outside a transaction wait for the running
// one to finish, so they never observe rows that are later rolled back.
// Writes are only safe inside RunInTx.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"droneregistry/internal/registry/models"
	"droneregistry/pkg/platform/sentinel"
)

type txKey struct{}

type tables struct {
	operators      map[uuid.UUID]*models.Operator
	activities     map[uuid.UUID]*models.Activity
	authorizations map[uuid.UUID]*models.Authorization
	tests          map[uuid.UUID]*models.Test
	manufacturers  map[uuid.UUID]*models.Manufacturer
	aircraft       map[uuid.UUID]*models.Aircraft
	pilots         map[uuid.UUID]*models.Pilot
	contacts       map[uuid.UUID]*models.Contact
	ridModules     map[uuid.UUID]*models.RIDModule
}

func (t tables) clone() tables {
	return tables{
		operators:      maps.Clone(t.operators),
		activities:     maps.Clone(t.activities),
		authorizations: maps.Clone(t.authorizations),
		tests:          maps.Clone(t.tests),
		manufacturers:  maps.Clone(t.manufacturers),
		aircraft:       maps.Clone(t.aircraft),
		pilots:         maps.Clone(t.pilots),
		contacts:       maps.Clone(t.contacts),
		ridModules:     maps.Clone(t.ridModules),
	}
}

// Store keeps every registry table in maps. Stored values are never mutated
// in place, so a shallow copy of the maps is a consistent snapshot.
type Store struct {
	txMu sync.RWMutex
	mu   sync.RWMutex
	data tables
}

func New() *Store {
	return &Store{data: tables{
		operators:      make(map[uuid.UUID]*models.Operator),
		activities:     make(map[uuid.UUID]*models.Activity),
		authorizations: make(map[uuid.UUID]*models.Authorization),
		tests:          make(map[uuid.UUID]*models.Test),
		manufacturers:  make(map[uuid.UUID]*models.Manufacturer),
		aircraft:       make(map[uuid.UUID]*models.Aircraft),
		pilots:         make(map[uuid.UUID]*models.Pilot),
		contacts:       make(map[uuid.UUID]*models.Contact),
		ridModules:     make(map[uuid.UUID]*models.RIDModule),
	}}
}

// RunInTx runs fn with exclusive write access. Nested calls join the outer
// transaction.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.RLock()
	snapshot := s.data.clone()
	s.mu.RUnlock()

	if err := fn(context.WithValue(ctx, txKey{}, struct{}{})); err != nil {
		s.mu.Lock()
		s.data = snapshot
		s.mu.Unlock()
		return err
	}
	return nil
}

// readLock holds the table lock for a read. Outside a transaction it also
// waits for any running transaction to commit or roll back.
func (s *Store) readLock(ctx context.Context) (unlock func()) {
	if ctx.Value(txKey{}) != nil {
		s.mu.RLock()
		return s.mu.RUnlock
	}
	s.txMu.RLock()
	s.mu.RLock()
	return func() {
		s.mu.RUnlock()
		s.txMu.RUnlock()
	}
}

func sortByCreated[T any](items []T, created func(T) time.Time, id func(T) uuid.UUID) []T {
	slices.SortFunc(items, func(a, b T) int {
		if c := created(a).Compare(created(b)); c != 0 {
			return c
		}
		return cmp.Compare(id(a).String(), id(b).String())
	})
	return items
}

// -----------------------------------------------------------------------------
// Operators
// -----------------------------------------------------------------------------

func (s *Store) CreateOperator(_ context.Context, op *models.Operator) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.operators[op.ID]; ok {
		return fmt.Errorf("operator id: %w", sentinel.ErrAlreadyUsed)
	}
	for _, existing := range s.data.operators {
		if existing.Email == op.Email {
			return fmt.Errorf("operator email: %w", sentinel.ErrAlreadyUsed)
		}
	}
	s.data.operators[op.ID] = op.Clone()
	return nil
}

func (s *Store) FindOperator(ctx context.Context, id uuid.UUID) (*models.Operator, error) {
	defer s.readLock(ctx)()
	if op, ok := s.data.operators[id]; ok {
		return op.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *Store) FindOperatorByEmail(ctx context.Context, email string) (*models.Operator, error) {
	defer s.readLock(ctx)()
	for _, op := range s.data.operators {
		if op.Email == email {
			return op.Clone(), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *Store) ListOperators(ctx context.Context) ([]*models.Operator, error) {
	defer s.readLock(ctx)()
	out := make([]*models.Operator, 0, len(s.data.operators))
	for _, op := range s.data.operators {
		out = append(out, op.Clone())
	}
	return sortByCreated(out,
		func(o *models.Operator) time.Time { return o.CreatedAt },
		func(o *models.Operator) uuid.UUID { return o.ID }), nil
}

// DeleteOperator drops the operator together with its address and its
// activity and authorization links, which live on the operator value.
func (s *Store) DeleteOperator(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.operators[id]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.data.operators, id)
	return nil
}

// -----------------------------------------------------------------------------
// Activities, authorizations, tests
// -----------------------------------------------------------------------------

func (s *Store) CreateActivity(_ context.Context, a *models.Activity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *a
	s.data.activities[a.ID] = &c
	return nil
}

func (s *Store) FindActivities(ctx context.Context, ids []uuid.UUID) ([]*models.Activity, error) {
	defer s.readLock(ctx)()
	out := make([]*models.Activity, 0, len(ids))
	for _, id := range ids {
		if a, ok := s.data.activities[id]; ok {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *Store) ListActivities(ctx context.Context) ([]*models.Activity, error) {
	defer s.readLock(ctx)()
	out := make([]*models.Activity, 0, len(s.data.activities))
	for _, a := range s.data.activities {
		c := *a
		out = append(out, &c)
	}
	return sortByCreated(out,
		func(a *models.Activity) time.Time { return a.CreatedAt },
		func(a *models.Activity) uuid.UUID { return a.ID }), nil
}

func (s *Store) CreateAuthorization(_ context.Context, a *models.Authorization) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := *a
	s.data.authorizations[a.ID] = &c
	return nil
}

func (s *Store) FindAuthorizations(ctx context.Context, ids []uuid.UUID) ([]*models.Authorization, error) {
	defer s.readLock(ctx)()
	out := make([]*models.Authorization, 0, len(ids))
	for _, id := range ids {
		if a, ok := s.data.authorizations[id]; ok {
			c := *a
			out = append(out, &c)
		}
	}
	return out, nil
}

func (s *Store) ListAuthorizations(ctx context.Context) ([]*models.Authorization, error) {
	defer s.readLock(ctx)()
	out := make([]*models.Authorization, 0, len(s.data.authorizations))
	for _, a := range s.data.authorizations {
		c := *a
		out = append(out, &c)
	}
	return sortByCreated(out,
		func(a *models.Authorization) time.Time { return a.CreatedAt },
		func(a *models.Authorization) uuid.UUID { return a.ID }), nil
}

func cloneTest(t *models.Test) *models.Test {
	c := *t
	if t.TakenAt != nil {
		taken := *t.TakenAt
		c.TakenAt = &taken
	}
	return &c
}

func (s *Store) CreateTest(_ context.Context, t *models.Test) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.tests[t.ID] = cloneTest(t)
	return nil
}

func (s *Store) FindTests(ctx context.Context, ids []uuid.UUID) ([]*models.Test, error) {
	defer s.readLock(ctx)()
	out := make([]*models.Test, 0, len(ids))
	for _, id := range ids {
		if t, ok := s.data.tests[id]; ok {
			out = append(out, cloneTest(t))
		}
	}
	return out, nil
}

func (s *Store) ListTests(ctx context.Context) ([]*models.Test, error) {
	defer s.readLock(ctx)()
	out := make([]*models.Test, 0, len(s.data.tests))
	for _, t := range s.data.tests {
		out = append(out, cloneTest(t))
	}
	return sortByCreated(out,
		func(t *models.Test) time.Time { return t.CreatedAt },
		func(t *models.Test) uuid.UUID { return t.ID }), nil
}

// -----------------------------------------------------------------------------
// Manufacturers
// -----------------------------------------------------------------------------

func (s *Store) CreateManufacturer(_ context.Context, m *models.Manufacturer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.manufacturers[m.ID]; ok {
		return fmt.Errorf("manufacturer id: %w", sentinel.ErrAlreadyUsed)
	}
	s.data.manufacturers[m.ID] = m.Clone()
	return nil
}

func (s *Store) FindManufacturer(ctx context.Context, id uuid.UUID) (*models.Manufacturer, error) {
	defer s.readLock(ctx)()
	if m, ok := s.data.manufacturers[id]; ok {
		return m.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *Store) ListManufacturers(ctx context.Context) ([]*models.Manufacturer, error) {
	defer s.readLock(ctx)()
	out := make([]*models.Manufacturer, 0, len(s.data.manufacturers))
	for _, m := range s.data.manufacturers {
		out = append(out, m.Clone())
	}
	return sortByCreated(out,
		func(m *models.Manufacturer) time.Time { return m.CreatedAt },
		func(m *models.Manufacturer) uuid.UUID { return m.ID }), nil
}

func (s *Store) FirstManufacturer(ctx context.Context) (*models.Manufacturer, error) {
	all, _ := s.ListManufacturers(ctx)
	if len(all) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return all[0], nil
}

func (s *Store) EnsureManufacturer(_ context.Context, m *models.Manufacturer) (*models.Manufacturer, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.data.manufacturers[m.ID]; ok {
		return existing.Clone(), false, nil
	}
	s.data.manufacturers[m.ID] = m.Clone()
	return m.Clone(), true, nil
}

// -----------------------------------------------------------------------------
// Aircraft
// -----------------------------------------------------------------------------

func (s *Store) CreateAircraft(_ context.Context, a *models.Aircraft) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.aircraft[a.ID]; ok {
		return fmt.Errorf("aircraft id: %w", sentinel.ErrAlreadyUsed)
	}
	for _, existing := range s.data.aircraft {
		if existing.ESN == a.ESN {
			return fmt.Errorf("aircraft esn: %w", sentinel.ErrAlreadyUsed)
		}
	}
	s.data.aircraft[a.ID] = a.Clone()
	return nil
}

func (s *Store) FindAircraft(ctx context.Context, id uuid.UUID) (*models.Aircraft, error) {
	defer s.readLock(ctx)()
	if a, ok := s.data.aircraft[id]; ok {
		return a.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *Store) FindAircraftByESN(ctx context.Context, esn string) (*models.Aircraft, error) {
	defer s.readLock(ctx)()
	for _, a := range s.data.aircraft {
		if a.ESN == esn {
			return a.Clone(), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *Store) ListAircraft(ctx context.Context, filter models.ListFilter) ([]*models.Aircraft, error) {
	defer s.readLock(ctx)()
	var out []*models.Aircraft
	for _, a := range s.data.aircraft {
		if filter.Matches(a.OperatorID, a.ID) {
			out = append(out, a.Clone())
		}
	}
	return sortByCreated(out,
		func(a *models.Aircraft) time.Time { return a.CreatedAt },
		func(a *models.Aircraft) uuid.UUID { return a.ID }), nil
}

// -----------------------------------------------------------------------------
// Pilots and contacts
// -----------------------------------------------------------------------------

func (s *Store) CreatePilot(_ context.Context, p *models.Pilot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.pilots[p.ID]; ok {
		return fmt.Errorf("pilot id: %w", sentinel.ErrAlreadyUsed)
	}
	s.data.pilots[p.ID] = p.Clone()
	return nil
}

func (s *Store) FindPilot(ctx context.Context, id uuid.UUID) (*models.Pilot, error) {
	defer s.readLock(ctx)()
	if p, ok := s.data.pilots[id]; ok {
		return p.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *Store) ListPilots(ctx context.Context, filter models.ListFilter) ([]*models.Pilot, error) {
	defer s.readLock(ctx)()
	var out []*models.Pilot
	for _, p := range s.data.pilots {
		if filter.Matches(p.OperatorID, uuid.Nil) {
			out = append(out, p.Clone())
		}
	}
	return sortByCreated(out,
		func(p *models.Pilot) time.Time { return p.CreatedAt },
		func(p *models.Pilot) uuid.UUID { return p.ID }), nil
}

func (s *Store) CreateContact(_ context.Context, c *models.Contact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.contacts[c.ID]; ok {
		return fmt.Errorf("contact id: %w", sentinel.ErrAlreadyUsed)
	}
	s.data.contacts[c.ID] = c.Clone()
	return nil
}

func (s *Store) FindContact(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	defer s.readLock(ctx)()
	if c, ok := s.data.contacts[id]; ok {
		return c.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *Store) ListContacts(ctx context.Context, filter models.ListFilter) ([]*models.Contact, error) {
	defer s.readLock(ctx)()
	var out []*models.Contact
	for _, c := range s.data.contacts {
		if filter.Matches(c.OperatorID, uuid.Nil) {
			out = append(out, c.Clone())
		}
	}
	return sortByCreated(out,
		func(c *models.Contact) time.Time { return c.CreatedAt },
		func(c *models.Contact) uuid.UUID { return c.ID }), nil
}

// -----------------------------------------------------------------------------
// RID modules
// -----------------------------------------------------------------------------

// checkRIDUnique must be called with mu held.
func (s *Store) checkRIDUnique(m *models.RIDModule) error {
	for _, existing := range s.data.ridModules {
		if existing.ID == m.ID {
			continue
		}
		if existing.ModuleESN == m.ModuleESN {
			return fmt.Errorf("rid module module_esn: %w", sentinel.ErrAlreadyUsed)
		}
		if existing.RIDID == m.RIDID {
			return fmt.Errorf("rid module rid_id: %w", sentinel.ErrAlreadyUsed)
		}
	}
	return nil
}

func (s *Store) CreateRIDModule(_ context.Context, m *models.RIDModule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data.ridModules[m.ID]; ok {
		return fmt.Errorf("rid module id: %w", sentinel.ErrAlreadyUsed)
	}
	if err := s.checkRIDUnique(m); err != nil {
		return err
	}
	s.data.ridModules[m.ID] = m.Clone()
	return nil
}

func (s *Store) FindRIDModule(ctx context.Context, id uuid.UUID) (*models.RIDModule, error) {
	defer s.readLock(ctx)()
	if m, ok := s.data.ridModules[id]; ok {
		return m.Clone(), nil
	}
	return nil, sentinel.ErrNotFound
}

func (s *Store) FindRIDModuleByESN(ctx context.Context, esn string) (*models.RIDModule, error) {
	defer s.readLock(ctx)()
	for _, m := range s.data.ridModules {
		if m.ModuleESN == esn {
			return m.Clone(), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *Store) FindRIDModuleByRIDID(ctx context.Context, ridID uuid.UUID) (*models.RIDModule, error) {
	defer s.readLock(ctx)()
	for _, m := range s.data.ridModules {
		if m.RIDID == ridID {
			return m.Clone(), nil
		}
	}
	return nil, sentinel.ErrNotFound
}

func (s *Store) ListRIDModules(ctx context.Context, filter models.ListFilter) ([]*models.RIDModule, error) {
	defer s.readLock(ctx)()
	var out []*models.RIDModule
	for _, m := range s.data.ridModules {
		if filter.Matches(m.OperatorID, m.AircraftID) {
			out = append(out, m.Clone())
		}
	}
	return sortByCreated(out,
		func(m *models.RIDModule) time.Time { return m.CreatedAt },
		func(m *models.RIDModule) uuid.UUID { return m.ID }), nil
}

// ExecuteRIDModule runs validate and mutate on a private copy and stores it
// only when both succeed. Callbacks run without mu held so they may read the
// store.
func (s *Store) ExecuteRIDModule(ctx context.Context, id uuid.UUID, validate func(*models.RIDModule) error, mutate func(*models.RIDModule)) (*models.RIDModule, error) {
	var result *models.RIDModule
	err := s.RunInTx(ctx, func(ctx context.Context) error {
		m, err := s.FindRIDModule(ctx, id)
		if err != nil {
			return err
		}
		if err := validate(m); err != nil {
			return err
		}
		mutate(m)

		s.mu.Lock()
		defer s.mu.Unlock()
		if err := s.checkRIDUnique(m); err != nil {
			return err
		}
		s.data.ridModules[m.ID] = m.Clone()
		result = m
		return nil
	})
	return result, err
}
