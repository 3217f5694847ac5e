// Package sqlstore persists the registry through bun. One schema serves
// SQLite, PostgreSQL and MySQL; the transaction travels in the context.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"

	"droneregistry/internal/platform/database"
	"droneregistry/internal/registry/models"
	dErrors "droneregistry/pkg/domain-errors"
	"droneregistry/pkg/platform/sentinel"
	"droneregistry/pkg/platform/tx"
)

const defaultTxTimeout = 5 * time.Second

// Store implements the registry store over a *bun.DB.
type Store struct {
	db        *bun.DB
	txTimeout time.Duration
	lockRows  bool
}

type Option func(*Store)

// WithTxTimeout bounds transactions whose context carries no deadline.
func WithTxTimeout(d time.Duration) Option {
	return func(s *Store) {
		s.txTimeout = d
	}
}

func New(db *bun.DB, opts ...Option) *Store {
	s := &Store{
		db:        db,
		txTimeout: defaultTxTimeout,
		// SQLite serializes writers and has no SELECT ... FOR UPDATE.
		lockRows: db.Dialect().Name() != dialect.SQLite,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) idb(ctx context.Context) bun.IDB {
	return tx.DB(ctx, s.db)
}

// RunInTx begins a transaction, stores it in ctx for every store call made
// by fn, and commits when fn succeeds. Nested calls join the outer
// transaction.
func (s *Store) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := tx.From(ctx); ok {
		return fn(ctx)
	}
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}
	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.txTimeout)
		defer cancel()
	}

	btx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		_ = btx.Rollback()
	}()

	if err := fn(tx.WithTx(ctx, btx)); err != nil {
		return err
	}
	if err := btx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return sentinel.ErrNotFound
	}
	return err
}

func writeErr(what string, err error) error {
	if err == nil {
		return nil
	}
	if database.IsUniqueViolation(err) {
		return fmt.Errorf("%s: %w", what, sentinel.ErrAlreadyUsed)
	}
	return fmt.Errorf("%s: %w", what, err)
}

func (s *Store) insert(ctx context.Context, what string, model any) error {
	_, err := s.idb(ctx).NewInsert().Model(model).Exec(ctx)
	return writeErr(what, err)
}

// -----------------------------------------------------------------------------
// Operators
// -----------------------------------------------------------------------------

func (s *Store) CreateOperator(ctx context.Context, op *models.Operator) error {
	return s.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.insert(ctx, "insert operator address", toAddressRow(op.Address)); err != nil {
			return err
		}
		if err := s.insert(ctx, "insert operator", toOperatorRow(op)); err != nil {
			return err
		}
		if len(op.ActivityIDs) > 0 {
			links := make([]operatorActivityRow, len(op.ActivityIDs))
			for i, id := range op.ActivityIDs {
				links[i] = operatorActivityRow{OperatorID: op.ID, ActivityID: id}
			}
			if err := s.insert(ctx, "link operator activities", &links); err != nil {
				return err
			}
		}
		if len(op.AuthorizationIDs) > 0 {
			links := make([]operatorAuthorizationRow, len(op.AuthorizationIDs))
			for i, id := range op.AuthorizationIDs {
				links[i] = operatorAuthorizationRow{OperatorID: op.ID, AuthorizationID: id}
			}
			if err := s.insert(ctx, "link operator authorizations", &links); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) selectOperators(ctx context.Context, where string, args ...any) ([]*models.Operator, error) {
	var rows []operatorRow
	q := s.idb(ctx).NewSelect().Model(&rows).Relation("Address").
		OrderExpr("?TableAlias.created_at ASC, ?TableAlias.id ASC")
	if where != "" {
		q = q.Where(where, args...)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]*models.Operator, len(rows))
	ids := make([]uuid.UUID, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
		ids[i] = rows[i].ID
	}
	if len(ids) == 0 {
		return out, nil
	}

	var acts []operatorActivityRow
	if err := s.idb(ctx).NewSelect().Model(&acts).
		Where("operator_id IN (?)", bun.In(ids)).
		OrderExpr("activity_id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("load operator activities: %w", err)
	}
	var auths []operatorAuthorizationRow
	if err := s.idb(ctx).NewSelect().Model(&auths).
		Where("operator_id IN (?)", bun.In(ids)).
		OrderExpr("authorization_id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("load operator authorizations: %w", err)
	}
	byID := make(map[uuid.UUID]*models.Operator, len(out))
	for _, op := range out {
		byID[op.ID] = op
	}
	for _, l := range acts {
		byID[l.OperatorID].ActivityIDs = append(byID[l.OperatorID].ActivityIDs, l.ActivityID)
	}
	for _, l := range auths {
		byID[l.OperatorID].AuthorizationIDs = append(byID[l.OperatorID].AuthorizationIDs, l.AuthorizationID)
	}
	return out, nil
}

func (s *Store) findOperator(ctx context.Context, where string, arg any) (*models.Operator, error) {
	ops, err := s.selectOperators(ctx, where, arg)
	if err != nil {
		return nil, fmt.Errorf("find operator: %w", err)
	}
	if len(ops) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return ops[0], nil
}

func (s *Store) FindOperator(ctx context.Context, id uuid.UUID) (*models.Operator, error) {
	return s.findOperator(ctx, "?TableAlias.id = ?", id)
}

func (s *Store) FindOperatorByEmail(ctx context.Context, email string) (*models.Operator, error) {
	return s.findOperator(ctx, "?TableAlias.email = ?", email)
}

func (s *Store) ListOperators(ctx context.Context) ([]*models.Operator, error) {
	ops, err := s.selectOperators(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("list operators: %w", err)
	}
	return ops, nil
}

// DeleteOperator removes the operator row, its link rows and the address it
// owns. Rows that point at the operator must already be gone.
func (s *Store) DeleteOperator(ctx context.Context, id uuid.UUID) error {
	return s.RunInTx(ctx, func(ctx context.Context) error {
		var row operatorRow
		err := s.idb(ctx).NewSelect().Model(&row).Column("id", "address_id").Where("id = ?", id).Scan(ctx)
		if errors.Is(err, sql.ErrNoRows) {
			return sentinel.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("find operator: %w", err)
		}
		if _, err := s.idb(ctx).NewDelete().Model((*operatorActivityRow)(nil)).Where("operator_id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("unlink operator activities: %w", err)
		}
		if _, err := s.idb(ctx).NewDelete().Model((*operatorAuthorizationRow)(nil)).Where("operator_id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("unlink operator authorizations: %w", err)
		}
		if _, err := s.idb(ctx).NewDelete().Model((*operatorRow)(nil)).Where("id = ?", id).Exec(ctx); err != nil {
			return fmt.Errorf("delete operator: %w", err)
		}
		if _, err := s.idb(ctx).NewDelete().Model((*addressRow)(nil)).Where("id = ?", row.AddressID).Exec(ctx); err != nil {
			return fmt.Errorf("delete operator address: %w", err)
		}
		return nil
	})
}

// -----------------------------------------------------------------------------
// Activities, authorizations, tests
// -----------------------------------------------------------------------------

func (s *Store) CreateActivity(ctx context.Context, a *models.Activity) error {
	return s.insert(ctx, "insert activity", &activityRow{
		ID: a.ID, Name: a.Name, ActivityType: a.ActivityType, CreatedAt: a.CreatedAt, UpdatedAt: a.UpdatedAt,
	})
}

func (s *Store) selectActivities(ctx context.Context, ids []uuid.UUID, all bool) ([]*models.Activity, error) {
	var rows []activityRow
	q := s.idb(ctx).NewSelect().Model(&rows).OrderExpr("created_at ASC, id ASC")
	if !all {
		if len(ids) == 0 {
			return nil, nil
		}
		q = q.Where("id IN (?)", bun.In(ids))
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("select activities: %w", err)
	}
	out := make([]*models.Activity, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}
	return out, nil
}

func (s *Store) FindActivities(ctx context.Context, ids []uuid.UUID) ([]*models.Activity, error) {
	return s.selectActivities(ctx, ids, false)
}

func (s *Store) ListActivities(ctx context.Context) ([]*models.Activity, error) {
	return s.selectActivities(ctx, nil, true)
}

func (s *Store) CreateAuthorization(ctx context.Context, a *models.Authorization) error {
	return s.insert(ctx, "insert authorization", toAuthorizationRow(a))
}

func (s *Store) selectAuthorizations(ctx context.Context, ids []uuid.UUID, all bool) ([]*models.Authorization, error) {
	var rows []authorizationRow
	q := s.idb(ctx).NewSelect().Model(&rows).OrderExpr("created_at ASC, id ASC")
	if !all {
		if len(ids) == 0 {
			return nil, nil
		}
		q = q.Where("id IN (?)", bun.In(ids))
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("select authorizations: %w", err)
	}
	out := make([]*models.Authorization, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}
	return out, nil
}

func (s *Store) FindAuthorizations(ctx context.Context, ids []uuid.UUID) ([]*models.Authorization, error) {
	return s.selectAuthorizations(ctx, ids, false)
}

func (s *Store) ListAuthorizations(ctx context.Context) ([]*models.Authorization, error) {
	return s.selectAuthorizations(ctx, nil, true)
}

func (s *Store) CreateTest(ctx context.Context, t *models.Test) error {
	return s.insert(ctx, "insert test", &testRow{
		ID: t.ID, TestType: t.TestType, TakenAt: t.TakenAt, Name: t.Name, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt,
	})
}

func (s *Store) selectTests(ctx context.Context, ids []uuid.UUID, all bool) ([]*models.Test, error) {
	var rows []testRow
	q := s.idb(ctx).NewSelect().Model(&rows).OrderExpr("created_at ASC, id ASC")
	if !all {
		if len(ids) == 0 {
			return nil, nil
		}
		q = q.Where("id IN (?)", bun.In(ids))
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("select tests: %w", err)
	}
	out := make([]*models.Test, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}
	return out, nil
}

func (s *Store) FindTests(ctx context.Context, ids []uuid.UUID) ([]*models.Test, error) {
	return s.selectTests(ctx, ids, false)
}

func (s *Store) ListTests(ctx context.Context) ([]*models.Test, error) {
	return s.selectTests(ctx, nil, true)
}

// -----------------------------------------------------------------------------
// Manufacturers
// -----------------------------------------------------------------------------

func (s *Store) CreateManufacturer(ctx context.Context, m *models.Manufacturer) error {
	return s.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.insert(ctx, "insert manufacturer address", toAddressRow(m.Address)); err != nil {
			return err
		}
		return s.insert(ctx, "insert manufacturer", toManufacturerRow(m))
	})
}

func (s *Store) selectManufacturers(ctx context.Context, limit int, where string, args ...any) ([]*models.Manufacturer, error) {
	var rows []manufacturerRow
	q := s.idb(ctx).NewSelect().Model(&rows).Relation("Address").
		OrderExpr("?TableAlias.created_at ASC, ?TableAlias.id ASC")
	if where != "" {
		q = q.Where(where, args...)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("select manufacturers: %w", err)
	}
	out := make([]*models.Manufacturer, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}
	return out, nil
}

func (s *Store) FindManufacturer(ctx context.Context, id uuid.UUID) (*models.Manufacturer, error) {
	out, err := s.selectManufacturers(ctx, 1, "?TableAlias.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return out[0], nil
}

func (s *Store) ListManufacturers(ctx context.Context) ([]*models.Manufacturer, error) {
	return s.selectManufacturers(ctx, 0, "")
}

func (s *Store) FirstManufacturer(ctx context.Context) (*models.Manufacturer, error) {
	out, err := s.selectManufacturers(ctx, 1, "")
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return out[0], nil
}

// EnsureManufacturer inserts m and its address with insert-if-absent on
// their primary keys. Concurrent callers racing on the same IDs converge on
// one row.
func (s *Store) EnsureManufacturer(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, bool, error) {
	var (
		stored  *models.Manufacturer
		created bool
	)
	err := s.RunInTx(ctx, func(ctx context.Context) error {
		db := s.idb(ctx)
		if _, err := db.NewInsert().Model(toAddressRow(m.Address)).Ignore().Exec(ctx); err != nil {
			return writeErr("ensure manufacturer address", err)
		}
		res, err := db.NewInsert().Model(toManufacturerRow(m)).Ignore().Exec(ctx)
		if err != nil {
			return writeErr("ensure manufacturer", err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			created = true
		}
		stored, err = s.FindManufacturer(ctx, m.ID)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	return stored, created, nil
}

// -----------------------------------------------------------------------------
// Aircraft
// -----------------------------------------------------------------------------

func (s *Store) CreateAircraft(ctx context.Context, a *models.Aircraft) error {
	return s.RunInTx(ctx, func(ctx context.Context) error {
		if tc := a.TypeCertificate; tc != nil {
			row := &typeCertificateRow{
				ID:                            tc.ID,
				TypeCertificateID:             tc.TypeCertificateID,
				TypeCertificateIssuingCountry: tc.TypeCertificateIssuingCountry,
				TypeCertificateHolder:         tc.TypeCertificateHolder,
				TypeCertificateHolderCountry:  tc.TypeCertificateHolderCountry,
				CreatedAt:                     tc.CreatedAt,
				UpdatedAt:                     tc.UpdatedAt,
			}
			if err := s.insert(ctx, "insert type certificate", row); err != nil {
				return err
			}
		}
		return s.insert(ctx, "insert aircraft", toAircraftRow(a))
	})
}

func (s *Store) selectAircraft(ctx context.Context, filter models.ListFilter, where string, args ...any) ([]*models.Aircraft, error) {
	var rows []aircraftRow
	q := s.idb(ctx).NewSelect().Model(&rows).Relation("TypeCertificate").
		OrderExpr("?TableAlias.created_at ASC, ?TableAlias.id ASC")
	if where != "" {
		q = q.Where(where, args...)
	}
	if filter.OperatorID != uuid.Nil {
		q = q.Where("?TableAlias.operator_id = ?", filter.OperatorID)
	}
	if filter.AircraftID != uuid.Nil {
		q = q.Where("?TableAlias.id = ?", filter.AircraftID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("select aircraft: %w", err)
	}
	out := make([]*models.Aircraft, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}
	return out, nil
}

func (s *Store) FindAircraft(ctx context.Context, id uuid.UUID) (*models.Aircraft, error) {
	out, err := s.selectAircraft(ctx, models.ListFilter{}, "?TableAlias.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return out[0], nil
}

func (s *Store) FindAircraftByESN(ctx context.Context, esn string) (*models.Aircraft, error) {
	out, err := s.selectAircraft(ctx, models.ListFilter{}, "?TableAlias.esn = ?", esn)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return out[0], nil
}

func (s *Store) ListAircraft(ctx context.Context, filter models.ListFilter) ([]*models.Aircraft, error) {
	return s.selectAircraft(ctx, filter, "")
}

// -----------------------------------------------------------------------------
// Pilots and contacts
// -----------------------------------------------------------------------------

func (s *Store) insertPersonAndAddress(ctx context.Context, owner string, p *models.Person, a *models.Address) error {
	if err := s.insert(ctx, "insert "+owner+" person", toPersonRow(p)); err != nil {
		return err
	}
	return s.insert(ctx, "insert "+owner+" address", toAddressRow(a))
}

func (s *Store) CreatePilot(ctx context.Context, p *models.Pilot) error {
	return s.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.insertPersonAndAddress(ctx, "pilot", p.Person, p.Address); err != nil {
			return err
		}
		row := &pilotRow{
			ID:         p.ID,
			OperatorID: p.OperatorID,
			PersonID:   p.Person.ID,
			AddressID:  p.Address.ID,
			IsActive:   p.IsActive,
			CreatedAt:  p.CreatedAt,
			UpdatedAt:  p.UpdatedAt,
		}
		if err := s.insert(ctx, "insert pilot", row); err != nil {
			return err
		}
		if len(p.TestIDs) > 0 {
			links := make([]pilotTestRow, len(p.TestIDs))
			for i, id := range p.TestIDs {
				links[i] = pilotTestRow{PilotID: p.ID, TestID: id}
			}
			if err := s.insert(ctx, "link pilot tests", &links); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *Store) selectPilots(ctx context.Context, filter models.ListFilter, where string, args ...any) ([]*models.Pilot, error) {
	var rows []pilotRow
	q := s.idb(ctx).NewSelect().Model(&rows).Relation("Person").Relation("Address").
		OrderExpr("?TableAlias.created_at ASC, ?TableAlias.id ASC")
	if where != "" {
		q = q.Where(where, args...)
	}
	if filter.OperatorID != uuid.Nil {
		q = q.Where("?TableAlias.operator_id = ?", filter.OperatorID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("select pilots: %w", err)
	}
	out := make([]*models.Pilot, len(rows))
	ids := make([]uuid.UUID, len(rows))
	byID := make(map[uuid.UUID]*models.Pilot, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
		ids[i] = rows[i].ID
		byID[rows[i].ID] = out[i]
	}
	if len(ids) == 0 {
		return out, nil
	}
	var links []pilotTestRow
	if err := s.idb(ctx).NewSelect().Model(&links).
		Where("pilot_id IN (?)", bun.In(ids)).
		OrderExpr("test_id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("load pilot tests: %w", err)
	}
	for _, l := range links {
		byID[l.PilotID].TestIDs = append(byID[l.PilotID].TestIDs, l.TestID)
	}
	return out, nil
}

func (s *Store) FindPilot(ctx context.Context, id uuid.UUID) (*models.Pilot, error) {
	out, err := s.selectPilots(ctx, models.ListFilter{}, "?TableAlias.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return out[0], nil
}

func (s *Store) ListPilots(ctx context.Context, filter models.ListFilter) ([]*models.Pilot, error) {
	return s.selectPilots(ctx, filter, "")
}

func (s *Store) CreateContact(ctx context.Context, c *models.Contact) error {
	return s.RunInTx(ctx, func(ctx context.Context) error {
		if err := s.insertPersonAndAddress(ctx, "contact", c.Person, c.Address); err != nil {
			return err
		}
		return s.insert(ctx, "insert contact", &contactRow{
			ID:         c.ID,
			OperatorID: c.OperatorID,
			PersonID:   c.Person.ID,
			AddressID:  c.Address.ID,
			RoleType:   int(c.RoleType),
			CreatedAt:  c.CreatedAt,
			UpdatedAt:  c.UpdatedAt,
		})
	})
}

func (s *Store) selectContacts(ctx context.Context, filter models.ListFilter, where string, args ...any) ([]*models.Contact, error) {
	var rows []contactRow
	q := s.idb(ctx).NewSelect().Model(&rows).Relation("Person").Relation("Address").
		OrderExpr("?TableAlias.created_at ASC, ?TableAlias.id ASC")
	if where != "" {
		q = q.Where(where, args...)
	}
	if filter.OperatorID != uuid.Nil {
		q = q.Where("?TableAlias.operator_id = ?", filter.OperatorID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("select contacts: %w", err)
	}
	out := make([]*models.Contact, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}
	return out, nil
}

func (s *Store) FindContact(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	out, err := s.selectContacts(ctx, models.ListFilter{}, "?TableAlias.id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, sentinel.ErrNotFound
	}
	return out[0], nil
}

func (s *Store) ListContacts(ctx context.Context, filter models.ListFilter) ([]*models.Contact, error) {
	return s.selectContacts(ctx, filter, "")
}
