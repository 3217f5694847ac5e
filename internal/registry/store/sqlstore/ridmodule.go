package sqlstore

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"droneregistry/internal/registry/models"
	"droneregistry/pkg/platform/sentinel"
)

func (s *Store) CreateRIDModule(ctx context.Context, m *models.RIDModule) error {
	return s.insert(ctx, "insert rid module", toRIDModuleRow(m))
}

func (s *Store) findRIDModule(ctx context.Context, where string, arg any) (*models.RIDModule, error) {
	row := new(ridModuleRow)
	if err := s.idb(ctx).NewSelect().Model(row).Where(where, arg).Limit(1).Scan(ctx); err != nil {
		if err = notFound(err); err == sentinel.ErrNotFound {
			return nil, err
		}
		return nil, fmt.Errorf("find rid module: %w", err)
	}
	return row.toModel(), nil
}

func (s *Store) FindRIDModule(ctx context.Context, id uuid.UUID) (*models.RIDModule, error) {
	return s.findRIDModule(ctx, "?TableAlias.id = ?", id)
}

func (s *Store) FindRIDModuleByESN(ctx context.Context, esn string) (*models.RIDModule, error) {
	return s.findRIDModule(ctx, "?TableAlias.module_esn = ?", esn)
}

func (s *Store) FindRIDModuleByRIDID(ctx context.Context, ridID uuid.UUID) (*models.RIDModule, error) {
	return s.findRIDModule(ctx, "?TableAlias.rid_id = ?", ridID)
}

func (s *Store) ListRIDModules(ctx context.Context, filter models.ListFilter) ([]*models.RIDModule, error) {
	var rows []ridModuleRow
	q := s.idb(ctx).NewSelect().Model(&rows).
		OrderExpr("?TableAlias.created_at ASC, ?TableAlias.id ASC")
	if filter.OperatorID != uuid.Nil {
		q = q.Where("?TableAlias.operator_id = ?", filter.OperatorID)
	}
	if filter.AircraftID != uuid.Nil {
		q = q.Where("?TableAlias.aircraft_id = ?", filter.AircraftID)
	}
	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("list rid modules: %w", err)
	}
	out := make([]*models.RIDModule, len(rows))
	for i := range rows {
		out[i] = rows[i].toModel()
	}
	return out, nil
}

// ExecuteRIDModule locks the row for the rest of the transaction, so
// concurrent patches of the same module apply one after the other.
func (s *Store) ExecuteRIDModule(ctx context.Context, id uuid.UUID, validate func(*models.RIDModule) error, mutate func(*models.RIDModule)) (*models.RIDModule, error) {
	var out *models.RIDModule
	err := s.RunInTx(ctx, func(ctx context.Context) error {
		row := new(ridModuleRow)
		q := s.idb(ctx).NewSelect().Model(row).Where("?TableAlias.id = ?", id)
		if s.lockRows {
			q = q.For("UPDATE")
		}
		if err := q.Scan(ctx); err != nil {
			if err = notFound(err); err == sentinel.ErrNotFound {
				return err
			}
			return fmt.Errorf("load rid module: %w", err)
		}
		m := row.toModel()
		if err := validate(m); err != nil {
			return err
		}
		mutate(m)

		updated := toRIDModuleRow(m)
		if _, err := s.idb(ctx).NewUpdate().Model(updated).WherePK().Exec(ctx); err != nil {
			return writeErr("update rid module", err)
		}
		out = m
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
