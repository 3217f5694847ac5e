package sqlstore

import (
	"context"
	"fmt"

	"droneregistry/internal/platform/database"
)

// tables in creation order; owned rows come before the rows that point at them.
var tables = []any{
	(*addressRow)(nil),
	(*personRow)(nil),
	(*operatorRow)(nil),
	(*activityRow)(nil),
	(*authorizationRow)(nil),
	(*testRow)(nil),
	(*operatorActivityRow)(nil),
	(*operatorAuthorizationRow)(nil),
	(*manufacturerRow)(nil),
	(*typeCertificateRow)(nil),
	(*aircraftRow)(nil),
	(*pilotRow)(nil),
	(*pilotTestRow)(nil),
	(*contactRow)(nil),
	(*ridModuleRow)(nil),
}

var indexes = []struct {
	name   string
	model  any
	column string
}{
	{"idx_aircraft_operator", (*aircraftRow)(nil), "operator_id"},
	{"idx_pilots_operator", (*pilotRow)(nil), "operator_id"},
	{"idx_contacts_operator", (*contactRow)(nil), "operator_id"},
	{"idx_rid_modules_operator", (*ridModuleRow)(nil), "operator_id"},
	{"idx_rid_modules_aircraft", (*ridModuleRow)(nil), "aircraft_id"},
}

// CreateSchema creates every registry table and index that does not exist.
func (s *Store) CreateSchema(ctx context.Context) error {
	for _, model := range tables {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table %T: %w", model, err)
		}
	}
	for _, idx := range indexes {
		if _, err := s.db.NewCreateIndex().Model(idx.model).Index(idx.name).Column(idx.column).IfNotExists().Exec(ctx); err != nil && !database.IsDuplicateIndex(err) {
			return fmt.Errorf("create index %s: %w", idx.name, err)
		}
	}
	return nil
}

// DropSchema removes every registry table. Used by tests and the migrate --reset flag.
func (s *Store) DropSchema(ctx context.Context) error {
	for i := len(tables) - 1; i >= 0; i-- {
		if _, err := s.db.NewDropTable().Model(tables[i]).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("drop table %T: %w", tables[i], err)
		}
	}
	return nil
}
