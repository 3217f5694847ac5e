//go:build integration

package sqlstore

import (
	"testing"

	"github.com/stretchr/testify/suite"

	"droneregistry/internal/platform/config"
	"droneregistry/internal/platform/database"
	"droneregistry/pkg/testutil/containers"
)

// The sqlite suite rerun against Postgres through both drivers, so row
// locking and unique-violation mapping run against a real server.
func TestSQLStorePostgresSuite(t *testing.T) {
	pg := containers.GetManager().GetPostgres(t)
	for _, driver := range []string{database.DriverPostgres, database.DriverPGX} {
		t.Run(driver, func(t *testing.T) {
			suite.Run(t, &SQLStoreSuite{dbConfig: config.DatabaseConfig{
				Driver:       driver,
				DSN:          pg.DSN,
				MaxOpenConns: 10,
				MaxIdleConns: 10,
			}})
		})
	}
}
