package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"

	"droneregistry/internal/registry/models"
	"droneregistry/pkg/platform/sentinel"
)

type StoreSuite struct {
	suite.Suite
	store *Store
	ctx   context.Context
	now   time.Time
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.store = New()
	s.ctx = context.Background()
	s.now = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func (s *StoreSuite) newOperator(email string) *models.Operator {
	return &models.Operator{
		ID:          uuid.New(),
		CompanyName: "Skyways",
		Email:       email,
		Address:     &models.Address{ID: uuid.New(), AddressLine1: "1 Main St", City: "Dubai", Country: "AE"},
		CreatedAt:   s.now,
	}
}

func (s *StoreSuite) newModule(operatorID, aircraftID uuid.UUID, esn string) *models.RIDModule {
	m, err := models.NewRIDModule(models.RIDModule{
		ID:         uuid.New(),
		OperatorID: operatorID,
		AircraftID: aircraftID,
		ModuleESN:  esn,
		RIDID:      uuid.New(),
	}, s.now)
	s.Require().NoError(err)
	return m
}

func (s *StoreSuite) TestOperators() {
	s.Run("creates and finds by id and email", func() {
		op := s.newOperator("ops@skyways.example")
		s.Require().NoError(s.store.CreateOperator(s.ctx, op))

		found, err := s.store.FindOperator(s.ctx, op.ID)
		s.Require().NoError(err)
		s.Equal("Skyways", found.CompanyName)
		s.Equal("AE", found.Address.Country)

		byEmail, err := s.store.FindOperatorByEmail(s.ctx, "ops@skyways.example")
		s.Require().NoError(err)
		s.Equal(op.ID, byEmail.ID)
	})

	s.Run("returned copies do not alias stored rows", func() {
		op := s.newOperator("alias@skyways.example")
		s.Require().NoError(s.store.CreateOperator(s.ctx, op))
		op.Address.City = "changed"

		found, err := s.store.FindOperator(s.ctx, op.ID)
		s.Require().NoError(err)
		s.Equal("Dubai", found.Address.City)
	})

	s.Run("rejects duplicate email", func() {
		err := s.store.CreateOperator(s.ctx, s.newOperator("ops@skyways.example"))
		s.ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("unknown id is not found", func() {
		_, err := s.store.FindOperator(s.ctx, uuid.New())
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("delete removes the operator and its address", func() {
		op := s.newOperator("delete@skyways.example")
		s.Require().NoError(s.store.CreateOperator(s.ctx, op))
		s.Require().NoError(s.store.DeleteOperator(s.ctx, op.ID))

		_, err := s.store.FindOperator(s.ctx, op.ID)
		s.ErrorIs(err, sentinel.ErrNotFound)
		_, err = s.store.FindOperatorByEmail(s.ctx, "delete@skyways.example")
		s.ErrorIs(err, sentinel.ErrNotFound)
		s.ErrorIs(s.store.DeleteOperator(s.ctx, op.ID), sentinel.ErrNotFound)
	})
}

func (s *StoreSuite) TestRunInTxRollsBack() {
	boom := errors.New("boom")
	op := s.newOperator("rollback@skyways.example")

	err := s.store.RunInTx(s.ctx, func(ctx context.Context) error {
		s.Require().NoError(s.store.CreateOperator(ctx, op))
		s.Require().NoError(s.store.CreateManufacturer(ctx, models.NewDefaultManufacturer(s.now)))
		return boom
	})
	s.ErrorIs(err, boom)

	_, err = s.store.FindOperator(s.ctx, op.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
	_, err = s.store.FirstManufacturer(s.ctx)
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *StoreSuite) TestReadsWaitForRunningTx() {
	boom := errors.New("boom")
	op := s.newOperator("pending@skyways.example")
	read := make(chan error, 1)

	err := s.store.RunInTx(s.ctx, func(ctx context.Context) error {
		s.Require().NoError(s.store.CreateOperator(ctx, op))
		go func() {
			_, err := s.store.FindOperator(s.ctx, op.ID)
			read <- err
		}()
		select {
		case <-read:
			s.Fail("read returned while the transaction was open")
		case <-time.After(50 * time.Millisecond):
		}
		return boom
	})
	s.ErrorIs(err, boom)

	select {
	case err := <-read:
		s.ErrorIs(err, sentinel.ErrNotFound)
	case <-time.After(time.Second):
		s.Fail("read never completed")
	}
}

func (s *StoreSuite) TestRunInTxNests() {
	err := s.store.RunInTx(s.ctx, func(ctx context.Context) error {
		return s.store.RunInTx(ctx, func(ctx context.Context) error {
			return s.store.CreateOperator(ctx, s.newOperator("nested@skyways.example"))
		})
	})
	s.Require().NoError(err)
	ops, err := s.store.ListOperators(s.ctx)
	s.Require().NoError(err)
	s.Len(ops, 1)
}

func (s *StoreSuite) TestEnsureManufacturer() {
	s.Run("concurrent ensures create one row", func() {
		var wg sync.WaitGroup
		created := make(chan bool, 20)
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_ = s.store.RunInTx(s.ctx, func(ctx context.Context) error {
					_, ok, err := s.store.EnsureManufacturer(ctx, models.NewDefaultManufacturer(s.now))
					created <- ok
					return err
				})
			}()
		}
		wg.Wait()
		close(created)

		count := 0
		for ok := range created {
			if ok {
				count++
			}
		}
		s.Equal(1, count)
		all, err := s.store.ListManufacturers(s.ctx)
		s.Require().NoError(err)
		s.Len(all, 1)
		s.True(all[0].IsDefault)
	})
}

func (s *StoreSuite) TestAircraftESNUnique() {
	a := &models.Aircraft{ID: uuid.New(), OperatorID: uuid.New(), ManufacturerID: uuid.New(), ESN: "ESN-1", CreatedAt: s.now}
	s.Require().NoError(s.store.CreateAircraft(s.ctx, a))

	dup := &models.Aircraft{ID: uuid.New(), OperatorID: a.OperatorID, ManufacturerID: a.ManufacturerID, ESN: "ESN-1"}
	s.ErrorIs(s.store.CreateAircraft(s.ctx, dup), sentinel.ErrAlreadyUsed)

	found, err := s.store.FindAircraftByESN(s.ctx, "ESN-1")
	s.Require().NoError(err)
	s.Equal(a.ID, found.ID)
}

func (s *StoreSuite) TestRIDModules() {
	operatorID, aircraftID := uuid.New(), uuid.New()
	m := s.newModule(operatorID, aircraftID, "MOD-1")
	s.Require().NoError(s.store.CreateRIDModule(s.ctx, m))

	s.Run("lookups", func() {
		byESN, err := s.store.FindRIDModuleByESN(s.ctx, "MOD-1")
		s.Require().NoError(err)
		s.Equal(m.ID, byESN.ID)

		byRID, err := s.store.FindRIDModuleByRIDID(s.ctx, m.RIDID)
		s.Require().NoError(err)
		s.Equal(m.ID, byRID.ID)
	})

	s.Run("unique keys", func() {
		dupESN := s.newModule(operatorID, aircraftID, "MOD-1")
		s.ErrorIs(s.store.CreateRIDModule(s.ctx, dupESN), sentinel.ErrAlreadyUsed)

		dupRID := s.newModule(operatorID, aircraftID, "MOD-2")
		dupRID.RIDID = m.RIDID
		s.ErrorIs(s.store.CreateRIDModule(s.ctx, dupRID), sentinel.ErrAlreadyUsed)
	})

	s.Run("filter", func() {
		other := s.newModule(uuid.New(), uuid.New(), "MOD-3")
		s.Require().NoError(s.store.CreateRIDModule(s.ctx, other))

		byOperator, err := s.store.ListRIDModules(s.ctx, models.ListFilter{OperatorID: operatorID})
		s.Require().NoError(err)
		s.Len(byOperator, 1)

		all, err := s.store.ListRIDModules(s.ctx, models.ListFilter{})
		s.Require().NoError(err)
		s.Len(all, 2)
	})

	s.Run("execute persists mutation", func() {
		later := s.now.Add(time.Hour)
		updated, err := s.store.ExecuteRIDModule(s.ctx, m.ID,
			func(*models.RIDModule) error { return nil },
			func(rm *models.RIDModule) { rm.Decommission(later) },
		)
		s.Require().NoError(err)
		s.Equal(models.RIDStatusDecommissioned, updated.Status)

		found, err := s.store.FindRIDModule(s.ctx, m.ID)
		s.Require().NoError(err)
		s.Require().NotNil(found.DeactivatedAt)
		s.True(found.DeactivatedAt.Equal(later))
	})

	s.Run("execute validation failure leaves row unchanged", func() {
		rejected := errors.New("rejected")
		_, err := s.store.ExecuteRIDModule(s.ctx, m.ID,
			func(*models.RIDModule) error { return rejected },
			func(rm *models.RIDModule) { rm.FirmwareVersion = "x" },
		)
		s.ErrorIs(err, rejected)

		found, err := s.store.FindRIDModule(s.ctx, m.ID)
		s.Require().NoError(err)
		s.Empty(found.FirmwareVersion)
	})

	s.Run("execute unknown module", func() {
		_, err := s.store.ExecuteRIDModule(s.ctx, uuid.New(),
			func(*models.RIDModule) error { return nil },
			func(*models.RIDModule) {},
		)
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}
