package service

import (
	"context"

	"github.com/google/uuid"

	"droneregistry/internal/registry/models"
)

// Stores return sentinel.ErrNotFound for missing rows and
// sentinel.ErrAlreadyUsed when a unique key is taken.

// TxRunner runs fn atomically. Store calls made with the ctx passed to fn
// join the transaction; a returned error rolls everything back.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type OperatorStore interface {
	CreateOperator(ctx context.Context, op *models.Operator) error
	FindOperator(ctx context.Context, id uuid.UUID) (*models.Operator, error)
	FindOperatorByEmail(ctx context.Context, email string) (*models.Operator, error)
	ListOperators(ctx context.Context) ([]*models.Operator, error)
	DeleteOperator(ctx context.Context, id uuid.UUID) error
}

// ReferenceStore holds activities, authorizations and tests.
type ReferenceStore interface {
	CreateActivity(ctx context.Context, a *models.Activity) error
	FindActivities(ctx context.Context, ids []uuid.UUID) ([]*models.Activity, error)
	ListActivities(ctx context.Context) ([]*models.Activity, error)
	CreateAuthorization(ctx context.Context, a *models.Authorization) error
	FindAuthorizations(ctx context.Context, ids []uuid.UUID) ([]*models.Authorization, error)
	ListAuthorizations(ctx context.Context) ([]*models.Authorization, error)
	CreateTest(ctx context.Context, t *models.Test) error
	FindTests(ctx context.Context, ids []uuid.UUID) ([]*models.Test, error)
	ListTests(ctx context.Context) ([]*models.Test, error)
}

type ManufacturerStore interface {
	CreateManufacturer(ctx context.Context, m *models.Manufacturer) error
	FindManufacturer(ctx context.Context, id uuid.UUID) (*models.Manufacturer, error)
	ListManufacturers(ctx context.Context) ([]*models.Manufacturer, error)
	// FirstManufacturer returns the oldest manufacturer or ErrNotFound.
	FirstManufacturer(ctx context.Context) (*models.Manufacturer, error)
	// EnsureManufacturer inserts m unless a manufacturer with its ID exists,
	// then returns the stored row and whether this call created it.
	EnsureManufacturer(ctx context.Context, m *models.Manufacturer) (*models.Manufacturer, bool, error)
}

type AircraftStore interface {
	CreateAircraft(ctx context.Context, a *models.Aircraft) error
	FindAircraft(ctx context.Context, id uuid.UUID) (*models.Aircraft, error)
	FindAircraftByESN(ctx context.Context, esn string) (*models.Aircraft, error)
	ListAircraft(ctx context.Context, filter models.ListFilter) ([]*models.Aircraft, error)
}

type PersonnelStore interface {
	CreatePilot(ctx context.Context, p *models.Pilot) error
	FindPilot(ctx context.Context, id uuid.UUID) (*models.Pilot, error)
	ListPilots(ctx context.Context, filter models.ListFilter) ([]*models.Pilot, error)
	CreateContact(ctx context.Context, c *models.Contact) error
	FindContact(ctx context.Context, id uuid.UUID) (*models.Contact, error)
	ListContacts(ctx context.Context, filter models.ListFilter) ([]*models.Contact, error)
}

type RIDModuleStore interface {
	CreateRIDModule(ctx context.Context, m *models.RIDModule) error
	FindRIDModule(ctx context.Context, id uuid.UUID) (*models.RIDModule, error)
	FindRIDModuleByESN(ctx context.Context, esn string) (*models.RIDModule, error)
	FindRIDModuleByRIDID(ctx context.Context, ridID uuid.UUID) (*models.RIDModule, error)
	ListRIDModules(ctx context.Context, filter models.ListFilter) ([]*models.RIDModule, error)
	// ExecuteRIDModule loads the module under a row lock, runs validate, and
	// persists it after mutate when validate passes.
	ExecuteRIDModule(ctx context.Context, id uuid.UUID, validate func(*models.RIDModule) error, mutate func(*models.RIDModule)) (*models.RIDModule, error)
}

// Store is everything the registry service persists through.
type Store interface {
	TxRunner
	OperatorStore
	ReferenceStore
	ManufacturerStore
	AircraftStore
	PersonnelStore
	RIDModuleStore
}
