package sqlstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"droneregistry/internal/registry/models"
)

// UUIDs are stored as their canonical string form so one schema serves
// every dialect.

type addressRow struct {
	bun.BaseModel `bun:"table:addresses,alias:addr"`

	ID           uuid.UUID `bun:"id,pk,type:varchar(36)"`
	AddressLine1 string    `bun:"address_line_1,type:varchar(140),notnull"`
	AddressLine2 string    `bun:"address_line_2,type:varchar(140),notnull"`
	AddressLine3 string    `bun:"address_line_3,type:varchar(140),notnull"`
	Postcode     string    `bun:"postcode,type:varchar(10),notnull"`
	City         string    `bun:"city,type:varchar(140),notnull"`
	Country      string    `bun:"country,type:varchar(3),notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
	UpdatedAt    time.Time `bun:"updated_at,notnull"`
}

func toAddressRow(a *models.Address) *addressRow {
	return &addressRow{
		ID:           a.ID,
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		AddressLine3: a.AddressLine3,
		Postcode:     a.Postcode,
		City:         a.City,
		Country:      a.Country,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (r *addressRow) toModel() *models.Address {
	if r == nil {
		return nil
	}
	return &models.Address{
		ID:           r.ID,
		AddressLine1: r.AddressLine1,
		AddressLine2: r.AddressLine2,
		AddressLine3: r.AddressLine3,
		Postcode:     r.Postcode,
		City:         r.City,
		Country:      r.Country,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

type personRow struct {
	bun.BaseModel `bun:"table:persons,alias:per"`

	ID          uuid.UUID  `bun:"id,pk,type:varchar(36)"`
	FirstName   string     `bun:"first_name,type:varchar(30),notnull"`
	MiddleName  string     `bun:"middle_name,type:varchar(30),notnull"`
	LastName    string     `bun:"last_name,type:varchar(30),notnull"`
	Email       string     `bun:"email,type:varchar(254),notnull"`
	PhoneNumber string     `bun:"phone_number,type:varchar(17),notnull"`
	DateOfBirth *time.Time `bun:"date_of_birth"`
	CreatedAt   time.Time  `bun:"created_at,notnull"`
	UpdatedAt   time.Time  `bun:"updated_at,notnull"`
}

func toPersonRow(p *models.Person) *personRow {
	return &personRow{
		ID:          p.ID,
		FirstName:   p.FirstName,
		MiddleName:  p.MiddleName,
		LastName:    p.LastName,
		Email:       p.Email,
		PhoneNumber: p.PhoneNumber,
		DateOfBirth: p.DateOfBirth,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func (r *personRow) toModel() *models.Person {
	if r == nil {
		return nil
	}
	return &models.Person{
		ID:          r.ID,
		FirstName:   r.FirstName,
		MiddleName:  r.MiddleName,
		LastName:    r.LastName,
		Email:       r.Email,
		PhoneNumber: r.PhoneNumber,
		DateOfBirth: r.DateOfBirth,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type operatorRow struct {
	bun.BaseModel `bun:"table:operators,alias:op"`

	ID              uuid.UUID   `bun:"id,pk,type:varchar(36)"`
	CompanyName     string      `bun:"company_name,type:varchar(280),notnull"`
	Website         string      `bun:"website,type:varchar(200),notnull"`
	Email           string      `bun:"email,type:varchar(254),notnull,unique"`
	PhoneNumber     string      `bun:"phone_number,type:varchar(17),notnull"`
	OperatorType    int         `bun:"operator_type,notnull"`
	VATNumber       string      `bun:"vat_number,type:varchar(25),notnull"`
	InsuranceNumber string      `bun:"insurance_number,type:varchar(25),notnull"`
	CompanyNumber   string      `bun:"company_number,type:varchar(25),notnull"`
	Country         string      `bun:"country,type:varchar(3),notnull"`
	AddressID       uuid.UUID   `bun:"address_id,type:varchar(36),notnull"`
	Address         *addressRow `bun:"rel:belongs-to,join:address_id=id"`
	PasswordHash    string      `bun:"password_hash,type:varchar(100),notnull"`
	CreatedAt       time.Time   `bun:"created_at,notnull"`
	UpdatedAt       time.Time   `bun:"updated_at,notnull"`
}

func toOperatorRow(o *models.Operator) *operatorRow {
	return &operatorRow{
		ID:              o.ID,
		CompanyName:     o.CompanyName,
		Website:         o.Website,
		Email:           o.Email,
		PhoneNumber:     o.PhoneNumber,
		OperatorType:    int(o.OperatorType),
		VATNumber:       o.VATNumber,
		InsuranceNumber: o.InsuranceNumber,
		CompanyNumber:   o.CompanyNumber,
		Country:         o.Country,
		AddressID:       o.Address.ID,
		PasswordHash:    o.PasswordHash,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func (r *operatorRow) toModel() *models.Operator {
	return &models.Operator{
		ID:              r.ID,
		CompanyName:     r.CompanyName,
		Website:         r.Website,
		Email:           r.Email,
		PhoneNumber:     r.PhoneNumber,
		OperatorType:    models.OperatorType(r.OperatorType),
		VATNumber:       r.VATNumber,
		InsuranceNumber: r.InsuranceNumber,
		CompanyNumber:   r.CompanyNumber,
		Country:         r.Country,
		Address:         r.Address.toModel(),
		PasswordHash:    r.PasswordHash,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

type activityRow struct {
	bun.BaseModel `bun:"table:activities,alias:act"`

	ID           uuid.UUID `bun:"id,pk,type:varchar(36)"`
	Name         string    `bun:"name,type:varchar(100),notnull"`
	ActivityType int       `bun:"activity_type,notnull"`
	CreatedAt    time.Time `bun:"created_at,notnull"`
	UpdatedAt    time.Time `bun:"updated_at,notnull"`
}

func (r *activityRow) toModel() *models.Activity {
	return &models.Activity{ID: r.ID, Name: r.Name, ActivityType: r.ActivityType, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

type authorizationRow struct {
	bun.BaseModel `bun:"table:authorizations,alias:auth"`

	ID                               uuid.UUID `bun:"id,pk,type:varchar(36)"`
	Title                            string    `bun:"title,type:varchar(140),notnull"`
	OperationMaxHeight               int       `bun:"operation_max_height,notnull"`
	OperationAltitudeSystem          int       `bun:"operation_altitude_system,notnull"`
	AirspaceType                     int       `bun:"airspace_type,notnull"`
	CanCrossUASZones                 bool      `bun:"can_cross_uas_zones,notnull"`
	CanTravelBeyondVisualLineOfSight bool      `bun:"can_travel_beyond_visual_line_of_sight,notnull"`
	RiskType                         int       `bun:"risk_type,notnull"`
	CreatedAt                        time.Time `bun:"created_at,notnull"`
	UpdatedAt                        time.Time `bun:"updated_at,notnull"`
}

func toAuthorizationRow(a *models.Authorization) *authorizationRow {
	return &authorizationRow{
		ID:                               a.ID,
		Title:                            a.Title,
		OperationMaxHeight:               a.OperationMaxHeight,
		OperationAltitudeSystem:          a.OperationAltitudeSystem,
		AirspaceType:                     a.AirspaceType,
		CanCrossUASZones:                 a.CanCrossUASZones,
		CanTravelBeyondVisualLineOfSight: a.CanTravelBeyondVisualLineOfSight,
		RiskType:                         a.RiskType,
		CreatedAt:                        a.CreatedAt,
		UpdatedAt:                        a.UpdatedAt,
	}
}

func (r *authorizationRow) toModel() *models.Authorization {
	return &models.Authorization{
		ID:                               r.ID,
		Title:                            r.Title,
		OperationMaxHeight:               r.OperationMaxHeight,
		OperationAltitudeSystem:          r.OperationAltitudeSystem,
		AirspaceType:                     r.AirspaceType,
		CanCrossUASZones:                 r.CanCrossUASZones,
		CanTravelBeyondVisualLineOfSight: r.CanTravelBeyondVisualLineOfSight,
		RiskType:                         r.RiskType,
		CreatedAt:                        r.CreatedAt,
		UpdatedAt:                        r.UpdatedAt,
	}
}

type testRow struct {
	bun.BaseModel `bun:"table:tests,alias:tst"`

	ID        uuid.UUID  `bun:"id,pk,type:varchar(36)"`
	TestType  int        `bun:"test_type,notnull"`
	TakenAt   *time.Time `bun:"taken_at"`
	Name      string     `bun:"name,type:varchar(100),notnull"`
	CreatedAt time.Time  `bun:"created_at,notnull"`
	UpdatedAt time.Time  `bun:"updated_at,notnull"`
}

func (r *testRow) toModel() *models.Test {
	return &models.Test{ID: r.ID, TestType: r.TestType, TakenAt: r.TakenAt, Name: r.Name, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
}

// Link tables for the many-to-many references.

type operatorActivityRow struct {
	bun.BaseModel `bun:"table:operator_activities,alias:opact"`

	OperatorID uuid.UUID `bun:"operator_id,pk,type:varchar(36)"`
	ActivityID uuid.UUID `bun:"activity_id,pk,type:varchar(36)"`
}

type operatorAuthorizationRow struct {
	bun.BaseModel `bun:"table:operator_authorizations,alias:opauth"`

	OperatorID      uuid.UUID `bun:"operator_id,pk,type:varchar(36)"`
	AuthorizationID uuid.UUID `bun:"authorization_id,pk,type:varchar(36)"`
}

type pilotTestRow struct {
	bun.BaseModel `bun:"table:pilot_tests,alias:pt"`

	PilotID uuid.UUID `bun:"pilot_id,pk,type:varchar(36)"`
	TestID  uuid.UUID `bun:"test_id,pk,type:varchar(36)"`
}

type manufacturerRow struct {
	bun.BaseModel `bun:"table:manufacturers,alias:mfr"`

	ID         uuid.UUID   `bun:"id,pk,type:varchar(36)"`
	FullName   string      `bun:"full_name,type:varchar(140),notnull"`
	CommonName string      `bun:"common_name,type:varchar(140),notnull"`
	Acronym    string      `bun:"acronym,type:varchar(10),notnull"`
	Role       string      `bun:"role,type:varchar(40),notnull"`
	Country    string      `bun:"country,type:varchar(3),notnull"`
	AddressID  uuid.UUID   `bun:"address_id,type:varchar(36),notnull"`
	Address    *addressRow `bun:"rel:belongs-to,join:address_id=id"`
	IsDefault  bool        `bun:"is_default,notnull"`
	CreatedAt  time.Time   `bun:"created_at,notnull"`
	UpdatedAt  time.Time   `bun:"updated_at,notnull"`
}

func toManufacturerRow(m *models.Manufacturer) *manufacturerRow {
	return &manufacturerRow{
		ID:         m.ID,
		FullName:   m.FullName,
		CommonName: m.CommonName,
		Acronym:    m.Acronym,
		Role:       m.Role,
		Country:    m.Country,
		AddressID:  m.Address.ID,
		IsDefault:  m.IsDefault,
		CreatedAt:  m.CreatedAt,
		UpdatedAt:  m.UpdatedAt,
	}
}

func (r *manufacturerRow) toModel() *models.Manufacturer {
	return &models.Manufacturer{
		ID:         r.ID,
		FullName:   r.FullName,
		CommonName: r.CommonName,
		Acronym:    r.Acronym,
		Role:       r.Role,
		Country:    r.Country,
		Address:    r.Address.toModel(),
		IsDefault:  r.IsDefault,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type typeCertificateRow struct {
	bun.BaseModel `bun:"table:type_certificates,alias:tc"`

	ID                            uuid.UUID `bun:"id,pk,type:varchar(36)"`
	TypeCertificateID             string    `bun:"type_certificate_id,type:varchar(280),notnull"`
	TypeCertificateIssuingCountry string    `bun:"type_certificate_issuing_country,type:varchar(3),notnull"`
	TypeCertificateHolder         string    `bun:"type_certificate_holder,type:varchar(140),notnull"`
	TypeCertificateHolderCountry  string    `bun:"type_certificate_holder_country,type:varchar(3),notnull"`
	CreatedAt                     time.Time `bun:"created_at,notnull"`
	UpdatedAt                     time.Time `bun:"updated_at,notnull"`
}

func (r *typeCertificateRow) toModel() *models.TypeCertificate {
	// A LEFT JOIN with no certificate scans into an all-zero row.
	if r == nil || r.ID == uuid.Nil {
		return nil
	}
	return &models.TypeCertificate{
		ID:                            r.ID,
		TypeCertificateID:             r.TypeCertificateID,
		TypeCertificateIssuingCountry: r.TypeCertificateIssuingCountry,
		TypeCertificateHolder:         r.TypeCertificateHolder,
		TypeCertificateHolderCountry:  r.TypeCertificateHolderCountry,
		CreatedAt:                     r.CreatedAt,
		UpdatedAt:                     r.UpdatedAt,
	}
}

type aircraftRow struct {
	bun.BaseModel `bun:"table:aircraft,alias:ac"`

	ID                         uuid.UUID           `bun:"id,pk,type:varchar(36)"`
	OperatorID                 uuid.UUID           `bun:"operator_id,type:varchar(36),notnull"`
	ManufacturerID             uuid.UUID           `bun:"manufacturer_id,type:varchar(36),notnull"`
	Mass                       int                 `bun:"mass,notnull"`
	Model                      string              `bun:"model,type:varchar(280),notnull"`
	ESN                        string              `bun:"esn,type:varchar(48),notnull,unique"`
	MACINumber                 string              `bun:"maci_number,type:varchar(280),notnull"`
	RegistrationMark           string              `bun:"registration_mark,type:varchar(10),notnull"`
	Category                   int                 `bun:"category,notnull"`
	SubCategory                int                 `bun:"sub_category,notnull"`
	IsAirworthy                bool                `bun:"is_airworthy,notnull"`
	ICAOAircraftTypeDesignator string              `bun:"icao_aircraft_type_designator,type:varchar(4),notnull"`
	MaxCertifiedTakeoffWeight  float64             `bun:"max_certified_takeoff_weight,notnull"`
	Status                     int                 `bun:"status,notnull"`
	MasterSeries               string              `bun:"master_series,type:varchar(280),notnull"`
	Series                     string              `bun:"series,type:varchar(280),notnull"`
	PopularName                string              `bun:"popular_name,type:varchar(280),notnull"`
	TypeCertificateID          uuid.UUID           `bun:"type_certificate_id,type:varchar(36),nullzero"`
	TypeCertificate            *typeCertificateRow `bun:"rel:belongs-to,join:type_certificate_id=id"`
	CreatedAt                  time.Time           `bun:"created_at,notnull"`
	UpdatedAt                  time.Time           `bun:"updated_at,notnull"`
}

func toAircraftRow(a *models.Aircraft) *aircraftRow {
	row := &aircraftRow{
		ID:                         a.ID,
		OperatorID:                 a.OperatorID,
		ManufacturerID:             a.ManufacturerID,
		Mass:                       a.Mass,
		Model:                      a.Model,
		ESN:                        a.ESN,
		MACINumber:                 a.MACINumber,
		RegistrationMark:           a.RegistrationMark,
		Category:                   int(a.Category),
		SubCategory:                int(a.SubCategory),
		IsAirworthy:                a.IsAirworthy,
		ICAOAircraftTypeDesignator: a.ICAOAircraftTypeDesignator,
		MaxCertifiedTakeoffWeight:  a.MaxCertifiedTakeoffWeight,
		Status:                     int(a.Status),
		MasterSeries:               a.MasterSeries,
		Series:                     a.Series,
		PopularName:                a.PopularName,
		CreatedAt:                  a.CreatedAt,
		UpdatedAt:                  a.UpdatedAt,
	}
	if a.TypeCertificate != nil {
		row.TypeCertificateID = a.TypeCertificate.ID
	}
	return row
}

func (r *aircraftRow) toModel() *models.Aircraft {
	return &models.Aircraft{
		ID:                         r.ID,
		OperatorID:                 r.OperatorID,
		ManufacturerID:             r.ManufacturerID,
		Mass:                       r.Mass,
		Model:                      r.Model,
		ESN:                        r.ESN,
		MACINumber:                 r.MACINumber,
		RegistrationMark:           r.RegistrationMark,
		Category:                   models.AircraftCategory(r.Category),
		SubCategory:                models.AircraftSubCategory(r.SubCategory),
		IsAirworthy:                r.IsAirworthy,
		ICAOAircraftTypeDesignator: r.ICAOAircraftTypeDesignator,
		MaxCertifiedTakeoffWeight:  r.MaxCertifiedTakeoffWeight,
		Status:                     models.AircraftStatus(r.Status),
		MasterSeries:               r.MasterSeries,
		Series:                     r.Series,
		PopularName:                r.PopularName,
		TypeCertificate:            r.TypeCertificate.toModel(),
		CreatedAt:                  r.CreatedAt,
		UpdatedAt:                  r.UpdatedAt,
	}
}

type pilotRow struct {
	bun.BaseModel `bun:"table:pilots,alias:pil"`

	ID         uuid.UUID   `bun:"id,pk,type:varchar(36)"`
	OperatorID uuid.UUID   `bun:"operator_id,type:varchar(36),notnull"`
	PersonID   uuid.UUID   `bun:"person_id,type:varchar(36),notnull"`
	Person     *personRow  `bun:"rel:belongs-to,join:person_id=id"`
	AddressID  uuid.UUID   `bun:"address_id,type:varchar(36),notnull"`
	Address    *addressRow `bun:"rel:belongs-to,join:address_id=id"`
	IsActive   bool        `bun:"is_active,notnull"`
	CreatedAt  time.Time   `bun:"created_at,notnull"`
	UpdatedAt  time.Time   `bun:"updated_at,notnull"`
}

func (r *pilotRow) toModel() *models.Pilot {
	return &models.Pilot{
		ID:         r.ID,
		OperatorID: r.OperatorID,
		Person:     r.Person.toModel(),
		Address:    r.Address.toModel(),
		IsActive:   r.IsActive,
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type contactRow struct {
	bun.BaseModel `bun:"table:contacts,alias:con"`

	ID         uuid.UUID   `bun:"id,pk,type:varchar(36)"`
	OperatorID uuid.UUID   `bun:"operator_id,type:varchar(36),notnull"`
	PersonID   uuid.UUID   `bun:"person_id,type:varchar(36),notnull"`
	Person     *personRow  `bun:"rel:belongs-to,join:person_id=id"`
	AddressID  uuid.UUID   `bun:"address_id,type:varchar(36),notnull"`
	Address    *addressRow `bun:"rel:belongs-to,join:address_id=id"`
	RoleType   int         `bun:"role_type,notnull"`
	CreatedAt  time.Time   `bun:"created_at,notnull"`
	UpdatedAt  time.Time   `bun:"updated_at,notnull"`
}

func (r *contactRow) toModel() *models.Contact {
	return &models.Contact{
		ID:         r.ID,
		OperatorID: r.OperatorID,
		Person:     r.Person.toModel(),
		Address:    r.Address.toModel(),
		RoleType:   models.RoleType(r.RoleType),
		CreatedAt:  r.CreatedAt,
		UpdatedAt:  r.UpdatedAt,
	}
}

type ridModuleRow struct {
	bun.BaseModel `bun:"table:rid_modules,alias:rid"`

	ID               uuid.UUID  `bun:"id,pk,type:varchar(36)"`
	OperatorID       uuid.UUID  `bun:"operator_id,type:varchar(36),notnull"`
	AircraftID       uuid.UUID  `bun:"aircraft_id,type:varchar(36),notnull"`
	ModuleESN        string     `bun:"module_esn,type:varchar(48),notnull,unique"`
	RIDID            uuid.UUID  `bun:"rid_id,type:varchar(36),notnull,unique"`
	ModuleType       string     `bun:"module_type,type:varchar(16),notnull"`
	Status           string     `bun:"status,type:varchar(16),notnull"`
	ActivationStatus string     `bun:"activation_status,type:varchar(16),notnull"`
	FirmwareVersion  string     `bun:"firmware_version,type:varchar(50),notnull"`
	ActivatedAt      *time.Time `bun:"activated_at"`
	LastSeenAt       *time.Time `bun:"last_seen_at"`
	DeactivatedAt    *time.Time `bun:"deactivated_at"`
	CreatedAt        time.Time  `bun:"created_at,notnull"`
	UpdatedAt        time.Time  `bun:"updated_at,notnull"`
}

func toRIDModuleRow(m *models.RIDModule) *ridModuleRow {
	return &ridModuleRow{
		ID:               m.ID,
		OperatorID:       m.OperatorID,
		AircraftID:       m.AircraftID,
		ModuleESN:        m.ModuleESN,
		RIDID:            m.RIDID,
		ModuleType:       string(m.ModuleType),
		Status:           string(m.Status),
		ActivationStatus: string(m.ActivationStatus),
		FirmwareVersion:  m.FirmwareVersion,
		ActivatedAt:      m.ActivatedAt,
		LastSeenAt:       m.LastSeenAt,
		DeactivatedAt:    m.DeactivatedAt,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}

func (r *ridModuleRow) toModel() *models.RIDModule {
	return &models.RIDModule{
		ID:               r.ID,
		OperatorID:       r.OperatorID,
		AircraftID:       r.AircraftID,
		ModuleESN:        r.ModuleESN,
		RIDID:            r.RIDID,
		ModuleType:       models.ModuleType(r.ModuleType),
		Status:           models.RIDStatus(r.Status),
		ActivationStatus: models.ActivationStatus(r.ActivationStatus),
		FirmwareVersion:  r.FirmwareVersion,
		ActivatedAt:      r.ActivatedAt,
		LastSeenAt:       r.LastSeenAt,
		DeactivatedAt:    r.DeactivatedAt,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
