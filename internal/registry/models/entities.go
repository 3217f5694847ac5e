package models

import (
	"time"

	"github.com/google/uuid"
)

// Address is a postal address owned by exactly one Operator, Pilot, Contact
// or Manufacturer. It is created and deleted together with its owner.
type Address struct {
	ID           uuid.UUID `json:"id"`
	AddressLine1 string    `json:"address_line_1"`
	AddressLine2 string    `json:"address_line_2"`
	AddressLine3 string    `json:"address_line_3"`
	Postcode     string    `json:"postcode"`
	City         string    `json:"city"`
	Country      string    `json:"country"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Person holds the personal details of a Pilot or Contact. Never shared.
type Person struct {
	ID          uuid.UUID  `json:"id"`
	FirstName   string     `json:"first_name"`
	MiddleName  string     `json:"middle_name"`
	LastName    string     `json:"last_name"`
	Email       string     `json:"email"`
	PhoneNumber string     `json:"phone_number"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Operator is an organisation or individual flying registered aircraft.
type Operator struct {
	ID               uuid.UUID
	CompanyName      string
	Website          string
	Email            string
	PhoneNumber      string
	OperatorType     OperatorType
	VATNumber        string
	InsuranceNumber  string
	CompanyNumber    string
	Country          string
	Address          *Address
	PasswordHash     string
	ActivityIDs      []uuid.UUID
	AuthorizationIDs []uuid.UUID
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Activity is an authorized activity an operator may perform.
type Activity struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	ActivityType int       `json:"activity_type"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Authorization is an operational authorization granted to operators.
type Authorization struct {
	ID                                uuid.UUID `json:"id"`
	Title                             string    `json:"title"`
	OperationMaxHeight                int       `json:"operation_max_height"`
	OperationAltitudeSystem           int       `json:"operation_altitude_system"`
	AirspaceType                      int       `json:"airspace_type"`
	CanCrossUASZones                  bool      `json:"can_cross_uas_zones"`
	CanTravelBeyondVisualLineOfSight  bool      `json:"can_travel_beyond_visual_line_of_sight"`
	RiskType                          int       `json:"risk_type"`
	CreatedAt                         time.Time `json:"created_at"`
	UpdatedAt                         time.Time `json:"updated_at"`
}

// Manufacturer builds aircraft. IsDefault marks the single synthetic record
// substituted when an aircraft is registered without a manufacturer.
type Manufacturer struct {
	ID         uuid.UUID
	FullName   string
	CommonName string
	Acronym    string
	Role       string
	Country    string
	Address    *Address
	IsDefault  bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TypeCertificate is optionally owned by one Aircraft.
type TypeCertificate struct {
	ID                            uuid.UUID `json:"id"`
	TypeCertificateID             string    `json:"type_certificate_id"`
	TypeCertificateIssuingCountry string    `json:"type_certificate_issuing_country"`
	TypeCertificateHolder         string    `json:"type_certificate_holder"`
	TypeCertificateHolderCountry  string    `json:"type_certificate_holder_country"`
	CreatedAt                     time.Time `json:"-"`
	UpdatedAt                     time.Time `json:"-"`
}

// Aircraft always references an Operator and, once created, a Manufacturer.
type Aircraft struct {
	ID                         uuid.UUID
	OperatorID                 uuid.UUID
	ManufacturerID             uuid.UUID
	Mass                       int
	Model                      string
	ESN                        string
	MACINumber                 string
	RegistrationMark           string
	Category                   AircraftCategory
	SubCategory                AircraftSubCategory
	IsAirworthy                bool
	ICAOAircraftTypeDesignator string
	MaxCertifiedTakeoffWeight  float64
	Status                     AircraftStatus
	MasterSeries               string
	Series                     string
	PopularName                string
	TypeCertificate            *TypeCertificate
	CreatedAt                  time.Time
	UpdatedAt                  time.Time
}

// Test is a pilot qualification test.
type Test struct {
	ID        uuid.UUID  `json:"id"`
	TestType  int        `json:"test_type"`
	TakenAt   *time.Time `json:"taken_at,omitempty"`
	Name      string     `json:"name"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Pilot flies for one Operator and owns its Person and Address.
type Pilot struct {
	ID         uuid.UUID
	OperatorID uuid.UUID
	Person     *Person
	Address    *Address
	IsActive   bool
	TestIDs    []uuid.UUID
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Contact is a named point of contact for one Operator.
type Contact struct {
	ID         uuid.UUID
	OperatorID uuid.UUID
	Person     *Person
	Address    *Address
	RoleType   RoleType
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ListFilter narrows list operations by related entity. Zero values match all.
type ListFilter struct {
	OperatorID uuid.UUID
	AircraftID uuid.UUID
}

// Matches reports whether the given foreign keys satisfy the filter.
func (f ListFilter) Matches(operatorID, aircraftID uuid.UUID) bool {
	if f.OperatorID != uuid.Nil && f.OperatorID != operatorID {
		return false
	}
	if f.AircraftID != uuid.Nil && f.AircraftID != aircraftID {
		return false
	}
	return true
}
