package models

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"droneregistry/internal/registry/normalize"
	dErrors "droneregistry/pkg/domain-errors"
	pstrings "droneregistry/pkg/platform/strings"
)

// Field messages shared across request types.
const (
	MsgRequired    = "This field is required."
	MsgInvalidUUID = "Must be a valid UUID."
	MsgNilUUID     = "Must not be the nil UUID."
	MsgInvalidDate = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."
	MsgEmail       = "Enter a valid email address."
)

const dateLayout = "2006-01-02"

func required(fe dErrors.FieldErrors, field, value string) {
	if strings.TrimSpace(value) == "" {
		fe.Add(field, MsgRequired)
	}
}

func maxLen(fe dErrors.FieldErrors, field, value string, limit int) {
	if n := utf8.RuneCountInString(value); n > limit {
		fe.Add(field, fmt.Sprintf("Ensure this field has no more than %d characters (received %d).", limit, n))
	}
}

func checkUUID(fe dErrors.FieldErrors, field, value string, mandatory bool) {
	if strings.TrimSpace(value) == "" {
		if mandatory {
			fe.Add(field, MsgRequired)
		}
		return
	}
	if _, err := uuid.Parse(strings.TrimSpace(value)); err != nil {
		fe.Add(field, MsgInvalidUUID)
	}
}

func checkUUIDs(fe dErrors.FieldErrors, field string, values []string) {
	for _, v := range values {
		if _, err := uuid.Parse(v); err != nil {
			fe.Add(field, fmt.Sprintf("%q is not a valid UUID.", v))
		}
	}
}

func checkEmail(fe dErrors.FieldErrors, field, value string, mandatory bool) {
	if value == "" {
		if mandatory {
			fe.Add(field, MsgRequired)
		}
		return
	}
	if _, err := mail.ParseAddress(value); err != nil || !strings.Contains(value, "@") {
		fe.Add(field, MsgEmail)
	}
}

func checkPhone(fe dErrors.FieldErrors, field, value string) {
	if value == "" {
		return
	}
	if _, ok := normalize.Phone(value); !ok {
		fe.Add(field, normalize.PhoneFormatMessage)
	}
}

func checkCountry(fe dErrors.FieldErrors, field, value string) {
	if len(value) != 2 || strings.ToUpper(value) != value {
		fe.Add(field, fmt.Sprintf("%q is not a valid choice.", value))
	}
}

// ParseID parses a UUID that has already passed validation. Blank or
// malformed input yields uuid.Nil.
func ParseID(s string) uuid.UUID {
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil
	}
	return id
}

// ParseIDs parses a validated list of UUIDs, dropping duplicates.
func ParseIDs(values []string) []uuid.UUID {
	values = pstrings.DedupeAndTrimLower(values)
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		if id := ParseID(v); id != uuid.Nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// -----------------------------------------------------------------------------
// Address / Person
// -----------------------------------------------------------------------------

// AddressInput is the nested address payload. line_1 is accepted as an alias
// of address_line_1.
type AddressInput struct {
	AddressLine1 string `json:"address_line_1"`
	Line1        string `json:"line_1,omitempty"`
	AddressLine2 string `json:"address_line_2"`
	AddressLine3 string `json:"address_line_3"`
	Postcode     string `json:"postcode"`
	City         string `json:"city"`
	Country      string `json:"country"`
}

func (a *AddressInput) Normalize() {
	if strings.TrimSpace(a.AddressLine1) == "" {
		a.AddressLine1 = a.Line1
	}
	a.Line1 = ""
	a.AddressLine1 = strings.TrimSpace(a.AddressLine1)
	a.AddressLine2 = normalize.OrDefault(a.AddressLine2, normalize.BlankAddressLine)
	a.AddressLine3 = normalize.OrDefault(a.AddressLine3, normalize.BlankAddressLine)
	a.Postcode = normalize.OrDefault(a.Postcode, normalize.BlankPostcode)
	a.City = strings.TrimSpace(a.City)
	a.Country = normalize.Country(a.Country)
}

func (a *AddressInput) Check() dErrors.FieldErrors {
	fe := dErrors.FieldErrors{}
	required(fe, "address_line_1", a.AddressLine1)
	maxLen(fe, "address_line_1", a.AddressLine1, 140)
	maxLen(fe, "address_line_2", a.AddressLine2, 140)
	maxLen(fe, "address_line_3", a.AddressLine3, 140)
	maxLen(fe, "postcode", a.Postcode, 10)
	required(fe, "city", a.City)
	maxLen(fe, "city", a.City, 140)
	if a.Country == "" {
		fe.Add("country", MsgRequired)
	} else {
		checkCountry(fe, "country", a.Country)
	}
	return fe
}

// Build returns the Address a validated input describes.
func (a *AddressInput) Build(now time.Time) *Address {
	return &Address{
		ID:           uuid.New(),
		AddressLine1: a.AddressLine1,
		AddressLine2: a.AddressLine2,
		AddressLine3: a.AddressLine3,
		Postcode:     a.Postcode,
		City:         a.City,
		Country:      a.Country,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// PersonInput is the nested person payload of pilots and contacts.
type PersonInput struct {
	FirstName   string `json:"first_name"`
	MiddleName  string `json:"middle_name"`
	LastName    string `json:"last_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	DateOfBirth string `json:"date_of_birth"`
}

func (p *PersonInput) Normalize() {
	p.FirstName = strings.TrimSpace(p.FirstName)
	p.MiddleName = strings.TrimSpace(p.MiddleName)
	p.LastName = strings.TrimSpace(p.LastName)
	p.Email = normalize.Email(p.Email)
	p.PhoneNumber, _ = normalize.Phone(p.PhoneNumber)
	p.DateOfBirth = strings.TrimSpace(p.DateOfBirth)
}

func (p *PersonInput) Check() dErrors.FieldErrors {
	fe := dErrors.FieldErrors{}
	required(fe, "first_name", p.FirstName)
	maxLen(fe, "first_name", p.FirstName, 30)
	maxLen(fe, "middle_name", p.MiddleName, 30)
	required(fe, "last_name", p.LastName)
	maxLen(fe, "last_name", p.LastName, 30)
	checkEmail(fe, "email", p.Email, true)
	checkPhone(fe, "phone_number", p.PhoneNumber)
	if p.DateOfBirth != "" {
		if _, err := time.Parse(dateLayout, p.DateOfBirth); err != nil {
			fe.Add("date_of_birth", MsgInvalidDate)
		}
	}
	return fe
}

func (p *PersonInput) Build(now time.Time) *Person {
	person := &Person{
		ID:          uuid.New(),
		FirstName:   p.FirstName,
		MiddleName:  p.MiddleName,
		LastName:    p.LastName,
		Email:       p.Email,
		PhoneNumber: p.PhoneNumber,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if dob, err := time.Parse(dateLayout, p.DateOfBirth); err == nil {
		person.DateOfBirth = &dob
	}
	return person
}

func checkAddress(fe dErrors.FieldErrors, a *AddressInput) {
	if a == nil {
		fe.Add("address", MsgRequired)
		return
	}
	fe.Merge("address", a.Check())
}

func checkPerson(fe dErrors.FieldErrors, p *PersonInput) {
	if p == nil {
		fe.Add("person", MsgRequired)
		return
	}
	fe.Merge("person", p.Check())
}

// -----------------------------------------------------------------------------
// Operator
// -----------------------------------------------------------------------------

// CreateOperatorRequest registers an operator together with its address.
type CreateOperatorRequest struct {
	CompanyName               string          `json:"company_name"`
	Website                   string          `json:"website"`
	Email                     string          `json:"email"`
	PhoneNumber               string          `json:"phone_number"`
	OperatorType              json.RawMessage `json:"operator_type,omitempty"`
	VATNumber                 string          `json:"vat_number"`
	InsuranceNumber           string          `json:"insurance_number"`
	CompanyNumber             string          `json:"company_number"`
	Country                   string          `json:"country"`
	Address                   *AddressInput   `json:"address"`
	Password                  string          `json:"password,omitempty"`
	AuthorizedActivities      []string        `json:"authorized_activities,omitempty"`
	OperationalAuthorizations []string        `json:"operational_authorizations,omitempty"`
}

// Normalize canonicalizes the payload in place. operator_type aliases are
// rewritten to their integer form; unparseable values are left for Check.
func (r *CreateOperatorRequest) Normalize() {
	r.CompanyName = strings.TrimSpace(r.CompanyName)
	r.Website = normalize.Website(r.Website)
	r.Email = normalize.Email(r.Email)
	r.PhoneNumber, _ = normalize.Phone(r.PhoneNumber)
	r.Country = normalize.Country(r.Country)
	if t, err := ParseOperatorType(r.OperatorType); err == nil && len(r.OperatorType) > 0 {
		r.OperatorType = json.RawMessage(strconv.Itoa(int(t)))
	}
	if r.Address != nil {
		r.Address.Normalize()
		if r.Country == "" {
			r.Country = r.Address.Country
		}
	}
	r.AuthorizedActivities = pstrings.DedupeAndTrimLower(r.AuthorizedActivities)
	r.OperationalAuthorizations = pstrings.DedupeAndTrimLower(r.OperationalAuthorizations)
}

func (r *CreateOperatorRequest) Check() dErrors.FieldErrors {
	fe := dErrors.FieldErrors{}
	required(fe, "company_name", r.CompanyName)
	maxLen(fe, "company_name", r.CompanyName, 280)
	maxLen(fe, "website", r.Website, 200)
	checkEmail(fe, "email", r.Email, true)
	checkPhone(fe, "phone_number", r.PhoneNumber)
	if _, err := ParseOperatorType(r.OperatorType); err != nil {
		fe.Add("operator_type", err.Error())
	}
	maxLen(fe, "vat_number", r.VATNumber, 25)
	maxLen(fe, "insurance_number", r.InsuranceNumber, 25)
	maxLen(fe, "company_number", r.CompanyNumber, 25)
	if r.Country != "" {
		checkCountry(fe, "country", r.Country)
	}
	checkAddress(fe, r.Address)
	checkUUIDs(fe, "authorized_activities", r.AuthorizedActivities)
	checkUUIDs(fe, "operational_authorizations", r.OperationalAuthorizations)
	if r.Password != "" && len(r.Password) < 8 {
		fe.Add("password", "Ensure this field has at least 8 characters.")
	}
	return fe
}

func (r *CreateOperatorRequest) Validate() error {
	return r.Check().Err()
}

// Build returns the operator a validated request describes. The password is
// hashed by the caller.
func (r *CreateOperatorRequest) Build(now time.Time) *Operator {
	opType, _ := ParseOperatorType(r.OperatorType)
	return &Operator{
		ID:               uuid.New(),
		CompanyName:      r.CompanyName,
		Website:          r.Website,
		Email:            r.Email,
		PhoneNumber:      r.PhoneNumber,
		OperatorType:     opType,
		VATNumber:        r.VATNumber,
		InsuranceNumber:  r.InsuranceNumber,
		CompanyNumber:    r.CompanyNumber,
		Country:          r.Country,
		Address:          r.Address.Build(now),
		ActivityIDs:      ParseIDs(r.AuthorizedActivities),
		AuthorizationIDs: ParseIDs(r.OperationalAuthorizations),
		CreatedAt:        now,
		UpdatedAt:        now,
	}
}

// LoginRequest authenticates an operator by email and password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = normalize.Email(r.Email)
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeBadRequest, "Email and password are required.")
	}
	return nil
}

// -----------------------------------------------------------------------------
// Activities, authorizations, tests
// -----------------------------------------------------------------------------

type CreateActivityRequest struct {
	Name         string `json:"name"`
	ActivityType int    `json:"activity_type"`
}

func (r *CreateActivityRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r *CreateActivityRequest) Validate() error {
	fe := dErrors.FieldErrors{}
	required(fe, "name", r.Name)
	maxLen(fe, "name", r.Name, 100)
	return fe.Err()
}

func (r *CreateActivityRequest) Build(now time.Time) *Activity {
	return &Activity{ID: uuid.New(), Name: r.Name, ActivityType: r.ActivityType, CreatedAt: now, UpdatedAt: now}
}

type CreateAuthorizationRequest struct {
	Title                            string `json:"title"`
	OperationMaxHeight               int    `json:"operation_max_height"`
	OperationAltitudeSystem          int    `json:"operation_altitude_system"`
	AirspaceType                     int    `json:"airspace_type"`
	CanCrossUASZones                 bool   `json:"can_cross_uas_zones"`
	CanTravelBeyondVisualLineOfSight bool   `json:"can_travel_beyond_visual_line_of_sight"`
	RiskType                         int    `json:"risk_type"`
}

func (r *CreateAuthorizationRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
}

func (r *CreateAuthorizationRequest) Validate() error {
	fe := dErrors.FieldErrors{}
	required(fe, "title", r.Title)
	maxLen(fe, "title", r.Title, 140)
	if r.OperationMaxHeight < 0 {
		fe.Add("operation_max_height", "Ensure this value is greater than or equal to 0.")
	}
	return fe.Err()
}

func (r *CreateAuthorizationRequest) Build(now time.Time) *Authorization {
	return &Authorization{
		ID:                               uuid.New(),
		Title:                            r.Title,
		OperationMaxHeight:               r.OperationMaxHeight,
		OperationAltitudeSystem:          r.OperationAltitudeSystem,
		AirspaceType:                     r.AirspaceType,
		CanCrossUASZones:                 r.CanCrossUASZones,
		CanTravelBeyondVisualLineOfSight: r.CanTravelBeyondVisualLineOfSight,
		RiskType:                         r.RiskType,
		CreatedAt:                        now,
		UpdatedAt:                        now,
	}
}

type CreateTestRequest struct {
	TestType int    `json:"test_type"`
	TakenAt  string `json:"taken_at"`
	Name     string `json:"name"`
}

func (r *CreateTestRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.TakenAt = strings.TrimSpace(r.TakenAt)
}

func (r *CreateTestRequest) Validate() error {
	fe := dErrors.FieldErrors{}
	required(fe, "name", r.Name)
	maxLen(fe, "name", r.Name, 100)
	if r.TakenAt != "" {
		if _, err := time.Parse(dateLayout, r.TakenAt); err != nil {
			fe.Add("taken_at", MsgInvalidDate)
		}
	}
	return fe.Err()
}

func (r *CreateTestRequest) Build(now time.Time) *Test {
	t := &Test{ID: uuid.New(), TestType: r.TestType, Name: r.Name, CreatedAt: now, UpdatedAt: now}
	if taken, err := time.Parse(dateLayout, r.TakenAt); err == nil {
		t.TakenAt = &taken
	}
	return t
}

// -----------------------------------------------------------------------------
// Manufacturer
// -----------------------------------------------------------------------------

type CreateManufacturerRequest struct {
	FullName   string        `json:"full_name"`
	CommonName string        `json:"common_name"`
	Acronym    string        `json:"acronym"`
	Role       string        `json:"role"`
	Country    string        `json:"country"`
	Address    *AddressInput `json:"address"`
}

func (r *CreateManufacturerRequest) Normalize() {
	r.FullName = strings.TrimSpace(r.FullName)
	r.CommonName = strings.TrimSpace(r.CommonName)
	r.Acronym = strings.ToUpper(strings.TrimSpace(r.Acronym))
	r.Role = strings.TrimSpace(r.Role)
	r.Country = normalize.Country(r.Country)
	if r.Address != nil {
		r.Address.Normalize()
		if r.Country == "" {
			r.Country = r.Address.Country
		}
	}
}

func (r *CreateManufacturerRequest) Validate() error {
	fe := dErrors.FieldErrors{}
	required(fe, "full_name", r.FullName)
	maxLen(fe, "full_name", r.FullName, 140)
	maxLen(fe, "common_name", r.CommonName, 140)
	maxLen(fe, "acronym", r.Acronym, 10)
	maxLen(fe, "role", r.Role, 40)
	if r.Country != "" {
		checkCountry(fe, "country", r.Country)
	}
	checkAddress(fe, r.Address)
	return fe.Err()
}

func (r *CreateManufacturerRequest) Build(now time.Time) *Manufacturer {
	return &Manufacturer{
		ID:         uuid.New(),
		FullName:   r.FullName,
		CommonName: r.CommonName,
		Acronym:    r.Acronym,
		Role:       r.Role,
		Country:    r.Country,
		Address:    r.Address.Build(now),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Well-known identifiers of the synthetic default manufacturer. Fixed IDs let
// concurrent registrations converge on one row through insert-if-absent.
var (
	DefaultManufacturerID        = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:droneregistry:manufacturer:default"))
	DefaultManufacturerAddressID = uuid.NewSHA1(uuid.NameSpaceURL, []byte("urn:droneregistry:manufacturer:default:address"))
)

// NewDefaultManufacturer builds the synthetic manufacturer substituted when an
// aircraft is registered without one and none exists yet.
func NewDefaultManufacturer(now time.Time) *Manufacturer {
	return &Manufacturer{
		ID:         DefaultManufacturerID,
		FullName:   "Default Manufacturer",
		CommonName: "Default",
		Acronym:    "DEF",
		Role:       "Manufacturer",
		Country:    "US",
		IsDefault:  true,
		Address: &Address{
			ID:           DefaultManufacturerAddressID,
			AddressLine1: "Default Address",
			AddressLine2: normalize.BlankAddressLine,
			AddressLine3: normalize.BlankAddressLine,
			Postcode:     "00000",
			City:         "Default City",
			Country:      "US",
			CreatedAt:    now,
			UpdatedAt:    now,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// -----------------------------------------------------------------------------
// Aircraft
// -----------------------------------------------------------------------------

// TypeCertificateInput is the optional nested certificate of an aircraft.
type TypeCertificateInput struct {
	TypeCertificateID             string `json:"type_certificate_id"`
	TypeCertificateIssuingCountry string `json:"type_certificate_issuing_country"`
	TypeCertificateHolder         string `json:"type_certificate_holder"`
	TypeCertificateHolderCountry  string `json:"type_certificate_holder_country"`
}

// DefaultICAODesignator is stored when no ICAO type designator is supplied.
const DefaultICAODesignator = "0000"

type CreateAircraftRequest struct {
	Operator                   string                `json:"operator"`
	Manufacturer               string                `json:"manufacturer"`
	Mass                       int                   `json:"mass"`
	Model                      string                `json:"model"`
	ESN                        string                `json:"esn"`
	MACINumber                 string                `json:"maci_number"`
	RegistrationMark           string                `json:"registration_mark"`
	Category                   int                   `json:"category"`
	SubCategory                int                   `json:"sub_category"`
	IsAirworthy                bool                  `json:"is_airworthy"`
	ICAOAircraftTypeDesignator string                `json:"icao_aircraft_type_designator"`
	MaxCertifiedTakeoffWeight  float64               `json:"max_certified_takeoff_weight"`
	Status                     int                   `json:"status"`
	MasterSeries               string                `json:"master_series"`
	Series                     string                `json:"series"`
	PopularName                string                `json:"popular_name"`
	TypeCertificate            *TypeCertificateInput `json:"type_certificate,omitempty"`
}

func (r *CreateAircraftRequest) Normalize() {
	r.Operator = strings.TrimSpace(r.Operator)
	r.Manufacturer = strings.TrimSpace(r.Manufacturer)
	r.Model = strings.TrimSpace(r.Model)
	r.ESN = normalize.ESN(r.ESN)
	r.RegistrationMark = strings.TrimSpace(r.RegistrationMark)
	r.ICAOAircraftTypeDesignator = normalize.OrDefault(r.ICAOAircraftTypeDesignator, DefaultICAODesignator)
	if tc := r.TypeCertificate; tc != nil {
		tc.TypeCertificateID = strings.TrimSpace(tc.TypeCertificateID)
		tc.TypeCertificateIssuingCountry = normalize.Country(tc.TypeCertificateIssuingCountry)
		tc.TypeCertificateHolderCountry = normalize.Country(tc.TypeCertificateHolderCountry)
	}
}

func (r *CreateAircraftRequest) Check() dErrors.FieldErrors {
	fe := dErrors.FieldErrors{}
	checkUUID(fe, "operator", r.Operator, true)
	checkUUID(fe, "manufacturer", r.Manufacturer, false)
	required(fe, "model", r.Model)
	maxLen(fe, "model", r.Model, 280)
	required(fe, "esn", r.ESN)
	maxLen(fe, "esn", r.ESN, 48)
	maxLen(fe, "maci_number", r.MACINumber, 280)
	maxLen(fe, "registration_mark", r.RegistrationMark, 10)
	maxLen(fe, "icao_aircraft_type_designator", r.ICAOAircraftTypeDesignator, 4)
	maxLen(fe, "master_series", r.MasterSeries, 280)
	maxLen(fe, "series", r.Series, 280)
	maxLen(fe, "popular_name", r.PopularName, 280)
	if r.Mass < 0 {
		fe.Add("mass", "Ensure this value is greater than or equal to 0.")
	}
	if r.MaxCertifiedTakeoffWeight < 0 {
		fe.Add("max_certified_takeoff_weight", "Ensure this value is greater than or equal to 0.")
	}
	if !AircraftCategory(r.Category).IsValid() {
		fe.Add("category", fmt.Sprintf("\"%d\" is not a valid choice.", r.Category))
	}
	if !AircraftSubCategory(r.SubCategory).IsValid() {
		fe.Add("sub_category", fmt.Sprintf("\"%d\" is not a valid choice.", r.SubCategory))
	}
	if !AircraftStatus(r.Status).IsValid() {
		fe.Add("status", fmt.Sprintf("\"%d\" is not a valid choice.", r.Status))
	}
	if tc := r.TypeCertificate; tc != nil {
		tcErrs := dErrors.FieldErrors{}
		required(tcErrs, "type_certificate_id", tc.TypeCertificateID)
		maxLen(tcErrs, "type_certificate_id", tc.TypeCertificateID, 280)
		maxLen(tcErrs, "type_certificate_holder", tc.TypeCertificateHolder, 140)
		fe.Merge("type_certificate", tcErrs)
	}
	return fe
}

func (r *CreateAircraftRequest) Validate() error {
	return r.Check().Err()
}

// Build returns the aircraft a validated request describes, referencing
// manufacturerID.
func (r *CreateAircraftRequest) Build(manufacturerID uuid.UUID, now time.Time) (*Aircraft, error) {
	if manufacturerID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "aircraft must reference a manufacturer")
	}
	a := &Aircraft{
		ID:                         uuid.New(),
		OperatorID:                 ParseID(r.Operator),
		ManufacturerID:             manufacturerID,
		Mass:                       r.Mass,
		Model:                      r.Model,
		ESN:                        r.ESN,
		MACINumber:                 r.MACINumber,
		RegistrationMark:           r.RegistrationMark,
		Category:                   AircraftCategory(r.Category),
		SubCategory:                AircraftSubCategory(r.SubCategory),
		IsAirworthy:                r.IsAirworthy,
		ICAOAircraftTypeDesignator: r.ICAOAircraftTypeDesignator,
		MaxCertifiedTakeoffWeight:  r.MaxCertifiedTakeoffWeight,
		Status:                     AircraftStatus(r.Status),
		MasterSeries:               r.MasterSeries,
		Series:                     r.Series,
		PopularName:                r.PopularName,
		CreatedAt:                  now,
		UpdatedAt:                  now,
	}
	if tc := r.TypeCertificate; tc != nil {
		a.TypeCertificate = &TypeCertificate{
			ID:                            uuid.New(),
			TypeCertificateID:             tc.TypeCertificateID,
			TypeCertificateIssuingCountry: tc.TypeCertificateIssuingCountry,
			TypeCertificateHolder:         tc.TypeCertificateHolder,
			TypeCertificateHolderCountry:  tc.TypeCertificateHolderCountry,
			CreatedAt:                     now,
			UpdatedAt:                     now,
		}
	}
	return a, nil
}

// -----------------------------------------------------------------------------
// Pilot / Contact
// -----------------------------------------------------------------------------

type CreatePilotRequest struct {
	Operator string        `json:"operator"`
	IsActive *bool         `json:"is_active"`
	Person   *PersonInput  `json:"person"`
	Address  *AddressInput `json:"address"`
	Tests    []string      `json:"tests,omitempty"`
}

func (r *CreatePilotRequest) Normalize() {
	r.Operator = strings.TrimSpace(r.Operator)
	if r.Person != nil {
		r.Person.Normalize()
	}
	if r.Address != nil {
		r.Address.Normalize()
	}
	r.Tests = pstrings.DedupeAndTrimLower(r.Tests)
}

func (r *CreatePilotRequest) Check() dErrors.FieldErrors {
	fe := dErrors.FieldErrors{}
	checkUUID(fe, "operator", r.Operator, true)
	checkPerson(fe, r.Person)
	checkAddress(fe, r.Address)
	checkUUIDs(fe, "tests", r.Tests)
	return fe
}

func (r *CreatePilotRequest) Validate() error {
	return r.Check().Err()
}

// Build returns the pilot a validated request describes. Pilots are active
// unless the payload says otherwise.
func (r *CreatePilotRequest) Build(now time.Time) *Pilot {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return &Pilot{
		ID:         uuid.New(),
		OperatorID: ParseID(r.Operator),
		Person:     r.Person.Build(now),
		Address:    r.Address.Build(now),
		IsActive:   active,
		TestIDs:    ParseIDs(r.Tests),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

type CreateContactRequest struct {
	Operator string        `json:"operator"`
	RoleType int           `json:"role_type"`
	Person   *PersonInput  `json:"person"`
	Address  *AddressInput `json:"address"`
}

func (r *CreateContactRequest) Normalize() {
	r.Operator = strings.TrimSpace(r.Operator)
	if r.Person != nil {
		r.Person.Normalize()
	}
	if r.Address != nil {
		r.Address.Normalize()
	}
}

func (r *CreateContactRequest) Check() dErrors.FieldErrors {
	fe := dErrors.FieldErrors{}
	checkUUID(fe, "operator", r.Operator, true)
	if !RoleType(r.RoleType).IsValid() {
		fe.Add("role_type", fmt.Sprintf("\"%d\" is not a valid choice.", r.RoleType))
	}
	checkPerson(fe, r.Person)
	checkAddress(fe, r.Address)
	return fe
}

func (r *CreateContactRequest) Validate() error {
	return r.Check().Err()
}

func (r *CreateContactRequest) Build(now time.Time) *Contact {
	return &Contact{
		ID:         uuid.New(),
		OperatorID: ParseID(r.Operator),
		Person:     r.Person.Build(now),
		Address:    r.Address.Build(now),
		RoleType:   RoleType(r.RoleType),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// -----------------------------------------------------------------------------
// RID module
// -----------------------------------------------------------------------------

type CreateRIDModuleRequest struct {
	Operator         string     `json:"operator"`
	Aircraft         string     `json:"aircraft"`
	ModuleESN        string     `json:"module_esn"`
	RIDID            string     `json:"rid_id,omitempty"`
	ModuleType       string     `json:"module_type,omitempty"`
	Status           string     `json:"status,omitempty"`
	ActivationStatus string     `json:"activation_status,omitempty"`
	FirmwareVersion  string     `json:"firmware_version,omitempty"`
	ActivatedAt      *time.Time `json:"activated_at,omitempty"`
	LastSeenAt       *time.Time `json:"last_seen_at,omitempty"`
}

func (r *CreateRIDModuleRequest) Normalize() {
	r.Operator = strings.TrimSpace(r.Operator)
	r.Aircraft = strings.TrimSpace(r.Aircraft)
	r.ModuleESN = normalize.ESN(r.ModuleESN)
	r.RIDID = strings.ToLower(strings.TrimSpace(r.RIDID))
	r.ModuleType = strings.ToLower(strings.TrimSpace(r.ModuleType))
	r.Status = strings.ToLower(strings.TrimSpace(r.Status))
	r.ActivationStatus = strings.ToLower(strings.TrimSpace(r.ActivationStatus))
	r.FirmwareVersion = strings.TrimSpace(r.FirmwareVersion)
}

func (r *CreateRIDModuleRequest) Check() dErrors.FieldErrors {
	fe := dErrors.FieldErrors{}
	checkUUID(fe, "operator", r.Operator, true)
	checkUUID(fe, "aircraft", r.Aircraft, true)
	if r.ModuleESN == "" {
		fe.Add("module_esn", "Module ESN cannot be empty.")
	}
	maxLen(fe, "module_esn", r.ModuleESN, 48)
	checkUUID(fe, "rid_id", r.RIDID, false)
	checkNotNilUUID(fe, "rid_id", r.RIDID)
	checkRIDEnums(fe, r.ModuleType, r.Status, r.ActivationStatus)
	maxLen(fe, "firmware_version", r.FirmwareVersion, 50)
	return fe
}

func (r *CreateRIDModuleRequest) Validate() error {
	return r.Check().Err()
}

func checkRIDEnums(fe dErrors.FieldErrors, moduleType, status, activation string) {
	if moduleType != "" && !ModuleType(moduleType).IsValid() {
		fe.Add("module_type", fmt.Sprintf("%q is not a valid choice.", moduleType))
	}
	if status != "" && !RIDStatus(status).IsValid() {
		fe.Add("status", fmt.Sprintf("%q is not a valid choice.", status))
	}
	if activation != "" && !ActivationStatus(activation).IsValid() {
		fe.Add("activation_status", fmt.Sprintf("%q is not a valid choice.", activation))
	}
}

// Build returns the module a validated request describes. An omitted rid_id
// is generated here; an explicit nil one was rejected by Check.
func (r *CreateRIDModuleRequest) Build(now time.Time) (*RIDModule, error) {
	ridID := ParseID(r.RIDID)
	if ridID == uuid.Nil {
		ridID = uuid.New()
	}
	return NewRIDModule(RIDModule{
		ID:               uuid.New(),
		OperatorID:       ParseID(r.Operator),
		AircraftID:       ParseID(r.Aircraft),
		ModuleESN:        r.ModuleESN,
		RIDID:            ridID,
		ModuleType:       ModuleType(r.ModuleType),
		Status:           RIDStatus(r.Status),
		ActivationStatus: ActivationStatus(r.ActivationStatus),
		FirmwareVersion:  r.FirmwareVersion,
		ActivatedAt:      r.ActivatedAt,
		LastSeenAt:       r.LastSeenAt,
	}, now)
}

// UpdateRIDModuleRequest is a partial update. rid_id is rejected here; it
// changes only through ChangeRIDIDRequest.
type UpdateRIDModuleRequest struct {
	ModuleESN        *string         `json:"module_esn,omitempty"`
	ModuleType       *string         `json:"module_type,omitempty"`
	Status           *string         `json:"status,omitempty"`
	ActivationStatus *string         `json:"activation_status,omitempty"`
	FirmwareVersion  *string         `json:"firmware_version,omitempty"`
	LastSeenAt       *time.Time      `json:"last_seen_at,omitempty"`
	RIDID            json.RawMessage `json:"rid_id,omitempty"`
}

func trimLowerPtr(p *string) {
	if p != nil {
		*p = strings.ToLower(strings.TrimSpace(*p))
	}
}

func (r *UpdateRIDModuleRequest) Normalize() {
	if r.ModuleESN != nil {
		*r.ModuleESN = normalize.ESN(*r.ModuleESN)
	}
	trimLowerPtr(r.ModuleType)
	trimLowerPtr(r.Status)
	trimLowerPtr(r.ActivationStatus)
	if r.FirmwareVersion != nil {
		*r.FirmwareVersion = strings.TrimSpace(*r.FirmwareVersion)
	}
}

func (r *UpdateRIDModuleRequest) Validate() error {
	fe := dErrors.FieldErrors{}
	if len(r.RIDID) > 0 {
		fe.Add("rid_id", "rid_id can only be changed through the dedicated rid-id endpoint.")
	}
	if r.ModuleESN != nil {
		if *r.ModuleESN == "" {
			fe.Add("module_esn", "Module ESN cannot be empty.")
		}
		maxLen(fe, "module_esn", *r.ModuleESN, 48)
	}
	deref := func(p *string) string {
		if p == nil {
			return ""
		}
		return *p
	}
	for field, p := range map[string]*string{
		"module_type":       r.ModuleType,
		"status":            r.Status,
		"activation_status": r.ActivationStatus,
	} {
		if p != nil && *p == "" {
			fe.Add(field, MsgRequired)
		}
	}
	checkRIDEnums(fe, deref(r.ModuleType), deref(r.Status), deref(r.ActivationStatus))
	if r.FirmwareVersion != nil {
		maxLen(fe, "firmware_version", *r.FirmwareVersion, 50)
	}
	return fe.Err()
}

// ChangeRIDIDRequest is the body of the dedicated rid_id update path.
type ChangeRIDIDRequest struct {
	RIDID string `json:"rid_id"`
}

func (r *ChangeRIDIDRequest) Normalize() {
	r.RIDID = strings.ToLower(strings.TrimSpace(r.RIDID))
}

func (r *ChangeRIDIDRequest) Validate() error {
	fe := dErrors.FieldErrors{}
	checkUUID(fe, "rid_id", r.RIDID, true)
	checkNotNilUUID(fe, "rid_id", r.RIDID)
	return fe.Err()
}

// checkNotNilUUID rejects the all-zero UUID, which stands for "unset".
func checkNotNilUUID(fe dErrors.FieldErrors, field, value string) {
	if id, err := uuid.Parse(strings.TrimSpace(value)); err == nil && id == uuid.Nil {
		fe.Add(field, MsgNilUUID)
	}
}
