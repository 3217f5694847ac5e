package handler

import (
	"time"

	"github.com/google/uuid"

	"droneregistry/internal/registry/models"
	"droneregistry/internal/registry/service"
)

// OperatorResponse is the public operator view.
type OperatorResponse struct {
	ID          string `json:"id"`
	CompanyName string `json:"company_name"`
	Website     string `json:"website"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
}

func toOperator(op *models.Operator) OperatorResponse {
	return OperatorResponse{
		ID:          op.ID.String(),
		CompanyName: op.CompanyName,
		Website:     op.Website,
		Email:       op.Email,
		PhoneNumber: op.PhoneNumber,
	}
}

// OperatorPrivilegedResponse adds the operator's type, address and grants.
type OperatorPrivilegedResponse struct {
	ID                        string          `json:"id"`
	CompanyName               string          `json:"company_name"`
	Website                   string          `json:"website"`
	Email                     string          `json:"email"`
	OperatorType              int             `json:"operator_type"`
	Address                   *models.Address `json:"address"`
	OperationalAuthorizations []string        `json:"operational_authorizations"`
	AuthorizedActivities      []string        `json:"authorized_activities"`
	CreatedAt                 time.Time       `json:"created_at"`
	UpdatedAt                 time.Time       `json:"updated_at"`
}

func toOperatorPrivileged(v *service.OperatorPrivileged) OperatorPrivilegedResponse {
	op := v.Operator
	return OperatorPrivilegedResponse{
		ID:                        op.ID.String(),
		CompanyName:               op.CompanyName,
		Website:                   op.Website,
		Email:                     op.Email,
		OperatorType:              int(op.OperatorType),
		Address:                   op.Address,
		OperationalAuthorizations: authorizationTitles(v.Authorizations),
		AuthorizedActivities:      activityNames(v.Activities),
		CreatedAt:                 op.CreatedAt,
		UpdatedAt:                 op.UpdatedAt,
	}
}

func activityNames(activities []*models.Activity) []string {
	names := make([]string, 0, len(activities))
	for _, a := range activities {
		names = append(names, a.Name)
	}
	return names
}

func authorizationTitles(authorizations []*models.Authorization) []string {
	titles := make([]string, 0, len(authorizations))
	for _, a := range authorizations {
		titles = append(titles, a.Title)
	}
	return titles
}

// ManufacturerResponse is the public manufacturer view.
type ManufacturerResponse struct {
	ID         string `json:"id"`
	FullName   string `json:"full_name"`
	CommonName string `json:"common_name"`
	Acronym    string `json:"acronym"`
	Role       string `json:"role"`
	Country    string `json:"country"`
}

func toManufacturer(m *models.Manufacturer) ManufacturerResponse {
	return ManufacturerResponse{
		ID:         m.ID.String(),
		FullName:   m.FullName,
		CommonName: m.CommonName,
		Acronym:    m.Acronym,
		Role:       m.Role,
		Country:    m.Country,
	}
}

// AircraftResponse is the public aircraft view. Manufacturer is an ID.
type AircraftResponse struct {
	ID                         string                  `json:"id"`
	Operator                   string                  `json:"operator"`
	Mass                       int                     `json:"mass"`
	Manufacturer               string                  `json:"manufacturer"`
	Model                      string                  `json:"model"`
	ESN                        string                  `json:"esn"`
	MACINumber                 string                  `json:"maci_number"`
	Status                     int                     `json:"status"`
	RegistrationMark           string                  `json:"registration_mark"`
	Category                   int                     `json:"category"`
	SubCategory                int                     `json:"sub_category"`
	IsAirworthy                bool                    `json:"is_airworthy"`
	TypeCertificate            *models.TypeCertificate `json:"type_certificate"`
	MasterSeries               string                  `json:"master_series"`
	Series                     string                  `json:"series"`
	PopularName                string                  `json:"popular_name"`
	ICAOAircraftTypeDesignator string                  `json:"icao_aircraft_type_designator"`
	MaxCertifiedTakeoffWeight  float64                 `json:"max_certified_takeoff_weight"`
	CreatedAt                  time.Time               `json:"created_at"`
	UpdatedAt                  time.Time               `json:"updated_at"`
}

func toAircraft(a *models.Aircraft) AircraftResponse {
	return AircraftResponse{
		ID:                         a.ID.String(),
		Operator:                   a.OperatorID.String(),
		Mass:                       a.Mass,
		Manufacturer:               a.ManufacturerID.String(),
		Model:                      a.Model,
		ESN:                        a.ESN,
		MACINumber:                 a.MACINumber,
		Status:                     int(a.Status),
		RegistrationMark:           a.RegistrationMark,
		Category:                   int(a.Category),
		SubCategory:                int(a.SubCategory),
		IsAirworthy:                a.IsAirworthy,
		TypeCertificate:            a.TypeCertificate,
		MasterSeries:               a.MasterSeries,
		Series:                     a.Series,
		PopularName:                a.PopularName,
		ICAOAircraftTypeDesignator: a.ICAOAircraftTypeDesignator,
		MaxCertifiedTakeoffWeight:  a.MaxCertifiedTakeoffWeight,
		CreatedAt:                  a.CreatedAt,
		UpdatedAt:                  a.UpdatedAt,
	}
}

func toAircraftList(list []*models.Aircraft) []AircraftResponse {
	out := make([]AircraftResponse, 0, len(list))
	for _, a := range list {
		out = append(out, toAircraft(a))
	}
	return out
}

// AircraftESNResponse is the reduced view returned by lookup by ESN.
type AircraftESNResponse struct {
	ID           string    `json:"id"`
	Mass         int       `json:"mass"`
	Manufacturer string    `json:"manufacturer"`
	Model        string    `json:"model"`
	ESN          string    `json:"esn"`
	MACINumber   string    `json:"maci_number"`
	Status       int       `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toAircraftESN(a *models.Aircraft) AircraftESNResponse {
	return AircraftESNResponse{
		ID:           a.ID.String(),
		Mass:         a.Mass,
		Manufacturer: a.ManufacturerID.String(),
		Model:        a.Model,
		ESN:          a.ESN,
		MACINumber:   a.MACINumber,
		Status:       int(a.Status),
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

// PilotResponse is the public pilot view. Tests are listed by ID.
type PilotResponse struct {
	ID        string           `json:"id"`
	Operator  OperatorResponse `json:"operator"`
	IsActive  bool             `json:"is_active"`
	Tests     []string         `json:"tests"`
	Person    *models.Person   `json:"person"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func toPilot(p *models.Pilot, op *models.Operator) PilotResponse {
	tests := make([]string, 0, len(p.TestIDs))
	for _, id := range p.TestIDs {
		tests = append(tests, id.String())
	}
	return PilotResponse{
		ID:        p.ID.String(),
		Operator:  toOperator(op),
		IsActive:  p.IsActive,
		Tests:     tests,
		Person:    p.Person,
		UpdatedAt: p.UpdatedAt,
	}
}

// PilotPrivilegedResponse flattens the pilot's person and names its tests.
type PilotPrivilegedResponse struct {
	ID          string    `json:"id"`
	Operator    string    `json:"operator"`
	FirstName   string    `json:"first_name"`
	IsActive    bool      `json:"is_active"`
	LastName    string    `json:"last_name"`
	Email       string    `json:"email"`
	PhoneNumber string    `json:"phone_number"`
	Tests       []string  `json:"tests"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toPilotPrivileged(v *service.PilotPrivileged) PilotPrivilegedResponse {
	p := v.Pilot
	names := make([]string, 0, len(v.Tests))
	for _, t := range v.Tests {
		names = append(names, t.Name)
	}
	resp := PilotPrivilegedResponse{
		ID:        p.ID.String(),
		Operator:  p.OperatorID.String(),
		IsActive:  p.IsActive,
		Tests:     names,
		UpdatedAt: p.UpdatedAt,
	}
	if p.Person != nil {
		resp.FirstName = p.Person.FirstName
		resp.LastName = p.Person.LastName
		resp.Email = p.Person.Email
		resp.PhoneNumber = p.Person.PhoneNumber
	}
	return resp
}

// ContactResponse is the public contact view.
type ContactResponse struct {
	ID        string           `json:"id"`
	Operator  OperatorResponse `json:"operator"`
	Person    *models.Person   `json:"person"`
	RoleType  int              `json:"role_type"`
	UpdatedAt time.Time        `json:"updated_at"`
}

func toContact(c *models.Contact, op *models.Operator) ContactResponse {
	return ContactResponse{
		ID:        c.ID.String(),
		Operator:  toOperator(op),
		Person:    c.Person,
		RoleType:  int(c.RoleType),
		UpdatedAt: c.UpdatedAt,
	}
}

// ContactPrivilegedResponse exposes the contact's operator: company fields,
// address and grants.
type ContactPrivilegedResponse struct {
	ID                        string          `json:"id"`
	CompanyName               string          `json:"company_name"`
	Operator                  string          `json:"operator"`
	Website                   string          `json:"website"`
	Email                     string          `json:"email"`
	OperatorType              int             `json:"operator_type"`
	PhoneNumber               string          `json:"phone_number"`
	Address                   *models.Address `json:"address"`
	Postcode                  string          `json:"postcode"`
	City                      string          `json:"city"`
	OperationalAuthorizations []string        `json:"operational_authorizations"`
	AuthorizedActivities      []string        `json:"authorized_activities"`
	CreatedAt                 time.Time       `json:"created_at"`
	UpdatedAt                 time.Time       `json:"updated_at"`
}

func toContactPrivileged(v *service.ContactPrivileged) ContactPrivilegedResponse {
	c, op := v.Contact, v.Operator
	resp := ContactPrivilegedResponse{
		ID:                        c.ID.String(),
		CompanyName:               op.CompanyName,
		Operator:                  op.ID.String(),
		Website:                   op.Website,
		Email:                     op.Email,
		OperatorType:              int(op.OperatorType),
		PhoneNumber:               op.PhoneNumber,
		Address:                   op.Address,
		OperationalAuthorizations: authorizationTitles(v.Authorizations),
		AuthorizedActivities:      activityNames(v.Activities),
		CreatedAt:                 c.CreatedAt,
		UpdatedAt:                 c.UpdatedAt,
	}
	if op.Address != nil {
		resp.Postcode = op.Address.Postcode
		resp.City = op.Address.City
	}
	return resp
}

// RIDModuleResponse is the full RID module view.
type RIDModuleResponse struct {
	ID               string     `json:"id"`
	Operator         string     `json:"operator"`
	Aircraft         string     `json:"aircraft"`
	ModuleESN        string     `json:"module_esn"`
	RIDID            string     `json:"rid_id"`
	ModuleType       string     `json:"module_type"`
	Status           string     `json:"status"`
	ActivationStatus string     `json:"activation_status"`
	FirmwareVersion  string     `json:"firmware_version"`
	ActivatedAt      *time.Time `json:"activated_at"`
	LastSeenAt       *time.Time `json:"last_seen_at"`
	DeactivatedAt    *time.Time `json:"deactivated_at"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func toRIDModule(m *models.RIDModule) RIDModuleResponse {
	return RIDModuleResponse{
		ID:               m.ID.String(),
		Operator:         m.OperatorID.String(),
		Aircraft:         m.AircraftID.String(),
		ModuleESN:        m.ModuleESN,
		RIDID:            m.RIDID.String(),
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

func toRIDModules(list []*models.RIDModule) []RIDModuleResponse {
	out := make([]RIDModuleResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toRIDModule(m))
	}
	return out
}

// operatorSet memoizes operator lookups while rendering one response.
type operatorSet map[uuid.UUID]*models.Operator
