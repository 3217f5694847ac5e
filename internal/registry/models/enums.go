package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"droneregistry/internal/registry/normalize"
)

// OperatorType classifies an operator's licence regime.
type OperatorType int

const (
	OperatorTypeNA OperatorType = iota
	OperatorTypeLUC
	OperatorTypeNonLUC
	OperatorTypeAuth
	OperatorTypeDec
)

func (t OperatorType) IsValid() bool {
	return t >= OperatorTypeNA && t <= OperatorTypeDec
}

func (t OperatorType) String() string {
	switch t {
	case OperatorTypeNA:
		return "NA"
	case OperatorTypeLUC:
		return "LUC"
	case OperatorTypeNonLUC:
		return "Non-LUC"
	case OperatorTypeAuth:
		return "AUTH"
	case OperatorTypeDec:
		return "DEC"
	default:
		return "OperatorType(" + strconv.Itoa(int(t)) + ")"
	}
}

// ParseOperatorType accepts the integer form, a numeric string, or a
// case-insensitive alias. Empty input yields NA.
func ParseOperatorType(raw json.RawMessage) (OperatorType, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return OperatorTypeNA, nil
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		t := OperatorType(n)
		if !t.IsValid() {
			return 0, invalidChoice(trimmed)
		}
		return t, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, invalidChoice(trimmed)
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		if t := OperatorType(n); t.IsValid() {
			return t, nil
		}
		return 0, invalidChoice(s)
	}
	if v, ok := normalize.OperatorTypeAlias(s); ok {
		return OperatorType(v), nil
	}
	return 0, invalidChoice(s)
}

// AircraftCategory is the airframe category.
type AircraftCategory int

const (
	CategoryOther AircraftCategory = iota
	CategoryAeroplane
	CategoryRotorcraft
	CategoryHybridLift
	CategoryMicro
	CategorySmall
	CategoryMedium
	CategoryLarge
)

func (c AircraftCategory) IsValid() bool {
	return c >= CategoryOther && c <= CategoryLarge
}

// AircraftSubCategory refines AircraftCategory.
type AircraftSubCategory int

const (
	SubCategoryOther AircraftSubCategory = iota
	SubCategoryAirship
	SubCategoryVTOL
	SubCategoryHelicopter
	SubCategoryMultirotor
	SubCategoryFixedWing
	SubCategoryBalloon
)

func (c AircraftSubCategory) IsValid() bool {
	return c >= SubCategoryOther && c <= SubCategoryBalloon
}

// AircraftStatus is the registration status of an aircraft.
type AircraftStatus int

const (
	AircraftInactive AircraftStatus = iota
	AircraftActive
)

func (s AircraftStatus) IsValid() bool {
	return s == AircraftInactive || s == AircraftActive
}

// RoleType is a contact's role within its operator.
type RoleType int

const (
	RoleOther RoleType = iota
	RoleResponsible
)

func (r RoleType) IsValid() bool {
	return r == RoleOther || r == RoleResponsible
}

// ModuleType is the broadcast capability of a RID module.
type ModuleType string

const (
	ModuleTypeNetwork   ModuleType = "network"
	ModuleTypeBroadcast ModuleType = "broadcast"
	ModuleTypeBoth      ModuleType = "both"
)

func (t ModuleType) IsValid() bool {
	switch t {
	case ModuleTypeNetwork, ModuleTypeBroadcast, ModuleTypeBoth:
		return true
	}
	return false
}

// ActivationStatus tracks the provisioning of a RID module with its network
// service. It is independent of RIDStatus.
type ActivationStatus string

const (
	ActivationPending     ActivationStatus = "pending"
	ActivationActivated   ActivationStatus = "activated"
	ActivationDeactivated ActivationStatus = "deactivated"
)

func (s ActivationStatus) IsValid() bool {
	switch s {
	case ActivationPending, ActivationActivated, ActivationDeactivated:
		return true
	}
	return false
}

func invalidChoice(v string) error {
	return fmt.Errorf("%q is not a valid choice.", v)
}
