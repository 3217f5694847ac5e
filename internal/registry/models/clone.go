package models

import (
	"slices"
	"time"
)

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}

func (a *Address) Clone() *Address {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

func (p *Person) Clone() *Person {
	if p == nil {
		return nil
	}
	c := *p
	c.DateOfBirth = cloneTime(p.DateOfBirth)
	return &c
}

func (o *Operator) Clone() *Operator {
	c := *o
	c.Address = o.Address.Clone()
	c.ActivityIDs = slices.Clone(o.ActivityIDs)
	c.AuthorizationIDs = slices.Clone(o.AuthorizationIDs)
	return &c
}

func (m *Manufacturer) Clone() *Manufacturer {
	c := *m
	c.Address = m.Address.Clone()
	return &c
}

func (a *Aircraft) Clone() *Aircraft {
	c := *a
	if a.TypeCertificate != nil {
		tc := *a.TypeCertificate
		c.TypeCertificate = &tc
	}
	return &c
}

func (p *Pilot) Clone() *Pilot {
	c := *p
	c.Person = p.Person.Clone()
	c.Address = p.Address.Clone()
	c.TestIDs = slices.Clone(p.TestIDs)
	return &c
}

func (c *Contact) Clone() *Contact {
	out := *c
	out.Person = c.Person.Clone()
	out.Address = c.Address.Clone()
	return &out
}

func (m *RIDModule) Clone() *RIDModule {
	c := *m
	c.ActivatedAt = cloneTime(m.ActivatedAt)
	c.LastSeenAt = cloneTime(m.LastSeenAt)
	c.DeactivatedAt = cloneTime(m.DeactivatedAt)
	return &c
}
