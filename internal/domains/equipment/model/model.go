package model

import "strings"

const (
	EntityName = "equipment"

	TableElectric = "electric_equipment"
	TableManual   = "manual_equipment"

	FieldID          = "id"
	FieldCode        = "code"
	FieldName        = "name"
	FieldDescription = "description"
	FieldBrand       = "brand"
	FieldStatus      = "status"
	FieldActive      = "active"
)

type Kind string

const (
	KindElectric Kind = "electric"
	KindManual   Kind = "manual"
)

func (k Kind) Valid() bool {
	return k == KindElectric || k == KindManual
}

func (k Kind) String() string {
	return string(k)
}

// ParseKind accepts the kind case-insensitively.
func ParseKind(value string) (Kind, bool) {
	kind := Kind(strings.ToLower(strings.TrimSpace(value)))

	return kind, kind.Valid()
}

// Equipment is the kind-independent view of an inventory item.
type Equipment struct {
	ID     string
	Kind   Kind
	Code   string
	Name   string
	Brand  string
	Model  string
	Status string
	Active bool
}

// IsAvailable reports whether the item can be reserved.
func (e Equipment) IsAvailable(availableStatus string) bool {
	return e.Active && strings.EqualFold(e.Status, availableStatus)
}

// Filter enumerates the recognised directory filters. Search matches name, code or brand.
type Filter struct {
	Kind   Kind
	Search string
}

type Electric struct {
	ID     string  `db:"id"`
	Code   string  `db:"code"`
	Name   string  `db:"name"`
	Brand  *string `db:"brand"`
	Model  *string `db:"model"`
	Status string  `db:"status"`
	Active bool    `db:"active"`
}

func (e Electric) ToEquipment() Equipment {
	return Equipment{
		ID:     e.ID,
		Kind:   KindElectric,
		Code:   e.Code,
		Name:   e.Name,
		Brand:  deref(e.Brand),
		Model:  deref(e.Model),
		Status: e.Status,
		Active: e.Active,
	}
}

// Manual items have no name column, their description is shown instead.
type Manual struct {
	ID     string  `db:"id"`
	Code   string  `db:"code"`
	Name   string  `column:"description" db:"name"`
	Brand  *string `db:"brand"`
	Model  *string `db:"model"`
	Status string  `db:"status"`
	Active bool    `db:"active"`
}

func (m Manual) ToEquipment() Equipment {
	return Equipment{
		ID:     m.ID,
		Kind:   KindManual,
		Code:   m.Code,
		Name:   m.Name,
		Brand:  deref(m.Brand),
		Model:  deref(m.Model),
		Status: m.Status,
		Active: m.Active,
	}
}

func deref(value *string) string {
	if value == nil {
		return ""
	}

	return *value
}
