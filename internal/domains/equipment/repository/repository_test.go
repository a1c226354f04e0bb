package repository

import (
	"testing"

	"toolhub/internal/domains/equipment/model"

	"github.com/stretchr/testify/assert"
)

func TestAvailableFilter(t *testing.T) {
	group := availableFilter(model.TableManual, model.FieldDescription, model.Filter{Kind: model.KindManual, Search: "Martelo"}, "available")

	where, args := group.GetWhereClause()

	assert.Equal(t,
		"(manual_equipment.status = :status AND manual_equipment.active = :active AND "+
			"(LOWER(manual_equipment.description) LIKE LOWER(:search_name) OR "+
			"LOWER(manual_equipment.code) LIKE LOWER(:search_code) OR "+
			"LOWER(manual_equipment.brand) LIKE LOWER(:search_brand)))",
		where,
	)
	assert.Equal(t, map[string]any{
		"status":       "available",
		"active":       true,
		"search_name":  "%Martelo%",
		"search_code":  "%Martelo%",
		"search_brand": "%Martelo%",
	}, args)
}

func TestAvailableFilter_NoSearch(t *testing.T) {
	group := availableFilter(model.TableElectric, model.FieldName, model.Filter{Kind: model.KindElectric}, "available")

	where, _ := group.GetWhereClause()

	assert.Equal(t, "(electric_equipment.status = :status AND electric_equipment.active = :active)", where)
}
