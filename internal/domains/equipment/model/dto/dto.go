package dto

import (
	"net/http"
	"strings"

	"toolhub/internal/domains/equipment/model"
)

const (
	QueryParamKind   = "kind"
	QueryParamSearch = "search"
)

type ListAvailableRequest struct {
	Kind   string `json:"kind"   validate:"required,oneof=electric manual"`
	Search string `json:"search" validate:"omitempty,max=100"`
}

func (r *ListAvailableRequest) FromRequest(request *http.Request) {
	query := request.URL.Query()

	r.Kind = strings.ToLower(strings.TrimSpace(query.Get(QueryParamKind)))
	r.Search = query.Get(QueryParamSearch)
}

func (r *ListAvailableRequest) ToFilter() model.Filter {
	return model.Filter{
		Kind:   model.Kind(r.Kind),
		Search: strings.TrimSpace(r.Search),
	}
}

type EquipmentSummary struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Code   string `json:"code"`
	Name   string `json:"name"`
	Brand  string `json:"brand"`
	Model  string `json:"model"`
	Status string `json:"status"`
}

func (e *EquipmentSummary) FromModel(item model.Equipment) {
	e.ID = item.ID
	e.Kind = item.Kind.String()
	e.Code = item.Code
	e.Name = item.Name
	e.Brand = item.Brand
	e.Model = item.Model
	e.Status = item.Status
}

type ListAvailableResponse struct {
	Equipment []EquipmentSummary `json:"equipment"`
	Total     int                `json:"total"`
}

func (r *ListAvailableResponse) FromModels(items []model.Equipment) {
	r.Total = len(items)
	r.Equipment = make([]EquipmentSummary, len(items))

	for i, item := range items {
		r.Equipment[i].FromModel(item)
	}
}
