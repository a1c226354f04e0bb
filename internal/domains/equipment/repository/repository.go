package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"toolhub/infras/otel"
	"toolhub/infras/postgres"
	"toolhub/internal/domains/equipment/model"
	"toolhub/shared/constant"
	gDto "toolhub/shared/dto"
	gRepo "toolhub/shared/repository"

	"github.com/google/uuid"
)

type Equipment interface {
	ListAvailable(ctx context.Context, filter model.Filter, availableStatus string) ([]model.Equipment, error)
	Get(ctx context.Context, kind model.Kind, id string) (model.Equipment, bool, error)
}

type repositoryImpl struct {
	electric gRepo.Repository[model.Electric]
	manual   gRepo.Repository[model.Manual]
	otel     otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Equipment {
	return &repositoryImpl{
		electric: gRepo.NewRepository[model.Electric](model.EntityName+".electric", model.TableElectric, model.FieldID, db, otel),
		manual:   gRepo.NewRepository[model.Manual](model.EntityName+".manual", model.TableManual, model.FieldID, db, otel),
		otel:     otel,
	}
}

// availableFilter renders status/active plus the optional OR-search over name, code and brand.
func availableFilter(table, nameColumn string, filter model.Filter, availableStatus string) gDto.FilterGroup {
	group := gDto.NewFilterGroup(gDto.FilterGroupOperatorAnd)
	group.Add(
		gDto.Filter{Field: model.FieldStatus, Value: availableStatus, Operator: gDto.FilterOperatorEq, Table: table},
		gDto.Filter{Field: model.FieldActive, Value: true, Operator: gDto.FilterOperatorEq, Table: table},
	)

	if filter.Search == "" {
		return group
	}

	search := gDto.NewFilterGroup(gDto.FilterGroupOperatorOr)
	search.Add(
		gDto.Filter{ArgName: "search_name", Field: nameColumn, Value: filter.Search, Operator: gDto.FilterOperatorLike, Table: table},
		gDto.Filter{ArgName: "search_code", Field: model.FieldCode, Value: filter.Search, Operator: gDto.FilterOperatorLike, Table: table},
		gDto.Filter{ArgName: "search_brand", Field: model.FieldBrand, Value: filter.Search, Operator: gDto.FilterOperatorLike, Table: table},
	)

	group.Add(search)

	return group
}

func byName() gDto.QueryParams {
	return gDto.QueryParams{SortBy: model.FieldName, SortDir: gDto.SortDirAsc}
}

func (r *repositoryImpl) ListAvailable(ctx context.Context, filter model.Filter, availableStatus string) (res []model.Equipment, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".equipment.ListAvailable")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	switch filter.Kind {
	case model.KindElectric:
		rows, err := r.electric.GetAll(ctx, byName(), availableFilter(model.TableElectric, model.FieldName, filter, availableStatus))
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		res = make([]model.Equipment, len(rows))
		for i, row := range rows {
			res[i] = row.ToEquipment()
		}
	case model.KindManual:
		rows, err := r.manual.GetAll(ctx, byName(), availableFilter(model.TableManual, model.FieldDescription, filter, availableStatus))
		if err != nil {
			return nil, err //nolint:wrapcheck
		}

		res = make([]model.Equipment, len(rows))
		for i, row := range rows {
			res[i] = row.ToEquipment()
		}
	default:
		return nil, fmt.Errorf("unknown equipment kind %q", filter.Kind)
	}

	return res, nil
}

func (r *repositoryImpl) Get(ctx context.Context, kind model.Kind, id string) (res model.Equipment, found bool, err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".equipment.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	// Inventory ids are UUIDs; anything else cannot exist and must not reach the uuid column.
	if uuid.Validate(id) != nil {
		return res, false, nil
	}

	filter := gDto.NewFilterGroup(gDto.FilterGroupOperatorAnd)

	switch kind {
	case model.KindElectric:
		filter.Add(gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.TableElectric})

		row, ok, err := r.electric.Get(ctx, filter)
		if err != nil || !ok {
			return res, false, err //nolint:wrapcheck
		}

		return row.ToEquipment(), true, nil
	case model.KindManual:
		filter.Add(gDto.Filter{Field: model.FieldID, Value: id, Operator: gDto.FilterOperatorEq, Table: model.TableManual})

		row, ok, err := r.manual.Get(ctx, filter)
		if err != nil || !ok {
			return res, false, err //nolint:wrapcheck
		}

		return row.ToEquipment(), true, nil
	default:
		return res, false, fmt.Errorf("unknown equipment kind %q", kind)
	}
}
