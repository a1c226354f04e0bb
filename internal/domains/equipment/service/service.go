package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"strings"

	"toolhub/config"
	"toolhub/infras/otel"
	"toolhub/internal/domains/equipment/model"
	"toolhub/internal/domains/equipment/model/dto"
	"toolhub/internal/domains/equipment/repository"
	"toolhub/shared"
	"toolhub/shared/cache"
	"toolhub/shared/constant"
	"toolhub/shared/failure"
	"toolhub/shared/logger"
	"toolhub/shared/validator"

	"github.com/rs/zerolog/log"
)

const (
	cacheListAvailable = "equipment:available"
	cacheGetEquipment  = "equipment:get"

	collaboratorName = "equipment directory"
)

// Directory is the read-only view over the equipment inventory.
type Directory interface {
	ListAvailable(ctx context.Context, req dto.ListAvailableRequest) (dto.ListAvailableResponse, error)
	Get(ctx context.Context, kind model.Kind, id string) (model.Equipment, error)
	// CheckAvailable returns the item when it exists and can be reserved right now.
	CheckAvailable(ctx context.Context, kind model.Kind, id string) (model.Equipment, error)
}

type serviceImpl struct {
	repo  repository.Equipment
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.Equipment, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Directory {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

// ListAvailable never fails hard on the inventory: a lookup failure yields an empty
// list together with a collaborator failure.
func (s *serviceImpl) ListAvailable(ctx context.Context, req dto.ListAvailableRequest) (res dto.ListAvailableResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListAvailable")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	res.FromModels(nil)

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err //nolint:wrapcheck
	}

	filter := req.ToFilter()
	cacheKey := shared.BuildCacheKey(cacheListAvailable, filter.Kind, strings.ToLower(filter.Search))

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for available equipment")

		return res, nil
	}

	items, err := s.repo.ListAvailable(ctx, filter, s.cfg.Equipment.AvailableStatus)
	if err != nil {
		logger.ErrorWithStack(err)

		res.FromModels(nil)

		return res, failure.Collaborator(collaboratorName) //nolint:wrapcheck
	}

	res.FromModels(items)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save available equipment to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, kind model.Kind, id string) (res model.Equipment, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetEquipment")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !kind.Valid() {
		return res, failure.BadRequestFromString("kind must be one of electric manual") //nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(cacheGetEquipment, kind, id)

	if cacheErr := s.cache.Get(ctx, cacheKey, &res); cacheErr == nil {
		return res, nil
	}

	res, found, err := s.repo.Get(ctx, kind, id)
	if err != nil {
		logger.ErrorWithStack(err)

		return res, failure.Collaborator(collaboratorName) //nolint:wrapcheck
	}

	if !found {
		return res, failure.NotFound("equipment not found") //nolint:wrapcheck
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save equipment to cache")
		}
	}()

	return res, nil
}

// CheckAvailable bypasses the cache since availability must be current at creation time.
func (s *serviceImpl) CheckAvailable(ctx context.Context, kind model.Kind, id string) (res model.Equipment, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".CheckAvailable")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	if !kind.Valid() {
		return res, failure.BadRequestFromString("kind must be one of electric manual") //nolint:wrapcheck
	}

	res, found, err := s.repo.Get(ctx, kind, id)
	if err != nil {
		logger.ErrorWithStack(err)

		return res, failure.Collaborator(collaboratorName) //nolint:wrapcheck
	}

	if !found {
		return res, failure.NotFound("equipment not found") //nolint:wrapcheck
	}

	if !res.IsAvailable(s.cfg.Equipment.AvailableStatus) {
		return res, failure.BadRequestFromString("equipment is not available") //nolint:wrapcheck
	}

	return res, nil
}
