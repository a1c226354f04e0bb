package shared

import (
	"context"
	"fmt"
	"math"
	"strings"

	"toolhub/shared/cache"
	"toolhub/shared/constant"
	"toolhub/shared/dto"

	"github.com/rs/zerolog/log"
)

func CalculateTotalPage(total, limit int) int {
	if total == 0 || limit <= 0 {
		return 1
	}

	return int(math.Ceil(float64(total) / float64(limit)))
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	group := dto.NewFilterGroup(dto.FilterGroupOperatorAnd)
	group.Add(dto.Filter{
		Field:    fieldID,
		Value:    id,
		Operator: dto.FilterOperatorEq,
		Table:    table,
	})

	return group
}

// BuildCacheKey joins the prefix and the parts with ':'. Any part may be a struct,
// which is rendered with %+v so that distinct query params give distinct keys.
func BuildCacheKey(prefix string, parts ...any) string {
	segments := make([]string, 0, len(parts)+1)
	segments = append(segments, prefix)

	for _, part := range parts {
		segments = append(segments, fmt.Sprintf("%+v", part))
	}

	return strings.Join(segments, ":")
}

// InvalidateCaches drops every key under each prefix. Errors are only logged.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefixes ...string) {
	for _, prefix := range prefixes {
		if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
			log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate cache")
		}
	}
}
