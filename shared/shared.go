package shared

import (
	"context"
	"math"
	"slotwise/shared/cache"
	"slotwise/shared/constant"
	"slotwise/shared/dto"
	"strings"

	"github.com/rs/zerolog/log"
)

const cacheKeySeparator = ":"

// BuildCacheKey joins a prefix and its parts into a redis key.
func BuildCacheKey(prefix string, parts ...string) string {
	return strings.Join(append([]string{prefix}, parts...), cacheKeySeparator)
}

// InvalidateCaches removes every key under prefix. A nil cache is a no-op.
func InvalidateCaches(ctx context.Context, redisCache cache.RedisCache, prefix string) {
	if redisCache == nil {
		return
	}

	if err := redisCache.Clear(ctx, prefix+constant.Asterix); err != nil {
		log.Error().Err(err).Str("prefix", prefix).Msg("failed to invalidate caches")
	}
}

func CalculateTotalPage(total, limit int) (res int) {
	if total == 0 || limit <= 0 {
		res = 1
	} else {
		res = int(math.Ceil(float64(total) / float64(limit)))
	}

	return res
}

func FilterByID(id, fieldID, table string) dto.FilterGroup {
	return dto.FilterGroup{
		Filters: []any{
			dto.Filter{
				Field:    fieldID,
				Value:    id,
				Operator: dto.FilterOperatorEq,
				Table:    table,
			},
		},
	}
}
