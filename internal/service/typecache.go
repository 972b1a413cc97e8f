// typecache.go — LRU-кэш справочника типов программ с TTL.
// Обёртка над hashicorp/golang-lru/v2/expirable: справочник меняется
// только миграциями, поэтому короткий TTL достаточен для актуальности.
package service

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/arturkryukov/progoffice/submission-module/internal/domain/model"
)

// Prometheus-метрики кэша справочника.
var (
	typeCacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sm_type_cache_hits_total",
		Help: "Общее количество попаданий в кэш типов программ.",
	})
	typeCacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sm_type_cache_misses_total",
		Help: "Общее количество промахов кэша типов программ.",
	})
)

// TypeCache — in-memory LRU-кэш типов программ с автоматическим TTL.
type TypeCache struct {
	cache *expirable.LRU[int, *model.ProgramType]
}

// NewTypeCache создаёт кэш с указанным максимальным размером и TTL.
func NewTypeCache(maxSize int, ttl time.Duration) *TypeCache {
	return &TypeCache{
		cache: expirable.NewLRU[int, *model.ProgramType](maxSize, nil, ttl),
	}
}

// Get возвращает тип программы из кэша по ID.
// Возвращает (тип, true) при hit или (nil, false) при miss.
func (c *TypeCache) Get(id int) (*model.ProgramType, bool) {
	val, ok := c.cache.Get(id)
	if ok {
		typeCacheHitsTotal.Inc()
		return val, true
	}
	typeCacheMissesTotal.Inc()
	return nil, false
}

// Set добавляет или обновляет тип программы в кэше.
func (c *TypeCache) Set(pt *model.ProgramType) {
	c.cache.Add(pt.ID, pt)
}
