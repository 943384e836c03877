package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	domain "github.com/BruksfildServices01/agenda-pro/internal/domain/appointment"
)

const (
	availabilityKeyPrefix = "availability:"
	availabilityTTL       = 60 * time.Second
)

// AvailabilityCache guarda a disponibilidade calculada de um
// (profissional, dia) por um TTL curto. Toda mutação de agendamento
// invalida a chave; nil é um cache desligado e todas as operações
// viram no-op.
type AvailabilityCache struct {
	client *redis.Client
}

func NewAvailabilityCache(client *redis.Client) *AvailabilityCache {
	if client == nil {
		return nil
	}
	return &AvailabilityCache{client: client}
}

func availabilityKey(professionalID uint, date string) string {
	return fmt.Sprintf("%s%d:%s", availabilityKeyPrefix, professionalID, date)
}

func (c *AvailabilityCache) Get(
	ctx context.Context,
	professionalID uint,
	date string,
) (*domain.Availability, bool) {

	if c == nil || c.client == nil {
		return nil, false
	}

	val, err := c.client.Get(ctx, availabilityKey(professionalID, date)).Result()
	if err != nil {
		return nil, false
	}

	var av domain.Availability
	if err := json.Unmarshal([]byte(val), &av); err != nil {
		return nil, false
	}

	return &av, true
}

func (c *AvailabilityCache) Set(
	ctx context.Context,
	professionalID uint,
	date string,
	av *domain.Availability,
) {

	if c == nil || c.client == nil || av == nil {
		return
	}

	data, err := json.Marshal(av)
	if err != nil {
		return
	}

	c.client.Set(ctx, availabilityKey(professionalID, date), data, availabilityTTL)
}

func (c *AvailabilityCache) Invalidate(
	ctx context.Context,
	professionalID uint,
	date string,
) {

	if c == nil || c.client == nil {
		return
	}

	c.client.Del(ctx, availabilityKey(professionalID, date))
}
