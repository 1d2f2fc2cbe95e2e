package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/jhoicas/Bodega-api/internal/application/ledger"
)

var _ ledger.PositionCache = (*PositionCache)(nil)

// PositionCache caché de lectura de posiciones de stock sobre Redis.
// Es estrictamente acelerador de lecturas: el índice en la base sigue siendo
// la fuente; cualquier entrada se invalida al aceptar un movimiento del par.
// Claves: stock:{item_id}:{warehouse_id}.
type PositionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPositionCache construye el caché. ttl <= 0 usa 5 minutos.
func NewPositionCache(client *redis.Client, ttl time.Duration) *PositionCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PositionCache{client: client, ttl: ttl}
}

// NewClient crea el cliente Redis y verifica la conexión.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return client, nil
}

func key(itemID, warehouseID string) string {
	return "stock:" + itemID + ":" + warehouseID
}

// Get devuelve la cantidad cacheada del par, junto con un indicador de hit.
// Cualquier error de red o parseo cuenta como miss: el caché nunca bloquea
// una lectura del índice.
func (c *PositionCache) Get(ctx context.Context, itemID, warehouseID string) (int64, bool) {
	val, err := c.client.Get(ctx, key(itemID, warehouseID)).Result()
	if err != nil {
		return 0, false
	}
	qty, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return qty, true
}

// Set guarda la cantidad del par con TTL. Errores se ignoran (best effort).
func (c *PositionCache) Set(ctx context.Context, itemID, warehouseID string, quantity int64) {
	c.client.Set(ctx, key(itemID, warehouseID), strconv.FormatInt(quantity, 10), c.ttl)
}

// Invalidate elimina la entrada del par tras aceptar un movimiento.
func (c *PositionCache) Invalidate(ctx context.Context, itemID, warehouseID string) {
	c.client.Del(ctx, key(itemID, warehouseID))
}
