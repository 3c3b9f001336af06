package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pos_backend/internal/models"
)

// Session carts expire a day after the last change.
const cartTTL = 24 * time.Hour

// CartStore persists session carts. Backed by Redis so an interrupted
// cashier session survives an application restart.
type CartStore interface {
	GetCart(ctx context.Context, sessionID string) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, sessionID string) error
}

type redisCartStore struct {
	client *redis.Client
}

// NewCartStore creates a Redis backed CartStore.
func NewCartStore(client *redis.Client) CartStore {
	return &redisCartStore{client: client}
}

func cartKey(sessionID string) string {
	return "cart:" + sessionID
}

// GetCart returns the cart for a session; a missing key yields an empty cart.
func (s *redisCartStore) GetCart(ctx context.Context, sessionID string) (*models.Cart, error) {
	raw, err := s.client.Get(ctx, cartKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return &models.Cart{SessionID: sessionID, Items: []models.CartItem{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: reading cart for session '%s': %v", ErrDatabaseError, sessionID, err)
	}

	cart := &models.Cart{}
	if err := json.Unmarshal(raw, cart); err != nil {
		return nil, fmt.Errorf("%w: decoding cart for session '%s': %v", ErrDatabaseError, sessionID, err)
	}
	cart.SessionID = sessionID
	return cart, nil
}

func (s *redisCartStore) SaveCart(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now()
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("%w: encoding cart for session '%s': %v", ErrDatabaseError, cart.SessionID, err)
	}
	if err := s.client.Set(ctx, cartKey(cart.SessionID), raw, cartTTL).Err(); err != nil {
		return fmt.Errorf("%w: saving cart for session '%s': %v", ErrDatabaseError, cart.SessionID, err)
	}
	return nil
}

func (s *redisCartStore) DeleteCart(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("%w: deleting cart for session '%s': %v", ErrDatabaseError, sessionID, err)
	}
	return nil
}
