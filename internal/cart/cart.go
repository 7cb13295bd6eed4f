// Package cart provides Redis-backed shopping carts. Carts are addressed
// by an opaque random token handed to the client, stored as JSON with
// automatic TTL expiry, and drained into an order at checkout.
package cart

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL is how long an untouched cart lives before expiry.
	DefaultTTL = 14 * 24 * time.Hour

	// keyPrefix namespaces cart keys in Redis.
	keyPrefix = "cart:"

	// tokenLength is the byte length of the random cart token.
	tokenLength = 24
)

// Item is one product line in a cart.
type Item struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// Cart is the stored payload: the owning tenant and the item lines.
// The tenant id is recorded so a token cannot be replayed across tenants.
type Cart struct {
	TenantID  uuid.UUID `json:"tenant_id"`
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store manages cart lifecycle in Redis.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a cart store backed by the given Redis client.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client, ttl: DefaultTTL}
}

// Create stores a new empty cart and returns its token.
func (s *Store) Create(ctx context.Context, tenantID uuid.UUID) (string, error) {
	token, err := generateToken()
	if err != nil {
		return "", fmt.Errorf("cart create: %w", err)
	}

	cart := &Cart{TenantID: tenantID, UpdatedAt: time.Now()}
	if err := s.write(ctx, token, cart); err != nil {
		return "", err
	}
	return token, nil
}

// Get retrieves a cart by token, scoped to the tenant. Returns nil if the
// token is unknown, expired, or belongs to another tenant.
func (s *Store) Get(ctx context.Context, tenantID uuid.UUID, token string) (*Cart, error) {
	payload, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cart get: %w", err)
	}

	var cart Cart
	if err := json.Unmarshal(payload, &cart); err != nil {
		return nil, fmt.Errorf("cart unmarshal: %w", err)
	}
	if cart.TenantID != tenantID {
		return nil, nil
	}
	return &cart, nil
}

// SetItem sets the quantity for a product line, removing it at quantity
// zero, and resets the TTL.
func (s *Store) SetItem(ctx context.Context, tenantID uuid.UUID, token string, productID uuid.UUID, quantity int) (*Cart, error) {
	cart, err := s.Get(ctx, tenantID, token)
	if err != nil {
		return nil, err
	}
	if cart == nil {
		return nil, nil
	}

	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	cart.Items = kept
	if quantity > 0 {
		cart.Items = append(cart.Items, Item{ProductID: productID, Quantity: quantity})
	}
	cart.UpdatedAt = time.Now()

	if err := s.write(ctx, token, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

// Delete removes a cart, typically after checkout.
func (s *Store) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("cart delete: %w", err)
	}
	return nil
}

// write marshals and stores the cart, refreshing the TTL.
func (s *Store) write(ctx context.Context, token string, cart *Cart) error {
	payload, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("cart marshal: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+token, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("cart store: %w", err)
	}
	return nil
}

// generateToken returns a cryptographically random hex token.
func generateToken() (string, error) {
	b := make([]byte, tokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
