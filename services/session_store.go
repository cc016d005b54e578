package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/kendall-kelly/campus-eats-api/models"
	"github.com/redis/go-redis/v9"
)

// FlashKind selects which one-shot message slot of the session is used
type FlashKind string

const (
	FlashError   FlashKind = "error"
	FlashSuccess FlashKind = "success"
	// FlashCart is read by the cart page, which is served outside this service
	FlashCart    FlashKind = "cart_error"
)

// Session hash fields read by the order-creation step
const (
	fieldTransactionID   = "current_transaction_id"
	fieldTransactionDBID = "transaction_db_id"
	fieldOrderDetails    = "order_details"
	fieldPendingToken    = "pending_order_token"
	fieldPendingExpires  = "pending_order_expires_at"
)

var pendingOrderFields = []string{
	fieldTransactionID,
	fieldTransactionDBID,
	fieldOrderDetails,
	fieldPendingToken,
	fieldPendingExpires,
}

var (
	// ErrNoPendingOrder is returned when the session holds no usable pending order
	ErrNoPendingOrder = errors.New("no pending order in session")
	// ErrPendingOrderToken is returned when the presented token does not match the stored one
	ErrPendingOrderToken = errors.New("pending order token mismatch")
)

// SessionStore keeps per-customer session state in a Redis hash keyed by customer id
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	now    func() time.Time
}

var sessionStoreInstance *SessionStore

// NewSessionStore creates a session store; every write refreshes the session TTL
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl, now: time.Now}
}

// InitSessionStore initializes the global session store
func InitSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	sessionStoreInstance = NewSessionStore(client, ttl)
	return sessionStoreInstance
}

// GetSessionStore returns the initialized session store instance
func GetSessionStore() *SessionStore {
	return sessionStoreInstance
}

// SetSessionStore sets the session store instance (primarily for testing)
func SetSessionStore(store *SessionStore) {
	sessionStoreInstance = store
}

func (s *SessionStore) sessionKey(customerID uint) string {
	return "campus-eats:session:" + strconv.FormatUint(uint64(customerID), 10)
}

// SetFlash stores a one-shot message shown on the next page render
func (s *SessionStore) SetFlash(ctx context.Context, customerID uint, kind FlashKind, message string) error {
	key := s.sessionKey(customerID)
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, string(kind), message)
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to set flash: %w", err)
	}
	return nil
}

// PopFlash returns and clears a flash message; an empty string means none was set
func (s *SessionStore) PopFlash(ctx context.Context, customerID uint, kind FlashKind) (string, error) {
	key := s.sessionKey(customerID)

	var get *redis.StringCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		get = pipe.HGet(ctx, key, string(kind))
		pipe.HDel(ctx, key, string(kind))
		return nil
	})
	if err != nil && !errors.Is(err, redis.Nil) {
		return "", fmt.Errorf("failed to read flash: %w", err)
	}
	return get.Val(), nil
}

// SavePendingOrder stores the verified order under the session keys the order-creation step reads
func (s *SessionStore) SavePendingOrder(ctx context.Context, order *models.PendingOrder) error {
	details, err := json.Marshal(order.Details)
	if err != nil {
		return fmt.Errorf("failed to serialize order details: %w", err)
	}

	key := s.sessionKey(order.CustomerID)
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, key, map[string]interface{}{
			fieldTransactionID:   order.TransactionID,
			fieldTransactionDBID: order.TransactionDBID,
			fieldOrderDetails:    string(details),
			fieldPendingToken:    order.Token,
			fieldPendingExpires:  order.ExpiresAt.Unix(),
		})
		pipe.Expire(ctx, key, s.ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save pending order: %w", err)
	}
	return nil
}

// PendingOrder loads the pending order for the customer without consuming it
func (s *SessionStore) PendingOrder(ctx context.Context, customerID uint) (*models.PendingOrder, error) {
	values, err := s.client.HMGet(ctx, s.sessionKey(customerID), pendingOrderFields...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load pending order: %w", err)
	}

	fields := make(map[string]string, len(pendingOrderFields))
	for i, name := range pendingOrderFields {
		str, ok := values[i].(string)
		if !ok {
			return nil, ErrNoPendingOrder
		}
		fields[name] = str
	}

	order := &models.PendingOrder{
		Token:         fields[fieldPendingToken],
		CustomerID:    customerID,
		TransactionID: fields[fieldTransactionID],
	}

	dbID, err := strconv.ParseUint(fields[fieldTransactionDBID], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt %s: %w", fieldTransactionDBID, err)
	}
	order.TransactionDBID = uint(dbID)

	expires, err := strconv.ParseInt(fields[fieldPendingExpires], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("corrupt %s: %w", fieldPendingExpires, err)
	}
	order.ExpiresAt = time.Unix(expires, 0)

	if err := json.Unmarshal([]byte(fields[fieldOrderDetails]), &order.Details); err != nil {
		return nil, fmt.Errorf("corrupt %s: %w", fieldOrderDetails, err)
	}

	if order.Expired(s.now()) {
		_ = s.ClearPendingOrder(ctx, customerID)
		return nil, ErrNoPendingOrder
	}

	return order, nil
}

// ConsumePendingOrder hands the pending order to the order-creation step exactly once.
// The token must match the one issued at verification time.
func (s *SessionStore) ConsumePendingOrder(ctx context.Context, customerID uint, token string) (*models.PendingOrder, error) {
	order, err := s.PendingOrder(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if order.Token != token {
		return nil, ErrPendingOrderToken
	}
	if err := s.ClearPendingOrder(ctx, customerID); err != nil {
		return nil, err
	}
	return order, nil
}

// ClearPendingOrder removes the pending order keys from the session
func (s *SessionStore) ClearPendingOrder(ctx context.Context, customerID uint) error {
	if err := s.client.HDel(ctx, s.sessionKey(customerID), pendingOrderFields...).Err(); err != nil {
		return fmt.Errorf("failed to clear pending order: %w", err)
	}
	return nil
}

// Destroy deletes the whole session
func (s *SessionStore) Destroy(ctx context.Context, customerID uint) error {
	if err := s.client.Del(ctx, s.sessionKey(customerID)).Err(); err != nil {
		return fmt.Errorf("failed to destroy session: %w", err)
	}
	return nil
}
