package store

import (
	"database/sql"
	"fmt"

	"github.com/hearthhq/hearth/internal/model"
)

type DeviceStore struct {
	db *sql.DB
}

func NewDeviceStore(db *sql.DB) *DeviceStore {
	return &DeviceStore{db: db}
}

// --- Device token methods ---

func scanDeviceToken(scanner interface{ Scan(...any) error }) (*model.DeviceToken, error) {
	var d model.DeviceToken
	err := scanner.Scan(&d.ID, &d.UserID, &d.Token, &d.Platform, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

const deviceTokenCols = `id, user_id, token, platform, created_at, updated_at`

// RegisterToken records a device token for a user. Re-registering an
// existing token reassigns it to the caller and updates the platform.
func (s *DeviceStore) RegisterToken(userID int64, token, platform string) (*model.DeviceToken, error) {
	existing, err := s.GetTokenByValue(token)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		_, err = s.db.Exec(
			`UPDATE device_tokens SET user_id = ?, platform = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`,
			userID, platform, existing.ID,
		)
		if err != nil {
			return nil, fmt.Errorf("update device token: %w", err)
		}
		return s.getTokenByID(existing.ID)
	}

	result, err := s.db.Exec(
		`INSERT INTO device_tokens (user_id, token, platform) VALUES (?, ?, ?)`,
		userID, token, platform,
	)
	if err != nil {
		return nil, fmt.Errorf("insert device token: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.getTokenByID(id)
}

func (s *DeviceStore) getTokenByID(id int64) (*model.DeviceToken, error) {
	row := s.db.QueryRow(`SELECT `+deviceTokenCols+` FROM device_tokens WHERE id = ?`, id)
	d, err := scanDeviceToken(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get device token: %w", err)
	}
	return d, nil
}

func (s *DeviceStore) GetTokenByValue(token string) (*model.DeviceToken, error) {
	row := s.db.QueryRow(`SELECT `+deviceTokenCols+` FROM device_tokens WHERE token = ?`, token)
	d, err := scanDeviceToken(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get device token by value: %w", err)
	}
	return d, nil
}

func (s *DeviceStore) ListTokensByUser(userID int64) ([]model.DeviceToken, error) {
	rows, err := s.db.Query(
		`SELECT `+deviceTokenCols+` FROM device_tokens WHERE user_id = ? ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list device tokens: %w", err)
	}
	defer rows.Close()

	var tokens []model.DeviceToken
	for rows.Next() {
		d, err := scanDeviceToken(rows)
		if err != nil {
			return nil, fmt.Errorf("scan device token: %w", err)
		}
		tokens = append(tokens, *d)
	}
	return tokens, rows.Err()
}

// DeleteToken removes a device token owned by the given user.
func (s *DeviceStore) DeleteToken(id, userID int64) error {
	_, err := s.db.Exec(`DELETE FROM device_tokens WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete device token: %w", err)
	}
	return nil
}

// --- Web push subscription methods ---

func scanSubscription(scanner interface{ Scan(...any) error }) (*model.PushSubscription, error) {
	var sub model.PushSubscription
	err := scanner.Scan(&sub.ID, &sub.UserID, &sub.Endpoint, &sub.P256dhKey, &sub.AuthKey, &sub.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

const subscriptionCols = `id, user_id, endpoint, p256dh_key, auth_key, created_at`

func (s *DeviceStore) CreateSubscription(userID int64, endpoint, p256dh, auth string) (*model.PushSubscription, error) {
	result, err := s.db.Exec(
		`INSERT INTO push_subscriptions (user_id, endpoint, p256dh_key, auth_key) VALUES (?, ?, ?, ?)
		 ON CONFLICT(endpoint) DO UPDATE SET user_id = excluded.user_id, p256dh_key = excluded.p256dh_key, auth_key = excluded.auth_key`,
		userID, endpoint, p256dh, auth,
	)
	if err != nil {
		return nil, fmt.Errorf("insert subscription: %w", err)
	}
	if id, err := result.LastInsertId(); err == nil && id != 0 {
		if sub, err := s.getSubscriptionByID(id); err == nil && sub != nil {
			return sub, nil
		}
	}
	return s.GetSubscriptionByEndpoint(endpoint)
}

func (s *DeviceStore) getSubscriptionByID(id int64) (*model.PushSubscription, error) {
	row := s.db.QueryRow(`SELECT `+subscriptionCols+` FROM push_subscriptions WHERE id = ?`, id)
	sub, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription: %w", err)
	}
	return sub, nil
}

func (s *DeviceStore) GetSubscriptionByEndpoint(endpoint string) (*model.PushSubscription, error) {
	row := s.db.QueryRow(`SELECT `+subscriptionCols+` FROM push_subscriptions WHERE endpoint = ?`, endpoint)
	sub, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get subscription by endpoint: %w", err)
	}
	return sub, nil
}

func (s *DeviceStore) ListSubscriptionsByUser(userID int64) ([]model.PushSubscription, error) {
	rows, err := s.db.Query(
		`SELECT `+subscriptionCols+` FROM push_subscriptions WHERE user_id = ? ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []model.PushSubscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}

// DeleteSubscription removes a push subscription owned by the given user.
func (s *DeviceStore) DeleteSubscription(id, userID int64) error {
	_, err := s.db.Exec(`DELETE FROM push_subscriptions WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	return nil
}
