// Package session tracks the authenticated identity of each browser session.
// Identities are persisted in a bbolt bucket so they survive restarts; there
// is no credential verification behind them, the store only needs a name and
// phone to prefill orders.
package session

import (
	"github.com/asaskevich/EventBus"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/talkincode/souqlink/internal/domain"
	"github.com/talkincode/souqlink/internal/validate"
)

// TopicChanged is published on the application bus with the session id
// whenever an identity is stored or cleared.
const TopicChanged = "session:changed"

// PlaceholderName is attached to identities created through login, where the
// storefront never learns the user's real name.
const PlaceholderName = "المستخدم"

var bucketIdentities = []byte("identities")

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Manager struct {
	db  *bolt.DB
	bus EventBus.Bus
}

func NewManager(db *bolt.DB, bus EventBus.Bus) (*Manager, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketIdentities)
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "session: create bucket")
	}
	return &Manager{db: db, bus: bus}, nil
}

// Login validates the form and stores a placeholder identity for the session.
// On validation failure the returned error is a *validate.FieldError and no
// state changes.
func (m *Manager) Login(sid string, f validate.LoginForm) (*domain.Identity, error) {
	if ferr := validate.CheckLogin(f); ferr != nil {
		return nil, ferr
	}
	id := &domain.Identity{Name: PlaceholderName, Phone: f.Phone}
	if err := m.put(sid, id); err != nil {
		return nil, err
	}
	m.publish(sid)
	return id, nil
}

// Register validates the form and stores the new identity for the session.
func (m *Manager) Register(sid string, f validate.RegisterForm) (*domain.Identity, error) {
	if ferr := validate.CheckRegister(f); ferr != nil {
		return nil, ferr
	}
	id := &domain.Identity{Name: f.Name, Phone: f.Phone}
	if err := m.put(sid, id); err != nil {
		return nil, err
	}
	m.publish(sid)
	return id, nil
}

// Logout clears the persisted identity. Logging out an anonymous session is
// harmless.
func (m *Manager) Logout(sid string) error {
	err := m.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketIdentities).Delete([]byte(sid))
	})
	if err != nil {
		return errors.Wrap(err, "session: delete identity")
	}
	m.publish(sid)
	return nil
}

// Current rehydrates the identity for a session. A missing or malformed
// record yields nil, meaning anonymous.
func (m *Manager) Current(sid string) *domain.Identity {
	var raw []byte
	_ = m.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketIdentities).Get([]byte(sid)); v != nil {
			raw = append(raw, v...)
		}
		return nil
	})
	if raw == nil {
		return nil
	}
	var id domain.Identity
	if err := json.Unmarshal(raw, &id); err != nil || !id.Valid() {
		zap.L().Warn("session: discarding malformed stored identity", zap.String("sid", sid))
		return nil
	}
	return &id
}

func (m *Manager) put(sid string, id *domain.Identity) error {
	data, err := json.Marshal(id)
	if err != nil {
		return errors.Wrap(err, "session: encode identity")
	}
	err = m.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketIdentities).Put([]byte(sid), data)
	})
	return errors.Wrap(err, "session: store identity")
}

func (m *Manager) publish(sid string) {
	if m.bus != nil {
		m.bus.Publish(TopicChanged, sid)
	}
}
