package store

import (
	"encoding/binary"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	bolt "go.etcd.io/bbolt"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrEmailTaken reports a signup with an email that already has an
	// account.
	ErrEmailTaken = errors.New("email already registered")

	// ErrNotFound reports a lookup that matched nothing.
	ErrNotFound = errors.New("not found")

	// ErrBadCredentials reports a failed login. It deliberately does
	// not say whether the email or the password was wrong.
	ErrBadCredentials = errors.New("bad credentials")
)

var (
	bucketUsers     = []byte("users")
	bucketEmails    = []byte("emails")
	bucketTransfers = []byte("transfers")
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// User is an account record. PasswordHash is a bcrypt digest; the
// plaintext password is never stored.
type User struct {
	ID           uint64    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash []byte    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

// Transfer is one audit-log entry, written after a transaction has been
// broadcast. It records public outcomes only; no key material.
type Transfer struct {
	ID          uint64    `json:"id"`
	Signature   string    `json:"signature"`
	From        string    `json:"from"`
	Destination string    `json:"destination"`
	Lamports    uint64    `json:"lamports"`
	Memo        string    `json:"memo,omitempty"`
	Time        time.Time `json:"time"`
}

// Store persists user accounts and the transfer audit log in a single
// bbolt file.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open database %s", path)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketUsers, bucketEmails, bucketTransfers} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create buckets")
	}
	return &Store{db: db}, nil
}

// Close releases the database file.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateUser registers a new account. The password is hashed with
// bcrypt at the default cost before anything touches disk.
func (s *Store) CreateUser(email, password string) (*User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.Wrap(err, "hash password")
	}

	user := &User{
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	err = s.db.Update(func(tx *bolt.Tx) error {
		emails := tx.Bucket(bucketEmails)
		if emails.Get([]byte(email)) != nil {
			return ErrEmailTaken
		}

		users := tx.Bucket(bucketUsers)
		id, err := users.NextSequence()
		if err != nil {
			return err
		}
		user.ID = id

		value, err := json.Marshal(user)
		if err != nil {
			return err
		}
		if err := users.Put(itob(id), value); err != nil {
			return err
		}
		return emails.Put([]byte(email), itob(id))
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate checks an email/password pair and returns the account on
// success. Unknown emails and wrong passwords both yield
// [ErrBadCredentials].
func (s *Store) Authenticate(email, password string) (*User, error) {
	user, err := s.UserByEmail(email)
	if errors.Is(err, ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return user, nil
}

// UserByEmail looks up an account by email.
func (s *Store) UserByEmail(email string) (*User, error) {
	var user *User
	err := s.db.View(func(tx *bolt.Tx) error {
		id := tx.Bucket(bucketEmails).Get([]byte(email))
		if id == nil {
			return ErrNotFound
		}
		value := tx.Bucket(bucketUsers).Get(id)
		if value == nil {
			return ErrNotFound
		}
		user = new(User)
		return json.Unmarshal(value, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// UserByID looks up an account by its numeric ID.
func (s *Store) UserByID(id uint64) (*User, error) {
	var user *User
	err := s.db.View(func(tx *bolt.Tx) error {
		value := tx.Bucket(bucketUsers).Get(itob(id))
		if value == nil {
			return ErrNotFound
		}
		user = new(User)
		return json.Unmarshal(value, user)
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// RecordTransfer appends an entry to the audit log and returns it with
// its assigned ID.
func (s *Store) RecordTransfer(entry Transfer) (*Transfer, error) {
	if entry.Time.IsZero() {
		entry.Time = time.Now().UTC()
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		transfers := tx.Bucket(bucketTransfers)
		id, err := transfers.NextSequence()
		if err != nil {
			return err
		}
		entry.ID = id

		value, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		return transfers.Put(itob(id), value)
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Transfers returns up to limit audit entries, newest first. limit <= 0
// returns everything.
func (s *Store) Transfers(limit int) ([]Transfer, error) {
	var out []Transfer
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(bucketTransfers).Cursor()
		for k, v := c.Last(); k != nil; k, v = c.Prev() {
			if limit > 0 && len(out) >= limit {
				break
			}
			var entry Transfer
			if err := json.Unmarshal(v, &entry); err != nil {
				return err
			}
			out = append(out, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// itob is the big-endian bucket key for a sequence number, so keys sort
// in insertion order.
func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
