package lock

import (
	"gorm.io/gorm"
)

// Provider acquires an advisory lock scoped to the given transaction.
// Injectable so the draft guard can be tested without Postgres.
type Provider interface {
	AcquireXact(tx *gorm.DB, key1, key2 string) error
}

func NewInstance() Provider {
	return impl{}
}

type impl struct{}

// AcquireXact takes a Postgres transaction-level advisory lock on the pair
// of string keys. It blocks until the lock is granted and is released
// automatically at commit or rollback, never held across other work.
func (impl) AcquireXact(tx *gorm.DB, key1, key2 string) error {
	return tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?), hashtext(?))", key1, key2).Error
}
