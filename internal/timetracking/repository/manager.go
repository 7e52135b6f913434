package repository

import "github.com/hourly-labs/timetrack-backend/internal/dbx"

// RepositoryManager hands out repositories bound to a database handle or an
// open transaction.
type RepositoryManager interface {
	Entries(db dbx.DBTX) EntryRepository
	TagLinks(db dbx.DBTX) TagLinkRepository
	Ownership(db dbx.DBTX) OwnershipRepository
}

type PostgresRepositoryManager struct{}

func NewPostgresRepositoryManager() *PostgresRepositoryManager {
	return &PostgresRepositoryManager{}
}

func (m *PostgresRepositoryManager) Entries(db dbx.DBTX) EntryRepository {
	return NewPostgresEntryRepository(db)
}

func (m *PostgresRepositoryManager) TagLinks(db dbx.DBTX) TagLinkRepository {
	return NewPostgresTagLinkRepository(db)
}

func (m *PostgresRepositoryManager) Ownership(db dbx.DBTX) OwnershipRepository {
	return NewPostgresOwnershipRepository(db)
}
