package storage_test

import (
	"github.com/slok/migrator/internal/storage"
	"github.com/slok/migrator/internal/storage/memory"
	"github.com/slok/migrator/internal/storage/sqlite"
	"github.com/slok/migrator/internal/storage/storagemock"
)

var (
	_ storage.Repository = &memory.Repository{}
	_ storage.Repository = &sqlite.Repository{}
	_ storage.Repository = &storagemock.MockRepository{}
)
