package memory

import (
	"banking_ledger/internal/repository"
)

var _ repository.Store = (*Store)(nil)
