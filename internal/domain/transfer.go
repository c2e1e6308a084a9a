package domain

import (
	"fmt"
)

// ErrSelfTransfer is returned when source and target resolve to the same account.
var ErrSelfTransfer = fmt.Errorf("%w: cannot transfer to the same account", ErrInvalidOperation)

// Transfer pairs the two entries a transfer posts. Source is the debit leg.
type Transfer struct {
	Source *LedgerEntry
	Target *LedgerEntry
}
