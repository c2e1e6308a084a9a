package postgres

import (
	"strings"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/iho/bankcore/internal/domain"
)

// IdentifierGenerator produces account numbers, entry references and
// event IDs. Candidates are checked for uniqueness by the caller.
type IdentifierGenerator struct{}

// NewIdentifierGenerator creates a new IdentifierGenerator.
func NewIdentifierGenerator() *IdentifierGenerator {
	return &IdentifierGenerator{}
}

// NewAccountNumber returns "ACC" followed by eight upper-case hex digits
// of a random UUID.
func (g *IdentifierGenerator) NewAccountNumber() string {
	return domain.AccountNumberPrefix + strings.ToUpper(uuid.NewString()[:8])
}

// NewReferenceCode returns "TXN" followed by a ULID, so references sort by
// creation time.
func (g *IdentifierGenerator) NewReferenceCode() string {
	return domain.ReferencePrefix + ulid.Make().String()
}

// NewEventID generates a new ULID.
func (g *IdentifierGenerator) NewEventID() string {
	return ulid.Make().String()
}
