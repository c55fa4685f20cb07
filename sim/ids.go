package sim

import (
	"fmt"

	"github.com/google/uuid"
)

// eventNamespace scopes every generated event ID.
var eventNamespace = uuid.MustParse("6f3a1c52-8d0e-4b7a-9c61-2f4e5d8a9b10")

// EventID returns a name-based (SHA-1) UUID, so identical runs produce identical IDs.
func EventID(fundID, kind string, index int) uuid.UUID {
	return uuid.NewSHA1(eventNamespace, []byte(fmt.Sprintf("%s/%s/%d", fundID, kind, index)))
}
