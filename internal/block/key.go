package block

import (
	"strings"

	"github.com/google/uuid"
)

// keyLen is the length of generated keys. Short keys keep the persisted
// form compact while staying unique within a document.
const keyLen = 12

// NewKey returns a fresh unique key for a block, child, or annotation.
func NewKey() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:keyLen]
}
