package utils

import (
	"fmt"

	"github.com/google/uuid"
)

// GenerateID returns a prefixed UUID, e.g. "match_4f7c...".
func GenerateID(prefix string) string {
	return fmt.Sprintf("%s_%s", prefix, uuid.NewString())
}
