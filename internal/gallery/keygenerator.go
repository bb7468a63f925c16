package gallery

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

const maxIDAttempts = 8

// generateID returns a time-ordered UUID (v7) not present in existing.
func generateID(existing []Creation) (string, error) {
	for range maxIDAttempts {
		id, err := uuid.NewV7()
		if err != nil {
			return "", err
		}
		candidate := id.String()
		if !lo.ContainsBy(existing, func(c Creation) bool { return c.ID == candidate }) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no unique id after %d attempts", maxIDAttempts)
}
