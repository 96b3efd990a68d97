package cache

import (
	"fmt"

	"github.com/google/uuid"
)

func EventStatusKey(eventID uuid.UUID) string {
	return fmt.Sprintf("event:status:%s", eventID)
}

func RateLimitKey(clientKey string) string {
	return fmt.Sprintf("ratelimit:%s", clientKey)
}
