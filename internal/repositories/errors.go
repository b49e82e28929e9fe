package repositories

import (
	"errors"

	"github.com/lib/pq"
)

// IsUniqueViolation — нарушение уникального ключа (23505) мапится в Conflict.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return false
}
