// Package service holds the business rules that sit between HTTP handlers and repositories.
package service

import (
	"errors"

	"yatube/internal/models"

	"gorm.io/gorm"
)

// notFound converts a missing-row error into a NOT_FOUND AppError and passes others through.
func notFound(err error, resource string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource, id)
	}
	return err
}
