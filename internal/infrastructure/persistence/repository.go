package persistence

import (
	"context"
	"errors"

	"github.com/rukibhamz/erpsolution-sub000/internal/domain/shared"
	"github.com/rukibhamz/erpsolution-sub000/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// inTx runs fn in the transaction bound to ctx, or in a fresh one.
func inTx(ctx context.Context, db *gorm.DB, fn func(tx *gorm.DB) error) error {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(tx.WithContext(ctx))
	}
	return db.WithContext(ctx).Transaction(fn)
}

// saveWithLock inserts a new aggregate, or updates it only while the stored
// version is exactly one behind the model (the domain already incremented
// it). omit names associations that must not be rewritten on update.
func saveWithLock(ctx context.Context, db *gorm.DB, model models.Versioned, omit ...string) error {
	return inTx(ctx, db, func(tx *gorm.DB) error {
		id, version := model.Key()
		var current struct{ Version int }
		err := tx.Model(model).Select("version").Where("id = ?", id).Take(&current).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return tx.Create(model).Error
		}
		if err != nil {
			return err
		}

		expectedVersion := version - 1
		if current.Version != expectedVersion {
			return shared.ErrConcurrencyConflict
		}

		query := tx.Model(model).Where("version = ?", expectedVersion).Select("*")
		if len(omit) > 0 {
			query = query.Omit(omit...)
		}
		result := query.Updates(model)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}
		return nil
	})
}

// translate maps gorm's not-found error to the domain sentinel.
func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.ErrNotFound
	}
	return err
}
