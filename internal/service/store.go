package service

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"strings"
	"time"

	"teamops/internal/patch"

	"github.com/go-playground/validator/v10"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type stringList = datatypes.JSONSlice[string]

var (
	ErrNotFound = errors.New("not found")
	ErrInvalid  = errors.New("invalid input")
	ErrConflict = errors.New("conflict")
)

var validate = newValidator()

// newValidator checks the same `binding` tags gin uses and reports fields by
// their JSON name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.SetTagName("binding")
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func validateRecord(v any) error {
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func invalid(err error) error {
	if errors.Is(err, ErrInvalid) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrInvalid, err)
}

// find loads one row by id.
func find[E any](ctx context.Context, db *gorm.DB, id string) (*E, error) {
	var e E
	if err := db.WithContext(ctx).Where("id = ?", id).First(&e).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

// build applies p to a copy of base.
func build[E any](schema *patch.Schema[E], base E, p patch.Patch) (*patch.Result[E], error) {
	res, err := schema.Apply(base, p)
	if err != nil {
		return nil, invalid(err)
	}
	return res, nil
}

func insert[E any](ctx context.Context, db *gorm.DB, e *E) error {
	if err := validateRecord(e); err != nil {
		return err
	}
	return classify(db.WithContext(ctx).Create(e).Error)
}

// deriveFunc fills derived columns once a patch has been applied. It runs
// inside the update transaction.
type deriveFunc[E any] func(tx *gorm.DB, res *patch.Result[E]) error

// update applies p to the stored row in one transaction and returns the new
// row and the field changes to log.
func update[E any](ctx context.Context, db *gorm.DB, schema *patch.Schema[E], id string, p patch.Patch, derive deriveFunc[E]) (*E, []patch.Change, error) {
	var (
		out     *E
		changes []patch.Change
	)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := find[E](ctx, tx, id)
		if err != nil {
			return err
		}
		res, err := build(schema, *cur, p)
		if err != nil {
			return err
		}
		if derive != nil {
			if err := derive(tx, res); err != nil {
				return err
			}
			schema.Settle(res)
		}
		if err := validateRecord(&res.Next); err != nil {
			return err
		}
		if len(res.Columns) > 0 {
			cols := maps.Clone(res.Columns)
			cols["updated_at"] = time.Now()
			if err := tx.Model(new(E)).Where("id = ?", id).Updates(cols).Error; err != nil {
				return classify(err)
			}
		}
		if out, err = find[E](ctx, tx, id); err != nil {
			return err
		}
		changes = res.Changes
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return out, changes, nil
}

// cascadeFunc clears rows that reference the record about to be deleted.
type cascadeFunc func(tx *gorm.DB, id string) error

// remove deletes a row, running cascade first in the same transaction, and
// returns the row as it was.
func remove[E any](ctx context.Context, db *gorm.DB, id string, cascade cascadeFunc) (*E, error) {
	var prior *E
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		cur, err := find[E](ctx, tx, id)
		if err != nil {
			return err
		}
		if cascade != nil {
			if err := cascade(tx, id); err != nil {
				return err
			}
		}
		if err := tx.Where("id = ?", id).Delete(new(E)).Error; err != nil {
			return err
		}
		prior = cur
		return nil
	})
	if err != nil {
		return nil, err
	}
	return prior, nil
}

// wrap adds the operation to err, leaving sentinels reachable.
func wrap(op, entity string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s %s: %w", op, entity, err)
}
