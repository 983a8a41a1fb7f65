package specification

import (
	"errors"
	"fmt"

	"servicedesk/domain/shared"

	"gorm.io/gorm"
)

// ErrUnsupported 仓储不认识的规约。静默忽略会返回错误的结果集，因此必须报错
var ErrUnsupported = errors.New("unsupported specification")

// Translator converts one concrete domain specification to a WHERE condition
// Composite specifications (And/Or/Not) are handled by Apply
type Translator[T any] func(spec shared.Specification[T]) (query string, args []any, ok bool)

// Apply converts a domain specification to GORM conditions on db
// A nil specification leaves db untouched
func Apply[T any](db *gorm.DB, spec shared.Specification[T], translate Translator[T]) (*gorm.DB, error) {
	if spec == nil {
		return db, nil
	}
	cond, err := condition(db, spec, translate, false)
	if err != nil {
		return nil, err
	}
	return db.Where(cond), nil
}

// condition 构造分组条件；negate 通过德摩根定律下推到具体规约
func condition[T any](db *gorm.DB, spec shared.Specification[T], translate Translator[T], negate bool) (*gorm.DB, error) {
	fresh := db.Session(&gorm.Session{NewDB: true})

	switch s := spec.(type) {
	case shared.AndSpecification[T]:
		left, right, err := pair(db, s.Left, s.Right, translate, negate)
		if err != nil {
			return nil, err
		}
		if negate {
			return fresh.Where(left).Or(right), nil
		}
		return fresh.Where(left).Where(right), nil

	case shared.OrSpecification[T]:
		left, right, err := pair(db, s.Left, s.Right, translate, negate)
		if err != nil {
			return nil, err
		}
		if negate {
			return fresh.Where(left).Where(right), nil
		}
		return fresh.Where(left).Or(right), nil

	case shared.NotSpecification[T]:
		return condition(db, s.Spec, translate, !negate)

	default:
		query, args, ok := translate(spec)
		if !ok {
			return nil, fmt.Errorf("%w: %T", ErrUnsupported, spec)
		}
		if negate {
			return fresh.Not(query, args...), nil
		}
		return fresh.Where(query, args...), nil
	}
}

func pair[T any](db *gorm.DB, left, right shared.Specification[T], translate Translator[T], negate bool) (*gorm.DB, *gorm.DB, error) {
	l, err := condition(db, left, translate, negate)
	if err != nil {
		return nil, nil, err
	}
	r, err := condition(db, right, translate, negate)
	if err != nil {
		return nil, nil, err
	}
	return l, r, nil
}
