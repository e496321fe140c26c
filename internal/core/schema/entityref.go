package schema

import (
	"github.com/cockroachdb/errors"

	"github.com/zeusync/savestate/internal/core/models"
	"github.com/zeusync/savestate/internal/core/observability/log"
)

type entityType struct {
	weak bool
}

// EntityRef describes a strong reference to a live entity. It serializes to
// the entity's stable uid; a load fails if the uid no longer resolves.
func EntityRef() Type { return entityType{weak: false} }

// EntityWeakref describes an advisory back-reference with the same wire form
// as EntityRef. A uid that no longer resolves degrades to a nil reference
// instead of failing the load.
func EntityWeakref() Type { return entityType{weak: true} }

func (entityType) Serialize(v any) (any, error) {
	e, ok := v.(models.Entity)
	if !ok || e == nil {
		return nil, errors.Newf("expected live entity, got %T", v)
	}
	return uint64(e.UID()), nil
}

func (entityType) Verify(raw any) error {
	if _, ok := asUint64(raw); !ok {
		return errors.Wrapf(ErrBadShape, "expected entity uid, got %T", raw)
	}
	return nil
}

func (entityType) AllowNil() bool { return false }

func (t entityType) decode(dc *DecodeContext, raw any) (any, error) {
	uid, _ := asUint64(raw)
	if dc == nil || dc.Entities == nil {
		if t.weak {
			return nil, nil
		}
		return nil, errors.Wrapf(ErrUnresolvedEntity, "uid %d: no entity resolver in context", uid)
	}
	e, ok := dc.Entities.ResolveEntity(models.EntityID(uid))
	if !ok {
		if t.weak {
			dc.logger().Debug("weak entity reference did not resolve", log.Uint64("uid", uid))
			return nil, nil
		}
		return nil, errors.Wrapf(ErrUnresolvedEntity, "uid %d", uid)
	}
	return e, nil
}
