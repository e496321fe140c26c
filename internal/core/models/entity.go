package models

// EntityID is the stable identifier an entity keeps for its whole lifetime.
// It is the value persisted by entity references in save data.
type EntityID uint64

// Entity is any live simulation object addressable by a stable uid.
type Entity interface {
	UID() EntityID
}

// EntityResolver resolves persisted entity identifiers back to live entities
// during a load pass. A failed resolution is reported through the bool; what
// that means (hard error or empty reference) is the caller's concern.
type EntityResolver interface {
	ResolveEntity(id EntityID) (Entity, bool)
}
