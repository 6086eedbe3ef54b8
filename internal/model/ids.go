package model

// EntityID is a stable arena handle. Handles are never reused.
type EntityID int32

// NoEntity marks an empty handle.
const NoEntity EntityID = -1

// SurfaceID identifies an area effect zone.
type SurfaceID int32

// PropID is an area-local prop slot. Slots of removed props are reused.
type PropID int32

// NoProp marks an empty prop cell.
const NoProp PropID = -1
