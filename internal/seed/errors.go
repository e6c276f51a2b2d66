package seed

import "errors"

var (
	ErrCollectionMissing = errors.New("seed: entry has no collection")
	ErrEntryConflict     = errors.New("seed: entry redefined with different placement")
	ErrUnknownParent     = errors.New("seed: parent entry not found")
	ErrParentCycle       = errors.New("seed: parent references form a cycle")
)
