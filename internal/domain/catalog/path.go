package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PathSeparator joins slugs in a materialized path
const PathSeparator = "/"

// PathInfo is the materialized-path triple stored on every category
type PathInfo struct {
	Path    string
	PathIDs []uuid.UUID
	Level   int
}

// ParentRef identifies a prospective parent together with its path fields
type ParentRef struct {
	ID uuid.UUID
	PathInfo
}

// CalculatePath computes the path fields of a category with the given slug
// placed under parent. A nil parent places the category at the root.
func CalculatePath(parent *ParentRef, slug string) PathInfo {
	if parent == nil {
		return PathInfo{
			Path:    PathSeparator + slug,
			PathIDs: []uuid.UUID{},
			Level:   0,
		}
	}

	ids := make([]uuid.UUID, 0, len(parent.PathIDs)+1)
	ids = append(ids, parent.PathIDs...)
	ids = append(ids, parent.ID)

	return PathInfo{
		Path:    parent.Path + PathSeparator + slug,
		PathIDs: ids,
		Level:   parent.Level + 1,
	}
}

// RebasePath rewrites a descendant's path fields after the ancestor movedID,
// formerly at oldBasePath, was moved to newBase. The descendant's path suffix
// below the moved ancestor and its ancestor ids after movedID are preserved.
func RebasePath(descendant PathInfo, movedID uuid.UUID, oldBasePath string, newBase PathInfo, levelDelta int) (PathInfo, error) {
	if !strings.HasPrefix(descendant.Path, oldBasePath+PathSeparator) {
		return PathInfo{}, fmt.Errorf("path %q is not below %q", descendant.Path, oldBasePath)
	}
	idx := indexOfID(descendant.PathIDs, movedID)
	if idx < 0 {
		return PathInfo{}, fmt.Errorf("ancestor %s not found in path ids of %q", movedID, descendant.Path)
	}

	relative := descendant.PathIDs[idx+1:]
	ids := make([]uuid.UUID, 0, len(newBase.PathIDs)+1+len(relative))
	ids = append(ids, newBase.PathIDs...)
	ids = append(ids, movedID)
	ids = append(ids, relative...)

	return PathInfo{
		Path:    newBase.Path + descendant.Path[len(oldBasePath):],
		PathIDs: ids,
		Level:   descendant.Level + levelDelta,
	}, nil
}

// FinalDepth returns the deepest level the moved subtree reaches after the move.
// parentLevel is -1 when the subtree moves to the root.
func FinalDepth(parentLevel, movedLevel, maxDescendantLevel int) int {
	if maxDescendantLevel < movedLevel {
		maxDescendantLevel = movedLevel
	}
	return parentLevel + 1 + (maxDescendantLevel - movedLevel)
}

func indexOfID(ids []uuid.UUID, id uuid.UUID) int {
	for i, v := range ids {
		if v == id {
			return i
		}
	}
	return -1
}

func containsID(ids []uuid.UUID, id uuid.UUID) bool {
	return indexOfID(ids, id) >= 0
}
