package animals

import (
	"context"
	"strings"
)

// PedigreeDepth is how many generations above the root are resolved:
// self = 0, parents = 1, grandparents = 2.
const PedigreeDepth = 2

// PedigreeNode is one animal in the ancestor tree. Sire/Dam are nil when the
// reference is absent, beyond the depth bound, or unresolvable.
type PedigreeNode struct {
	Animal Animal
	Sire   *PedigreeNode
	Dam    *PedigreeNode
}

type pedigreeItem struct {
	node  *PedigreeNode
	depth int
	// ids on the path from the root to this node, inclusive. A parent ref
	// already on its own path is a cycle and becomes a null branch; the same
	// ancestor may still appear on both sides (linebreeding is legitimate).
	path map[string]struct{}
}

// Pedigree resolves the depth-bounded ancestor tree for id. A missing root is
// ErrNotFound; unresolvable parent references are null branches, never errors,
// so the tree is returned as deep as the data allows. At most 7 fetches.
func (s *Service) Pedigree(ctx context.Context, id string) (*PedigreeNode, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrInvalidInput
	}

	root, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}

	rootNode := &PedigreeNode{Animal: root}
	work := []pedigreeItem{{
		node:  rootNode,
		depth: 0,
		path:  map[string]struct{}{root.ID: {}},
	}}

	for len(work) > 0 {
		it := work[len(work)-1]
		work = work[:len(work)-1]

		if it.depth >= PedigreeDepth {
			continue
		}

		for side, ref := range [2]*string{it.node.Animal.SireID, it.node.Animal.DamID} {
			if ref == nil || strings.TrimSpace(*ref) == "" {
				continue
			}
			if _, seen := it.path[*ref]; seen {
				continue
			}

			parent, err := s.repo.GetByID(ctx, *ref)
			if err != nil {
				// Dangling reference: truncate this branch silently.
				continue
			}

			child := &PedigreeNode{Animal: parent}
			if side == 0 {
				it.node.Sire = child
			} else {
				it.node.Dam = child
			}

			path := make(map[string]struct{}, len(it.path)+1)
			for k := range it.path {
				path[k] = struct{}{}
			}
			path[parent.ID] = struct{}{}

			work = append(work, pedigreeItem{node: child, depth: it.depth + 1, path: path})
		}
	}

	return rootNode, nil
}
