// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// PathSeparator joins ancestor names in a category's materialized path,
// e.g. "Engines > Pistons".
const PathSeparator = " > "

// RootCategoryID is the sentinel id clients send to mean "no category
// selected" (the root / reset state of the catalog navigation).
const RootCategoryID int64 = -1

// ErrHasChildren is returned when deleting a category that still has
// child categories. Deletion is refused, never cascaded.
var ErrHasChildren = errors.New("category has children and cannot be deleted")

// Category represents one node of a tenant's catalog taxonomy. The level
// and materialized path are stored redundantly and recomputed inside the
// same transaction whenever a category is renamed or re-parented.
type Category struct {
	ID          int64     `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description"`
	ParentID    *int64    `json:"parent_id"`
	Level       int       `json:"level"`
	Path        string    `json:"path"`
	OrderIndex  int       `json:"order_index"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Children is only populated on tree reads. The tree is rebuilt
	// wholesale on every read and never mutated in place.
	Children []Category `json:"children,omitempty"`
}

// IsRoot returns true for top-level categories.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// ChildPath returns the materialized path a child named name would have
// under this category.
func (c *Category) ChildPath(name string) string {
	return c.Path + PathSeparator + name
}

// BuildCategoryTree turns a flat category list into a forest. Every input
// row appears exactly once: roots are rows without a parent id, and rows
// whose parent id does not resolve within the list are promoted to roots
// instead of being dropped, so stale rows stay visible to the admin.
// Children are ordered by order_index ascending, ties broken by id.
// A single id→node index keeps the linking pass O(n).
func BuildCategoryTree(flat []Category) []Category {
	byID := make(map[int64]*Category, len(flat))
	nodes := make([]*Category, len(flat))
	for i := range flat {
		c := flat[i]
		c.Children = nil
		nodes[i] = &c
		byID[c.ID] = nodes[i]
	}

	children := make(map[int64][]*Category, len(flat))
	var roots []*Category
	for _, n := range nodes {
		if n.ParentID == nil {
			roots = append(roots, n)
			continue
		}
		parent, ok := byID[*n.ParentID]
		if !ok || parent == n {
			// Orphan promotion: the parent is missing or inactive.
			roots = append(roots, n)
			continue
		}
		children[parent.ID] = append(children[parent.ID], n)
	}

	var build func(n *Category) Category
	build = func(n *Category) Category {
		out := *n
		kids := children[n.ID]
		sortSiblings(kids)
		for _, k := range kids {
			out.Children = append(out.Children, build(k))
		}
		return out
	}

	sortSiblings(roots)
	forest := make([]Category, 0, len(roots))
	for _, r := range roots {
		forest = append(forest, build(r))
	}
	return forest
}

// sortSiblings orders a sibling group by order_index, then id.
func sortSiblings(cats []*Category) {
	sort.SliceStable(cats, func(i, j int) bool {
		if cats[i].OrderIndex != cats[j].OrderIndex {
			return cats[i].OrderIndex < cats[j].OrderIndex
		}
		return cats[i].ID < cats[j].ID
	})
}

// FlattenTree walks a forest depth-first into a flat display list with
// children following their parent. Useful for indented <select> options.
func FlattenTree(forest []Category) []Category {
	var out []Category
	for _, c := range forest {
		node := c
		node.Children = nil
		out = append(out, node)
		out = append(out, FlattenTree(c.Children)...)
	}
	return out
}

// CountTree returns the total number of nodes in a forest.
func CountTree(forest []Category) int {
	total := 0
	for _, c := range forest {
		total += 1 + CountTree(c.Children)
	}
	return total
}

// FilterTree returns the forest of categories whose name contains query
// (case-insensitive), keeping their ancestors so matches stay attached to
// the hierarchy. The linear ancestor walk is fine at admin scale (tens to
// low hundreds of categories); it does not scale beyond that.
func FilterTree(flat []Category, query string) []Category {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return BuildCategoryTree(flat)
	}

	byID := make(map[int64]Category, len(flat))
	for _, c := range flat {
		byID[c.ID] = c
	}

	keep := make(map[int64]bool)
	for _, c := range flat {
		if !strings.Contains(strings.ToLower(c.Name), query) {
			continue
		}
		// Keep the match and every resolvable ancestor.
		id := c.ID
		for {
			if keep[id] {
				break
			}
			keep[id] = true
			cur, ok := byID[id]
			if !ok || cur.ParentID == nil {
				break
			}
			id = *cur.ParentID
		}
	}

	kept := make([]Category, 0, len(keep))
	for _, c := range flat {
		if keep[c.ID] {
			kept = append(kept, c)
		}
	}
	return BuildCategoryTree(kept)
}

// TrailByID resolves the breadcrumb for a category id by walking parent
// links from the leaf up. The result is ordered root first, leaf last.
// An unknown or sentinel id yields an empty trail, never an error.
func TrailByID(flat []Category, id int64) []Category {
	if id == RootCategoryID {
		return nil
	}
	byID := make(map[int64]Category, len(flat))
	for _, c := range flat {
		byID[c.ID] = c
	}

	var trail []Category
	seen := make(map[int64]bool)
	cur, ok := byID[id]
	for ok && !seen[cur.ID] {
		seen[cur.ID] = true
		trail = append(trail, cur)
		if cur.ParentID == nil {
			break
		}
		cur, ok = byID[*cur.ParentID]
	}

	// Reverse leaf→root into root→leaf.
	for i, j := 0, len(trail)-1; i < j; i, j = i+1, j-1 {
		trail[i], trail[j] = trail[j], trail[i]
	}
	return trail
}

// TrailByPath resolves a breadcrumb from a materialized path string such
// as "Engines > Pistons". Each segment is trimmed and resolved by name
// against the flat list in order; segments that do not resolve are
// silently dropped, so a partially stale path still yields the resolvable
// prefix instead of failing outright. Callers that need all-or-nothing
// resolution must compare the trail length against the segment count.
func TrailByPath(flat []Category, path string) []Category {
	if strings.TrimSpace(path) == "" {
		return nil
	}

	var trail []Category
	for _, segment := range strings.Split(path, PathSeparator) {
		name := strings.TrimSpace(segment)
		if name == "" {
			continue
		}
		for _, c := range flat {
			if c.Name == name {
				trail = append(trail, c)
				break
			}
		}
	}
	return trail
}
