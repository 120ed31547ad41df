// Package policy holds every access decision of the platform. All functions are
// pure: they look only at the caller and the target passed in.
package policy

import (
	"slices"

	"github.com/2beens/blogpress/internal/model"
)

// Owned is anything with a single owning author.
type Owned interface {
	OwnerID() string
}

// Publishable is an owned resource with a published/draft state.
type Publishable interface {
	Owned
	IsPublished() bool
}

// MandatoryFilter is the constraint injected into post queries. A caller can
// narrow it but never widen it. Zero value means no restriction.
type MandatoryFilter struct {
	Status model.PostStatus
}

// Restricted reports whether the filter pins the post status.
func (f MandatoryFilter) Restricted() bool {
	return f.Status != ""
}

// VisibilityFilter restricts anonymous callers and authors to published posts.
func VisibilityFilter(caller *model.Identity) MandatoryFilter {
	if caller.IsAdmin() {
		return MandatoryFilter{}
	}
	return MandatoryFilter{Status: model.StatusPublished}
}

// CanViewSinglePost reports whether the caller may read the post. A false
// result on an existing post maps to Forbidden, not NotFound.
func CanViewSinglePost(caller *model.Identity, post Publishable) bool {
	if post.IsPublished() {
		return true
	}
	if caller == nil {
		return false
	}
	return caller.ID == post.OwnerID() || caller.IsAdmin()
}

// CanMutate covers update and delete of posts and comments.
func CanMutate(caller *model.Identity, resource Owned) bool {
	if caller == nil {
		return false
	}
	return caller.ID == resource.OwnerID() || caller.IsAdmin()
}

// CanDeleteUser forbids self-deletion regardless of role.
func CanDeleteUser(caller *model.Identity, targetUserID string) bool {
	if caller == nil {
		return false
	}
	return caller.IsAdmin() && caller.ID != targetUserID
}

// CanSetRole accepts only the known roles.
func CanSetRole(requested model.Role) bool {
	return requested.Valid()
}

// RoleGate is the route level "require one of these roles" check.
type RoleGate struct {
	Allowed []model.Role
}

// AdminOnly guards the admin routes.
var AdminOnly = RoleGate{Allowed: []model.Role{model.RoleAdmin}}

// Permits rejects anonymous callers and roles outside the allowed set.
func (g RoleGate) Permits(caller *model.Identity) bool {
	if caller == nil {
		return false
	}
	return slices.Contains(g.Allowed, caller.Role)
}
