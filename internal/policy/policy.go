// Package policy is the pure access-control layer: given a principal and a
// document it decides visibility and mutation rights. It has no dependencies
// beyond the entity shapes; the equivalent storage-level predicate lives in
// the repository's filter builder so listings never scan rows the caller may
// not see.
package policy

import "docvault/internal/model"

// Visible reports whether the principal may see the document: public
// documents are visible to everyone, private ones only to their owner and
// to admins.
func Visible(p model.Principal, d *model.Document) bool {
	return d.IsPublic || d.UploadUserID == p.ID || p.IsAdmin()
}

// Mutable reports whether the principal may delete the document: only the
// owner and admins.
func Mutable(p model.Principal, d *model.Document) bool {
	return d.UploadUserID == p.ID || p.IsAdmin()
}

// CanDownload reports whether the principal may download the document.
// Public documents may be downloaded by any principal; private ones fall
// back to owner-or-admin.
func CanDownload(p model.Principal, d *model.Document) bool {
	if d.IsPublic {
		return true
	}
	return Mutable(p, d)
}
