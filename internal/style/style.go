// Package style defines the per-role typography override model.
//
// Five text roles are independently stylable: name, title, contact,
// section header, and body. Each role carries a size/color/bold triple
// with a role-specific valid size range. Out-of-range sizes are clamped
// to the role's bounds; they are never stored unclamped.
package style

import (
	"fmt"
	"regexp"
)

// Role is one of the five stylable text categories.
type Role string

const (
	RoleName    Role = "name"
	RoleTitle   Role = "title"
	RoleContact Role = "contact"
	RoleHeader  Role = "header"
	RoleBody    Role = "body"
)

// Roles returns all roles in presentation order.
func Roles() []Role {
	return []Role{RoleName, RoleTitle, RoleContact, RoleHeader, RoleBody}
}

// ParseRole validates a wire-level role name.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleName, RoleTitle, RoleContact, RoleHeader, RoleBody:
		return Role(s), nil
	}
	return "", &RoleError{Role: s}
}

// Setting is the size/color/bold triple for one role.
type Setting struct {
	SizePx   int
	ColorHex string
	Bold     bool
}

// Bounds is the valid size range for a role, in pixels.
type Bounds struct {
	MinSize int
	MaxSize int
}

// RoleBounds returns the valid size range for the role. The ranges match
// the editor's slider limits.
func RoleBounds(r Role) Bounds {
	switch r {
	case RoleName:
		return Bounds{MinSize: 20, MaxSize: 48}
	case RoleTitle:
		return Bounds{MinSize: 12, MaxSize: 24}
	case RoleContact:
		return Bounds{MinSize: 10, MaxSize: 18}
	case RoleHeader:
		return Bounds{MinSize: 14, MaxSize: 24}
	default:
		return Bounds{MinSize: 10, MaxSize: 18}
	}
}

// Clamp returns v forced into the bounds.
func (b Bounds) Clamp(v int) int {
	if v < b.MinSize {
		return b.MinSize
	}
	if v > b.MaxSize {
		return b.MaxSize
	}
	return v
}

// Settings holds the overrides for all five roles. It is a value type;
// update operations return a new snapshot.
type Settings struct {
	Name    Setting
	Title   Setting
	Contact Setting
	Header  Setting
	Body    Setting
}

// Defaults returns the built-in default style set.
func Defaults() Settings {
	return Settings{
		Name:    Setting{SizePx: 36, ColorHex: "#000000", Bold: true},
		Title:   Setting{SizePx: 16, ColorHex: "#000000", Bold: false},
		Contact: Setting{SizePx: 12, ColorHex: "#000000", Bold: false},
		Header:  Setting{SizePx: 18, ColorHex: "#000000", Bold: true},
		Body:    Setting{SizePx: 14, ColorHex: "#000000", Bold: false},
	}
}

// Get returns the setting for the role.
func (s Settings) Get(r Role) Setting {
	switch r {
	case RoleName:
		return s.Name
	case RoleTitle:
		return s.Title
	case RoleContact:
		return s.Contact
	case RoleHeader:
		return s.Header
	default:
		return s.Body
	}
}

func (s Settings) with(r Role, v Setting) Settings {
	switch r {
	case RoleName:
		s.Name = v
	case RoleTitle:
		s.Title = v
	case RoleContact:
		s.Contact = v
	case RoleHeader:
		s.Header = v
	case RoleBody:
		s.Body = v
	}
	return s
}

// Patch is a partial update for one role. Nil fields are left unchanged.
type Patch struct {
	SizePx   *int
	ColorHex *string
	Bold     *bool
}

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Apply returns a snapshot with the patch applied to the role. Sizes are
// clamped into the role's bounds; malformed colors are rejected and leave
// the snapshot unchanged.
func (s Settings) Apply(r Role, p Patch) (Settings, error) {
	cur := s.Get(r)
	if p.SizePx != nil {
		cur.SizePx = RoleBounds(r).Clamp(*p.SizePx)
	}
	if p.ColorHex != nil {
		if !colorPattern.MatchString(*p.ColorHex) {
			return s, &ColorError{Value: *p.ColorHex}
		}
		cur.ColorHex = *p.ColorHex
	}
	if p.Bold != nil {
		cur.Bold = *p.Bold
	}
	return s.with(r, cur), nil
}

// Reset restores the built-in defaults. It is idempotent and never
// touches document content; style and content are independent axes.
func (s Settings) Reset() Settings {
	return Defaults()
}

// Normalize clamps every size into its role bounds and replaces empty or
// malformed colors with the default. Used when loading persisted or
// client-supplied style records.
func (s Settings) Normalize() Settings {
	out := s
	for _, r := range Roles() {
		cur := out.Get(r)
		cur.SizePx = RoleBounds(r).Clamp(cur.SizePx)
		if !colorPattern.MatchString(cur.ColorHex) {
			cur.ColorHex = Defaults().Get(r).ColorHex
		}
		out = out.with(r, cur)
	}
	return out
}

// RoleError reports an unknown style role name.
type RoleError struct {
	Role string
}

func (e *RoleError) Error() string {
	return fmt.Sprintf("unknown style role: %s", e.Role)
}

// ColorError reports a color value that is not #rrggbb.
type ColorError struct {
	Value string
}

func (e *ColorError) Error() string {
	return fmt.Sprintf("invalid color %q: expected #rrggbb", e.Value)
}
