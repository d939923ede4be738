package model

// Standard XBRL label roles
const (
	RoleLabel      = "http://www.xbrl.org/2003/role/label"
	RoleTotalLabel = "http://www.xbrl.org/2003/role/totalLabel"
)

// Labels maps concept -> locale -> role -> text
type Labels map[string]map[string]map[string]string

// Add stores a label text for a concept, locale and role
func (l Labels) Add(concept, locale, role, text string) {
	byLocale, ok := l[concept]
	if !ok {
		byLocale = make(map[string]map[string]string)
		l[concept] = byLocale
	}
	byRole, ok := byLocale[locale]
	if !ok {
		byRole = make(map[string]string)
		byLocale[locale] = byRole
	}
	if role == "" {
		role = RoleLabel
	}
	byRole[role] = text
}

// Get returns the label for a concept and locale, preferring the standard role.
// The second return value is false when no label of any role exists.
func (l Labels) Get(concept, locale string) (string, bool) {
	byRole := l[concept][locale]
	if len(byRole) == 0 {
		return "", false
	}
	if text, ok := byRole[RoleLabel]; ok {
		return text, true
	}

	// Deterministic pick among non-standard roles
	best := ""
	for role := range byRole {
		if best == "" || role < best {
			best = role
		}
	}
	return byRole[best], true
}

// Resolve returns the label or falls back to the concept's local name
func (l Labels) Resolve(concept, locale string) string {
	if text, ok := l.Get(concept, locale); ok && text != "" {
		return text
	}
	return LocalName(concept)
}
