package roster

import (
	"strconv"
	"strings"
)

// ResolveRef is the raw material identity resolution works from: whatever
// fragments the source row carried about the person being named.
type ResolveRef struct {
	RawID       string
	Category    string // used for the synthesized fallback label
	InlineFirst string // joined name fields already present on the row
	InlineLast  string
	Prebuilt    string // name string assembled upstream, may be "null null"
}

// nameResolver tries one source; ok=false means fall through to the next.
type nameResolver func(ref ResolveRef, tables LookupTables) (string, bool)

// The resolution chain is an ordered strategy list: first hit wins. New
// sources are added by appending, not by nesting conditionals.
var nameResolvers = []nameResolver{
	resolveInlineName,
	resolveRosterName,
	resolvePrebuiltName,
	resolveUserName,
	resolveContactName,
}

// ResolveName resolves a display name for ref. The boolean reports whether a
// real source matched; false means the synthesized placeholder was used and
// callers should count a resolution miss.
func ResolveName(ref ResolveRef, tables LookupTables) (string, bool) {
	for _, resolve := range nameResolvers {
		if name, ok := resolve(ref, tables); ok {
			return name, true
		}
	}
	return fallbackName(ref), false
}

func resolveInlineName(ref ResolveRef, _ LookupTables) (string, bool) {
	first := clean(ref.InlineFirst)
	last := clean(ref.InlineLast)
	if first == "" && last == "" {
		return "", false
	}
	return strings.TrimSpace(first + " " + last), true
}

func resolveRosterName(ref ResolveRef, tables LookupTables) (string, bool) {
	entry, ok := tables.Roster[ref.RawID]
	if !ok || clean(entry.Name) == "" {
		return "", false
	}
	return clean(entry.Name), true
}

func resolvePrebuiltName(ref ResolveRef, _ LookupTables) (string, bool) {
	prebuilt := clean(ref.Prebuilt)
	if prebuilt == "" || strings.EqualFold(prebuilt, "null null") {
		return "", false
	}
	return prebuilt, true
}

// User ids arrive as either numeric or string form, so both spellings are
// tried against the user map.
func resolveUserName(ref ResolveRef, tables LookupTables) (string, bool) {
	for _, key := range idSpellings(ref.RawID) {
		if entry, ok := tables.Users[key]; ok && clean(entry.Name) != "" {
			return clean(entry.Name), true
		}
	}
	return "", false
}

func resolveContactName(ref ResolveRef, tables LookupTables) (string, bool) {
	entry, ok := tables.Contacts[ref.RawID]
	if !ok || clean(entry.Name) == "" {
		return "", false
	}
	return clean(entry.Name), true
}

func fallbackName(ref ResolveRef) string {
	category := clean(ref.Category)
	if category == "" {
		category = "Contact"
	} else {
		category = strings.ToUpper(category[:1]) + category[1:]
	}
	if clean(ref.RawID) == "" {
		return "Unknown " + category
	}
	return category + " " + ref.RawID
}

// ResolveChapter resolves a group assignment for ref, falling back to the
// organizer's own chapter when the subject's is empty or the "Unknown"
// sentinel — contacts inherit their organizer's chapter when theirs is missing.
func ResolveChapter(ref ResolveRef, own string, organizerChapter string, tables LookupTables) string {
	if chapter := cleanChapter(own); chapter != "" {
		return chapter
	}
	if entry, ok := tables.Roster[ref.RawID]; ok {
		if chapter := cleanChapter(entry.Chapter); chapter != "" {
			return chapter
		}
	}
	for _, key := range idSpellings(ref.RawID) {
		if entry, ok := tables.Users[key]; ok {
			if chapter := cleanChapter(entry.Chapter); chapter != "" {
				return chapter
			}
		}
	}
	if chapter := cleanChapter(organizerChapter); chapter != "" {
		return chapter
	}
	return "Unknown"
}

func cleanChapter(value string) string {
	cleaned := clean(value)
	if strings.EqualFold(cleaned, "unknown") {
		return ""
	}
	return cleaned
}

func idSpellings(raw string) []string {
	cleaned := clean(raw)
	if cleaned == "" {
		return nil
	}
	spellings := []string{cleaned}
	if n, err := strconv.Atoi(cleaned); err == nil {
		canonical := strconv.Itoa(n)
		if canonical != cleaned {
			spellings = append(spellings, canonical)
		}
	}
	return spellings
}
