package roster

import "testing"

func tables() LookupTables {
	return LookupTables{
		Roster: map[string]LookupEntry{
			"1001": {Name: "Rosa Linden", Chapter: "Eastside"},
		},
		Users: map[string]LookupEntry{
			"42": {Name: "Sam Reyes", Chapter: "Riverside"},
		},
		Contacts: map[string]LookupEntry{
			"c-9": {Name: "Priya Nair"},
		},
	}
}

func TestResolveNamePriorityOrder(t *testing.T) {
	// Inline name fields win over everything, including a roster hit.
	name, ok := ResolveName(ResolveRef{RawID: "1001", InlineFirst: "Inline", InlineLast: "Winner"}, tables())
	if !ok || name != "Inline Winner" {
		t.Fatalf("ResolveName inline = %q, %v", name, ok)
	}

	// Roster beats the prebuilt string.
	name, ok = ResolveName(ResolveRef{RawID: "1001", Prebuilt: "Stale Spelling"}, tables())
	if !ok || name != "Rosa Linden" {
		t.Fatalf("ResolveName roster = %q, %v", name, ok)
	}

	// Prebuilt is used when higher sources miss.
	name, ok = ResolveName(ResolveRef{RawID: "nope", Prebuilt: "Upstream Name"}, tables())
	if !ok || name != "Upstream Name" {
		t.Fatalf("ResolveName prebuilt = %q, %v", name, ok)
	}
}

func TestResolveNameRejectsNullSentinels(t *testing.T) {
	// "null null" is an upstream join artifact, not a name.
	name, ok := ResolveName(ResolveRef{RawID: "42", Prebuilt: "null null"}, tables())
	if !ok || name != "Sam Reyes" {
		t.Fatalf("ResolveName = %q, %v, want fall through to user map", name, ok)
	}

	// The literal string "null" in inline fields is absence, not content.
	name, ok = ResolveName(ResolveRef{RawID: "c-9", InlineFirst: "null", InlineLast: "null"}, tables())
	if !ok || name != "Priya Nair" {
		t.Fatalf("ResolveName = %q, %v, want contacts fallback", name, ok)
	}
}

func TestResolveNameNumericIDSpellings(t *testing.T) {
	// The user map key is "42" but the row carried a zero-padded form.
	name, ok := ResolveName(ResolveRef{RawID: "042"}, tables())
	if !ok || name != "Sam Reyes" {
		t.Fatalf("ResolveName numeric spelling = %q, %v", name, ok)
	}
}

func TestResolveNameFallback(t *testing.T) {
	name, ok := ResolveName(ResolveRef{RawID: "12345", Category: "contact"}, tables())
	if ok {
		t.Fatal("fallback path must report a miss")
	}
	if name != "Contact 12345" {
		t.Fatalf("fallback name = %q", name)
	}

	name, ok = ResolveName(ResolveRef{Category: "organizer"}, tables())
	if ok || name != "Unknown Organizer" {
		t.Fatalf("absent-id fallback = %q, %v", name, ok)
	}
}

func TestResolveChapterInheritsFromOrganizer(t *testing.T) {
	// Own chapter wins when present.
	if got := ResolveChapter(ResolveRef{RawID: "x"}, "Northgate", "Eastside", tables()); got != "Northgate" {
		t.Fatalf("ResolveChapter = %q, want own chapter", got)
	}

	// "Unknown" is a sentinel, not an assignment.
	if got := ResolveChapter(ResolveRef{RawID: "x"}, "Unknown", "Eastside", tables()); got != "Eastside" {
		t.Fatalf("ResolveChapter = %q, want organizer inheritance", got)
	}

	// Roster lookup fills in before organizer inheritance.
	if got := ResolveChapter(ResolveRef{RawID: "1001"}, "", "Westside", tables()); got != "Eastside" {
		t.Fatalf("ResolveChapter = %q, want roster chapter", got)
	}

	// Nothing anywhere: the sentinel comes back.
	if got := ResolveChapter(ResolveRef{RawID: "x"}, "", "", tables()); got != "Unknown" {
		t.Fatalf("ResolveChapter = %q, want Unknown", got)
	}
}
