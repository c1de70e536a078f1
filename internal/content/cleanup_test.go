package content

import "testing"

func TestCleanupStripsFileHeaders(t *testing.T) {
	in := "## File: 101\nActual course text here.\n"
	got := Cleanup(in)
	if got != "Actual course text here." {
		t.Fatalf("got %q", got)
	}
}

func TestCleanupFlattensBullets(t *testing.T) {
	got := Cleanup("• first point\n• Second point.")
	want := "first point\nSecond point."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCleanupJoinsHardWraps(t *testing.T) {
	in := "The mitochondria is the\npowerhouse of the cell.\n\nNext paragraph starts here."
	got := Cleanup(in)
	want := "The mitochondria is the powerhouse of the cell.\n\nNext paragraph starts here."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCleanupKeepsSentenceBoundaries(t *testing.T) {
	// a line ending in punctuation is not merged into the next
	in := "First sentence ends here.\nsecond line is separate."
	got := Cleanup(in)
	want := "First sentence ends here.\nsecond line is separate."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCleanupDoesNotJoinHeadings(t *testing.T) {
	// next line starting uppercase is treated as a new unit even without
	// terminal punctuation above
	in := "Chapter Overview\nThe chapter covers recursion."
	got := Cleanup(in)
	want := "Chapter Overview\nThe chapter covers recursion."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCleanupCollapsesWhitespace(t *testing.T) {
	in := "too   many  spaces.\n\n\n\n\nand breaks."
	got := Cleanup(in)
	want := "too many spaces.\n\nand breaks."
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestCleanupEmpty(t *testing.T) {
	if Cleanup("") != "" || Cleanup("   \n\n  ") != "" {
		t.Fatal("blank input should clean to empty")
	}
}
