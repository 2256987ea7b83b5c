package diff

import (
	"strings"
	"testing"
)

const sampleDiff = `diff --git a/src/auth/jwt-validator.ts b/src/auth/jwt-validator.ts
index abc1234..def5678 100644
--- a/src/auth/jwt-validator.ts
+++ b/src/auth/jwt-validator.ts
@@ -10,3 +10,4 @@ export function validate(token: string) {
 	const decoded = jwt.decode(token)
-	const secret = "hunter2"
+	const secret = process.env.JWT_SECRET
+	if (!secret) throw new Error("missing secret")
 	return jwt.verify(token, secret)
`

func TestParse(t *testing.T) {
	ds, err := Parse(sampleDiff)
	if err != nil {
		t.Fatal(err)
	}

	if len(ds.Files) != 1 {
		t.Fatalf("expected 1 file, got %d", len(ds.Files))
	}

	f := ds.Files[0]
	if f.Name() != "src/auth/jwt-validator.ts" {
		t.Errorf("unexpected name %q", f.Name())
	}
	if f.AddedLines != 2 {
		t.Errorf("added = %d, want 2", f.AddedLines)
	}
	if f.DeletedLines != 1 {
		t.Errorf("deleted = %d, want 1", f.DeletedLines)
	}
}

func TestChanged(t *testing.T) {
	ds, err := Parse(sampleDiff)
	if err != nil {
		t.Fatal(err)
	}

	changed := ds.Changed()
	if len(changed) != 1 {
		t.Fatalf("expected 1 changed file, got %d", len(changed))
	}

	cf := changed[0]
	if cf.Path != "src/auth/jwt-validator.ts" {
		t.Errorf("path = %q", cf.Path)
	}
	if cf.Additions != 2 || cf.Deletions != 1 {
		t.Errorf("additions/deletions = %d/%d", cf.Additions, cf.Deletions)
	}
	if !strings.Contains(cf.Patch, "+\tconst secret = process.env.JWT_SECRET") {
		t.Errorf("patch missing added line:\n%s", cf.Patch)
	}
	if !strings.Contains(cf.Patch, "@@") {
		t.Errorf("patch missing hunk header:\n%s", cf.Patch)
	}
}

func TestParseEmpty(t *testing.T) {
	ds, err := Parse("")
	if err != nil {
		t.Fatal(err)
	}
	if len(ds.Files) != 0 {
		t.Errorf("expected no files, got %d", len(ds.Files))
	}
}

func TestStats(t *testing.T) {
	ds, err := Parse(sampleDiff)
	if err != nil {
		t.Fatal(err)
	}

	files, added, deleted := ds.Stats()
	if files != 1 || added != 2 || deleted != 1 {
		t.Errorf("stats = %d/%d/%d", files, added, deleted)
	}
}
