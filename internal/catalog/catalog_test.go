package catalog

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestBuiltinDomains(t *testing.T) {
	c := New()

	domains := c.List()
	if len(domains) != 4 {
		t.Fatalf("expected 4 built-in domains, got %d", len(domains))
	}

	web, err := c.Get("web_development")
	if err != nil {
		t.Fatalf("Get(web_development) failed: %v", err)
	}
	if web.Name != "Web Development" {
		t.Errorf("expected name 'Web Development', got %q", web.Name)
	}
	if len(web.Topics) == 0 {
		t.Error("web_development has no topics")
	}
	if len(web.DifficultyLevels) != 3 {
		t.Errorf("expected 3 difficulty levels, got %d", len(web.DifficultyLevels))
	}

	for _, key := range []string{"ai_ml", "electrical", "hr"} {
		if _, err := c.Get(key); err != nil {
			t.Errorf("Get(%s) failed: %v", key, err)
		}
		if len(c.StudyResources(key)) == 0 {
			t.Errorf("domain %s has no study resources", key)
		}
	}
}

func TestGetUnknownDomain(t *testing.T) {
	c := New()

	_, err := c.Get("quantum_baking")
	if err == nil {
		t.Fatal("expected error for unknown domain")
	}
	if !errors.Is(err, ErrUnknownDomain) {
		t.Errorf("expected ErrUnknownDomain, got %v", err)
	}
}

func TestLoadFileOverlay(t *testing.T) {
	overlay := `
domains:
  - key: web_development
    name: Frontend Engineering
    topics: [React, CSS]
    difficulty_levels: [junior, senior]
  - key: devops
    name: DevOps
    topics: [Kubernetes, CI/CD]
    difficulty_levels: [entry, mid, senior]
resources:
  devops:
    - title: Kubernetes Docs
      url: https://kubernetes.io/docs
      type: Documentation
`
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	if err := os.WriteFile(path, []byte(overlay), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New()
	if err := c.LoadFile(path); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	// Existing key replaced
	web, err := c.Get("web_development")
	if err != nil {
		t.Fatal(err)
	}
	if web.Name != "Frontend Engineering" {
		t.Errorf("overlay did not replace web_development, got name %q", web.Name)
	}

	// New key added
	devops, err := c.Get("devops")
	if err != nil {
		t.Fatalf("overlay domain missing: %v", err)
	}
	if len(devops.Topics) != 2 {
		t.Errorf("expected 2 devops topics, got %d", len(devops.Topics))
	}
	if len(c.StudyResources("devops")) != 1 {
		t.Errorf("expected 1 devops resource, got %d", len(c.StudyResources("devops")))
	}

	// Untouched builtins survive
	if _, err := c.Get("hr"); err != nil {
		t.Errorf("builtin hr domain lost after overlay: %v", err)
	}
}

func TestLoadFileRejectsInvalidEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("domains:\n  - topics: [x]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New()
	if err := c.LoadFile(path); err == nil {
		t.Fatal("expected error for domain entry without key and name")
	}
}
