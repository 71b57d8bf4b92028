package rbac

import "testing"

func TestCheckerDefaults(t *testing.T) {
	c := NewChecker(nil)

	if !c.Has("student", "session:submit") {
		t.Fatal("student should submit sessions")
	}
	if c.Has("student", "quiz:publish") {
		t.Fatal("student must not publish")
	}
	if !c.Has("teacher", "quiz:view-answers") {
		t.Fatal("teacher should see answer keys")
	}
	if c.Has("teacher", "session:create") {
		t.Fatal("teacher must not open sessions")
	}
	if !c.Has("admin", "anything:at-all") {
		t.Fatal("admin wildcard broken")
	}
	if c.Has("ghost-role", "quiz:view") {
		t.Fatal("unknown role must have nothing")
	}
}

func TestCheckerWildcardPrefix(t *testing.T) {
	c := NewChecker(map[string][]string{"grader": {"session:*"}})
	if !c.Has("grader", "session:view-all") {
		t.Fatal("prefix wildcard should match")
	}
	if c.Has("grader", "quiz:view") {
		t.Fatal("prefix wildcard must not cross namespaces")
	}
	if !c.Any("grader", "quiz:view", "session:save") {
		t.Fatal("Any should find session:save")
	}
}
