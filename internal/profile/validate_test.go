package profile

import "testing"

func TestValidateName(t *testing.T) {
	valid := []string{"main", "work", "a", "user_2", "team-chat"}
	for _, name := range valid {
		if err := ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) error = %v, want nil", name, err)
		}
	}

	invalid := []string{"", "Main", "has space", "dot.name", "über", "x/../y"}
	for _, name := range invalid {
		if err := ValidateName(name); err == nil {
			t.Errorf("ValidateName(%q) = nil, want error", name)
		}
	}
}

func TestPathsAreScopedToProfile(t *testing.T) {
	a := CacheDBPath("alpha")
	b := CacheDBPath("beta")
	if a == b {
		t.Errorf("cache paths collide: %q", a)
	}
	if LockPath("alpha") == LockPath("beta") {
		t.Error("lock paths collide")
	}
}
