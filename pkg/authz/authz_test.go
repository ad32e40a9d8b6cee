package authz

import (
	"sync"
	"testing"
)

func TestAuthorizer_ExactAndWildcard(t *testing.T) {
	a, err := NewAuthorizer("admin")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if err := a.Load([]Policy{
		{RoleCode: "operator", PermissionCode: "product:*"},
		{RoleCode: "auditor", PermissionCode: "product:list"},
		{RoleCode: "auditor", PermissionCode: "product:list"},
		{RoleCode: "", PermissionCode: "ignored"},
	}); err != nil {
		t.Fatalf("err=%v", err)
	}

	cases := []struct {
		role, perm string
		want       bool
	}{
		{"operator", "product:create", true},
		{"operator", "product:delete", true},
		{"operator", "category:create", false},
		{"auditor", "product:list", true},
		{"Auditor", "product:list", true},
		{"auditor", "product:create", false},
		{"admin", "anything:at:all", true},
		{"", "product:list", false},
		{"unknown", "product:list", false},
	}
	for _, c := range cases {
		got, err := a.Enforce(c.role, c.perm)
		if err != nil {
			t.Fatalf("Enforce(%q, %q) err=%v", c.role, c.perm, err)
		}
		if got != c.want {
			t.Fatalf("Enforce(%q, %q)=%v, want %v", c.role, c.perm, got, c.want)
		}
	}
}

func TestAuthorizer_LoadReplaces(t *testing.T) {
	a, err := NewAuthorizer("")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	if err := a.Load([]Policy{{RoleCode: "ops", PermissionCode: "cart:view"}}); err != nil {
		t.Fatalf("err=%v", err)
	}
	if ok, _ := a.Enforce("ops", "cart:view"); !ok {
		t.Fatal("expected allow")
	}
	if err := a.Load(nil); err != nil {
		t.Fatalf("err=%v", err)
	}
	if ok, _ := a.Enforce("ops", "cart:view"); ok {
		t.Fatal("expected deny after reload")
	}
	if a.IsSuperRole("admin") {
		t.Fatal("super role should be disabled")
	}
}

func TestAuthorizer_ConcurrentLoadAndEnforce(t *testing.T) {
	a, err := NewAuthorizer("admin")
	if err != nil {
		t.Fatalf("err=%v", err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = a.Load([]Policy{{RoleCode: "ops", PermissionCode: "product:*"}})
		}()
		go func() {
			defer wg.Done()
			if _, err := a.Enforce("ops", "product:list"); err != nil {
				t.Errorf("err=%v", err)
			}
		}()
	}
	wg.Wait()
}
