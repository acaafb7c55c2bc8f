package model

import (
	"encoding/json"
	"testing"
	"time"
)

func TestIdentity_MarshalJSON_WithoutProfile_OnlyIDAndEmail(t *testing.T) {
	ident := Identity{ID: "u1", Email: "a@x.com"}

	b, err := json.Marshal(ident)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if len(got) != 2 {
		t.Errorf("len = %d, want 2 (got %v)", len(got), got)
	}
	if got["id"] != "u1" {
		t.Errorf("id = %v, want %q", got["id"], "u1")
	}
	if got["email"] != "a@x.com" {
		t.Errorf("email = %v, want %q", got["email"], "a@x.com")
	}
}

func TestIdentity_MarshalJSON_WithoutEmail_OmitsEmail(t *testing.T) {
	b, err := json.Marshal(Identity{ID: "u2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if _, ok := got["email"]; ok {
		t.Errorf("email should be omitted, got %v", got["email"])
	}
}

// プロフィールのattributesにidが含まれていてもIdentity.IDが優先されることを検証
func TestIdentity_MarshalJSON_ProfileFieldsMerged_IDForcedToUserID(t *testing.T) {
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	ident := Identity{
		ID:    "user-1",
		Email: "p@x.com",
		Profile: &Profile{
			ID:       "profile-pk-9",
			UserID:   "user-1",
			Email:    "p@x.com",
			FullName: "Prepe User",
			Attributes: map[string]any{
				"id":   "attr-id",
				"city": "Pune",
			},
			CreatedAt: created,
		},
	}

	b, err := json.Marshal(ident)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got map[string]any
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}

	if got["id"] != "user-1" {
		t.Errorf("id = %v, want %q", got["id"], "user-1")
	}
	if got["profile_id"] != "profile-pk-9" {
		t.Errorf("profile_id = %v, want %q", got["profile_id"], "profile-pk-9")
	}
	if got["city"] != "Pune" {
		t.Errorf("city = %v, want %q", got["city"], "Pune")
	}
	if got["full_name"] != "Prepe User" {
		t.Errorf("full_name = %v, want %q", got["full_name"], "Prepe User")
	}
	if _, ok := got["phone"]; ok {
		t.Error("empty phone should be omitted")
	}
}

func TestIdentity_HasProfile(t *testing.T) {
	var nilIdent *Identity
	if nilIdent.HasProfile() {
		t.Error("nil identity should not have a profile")
	}
	if (&Identity{ID: "u"}).HasProfile() {
		t.Error("identity without profile should report false")
	}
	if !(&Identity{ID: "u", Profile: &Profile{UserID: "u"}}).HasProfile() {
		t.Error("identity with profile should report true")
	}
}

func TestAPIError_Error_IncludesCode(t *testing.T) {
	err := NewUnauthorizedError()
	if got := err.Error(); got != "[UNAUTHORIZED] Authentication is required." {
		t.Errorf("Error() = %q", got)
	}
}
