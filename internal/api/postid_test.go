package api

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/scamalert/alertpro/internal/errs"
)

func TestParsePostID(t *testing.T) {
	tests := []struct {
		in      string
		want    PostID
		wantErr bool
	}{
		{in: "42", want: PostID{Base: 42}},
		{in: "42-1", want: PostID{Base: 42, Instance: 1, Reposted: true}},
		{in: "7-12", want: PostID{Base: 7, Instance: 12, Reposted: true}},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "42-", wantErr: true},
		{in: "-1", wantErr: true},
		{in: "42-1-2", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParsePostID(tt.in)
		if tt.wantErr {
			if !errors.Is(err, errs.ErrValidation) {
				t.Fatalf("ParsePostID(%q) error = %v, want ErrValidation", tt.in, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParsePostID(%q) returned error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Fatalf("ParsePostID(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestPostID_String(t *testing.T) {
	if got := (PostID{Base: 42}).String(); got != "42" {
		t.Fatalf("String() = %q, want 42", got)
	}
	if got := (PostID{Base: 42, Instance: 1, Reposted: true}).String(); got != "42-1" {
		t.Fatalf("String() = %q, want 42-1", got)
	}
}

func TestPostID_JSONRoundTrip(t *testing.T) {
	// The API serializes plain ids as numbers and repost ids as strings.
	var p Post
	if err := json.Unmarshal([]byte(`{"id": 42}`), &p); err != nil {
		t.Fatalf("unmarshal numeric id: %v", err)
	}
	if p.ID != (PostID{Base: 42}) {
		t.Fatalf("numeric id = %+v", p.ID)
	}

	if err := json.Unmarshal([]byte(`{"id": "42-1"}`), &p); err != nil {
		t.Fatalf("unmarshal composite id: %v", err)
	}
	if p.ID != (PostID{Base: 42, Instance: 1, Reposted: true}) {
		t.Fatalf("composite id = %+v", p.ID)
	}

	out, err := json.Marshal(PostID{Base: 42, Instance: 1, Reposted: true})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"42-1"` {
		t.Fatalf("marshal composite = %s, want \"42-1\"", out)
	}

	out, err = json.Marshal(PostID{Base: 42})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "42" {
		t.Fatalf("marshal base = %s, want 42", out)
	}
}
