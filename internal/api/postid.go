package api

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/scamalert/alertpro/internal/errs"
)

// PostID identifies a complaint post. Posts created via repost carry an
// instance suffix in the API payloads ("42-1"); every mutation endpoint wants
// the base id, so the two parts are kept separate instead of re-splitting
// strings at each call site.
type PostID struct {
	Base     int64
	Instance int64
	Reposted bool
}

// ParsePostID accepts both the bare ("42") and composite ("42-1") wire forms.
func ParsePostID(raw string) (PostID, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return PostID{}, fmt.Errorf("%w: empty post id", errs.ErrValidation)
	}
	base, rest, found := strings.Cut(trimmed, "-")
	id, err := strconv.ParseInt(base, 10, 64)
	if err != nil || id <= 0 {
		return PostID{}, fmt.Errorf("%w: bad post id %q", errs.ErrValidation, raw)
	}
	if !found {
		return PostID{Base: id}, nil
	}
	inst, err := strconv.ParseInt(rest, 10, 64)
	if err != nil || inst < 0 {
		return PostID{}, fmt.Errorf("%w: bad repost instance in %q", errs.ErrValidation, raw)
	}
	return PostID{Base: id, Instance: inst, Reposted: true}, nil
}

// String returns the wire form.
func (p PostID) String() string {
	if p.Reposted {
		return strconv.FormatInt(p.Base, 10) + "-" + strconv.FormatInt(p.Instance, 10)
	}
	return strconv.FormatInt(p.Base, 10)
}

// Key is the identity used for list de-duplication. Two repost instances of
// the same base post are distinct list entries.
func (p PostID) Key() string { return p.String() }

// IsZero reports whether the id is unset.
func (p PostID) IsZero() bool { return p.Base == 0 }

// UnmarshalJSON accepts either a JSON number or a composite string.
func (p *PostID) UnmarshalJSON(data []byte) error {
	var n int64
	if err := json.Unmarshal(data, &n); err == nil {
		*p = PostID{Base: n}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("post id: %w", err)
	}
	id, err := ParsePostID(s)
	if err != nil {
		return err
	}
	*p = id
	return nil
}

// MarshalJSON emits the wire form.
func (p PostID) MarshalJSON() ([]byte, error) {
	if p.Reposted {
		return json.Marshal(p.String())
	}
	return json.Marshal(p.Base)
}
