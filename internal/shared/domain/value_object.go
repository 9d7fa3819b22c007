package domain

import "encoding/json"

// UserID is the opaque identity string supplied by the identity provider.
// The zero value is the anonymous requester.
type UserID struct {
	value string
}

// Anonymous is the identity of an unauthenticated requester.
var Anonymous = UserID{}

// NewUserID creates a UserID from a string.
func NewUserID(value string) UserID {
	return UserID{value: value}
}

// NewUserIDs converts raw identity strings, skipping blanks.
func NewUserIDs(values []string) []UserID {
	ids := make([]UserID, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		ids = append(ids, NewUserID(v))
	}
	return ids
}

func (u UserID) String() string { return u.value }

// IsAnonymous reports whether no identity is present.
func (u UserID) IsAnonymous() bool { return u.value == "" }

// Is compares identities by string equality. Anonymous never matches anything,
// including another anonymous requester.
func (u UserID) Is(other UserID) bool {
	return !u.IsAnonymous() && u.value == other.value
}

func (u UserID) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.value)
}

func (u *UserID) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &u.value)
}

// UserIDStrings converts identities back to plain strings.
func UserIDStrings(ids []UserID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.value
	}
	return out
}
