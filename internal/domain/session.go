package domain

// Identity is the authenticated user attached to a browser session. There is
// no credential verification behind it; the store only needs a name and a
// phone number to prefill orders.
type Identity struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// Valid reports whether a rehydrated identity is usable. Malformed or partial
// records loaded from storage are treated as anonymous.
func (id Identity) Valid() bool {
	return id.Name != "" && id.Phone != ""
}
