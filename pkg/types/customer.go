package types

import "strings"

// Customer carries the contact data collected at checkout and forwarded
// to payment providers.
type Customer struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Comment   string `json:"comment,omitempty"`
}

// FullName joins the non-empty name parts with a single space.
func (c Customer) FullName() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{c.FirstName, c.LastName} {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}
