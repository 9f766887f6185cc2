package domain

import (
	"encoding/json"
	"sort"
)

// StringSet is a set of normalized indicator strings
type StringSet map[string]struct{}

// Add inserts values, allocating the set on first use
func (s *StringSet) Add(values ...string) {
	if *s == nil {
		*s = make(StringSet, len(values))
	}
	for _, v := range values {
		if v == "" {
			continue
		}
		(*s)[v] = struct{}{}
	}
}

// Has reports membership
func (s StringSet) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of members
func (s StringSet) Len() int {
	return len(s)
}

// Values returns the members in sorted order
func (s StringSet) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s StringSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

func (s *StringSet) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return err
	}
	*s = nil
	s.Add(values...)
	if *s == nil {
		*s = StringSet{}
	}
	return nil
}

// Intelligence holds the indicator sets found in a message or a whole session
type Intelligence struct {
	PaymentHandles StringSet `json:"upiIds"`
	PhoneNumbers   StringSet `json:"phoneNumbers"`
	BankAccounts   StringSet `json:"bankAccounts"`
	URLs           StringSet `json:"phishingLinks"`
}

// NewIntelligence returns an Intelligence with all four sets allocated
func NewIntelligence() Intelligence {
	return Intelligence{
		PaymentHandles: StringSet{},
		PhoneNumbers:   StringSet{},
		BankAccounts:   StringSet{},
		URLs:           StringSet{},
	}
}

// Merge unions other into i. Nothing already present is ever removed.
func (i *Intelligence) Merge(other Intelligence) {
	for v := range other.PaymentHandles {
		i.PaymentHandles.Add(v)
	}
	for v := range other.PhoneNumbers {
		i.PhoneNumbers.Add(v)
	}
	for v := range other.BankAccounts {
		i.BankAccounts.Add(v)
	}
	for v := range other.URLs {
		i.URLs.Add(v)
	}
}

// Len returns the total number of indicators across all sets
func (i Intelligence) Len() int {
	return i.PaymentHandles.Len() + i.PhoneNumbers.Len() + i.BankAccounts.Len() + i.URLs.Len()
}

// IsEmpty reports whether no indicator was found
func (i Intelligence) IsEmpty() bool {
	return i.Len() == 0
}

// Clone returns a deep copy
func (i Intelligence) Clone() Intelligence {
	c := NewIntelligence()
	c.Merge(i)
	return c
}
