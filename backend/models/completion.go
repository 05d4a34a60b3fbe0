package models

import "sort"

// CompletionSet is the set of topic titles a user has marked done.
type CompletionSet map[string]struct{}

func NewCompletionSet(titles ...string) CompletionSet {
	s := make(CompletionSet, len(titles))
	for _, t := range titles {
		s[t] = struct{}{}
	}
	return s
}

func (s CompletionSet) Has(title string) bool {
	_, ok := s[title]
	return ok
}

func (s CompletionSet) Set(title string, done bool) {
	if done {
		s[title] = struct{}{}
		return
	}
	delete(s, title)
}

// Toggle flips title and returns its new state.
func (s CompletionSet) Toggle(title string) bool {
	done := !s.Has(title)
	s.Set(title, done)
	return done
}

// Titles returns the members in sorted order.
func (s CompletionSet) Titles() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
