package todo

import "strings"

// Filter is the transient view state: the selected tab and the search text.
type Filter struct {
    Tab    Tab
    Search string
}

// Match reports whether t belongs to the tab and contains the search text,
// ignoring case. An empty search matches everything.
func (f Filter) Match(t Task) bool {
    if f.Tab == TabCompleted {
        if !t.Completed { return false }
    } else if t.Completed {
        return false
    }
    if f.Search != "" && !strings.Contains(strings.ToLower(t.Text), strings.ToLower(f.Search)) {
        return false
    }
    return true
}

// Apply returns the matching subsequence of list. list is not modified.
func (f Filter) Apply(list []Task) []Task {
    out := make([]Task, 0, len(list))
    for _, t := range list {
        if f.Match(t) { out = append(out, t) }
    }
    return out
}

// Stats counts the collection by completion state.
type Stats struct {
    Total     int
    Open      int
    Completed int
}

func StatsOf(list []Task) Stats {
    st := Stats{Total: len(list)}
    for _, t := range list {
        if t.Completed { st.Completed++ } else { st.Open++ }
    }
    return st
}

func (s *Store) Stats() Stats { return StatsOf(s.tasks) }
