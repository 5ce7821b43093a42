// Package todo holds the task list: the records, the mutations applied to
// them, the tab/search view and the write-through persistence to a slot.
package todo

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// isoMillis matches what browsers produce for Date.toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

type Task struct {
    ID        string
    Text      string
    Completed bool
    CreatedAt time.Time
}

type taskJSON struct {
    ID        string `json:"id"`
    Text      string `json:"text"`
    Completed bool   `json:"completed"`
    CreatedAt string `json:"createdAt"`
}

func (t Task) MarshalJSON() ([]byte, error) {
    created := ""
    if !t.CreatedAt.IsZero() { created = t.CreatedAt.UTC().Format(isoMillis) }
    return json.Marshal(taskJSON{ID: t.ID, Text: t.Text, Completed: t.Completed, CreatedAt: created})
}

// UnmarshalJSON never fails on createdAt: a value that is not RFC 3339
// leaves CreatedAt zero.
func (t *Task) UnmarshalJSON(b []byte) error {
    var raw taskJSON
    if err := json.Unmarshal(b, &raw); err != nil { return err }
    *t, _ = raw.task()
    return nil
}

func (r taskJSON) task() (Task, bool) {
    t := Task{ID: r.ID, Text: r.Text, Completed: r.Completed}
    if r.CreatedAt == "" { return t, true }
    at, err := time.Parse(time.RFC3339Nano, r.CreatedAt)
    if err != nil { return t, false }
    t.CreatedAt = at.UTC()
    return t, true
}

// Encode serializes a collection the way it is kept in storage.
func Encode(list []Task) (string, error) {
    if list == nil { list = []Task{} }
    b, err := json.Marshal(list)
    if err != nil { return "", err }
    return string(b), nil
}

// Repairs counts what DecodeChecked had to drop or blank out.
type Repairs struct {
    Malformed    int // records of the wrong shape, dropped
    MissingID    int // dropped
    EmptyText    int // dropped
    BadCreatedAt int // kept with a zero CreatedAt
}

func (r Repairs) Dropped() int { return r.Malformed + r.MissingID + r.EmptyText }

func (r Repairs) Any() bool { return r.Dropped() > 0 || r.BadCreatedAt > 0 }

func (r Repairs) String() string {
    return fmt.Sprintf("dropped %d malformed, %d without id, %d with empty text; cleared %d bad createdAt",
        r.Malformed, r.MissingID, r.EmptyText, r.BadCreatedAt)
}

// DecodeChecked parses a stored collection record by record. Only a payload
// that is not a JSON array is an error; bad records are dropped or repaired
// and counted.
func DecodeChecked(raw string) ([]Task, Repairs, error) {
    var rep Repairs
    var records []json.RawMessage
    if err := json.Unmarshal([]byte(raw), &records); err != nil { return nil, rep, err }
    list := make([]Task, 0, len(records))
    for _, rec := range records {
        var r taskJSON
        if err := json.Unmarshal(rec, &r); err != nil {
            rep.Malformed++
            continue
        }
        t, timeOK := r.task()
        switch {
        case strings.TrimSpace(t.ID) == "":
            rep.MissingID++
            continue
        case strings.TrimSpace(t.Text) == "":
            rep.EmptyText++
            continue
        }
        if !timeOK { rep.BadCreatedAt++ }
        list = append(list, t)
    }
    return list, rep, nil
}

// Decode is DecodeChecked without the repair counts.
func Decode(raw string) ([]Task, error) {
    list, _, err := DecodeChecked(raw)
    return list, err
}

// Tab selects which half of the collection a view shows.
type Tab string

const (
    TabTodo      Tab = "todo"
    TabCompleted Tab = "completed"
)

func ParseTab(s string) (Tab, error) {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "", "todo", "to do", "open":
        return TabTodo, nil
    case "completed", "done":
        return TabCompleted, nil
    }
    return "", fmt.Errorf("unknown tab %q (want todo or completed)", s)
}

func (t Tab) Label() string {
    if t == TabCompleted { return "Completed" }
    return "To Do"
}

// Other returns the opposite tab.
func (t Tab) Other() Tab {
    if t == TabCompleted { return TabTodo }
    return TabCompleted
}
