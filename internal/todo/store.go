package todo

import (
	"log"
	"strings"
	"time"

	"tabtodo/internal/storage"
)

// Options tunes a Store. Zero values are usable.
type Options struct {
    IDs    IDGenerator
    Now    func() time.Time
    Logger *log.Logger // defaults to the standard logger
    Debug  bool
}

// Store owns the task collection and the edit cursor. Every mutation that
// changes the collection writes the whole collection to the slot. A Store is
// not safe for concurrent use.
type Store struct {
    slot  storage.Slot
    tasks []Task

    editing  bool
    editID   string
    editText string

    ids    IDGenerator
    now    func() time.Time
    logger *log.Logger
    debug  bool

    lastWriteErr error
}

// NewStore reads the slot once and returns a store holding its contents.
// An empty, unreadable or malformed slot yields an empty collection.
func NewStore(slot storage.Slot, opts Options) *Store {
    s := &Store{slot: slot, ids: opts.IDs, now: opts.Now, logger: opts.Logger, debug: opts.Debug}
    if s.ids == nil { s.ids = &TimestampIDs{} }
    if s.now == nil { s.now = time.Now }
    if s.logger == nil { s.logger = log.Default() }
    s.tasks = s.load()
    return s
}

func (s *Store) load() []Task {
    raw, ok, err := s.slot.Read()
    if err != nil {
        s.logger.Printf("[todo] failed to load todos: %v", err)
        return []Task{}
    }
    if !ok || strings.TrimSpace(raw) == "" {
        if s.debug { s.logger.Printf("[todo] storage slot empty; starting fresh") }
        return []Task{}
    }
    list, rep, err := DecodeChecked(raw)
    if err != nil {
        s.logger.Printf("[todo] failed to load todos: %v", err)
        return []Task{}
    }
    if rep.Any() { s.logger.Printf("[todo] repaired stored todos: %s", rep) }
    list, dropped := dedupe(list)
    if dropped > 0 { s.logger.Printf("[todo] dropped %d duplicate task ids while loading", dropped) }
    if s.debug { s.logger.Printf("[todo] loaded %d tasks", len(list)) }
    return list
}

func (s *Store) save() {
    raw, err := Encode(s.tasks)
    if err == nil { err = s.slot.Write(raw) }
    s.lastWriteErr = err
    if err != nil {
        s.logger.Printf("[todo] failed to save todos: %v", err)
        return
    }
    if s.debug { s.logger.Printf("[todo] saved %d tasks", len(s.tasks)) }
}

// LastWriteErr is the outcome of the most recent write, nil when it worked.
func (s *Store) LastWriteErr() error { return s.lastWriteErr }

func (s *Store) indexOf(id string) int {
    for i := range s.tasks {
        if s.tasks[i].ID == id { return i }
    }
    return -1
}

func (s *Store) taken(id string) bool { return s.indexOf(id) >= 0 }

// Add prepends a new task. Text that is empty after trimming is ignored.
func (s *Store) Add(text string) (Task, bool) {
    text = strings.TrimSpace(text)
    if text == "" { return Task{}, false }
    now := s.now().UTC().Truncate(time.Millisecond)
    t := Task{
        ID:        s.ids.NextID(now, s.taken),
        Text:      text,
        Completed: false,
        CreatedAt: now,
    }
    s.tasks = append([]Task{t}, s.tasks...)
    s.save()
    return t, true
}

// Delete removes the task with id. Deleting the task under edit clears the
// edit cursor.
func (s *Store) Delete(id string) bool {
    i := s.indexOf(id)
    if i < 0 { return false }
    s.tasks = append(s.tasks[:i:i], s.tasks[i+1:]...)
    if s.editing && s.editID == id { s.clearCursor() }
    s.save()
    return true
}

// ToggleComplete flips the completed flag of the task with id.
func (s *Store) ToggleComplete(id string) bool {
    i := s.indexOf(id)
    if i < 0 { return false }
    s.tasks[i].Completed = !s.tasks[i].Completed
    s.save()
    return true
}

// StartEdit points the edit cursor at id with currentText as the scratch
// buffer, replacing any edit already in progress.
func (s *Store) StartEdit(id, currentText string) {
    s.editing = true
    s.editID = id
    s.editText = currentText
}

// SetEditText replaces the scratch buffer of the edit in progress.
func (s *Store) SetEditText(text string) {
    if !s.editing { return }
    s.editText = text
}

// SaveEdit commits the scratch buffer as the text of task id. A buffer that
// is empty after trimming leaves both the cursor and the task untouched.
func (s *Store) SaveEdit(id string) bool {
    if !s.editing { return false }
    text := strings.TrimSpace(s.editText)
    if text == "" { return false }
    i := s.indexOf(id)
    s.clearCursor()
    if i < 0 { return false }
    s.tasks[i].Text = text
    s.save()
    return true
}

// CancelEdit drops the edit in progress without committing it.
func (s *Store) CancelEdit() { s.clearCursor() }

func (s *Store) clearCursor() {
    s.editing = false
    s.editID = ""
    s.editText = ""
}

// EditCursor reports the task under edit and its scratch buffer.
func (s *Store) EditCursor() (id, text string, ok bool) {
    return s.editID, s.editText, s.editing
}

// Editing reports whether id is the task under edit.
func (s *Store) Editing(id string) bool { return s.editing && s.editID == id }

// Tasks returns a copy of the collection, newest first.
func (s *Store) Tasks() []Task {
    out := make([]Task, len(s.tasks))
    copy(out, s.tasks)
    return out
}

func (s *Store) Get(id string) (Task, bool) {
    i := s.indexOf(id)
    if i < 0 { return Task{}, false }
    return s.tasks[i], true
}

func (s *Store) Len() int { return len(s.tasks) }

// View returns the tasks visible under f, in collection order.
func (s *Store) View(f Filter) []Task { return f.Apply(s.tasks) }

// Merge prepends the incoming tasks whose ids are not present yet, keeping
// their relative order. It returns how many were added.
func (s *Store) Merge(incoming []Task) int {
    fresh := make([]Task, 0, len(incoming))
    seen := map[string]bool{}
    for _, t := range incoming {
        t.Text = strings.TrimSpace(t.Text)
        if t.ID == "" || t.Text == "" || seen[t.ID] || s.taken(t.ID) { continue }
        seen[t.ID] = true
        fresh = append(fresh, t)
    }
    if len(fresh) == 0 { return 0 }
    s.tasks = append(fresh, s.tasks...)
    s.save()
    return len(fresh)
}

// Replace swaps the whole collection for incoming and clears the cursor.
func (s *Store) Replace(incoming []Task) int {
    list := make([]Task, 0, len(incoming))
    for _, t := range incoming {
        t.Text = strings.TrimSpace(t.Text)
        if t.ID == "" || t.Text == "" { continue }
        list = append(list, t)
    }
    list, _ = dedupe(list)
    s.tasks = list
    s.clearCursor()
    s.save()
    return len(list)
}

// Reload re-reads the slot, discarding in-memory state and the cursor.
func (s *Store) Reload() {
    s.tasks = s.load()
    s.clearCursor()
}

func dedupe(list []Task) ([]Task, int) {
    seen := make(map[string]bool, len(list))
    out := list[:0:0]
    for _, t := range list {
        if seen[t.ID] { continue }
        seen[t.ID] = true
        out = append(out, t)
    }
    return out, len(list) - len(out)
}
