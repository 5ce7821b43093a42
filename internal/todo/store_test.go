package todo

import (
    "bytes"
    "errors"
    "log"
    "strings"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "tabtodo/internal/storage"
)

// fixedClock returns a clock that advances one second per call.
func fixedClock() func() time.Time {
    t := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
    return func() time.Time {
        t = t.Add(time.Second)
        return t
    }
}

func newTestStore(t *testing.T, slot storage.Slot) (*Store, *bytes.Buffer) {
    t.Helper()
    var buf bytes.Buffer
    s := NewStore(slot, Options{Now: fixedClock(), Logger: log.New(&buf, "", 0)})
    return s, &buf
}

func texts(list []Task) []string {
    out := make([]string, 0, len(list))
    for _, t := range list { out = append(out, t.Text) }
    return out
}

func persisted(t *testing.T, m *storage.Memory) []Task {
    t.Helper()
    raw, ok, err := m.Read()
    require.NoError(t, err)
    require.True(t, ok, "slot was never written")
    list, err := Decode(raw)
    require.NoError(t, err)
    return list
}

func TestAddWhitespaceIsIgnored(t *testing.T) {
    m := storage.NewMemory()
    s, _ := newTestStore(t, m)
    _, ok := s.Add("   \t ")
    assert.False(t, ok)
    assert.Equal(t, 0, s.Len())
    assert.Equal(t, 0, m.Writes())
}

func TestAddPrependsNewestFirst(t *testing.T) {
    m := storage.NewMemory()
    s, _ := newTestStore(t, m)
    first, ok := s.Add("Buy milk")
    require.True(t, ok)
    _, ok = s.Add("  Walk dog  ")
    require.True(t, ok)

    assert.Equal(t, []string{"Walk dog", "Buy milk"}, texts(s.Tasks()))
    assert.False(t, first.Completed)
    assert.NotEmpty(t, first.ID)
    assert.Equal(t, time.Date(2026, 3, 1, 9, 0, 1, 0, time.UTC), first.CreatedAt)
    assert.Equal(t, []string{"Walk dog", "Buy milk"}, texts(persisted(t, m)))
    assert.Equal(t, 2, m.Writes())
}

func TestAddSameMillisecondGetsDistinctIDs(t *testing.T) {
    now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
    s := NewStore(storage.NewMemory(), Options{Now: func() time.Time { return now }})
    a, _ := s.Add("a")
    b, _ := s.Add("b")
    c, _ := s.Add("c")
    assert.NotEqual(t, a.ID, b.ID)
    assert.NotEqual(t, b.ID, c.ID)
    assert.Equal(t, "1772355600000", a.ID)
    assert.Equal(t, "1772355600001", b.ID)
}

func TestDeleteMissingIsNoop(t *testing.T) {
    m := storage.NewMemory()
    s, _ := newTestStore(t, m)
    s.Add("Buy milk")
    writes := m.Writes()
    assert.False(t, s.Delete("does-not-exist"))
    assert.Equal(t, 1, s.Len())
    assert.Equal(t, writes, m.Writes())
}

func TestDeletePersists(t *testing.T) {
    m := storage.NewMemory()
    s, _ := newTestStore(t, m)
    a, _ := s.Add("Buy milk")
    s.Add("Walk dog")
    require.True(t, s.Delete(a.ID))
    assert.Equal(t, []string{"Walk dog"}, texts(s.Tasks()))
    assert.Equal(t, []string{"Walk dog"}, texts(persisted(t, m)))
    _, found := s.Get(a.ID)
    assert.False(t, found)
}

func TestToggleTwiceRestores(t *testing.T) {
    m := storage.NewMemory()
    s, _ := newTestStore(t, m)
    a, _ := s.Add("Buy milk")

    require.True(t, s.ToggleComplete(a.ID))
    got, _ := s.Get(a.ID)
    assert.True(t, got.Completed)
    assert.True(t, persisted(t, m)[0].Completed)

    require.True(t, s.ToggleComplete(a.ID))
    got, _ = s.Get(a.ID)
    assert.False(t, got.Completed)

    writes := m.Writes()
    assert.False(t, s.ToggleComplete("nope"))
    assert.Equal(t, writes, m.Writes())
}

func TestOrderStableAcrossEditAndToggle(t *testing.T) {
    s, _ := newTestStore(t, storage.NewMemory())
    a, _ := s.Add("one")
    s.Add("two")
    s.Add("three")
    s.ToggleComplete(a.ID)
    s.StartEdit(a.ID, "one")
    s.SetEditText("uno")
    require.True(t, s.SaveEdit(a.ID))
    assert.Equal(t, []string{"three", "two", "uno"}, texts(s.Tasks()))
}

func TestEditFlow(t *testing.T) {
    m := storage.NewMemory()
    s, _ := newTestStore(t, m)
    a, _ := s.Add("Buy milk")
    b, _ := s.Add("Walk dog")

    s.StartEdit(a.ID, a.Text)
    id, text, ok := s.EditCursor()
    require.True(t, ok)
    assert.Equal(t, a.ID, id)
    assert.Equal(t, "Buy milk", text)

    // a second StartEdit replaces the first cursor
    s.StartEdit(b.ID, b.Text)
    assert.False(t, s.Editing(a.ID))
    assert.True(t, s.Editing(b.ID))

    s.SetEditText("  Walk the dog ")
    require.True(t, s.SaveEdit(b.ID))
    got, _ := s.Get(b.ID)
    assert.Equal(t, "Walk the dog", got.Text)
    _, _, ok = s.EditCursor()
    assert.False(t, ok)
    assert.Equal(t, "Walk the dog", persisted(t, m)[0].Text)
}

func TestSaveEditEmptyKeepsCursor(t *testing.T) {
    m := storage.NewMemory()
    s, _ := newTestStore(t, m)
    a, _ := s.Add("Buy milk")
    writes := m.Writes()

    s.StartEdit(a.ID, a.Text)
    s.SetEditText("   ")
    assert.False(t, s.SaveEdit(a.ID))

    got, _ := s.Get(a.ID)
    assert.Equal(t, "Buy milk", got.Text)
    id, text, ok := s.EditCursor()
    assert.True(t, ok, "cursor stays until valid text is given")
    assert.Equal(t, a.ID, id)
    assert.Equal(t, "   ", text)
    assert.Equal(t, writes, m.Writes())
}

func TestCancelEditDiscardsBuffer(t *testing.T) {
    s, _ := newTestStore(t, storage.NewMemory())
    a, _ := s.Add("Buy milk")
    s.StartEdit(a.ID, a.Text)
    s.SetEditText("Buy oat milk")
    s.CancelEdit()

    _, text, ok := s.EditCursor()
    assert.False(t, ok)
    assert.Empty(t, text)
    got, _ := s.Get(a.ID)
    assert.Equal(t, "Buy milk", got.Text)

    // typing with no edit in progress goes nowhere
    s.SetEditText("stray")
    _, text, _ = s.EditCursor()
    assert.Empty(t, text)
}

func TestDeleteEditedTaskClearsCursor(t *testing.T) {
    m := storage.NewMemory()
    s, _ := newTestStore(t, m)
    a, _ := s.Add("Buy milk")
    b, _ := s.Add("Walk dog")

    s.StartEdit(a.ID, "Buy bread")
    require.True(t, s.Delete(a.ID))
    _, _, ok := s.EditCursor()
    assert.False(t, ok)

    writes := m.Writes()
    assert.False(t, s.SaveEdit(a.ID))
    assert.Equal(t, writes, m.Writes())

    // deleting another task leaves a cursor alone
    c, _ := s.Add("Read book")
    s.StartEdit(c.ID, c.Text)
    s.Delete(b.ID)
    assert.True(t, s.Editing(c.ID))
}

func TestSaveEditOfVanishedTask(t *testing.T) {
    m := storage.NewMemory()
    s, _ := newTestStore(t, m)
    s.Add("Buy milk")
    writes := m.Writes()
    s.StartEdit("ghost", "boo")
    assert.False(t, s.SaveEdit("ghost"))
    _, _, ok := s.EditCursor()
    assert.False(t, ok)
    assert.Equal(t, writes, m.Writes())
}

func TestLoadFromSlot(t *testing.T) {
    raw := `[{"id":"2","text":"Walk dog","completed":true,"createdAt":"2024-05-02T10:00:00.000Z"},` +
        `{"id":"1","text":"Buy milk","completed":false,"createdAt":"2024-05-01T10:00:00.000Z"}]`
    s, logs := newTestStore(t, storage.NewMemoryWith(raw))
    require.Equal(t, 2, s.Len())
    assert.Equal(t, []string{"Walk dog", "Buy milk"}, texts(s.Tasks()))
    assert.Empty(t, logs.String())
}

func TestLoadFailuresFallBackToEmpty(t *testing.T) {
    cases := map[string]*storage.Memory{
        "malformed": storage.NewMemoryWith(`{not json`),
        "wrong shape": storage.NewMemoryWith(`{"id":"1"}`),
        "unreadable": {ReadErr: errors.New("access denied")},
    }
    for name, slot := range cases {
        t.Run(name, func(t *testing.T) {
            s, logs := newTestStore(t, slot)
            assert.Equal(t, 0, s.Len())
            assert.Contains(t, logs.String(), "failed to load todos")
        })
    }

    s, logs := newTestStore(t, storage.NewMemory())
    assert.Equal(t, 0, s.Len())
    assert.Empty(t, logs.String(), "a missing slot is not worth a diagnostic")
}

func TestLoadKeepsGoodRecordsAroundBadOnes(t *testing.T) {
    raw := `[{"id":"2","text":"Walk dog","completed":true,"createdAt":"2024-05-01"},` +
        `{"text":"orphan"},` +
        `{"id":"3","text":"  "},` +
        `{"id":"1","text":"Buy milk","completed":false,"createdAt":"2024-05-01T10:00:00.000Z"}]`
    m := storage.NewMemoryWith(raw)
    s, logs := newTestStore(t, m)
    require.Equal(t, []string{"Walk dog", "Buy milk"}, texts(s.Tasks()))
    walk, _ := s.Get("2")
    assert.True(t, walk.CreatedAt.IsZero())
    assert.True(t, walk.Completed)
    assert.Contains(t, logs.String(), "repaired stored todos")
    assert.NotContains(t, logs.String(), "failed to load todos")

    _, ok := s.Add("new")
    require.True(t, ok)
    assert.Equal(t, []string{"new", "Walk dog", "Buy milk"}, texts(persisted(t, m)))
}

func TestLoadDropsDuplicateIDs(t *testing.T) {
    raw := `[{"id":"1","text":"a"},{"id":"1","text":"b"},{"id":"2","text":"c"}]`
    s, logs := newTestStore(t, storage.NewMemoryWith(raw))
    assert.Equal(t, []string{"a", "c"}, texts(s.Tasks()))
    assert.Contains(t, logs.String(), "duplicate")
}

func TestWriteFailureKeepsMemoryState(t *testing.T) {
    m := storage.NewMemory()
    s, logs := newTestStore(t, m)
    m.WriteErr = errors.New("quota exceeded")

    a, ok := s.Add("Buy milk")
    require.True(t, ok)
    assert.Equal(t, 1, s.Len())
    assert.Error(t, s.LastWriteErr())
    assert.Contains(t, logs.String(), "failed to save todos")

    // the next successful write catches up
    m.WriteErr = nil
    s.ToggleComplete(a.ID)
    assert.NoError(t, s.LastWriteErr())
    list := persisted(t, m)
    require.Len(t, list, 1)
    assert.True(t, list[0].Completed)
}

func TestMergeAndReplace(t *testing.T) {
    m := storage.NewMemory()
    s, _ := newTestStore(t, m)
    a, _ := s.Add("Buy milk")

    n := s.Merge([]Task{
        {ID: "x1", Text: "Imported one"},
        {ID: a.ID, Text: "clash"},
        {ID: "x2", Text: "  "},
        {ID: "x3", Text: "Imported two"},
        {ID: "x1", Text: "dup"},
    })
    assert.Equal(t, 2, n)
    assert.Equal(t, []string{"Imported one", "Imported two", "Buy milk"}, texts(s.Tasks()))
    assert.Len(t, persisted(t, m), 3)

    writes := m.Writes()
    assert.Equal(t, 0, s.Merge([]Task{{ID: a.ID, Text: "again"}}))
    assert.Equal(t, writes, m.Writes())

    s.StartEdit(a.ID, "x")
    n = s.Replace([]Task{{ID: "r1", Text: "Only"}, {ID: "r1", Text: "twice"}})
    assert.Equal(t, 1, n)
    assert.Equal(t, []string{"Only"}, texts(persisted(t, m)))
    _, _, ok := s.EditCursor()
    assert.False(t, ok)
}

func TestReload(t *testing.T) {
    m := storage.NewMemory()
    s, _ := newTestStore(t, m)
    a, _ := s.Add("Buy milk")
    s.StartEdit(a.ID, a.Text)

    require.NoError(t, m.Write(`[]`))
    s.Reload()
    assert.Equal(t, 0, s.Len())
    _, _, ok := s.EditCursor()
    assert.False(t, ok)
}

func TestUUIDScheme(t *testing.T) {
    s := NewStore(storage.NewMemory(), Options{IDs: NewIDGenerator("uuid")})
    a, _ := s.Add("a")
    b, _ := s.Add("b")
    assert.Len(t, a.ID, 36)
    assert.NotEqual(t, a.ID, b.ID)
    assert.Equal(t, 1, strings.Count(a.ID[:9], "-"))
}
