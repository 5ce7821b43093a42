package todo

import (
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "tabtodo/internal/storage"
)

func sample() []Task {
    return []Task{
        {ID: "3", Text: "Read book", Completed: true},
        {ID: "2", Text: "Walk dog"},
        {ID: "1", Text: "Buy milk"},
        {ID: "0", Text: "Buy MILK powder", Completed: true},
    }
}

func TestViewByTab(t *testing.T) {
    todo := Filter{Tab: TabTodo}.Apply(sample())
    for _, x := range todo { assert.False(t, x.Completed) }
    assert.Equal(t, []string{"Walk dog", "Buy milk"}, texts(todo))

    done := Filter{Tab: TabCompleted}.Apply(sample())
    for _, x := range done { assert.True(t, x.Completed) }
    assert.Equal(t, []string{"Read book", "Buy MILK powder"}, texts(done))

    // the zero tab behaves like todo
    assert.Equal(t, texts(todo), texts(Filter{}.Apply(sample())))
}

func TestViewSearchIgnoresCase(t *testing.T) {
    list := []Task{{ID: "1", Text: "Buy milk"}, {ID: "2", Text: "Walk dog"}}
    for _, q := range []string{"milk", "MILK", "Milk"} {
        got := Filter{Tab: TabTodo, Search: q}.Apply(list)
        assert.Equal(t, []string{"Buy milk"}, texts(got), q)
    }
    assert.Empty(t, Filter{Tab: TabTodo, Search: "cat"}.Apply(list))
    assert.Equal(t, []string{"Buy MILK powder"}, texts(Filter{Tab: TabCompleted, Search: "milk"}.Apply(sample())))
}

func TestViewDoesNotMutate(t *testing.T) {
    in := sample()
    before := texts(in)
    _ = Filter{Tab: TabCompleted, Search: "b"}.Apply(in)
    assert.Equal(t, before, texts(in))
}

func TestStoreViewAndStats(t *testing.T) {
    s, _ := newTestStore(t, storage.NewMemory())
    a, _ := s.Add("Buy milk")
    s.Add("Walk dog")
    s.ToggleComplete(a.ID)

    assert.Equal(t, []string{"Walk dog"}, texts(s.View(Filter{Tab: TabTodo})))
    assert.Equal(t, []string{"Buy milk"}, texts(s.View(Filter{Tab: TabCompleted, Search: "MILK"})))
    assert.Equal(t, Stats{Total: 2, Open: 1, Completed: 1}, s.Stats())
}

func TestParseTab(t *testing.T) {
    for in, want := range map[string]Tab{"": TabTodo, "todo": TabTodo, "Completed": TabCompleted, "done": TabCompleted} {
        got, err := ParseTab(in)
        require.NoError(t, err, in)
        assert.Equal(t, want, got, in)
    }
    _, err := ParseTab("archived")
    assert.Error(t, err)
    assert.Equal(t, TabCompleted, TabTodo.Other())
    assert.Equal(t, "To Do", TabTodo.Label())
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
    in := []Task{
        {ID: "1714557600000", Text: "Walk dog", Completed: true, CreatedAt: time.Date(2024, 5, 1, 10, 0, 0, 123e6, time.UTC)},
        {ID: "1714471200000", Text: "Buy \"milk\" & <eggs>", CreatedAt: time.Date(2024, 4, 30, 10, 0, 0, 0, time.UTC)},
    }
    raw, err := Encode(in)
    require.NoError(t, err)
    assert.Contains(t, raw, `"createdAt":"2024-05-01T10:00:00.123Z"`)
    assert.Contains(t, raw, `"createdAt":"2024-04-30T10:00:00.000Z"`)

    out, err := Decode(raw)
    require.NoError(t, err)
    require.Len(t, out, len(in))
    for i := range in {
        assert.Equal(t, in[i].ID, out[i].ID)
        assert.Equal(t, in[i].Text, out[i].Text)
        assert.Equal(t, in[i].Completed, out[i].Completed)
        assert.True(t, in[i].CreatedAt.Equal(out[i].CreatedAt), "createdAt %d", i)
    }

    empty, err := Encode(nil)
    require.NoError(t, err)
    assert.Equal(t, "[]", empty)
}

func TestDecodeAcceptsBrowserPayload(t *testing.T) {
    raw := `[{"id":"1714557600000","text":"Buy milk","completed":false,"createdAt":"2024-05-01T10:00:00.000Z"}]`
    out, err := Decode(raw)
    require.NoError(t, err)
    require.Len(t, out, 1)
    assert.Equal(t, time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), out[0].CreatedAt)

    back, err := Encode(out)
    require.NoError(t, err)
    assert.JSONEq(t, raw, back)

    _, err = Decode(`{"id":"1"}`)
    assert.Error(t, err)
}

func TestDecodeCheckedRepairsRecords(t *testing.T) {
    raw := `[{"id":"1","text":"Buy milk","createdAt":"yesterday"},` +
        `{"text":"no id"},` +
        `{"id":"2","text":"   "},` +
        `{"id":"3","text":"Walk dog","completed":"yes"},` +
        `"not a record",` +
        `{"id":"4","text":"Call mom","completed":true,"createdAt":"2024-05-01T10:00:00Z"}]`
    out, rep, err := DecodeChecked(raw)
    require.NoError(t, err)
    require.Len(t, out, 2)
    assert.Equal(t, "Buy milk", out[0].Text)
    assert.True(t, out[0].CreatedAt.IsZero())
    assert.Equal(t, "4", out[1].ID)
    assert.Equal(t, Repairs{Malformed: 2, MissingID: 1, EmptyText: 1, BadCreatedAt: 1}, rep)
    assert.Equal(t, 4, rep.Dropped())

    out, rep, err = DecodeChecked(`null`)
    require.NoError(t, err)
    assert.Empty(t, out)
    assert.False(t, rep.Any())
}
