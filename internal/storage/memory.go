package storage

// Memory keeps the slot in process. ReadErr and WriteErr, when set, are
// returned instead of touching the value.
type Memory struct {
    value    string
    set      bool
    writes   int
    ReadErr  error
    WriteErr error
}

func NewMemory() *Memory { return &Memory{} }

// NewMemoryWith returns a slot that already holds value.
func NewMemoryWith(value string) *Memory { return &Memory{value: value, set: true} }

func (m *Memory) Read() (string, bool, error) {
    if m.ReadErr != nil { return "", false, m.ReadErr }
    return m.value, m.set, nil
}

func (m *Memory) Write(value string) error {
    if m.WriteErr != nil { return m.WriteErr }
    m.value = value
    m.set = true
    m.writes++
    return nil
}

// Writes counts successful writes.
func (m *Memory) Writes() int { return m.writes }
