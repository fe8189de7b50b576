package history

// Load returns a Log whose in-memory tail is seeded from the existing file.
func Load(path string, tail int, enabled bool) (*Log, error) {
	l := New(path, tail, enabled)
	if path == "" {
		return l, nil
	}
	entries, err := ReadTail(path, l.tail)
	if err != nil {
		return l, err
	}
	l.recent = append(l.recent, entries...)
	return l, nil
}
