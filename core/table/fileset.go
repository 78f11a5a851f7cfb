package table

import "fmt"

// FileSet maps file identifiers to tables, preserving upload order.
type FileSet struct {
	order  []string
	tables map[string]*Table
}

// NewFileSet creates an empty file set.
func NewFileSet() *FileSet {
	return &FileSet{tables: make(map[string]*Table)}
}

// Add stores a table under the given file id. Ids must be unique.
func (fs *FileSet) Add(id string, t *Table) error {
	if _, exists := fs.tables[id]; exists {
		return fmt.Errorf("file %q already loaded", id)
	}
	fs.order = append(fs.order, id)
	fs.tables[id] = t
	return nil
}

// Remove drops a file from the set.
func (fs *FileSet) Remove(id string) {
	if _, ok := fs.tables[id]; !ok {
		return
	}
	delete(fs.tables, id)
	for i, existing := range fs.order {
		if existing == id {
			fs.order = append(fs.order[:i], fs.order[i+1:]...)
			break
		}
	}
}

// IDs returns the file ids in upload order.
func (fs *FileSet) IDs() []string {
	out := make([]string, len(fs.order))
	copy(out, fs.order)
	return out
}

// Table returns the table stored under id.
func (fs *FileSet) Table(id string) (*Table, bool) {
	t, ok := fs.tables[id]
	return t, ok
}

// Tables returns all tables in upload order.
func (fs *FileSet) Tables() []*Table {
	out := make([]*Table, 0, len(fs.order))
	for _, id := range fs.order {
		out = append(out, fs.tables[id])
	}
	return out
}

// Len returns the number of loaded files.
func (fs *FileSet) Len() int {
	return len(fs.order)
}
