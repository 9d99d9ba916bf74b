package common

// Fields is an insert-ordered field-name to value mapping. The order is the
// profile's declared order, which keeps serialized output stable across runs.
type Fields struct {
	keys   []string
	values map[string]interface{}
}

// NewFields allocates a field set ready for the given number of entries.
func NewFields(capacity int) *Fields {
	return &Fields{
		keys:   make([]string, 0, capacity),
		values: make(map[string]interface{}, capacity),
	}
}

// Set stores a value. A key keeps its original position when overwritten.
func (f *Fields) Set(name string, value interface{}) {
	if _, ok := f.values[name]; !ok {
		f.keys = append(f.keys, name)
	}
	f.values[name] = value
}

// Get returns the value for name.
func (f *Fields) Get(name string) (interface{}, bool) {
	v, ok := f.values[name]
	return v, ok
}

// Has reports whether name is present.
func (f *Fields) Has(name string) bool {
	_, ok := f.values[name]
	return ok
}

// Keys returns the field names in insertion order.
func (f *Fields) Keys() []string {
	return f.keys
}

// Len returns the number of fields.
func (f *Fields) Len() int {
	return len(f.keys)
}

// Map returns an unordered copy of the field mapping.
func (f *Fields) Map() map[string]interface{} {
	m := make(map[string]interface{}, len(f.values))
	for k, v := range f.values {
		m[k] = v
	}
	return m
}
