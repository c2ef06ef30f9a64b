// Package jail implements jail parameters and control: a
// parameter-vector builder, a typed Config mirroring the recognized
// jail parameters, a Permissions set, and the create/update/find/list/
// remove/attach operations over jail_set(2)/jail_get(2)/jail_attach(2)/
// jail_remove(2).
package jail

// ParamBuilder accumulates (name, value) pairs into the even-length
// vector jail_set(2)/jail_get(2) expect. Values are copied into the
// builder's own storage; the only legal way to expose pointers into
// that storage to a syscall is WithVector's scoped borrow, which must
// not escape the callback.
type ParamBuilder struct {
	names  []string
	values []string
	nulls  []bool // true entries are "null" values (jail_get queries)
}

// NewParamBuilder returns an empty builder.
func NewParamBuilder() *ParamBuilder { return &ParamBuilder{} }

// Set appends a (name, value) pair.
func (b *ParamBuilder) Set(name, value string) *ParamBuilder {
	b.names = append(b.names, name)
	b.values = append(b.values, value)
	b.nulls = append(b.nulls, false)
	return b
}

// Query appends name with a null value, the jail_get(2) convention for
// "fill this in and give it back to me".
func (b *ParamBuilder) Query(name string) *ParamBuilder {
	b.names = append(b.names, name)
	b.values = append(b.values, "")
	b.nulls = append(b.nulls, true)
	return b
}

// Len returns the number of parameters accumulated.
func (b *ParamBuilder) Len() int { return len(b.names) }

// WithVector invokes fn with a name/value pair vector suitable for
// passing to jail_set(2)/jail_get(2). The slice (and every string
// inside it) is only valid for the duration of fn; fn must not retain
// it past return.
func (b *ParamBuilder) WithVector(fn func(pairs []Param) error) error {
	pairs := make([]Param, len(b.names))
	for i := range b.names {
		pairs[i] = Param{Name: b.names[i], Value: b.values[i], IsNull: b.nulls[i]}
	}
	return fn(pairs)
}

// Param is one scoped-borrow entry; it must not be retained outside
// the WithVector callback that produced it.
type Param struct {
	Name   string
	Value  string
	IsNull bool
}
