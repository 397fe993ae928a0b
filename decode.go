package readscope

// NoArgs is the argument type of decoders whose size is constant.
type NoArgs = struct{}

// Fixed describes a type whose encoding always occupies Width bytes.
//
// ReadUnchecked must consume exactly Width bytes from w. It is only ever
// called with a window the engine has already checked, so it performs no
// bounds checks and cannot fail. Implementations provide only this unchecked
// form: the checked read, array reads and size queries are derived by the
// engine (see Read, ReadArray and Dep).
type Fixed[T any] interface {
	Width() int
	ReadUnchecked(w *Window) T
}

// Dependent describes a type whose encoded size is determined by a runtime
// argument, for example a width taken from an earlier header field.
// ReadUncheckedDep must consume exactly Size(args) bytes.
type Dependent[T, A any] interface {
	Size(args A) int
	ReadUncheckedDep(w *Window, args A) T
}

// Dep adapts a constant-size decoder to the dependent form with no
// arguments. It is the only bridge between the two contracts.
func Dep[T any](d Fixed[T]) Dependent[T, NoArgs] {
	if dd, ok := d.(Dependent[T, NoArgs]); ok {
		return dd
	}
	return fixedDep[T]{d}
}

type fixedDep[T any] struct {
	d Fixed[T]
}

func (f fixedDep[T]) Size(NoArgs) int { return f.d.Width() }

func (f fixedDep[T]) ReadUncheckedDep(w *Window, _ NoArgs) T {
	return f.d.ReadUnchecked(w)
}

// Read decodes one constant-size value at the cursor. If fewer than
// d.Width() bytes remain it fails with ErrEOF and the cursor does not move.
func Read[T any](c *Cursor, d Fixed[T]) (T, error) {
	w, err := c.window(d.Width())
	if err != nil {
		var zero T
		return zero, err
	}
	return d.ReadUnchecked(&w), nil
}

// ReadDep is Read for argument-sized decoders: the size is re-derived from
// args before the bounds check.
func ReadDep[T, A any](c *Cursor, d Dependent[T, A], args A) (T, error) {
	w, err := c.window(d.Size(args))
	if err != nil {
		var zero T
		return zero, err
	}
	return d.ReadUncheckedDep(&w, args), nil
}

// Size reports the encoded width of a dependent decoder for args.
func Size[T, A any](d Dependent[T, A], args A) int {
	return d.Size(args)
}
