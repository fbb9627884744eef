package craft

// AttrSet is the per-instance dispatch table mapping attribute keys to typed
// setters. Tables are built once at construction by the entity's bind chain;
// registering a key twice overwrites the earlier setter, which is how
// variants override an inherited coercion.
type AttrSet struct {
	setters map[string]func(value string) error
}

func newAttrSet() *AttrSet {
	return &AttrSet{setters: make(map[string]func(string) error)}
}

// Str registers a key stored verbatim.
func (a *AttrSet) Str(key string, dst *string) {
	a.setters[key] = func(value string) error {
		*dst = value
		return nil
	}
}

// Ident registers an identifier key. Identifiers carry no quoting or escapes
// in the source format, so storage is verbatim like Str.
func (a *AttrSet) Ident(key string, dst *string) {
	a.Str(key, dst)
}

// Int registers an integer key.
func (a *AttrSet) Int(key string, dst *int) {
	a.setters[key] = func(value string) error {
		n, err := CoerceInt(value)
		if err != nil {
			return err
		}
		*dst = n
		return nil
	}
}

// Float registers a float key.
func (a *AttrSet) Float(key string, dst *float64) {
	a.setters[key] = func(value string) error {
		f, err := CoerceFloat(value)
		if err != nil {
			return err
		}
		*dst = f
		return nil
	}
}

// Bool registers a boolean key. The coercion never fails.
func (a *AttrSet) Bool(key string, dst *bool) {
	a.setters[key] = func(value string) error {
		*dst = CoerceBool(value)
		return nil
	}
}

// Point registers a float tuple key holding a position.
func (a *AttrSet) Point(key string, dst *Vec) {
	a.setters[key] = func(value string) error {
		v, err := CoerceVec(value)
		if err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

// Vector registers a float tuple key holding a direction or axis. The
// coercion is the same as Point; the distinction is kept for the source
// format's sake.
func (a *AttrSet) Vector(key string, dst *Vec) {
	a.Point(key, dst)
}

// IntList registers a comma-separated integer tuple key.
func (a *AttrSet) IntList(key string, dst *[]int) {
	a.setters[key] = func(value string) error {
		ints, err := CoerceInts(value)
		if err != nil {
			return err
		}
		*dst = ints
		return nil
	}
}

// StringList registers a comma-separated string list key.
func (a *AttrSet) StringList(key string, dst *[]string) {
	a.setters[key] = func(value string) error {
		*dst = CoerceStrings(value)
		return nil
	}
}

// Func registers a key with a custom handler.
func (a *AttrSet) Func(key string, fn func(value string) error) {
	a.setters[key] = fn
}

// Has reports whether a setter is registered for the key.
func (a *AttrSet) Has(key string) bool {
	_, ok := a.setters[key]
	return ok
}

// Len returns the number of registered keys.
func (a *AttrSet) Len() int {
	return len(a.setters)
}

func (a *AttrSet) set(key, value string) (bool, error) {
	fn, ok := a.setters[key]
	if !ok {
		return false, nil
	}
	return true, fn(value)
}
