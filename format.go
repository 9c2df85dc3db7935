package pvec

import "fmt"

// String renders the dense view wrapped in a Vector<...> marker,
// e.g. "Vector<[1 2 3]>".
func (v *Vector[T]) String() string {
	return "Vector<" + fmt.Sprint(v.ToSlice()) + ">"
}

// Format implements fmt.Formatter. The verb and flags are applied to the dense
// view, so "%q" on a vector of strings renders `Vector<["a" "b"]>`.
func (v *Vector[T]) Format(f fmt.State, verb rune) {
	fmt.Fprintf(f, "Vector<"+fmt.FormatString(f, verb)+">", v.ToSlice())
}
