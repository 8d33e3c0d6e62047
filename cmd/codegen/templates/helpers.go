package templates

import (
	"strconv"
	"strings"
)

// typeParams renders the comma separated type parameters T0..T(count-1)
// shared by a combinator's signature and its fn argument.
func typeParams(count int) string {
	names := make([]string, count)
	for i := range names {
		names[i] = "T" + strconv.Itoa(i)
	}
	return strings.Join(names, ", ")
}
