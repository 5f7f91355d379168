package geofence

import (
	"fmt"
	"strings"
)

// Method selects the heuristic used by Classify.
type Method int

const (
	// Auto checks the broad bounds first and the polygon only if those pass.
	Auto Method = iota
	Polygon
	Range
	Broad
)

var methodNames = [...]string{
	Auto:    "auto",
	Polygon: "polygon",
	Range:   "range",
	Broad:   "broad",
}

func (m Method) String() string {
	if m < 0 || int(m) >= len(methodNames) {
		return fmt.Sprintf("Method(%d)", int(m))
	}
	return methodNames[m]
}

func ParseMethod(s string) (Method, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range methodNames {
		if name == s {
			return Method(i), nil
		}
	}
	return 0, fmt.Errorf("unknown geofence method %q (want one of %s)", s, strings.Join(methodNames[:], ", "))
}

// Set and Type let Method be used as a pflag.Value.
func (m *Method) Set(s string) error {
	parsed, err := ParseMethod(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m *Method) Type() string {
	return "method"
}
