package palette

import (
	"sort"

	"github.com/bodgit/canvas/errs"
)

var quantizers = map[string]Quantizer{
	"kmeans":     KMeans{},
	"median-cut": MedianCut{},
}

// ByName returns the Quantizer registered as name.
func ByName(name string) (Quantizer, error) {
	q, ok := quantizers[name]
	if !ok {
		return nil, errs.Errorf(errs.Config, op, "unknown quantizer %q", name)
	}
	return q, nil
}

// Names returns the registered Quantizer names in order.
func Names() []string {
	names := make([]string, 0, len(quantizers))
	for name := range quantizers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
