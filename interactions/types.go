// Package interactions is the typed layer over the bridge: it issues
// drug-drug interaction queries against a registered source and maps the
// wire payload into domain records. Severity labels are passed through
// verbatim; this package assigns them no clinical meaning.
package interactions

import ddibridge "github.com/clinisafe/ddi-bridge"

// Region selects the regulatory dataset an interaction query runs against.
type Region string

const (
	RegionUS Region = "us"
	RegionEU Region = "eu"
	RegionCA Region = "ca"
)

// ParseRegion validates a region string. Empty input defaults to us; any
// value outside the known set is a configuration error, never silently
// coerced.
func ParseRegion(s string) (Region, error) {
	switch Region(s) {
	case "":
		return RegionUS, nil
	case RegionUS, RegionEU, RegionCA:
		return Region(s), nil
	default:
		return "", ddibridge.NewConfigError("unknown region %q (want us, eu, or ca)", s)
	}
}

// InteractionRecord is one reported interaction between two drugs.
type InteractionRecord struct {
	SubjectDrug  string
	AffectedDrug string
	Severity     string // opaque label from the source, not validated
	Description  string
}

// Report is the successful result of an interaction query.
type Report struct {
	TotalResults int
	Interactions []InteractionRecord
}
