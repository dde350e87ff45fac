package feed

import (
	"strings"

	"carsync-engine/internal/domain"
)

// Container and item element names we know how to find, in priority order.
// These cover the English and Slovak/Czech dialects seen in the wild; the
// first container/item pair that matches wins.
var (
	containerKeys = []string{"offers", "cars", "inzeraty", "vozidla", "vehicles", "data", "items", "catalog"}
	itemKeys      = []string{"offer", "car", "inzerat", "vozidlo", "vehicle", "item", "record"}
)

// ParseFeed turns a raw feed document into canonical vehicles. Items that
// fail to map to a vehicle (missing external id, make or model) are dropped
// and counted, not surfaced as errors; the returned error is non-nil only
// when the input is not well-formed XML. An empty feed parses to zero
// vehicles with a nil error.
func ParseFeed(data []byte) ([]domain.CanonicalVehicle, int, error) {
	root, err := decodeTree(data)
	if err != nil {
		return nil, 0, err
	}

	var out []domain.CanonicalVehicle
	skipped := 0
	for _, item := range findItems(root) {
		v, ok := extractVehicle(item)
		if !ok {
			skipped++
			continue
		}
		out = append(out, v)
	}
	return out, skipped, nil
}

// findItems locates the item list without knowing the feed's schema. Known
// container names are tried in order (the root element itself counts), then
// known item names inside each; failing that, the first repeated element
// under the root that itself has element children is taken to be the list.
func findItems(root *xmlNode) []*xmlNode {
	for _, ck := range containerKeys {
		var containers []*xmlNode
		if strings.EqualFold(root.name, ck) {
			containers = append(containers, root)
		}
		containers = append(containers, root.childrenNamed(ck)...)

		for _, c := range containers {
			for _, ik := range itemKeys {
				if items := c.childrenNamed(ik); len(items) > 0 {
					return items
				}
			}
		}
	}

	// known item names directly under an unrecognized root
	for _, ik := range itemKeys {
		if items := root.childrenNamed(ik); len(items) > 0 {
			return items
		}
	}

	// fallback: first child element name that looks like a list of objects
	seen := map[string]bool{}
	for _, c := range root.children {
		key := strings.ToLower(c.name)
		if seen[key] {
			continue
		}
		seen[key] = true
		if c.hasElementChildren() {
			return root.childrenNamed(c.name)
		}
	}

	// a feed can legitimately be empty; not an error
	return nil
}
