package scraper

import "campground-scanner/models"

// MaxDetailsLength caps the diagnostic snippet stored on each record
const MaxDetailsLength = 400

var (
	nameKeys   = []string{"name", "unitname", "site", "sitename"}
	statusKeys = []string{"status", "availability", "available", "isavailable"}

	// read with exact casing, in priority order
	unitNamePriority = []string{"unitName", "siteName", "site", "name"}
	statusPriority   = []string{"status", "availability", "available", "isAvailable"}
)

// ExtractFromJSON walks root depth-first (pre-order, explicit stack) and returns one record
// for every object that carries both a name-like and a status-like key.
func ExtractFromJSON(root *Node, campground, source string) []models.AvailabilityRecord {
	if root == nil {
		return nil
	}

	var records []models.AvailabilityRecord
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		var children []*Node
		switch n.Kind {
		case KindObject:
			if rec, ok := recordFromNode(n, campground, source); ok {
				records = append(records, rec)
			}
			children = make([]*Node, 0, len(n.Fields))
			for _, f := range n.Fields {
				children = append(children, f.Value)
			}
		case KindArray:
			children = n.Items
		default:
			continue
		}

		// push in reverse so the first child is visited next
		for i := len(children) - 1; i >= 0; i-- {
			if children[i].Kind != KindScalar {
				stack = append(stack, children[i])
			}
		}
	}
	return records
}

func recordFromNode(n *Node, campground, source string) (models.AvailabilityRecord, bool) {
	if !hasAnyKeyFold(n, nameKeys) || !hasAnyKeyFold(n, statusKeys) {
		return models.AvailabilityRecord{}, false
	}

	unitName := "Unknown"
	for _, k := range unitNamePriority {
		if v, ok := n.Get(k); ok && v.Truthy() {
			unitName = v.Text()
			break
		}
	}

	// presence wins over truthiness: "available": false is still the status.
	// A node can qualify on a differently-cased key (e.g. "STATUS") and still have no
	// exact-cased status member, in which case the status renders as null.
	status := "null"
	for _, k := range statusPriority {
		if v, ok := n.Get(k); ok {
			status = v.Text()
			break
		}
	}

	return models.AvailabilityRecord{
		Campground: campground,
		Source:     source,
		UnitName:   unitName,
		Status:     status,
		Details:    Compact(n, MaxDetailsLength),
	}, true
}

func hasAnyKeyFold(n *Node, lowerKeys []string) bool {
	for _, k := range lowerKeys {
		if n.HasKeyFold(k) {
			return true
		}
	}
	return false
}
