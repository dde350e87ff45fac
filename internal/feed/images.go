package feed

import "strings"

// Image container names and, for object-shaped entries, the keys an inner
// URL may hide under. An entry with no matching key falls back to its own
// text node (the convention XML-to-object mappers use for mixed content).
var (
	imageContainerKeys = []string{"images", "photos", "fotky", "obrazky", "gallery", "pictures", "image", "photo", "foto"}
	imageURLKeys       = []string{"url", "link", "src", "href", "path"}
)

// collectImages gathers image URLs across all containers on the item into
// one deduplicated, feed-ordered list. Only absolute http(s) URLs survive.
func collectImages(item *xmlNode) []string {
	seen := map[string]bool{}
	var out []string

	add := func(raw string) {
		u := strings.TrimSpace(raw)
		if !strings.HasPrefix(u, "http") || seen[u] {
			return
		}
		seen[u] = true
		out = append(out, u)
	}

	for _, key := range imageContainerKeys {
		for _, c := range item.childrenNamed(key) {
			// single URL string: <image>http://...</image>
			if !c.hasElementChildren() {
				add(c.textValue())
				continue
			}
			for _, entry := range c.children {
				// array of URL strings
				if !entry.hasElementChildren() {
					if u := urlFromEntry(entry); u != "" {
						add(u)
					}
					continue
				}
				// array of objects with an inner URL
				found := false
				for _, uk := range imageURLKeys {
					if n := entry.firstChild(uk); n != nil && n.textValue() != "" {
						add(n.textValue())
						found = true
						break
					}
				}
				if !found {
					add(entry.textValue())
				}
			}
		}
	}
	return out
}

// urlFromEntry handles a leaf entry that may carry its URL as an attribute
// (<photo url="http://..."/>) or as its text node.
func urlFromEntry(entry *xmlNode) string {
	for _, uk := range imageURLKeys {
		if v := strings.TrimSpace(entry.attrs[uk]); v != "" {
			return v
		}
	}
	return entry.textValue()
}
