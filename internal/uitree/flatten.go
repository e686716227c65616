package uitree

// NodeSummary is a flat, serializable row for hierarchy listings.
type NodeSummary struct {
	Text        string `yaml:"text,omitempty"         json:"text,omitempty"`
	ResourceID  string `yaml:"resource_id,omitempty"  json:"resource_id,omitempty"`
	Class       string `yaml:"class,omitempty"        json:"class,omitempty"`
	ContentDesc string `yaml:"content_desc,omitempty" json:"content_desc,omitempty"`
	Clickable   bool   `yaml:"clickable,omitempty"    json:"clickable,omitempty"`
	Bounds      string `yaml:"bounds,omitempty"       json:"bounds,omitempty"`
	Center      *Point `yaml:"center,omitempty"       json:"center,omitempty"`
}

// Flatten walks the hierarchy in document order and returns one row per
// node. With onlyInteresting set, rows are limited to nodes that carry
// text, a resource-id, or clickable=true; bare layout containers are
// dropped. Centers are included only for parseable bounds.
func Flatten(h *Hierarchy, onlyInteresting bool) []NodeSummary {
	var out []NodeSummary
	var walk func(nodes []Node)
	walk = func(nodes []Node) {
		for i := range nodes {
			n := &nodes[i]
			interesting := n.Text != "" || n.ResourceID != "" || n.Clickable == "true"
			if !onlyInteresting || interesting {
				s := NodeSummary{
					Text:        n.Text,
					ResourceID:  n.ResourceID,
					Class:       n.Class,
					ContentDesc: n.ContentDesc,
					Clickable:   n.Clickable == "true",
					Bounds:      n.Bounds,
				}
				if r, err := ParseBounds(n.Bounds); err == nil {
					c := r.Center()
					s.Center = &c
				}
				out = append(out, s)
			}
			walk(n.Nodes)
		}
	}
	walk(h.Nodes)
	return out
}
