package sanitize

import (
	"regexp"
	"strings"

	xhtml "golang.org/x/net/html"
)

// blockedElements are removed together with everything they contain, in
// any namespace.
var blockedElements = map[string]bool{
	"script":   true,
	"iframe":   true,
	"embed":    true,
	"object":   true,
	"applet":   true,
	"frame":    true,
	"frameset": true,
	"base":     true,
	"noscript": true,
}

var urlAttributes = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"formaction": true,
	"data":       true,
	"poster":     true,
	"background": true,
	"codebase":   true,
	"cite":       true,
	"srcdoc":     true,
}

// animationAttributes carry values that SVG animations can assign to href.
var animationAttributes = map[string]bool{
	"values": true,
	"to":     true,
	"from":   true,
	"by":     true,
}

var dangerousCSS = regexp.MustCompile(`(?i)javascript:|expression\s*\(|-moz-binding|behavior\s*:`)

// maxPasses bounds the parse and render rounds Document runs before giving
// up on a document whose serialization keeps changing.
const maxPasses = 4

// emptyDocument replaces input that never settles.
const emptyDocument = "<!DOCTYPE html><html><head></head><body></body></html>"

// Document removes active content from a full HTML document: script,
// iframe, embed, object and noscript elements (plus legacy frame, applet and
// base), comments, every on* event attribute, script-bearing URLs and CSS
// expressions.
//
// The document is parsed into a tree the way a browser parses it, so
// attribute values are judged after entity decoding and elements inside
// svg and math keep their foreign-content structure. The cleaned tree is
// rendered and parsed again until the output no longer changes, which
// makes Document idempotent.
func Document(doc string) string {
	out := doc
	for i := 0; i < maxPasses; i++ {
		next, err := cleanOnce(out)
		if err != nil {
			return emptyDocument
		}
		if next == out {
			return next
		}
		out = next
	}
	return emptyDocument
}

func cleanOnce(doc string) (string, error) {
	root, err := xhtml.Parse(strings.NewReader(doc))
	if err != nil {
		return "", err
	}
	scrub(root)
	var b strings.Builder
	b.Grow(len(doc))
	if err := xhtml.Render(&b, root); err != nil {
		return "", err
	}
	return b.String(), nil
}

func scrub(n *xhtml.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		switch c.Type {
		case xhtml.CommentNode:
			n.RemoveChild(c)
		case xhtml.ElementNode:
			switch {
			case removable(c):
				n.RemoveChild(c)
			case strings.ContainsAny(c.Data, "<>\"'=/"):
				next = unwrap(n, c)
			default:
				c.Attr = cleanAttributes(c.Attr)
				scrub(c)
			}
		case xhtml.TextNode:
			if n.Type == xhtml.ElementNode && n.Data == "style" {
				c.Data = stripCSS(c.Data)
			}
		default:
			scrub(c)
		}
		c = next
	}
}

func removable(n *xhtml.Node) bool {
	name := strings.ToLower(n.Data)
	if blockedElements[name] {
		return true
	}
	if name == "meta" {
		for _, a := range n.Attr {
			if strings.EqualFold(a.Key, "http-equiv") && strings.EqualFold(strings.TrimSpace(a.Val), "refresh") {
				return true
			}
		}
	}
	return false
}

// unwrap replaces n with its children and returns the node to visit next.
func unwrap(parent, n *xhtml.Node) *xhtml.Node {
	first := n.FirstChild
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		parent.InsertBefore(c, n)
		c = next
	}
	after := n.NextSibling
	parent.RemoveChild(n)
	if first != nil {
		return first
	}
	return after
}

func cleanAttributes(attrs []xhtml.Attribute) []xhtml.Attribute {
	kept := attrs[:0]
	for _, a := range attrs {
		k := strings.ToLower(a.Key)
		switch {
		case strings.HasPrefix(k, "on"):
		case urlAttributes[k] && unsafeURL(a.Val):
		case animationAttributes[k] && containsUnsafeURL(a.Val):
		case k == "style" && dangerousCSS.MatchString(a.Val):
		default:
			kept = append(kept, a)
		}
	}
	return kept
}

// unsafeURL reports whether a URL uses a scheme that executes code. Control
// characters and whitespace are ignored the way browsers ignore them.
func unsafeURL(v string) bool {
	u := compactURL(v)
	return strings.HasPrefix(u, "javascript:") ||
		strings.HasPrefix(u, "vbscript:") ||
		strings.HasPrefix(u, "data:text/html")
}

func containsUnsafeURL(v string) bool {
	u := compactURL(v)
	return strings.Contains(u, "javascript:") ||
		strings.Contains(u, "vbscript:") ||
		strings.Contains(u, "data:text/html")
}

func compactURL(v string) string {
	return strings.Map(func(r rune) rune {
		if r <= ' ' {
			return -1
		}
		return r
	}, strings.ToLower(v))
}

func stripCSS(s string) string {
	for dangerousCSS.MatchString(s) {
		s = dangerousCSS.ReplaceAllString(s, "")
	}
	return s
}
