package sanitize

import (
	"errors"
	"regexp"
	"strings"
	"testing"

	xhtml "golang.org/x/net/html"
)

func TestRichText(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "allowed tags kept", in: "<b>bold</b> and <em>em</em>", want: "<b>bold</b> and <em>em</em>"},
		{name: "attributes stripped", in: `<p onclick="x()" class="c">hi</p>`, want: "<p>hi</p>"},
		{name: "script removed", in: `a<script>alert(1)</script>b`, want: "ab"},
		{name: "link unwrapped", in: `<a href="javascript:alert(1)">x</a>`, want: "x"},
		{name: "plain text", in: "Grow faster", want: "Grow faster"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := RichText(tc.in); got != tc.want {
				t.Errorf("RichText(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

var hostile = []string{
	`<!DOCTYPE html><html><body><script>alert(1)</script><p>ok</p></body></html>`,
	`<html><body><div onclick="steal()">x</div><img src=x onerror=alert(1)></body></html>`,
	`<html><body><a href="javascript:alert(1)">x</a><a href=" JaVaScRiPt:alert(1)">y</a></body></html>`,
	`<html><body><a href="&#106;avascript:alert(1)">z</a></body></html>`,
	`<html><body><iframe src="https://evil.example"></iframe><object data="x"><param name="a"></object><embed src="y"></body></html>`,
	`<html><body><scr<script>ipt>alert(1)</script></body></html>`,
	`<html><body><SCRIPT>alert(1)</SCRIPT><svg><script>alert(2)</script></svg></body></html>`,
	`<html><head><style>body{background:url(javascript:alert(1))}</style></head></html>`,
	`<html><body><!--<script>alert(1)</script>--></body></html>`,
	`<html><body><div style="width:expression(alert(1))">e</div></body></html>`,
	`<html><body><svg><style><a href="javascript:alert(1)" onclick="alert(1)">x</a></style></svg></body></html>`,
	`<html><body><math><style><img src=x onerror=alert(1)></style></math></body></html>`,
	`<html><body><svg><foreignObject><style><!--</style><img src=x onerror=alert(1)>--></foreignObject></svg></body></html>`,
	`<html><body><svg><a xlink:href="javascript:alert(1)"><text>t</text></a><animate attributeName="href" values="#;javascript:alert(1)"/></svg></body></html>`,
	`<html><head><meta http-equiv="refresh" content="0;url=javascript:alert(1)"></head></html>`,
}

// entityEncoded carry quotes and angle brackets inside attribute values,
// which must stay inert text after sanitizing.
var entityEncoded = []string{
	`<html><body><p title="&quot; onclick=&quot;alert(1)">x</p></body></html>`,
	`<html><body><a title="&quot;&gt;&lt;script&gt;alert(1)&lt;/script&gt;" href="/ok">x</a></body></html>`,
	`<html><body><img alt="a &amp; b &lt;c&gt;" src="/a.png" onerror="x()"></body></html>`,
}

// activeContent parses doc and lists every event handler attribute and
// script-bearing URL a browser would see.
func activeContent(t *testing.T, doc string) []string {
	t.Helper()
	root, err := xhtml.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	var found []string
	var walk func(n *xhtml.Node)
	walk = func(n *xhtml.Node) {
		if n.Type == xhtml.ElementNode {
			if n.Data == "script" || n.Data == "iframe" {
				found = append(found, "<"+n.Data+">")
			}
			for _, a := range n.Attr {
				if handlerAttr.MatchString(a.Key) || unsafeURL(a.Val) || containsUnsafeURL(a.Val) {
					found = append(found, a.Key+"="+a.Val)
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return found
}

var handlerAttr = regexp.MustCompile(`(?i)^on\w+$`)

func TestDocumentRemovesActiveContent(t *testing.T) {
	for i, in := range hostile {
		t.Run(strings.Repeat("#", i+1), func(t *testing.T) {
			got := Document(in)
			out := strings.ToLower(got)
			for _, bad := range []string{"<script", "onclick=", "onerror=", "javascript:", "<iframe", "<object", "<embed", "expression("} {
				if strings.Contains(out, bad) {
					t.Errorf("Document(%q) = %q still contains %q", in, out, bad)
				}
			}
			if found := activeContent(t, got); len(found) > 0 {
				t.Errorf("Document(%q) = %q parses with active content %v", in, got, found)
			}
		})
	}
}

func TestDocumentDecodesEntitiesBeforeJudging(t *testing.T) {
	for i, in := range entityEncoded {
		t.Run(strings.Repeat("#", i+1), func(t *testing.T) {
			got := Document(in)
			if found := activeContent(t, got); len(found) > 0 {
				t.Errorf("Document(%q) = %q parses with active content %v", in, got, found)
			}
			if strings.Contains(got, "<script") {
				t.Errorf("Document(%q) = %q produced a script tag", in, got)
			}
		})
	}

	got := Document(entityEncoded[0])
	root, err := xhtml.Parse(strings.NewReader(got))
	if err != nil {
		t.Fatal(err)
	}
	p := find(root, "p")
	if p == nil || len(p.Attr) != 1 || p.Attr[0].Key != "title" || p.Attr[0].Val != `" onclick="alert(1)` {
		t.Errorf("title text must survive as a single inert attribute: %q", got)
	}
}

func find(n *xhtml.Node, name string) *xhtml.Node {
	if n.Type == xhtml.ElementNode && n.Data == name {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if f := find(c, name); f != nil {
			return f
		}
	}
	return nil
}

func TestDocumentIdempotent(t *testing.T) {
	inputs := []string{
		`<!DOCTYPE html><html><head><style>a > b { color: red; }</style></head><body><p class="x">Hello &amp; bye</p></body></html>`,
	}
	inputs = append(inputs, hostile...)
	inputs = append(inputs, entityEncoded...)
	for _, in := range inputs {
		once := Document(in)
		twice := Document(once)
		if once != twice {
			t.Errorf("not idempotent:\nonce:  %q\ntwice: %q", once, twice)
		}
	}
}

func TestDocumentKeepsSafeMarkup(t *testing.T) {
	in := `<!DOCTYPE html>
<html lang="ja">
<head><meta charset="utf-8"><style>.hero > h1 { color: #2563EB; }</style></head>
<body><section class="hero"><h1>Grow<br>Faster</h1><a href="https://example.com" class="cta">Start</a><img src="data:image/png;base64,AAAA"></section></body>
</html>`
	got := Document(in)
	for _, want := range []string{
		"<!DOCTYPE html>",
		`<html lang="ja">`,
		`<meta charset="utf-8"/>`,
		`<style>.hero > h1 { color: #2563EB; }</style>`,
		`<section class="hero"><h1>Grow<br/>Faster</h1>`,
		`<a href="https://example.com" class="cta">Start</a>`,
		`<img src="data:image/png;base64,AAAA"/>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("safe markup %q lost:\n%s", want, got)
		}
	}
}

func TestDocumentRewritesOnlyDirtyAttributes(t *testing.T) {
	in := `<html><body><a class="c" onclick="x()" href="/ok">go</a></body></html>`
	want := `<html><head></head><body><a class="c" href="/ok">go</a></body></html>`
	if got := Document(in); got != want {
		t.Errorf("Document() = %q, want %q", got, want)
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		max     int
		wantErr error
		base64  int
	}{
		{name: "valid doctype", doc: "<!DOCTYPE html><html></html>"},
		{name: "valid html only", doc: "<HTML><body></body></HTML>"},
		{name: "empty", doc: "   ", wantErr: ErrEmptyDocument},
		{name: "fragment", doc: "<div>hi</div>", wantErr: ErrNotHTMLDocument},
		{name: "too large", doc: "<html>" + strings.Repeat("a", 100) + "</html>", max: 50, wantErr: ErrDocumentTooLarge},
		{name: "base64 warning", doc: `<html><img src="data:image/png;base64,AAA"><img src="data:image/jpeg;base64,BBB"></html>`, base64: 2},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r, err := Check(tc.doc, tc.max)
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("Check() error = %v, want %v", err, tc.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Check() unexpected error: %v", err)
			}
			if r.Base64Images != tc.base64 {
				t.Errorf("Base64Images = %d, want %d", r.Base64Images, tc.base64)
			}
			if (tc.base64 > 0) != (len(r.Warnings) > 0) {
				t.Errorf("Warnings = %v", r.Warnings)
			}
		})
	}
}

func TestUGC(t *testing.T) {
	got := UGC(`<p>ok <a href="https://example.com">link</a></p><script>x</script>`)
	if strings.Contains(got, "<script") || !strings.Contains(got, "https://example.com") {
		t.Errorf("UGC() = %q", got)
	}
}

func TestIsCSSColor(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"#2563EB", true},
		{"#fff", true},
		{"#2563EB80", true},
		{"rgb(37, 99, 235)", true},
		{"rgba(37,99,235,0.5)", true},
		{"white", true},
		{"", false},
		{"#12345", false},
		{"red;background:url(x)", false},
		{"expression(alert(1))", false},
		{"</style>", false},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			if got := IsCSSColor(tc.in); got != tc.want {
				t.Errorf("IsCSSColor(%q) = %v, want %v", tc.in, got, tc.want)
			}
		})
	}
}
