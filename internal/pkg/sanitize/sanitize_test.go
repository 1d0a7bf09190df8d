package sanitize

import "testing"

func TestText(t *testing.T) {
	cases := map[string]string{
		"Helados":                               "Helados",
		"  Frutas & Verduras ":                  "Frutas & Verduras",
		"<b>Oferta</b>":                         "Oferta",
		`Hola<script>alert("x")</script> mundo`: "Hola mundo",
	}
	for in, want := range cases {
		if got := Text(in); got != want {
			t.Errorf("Text(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRichText_DropsScripts(t *testing.T) {
	got := RichText(`<p onclick="steal()">Rico <em>y</em> fresco</p><script>x()</script>`)
	want := `<p>Rico <em>y</em> fresco</p>`
	if got != want {
		t.Fatalf("RichText = %q, want %q", got, want)
	}
}

func TestURL(t *testing.T) {
	if URL(" https://cdn.shop.test/a.png ") != "https://cdn.shop.test/a.png" {
		t.Fatalf("https URL must pass")
	}
	if URL("javascript:alert(1)") != "" {
		t.Fatalf("javascript URL must be dropped")
	}
}
