package sanitize

import "testing"

func TestTextStripsTagsAndEncodedTags(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Belle   <b>lumière</b>", "Belle lumière"},
		{"&lt;script&gt;alert(1)&lt;/script&gt;ok", "alert(1)ok"},
		{"  plain  ", "plain"},
	}
	for _, tc := range cases {
		if got := Text(tc.in); got != tc.want {
			t.Fatalf("Text(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTextPtr(t *testing.T) {
	empty := "<p></p>"
	if TextPtr(&empty) != nil {
		t.Fatal("expected empty markup to become nil")
	}
	if TextPtr(nil) != nil {
		t.Fatal("expected nil to stay nil")
	}
}
