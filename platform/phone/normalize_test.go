package phone

import "testing"

func TestNormalizeE164(t *testing.T) {
	cases := []struct {
		input  string
		region string
		want   string
	}{
		{"06 12 34 56 78", "FR", "+33612345678"},
		{"+33 6 12 34 56 78", "", "+33612345678"},
		{"not a number", "FR", "not a number"},
		{"   ", "FR", ""},
	}

	for _, tc := range cases {
		if got := NormalizeE164(tc.input, tc.region); got != tc.want {
			t.Fatalf("NormalizeE164(%q, %q) = %q, want %q", tc.input, tc.region, got, tc.want)
		}
	}
}

func TestNormalizeE164PtrBlankIsNil(t *testing.T) {
	blank := "  "
	if NormalizeE164Ptr(&blank, "FR") != nil {
		t.Fatal("expected blank phone to become nil")
	}
	if NormalizeE164Ptr(nil, "FR") != nil {
		t.Fatal("expected nil to stay nil")
	}
}
