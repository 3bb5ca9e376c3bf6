package langdetect

import "testing"

func TestDetectEmptyAndWhitespace(t *testing.T) {
	for _, in := range []string{"", "   ", "\t\n"} {
		if got := Detect(in); got != English {
			t.Fatalf("Detect(%q) = %s, want english", in, got)
		}
	}
}

func TestDetectNonAlphabetic(t *testing.T) {
	if got := Detect("1234 !!"); got != English {
		t.Fatalf("numeric input should fall back to english, got %s", got)
	}
}

func TestDetectEnglish(t *testing.T) {
	if got := Detect("my internet is very slow today"); got != English {
		t.Fatalf("got %s, want english", got)
	}
}

func TestDetectHindi(t *testing.T) {
	// Common Hindi phrasing; Devanagari ratio well above the cutoff.
	if got := Detect("मेरा इंटरनेट काम नहीं कर रहा है, आप क्या कर सकते हैं"); got != Hindi {
		t.Fatalf("got %s, want hindi", got)
	}
}

func TestDetectMarathi(t *testing.T) {
	// More Marathi indicator words than Hindi ones.
	if got := Detect("माझा इंटरनेट बंद आहे, मला मदत पाहिजे, काय करत येत"); got != Marathi {
		t.Fatalf("got %s, want marathi", got)
	}
}

func TestDevanagariTieResolvesToHindi(t *testing.T) {
	// One indicator word from each list, equal scores.
	if got := Detect("आहे है"); got != Hindi {
		t.Fatalf("tie should resolve to hindi, got %s", got)
	}
}

func TestLatinMajorityStaysEnglish(t *testing.T) {
	// A few Devanagari characters inside mostly-Latin text stay below the
	// script-ratio cutoff.
	if got := Detect("please check plan है for my account and billing address"); got != English {
		t.Fatalf("got %s, want english", got)
	}
}

func TestDetectDeterministic(t *testing.T) {
	in := "मेरा इंटरनेट काम नहीं कर रहा है"
	first := Detect(in)
	for i := 0; i < 5; i++ {
		if got := Detect(in); got != first {
			t.Fatalf("classification not deterministic: %s vs %s", got, first)
		}
	}
}
