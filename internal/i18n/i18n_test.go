package i18n

import "testing"

func TestNegotiate(t *testing.T) {
	tests := []struct {
		name     string
		lang     string
		accept   string
		fallback string
		want     string
	}{
		{name: "explicit english", lang: "en", accept: "zh-CN", fallback: Chinese, want: English},
		{name: "explicit region", lang: "en-GB", fallback: Chinese, want: English},
		{name: "explicit chinese", lang: "zh-CN", fallback: English, want: Chinese},
		{name: "header only", accept: "en-US,en;q=0.9", fallback: Chinese, want: English},
		{name: "header weighted", accept: "fr;q=0.9,zh-CN;q=0.8", fallback: English, want: Chinese},
		{name: "garbage lang uses header", lang: "???", accept: "en", fallback: Chinese, want: English},
		{name: "nothing uses fallback", fallback: English, want: English},
		{name: "unknown fallback is chinese", fallback: "de", want: Chinese},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Negotiate(tt.lang, tt.accept, tt.fallback); got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestT(t *testing.T) {
	if got := T(English, "LINK_USED"); got != "this survey link has already been used" {
		t.Errorf("Unexpected english message %q", got)
	}
	if got := T(Chinese, "TOO_FEW_ROWS", 2); got != "至少需要填写 2 行" {
		t.Errorf("Unexpected chinese message %q", got)
	}
	if got := T(English, "label.row", 3); got != "Row 3" {
		t.Errorf("Expected Row 3, got %q", got)
	}
	if got := T(Chinese, "SOMETHING_NEW"); got != "SOMETHING_NEW" {
		t.Errorf("Expected key fallback, got %q", got)
	}
}

func TestMessagesComplete(t *testing.T) {
	for key := range messages[English] {
		if _, ok := messages[Chinese][key]; !ok {
			t.Errorf("Missing chinese translation for %s", key)
		}
	}
}
