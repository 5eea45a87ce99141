package checks

import (
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantOK  bool
		wantMsg string
	}{
		{"https accepted", "https://example.com/landing?x=1", true, ""},
		{"http accepted", "http://example.com", true, ""},
		{"scheme is case-insensitive", "HTTPS://Example.com", true, ""},
		{"empty", "", false, "URL is required"},
		{"missing scheme", "example.com", false, "URL must start with http:// or https://"},
		{"ftp rejected", "ftp://example.com", false, "URL must start with http:// or https://"},
		{"missing host", "https://", false, "URL must include a domain name"},
		{"space in path", "https://example.com/a b", false, "URL cannot contain spaces"},
		{"space in host", "https://exa mple.com", false, "URL cannot contain spaces"},
		{"double scheme", "https://example.com/https://other.com", false, "URL has malformed protocol"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, msg := ValidateURL(tt.url)
			if ok != tt.wantOK {
				t.Fatalf("ValidateURL(%q) ok = %v, want %v (msg %q)", tt.url, ok, tt.wantOK, msg)
			}
			if msg != tt.wantMsg {
				t.Errorf("ValidateURL(%q) msg = %q, want %q", tt.url, msg, tt.wantMsg)
			}
		})
	}
}

func TestCheckURLLength(t *testing.T) {
	if ok, _ := CheckURLLength("https://a.io", 12); !ok {
		t.Error("URL at the limit should pass")
	}
	ok, msg := CheckURLLength("https://a.io/x", 12)
	if ok {
		t.Fatal("URL over the limit should fail")
	}
	if msg != "URL is 14 characters, maximum is 12" {
		t.Errorf("msg = %q", msg)
	}
}

func TestExtractDomain(t *testing.T) {
	if got := ExtractDomain("https://shop.example.com/p?q=1"); got != "shop.example.com" {
		t.Errorf("ExtractDomain() = %q", got)
	}
	if got := ExtractDomain("::bad"); got != "" {
		t.Errorf("ExtractDomain(bad) = %q, want empty", got)
	}
}

func ptr(f float64) *float64 { return &f }

func TestValidateNumberRange(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		min     *float64
		max     *float64
		wantOK  bool
		wantMsg string
	}{
		{"float in range", 50.0, ptr(10), ptr(100), true, ""},
		{"numeric string", " 25 ", ptr(10), nil, true, ""},
		{"no bounds", "7", nil, nil, true, ""},
		{"below minimum", 5.0, ptr(10), nil, false, "Value 5 is below minimum of 10"},
		{"above maximum", "150.5", nil, ptr(100), false, "Value 150.5 exceeds maximum of 100"},
		{"text is not numeric", "abc", nil, nil, false, "'abc' is not a valid number"},
		{"empty string is not numeric", "", nil, nil, false, "'' is not a valid number"},
		{"nil is not numeric", nil, nil, nil, false, "'' is not a valid number"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, msg := ValidateNumberRange(tt.value, tt.min, tt.max)
			if ok != tt.wantOK || msg != tt.wantMsg {
				t.Errorf("ValidateNumberRange(%v) = (%v, %q), want (%v, %q)", tt.value, ok, msg, tt.wantOK, tt.wantMsg)
			}
		})
	}
}

func TestCheckCapitalization(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantOK     bool
		wantPrefix string
	}{
		{"sentence case", "Save big on shoes", true, ""},
		{"no letters", "12345 !!", true, ""},
		{"mostly caps", "BIG SALE now", false, "Excessive capitalization (70% uppercase)"},
		{"all caps", "ALL CAPS HEADLINE", false, "Excessive capitalization (100% uppercase)"},
		{"short acronym passes ratio check", "Buy", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, msg := CheckCapitalization(tt.text, DefaultMaxCapsRatio)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v (msg %q)", ok, tt.wantOK, msg)
			}
			if !strings.HasPrefix(msg, tt.wantPrefix) {
				t.Errorf("msg = %q, want prefix %q", msg, tt.wantPrefix)
			}
		})
	}
}

func TestCheckCapitalization_AllCapsBelowRatioThreshold(t *testing.T) {
	ok, msg := CheckCapitalization("LOUD", 1.0)
	if ok {
		t.Fatal("all caps with > 3 letters should fail even at ratio 1.0")
	}
	if msg != "ALL CAPS text may be rejected or perform poorly" {
		t.Errorf("msg = %q", msg)
	}
	if ok, _ := CheckCapitalization("ABC", 1.0); !ok {
		t.Error("three letters of caps should pass at ratio 1.0")
	}
}

func TestCheckSpecialCharacters(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		prohibited []string
		wantOK     bool
		wantMsg    string
	}{
		{"clean", "Learn more today", []string{"<", ">"}, true, ""},
		{"prohibited found in declared order", "a > b < c", []string{"<", ">"}, false, "Contains prohibited characters: <, >"},
		{"two marks allowed", "Really?!", nil, true, ""},
		{"three marks flagged", "Test Campaign!!!", nil, false, "Excessive punctuation (3 exclamation/question marks). Use sparingly for better performance"},
		{"asterisks count", "*** Sale", nil, false, "Excessive punctuation (3 exclamation/question marks). Use sparingly for better performance"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, msg := CheckSpecialCharacters(tt.text, tt.prohibited, DefaultMaxPunctuation)
			if ok != tt.wantOK || msg != tt.wantMsg {
				t.Errorf("got (%v, %q), want (%v, %q)", ok, msg, tt.wantOK, tt.wantMsg)
			}
		})
	}
}

func TestCheckEncoding(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantOK   bool
		contains []string
	}{
		{"plain ascii", `Say "hello" it's fine`, true, nil},
		{"smart quotes", "\u201cHello\u201d", false, []string{"smart quotes"}},
		{"zero width", "Hel\u200blo", false, []string{"zero-width"}},
		{"nbsp and smart apostrophe", "It\u2019s\u00a0here", false, []string{"smart quotes", "non-breaking spaces"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ok, msg := CheckEncoding(tt.text)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			for _, want := range tt.contains {
				if !strings.Contains(msg, want) {
					t.Errorf("msg %q missing %q", msg, want)
				}
			}
		})
	}
}

func TestCheckEmoji(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantCount int
		wantOK    bool
	}{
		{"none", "Plain text", 0, true},
		{"three separate", "\U0001F600 a \U0001F680 b \U0001F525", 3, true},
		{"four separate", "\U0001F600 a \U0001F680 b \U0001F525 c \U0001F389", 4, false},
		{"adjacent emoji form one run", "\U0001F600\U0001F601\U0001F602\U0001F603", 1, true},
		{"dingbat check mark", "Done \u2705", 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountEmoji(tt.text); got != tt.wantCount {
				t.Errorf("CountEmoji() = %d, want %d", got, tt.wantCount)
			}
			ok, _ := CheckEmoji(tt.text, DefaultMaxEmoji)
			if ok != tt.wantOK {
				t.Errorf("CheckEmoji() ok = %v, want %v", ok, tt.wantOK)
			}
		})
	}
}

func TestValidateImageFormat(t *testing.T) {
	valid := []string{"hero.jpg", "HERO.JPEG", "https://cdn.example.com/a.png", "anim.gif", ""}
	for _, name := range valid {
		if ok, msg := ValidateImageFormat(name); !ok {
			t.Errorf("ValidateImageFormat(%q) failed: %s", name, msg)
		}
	}
	invalid := []string{"hero.webp", "hero.bmp", "hero"}
	for _, name := range invalid {
		if ok, _ := ValidateImageFormat(name); ok {
			t.Errorf("ValidateImageFormat(%q) passed, want failure", name)
		}
	}
}

func TestValidateVideoFormat(t *testing.T) {
	if ok, _ := ValidateVideoFormat("spot.MP4"); !ok {
		t.Error("spot.MP4 should pass")
	}
	if ok, _ := ValidateVideoFormat("clip.avi"); !ok {
		t.Error("clip.avi should pass")
	}
	ok, msg := ValidateVideoFormat("spot.mkv")
	if ok {
		t.Fatal("spot.mkv should fail")
	}
	if msg != "Video must be MP4, MOV, or AVI format" {
		t.Errorf("msg = %q", msg)
	}
}

func TestExtractDimensions(t *testing.T) {
	w, h, ok := ExtractDimensions("banner_1200x628.png")
	if !ok || w != 1200 || h != 628 {
		t.Errorf("ExtractDimensions() = (%d, %d, %v)", w, h, ok)
	}
	if _, _, ok := ExtractDimensions("banner.png"); ok {
		t.Error("expected no dimensions")
	}
}
