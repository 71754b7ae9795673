package textproc

import (
	"reflect"
	"testing"

	"github.com/kirillkom/x-sentiment/internal/core/domain"
)

func TestCleanText(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "Harga BBM naik!!! https://t.co/xyz @pertamina #BBM", want: "harga bbm naik"},
		{in: "Café <b>enak</b> &amp; murah www.example.com", want: "cafe enak murah"},
		{in: "  Mantap,   jiwa... 100%  ", want: "mantap jiwa 100"},
		{in: "", want: ""},
	}
	for _, tt := range tests {
		if got := CleanText(tt.in); got != tt.want {
			t.Fatalf("CleanText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPreprocessDeduplicatesAndNormalizesSlang(t *testing.T) {
	posts := []domain.Post{
		{FullText: "BBM naik bgt, ga kuat yg kecil"},
		{FullText: "BBM naik bgt, ga kuat yg kecil"},
		{FullText: "santuy aja"},
	}
	out := NewPreprocessor().Preprocess(posts)
	if len(out) != 2 {
		t.Fatalf("expected duplicates to be dropped, got %d rows", len(out))
	}
	want := []string{"bbm", "naik", "banget", "tidak", "kuat", "yang", "kecil"}
	if !reflect.DeepEqual(out[0].Tokens, want) {
		t.Fatalf("unexpected tokens: %v", out[0].Tokens)
	}
	if out[1].CleanText != "santai saja" {
		t.Fatalf("unexpected clean text: %q", out[1].CleanText)
	}
	if out[0].FullText != posts[0].FullText {
		t.Fatalf("expected original text to be kept")
	}
}

func TestStemEnglish(t *testing.T) {
	got := StemEnglish("The prices are rising about the ministries.")
	if got != "price rise ministri" {
		t.Fatalf("unexpected stemmed text: %q", got)
	}
}

func TestStemWordPorter2(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "walked", want: "walk"},
		{in: "running", want: "run"},
		{in: "happiness", want: "happi"},
		{in: "ministries", want: "ministri"},
		{in: "class", want: "class"},
	}
	for _, tt := range tests {
		if got := StemWord(tt.in); got != tt.want {
			t.Fatalf("StemWord(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
