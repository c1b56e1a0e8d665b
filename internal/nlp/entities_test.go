package nlp

import (
	"reflect"
	"testing"
)

func TestExtractEntities(t *testing.T) {
	x := NewEntityExtractor(mustDefaultRules(t))

	tests := []struct {
		name string
		text string
		want Entities
	}{
		{
			name: "no entities",
			text: "Hello",
			want: Entities{},
		},
		{
			name: "tracking number",
			text: "track ABC123XY",
			want: Entities{"tracking_number": {"ABC123XY"}},
		},
		{
			name: "lower case tracking number keeps original text",
			text: "where is abc123xy",
			want: Entities{"tracking_number": {"abc123xy"}},
		},
		{
			name: "plain words are not tracking numbers",
			text: "where is my package",
			want: Entities{},
		},
		{
			name: "order follows the text",
			text: "compare CMS900001 and AB12CD34",
			want: Entities{"tracking_number": {"CMS900001", "AB12CD34"}},
		},
		{
			name: "weight and speed",
			text: "send 2.5 kg by Express",
			want: Entities{"weight": {"2.5 kg"}, "delivery_speed": {"Express"}},
		},
		{
			name: "email",
			text: "mail me at Jane.Doe@example.com",
			want: Entities{"email": {"Jane.Doe@example.com"}},
		},
		{
			name: "complaint category",
			text: "it arrived damaged and delayed",
			want: Entities{"complaint_category": {"damaged", "delayed"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := x.Extract(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Extract(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestExtractPhoneNumber(t *testing.T) {
	x := NewEntityExtractor(mustDefaultRules(t))

	got := x.Extract("call me on +91 9876543210")
	if phones := got["phone_number"]; len(phones) != 1 || phones[0] != "+91 9876543210" {
		t.Errorf("expected phone '+91 9876543210', got %v", phones)
	}
}

func TestEntitiesFirst(t *testing.T) {
	e := Entities{"tracking_number": {"A", "B"}}
	if v, ok := e.First("tracking_number"); !ok || v != "A" {
		t.Errorf("expected 'A', got '%s' (%v)", v, ok)
	}
	if _, ok := e.First("email"); ok {
		t.Error("expected no email entity")
	}
}
