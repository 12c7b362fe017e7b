package project

import "testing"

func TestCanMethodHaveBody(t *testing.T) {
	tests := []struct {
		method Method
		want   bool
	}{
		{MethodGet, false},
		{MethodHead, false},
		{MethodPost, true},
		{MethodPut, true},
		{MethodPatch, true},
		{MethodDelete, true},
		{MethodOptions, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.method), func(t *testing.T) {
			if got := CanMethodHaveBody(tt.method); got != tt.want {
				t.Errorf("CanMethodHaveBody(%s) = %v, want %v", tt.method, got, tt.want)
			}
		})
	}
}

func TestParseMethod(t *testing.T) {
	tests := []struct {
		in     string
		want   Method
		wantOK bool
	}{
		{"get", MethodGet, true},
		{" PATCH ", MethodPatch, true},
		{"delete", MethodDelete, true},
		{"head", MethodHead, false},
		{"options", MethodOptions, false},
		{"TRACE", Method("TRACE"), false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseMethod(tt.in)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseMethod(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestIsRequestingToLocalhost(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"http://localhost:8080/api", true},
		{"https://localhost", true},
		{"http://127.0.0.1:3000", true},
		{"https://re.capcom.com/stars-members", false},
		{"localhost:8080", false},
	}

	for _, tt := range tests {
		if got := IsRequestingToLocalhost(tt.url); got != tt.want {
			t.Errorf("IsRequestingToLocalhost(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestExplanations(t *testing.T) {
	for _, m := range Methods {
		if MethodExplanation(m) == "" {
			t.Errorf("MethodExplanation(%s) is empty", m)
		}
	}
	if MethodExplanation("TRACE") != "" {
		t.Error("MethodExplanation(TRACE) should be empty")
	}
	if StatusText(418) != "I'm a teapot" {
		t.Errorf("StatusText(418) = %q", StatusText(418))
	}
	if StatusText(999) != "" {
		t.Errorf("StatusText(999) = %q, want empty", StatusText(999))
	}
}
