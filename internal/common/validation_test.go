package common

import (
	"strings"
	"testing"
)

func TestValidateOutputFormat(t *testing.T) {
	supported := []string{"json", "text", "markdown"}

	tests := []struct {
		name    string
		format  string
		allowed []string
		wantErr bool
	}{
		{"SupportedJSON", "json", supported, false},
		{"SupportedMarkdown", "markdown", supported, false},
		{"Unsupported", "yaml", supported, true},
		{"CaseSensitive", "JSON", supported, true},
		{"EmptyFormatNotListed", "", supported, true},
		{"NoRestrictions", "anything", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOutputFormat(tt.format, tt.allowed)
			if tt.wantErr && err == nil {
				t.Errorf("Expected error for format %q", tt.format)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("Unexpected error for format %q: %v", tt.format, err)
			}
		})
	}
}

func TestValidateOutputFormatErrorNamesFormat(t *testing.T) {
	err := ValidateOutputFormat("xml", []string{"json", "text"})
	if err == nil {
		t.Fatal("Expected error for unsupported format")
	}
	if !strings.Contains(err.Error(), "xml") {
		t.Errorf("Error should name the rejected format, got %q", err.Error())
	}
	if !strings.Contains(err.Error(), "json") {
		t.Errorf("Error should list the supported formats, got %q", err.Error())
	}
}

func TestGetSupportedFormats(t *testing.T) {
	formats := []string{"json", "text"}
	got := GetSupportedFormats(formats)
	if len(got) != 2 || got[0] != "json" || got[1] != "text" {
		t.Errorf("Expected configured formats back, got %v", got)
	}
}
