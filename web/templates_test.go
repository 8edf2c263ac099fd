package web

import (
	"bytes"
	"strings"
	"testing"
)

// The form must collect every field the submission pipeline persists;
// a field that can be stored but never entered is dead weight on both ends.
func TestApplyFormCollectsAllPersistedFields(t *testing.T) {
	templates, err := Templates()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}

	shared := []string{
		"groupName", "representative", "email", "phone", "address",
		"vehicleCount", "vehicleType", "vehicleNumbers", "questions",
		"privacyConsent", "marketingConsent",
	}
	tests := []struct {
		kind   string
		fields []string
	}{
		{"performer", append([]string{
			"performance", "performerCount", "slotCount", "audioSourceOnly", "rentalAmp", "rentalMic",
		}, shared...)},
		{"stall", append([]string{
			"boothType", "items", "priceRangeMin", "priceRangeMax", "boothCount",
			"tentWidth", "tentDepth", "tentHeight", "rentalTables", "rentalChairs",
		}, shared...)},
	}
	for _, tt := range tests {
		t.Run(tt.kind, func(t *testing.T) {
			var buf bytes.Buffer
			data := map[string]any{
				"title":    "t",
				"kind":     tt.kind,
				"event":    map[string]any{"Slug": "fall-fest"},
				"formData": map[string]string{},
				"errors":   []string{},
			}
			if err := templates.ExecuteTemplate(&buf, "apply_form.html", data); err != nil {
				t.Fatalf("execute: %v", err)
			}
			html := buf.String()
			for _, field := range tt.fields {
				if !strings.Contains(html, `name="`+field+`"`) {
					t.Errorf("form for %s has no input named %q", tt.kind, field)
				}
			}
		})
	}
}

func TestRegisterFormCollectsRegistrationFields(t *testing.T) {
	templates, err := Templates()
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}

	type regData struct {
		Type, Name, OrgName, Email, Phone, Address, Notes string
		Skills, Interests                                 []string
		AgreeToTerms                                      bool
	}
	var buf bytes.Buffer
	data := map[string]any{
		"title":    "t",
		"errors":   []string{},
		"formData": regData{},
	}
	if err := templates.ExecuteTemplate(&buf, "register.html", data); err != nil {
		t.Fatalf("execute: %v", err)
	}
	html := buf.String()
	for _, field := range []string{
		"type", "name", "orgName", "email", "phone", "address",
		"skills", "interests", "notes", "agreeToTerms",
	} {
		if !strings.Contains(html, `name="`+field+`"`) {
			t.Errorf("registration form has no input named %q", field)
		}
	}
}
