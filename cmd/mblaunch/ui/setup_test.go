package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func typeString(m SetupModel, s string) SetupModel {
	for _, r := range s {
		next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = next.(SetupModel)
	}
	return m
}

func pressEnter(m SetupModel) SetupModel {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next.(SetupModel)
}

func TestWizardHappyPath(t *testing.T) {
	m := NewSetup(nil)

	m = typeString(m, "https://myschool.managebac.cn")
	m = pressEnter(m)
	m = typeString(m, "student@school.org")
	m = pressEnter(m)
	m = typeString(m, "hunter2")
	m = pressEnter(m)

	if !m.Done() || m.Aborted() {
		t.Fatalf("wizard state: done=%v aborted=%v err=%q", m.Done(), m.Aborted(), m.errMsg)
	}
	values := m.Values()
	if values["MANAGEBAC_URL"] != "https://myschool.managebac.cn" {
		t.Fatalf("url = %q", values["MANAGEBAC_URL"])
	}
	if values["MANAGEBAC_PASSWORD"] != "hunter2" {
		t.Fatalf("password = %q", values["MANAGEBAC_PASSWORD"])
	}
}

func TestWizardBlocksInvalidField(t *testing.T) {
	m := NewSetup(nil)

	m = typeString(m, "not a url")
	m = pressEnter(m)

	if m.focus != 0 {
		t.Fatal("invalid URL must keep focus on the URL field")
	}
	if m.errMsg == "" {
		t.Fatal("expected a validation message")
	}
	if m.Done() {
		t.Fatal("wizard must not finish with an invalid field")
	}
}

func TestWizardEscAborts(t *testing.T) {
	m := NewSetup(nil)
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(SetupModel)
	if !m.Aborted() {
		t.Fatal("esc must abort")
	}
}

func TestWizardPrefillSkipsPlaceholders(t *testing.T) {
	m := NewSetup(map[string]string{
		"MANAGEBAC_URL":   "https://real.managebac.cn",
		"MANAGEBAC_EMAIL": "your.email@example.com",
	})
	if got := m.inputs[0].Value(); got != "https://real.managebac.cn" {
		t.Fatalf("url prefill = %q", got)
	}
	if got := m.inputs[1].Value(); got != "" {
		t.Fatalf("placeholder email must not be prefilled, got %q", got)
	}
}

func TestWizardViewMasksPassword(t *testing.T) {
	m := NewSetup(nil)
	m, _ = m.setFocus(2)
	m = typeString(m, "secret")
	if view := m.View(); strings.Contains(view, "secret") {
		t.Fatal("password must not appear in the view")
	}
}

func TestFieldValidators(t *testing.T) {
	cases := []struct {
		name     string
		validate func(string) error
		value    string
		wantErr  bool
	}{
		{"url ok", ValidateURL, "https://x.managebac.cn", false},
		{"url com ok", ValidateURL, "https://x.managebac.com", false},
		{"url empty", ValidateURL, "", true},
		{"url placeholder", ValidateURL, "https://your-school.managebac.cn", true},
		{"url no scheme", ValidateURL, "x.managebac.cn", true},
		{"url wrong host", ValidateURL, "https://example.com", true},
		{"email ok", ValidateEmail, "a@b.com", false},
		{"email placeholder", ValidateEmail, "your.email@example.com", true},
		{"email no at", ValidateEmail, "nope", true},
		{"email trailing at", ValidateEmail, "nope@", true},
		{"password ok", ValidatePassword, "hunter2", false},
		{"password empty", ValidatePassword, "", true},
		{"password placeholder", ValidatePassword, "your_password", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.validate(tc.value)
			if (err != nil) != tc.wantErr {
				t.Fatalf("validate(%q) err=%v, wantErr=%v", tc.value, err, tc.wantErr)
			}
		})
	}
}
