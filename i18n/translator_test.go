package i18n

import "testing"

func TestTranslator_DefaultAndJapanese(t *testing.T) {
	// default is en
	if msg := T("no_data", nil); msg == "no_data" || msg == "" {
		t.Fatalf("expected a human message, got %q", msg)
	}

	SetLanguage("ja")
	defer SetLanguage("en")
	if msg := T("unknown_chart_type", map[string]string{"type": "Foo"}); msg != "不明なチャート種別です: Foo" {
		t.Fatalf("expected japanese message, got %q", msg)
	}
}

func TestTranslator_Placeholders(t *testing.T) {
	msg := T("data_source_error", map[string]string{"url": "http://x", "detail": "timeout"})
	if msg != "data source http://x failed: timeout" {
		t.Fatalf("unexpected: %q", msg)
	}
}

func TestTranslator_UnknownCodeEchoes(t *testing.T) {
	if msg := T("no_such_code", nil); msg != "no_such_code" {
		t.Fatalf("unexpected: %q", msg)
	}
}

type upper struct{}

func (upper) Message(code string, _ map[string]string) string { return "X:" + code }

func TestSetTranslator(t *testing.T) {
	SetTranslator(upper{})
	defer SetTranslator(nil)
	if msg := T("render_error", nil); msg != "X:render_error" {
		t.Fatalf("unexpected: %q", msg)
	}
}
