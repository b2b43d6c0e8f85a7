// Package i18n localizes the messages delivered with chart error events and
// parse issues.
package i18n

import (
	"strings"
	"sync"
)

// Translator retrieves localized messages for reason and issue codes.
// data fills {placeholders} in the message, for example {type} or {url}.
type Translator interface {
	Message(code string, data map[string]string) string
}

var dictionaries = map[string]map[string]string{
	"en": {
		"no_data":            "no data: set a data table or a data source URL",
		"unknown_chart_type": "unknown chart type {type}",
		"data_source_error":  "data source {url} failed: {detail}",
		"invalid_view":       "invalid view: {detail}",
		"render_error":       "rendering failed: {detail}",
		"invalid_type":       "invalid type",
		"invalid_format":     "invalid format",
		"duplicate_key":      "duplicate key",
		"parse_error":        "parse error",
		"truncated":          "truncated",
	},
	"ja": {
		"no_data":            "データがありません: データテーブルかデータソースURLを設定してください",
		"unknown_chart_type": "不明なチャート種別です: {type}",
		"data_source_error":  "データソース {url} の取得に失敗しました: {detail}",
		"invalid_view":       "ビューが不正です: {detail}",
		"render_error":       "描画に失敗しました: {detail}",
		"invalid_type":       "型が不正です",
		"invalid_format":     "形式が不正です",
		"duplicate_key":      "キーが重複しています",
		"parse_error":        "解析エラー",
		"truncated":          "打ち切られました",
	},
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	msg, ok := dictionaries[t.lang][code]
	if !ok {
		if msg, ok = dictionaries["en"][code]; !ok {
			return code
		}
	}
	if len(data) == 0 || !strings.Contains(msg, "{") {
		return msg
	}
	pairs := make([]string, 0, 2*len(data))
	for k, v := range data {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(msg)
}

var (
	mu                sync.RWMutex
	currentTranslator Translator = dictTranslator{lang: "en"}
)

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if _, ok := dictionaries[lang]; !ok {
		lang = "en"
	}
	mu.Lock()
	currentTranslator = dictTranslator{lang: lang}
	mu.Unlock()
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). nil restores English.
func SetTranslator(tr Translator) {
	if tr == nil {
		tr = dictTranslator{lang: "en"}
	}
	mu.Lock()
	currentTranslator = tr
	mu.Unlock()
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string {
	mu.RLock()
	tr := currentTranslator
	mu.RUnlock()
	return tr.Message(code, data)
}
