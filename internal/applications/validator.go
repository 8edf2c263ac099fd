package applications

import (
	"regexp"
	"strconv"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// intFields and floatFields list the optional numeric fields per kind.
// Malformed or negative values are rejected as validation errors; they are
// never silently coerced to zero or dropped.
var intFields = map[Kind][]struct{ name, label string }{
	KindPerformer: {
		{"performerCount", "出演者数"},
		{"slotCount", "希望枠数"},
		{"rentalAmp", "拡声装置レンタル数"},
		{"rentalMic", "追加マイク本数"},
		{"vehicleCount", "車両台数"},
	},
	KindStall: {
		{"priceRangeMin", "価格帯（最低）"},
		{"priceRangeMax", "価格帯（最高）"},
		{"boothCount", "希望枠数"},
		{"rentalTables", "レンタルテーブル数"},
		{"rentalChairs", "レンタル椅子数"},
		{"vehicleCount", "車両台数"},
	},
}

var floatFields = map[Kind][]struct{ name, label string }{
	KindStall: {
		{"tentWidth", "テント横幅"},
		{"tentDepth", "テント奥行"},
		{"tentHeight", "テント高さ"},
	},
}

// Validate checks a raw field map for the given kind and returns an ordered
// list of human-readable error messages. An empty list means the submission
// is valid. Pure and stateless; the application-window check lives in the
// lifecycle controller, which re-runs the gate on every request.
func Validate(kind Kind, fields Fields) []string {
	var errs []string

	if strings.TrimSpace(fields["groupName"]) == "" {
		errs = append(errs, "参加団体名は必須です")
	}
	if strings.TrimSpace(fields["representative"]) == "" {
		errs = append(errs, "代表者名は必須です")
	}
	email := strings.TrimSpace(fields["email"])
	if email == "" {
		errs = append(errs, "メールアドレスは必須です")
	} else if !emailPattern.MatchString(email) {
		errs = append(errs, "有効なメールアドレスを入力してください")
	}
	if strings.TrimSpace(fields["phone"]) == "" {
		errs = append(errs, "電話番号は必須です")
	}

	switch kind {
	case KindPerformer:
		if strings.TrimSpace(fields["performance"]) == "" {
			errs = append(errs, "出演内容は必須です")
		}
	case KindStall:
		if strings.TrimSpace(fields["boothType"]) == "" {
			errs = append(errs, "出店内容を選択してください")
		}
	}

	if !consentGiven(fields["privacyConsent"]) {
		errs = append(errs, "個人情報の利用について同意が必要です")
	}

	for _, f := range intFields[kind] {
		if _, ok, valid := parseOptionalInt(fields[f.name]); !ok && !valid {
			errs = append(errs, f.label+"は0以上の整数で入力してください")
		}
	}
	for _, f := range floatFields[kind] {
		if _, ok, valid := parseOptionalFloat(fields[f.name]); !ok && !valid {
			errs = append(errs, f.label+"は0以上の数値で入力してください")
		}
	}

	if kind == KindStall {
		min, minOK, _ := parseOptionalInt(fields["priceRangeMin"])
		max, maxOK, _ := parseOptionalInt(fields["priceRangeMax"])
		if minOK && maxOK && min > max {
			errs = append(errs, "価格帯の設定が正しくありません")
		}
	}

	return errs
}

// consentGiven normalizes the checkbox "on"/absent convention.
func consentGiven(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1":
		return true
	}
	return false
}

// parseOptionalInt parses an optional non-negative integer field.
// ok is true when a value is present and parses; valid is false only when a
// value is present but malformed or negative.
func parseOptionalInt(raw string) (value int, ok bool, valid bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, true
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, false, false
	}
	return n, true, true
}

// parseOptionalFloat parses an optional non-negative decimal field.
func parseOptionalFloat(raw string) (value float64, ok bool, valid bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, true
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 0 {
		return 0, false, false
	}
	return f, true, true
}
