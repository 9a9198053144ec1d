package i18n

// Translator retrieves localized messages for Issue codes.
// data provides optional metadata to embed in the message (for example,
// "expected", "got" or "key").
type Translator interface {
	Message(code string, data map[string]string) string
}

// dictTranslator is the built-in dictionary-based Translator.
type dictTranslator struct{ lang string }

func (t dictTranslator) Message(code string, data map[string]string) string {
	switch t.lang {
	case "ja":
		switch code {
		case "invalid_type":
			if data["expected"] != "" {
				return data["expected"] + " を期待しましたが " + data["got"] + " でした"
			}
			return "型が不正です"
		case "invalid_literal":
			if data["expected"] != "" {
				return "リテラル " + data["expected"] + " を期待しました"
			}
			return "リテラル値が一致しません"
		case "required":
			if data["key"] != "" {
				return "必須プロパティ \"" + data["key"] + "\" が不足しています"
			}
			return "必須プロパティが不足しています"
		case "unknown_key":
			if data["key"] != "" {
				return "宣言されていないプロパティ \"" + data["key"] + "\" です"
			}
			return "未知のキーです"
		case "arity_mismatch":
			if data["expected"] != "" {
				return "タプル長が不正です (期待 " + data["expected"] + ", 実際 " + data["got"] + ")"
			}
			return "タプル長が不正です"
		case "union_mismatch":
			return "どのユニオンメンバーにも一致しません"
		case "unreachable":
			return "never 型に値は存在しません"
		}
	default: // "en"
		switch code {
		case "invalid_type":
			if data["expected"] != "" {
				return "expected " + data["expected"] + ", got " + data["got"]
			}
			return "invalid type"
		case "invalid_literal":
			if data["expected"] != "" {
				return "expected literal " + data["expected"] + ", got " + data["got"]
			}
			return "literal value does not match"
		case "required":
			if data["key"] != "" {
				return "missing required property \"" + data["key"] + "\""
			}
			return "required property missing"
		case "unknown_key":
			if data["key"] != "" {
				return "superfluous property \"" + data["key"] + "\""
			}
			return "superfluous property"
		case "arity_mismatch":
			if data["expected"] != "" {
				return "tuple arity mismatch: expected " + data["expected"] + ", got " + data["got"]
			}
			return "tuple arity mismatch"
		case "union_mismatch":
			return "no union member matched"
		case "unreachable":
			return "no value inhabits never"
		}
	}
	return code
}

var currentTranslator Translator = dictTranslator{lang: "en"}

// SetLanguage switches the built-in Translator language ("en"/"ja").
func SetLanguage(lang string) {
	if lang != "ja" {
		lang = "en"
	}
	currentTranslator = dictTranslator{lang: lang}
}

// SetTranslator replaces the Translator implementation (not limited to the
// dictionary version). Passing nil restores the default English dictionary.
func SetTranslator(tr Translator) {
	if tr == nil {
		currentTranslator = dictTranslator{lang: "en"}
		return
	}
	currentTranslator = tr
}

// T fetches a message for the given code using the current Translator.
func T(code string, data map[string]string) string { return currentTranslator.Message(code, data) }
