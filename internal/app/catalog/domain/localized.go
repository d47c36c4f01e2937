package domain

import "sort"

// DefaultLanguage is used when a caller does not ask for a specific language
// and when a requested translation is missing.
const DefaultLanguage = "en"

// LocalizedText holds one string per language code.
type LocalizedText map[string]string

// Text builds a LocalizedText holding a single default-language value.
func Text(s string) LocalizedText {
	if s == "" {
		return LocalizedText{}
	}
	return LocalizedText{DefaultLanguage: s}
}

// In returns the text for lang, falling back to the default language and then
// to the first non-empty translation in key order.
func (t LocalizedText) In(lang string) string {
	if v := t[lang]; v != "" {
		return v
	}
	if v := t[DefaultLanguage]; v != "" {
		return v
	}
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if t[k] != "" {
			return t[k]
		}
	}
	return ""
}

// Values returns every non-empty translation.
func (t LocalizedText) Values() []string {
	out := make([]string, 0, len(t))
	for _, v := range t {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
