package phone

import "strings"

// WhatsAppPrefix is the channel prefix used by the messaging provider.
const WhatsAppPrefix = "whatsapp:"

var stripper = strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", ".", "")

// Normalize returns the canonical "whatsapp:+<digits>" form, or "" for blank input.
func Normalize(raw string) string {
	p := strings.TrimSpace(raw)
	if p == "" {
		return ""
	}
	p = strings.TrimPrefix(p, WhatsAppPrefix)
	p = stripper.Replace(p)
	if p == "" {
		return ""
	}
	if strings.HasPrefix(p, "00") {
		p = "+" + p[2:]
	}
	if !strings.HasPrefix(p, "+") {
		p = "+" + p
	}
	return WhatsAppPrefix + p
}

// Bare strips the channel prefix.
func Bare(p string) string {
	return strings.TrimPrefix(p, WhatsAppPrefix)
}
