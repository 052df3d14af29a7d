package tools

import (
	"fmt"
	"strings"
	"unicode"
)

// NormalizeWhatsAppTo normaliza um telefone para o formato aceito pelos
// gateways de WhatsApp (apenas dígitos, formato internacional, sem '+').
//
// Heurística atual (Indonésia):
// - remove tudo que não é dígito
// - se começar com 0, troca o 0 pelo DDI 62
// - se não tiver DDI, prefixa 62
func NormalizeWhatsAppTo(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty phone")
	}

	// mantém apenas dígitos
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	phone := b.String()
	if phone == "" {
		return "", fmt.Errorf("no digits in phone %q", raw)
	}

	if strings.HasPrefix(phone, "0") {
		phone = "62" + phone[1:]
	}
	if !strings.HasPrefix(phone, "62") {
		phone = "62" + phone
	}

	// validação bem leve: DDI + número
	if len(phone) < 11 {
		return "", fmt.Errorf("invalid phone length: %d", len(phone))
	}
	return phone, nil
}

// ValidWhatsAppNumber reports whether the raw phone normalizes to a plausible
// Indonesian WhatsApp destination (62 + at least 9 digits).
func ValidWhatsAppNumber(raw string) bool {
	phone, err := NormalizeWhatsAppTo(raw)
	if err != nil {
		return false
	}
	return strings.HasPrefix(phone, "62") && len(phone) >= 11
}
