package services

import (
	"strings"
	"unicode"
)

// Guardrail verdicts. Check order is fixed: injection first, abuse second,
// unparseable third. An abusive message that also looks like a menu request
// must still be deflected.
const (
	GuardClean           = "CLEAN"
	GuardPromptInjection = "PROMPT_INJECTION"
	GuardAbusive         = "ABUSIVE"
	GuardUnparseable     = "UNPARSEABLE"
)

var injectionPhrases = []string{
	"ignore previous instructions",
	"ignore all previous",
	"ignore the above",
	"disregard your instructions",
	"system prompt",
	"you are now",
	"pretend you are",
	"act as if",
	"jailbreak",
	"developer mode",
	"reveal your prompt",
}

var abusivePhrases = []string{
	"fuck", "shit", "bitch", "asshole", "bastard",
	"stupid bot", "idiot",
	// romanized hi/ne
	"madarchod", "bhosdi", "chutiya", "harami", "kutta sala",
	"muji", "randi",
}

// nepali-leaning words, script and romanized, checked before the generic
// devanagari -> hindi default
var nepaliHints = []string{
	"खानुस", "गर्नुस", "छ ", "हुन्छ", "खाना दिनुस", "तिर्छु",
	"khanus", "garnus", "dinus", "khana chha", "tirchhu", "momo chha",
}

var hindiHints = []string{
	"चाहिए", "कीजिए", "है ", "दीजिये", "करो",
	"chahiye", "kijiye", "dijiye", "karo", "khana hai", "de do",
}

type Guardrail struct{}

func NewGuardrail() *Guardrail { return &Guardrail{} }

// Classify returns the verdict plus a best-effort locale tag (en/hi/ne).
// The locale is used for the canned deflection replies and the bot's tone;
// it never changes the verdict.
func (g *Guardrail) Classify(text string) (kind string, locale string) {
	locale = DetectLocale(text)
	lower := strings.ToLower(text)

	for _, p := range injectionPhrases {
		if strings.Contains(lower, p) {
			return GuardPromptInjection, locale
		}
	}
	for _, p := range abusivePhrases {
		if strings.Contains(lower, p) {
			return GuardAbusive, locale
		}
	}
	if !parseable(text) {
		return GuardUnparseable, locale
	}
	return GuardClean, locale
}

// parseable requires at least one letter or digit in any script.
func parseable(text string) bool {
	for _, r := range strings.TrimSpace(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}

func DetectLocale(text string) string {
	lower := strings.ToLower(text)
	devanagari := false
	for _, r := range text {
		if r >= 0x0900 && r <= 0x097F {
			devanagari = true
			break
		}
	}
	for _, h := range nepaliHints {
		if strings.Contains(lower, h) {
			return "ne"
		}
	}
	for _, h := range hindiHints {
		if strings.Contains(lower, h) {
			return "hi"
		}
	}
	if devanagari {
		return "hi"
	}
	return "en"
}

var guardrailReplies = map[string]map[string]string{
	GuardPromptInjection: {
		"en": "I can only help with the menu and your order here. What would you like to eat?",
		"hi": "Main sirf menu aur aapke order mein madad kar sakta hoon. Aap kya khana chahenge?",
		"ne": "Ma menu ra tapaiko order ma matra maddat garna sakchhu. Tapai ke khana chahanu huncha?",
	},
	GuardAbusive: {
		"en": "Let's keep it friendly, please. I'm happy to help with your order.",
		"hi": "Kripya shaalinta banaye rakhein. Main aapke order mein madad karne ke liye yahan hoon.",
		"ne": "Kripaya namra bhasa prayog garnus. Ma tapaiko order ma maddat garna tayar chhu.",
	},
	GuardUnparseable: {
		"en": "Sorry, I didn't catch that. You can ask for the menu or tell me what you'd like to order.",
		"hi": "Maaf kijiye, samajh nahi aaya. Aap menu maang sakte hain ya bata sakte hain kya order karna hai.",
		"ne": "Maaf garnus, bujhina. Tapai menu sodhna saknu huncha wa ke order garne bhannus.",
	},
}

// GuardrailReply returns the canned localized deflection for a non-clean
// verdict, falling back to English.
func GuardrailReply(kind, locale string) string {
	byLocale, ok := guardrailReplies[kind]
	if !ok {
		return guardrailReplies[GuardUnparseable]["en"]
	}
	if msg, ok := byLocale[locale]; ok {
		return msg
	}
	return byLocale["en"]
}
