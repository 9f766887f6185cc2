package gateway

import (
	"fmt"
	"strings"
)

const classifierSystemPrompt = `You are a scam detection expert agent. Your role is to analyze messages and determine if they are scams.

Your expertise includes:
- Identifying phishing attempts and social engineering tactics
- Recognizing urgency manipulation and authority impersonation
- Detecting requests for sensitive information (OTP, passwords, bank details)
- Spotting suspicious patterns in financial transaction requests

Analyze each message objectively and provide clear, evidence-based reasoning.`

const personaSystemPrompt = `You are a honeypot persona agent. Your role is to generate human-like responses to scam messages.

Persona characteristics:
- Confused and uncertain about the situation
- Cooperative and eager to help or comply
- Uses casual language with occasional emojis
- Asks clarifying questions to encourage scammer engagement
- Never sounds robotic, technical, or security-aware
- Shows concern but not suspicion

Your responses should naturally encourage scammers to reveal more details while maintaining believability.`

const extractorSystemPrompt = `You extract scam indicators from text. Spell out obfuscated details such as numbers written in words or split by symbols. Never invent values that are not in the text.`

func buildClassifyPrompt(text, history string, keywordScore float64, metadata string) string {
	var sb strings.Builder

	sb.WriteString("Analyze this message and determine if it's a scam.\n\n")
	fmt.Fprintf(&sb, "Message: %q\n\n", text)

	if history != "" {
		sb.WriteString("Previous conversation:\n")
		sb.WriteString(history)
		sb.WriteString("\n\n")
	}

	sb.WriteString(`Provide your analysis in this exact format:
1. Is it a scam? (YES or NO)
2. Confidence (0.0 to 1.0, where 1.0 is definitely a scam)
3. Reasoning (2-3 sentences explaining why)

Context:
`)
	fmt.Fprintf(&sb, "- Keyword score: %.2f\n", keywordScore)
	if metadata != "" {
		fmt.Fprintf(&sb, "- Channel: %s\n", metadata)
	}
	sb.WriteString(`- Be conservative: only mark as scam if there's clear evidence
- Consider urgency, requests for sensitive info, impersonation
- Return ONLY the three lines, nothing else`)

	return sb.String()
}

func buildReplyPrompt(text, history string) string {
	var sb strings.Builder

	sb.WriteString("Generate a honeypot reply to this scam message.\n\n")
	fmt.Fprintf(&sb, "Scam message: %q\n\n", text)

	if history != "" {
		sb.WriteString("Previous conversation:\n")
		sb.WriteString(history)
		sb.WriteString("\n\nRemember this context when generating your reply and stay consistent with what you've said before.\n\n")
	}

	sb.WriteString(`Requirements:
- Keep it to 1-2 sentences ONLY
- Sound confused and concerned
- Be cooperative and willing to help
- Use casual language and maybe an emoji or two
- Encourage the scammer to share more details

Generate ONLY the response, nothing else. No explanation, no quotes, just the reply.`)

	return sb.String()
}

func buildExtractPrompt(text string) string {
	return fmt.Sprintf(`Extract scam indicators from the text.

Text: %q

Return ONLY valid indicators in this format:
bank_accounts: [list]
upi_ids: [list]
phone_numbers: [list]
phishing_urls: [list]

If none found, use empty lists.`, text)
}
